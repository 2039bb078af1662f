package httpfetch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/quadrant-ai/quadrant/tools/web_fetch/models"
)

// Fetch retrieves a URL with a plain HTTP GET. It is the fetcher used for
// raw data payloads, where no JavaScript rendering or article extraction is
// wanted and the body should come back verbatim.
type Fetch struct {
	Timeout  time.Duration
	MaxChars int
	Client   *http.Client // overridden in tests
}

func (f Fetch) Exec(ctx context.Context, url string) (models.Result, error) {
	if strings.TrimSpace(url) == "" {
		return models.Result{}, errors.New("invalid url")
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()
	t0 := time.Now()

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return models.Result{}, err
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return models.Result{URL: url, Status: 599, RenderMS: int(time.Since(t0) / time.Millisecond)}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.Result{URL: url, Status: resp.StatusCode, RenderMS: int(time.Since(t0) / time.Millisecond)},
			errors.New("unexpected status " + resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Result{URL: url, Status: resp.StatusCode, RenderMS: int(time.Since(t0) / time.Millisecond)}, err
	}

	text := string(body)
	if f.MaxChars > 0 && len(text) > f.MaxChars {
		text = text[:f.MaxChars]
	}

	sum := sha1.Sum(body)
	return models.Result{
		URL:      url,
		Text:     text,
		HTMLHash: hex.EncodeToString(sum[:]),
		Status:   resp.StatusCode,
		RenderMS: int(time.Since(t0) / time.Millisecond),
	}, nil
}
