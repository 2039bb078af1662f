package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quadrant-ai/quadrant/internal/format"
	"github.com/quadrant-ai/quadrant/models"
	"github.com/quadrant-ai/quadrant/provider"
	"github.com/quadrant-ai/quadrant/tools/web_fetch"
	"github.com/quadrant-ai/quadrant/tools/web_fetch/httpfetch"
)

const (
	fetchTimeout = 10 * time.Second
	cacheTTL     = 10 * time.Minute
)

// SelectFunc picks between the LLM rendition and the deterministic rendition
// of the same payload. Both arguments are always non-empty candidates.
type SelectFunc func(llmOutput, deterministicOutput string) string

// LongerWins is the default selection: the LLM rendition is kept only when it
// carries more bytes than the deterministic one.
func LongerWins(llmOutput, deterministicOutput string) string {
	if len(llmOutput) > len(deterministicOutput) {
		return llmOutput
	}
	return deterministicOutput
}

// Agent detects the format of incoming data, parses it into a generic value
// and renders it in the requested target format. When an LLM provider is
// configured the model produces a competing rendition and Select picks the
// winner.
type Agent struct {
	llm     provider.Provider     // nil disables LLM enhancement
	fetcher web_fetch.WebFetcher  // resolves URL inputs
	cache   redis.UniversalClient // nil disables caching
	sel     SelectFunc
	logger  *log.Logger
}

// Option mutates the agent during construction.
type Option func(*Agent)

// WithLLM enables LLM-enhanced transformation.
func WithLLM(p provider.Provider) Option { return func(a *Agent) { a.llm = p } }

// WithCache enables result caching keyed on input and target format.
func WithCache(c redis.UniversalClient) Option { return func(a *Agent) { a.cache = c } }

// WithSelect overrides the rendition selection rule.
func WithSelect(sel SelectFunc) Option { return func(a *Agent) { a.sel = sel } }

// WithFetcher overrides the URL fetcher, used by tests.
func WithFetcher(f web_fetch.WebFetcher) Option { return func(a *Agent) { a.fetcher = f } }

func NewAgent(logger *log.Logger, opts ...Option) *Agent {
	a := &Agent{
		// MaxChars stays zero: fetched payloads are transformed whole.
		fetcher: httpfetch.Fetch{Timeout: fetchTimeout},
		sel:     LongerWins,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Transform runs the full pipeline for one request. Fetch and render failures
// are reported inside the result rather than as errors; only LLM transport
// failures surface as errors.
func (a *Agent) Transform(ctx context.Context, req models.TransformRequest) (models.TransformResult, provider.Usage, error) {
	data := req.Data

	if isURL(data) {
		a.logger.Printf("fetching data from %s", data)
		res, err := a.fetcher.Exec(ctx, data)
		if err != nil {
			return models.TransformResult{
				TransformedData: fmt.Sprintf("Error fetching data from URL: %v", err),
			}, provider.Usage{}, nil
		}
		data = res.Text
	}

	if cached, ok := a.cacheGet(ctx, data, req.TargetFormat); ok {
		a.logger.Printf("cache hit for %s transform", req.TargetFormat)
		return models.TransformResult{TransformedData: cached}, provider.Usage{}, nil
	}

	detected := format.DetectFormat(data)
	parsed, parseErr := format.Parse(data, detected)
	if parseErr != nil {
		a.logger.Printf("parse degraded to text fallback: %v", parseErr)
	}

	deterministic := a.render(parsed, req.TargetFormat)

	out := deterministic
	var usage provider.Usage
	if a.llm != nil {
		llmOut, u, err := a.llmTransform(ctx, data, detected, req.TargetFormat)
		if err != nil {
			return models.TransformResult{}, provider.Usage{}, err
		}
		usage = u
		if llmOut != "" {
			out = a.sel(llmOut, deterministic)
		}
	}

	a.cacheSet(ctx, data, req.TargetFormat, out)
	return models.TransformResult{TransformedData: out}, usage, nil
}

// render invokes the deterministic renderer, converting a renderer panic into
// an error string so a single bad payload cannot take the handler down.
func (a *Agent) render(v format.Value, target models.TargetFormat) (out string) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Printf("renderer panic for %s: %v", target, r)
			out = fmt.Sprintf("Error during transformation: %v", r)
		}
	}()
	renderer, ok := format.RendererFor(target)
	if !ok {
		return fmt.Sprintf("Error during transformation: unsupported target format %q", target)
	}
	return renderer(v)
}

func (a *Agent) llmTransform(ctx context.Context, data string, detected format.Format, target models.TargetFormat) (string, provider.Usage, error) {
	systemPrompt := fmt.Sprintf(`You are a data transformation assistant. Convert the provided data into well-formed %s.
Respond with the converted %s output only. Do not include explanations or code fences.`, strings.ToUpper(string(target)), strings.ToUpper(string(target)))
	userPrompt := fmt.Sprintf("Detected input format: %s\n\nData:\n%s", detected, data)

	out, usage, err := a.llm.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", provider.Usage{}, fmt.Errorf("llm transform failed: %w", err)
	}
	return stripCodeFence(out), usage, nil
}

// stripCodeFence removes a surrounding markdown code fence when the model
// ignores the no-fence instruction.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// isURL reports whether the input is an absolute URL with both a scheme and
// a host, so bare prefixes like "http://" stay treated as literal data.
func isURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && u.Scheme != "" && u.Host != ""
}

func cacheKey(data string, target models.TargetFormat) string {
	sum := sha256.Sum256([]byte(string(target) + "\x00" + data))
	return "transform:" + hex.EncodeToString(sum[:])
}

func (a *Agent) cacheGet(ctx context.Context, data string, target models.TargetFormat) (string, bool) {
	if a.cache == nil {
		return "", false
	}
	val, err := a.cache.Get(ctx, cacheKey(data, target)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (a *Agent) cacheSet(ctx context.Context, data string, target models.TargetFormat, out string) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Set(ctx, cacheKey(data, target), out, cacheTTL).Err(); err != nil {
		a.logger.Printf("cache set failed: %v", err)
	}
}
