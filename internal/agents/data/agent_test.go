package data

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/quadrant-ai/quadrant/models"
	"github.com/quadrant-ai/quadrant/provider"
	"github.com/quadrant-ai/quadrant/tools/web_fetch/httpfetch"
	fetchmodels "github.com/quadrant-ai/quadrant/tools/web_fetch/models"
)

type fakeFetcher struct {
	text string
	err  error
}

func (f fakeFetcher) Exec(ctx context.Context, url string) (fetchmodels.Result, error) {
	if f.err != nil {
		return fetchmodels.Result{}, f.err
	}
	return fetchmodels.Result{URL: url, Text: f.text, Status: 200}, nil
}

type fakeLLM struct {
	out string
	err error
}

func (f fakeLLM) Complete(ctx context.Context, system, user string) (string, provider.Usage, error) {
	if f.err != nil {
		return "", provider.Usage{}, f.err
	}
	return f.out, provider.Usage{TotalTokens: 7}, nil
}

func testLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func newTestAgent(t *testing.T, opts ...Option) *Agent {
	t.Helper()
	return NewAgent(testLogger(), opts...)
}

func TestTransformCSVToJSONDeterministic(t *testing.T) {
	a := newTestAgent(t)
	res, _, err := a.Transform(context.Background(), models.TransformRequest{
		Data:         "name,age\nalice,30",
		TargetFormat: models.TargetJSON,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, frag := range []string{`"data"`, `"name": "alice"`, `"format": "tabular"`} {
		if !strings.Contains(res.TransformedData, frag) {
			t.Fatalf("missing %q in:\n%s", frag, res.TransformedData)
		}
	}
}

func TestTransformJSONToYAML(t *testing.T) {
	a := newTestAgent(t)
	res, _, err := a.Transform(context.Background(), models.TransformRequest{
		Data:         `{"name": "Ada", "age": 36}`,
		TargetFormat: models.TargetYAML,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TransformedData != "name: Ada\nage: 36\n" {
		t.Fatalf("got %q", res.TransformedData)
	}
}

func TestTransformUnstructuredText(t *testing.T) {
	a := newTestAgent(t)
	res, _, err := a.Transform(context.Background(), models.TransformRequest{
		Data:         "hello world",
		TargetFormat: models.TargetJSON,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, frag := range []string{`"content": "hello world"`, `"detected_format": "Unstructured Text"`} {
		if !strings.Contains(res.TransformedData, frag) {
			t.Fatalf("missing %q in:\n%s", frag, res.TransformedData)
		}
	}
}

func TestTransformFetchErrorReportedInBody(t *testing.T) {
	a := newTestAgent(t, WithFetcher(fakeFetcher{err: errors.New("connection refused")}))
	res, _, err := a.Transform(context.Background(), models.TransformRequest{
		Data:         "https://example.com/data.json",
		TargetFormat: models.TargetJSON,
	})
	if err != nil {
		t.Fatalf("fetch failures must not surface as errors, got %v", err)
	}
	if !strings.HasPrefix(res.TransformedData, "Error fetching data from URL:") {
		t.Fatalf("got %q", res.TransformedData)
	}
}

func TestTransformFetchedBodyIsTransformed(t *testing.T) {
	a := newTestAgent(t, WithFetcher(fakeFetcher{text: `{"city": "oslo"}`}))
	res, _, err := a.Transform(context.Background(), models.TransformRequest{
		Data:         "https://example.com/data.json",
		TargetFormat: models.TargetYAML,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TransformedData != "city: oslo\n" {
		t.Fatalf("got %q", res.TransformedData)
	}
}

func TestTransformLLMLongerWins(t *testing.T) {
	long := strings.Repeat("x: 1\n", 50)
	a := newTestAgent(t, WithLLM(fakeLLM{out: long}))
	res, usage, err := a.Transform(context.Background(), models.TransformRequest{
		Data:         `{"x": 1}`,
		TargetFormat: models.TargetYAML,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TransformedData != strings.TrimSpace(long) {
		t.Fatalf("expected LLM rendition to win, got %q", res.TransformedData)
	}
	if usage.TotalTokens != 7 {
		t.Fatalf("usage = %+v", usage)
	}
}

func TestTransformDeterministicWinsWhenLonger(t *testing.T) {
	a := newTestAgent(t, WithLLM(fakeLLM{out: "x:"}))
	res, _, err := a.Transform(context.Background(), models.TransformRequest{
		Data:         `{"x": 1, "y": 2}`,
		TargetFormat: models.TargetYAML,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TransformedData != "x: 1\ny: 2\n" {
		t.Fatalf("got %q", res.TransformedData)
	}
}

func TestTransformLLMErrorPropagates(t *testing.T) {
	a := newTestAgent(t, WithLLM(fakeLLM{err: errors.New("rate limited")}))
	_, _, err := a.Transform(context.Background(), models.TransformRequest{
		Data:         `{"x": 1}`,
		TargetFormat: models.TargetYAML,
	})
	if err == nil {
		t.Fatal("expected the LLM error to propagate")
	}
}

func TestTransformCustomSelect(t *testing.T) {
	alwaysLLM := func(llm, det string) string { return llm }
	a := newTestAgent(t, WithLLM(fakeLLM{out: "x:"}), WithSelect(alwaysLLM))
	res, _, err := a.Transform(context.Background(), models.TransformRequest{
		Data:         `{"x": 1, "y": 2}`,
		TargetFormat: models.TargetYAML,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TransformedData != "x:" {
		t.Fatalf("got %q", res.TransformedData)
	}
}

func TestTransformUnsupportedTargetStillConsultsLLM(t *testing.T) {
	long := strings.Repeat("column a,column b\n1,2\n", 20)
	a := newTestAgent(t, WithLLM(fakeLLM{out: long}))
	res, _, err := a.Transform(context.Background(), models.TransformRequest{
		Data:         `{"x": 1}`,
		TargetFormat: models.TargetFormat("parquet"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TransformedData != strings.TrimSpace(long) {
		t.Fatalf("expected LLM rendition over the error string, got %q", res.TransformedData)
	}
}

func TestIsURL(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://example.com/data.csv", true},
		{"http://example.com", true},
		{"  https://example.com  ", true},
		{"http://", false},
		{"example.com/data.csv", false},
		{"name,age\nalice,30", false},
		{"just some text", false},
	}
	for _, c := range cases {
		if got := isURL(c.in); got != c.want {
			t.Fatalf("isURL(%q) = %t, want %t", c.in, got, c.want)
		}
	}
}

func TestNewAgentFetcherDoesNotTruncate(t *testing.T) {
	a := NewAgent(testLogger())
	f, ok := a.fetcher.(httpfetch.Fetch)
	if !ok {
		t.Fatalf("fetcher = %T", a.fetcher)
	}
	if f.MaxChars != 0 {
		t.Fatalf("MaxChars = %d, want 0", f.MaxChars)
	}
}

func TestStripCodeFence(t *testing.T) {
	in := "```yaml\nx: 1\n```"
	if got := stripCodeFence(in); got != "x: 1" {
		t.Fatalf("got %q", got)
	}
	if got := stripCodeFence("plain"); got != "plain" {
		t.Fatalf("got %q", got)
	}
}
