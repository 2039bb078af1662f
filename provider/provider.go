package provider

import (
	"context"
	"errors"
	"os"
	"time"

	openai_provider "github.com/quadrant-ai/quadrant/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI    Client = "openai"
	Anthropic Client = "anthropic"
	Gemini    Client = "gemini"
)

// Usage reports token consumption for one completion.
type Usage = openai_provider.Usage

// Provider is the interface that all LLM implementations must satisfy.
// Complete runs a single system+user exchange and returns the assistant text
// along with token usage for run accounting.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, Usage, error)
}

// Options tunes the underlying client. Zero values fall back to defaults.
type Options struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	BaseURL     string
}

// NewProvider creates a new LLM client based on the provided configuration.
func NewProvider(client Client, opts Options) (Provider, error) {
	switch client {
	case OpenAI:
		apiKey := opts.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("OPENAI_API_KEY not set")
		}
		model := opts.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		maxTokens := opts.MaxTokens
		if maxTokens == 0 {
			maxTokens = 4096
		}
		return openai_provider.NewOpenAIClient(apiKey, model, opts.Temperature, maxTokens, timeout, opts.BaseURL), nil
	case Anthropic:
		return nil, errors.New("anthropic client not implemented yet")
	case Gemini:
		return nil, errors.New("gemini client not implemented yet")
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
