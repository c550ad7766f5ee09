package llm

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/user/resale-arbitrage/internal/repository"
)

var (
	ErrMissingAPIKey   = errors.New("text generation API key not configured")
	ErrUnknownProvider = errors.New("unknown text generation provider")
	errEmptyResponse   = errors.New("empty completion")
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultClaudeModel = "claude-haiku-4-5-20251001"

	openaiBaseURL = "https://api.openai.com"
	claudeBaseURL = "https://api.anthropic.com"

	maxTokens = 256
)

// New creates a TextGenerator for the given provider ("openai" or "claude").
// An empty model selects the provider's default.
func New(provider, apiKey, model string) (repository.TextGenerator, error) {
	return newWithBaseURL(provider, apiKey, model, "")
}

func newWithBaseURL(provider, apiKey, model, baseURL string) (repository.TextGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := &http.Client{Timeout: 30 * time.Second}

	switch provider {
	case "claude", "anthropic":
		if model == "" {
			model = defaultClaudeModel
		}
		if baseURL == "" {
			baseURL = claudeBaseURL
		}
		return &claudeProvider{apiKey: apiKey, model: model, baseURL: baseURL, client: client}, nil
	case "openai":
		if model == "" {
			model = defaultOpenAIModel
		}
		if baseURL == "" {
			baseURL = openaiBaseURL
		}
		return &openaiProvider{apiKey: apiKey, model: model, baseURL: baseURL, client: client}, nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: claude, openai)", ErrUnknownProvider, provider)
	}
}
