package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Request is a single completion call.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int  // 0 leaves the provider default
	JSON        bool // ask the provider for a JSON object reply
}

// Provider is the language-model boundary used by extraction and querying.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// New returns the provider named in cfg. It is called once at start-up.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Provider, error) {
	switch ProviderName(cfg.Provider) {
	case ProviderOpenAI, ProviderGroq, ProviderOllama:
		if cfg.APIKey == "" && ProviderName(cfg.Provider) != ProviderOllama {
			return nil, fmt.Errorf("%s api key is required", cfg.Provider)
		}
		return NewService(cfg, logger), nil
	case ProviderGemini:
		return NewGemini(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown provider: %q", cfg.Provider)
	}
}
