package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resume-ats/internal/embedding/ollama"
	"resume-ats/internal/embedding/openai"
)

// Providers accepted by New.
const (
	ProviderHashing = "hashing"
	ProviderOpenAI  = "openai"
	ProviderOllama  = "ollama"
	ProviderNone    = "none"
)

// pingTimeout bounds backend validation at startup.
const pingTimeout = 5 * time.Second

var (
	_ Embedder = (*Hashing)(nil)
	_ Embedder = (*openai.Client)(nil)
	_ Embedder = (*ollama.Client)(nil)
)

// Config selects and configures an embedding backend.
type Config struct {
	Provider   string
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int
	Timeout    time.Duration
	Breaker    BreakerConfig
}

// New builds the configured embedder. Provider "none" returns a nil embedder,
// which leaves semantic matching disabled. Remote providers are wrapped in a
// circuit breaker.
func New(cfg Config) (Embedder, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderHashing:
		return NewHashing(cfg.Dimensions), nil
	case ProviderNone:
		return nil, nil
	case ProviderOpenAI:
		c, err := openai.New(openai.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Timeout:    cfg.Timeout,
			Dimensions: cfg.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		return WithBreaker(c, cfg.Breaker), nil
	case ProviderOllama:
		c := ollama.New(ollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Timeout:    cfg.Timeout,
			Dimensions: cfg.Dimensions,
		})
		return WithBreaker(c, cfg.Breaker), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

// Validate pings e within a short timeout.
func Validate(ctx context.Context, e Embedder) error {
	if e == nil {
		return fmt.Errorf("%w: no embedding provider configured", ErrUnavailable)
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := e.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}
