package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"resume-ats/internal/shared/telemetry"
)

// BreakerConfig tunes the circuit breaker placed around remote embedders.
type BreakerConfig struct {
	Enabled          bool
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	MinRequests      uint32
	FailureThreshold float64
}

// DefaultBreakerConfig trips after 60% failures over at least 3 requests and
// tries again after 30s.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}
}

// Breaker guards an Embedder's EmbedBatch with a circuit breaker. Ping, Close
// and metadata calls go straight to the wrapped embedder.
type Breaker struct {
	Embedder
	cb *gobreaker.CircuitBreaker[[][]float32]
}

// WithBreaker wraps e. A disabled config returns e unchanged.
func WithBreaker(e Embedder, cfg BreakerConfig) Embedder {
	if e == nil || !cfg.Enabled {
		return e
	}
	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("embedding-%s", e.ModelName()),
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			telemetry.Warn("embedding.breaker_state_changed", map[string]any{
				"name": name,
				"from": from.String(),
				"to":   to.String(),
			})
		},
	}
	return &Breaker{
		Embedder: e,
		cb:       gobreaker.NewCircuitBreaker[[][]float32](settings),
	}
}

func (b *Breaker) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return b.cb.Execute(func() ([][]float32, error) {
		return b.Embedder.EmbedBatch(ctx, texts)
	})
}

// State reports the breaker state: closed, half-open or open.
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// BreakerState reports the state of the breaker guarding e, or "" when e is
// not wrapped in one.
func BreakerState(e Embedder) string {
	if b, ok := e.(*Breaker); ok {
		return b.State()
	}
	return ""
}
