package semantic

import (
	"context"
	"fmt"

	"resumebeaver/internal/config"
	"resumebeaver/internal/errors"
)

// Service bundles the similarity provider and the optional suggester. When
// no API key is configured it degrades to the neutral provider instead of
// failing, so matching always works.
type Service struct {
	Provider  Provider
	Suggester Suggester
	logger    *errors.Logger
}

// NewService builds the semantic service from configuration
func NewService(cfg *config.Config, logger *errors.Logger) (*Service, error) {
	if !cfg.HasAPIKey() {
		logger.Warn("No provider API key configured, semantic scoring runs in neutral mode")
		return &Service{Provider: NeutralProvider{}, logger: logger}, nil
	}

	simCfg := cfg.GetSimilarityConfig()
	provider, err := newProvider(&simCfg, "similarity", logger)
	if err != nil {
		return nil, err
	}

	suggestCfg := cfg.GetSuggestConfig()
	suggestProvider, err := newProvider(&suggestCfg, "suggest", logger)
	if err != nil {
		_ = provider.Close()
		return nil, err
	}

	svc := &Service{Provider: provider, logger: logger}
	if suggester, ok := suggestProvider.(Suggester); ok {
		svc.Suggester = suggester
	}
	return svc, nil
}

func newProvider(cfg *config.OperationAIConfig, operation string, logger *errors.Logger) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(cfg, operation, logger)
	case "neutral":
		return NeutralProvider{}, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported semantic provider: %s", cfg.Provider), nil)
	}
}

// Degraded reports whether semantic scoring runs without a real provider
func (s *Service) Degraded() bool {
	_, neutral := s.Provider.(NeutralProvider)
	return neutral
}

// ModelInfo exposes the similarity model status for health checks
func (s *Service) ModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.ModelInfo(ctx)
}

// BreakerStats returns circuit breaker statistics when the provider has them
func (s *Service) BreakerStats() map[string]any {
	if g, ok := s.Provider.(*GeminiProvider); ok {
		return g.BreakerStats()
	}
	return map[string]any{"enabled": false}
}

// Close releases provider resources
func (s *Service) Close() error {
	var firstErr error
	if s.Provider != nil {
		firstErr = s.Provider.Close()
	}
	if closer, ok := s.Suggester.(Provider); ok {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
