package semantic

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"resumebeaver/internal/config"
	"resumebeaver/internal/errors"

	"github.com/spf13/viper"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func testLogger() *errors.Logger {
	logger, _ := errors.New("error")
	return logger
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("failed to build config: %v", err)
	}
	return &cfg
}

func TestNeutralProviderSimilarity(t *testing.T) {
	p := NeutralProvider{}

	sim, err := p.Similarity(context.Background(), "anything", "at all")
	if err != nil {
		t.Fatalf("Similarity() error: %v", err)
	}
	if sim != 0.5 {
		t.Errorf("similarity = %v, want 0.5", sim)
	}

	info := p.ModelInfo(context.Background())
	if info.Available {
		t.Error("neutral provider should report unavailable")
	}
}

func TestServiceWithoutAPIKeyDegrades(t *testing.T) {
	svc, err := NewService(testConfig(t), testLogger())
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}
	defer svc.Close()

	if !svc.Degraded() {
		t.Error("service without API key should be degraded")
	}
	if svc.Suggester != nil {
		t.Error("degraded service should not have a suggester")
	}

	sim, err := svc.Provider.Similarity(context.Background(), "a", "b")
	if err != nil || sim != 0.5 {
		t.Errorf("degraded similarity = %v, %v, want 0.5, nil", sim, err)
	}
}

func TestServiceRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.APIKey = "key"
	cfg.AI.Provider = "openai"

	if _, err := NewService(cfg, testLogger()); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite floored at zero", []float32{1, 0}, []float32{-1, 0}, 0},
		{"length mismatch", []float32{1, 2}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", fmt.Errorf("boom"), false},
		{"rate limited", &googleapi.Error{Code: 429}, true},
		{"server error", &googleapi.Error{Code: 500}, true},
		{"bad gateway", &googleapi.Error{Code: 502}, true},
		{"unauthorized", &googleapi.Error{Code: 401}, false},
		{"bad request", &googleapi.Error{Code: 400}, false},
		{"wrapped retryable", fmt.Errorf("call failed: %w", &googleapi.Error{Code: 503}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDisabledBreakersPassThrough(t *testing.T) {
	cfg := &config.OperationAIConfig{}

	embed := NewEmbedCircuitBreaker("similarity", cfg, testLogger())
	if embed != nil {
		t.Fatal("disabled breaker should be nil")
	}

	called := false
	_, err := embed.Execute(func() (*genai.EmbedContentResponse, error) {
		called = true
		return nil, nil
	})
	if err != nil || !called {
		t.Error("nil breaker should execute the function directly")
	}
	if !embed.IsHealthy() {
		t.Error("nil breaker should report healthy")
	}
	if stats := embed.Stats(); stats["enabled"] != false {
		t.Errorf("stats = %v, want enabled false", stats)
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	cfg := &config.OperationAIConfig{
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MinRequests:      3,
			FailureThreshold: 0.6,
		},
	}

	breaker := NewEmbedCircuitBreaker("similarity", cfg, testLogger())
	if breaker == nil {
		t.Fatal("expected enabled breaker")
	}

	failing := func() (*genai.EmbedContentResponse, error) {
		return nil, fmt.Errorf("upstream down")
	}
	for range 5 {
		_, _ = breaker.Execute(failing)
	}

	if breaker.IsHealthy() {
		t.Error("breaker should be open after repeated failures")
	}
	if _, err := breaker.Execute(failing); err == nil {
		t.Error("open breaker should reject calls")
	}
}

func TestBuildSuggestPrompt(t *testing.T) {
	prompt := buildSuggestPrompt(SuggestInput{
		ResumeText:      "resume body",
		JobText:         "job body",
		MissingSkills:   []string{"AWS", "Docker"},
		MissingKeywords: []string{"microservices"},
	})

	for _, want := range []string{"resume body", "job body", "AWS, Docker", "microservices"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
