package semantic

import (
	"context"
	"crypto/rand"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"resumebeaver/internal/config"
	"resumebeaver/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiProvider implements Provider and Suggester using the Gemini API:
// embeddings for similarity, content generation for suggestions.
type GeminiProvider struct {
	client          *genai.Client
	config          *config.OperationAIConfig
	operation       string
	embedBreaker    *EmbedCircuitBreaker
	generateBreaker *GenerateCircuitBreaker
	modelBreaker    *ModelCircuitBreaker
	logger          *errors.Logger
}

var (
	_ Provider  = (*GeminiProvider)(nil)
	_ Suggester = (*GeminiProvider)(nil)
)

// NewGeminiProvider creates a Gemini provider for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operation string, logger *errors.Logger) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"Gemini API key is required (set RESUMEBEAVER_AI_APIKEY)", nil)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, errors.NewProviderError(errors.ErrCodeProviderUnavailable,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:          client,
		config:          cfg,
		operation:       operation,
		embedBreaker:    NewEmbedCircuitBreaker(operation, cfg, logger),
		generateBreaker: NewGenerateCircuitBreaker(operation, cfg, logger),
		modelBreaker:    NewModelCircuitBreaker(operation, cfg, logger),
		logger:          logger,
	}, nil
}

// Similarity embeds both texts and returns their cosine similarity mapped
// onto [0, 1]. Negative cosine values are floored at zero.
func (g *GeminiProvider) Similarity(ctx context.Context, a, b string) (float64, error) {
	tracer := otel.Tracer("resumebeaver.semantic.gemini")
	ctx, span := tracer.Start(ctx, "gemini.similarity")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.EmbeddingModel),
		attribute.Int("input.a_length", len(a)),
		attribute.Int("input.b_length", len(b)),
	)

	contents := []*genai.Content{
		genai.NewContentFromText(a, genai.RoleUser),
		genai.NewContentFromText(b, genai.RoleUser),
	}

	result, err := g.embedBreaker.Execute(func() (*genai.EmbedContentResponse, error) {
		return executeWithRetry(g, ctx, "similarity", func() (*genai.EmbedContentResponse, error) {
			return g.client.Models.EmbedContent(ctx, g.config.EmbeddingModel, contents, nil)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return 0, errors.NewProviderError(errors.ErrCodeProviderUnavailable,
			"Failed to embed texts for similarity", err)
	}

	if len(result.Embeddings) < 2 {
		err := fmt.Errorf("expected 2 embeddings, got %d", len(result.Embeddings))
		span.RecordError(err)
		return 0, errors.NewProviderError(errors.ErrCodeProviderUnavailable,
			"Embedding response is incomplete", err)
	}

	sim := cosineSimilarity(result.Embeddings[0].Values, result.Embeddings[1].Values)
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Float64("similarity", sim),
	)
	return sim, nil
}

// suggestionResponse is the JSON shape requested from the model.
type suggestionResponse struct {
	Suggestions []string `json:"suggestions"`
}

// Suggest asks the model for concrete resume improvements against the job
// description.
func (g *GeminiProvider) Suggest(ctx context.Context, input SuggestInput) ([]string, error) {
	tracer := otel.Tracer("resumebeaver.semantic.gemini")
	ctx, span := tracer.Start(ctx, "gemini.suggest")
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Int("input.resume_length", len(input.ResumeText)),
		attribute.Int("input.job_length", len(input.JobText)),
	)

	prompt := buildSuggestPrompt(input)
	genaiConfig := g.buildSuggestSchema()

	result, err := g.generateBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return executeWithRetry(g, ctx, "suggest", func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, errors.NewProviderError(errors.ErrCodeProviderUnavailable,
			"Failed to generate suggestions", err)
	}

	var parsed suggestionResponse
	if err := json.Unmarshal([]byte(result.Text()), &parsed); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return nil, errors.NewProviderError(errors.ErrCodeProviderUnavailable,
			"Failed to parse suggestion response", err)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.suggestions", len(parsed.Suggestions)),
	)
	return parsed.Suggestions, nil
}

// ModelInfo checks the availability of the configured embedding model
func (g *GeminiProvider) ModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{
		Name:      g.config.EmbeddingModel,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.EmbeddingModel, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		if g.logger != nil {
			g.logger.Warn("Model availability check failed",
				"model", g.config.EmbeddingModel,
				"error", err.Error())
		}
		return info
	}

	info.Available = true
	info.DisplayName = model.DisplayName
	info.Version = model.Version
	return info
}

// Close implements Provider. The Gemini client holds no long-lived
// connections in single-shot usage.
func (g *GeminiProvider) Close() error {
	return nil
}

// BreakerStats returns circuit breaker statistics for the stats endpoint
func (g *GeminiProvider) BreakerStats() map[string]any {
	return map[string]any{
		"embed_operations":    g.embedBreaker.Stats(),
		"generate_operations": g.generateBreaker.Stats(),
		"overall_healthy":     g.embedBreaker.IsHealthy() && g.generateBreaker.IsHealthy(),
	}
}

// executeWithRetry runs fn with exponential backoff and jitter, giving up
// early on errors that won't resolve by retrying.
func executeWithRetry[T any](g *GeminiProvider, ctx context.Context, operation string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= *g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying provider operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", *g.config.MaxRetries,
				"error", lastErr.Error())

			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			backoff := min(baseDelay+time.Duration(jitterBig.Int64()), 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	return zero, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, *g.config.MaxRetries, lastErr)
}

// isRetryableError reports whether the error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// cosineSimilarity computes the cosine of two embedding vectors, floored at
// zero so the result lands in [0, 1].
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(0, math.Min(1, cos))
}

func buildSuggestPrompt(input SuggestInput) string {
	var b strings.Builder
	b.WriteString("You are a resume coach. Given the resume and job description below, ")
	b.WriteString("return 3 to 5 specific, actionable suggestions to improve the resume for this job.\n\n")
	b.WriteString("Resume:\n")
	b.WriteString(input.ResumeText)
	b.WriteString("\n\nJob description:\n")
	b.WriteString(input.JobText)
	if len(input.MissingSkills) > 0 {
		b.WriteString("\n\nSkills the job requires that the resume lacks: ")
		b.WriteString(strings.Join(input.MissingSkills, ", "))
	}
	if len(input.MissingKeywords) > 0 {
		b.WriteString("\nJob keywords absent from the resume: ")
		b.WriteString(strings.Join(input.MissingKeywords, ", "))
	}
	return b.String()
}

// buildSuggestSchema creates the response schema for suggestion requests
func (g *GeminiProvider) buildSuggestSchema() *genai.GenerateContentConfig {
	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"suggestions": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"suggestions"},
		},
	}
	if *g.config.Temperature > 0 {
		genaiConfig.Temperature = g.config.Temperature
	}
	return genaiConfig
}
