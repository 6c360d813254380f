package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resumebeaver/internal/errors"
	"resumebeaver/internal/observability"
	"resumebeaver/internal/types"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// healthHandler reports service health including semantic provider
// availability, circuit breaker state, and certificate status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	timeout := s.AppConfig.Observability.HealthCheck.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	response := map[string]any{
		"status":  "healthy",
		"service": "resumebeaver",
		"version": s.Version,
	}

	semanticStatus := s.checkSemanticHealth(ctx)
	response["semantic_provider"] = semanticStatus
	response["circuit_breakers"] = s.Engine.Semantic().BreakerStats()

	if certStatus := s.checkCertificateHealth(); certStatus != nil {
		response["certificates"] = certStatus
	}

	// A real provider that cannot reach its model degrades the service.
	// Neutral mode is a configured state, not a failure.
	overallHealthy := true
	if degraded, ok := semanticStatus["degraded"].(bool); ok && !degraded {
		if available, ok := semanticStatus["available"].(bool); ok && !available {
			overallHealthy = false
		}
	}
	if certStatus, ok := response["certificates"].(map[string]any); ok {
		if healthy, ok := certStatus["healthy"].(bool); ok && !healthy {
			overallHealthy = false
		}
	}

	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.Logger.LogError(err, "Failed to encode health response")
	}
}

// checkSemanticHealth reports the semantic provider's mode and model status
func (s *Server) checkSemanticHealth(ctx context.Context) map[string]any {
	svc := s.Engine.Semantic()
	status := map[string]any{
		"degraded": svc.Degraded(),
	}

	if svc.Degraded() {
		status["mode"] = "neutral"
		status["available"] = false
		return status
	}

	modelInfo := svc.ModelInfo(ctx)
	status["mode"] = "provider"
	status["available"] = modelInfo.Available
	status["model"] = modelInfo
	return status
}

// checkCertificateHealth reports TLS certificate reload status
func (s *Server) checkCertificateHealth() map[string]any {
	if s.CertReloader == nil {
		return nil
	}
	return s.CertReloader.Status()
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "resumebeaver",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.Logger.LogError(err, "Failed to encode stats response")
	}
}

// createAnalyzeHandler handles resume and job-description analysis
func (s *Server) createAnalyzeHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumebeaver.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		var req AnalyzeRequest
		if !s.decodeAndValidate(w, r, &req, span) {
			return
		}

		span.SetAttributes(
			attribute.Int("request.content_length", len(req.Content)),
			attribute.String("request.type", req.Type),
		)

		var result any
		operation := "analyze_resume"
		if req.Type == "job" {
			operation = "analyze_job"
		}

		err := om.TrackOperation(ctx, operation, func(ctx context.Context) error {
			var opErr error
			if req.Type == "job" {
				result, opErr = s.Engine.AnalyzeJob(ctx, req.Content)
			} else {
				result, opErr = s.Engine.AnalyzeResume(ctx, req.Content)
			}
			return opErr
		})
		if err != nil {
			s.writeEngineError(w, r, span, err, "Failed to analyze content")
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		s.writeJSON(w, span, result)
	}
}

// createMatchHandler handles resume-to-job match scoring
func (s *Server) createMatchHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumebeaver.api")
		ctx, span := tracer.Start(ctx, "api.match")
		defer span.End()

		var req MatchRequest
		if !s.decodeAndValidate(w, r, &req, span) {
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.Resume)),
			attribute.Int("request.job_length", len(req.JobDescription)),
		)

		var result types.MatchResult
		err := om.TrackOperation(ctx, "match", func(ctx context.Context) error {
			var opErr error
			result, opErr = s.Engine.Match(ctx, req.Resume, req.JobDescription)
			return opErr
		})
		if err != nil {
			s.writeEngineError(w, r, span, err, "Failed to match resume")
			return
		}

		om.GetMetrics().RecordSemanticCall(ctx, result.SemanticFallback)
		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("match.overall_score", result.OverallScore),
			attribute.Bool("match.semantic_fallback", result.SemanticFallback),
		)
		s.writeJSON(w, span, result)
	}
}

// createOptimizeHandler handles full resume optimization
func (s *Server) createOptimizeHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumebeaver.api")
		ctx, span := tracer.Start(ctx, "api.optimize")
		defer span.End()

		var req OptimizeRequest
		if !s.decodeAndValidate(w, r, &req, span) {
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.Resume)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("request.format", req.Format),
		)

		var result types.OptimizationResult
		err := om.TrackOperation(ctx, "optimize", func(ctx context.Context) error {
			var opErr error
			result, opErr = s.Engine.Optimize(ctx, req.Resume, req.JobDescription, req.Format)
			return opErr
		})
		if err != nil {
			s.writeEngineError(w, r, span, err, "Failed to optimize resume")
			return
		}

		om.GetMetrics().RecordSemanticCall(ctx, result.MatchAnalysis.SemanticFallback)
		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("match.overall_score", result.MatchAnalysis.OverallScore),
			attribute.Bool("ai_powered", result.AIPowered),
		)
		s.writeJSON(w, span, result)
	}
}

// createGenerateHandler handles resume generation
func (s *Server) createGenerateHandler(om *observability.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("resumebeaver.api")
		ctx, span := tracer.Start(ctx, "api.generate")
		defer span.End()

		var req GenerateRequest
		if !s.decodeAndValidate(w, r, &req, span) {
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.Resume)),
			attribute.String("request.format", req.Format),
		)

		var result types.GeneratedDocument
		err := om.TrackOperation(ctx, "generate", func(ctx context.Context) error {
			var opErr error
			result, opErr = s.Engine.Generate(ctx, req.Resume, req.JobDescription, req.Format)
			return opErr
		})
		if err != nil {
			s.writeEngineError(w, r, span, err, "Failed to generate resume")
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.body_length", len(result.Body)),
		)
		s.writeJSON(w, span, result)
	}
}

// decodeAndValidate parses the JSON body and runs struct validation,
// writing the error response itself on failure
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any, span oteltrace.Span) bool {
	if err := parseJSONRequest(r, req); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		s.writeError(w, r, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}

	if err := s.validate.Struct(req); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "validation"))
		s.writeError(w, r, "Invalid request", validationMessage(err), http.StatusBadRequest)
		return false
	}

	return true
}

// validationMessage flattens validator errors into a readable message
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fieldName(fe.Field())))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fieldName(fe.Field()), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fieldName(fe.Field())))
		}
	}
	return strings.Join(msgs, "; ")
}

// fieldName lowercases the first letter so messages use the JSON field name
func fieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// writeEngineError maps engine errors to HTTP status codes
func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, span oteltrace.Span, err error, message string) {
	span.RecordError(err)

	status := http.StatusInternalServerError
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		switch appErr.Type {
		case errors.ErrorTypeValidation:
			status = http.StatusBadRequest
		case errors.ErrorTypeProvider:
			status = http.StatusBadGateway
		}
		span.SetAttributes(attribute.String("error.code", appErr.Code))
	}

	s.Logger.LogError(err, message,
		"endpoint", r.URL.Path,
		"request_id", requestIDFromContext(r.Context()))
	s.writeError(w, r, message, err.Error(), status)
}

// parseJSONRequest parses a JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeJSON writes a JSON success response
func (s *Server) writeJSON(w http.ResponseWriter, span oteltrace.Span, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		span.RecordError(err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeError writes a standardized error response
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, errMsg, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:     errMsg,
		Message:   message,
		RequestID: requestIDFromContext(r.Context()),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.Logger.LogError(err, "Failed to encode error response")
	}
}
