// Package server exposes the resume operations over HTTP with API key
// authentication, rate limiting, request validation, and TLS.
package server

import (
	"time"

	"resumebeaver/internal/config"
	"resumebeaver/internal/engine"
	resumebeaverErrors "resumebeaver/internal/errors"

	"github.com/go-playground/validator/v10"
)

// AnalyzeRequest is the request body for the analyze endpoint. Type selects
// whether the content is treated as a resume or a job description.
type AnalyzeRequest struct {
	Content string `json:"content" validate:"required"`
	Type    string `json:"type" validate:"required,oneof=resume job"`
}

// MatchRequest is the request body for the match endpoint
type MatchRequest struct {
	Resume         string `json:"resume" validate:"required"`
	JobDescription string `json:"jobDescription" validate:"required"`
}

// OptimizeRequest is the request body for the optimize endpoint. Format is
// optional; when set the response includes a generated resume.
type OptimizeRequest struct {
	Resume         string `json:"resume" validate:"required"`
	JobDescription string `json:"jobDescription" validate:"required"`
	Format         string `json:"format" validate:"omitempty,oneof=ats-plain-text docx-structured"`
}

// GenerateRequest is the request body for the generate endpoint
type GenerateRequest struct {
	Resume         string `json:"resume" validate:"required"`
	JobDescription string `json:"jobDescription" validate:"required"`
	Format         string `json:"format" validate:"required,oneof=ats-plain-text docx-structured"`
}

// ErrorResponse is the standard error response shape
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Server holds the HTTP server and its dependencies
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// The operations engine shared by all handlers
	Engine *engine.Engine

	// Certificate reloading
	CertReloader *CertReloader

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *LimiterManager

	// Request body validation
	validate *validator.Validate

	// Logger
	Logger *resumebeaverErrors.Logger
}

// NewServer creates a Server from the application configuration
func NewServer(appCfg *config.Config, eng *engine.Engine, version string, logger *resumebeaverErrors.Logger) *Server {
	srvCfg := appCfg.Server

	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range srvCfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *LimiterManager
	if srvCfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			srvCfg.RateLimit.RequestsPerMin,
			srvCfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           srvCfg.Host,
		Port:           srvCfg.Port,
		Version:        version,
		AppConfig:      appCfg,
		Engine:         eng,
		APIKeys:        apiKeyMap,
		ReadTimeout:    srvCfg.ReadTimeout,
		WriteTimeout:   srvCfg.WriteTimeout,
		IdleTimeout:    srvCfg.IdleTimeout,
		MaxRequestSize: srvCfg.MaxRequestSize,
		RateLimit:      &srvCfg.RateLimit,
		RateLimiter:    rateLimiter,
		validate:       validator.New(),
		Logger:         logger,
	}
}
