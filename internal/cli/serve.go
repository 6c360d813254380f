package cli

import (
	"fmt"

	"resumebeaver/internal/engine"
	"resumebeaver/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for resume analysis and matching",
	Long: `Start an HTTP server that provides REST API endpoints for resume analysis,
matching, optimization and generation.

Available endpoints:
- POST /analyze: Analyze a resume or job description
- POST /match: Score a resume against a job description
- POST /optimize: Optimize a resume for a job description
- POST /generate: Generate an optimized resume document
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	// Flag overrides are applied to the loaded config directly, so they win
	// over both the config file and environment variables.
	applyFlag := func(flagName string, target *string) {
		if cmd.Flags().Changed(flagName) {
			*target, _ = cmd.Flags().GetString(flagName)
		}
	}
	applyFlag("port", &cfg.Server.Port)
	applyFlag("host", &cfg.Server.Host)
	applyFlag("tls-mode", &cfg.Server.TLS.Mode)
	applyFlag("cert-file", &cfg.Server.TLS.CertFile)
	applyFlag("key-file", &cfg.Server.TLS.KeyFile)
	applyFlag("ca-file", &cfg.Server.TLS.CAFile)

	// Validate TLS configuration after applying overrides
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	eng, err := engine.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Warn("Failed to close engine", "error", err)
		}
	}()

	return server.NewServer(cfg, eng, Version, logger).Start()
}
