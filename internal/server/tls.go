package server

import (
	"fmt"
	"net/http"
)

// configureTLS sets up TLS on the server based on the configured mode
func (s *Server) configureTLS(httpServer *http.Server) error {
	tlsCfg := s.AppConfig.Server.TLS
	addr := httpServer.Addr

	switch tlsCfg.Mode {
	case "disabled", "":
		fmt.Printf("Starting server on http://%s\n", addr)
		fmt.Println("TLS mode: Disabled (HTTP only)")
		return nil
	case "server":
		fmt.Printf("Starting server with HTTPS (server-only TLS) on https://%s\n", addr)
		fmt.Println("TLS mode: Server-only (no client certificates required)")
	case "mutual":
		fmt.Printf("Starting server with mTLS (mutual TLS) on https://%s\n", addr)
		fmt.Println("TLS mode: Mutual (client certificates required)")
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tlsCfg.Mode)
	}

	tlsConfig, err := s.AppConfig.BuildTLSConfig()
	if err != nil {
		return fmt.Errorf("failed to set up TLS: %w", err)
	}

	// File-based certificates can be hot-reloaded; Vault-delivered content
	// is static for the process lifetime.
	if tlsCfg.AutoReload.Enabled && tlsCfg.CertFile != "" && tlsCfg.KeyFile != "" {
		reloader, err := NewCertReloader(tlsCfg.CertFile, tlsCfg.KeyFile, tlsCfg.AutoReload.DebounceDelay, s.Logger)
		if err != nil {
			return fmt.Errorf("failed to create certificate reloader: %w", err)
		}
		if err := reloader.Start(); err != nil {
			return fmt.Errorf("failed to start certificate reloader: %w", err)
		}
		s.CertReloader = reloader

		tlsConfig.Certificates = nil
		tlsConfig.GetCertificate = reloader.GetCertificate
		fmt.Println("TLS auto-reload: ENABLED (watching certificate files)")
	}

	httpServer.TLSConfig = tlsConfig
	return nil
}
