package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	tlsCfg := c.Server.TLS

	if err := validateTLSMode(tlsCfg); err != nil {
		return err
	}

	return validateTLSVersion(tlsCfg)
}

func validateTLSMode(tlsCfg TLSConfig) error {
	switch tlsCfg.Mode {
	case "disabled":
		return nil
	case "server":
		return validateCertSources(tlsCfg, false)
	case "mutual":
		if err := validateCertSources(tlsCfg, true); err != nil {
			return err
		}
		return validateClientAuthPolicy(tlsCfg)
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tlsCfg.Mode)
	}
}

// validateCertSources checks that exactly one source (file or content) exists
// for each required certificate
func validateCertSources(tlsCfg TLSConfig, needCA bool) error {
	if (tlsCfg.CertFile == "" && tlsCfg.CertContent == "") || (tlsCfg.KeyFile == "" && tlsCfg.KeyContent == "") {
		return fmt.Errorf("TLS certificate and key are required (provide either files or content)")
	}
	if tlsCfg.CertFile != "" && tlsCfg.CertContent != "" {
		return fmt.Errorf("cannot specify both certFile and certContent - choose one")
	}
	if tlsCfg.KeyFile != "" && tlsCfg.KeyContent != "" {
		return fmt.Errorf("cannot specify both keyFile and keyContent - choose one")
	}

	if needCA {
		if tlsCfg.CAFile == "" && tlsCfg.CAContent == "" {
			return fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
		}
		if tlsCfg.CAFile != "" && tlsCfg.CAContent != "" {
			return fmt.Errorf("cannot specify both caFile and caContent - choose one")
		}
	}

	return nil
}

func validateClientAuthPolicy(tlsCfg TLSConfig) error {
	switch tlsCfg.ClientAuthPolicy {
	case "require", "request", "verify", "":
		return nil
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", tlsCfg.ClientAuthPolicy)
	}
}

func validateTLSVersion(tlsCfg TLSConfig) error {
	switch tlsCfg.MinVersion {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tlsCfg.MinVersion)
	}
}

// BuildTLSConfig builds a *tls.Config from the validated configuration.
// Returns nil when TLS is disabled.
func (c *Config) BuildTLSConfig() (*tls.Config, error) {
	tlsCfg := c.Server.TLS

	if tlsCfg.Mode == "disabled" {
		return nil, nil
	}

	cert, err := loadCertificate(tlsCfg)
	if err != nil {
		return nil, err
	}

	config := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tlsMinVersion(tlsCfg.MinVersion),
	}

	if tlsCfg.Mode == "mutual" {
		pool, err := loadCAPool(tlsCfg)
		if err != nil {
			return nil, err
		}
		config.ClientCAs = pool
		config.ClientAuth = clientAuthType(tlsCfg.ClientAuthPolicy)
	}

	return config, nil
}

func loadCertificate(tlsCfg TLSConfig) (tls.Certificate, error) {
	if tlsCfg.CertContent != "" {
		cert, err := tls.X509KeyPair([]byte(tlsCfg.CertContent), []byte(tlsCfg.KeyContent))
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to parse TLS certificate content: %w", err)
		}
		return cert, nil
	}

	cert, err := tls.LoadX509KeyPair(tlsCfg.CertFile, tlsCfg.KeyFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to load TLS certificate files: %w", err)
	}
	return cert, nil
}

func loadCAPool(tlsCfg TLSConfig) (*x509.CertPool, error) {
	caPEM := []byte(tlsCfg.CAContent)
	if tlsCfg.CAFile != "" {
		data, err := os.ReadFile(tlsCfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate file: %w", err)
		}
		caPEM = data
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}
	return pool, nil
}

func tlsMinVersion(version string) uint16 {
	if version == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

func clientAuthType(policy string) tls.ClientAuthType {
	switch policy {
	case "request":
		return tls.RequestClientCert
	case "verify":
		return tls.VerifyClientCertIfGiven
	default:
		return tls.RequireAndVerifyClientCert
	}
}
