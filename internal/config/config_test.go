package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()

	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		t.Fatalf("failed to unmarshal defaults: %v", err)
	}
	cfg.applyFallbacks()
	return &cfg
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig(t)
	if err := cfg.Validate(); err != nil {
		t.Errorf("default configuration invalid: %v", err)
	}
}

func TestDefaultValues(t *testing.T) {
	cfg := defaultConfig(t)

	if cfg.AI.Provider != "gemini" {
		t.Errorf("ai provider = %q", cfg.AI.Provider)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("server port = %q", cfg.Server.Port)
	}
	if cfg.Server.TLS.Mode != "disabled" {
		t.Errorf("tls mode = %q", cfg.Server.TLS.Mode)
	}
	if cfg.App.ResumeFormat != "ats-plain-text" {
		t.Errorf("resume format = %q", cfg.App.ResumeFormat)
	}
	if !cfg.Observability.Enabled {
		t.Error("observability should default to enabled")
	}
}

func TestOperationConfigFallbacks(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.AI.APIKey = "global-key"
	cfg.AI.Model = "global-model"

	sim := cfg.GetSimilarityConfig()
	if sim.APIKey != "global-key" {
		t.Errorf("similarity api key = %q, want global fallback", sim.APIKey)
	}
	if sim.Model != "global-model" {
		t.Errorf("similarity model = %q, want global fallback", sim.Model)
	}
	if sim.Timeout == nil || *sim.Timeout != 15*time.Second {
		t.Errorf("similarity timeout should keep its own default, got %v", sim.Timeout)
	}

	cfg.AI.Suggest.APIKey = "suggest-key"
	if got := cfg.GetSuggestConfig().APIKey; got != "suggest-key" {
		t.Errorf("suggest api key = %q, operation value should win", got)
	}
}

func TestHasAPIKey(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.AI.APIKey = ""
	if cfg.HasAPIKey() {
		t.Error("HasAPIKey() = true without any key")
	}

	cfg.AI.Similarity.APIKey = "op-key"
	if !cfg.HasAPIKey() {
		t.Error("HasAPIKey() = false with operation-level key")
	}
}

func TestValidateRejectsBadFormat(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.App.DefaultFormat = "xml"

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "invalid default format") {
		t.Errorf("Validate() error = %v, want invalid default format", err)
	}
}

func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TLSConfig)
		wantErr string
	}{
		{
			name:   "disabled needs nothing",
			mutate: func(tls *TLSConfig) { tls.Mode = "disabled" },
		},
		{
			name:    "server mode requires cert and key",
			mutate:  func(tls *TLSConfig) { tls.Mode = "server" },
			wantErr: "certificate and key are required",
		},
		{
			name: "server mode with files",
			mutate: func(tls *TLSConfig) {
				tls.Mode = "server"
				tls.CertFile = "server.crt"
				tls.KeyFile = "server.key"
			},
		},
		{
			name: "both file and content rejected",
			mutate: func(tls *TLSConfig) {
				tls.Mode = "server"
				tls.CertFile = "server.crt"
				tls.CertContent = "PEM"
				tls.KeyFile = "server.key"
			},
			wantErr: "cannot specify both certFile and certContent",
		},
		{
			name: "mutual mode requires ca",
			mutate: func(tls *TLSConfig) {
				tls.Mode = "mutual"
				tls.CertFile = "server.crt"
				tls.KeyFile = "server.key"
			},
			wantErr: "CA certificate is required",
		},
		{
			name: "mutual mode with ca content",
			mutate: func(tls *TLSConfig) {
				tls.Mode = "mutual"
				tls.CertFile = "server.crt"
				tls.KeyFile = "server.key"
				tls.CAContent = "PEM"
			},
		},
		{
			name:    "unknown mode rejected",
			mutate:  func(tls *TLSConfig) { tls.Mode = "optional" },
			wantErr: "invalid TLS mode",
		},
		{
			name: "bad min version rejected",
			mutate: func(tls *TLSConfig) {
				tls.Mode = "disabled"
				tls.MinVersion = "1.1"
			},
			wantErr: "invalid TLS minVersion",
		},
		{
			name: "bad client auth policy rejected",
			mutate: func(tls *TLSConfig) {
				tls.Mode = "mutual"
				tls.CertFile = "server.crt"
				tls.KeyFile = "server.key"
				tls.CAFile = "ca.crt"
				tls.ClientAuthPolicy = "optional"
			},
			wantErr: "invalid clientAuthPolicy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(&cfg.Server.TLS)

			err := cfg.ValidateTLSConfig()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateTLSConfig() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateTLSConfig() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestBuildTLSConfigDisabled(t *testing.T) {
	cfg := defaultConfig(t)

	tlsConfig, err := cfg.BuildTLSConfig()
	if err != nil {
		t.Fatalf("BuildTLSConfig() error: %v", err)
	}
	if tlsConfig != nil {
		t.Error("expected nil tls.Config when TLS is disabled")
	}
}
