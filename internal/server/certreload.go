package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"resumebeaver/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// CertReloader serves a TLS certificate from disk and reloads it when the
// underlying files change. The certificate and key directories are watched
// rather than the files themselves so atomic replacement (rename over the
// old file) is picked up.
type CertReloader struct {
	mu   sync.RWMutex
	cert *tls.Certificate

	certFile string
	keyFile  string

	watcher       *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	done    chan struct{}
	logger  *errors.Logger
	running bool

	// Reload metrics
	reloadCount    int
	reloadFailures int
	lastReloadTime time.Time
	lastReloadErr  string
}

// NewCertReloader creates a reloader and loads the initial certificate
func NewCertReloader(certFile, keyFile string, debounceDelay time.Duration, logger *errors.Logger) (*CertReloader, error) {
	if debounceDelay <= 0 {
		debounceDelay = time.Second
	}

	cr := &CertReloader{
		certFile:      certFile,
		keyFile:       keyFile,
		debounceDelay: debounceDelay,
		done:          make(chan struct{}),
		logger:        logger,
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial certificate: %w", err)
	}
	cr.cert = &cert

	return cr, nil
}

// Start begins watching the certificate files for changes
func (cr *CertReloader) Start() error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.running {
		return fmt.Errorf("certificate reloader is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	dirs := map[string]bool{
		filepath.Dir(cr.certFile): true,
		filepath.Dir(cr.keyFile):  true,
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			if closeErr := watcher.Close(); closeErr != nil {
				cr.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
			}
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	cr.watcher = watcher
	cr.running = true
	go cr.watchLoop()

	cr.logger.Info("Certificate reloader started",
		"cert_file", cr.certFile,
		"key_file", cr.keyFile,
		"debounce_delay", cr.debounceDelay.String())
	return nil
}

// GetCertificate implements tls.Config.GetCertificate
func (cr *CertReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.cert == nil {
		return nil, fmt.Errorf("no certificate loaded")
	}
	return cr.cert, nil
}

// watchLoop processes file system events until Stop is called
func (cr *CertReloader) watchLoop() {
	for {
		select {
		case event, ok := <-cr.watcher.Events:
			if !ok {
				return
			}
			if cr.isCertEvent(event) {
				cr.scheduleReload()
			}
		case err, ok := <-cr.watcher.Errors:
			if !ok {
				return
			}
			cr.logger.LogError(err, "Certificate watcher error")
		case <-cr.done:
			return
		}
	}
}

// isCertEvent reports whether an event concerns one of the watched files
func (cr *CertReloader) isCertEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == filepath.Clean(cr.certFile) || name == filepath.Clean(cr.keyFile)
}

// scheduleReload debounces bursts of events into a single reload. A cert and
// key written in quick succession must not be loaded halfway.
func (cr *CertReloader) scheduleReload() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.debounceTimer != nil {
		cr.debounceTimer.Stop()
	}
	cr.debounceTimer = time.AfterFunc(cr.debounceDelay, cr.reload)
}

// reload swaps in the new key pair, keeping the old one on failure
func (cr *CertReloader) reload() {
	cert, err := tls.LoadX509KeyPair(cr.certFile, cr.keyFile)

	cr.mu.Lock()
	defer cr.mu.Unlock()

	cr.reloadCount++
	cr.lastReloadTime = time.Now()

	if err != nil {
		cr.reloadFailures++
		cr.lastReloadErr = err.Error()
		cr.logger.LogError(err, "Failed to reload TLS certificate, keeping previous one")
		return
	}

	cr.cert = &cert
	cr.lastReloadErr = ""
	cr.logger.Info("TLS certificate reloaded", "cert_file", cr.certFile)
}

// Status reports reloader health for the health endpoint
func (cr *CertReloader) Status() map[string]any {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	status := map[string]any{
		"auto_reload":     cr.running,
		"reload_count":    cr.reloadCount,
		"reload_failures": cr.reloadFailures,
	}
	if !cr.lastReloadTime.IsZero() {
		status["last_reload_time"] = cr.lastReloadTime
	}
	if cr.lastReloadErr != "" {
		status["last_reload_error"] = cr.lastReloadErr
	}

	healthy := true
	if cr.cert != nil && len(cr.cert.Certificate) > 0 {
		if leaf, err := x509.ParseCertificate(cr.cert.Certificate[0]); err == nil {
			timeToExpiry := time.Until(leaf.NotAfter)
			status["time_to_expiry"] = timeToExpiry.String()

			switch {
			case timeToExpiry <= 0:
				healthy = false
				status["expiry_status"] = "expired"
			case timeToExpiry <= 24*time.Hour:
				healthy = false
				status["expiry_status"] = "critical"
			case timeToExpiry <= 7*24*time.Hour:
				status["expiry_status"] = "warning"
			default:
				status["expiry_status"] = "ok"
			}
		}
	}
	status["healthy"] = healthy

	return status
}

// Stop shuts down the watcher
func (cr *CertReloader) Stop() error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if !cr.running {
		return nil
	}
	cr.running = false

	if cr.debounceTimer != nil {
		cr.debounceTimer.Stop()
	}
	close(cr.done)
	return cr.watcher.Close()
}
