package linkshield

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config defines the tunables of a [Client]. Construct it once, hand it to
// [Builder.WithConfig], and treat it as immutable afterwards.
type Config struct {
	Gateway GatewayConfig
	Session SessionConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
GATEWAY CONFIG
====================================
*/

// GatewayConfig controls the outbound HTTP path.
type GatewayConfig struct {
	// BaseURL is the backend origin, e.g. "http://localhost:8000".
	BaseURL string
	// RequestTimeout bounds each outbound call when the caller's context
	// carries no earlier deadline.
	RequestTimeout time.Duration
	// LoginPath is the navigation target handed to the Navigator after an
	// unauthenticated response.
	LoginPath string
	// UserAgent is sent on every request when non-empty.
	UserAgent string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls session initialization and hydration.
type SessionConfig struct {
	// SyncReadTimeout bounds the best-effort synchronous storage read at
	// Build. On expiry the record is treated as absent, not as an error.
	SyncReadTimeout time.Duration
	// AutoHydrate schedules the reconciliation pass on a background
	// goroutine at Build. When false, callers run Client.Hydrate themselves.
	AutoHydrate bool
	// HydrateTimeout bounds the auto-hydrate storage read.
	HydrateTimeout time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process metrics counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Gateway: GatewayConfig{
			RequestTimeout: 30 * time.Second,
			LoginPath:      "/login",
		},
		Session: SessionConfig{
			SyncReadTimeout: 250 * time.Millisecond,
			HydrateTimeout:  5 * time.Second,
		},
		Audit: AuditConfig{
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are values; a struct copy is a deep copy.
	return cfg
}

// Validate checks the configuration for internal consistency. Build calls it;
// callers constructing a Config by hand may call it early.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Gateway.BaseURL) == "" {
		return errors.New("Gateway.BaseURL required")
	}
	u, err := url.Parse(c.Gateway.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("Gateway.BaseURL must be an absolute URL")
	}
	if c.Gateway.RequestTimeout < 0 {
		return errors.New("Gateway.RequestTimeout must not be negative")
	}
	if c.Gateway.LoginPath == "" {
		return errors.New("Gateway.LoginPath required")
	}
	if c.Session.SyncReadTimeout < 0 {
		return errors.New("Session.SyncReadTimeout must not be negative")
	}
	if c.Session.HydrateTimeout < 0 {
		return errors.New("Session.HydrateTimeout must not be negative")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("Audit.BufferSize must not be negative")
	}
	return nil
}
