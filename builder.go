package linkshield

import (
	"context"
	"errors"
	"net/http"

	"github.com/AbdulhameedSk/LinkShield/credential"
)

// Builder assembles a [Client]. Collaborators are explicit: the credential
// store, the HTTP client, and the navigation port are all injected rather
// than reached ambiently.
type Builder struct {
	config     Config
	store      credential.Store
	httpClient httpDoer
	navigate   Navigator
	auditSink  AuditSink

	built bool
}

// New returns a Builder preloaded with defaults.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL sets the backend origin without replacing the rest of the
// configuration.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.Gateway.BaseURL = baseURL
	return b
}

// WithStore sets the durable credential store. Required.
func (b *Builder) WithStore(store credential.Store) *Builder {
	b.store = store
	return b
}

// WithHTTPClient overrides the underlying HTTP client.
func (b *Builder) WithHTTPClient(client httpDoer) *Builder {
	b.httpClient = client
	return b
}

// WithNavigator sets the navigation port invoked after an unauthenticated
// response. Defaults to a no-op.
func (b *Builder) WithNavigator(nav Navigator) *Builder {
	b.navigate = nav
	return b
}

// WithAuditSink sets the audit sink and enables auditing.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles metric collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithAutoHydrate schedules the reconciliation pass on a background goroutine
// at Build instead of waiting for an explicit Hydrate call.
func (b *Builder) WithAutoHydrate(enabled bool) *Builder {
	b.config.Session.AutoHydrate = enabled
	return b
}

// Build validates the configuration, performs the best-effort synchronous
// storage read, and returns a ready Client. A Builder builds at most once.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.store == nil {
		return nil, errors.New("credential store required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	c := &Client{
		config:     cfg,
		store:      b.store,
		httpClient: httpClient,
		navigate:   b.navigate,
		metrics:    NewMetrics(cfg.Metrics),
		audit:      newAuditDispatcher(cfg.Audit, b.auditSink),
	}

	c.initSession()

	if cfg.Session.AutoHydrate {
		go func() {
			ctx := context.Background()
			if t := cfg.Session.HydrateTimeout; t > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, t)
				defer cancel()
			}
			c.Hydrate(ctx)
		}()
	}

	b.built = true
	return c, nil
}
