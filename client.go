package linkshield

import (
	"context"
	"sync"
	"time"

	"github.com/AbdulhameedSk/LinkShield/credential"
)

// Navigator is the navigation port invoked after an unauthenticated response,
// carrying the configured login path. In a browser shell this is a redirect;
// the CLI prints a re-authentication hint; tests record the call.
type Navigator func(target string)

// Client is the session holder and API gateway for one application instance.
// Construct it through [Builder.Build]; methods are safe for concurrent use
// afterwards.
type Client struct {
	config     Config
	store      credential.Store
	httpClient httpDoer
	navigate   Navigator
	audit      *auditDispatcher
	metrics    *Metrics

	mu            sync.Mutex
	authenticated bool
	principal     string
	hydrated      bool
	// gen counts session mutations. The hydration pass samples it before its
	// storage read and refuses to promote when it moved, so a logout racing
	// the read is never resurrected by a stale record.
	gen uint64
}

// Close flushes and stops the audit dispatcher. The client must not be used
// after Close.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.audit != nil {
		c.audit.Close()
	}
}

// MetricsSnapshot returns a deep copy of the client's metrics.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// AuditDropped reports how many audit events were dropped by a full buffer.
func (c *Client) AuditDropped() uint64 {
	if c == nil || c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}

func (c *Client) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}

func (c *Client) emitAudit(ctx context.Context, event AuditEvent) {
	if c == nil || c.audit == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	c.audit.Emit(ctx, event)
}

func (c *Client) snapshotLocked() SessionSnapshot {
	return SessionSnapshot{
		Authenticated: c.authenticated,
		Principal:     c.principal,
		Hydrated:      c.hydrated,
	}
}
