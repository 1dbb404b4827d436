package linkshield

import (
	"context"
	"errors"

	"github.com/AbdulhameedSk/LinkShield/credential"
)

// initSession performs the best-effort synchronous read at construction time.
// Any storage failure, including the bounded deadline expiring, reads as "no
// credential found". The session starts unhydrated.
func (c *Client) initSession() {
	ctx := context.Background()
	if t := c.config.Session.SyncReadTimeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	rec, err := c.store.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.hydrated = false
	if err == nil && rec.Present() {
		c.authenticated = true
		c.principal = rec.Principal
	}
}

// Hydrate runs the one-time reconciliation pass against durable storage and
// returns the resulting snapshot.
//
// The pass re-reads the credential store; when a usable record is found and
// the session is still unauthenticated — and no login or logout intervened
// since the read began — the session is promoted to authenticated. It never
// demotes. Hydrated becomes true exactly once, regardless of what the store
// held or whether it was reachable; calling Hydrate again is a no-op that
// returns the current snapshot.
func (c *Client) Hydrate(ctx context.Context) SessionSnapshot {
	if c == nil {
		return SessionSnapshot{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	if c.hydrated {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	startGen := c.gen
	c.mu.Unlock()

	rec, err := c.store.Load(ctx)
	if err != nil && !errors.Is(err, credential.ErrNotFound) {
		c.emitAudit(ctx, AuditEvent{
			EventType: AuditStorageRead,
			Success:   false,
			Error:     err.Error(),
		})
	}

	promoted := false
	c.mu.Lock()
	if err == nil && rec.Present() && !c.authenticated && c.gen == startGen {
		c.authenticated = true
		c.principal = rec.Principal
		promoted = true
	}
	c.hydrated = true
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if promoted {
		c.metricInc(MetricHydrationPromoted)
	} else {
		c.metricInc(MetricHydrationEmpty)
	}
	c.emitAudit(ctx, AuditEvent{
		EventType: AuditHydration,
		Principal: snap.Principal,
		Success:   true,
		Metadata: map[string]string{
			"promoted": boolString(promoted),
		},
	})

	return snap
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
