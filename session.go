package linkshield

import (
	"context"

	"github.com/AbdulhameedSk/LinkShield/credential"
)

// Session returns the current session snapshot. Pure read, no side effects.
func (c *Client) Session() SessionSnapshot {
	if c == nil {
		return SessionSnapshot{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Login records an authenticated session: the credential pair is written to
// durable storage first, then the in-memory session flips to authenticated.
//
// Token contents are not validated; trust is established by the backend. A
// storage write failure does not fail the login — the in-memory session still
// flips and the failure is audited, matching the platform convention that
// durable-write errors are not recoverable here.
func (c *Client) Login(ctx context.Context, token, principal string) error {
	if c == nil {
		return ErrClientNotReady
	}
	if token == "" || principal == "" {
		return ErrInvalidCredentialPair
	}

	if err := c.store.Save(ctx, credential.Record{Token: token, Principal: principal}); err != nil {
		c.emitAudit(ctx, AuditEvent{
			EventType: AuditLogin,
			Principal: principal,
			Success:   false,
			Error:     err.Error(),
		})
	} else {
		c.emitAudit(ctx, AuditEvent{
			EventType: AuditLogin,
			Principal: principal,
			Success:   true,
		})
	}

	c.mu.Lock()
	c.authenticated = true
	c.principal = principal
	c.gen++
	c.mu.Unlock()

	c.metricInc(MetricLogin)
	return nil
}

// Logout deletes the durable credential record and clears the in-memory
// session. Idempotent: logging out an already logged-out client observes the
// same state as a single logout.
func (c *Client) Logout(ctx context.Context) error {
	if c == nil {
		return ErrClientNotReady
	}

	// Bump the generation before touching storage so a hydration pass whose
	// read is already in flight cannot promote from a record we are about to
	// delete.
	c.mu.Lock()
	c.authenticated = false
	c.principal = ""
	c.gen++
	c.mu.Unlock()

	if err := c.store.Delete(ctx); err != nil {
		c.emitAudit(ctx, AuditEvent{
			EventType: AuditLogout,
			Success:   false,
			Error:     err.Error(),
		})
	} else {
		c.emitAudit(ctx, AuditEvent{
			EventType: AuditLogout,
			Success:   true,
		})
	}

	c.metricInc(MetricLogout)
	return nil
}
