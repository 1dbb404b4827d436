package linkshield

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AbdulhameedSk/LinkShield/credential"
	"github.com/google/uuid"
)

// httpDoer is the slice of *http.Client the gateway needs; substitutable in
// tests.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxResponseBody caps how much of an error or success body is read.
const maxResponseBody = 1 << 20

// do is the sole egress path. It attaches the bearer credential read from
// durable storage at call time, dispatches the request, and centralizes
// unauthenticated handling before the caller observes the settled result.
func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	if c == nil || c.httpClient == nil {
		return ErrClientNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok && c.config.Gateway.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Gateway.RequestTimeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("linkshield: encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.Gateway.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("linkshield: build request: %w", err)
	}

	requestID := requestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	ua := c.config.Gateway.UserAgent
	if override := userAgentFromContext(ctx); override != "" {
		ua = override
	}
	if ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	c.interceptRequest(ctx, req)

	c.metricInc(MetricRequestSent)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.Observe(MetricRequestLatency, time.Since(start))
	}
	if err != nil {
		// No response received: transport errors propagate unchanged and
		// never enter the unauthenticated path.
		c.metricInc(MetricRequestTransportError)
		c.emitAudit(ctx, AuditEvent{
			EventType: AuditRequest,
			Method:    method,
			Path:      path,
			RequestID: requestID,
			Success:   false,
			Error:     err.Error(),
		})
		return fmt.Errorf("linkshield: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))

	c.emitAudit(ctx, AuditEvent{
		EventType: AuditRequest,
		Method:    method,
		Path:      path,
		RequestID: requestID,
		Status:    resp.StatusCode,
		Success:   resp.StatusCode >= 200 && resp.StatusCode < 300,
	})

	if resp.StatusCode == http.StatusUnauthorized {
		c.evictCredential(ctx, requestID)
		return newAPIError(resp.StatusCode, respBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metricInc(MetricRequestAPIError)
		return newAPIError(resp.StatusCode, respBody)
	}

	if readErr != nil {
		return fmt.Errorf("linkshield: read response body: %w", readErr)
	}
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("linkshield: decode response body: %w", err)
		}
	}

	return nil
}

// interceptRequest attaches the bearer credential. The durable store, not the
// in-memory session, is authoritative at call time: another client instance
// sharing the store may have logged in or out since this instance last
// mutated its session.
func (c *Client) interceptRequest(ctx context.Context, req *http.Request) {
	rec, err := c.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, credential.ErrNotFound) {
			// Storage failure reads as "no credential"; the backend decides
			// what an anonymous request may do.
			c.emitAudit(ctx, AuditEvent{
				EventType: AuditStorageRead,
				Success:   false,
				Error:     err.Error(),
			})
		}
		return
	}
	if !rec.Present() {
		return
	}

	req.Header.Set("Authorization", "Bearer "+rec.Token)
	c.metricInc(MetricRequestBearerAttached)
}

// evictCredential runs the centralized unauthenticated path: delete the
// durable record directly (not via Logout — the store must be cleared even if
// the session is wedged), clear the in-memory session, and invoke the
// navigation port once. The caller still receives the original error.
func (c *Client) evictCredential(ctx context.Context, requestID string) {
	if err := c.store.Delete(ctx); err != nil {
		c.emitAudit(ctx, AuditEvent{
			EventType: AuditEviction,
			RequestID: requestID,
			Success:   false,
			Error:     err.Error(),
		})
	} else {
		c.emitAudit(ctx, AuditEvent{
			EventType: AuditEviction,
			RequestID: requestID,
			Success:   true,
		})
	}

	c.mu.Lock()
	c.authenticated = false
	c.principal = ""
	c.gen++
	c.mu.Unlock()

	c.metricInc(MetricUnauthenticatedEviction)

	if c.navigate != nil {
		c.navigate(c.config.Gateway.LoginPath)
	}
}
