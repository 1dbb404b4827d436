package linkshield

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AbdulhameedSk/LinkShield/credential"
)

// captureSink collects every event it receives.
type captureSink struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (s *captureSink) Emit(_ context.Context, event AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *captureSink) snapshot() []AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AuditEvent, len(s.events))
	copy(out, s.events)
	return out
}

// waitForEvents polls until the sink has seen at least n events.
func (s *captureSink) waitForEvents(t *testing.T, n int) []AuditEvent {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		events := s.snapshot()
		if len(events) >= n {
			return events
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d audit events, have %d", n, len(s.snapshot()))
	return nil
}

func newAuditedClient(t *testing.T, baseURL string, store credential.Store, sink AuditSink) *Client {
	t.Helper()

	if store == nil {
		store = credential.NewMemoryStore()
	}
	client, err := New().
		WithConfig(testConfig(baseURL)).
		WithStore(store).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestAuditLoginLogoutEvents(t *testing.T) {
	ctx := context.Background()

	sink := &captureSink{}
	client := newAuditedClient(t, "http://localhost:1", nil, sink)

	if err := client.Login(ctx, "tok", "a@b.com"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := client.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	events := sink.waitForEvents(t, 2)
	if events[0].EventType != AuditLogin || events[0].Principal != "a@b.com" || !events[0].Success {
		t.Fatalf("unexpected login event %+v", events[0])
	}
	if events[1].EventType != AuditLogout || !events[1].Success {
		t.Fatalf("unexpected logout event %+v", events[1])
	}
	if events[0].Timestamp.IsZero() {
		t.Fatal("events must carry a timestamp")
	}
}

func TestAuditEvictionEvent(t *testing.T) {
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sink := &captureSink{}
	store := credential.NewMemoryStore()
	if err := store.Save(ctx, credential.Record{Token: "tok", Principal: "a@b.com"}); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	client := newAuditedClient(t, srv.URL, store, sink)

	_, _ = client.Scams(ctx)

	var evicted bool
	for _, event := range sink.waitForEvents(t, 2) {
		if event.EventType == AuditEviction {
			evicted = true
			if event.RequestID == "" {
				t.Fatal("eviction event must carry the request ID")
			}
		}
	}
	if !evicted {
		t.Fatal("expected an eviction audit event")
	}
}

func TestAuditDisabledByDefault(t *testing.T) {
	ctx := context.Background()

	// No sink configured: the dispatcher is never created and mutations
	// proceed without audit overhead.
	client := newTestClient(t, "http://localhost:1", nil, nil)
	if client.audit != nil {
		t.Fatal("expected nil dispatcher when auditing is disabled")
	}
	if err := client.Login(ctx, "tok", "a@b.com"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if client.AuditDropped() != 0 {
		t.Fatalf("expected zero drops, got %d", client.AuditDropped())
	}
}

func TestChannelSinkDelivery(t *testing.T) {
	sink := NewChannelSink(4)
	sink.Emit(context.Background(), AuditEvent{EventType: AuditLogin})

	select {
	case event := <-sink.Events():
		if event.EventType != AuditLogin {
			t.Fatalf("unexpected event %+v", event)
		}
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestJSONWriterSinkFormat(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{EventType: AuditLogout, Success: true})
	sink.Emit(context.Background(), AuditEvent{EventType: AuditLogin, Principal: "a@b.com", Success: true})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	var decoded AuditEvent
	if err := json.Unmarshal([]byte(lines[1]), &decoded); err != nil {
		t.Fatalf("line not valid JSON: %v", err)
	}
	if decoded.EventType != AuditLogin || decoded.Principal != "a@b.com" {
		t.Fatalf("unexpected decoded event %+v", decoded)
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	// A sink that never returns keeps the worker busy so the buffer fills.
	block := make(chan struct{})
	sink := blockingSink{block: block}

	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// First event occupies the worker, second fills the 1-slot buffer, the
	// rest are dropped.
	for i := 0; i < 6; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: AuditRequest})
	}

	if d.Dropped() == 0 {
		t.Fatal("expected dropped events under backpressure")
	}

	close(block)
	d.Close()
}

type blockingSink struct {
	block chan struct{}
}

func (s blockingSink) Emit(context.Context, AuditEvent) {
	<-s.block
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	sink := &captureSink{}
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 16}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: AuditHydration})
	}
	d.Close()

	if got := len(sink.snapshot()); got != 5 {
		t.Fatalf("expected all buffered events delivered on close, got %d", got)
	}

	// Emitting after close is a no-op.
	d.Emit(context.Background(), AuditEvent{EventType: AuditLogin})
	if got := len(sink.snapshot()); got != 5 {
		t.Fatalf("expected no delivery after close, got %d", got)
	}
}
