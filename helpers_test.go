package linkshield

import (
	"context"
	"sync"
	"testing"

	"github.com/AbdulhameedSk/LinkShield/credential"
)

// navRecorder records navigation side effects for assertions.
type navRecorder struct {
	mu      sync.Mutex
	targets []string
}

func (n *navRecorder) Navigate(target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, target)
}

func (n *navRecorder) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.targets)
}

func (n *navRecorder) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.targets) == 0 {
		return ""
	}
	return n.targets[len(n.targets)-1]
}

// gateStore wraps a Store and blocks Load until released, to pin down
// orderings between the hydration pass and session mutations.
type gateStore struct {
	credential.Store
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGateStore(inner credential.Store) *gateStore {
	return &gateStore{
		Store:   inner,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

// Load reads the record up front, then blocks before returning it. A logout
// that lands while Load is blocked deletes the durable record, but this call
// still hands back the stale pre-logout value, which the hydration pass must
// refuse to act on.
func (s *gateStore) Load(ctx context.Context) (credential.Record, error) {
	rec, err := s.Store.Load(ctx)
	s.once.Do(func() { close(s.entered) })
	<-s.release
	return rec, err
}

func testConfig(baseURL string) Config {
	cfg := defaultConfig()
	cfg.Gateway.BaseURL = baseURL
	return cfg
}

func newTestClient(t *testing.T, baseURL string, store credential.Store, nav Navigator) *Client {
	t.Helper()

	if store == nil {
		store = credential.NewMemoryStore()
	}

	builder := New().
		WithConfig(testConfig(baseURL)).
		WithStore(store).
		WithMetricsEnabled(true)
	if nav != nil {
		builder = builder.WithNavigator(nav)
	}

	client, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(client.Close)

	return client
}
