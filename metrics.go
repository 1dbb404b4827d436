package linkshield

import (
	"sync/atomic"
	"time"
)

// MetricID identifies a counter or histogram slot in the client's in-process
// metrics.
type MetricID uint16

const (
	// MetricLogin counts successful Login calls.
	MetricLogin MetricID = iota
	// MetricLogout counts Logout calls.
	MetricLogout
	// MetricHydrationPromoted counts hydration passes that promoted the
	// session to authenticated.
	MetricHydrationPromoted
	// MetricHydrationEmpty counts hydration passes that found no usable
	// credential record.
	MetricHydrationEmpty
	// MetricRequestSent counts outbound requests dispatched by the gateway.
	MetricRequestSent
	// MetricRequestBearerAttached counts requests that carried a bearer
	// credential.
	MetricRequestBearerAttached
	// MetricRequestTransportError counts requests that failed before a
	// response was received.
	MetricRequestTransportError
	// MetricRequestAPIError counts non-2xx responses other than
	// unauthenticated.
	MetricRequestAPIError
	// MetricUnauthenticatedEviction counts unauthenticated responses that
	// triggered credential eviction and navigation.
	MetricUnauthenticatedEviction
	// MetricRequestLatency is the request round-trip latency histogram.
	MetricRequestLatency

	metricIDCount
)

var metricNames = [metricIDCount]string{
	MetricLogin:                   "login",
	MetricLogout:                  "logout",
	MetricHydrationPromoted:       "hydration_promoted",
	MetricHydrationEmpty:          "hydration_empty",
	MetricRequestSent:             "request_sent",
	MetricRequestBearerAttached:   "request_bearer_attached",
	MetricRequestTransportError:   "request_transport_error",
	MetricRequestAPIError:         "request_api_error",
	MetricUnauthenticatedEviction: "unauthenticated_eviction",
	MetricRequestLatency:          "request_latency",
}

// String returns the stable external name of the metric.
func (id MetricID) String() string {
	if id >= metricIDCount {
		return "unknown"
	}
	return metricNames[id]
}

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters and an optional request-latency histogram.
// All operations are no-ops on a disabled or nil instance.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a [Metrics] instance configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether metric collection is active.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc atomically increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a request latency sample. Only [MetricRequestLatency] has a
// histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id != MetricRequestLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns the current counter value for id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot returns a deep copy of all counters and, when latency histograms
// are enabled, the request-latency buckets.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricRequestLatency].buckets[i])
		}
		s.Histograms[MetricRequestLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
