package observability

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// Metrics keeps request and error counters in process memory, keyed by
// path, method and outcome so the numbers line up with what the request
// logger emits.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest counts one completed request.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	key := counterKey(path, method, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError counts one request that failed with the given error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := counterKey(path, method, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

func counterKey(parts ...string) string {
	return strings.Join(parts, "|")
}
