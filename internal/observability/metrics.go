package observability

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	statusCount  map[string]int64
	latency      map[string]time.Duration
}

// RouteStat is one row of a metrics snapshot.
type RouteStat struct {
	Path         string  `json:"path"`
	Method       string  `json:"method"`
	Requests     int64   `json:"requests"`
	Errors       int64   `json:"errors"`
	ServerErrors int64   `json:"server_errors"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		statusCount:  make(map[string]int64),
		latency:      make(map[string]time.Duration),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := routeKey(path, method)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.statusCount[key+"|"+statusClass(status)]++
	m.latency[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := routeKey(path, method)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
	m.errorCount[key+"|"+code]++
}

// ErrorCount returns how many errors with code were recorded for the route.
func (m *Metrics) ErrorCount(path, method, code string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorCount[routeKey(path, method)+"|"+code]
}

// Snapshot returns per-route counters sorted by path then method.
func (m *Metrics) Snapshot() []RouteStat {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := make([]RouteStat, 0, len(m.requestCount))
	for key, count := range m.requestCount {
		path, method, _ := strings.Cut(key, "|")
		stat := RouteStat{Path: path, Method: method, Requests: count, Errors: m.errorCount[key], ServerErrors: m.statusCount[key+"|5xx"]}
		if count > 0 {
			stat.AvgLatencyMs = float64(m.latency[key].Microseconds()) / 1000 / float64(count)
		}
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Path != stats[j].Path {
			return stats[i].Path < stats[j].Path
		}
		return stats[i].Method < stats[j].Method
	})
	return stats
}

func routeKey(path, method string) string {
	return path + "|" + method
}

func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
