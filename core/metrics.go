package core

import (
	"math"
	"sort"
	"sync"
	"time"
)

// DetectionMetrics accumulates the consumer's per-event observations: a
// detection-latency histogram (wall-time around each signature scan) and
// counters for processed, matched, and skipped events. Safe for use from
// the single consumer task plus any number of readers.
type DetectionMetrics struct {
	mu          sync.Mutex
	latenciesNs []float64

	processed uint64
	matched   uint64
	skipped   uint64
}

// NewDetectionMetrics returns an empty metrics accumulator.
func NewDetectionMetrics() *DetectionMetrics {
	return &DetectionMetrics{}
}

// ObserveDetectionLatency records one scan's wall-time duration.
func (m *DetectionMetrics) ObserveDetectionLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latenciesNs = append(m.latenciesNs, float64(d.Nanoseconds()))
}

// CountProcessed records one successfully parsed and scanned event.
func (m *DetectionMetrics) CountProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed++
}

// CountMatched records one event whose scan reported signature matches.
func (m *DetectionMetrics) CountMatched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matched++
}

// CountSkipped records one event no parser could handle.
func (m *DetectionMetrics) CountSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skipped++
}

// Counts returns the processed/matched/skipped totals.
func (m *DetectionMetrics) Counts() (processed, matched, skipped uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processed, m.matched, m.skipped
}

// DetectionLatencyPercentile returns the p-th percentile (0-100) of the
// observed detection latencies in nanoseconds, using linear interpolation
// between closest ranks. Returns 0 when nothing has been observed.
func (m *DetectionMetrics) DetectionLatencyPercentile(p float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.latenciesNs)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, m.latenciesNs)
	sort.Float64s(sorted)

	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))
	if lowerIdx == upperIdx || upperIdx >= n {
		return sorted[lowerIdx]
	}
	lowerVal := sorted[lowerIdx]
	upperVal := sorted[upperIdx]
	return lowerVal + (upperVal-lowerVal)*(rank-float64(lowerIdx))
}
