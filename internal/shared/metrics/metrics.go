package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	pipelineStartedTotal   atomic.Uint64
	pipelineSucceededTotal atomic.Uint64
	pipelineFailedTotal    atomic.Uint64

	bestEffortFailures = newCounterVec()
	gatewayErrors      = newCounterVec()
	rateLimited        = newCounterVec()

	stageDurations = newHistogramVec([]float64{50, 100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncPipelineStarted increments the started counter.
func IncPipelineStarted() {
	pipelineStartedTotal.Add(1)
}

// IncPipelineSucceeded increments the succeeded counter.
func IncPipelineSucceeded() {
	pipelineSucceededTotal.Add(1)
}

// IncPipelineFailed increments the failed counter.
func IncPipelineFailed() {
	pipelineFailedTotal.Add(1)
}

// IncBestEffortFailure counts a swallowed write failure for target (tasks, notes, extracted_text, analysis).
func IncBestEffortFailure(target string) {
	bestEffortFailures.Inc(fmt.Sprintf("target=%q", target))
}

// IncGatewayError counts a gateway failure by gateway and error kind.
func IncGatewayError(gateway, kind string) {
	gatewayErrors.Inc(fmt.Sprintf("gateway=%q,kind=%q", gateway, kind))
}

// IncRateLimited counts a request rejected by the rate limiter for group.
func IncRateLimited(group string) {
	rateLimited.Inc(fmt.Sprintf("group=%q", group))
}

// RateLimited returns the rejection count for group.
func RateLimited(group string) uint64 {
	return rateLimited.Get(fmt.Sprintf("group=%q", group))
}

// ObserveStageDurationMs records a pipeline stage duration in milliseconds.
func ObserveStageDurationMs(stage string, value float64) {
	if value < 0 {
		value = 0
	}
	stageDurations.Observe(fmt.Sprintf("stage=%q", stage), value)
}

// BestEffortFailures returns the current count for target.
func BestEffortFailures(target string) uint64 {
	return bestEffortFailures.Get(fmt.Sprintf("target=%q", target))
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "pipeline_runs_started_total", "Total pipeline runs started", pipelineStartedTotal.Load())
	writeCounter(&buf, "pipeline_runs_succeeded_total", "Total pipeline runs that reached success", pipelineSucceededTotal.Load())
	writeCounter(&buf, "pipeline_runs_failed_total", "Total pipeline runs aborted to idle", pipelineFailedTotal.Load())
	writeCounterVec(&buf, "best_effort_write_failures_total", "Swallowed best-effort write failures", bestEffortFailures)
	writeCounterVec(&buf, "gateway_errors_total", "Gateway failures by kind", gatewayErrors)
	writeCounterVec(&buf, "http_rate_limited_total", "Requests rejected by the rate limiter", rateLimited)
	writeHistogramVec(&buf, "pipeline_stage_duration_ms", "Pipeline stage duration in milliseconds", stageDurations)
	return buf.String()
}

type counterVec struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newCounterVec() *counterVec {
	return &counterVec{values: make(map[string]uint64)}
}

func (v *counterVec) Inc(labels string) {
	v.mu.Lock()
	v.values[labels]++
	v.mu.Unlock()
}

func (v *counterVec) Get(labels string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.values[labels]
}

func (v *counterVec) snapshot() ([]string, map[string]uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]uint64, len(v.values))
	keys := make([]string, 0, len(v.values))
	for k, val := range v.values {
		out[k] = val
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

type histogramVec struct {
	mu      sync.Mutex
	buckets []float64
	series  map[string]*histogram
}

func newHistogramVec(buckets []float64) *histogramVec {
	return &histogramVec{buckets: buckets, series: make(map[string]*histogram)}
}

func (v *histogramVec) Observe(labels string, value float64) {
	v.mu.Lock()
	h, ok := v.series[labels]
	if !ok {
		h = newHistogram(v.buckets)
		v.series[labels] = h
	}
	v.mu.Unlock()
	h.Observe(value)
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeCounterVec(buf *bytes.Buffer, name, help string, v *counterVec) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys, values := v.snapshot()
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s} %d\n", name, k, values[k])
	}
}

func writeHistogramVec(buf *bytes.Buffer, name, help string, v *histogramVec) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	v.mu.Lock()
	labels := make([]string, 0, len(v.series))
	for k := range v.series {
		labels = append(labels, k)
	}
	v.mu.Unlock()
	sort.Strings(labels)
	for _, l := range labels {
		v.mu.Lock()
		snap := v.series[l].Snapshot()
		v.mu.Unlock()
		var cumulative uint64
		for i, bound := range snap.buckets {
			cumulative += snap.counts[i]
			fmt.Fprintf(buf, "%s_bucket{%s,le=\"%s\"} %d\n", name, l, formatFloat(bound), cumulative)
		}
		fmt.Fprintf(buf, "%s_bucket{%s,le=\"+Inf\"} %d\n", name, l, snap.count)
		fmt.Fprintf(buf, "%s_sum{%s} %s\n", name, l, formatFloat(snap.sum))
		fmt.Fprintf(buf, "%s_count{%s} %d\n", name, l, snap.count)
	}
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
