package metrics

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

var (
	imagesDiscoveredTotal atomic.Uint64
	imagesSkippedTotal    atomic.Uint64
	uploadsFailedTotal    atomic.Uint64
	analysesFailedTotal   atomic.Uint64
	storesFailedTotal     atomic.Uint64
	imagesStoredTotal     atomic.Uint64

	imageDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncImagesDiscovered increments the discovered counter.
func IncImagesDiscovered() {
	imagesDiscoveredTotal.Add(1)
}

// IncImagesSkipped increments the skipped counter (type or size filter).
func IncImagesSkipped() {
	imagesSkippedTotal.Add(1)
}

// IncUploadsFailed increments the failed-upload counter.
func IncUploadsFailed() {
	uploadsFailedTotal.Add(1)
}

// IncAnalysesFailed increments the failed-analysis counter.
func IncAnalysesFailed() {
	analysesFailedTotal.Add(1)
}

// IncStoresFailed increments the failed-store counter.
func IncStoresFailed() {
	storesFailedTotal.Add(1)
}

// IncImagesStored increments the stored counter.
func IncImagesStored() {
	imagesStoredTotal.Add(1)
}

// ObserveImageDurationMs records one image's end-to-end pipeline duration in milliseconds.
func ObserveImageDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	imageDuration.Observe(value)
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "batch_images_discovered_total", "Total files discovered in the input directory", imagesDiscoveredTotal.Load())
	writeCounter(&buf, "batch_images_skipped_total", "Total files skipped by the type or size filter", imagesSkippedTotal.Load())
	writeCounter(&buf, "batch_uploads_failed_total", "Total failed object store uploads", uploadsFailedTotal.Load())
	writeCounter(&buf, "batch_analyses_failed_total", "Total failed or empty label analyses", analysesFailedTotal.Load())
	writeCounter(&buf, "batch_stores_failed_total", "Total failed record store writes", storesFailedTotal.Load())
	writeCounter(&buf, "batch_images_stored_total", "Total images fully processed and stored", imagesStoredTotal.Load())
	writeHistogram(&buf, "batch_image_duration_ms", "Per-image pipeline duration in milliseconds", imageDuration.Snapshot())
	return buf.String()
}

// WriteFile renders metrics to the given path, for collection as a CI artifact.
func WriteFile(path string) error {
	return os.WriteFile(path, []byte(Render()), 0o644)
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

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds, useful for duration math.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
