// Package stats keeps rolling-window latency figures per operation.
package stats

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at       time.Time
	duration time.Duration
}

// Snapshot aggregates one operation's samples in the current window.
type Snapshot struct {
	Count int     `json:"count"`
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Recorder tracks operation latencies (render, toc, segment) within a
// rolling window. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	samples map[string][]sample
	window  time.Duration
	now     func() time.Time
}

func NewRecorder(window time.Duration) *Recorder {
	if window <= 0 {
		window = time.Hour
	}
	return &Recorder{
		samples: make(map[string][]sample),
		window:  window,
		now:     time.Now,
	}
}

func (r *Recorder) Record(op string, d time.Duration) {
	if d < 0 {
		d = 0
	}
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked(op, now)
	r.samples[op] = append(r.samples[op], sample{at: now, duration: d})
}

// Since records the time elapsed since start. Use with defer.
func (r *Recorder) Since(op string, start time.Time) {
	r.Record(op, r.now().Sub(start))
}

// Snapshot returns the aggregate for op; the zero Snapshot if there are no
// samples.
func (r *Recorder) Snapshot(op string) Snapshot {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked(op, now)
	return aggregate(r.samples[op])
}

// All returns a snapshot for every operation with samples in the window.
func (r *Recorder) All() map[string]Snapshot {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]Snapshot, len(r.samples))
	for op := range r.samples {
		r.pruneLocked(op, now)
		if len(r.samples[op]) > 0 {
			out[op] = aggregate(r.samples[op])
		}
	}
	return out
}

func (r *Recorder) pruneLocked(op string, now time.Time) {
	cutoff := now.Add(-r.window)
	kept := r.samples[op][:0]
	for _, s := range r.samples[op] {
		if !s.at.Before(cutoff) {
			kept = append(kept, s)
		}
	}
	r.samples[op] = kept
}

func aggregate(samples []sample) Snapshot {
	if len(samples) == 0 {
		return Snapshot{}
	}

	values := make([]float64, 0, len(samples))
	var sum float64
	for _, s := range samples {
		ms := float64(s.duration) / float64(time.Millisecond)
		values = append(values, ms)
		sum += ms
	}
	slices.Sort(values)

	return Snapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: sum / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []float64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return sorted[0]
	case pct >= 100:
		return sorted[len(sorted)-1]
	}

	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*weight
}
