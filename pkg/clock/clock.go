// Package clock paces the frame loop and keeps frame-time statistics.
package clock

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MaxDelta caps the time step returned by Tick so a stall does not make
// animation jump.
const MaxDelta = 100 * time.Millisecond

// Clock abstracts wall time for tests.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Timer caps the frame rate and records the duration of recent frames.
type Timer struct {
	clk    Clock
	target time.Duration
	last   time.Time

	samples []float64 // seconds, ring buffer
	next    int
	frames  int
}

// Option configures a Timer.
type Option func(*Timer)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(t *Timer) { t.clk = c }
}

// WithWindow sets how many recent frames Stats covers.
func WithWindow(n int) Option {
	return func(t *Timer) { t.samples = make([]float64, 0, max(n, 1)) }
}

// NewTimer creates a timer targeting fps frames per second. fps <= 0 means
// uncapped.
func NewTimer(fps int, opts ...Option) *Timer {
	t := &Timer{clk: realClock{}, samples: make([]float64, 0, 120)}
	t.SetFPS(fps)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetFPS changes the frame cap.
func (t *Timer) SetFPS(fps int) {
	if fps <= 0 {
		t.target = 0
		return
	}
	t.target = time.Second / time.Duration(fps)
}

// Target returns the frame period, or 0 if uncapped.
func (t *Timer) Target() time.Duration { return t.target }

// Tick ends a frame: it sleeps out the rest of the frame period, records the
// frame time and returns the step since the previous Tick, capped at
// MaxDelta. The first call only starts the clock and returns the target
// period.
func (t *Timer) Tick() time.Duration {
	now := t.clk.Now()
	if t.last.IsZero() {
		t.last = now
		return t.target
	}
	if wait := t.target - now.Sub(t.last); wait > 0 {
		t.clk.Sleep(wait)
		now = t.clk.Now()
	}
	dt := now.Sub(t.last)
	t.last = now
	t.record(dt)
	return min(dt, MaxDelta)
}

func (t *Timer) record(dt time.Duration) {
	t.frames++
	if len(t.samples) < cap(t.samples) {
		t.samples = append(t.samples, dt.Seconds())
		return
	}
	t.samples[t.next] = dt.Seconds()
	t.next = (t.next + 1) % len(t.samples)
}

// Stats summarizes frame times over the recent window.
type Stats struct {
	Frames int // total frames since the timer started
	Mean   time.Duration
	StdDev time.Duration
	Min    time.Duration
	Max    time.Duration
	P95    time.Duration
	FPS    float64
}

// Stats returns statistics over the recent window. It is zero until two
// Ticks have happened.
func (t *Timer) Stats() Stats {
	if len(t.samples) == 0 {
		return Stats{Frames: t.frames}
	}
	sorted := slices.Clone(t.samples)
	slices.Sort(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = 0
	}
	s := Stats{
		Frames: t.frames,
		Mean:   seconds(mean),
		StdDev: seconds(std),
		Min:    seconds(floats.Min(sorted)),
		Max:    seconds(floats.Max(sorted)),
		P95:    seconds(stat.Quantile(0.95, stat.Empirical, sorted, nil)),
	}
	if mean > 0 {
		s.FPS = 1 / mean
	}
	return s
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		slog.Float64("fps", s.FPS),
		slog.Duration("mean", s.Mean),
		slog.Duration("stddev", s.StdDev),
		slog.Duration("min", s.Min),
		slog.Duration("max", s.Max),
		slog.Duration("p95", s.P95),
	)
}
