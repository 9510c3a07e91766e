package clock

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when told to or when slept on.
type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) work(d time.Duration) { c.now = c.now.Add(d) }

func TestTickCapsFrameRate(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	timer := NewTimer(50, WithClock(clk))
	require.Equal(t, 20*time.Millisecond, timer.Target())

	assert.Equal(t, 20*time.Millisecond, timer.Tick())

	clk.work(5 * time.Millisecond)
	assert.Equal(t, 20*time.Millisecond, timer.Tick())
	assert.Equal(t, []time.Duration{15 * time.Millisecond}, clk.slept)

	// A slow frame is not padded.
	clk.work(30 * time.Millisecond)
	assert.Equal(t, 30*time.Millisecond, timer.Tick())
	assert.Len(t, clk.slept, 1)

	// Stalls are capped.
	clk.work(2 * time.Second)
	assert.Equal(t, MaxDelta, timer.Tick())
}

func TestUncapped(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	timer := NewTimer(0, WithClock(clk))
	timer.Tick()
	clk.work(time.Millisecond)
	assert.Equal(t, time.Millisecond, timer.Tick())
	assert.Empty(t, clk.slept)
}

func TestStats(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	timer := NewTimer(0, WithClock(clk), WithWindow(4))
	assert.Equal(t, Stats{}, timer.Stats())

	timer.Tick()
	// The first sample falls out of the 4-frame window.
	for _, ms := range []int{100, 10, 20, 30, 40} {
		clk.work(time.Duration(ms) * time.Millisecond)
		timer.Tick()
	}

	s := timer.Stats()
	assert.Equal(t, 5, s.Frames)
	assert.InDelta(t, 25*time.Millisecond, s.Mean, float64(time.Microsecond))
	assert.InDelta(t, 10*time.Millisecond, s.Min, float64(time.Microsecond))
	assert.InDelta(t, 40*time.Millisecond, s.Max, float64(time.Microsecond))
	assert.InDelta(t, 40*time.Millisecond, s.P95, float64(time.Microsecond))
	assert.InDelta(t, 40, s.FPS, 1e-6)

	// Sample standard deviation of 10, 20, 30, 40 ms.
	want := math.Sqrt((15*15+5*5+5*5+15*15)/3.0) * float64(time.Millisecond)
	assert.InDelta(t, want, float64(s.StdDev), float64(time.Microsecond))
}
