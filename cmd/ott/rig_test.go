package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRigSpinSettles(t *testing.T) {
	r := newRig(60, 4)
	r.Impulse(0, 0.1, 0)
	for range 600 {
		r.Update()
	}
	assert.Positive(t, r.Yaw.Angle)
	assert.InDelta(t, 0, r.Yaw.Velocity, 1e-6)
	assert.Zero(t, r.Pitch.Angle)
}

func TestRigZoomClamps(t *testing.T) {
	r := newRig(60, 4)
	r.Zoom(-10)
	assert.Equal(t, 1.0, r.Distance)
	r.Zoom(100)
	assert.Equal(t, 20.0, r.Distance)

	r.Impulse(1, 1, 1)
	r.Update()
	r.Reset()
	assert.Equal(t, 4.0, r.Distance)
	assert.Zero(t, r.Yaw.Angle)
	assert.Zero(t, r.Yaw.Velocity)
}
