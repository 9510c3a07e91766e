package main

import (
	"math/rand/v2"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/ott/pkg/math3d"
)

// spinAxis integrates an angle whose angular velocity springs back to rest.
type spinAxis struct {
	Angle    float64
	Velocity float64

	spring harmonica.Spring
	accel  float64
}

func newSpinAxis(fps int) spinAxis {
	// Critically damped so the spin settles without reversing.
	return spinAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

func (a *spinAxis) update() {
	a.Angle += a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

// rig turns the model with spring-damped pitch, yaw and roll and moves the
// camera along its view axis for zoom.
type rig struct {
	Pitch, Yaw, Roll spinAxis
	Distance         float64

	fps      int
	home     float64
	min, max float64
}

func newRig(fps int, distance float64) *rig {
	fps = max(fps, 1)
	r := &rig{fps: fps, home: distance, min: 1, max: 20}
	r.Reset()
	return r
}

// Reset stops all spin and restores the starting distance.
func (r *rig) Reset() {
	r.Pitch = newSpinAxis(r.fps)
	r.Yaw = newSpinAxis(r.fps)
	r.Roll = newSpinAxis(r.fps)
	r.Distance = r.home
}

// Impulse adds angular velocity in radians per frame.
func (r *rig) Impulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

// RandomImpulse spins the model in a random direction.
func (r *rig) RandomImpulse() {
	r.Impulse((rand.Float64()-0.5)*1.5, (rand.Float64()-0.5)*1.5, (rand.Float64()-0.5)*1.5)
}

// Zoom moves the camera by delta, clamped to the rig's range.
func (r *rig) Zoom(delta float64) {
	r.Distance = min(r.max, max(r.min, r.Distance+delta))
}

// Update advances the springs by one frame.
func (r *rig) Update() {
	r.Pitch.update()
	r.Yaw.update()
	r.Roll.update()
}

// Rotation returns the model orientation.
func (r *rig) Rotation() math3d.Mat3 {
	return math3d.Mat3FromEuler(r.Pitch.Angle, r.Yaw.Angle, r.Roll.Angle)
}
