package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/ott/pkg/config"
	"github.com/taigrr/ott/pkg/input"
	"github.com/taigrr/ott/pkg/math3d"
)

func newTestViewer(t *testing.T) *viewer {
	t.Helper()
	v, err := newViewer(config.Default(), discard, 64, 48)
	require.NoError(t, err)
	return v
}

func press(keys ...string) input.Snapshot {
	s := input.NewState()
	for _, k := range keys {
		s.PressKey(k)
	}
	return s.Frame()
}

func TestViewerQuitKeys(t *testing.T) {
	v := newTestViewer(t)
	assert.False(t, v.handleInput(press("w"), 1.0/60))
	assert.True(t, v.handleInput(press("esc"), 1.0/60))

	in := input.NewState()
	in.Trigger("ctrl+c")
	assert.True(t, v.handleInput(in.Frame(), 1.0/60))
}

func TestViewerToggles(t *testing.T) {
	v := newTestViewer(t)

	v.handleInput(press("x"), 0)
	assert.True(t, v.scene.Wireframe)
	v.handleInput(press("c"), 0)
	assert.False(t, v.scene.Culling)
	v.handleInput(press("?"), 0)
	assert.True(t, v.view.ShowHUD)

	d := v.rig.Distance
	v.handleInput(press("+"), 0)
	assert.Less(t, v.rig.Distance, d)
}

func TestViewerHeldKeysSpin(t *testing.T) {
	v := newTestViewer(t)
	v.handleInput(press("d"), 0.1)
	assert.InDelta(t, torque*0.1, v.rig.Yaw.Velocity, 1e-12)
	assert.Zero(t, v.rig.Pitch.Velocity)
}

func TestViewerLightModeCancelRestores(t *testing.T) {
	v := newTestViewer(t)
	require.NotNil(t, v.key)
	orig := v.key.Ray

	v.handleInput(press("l"), 0)
	require.True(t, v.view.LightMode)

	in := input.NewState()
	in.MoveMouse(0, 0)
	v.handleInput(in.Frame(), 0)
	assert.NotEqual(t, orig.Dir, v.key.Ray.Dir, "light follows the pointer")

	v.handleInput(press("esc"), 0)
	assert.False(t, v.view.LightMode)
	assert.Equal(t, orig, v.key.Ray)
}

func TestPointerLightDir(t *testing.T) {
	v := newTestViewer(t)
	center := v.pointerLightDir(v.pointerW/2, v.pointerH/2)
	assert.InDelta(t, 1, center.Dot(v.scene.Camera.Forward()), 1e-9)

	top := v.pointerLightDir(v.pointerW/2, 0)
	assert.InDelta(t, -1, top.Dot(math3d.Up()), 1e-9, "aiming at the top lights from above")
}

func TestViewerFrameRenders(t *testing.T) {
	v := newTestViewer(t)
	st := v.frame()
	assert.Positive(t, st.Pixels)
	assert.Equal(t, st, v.last)

	v.resize(32, 16)
	assert.Equal(t, 32, v.fb.Width)
	assert.InDelta(t, 2.0, v.scene.Camera.AspectRatio(), 1e-12)
}
