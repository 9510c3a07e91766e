package main

import (
	"log/slog"
	"math"

	"github.com/taigrr/ott/pkg/clock"
	"github.com/taigrr/ott/pkg/config"
	"github.com/taigrr/ott/pkg/input"
	"github.com/taigrr/ott/pkg/math3d"
	"github.com/taigrr/ott/pkg/render"
	"github.com/taigrr/ott/pkg/scene"
)

const (
	torque       = 3.0  // radians per second² while a spin key is held
	dragImpulse  = 0.03 // radians per pointer unit
	zoomStep     = 0.5
	stickImpulse = 3.0
)

// viewState holds the user-toggled view settings.
type viewState struct {
	ShowHUD   bool
	Texture   bool
	Wireframe bool
	Culling   bool

	// LightMode aims the key light with the pointer until a click. Esc
	// restores saved.
	LightMode bool
	saved     math3d.Ray
}

// viewer drives one model through the software pipeline. Backends feed it
// input snapshots and present its framebuffer.
type viewer struct {
	log   *slog.Logger
	scene *scene.Scene
	model *scene.Object
	key   *render.DirectionalLight
	tex   *render.Texture

	rig    *rig
	target math3d.Vec3
	view   viewState
	hud    hud

	fb    *render.Framebuffer
	depth *render.DepthBuffer
	timer *clock.Timer
	last  scene.FrameStats

	// pointer space size, for light aiming
	pointerW, pointerH int
	// dragScale converts pointer units to drag units
	dragScale float64
}

func newViewer(cfg *config.Config, log *slog.Logger, width, height int) (*viewer, error) {
	s, h, err := newScene(cfg, log, width, height)
	if err != nil {
		return nil, err
	}
	model, err := s.Object(h)
	if err != nil {
		return nil, err
	}

	target := vec3(cfg.Camera.Target)
	v := &viewer{
		log:    log,
		scene:  s,
		model:  model,
		tex:    model.Texture,
		rig:    newRig(cfg.Render.FPS, vec3(cfg.Camera.Position).Distance(target)),
		target: target,
		view: viewState{
			Texture:   true,
			Wireframe: s.Wireframe,
			Culling:   s.Culling,
		},
		hud:       hud{name: model.Name, triangles: len(model.Polygons())},
		fb:        render.NewFramebuffer(width, height),
		depth:     render.NewDepthBuffer(width, height),
		timer:     clock.NewTimer(cfg.Render.FPS),
		pointerW:  width,
		pointerH:  height,
		dragScale: 1,
	}
	v.findKeyLight()
	return v, nil
}

// findKeyLight picks the first directional light for light mode.
func (v *viewer) findKeyLight() {
	v.key = nil
	for _, l := range v.scene.Lights {
		if d, ok := l.(*render.DirectionalLight); ok {
			v.key = d
			return
		}
	}
}

// resize changes the framebuffer size and keeps the camera aspect in step.
func (v *viewer) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.fb.Resize(width, height)
	v.scene.Camera.SetAspectRatio(float64(width) / float64(height))
}

// reload applies a changed config to the running viewer.
func (v *viewer) reload(cfg *config.Config) error {
	if err := applyConfig(v.scene, cfg); err != nil {
		return err
	}
	v.view.Wireframe = v.scene.Wireframe
	v.view.Culling = v.scene.Culling
	v.timer.SetFPS(cfg.Render.FPS)
	v.view.LightMode = false
	v.findKeyLight()
	v.log.Info("config reloaded")
	return nil
}

// handleInput applies one frame of input. dt is in seconds. It reports
// whether the user asked to quit.
func (v *viewer) handleInput(in input.Snapshot, dt float64) (quit bool) {
	if in.Pressed("ctrl+c") {
		return true
	}
	if v.view.LightMode {
		if in.Pressed("esc") {
			v.key.Ray = v.view.saved
			v.view.LightMode = false
			return false
		}
		x, y := in.Position()
		v.key.Ray = math3d.NewRay(math3d.Zero3(), v.pointerLightDir(x, y))
		if in.ButtonHeld(input.ButtonLeft) {
			v.view.LightMode = false
		}
		return false
	}
	if in.Pressed("esc") {
		return true
	}

	var pitch, yaw, roll float64
	if in.AnyHeld("w", "up") {
		pitch -= torque
	}
	if in.AnyHeld("s", "down") {
		pitch += torque
	}
	if in.AnyHeld("a", "left") {
		yaw -= torque
	}
	if in.AnyHeld("d", "right") {
		yaw += torque
	}
	if in.Held("q") {
		roll -= torque
	}
	if in.Held("e") {
		roll += torque
	}
	pitch += in.Axis(input.AxisLeftY) * stickImpulse
	yaw += in.Axis(input.AxisLeftX) * stickImpulse
	v.rig.Impulse(pitch*dt, yaw*dt, roll*dt)

	if dx, dy := in.Drag(); dx != 0 || dy != 0 {
		v.rig.Impulse(float64(dy)*dragImpulse*v.dragScale, float64(dx)*dragImpulse*v.dragScale, 0)
	}
	if w := in.Wheel(); w != 0 {
		v.rig.Zoom(-float64(w) * zoomStep)
	}
	v.rig.Zoom(in.Axis(input.AxisRightY) * zoomStep * dt * 4)

	switch {
	case in.Pressed("space"):
		v.rig.RandomImpulse()
	case in.Pressed("r"):
		v.rig.Reset()
	case in.AnyPressed("+", "="):
		v.rig.Zoom(-zoomStep)
	case in.AnyPressed("-", "_"):
		v.rig.Zoom(zoomStep)
	case in.Pressed("t"):
		v.view.Texture = !v.view.Texture
		if v.view.Texture {
			v.model.Texture = v.tex
		} else {
			v.tex, v.model.Texture = v.model.Texture, nil
		}
	case in.Pressed("x"):
		v.view.Wireframe = !v.view.Wireframe
		v.scene.Wireframe = v.view.Wireframe
	case in.Pressed("c"):
		v.view.Culling = !v.view.Culling
		v.scene.Culling = v.view.Culling
	case in.Pressed("l"):
		if v.key != nil {
			v.view.LightMode = true
			v.view.saved = v.key.Ray
		}
	case in.Pressed("?"):
		v.view.ShowHUD = !v.view.ShowHUD
	}
	return false
}

// pointerLightDir maps a pointer position to a light direction on the
// hemisphere facing the camera. The center of the screen shines straight
// along the view axis; the edges light the model from the side.
func (v *viewer) pointerLightDir(x, y int) math3d.Vec3 {
	w, h := max(v.pointerW, 1), max(v.pointerH, 1)
	nx := float64(x)/float64(w)*2 - 1
	ny := float64(y)/float64(h)*2 - 1
	if l := math.Hypot(nx, ny); l > 1 {
		nx, ny = nx/l, ny/l
	}
	nz := math.Sqrt(max(0, 1-nx*nx-ny*ny))

	cam := v.scene.Camera
	return cam.Right().Scale(-nx).
		Add(cam.Up().Scale(ny)).
		Add(cam.Forward().Scale(nz)).
		Normalize()
}

// advance steps the rig one frame and poses the model and camera.
func (v *viewer) advance() {
	v.rig.Update()
	v.model.Local.Rotation = v.rig.Rotation()
	cam := v.scene.Camera
	cam.SetPosition(v.target.Sub(cam.Forward().Scale(v.rig.Distance)))
}

// frame advances and renders into the framebuffer.
func (v *viewer) frame() scene.FrameStats {
	v.advance()
	v.last = v.scene.Render(v.fb, v.depth)
	return v.last
}
