package main

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/taigrr/ott/pkg/config"
	"github.com/taigrr/ott/pkg/math3d"
	"github.com/taigrr/ott/pkg/models"
	"github.com/taigrr/ott/pkg/render"
	"github.com/taigrr/ott/pkg/scene"
)

func vec3(a [3]float64) math3d.Vec3 { return math3d.V3(a[0], a[1], a[2]) }

func lightColor(s string) (render.Light, error) {
	c, err := config.ParseColor(s)
	if err != nil {
		return render.Light{}, err
	}
	return render.LightFromColor(c), nil
}

// newCamera builds a camera for a width x height surface. The config FOV is
// horizontal, in degrees.
func newCamera(cc config.CameraConfig, width, height int) *render.Camera {
	cam := render.NewCamera()
	cam.SetFOV(cc.FOV * math.Pi / 180)
	cam.SetFocalLength(cc.FocalLength)
	cam.SetClipPlanes(cc.Near, cc.Far)
	if width > 0 && height > 0 {
		cam.SetAspectRatio(float64(width) / float64(height))
	}
	cam.SetPosition(vec3(cc.Position))
	cam.LookAt(vec3(cc.Target))
	return cam
}

// newLights converts light configs in order.
func newLights(lcs []config.LightConfig) ([]render.LightSource, error) {
	lights := make([]render.LightSource, 0, len(lcs))
	for i, lc := range lcs {
		tint, err := lightColor(lc.Color)
		if err != nil {
			return nil, fmt.Errorf("lights[%d]: %w", i, err)
		}
		var l render.LightSource
		switch lc.Kind {
		case config.LightAmbient:
			a := render.NewAmbientLight(lc.Name, lc.Brightness, tint)
			a.On = !lc.Off
			l = a
		case config.LightDirectional:
			d := render.NewDirectionalLight(lc.Name, vec3(lc.Direction), lc.Brightness, tint)
			d.On = !lc.Off
			l = d
		case config.LightPoint:
			p := render.NewPointLight(lc.Name, vec3(lc.Position), lc.Brightness, tint)
			p.On = !lc.Off
			l = p
		case config.LightCone:
			c := render.NewConeLight(lc.Name, vec3(lc.Position), vec3(lc.Direction),
				lc.Opening*math.Pi/180, lc.Brightness, tint)
			c.On = !lc.Off
			l = c
		default:
			return nil, fmt.Errorf("lights[%d]: unknown kind %q", i, lc.Kind)
		}
		lights = append(lights, l)
	}
	return lights, nil
}

// loadModel reads a mesh, fits it into a cube of mc.Fit and wraps it in an
// object. A texture path in the config wins over an embedded base map; the
// material base color wins over the configured color.
func loadModel(path string, mc config.ModelConfig, smooth bool, log *slog.Logger) (*scene.Object, error) {
	loader := models.NewLoader()
	loader.SmoothNormals = smooth
	mesh, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	if mc.Fit > 0 {
		mesh.FitTo(mc.Fit)
	}
	log.Info("model loaded", "path", path,
		"vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount(),
		"materials", mesh.MaterialCount())

	o := scene.FromMesh(filepath.Base(path), mesh)
	o.Smooth = smooth
	if mesh.MaterialCount() > 0 {
		bc := mesh.BaseColor()
		o.Color = render.Light{R: bc[0], G: bc[1], B: bc[2]}
	} else if o.Color, err = lightColor(mc.Color); err != nil {
		return nil, fmt.Errorf("model.color: %w", err)
	}
	switch {
	case mc.Texture != "":
		o.TexturePath = mc.Texture
	case mesh.BaseMap() != nil:
		o.Texture = render.TextureFromImage(mesh.BaseMap())
	}
	return o, nil
}

// demoObject is shown when no model is given.
func demoObject(mc config.ModelConfig, smooth bool) (*scene.Object, error) {
	o := scene.NewSphere("sphere", mc.Fit/2, 16, 24)
	o.Smooth = smooth
	var err error
	if o.Color, err = lightColor(mc.Color); err != nil {
		return nil, fmt.Errorf("model.color: %w", err)
	}
	if mc.Texture != "" {
		o.TexturePath = mc.Texture
	}
	return o, nil
}

// newScene builds the scene for cfg on a width x height surface and returns
// it with the handle of the model object.
func newScene(cfg *config.Config, log *slog.Logger, width, height int) (*scene.Scene, scene.Handle, error) {
	bg, err := config.ParseColor(cfg.Render.Background)
	if err != nil {
		return nil, scene.Handle{}, fmt.Errorf("render.background: %w", err)
	}
	lights, err := newLights(cfg.Lights)
	if err != nil {
		return nil, scene.Handle{}, err
	}

	var obj *scene.Object
	if cfg.Model.Path != "" {
		obj, err = loadModel(cfg.Model.Path, cfg.Model, cfg.Render.Smooth, log)
	} else {
		obj, err = demoObject(cfg.Model, cfg.Render.Smooth)
	}
	if err != nil {
		return nil, scene.Handle{}, err
	}

	s := scene.New(newCamera(cfg.Camera, width, height),
		scene.WithLogger(log), scene.WithBackground(bg))
	s.Culling = cfg.Render.Culling
	s.Wireframe = cfg.Render.Wireframe
	for _, l := range lights {
		s.AddLight(l)
	}
	h := s.Add(obj)
	if err := s.Build(); err != nil {
		return nil, scene.Handle{}, err
	}
	return s, h, nil
}

// applyConfig updates a running scene from a reloaded config. The model and
// camera pose are left alone.
func applyConfig(s *scene.Scene, cfg *config.Config) error {
	bg, err := config.ParseColor(cfg.Render.Background)
	if err != nil {
		return fmt.Errorf("render.background: %w", err)
	}
	lights, err := newLights(cfg.Lights)
	if err != nil {
		return err
	}
	s.Background = bg
	s.Culling = cfg.Render.Culling
	s.Wireframe = cfg.Render.Wireframe
	s.Lights = lights
	s.Camera.SetFOV(cfg.Camera.FOV * math.Pi / 180)
	s.Camera.SetFocalLength(cfg.Camera.FocalLength)
	s.Camera.SetClipPlanes(cfg.Camera.Near, cfg.Camera.Far)
	return nil
}
