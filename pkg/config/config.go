// Package config loads viewer settings from YAML files, OTT_ environment
// variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backends accepted by Config.Backend.
const (
	BackendTerminal = "terminal"
	BackendWindow   = "window"
	BackendGL       = "gl"
	BackendPNG      = "png"
)

// Light kinds accepted by LightConfig.Kind.
const (
	LightAmbient     = "ambient"
	LightDirectional = "directional"
	LightPoint       = "point"
	LightCone        = "cone"
)

// Config is the full viewer configuration.
type Config struct {
	Backend string        `yaml:"backend" mapstructure:"backend"`
	Camera  CameraConfig  `yaml:"camera" mapstructure:"camera"`
	Render  RenderConfig  `yaml:"render" mapstructure:"render"`
	Model   ModelConfig   `yaml:"model" mapstructure:"model"`
	Lights  []LightConfig `yaml:"lights" mapstructure:"lights"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// CameraConfig places the camera. Angles are in degrees.
type CameraConfig struct {
	FOV         float64    `yaml:"fov" mapstructure:"fov"`
	FocalLength float64    `yaml:"focal_length" mapstructure:"focal_length"`
	Near        float64    `yaml:"near" mapstructure:"near"`
	Far         float64    `yaml:"far" mapstructure:"far"`
	Position    [3]float64 `yaml:"position" mapstructure:"position"`
	Target      [3]float64 `yaml:"target" mapstructure:"target"`
}

// RenderConfig controls the software pipeline and frame pacing. A zero
// Width or Height follows the output surface.
type RenderConfig struct {
	Width      int    `yaml:"width" mapstructure:"width"`
	Height     int    `yaml:"height" mapstructure:"height"`
	Background string `yaml:"background" mapstructure:"background"`
	Culling    bool   `yaml:"culling" mapstructure:"culling"`
	Wireframe  bool   `yaml:"wireframe" mapstructure:"wireframe"`
	Smooth     bool   `yaml:"smooth" mapstructure:"smooth"`
	FPS        int    `yaml:"fps" mapstructure:"fps"`
}

// ModelConfig selects the mesh to show.
type ModelConfig struct {
	Path    string  `yaml:"path" mapstructure:"path"`
	Texture string  `yaml:"texture" mapstructure:"texture"`
	Fit     float64 `yaml:"fit" mapstructure:"fit"`
	Color   string  `yaml:"color" mapstructure:"color"`
}

// LightConfig describes one light. Opening is the cone angle in degrees.
type LightConfig struct {
	Name       string     `yaml:"name" mapstructure:"name"`
	Kind       string     `yaml:"kind" mapstructure:"kind"`
	Off        bool       `yaml:"off,omitempty" mapstructure:"off"`
	Brightness float64    `yaml:"brightness" mapstructure:"brightness"`
	Color      string     `yaml:"color" mapstructure:"color"`
	Position   [3]float64 `yaml:"position" mapstructure:"position"`
	Direction  [3]float64 `yaml:"direction" mapstructure:"direction"`
	Opening    float64    `yaml:"opening,omitempty" mapstructure:"opening"`
}

// LogConfig selects the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendTerminal,
		Camera: CameraConfig{
			FOV:         60,
			FocalLength: 1,
			Near:        0.1,
			Far:         100,
			Position:    [3]float64{0, 0, -4},
		},
		Render: RenderConfig{
			Background: "#1e1e28",
			Culling:    true,
			Smooth:     true,
			FPS:        60,
		},
		Model: ModelConfig{Fit: 2, Color: "#c8c8c8"},
		Lights: []LightConfig{
			{Name: "ambient", Kind: LightAmbient, Brightness: 0.2, Color: "#ffffff"},
			{Name: "key", Kind: LightDirectional, Brightness: 0.9, Color: "#ffffff", Direction: [3]float64{-0.5, -1, 0.3}},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	switch c.Backend {
	case BackendTerminal, BackendWindow, BackendGL, BackendPNG:
	default:
		check(false, "backend %q: want terminal, window, gl or png", c.Backend)
	}

	cam := c.Camera
	check(cam.FOV > 0 && cam.FOV < 180, "camera.fov %v: want (0, 180)", cam.FOV)
	check(cam.FocalLength > 0, "camera.focal_length %v: must be positive", cam.FocalLength)
	check(cam.Near > 0, "camera.near %v: must be positive", cam.Near)
	check(cam.Far > cam.Near, "camera.far %v: must exceed near %v", cam.Far, cam.Near)

	r := c.Render
	check(r.Width >= 0 && r.Height >= 0, "render size %dx%d: must not be negative", r.Width, r.Height)
	check(r.FPS > 0, "render.fps %d: must be positive", r.FPS)
	if _, err := ParseColor(r.Background); err != nil {
		errs = append(errs, fmt.Errorf("render.background: %w", err))
	}
	if _, err := ParseColor(c.Model.Color); err != nil {
		errs = append(errs, fmt.Errorf("model.color: %w", err))
	}
	check(c.Model.Fit >= 0, "model.fit %v: must not be negative", c.Model.Fit)

	for i, l := range c.Lights {
		switch l.Kind {
		case LightAmbient, LightDirectional, LightPoint:
		case LightCone:
			check(l.Opening > 0 && l.Opening < 180, "lights[%d].opening %v: want (0, 180)", i, l.Opening)
		default:
			check(false, "lights[%d].kind %q: want ambient, directional, point or cone", i, l.Kind)
		}
		check(l.Brightness >= 0, "lights[%d].brightness %v: must not be negative", i, l.Brightness)
		if _, err := ParseColor(l.Color); err != nil {
			errs = append(errs, fmt.Errorf("lights[%d].color: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// ParseColor parses "#rrggbb" or "r,g,b" with 0-255 channels. An empty
// string is white.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{255, 255, 255, 255}, nil
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) != 6 {
			return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb or r,g,b", s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		ch[i] = uint8(v)
	}
	return color.RGBA{ch[0], ch[1], ch[2], 255}, nil
}

// Save writes c as YAML, creating the directory if needed.
func Save(path string, c *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
