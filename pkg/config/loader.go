package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ErrNoConfigFile is returned by Watch when no file was loaded.
var ErrNoConfigFile = errors.New("config: no config file in use")

// Loader layers defaults, a YAML file, OTT_ environment variables and bound
// flags, in increasing priority.
type Loader struct {
	mu sync.Mutex
	v  *viper.Viper
}

// NewLoader creates a loader. An empty path searches for ott.yaml in the
// working directory and the user config directory.
func NewLoader(path string) *Loader {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix("OTT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ott")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "ott"))
		}
	}
	return &Loader{v: v}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("backend", d.Backend)
	v.SetDefault("camera.fov", d.Camera.FOV)
	v.SetDefault("camera.focal_length", d.Camera.FocalLength)
	v.SetDefault("camera.near", d.Camera.Near)
	v.SetDefault("camera.far", d.Camera.Far)
	v.SetDefault("camera.position", d.Camera.Position[:])
	v.SetDefault("camera.target", d.Camera.Target[:])
	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.height", d.Render.Height)
	v.SetDefault("render.background", d.Render.Background)
	v.SetDefault("render.culling", d.Render.Culling)
	v.SetDefault("render.wireframe", d.Render.Wireframe)
	v.SetDefault("render.smooth", d.Render.Smooth)
	v.SetDefault("render.fps", d.Render.FPS)
	v.SetDefault("model.path", d.Model.Path)
	v.SetDefault("model.texture", d.Model.Texture)
	v.SetDefault("model.fit", d.Model.Fit)
	v.SetDefault("model.color", d.Model.Color)
	v.SetDefault("lights", d.Lights)
	v.SetDefault("log.level", d.Log.Level)
}

// Viper exposes the underlying instance for flag binding.
func (l *Loader) Viper() *viper.Viper { return l.v }

// Load reads the config file, if any, and returns the validated result. A
// missing file is not an error when searching; an explicit path must exist.
func (l *Loader) Load() (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *Loader) load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}

// File returns the config file in use, or "".
func (l *Loader) File() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.v.ConfigFileUsed()
}

// Watch reloads the config whenever its file is written or replaced and
// passes the result to onChange until ctx is done. Invalid edits are
// reported as errors and leave the previous config in effect for the caller.
func (l *Loader) Watch(ctx context.Context, onChange func(*Config, error)) error {
	path := l.File()
	if path == "" {
		return ErrNoConfigFile
	}
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	// Editors often replace the file, so watch its directory.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("watch config: %w", err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				l.mu.Lock()
				c, err := l.load()
				l.mu.Unlock()
				onChange(c, err)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				onChange(nil, fmt.Errorf("watch config: %w", err))
			}
		}
	}()
	return nil
}
