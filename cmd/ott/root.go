package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taigrr/ott/internal/logx"
	"github.com/taigrr/ott/pkg/config"
)

// app is the state shared by every command.
type app struct {
	configPath string
	logFile    string
	verbose    bool
	debug      bool
	quiet      bool
	software   bool

	loader *config.Loader
	cfg    *config.Config
	level  slog.LevelVar
	log    *slog.Logger
	logOut io.Closer
}

// flagKeys binds persistent flags to config keys.
var flagKeys = map[string]string{
	"backend":   "backend",
	"fps":       "render.fps",
	"bg":        "render.background",
	"width":     "render.width",
	"height":    "render.height",
	"culling":   "render.culling",
	"wireframe": "render.wireframe",
	"smooth":    "render.smooth",
	"texture":   "model.texture",
	"fit":       "model.fit",
	"fov":       "camera.fov",
	"log-level": "log.level",
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "ott",
		Short: "Software 3D renderer for the terminal, a window or PNG files",
		Long: `ott renders OBJ, STL and GLTF/GLB models with a software triangle
rasterizer. Settings come from ott.yaml, OTT_* environment variables and
flags, in increasing priority.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.close() },
	}

	d := config.Default()
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: search for ott.yaml)")
	pf.StringVar(&a.logFile, "log-file", "", "write logs to this file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log at info level")
	pf.BoolVar(&a.debug, "vv", false, "log at debug level")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "log errors only")
	pf.String("log-level", d.Log.Level, "log level: debug, info, warn or error")
	pf.String("backend", d.Backend, "output: terminal, window, gl or png")
	pf.Int("fps", d.Render.FPS, "frame rate cap, 0 for uncapped")
	pf.String("bg", d.Render.Background, `background color, "#rrggbb" or "r,g,b"`)
	pf.Int("width", d.Render.Width, "framebuffer width, 0 to follow the output")
	pf.Int("height", d.Render.Height, "framebuffer height, 0 to follow the output")
	pf.Bool("culling", d.Render.Culling, "skip back-facing triangles")
	pf.Bool("wireframe", d.Render.Wireframe, "draw edges only")
	pf.Bool("smooth", d.Render.Smooth, "interpolate vertex normals")
	pf.String("texture", "", "texture image (PNG/JPG) overriding the model's")
	pf.Float64("fit", d.Model.Fit, "scale the model to fit a cube of this size")
	pf.Float64("fov", d.Camera.FOV, "horizontal field of view in degrees")

	root.AddCommand(newViewCmd(a), newRenderCmd(a), newBenchCmd(a))
	return root
}

// setup loads the config and logger before any command runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.loader = config.NewLoader(a.configPath)
	v := a.loader.Viper()
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	if len(args) > 0 {
		v.Set("model.path", args[0])
	}

	cfg, err := a.loader.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.verbose || a.debug || a.quiet {
		a.level.Set(logx.LevelFromFlags(a.debug, a.verbose, a.quiet))
	} else {
		l, err := logx.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		a.level.Set(l)
	}

	out := io.Writer(os.Stderr)
	if a.logFile != "" {
		f, err := os.OpenFile(a.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out, a.logOut = f, f
	}
	a.log = logx.New(out, &a.level)
	if file := a.loader.File(); file != "" {
		a.log.Debug("config loaded", "file", file)
	}
	return nil
}

func (a *app) close() {
	if a.logOut != nil {
		_ = a.logOut.Close()
	}
}

// quietTerminal stops logging to stderr while the terminal is in use.
func (a *app) quietTerminal() {
	if a.logOut == nil {
		a.log = slog.New(slog.DiscardHandler)
	}
}

// watchConfig delivers valid config changes until ctx is done. Nothing is
// delivered when no config file is in use.
func (a *app) watchConfig(ctx context.Context) <-chan *config.Config {
	ch := make(chan *config.Config, 1)
	err := a.loader.Watch(ctx, func(cfg *config.Config, err error) {
		if err != nil {
			a.log.Warn("config reload failed", "error", err)
			return
		}
		select {
		case ch <- cfg:
		default:
			// replace the undelivered config
			select {
			case <-ch:
			default:
			}
			ch <- cfg
		}
	})
	switch {
	case errors.Is(err, config.ErrNoConfigFile):
	case err != nil:
		a.log.Warn("config watch unavailable", "error", err)
	}
	return ch
}
