package main

import (
	"context"

	"github.com/taigrr/ott/pkg/config"
	"github.com/taigrr/ott/pkg/gpu"
	"github.com/taigrr/ott/pkg/input"
	"github.com/taigrr/ott/pkg/window"
)

const (
	windowWidth  = 320
	windowHeight = 240
	glWidth      = 960
	glHeight     = 720
)

func sizeOr(cfg *config.Config, width, height int) (int, int) {
	if cfg.Render.Width > 0 && cfg.Render.Height > 0 {
		return cfg.Render.Width, cfg.Render.Height
	}
	return width, height
}

// runWindow shows the software renderer in a desktop window.
func (a *app) runWindow(ctx context.Context, cfg *config.Config) error {
	width, height := sizeOr(cfg, windowWidth, windowHeight)
	in := input.NewState()
	win := window.New(window.Options{
		Title:  "ott",
		Width:  width,
		Height: height,
		TPS:    cfg.Render.FPS,
	}, in)

	v, err := newViewer(cfg, a.log, width, height)
	if err != nil {
		return err
	}
	// The window paces frames; the timer only measures.
	v.timer.SetFPS(0)
	// Pointer positions are in pixels, twice as fine as terminal cells.
	v.dragScale = 0.5

	reloads := a.watchConfig(ctx)
	return win.Run(func() error {
		select {
		case <-ctx.Done():
			return window.ErrQuit
		case cfg := <-reloads:
			if err := v.reload(cfg); err != nil {
				a.log.Warn("config reload rejected", "error", err)
			}
			v.timer.SetFPS(0)
		default:
		}

		dt := v.timer.Tick().Seconds()
		snap := in.Frame()
		if snap.Resized {
			v.resize(snap.Width, snap.Height)
			v.pointerW, v.pointerH = snap.Width, snap.Height
		}
		if v.handleInput(snap, dt) {
			return window.ErrQuit
		}
		st := v.frame()
		if st.Rasterized > 0 && v.timer.Stats().Frames%300 == 0 {
			a.log.Debug("frame", "stats", st, "timing", v.timer.Stats())
		}
		return win.Present(v.fb)
	})
}

// runGL draws the scene with OpenGL. With software set, frames come from
// the software rasterizer and are only displayed through GL.
func (a *app) runGL(ctx context.Context, cfg *config.Config) error {
	width, height := sizeOr(cfg, glWidth, glHeight)
	in := input.NewState()
	r, err := gpu.NewRenderer(gpu.Options{
		Title:  "ott",
		Width:  width,
		Height: height,
		Input:  in,
		Logger: a.log,
	})
	if err != nil {
		return err
	}
	defer r.Close()

	fbw, fbh := r.Size()
	v, err := newViewer(cfg, a.log, fbw, fbh)
	if err != nil {
		return err
	}
	v.pointerW, v.pointerH = width, height
	v.dragScale = 0.25

	reloads := a.watchConfig(ctx)
	for !r.ShouldClose() {
		select {
		case <-ctx.Done():
			return nil
		case cfg := <-reloads:
			if err := v.reload(cfg); err != nil {
				a.log.Warn("config reload rejected", "error", err)
			}
		default:
		}

		r.PollEvents()
		dt := v.timer.Tick().Seconds()
		snap := in.Frame()
		if snap.Resized {
			v.resize(snap.Width, snap.Height)
		}
		if v.handleInput(snap, dt) {
			return nil
		}

		if a.software {
			v.frame()
			if err := r.Present(v.fb); err != nil {
				return err
			}
			continue
		}
		v.advance()
		if _, err := r.DrawScene(v.scene); err != nil {
			return err
		}
	}
	return nil
}
