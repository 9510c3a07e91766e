package main

import (
	"context"
	"fmt"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/ott/pkg/config"
	"github.com/taigrr/ott/pkg/input"
	"github.com/taigrr/ott/pkg/render"
)

const (
	mouseOn  = "\x1b[?1003h\x1b[?1006h" // any-event tracking, SGR encoding
	mouseOff = "\x1b[?1003l\x1b[?1006l"
)

// runTerminal shows the viewer in the terminal until the user quits or ctx
// is done.
func (a *app) runTerminal(ctx context.Context, cfg *config.Config) error {
	a.quietTerminal()
	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	width, height := render.FramebufferSize(cols, rows)
	if cfg.Render.Width > 0 && cfg.Render.Height > 0 {
		width, height = cfg.Render.Width, cfg.Render.Height
	}
	v, err := newViewer(cfg, a.log, width, height)
	if err != nil {
		return err
	}
	v.pointerW, v.pointerH = cols, rows

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(cols, rows); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}
	if _, err := term.WriteString(mouseOn); err != nil {
		return fmt.Errorf("enable mouse: %w", err)
	}
	defer func() {
		_, _ = term.WriteString(mouseOff)
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := input.NewState()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-term.Events():
				if !ok {
					return
				}
				in.HandleEvent(ev)
			}
		}
	}()

	reloads := a.watchConfig(ctx)
	pres := render.NewTerminalPresenter(term)
	pres.Overlay = func(scr uv.Screen, area uv.Rectangle) {
		top, bottom := v.hud.lines(area.Dx(), &v.view, v.last, v.timer.Stats())
		v.hud.draw(scr, area, top, bottom)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case cfg := <-reloads:
			if err := v.reload(cfg); err != nil {
				a.log.Warn("config reload rejected", "error", err)
			}
		default:
		}

		dt := v.timer.Tick().Seconds()
		snap := in.Frame()
		if snap.Resized {
			cols, rows = snap.Width, snap.Height
			term.Erase()
			if err := term.Resize(cols, rows); err != nil {
				return fmt.Errorf("resize terminal: %w", err)
			}
			v.pointerW, v.pointerH = cols, rows
			if cfg.Render.Width == 0 || cfg.Render.Height == 0 {
				v.resize(render.FramebufferSize(cols, rows))
			}
		}
		if v.handleInput(snap, dt) {
			return nil
		}

		v.frame()
		if err := pres.Present(v.fb); err != nil {
			return fmt.Errorf("present: %w", err)
		}
	}
}
