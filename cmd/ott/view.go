package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taigrr/ott/pkg/config"
)

const controlsHelp = `Controls:
  Mouse drag  - Rotate model
  Scroll      - Zoom in/out
  W/S/A/D     - Pitch and yaw (arrow keys too)
  Q/E         - Roll left/right
  Space       - Random spin
  R           - Reset view
  T           - Toggle texture
  X           - Toggle wireframe
  C           - Toggle back-face culling
  L           - Aim the key light (mouse to aim, click to set)
  ?           - Toggle HUD overlay
  +/-         - Zoom
  Esc         - Quit`

func newViewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [model]",
		Short: "View a model interactively",
		Long: `View an OBJ, STL, GLTF or GLB model in the terminal or a window.
Without a model a sphere is shown. The config file is watched and
lighting, background, culling and frame rate changes apply live.

` + controlsHelp,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.view(ctx, a.cfg)
		},
	}
	cmd.Flags().BoolVar(&a.software, "software", false,
		"with the gl backend, rasterize in software and only display through GL")
	return cmd
}

func (a *app) view(ctx context.Context, cfg *config.Config) error {
	switch cfg.Backend {
	case config.BackendTerminal:
		return a.runTerminal(ctx, cfg)
	case config.BackendWindow:
		return a.runWindow(ctx, cfg)
	case config.BackendGL:
		return a.runGL(ctx, cfg)
	default:
		return fmt.Errorf("backend %q cannot run interactively", cfg.Backend)
	}
}
