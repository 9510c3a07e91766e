package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/taigrr/ott/pkg/math3d"
	"github.com/taigrr/ott/pkg/render"
	"github.com/taigrr/ott/pkg/scene"
)

const (
	headlessWidth  = 640
	headlessHeight = 480
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		out    string
		frames int
		spin   float64
		yaw    float64
		pitch  float64
		axes   bool
	)
	cmd := &cobra.Command{
		Use:   "render [model]",
		Short: "Render frames to PNG files",
		Long: `Render a model headless to PNG. With --frames above one the model turns
by --spin degrees per frame and --out should contain a format verb, for
example frame-%03d.png.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if frames < 1 {
				return fmt.Errorf("frames must be positive, got %d", frames)
			}
			cfg := a.cfg
			width, height := sizeOr(cfg, headlessWidth, headlessHeight)
			s, h, err := newScene(cfg, a.log, width, height)
			if err != nil {
				return err
			}
			model, err := s.Object(h)
			if err != nil {
				return err
			}

			fb := render.NewFramebuffer(width, height)
			depth := render.NewDepthBuffer(width, height)
			pres := render.NewPNGPresenter(out)
			var total scene.FrameStats
			for i := range frames {
				turn := (yaw + spin*float64(i)) * math.Pi / 180
				model.Local.Rotation = math3d.Mat3FromEuler(pitch*math.Pi/180, turn, 0)
				st := s.Render(fb, depth)
				if axes {
					render.NewWireframe(s.Camera, fb).DrawAxes(cfg.Model.Fit)
				}
				total = total.Add(st)
				if err := pres.Present(fb); err != nil {
					return err
				}
				a.log.Debug("frame rendered", "frame", i, "stats", st)
			}
			a.log.Info("render done", "frames", pres.Frames(), "out", out, "stats", total)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frame(s) to %s\n", pres.Frames(), out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "frame.png", "output file or pattern")
	f.IntVar(&frames, "frames", 1, "number of frames")
	f.Float64Var(&spin, "spin", 10, "degrees of yaw per frame")
	f.Float64Var(&yaw, "yaw", 30, "initial yaw in degrees")
	f.Float64Var(&pitch, "pitch", 20, "pitch in degrees")
	f.BoolVar(&axes, "axes", false, "draw world axes")
	return cmd
}
