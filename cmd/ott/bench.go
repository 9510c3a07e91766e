package main

import (
	"fmt"
	"math"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/taigrr/ott/pkg/clock"
	"github.com/taigrr/ott/pkg/math3d"
	"github.com/taigrr/ott/pkg/render"
	"github.com/taigrr/ott/pkg/scene"
)

func newBenchCmd(a *app) *cobra.Command {
	var frames int
	cmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "Measure software frame times",
		Long: `Render a spinning model headless as fast as possible and report
frame-time statistics over the last frames.`,
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
			timer := clock.NewTimer(0, clock.WithWindow(frames))
			var total scene.FrameStats
			start := time.Now()
			timer.Tick()
			for i := range frames {
				turn := 2 * math.Pi * float64(i) / float64(frames)
				model.Local.Rotation = math3d.Mat3FromEuler(0.3, turn, 0)
				total = total.Add(s.Render(fb, depth))
				timer.Tick()
			}
			stats := timer.Stats()
			a.log.Info("bench done", "elapsed", time.Since(start), "timing", stats)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "size\t%dx%d\n", width, height)
			fmt.Fprintf(w, "frames\t%d\n", frames)
			fmt.Fprintf(w, "fps\t%.1f\n", stats.FPS)
			fmt.Fprintf(w, "mean\t%v\n", stats.Mean)
			fmt.Fprintf(w, "stddev\t%v\n", stats.StdDev)
			fmt.Fprintf(w, "min\t%v\n", stats.Min)
			fmt.Fprintf(w, "p95\t%v\n", stats.P95)
			fmt.Fprintf(w, "max\t%v\n", stats.Max)
			fmt.Fprintf(w, "triangles/frame\t%d\n", total.Triangles/max(frames, 1))
			fmt.Fprintf(w, "rasterized/frame\t%d\n", total.Rasterized/max(frames, 1))
			fmt.Fprintf(w, "pixels/frame\t%d\n", total.Pixels/max(frames, 1))
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&frames, "frames", 300, "frames to render")
	return cmd
}
