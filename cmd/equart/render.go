package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gogpu/equart"
	"github.com/gogpu/equart/internal/config"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a fixed number of display frames and save the last as PNG",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runRender(cmd.Context(), cfg, prometheus.NewRegistry())
	},
}

func init() {
	f := renderCmd.Flags()
	f.Int("frames", 0, "number of display frames to run (overrides config)")
	f.StringP("output", "o", "", "PNG output path (overrides config)")
	f.Bool("hud", false, "draw the statistics overlay")
}

func runRender(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	d := newDisplay(cfg, reg)
	defer d.close()

	var img *image.RGBA
	for frame := 1; frame <= cfg.Render.Frames; frame++ {
		if frame == cfg.Render.ResizeAt {
			err := d.resize(ctx, cfg.Render.ResizeW, cfg.Render.ResizeH)
			if errors.Is(err, equart.ErrResizeAborted) {
				equart.Logger().Warn("resize skipped", "err", err)
			} else if err != nil {
				return err
			}
		}

		next, err := d.tick(ctx)
		if err != nil {
			return err
		}
		img = next
	}
	if img == nil {
		return errors.New("no frames rendered")
	}

	if err := writePNG(cfg.Render.Output, img); err != nil {
		return err
	}
	w, h := d.m.Size()
	equart.Logger().Info("saved", "path", cfg.Render.Output, "width", w, "height", h, "frames", cfg.Render.Frames)
	return nil
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
