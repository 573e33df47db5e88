package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/equart"
	"github.com/gogpu/equart/internal/composite"
	"github.com/gogpu/equart/internal/config"
	"github.com/gogpu/equart/internal/webview"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the live image to browsers over a WebSocket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "HTTP listen address (overrides config)")
}

func runServe(ctx context.Context, cfg *config.Config) error {
	hub := webview.NewHub()
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		hub.Collector(),
	)

	srv := &http.Server{
		Addr:              cfg.Serve.Listen,
		Handler:           webview.Handler(hub, reg, equart.Logger()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		equart.Logger().Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Serve.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return publish(ctx, cfg, reg, hub)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// publish runs the display loop, feeding encoded frames to hub and applying
// viewer resize requests between ticks.
func publish(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, hub *webview.Hub) error {
	d := newDisplay(cfg, reg)
	defer d.close()

	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	var buf bytes.Buffer
	for {
		select {
		case s := <-hub.Resizes():
			if err := d.resize(ctx, s.Width, s.Height); err != nil {
				equart.Logger().Warn("viewer resize failed", "width", s.Width, "height", s.Height, "err", err)
			}
		default:
		}

		img, err := d.tick(ctx)
		if err != nil {
			return err
		}

		start := time.Now()
		buf.Reset()
		if err := enc.Encode(&buf, img); err != nil {
			return err
		}
		hub.Publish(img.Bounds().Dx(), img.Bounds().Dy(), bytes.Clone(buf.Bytes()))
		d.clock.Add(composite.PhaseOther, time.Since(start))
	}
}
