// Command equart renders implicit curves progressively on all CPU cores.
//
// Usage:
//
//	equart render --field folium --frames 300 --output folium.png
//	equart serve --listen :8080
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/equart"
	"github.com/gogpu/equart/field"
	"github.com/gogpu/equart/internal/config"
)

var (
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:           "equart",
		Short:         "Progressive multi-core renderer for implicit curves",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			equart.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	fieldsCmd = &cobra.Command{
		Use:   "fields",
		Short: "List the built-in fields",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range field.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.Int("width", 0, "image width in pixels (overrides config)")
	pf.Int("height", 0, "image height in pixels (overrides config)")
	pf.Int("workers", 0, "number of render workers, 0 for all cores (overrides config)")
	pf.String("field", "", "field to draw, see 'equart fields' (overrides config)")
	pf.Float64("tick-rate", 0, "display frames per second (overrides config)")

	rootCmd.AddCommand(renderCmd, serveCmd, fieldsCmd)
}

// loadConfig reads --config and applies flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width, _ = flags.GetInt("width")
	}
	if flags.Changed("height") {
		cfg.Height, _ = flags.GetInt("height")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("field") {
		cfg.Field, _ = flags.GetString("field")
	}
	if flags.Changed("tick-rate") {
		cfg.TickRate, _ = flags.GetFloat64("tick-rate")
	}
	if flags.Changed("frames") {
		cfg.Render.Frames, _ = flags.GetInt("frames")
	}
	if flags.Changed("output") {
		cfg.Render.Output, _ = flags.GetString("output")
	}
	if flags.Changed("hud") {
		cfg.Render.HUD, _ = flags.GetBool("hud")
	}
	if flags.Changed("listen") {
		cfg.Serve.Listen, _ = flags.GetString("listen")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "equart:", err)
		os.Exit(1)
	}
}
