package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jordanella.com/cursor-tracker/internal/app"
	"jordanella.com/cursor-tracker/internal/config"
)

var (
	flagConfig    string
	flagPort      int
	flagAutoStart bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tracker",
		Short: "Cursor tracker - follows a colored target on screen",
		Long: `Tracker samples a window of the screen around the cursor, scores each
50x50 cell by how much of it matches the configured color bands, and
steers the cursor toward the best match while scanning is enabled.

Scanning is controlled over HTTP (start, stop, settings, quick scan).`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath, "Path to the INI configuration file")
	rootCmd.Flags().IntVar(&flagPort, "port", 0, "Listen port (overrides config and PORT)")
	rootCmd.Flags().BoolVar(&flagAutoStart, "start", false, "Start scanning immediately")

	rootCmd.AddCommand(newQuickScanCmd(), newInitConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromINI(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagPort != 0 {
		cfg.Port = flagPort
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagAutoStart {
		a.Tracker.StartScanning()
	}

	a.Logger.Info(fmt.Sprintf("control surface on http://%s", cfg.Addr()))
	if err := a.Server().ListenAndServe(ctx, cfg.Addr()); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	a.Logger.Info("shutting down")
	return nil
}
