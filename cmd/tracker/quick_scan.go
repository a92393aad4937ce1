package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"jordanella.com/cursor-tracker/internal/app"
)

var flagJSON bool

func newQuickScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quick-scan",
		Short: "Run one quick scan around the cursor and print the best cells",
		Args:  cobra.NoArgs,
		RunE:  runQuickScan,
	}
	cmd.Flags().BoolVar(&flagJSON, "json", false, "Print results as JSON")
	return cmd
}

func runQuickScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.Tracker.QuickScan(context.Background())
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	status := a.Tracker.Status()
	fmt.Printf("Cursor at (%d, %d) on %dx%d\n", status.Position.X, status.Position.Y, status.ScreenWidth, status.ScreenHeight)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "X\tY\tRATIO\tOFFSET")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.3f\t(%d, %d)\n", r.X, r.Y, r.Ratio, r.OffsetX, r.OffsetY)
	}
	return w.Flush()
}
