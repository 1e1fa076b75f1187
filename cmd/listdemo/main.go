// listdemo is an interactive showcase for the recyclerview engine. It
// renders a sectioned feed in the terminal with collapsing groups, a
// pinned header band, pooled draw slots, and viewability logging.
//
// Usage:
//
//	listdemo                          # synthetic feed, 40 groups x 25 rows
//	listdemo --data feed.yaml         # feed from a fixture file
//	listdemo --log demo.log           # structured engine logs to a file
//	listdemo generate > feed.yaml     # emit a starter fixture
//
// Keys: arrows or j/k move the selection, Enter or Space toggles a
// group on its header, PgUp/PgDn page, Home/End jump, q or Escape
// quits.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	var opts demoOptions

	rootCmd := &cobra.Command{
		Use:   "listdemo",
		Short: "Scroll a large sectioned feed through recycled terminal rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts)
		},
	}

	rootCmd.Flags().StringVarP(&opts.dataPath, "data", "f", "", "YAML fixture to load instead of the synthetic feed")
	rootCmd.Flags().IntVar(&opts.groups, "groups", 40, "synthetic feed group count")
	rootCmd.Flags().IntVar(&opts.rows, "rows", 25, "synthetic feed rows per group")
	rootCmd.Flags().BoolVar(&opts.footers, "footers", false, "emit group footers")
	rootCmd.Flags().StringVar(&opts.logPath, "log", "", "write engine logs to this file")
	rootCmd.Flags().DurationVar(&opts.minViewTime, "min-view-time", 250*time.Millisecond, "dwell before an entry counts as viewed")
	rootCmd.Flags().IntVar(&opts.overscan, "overscan", 4, "extra rows prepared beyond the viewport")

	rootCmd.AddCommand(generateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
