// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubsync/internal/runlog"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent runs from the run ledger",
	Long: `Runs prints recent fetch runs recorded in the ledger: when each run
happened, what every source contributed, and how many records were
written where. Failed runs show zero written records.`,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().String("ledger", defaultLedger, "run ledger database path")
	runsCmd.Flags().Int("limit", 10, "maximum number of runs to show")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	ledgerPath, _ := cmd.Flags().GetString("ledger")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := runlog.Open(ledgerPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-7s  %-6s  %-7s  %-30s  %s\n",
		"Started", "Written", "Merged", "Dropped", "Sources", "Output")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, run := range runs {
		parts := make([]string, 0, len(run.Sources))
		for _, src := range run.Sources {
			if src.Err != "" {
				parts = append(parts, src.Name+":failed")
				continue
			}
			parts = append(parts, fmt.Sprintf("%s:%d", src.Name, src.Count))
		}
		sources := strings.Join(parts, " ")
		if len(sources) > 30 {
			sources = sources[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-7d  %-6d  %-7d  %-30s  %s\n",
			run.Started.Local().Format("2006-01-02 15:04:05"),
			run.Written, run.Merged, run.Dropped, sources, run.Output)
	}

	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}
