// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubsync/internal/httputil"
	"github.com/pdiddy/pubsync/internal/publish"
	"github.com/pdiddy/pubsync/internal/reconcile"
	"github.com/pdiddy/pubsync/internal/runlog"
	"github.com/pdiddy/pubsync/internal/source"
	"github.com/pdiddy/pubsync/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "pubsync/0.1"
	defaultSources   = "sources.yaml"
	defaultOutput    = "data/publications.json"
	defaultLedger    = "data/pubsync.db"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch, reconcile, and publish the publication list",
	Long: `Fetch queries every source listed in the sources file (in priority
order), reconciles the candidate records into one canonical list, and
atomically writes it. A source that fails contributes nothing and the run
continues; if every source yields nothing the run fails with exit status 2
and the existing output file is left untouched.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("sources", "", "sources file listing upstreams in priority order (default sources.yaml)")
	fetchCmd.Flags().String("out", "", "output path (default data/publications.json)")
	fetchCmd.Flags().String("format", "json", "output format: json or yaml")
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	fetchCmd.Flags().Int("page-size", 0, "records per API page (default 100)")
	fetchCmd.Flags().Int("max-pages", 0, "maximum API pages per source (default 10)")
	fetchCmd.Flags().String("openalex-email", "", "email for the OpenAlex polite pool (or .secrets/openalex-email)")
	fetchCmd.Flags().String("ledger", defaultLedger, "run ledger database path (empty disables the ledger)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	sourcesPath := stringFlagOrConfig(cmd, "sources", "sources_file", defaultSources)
	outPath := stringFlagOrConfig(cmd, "out", "output", defaultOutput)
	format, _ := cmd.Flags().GetString("format")
	ledgerPath, _ := cmd.Flags().GetString("ledger")

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	pageSize, _ := cmd.Flags().GetInt("page-size")
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	email, _ := cmd.Flags().GetString("openalex-email")

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		PageSize:      pageSize,
		MaxPages:      maxPages,
		OpenAlexEmail: secretDefault("openalex-email", email),
		InspireToken:  secretDefault("inspire-token", ""),
	}

	specs, err := source.LoadSources(sourcesPath)
	if err != nil {
		return err
	}
	adapters, err := source.Build(specs, cfg, httputil.NewClient(cfg.HTTPConfig))
	if err != nil {
		return err
	}

	started := time.Now()
	batches, reports := source.FetchAll(context.Background(), adapters, os.Stderr)
	for _, rep := range reports {
		if rep.Err == nil {
			fmt.Printf("%s: %d records\n", rep.Name, rep.Count)
		}
	}

	result, rerr := reconcile.Reconcile(batches...)

	run := runlog.Run{Started: started}
	for _, rep := range reports {
		sc := runlog.SourceCount{Name: rep.Name, Count: rep.Count}
		if rep.Err != nil {
			sc.Err = rep.Err.Error()
		}
		run.Sources = append(run.Sources, sc)
	}

	if rerr != nil {
		fmt.Fprintln(os.Stderr, "no usable records from any source; keeping existing output")
		recordRun(ledgerPath, run)
		return rerr
	}

	if err := publish.Write(result.Records, outPath, types.OutputFormat(format)); err != nil {
		return err
	}

	run.Written = len(result.Records)
	run.Merged = result.Merged
	run.Dropped = result.Dropped
	run.Output = outPath
	recordRun(ledgerPath, run)

	fmt.Printf("Wrote %d records -> %s", len(result.Records), outPath)
	if result.Merged > 0 {
		fmt.Printf(" (%d duplicates merged)", result.Merged)
	}
	fmt.Println()
	return nil
}

// recordRun appends to the run ledger. Ledger trouble never fails the
// run; the published list is the product, the ledger is bookkeeping.
func recordRun(ledgerPath string, run runlog.Run) {
	if ledgerPath == "" {
		return
	}
	store, err := runlog.Open(ledgerPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run ledger unavailable: %v\n", err)
		return
	}
	defer store.Close()
	if _, err := store.Record(context.Background(), run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording run failed: %v\n", err)
	}
}

// stringFlagOrConfig reads a flag value, falling back to the viper
// config key and then to a built-in default.
func stringFlagOrConfig(cmd *cobra.Command, flag, configKey, fallback string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := viper.GetString(configKey); v != "" {
		return v
	}
	return fallback
}
