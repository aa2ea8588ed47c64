// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubsync/internal/publish"
	"github.com/pdiddy/pubsync/internal/reconcile"
	"github.com/pdiddy/pubsync/internal/source"
	"github.com/pdiddy/pubsync/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [files...]",
	Short: "Reconcile already-collected candidate batches offline",
	Long: `Merge reconciles candidate record files (YAML or JSON lists) without
touching the network. Each file is one source batch; argument order is
priority order, so the first file wins merge ties. The result is ranked
and written exactly as a fetch run would write it.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().String("out", defaultOutput, "output path")
	mergeCmd.Flags().String("format", "json", "output format: json or yaml")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more candidate record files in priority order")
	}

	outPath, _ := cmd.Flags().GetString("out")
	format, _ := cmd.Flags().GetString("format")

	batches := make([][]types.Record, len(args))
	for i, path := range args {
		adapter := &source.FileAdapter{Path: path, Label: path}
		records, err := adapter.Records(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			continue
		}
		batches[i] = records
		fmt.Printf("%s: %d records\n", path, len(records))
	}

	result, err := reconcile.Reconcile(batches...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "no usable records in any input; nothing written")
		return err
	}

	if err := publish.Write(result.Records, outPath, types.OutputFormat(format)); err != nil {
		return err
	}

	fmt.Printf("Wrote %d records -> %s", len(result.Records), outPath)
	if result.Merged > 0 {
		fmt.Printf(" (%d duplicates merged)", result.Merged)
	}
	fmt.Println()
	return nil
}
