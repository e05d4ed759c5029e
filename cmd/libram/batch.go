package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ternarybob/libram/internal/services/assembler"
	"github.com/ternarybob/libram/internal/storage/badger"
)

var batchCmd = &cobra.Command{
	Use:   "batch [dir]",
	Short: "Extract every PDF in a directory",
	Long: `Runs the extraction pipeline over every PDF in a directory. A failing
file is recorded and skipped; the rest of the batch continues. Results are
written as JSON next to each input.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var (
	batchStore       bool
	batchContentType string
)

func init() {
	batchCmd.Flags().BoolVar(&batchStore, "store", false, "Persist sections to the document store")
	batchCmd.Flags().StringVar(&batchContentType, "content-type", "", "Content type (source_material or novel)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	pipeline := buildPipeline()
	opts := assembler.Options{ContentType: batchContentType}

	batch, err := pipeline.ExtractBatch(cmd.Context(), dir, opts)
	if err != nil {
		return err
	}

	var store *badger.SectionStorage
	if batchStore {
		store, err = openStore()
		if err != nil {
			return err
		}
		defer store.Close()
	}

	for _, file := range batch.Files {
		if file.Err != nil {
			fmt.Printf("FAILED  %s: %v\n", filepath.Base(file.Path), file.Err)
			continue
		}

		output := strings.TrimSuffix(file.Path, filepath.Ext(file.Path)) + ".json"
		data, err := json.MarshalIndent(file.Result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result for %s: %w", file.Path, err)
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}

		if store != nil {
			if err := store.SaveResult(&file.Result); err != nil {
				logger.Error().Err(err).Str("file", file.Path).Msg("Failed to store sections")
				continue
			}
		}

		fmt.Printf("OK      %s -> %s (%d sections)\n",
			filepath.Base(file.Path), filepath.Base(output), len(file.Result.Sections))
	}

	fmt.Printf("\nBatch %s: %d succeeded, %d failed\n", batch.RunID, batch.Succeeded, batch.Failed)

	if batch.Failed > 0 && batch.Succeeded == 0 {
		return fmt.Errorf("all %d files failed", batch.Failed)
	}
	return nil
}
