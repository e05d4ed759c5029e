package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ternarybob/libram/internal/services/assembler"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file.pdf]",
	Short: "Extract and categorize a single rulebook PDF",
	Long: `Extracts layout-corrected text, tables and categorized sections from one
PDF and writes the result as JSON. With --store the sections are also
persisted to the document store.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var (
	extractOutput      string
	extractStore       bool
	extractGameType    string
	extractEdition     string
	extractContentType string
)

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Output JSON path (default: input name with .json)")
	extractCmd.Flags().BoolVar(&extractStore, "store", false, "Persist sections to the document store")
	extractCmd.Flags().StringVar(&extractGameType, "game", "", "Override detected game system")
	extractCmd.Flags().StringVar(&extractEdition, "edition", "", "Override detected edition")
	extractCmd.Flags().StringVar(&extractContentType, "content-type", "", "Content type (source_material or novel)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]

	pipeline := buildPipeline()
	opts := assembler.Options{
		ForceGameType: extractGameType,
		ForceEdition:  extractEdition,
		ContentType:   extractContentType,
	}

	result, err := pipeline.ExtractFile(cmd.Context(), path, opts)
	if err != nil {
		return err
	}

	logger.Info().
		Str("file", filepath.Base(path)).
		Str("collection", result.Metadata.Game.CollectionName).
		Int("pages", result.Summary.TotalPages).
		Int("words", result.Summary.TotalWords).
		Int("tables", result.Summary.TotalTables).
		Msg("Extraction complete")

	output := extractOutput
	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Printf("Wrote %s (%d sections)\n", output, len(result.Sections))

	if extractStore {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SaveResult(&result); err != nil {
			return err
		}
		fmt.Printf("Stored %d sections in collection %s\n",
			len(result.Sections), result.Metadata.Game.CollectionName)
	}

	return nil
}
