// -----------------------------------------------------------------------
// Libram - layout-aware extraction and categorization for RPG rulebooks
// -----------------------------------------------------------------------

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/libram/internal/common"
	"github.com/ternarybob/libram/internal/interfaces"
	"github.com/ternarybob/libram/internal/services/assembler"
	"github.com/ternarybob/libram/internal/services/categorizer"
	"github.com/ternarybob/libram/internal/services/gamedetect"
	"github.com/ternarybob/libram/internal/services/llm"
	"github.com/ternarybob/libram/internal/services/pdf"
	"github.com/ternarybob/libram/internal/storage/badger"
)

var (
	configFile string

	// Global state, initialized before any subcommand runs
	config *common.Config
	logger arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:   "libram",
	Short: "Extract and categorize tabletop RPG rulebook PDFs",
	Long: `Libram extracts layout-corrected text, tables and categorized sections
from tabletop RPG rulebook PDFs and stores them as queryable documents.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(confidenceCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and initializes logging before a subcommand runs.
// Startup order: config (defaults -> file -> env), logger, banner.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	// Auto-discover config file if not specified
	path := configFile
	if path == "" {
		if _, err := os.Stat("libram.toml"); err == nil {
			path = "libram.toml"
		}
	}

	var err error
	config, err = common.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Debug().
		Str("ai_provider", config.AI.Provider).
		Str("log_level", config.Logging.Level).
		Str("badger_path", config.Storage.Badger.Path).
		Msg("Resolved configuration")

	return nil
}

// buildPipeline wires the extraction pipeline from the loaded configuration.
func buildPipeline() *assembler.Pipeline {
	backend := llm.NewClassifier(config.AI, logger)
	cat := categorizer.New(logger, backend, config.Extraction.CacheSize)
	det := gamedetect.New(logger, backend)
	asm := assembler.New(logger, cat)

	open := func(path string) (interfaces.PageSource, error) {
		return pdf.Open(path, logger)
	}

	return assembler.NewPipeline(logger, open, det, asm)
}

// openStore opens the badger-backed section store.
func openStore() (*badger.SectionStorage, error) {
	db, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return nil, err
	}
	return badger.NewSectionStorage(db, logger), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
