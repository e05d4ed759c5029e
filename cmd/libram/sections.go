package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections [collection]",
	Short: "List stored sections from a collection",
	Long: `Queries the document store for sections of a previously extracted
collection, filtered by category.`,
	Args: cobra.ExactArgs(1),
	RunE: runSections,
}

var sectionsCategory string

func init() {
	sectionsCmd.Flags().StringVar(&sectionsCategory, "category", "General", "Category to list (e.g. \"Spells/Magic\", \"Combat\")")
}

func runSections(cmd *cobra.Command, args []string) error {
	collection := args[0]

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sections, err := store.SectionsByCategory(collection, sectionsCategory)
	if err != nil {
		return err
	}

	if len(sections) == 0 {
		fmt.Printf("No %q sections in collection %s\n", sectionsCategory, collection)
		return nil
	}

	for _, s := range sections {
		fmt.Printf("page %3d  %-40s  %4d words  %.0f%%\n",
			s.Section.Page, s.Section.Title, s.Section.WordCount, s.Section.ExtractionConfidence)
	}
	fmt.Printf("\n%d sections\n", len(sections))

	return nil
}
