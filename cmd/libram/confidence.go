package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ternarybob/libram/internal/interfaces"
	"github.com/ternarybob/libram/internal/services/confidence"
	"github.com/ternarybob/libram/internal/services/pdf"
)

var confidenceCmd = &cobra.Command{
	Use:   "confidence [file.pdf]",
	Short: "Estimate extraction confidence for a PDF",
	Long: `Samples a PDF before full extraction and reports per-method confidence
scores, the dominant page layout and a recommended extraction method.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfidence,
}

var confidenceJSON bool

func init() {
	confidenceCmd.Flags().BoolVar(&confidenceJSON, "json", false, "Print the full report as JSON")
}

func runConfidence(cmd *cobra.Command, args []string) error {
	path := args[0]

	src, err := pdf.Open(path, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	// OCR is optional; without tesseract the OCR sub-test degrades with a
	// recorded issue.
	ocr, err := pdf.NewTesseractEngine(config.Extraction.OCRLanguages, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("OCR engine unavailable")
	} else {
		defer ocr.Close()
	}

	estimator := confidence.NewEstimator(logger, ocrOrNil(ocr, err), config.Extraction.SamplePages)
	metrics := estimator.Run(cmd.Context(), src)

	if confidenceJSON {
		data, err := json.MarshalIndent(metrics, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Confidence report for %s\n\n", path)
	fmt.Printf("  Overall:            %5.1f\n", metrics.OverallConfidence)
	fmt.Printf("  Text extraction:    %5.1f\n", metrics.TextExtractionConfidence)
	fmt.Printf("  OCR:                %5.1f\n", metrics.OCRConfidence)
	fmt.Printf("  Layout detection:   %5.1f  (%s, consistency %.2f)\n",
		metrics.LayoutDetectionConfidence, metrics.DominantLayout, metrics.LayoutConsistency)
	fmt.Printf("  Table detection:    %5.1f\n", metrics.TableDetectionConfidence)
	fmt.Printf("  Content structure:  %5.1f\n", metrics.ContentStructureConfidence)
	fmt.Printf("\n  Recommended method: %s\n", metrics.RecommendedMethod)

	if len(metrics.IssuesFound) > 0 {
		fmt.Println("\n  Issues:")
		for _, issue := range metrics.IssuesFound {
			fmt.Printf("    - %s\n", issue)
		}
	}

	if metrics.RecommendedMethod == "manual_review_needed" {
		os.Exit(2)
	}
	return nil
}

// ocrOrNil converts the engine to the interface type without smuggling a
// typed nil through when construction failed.
func ocrOrNil(engine *pdf.TesseractEngine, err error) interfaces.OCREngine {
	if err != nil || engine == nil {
		return nil
	}
	return engine
}
