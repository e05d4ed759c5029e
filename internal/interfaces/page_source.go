package interfaces

import (
	"context"
	"image"

	"github.com/ternarybob/libram/internal/models"
)

// PageSource abstracts an open PDF document for the extraction pipeline.
// Page indexes are zero-based throughout; Section records convert to 1-based
// page numbers at assembly time.
type PageSource interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// PageText returns the raw text of a page in the order the PDF stores it.
	PageText(pageIndex int) (string, error)

	// PageBlocks returns positioned text blocks for layout analysis, along
	// with the page width in layout units.
	PageBlocks(pageIndex int) ([]models.TextBlock, float64, error)

	// PageTableGrids returns raw row/column grids detected geometrically on a
	// page. Cells may be empty strings. Implementations without a geometry
	// capability return ErrCapabilityUnavailable.
	PageTableGrids(pageIndex int) ([][][]string, error)

	// RenderPage rasterizes a page at the given scale factor for OCR.
	RenderPage(pageIndex int, scale float64) (image.Image, error)

	// Close releases the underlying document.
	Close() error
}

// OCRResult carries per-token OCR output for one rendered page.
type OCRResult struct {
	Words       []string
	Confidences []float64 // 0-100, parallel to Words
}

// OCREngine recognizes text in a rasterized page image. Optional capability:
// a nil engine degrades the OCR confidence sub-test to zero with a recorded
// issue instead of failing the run.
type OCREngine interface {
	Recognize(ctx context.Context, img image.Image) (OCRResult, error)
	Close() error
}
