// -----------------------------------------------------------------------
// PDF Document Service - Page-level access to rulebook PDFs
// Uses go-fitz for text and rasterization, ledongthuc/pdf for positioned
// layout data, and pdfcpu for open-time validation
// -----------------------------------------------------------------------

package pdf

import (
	"fmt"
	"image"
	"os"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/libram/internal/interfaces"
	"github.com/ternarybob/libram/internal/models"
)

// Document is an open PDF backed by two readers: go-fitz supplies page text
// and rasterized images, ledongthuc/pdf supplies positioned characters for
// layout and table geometry. The positional reader is optional; when it
// cannot parse the file the geometry paths degrade to
// ErrCapabilityUnavailable and callers fall back to heuristics.
type Document struct {
	path   string
	logger arbor.ILogger

	doc       *fitz.Document
	file      *os.File
	reader    *pdf.Reader
	pageCount int
}

// Compile-time interface assertion
var _ interfaces.PageSource = (*Document)(nil)

// Open validates and opens a PDF for page-level extraction.
func Open(path string, logger arbor.ILogger) (*Document, error) {
	// Validate with pdfcpu before handing the file to the extraction readers
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF %s: %w", path, err)
	}
	if pdfCtx.Encrypt != nil {
		return nil, fmt.Errorf("PDF %s is encrypted", path)
	}
	if pdfCtx.PageCount == 0 {
		return nil, fmt.Errorf("PDF %s has no pages", path)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}

	d := &Document{
		path:      path,
		logger:    logger,
		doc:       doc,
		pageCount: pdfCtx.PageCount,
	}

	// The positional reader is stricter than fitz and fails on some real
	// files. That only costs geometry, not text extraction.
	file, reader, err := pdf.Open(path)
	if err != nil {
		logger.Warn().
			Str("path", path).
			Err(err).
			Msg("Positional reader unavailable, layout geometry degraded")
	} else {
		d.file = file
		d.reader = reader
	}

	logger.Debug().
		Str("path", path).
		Int("pages", d.pageCount).
		Bool("geometry", d.reader != nil).
		Msg("Opened PDF document")

	return d, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.pageCount
}

// PageText returns the raw text of a page in PDF storage order.
func (d *Document) PageText(pageIndex int) (string, error) {
	if pageIndex < 0 || pageIndex >= d.pageCount {
		return "", fmt.Errorf("page index %d out of range [0,%d)", pageIndex, d.pageCount)
	}

	text, err := d.doc.Text(pageIndex)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", pageIndex+1, err)
	}

	return text, nil
}

// PageBlocks returns positioned text blocks for a page, in top-to-bottom
// coordinates, along with the page width in points.
func (d *Document) PageBlocks(pageIndex int) ([]models.TextBlock, float64, error) {
	if pageIndex < 0 || pageIndex >= d.pageCount {
		return nil, 0, fmt.Errorf("page index %d out of range [0,%d)", pageIndex, d.pageCount)
	}
	if d.reader == nil {
		return nil, 0, interfaces.ErrCapabilityUnavailable
	}

	texts, err := d.pageTexts(pageIndex)
	if err != nil {
		return nil, 0, err
	}

	bounds, err := d.doc.Bound(pageIndex)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get bounds for page %d: %w", pageIndex+1, err)
	}
	pageWidth := float64(bounds.Dx())
	pageHeight := float64(bounds.Dy())

	blocks := groupBlocks(texts, pageHeight)
	return blocks, pageWidth, nil
}

// PageTableGrids detects geometrically aligned grids on a page. Cells may be
// empty strings.
func (d *Document) PageTableGrids(pageIndex int) ([][][]string, error) {
	if pageIndex < 0 || pageIndex >= d.pageCount {
		return nil, fmt.Errorf("page index %d out of range [0,%d)", pageIndex, d.pageCount)
	}
	if d.reader == nil {
		return nil, interfaces.ErrCapabilityUnavailable
	}

	texts, err := d.pageTexts(pageIndex)
	if err != nil {
		return nil, err
	}

	return detectGrids(texts), nil
}

// RenderPage rasterizes a page at the given scale factor (1.0 = 72 DPI).
func (d *Document) RenderPage(pageIndex int, scale float64) (image.Image, error) {
	if pageIndex < 0 || pageIndex >= d.pageCount {
		return nil, fmt.Errorf("page index %d out of range [0,%d)", pageIndex, d.pageCount)
	}
	if scale <= 0 {
		scale = 1.0
	}

	img, err := d.doc.ImageDPI(pageIndex, 72.0*scale)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", pageIndex+1, err)
	}

	return img, nil
}

// Close releases both underlying readers.
func (d *Document) Close() error {
	var firstErr error
	if d.doc != nil {
		if err := d.doc.Close(); err != nil {
			firstErr = err
		}
	}
	if d.file != nil {
		if err := d.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// pageTexts returns the filtered positional characters for a zero-based page.
func (d *Document) pageTexts(pageIndex int) ([]pdf.Text, error) {
	page := d.reader.Page(pageIndex + 1)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d is not readable", pageIndex+1)
	}

	content := page.Content()
	return filterTexts(content.Text), nil
}
