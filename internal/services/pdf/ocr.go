// -----------------------------------------------------------------------
// OCR Engine - Tesseract-backed word recognition for rendered pages
// -----------------------------------------------------------------------

package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/libram/internal/interfaces"
)

// TesseractEngine recognizes words in rasterized pages via gosseract. The
// underlying client is not safe for concurrent use, so calls serialize on a
// mutex.
type TesseractEngine struct {
	client *gosseract.Client
	logger arbor.ILogger
	mu     sync.Mutex
}

// Compile-time interface assertion
var _ interfaces.OCREngine = (*TesseractEngine)(nil)

// NewTesseractEngine creates an OCR engine for the given languages. An empty
// language list uses the tesseract default (eng).
func NewTesseractEngine(languages []string, logger arbor.ILogger) (*TesseractEngine, error) {
	client := gosseract.NewClient()

	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set OCR languages %v: %w", languages, err)
		}
	}

	logger.Debug().
		Strs("languages", languages).
		Msg("Initialized tesseract OCR engine")

	return &TesseractEngine{
		client: client,
		logger: logger,
	}, nil
}

// Recognize runs word-level OCR on a page image and returns the recognized
// words with their confidences on a 0-100 scale.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) (interfaces.OCRResult, error) {
	if err := ctx.Err(); err != nil {
		return interfaces.OCRResult{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return interfaces.OCRResult{}, fmt.Errorf("failed to encode page image: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return interfaces.OCRResult{}, fmt.Errorf("failed to load page image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return interfaces.OCRResult{}, fmt.Errorf("failed to run OCR: %w", err)
	}

	result := interfaces.OCRResult{
		Words:       make([]string, 0, len(boxes)),
		Confidences: make([]float64, 0, len(boxes)),
	}
	for _, b := range boxes {
		if b.Word == "" {
			continue
		}
		result.Words = append(result.Words, b.Word)
		result.Confidences = append(result.Confidences, b.Confidence)
	}

	return result, nil
}

// Close releases the tesseract client.
func (e *TesseractEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.client.Close()
}
