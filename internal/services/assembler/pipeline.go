package assembler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/libram/internal/interfaces"
	"github.com/ternarybob/libram/internal/models"
	"github.com/ternarybob/libram/internal/services/gamedetect"
)

// OpenFunc opens a document for extraction. Injected so the pipeline stays
// independent of any particular PDF reader.
type OpenFunc func(path string) (interfaces.PageSource, error)

// Options carries per-run extraction overrides.
type Options struct {
	ForceGameType string
	ForceEdition  string
	ContentType   string
}

// FileResult records the outcome of extracting one file in a batch.
type FileResult struct {
	Path   string
	Result models.ExtractionResult
	Err    error
}

// BatchResult aggregates a multi-file extraction run.
type BatchResult struct {
	RunID     string
	Files     []FileResult
	Succeeded int
	Failed    int
}

// Pipeline opens documents, detects their game system and runs full
// extraction. Each file is a self-contained unit; only the categorization
// cache is shared across files, which is safe by construction.
type Pipeline struct {
	logger    arbor.ILogger
	open      OpenFunc
	detector  *gamedetect.Detector
	assembler *Assembler
}

func NewPipeline(logger arbor.ILogger, open OpenFunc, detector *gamedetect.Detector, asm *Assembler) *Pipeline {
	return &Pipeline{
		logger:    logger,
		open:      open,
		detector:  detector,
		assembler: asm,
	}
}

// ExtractFile runs the full pipeline on one document. Only open failures
// propagate; everything past a successful open degrades per page.
func (p *Pipeline) ExtractFile(ctx context.Context, path string, opts Options) (models.ExtractionResult, error) {
	src, err := p.open(path)
	if err != nil {
		return models.ExtractionResult{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer src.Close()

	meta := p.detector.Detect(ctx, src, path, gamedetect.Options{
		ForceGameType: opts.ForceGameType,
		ForceEdition:  opts.ForceEdition,
		ContentType:   opts.ContentType,
	})

	var fileSize int64
	if info, statErr := os.Stat(path); statErr == nil {
		fileSize = info.Size()
	}

	docMeta := models.DocumentMetadata{
		OriginalFilename: filepath.Base(path),
		FileSize:         fileSize,
		SourceType:       "pdf_extraction",
		ProcessingDate:   time.Now(),
		Game:             meta,
		Source:           sourceLabel(meta),
	}

	return p.assembler.Extract(ctx, src, docMeta), nil
}

// ExtractBatch extracts every PDF in a directory. Files are independent:
// one failure is recorded and the rest of the batch continues.
func (p *Pipeline) ExtractBatch(ctx context.Context, dir string, opts Options) (BatchResult, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return BatchResult{}, err
	}
	if len(paths) == 0 {
		return BatchResult{}, fmt.Errorf("no PDF files found in %s", dir)
	}

	batch := BatchResult{RunID: uuid.New().String()}
	p.logger.Info().Str("run_id", batch.RunID).Int("files", len(paths)).Msg("Starting batch extraction")

	for _, path := range paths {
		result, err := p.ExtractFile(ctx, path, opts)
		if err != nil {
			p.logger.Warn().Err(err).Str("file", path).Msg("Batch file failed")
			batch.Files = append(batch.Files, FileResult{Path: path, Err: err})
			batch.Failed++
			continue
		}
		batch.Files = append(batch.Files, FileResult{Path: path, Result: result})
		batch.Succeeded++
	}

	p.logger.Info().
		Str("run_id", batch.RunID).
		Int("succeeded", batch.Succeeded).
		Int("failed", batch.Failed).
		Msg("Batch extraction complete")
	return batch, nil
}

func sourceLabel(meta models.GameMetadata) string {
	name := meta.GameFullName
	if name == "" {
		name = meta.GameType
	}
	book := meta.BookFullName
	if book == "" {
		book = "Unknown Book"
	}
	return fmt.Sprintf("%s %s Edition - %s", name, meta.Edition, book)
}
