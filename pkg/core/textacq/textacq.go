// Package textacq implements Component A, Text Acquisition: turning an
// arbitrary input file into either structurally-parsed Markdown (with
// preserved table fences) or line-oriented OCR text, picking the path
// the classifier recommends and falling back to OCR on thin yield.
package textacq

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"loanforge/pkg/models"
)

// minTextLength is the structured-extraction fallback threshold: fewer
// characters than this after the structured path triggers an OCR retry.
const minTextLength = 50

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".tif": true, ".tiff": true, ".heic": true,
}

// Method records how a document's text was obtained, surfaced in the
// run report for low-yield diagnostics.
type Method string

const (
	MethodMarkdownStructured Method = "structured-markdown"
	MethodOCR                Method = "ocr"
	MethodNoRenderer         Method = "no-renderer"
)

// Acquired is the output of a single Text Acquisition call.
type Acquired struct {
	Text       string
	IsMarkdown bool
	Method     Method
}

// ImageRasterizer converts a non-PDF image into a single-page PDF in a
// process-scoped temp directory. An out-of-tree port: concrete
// implementations wrap whatever PDF rendering library is available.
type ImageRasterizer interface {
	RasterizeToPDF(ctx context.Context, imagePath string, scratchDir string) (pdfPath string, err error)
}

// StructuredExtractor renders a PDF's native text/markup as Markdown
// with table fences preserved. An out-of-tree port.
type StructuredExtractor interface {
	ExtractMarkdown(ctx context.Context, pdfPath string) (string, error)
}

// OCREngine renders a PDF (or a specific page range) to line-oriented
// text. An out-of-tree port; its absence is non-fatal per §4.A.
type OCREngine interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// Acquirer wires the three ports together per §4.A's selection rule.
type Acquirer struct {
	Rasterizer ImageRasterizer
	Structured StructuredExtractor
	OCR        OCREngine
	ScratchDir string
}

func NewAcquirer(rasterizer ImageRasterizer, structured StructuredExtractor, ocr OCREngine, scratchDir string) *Acquirer {
	return &Acquirer{Rasterizer: rasterizer, Structured: structured, OCR: ocr, ScratchDir: scratchDir}
}

// Acquire converts path into either Markdown or OCR text. recommended
// and imageSourced come from the Document Classifier (§4.B); an empty
// recommended value defaults to the OCR path.
func (a *Acquirer) Acquire(ctx context.Context, path string, recommended models.RecommendedExtractor, imageSourced bool) (Acquired, error) {
	ext := strings.ToLower(filepath.Ext(path))
	pdfPath := path

	if imageExtensions[ext] {
		if a.Rasterizer == nil {
			return Acquired{}, fmt.Errorf("textacq: no rasterizer configured for image input %s", path)
		}
		rasterized, err := a.Rasterizer.RasterizeToPDF(ctx, path, a.ScratchDir)
		if err != nil {
			return Acquired{}, fmt.Errorf("textacq: rasterize %s: %w", path, err)
		}
		pdfPath = rasterized
		imageSourced = true
	} else if ext != ".pdf" {
		return Acquired{}, fmt.Errorf("textacq: unsupported extension %q", ext)
	}

	useStructured := recommended == models.ExtractorStructured && !imageSourced
	if useStructured {
		if text, ok := a.tryStructured(ctx, pdfPath); ok {
			return Acquired{Text: text, IsMarkdown: true, Method: MethodMarkdownStructured}, nil
		}
	}

	return a.ocrOrEmpty(ctx, pdfPath), nil
}

func (a *Acquirer) tryStructured(ctx context.Context, pdfPath string) (string, bool) {
	if a.Structured == nil {
		return "", false
	}
	text, err := a.Structured.ExtractMarkdown(ctx, pdfPath)
	if err != nil || len(strings.TrimSpace(text)) < minTextLength {
		return "", false
	}
	return text, true
}

func (a *Acquirer) ocrOrEmpty(ctx context.Context, pdfPath string) Acquired {
	if a.OCR == nil {
		return Acquired{Text: "", IsMarkdown: false, Method: MethodNoRenderer}
	}
	text, err := a.OCR.ExtractText(ctx, pdfPath)
	if err != nil {
		return Acquired{Text: "", IsMarkdown: false, Method: MethodNoRenderer}
	}
	return Acquired{Text: text, IsMarkdown: false, Method: MethodOCR}
}
