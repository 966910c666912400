package textacq

import (
	"context"
	"path/filepath"
	"testing"

	"loanforge/pkg/models"
)

type fakeStructured struct {
	text string
	err  error
}

func (f fakeStructured) ExtractMarkdown(ctx context.Context, pdfPath string) (string, error) {
	return f.text, f.err
}

type fakeOCR struct{ text string }

func (f fakeOCR) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	return f.text, nil
}

type fakeRasterizer struct{ pdfPath string }

func (f fakeRasterizer) RasterizeToPDF(ctx context.Context, imagePath, scratchDir string) (string, error) {
	return f.pdfPath, nil
}

func TestAcquire_StructuredRecommendationUsesStructuredPath(t *testing.T) {
	longText := "this is a long structured markdown body that comfortably clears the fifty character minimum threshold"
	a := NewAcquirer(nil, fakeStructured{text: longText}, fakeOCR{text: "ocr fallback"}, t.TempDir())
	result, err := a.Acquire(context.Background(), "doc.pdf", models.ExtractorStructured, false)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !result.IsMarkdown || result.Method != MethodMarkdownStructured {
		t.Errorf("expected structured markdown result, got %+v", result)
	}
	if result.Text != longText {
		t.Errorf("expected structured text, got %q", result.Text)
	}
}

func TestAcquire_ThinStructuredYieldFallsBackToOCR(t *testing.T) {
	a := NewAcquirer(nil, fakeStructured{text: "too short"}, fakeOCR{text: "full ocr body"}, t.TempDir())
	result, err := a.Acquire(context.Background(), "doc.pdf", models.ExtractorStructured, false)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if result.Method != MethodOCR || result.Text != "full ocr body" {
		t.Errorf("expected OCR fallback, got %+v", result)
	}
}

func TestAcquire_EmptyRecommendationDefaultsToOCR(t *testing.T) {
	a := NewAcquirer(nil, fakeStructured{text: "should never be called, plenty long enough to pass threshold"}, fakeOCR{text: "ocr text"}, t.TempDir())
	result, err := a.Acquire(context.Background(), "doc.pdf", "", false)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if result.Method != MethodOCR {
		t.Errorf("expected OCR path on empty recommendation, got %+v", result)
	}
}

func TestAcquire_NoOCRConfiguredReturnsNoRendererEmptyText(t *testing.T) {
	a := NewAcquirer(nil, nil, nil, t.TempDir())
	result, err := a.Acquire(context.Background(), "doc.pdf", "", false)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if result.Method != MethodNoRenderer || result.Text != "" {
		t.Errorf("expected empty no-renderer result, got %+v", result)
	}
}

func TestAcquire_UnsupportedExtensionErrors(t *testing.T) {
	a := NewAcquirer(nil, nil, fakeOCR{text: "x"}, t.TempDir())
	if _, err := a.Acquire(context.Background(), "doc.docx", "", false); err == nil {
		t.Error("expected an error for an unsupported extension")
	}
}

func TestAcquire_ImageExtensionRequiresRasterizer(t *testing.T) {
	a := NewAcquirer(nil, nil, fakeOCR{text: "x"}, t.TempDir())
	if _, err := a.Acquire(context.Background(), "photo.jpg", "", false); err == nil {
		t.Error("expected an error when no rasterizer is configured for an image input")
	}
}

func TestAcquire_ImageExtensionRoutesThroughRasterizer(t *testing.T) {
	rasterizedPath := filepath.Join(t.TempDir(), "rasterized.pdf")
	a := NewAcquirer(fakeRasterizer{pdfPath: rasterizedPath}, nil, fakeOCR{text: "rasterized ocr text"}, t.TempDir())
	result, err := a.Acquire(context.Background(), "photo.jpg", "", false)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if result.Text != "rasterized ocr text" {
		t.Errorf("expected OCR text from the rasterized PDF, got %q", result.Text)
	}
}
