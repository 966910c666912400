package splitter

import (
	"context"
	"fmt"
	"testing"

	"loanforge/pkg/models"
)

// fakeSource is an in-memory PageSource: pages[i] is page i's text, and
// WriteChunk records the page ranges it was asked to materialize.
type fakeSource struct {
	pages  []string
	chunks [][]int
}

func (f *fakeSource) PageCount(ctx context.Context, pdfPath string) (int, error) {
	return len(f.pages), nil
}

func (f *fakeSource) PageText(ctx context.Context, pdfPath string, pageIndex int) (string, error) {
	return f.pages[pageIndex], nil
}

func (f *fakeSource) PageTopOCR(ctx context.Context, pdfPath string, pageIndex int, topFraction float64) (string, error) {
	return f.pages[pageIndex], nil
}

func (f *fakeSource) WriteChunk(ctx context.Context, pdfPath string, pages []int) (string, error) {
	f.chunks = append(f.chunks, pages)
	return fmt.Sprintf("chunk-%d.pdf", len(f.chunks)), nil
}

func testSignatures() []Signature {
	return []Signature{
		{
			DocType:          models.DocTypeW2,
			RequiredKeywords: []string{"wage and tax statement"},
			Keywords:         []string{"employer"},
			MinimumScore:     0.3,
		},
		{
			DocType:          models.DocTypePayStub,
			RequiredKeywords: []string{"earnings statement"},
			Keywords:         []string{"gross pay", "net pay"},
			MinimumScore:     0.3,
		},
	}
}

func TestSplit_OpensNewChunkOnAnchorPage(t *testing.T) {
	src := &fakeSource{pages: []string{
		"Wage and Tax Statement for employer Acme padded to satisfy the minimum page text length threshold for this test case.",
		"continuation of the W-2 with more boilerplate padding text so it clears the minimum page length for OCR fallback checks.",
		"Earnings Statement gross pay net pay padded to satisfy the minimum page text length threshold for this test case here.",
	}}
	s := NewSplitter(testSignatures(), src)

	chunks, err := s.Split(context.Background(), "input.pdf")
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %+v", len(chunks), chunks)
	}
	if chunks[0].DocType != models.DocTypeW2 || len(chunks[0].Pages) != 2 {
		t.Errorf("expected W2 chunk spanning pages 0-1, got %+v", chunks[0])
	}
	if chunks[1].DocType != models.DocTypePayStub || len(chunks[1].Pages) != 1 {
		t.Errorf("expected PayStub chunk with page 2, got %+v", chunks[1])
	}
}

func TestSplit_UnmatchedLeadingPageFallsBackToUnknown(t *testing.T) {
	src := &fakeSource{pages: []string{
		"this page matches no anchor signature at all and is padded out to clear the minimum page text length for the test.",
	}}
	s := NewSplitter(testSignatures(), src)

	chunks, err := s.Split(context.Background(), "input.pdf")
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 1 || chunks[0].DocType != models.DocTypeUnknown {
		t.Errorf("expected a single Unknown chunk, got %+v", chunks)
	}
}

func TestIsMegaPDF_TrueWhenTwoDistinctTypesScore(t *testing.T) {
	pages := make([]string, 10)
	for i := range pages {
		pages[i] = "padding text that clears the minimum page length threshold for every sampled page in this fixture."
	}
	pages[0] = "Wage and Tax Statement for employer Acme padded to satisfy the minimum page text length threshold here."
	pages[9] = "Earnings Statement gross pay net pay padded to satisfy the minimum page text length threshold right here."
	src := &fakeSource{pages: pages}
	s := NewSplitter(testSignatures(), src)

	isMega, err := s.IsMegaPDF(context.Background(), "input.pdf")
	if err != nil {
		t.Fatalf("IsMegaPDF: %v", err)
	}
	if !isMega {
		t.Error("expected IsMegaPDF to report true across two distinct anchor types")
	}
}

func TestIsMegaPDF_FalseWithOnlyOneMatchingType(t *testing.T) {
	pages := make([]string, 5)
	for i := range pages {
		pages[i] = "Wage and Tax Statement for employer Acme padded to satisfy the minimum page text length threshold here."
	}
	src := &fakeSource{pages: pages}
	s := NewSplitter(testSignatures(), src)

	isMega, err := s.IsMegaPDF(context.Background(), "input.pdf")
	if err != nil {
		t.Fatalf("IsMegaPDF: %v", err)
	}
	if isMega {
		t.Error("expected IsMegaPDF to report false with a single matching type")
	}
}
