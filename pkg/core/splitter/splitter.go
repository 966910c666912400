// Package splitter implements Component C, the "Anchor & Continuity"
// splitter: segmenting a multi-document PDF into per-DocumentType
// chunks by scoring each page's text against a signatures table.
package splitter

import (
	"context"
	"regexp"
	"strings"

	"loanforge/pkg/models"
)

const minPageTextLength = 50

// Signature is one anchor bundle: required keywords (all must match),
// scored keywords (1 point each), scored regexes (2 points each), and
// the minimum normalized score a page must clear to open a new chunk.
type Signature struct {
	DocType          models.DocumentType
	RequiredKeywords []string
	Keywords         []string
	RegexPatterns    []*regexp.Regexp
	MinimumScore     float64
}

func (s Signature) minimumScore() float64 {
	if s.MinimumScore == 0 {
		return 0.3
	}
	return s.MinimumScore
}

// score returns the normalized score for text against s, and whether
// every required keyword matched.
func (s Signature) score(lowerText string) (float64, bool) {
	for _, req := range s.RequiredKeywords {
		if !strings.Contains(lowerText, strings.ToLower(req)) {
			return 0, false
		}
	}
	denom := float64(len(s.Keywords) + 2*len(s.RegexPatterns))
	if denom == 0 {
		return 0, true
	}
	hits := 0.0
	for _, kw := range s.Keywords {
		if strings.Contains(lowerText, strings.ToLower(kw)) {
			hits++
		}
	}
	for _, re := range s.RegexPatterns {
		if re.MatchString(lowerText) {
			hits += 2
		}
	}
	return hits / denom, true
}

// PageSource renders a single page's native text, or (when below
// minPageTextLength) OCRs the top 30% of the page image. An out-of-tree
// port.
type PageSource interface {
	PageCount(ctx context.Context, pdfPath string) (int, error)
	PageText(ctx context.Context, pdfPath string, pageIndex int) (string, error)
	PageTopOCR(ctx context.Context, pdfPath string, pageIndex int, topFraction float64) (string, error)
	WriteChunk(ctx context.Context, pdfPath string, pages []int) (chunkPath string, err error)
}

// Chunk is one contiguous page range classified as a single DocumentType.
type Chunk struct {
	DocType models.DocumentType
	Pages   []int
	Path    string
}

// Splitter segments mega-PDFs per §4.C.
type Splitter struct {
	Signatures []Signature
	Source     PageSource
}

func NewSplitter(signatures []Signature, source PageSource) *Splitter {
	return &Splitter{Signatures: signatures, Source: source}
}

// Split emits the ordered chunk sequence for pdfPath. Every page
// belongs to exactly one chunk; chunk order preserves input order.
func (s *Splitter) Split(ctx context.Context, pdfPath string) ([]Chunk, error) {
	n, err := s.Source.PageCount(ctx, pdfPath)
	if err != nil {
		return nil, err
	}

	var chunks []Chunk
	var current *Chunk

	for i := 0; i < n; i++ {
		text, err := s.pageText(ctx, pdfPath, i)
		if err != nil {
			return nil, err
		}
		docType, matched := s.classifyPage(text)

		switch {
		case matched:
			if current != nil {
				chunks = append(chunks, *current)
			}
			current = &Chunk{DocType: docType, Pages: []int{i}}
		case current != nil:
			current.Pages = append(current.Pages, i)
		default:
			current = &Chunk{DocType: models.DocTypeUnknown, Pages: []int{i}}
		}
	}
	if current != nil {
		chunks = append(chunks, *current)
	}

	for idx := range chunks {
		path, err := s.Source.WriteChunk(ctx, pdfPath, chunks[idx].Pages)
		if err != nil {
			return nil, err
		}
		chunks[idx].Path = path
	}
	return chunks, nil
}

func (s *Splitter) pageText(ctx context.Context, pdfPath string, pageIndex int) (string, error) {
	text, err := s.Source.PageText(ctx, pdfPath, pageIndex)
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(text)) >= minPageTextLength {
		return text, nil
	}
	return s.Source.PageTopOCR(ctx, pdfPath, pageIndex, 0.3)
}

// classifyPage returns the highest-scoring signature above its minimum,
// and whether any signature matched at all.
func (s *Splitter) classifyPage(text string) (models.DocumentType, bool) {
	lower := strings.ToLower(text)
	bestScore := -1.0
	var best models.DocumentType
	found := false
	for _, sig := range s.Signatures {
		score, ok := sig.score(lower)
		if !ok || score < sig.minimumScore() {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = sig.DocType
			found = true
		}
	}
	return best, found
}

// sampledPageIndices returns the 5-sample set (first, 25%, 50%, 75%,
// last) mega-detection uses, deduplicated and in ascending order.
func sampledPageIndices(n int) []int {
	if n <= 0 {
		return nil
	}
	pick := func(frac float64) int {
		idx := int(frac * float64(n-1))
		if idx < 0 {
			idx = 0
		}
		if idx > n-1 {
			idx = n - 1
		}
		return idx
	}
	raw := []int{0, pick(0.25), pick(0.5), pick(0.75), n - 1}
	seen := map[int]bool{}
	var out []int
	for _, i := range raw {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	return out
}

// IsMegaPDF samples up to 5 pages and reports whether at least two
// distinct DocumentTypes score above their signature's threshold — the
// optional fast-path mega-detection check.
func (s *Splitter) IsMegaPDF(ctx context.Context, pdfPath string) (bool, error) {
	n, err := s.Source.PageCount(ctx, pdfPath)
	if err != nil {
		return false, err
	}
	distinct := map[models.DocumentType]bool{}
	for _, idx := range sampledPageIndices(n) {
		text, err := s.pageText(ctx, pdfPath, idx)
		if err != nil {
			return false, err
		}
		if docType, matched := s.classifyPage(text); matched {
			distinct[docType] = true
		}
	}
	return len(distinct) >= 2, nil
}
