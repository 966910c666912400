package classify

import (
	"testing"

	"loanforge/pkg/models"
)

func TestClassify_W2MatchesOnKeywordsAndRegex(t *testing.T) {
	c := NewClassifier(DefaultSignatures())
	text := "Form W-2 Wage and Tax Statement\nEmployer Identification Number: 12-3456789"
	result := c.Classify(text)
	if result.DocumentCategory != models.DocTypeW2 {
		t.Errorf("expected DocTypeW2, got %s", result.DocumentCategory)
	}
	if result.RecommendedExtractor != models.ExtractorStructured {
		t.Errorf("expected structured extraction for W-2, got %s", result.RecommendedExtractor)
	}
}

func TestClassify_NoSignatureMatchFallsBackToUnknown(t *testing.T) {
	c := NewClassifier(DefaultSignatures())
	result := c.Classify("this text matches nothing in the table")
	if result.DocumentCategory != models.DocTypeUnknown {
		t.Errorf("expected DocTypeUnknown, got %s", result.DocumentCategory)
	}
	if result.RecommendedExtractor != models.ExtractorOCR {
		t.Errorf("expected OCR fallback, got %s", result.RecommendedExtractor)
	}
}

func TestClassify_MultiWordKeywordToleratesWordOrder(t *testing.T) {
	c := NewClassifier(DefaultSignatures())
	// "earnings statement" + "pay period" out of the order they're
	// declared in the signature, simulating OCR word-fusion reordering.
	text := "pay period ending 06/30 ... earnings statement for employee"
	result := c.Classify(text)
	if result.DocumentCategory != models.DocTypePayStub {
		t.Errorf("expected DocTypePayStub, got %s", result.DocumentCategory)
	}
}

func TestClassify_RegexHitOutweighsSingleKeyword(t *testing.T) {
	c := NewClassifier(DefaultSignatures())
	// "form 1040" regex (3 points) should win over a single PayStub
	// keyword hit (1 point) even though PayStub is declared earlier.
	text := "gross pay notwithstanding, this is a Form 1040 filing"
	result := c.Classify(text)
	if result.DocumentCategory != models.DocTypeTaxReturn1040 {
		t.Errorf("expected DocTypeTaxReturn1040, got %s", result.DocumentCategory)
	}
}

func TestLeadingText_TruncatesToMaxPages(t *testing.T) {
	pages := []string{"one", "two", "three", "four", "five"}
	joined := LeadingText(pages)
	if joined != "one\ntwo\nthree" {
		t.Errorf("expected first three pages joined, got %q", joined)
	}
}

func TestLeadingText_FewerThanMaxPagesIsUnchanged(t *testing.T) {
	pages := []string{"only one page"}
	if got := LeadingText(pages); got != "only one page" {
		t.Errorf("expected unchanged single page, got %q", got)
	}
}
