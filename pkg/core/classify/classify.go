// Package classify implements Component B, the Document Classifier:
// keyword + regex scoring over a document's first pages to pick one
// DocumentType from the closed enumeration.
package classify

import (
	"regexp"
	"strings"

	"loanforge/pkg/models"
)

// maxPages bounds how much of a document's text classification looks at.
const maxPages = 3

// Signature is one DocumentType's scoring rule: keyword hits (1 point,
// case-insensitive; multi-word keywords require every constituent word
// to appear anywhere, tolerating OCR word-fusion) and regex hits (3
// points, case-insensitive).
type Signature struct {
	DocType             models.DocumentType
	Keywords            []string
	Regexes             []*regexp.Regexp
	RecommendedExtractor models.RecommendedExtractor
}

// Classifier scores text against an ordered table of signatures. Table
// order is the tie-break: the first DocumentType to reach the max score
// wins.
type Classifier struct {
	Signatures []Signature
}

// DefaultSignatures is the declaration-ordered keyword/regex table for
// every recognized DocumentType. Structured forms (W-2, 1099-MISC,
// Appraisal, Loan Estimate, Closing Disclosure) recommend the
// structured path; URLA recommends OCR (empirically more reliable per
// §4.B); everything else defaults to OCR.
func DefaultSignatures() []Signature {
	return []Signature{
		{
			DocType:  models.DocTypeW2,
			Keywords: []string{"wage and tax statement", "w-2", "employer identification number"},
			Regexes:  []*regexp.Regexp{regexp.MustCompile(`(?i)\bform\s*w-?2\b`)},
			RecommendedExtractor: models.ExtractorStructured,
		},
		{
			DocType:  models.DocType1099MISC,
			Keywords: []string{"1099-misc", "miscellaneous income", "payer's tin"},
			Regexes:  []*regexp.Regexp{regexp.MustCompile(`(?i)\bform\s*1099-misc\b`)},
			RecommendedExtractor: models.ExtractorStructured,
		},
		{
			DocType:  models.DocTypePayStub,
			Keywords: []string{"earnings statement", "pay period", "gross pay", "net pay", "year to date"},
			RecommendedExtractor: models.ExtractorOCR,
		},
		{
			DocType:  models.DocTypeBankStatement,
			Keywords: []string{"account summary", "beginning balance", "ending balance", "statement period"},
			RecommendedExtractor: models.ExtractorOCR,
		},
		{
			DocType:  models.DocTypeTaxReturn1040,
			Keywords: []string{"form 1040", "u.s. individual income tax return", "adjusted gross income"},
			Regexes:  []*regexp.Regexp{regexp.MustCompile(`(?i)\bform\s*1040\b`)},
			RecommendedExtractor: models.ExtractorOCR,
		},
		{
			DocType:  models.DocTypeAppraisal1004,
			Keywords: []string{"uniform residential appraisal report", "appraised value", "comparable sales"},
			Regexes:  []*regexp.Regexp{regexp.MustCompile(`(?i)\bform\s*1004\b`)},
			RecommendedExtractor: models.ExtractorStructured,
		},
		{
			DocType:  models.DocTypeLoanEstimate,
			Keywords: []string{"loan estimate", "estimated closing costs", "loan terms"},
			RecommendedExtractor: models.ExtractorStructured,
		},
		{
			DocType:  models.DocTypeClosingDisclosure,
			Keywords: []string{"closing disclosure", "cash to close", "loan calculations"},
			RecommendedExtractor: models.ExtractorStructured,
		},
		{
			DocType:  models.DocTypeURLA,
			Keywords: []string{"uniform residential loan application", "borrower information", "section 1"},
			Regexes:  []*regexp.Regexp{regexp.MustCompile(`(?i)\bform\s*1003\b`)},
			RecommendedExtractor: models.ExtractorOCR,
		},
		{
			DocType:  models.DocTypeGovernmentID,
			Keywords: []string{"driver license", "date of birth", "identification card"},
			RecommendedExtractor: models.ExtractorOCR,
		},
		{
			DocType:  models.DocTypeGiftLetter,
			Keywords: []string{"gift letter", "no repayment is expected"},
			RecommendedExtractor: models.ExtractorOCR,
		},
		{
			DocType:  models.DocTypeVAForm,
			Keywords: []string{"certificate of eligibility", "department of veterans affairs"},
			RecommendedExtractor: models.ExtractorOCR,
		},
		{
			DocType:  models.DocTypeSCIF,
			Keywords: []string{"seller's closing instructions", "scif"},
			RecommendedExtractor: models.ExtractorOCR,
		},
		{
			DocType:  models.DocTypeMilitaryLES,
			Keywords: []string{"leave and earnings statement", "les"},
			RecommendedExtractor: models.ExtractorOCR,
		},
		{
			DocType:  models.DocTypeInvestmentStatement,
			Keywords: []string{"portfolio summary", "investment statement", "account value"},
			RecommendedExtractor: models.ExtractorOCR,
		},
		{
			DocType:  models.DocTypeLease,
			Keywords: []string{"lease agreement", "monthly rent", "lessor", "lessee"},
			RecommendedExtractor: models.ExtractorOCR,
		},
		{
			DocType:  models.DocTypeSalesContract,
			Keywords: []string{"purchase and sale agreement", "earnest money", "purchase price"},
			RecommendedExtractor: models.ExtractorOCR,
		},
		{
			DocType:  models.DocTypeProofOfInsurance,
			Keywords: []string{"certificate of insurance", "hazard insurance", "policy number"},
			RecommendedExtractor: models.ExtractorOCR,
		},
	}
}

func NewClassifier(signatures []Signature) *Classifier {
	return &Classifier{Signatures: signatures}
}

// LeadingText joins at most maxPages page strings, the window §4.B
// scopes classification to.
func LeadingText(pages []string) string {
	if len(pages) > maxPages {
		pages = pages[:maxPages]
	}
	return strings.Join(pages, "\n")
}

// Classify scores the first maxPages worth of text (caller pre-splits
// into pages; this takes the already-joined leading text) and returns
// the winning ClassificationResult.
func (c *Classifier) Classify(text string) models.ClassificationResult {
	lower := strings.ToLower(text)

	bestScore := 0
	bestIdx := -1
	for i, sig := range c.Signatures {
		score := 0
		for _, kw := range sig.Keywords {
			if keywordMatches(lower, kw) {
				score++
			}
		}
		for _, re := range sig.Regexes {
			if re.MatchString(text) {
				score += 3
			}
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx == -1 {
		return models.ClassificationResult{
			DocumentCategory:     models.DocTypeUnknown,
			RecommendedExtractor: models.ExtractorOCR,
			Confidence:           0.5,
			Reasoning:            "no keyword or regex signature scored above zero",
		}
	}

	sig := c.Signatures[bestIdx]
	confidence := 0.5 + 0.1*float64(bestScore)
	if confidence > 0.95 {
		confidence = 0.95
	}
	return models.ClassificationResult{
		DocumentCategory:     sig.DocType,
		RecommendedExtractor: sig.RecommendedExtractor,
		Confidence:           confidence,
		Reasoning:            "matched signature for " + string(sig.DocType),
	}
}

// keywordMatches checks substring containment for single-word keywords
// and all-constituent-words-present (in any order, anywhere in text) for
// multi-word keywords, the OCR-word-fusion-tolerant rule §4.B specifies.
func keywordMatches(lowerText, keyword string) bool {
	words := strings.Fields(keyword)
	if len(words) <= 1 {
		return strings.Contains(lowerText, keyword)
	}
	for _, w := range words {
		if !strings.Contains(lowerText, w) {
			return false
		}
	}
	return true
}
