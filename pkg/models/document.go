// Package models defines the canonical data model shared by every stage of
// the extraction pipeline: document classification, flat extraction,
// the MISMO-aligned canonical record, its relational lowering, and the
// durable loan-application state the orchestrator drives.
package models

// DocumentType is a closed enumeration of the borrower documents the
// pipeline recognizes. Values are stable strings; new types are never
// invented at runtime — only added here.
type DocumentType string

const (
	DocTypeURLA                DocumentType = "URLA"
	DocTypeW2                  DocumentType = "W-2"
	DocTypePayStub             DocumentType = "Pay Stub"
	DocTypeBankStatement       DocumentType = "Bank Statement"
	DocTypeTaxReturn1040       DocumentType = "Tax Return 1040"
	DocTypeAppraisal1004       DocumentType = "Appraisal 1004"
	DocTypeLoanEstimate        DocumentType = "Loan Estimate"
	DocTypeClosingDisclosure   DocumentType = "Closing Disclosure"
	DocTypeGovernmentID        DocumentType = "Government ID"
	DocTypeGiftLetter          DocumentType = "Gift Letter"
	DocType1099MISC            DocumentType = "1099-MISC"
	DocTypeVAForm              DocumentType = "VA Form"
	DocTypeSCIF                DocumentType = "SCIF"
	DocTypeMilitaryLES         DocumentType = "Military LES"
	DocTypeInvestmentStatement DocumentType = "Investment Statement"
	DocTypeLease               DocumentType = "Lease"
	DocTypeSalesContract       DocumentType = "Sales Contract"
	DocTypeProofOfInsurance    DocumentType = "Proof of Insurance"
	DocTypeUnknown             DocumentType = "Unknown"
)

// PDFKind describes how a PDF's text layer was obtained.
type PDFKind string

const (
	PDFDigital PDFKind = "digital"
	PDFScanned PDFKind = "scanned"
	PDFNotApplicable PDFKind = "n/a"
)

// RecommendedExtractor names which Text Acquisition path the classifier
// believes will yield the best extraction for a document.
type RecommendedExtractor string

const (
	ExtractorStructured RecommendedExtractor = "structured"
	ExtractorOCR        RecommendedExtractor = "ocr"
)

// ClassificationResult is produced once per input document and never
// mutated afterwards.
type ClassificationResult struct {
	FileType           string               `json:"file_type"`
	PDFType            PDFKind              `json:"pdf_type"`
	DocumentCategory   DocumentType         `json:"document_category"`
	RecommendedExtractor RecommendedExtractor `json:"recommended_extractor"`
	Confidence         float64              `json:"confidence"`
	Reasoning          string               `json:"reasoning"`
}

// FlatValue is the value half of a FlatExtraction entry: a string, a
// number, or an ordered sequence of sub-records (each itself a flat
// string->interface map, for multi-group table rules).
type FlatValue = interface{}

// FlatExtraction maps a business key (e.g. "w2_wages_annual",
// "urla_borrower_ssn") to its extracted value. Keys are unique within one
// extraction; the prefix before the first underscore names the document
// family the key belongs to. Insertion order carries no meaning.
type FlatExtraction map[string]FlatValue

// KeyPrefix returns the part of a flat-extraction key before its first
// underscore (the whole key when it has none), used by the Canonical
// Assembler's merged strategy to census prefixes.
func KeyPrefix(key string) string {
	for i, r := range key {
		if r == '_' {
			return key[:i]
		}
	}
	return key
}
