package orchestrator

import (
	"context"
	"testing"

	"loanforge/pkg/core/llm"
	"loanforge/pkg/models"
)

func TestLeadCaptureWorkflow_NoDocumentsPendingReview(t *testing.T) {
	fa := newFakeActivities()
	result, err := LeadCaptureWorkflow(context.Background(), testApp(), fa.bundle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Recommendation != RecommendationPendingReview {
		t.Errorf("expected PENDING_REVIEW with zero documents, got %s", result.Recommendation)
	}
	if result.LoanNumber != fa.loanNumber {
		t.Errorf("expected loan number from create_loan_file, got %s", result.LoanNumber)
	}
}

func TestLeadCaptureWorkflow_HighConfidenceApproves(t *testing.T) {
	fa := newFakeActivities()
	name := "Jane Borrower"
	income := 90000
	fa.analysisStub = llm.AnalysisResult{ApplicantName: &name, AnnualIncome: &income}

	app := testApp()
	app.ApplicationMetadata = map[string]interface{}{
		"pay_stub_path":        "/tmp/paystub.pdf",
		"tax_return_path":      "/tmp/taxreturn.pdf",
		"stated_annual_income": 92000.0,
	}
	result, err := LeadCaptureWorkflow(context.Background(), app, fa.bundle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Recommendation != RecommendationApproved {
		t.Errorf("expected APPROVED, got %s (analysis=%+v)", result.Recommendation, result.Analysis)
	}
}

func TestLeadCaptureWorkflow_IncomeMismatchForcesManualReview(t *testing.T) {
	fa := newFakeActivities()
	name := "Jane Borrower"
	income := 30000
	fa.analysisStub = llm.AnalysisResult{ApplicantName: &name, AnnualIncome: &income}

	app := testApp()
	app.ApplicationMetadata = map[string]interface{}{
		"pay_stub_path":        "/tmp/paystub.pdf",
		"stated_annual_income": 120000.0,
	}
	result, err := LeadCaptureWorkflow(context.Background(), app, fa.bundle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Analysis.IncomeMismatch {
		t.Fatalf("expected income mismatch to be flagged")
	}
	if result.Recommendation != RecommendationManualReview {
		t.Errorf("expected MANUAL_REVIEW on income mismatch, got %s", result.Recommendation)
	}
}

func TestAttachedDocuments_ReadsBothPaths(t *testing.T) {
	app := &models.LoanApplication{ApplicationMetadata: map[string]interface{}{
		"pay_stub_path":   "/a.pdf",
		"tax_return_path": "/b.pdf",
	}}
	docs := attachedDocuments(app)
	if len(docs) != 2 {
		t.Fatalf("expected 2 attached documents, got %d", len(docs))
	}
}
