package orchestrator

import (
	"context"
	"fmt"
	"math"

	"loanforge/pkg/models"
)

// incomeMismatchThreshold is the fractional deviation between stated
// and verified income above which LeadCaptureWorkflow forces a manual
// review regardless of document confidence.
const incomeMismatchThreshold = 0.20

// confidenceApprovalThreshold is the value the average analyze_document
// confidence proxy (here, the fraction of analyzed documents that
// produced a usable applicant name) must exceed for straight-through
// approval.
const confidenceApprovalThreshold = 0.8

// LeadCaptureWorkflow is Tier 2's first Manager. It creates the durable
// loan file, welcomes the borrower, reads whatever pay stub and tax
// return documents are attached, and produces a recommendation the CEO
// surfaces at its human-approval gate (informational only; the gate is
// always taken). It never pauses on a signal itself — that is the CEO's job.
func LeadCaptureWorkflow(ctx context.Context, app *models.LoanApplication, activities Activities) (LeadCaptureResult, error) {
	loanNumber, err := activities.Encompass.CreateLoanFile(ctx, app)
	if err != nil {
		return LeadCaptureResult{}, fmt.Errorf("create_loan_file: %w", err)
	}

	_ = activities.Comms.SendEmail(ctx, "welcome", app.BorrowerEmail, map[string]interface{}{
		"loan_number": loanNumber,
	})

	docs := attachedDocuments(app)
	analysis := IncomeAnalysis{StatedIncome: statedIncome(app)}

	var totalConfidence float64
	var analyzed int
	for _, doc := range docs {
		text, err := activities.Legacy.ReadPDFContent(ctx, doc.path)
		if err != nil {
			analysis.MissingDocs = append(analysis.MissingDocs, doc.label)
			continue
		}
		result, err := activities.Legacy.AnalyzeDocument(ctx, text, doc.role)
		if err != nil {
			analysis.MissingDocs = append(analysis.MissingDocs, doc.label)
			continue
		}
		analyzed++
		if result.Succeeded() {
			totalConfidence++
		}
		if result.CreditScore != nil {
			analysis.EstimatedCreditScore = *result.CreditScore
		}
		if result.AnnualIncome != nil {
			switch doc.role {
			case RoleFinancialAuditor:
				analysis.PayStubIncome = float64(*result.AnnualIncome)
			default:
				analysis.TaxIncome = float64(*result.AnnualIncome)
			}
		}
		analysis.MissingDocs = append(analysis.MissingDocs, result.MissingDocs...)
	}

	if analyzed > 0 {
		analysis.AverageConfidence = totalConfidence / float64(analyzed)
	}

	analysis.VerifiedIncome = math.Max(analysis.PayStubIncome, analysis.TaxIncome)
	if analysis.StatedIncome > 0 && analysis.VerifiedIncome > 0 {
		deviation := math.Abs(analysis.StatedIncome-analysis.VerifiedIncome) / analysis.StatedIncome
		analysis.IncomeMismatch = deviation > incomeMismatchThreshold
	}

	recommendation := RecommendationApproved
	switch {
	case analysis.IncomeMismatch:
		recommendation = RecommendationManualReview
	case analyzed == 0:
		recommendation = RecommendationPendingReview
	case analysis.AverageConfidence <= confidenceApprovalThreshold:
		recommendation = RecommendationManualReview
	}

	return LeadCaptureResult{
		Recommendation: recommendation,
		LoanData:       app,
		LoanNumber:     loanNumber,
		Analysis:       analysis,
	}, nil
}

type attachedDocument struct {
	label string
	path  string
	role  Role
}

// attachedDocuments reads the document paths an intake attaches under
// ApplicationMetadata, the way §4.K's worked example wires pay_stub_path
// and tax_return_path.
func attachedDocuments(app *models.LoanApplication) []attachedDocument {
	var docs []attachedDocument
	if app.ApplicationMetadata == nil {
		return docs
	}
	if p, ok := app.ApplicationMetadata["pay_stub_path"].(string); ok && p != "" {
		docs = append(docs, attachedDocument{label: "pay_stub", path: p, role: RoleFinancialAuditor})
	}
	if p, ok := app.ApplicationMetadata["tax_return_path"].(string); ok && p != "" {
		docs = append(docs, attachedDocument{label: "tax_return", path: p, role: RoleGeneralAnalyst})
	}
	return docs
}

func statedIncome(app *models.LoanApplication) float64 {
	if app.ApplicationMetadata == nil {
		return 0
	}
	if v, ok := app.ApplicationMetadata["stated_annual_income"].(float64); ok {
		return v
	}
	return 0
}
