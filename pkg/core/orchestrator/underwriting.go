package orchestrator

import (
	"context"
	"fmt"

	"loanforge/pkg/models"
)

// Risk rule thresholds per §4.K Tier 3.
const (
	maxLoanAmount     = 1_000_000.0
	minCreditScore    = 700
	maxDTIPercent     = 43.0
	paymentRateOfLoan = 0.005
)

// UnderwritingWorkflow is Tier 2's third Manager. It confirms the
// borrower's signature is on file, then runs the automated risk rules.
// A missing signature short-circuits before risk evaluation runs at
// all — there is nothing to underwrite against an unsigned disclosure.
func UnderwritingWorkflow(ctx context.Context, workflowID string, app *models.LoanApplication, analysis IncomeAnalysis, activities Activities) (UnderwritingResult, error) {
	signed, err := activities.Underwriting.VerifySignature(ctx, workflowID)
	if err != nil {
		return UnderwritingResult{}, fmt.Errorf("verify_signature: %w", err)
	}
	if !signed {
		return UnderwritingResult{Decision: VerdictSignatureMissing}, nil
	}

	eval := activities.Underwriting.EvaluateRisk(ctx, app, analysis)
	decision := VerdictClearToClose
	if len(eval.Issues) > 0 {
		decision = VerdictReferToHuman
	}
	return UnderwritingResult{Decision: decision, RiskEvaluation: eval}, nil
}

// EvaluateRisk is the evaluate_risk activity's pure rule application:
// loan amount under $1,000,000, credit score over 700 (estimated from
// document confidence on [650, 800] when no external score is known),
// DTI under 43%, and no unresolved income mismatch from lead capture.
func EvaluateRisk(app *models.LoanApplication, analysis IncomeAnalysis) RiskEvaluation {
	creditScore := analysis.EstimatedCreditScore
	if creditScore == 0 {
		creditScore = estimateCreditScore(analysis.AverageConfidence)
	}

	monthlyPaymentEstimate := app.LoanAmount * paymentRateOfLoan
	dti := 0.0
	if analysis.VerifiedIncome > 0 {
		dti = monthlyPaymentEstimate / (analysis.VerifiedIncome / 12) * 100
	}

	eval := RiskEvaluation{
		LoanAmount:             app.LoanAmount,
		CreditScore:            creditScore,
		DTI:                    dti,
		MonthlyPaymentEstimate: monthlyPaymentEstimate,
	}

	if app.LoanAmount >= maxLoanAmount {
		eval.Issues = append(eval.Issues, RiskIssue{Rule: "max_loan_amount", Message: "loan amount meets or exceeds $1,000,000"})
	}
	if creditScore <= minCreditScore {
		eval.Issues = append(eval.Issues, RiskIssue{Rule: "min_credit_score", Message: "estimated credit score at or below 700"})
	}
	if dti >= maxDTIPercent {
		eval.Issues = append(eval.Issues, RiskIssue{Rule: "max_dti", Message: "debt-to-income ratio at or above 43%"})
	}
	if analysis.IncomeMismatch {
		eval.Issues = append(eval.Issues, RiskIssue{Rule: "income_mismatch", Message: "stated income deviates from verified income by more than 20%"})
	}

	return eval
}

// estimateCreditScore maps an average analyze_document confidence in
// [0,1] onto the [650, 800] band the spec names as the fallback
// when no external credit pull is wired.
func estimateCreditScore(confidence float64) int {
	if confidence <= 0 {
		return 650
	}
	if confidence >= 1 {
		return 800
	}
	return 650 + int(confidence*150)
}
