package orchestrator

import (
	"context"
	"fmt"
	"math"

	"loanforge/pkg/models"
)

// defaultTermMonths and defaultAnnualRate back-fill the amortization
// inputs when an application carries neither, so ProcessingWorkflow can
// still produce a disclosure estimate during manual testing.
const (
	defaultTermMonths = 360
	defaultAnnualRate = 0.065
)

// MonthlyPayment is the standard amortization formula:
// P * r * (1+r)^n / ((1+r)^n - 1), where r is the monthly rate and n
// the term in months. A zero rate degrades to simple division.
func MonthlyPayment(principal, annualRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	if annualRate <= 0 {
		return principal / float64(termMonths)
	}
	r := annualRate / 12
	factor := math.Pow(1+r, float64(termMonths))
	return principal * r * factor / (factor - 1)
}

// ProcessingWorkflow is Tier 2's second Manager. It computes the
// amortization estimate, generates the Initial Disclosures document,
// and emails the borrower a disclosures_ready notice; the CEO appends
// the stage's log entry once it returns. It never waits on the borrower's
// signature — the CEO gates on that itself once this Manager returns.
func ProcessingWorkflow(ctx context.Context, app *models.LoanApplication, activities Activities) (string, error) {
	rate := defaultAnnualRate
	if app.ApplicationMetadata != nil {
		if v, ok := app.ApplicationMetadata["interest_rate"].(float64); ok && v > 0 {
			rate = v
		}
	}
	term := defaultTermMonths
	if app.ApplicationMetadata != nil {
		if v, ok := app.ApplicationMetadata["term_months"].(int); ok && v > 0 {
			term = v
		}
	}

	monthlyPayment := MonthlyPayment(app.LoanAmount, rate, term)

	url, err := activities.DocGen.GenerateDocument(ctx, app.WorkflowID, "Initial_Disclosures", map[string]interface{}{
		"loan_amount":     app.LoanAmount,
		"interest_rate":   rate,
		"term_months":     term,
		"monthly_payment": monthlyPayment,
		"borrower_name":   app.BorrowerName,
	})
	if err != nil {
		return "", fmt.Errorf("generate_document(Initial_Disclosures): %w", err)
	}

	_ = activities.Comms.SendEmail(ctx, "disclosures_ready", app.BorrowerEmail, map[string]interface{}{
		"document_url": url,
	})

	return "COMPLETED", nil
}
