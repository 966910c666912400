package orchestrator

import (
	"context"
	"math"
	"testing"
)

func TestMonthlyPayment_StandardAmortization(t *testing.T) {
	payment := MonthlyPayment(300000, 0.065, 360)
	if payment <= 0 {
		t.Fatalf("expected a positive payment, got %f", payment)
	}
	// Sanity bound: a $300k loan at 6.5%/30yr should land near $1,896.
	if math.Abs(payment-1896.20) > 1.0 {
		t.Errorf("expected payment near 1896.20, got %f", payment)
	}
}

func TestMonthlyPayment_ZeroRateDividesEvenly(t *testing.T) {
	payment := MonthlyPayment(12000, 0, 12)
	if payment != 1000 {
		t.Errorf("expected 1000, got %f", payment)
	}
}

func TestMonthlyPayment_ZeroTermIsZero(t *testing.T) {
	if MonthlyPayment(100000, 0.05, 0) != 0 {
		t.Error("expected zero payment for zero term")
	}
}

func TestProcessingWorkflow_GeneratesInitialDisclosures(t *testing.T) {
	fa := newFakeActivities()
	app := testApp()
	result, err := ProcessingWorkflow(context.Background(), app, fa.bundle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "COMPLETED" {
		t.Errorf("expected COMPLETED, got %s", result)
	}
	if len(fa.documentsMade) != 1 || fa.documentsMade[0] != "Initial_Disclosures" {
		t.Errorf("expected Initial_Disclosures document generated, got %v", fa.documentsMade)
	}
	if len(fa.emailsSent) != 1 {
		t.Errorf("expected a disclosures_ready email sent, got %v", fa.emailsSent)
	}
}
