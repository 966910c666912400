package orchestrator

import (
	"context"
	"testing"
)

func TestUnderwritingWorkflow_SignatureMissingShortCircuits(t *testing.T) {
	fa := newFakeActivities()
	fa.signed = false
	result, err := UnderwritingWorkflow(context.Background(), "wf-1", testApp(), IncomeAnalysis{}, fa.bundle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Decision != VerdictSignatureMissing {
		t.Errorf("expected SIGNATURE_MISSING, got %s", result.Decision)
	}
}

func TestUnderwritingWorkflow_NoIssuesClearsToClose(t *testing.T) {
	fa := newFakeActivities()
	result, err := UnderwritingWorkflow(context.Background(), "wf-1", testApp(), IncomeAnalysis{VerifiedIncome: 120000, EstimatedCreditScore: 760}, fa.bundle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Decision != VerdictClearToClose {
		t.Errorf("expected CLEAR_TO_CLOSE, got %s", result.Decision)
	}
}

func TestUnderwritingWorkflow_IssueRefersToHuman(t *testing.T) {
	fa := newFakeActivities()
	fa.riskIssues = []RiskIssue{{Rule: "min_credit_score", Message: "too low"}}
	result, err := UnderwritingWorkflow(context.Background(), "wf-1", testApp(), IncomeAnalysis{}, fa.bundle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Decision != VerdictReferToHuman {
		t.Errorf("expected REFER_TO_HUMAN, got %s", result.Decision)
	}
}

func TestEvaluateRisk_FlagsEachRuleIndependently(t *testing.T) {
	app := testApp()
	app.LoanAmount = 1_200_000
	eval := EvaluateRisk(app, IncomeAnalysis{EstimatedCreditScore: 600, VerifiedIncome: 12000, IncomeMismatch: true})
	rules := map[string]bool{}
	for _, issue := range eval.Issues {
		rules[issue.Rule] = true
	}
	for _, want := range []string{"max_loan_amount", "min_credit_score", "max_dti", "income_mismatch"} {
		if !rules[want] {
			t.Errorf("expected rule %s to fire, got issues %+v", want, eval.Issues)
		}
	}
}

func TestEvaluateRisk_CleanApplicationHasNoIssues(t *testing.T) {
	app := testApp()
	app.LoanAmount = 250000
	eval := EvaluateRisk(app, IncomeAnalysis{EstimatedCreditScore: 780, VerifiedIncome: 150000})
	if len(eval.Issues) != 0 {
		t.Errorf("expected no issues, got %+v", eval.Issues)
	}
}

func TestEstimateCreditScore_ClampsToBand(t *testing.T) {
	if estimateCreditScore(-1) != 650 {
		t.Error("expected floor of 650")
	}
	if estimateCreditScore(2) != 800 {
		t.Error("expected ceiling of 800")
	}
	if v := estimateCreditScore(0.5); v != 725 {
		t.Errorf("expected midpoint 725, got %d", v)
	}
}
