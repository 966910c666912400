// Package orchestrator implements the three-tier durable loan lifecycle
// workflow: a CEO state machine delegating to Manager child workflows,
// which in turn call MCP-style worker Activities. There is no external
// durable-execution runtime wired in this tree, so the CEO is modeled
// the way the teacher's DebateOrchestrator models a long-running,
// signal-driven process: one goroutine owning the state machine,
// buffered channels for signals, and a mutex guarding every field a
// query can read concurrently.
package orchestrator

import (
	"time"

	"loanforge/pkg/models"
)

// Recommendation is LeadCaptureWorkflow's verdict on an application.
type Recommendation string

const (
	RecommendationApproved      Recommendation = "APPROVED"
	RecommendationManualReview  Recommendation = "MANUAL_REVIEW"
	RecommendationPendingReview Recommendation = "PENDING_REVIEW"
)

// UnderwritingVerdict is UnderwritingWorkflow's decision.
type UnderwritingVerdict string

const (
	VerdictClearToClose     UnderwritingVerdict = "CLEAR_TO_CLOSE"
	VerdictReferToHuman     UnderwritingVerdict = "REFER_TO_HUMAN"
	VerdictSignatureMissing UnderwritingVerdict = "SIGNATURE_MISSING"
)

// Role mirrors llm.Role for the analyze_document prompt variants this
// package drives during lead capture.
type Role string

const (
	RoleFinancialAuditor Role = "financial_auditor"
	RoleIdentityVerifier Role = "identity_verifier"
	RoleGeneralAnalyst   Role = "general_analyst"
)

// IncomeAnalysis is LeadCaptureWorkflow's computed income-verification
// summary.
type IncomeAnalysis struct {
	StatedIncome    float64
	PayStubIncome   float64
	TaxIncome       float64
	VerifiedIncome  float64
	IncomeMismatch  bool
	AverageConfidence float64
	MissingDocs     []string
	EstimatedCreditScore int
}

// LeadCaptureResult is what LeadCaptureWorkflow returns to the CEO.
type LeadCaptureResult struct {
	Recommendation Recommendation
	LoanData       *models.LoanApplication
	LoanNumber     string
	Analysis       IncomeAnalysis
}

// RiskIssue is one evaluate_risk finding.
type RiskIssue struct {
	Rule    string
	Message string
}

// RiskEvaluation is UnderwritingWorkflow's evaluate_risk output.
type RiskEvaluation struct {
	LoanAmount            float64
	CreditScore           int
	DTI                   float64
	MonthlyPaymentEstimate float64
	Issues                []RiskIssue
}

// UnderwritingResult is what UnderwritingWorkflow returns to the CEO.
type UnderwritingResult struct {
	Decision       UnderwritingVerdict
	RiskEvaluation RiskEvaluation
}

// UnderwritingStatus answers the get_underwriting_status query.
type UnderwritingStatus struct {
	IsComplete        bool
	Decision          models.UnderwritingDecision
	Reason            string
	AutomatedDecision UnderwritingVerdict
}

// fieldUpdate is one update_field signal payload.
type fieldUpdate struct {
	Field string
	Value interface{}
}

// underwritingSignal is one submit_underwriting_decision signal payload.
type underwritingSignal struct {
	Approved bool
	Reason   string
}

const underwritingTimeout = 7 * 24 * time.Hour
