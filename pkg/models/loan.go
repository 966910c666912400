package models

import "time"

// LoanStage is the coarse lifecycle stage the orchestrator's CEO state
// machine drives. It advances strictly LeadCapture < Processing <
// Underwriting < Closing < Archived, except Archived is reachable
// directly from any prior stage on rejection or timeout.
type LoanStage string

const (
	StageLeadCapture LoanStage = "LEAD_CAPTURE"
	StageProcessing  LoanStage = "PROCESSING"
	StageUnderwriting LoanStage = "UNDERWRITING"
	StageClosing     LoanStage = "CLOSING"
	StageArchived    LoanStage = "ARCHIVED"
)

var stageOrder = map[LoanStage]int{
	StageLeadCapture:  0,
	StageProcessing:   1,
	StageUnderwriting: 2,
	StageClosing:      3,
	StageArchived:     4,
}

// Advances reports whether moving from LoanStage `from` to `to` is a
// legal transition: strictly forward, or a jump straight to Archived.
func (from LoanStage) Advances(to LoanStage) bool {
	if to == StageArchived {
		return from != StageArchived
	}
	return stageOrder[to] > stageOrder[from]
}

// LoanStatus is the borrower-facing status string. It cycles through the
// happy path or terminates in one of the failure states.
type LoanStatus string

const (
	StatusSubmitted                 LoanStatus = "Submitted"
	StatusProcessing                LoanStatus = "Processing"
	StatusPendingUnderwritingDecision LoanStatus = "Pending Underwriting Decision"
	StatusWaitingForSignature       LoanStatus = "Waiting for Signature"
	StatusUnderwritingComplete      LoanStatus = "Underwriting Complete"
	StatusClearToClose              LoanStatus = "Clear to Close"
	StatusClosingWithConditions     LoanStatus = "Closing with Conditions"
	StatusFunded                    LoanStatus = "Funded"
	StatusRejectedByManager         LoanStatus = "Rejected by Manager"
	StatusRejectedByUnderwriter     LoanStatus = "Rejected by Underwriter"
	StatusWithdrawnTimeout          LoanStatus = "Withdrawn (Timeout)"
	StatusFailedToStart             LoanStatus = "Failed to Start"
)

// UnderwritingDecision is the tri-state human or automated underwriting
// verdict.
type UnderwritingDecision string

const (
	UWDecisionNone      UnderwritingDecision = ""
	UWDecisionApproved  UnderwritingDecision = "approved"
	UWDecisionRejected  UnderwritingDecision = "rejected"
	UWDecisionWithdrawn UnderwritingDecision = "withdrawn"
)

// LoanApplication is the durable state the orchestrator's activities
// read and write. The CEO workflow updates its in-memory copy as stages
// complete, persists stage and status through the Encompass activity,
// and writes the underwriting decision through store.LoanRepo.
type LoanApplication struct {
	ID                          string               `json:"id"`
	WorkflowID                  string               `json:"workflow_id"`
	BorrowerName                string               `json:"borrower_name"`
	BorrowerEmail               string               `json:"borrower_email"`
	LoanAmount                  float64              `json:"loan_amount"`
	PropertyValue               *float64             `json:"property_value,omitempty"`
	DownPayment                 *float64             `json:"down_payment,omitempty"`
	Status                      LoanStatus           `json:"status"`
	LoanStage                   LoanStage            `json:"loan_stage"`
	IsLocked                    bool                 `json:"is_locked"`
	UnderwritingDecision        UnderwritingDecision `json:"underwriting_decision"`
	UnderwritingDecisionReason  string               `json:"underwriting_decision_reason,omitempty"`
	UnderwritingDecidedAt       *time.Time           `json:"underwriting_decided_at,omitempty"`
	UnderwritingDecidedBy       string               `json:"underwriting_decided_by,omitempty"`
	AutomatedUWDecision         string               `json:"automated_uw_decision,omitempty"`
	RiskScore                   *float64             `json:"risk_score,omitempty"`
	AIAnalysis                  map[string]interface{} `json:"ai_analysis,omitempty"`
	LoanNumber                  string               `json:"loan_number,omitempty"`
	CreatedAt                   time.Time            `json:"created_at"`
	UpdatedAt                   time.Time            `json:"updated_at"`
	ApplicationMetadata          map[string]interface{} `json:"application_metadata,omitempty"`
}

// LogEntry is one append-only WorkflowLog record, observable via the
// get_logs query.
type LogEntry struct {
	Agent     string    `json:"agent"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Stage     LoanStage `json:"stage"`
}

// WorkflowLog is the ordered, append-only audit trail the CEO and each
// Manager write to.
type WorkflowLog struct {
	Entries []LogEntry `json:"entries"`
}

// Append adds entry to the log. Callers hold whatever lock guards the
// enclosing workflow state; WorkflowLog itself is not concurrency-safe.
func (l *WorkflowLog) Append(entry LogEntry) {
	l.Entries = append(l.Entries, entry)
}
