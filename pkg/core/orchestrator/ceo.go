package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"loanforge/pkg/core/store"
	"loanforge/pkg/models"
)

// CEO is LoanLifecycleWorkflow: the top-level durable state machine
// that drives a single loan application through its five stages,
// delegating the work of each stage to a Manager and pausing at three
// human-signal gates. Its own activity calls are limited to stage/
// status persistence and field pushes through Encompass and the
// closing email through Comms; each stage's business work runs in its
// Manager.
type CEO struct {
	WorkflowID string
	Activities Activities
	Logs       *store.WorkflowLogRepo
	Loans      *store.LoanRepo

	mu              sync.RWMutex
	app             *models.LoanApplication
	log             models.WorkflowLog
	stage           models.LoanStage
	recommendation  Recommendation
	decisionReason  string
	uwStatus        UnderwritingStatus
	done            bool

	humanApproval    chan bool
	updateField      chan fieldUpdate
	borrowerSignature chan bool
	uwDecision       chan underwritingSignal
}

// NewCEO constructs a CEO ready to Run. app must already carry
// BorrowerName/BorrowerEmail/LoanAmount and friends from the /apply
// intake; ID and WorkflowID are stamped here if absent.
func NewCEO(app *models.LoanApplication, activities Activities, logs *store.WorkflowLogRepo, loans *store.LoanRepo) *CEO {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.WorkflowID == "" {
		app.WorkflowID = uuid.NewString()
	}
	return &CEO{
		WorkflowID:        app.WorkflowID,
		Activities:        activities,
		Logs:              logs,
		Loans:             loans,
		app:               app,
		stage:             models.StageLeadCapture,
		humanApproval:     make(chan bool, 1),
		updateField:       make(chan fieldUpdate, 8),
		borrowerSignature: make(chan bool, 1),
		uwDecision:        make(chan underwritingSignal, 1),
	}
}

// --- signal senders: non-blocking, buffered ---

func (c *CEO) HumanApproval(approved bool) {
	select {
	case c.humanApproval <- approved:
	default:
	}
}

func (c *CEO) UpdateField(field string, value interface{}) {
	select {
	case c.updateField <- fieldUpdate{Field: field, Value: value}:
	default:
	}
}

func (c *CEO) BorrowerSignature(signed bool) {
	select {
	case c.borrowerSignature <- signed:
	default:
	}
}

func (c *CEO) SubmitUnderwritingDecision(approved bool, reason string) {
	select {
	case c.uwDecision <- underwritingSignal{Approved: approved, Reason: reason}:
	default:
	}
}

// --- queries: RLock-guarded ---

func (c *CEO) GetCurrentStage() models.LoanStage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stage
}

func (c *CEO) GetLoanNumber() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.app.LoanNumber
}

func (c *CEO) GetDecisionReason() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.decisionReason
}

func (c *CEO) GetLogs() []models.LogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.LogEntry, len(c.log.Entries))
	copy(out, c.log.Entries)
	return out
}

func (c *CEO) GetUnderwritingStatus() UnderwritingStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.uwStatus
}

// GetLeadRecommendation reports lead capture's verdict, surfaced so a
// human reviewer can see it going into the human-approval gate. It is
// informational only: every run waits on that gate regardless of what
// the recommendation says.
func (c *CEO) GetLeadRecommendation() Recommendation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.recommendation
}

// IsDone reports whether the workflow has reached a terminal state.
func (c *CEO) IsDone() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.done
}

func (c *CEO) appendLog(agent, message string) {
	c.mu.Lock()
	entry := models.LogEntry{Agent: agent, Message: message, Timestamp: time.Now(), Stage: c.stage}
	c.log.Append(entry)
	c.mu.Unlock()
	if c.Logs != nil {
		go func() { _ = c.Logs.Append(context.Background(), c.WorkflowID, entry) }()
	}
}

func (c *CEO) setStage(ctx context.Context, stage models.LoanStage) {
	c.mu.Lock()
	c.stage = stage
	c.mu.Unlock()
	_ = c.Activities.Encompass.UpdateLoanMetadata(ctx, c.WorkflowID, map[string]interface{}{"loan_stage": string(stage)})
}

func (c *CEO) setStatus(ctx context.Context, status models.LoanStatus) {
	c.mu.Lock()
	c.app.Status = status
	c.mu.Unlock()
	_ = c.Activities.Encompass.UpdateLoanMetadata(ctx, c.WorkflowID, map[string]interface{}{"status": string(status)})
}

func (c *CEO) fail(ctx context.Context, status models.LoanStatus, reason string) {
	c.mu.Lock()
	c.decisionReason = reason
	c.done = true
	c.mu.Unlock()
	c.setStatus(ctx, status)
	c.setStage(ctx, models.StageArchived)
	c.appendLog("ceo", reason)
}

// Run drives the eight-step linear lifecycle to completion. It returns
// once the workflow reaches a terminal state (funded, rejected, or
// withdrawn on timeout); callers observe progress via the query
// methods or GetLogs, not Run's return value.
func (c *CEO) Run(ctx context.Context) error {
	c.appendLog("ceo", fmt.Sprintf("workflow %s started for %s", c.WorkflowID, c.app.BorrowerName))

	// Step 1: LEAD_CAPTURE
	leadResult, err := LeadCaptureWorkflow(ctx, c.app, c.Activities)
	if err != nil {
		c.fail(ctx, models.StatusFailedToStart, fmt.Sprintf("lead capture failed: %v", err))
		return err
	}
	c.mu.Lock()
	c.app.LoanNumber = leadResult.LoanNumber
	c.app.AIAnalysis = map[string]interface{}{
		"stated_income":   leadResult.Analysis.StatedIncome,
		"verified_income": leadResult.Analysis.VerifiedIncome,
		"income_mismatch": leadResult.Analysis.IncomeMismatch,
		"missing_docs":    leadResult.Analysis.MissingDocs,
	}
	c.recommendation = leadResult.Recommendation
	c.mu.Unlock()
	c.appendLog("lead_capture", fmt.Sprintf("recommendation=%s", leadResult.Recommendation))

	// Step 2: human approval gate. THE GATE — the only place Run waits
	// for a human decision on lead capture. Every run passes through it
	// unconditionally; lead capture's recommendation is informational
	// only (queryable via GetLeadRecommendation), never a bypass.
	c.setStatus(ctx, models.StatusPendingUnderwritingDecision)
	select {
	case approved := <-c.humanApproval:
		if !approved {
			c.fail(ctx, models.StatusRejectedByManager, "rejected at lead-capture manual review gate")
			return nil
		}
		c.appendLog("ceo", "human approved manual review")
	case <-ctx.Done():
		return ctx.Err()
	}

	// Step 3: PROCESSING
	c.setStage(ctx, models.StageProcessing)
	c.setStatus(ctx, models.StatusProcessing)
	c.drainFieldUpdates(ctx)
	if _, err := ProcessingWorkflow(ctx, c.app, c.Activities); err != nil {
		c.fail(ctx, models.StatusRejectedByManager, fmt.Sprintf("processing failed: %v", err))
		return err
	}
	c.appendLog("processing", "initial disclosures generated")

	// Step 4: underwriting decision gate, 7-day timeout. Unconditional —
	// every run waits here for a human submit_underwriting_decision
	// signal before closing, regardless of what the automated
	// UnderwritingWorkflow below ends up saying.
	c.setStage(ctx, models.StageUnderwriting)
	c.setStatus(ctx, models.StatusPendingUnderwritingDecision)
	var finalApproved bool
	var finalReason string
	select {
	case sig := <-c.uwDecision:
		finalApproved = sig.Approved
		finalReason = sig.Reason
	case <-time.After(underwritingTimeout):
		c.fail(ctx, models.StatusWithdrawnTimeout, "underwriting decision timed out after 7 days")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	// Step 5: borrower signature gate.
	c.setStatus(ctx, models.StatusWaitingForSignature)
	select {
	case signed := <-c.borrowerSignature:
		if !signed {
			c.fail(ctx, models.StatusWithdrawnTimeout, "borrower declined to sign disclosures")
			return nil
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	// Step 6: UNDERWRITING. Runs for its risk evaluation and logging
	// only — its verdict is advisory commentary alongside the human
	// decision already captured in step 4, never a second gate that
	// suppresses or replaces it.
	uwResult, err := UnderwritingWorkflow(ctx, c.WorkflowID, c.app, leadResult.Analysis, c.Activities)
	if err != nil {
		c.fail(ctx, models.StatusRejectedByUnderwriter, fmt.Sprintf("underwriting failed: %v", err))
		return err
	}
	c.mu.Lock()
	c.app.RiskScore = ptr(float64(len(uwResult.RiskEvaluation.Issues)))
	c.app.AutomatedUWDecision = string(uwResult.Decision)
	c.mu.Unlock()
	c.appendLog("underwriting", fmt.Sprintf("automated decision=%s (advisory)", uwResult.Decision))

	c.mu.Lock()
	decision := models.UWDecisionRejected
	if finalApproved {
		decision = models.UWDecisionApproved
	}
	c.app.UnderwritingDecision = decision
	c.app.UnderwritingDecisionReason = finalReason
	now := time.Now()
	c.app.UnderwritingDecidedAt = &now
	c.decisionReason = finalReason
	c.uwStatus = UnderwritingStatus{IsComplete: true, Decision: decision, Reason: finalReason, AutomatedDecision: uwResult.Decision}
	c.mu.Unlock()
	_ = c.Loans.RecordUnderwritingDecision(ctx, c.WorkflowID, decision, finalReason, "underwriter")

	if !finalApproved {
		c.fail(ctx, models.StatusRejectedByUnderwriter, finalReason)
		return nil
	}

	c.appendLog("underwriting", "clear to close")

	// Step 7: CLOSING
	c.setStage(ctx, models.StageClosing)
	c.setStatus(ctx, models.StatusClearToClose)
	_ = c.Activities.Comms.SendEmail(ctx, "clear_to_close", c.app.BorrowerEmail, map[string]interface{}{
		"loan_number": c.app.LoanNumber,
	})
	c.setStatus(ctx, models.StatusFunded)

	// Step 8: ARCHIVED
	c.setStage(ctx, models.StageArchived)
	c.mu.Lock()
	c.done = true
	c.mu.Unlock()
	c.appendLog("ceo", "workflow complete")
	return nil
}

// drainFieldUpdates applies any update_field signals queued so far
// without blocking; the CEO never waits on this channel, it only
// drains it opportunistically between stages.
func (c *CEO) drainFieldUpdates(ctx context.Context) {
	for {
		select {
		case upd := <-c.updateField:
			_ = c.Activities.Encompass.PushFieldUpdate(ctx, c.app.LoanNumber, upd.Field, upd.Value)
			c.appendLog("ceo", fmt.Sprintf("field update: %s", upd.Field))
		default:
			return
		}
	}
}

func ptr(v float64) *float64 { return &v }
