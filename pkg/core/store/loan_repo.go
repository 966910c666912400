package store

import (
	"context"
	"encoding/json"
	"fmt"

	"loanforge/pkg/models"
)

// LoanRepo persists LoanApplication rows through the shared pgx pool.
// The orchestrator's activities write through it; the CEO itself also
// calls RecordUnderwritingDecision on it directly once the human
// underwriting decision arrives.
type LoanRepo struct{}

func NewLoanRepo() *LoanRepo {
	return &LoanRepo{}
}

// CreateIfAbsent inserts app, or returns the existing row unchanged if
// one already exists for app.WorkflowID — the idempotency create_loan_file
// requires.
func (r *LoanRepo) CreateIfAbsent(ctx context.Context, app *models.LoanApplication) (*models.LoanApplication, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("store: connection pool not initialized")
	}

	existing, err := r.GetByWorkflowID(ctx, app.WorkflowID)
	if err == nil && existing != nil {
		return existing, nil
	}

	metaJSON, err := json.Marshal(app.ApplicationMetadata)
	if err != nil {
		return nil, fmt.Errorf("marshal application_metadata: %w", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO loan_applications
			(id, workflow_id, borrower_name, borrower_email, loan_amount,
			 property_value, down_payment, status, loan_stage, is_locked,
			 underwriting_decision, loan_number, application_metadata,
			 created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`, app.ID, app.WorkflowID, app.BorrowerName, app.BorrowerEmail, app.LoanAmount,
		app.PropertyValue, app.DownPayment, app.Status, app.LoanStage, app.IsLocked,
		app.UnderwritingDecision, app.LoanNumber, metaJSON, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert loan_application: %w", err)
	}
	return app, nil
}

// GetByWorkflowID loads the current LoanApplication row for workflowID.
func (r *LoanRepo) GetByWorkflowID(ctx context.Context, workflowID string) (*models.LoanApplication, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("store: connection pool not initialized")
	}

	row := pool.QueryRow(ctx, `
		SELECT id, workflow_id, borrower_name, borrower_email, loan_amount,
		       property_value, down_payment, status, loan_stage, is_locked,
		       underwriting_decision, underwriting_decision_reason, loan_number,
		       application_metadata, created_at, updated_at
		FROM loan_applications WHERE workflow_id = $1
	`, workflowID)

	var app models.LoanApplication
	var metaJSON []byte
	if err := row.Scan(&app.ID, &app.WorkflowID, &app.BorrowerName, &app.BorrowerEmail,
		&app.LoanAmount, &app.PropertyValue, &app.DownPayment, &app.Status, &app.LoanStage,
		&app.IsLocked, &app.UnderwritingDecision, &app.UnderwritingDecisionReason,
		&app.LoanNumber, &metaJSON, &app.CreatedAt, &app.UpdatedAt); err != nil {
		return nil, fmt.Errorf("select loan_application: %w", err)
	}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &app.ApplicationMetadata); err != nil {
			return nil, fmt.Errorf("unmarshal application_metadata: %w", err)
		}
	}
	return &app, nil
}

// UpdateMetadata applies patch the way update_loan_metadata describes:
// the special keys "status" and "loan_stage" overwrite their scalar
// columns last-writer-wins; every other key deep-merges into the
// application_metadata JSON column.
func (r *LoanRepo) UpdateMetadata(ctx context.Context, workflowID string, patch map[string]interface{}) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("store: connection pool not initialized")
	}

	app, err := r.GetByWorkflowID(ctx, workflowID)
	if err != nil {
		return err
	}

	if status, ok := patch["status"].(string); ok {
		app.Status = models.LoanStatus(status)
		delete(patch, "status")
	}
	if stage, ok := patch["loan_stage"].(string); ok {
		app.LoanStage = models.LoanStage(stage)
		delete(patch, "loan_stage")
	}
	if app.ApplicationMetadata == nil {
		app.ApplicationMetadata = map[string]interface{}{}
	}
	for k, v := range patch {
		app.ApplicationMetadata[k] = v
	}

	metaJSON, err := json.Marshal(app.ApplicationMetadata)
	if err != nil {
		return fmt.Errorf("marshal application_metadata: %w", err)
	}

	_, err = pool.Exec(ctx, `
		UPDATE loan_applications
		SET status=$1, loan_stage=$2, application_metadata=$3, updated_at=now()
		WHERE workflow_id=$4
	`, app.Status, app.LoanStage, metaJSON, workflowID)
	if err != nil {
		return fmt.Errorf("update loan_application: %w", err)
	}
	return nil
}

// SetLocked writes the is_locked column for workflowID. Nothing in
// this module calls it: the CEO does not set the lock while it waits
// on a human signal.
func (r *LoanRepo) SetLocked(ctx context.Context, workflowID string, locked bool) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("store: connection pool not initialized")
	}
	_, err := pool.Exec(ctx, `UPDATE loan_applications SET is_locked=$1, updated_at=now() WHERE workflow_id=$2`, locked, workflowID)
	if err != nil {
		return fmt.Errorf("update is_locked: %w", err)
	}
	return nil
}

// RecordUnderwritingDecision persists the terminal (or timed-out)
// underwriting verdict.
func (r *LoanRepo) RecordUnderwritingDecision(ctx context.Context, workflowID string, decision models.UnderwritingDecision, reason, decidedBy string) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("store: connection pool not initialized")
	}
	_, err := pool.Exec(ctx, `
		UPDATE loan_applications
		SET underwriting_decision=$1, underwriting_decision_reason=$2,
		    underwriting_decided_by=$3, underwriting_decided_at=now(), updated_at=now()
		WHERE workflow_id=$4
	`, decision, reason, decidedBy, workflowID)
	if err != nil {
		return fmt.Errorf("update underwriting decision: %w", err)
	}
	return nil
}
