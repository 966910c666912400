package store

import (
	"context"
	"fmt"

	"loanforge/pkg/models"
)

// WorkflowLogRepo appends and reads the per-workflow audit trail.
// Writes are best-effort from the caller's perspective: a log write
// failure must never fail the workflow transition it documents.
type WorkflowLogRepo struct{}

func NewWorkflowLogRepo() *WorkflowLogRepo {
	return &WorkflowLogRepo{}
}

func (r *WorkflowLogRepo) Append(ctx context.Context, workflowID string, entry models.LogEntry) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("store: connection pool not initialized")
	}
	_, err := pool.Exec(ctx, `
		INSERT INTO workflow_logs (workflow_id, agent, message, stage, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, workflowID, entry.Agent, entry.Message, entry.Stage, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("insert workflow_log: %w", err)
	}
	return nil
}

func (r *WorkflowLogRepo) List(ctx context.Context, workflowID string) ([]models.LogEntry, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("store: connection pool not initialized")
	}
	rows, err := pool.Query(ctx, `
		SELECT agent, message, stage, created_at FROM workflow_logs
		WHERE workflow_id=$1 ORDER BY created_at ASC
	`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("select workflow_logs: %w", err)
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.Agent, &e.Message, &e.Stage, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan workflow_log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
