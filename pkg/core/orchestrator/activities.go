package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/google/uuid"

	"loanforge/pkg/core/llm"
	"loanforge/pkg/core/store"
	"loanforge/pkg/models"
)

// Comms is the MCP activity surface for borrower-facing notifications.
// Both operations are at-least-once: recipients must tolerate duplicates.
type Comms interface {
	SendEmail(ctx context.Context, templateID, recipient string, data map[string]interface{}) error
	SendSMS(ctx context.Context, phone, message string) error
}

// Encompass is the MCP activity surface for the durable loan-of-record.
type Encompass interface {
	CreateLoanFile(ctx context.Context, data *models.LoanApplication) (loanNumber string, err error)
	PushFieldUpdate(ctx context.Context, loanNumber, fieldID string, value interface{}) error
	UpdateLoanMetadata(ctx context.Context, workflowID string, patch map[string]interface{}) error
}

// DocGen is the MCP activity surface for document rendering.
type DocGen interface {
	GenerateDocument(ctx context.Context, workflowID, docType string, data map[string]interface{}) (publicURL string, err error)
}

// Underwriting is the MCP activity surface for signature verification
// and automated risk scoring.
type Underwriting interface {
	VerifySignature(ctx context.Context, workflowID string) (bool, error)
	EvaluateRisk(ctx context.Context, loanData *models.LoanApplication, analysis IncomeAnalysis) RiskEvaluation
}

// LegacyAnalysis is the MCP activity surface wrapping the llm
// package's document reader (the LLM alternative to the deterministic
// extraction pipeline), used here for the lead-capture income/identity
// read.
type LegacyAnalysis interface {
	ReadPDFContent(ctx context.Context, path string) (string, error)
	AnalyzeDocument(ctx context.Context, text string, role Role) (llm.AnalysisResult, error)
}

// Activities bundles every Tier 3 capability the CEO and its Managers
// call through. Each field may hold a different implementation;
// callers construct one bundle per workflow.
type Activities struct {
	Comms        Comms
	Encompass    Encompass
	DocGen       DocGen
	Underwriting Underwriting
	Legacy       LegacyAnalysis
}

// --- Default, filesystem/store-backed implementations ---

// DefaultComms logs sends; a real deployment would swap this for an
// actual email/SMS provider without changing the Comms interface.
type DefaultComms struct{}

func (DefaultComms) SendEmail(ctx context.Context, templateID, recipient string, data map[string]interface{}) error {
	fmt.Printf("[comms] email %s -> %s: %v\n", templateID, recipient, data)
	return nil
}

func (DefaultComms) SendSMS(ctx context.Context, phone, message string) error {
	fmt.Printf("[comms] sms -> %s: %s\n", phone, message)
	return nil
}

// DefaultEncompass persists through the LoanRepo, allocating loan
// numbers idempotently on workflow_id. With a nil Repo, CreateLoanFile
// allocates the loan number without persisting it.
type DefaultEncompass struct {
	Repo *store.LoanRepo
}

func (e DefaultEncompass) CreateLoanFile(ctx context.Context, data *models.LoanApplication) (string, error) {
	if e.Repo == nil {
		if data.LoanNumber == "" {
			data.LoanNumber = fmt.Sprintf("LN-%s", uuid.NewString()[:8])
		}
		return data.LoanNumber, nil
	}
	existing, err := e.Repo.GetByWorkflowID(ctx, data.WorkflowID)
	if err == nil && existing != nil && existing.LoanNumber != "" {
		return existing.LoanNumber, nil
	}
	data.LoanNumber = fmt.Sprintf("LN-%s", uuid.NewString()[:8])
	if _, err := e.Repo.CreateIfAbsent(ctx, data); err != nil {
		return "", err
	}
	return data.LoanNumber, nil
}

func (e DefaultEncompass) PushFieldUpdate(ctx context.Context, loanNumber, fieldID string, value interface{}) error {
	fmt.Printf("[encompass] loan %s field %s = %v\n", loanNumber, fieldID, value)
	return nil
}

func (e DefaultEncompass) UpdateLoanMetadata(ctx context.Context, workflowID string, patch map[string]interface{}) error {
	return e.Repo.UpdateMetadata(ctx, workflowID, patch)
}

// DefaultDocGen renders a plain-text document body via text/template
// and writes it to uploads/<workflow_id>/<safe_doc_type>.pdf, the way
// a real PDF-rendering backend would be swapped in behind the same
// activity without touching the workflow code.
type DefaultDocGen struct {
	UploadsDir string
}

const docGenTemplate = `{{.DocType}}
Generated: {{.GeneratedAt}}
Workflow: {{.WorkflowID}}

{{range $k, $v := .Data}}{{$k}}: {{$v}}
{{end}}`

func (d DefaultDocGen) GenerateDocument(ctx context.Context, workflowID, docType string, data map[string]interface{}) (string, error) {
	dir := filepath.Join(d.UploadsDir, workflowID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("docgen: %w", err)
	}

	if data["monthly_payment"] == nil {
		if amt, ok := data["loan_amount"].(float64); ok {
			if rate, ok := data["interest_rate"].(float64); ok {
				if term, ok := data["term_months"].(int); ok {
					data["monthly_payment"] = MonthlyPayment(amt, rate, term)
				}
			}
		}
	}

	tmpl, err := template.New("docgen").Parse(docGenTemplate)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]interface{}{
		"DocType": docType, "GeneratedAt": time.Now().Format(time.RFC3339),
		"WorkflowID": workflowID, "Data": data,
	}); err != nil {
		return "", err
	}

	safeDocType := safeFilename(docType)
	path := filepath.Join(dir, safeDocType+".pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("docgen: %w", err)
	}
	return "/uploads/" + workflowID + "/" + safeDocType + ".pdf", nil
}

func safeFilename(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			out = append(out, r)
		case r == ' ':
			out = append(out, '_')
		}
	}
	return string(out)
}

// DefaultUnderwriting checks for the signed-disclosures artifact on
// disk and applies the risk rules from RiskEvaluation.
type DefaultUnderwriting struct {
	UploadsDir string
}

func (u DefaultUnderwriting) VerifySignature(ctx context.Context, workflowID string) (bool, error) {
	path := filepath.Join(u.UploadsDir, workflowID, "Initial_Disclosures_SIGNED.pdf")
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (u DefaultUnderwriting) EvaluateRisk(ctx context.Context, loanData *models.LoanApplication, analysis IncomeAnalysis) RiskEvaluation {
	return EvaluateRisk(loanData, analysis)
}

// DefaultLegacyAnalysis wraps the llm package's document analyzer.
type DefaultLegacyAnalysis struct {
	Provider llm.Provider
}

func (d DefaultLegacyAnalysis) ReadPDFContent(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("legacy: read %s: %w", path, err)
	}
	return string(content), nil
}

func (d DefaultLegacyAnalysis) AnalyzeDocument(ctx context.Context, text string, role Role) (llm.AnalysisResult, error) {
	return llm.AnalyzeDocument(ctx, d.Provider, llm.Role(role), text)
}
