// Package llm provides the optional LLM-backed mapper path the spec
// names as an alternative to the deterministic Rule Engine: the
// analyze_document legacy activity, used by LeadCaptureWorkflow to
// extract applicant facts from pay stubs and tax returns under a strict
// JSON output contract.
package llm

import "context"

// Provider is the interface every LLM backend implements. The core
// pipeline (§4.A-§4.J) never depends on this package; only the
// orchestrator's LegacyAnalysis activity does.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// AdaptInstructions transforms raw instructions into model-specific
	// phrasing (e.g. reinforcing strict-JSON-only output for models that
	// otherwise wrap answers in prose).
	AdaptInstructions(rawInstructions string) string
}

// Role narrows the system prompt analyze_document uses, per §4.K Tier 2.
type Role string

const (
	RoleFinancialAuditor Role = "financial_auditor"
	RoleIdentityVerifier Role = "identity_verifier"
	RoleGeneralAnalyst   Role = "general_analyst"
)

func systemPromptFor(role Role) string {
	switch role {
	case RoleFinancialAuditor:
		return "You are a mortgage financial auditor. Extract income and employment facts only. " +
			"Respond with exactly one JSON object: {\"applicant_name\": string|null, " +
			"\"annual_income\": int|null, \"credit_score\": int|null, \"missing_docs\": array<string>|null}."
	case RoleIdentityVerifier:
		return "You are verifying borrower identity documents. " +
			"Respond with exactly one JSON object: {\"applicant_name\": string|null, " +
			"\"annual_income\": int|null, \"credit_score\": int|null, \"missing_docs\": array<string>|null}."
	default:
		return "You are a general mortgage document analyst. " +
			"Respond with exactly one JSON object: {\"applicant_name\": string|null, " +
			"\"annual_income\": int|null, \"credit_score\": int|null, \"missing_docs\": array<string>|null}."
	}
}

// StubProvider is an offline fallback used by tests and by environments
// with no configured API key. It never fails to parse, returning an
// all-null contract object, matching the spec's "LLM parse failure ...
// fall back to zero-valued analysis without blocking the workflow" rule.
type StubProvider struct{}

var _ Provider = (*StubProvider)(nil)

func (p *StubProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	return `{"applicant_name": null, "annual_income": null, "credit_score": null, "missing_docs": null}`, nil
}

func (p *StubProvider) AdaptInstructions(raw string) string { return raw }
