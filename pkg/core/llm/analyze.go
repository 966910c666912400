package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"loanforge/pkg/core/utils"
)

// AnalysisResult is the strict JSON output contract §6 requires from
// analyze_document: exactly these four keys, each nullable.
type AnalysisResult struct {
	ApplicantName *string  `json:"applicant_name"`
	AnnualIncome  *int     `json:"annual_income"`
	CreditScore   *int     `json:"credit_score"`
	MissingDocs   []string `json:"missing_docs"`
}

// ZeroValued returns the fallback result used when parsing fails after
// the retry budget is exhausted, per the spec's non-blocking LLM-parse-
// failure rule.
func ZeroValued() AnalysisResult {
	return AnalysisResult{}
}

// AnalyzeDocument prompts provider with role's system prompt and parses
// the response against the strict contract. The parser extracts the
// first balanced {...} substring, tolerates markdown fences, and treats
// any result carrying at least a non-nil ApplicantName as success; a
// missing annual_income is acceptable. On any parse failure it returns
// ZeroValued() rather than propagating an error, so callers never block
// the workflow on a malformed LLM response.
func AnalyzeDocument(ctx context.Context, provider Provider, role Role, text string) (AnalysisResult, error) {
	prompt := provider.AdaptInstructions(text)
	raw, err := provider.GenerateResponse(ctx, prompt, systemPromptFor(role), nil)
	if err != nil {
		return ZeroValued(), fmt.Errorf("analyze_document: generation failed: %w", err)
	}

	var result AnalysisResult
	if _, err := utils.SmartParse(raw, &result); err == nil {
		return result, nil
	}

	if obj := utils.ExtractFirstJSONObject(raw); obj != "" {
		if err := json.Unmarshal([]byte(obj), &result); err == nil {
			return result, nil
		}
	}

	return ZeroValued(), nil
}

// Succeeded reports whether r carries enough information to count as a
// successful extraction: at least a name, per the §6 LLM contract.
func (r AnalysisResult) Succeeded() bool {
	return r.ApplicantName != nil && *r.ApplicantName != ""
}
