package llm

import (
	"context"
	"testing"
)

func TestStubProvider_AlwaysReturnsAllNullContract(t *testing.T) {
	p := &StubProvider{}
	raw, err := p.GenerateResponse(context.Background(), "analyze this", systemPromptFor(RoleFinancialAuditor), nil)
	if err != nil {
		t.Fatalf("GenerateResponse: %v", err)
	}
	result, err := AnalyzeDocument(context.Background(), p, RoleFinancialAuditor, "irrelevant document body")
	if err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}
	if result.Succeeded() {
		t.Error("stub provider's all-null contract should never report Succeeded()")
	}
	if raw == "" {
		t.Error("expected a non-empty stub response")
	}
}

func TestStubProvider_AdaptInstructionsIsIdentity(t *testing.T) {
	p := &StubProvider{}
	if got := p.AdaptInstructions("extract income facts"); got != "extract income facts" {
		t.Errorf("expected identity passthrough, got %q", got)
	}
}

type fakeProvider struct {
	response string
	err      error
}

func (f fakeProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	return f.response, f.err
}

func (f fakeProvider) AdaptInstructions(raw string) string { return raw }

func TestAnalyzeDocument_ParsesWellFormedJSONResponse(t *testing.T) {
	p := fakeProvider{response: `{"applicant_name": "Jordan Rivera", "annual_income": 96000, "credit_score": 720, "missing_docs": null}`}
	result, err := AnalyzeDocument(context.Background(), p, RoleFinancialAuditor, "doc text")
	if err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}
	if !result.Succeeded() {
		t.Fatal("expected Succeeded() for a well-formed response with a name")
	}
	if result.ApplicantName == nil || *result.ApplicantName != "Jordan Rivera" {
		t.Errorf("unexpected applicant name: %+v", result.ApplicantName)
	}
	if result.AnnualIncome == nil || *result.AnnualIncome != 96000 {
		t.Errorf("unexpected annual income: %+v", result.AnnualIncome)
	}
}

func TestAnalyzeDocument_ExtractsObjectFromProseWrappedResponse(t *testing.T) {
	p := fakeProvider{response: "Here is the analysis:\n```json\n{\"applicant_name\": \"Jordan Rivera\", \"annual_income\": null, \"credit_score\": null, \"missing_docs\": [\"pay_stub\"]}\n```"}
	result, err := AnalyzeDocument(context.Background(), p, RoleGeneralAnalyst, "doc text")
	if err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}
	if !result.Succeeded() {
		t.Fatal("expected Succeeded() after extracting the fenced JSON object")
	}
	if len(result.MissingDocs) != 1 || result.MissingDocs[0] != "pay_stub" {
		t.Errorf("unexpected missing docs: %+v", result.MissingDocs)
	}
}

func TestAnalyzeDocument_UnparseableResponseFallsBackToZeroValued(t *testing.T) {
	p := fakeProvider{response: "I cannot process this request."}
	result, err := AnalyzeDocument(context.Background(), p, RoleIdentityVerifier, "doc text")
	if err != nil {
		t.Fatalf("AnalyzeDocument should not error on unparseable output: %v", err)
	}
	if result.Succeeded() {
		t.Error("expected zero-valued fallback, not success")
	}
}

func TestAnalyzeDocument_GenerationErrorPropagatesWithoutPanicking(t *testing.T) {
	p := fakeProvider{err: errBoom}
	result, err := AnalyzeDocument(context.Background(), p, RoleGeneralAnalyst, "doc text")
	if err == nil {
		t.Fatal("expected an error when the provider's generation call fails")
	}
	if result.Succeeded() {
		t.Error("expected zero-valued result on generation failure")
	}
}

var errBoom = &stubErr{"generation failed"}

type stubErr struct{ msg string }

func (e *stubErr) Error() string { return e.msg }
