package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"loanforge/pkg/core/textacq"
)

// fakeOCR returns a fixed body regardless of path, standing in for a
// real OCR backend so tests never touch an external renderer.
type fakeOCR struct{ body string }

func (f fakeOCR) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	return f.body, nil
}

func writeFakePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4\nplaceholder\n"), 0o644); err != nil {
		t.Fatalf("write fake pdf: %v", err)
	}
	return path
}

func TestOrchestratorRun_SingleDocumentProducesAllArtifacts(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	ruleDir := t.TempDir()

	w2Body := "Employer: Acme Corp\nWages: 85000.00\nEmployee SSN: 000-00-0000\n"
	acquirer := textacq.NewAcquirer(nil, nil, fakeOCR{body: w2Body}, t.TempDir())
	orch := NewOrchestrator(acquirer, ruleDir, "3.4")

	inputPath := writeFakePDF(t, inputDir, "sample.pdf")
	result, paths, err := orch.Run(context.Background(), inputPath, outputDir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result == nil {
		t.Fatal("expected a non-nil result")
	}

	for _, p := range []string{paths.RawText, paths.Canonical, paths.RelationalPayload, paths.Report} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected artifact %s to exist: %v", p, err)
		}
	}
	if _, err := os.Stat(paths.MergedFlat); err == nil {
		t.Error("expected no merged-flat artifact for a single-document run")
	}
}

func TestNewRunPaths_DerivesDirFromInputStem(t *testing.T) {
	paths := NewRunPaths("/out", "/in/W2_2024.pdf")
	want := filepath.Join("/out", "W2_2024")
	if paths.Dir != want {
		t.Errorf("expected dir %s, got %s", want, paths.Dir)
	}
	if filepath.Base(paths.RawText) != "1_raw.txt" {
		t.Errorf("unexpected raw text filename: %s", paths.RawText)
	}
}

func TestAcquireAndExtract_UnsupportedExtensionIsInputFatal(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	ruleDir := t.TempDir()

	acquirer := textacq.NewAcquirer(nil, nil, fakeOCR{body: "irrelevant"}, t.TempDir())
	orch := NewOrchestrator(acquirer, ruleDir, "3.4")

	badPath := filepath.Join(inputDir, "notes.txt")
	if err := os.WriteFile(badPath, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if _, _, err := orch.Run(context.Background(), badPath, outputDir); err == nil {
		t.Error("expected an error for an unsupported input extension")
	}
}
