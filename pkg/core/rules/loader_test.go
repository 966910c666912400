package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoader_ResolvesAliasedFilename(t *testing.T) {
	dir := t.TempDir()
	content := "doc_type: W-2\nrules:\n  - id: employer\n    type: key_value\n    key_label: Employer\n    key: employer_name\n"
	if err := os.WriteFile(filepath.Join(dir, "W-2Form.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	l := NewLoader(dir)
	file, err := l.Load("W-2")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if file.DocType != "W-2" || len(file.Rules) != 1 {
		t.Errorf("unexpected parsed file: %+v", file)
	}
	if file.Rules[0].Key != "employer_name" {
		t.Errorf("expected key employer_name, got %s", file.Rules[0].Key)
	}
}

func TestLoader_FallsBackToSpaceStrippedFilename(t *testing.T) {
	dir := t.TempDir()
	content := "doc_type: Government ID\nrules: []\n"
	if err := os.WriteFile(filepath.Join(dir, "GovernmentID.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	l := NewLoader(dir)
	file, err := l.Load("Government ID")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if file.DocType != "Government ID" {
		t.Errorf("unexpected doc_type: %s", file.DocType)
	}
}

func TestLoader_MissingFileReturnsError(t *testing.T) {
	l := NewLoader(t.TempDir())
	if _, err := l.Load("URLA"); err == nil {
		t.Error("expected an error for a missing rule file")
	}
}
