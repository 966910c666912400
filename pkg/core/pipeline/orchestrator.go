// Package pipeline implements the end-to-end, single-document-or-mega-PDF
// run: (optional Split) -> Text Acquisition -> Classification -> Rule
// Engine -> Merge (multi-document only) -> Canonical Assembly ->
// Validate -> Relational Transform -> Schema Enforcement, with every
// intermediate artifact
// written to an on-disk run directory per document.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"loanforge/pkg/core/canonical"
	"loanforge/pkg/core/classify"
	"loanforge/pkg/core/merge"
	"loanforge/pkg/core/relational"
	"loanforge/pkg/core/rules"
	"loanforge/pkg/core/schema"
	"loanforge/pkg/core/splitter"
	"loanforge/pkg/core/textacq"
	"loanforge/pkg/core/validate"
	"loanforge/pkg/models"
)

// RunPaths is the fixed on-disk layout for one input document's run
// directory: output/<stem>/{1_raw.txt, 1b_merged_flat.json?,
// 2_canonical.json, 3_relational_payload.json, report.md}.
type RunPaths struct {
	Dir              string
	RawText          string
	MergedFlat       string
	Canonical        string
	RelationalPayload string
	Report           string
}

// NewRunPaths derives a run's output directory from inputPath's
// basename (extension stripped), rooted at outputRoot.
func NewRunPaths(outputRoot, inputPath string) RunPaths {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	dir := filepath.Join(outputRoot, stem)
	return RunPaths{
		Dir:               dir,
		RawText:           filepath.Join(dir, "1_raw.txt"),
		MergedFlat:        filepath.Join(dir, "1b_merged_flat.json"),
		Canonical:         filepath.Join(dir, "2_canonical.json"),
		RelationalPayload: filepath.Join(dir, "3_relational_payload.json"),
		Report:            filepath.Join(dir, "report.md"),
	}
}

// RunResult is what one Run call produces, independent of what was
// written to disk — callers that only need in-memory results (such as
// tests) use this directly.
type RunResult struct {
	DocumentTypes []models.DocumentType
	Canonical     *models.CanonicalRecord
	Issues        []models.ValidationIssue
	Payload       *models.RelationalPayload
	Warnings      []relational.Warning
	Conflicts     []merge.Conflict
	LeafCount     int
}

// Orchestrator wires Components A through I into one run over a single
// input file. A Splitter is optional: when nil, every input is treated
// as a single document; when set, IsMegaPDF gates whether the input is
// segmented before per-chunk extraction.
type Orchestrator struct {
	TextAcq       *textacq.Acquirer
	Classifier    *classify.Classifier
	Splitter      *splitter.Splitter
	RuleLoader    *rules.Loader
	RuleEngine    *rules.Engine
	Assembler     *canonical.Assembler
	SchemaVersion string
	SchemaPolicies schema.Policies
}

// NewOrchestrator wires the default component set. ruleDir comes from
// the caller's configuration root; the classifier uses
// classify.DefaultSignatures and no Splitter is set.
func NewOrchestrator(textAcq *textacq.Acquirer, ruleDir, schemaVersion string) *Orchestrator {
	return &Orchestrator{
		TextAcq:        textAcq,
		Classifier:     classify.NewClassifier(classify.DefaultSignatures()),
		RuleLoader:     rules.NewLoader(ruleDir),
		RuleEngine:     rules.NewEngine(),
		Assembler:      canonical.NewAssembler(),
		SchemaVersion:  schemaVersion,
		SchemaPolicies: schema.DefaultPolicies(),
	}
}

// documentExtraction is one chunk's (or the whole input's, when not
// split) acquired text plus its classified DocumentType and flat
// extraction.
type documentExtraction struct {
	docType models.DocumentType
	text    string
	flat    models.FlatExtraction
}

// Run executes the full pipeline over inputPath and writes every
// intermediate artifact under NewRunPaths(outputRoot, inputPath).Dir.
func (o *Orchestrator) Run(ctx context.Context, inputPath, outputRoot string) (*RunResult, RunPaths, error) {
	paths := NewRunPaths(outputRoot, inputPath)
	if err := os.MkdirAll(paths.Dir, 0o755); err != nil {
		return nil, paths, fmt.Errorf("pipeline: create run dir: %w", err)
	}

	extractions, err := o.acquireAndExtract(ctx, inputPath)
	if err != nil {
		return nil, paths, err
	}

	var rawText strings.Builder
	for _, e := range extractions {
		rawText.WriteString(e.text)
		rawText.WriteString("\n")
	}
	if err := os.WriteFile(paths.RawText, []byte(rawText.String()), 0o644); err != nil {
		return nil, paths, fmt.Errorf("pipeline: write raw text: %w", err)
	}

	result := &RunResult{}
	var rec *models.CanonicalRecord

	if len(extractions) == 1 {
		e := extractions[0]
		result.DocumentTypes = []models.DocumentType{e.docType}
		rec = o.Assembler.Assemble(e.docType, e.flat, o.SchemaVersion)
	} else {
		inputs := make([]merge.Input, len(extractions))
		for i, e := range extractions {
			inputs[i] = merge.Input{DocType: e.docType, Flat: e.flat}
			result.DocumentTypes = append(result.DocumentTypes, e.docType)
		}
		mergeResult := merge.Merge(inputs)
		result.Conflicts = mergeResult.Conflicts

		mergedJSON, err := json.MarshalIndent(mergeResult.Merged, "", "  ")
		if err != nil {
			return nil, paths, fmt.Errorf("pipeline: marshal merged flat: %w", err)
		}
		if err := os.WriteFile(paths.MergedFlat, mergedJSON, 0o644); err != nil {
			return nil, paths, fmt.Errorf("pipeline: write merged flat: %w", err)
		}

		rec = o.Assembler.AssembleMerged(mergeResult.Merged, o.SchemaVersion)
	}

	result.Canonical = rec
	result.LeafCount = canonical.CountLeaves(rec)
	result.Issues = validate.Validate(rec)

	canonicalJSON, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, paths, fmt.Errorf("pipeline: marshal canonical record: %w", err)
	}
	if err := os.WriteFile(paths.Canonical, canonicalJSON, 0o644); err != nil {
		return nil, paths, fmt.Errorf("pipeline: write canonical record: %w", err)
	}

	payload, warnings := relational.Transform(rec, nil)
	schema.Enforce(payload, o.SchemaPolicies)
	result.Payload = payload
	result.Warnings = warnings

	payloadJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, paths, fmt.Errorf("pipeline: marshal relational payload: %w", err)
	}
	if err := os.WriteFile(paths.RelationalPayload, payloadJSON, 0o644); err != nil {
		return nil, paths, fmt.Errorf("pipeline: write relational payload: %w", err)
	}

	if err := os.WriteFile(paths.Report, []byte(renderReport(inputPath, result)), 0o644); err != nil {
		return nil, paths, fmt.Errorf("pipeline: write report: %w", err)
	}

	return result, paths, nil
}

// acquireAndExtract runs Text Acquisition, Classification, and the
// Rule Engine over inputPath, splitting first when the optional
// Splitter reports a mega-PDF.
func (o *Orchestrator) acquireAndExtract(ctx context.Context, inputPath string) ([]documentExtraction, error) {
	if o.Splitter != nil {
		isMega, err := o.Splitter.IsMegaPDF(ctx, inputPath)
		if err != nil {
			return nil, fmt.Errorf("pipeline: mega-PDF detection: %w", err)
		}
		if isMega {
			chunks, err := o.Splitter.Split(ctx, inputPath)
			if err != nil {
				return nil, fmt.Errorf("pipeline: split: %w", err)
			}
			extractions := make([]documentExtraction, 0, len(chunks))
			for _, chunk := range chunks {
				e, err := o.extractOne(ctx, chunk.Path, chunk.DocType)
				if err != nil {
					return nil, err
				}
				extractions = append(extractions, e)
			}
			return extractions, nil
		}
	}

	e, err := o.extractOne(ctx, inputPath, models.DocTypeUnknown)
	if err != nil {
		return nil, err
	}
	return []documentExtraction{e}, nil
}

// extractOne acquires text, classifies it when knownType is Unknown
// (a splitter chunk already carries its DocType), and runs that
// DocumentType's rule file against the acquired text in flat mode.
func (o *Orchestrator) extractOne(ctx context.Context, path string, knownType models.DocumentType) (documentExtraction, error) {
	// First pass: acquire without a recommendation, which defaults to
	// OCR-or-empty, just enough to classify against.
	sniff, err := o.TextAcq.Acquire(ctx, path, "", false)
	if err != nil {
		return documentExtraction{}, fmt.Errorf("pipeline: text acquisition: %w", err)
	}

	docType := knownType
	if docType == models.DocTypeUnknown || docType == "" {
		classification := o.Classifier.Classify(classify.LeadingText([]string{sniff.Text}))
		docType = classification.DocumentCategory

		if classification.RecommendedExtractor == models.ExtractorStructured {
			if reacquired, err := o.TextAcq.Acquire(ctx, path, models.ExtractorStructured, false); err == nil && reacquired.Text != "" {
				sniff = reacquired
			}
		}
	}

	file, err := o.RuleLoader.Load(string(docType))
	if err != nil {
		return documentExtraction{docType: docType, text: sniff.Text, flat: models.FlatExtraction{}}, nil
	}

	out, _ := o.RuleEngine.Extract(sniff.Text, file, rules.ModeFlat)
	return documentExtraction{docType: docType, text: sniff.Text, flat: models.FlatExtraction(out.Flat)}, nil
}

func renderReport(inputPath string, r *RunResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Extraction Report: %s\n\n", filepath.Base(inputPath))
	fmt.Fprintf(&b, "Document types: %v\n\n", r.DocumentTypes)
	fmt.Fprintf(&b, "Canonical leaves populated: %d\n\n", r.LeafCount)

	if len(r.Conflicts) > 0 {
		fmt.Fprintf(&b, "## Merge Conflicts (%d)\n\n", len(r.Conflicts))
		for _, c := range r.Conflicts {
			fmt.Fprintf(&b, "- %s\n", c.String())
		}
		b.WriteString("\n")
	}

	if len(r.Issues) > 0 {
		fmt.Fprintf(&b, "## Validation Issues (%d)\n\n", len(r.Issues))
		for _, issue := range r.Issues {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", issue.Severity, issue.Path, issue.Message)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("## Validation Issues\n\nNone.\n\n")
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "## Relational Transform Warnings (%d)\n\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s: %s\n", w.Path, w.Message)
		}
	}

	return b.String()
}
