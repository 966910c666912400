// Package canonical implements Component E, the Canonical Assembler:
// one pure-function strategy per DocumentType (plus "merged" and
// "generic") lowering a flat key->value extraction into the deep
// MISMO-aligned CanonicalRecord tree.
package canonical

import (
	"loanforge/pkg/models"
)

// Strategy is a pure function from a flat-bag extraction to a typed
// canonical record. No strategy reads or writes package state.
type Strategy func(flat models.FlatExtraction, meta models.DocumentMetadata) *models.CanonicalRecord

// Assembler dispatches by DocumentType tag to a registered Strategy,
// falling back to genericStrategy for anything unregistered.
type Assembler struct {
	strategies map[models.DocumentType]Strategy
}

// NewAssembler registers every built-in strategy.
func NewAssembler() *Assembler {
	a := &Assembler{strategies: map[models.DocumentType]Strategy{}}
	a.strategies[models.DocTypeURLA] = urlaStrategy
	a.strategies[models.DocTypeW2] = w2Strategy
	a.strategies[models.DocTypePayStub] = payStubStrategy
	a.strategies[models.DocTypeTaxReturn1040] = taxReturnStrategy
	a.strategies[models.DocTypeBankStatement] = bankStatementStrategy
	return a
}

// Register lets callers add or override a strategy for docType.
func (a *Assembler) Register(docType models.DocumentType, s Strategy) {
	a.strategies[docType] = s
}

// Assemble looks up docType's strategy (falling back to generic) and
// applies it to flat.
func (a *Assembler) Assemble(docType models.DocumentType, flat models.FlatExtraction, schemaVersion string) *models.CanonicalRecord {
	meta := models.DocumentMetadata{SourceDocumentType: docType, SchemaVersion: schemaVersion}
	strategy, ok := a.strategies[docType]
	if !ok {
		strategy = genericStrategy
	}
	return strategy(flat, meta)
}

// AssembleMerged is the "merged" strategy: it selects a primary
// DocumentType by prefix census (URLA wins when present; otherwise the
// most populous prefix), delegates to that strategy, then additively
// enriches the result from every other prefix without overwriting
// existing primary values.
func (a *Assembler) AssembleMerged(flat models.FlatExtraction, schemaVersion string) *models.CanonicalRecord {
	primary := primaryPrefix(flat)
	docType := docTypeForPrefix(primary)
	record := a.Assemble(docType, flat, schemaVersion)

	for prefix := range prefixCounts(flat) {
		if prefix == primary {
			continue
		}
		enrichFrom(record, flat, prefix)
	}
	return record
}

// CountLeaves reports the number of non-null scalar leaves across the
// record's nested maps and lists, used for run-report diagnostics.
func CountLeaves(rec *models.CanonicalRecord) int {
	count := 0
	var walk func(v interface{})
	walk = func(v interface{}) {
		switch t := v.(type) {
		case nil:
			return
		case map[string]interface{}:
			for _, vv := range t {
				walk(vv)
			}
		case []interface{}:
			for _, vv := range t {
				walk(vv)
			}
		case string:
			if t != "" {
				count++
			}
		default:
			count++
		}
	}
	walk(recordToMap(rec))
	return count
}
