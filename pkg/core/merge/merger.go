// Package merge implements Component F, the Merger: priority-based
// conflict resolution across multiple documents' flat extractions, plus
// cross-document party identity clustering by SSN and fuzzy name match.
package merge

import (
	"fmt"
	"sort"
	"strings"

	"loanforge/pkg/models"
)

// PriorityTable assigns each DocumentType a priority; higher overwrites
// lower during merge.
var PriorityTable = map[models.DocumentType]int{
	models.DocTypeW2:            90,
	models.DocTypeAppraisal1004: 85,
	models.DocTypePayStub:       80,
	models.DocTypeTaxReturn1040: 70,
	models.DocTypeBankStatement: 60,
	models.DocTypeURLA:          50,
	models.DocTypeLoanEstimate:  40,
}

// Input is one document's (doc_type, flat_dict) pair in the caller-
// supplied order.
type Input struct {
	DocType models.DocumentType
	Flat    models.FlatExtraction
}

// Conflict records one key whose value a higher-priority document
// overwrote.
type Conflict struct {
	Key         string
	LosingDoc   models.DocumentType
	LosingValue interface{}
	WinningDoc  models.DocumentType
	WinningValue interface{}
}

// Result is the Merger's output: the combined flat dict, the party
// identity map, and every overwrite conflict logged along the way.
type Result struct {
	Merged    models.FlatExtraction
	PartyMap  map[string]string
	Conflicts []Conflict
}

// Merge combines inputs. Zero inputs returns an empty Result. Sort is
// ascending by priority, so later (higher-priority) documents overwrite
// earlier ones; ties within a priority class break by the order inputs
// were supplied, per the original Python merger's stable-sort-by-
// supplied-index behavior.
func Merge(inputs []Input) Result {
	if len(inputs) == 0 {
		return Result{Merged: models.FlatExtraction{}, PartyMap: map[string]string{}}
	}

	sorted := make([]Input, len(inputs))
	copy(sorted, inputs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return PriorityTable[sorted[i].DocType] < PriorityTable[sorted[j].DocType]
	})

	merged := models.FlatExtraction{}
	sources := map[string]models.DocumentType{}
	var conflicts []Conflict

	for _, s := range sorted {
		for key, value := range s.Flat {
			if value == nil {
				continue
			}
			if existing, present := merged[key]; present && existing != nil {
				conflicts = append(conflicts, Conflict{
					Key: key, LosingDoc: sources[key], LosingValue: existing,
					WinningDoc: s.DocType, WinningValue: value,
				})
			}
			merged[key] = value
			sources[key] = s.DocType
		}
	}

	partyMap := matchParties(inputs)

	return Result{Merged: merged, PartyMap: partyMap, Conflicts: conflicts}
}

// String renders a conflict the way a run report would log it.
func (c Conflict) String() string {
	return fmt.Sprintf("conflict at %s: %s(%v) overwritten by %s(%v)", c.Key, c.LosingDoc, c.LosingValue, c.WinningDoc, c.WinningValue)
}

func normalizeSSN(ssn string) string {
	return strings.ReplaceAll(strings.ReplaceAll(ssn, "-", ""), " ", "")
}
