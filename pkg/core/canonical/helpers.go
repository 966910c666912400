package canonical

import (
	"encoding/json"

	"loanforge/pkg/models"
)

// recordToMap round-trips rec through JSON to a generic tree, the
// simplest way to walk an arbitrary nested struct for leaf counting
// without hand-writing a reflector.
func recordToMap(rec *models.CanonicalRecord) map[string]interface{} {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// prefixCounts tallies how many flat keys carry each document-family
// prefix.
func prefixCounts(flat models.FlatExtraction) map[string]int {
	counts := map[string]int{}
	for key := range flat {
		counts[models.KeyPrefix(key)]++
	}
	return counts
}

// primaryPrefix selects URLA when present; otherwise the most populous
// prefix, per §4.E's merged-strategy selection rule.
func primaryPrefix(flat models.FlatExtraction) string {
	counts := prefixCounts(flat)
	if _, ok := counts["urla"]; ok {
		return "urla"
	}
	best, bestCount := "", -1
	for prefix, n := range counts {
		if n > bestCount {
			best, bestCount = prefix, n
		}
	}
	return best
}

var prefixDocType = map[string]models.DocumentType{
	"urla":   models.DocTypeURLA,
	"w2":     models.DocTypeW2,
	"paystub": models.DocTypePayStub,
	"tax":    models.DocTypeTaxReturn1040,
	"bank":   models.DocTypeBankStatement,
}

func docTypeForPrefix(prefix string) models.DocumentType {
	if dt, ok := prefixDocType[prefix]; ok {
		return dt
	}
	return models.DocTypeUnknown
}

// enrichFrom additively applies prefix's strategy output onto record,
// never overwriting a value the primary strategy already populated.
// Enrichment is scoped to the fields each non-primary strategy family
// is known to contribute: assets (bank), income facts (w2/paystub/tax).
func enrichFrom(record *models.CanonicalRecord, flat models.FlatExtraction, prefix string) {
	if record.Deal.PrimaryBorrowerIndex() == -1 {
		return
	}
	idx := record.Deal.PrimaryBorrowerIndex()
	party := &record.Deal.Parties[idx]

	switch prefix {
	case "bank":
		if len(party.Assets) == 0 {
			party.Assets = append(party.Assets, bankAssetFromFlat(flat))
		}
	case "w2", "paystub", "tax":
		if len(party.Employment) == 0 {
			party.Employment = append(party.Employment, employmentFromFlat(flat, prefix))
		}
	}
}
