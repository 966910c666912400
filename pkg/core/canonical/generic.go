package canonical

import "loanforge/pkg/models"

// genericStrategy is the fallback for any DocumentType without a
// dedicated strategy: it places every flat key's scalar value under a
// single IVF so the fact is preserved even without bespoke placement
// logic, rather than silently dropping it.
func genericStrategy(flat models.FlatExtraction, meta models.DocumentMetadata) *models.CanonicalRecord {
	rec := models.NewCanonicalRecord(meta.SourceDocumentType, meta.SchemaVersion)
	rec.DocumentMetadata = meta

	fields := map[string]interface{}{}
	for k, v := range flat {
		fields[k] = v
	}

	borrower := models.Party{
		PartyRole: models.EnumValue{Value: models.PartyRoleBorrower},
		IncomeVerificationFrags: []models.IVF{
			{SourceDocument: string(meta.SourceDocumentType), Fields: fields},
		},
	}
	rec.Deal.Parties = append(rec.Deal.Parties, borrower)
	return rec
}
