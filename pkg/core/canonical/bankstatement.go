package canonical

import "loanforge/pkg/models"

// bankStatementStrategy maps the "bank_" prefix family onto a borrower
// asset entry; bank statements never carry borrower identity on their
// own, so the record is usually consumed through the Merger rather than
// emitted standalone.
func bankStatementStrategy(flat models.FlatExtraction, meta models.DocumentMetadata) *models.CanonicalRecord {
	rec := models.NewCanonicalRecord(meta.SourceDocumentType, meta.SchemaVersion)
	rec.DocumentMetadata = meta

	borrower := models.Party{
		Individual: models.Individual{FullName: str(flat, "bank_account_holder_name")},
		PartyRole:  models.EnumValue{Value: models.PartyRoleBorrower},
		Assets:     []models.Asset{bankAssetFromFlat(flat)},
	}
	rec.Deal.Parties = append(rec.Deal.Parties, borrower)
	return rec
}
