package mismo

import "loanforge/pkg/models"

// MigrateSchemaVersion updates a CanonicalRecord's DocumentMetadata to
// target a different MISMO schema version, mirroring the original
// extractor's schema_registry migration utility. The record's Deal tree
// is version-agnostic in this implementation, so migration is a
// metadata stamp rather than a structural rewrite.
func MigrateSchemaVersion(rec *models.CanonicalRecord, to string) *models.CanonicalRecord {
	migrated := *rec
	migrated.DocumentMetadata.SchemaVersion = to
	return &migrated
}
