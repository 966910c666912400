package models

// RelationalOperation is the write mode a relational row requests at
// insert time.
type RelationalOperation string

const (
	OpInsert RelationalOperation = "insert"
	OpUpsert RelationalOperation = "upsert"
)

// Row is one record destined for a relational table. Ref is stable
// within the enclosing RelationalPayload; Refs holds every "_<name>_ref"
// internal foreign-key placeholder the row carries, keyed by the FK
// column name (e.g. "_customer_ref"); Fields holds everything else.
type Row struct {
	Ref       string                 `json:"_ref"`
	Operation RelationalOperation    `json:"_operation"`
	Refs      map[string]string      `json:"-"`
	Fields    map[string]interface{} `json:"-"`
}

// PayloadMetadata records row/table counts and the run timestamp.
type PayloadMetadata struct {
	TableCounts map[string]int `json:"table_counts"`
	TotalRows   int            `json:"total_rows"`
	GeneratedAt string         `json:"generated_at"`
}

// RelationalPayload maps destination-table name to its ordered row
// sequence. Every "_x_ref" a row carries must resolve to some row's Ref
// in the same payload, or be empty.
type RelationalPayload struct {
	Metadata PayloadMetadata    `json:"_metadata"`
	Tables   map[string][]*Row `json:"-"`
}

// NewRelationalPayload returns an empty payload ready to accumulate rows.
func NewRelationalPayload() *RelationalPayload {
	return &RelationalPayload{Tables: map[string][]*Row{}}
}

// AddRow appends row to table and returns it for chaining Refs/Fields
// population.
func (p *RelationalPayload) AddRow(table string, row *Row) *Row {
	if row.Refs == nil {
		row.Refs = map[string]string{}
	}
	if row.Fields == nil {
		row.Fields = map[string]interface{}{}
	}
	p.Tables[table] = append(p.Tables[table], row)
	return row
}

// Finalize computes _metadata from the current table contents. Call
// once all rows are added.
func (p *RelationalPayload) Finalize(generatedAt string) {
	counts := map[string]int{}
	total := 0
	for table, rows := range p.Tables {
		counts[table] = len(rows)
		total += len(rows)
	}
	p.Metadata = PayloadMetadata{TableCounts: counts, TotalRows: total, GeneratedAt: generatedAt}
}
