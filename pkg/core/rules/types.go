// Package rules implements Component D, the Rule Engine: a universal
// interpreter for the seven rule kinds a per-DocumentType rule file
// declares, dispatching through a single static type->handler table and
// isolating each rule's failures from its neighbors.
package rules

// Kind names the seven rule kinds plus the two common ones. Unknown
// kinds are logged and skipped, never fatal.
type Kind string

const (
	KindHeading  Kind = "heading"
	KindKeyValue Kind = "key_value"
	KindTable    Kind = "table"
	KindCheckbox Kind = "checkbox"
	KindPositional Kind = "positional"
	KindSection  Kind = "section"
	KindRegex    Kind = "regex"
	KindStatic   Kind = "static"
	KindComputed Kind = "computed"
)

// Direction is the positional rule's capture direction.
type Direction string

const (
	DirectionAfter Direction = "after"
	DirectionRight Direction = "right"
	DirectionBelow Direction = "below"
)

// Transform names a deterministic, named value transform.
type Transform string

const (
	TransformAnnualToMonthly Transform = "annual_to_monthly"
	TransformToFloat         Transform = "to_float"
	TransformToInt           Transform = "to_int"
	TransformStripOCRNoise   Transform = "strip_ocr_noise"
)

// RegexGroupTarget is one destination a multi-group regex rule fans a
// named capture group out to.
type RegexGroupTarget struct {
	Group string `yaml:"group"`
	Key   string `yaml:"key"`
	Path  string `yaml:"path"`
}

// TableColumn describes one column of a table row-emit rule.
type TableColumn struct {
	Header string `yaml:"header"`
	Name   string `yaml:"name"`
}

// Rule is one entry in a DocumentType's rule file. Fields not relevant
// to Type are simply left zero; the dispatch handler for Type is the
// only code that reads its own fields.
type Rule struct {
	ID   string `yaml:"id"`
	Type Kind   `yaml:"type"`

	// Destination: target_path for nested mode, key for flat mode, or
	// both for multi-group rules (Groups/GroupsKeys).
	TargetPath string            `yaml:"target_path"`
	Key        string            `yaml:"key"`
	Groups     map[string]string `yaml:"groups"`
	GroupsKeys map[string]string `yaml:"groups_keys"`

	// heading
	Level int `yaml:"level"`

	// key_value
	KeyLabel string `yaml:"key_label"`

	// table
	HeaderKeywords []string      `yaml:"header_keywords"`
	RowLabel       string        `yaml:"row_label"`
	ColumnName     string        `yaml:"column_name"`
	Columns        []TableColumn `yaml:"columns"`
	SkipHeaderRows int           `yaml:"skip_header_rows"`
	SkipTotalRows  bool          `yaml:"skip_total_rows"`
	StringColumns  []string      `yaml:"string_columns"`

	// checkbox
	AnchorLabel  string            `yaml:"anchor_label"`
	Options      map[string]string `yaml:"options"` // option keyword -> emitted value
	WindowLines  int               `yaml:"window_lines"`

	// positional
	AnchorKeyword string    `yaml:"anchor_keyword"`
	Direction     Direction `yaml:"direction"`
	SkipLines     int       `yaml:"skip_lines"`
	CaptureRegex  string    `yaml:"capture_regex"`
	Transform     Transform `yaml:"transform"`

	// section
	StartMarker string `yaml:"start_marker"`
	EndMarker   string `yaml:"end_marker"`

	// regex
	Pattern string `yaml:"pattern"`
	Flags   string `yaml:"flags"`

	// static
	Value interface{} `yaml:"value"`

	// computed
	SourcePath string `yaml:"source_path"`
	SourceKey  string `yaml:"source_key"`
}

// RuleFile is the parsed contents of one DocumentType's rule file.
type RuleFile struct {
	DocType string `yaml:"doc_type"`
	Rules   []Rule `yaml:"rules"`
}

// Mode selects flat or nested output routing.
type Mode int

const (
	ModeFlat Mode = iota
	ModeNested
)

// RuleError records one rule's extraction failure. The Rule Engine
// isolates these per-rule; one bad rule never aborts the document.
type RuleError struct {
	RuleID string
	Err    error
}

func (e RuleError) Error() string {
	return e.RuleID + ": " + e.Err.Error()
}
