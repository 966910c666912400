package rules

import (
	"fmt"
	"strings"
)

// Output accumulates a single document's extraction. In flat mode only
// Flat is populated; in nested mode only Nested is populated.
type Output struct {
	Flat   map[string]interface{}
	Nested map[string]interface{}
}

func newOutput() *Output {
	return &Output{Flat: map[string]interface{}{}, Nested: map[string]interface{}{}}
}

// handler is the shape every rule kind's dispatch entry implements.
// ctx carries whatever shared, already-extracted state a computed rule
// might read back from (earlier flat keys / nested paths in the same
// run).
type handler func(r Rule, ctx *context) (interface{}, error)

var dispatch = map[Kind]handler{
	KindHeading:    extractHeading,
	KindKeyValue:   extractKeyValue,
	KindTable:      extractTable,
	KindCheckbox:   extractCheckbox,
	KindPositional: extractPositional,
	KindSection:    extractSection,
	KindRegex:      extractRegex,
	KindStatic:     extractStatic,
	KindComputed:   extractComputed,
}

// context is the per-document extraction state every handler reads
// from and the engine uses to route a handler's result to its
// destination.
type context struct {
	Text   string
	Output *Output
}

// Engine interprets one DocumentType's rule file against already-
// acquired text (Markdown or OCR per the rule kind's input modality).
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Extract runs every rule in file against text in mode, routing each
// rule's result per §4.D's output-mode rules. Returns the accumulated
// Output plus every per-rule failure — a RuleError never aborts the
// document; extraction simply continues with a reduced result.
func (e *Engine) Extract(text string, file RuleFile, mode Mode) (*Output, []RuleError) {
	out := newOutput()
	ctx := &context{Text: text, Output: out}
	var errs []RuleError

	for _, rule := range file.Rules {
		h, ok := dispatch[rule.Type]
		if !ok {
			errs = append(errs, RuleError{RuleID: rule.ID, Err: fmt.Errorf("unknown rule type %q: skipped", rule.Type)})
			continue
		}

		value, err := runIsolated(h, rule, ctx)
		if err != nil {
			errs = append(errs, RuleError{RuleID: rule.ID, Err: err})
			continue
		}
		if value == nil && len(rule.Groups) == 0 {
			continue
		}
		route(rule, value, mode, out)
	}

	return out, errs
}

// runIsolated calls h and converts any panic into a RuleError so one
// bad rule (e.g. an out-of-range slice access in a hand-written capture
// regex) can never abort the whole document.
func runIsolated(h handler, r Rule, ctx *context) (result interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return h(r, ctx)
}

// route places value at its destination per output-mode routing: in
// flat mode Key takes precedence (multi-group regex fans into
// GroupsKeys); in nested mode TargetPath is used (multi-group regex
// fans into Groups).
func route(r Rule, value interface{}, mode Mode, out *Output) {
	if multi, ok := value.(map[string]interface{}); ok && (len(r.Groups) > 0 || len(r.GroupsKeys) > 0) {
		if mode == ModeFlat {
			for group, key := range r.GroupsKeys {
				if v, present := multi[group]; present {
					out.Flat[key] = v
				}
			}
		} else {
			for group, path := range r.Groups {
				if v, present := multi[group]; present {
					setNestedPath(out.Nested, path, v)
				}
			}
		}
		return
	}

	if mode == ModeFlat && r.Key != "" {
		out.Flat[r.Key] = value
		return
	}
	if mode == ModeNested && r.TargetPath != "" {
		setNestedPath(out.Nested, r.TargetPath, value)
		return
	}
	// Fall back to whichever destination is populated, so a rule file
	// that supplies both is still honored outside its primary mode.
	if r.Key != "" {
		out.Flat[r.Key] = value
	}
	if r.TargetPath != "" {
		setNestedPath(out.Nested, r.TargetPath, value)
	}
}

// setNestedPath writes value at a dotted path with optional "[i]"
// sequence indices, creating intermediate maps/slices as needed.
func setNestedPath(root map[string]interface{}, path string, value interface{}) {
	segments := splitPath(path)
	cur := root
	for i, seg := range segments {
		last := i == len(segments)-1
		name, idx, isIndexed := parseSegment(seg)

		if !isIndexed {
			if last {
				cur[name] = value
				return
			}
			next, ok := cur[name].(map[string]interface{})
			if !ok {
				next = map[string]interface{}{}
				cur[name] = next
			}
			cur = next
			continue
		}

		list, _ := cur[name].([]interface{})
		for len(list) <= idx {
			list = append(list, map[string]interface{}{})
		}
		cur[name] = list

		if last {
			list[idx] = value
			return
		}
		next, ok := list[idx].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			list[idx] = next
		}
		cur = next
	}
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

// parseSegment splits "employment[0]" into ("employment", 0, true); a
// plain segment returns (seg, 0, false).
func parseSegment(seg string) (name string, idx int, indexed bool) {
	open := strings.IndexByte(seg, '[')
	if open == -1 || !strings.HasSuffix(seg, "]") {
		return seg, 0, false
	}
	name = seg[:open]
	var n int
	fmt.Sscanf(seg[open+1:len(seg)-1], "%d", &n)
	return name, n, true
}
