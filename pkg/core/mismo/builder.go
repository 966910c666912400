// Package mismo emits a CanonicalRecord as a MISMO-aligned XML document.
// Element order within the DEAL is fixed by the spec, so emission is
// done with a small ordered builder rather than reflection-driven
// struct marshaling: every Open/Close call appends in call order and
// a text element whose value is empty after trimming is dropped
// entirely. Container elements are written whether or not they end up
// with children; callers that want a container omitted skip opening it.
package mismo

import (
	"fmt"
	"strings"
)

// Builder accumulates an indented XML document by hand, emitting
// nothing for a Leaf whose trimmed text content is empty. Open/Close
// always write their tags.
type Builder struct {
	sb     strings.Builder
	indent int
}

// NewBuilder returns a Builder seeded with the XML declaration.
func NewBuilder() *Builder {
	b := &Builder{}
	b.sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	return b
}

func (b *Builder) writeIndent() {
	b.sb.WriteString(strings.Repeat("  ", b.indent))
}

// Open writes a start tag with optional attributes (name, value pairs)
// and increases the indent level for nested content.
func (b *Builder) Open(tag string, attrs ...string) {
	b.writeIndent()
	b.sb.WriteString("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		b.sb.WriteString(fmt.Sprintf(` %s="%s"`, attrs[i], escape(attrs[i+1])))
	}
	b.sb.WriteString(">\n")
	b.indent++
}

// Close writes the matching end tag and decreases the indent level.
func (b *Builder) Close(tag string) {
	b.indent--
	b.writeIndent()
	b.sb.WriteString("</" + tag + ">\n")
}

// Leaf emits a single-line element with text content, skipped entirely
// when value is empty after trimming — the spec's "non-null and
// non-empty-after-trim" emission rule.
func (b *Builder) Leaf(tag, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.writeIndent()
	b.sb.WriteString("<" + tag + ">" + escape(value) + "</" + tag + ">\n")
}

// String returns the accumulated document.
func (b *Builder) String() string {
	return b.sb.String()
}

func escape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return r.Replace(s)
}
