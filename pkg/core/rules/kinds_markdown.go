package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"loanforge/pkg/core/utils"
)

var markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

func parseMarkdown(src string) (ast.Node, []byte) {
	source := []byte(utils.CleanMarkdown(src))
	return markdownParser.Parse(text.NewReader(source)), source
}

func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		} else {
			b.WriteString(nodeText(c, source))
		}
	}
	return b.String()
}

// extractHeading walks the Markdown AST for the first heading at
// r.Level and captures its text.
func extractHeading(r Rule, ctx *context) (interface{}, error) {
	doc, source := parseMarkdown(ctx.Text)
	var found string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == r.Level && found == "" {
			found = strings.TrimSpace(nodeText(h, source))
		}
		return ast.WalkContinue, nil
	})
	if found == "" {
		return nil, fmt.Errorf("no level-%d heading matched", r.Level)
	}
	return found, nil
}

var kvSameLine = regexp.MustCompile(`(?m)^\s*([^:\n]{1,80}):\s*(.+)$`)

// extractKeyValue matches "Key: value" on the same line, or the Docling
// newline form (key alone on a line, value on the next non-blank line),
// for r.KeyLabel.
func extractKeyValue(r Rule, ctx *context) (interface{}, error) {
	label := strings.ToLower(strings.TrimSpace(r.KeyLabel))
	lines := strings.Split(ctx.Text, "\n")

	for _, m := range kvSameLine.FindAllStringSubmatch(ctx.Text, -1) {
		if strings.ToLower(strings.TrimSpace(m[1])) == label {
			return strings.TrimRight(strings.TrimSpace(m[2]), " \t"), nil
		}
	}

	for i, line := range lines {
		if strings.ToLower(strings.TrimSpace(strings.TrimSuffix(line, ":"))) != label {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			v := strings.TrimSpace(lines[j])
			if v == "" {
				continue
			}
			return strings.TrimRight(v, " \t"), nil
		}
	}
	return nil, fmt.Errorf("key_value label %q not found", r.KeyLabel)
}

// extractTable locates the pipe table whose header row contains every
// header keyword (case-insensitive) within its first 3 rows, then
// either cell-picks a single value (RowLabel x ColumnName) or emits one
// sub-record per data row per r.Columns.
func extractTable(r Rule, ctx *context) (interface{}, error) {
	doc, source := parseMarkdown(ctx.Text)
	var target *east.Table
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || target != nil {
			return ast.WalkContinue, nil
		}
		t, ok := n.(*east.Table)
		if !ok {
			return ast.WalkContinue, nil
		}
		if tableHeaderMatches(t, source, r.HeaderKeywords) {
			target = t
		}
		return ast.WalkContinue, nil
	})
	if target == nil {
		return nil, fmt.Errorf("no table matched header keywords %v", r.HeaderKeywords)
	}

	header := tableRowCells(firstRowOf(target), source)
	dataRows := dataRowsOf(target)

	if r.RowLabel != "" && r.ColumnName != "" {
		colIdx := indexOfHeader(header, r.ColumnName)
		if colIdx == -1 {
			return nil, fmt.Errorf("column %q not found in table", r.ColumnName)
		}
		for _, row := range dataRows {
			cells := tableRowCells(row, source)
			if len(cells) == 0 {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(cells[0]), strings.TrimSpace(r.RowLabel)) && colIdx < len(cells) {
				return currencyToFloatOrNil(cells[colIdx]), nil
			}
		}
		return nil, fmt.Errorf("row label %q not found", r.RowLabel)
	}

	if len(r.Columns) > 0 {
		stringCols := map[string]bool{}
		for _, c := range r.StringColumns {
			stringCols[c] = true
		}

		var records []interface{}
		for i, row := range dataRows {
			if i < r.SkipHeaderRows {
				continue
			}
			cells := tableRowCells(row, source)
			if r.SkipTotalRows && len(cells) > 0 && strings.Contains(strings.ToLower(cells[0]), "total") {
				continue
			}
			record := map[string]interface{}{}
			for _, col := range r.Columns {
				idx := indexOfHeader(header, col.Header)
				if idx == -1 || idx >= len(cells) {
					continue
				}
				if stringCols[col.Name] {
					record[col.Name] = strings.TrimSpace(cells[idx])
				} else {
					record[col.Name] = currencyToFloatOrNil(cells[idx])
				}
			}
			records = append(records, record)
		}
		return records, nil
	}

	return nil, fmt.Errorf("table rule %s specifies neither cell-pick nor column map", r.ID)
}

func tableHeaderMatches(t *east.Table, source []byte, keywords []string) bool {
	cells := tableRowCells(firstRowOf(t), source)
	for i, row := range dataRowsOf(t) {
		if i >= 2 {
			break
		}
		cells = append(cells, tableRowCells(row, source)...)
	}
	header := strings.ToLower(strings.Join(cells, " "))
	for _, kw := range keywords {
		if !strings.Contains(header, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

func firstRowOf(t *east.Table) ast.Node {
	for c := t.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TableHeader); ok {
			return c
		}
	}
	return nil
}

func dataRowsOf(t *east.Table) []ast.Node {
	var rows []ast.Node
	for c := t.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*east.TableRow); ok {
			rows = append(rows, c)
		}
	}
	return rows
}

func tableRowCells(row ast.Node, source []byte) []string {
	if row == nil {
		return nil
	}
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		cells = append(cells, strings.TrimSpace(nodeText(c, source)))
	}
	return cells
}

func indexOfHeader(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}
