package textacq

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLTableSanitizer renders an HTML document to Markdown with table
// fences preserved, for the (uncommon but real) case where a structured
// extractor hands back HTML rather than already-fenced Markdown — e.g.
// web-rendered disclosure forms. It uses a virtual-grid algorithm to
// resolve colspan/rowspan before emitting pipe-delimited rows, so a
// merged header cell doesn't desync the column count of the data rows
// beneath it.
type HTMLTableSanitizer struct{}

// Sanitize walks every <table> in htmlContent and replaces it in-place
// with a pipe-delimited Markdown table; everything else passes through
// as plain text stripped of tags.
func (HTMLTableSanitizer) Sanitize(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("textacq: parse html: %w", err)
	}

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		md := convertTableToMarkdown(table)
		table.ReplaceWithHtml("\n" + md + "\n")
	})

	text := doc.Find("body")
	if text.Length() == 0 {
		return doc.Text(), nil
	}
	return text.Text(), nil
}

// convertTableToMarkdown builds a virtual grid sized to the widest row
// (accounting for colspan), fills it honoring rowspan, and renders a
// GFM-style pipe table with a header separator after the first row.
func convertTableToMarkdown(table *goquery.Selection) string {
	rows := table.Find("tr")
	rowCount := rows.Length()
	if rowCount == 0 {
		return ""
	}

	maxCols := 0
	rows.Each(func(_ int, tr *goquery.Selection) {
		cols := 0
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			span, _ := strconv.Atoi(cell.AttrOr("colspan", "1"))
			if span < 1 {
				span = 1
			}
			cols += span
		})
		if cols > maxCols {
			maxCols = cols
		}
	})
	if maxCols == 0 {
		return ""
	}

	grid := make([][]string, rowCount)
	filled := make([][]bool, rowCount)
	for i := range grid {
		grid[i] = make([]string, maxCols)
		filled[i] = make([]bool, maxCols)
	}

	rows.Each(func(rowIdx int, tr *goquery.Selection) {
		col := 0
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			for col < maxCols && filled[rowIdx][col] {
				col++
			}
			colspan, _ := strconv.Atoi(cell.AttrOr("colspan", "1"))
			rowspan, _ := strconv.Atoi(cell.AttrOr("rowspan", "1"))
			if colspan < 1 {
				colspan = 1
			}
			if rowspan < 1 {
				rowspan = 1
			}
			text := strings.Join(strings.Fields(cell.Text()), " ")
			for r := 0; r < rowspan && rowIdx+r < rowCount; r++ {
				for c := 0; c < colspan && col+c < maxCols; c++ {
					if r == 0 && c == 0 {
						grid[rowIdx+r][col+c] = text
					}
					filled[rowIdx+r][col+c] = true
				}
			}
			col += colspan
		})
	})

	var b strings.Builder
	for r := 0; r < rowCount; r++ {
		b.WriteString("| ")
		b.WriteString(strings.Join(grid[r], " | "))
		b.WriteString(" |\n")
		if r == 0 {
			seps := make([]string, maxCols)
			for i := range seps {
				seps[i] = "---"
			}
			b.WriteString("| ")
			b.WriteString(strings.Join(seps, " | "))
			b.WriteString(" |\n")
		}
	}
	return b.String()
}
