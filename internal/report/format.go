package report

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

var columnLabels = [5]string{"Name", "Id", "Version", "Available", "Source"}

// Format renders records as a canonical winget-style table: header,
// divider, one row per record, summary footer. Parsing the result yields
// the same records. Used for --dry-run output and as the parser's
// round-trip fixture.
func Format(recs []Record) string {
	if len(recs) == 0 {
		return "0 upgrades available.\n"
	}

	widths := [5]int{}
	for i, label := range columnLabels {
		widths[i] = utf8.RuneCountInString(label)
	}
	for _, rec := range recs {
		for i, cell := range recordCells(rec) {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells [5]string) {
		var row strings.Builder
		for i, cell := range cells {
			row.WriteString(cell)
			if i < len(cells)-1 {
				row.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)+2))
			}
		}
		b.WriteString(strings.TrimRight(row.String(), " "))
		b.WriteString("\n")
	}

	writeRow(columnLabels)
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	b.WriteString(strings.Repeat("-", total-2))
	b.WriteString("\n")
	for _, rec := range recs {
		writeRow(recordCells(rec))
	}

	noun := "upgrades"
	if len(recs) == 1 {
		noun = "upgrade"
	}
	fmt.Fprintf(&b, "%d %s available.\n", len(recs), noun)
	return b.String()
}

func recordCells(rec Record) [5]string {
	return [5]string{rec.Name, rec.ID, rec.Current, rec.Available, rec.Source}
}
