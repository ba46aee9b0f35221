package report

import (
	"regexp"
	"strings"
)

// Parser converts the raw winget upgrade report into Records.
type Parser struct {
	logf func(format string, args ...interface{})
}

// NewParser creates a Parser. The logf sink receives diagnostics for
// dropped lines and duplicate IDs; pass nil to discard them.
func NewParser(logf func(format string, args ...interface{})) *Parser {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	return &Parser{logf: logf}
}

var (
	// footerRe matches the section summary sentence, e.g. "12 upgrades available."
	footerRe = regexp.MustCompile(`^\d+ upgrade(s)? available\.`)
	// fieldsRe splits delimiter-based rows on runs of two or more spaces.
	fieldsRe = regexp.MustCompile(`\s{2,}`)
)

// explicitMarker introduces the trailing section of packages that winget
// only upgrades when targeted explicitly. They are still upgrade candidates.
const explicitMarker = "require explicit targeting"

// Parse splits raw into lines, flags truncated lines, and parses every
// section. A report with no recognizable header yields nil: nothing to
// upgrade is not an error.
func (p *Parser) Parse(raw string) []Record {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	malformed := make(map[int]bool)
	for i, ln := range lines {
		// winget renders truncation with a literal '<'; such lines are
		// missing data and must never be read as rows.
		if strings.Contains(ln, "<") {
			malformed[i] = true
			p.logf("parser: dropping truncated line %d: %q", i, ln)
		}
	}
	return p.ParseLines(lines, malformed)
}

// ParseLines parses a report already split into lines. Indices present in
// malformed are excluded from every section.
func (p *Parser) ParseLines(lines []string, malformed map[int]bool) []Record {
	start := findHeader(lines, 0, malformed)
	if start < 0 {
		return nil
	}

	records, end := p.parseSection(lines, start, malformed)

	// The explicit-targeting section has its own header and footer and is
	// appended after the standard section.
	if m := findMarker(lines, end); m >= 0 {
		if h := findHeader(lines, m+1, malformed); h >= 0 {
			more, _ := p.parseSection(lines, h, malformed)
			records = append(records, more...)
		}
	}

	return p.dedupe(records)
}

// parseSection consumes data lines following the header at index header
// until a footer sentence, the explicit-targeting marker, or end of input.
// Returns the records and the index where scanning stopped.
func (p *Parser) parseSection(lines []string, header int, malformed map[int]bool) ([]Record, int) {
	lay, fixed := headerLayout(lines[header])

	var recs []Record
	i := header + 1
	for ; i < len(lines); i++ {
		if malformed[i] {
			continue
		}
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "-") {
			continue
		}
		if footerRe.MatchString(trimmed) {
			i++
			break
		}
		if strings.Contains(trimmed, explicitMarker) {
			// Leave the marker for the caller to find.
			break
		}

		var rec Record
		var ok bool
		if fixed {
			rec, ok = lay.record(lines[i])
		} else {
			rec, ok = splitRecord(trimmed)
		}
		if !ok {
			p.logf("parser: dropping unparseable line %d: %q", i, lines[i])
			continue
		}
		recs = append(recs, rec)
	}
	return recs, i
}

// dedupe enforces ID uniqueness: the last row wins, earlier rows are
// replaced in place so ordering is preserved. Duplicates are a parser
// anomaly worth surfacing.
func (p *Parser) dedupe(recs []Record) []Record {
	if len(recs) == 0 {
		return nil
	}
	seen := make(map[string]int, len(recs))
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		if j, ok := seen[rec.ID]; ok {
			p.logf("parser: duplicate id %s, keeping later row", rec.ID)
			out[j] = rec
			continue
		}
		seen[rec.ID] = len(out)
		out = append(out, rec)
	}
	return out
}

// findHeader locates the next column header line at or after from.
func findHeader(lines []string, from int, malformed map[int]bool) int {
	for i := from; i < len(lines); i++ {
		if malformed[i] {
			continue
		}
		if strings.HasPrefix(lines[i], "Name") && strings.Contains(lines[i], "Available") {
			return i
		}
	}
	return -1
}

// findMarker locates the explicit-targeting marker sentence at or after from.
func findMarker(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if strings.Contains(lines[i], explicitMarker) {
			return i
		}
	}
	return -1
}

// layout holds the rune offsets of the header columns. Offsets are in
// runes, not bytes: data lines may carry non-ASCII names and winget aligns
// columns visually.
type layout struct {
	idCol    int
	verCol   int
	availCol int
	srcCol   int // -1 when the Source column is absent
}

// headerLayout derives column offsets from the header line. Reports false
// when the expected labels cannot be located, in which case the section
// falls back to delimiter-based splitting.
func headerLayout(header string) (layout, bool) {
	r := []rune(header)
	idCol := labelIndex(r, "Id", len("Name"))
	if idCol < 0 {
		return layout{}, false
	}
	verCol := labelIndex(r, "Version", idCol+len("Id"))
	if verCol < 0 {
		return layout{}, false
	}
	availCol := labelIndex(r, "Available", verCol+len("Version"))
	if availCol < 0 {
		return layout{}, false
	}
	srcCol := labelIndex(r, "Source", availCol+len("Available"))
	return layout{idCol: idCol, verCol: verCol, availCol: availCol, srcCol: srcCol}, true
}

// labelIndex finds label in r at or after from. The match must sit on a
// column boundary: preceded by a space and followed by a space or the end
// of the line.
func labelIndex(r []rune, label string, from int) int {
	l := []rune(label)
	if from < 0 {
		from = 0
	}
	for i := from; i+len(l) <= len(r); i++ {
		if i > 0 && r[i-1] != ' ' {
			continue
		}
		match := true
		for j := range l {
			if r[i+j] != l[j] {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if end := i + len(l); end < len(r) && r[end] != ' ' {
			continue
		}
		return i
	}
	return -1
}

// record extracts a Record by fixed column offsets. A line shorter than
// the Available column start plus one character is a wrapped or truncated
// row and is rejected.
func (l layout) record(line string) (Record, bool) {
	r := []rune(line)
	if len(r) < l.availCol+1 {
		return Record{}, false
	}
	cut := func(a, b int) string {
		if a >= len(r) {
			return ""
		}
		if b < 0 || b > len(r) {
			b = len(r)
		}
		return strings.TrimSpace(string(r[a:b]))
	}
	rec := Record{
		Name:    cut(0, l.idCol),
		ID:      cut(l.idCol, l.verCol),
		Current: cut(l.verCol, l.availCol),
	}
	if l.srcCol >= 0 {
		rec.Available = cut(l.availCol, l.srcCol)
		rec.Source = cut(l.srcCol, -1)
	} else {
		rec.Available = cut(l.availCol, -1)
	}
	if rec.ID == "" || rec.Available == "" {
		return Record{}, false
	}
	return rec, true
}

// splitRecord extracts a Record from a delimiter-based row: four or five
// fields separated by two or more spaces. Single spaces inside the Name
// field survive.
func splitRecord(trimmed string) (Record, bool) {
	f := fieldsRe.Split(trimmed, -1)
	if len(f) < 4 || len(f) > 5 {
		return Record{}, false
	}
	rec := Record{Name: f[0], ID: f[1], Current: f[2], Available: f[3]}
	if len(f) == 5 {
		rec.Source = f[4]
	}
	if rec.ID == "" || rec.Available == "" {
		return Record{}, false
	}
	return rec, true
}
