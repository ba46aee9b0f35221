package report

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

const wingetSample = `Name                       Id                          Version      Available    Source
---------------------------------------------------------------------------------------
Mozilla Firefox            Mozilla.Firefox             128.0        129.0.1      winget
7-Zip 24.07 (x64)          7zip.7zip                   24.07        24.08        winget
Visual Studio Code         Microsoft.VisualStudioCode  1.91.0       1.92.1       winget
3 upgrades available.
`

func TestParse_FixedColumns(t *testing.T) {
	p := NewParser(nil)
	got := p.Parse(wingetSample)

	want := []Record{
		{Name: "Mozilla Firefox", ID: "Mozilla.Firefox", Current: "128.0", Available: "129.0.1", Source: "winget"},
		{Name: "7-Zip 24.07 (x64)", ID: "7zip.7zip", Current: "24.07", Available: "24.08", Source: "winget"},
		{Name: "Visual Studio Code", ID: "Microsoft.VisualStudioCode", Current: "1.91.0", Available: "1.92.1", Source: "winget"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParse_TruncatedLinesExcluded(t *testing.T) {
	raw := `Name                Id                  Version   Available   Source
---------------------------------------------------------------------
Good Package        Good.Package        1.0       2.0         winget
Truncated Packag<   Truncated.Packag<   1.0       2.0         winget
2 upgrades available.
`
	var logged []string
	p := NewParser(func(format string, args ...interface{}) {
		logged = append(logged, fmt.Sprintf(format, args...))
	})
	got := p.Parse(raw)

	if len(got) != 1 {
		t.Fatalf("Parse() returned %d records, want 1: %+v", len(got), got)
	}
	if got[0].ID != "Good.Package" {
		t.Errorf("Parse() kept %q, want Good.Package", got[0].ID)
	}

	// The exclusion is surfaced, not silent.
	found := false
	for _, msg := range logged {
		if strings.Contains(msg, "truncated") && strings.Contains(msg, "Truncated.Packag") {
			found = true
		}
	}
	if !found {
		t.Errorf("no truncation diagnostic emitted, logged: %v", logged)
	}
}

func TestParse_NoHeader(t *testing.T) {
	p := NewParser(nil)
	if got := p.Parse("No installed package found matching input criteria.\n"); got != nil {
		t.Errorf("Parse() = %+v, want nil", got)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	p := NewParser(nil)
	if got := p.Parse(""); got != nil {
		t.Errorf("Parse() = %+v, want nil", got)
	}
}

func TestParse_ExplicitTargetingSection(t *testing.T) {
	raw := `Name        Id          Version   Available   Source
----------------------------------------------------
First App   First.App   1.0       1.1         winget
1 upgrade available.

The following packages have an upgrade available, but require explicit targeting for upgrade:
Name        Id          Version   Available   Source
----------------------------------------------------
Pinned App  Pinned.App  2.0       3.0         winget
1 upgrade available.
`
	p := NewParser(nil)
	got := p.Parse(raw)

	if len(got) != 2 {
		t.Fatalf("Parse() returned %d records, want 2: %+v", len(got), got)
	}
	if got[0].ID != "First.App" || got[1].ID != "Pinned.App" {
		t.Errorf("Parse() IDs = %s, %s; want First.App, Pinned.App", got[0].ID, got[1].ID)
	}
}

func TestParse_DuplicateIDLastWins(t *testing.T) {
	raw := `Name        Id        Version   Available   Source
--------------------------------------------------
Some App    Dup.App   1.0       1.1         winget
Other App   Uniq.App  2.0       2.1         winget
Some App    Dup.App   1.0       1.2         winget
3 upgrades available.
`
	p := NewParser(nil)
	got := p.Parse(raw)

	if len(got) != 2 {
		t.Fatalf("Parse() returned %d records, want 2: %+v", len(got), got)
	}
	// Later row wins but keeps the original position.
	if got[0].ID != "Dup.App" || got[0].Available != "1.2" {
		t.Errorf("Parse()[0] = %+v, want Dup.App at 1.2", got[0])
	}
	if got[1].ID != "Uniq.App" {
		t.Errorf("Parse()[1] = %+v, want Uniq.App", got[1])
	}
}

func TestParse_DelimiterFallback(t *testing.T) {
	// No recognizable Id label in the header forces the splitter path.
	raw := `Name          Package       Version   Available
-----------------------------------------------
Some App      Some.App      1.0       1.1
1 upgrade available.
`
	p := NewParser(nil)
	got := p.Parse(raw)

	if len(got) != 1 {
		t.Fatalf("Parse() returned %d records, want 1: %+v", len(got), got)
	}
	want := Record{Name: "Some App", ID: "Some.App", Current: "1.0", Available: "1.1"}
	if got[0] != want {
		t.Errorf("Parse()[0] = %+v, want %+v", got[0], want)
	}
}

func TestParse_UnicodeNameAlignment(t *testing.T) {
	// Column offsets are rune-based; a non-ASCII name must not shift the
	// remaining cells.
	recs := []Record{
		{Name: "Café Client", ID: "Cafe.Client", Current: "1.0", Available: "1.1", Source: "winget"},
		{Name: "Plain App", ID: "Plain.App", Current: "2.0", Available: "2.1", Source: "winget"},
	}
	p := NewParser(nil)
	got := p.Parse(Format(recs))
	if !reflect.DeepEqual(got, recs) {
		t.Errorf("Parse(Format()) = %+v, want %+v", got, recs)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	recs := []Record{
		{Name: "Mozilla Firefox", ID: "Mozilla.Firefox", Current: "128.0", Available: "129.0.1", Source: "winget"},
		{Name: "7-Zip 24.07 (x64)", ID: "7zip.7zip", Current: "24.07", Available: "24.08", Source: "winget"},
	}
	p := NewParser(nil)

	once := p.Parse(Format(recs))
	if !reflect.DeepEqual(once, recs) {
		t.Fatalf("Parse(Format(recs)) = %+v, want %+v", once, recs)
	}
	// Formatting the parse result must be a fixed point.
	if again := Format(once); again != Format(recs) {
		t.Errorf("Format not idempotent:\n%s\nvs\n%s", again, Format(recs))
	}
}

func TestFormat_Empty(t *testing.T) {
	if got := Format(nil); got != "0 upgrades available.\n" {
		t.Errorf("Format(nil) = %q", got)
	}
}

func TestFormat_SingularFooter(t *testing.T) {
	recs := []Record{{Name: "App", ID: "An.App", Current: "1", Available: "2", Source: "winget"}}
	out := Format(recs)
	if want := "1 upgrade available.\n"; !hasSuffix(out, want) {
		t.Errorf("Format() = %q, want suffix %q", out, want)
	}
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
