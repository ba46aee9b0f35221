// Package report parses the tabular upgrade report emitted by winget.
// The report has no stable schema: column positions shift with content
// width, long values are truncated, and pinned packages are listed in a
// separate trailing section. Parsing is defensive throughout.
package report

// Record describes one upgradeable package row.
type Record struct {
	// Name is the display name, e.g. "Mozilla Firefox".
	Name string
	// ID is the unique package identifier, e.g. "Mozilla.Firefox".
	// Every other component keys on ID.
	ID string
	// Current is the installed version.
	Current string
	// Available is the version offered by the source.
	Available string
	// Source is the reporting source (usually "winget"). May be empty
	// when the report omits the Source column.
	Source string
}
