// Package render draws the live upgrade view: a fixed-height block that
// is rewritten in place as package states change, with a cheap
// animation-only path when nothing but the spinner moved.
package render

import (
	"fmt"
	"io"
)

// Terminal is a cursor-addressable output surface over an io.Writer.
// All motion is relative to the drawn block; requests that would leave
// the block are skipped silently. Display is best-effort: a write that
// cannot land correctly is dropped, never escalated.
type Terminal struct {
	w io.Writer
	// height is the block height the renderer registered; motions beyond
	// it are out of bounds.
	height int
}

// NewTerminal wraps w, normally os.Stdout.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// SetBlockHeight registers the height of the managed block.
func (t *Terminal) SetBlockHeight(n int) {
	t.height = n
}

// CursorUp moves up n lines. Out-of-bounds motions are dropped.
func (t *Terminal) CursorUp(n int) bool {
	if n < 1 || n > t.height {
		return false
	}
	fmt.Fprintf(t.w, "\x1b[%dA", n)
	return true
}

// CursorDown moves down n lines.
func (t *Terminal) CursorDown(n int) {
	if n < 1 {
		return
	}
	fmt.Fprintf(t.w, "\x1b[%dB", n)
}

// CursorCol moves to the zero-based column col on the current line.
func (t *Terminal) CursorCol(col int) {
	fmt.Fprintf(t.w, "\x1b[%dG", col+1)
}

// ClearLine erases the current line and returns to column zero.
func (t *Terminal) ClearLine() {
	fmt.Fprint(t.w, "\x1b[2K\r")
}

// Print writes s as-is.
func (t *Terminal) Print(s string) {
	fmt.Fprint(t.w, s)
}
