// Package task runs one concurrent upgrade task per package and drains
// each task's structured status output back into the registry.
//
// Tasks communicate exclusively through a line protocol on their output
// buffer, never by mutating shared state:
//
//	STATUS:<Downloading|Installing|Completed|Failed>:<id>
//	ERROR:<id>:<message>
//	ERRORDETAIL:<id>:<text>
//
// Lines outside the protocol are ignored by the updater but surfaced in
// the debug trace.
package task

import (
	"strings"

	"github.com/upsweep-dev/upsweep/internal/registry"
)

// EventKind tags a parsed protocol line.
type EventKind int

const (
	KindUnrecognized EventKind = iota
	KindStatus
	KindError
	KindErrorDetail
)

// Event is the typed form of one protocol line. Raw text never crosses
// this boundary: the updater operates on events only.
type Event struct {
	Kind  EventKind
	Phase registry.State // valid only for KindStatus
	ID    string
	Text  string // message for KindError, detail for KindErrorDetail
}

const (
	statusPrefix      = "STATUS:"
	errorPrefix       = "ERROR:"
	errorDetailPrefix = "ERRORDETAIL:"
)

// ParseEvent interprets a single output line. Anything that does not
// match a known prefix, names an unknown phase, or is missing fields
// comes back as KindUnrecognized.
func ParseEvent(line string) Event {
	switch {
	case strings.HasPrefix(line, statusPrefix):
		rest := line[len(statusPrefix):]
		phase, id, ok := strings.Cut(rest, ":")
		if !ok || id == "" {
			return Event{}
		}
		state, known := registry.PhaseFromName(phase)
		if !known {
			return Event{}
		}
		return Event{Kind: KindStatus, Phase: state, ID: id}

	case strings.HasPrefix(line, errorDetailPrefix):
		id, text, ok := strings.Cut(line[len(errorDetailPrefix):], ":")
		if !ok || id == "" {
			return Event{}
		}
		return Event{Kind: KindErrorDetail, ID: id, Text: text}

	case strings.HasPrefix(line, errorPrefix):
		id, text, ok := strings.Cut(line[len(errorPrefix):], ":")
		if !ok || id == "" {
			return Event{}
		}
		return Event{Kind: KindError, ID: id, Text: text}
	}
	return Event{}
}

// StatusLine builds a STATUS protocol line.
func StatusLine(phase registry.State, id string) string {
	return statusPrefix + phase.String() + ":" + id
}

// ErrorLine builds an ERROR protocol line.
func ErrorLine(id, message string) string {
	return errorPrefix + id + ":" + message
}

// ErrorDetailLine builds an ERRORDETAIL protocol line.
func ErrorDetailLine(id, text string) string {
	return errorDetailPrefix + id + ":" + text
}
