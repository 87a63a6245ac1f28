// Package sanitize strips solutions and grading metadata out of a graded
// project tree so it can be handed to students.
//
// Matching is line oriented: a marker counts wherever it appears on a line,
// including inside comments or string literals.
//
// Exclusion and private_files globs are doublestar patterns: `**` crosses
// directories, and `*` also matches names starting with a dot, so `*.iml`
// removes `.hidden.iml` too. Shell globbing would skip such dotfiles.
package sanitize

import (
	"regexp"

	"github.com/kingrea/coursepack/internal/linefilter"
)

var (
	beginPrivatePattern = regexp.MustCompile(`BEGIN PRIVATE CODE`)
	endPrivatePattern   = regexp.MustCompile(`END PRIVATE CODE`)
	studentCodePattern  = regexp.MustCompile(`STUDENT CODE`)
)

// SourceState is the region the source filter is currently in.
type SourceState int

const (
	StatePublic SourceState = iota
	StatePrivate
)

func (s SourceState) String() string {
	if s == StatePrivate {
		return "PRIVATE"
	}
	return "PUBLIC"
}

// SourceFilter is the line-by-line state machine behind SanitizeSource.
//
// The begin marker flips the state before the drop check runs, so the marker
// line itself is dropped. An end marker is always dropped and returns to
// PUBLIC. A BEGIN with no matching END hides the rest of the file.
type SourceFilter struct {
	state SourceState
}

// NewSourceFilter starts in the PUBLIC state.
func NewSourceFilter() *SourceFilter {
	return &SourceFilter{state: StatePublic}
}

// State reports the current region.
func (f *SourceFilter) State() SourceState {
	return f.state
}

// Line implements linefilter.Decision.
func (f *SourceFilter) Line(line string) (string, bool) {
	if beginPrivatePattern.MatchString(line) {
		f.state = StatePrivate
	}
	if endPrivatePattern.MatchString(line) {
		f.state = StatePublic
		return "", false
	}
	if studentCodePattern.MatchString(line) || f.state == StatePrivate {
		return "", false
	}
	return line, true
}

// SanitizeSource removes private regions and STUDENT CODE marker lines from
// a solution source file in place.
func SanitizeSource(path string) error {
	return linefilter.Apply(path, NewSourceFilter().Line)
}
