// Package nfa implements a Thompson-construction nondeterministic finite
// automaton over Unicode code points.
//
// An NFA is compiled from a regexp/syntax.Regexp tree (or assembled
// directly, rune by rune, for literal rules) and simulated with the
// longest-match algorithm a lexer needs: advance an active state set one
// code point at a time, test for acceptance, stop when the set dies.
// There is no DFA, no capture tracking, and no backtracking engine here —
// those concerns don't exist for a longest-match tokenizer.
package nfa

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFeature is wrapped by UnsupportedFeatureError; tests that
// only care about the category can match it with errors.Is.
var ErrUnsupportedFeature = errors.New("unsupported regex feature")

// errEmptyLiteral is wrapped by CompileError when CompileLiteral is
// asked to build an automaton for the empty string, which a lexicon
// rule can never usefully match.
var errEmptyLiteral = errors.New("literal rule text must not be empty")

// CompileError wraps a regexp/syntax parse failure with the offending
// pattern for context.
type CompileError struct {
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("nfa: invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// UnsupportedFeatureError reports a syntactically valid construct this
// package deliberately does not compile (anchors, word boundaries,
// non-greedy modifiers, bounded repetition, case-insensitive literals).
type UnsupportedFeatureError struct {
	Pattern string
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("nfa: pattern %q uses unsupported feature: %s", e.Pattern, e.Feature)
}

func (e *UnsupportedFeatureError) Unwrap() error {
	return ErrUnsupportedFeature
}

// BuildError indicates a malformed NFA was about to be produced by the
// Builder — a dangling or out-of-range state reference. This is always a
// bug in this package's construction code, never caller input, so callers
// of Compile should never see one in practice.
type BuildError struct {
	Message string
	StateID StateID
}

func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("nfa: build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("nfa: build error: %s", e.Message)
}
