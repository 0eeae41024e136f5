package lexer

import "github.com/coregx/lexer/nfa"

// ruleKind distinguishes the two ways a rule's text can be declared.
// The two kinds differ only in how their NFA is compiled and in the
// precedence they carry into tie-breaking — there is no reason to
// model them as a type hierarchy.
type ruleKind uint8

const (
	patternRule ruleKind = iota
	literalRule
)

// precedence reports the tie-break weight of a rule's kind: literals
// outrank patterns when two rules match the same longest prefix.
func (k ruleKind) precedence() int {
	if k == literalRule {
		return 1
	}
	return 0
}

// compiledRule is one fully compiled lexicon entry. It is built once
// by LexiconBuilder.Build and then cloned per Lexer so each lexer gets
// its own ExecutionState while sharing the immutable NFA by pointer.
type compiledRule struct {
	id            int
	kind          ruleKind
	text          string // source pattern or literal text, for diagnostics
	nfa           *nfa.NFA
	startingChars []nfa.Range
}

func (r *compiledRule) precedence() int {
	return r.kind.precedence()
}

// liveRule is a compiledRule bound to one Lexer's private ExecutionState.
type liveRule struct {
	*compiledRule
	exec *nfa.ExecutionState
}

func (r *compiledRule) newLiveRule() *liveRule {
	return &liveRule{compiledRule: r, exec: r.nfa.NewExecutionState()}
}
