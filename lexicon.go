package lexer

import (
	"sync"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/lexer/nfa"
)

// literalScreenThreshold is the minimum number of Literal rules before
// a Lexicon bothers building an Aho-Corasick automaton over their
// texts. Below it, each literal's own rune-chain NFA is already as
// cheap to step as consulting a multi-pattern automaton would be, so
// building one only adds construction cost with no payoff.
const literalScreenThreshold = 2

// ruleDecl is one as-yet-uncompiled rule declaration accumulated by a
// LexiconBuilder, in the order it was declared.
type ruleDecl struct {
	id   int
	kind ruleKind
	text string
}

// LexiconBuilder accumulates rule declarations and an ignore-character
// set, then compiles everything into an immutable Lexicon. A
// LexiconBuilder is not safe for concurrent use; build one lexicon
// from one goroutine and share the result.
type LexiconBuilder struct {
	ignore map[rune]struct{}
	decls  []ruleDecl
}

// NewLexiconBuilder creates an empty builder.
func NewLexiconBuilder() *LexiconBuilder {
	return &LexiconBuilder{ignore: make(map[rune]struct{})}
}

// IgnoreChars adds every code point of chars to the set skipped
// between tokens. Characters are added per code point, not per
// grapheme cluster: IgnoreChars(" \t\r\n") adds four entries.
func (b *LexiconBuilder) IgnoreChars(chars string) *LexiconBuilder {
	for _, c := range chars {
		b.ignore[c] = struct{}{}
	}
	return b
}

// Pattern appends a regular-expression rule. id is the caller-chosen
// value reported back on a match; it need not be unique.
func (b *LexiconBuilder) Pattern(id int, pattern string) *LexiconBuilder {
	b.decls = append(b.decls, ruleDecl{id: id, kind: patternRule, text: pattern})
	return b
}

// Literal appends a fixed-text rule, matched verbatim rather than
// interpreted as a regular expression.
func (b *LexiconBuilder) Literal(id int, literal string) *LexiconBuilder {
	b.decls = append(b.decls, ruleDecl{id: id, kind: literalRule, text: literal})
	return b
}

// Build compiles every declared rule and finalizes an immutable
// Lexicon. The first compile failure aborts the build; the partial
// lexicon is discarded.
func (b *LexiconBuilder) Build() (*Lexicon, error) {
	rules := make([]*compiledRule, 0, len(b.decls))
	var literalTexts [][]byte

	for _, d := range b.decls {
		cr, err := compileDecl(d)
		if err != nil {
			return nil, err
		}
		rules = append(rules, cr)
		if d.kind == literalRule {
			literalTexts = append(literalTexts, []byte(d.text))
		}
	}

	lex := &Lexicon{
		ignoreChars: b.ignore,
		rules:       rules,
	}
	lex.ignoreAllASCII = true
	for c := range b.ignore {
		if c >= 128 {
			lex.ignoreAllASCII = false
			continue
		}
		lex.ignoreASCII[c] = true
	}
	if len(literalTexts) >= literalScreenThreshold {
		auto, err := buildLiteralAutomaton(literalTexts)
		if err == nil {
			lex.literalScreen = auto
		}
		// A failure building the accelerator is not fatal to the
		// lexicon: every rule still matches correctly via its NFA,
		// just without the Aho-Corasick fast-reject on literal
		// candidates.
	}
	return lex, nil
}

func compileDecl(d ruleDecl) (*compiledRule, error) {
	switch d.kind {
	case literalRule:
		if d.text == "" {
			return nil, &EmptyLiteralError{RuleID: d.id}
		}
		n, err := nfa.CompileLiteral(d.text)
		if err != nil {
			return nil, &RuleCompileError{RuleID: d.id, Err: err}
		}
		return &compiledRule{
			id: d.id, kind: literalRule, text: d.text,
			nfa: n, startingChars: n.StartingChars(),
		}, nil

	default: // patternRule
		n, err := nfa.Compile(d.text)
		if err != nil {
			return nil, &RuleCompileError{RuleID: d.id, Err: err}
		}
		return &compiledRule{
			id: d.id, kind: patternRule, text: d.text,
			nfa: n, startingChars: n.StartingChars(),
		}, nil
	}
}

func buildLiteralAutomaton(texts [][]byte) (*ahocorasick.Automaton, error) {
	builder := ahocorasick.NewBuilder()
	for _, t := range texts {
		builder.AddPattern(t)
	}
	return builder.Build()
}

// Lexicon is a finalized, immutable collection of compiled rules plus
// an ignore-character set. It is safe to share by read-only reference
// across any number of concurrently running Lexers: each Lexer clones
// only the per-rule ExecutionState, never the NFA itself.
type Lexicon struct {
	ignoreChars map[rune]struct{}
	rules       []*compiledRule

	// ignoreASCII and ignoreAllASCII let the scanning driver skip runs
	// of ignored characters with a byte table lookup instead of a full
	// UTF-8 decode per character — sound only while every declared
	// ignore character is itself ASCII.
	ignoreASCII    [128]bool
	ignoreAllASCII bool

	// literalScreen accelerates candidate selection once the lexicon
	// declares at least literalScreenThreshold Literal rules:
	// Aho-Corasick matches every pattern in a single left-to-right
	// pass, so a miss here proves no literal rule can match at the
	// current offset and the scanning driver can skip stepping their
	// NFAs entirely for that position. A hit is only ever used as a
	// hint — the driver still confirms the match by running the
	// candidate's own NFA, since this package only trusts
	// Automaton.Find's Start/End fields, never an assumed
	// pattern-identity mapping. Below the threshold it stays nil and
	// screenOutLiterals is a no-op.
	literalScreen *ahocorasick.Automaton

	prefixOnce sync.Once
	prefix     *prefixIndex
}

func (l *Lexicon) isIgnored(c rune) bool {
	_, ok := l.ignoreChars[c]
	return ok
}

// prefixIndex lazily builds and caches the lexicon's prefix index, so
// every Lexer sharing this Lexicon reuses the same lookup table
// instead of rebuilding it from each rule's starting_chars.
func (l *Lexicon) prefixIndex() *prefixIndex {
	l.prefixOnce.Do(func() {
		l.prefix = buildPrefixIndex(l.rules)
	})
	return l.prefix
}
