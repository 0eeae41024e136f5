package lexer

import (
	"io"
	"unicode/utf8"

	"github.com/coregx/lexer/internal/ascii"
)

// asciiLookahead bounds how much of the input skipIgnored's fast path
// inspects per iteration when deciding whether a run is pure ASCII.
// Large enough to amortize the check over realistic runs of
// indentation/whitespace, small enough to keep the re-scan on a
// mixed-content boundary cheap.
const asciiLookahead = 64

// Lexer scans one input string against a Lexicon, producing a lazy,
// finite sequence of tokens and lexing errors via repeated calls to
// Next. A Lexer is not safe for concurrent use — it owns mutable
// offset, position and per-rule scratch state — but many Lexers may
// run concurrently over the same Lexicon, since the Lexicon itself is
// never mutated after Build.
type Lexer struct {
	lex    *Lexicon
	rules  []*liveRule
	prefix *prefixIndex

	input      string
	inputBytes []byte // same bytes as input, converted once so the
	// ASCII-ignore fast path and the literal screen never re-convert a
	// string tail into a []byte on the steady-state path
	offset int
	pos    Position

	matches []matchCandidate // scratch, reused across every call to Next
}

type matchCandidate struct {
	ruleIdx int
	length  int // code points
}

// NewLexer constructs a Lexer over input bound to lex. The returned
// Lexer does not outlive input: Token.Text views point directly into
// it.
func NewLexer(lex *Lexicon, input string) *Lexer {
	rules := make([]*liveRule, len(lex.rules))
	for i, r := range lex.rules {
		rules[i] = r.newLiveRule()
	}
	return &Lexer{
		lex:        lex,
		rules:      rules,
		prefix:     lex.prefixIndex(),
		input:      input,
		inputBytes: []byte(input),
		offset:     0,
		pos:        startPosition(),
		matches:    make([]matchCandidate, 0, len(rules)),
	}
}

// Reset rewinds the Lexer to the start of its input — offset 0,
// position {1,1} — without touching the input itself. Per-rule
// ExecutionState needs no explicit rewind: LongestMatch reinitializes
// it on every call.
func (l *Lexer) Reset() {
	l.offset = 0
	l.pos = startPosition()
}

// Next returns the next token, lexing error, or io.EOF at end of
// input. A non-nil, non-io.EOF error is an *UnexpectedCharError: the
// Lexer has already advanced past the offending code point and
// remains usable for the following call. Once io.EOF is returned,
// every subsequent call returns io.EOF again.
func (l *Lexer) Next() (Token, error) {
	if !l.skipIgnored() {
		return Token{}, io.EOF
	}

	tail := l.input[l.offset:]
	c, size := utf8.DecodeRuneInString(tail)
	pos0 := l.pos

	candidates := l.prefix.lookup(c)
	if len(candidates) == 0 {
		l.advance(c, size)
		return Token{}, &UnexpectedCharError{Char: c, Pos: pos0}
	}

	skipLiterals := l.screenOutLiterals()

	l.matches = l.matches[:0]
	for _, ri := range candidates {
		r := l.rules[ri]
		if skipLiterals && r.kind == literalRule {
			continue
		}
		if length, ok := r.nfa.LongestMatch(tail, r.exec); ok {
			l.matches = append(l.matches, matchCandidate{ruleIdx: ri, length: length})
		}
	}

	best, ok := selectBest(l.matches, l.rules)
	if !ok {
		l.advance(c, size)
		return Token{}, &UnexpectedCharError{Char: c, Pos: pos0}
	}

	text := textForLength(tail, best.length)
	l.advanceText(text)
	rule := l.rules[best.ruleIdx]
	return Token{RuleID: rule.id, Text: text, Pos: pos0}, nil
}

// skipIgnored advances past any run of ignore_chars at the current
// offset. It returns false if the input is exhausted.
func (l *Lexer) skipIgnored() bool {
	for l.offset < len(l.input) {
		if l.lex.ignoreAllASCII {
			if n := l.asciiIgnoreRun(); n > 0 {
				continue
			}
		}
		c, size := utf8.DecodeRuneInString(l.input[l.offset:])
		if !l.lex.isIgnored(c) {
			return true
		}
		l.advance(c, size)
	}
	return false
}

// asciiIgnoreRun consumes a leading run of ASCII ignore characters
// using a byte table lookup instead of UTF-8 decoding, returning the
// number of bytes consumed. window is a slice of l.inputBytes, the
// persistent byte view converted once at construction, so this never
// allocates. It first asks internal/ascii.IsASCII whether the whole
// bounded lookahead window is ASCII — the common case for an
// indentation/whitespace run — and only falls back to
// FirstNonASCII's exact boundary when the window is mixed, so a
// multi-byte code point just past the window boundary is still
// decoded correctly by the caller on the next iteration.
func (l *Lexer) asciiIgnoreRun() int {
	end := l.offset + asciiLookahead
	if end > len(l.input) {
		end = len(l.input)
	}
	window := l.inputBytes[l.offset:end]

	safe := len(window)
	if !ascii.IsASCII(window) {
		safe = 0
		if idx := ascii.FirstNonASCII(window); idx >= 0 {
			safe = idx
		}
	}

	n := 0
	for n < safe && l.lex.ignoreASCII[window[n]] {
		n++
	}
	for i := 0; i < n; i++ {
		l.pos.advance(rune(window[i]))
	}
	l.offset += n
	return n
}

// screenOutLiterals reports whether every Literal rule can be safely
// skipped for this scan position: Aho-Corasick matches all literal
// patterns in one left-to-right pass over l.inputBytes, so a miss
// anchored exactly at the current offset proves none of them can
// begin a match here. Searching the persistent byte buffer from
// l.offset, rather than converting the remaining tail to a fresh
// []byte on every call, keeps this allocation-free in steady state.
func (l *Lexer) screenOutLiterals() bool {
	if l.lex.literalScreen == nil {
		return false
	}
	m := l.lex.literalScreen.Find(l.inputBytes, l.offset)
	return m == nil || m.Start != l.offset
}

// selectBest applies the tie-break order: greatest length, then
// greatest precedence, then earliest declaration order (rule index,
// since compiledRule slices preserve declaration order).
func selectBest(matches []matchCandidate, rules []*liveRule) (matchCandidate, bool) {
	if len(matches) == 0 {
		return matchCandidate{}, false
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if better(m, best, rules) {
			best = m
		}
	}
	return best, true
}

func better(a, b matchCandidate, rules []*liveRule) bool {
	if a.length != b.length {
		return a.length > b.length
	}
	pa, pb := rules[a.ruleIdx].precedence(), rules[b.ruleIdx].precedence()
	if pa != pb {
		return pa > pb
	}
	return a.ruleIdx < b.ruleIdx
}

// textForLength walks the first n code points of tail and returns the
// corresponding byte-length prefix.
func textForLength(tail string, n int) string {
	if n == 0 {
		return ""
	}
	i := 0
	count := 0
	for i < len(tail) {
		_, size := utf8.DecodeRuneInString(tail[i:])
		i += size
		count++
		if count == n {
			break
		}
	}
	return tail[:i]
}

func (l *Lexer) advance(c rune, size int) {
	l.offset += size
	l.pos.advance(c)
}

func (l *Lexer) advanceText(text string) {
	for _, c := range text {
		l.pos.advance(c)
	}
	l.offset += len(text)
}
