package nfa

import (
	"regexp/syntax"
	"unicode"
)

// parseFlags governs how patterns are parsed into a syntax tree before
// Thompson construction walks it. Perl gives the familiar `\d`, `\w`,
// non-capturing groups and friends; case folding and dot-matches-newline
// are not part of Perl and stay off. OneLine is cleared, which only
// decides whether `^`/`$` parse as text or line anchors — compileNode
// rejects both kinds, since anchors have nothing to anchor to within a
// token.
const parseFlags = syntax.Perl &^ syntax.OneLine

// Compile parses pattern with regexp/syntax and walks the resulting
// tree with Thompson construction, producing an NFA that recognizes
// exactly the same language, simulated over Unicode code points rather
// than bytes.
func Compile(pattern string) (*NFA, error) {
	re, err := syntax.Parse(pattern, parseFlags)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	b := NewBuilder()
	frag, err := compileNode(b, pattern, re)
	if err != nil {
		return nil, err
	}
	accept := b.AddAccept()
	b.PatchAll(frag.dangling, accept)

	return b.Build(frag.start)
}

// CompileLiteral builds a straight-line NFA matching exactly s, one
// state per code point, bypassing the regex parser entirely. Lexicon
// literal rules never need alternation, repetition or character
// classes, so there's no reason to pay for a syntax tree.
func CompileLiteral(s string) (*NFA, error) {
	if s == "" {
		return nil, &CompileError{Pattern: s, Err: errEmptyLiteral}
	}

	b := NewBuilder()
	runes := []rune(s)

	// Built back-to-front so each state's target is already known when
	// it's appended — no patching needed for a pure rune chain.
	next := b.AddAccept()
	for i := len(runes) - 1; i >= 0; i-- {
		next = b.AddRange([]Range{{Lo: runes[i], Hi: runes[i]}}, next)
	}
	return b.Build(next)
}

// fragment is a partially built sub-automaton: start names its entry
// state, and dangling lists the ids of states whose outgoing
// transition is still an InvalidState placeholder waiting for
// whatever comes next in the enclosing construction.
type fragment struct {
	start    StateID
	dangling []StateID
}

func compileNode(b *Builder, pattern string, re *syntax.Regexp) (fragment, error) {
	switch re.Op {
	case syntax.OpEmptyMatch:
		return compileEmpty(b), nil

	case syntax.OpLiteral:
		return compileLiteralOp(b, pattern, re)

	case syntax.OpCharClass:
		return compileRanges(b, runePairsToRanges(re.Rune)), nil

	case syntax.OpAnyCharNotNL:
		return compileRanges(b, []Range{
			{Lo: 0, Hi: '\n' - 1},
			{Lo: '\n' + 1, Hi: unicode.MaxRune},
		}), nil

	case syntax.OpAnyChar:
		return compileRanges(b, []Range{{Lo: 0, Hi: unicode.MaxRune}}), nil

	case syntax.OpCapture:
		// Groups are transparent: they exist in the syntax tree only to
		// name a subexpression for capture, which this package never
		// does.
		return compileNode(b, pattern, re.Sub[0])

	case syntax.OpConcat:
		return compileConcat(b, pattern, re.Sub)

	case syntax.OpAlternate:
		return compileAlternate(b, pattern, re.Sub)

	case syntax.OpStar:
		if re.Flags&syntax.NonGreedy != 0 {
			return fragment{}, &UnsupportedFeatureError{Pattern: pattern, Feature: "non-greedy `*?`"}
		}
		return compileStar(b, pattern, re.Sub[0])

	case syntax.OpPlus:
		if re.Flags&syntax.NonGreedy != 0 {
			return fragment{}, &UnsupportedFeatureError{Pattern: pattern, Feature: "non-greedy `+?`"}
		}
		return compilePlus(b, pattern, re.Sub[0])

	case syntax.OpQuest:
		if re.Flags&syntax.NonGreedy != 0 {
			return fragment{}, &UnsupportedFeatureError{Pattern: pattern, Feature: "non-greedy `??`"}
		}
		return compileQuest(b, pattern, re.Sub[0])

	case syntax.OpRepeat:
		return fragment{}, &UnsupportedFeatureError{Pattern: pattern, Feature: "bounded repetition `{m,n}`"}

	case syntax.OpBeginLine, syntax.OpEndLine, syntax.OpBeginText, syntax.OpEndText:
		return fragment{}, &UnsupportedFeatureError{Pattern: pattern, Feature: "anchors (`^`, `$`)"}

	case syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return fragment{}, &UnsupportedFeatureError{Pattern: pattern, Feature: "word boundary (`\\b`, `\\B`)"}

	case syntax.OpNoMatch:
		return fragment{}, &UnsupportedFeatureError{Pattern: pattern, Feature: "a subexpression that can never match"}

	default:
		return fragment{}, &UnsupportedFeatureError{Pattern: pattern, Feature: "unrecognized regex construct"}
	}
}

// compileEmpty builds a single pass-through state: a split with one
// dangling ε-exit and no other side effects.
func compileEmpty(b *Builder) fragment {
	id := b.AddSplit(InvalidState)
	return fragment{start: id, dangling: []StateID{id}}
}

func compileLiteralOp(b *Builder, pattern string, re *syntax.Regexp) (fragment, error) {
	if re.Flags&syntax.FoldCase != 0 {
		return fragment{}, &UnsupportedFeatureError{Pattern: pattern, Feature: "case-insensitive literal `(?i)`"}
	}
	if len(re.Rune) == 0 {
		return compileEmpty(b), nil
	}
	ranges := make([]Range, len(re.Rune))
	for i, r := range re.Rune {
		ranges[i] = Range{Lo: r, Hi: r}
	}
	return compileRuneChain(b, ranges), nil
}

// compileRuneChain builds a straight-line sequence of single-rune
// states, one per entry in ranges, each state consuming exactly that
// code point — the construction a multi-rune OpLiteral needs.
func compileRuneChain(b *Builder, ranges []Range) fragment {
	dangling := make([]StateID, 0, 1)
	first := StateID(0)
	prev := StateID(0)
	havePrev := false

	for _, r := range ranges {
		id := b.AddRange([]Range{r}, InvalidState)
		if !havePrev {
			first = id
			havePrev = true
		} else {
			b.Patch(prev, InvalidState, id)
		}
		prev = id
	}
	dangling = append(dangling, prev)
	return fragment{start: first, dangling: dangling}
}

// compileRanges builds a single state consuming one code point covered
// by any of ranges.
func compileRanges(b *Builder, ranges []Range) fragment {
	id := b.AddRange(ranges, InvalidState)
	return fragment{start: id, dangling: []StateID{id}}
}

func compileConcat(b *Builder, pattern string, subs []*syntax.Regexp) (fragment, error) {
	if len(subs) == 0 {
		return compileEmpty(b), nil
	}
	first, err := compileNode(b, pattern, subs[0])
	if err != nil {
		return fragment{}, err
	}
	dangling := first.dangling
	start := first.start
	for _, sub := range subs[1:] {
		next, err := compileNode(b, pattern, sub)
		if err != nil {
			return fragment{}, err
		}
		b.PatchAll(dangling, next.start)
		dangling = next.dangling
	}
	return fragment{start: start, dangling: dangling}, nil
}

func compileAlternate(b *Builder, pattern string, subs []*syntax.Regexp) (fragment, error) {
	if len(subs) == 0 {
		return compileEmpty(b), nil
	}
	frags := make([]fragment, len(subs))
	for i, sub := range subs {
		f, err := compileNode(b, pattern, sub)
		if err != nil {
			return fragment{}, err
		}
		frags[i] = f
	}

	targets := make([]StateID, len(frags))
	dangling := make([]StateID, 0, len(frags))
	for i, f := range frags {
		targets[i] = f.start
		dangling = append(dangling, f.dangling...)
	}
	split := b.AddSplit(targets...)
	return fragment{start: split, dangling: dangling}, nil
}

// compileStar builds `body*`: a split that either enters the body or
// skips it entirely, with the body's own exits looping back to the
// same split rather than falling through.
func compileStar(b *Builder, pattern string, sub *syntax.Regexp) (fragment, error) {
	body, err := compileNode(b, pattern, sub)
	if err != nil {
		return fragment{}, err
	}
	split := b.AddSplit(body.start, InvalidState)
	b.PatchAll(body.dangling, split)
	return fragment{start: split, dangling: []StateID{split}}, nil
}

// compilePlus builds `body+`: the body runs once unconditionally, then
// its exits feed a split that either loops back into the body or
// leaves.
func compilePlus(b *Builder, pattern string, sub *syntax.Regexp) (fragment, error) {
	body, err := compileNode(b, pattern, sub)
	if err != nil {
		return fragment{}, err
	}
	split := b.AddSplit(body.start, InvalidState)
	b.PatchAll(body.dangling, split)
	return fragment{start: body.start, dangling: []StateID{split}}, nil
}

// compileQuest builds `body?`: a split that either enters the body or
// skips it, with the body's exits (if taken) joining the skip path's
// dangling exit.
func compileQuest(b *Builder, pattern string, sub *syntax.Regexp) (fragment, error) {
	body, err := compileNode(b, pattern, sub)
	if err != nil {
		return fragment{}, err
	}
	split := b.AddSplit(body.start, InvalidState)
	dangling := append([]StateID{split}, body.dangling...)
	return fragment{start: split, dangling: dangling}, nil
}

// runePairsToRanges converts regexp/syntax's flat [lo0,hi0,lo1,hi1,...]
// rune-pair encoding of a character class into our Range slice.
func runePairsToRanges(pairs []rune) []Range {
	ranges := make([]Range, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		ranges = append(ranges, Range{Lo: pairs[i], Hi: pairs[i+1]})
	}
	return ranges
}
