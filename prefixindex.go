package lexer

import "github.com/coregx/lexer/nfa"

// prefixIndex maps a starting code point to the indices (into a
// Lexicon's rule slice) of every rule whose NFA can begin a match with
// that code point. It prunes the scanning driver's candidate set
// before any NFA simulation runs at all.
//
// ASCII code points (the overwhelming majority of real lexicons' first
// characters) are served from a dense 128-entry table; anything beyond
// that falls back to a map keyed by code point.
type prefixIndex struct {
	ascii [128][]int
	extra map[rune][]int
}

func buildPrefixIndex(rules []*compiledRule) *prefixIndex {
	idx := &prefixIndex{extra: make(map[rune][]int)}
	for ruleIdx, r := range rules {
		for _, rng := range r.startingChars {
			idx.addRange(rng, ruleIdx)
		}
	}
	return idx
}

func (idx *prefixIndex) addRange(rng nfa.Range, ruleIdx int) {
	lo, hi := rng.Lo, rng.Hi
	if lo < 128 {
		asciiHi := hi
		if asciiHi > 127 {
			asciiHi = 127
		}
		for c := lo; c <= asciiHi; c++ {
			idx.ascii[c] = append(idx.ascii[c], ruleIdx)
		}
		if hi <= 127 {
			return
		}
		lo = 128
	}
	for c := lo; c <= hi; c++ {
		idx.extra[c] = append(idx.extra[c], ruleIdx)
	}
}

// lookup returns the candidate rule indices for code point c, or nil
// if no rule can begin a match with it.
func (idx *prefixIndex) lookup(c rune) []int {
	if c >= 0 && c < 128 {
		return idx.ascii[c]
	}
	return idx.extra[c]
}
