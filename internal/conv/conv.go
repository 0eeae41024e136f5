// Package conv provides safe integer conversion helpers for the lexer.
//
// State ids, rule indices and rune counts are carried as plain int
// through the builder and scanning driver but stored narrower
// (StateID is uint32) in the NFA's arena. These helpers bounds-check
// before narrowing so a pattern large enough to overflow the arena
// fails loudly instead of silently wrapping.
package conv

import "math"

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32 — this always indicates a
// programming error (a lexicon with more states than fit a uint32),
// never caller input that should be recovered from.
func IntToUint32(n int) uint32 {
	// Compare as uint so 32-bit platforms (where int can't represent
	// math.MaxUint32) don't misbehave.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("conv: integer overflow converting to uint32")
	}
	return uint32(n)
}
