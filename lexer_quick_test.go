package lexer

import (
	"io"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"
	"unsafe"
)

// quickAlphabet is deliberately narrow: letters, digits, the space
// ignore character buildSampleLexicon declares, and an occasional
// tab/newline to exercise the unexpected-character path too, so
// generated inputs mostly exercise buildSampleLexicon's rules
// (pattern/pattern/literal) instead of producing nothing but
// UnexpectedChar runs.
const quickAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFG0123456789 \t\n"

// quickInput is a random input string generated over quickAlphabet,
// used as the argument to every testing/quick property below.
type quickInput string

func (quickInput) Generate(rnd *rand.Rand, size int) reflect.Value {
	n := rnd.Intn(size + 1)
	b := make([]byte, n)
	for i := range b {
		b[i] = quickAlphabet[rnd.Intn(len(quickAlphabet))]
	}
	return reflect.ValueOf(quickInput(b))
}

// drain runs l to exhaustion, returning every emitted token; lexing
// errors are skipped.
func drain(l *Lexer) []Token {
	var toks []Token
	for {
		tok, err := l.Next()
		if err == io.EOF {
			return toks
		}
		if err != nil {
			continue // *UnexpectedCharError: skip and keep draining
		}
		toks = append(toks, tok)
	}
}

// TestQuickCoverage checks that a Lexer run to completion always
// leaves its internal offset at the end of the input: every byte is
// either part of an emitted token, skipped as an ignore character, or
// consumed by advancing past an unexpected character. No byte is ever
// left unaccounted for and no byte is ever consumed twice.
func TestQuickCoverage(t *testing.T) {
	lex := buildSampleLexicon(t)
	prop := func(in quickInput) bool {
		l := NewLexer(lex, string(in))
		drain(l)
		return l.offset == len(l.input)
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 200}); err != nil {
		t.Error(err)
	}
}

// TestQuickMonotonicPosition checks that successive tokens' starting
// positions never go backwards: line never decreases, and column
// never decreases within the same line.
func TestQuickMonotonicPosition(t *testing.T) {
	lex := buildSampleLexicon(t)
	prop := func(in quickInput) bool {
		l := NewLexer(lex, string(in))
		toks := drain(l)
		for i := 1; i < len(toks); i++ {
			prev, cur := toks[i-1].Pos, toks[i].Pos
			if cur.Line < prev.Line {
				return false
			}
			if cur.Line == prev.Line && cur.Col < prev.Col {
				return false
			}
		}
		return true
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 200}); err != nil {
		t.Error(err)
	}
}

// TestQuickZeroCopy checks that every token's Text is backed by the
// same memory as the original input, not a copy: Text's data pointer
// must fall within [input's data pointer, input's data pointer +
// len(input)), and reconstructing Text's window from that pointer
// offset must reproduce the same bytes recorded in Text.
func TestQuickZeroCopy(t *testing.T) {
	lex := buildSampleLexicon(t)
	prop := func(in quickInput) bool {
		input := string(in)
		if input == "" {
			return true
		}
		l := NewLexer(lex, input)
		toks := drain(l)

		base := uintptr(unsafe.Pointer(unsafe.StringData(input)))
		end := base + uintptr(len(input))
		for _, tok := range toks {
			if tok.Text == "" {
				continue
			}
			ptr := uintptr(unsafe.Pointer(unsafe.StringData(tok.Text)))
			if ptr < base || ptr+uintptr(len(tok.Text)) > end {
				return false
			}
			off := int(ptr - base)
			if input[off:off+len(tok.Text)] != tok.Text {
				return false
			}
		}
		return true
	}
	if err := quick.Check(prop, &quick.Config{MaxCount: 200}); err != nil {
		t.Error(err)
	}
}
