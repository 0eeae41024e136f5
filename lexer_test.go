package lexer

import (
	"errors"
	"io"
	"testing"
)

func buildSampleLexicon(t *testing.T) *Lexicon {
	t.Helper()
	lex, err := NewLexiconBuilder().
		IgnoreChars(" ").
		Pattern(0, "[a-zA-Z]+").
		Pattern(1, "[0-9]+").
		Literal(2, "if").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return lex
}

func TestEndToEndEmptyInput(t *testing.T) {
	lex := buildSampleLexicon(t)
	l := NewLexer(lex, "")
	if _, err := l.Next(); err != io.EOF {
		t.Fatalf("Next() err = %v, want io.EOF", err)
	}
	if _, err := l.Next(); err != io.EOF {
		t.Fatalf("second Next() err = %v, want io.EOF (idempotent)", err)
	}
}

func TestEndToEndAllWhitespace(t *testing.T) {
	lex := buildSampleLexicon(t)
	l := NewLexer(lex, "       ")
	if _, err := l.Next(); err != io.EOF {
		t.Fatalf("Next() err = %v, want io.EOF", err)
	}
}

func TestEndToEndBasicTokens(t *testing.T) {
	lex := buildSampleLexicon(t)
	l := NewLexer(lex, "   abc AAaa 123   ")

	want := []Token{
		{RuleID: 0, Text: "abc", Pos: Position{1, 4}},
		{RuleID: 0, Text: "AAaa", Pos: Position{1, 8}},
		{RuleID: 1, Text: "123", Pos: Position{1, 13}},
	}
	for i, w := range want {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("token %d: unexpected error %v", i, err)
		}
		if tok != w {
			t.Errorf("token %d = %+v, want %+v", i, tok, w)
		}
	}
	if _, err := l.Next(); err != io.EOF {
		t.Fatalf("final Next() err = %v, want io.EOF", err)
	}
}

func TestEndToEndUnexpectedChar(t *testing.T) {
	lex := buildSampleLexicon(t)
	l := NewLexer(lex, "a b 1 -     ")

	expectToken := func(id int, text string, pos Position) {
		t.Helper()
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if tok.RuleID != id || tok.Text != text || tok.Pos != pos {
			t.Errorf("token = %+v, want {%d %q %+v}", tok, id, text, pos)
		}
	}

	expectToken(0, "a", Position{1, 1})
	expectToken(0, "b", Position{1, 3})
	expectToken(1, "1", Position{1, 5})

	_, err := l.Next()
	var uce *UnexpectedCharError
	if !errors.As(err, &uce) {
		t.Fatalf("err = %v, want *UnexpectedCharError", err)
	}
	if uce.Char != '-' || uce.Pos != (Position{1, 7}) {
		t.Errorf("UnexpectedCharError = %+v, want char '-' at {1,7}", uce)
	}

	if _, err := l.Next(); err != io.EOF {
		t.Fatalf("final Next() err = %v, want io.EOF", err)
	}
}

func TestEndToEndLiteralBeatsPatternOnTie(t *testing.T) {
	lex := buildSampleLexicon(t)
	l := NewLexer(lex, "   abc if iffy 123   ")

	want := []Token{
		{RuleID: 0, Text: "abc", Pos: Position{1, 4}},
		{RuleID: 2, Text: "if", Pos: Position{1, 8}},
		{RuleID: 0, Text: "iffy", Pos: Position{1, 11}},
		{RuleID: 1, Text: "123", Pos: Position{1, 16}},
	}
	for i, w := range want {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("token %d: unexpected error %v", i, err)
		}
		if tok != w {
			t.Errorf("token %d = %+v, want %+v", i, tok, w)
		}
	}
	if _, err := l.Next(); err != io.EOF {
		t.Fatalf("final Next() err = %v, want io.EOF", err)
	}
}

func TestEndToEndNewlineAdvancesLine(t *testing.T) {
	lex, err := NewLexiconBuilder().
		IgnoreChars(" \n").
		Pattern(0, "[a-zA-Z]+").
		Pattern(1, "[0-9]+").
		Literal(2, "if").
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	l := NewLexer(lex, "ab\n12")

	tok, err := l.Next()
	if err != nil || tok != (Token{RuleID: 0, Text: "ab", Pos: Position{1, 1}}) {
		t.Fatalf("token 1 = %+v, err=%v", tok, err)
	}
	tok, err = l.Next()
	if err != nil || tok != (Token{RuleID: 1, Text: "12", Pos: Position{2, 1}}) {
		t.Fatalf("token 2 = %+v, err=%v", tok, err)
	}
	if _, err := l.Next(); err != io.EOF {
		t.Fatalf("final Next() err = %v, want io.EOF", err)
	}
}

func TestResetReplaysIdenticalSequence(t *testing.T) {
	lex := buildSampleLexicon(t)
	input := "   abc if iffy 123   "
	l := NewLexer(lex, input)

	var first []Token
	for {
		tok, err := l.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first = append(first, tok)
	}

	l.Reset()
	var second []Token
	for {
		tok, err := l.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second = append(second, tok)
	}

	if len(first) != len(second) {
		t.Fatalf("len(first)=%d, len(second)=%d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestCoverageReconstructsInput(t *testing.T) {
	lex := buildSampleLexicon(t)
	input := "  abc 123 if -- done  "
	l := NewLexer(lex, input)

	// The Lexer's own offset advances over every ignored run, matched
	// token and error code point alike — walking it from 0 to len(input)
	// reconstructs the original byte-for-byte, which is the coverage
	// property this test checks directly rather than via token text.
	for {
		_, err := l.Next()
		if err == io.EOF {
			break
		}
		var uce *UnexpectedCharError
		if err != nil && !errors.As(err, &uce) {
			t.Fatalf("unexpected error type: %v", err)
		}
	}
	if l.offset != len(input) {
		t.Errorf("final offset = %d, want %d (full input consumed)", l.offset, len(input))
	}
}

func TestZeroCopyTextPointsIntoInput(t *testing.T) {
	lex := buildSampleLexicon(t)
	input := "   abc 123   "
	l := NewLexer(lex, input)

	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Text != input[3:6] {
		t.Errorf("token text = %q, want %q", tok.Text, input[3:6])
	}
}
