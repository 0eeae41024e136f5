// Command lex tokenizes input against a declarative lexicon and
// prints the resulting token stream as newline-delimited JSON.
//
// This binary is not part of the core library's contract — it exists
// only to exercise the package from the outside and give the lexicon
// format somewhere to live on disk.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/projectdiscovery/gologger"

	"github.com/coregx/lexer"
)

var cli struct {
	Tokenize struct {
		Lexicon string `help:"Path to the lexicon YAML config." required:""`
		File    string `arg:"" optional:"" help:"Input file to tokenize (defaults to stdin)."`
	} `cmd:"" help:"Tokenize a file against a lexicon."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("lex"),
		kong.Description("Tokenize input against a declarative lexicon."),
		kong.UsageOnError(),
	)
	runTokenize()
}

func runTokenize() {
	cfg, err := loadLexiconConfig(cli.Tokenize.Lexicon)
	if err != nil {
		gologger.Fatal().Msgf("%v", err)
	}

	lex, err := cfg.build()
	if err != nil {
		gologger.Fatal().Msgf("building lexicon: %v", err)
	}

	input, err := readInput(cli.Tokenize.File)
	if err != nil {
		gologger.Fatal().Msgf("reading input: %v", err)
	}

	l := lexer.NewLexer(lex, input)
	enc := json.NewEncoder(os.Stdout)

	for {
		tok, err := l.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		var uce *lexer.UnexpectedCharError
		if errors.As(err, &uce) {
			_ = enc.Encode(tokenRecord{
				Error: "unexpected character",
				Char:  string(uce.Char),
				Line:  uce.Pos.Line,
				Col:   uce.Pos.Col,
			})
			continue
		}
		_ = enc.Encode(tokenRecord{
			RuleID: &tok.RuleID,
			Text:   tok.Text,
			Line:   tok.Pos.Line,
			Col:    tok.Pos.Col,
		})
	}
}

// tokenRecord is the NDJSON shape for one line of output: either a
// matched token (RuleID set) or a lexing error (Error set).
type tokenRecord struct {
	RuleID *int   `json:"rule_id,omitempty"`
	Text   string `json:"text,omitempty"`
	Error  string `json:"error,omitempty"`
	Char   string `json:"char,omitempty"`
	Line   uint32 `json:"line"`
	Col    uint32 `json:"col"`
}

func readInput(path string) (string, error) {
	if path == "" {
		buf, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			return "", err
		}
		return string(buf), nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
