package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/coregx/lexer"
)

// lexiconConfig is the on-disk shape of a lexicon declaration file: an
// ignore-character string plus an ordered list of rules. Order in the
// file is preserved into the builder, since declaration order feeds
// the tie-break rule directly.
type lexiconConfig struct {
	IgnoreChars string      `yaml:"ignore_chars"`
	Rules       []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	ID      int    `yaml:"id"`
	Kind    string `yaml:"kind"` // "pattern" or "literal"
	Pattern string `yaml:"pattern,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

func loadLexiconConfig(path string) (*lexiconConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon config: %w", err)
	}
	var cfg lexiconConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing lexicon config: %s", yaml.FormatError(err, true, true))
	}
	return &cfg, nil
}

// build compiles cfg into a Lexicon. A rule with an unknown kind is
// reported with its declared position (1-based); a compile failure is
// returned as Build reports it, identifying the rule by its id.
func (cfg *lexiconConfig) build() (*lexer.Lexicon, error) {
	b := lexer.NewLexiconBuilder().IgnoreChars(cfg.IgnoreChars)
	for i, r := range cfg.Rules {
		switch r.Kind {
		case "pattern":
			b.Pattern(r.ID, r.Pattern)
		case "literal":
			b.Literal(r.ID, r.Literal)
		default:
			return nil, fmt.Errorf("rule %d (position %d): unknown kind %q, want \"pattern\" or \"literal\"", r.ID, i+1, r.Kind)
		}
	}
	return b.Build()
}
