// Package sqlcmd locates SQL statements inside free-form model output and decides
// whether they may be executed.
package sqlcmd

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// MatchMode selects how the gate reads the leading keyword of a command.
type MatchMode string

const (
	// MatchFirstToken compares only the first whitespace-delimited token.
	// Multi-word safe keywords such as "GROUP BY" can never authorize in this mode.
	MatchFirstToken MatchMode = "first_token"
	// MatchLeadingPhrase finds the longest known keyword that prefixes the command.
	MatchLeadingPhrase MatchMode = "leading_phrase"
)

// TerminatorMode selects what the extractor does when no semicolon follows a keyword.
type TerminatorMode string

const (
	// TerminatorSemicolon yields no command when the statement is not terminated.
	TerminatorSemicolon TerminatorMode = "semicolon"
	// TerminatorEndOfText takes the remainder of the response as the command.
	TerminatorEndOfText TerminatorMode = "end_of_text"
)

var defaultSafe = []string{
	"SELECT",
	"INSERT",
	"UPDATE",
	"DELETE",
	"TRUNCATE TABLE",
	"CREATE INDEX",
	"DROP INDEX",
	"JOIN",
	"GROUP BY",
	"ORDER BY",
	"HAVING",
	"DISTINCT",
}

var defaultConsequential = []string{
	"ALTER TABLE",
	"DROP TABLE",
	"CREATE TABLE",
	"DROP DATABASE",
	"RENAME TABLE",
	"ALTER TABLE ... DROP COLUMN",
	"ALTER TABLE ... MODIFY COLUMN",
	"ALTER TABLE ... RENAME COLUMN",
	"CREATE VIEW",
	"DROP VIEW",
	"CREATE PROCEDURE",
	"DROP PROCEDURE",
	"CREATE TRIGGER",
	"DROP TRIGGER",
	"CREATE FUNCTION",
	"DROP FUNCTION",
}

var (
	ErrNoSafeCommands    = errors.New("policy has no safe commands")
	ErrBlankKeyword      = errors.New("policy contains a blank keyword")
	ErrUnknownMatchMode  = errors.New("unknown match mode")
	ErrUnknownTerminator = errors.New("unknown terminator mode")
)

// Policy is the keyword allow-list used by the extractor and the gate.
type Policy struct {
	Safe          []string       `yaml:"safe" json:"safe"`
	Consequential []string       `yaml:"consequential" json:"consequential"`
	Match         MatchMode      `yaml:"match" json:"match"`
	Terminator    TerminatorMode `yaml:"terminator" json:"terminator"`
}

// DefaultPolicy returns a fresh copy of the built-in keyword lists.
func DefaultPolicy() Policy {
	return Policy{
		Safe:          slices.Clone(defaultSafe),
		Consequential: slices.Clone(defaultConsequential),
		Match:         MatchFirstToken,
		Terminator:    TerminatorSemicolon,
	}
}

// Keywords returns the union of the safe and consequential lists, safe first,
// without case-insensitive duplicates.
func (p Policy) Keywords() []string {
	seen := make(map[string]struct{}, len(p.Safe)+len(p.Consequential))
	keywords := make([]string, 0, len(p.Safe)+len(p.Consequential))

	for _, keyword := range slices.Concat(p.Safe, p.Consequential) {
		key := normalize(keyword)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keywords = append(keywords, keyword)
	}

	return keywords
}

func (p Policy) Validate() error {
	if len(p.Safe) == 0 {
		return ErrNoSafeCommands
	}

	for _, keyword := range slices.Concat(p.Safe, p.Consequential) {
		if strings.TrimSpace(keyword) == "" {
			return ErrBlankKeyword
		}
	}

	switch p.Match {
	case MatchFirstToken, MatchLeadingPhrase:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMatchMode, p.Match)
	}

	switch p.Terminator {
	case TerminatorSemicolon, TerminatorEndOfText:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTerminator, p.Terminator)
	}

	return nil
}

// normalize uppercases a keyword and collapses inner whitespace.
func normalize(keyword string) string {
	return strings.ToUpper(strings.Join(strings.Fields(keyword), " "))
}
