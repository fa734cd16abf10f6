package sqlcmd

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Extraction is a single statement sliced out of a model response.
type Extraction struct {
	Command string `json:"command"`
	Keyword string `json:"keyword"`
	Start   int    `json:"start"`
}

type Extractor struct {
	pattern    *regexp.Regexp
	terminator TerminatorMode
}

func NewExtractor(policy Policy) (*Extractor, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	// Longest first so that a multi-word keyword wins over its own prefix.
	keywords := policy.Keywords()
	slices.SortStableFunc(keywords, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})

	alternatives := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		alternatives = append(alternatives, keywordPattern(keyword))
	}

	pattern, err := regexp.Compile(`(?i)\b(?:` + strings.Join(alternatives, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile keyword pattern: %w", err)
	}

	return &Extractor{
		pattern:    pattern,
		terminator: policy.Terminator,
	}, nil
}

// Extract returns the first statement in the response: the text from the first
// recognized keyword through the next semicolon, trimmed.
func (e *Extractor) Extract(response string) (Extraction, bool) {
	loc := e.pattern.FindStringIndex(response)
	if loc == nil {
		return Extraction{}, false
	}

	start := loc[0]
	var command string

	end := strings.IndexByte(response[start:], ';')
	if end < 0 {
		if e.terminator != TerminatorEndOfText {
			return Extraction{}, false
		}
		command = response[start:]
	} else {
		command = response[start : start+end+1]
	}

	command = strings.TrimSpace(command)
	if command == "" {
		return Extraction{}, false
	}

	return Extraction{
		Command: command,
		Keyword: response[loc[0]:loc[1]],
		Start:   start,
	}, true
}

func keywordPattern(keyword string) string {
	words := strings.Fields(keyword)
	for i, word := range words {
		words[i] = regexp.QuoteMeta(word)
	}
	return strings.Join(words, `\s+`)
}
