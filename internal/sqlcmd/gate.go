package sqlcmd

import (
	"cmp"
	"slices"
	"strings"
)

type Class string

const (
	ClassSafe          Class = "safe"
	ClassConsequential Class = "consequential"
	ClassUnknown       Class = "unknown"
)

// Decision is the outcome of authorizing one extracted command.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Command string `json:"command"`
	Leading string `json:"leading"`
	Class   Class  `json:"class"`
}

type phrase struct {
	keyword string
	words   []string
	class   Class
}

// Gate authorizes commands whose leading keyword is in the safe list.
type Gate struct {
	match   MatchMode
	safe    []string
	safeSet map[string]struct{}
	phrases []phrase
}

func NewGate(policy Policy) *Gate {
	g := &Gate{
		match:   policy.Match,
		safe:    slices.Clone(policy.Safe),
		safeSet: make(map[string]struct{}, len(policy.Safe)),
	}

	for _, keyword := range policy.Safe {
		g.safeSet[normalize(keyword)] = struct{}{}
	}

	for _, keyword := range policy.Keywords() {
		class := ClassConsequential
		if _, ok := g.safeSet[normalize(keyword)]; ok {
			class = ClassSafe
		}
		g.phrases = append(g.phrases, phrase{
			keyword: normalize(keyword),
			words:   strings.Fields(normalize(keyword)),
			class:   class,
		})
	}

	slices.SortStableFunc(g.phrases, func(a, b phrase) int {
		return cmp.Compare(len(b.words), len(a.words))
	})

	return g
}

// Authorize decides whether command may be executed. An allowed command is
// returned unchanged in the decision.
func (g *Gate) Authorize(command string) Decision {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Decision{Command: command, Class: ClassUnknown}
	}

	if g.match == MatchLeadingPhrase {
		p, ok := g.leadingPhrase(fields)
		if !ok {
			return Decision{Command: command, Leading: strings.ToUpper(fields[0]), Class: ClassUnknown}
		}
		return Decision{
			Allowed: p.class == ClassSafe,
			Command: command,
			Leading: p.keyword,
			Class:   p.class,
		}
	}

	leading := strings.ToUpper(fields[0])
	_, allowed := g.safeSet[leading]

	return Decision{
		Allowed: allowed,
		Command: command,
		Leading: leading,
		Class:   g.classify(fields),
	}
}

// Classify reports which list the leading phrase of command belongs to.
func (g *Gate) Classify(command string) Class {
	return g.classify(strings.Fields(command))
}

// Allowed returns the safe keywords in policy order.
func (g *Gate) Allowed() []string {
	return slices.Clone(g.safe)
}

func (g *Gate) Mode() MatchMode {
	return g.match
}

func (g *Gate) classify(fields []string) Class {
	p, ok := g.leadingPhrase(fields)
	if !ok {
		return ClassUnknown
	}
	return p.class
}

func (g *Gate) leadingPhrase(fields []string) (phrase, bool) {
	for _, p := range g.phrases {
		if len(p.words) > len(fields) {
			continue
		}
		if hasPrefix(fields, p.words) {
			return p, true
		}
	}
	return phrase{}, false
}

func hasPrefix(fields []string, words []string) bool {
	for i, word := range words {
		field := strings.TrimRight(fields[i], ";")
		if !strings.EqualFold(field, word) {
			return false
		}
	}
	return true
}
