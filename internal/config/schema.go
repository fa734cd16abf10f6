package config

import "github.com/povarna/generative-ai-agents/sql-agent/internal/sqlcmd"

// AgentConfig is the optional policy file read at startup.
type AgentConfig struct {
	Policy PolicyConfig `yaml:"policy"`
	Prompt string       `yaml:"prompt"`
	Model  ModelParams  `yaml:"model"`
}

// PolicyConfig mirrors sqlcmd.Policy. Empty lists fall back to the built-in ones.
type PolicyConfig struct {
	Safe          []string              `yaml:"safe"`
	Consequential []string              `yaml:"consequential"`
	Match         sqlcmd.MatchMode      `yaml:"match"`
	Terminator    sqlcmd.TerminatorMode `yaml:"terminator"`
}

type ModelParams struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Retry       bool    `yaml:"retry"`
}

func (p PolicyConfig) ToPolicy() sqlcmd.Policy {
	return sqlcmd.Policy{
		Safe:          p.Safe,
		Consequential: p.Consequential,
		Match:         p.Match,
		Terminator:    p.Terminator,
	}
}
