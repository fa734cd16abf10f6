package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/povarna/generative-ai-agents/sql-agent/internal/prompt"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/sqlcmd"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath      = "configs/sqlagent.yaml"
	DefaultMaxTokens = 512
)

// LoadAgentConfig reads POLICY_CONFIG_PATH, or configs/sqlagent.yaml when unset.
// A missing default file yields the built-in configuration; a missing explicit
// path is an error.
func LoadAgentConfig() (*AgentConfig, error) {
	path := os.Getenv("POLICY_CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a config document.
func Parse(data []byte) (*AgentConfig, error) {
	var cfg AgentConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func Defaults() *AgentConfig {
	cfg := &AgentConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AgentConfig) {
	defaults := sqlcmd.DefaultPolicy()

	if len(cfg.Policy.Safe) == 0 {
		cfg.Policy.Safe = defaults.Safe
	}
	if len(cfg.Policy.Consequential) == 0 {
		cfg.Policy.Consequential = defaults.Consequential
	}
	if cfg.Policy.Match == "" {
		cfg.Policy.Match = defaults.Match
	}
	if cfg.Policy.Terminator == "" {
		cfg.Policy.Terminator = defaults.Terminator
	}
	if cfg.Prompt == "" {
		cfg.Prompt = prompt.DefaultTemplate
	}
	if cfg.Model.MaxTokens == 0 {
		cfg.Model.MaxTokens = DefaultMaxTokens
	}
}

func (c *AgentConfig) Validate() error {
	if err := c.Policy.ToPolicy().Validate(); err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}

	if _, err := prompt.New(c.Prompt); err != nil {
		return fmt.Errorf("invalid prompt template: %w", err)
	}

	if c.Model.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.Model.MaxTokens)
	}

	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		return fmt.Errorf("invalid temperature %.2f: must be between 0 and 2", c.Model.Temperature)
	}

	return nil
}
