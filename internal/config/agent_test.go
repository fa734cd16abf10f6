package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/sql-agent/internal/prompt"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/sqlcmd"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sqlagent.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoadAgentConfig_Success(t *testing.T) {
	path := writeConfig(t, `policy:
  safe:
    - SELECT
    - GROUP BY
  match: leading_phrase
  terminator: end_of_text
prompt: |
  Translate to SQL: {{.Question}}
model:
  max_tokens: 128
  temperature: 0.2
  retry: true
`)
	t.Setenv("POLICY_CONFIG_PATH", path)

	cfg, err := LoadAgentConfig()
	if err != nil {
		t.Fatalf("LoadAgentConfig() failed: %v", err)
	}

	if len(cfg.Policy.Safe) != 2 || cfg.Policy.Safe[1] != "GROUP BY" {
		t.Errorf("Unexpected safe list: %v", cfg.Policy.Safe)
	}
	if cfg.Policy.Match != sqlcmd.MatchLeadingPhrase {
		t.Errorf("Match: %s, want: %s", cfg.Policy.Match, sqlcmd.MatchLeadingPhrase)
	}
	if cfg.Policy.Terminator != sqlcmd.TerminatorEndOfText {
		t.Errorf("Terminator: %s, want: %s", cfg.Policy.Terminator, sqlcmd.TerminatorEndOfText)
	}
	// Consequential list is inherited from the built-in policy.
	if len(cfg.Policy.Consequential) != len(sqlcmd.DefaultPolicy().Consequential) {
		t.Errorf("Expected default consequential list, got %v", cfg.Policy.Consequential)
	}
	if !strings.HasPrefix(cfg.Prompt, "Translate to SQL:") {
		t.Errorf("Unexpected prompt: %q", cfg.Prompt)
	}
	if cfg.Model.MaxTokens != 128 || cfg.Model.Temperature != 0.2 || !cfg.Model.Retry {
		t.Errorf("Unexpected model params: %+v", cfg.Model)
	}
}

func TestLoadAgentConfig_MissingDefaultFile(t *testing.T) {
	t.Setenv("POLICY_CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := LoadAgentConfig()
	if err != nil {
		t.Fatalf("LoadAgentConfig() failed: %v", err)
	}

	if cfg.Prompt != prompt.DefaultTemplate {
		t.Error("Expected default prompt")
	}
	if cfg.Policy.Match != sqlcmd.MatchFirstToken || cfg.Policy.Terminator != sqlcmd.TerminatorSemicolon {
		t.Errorf("Unexpected default modes: %+v", cfg.Policy)
	}
	if cfg.Model.MaxTokens != DefaultMaxTokens {
		t.Errorf("MaxTokens: %d, want: %d", cfg.Model.MaxTokens, DefaultMaxTokens)
	}
}

func TestLoadAgentConfig_FileNotFound(t *testing.T) {
	t.Setenv("POLICY_CONFIG_PATH", "/nonexistent/path/sqlagent.yaml")

	_, err := LoadAgentConfig()
	if err == nil {
		t.Fatal("Expected error for nonexistent config file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Expected 'failed to read config file' error, got: %v", err)
	}
}

func TestLoadAgentConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, `policy:
  safe: [SELECT, INSERT
  match: first_token
`)
	t.Setenv("POLICY_CONFIG_PATH", path)

	_, err := LoadAgentConfig()
	if err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("Expected 'failed to parse YAML' error, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(cfg *AgentConfig)
		wantErr string
	}{
		{
			name:   "Defaults are valid",
			modify: func(cfg *AgentConfig) {},
		},
		{
			name:    "Unknown match mode",
			modify:  func(cfg *AgentConfig) { cfg.Policy.Match = "fuzzy" },
			wantErr: "invalid policy",
		},
		{
			name:    "Blank keyword",
			modify:  func(cfg *AgentConfig) { cfg.Policy.Safe = []string{"SELECT", "  "} },
			wantErr: "invalid policy",
		},
		{
			name:    "Invalid prompt template",
			modify:  func(cfg *AgentConfig) { cfg.Prompt = "{{.Question" },
			wantErr: "invalid prompt template",
		},
		{
			name:    "Negative max tokens",
			modify:  func(cfg *AgentConfig) { cfg.Model.MaxTokens = -1 },
			wantErr: "max_tokens",
		},
		{
			name:    "Temperature out of range",
			modify:  func(cfg *AgentConfig) { cfg.Model.Temperature = 3 },
			wantErr: "invalid temperature",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Defaults()
			test.modify(cfg)

			err := cfg.Validate()
			if test.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: %v, want: nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Validate: %v, want error containing: %q", err, test.wantErr)
			}
		})
	}
}

func TestShippedConfig(t *testing.T) {
	data, err := os.ReadFile("../../configs/sqlagent.yaml")
	if err != nil {
		t.Fatalf("Failed to read shipped config: %v", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(cfg.Policy.Safe) != 12 || len(cfg.Policy.Consequential) != 16 {
		t.Errorf("Unexpected list sizes: safe=%d consequential=%d", len(cfg.Policy.Safe), len(cfg.Policy.Consequential))
	}
}
