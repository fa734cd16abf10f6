package main

import (
	"github.com/povarna/generative-ai-agents/sql-agent/internal/config"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Show which SQL commands may be executed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAgentConfig()
		if err != nil {
			return err
		}

		pterm.Println(pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("Allowed"))
		_ = pterm.DefaultBulletList.WithItems(bullets(cfg.Policy.Safe)).Render()

		pterm.Println(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Always refused"))
		_ = pterm.DefaultBulletList.WithItems(bullets(cfg.Policy.Consequential)).Render()

		pterm.Printf("Match mode: %s, terminator: %s\n", cfg.Policy.Match, cfg.Policy.Terminator)
		return nil
	},
}

func bullets(values []string) []pterm.BulletListItem {
	items := make([]pterm.BulletListItem, 0, len(values))
	for _, value := range values {
		items = append(items, pterm.BulletListItem{Level: 0, Text: value})
	}
	return items
}
