package main

import (
	"github.com/povarna/generative-ai-agents/sql-agent/internal/setup"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create the STUDENT table if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := setup.ConnectDB(ctx, setup.LoadConfig())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Provision(ctx); err != nil {
			return err
		}

		pterm.Success.Println("STUDENT table is ready")
		return nil
	},
}
