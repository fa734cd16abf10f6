package main

import (
	"errors"
	"strconv"
	"time"

	"github.com/povarna/generative-ai-agents/sql-agent/internal/history"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/setup"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent questions and what was done with them",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := setup.LoadConfig()
		if cfg.RedisAddr == "" {
			return errors.New("history requires REDIS_ADDR")
		}

		ctx := cmd.Context()
		client, err := redis.Connect(ctx, cfg.RedisOptions(), &logger)
		if err != nil {
			return err
		}
		defer client.Close()

		store := history.NewRedisStore(client, history.DefaultKey, history.DefaultMaxEntries, cfg.HistoryTTL)
		entries, err := store.Recent(ctx, historyLimit)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			pterm.Info.Println("No questions recorded yet")
			return nil
		}

		return pterm.DefaultTable.WithHasHeader().WithData(historyTable(entries)).Render()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show")
}

func historyTable(entries []history.Entry) pterm.TableData {
	data := pterm.TableData{{"Time", "Question", "Command", "Outcome", "Rows"}}
	for _, entry := range entries {
		data = append(data, []string{
			entry.CreatedAt.Local().Format(time.DateTime),
			entry.Question,
			entry.Command,
			entry.Outcome,
			strconv.Itoa(entry.RowCount),
		})
	}
	return data
}
