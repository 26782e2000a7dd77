package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salescopilot/pkg/config"
	"salescopilot/pkg/store"

	"github.com/spf13/cobra"
)

var (
	interactionsChatID string
	interactionsLimit  int
)

// interactionsCmd prints recent operator interaction records from the local
// store, newest first.
var interactionsCmd = &cobra.Command{
	Use:   "interactions",
	Short: "Show recent operator interactions",
	Run: func(cmd *cobra.Command, args []string) {
		_ = args

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			return
		}

		st, err := store.New(storePath(cfg))
		if err != nil {
			fmt.Printf("failed to open interaction store: %v\n", err)
			return
		}
		defer st.Close()

		entries, err := st.RecentInteractions(context.Background(), interactionsChatID, interactionsLimit)
		if err != nil {
			fmt.Printf("failed to read interactions: %v\n", err)
			return
		}

		if len(entries) == 0 {
			fmt.Println("no interactions recorded")
			return
		}

		for _, entry := range entries {
			fmt.Println(formatInteraction(entry))
		}
	},
}

func init() {
	rootCmd.AddCommand(interactionsCmd)
	interactionsCmd.Flags().StringVar(&interactionsChatID, "chat", "", "filter by chat id")
	interactionsCmd.Flags().IntVar(&interactionsLimit, "limit", 20, "maximum records to show")
}

func formatInteraction(entry store.Interaction) string {
	details := ""
	if len(entry.Details) > 0 {
		if raw, err := json.Marshal(entry.Details); err == nil {
			details = " " + string(raw)
		}
	}

	return fmt.Sprintf("%s  %-20s chat=%s operator=%s%s",
		entry.CreatedAt.Format(time.RFC3339), entry.ActionType, entry.ChatID, entry.OperatorEmail, details)
}
