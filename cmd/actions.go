package cmd

import (
	"context"
	"fmt"

	"salescopilot/pkg/commerce"
	"salescopilot/pkg/config"
	"salescopilot/pkg/shopify"
	"salescopilot/pkg/store"

	"github.com/spf13/cobra"
)

var actionOrderID string

// actionsCmd runs one platform action (refund, product link) from the
// terminal, mirroring what the widget buttons trigger.
var actionsCmd = &cobra.Command{
	Use:   "actions <name>",
	Short: "Execute a platform action by name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			return
		}

		st, err := store.New(storePath(cfg))
		if err != nil {
			fmt.Printf("failed to open store: %v\n", err)
			return
		}
		defer st.Close()

		manager := commerce.NewManager(shopify.NewClient(cfg.Shopify, nil), st, nil)
		result := manager.ExecuteAction(context.Background(), args[0], map[string]any{"id": actionOrderID})

		if result.Success {
			fmt.Printf("ok: %s\n", result.Message)
			return
		}
		fmt.Printf("failed: %s\n", result.Message)
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
	actionsCmd.Flags().StringVar(&actionOrderID, "order", "", "order or product id the action applies to")
}
