package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "salescopilot",
	Short: "Operator copilot backend for Zoho SalesIQ",
	Long:  "SalesCopilot serves the SalesIQ widget webhook, enriching operator chats with Shopify order context, AI sentiment, smart replies, and product recommendations.",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
