package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"salescopilot/pkg/ai"
	"salescopilot/pkg/config"

	"github.com/spf13/cobra"
)

var messageText string

// analyzeCmd runs the AI pipeline once against a message, or interactively
// against stdin. Useful for tuning prompts without a running widget.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [message]",
	Short: "Analyze a customer message or start an interactive session",
	Long:  "Runs sentiment analysis and smart-reply generation on one customer message, or starts an interactive loop reading messages from stdin.",
	Run: func(cmd *cobra.Command, args []string) {
		message := resolveMessage(args)

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			return
		}

		client := ai.NewClient(cfg.AI, nil)
		ctx := context.Background()

		if client.Enabled() {
			if err := client.Health(ctx); err != nil {
				fmt.Printf("AI provider unreachable, falling back to heuristics: %v\n", err)
			}
		} else {
			fmt.Println("No API key configured, using heuristic analysis.")
		}

		if message != "" {
			runSingleAnalysis(ctx, client, message)
			return
		}

		runInteractive(ctx, client)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&messageText, "message", "m", "", "customer message to analyze")
}

func resolveMessage(args []string) string {
	if value := strings.TrimSpace(messageText); value != "" {
		return value
	}

	if len(args) == 0 {
		return ""
	}

	return strings.TrimSpace(strings.Join(args, " "))
}

func runSingleAnalysis(ctx context.Context, client *ai.Client, message string) {
	sentiment, err := client.AnalyzeSentiment(ctx, message)
	if err != nil {
		fmt.Printf("sentiment analysis failed: %v\n", err)
		return
	}

	replies, err := client.SmartReplies(ctx, message, ai.ReplyContext{})
	if err != nil {
		fmt.Printf("reply generation failed: %v\n", err)
		return
	}

	printAnalysis(sentiment, replies)
}

func runInteractive(ctx context.Context, client *ai.Client) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("💬 ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				fmt.Printf("input error: %v\n", err)
			}
			return
		}

		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if isExitCommand(message) {
			return
		}

		runSingleAnalysis(ctx, client, message)
	}
}

func printAnalysis(sentiment ai.Sentiment, replies []string) {
	for _, line := range analysisLines(sentiment, replies) {
		fmt.Println(line)
	}
	fmt.Println()
}

func analysisLines(sentiment ai.Sentiment, replies []string) []string {
	lines := []string{fmt.Sprintf("Sentiment: %s (%.2f)", sentiment.Label, sentiment.Score)}
	for i, reply := range replies {
		lines = append(lines, fmt.Sprintf("Reply %d: %s", i+1, reply))
	}

	return lines
}

func isExitCommand(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit", ":q":
		return true
	default:
		return false
	}
}
