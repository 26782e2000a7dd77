package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salescopilot/pkg/ai"
	"salescopilot/pkg/commerce"
	"salescopilot/pkg/config"
	"salescopilot/pkg/copilot"
	"salescopilot/pkg/gateway"
	"salescopilot/pkg/logger"
	"salescopilot/pkg/recommend"
	"salescopilot/pkg/shopify"
	"salescopilot/pkg/store"

	"github.com/spf13/cobra"
)

const defaultStorePath = "salescopilot.db"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the SalesIQ webhook server",
	Long:  "Serves the widget webhook with health and readiness endpoints until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		_ = args

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			return
		}

		appLogger, err := logger.New(cfg.Logging)
		if err != nil {
			fmt.Printf("failed to initialize logger: %v\n", err)
			return
		}
		slog.SetDefault(appLogger)
		log := slog.Default().With("component", "cmd.serve")

		st, err := store.New(storePath(cfg))
		if err != nil {
			log.Error("Failed to open interaction store", "error", err)
			return
		}
		defer st.Close()

		core, aiClient, shopClient, err := buildCopilot(cfg, st, slog.Default())
		if err != nil {
			log.Error("Failed to initialize copilot core", "error", err)
			return
		}

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := gateway.NewService(cfg, core, aiClient, shopClient.Live(), slog.Default())
		if err != nil {
			log.Error("Failed to initialize webhook service", "error", err)
			return
		}

		log.Info("Copilot started", "store", storePath(cfg), "shopify_live", shopClient.Live(), "ai_enabled", aiClient.Enabled())
		if err := svc.Run(runCtx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("Webhook service failed", "error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// buildCopilot wires the copilot core from configuration. The AI and Shopify
// clients are returned alongside so callers can surface their modes.
func buildCopilot(cfg *config.Config, st *store.Store, log *slog.Logger) (*copilot.Copilot, *ai.Client, *shopify.Client, error) {
	aiClient := ai.NewClient(cfg.AI, log)
	shopClient := shopify.NewClient(cfg.Shopify, log)
	manager := commerce.NewManager(shopClient, st, log)
	recommender := recommend.NewService(shopClient, shopClient, cfg.Widget.MaxRecommendations, log)

	core, err := copilot.New(copilot.Deps{
		Profiles:         manager,
		Orders:           manager,
		Sentiment:        aiClient,
		Replies:          aiClient,
		Recommender:      recommender,
		Interactions:     st,
		DashboardBaseURL: cfg.Dashboard.BaseURL,
		MaxOrders:        cfg.Widget.MaxOrders,
		FetchTimeout:     time.Duration(cfg.Widget.FetchTimeoutSeconds) * time.Second,
		Log:              log,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	return core, aiClient, shopClient, nil
}

func storePath(cfg *config.Config) string {
	if cfg.Store.Path != "" {
		return cfg.Store.Path
	}

	return defaultStorePath
}
