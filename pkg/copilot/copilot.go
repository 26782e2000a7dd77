// Package copilot holds the webhook core: payload normalization feeds an
// action dispatcher or the concurrent view assembler, and either path ends in
// a renderable response body. Nothing in this package performs I/O directly;
// all collaborators arrive through the narrow interfaces below.
package copilot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"salescopilot/pkg/ai"
	"salescopilot/pkg/commerce"
	"salescopilot/pkg/payload"
	"salescopilot/pkg/recommend"
	"salescopilot/pkg/shopify"
	"salescopilot/pkg/store"
	"salescopilot/pkg/widget"
)

const (
	defaultDashboardBaseURL = "https://sales-iq-widget.vercel.app"
	defaultFetchTimeout     = 3 * time.Second
	defaultMaxOrders        = 3
)

// ProfileSource looks up the unified customer profile for an email.
type ProfileSource interface {
	CustomerProfile(ctx context.Context, email string) (commerce.Profile, error)
}

// OrderSource supplies the customer's recent orders.
type OrderSource interface {
	RecentOrders(ctx context.Context, email string) ([]shopify.Order, error)
}

// SentimentAnalyzer scores one customer message.
type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (ai.Sentiment, error)
}

// ReplySuggester produces reply suggestions for the operator.
type ReplySuggester interface {
	SmartReplies(ctx context.Context, text string, replyCtx ai.ReplyContext) ([]string, error)
}

// Recommender produces product recommendations for a visitor.
type Recommender interface {
	ForVisitor(ctx context.Context, email string) ([]recommend.Recommendation, error)
}

// InteractionLogger appends one operator interaction record. Delivery is
// best-effort at most once; the dispatcher never retries and never lets a
// logging failure reach the response path.
type InteractionLogger interface {
	AppendInteraction(ctx context.Context, entry store.Interaction) error
}

// Deps wires the copilot's collaborators and tuning knobs.
type Deps struct {
	Profiles     ProfileSource
	Orders       OrderSource
	Sentiment    SentimentAnalyzer
	Replies      ReplySuggester
	Recommender  Recommender
	Interactions InteractionLogger

	DashboardBaseURL string
	MaxOrders        int
	FetchTimeout     time.Duration
	Log              *slog.Logger
}

// Copilot is the webhook core shared by all inbound requests. It holds no
// per-request state.
type Copilot struct {
	profiles     ProfileSource
	orders       OrderSource
	sentiment    SentimentAnalyzer
	replies      ReplySuggester
	recommender  Recommender
	interactions InteractionLogger

	dashboardBaseURL string
	maxOrders        int
	fetchTimeout     time.Duration
	log              *slog.Logger
}

// New validates dependencies and builds the copilot core.
func New(deps Deps) (*Copilot, error) {
	if deps.Profiles == nil || deps.Orders == nil {
		return nil, errors.New("profile and order sources are required")
	}
	if deps.Sentiment == nil || deps.Replies == nil {
		return nil, errors.New("sentiment analyzer and reply suggester are required")
	}
	if deps.Recommender == nil {
		return nil, errors.New("recommender is required")
	}
	if deps.Interactions == nil {
		return nil, errors.New("interaction logger is required")
	}

	log := deps.Log
	if log == nil {
		log = slog.Default()
	}

	dashboardBaseURL := strings.TrimRight(strings.TrimSpace(deps.DashboardBaseURL), "/")
	if dashboardBaseURL == "" {
		dashboardBaseURL = defaultDashboardBaseURL
	}

	maxOrders := deps.MaxOrders
	if maxOrders < 1 {
		maxOrders = defaultMaxOrders
	}

	fetchTimeout := deps.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}

	return &Copilot{
		profiles:         deps.Profiles,
		orders:           deps.Orders,
		sentiment:        deps.Sentiment,
		replies:          deps.Replies,
		recommender:      deps.Recommender,
		interactions:     deps.Interactions,
		dashboardBaseURL: dashboardBaseURL,
		maxOrders:        maxOrders,
		fetchTimeout:     fetchTimeout,
		log:              log.With("component", "copilot"),
	}, nil
}

// HandleWebhook processes one decoded webhook delivery and returns the JSON
// response body for it: an action acknowledgement or a full widget view.
func (c *Copilot) HandleWebhook(ctx context.Context, p payload.Payload) any {
	reqCtx := payload.ExtractContext(p)
	kind := payload.Classify(p)
	c.log.Info("Webhook received", "handler", kind.String(), "chat_id", reqCtx.ChatID, "visitor", reqCtx.Email)

	if kind == payload.KindAction {
		directive := c.Dispatch(ctx, p, reqCtx)
		switch directive.Kind {
		case DirectiveAcknowledge:
			return widget.OpenURL(directive.URL)
		case DirectiveInjectText:
			return widget.PostMessage(directive.Text)
		case DirectiveBanner:
			return widget.Banner(directive.Status, directive.Text)
		case DirectiveFallThrough:
			// Refresh reuses the same request context for a full rebuild.
		}
	}

	return widget.NewResponse(c.AssembleView(ctx, reqCtx))
}

// dashboardURL builds the operator dashboard link for one chat.
func (c *Copilot) dashboardURL(chatID, email string) string {
	return c.dashboardBaseURL + "/dashboard?chatId=" + chatID + "&email=" + email
}
