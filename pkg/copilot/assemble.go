package copilot

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"salescopilot/pkg/ai"
	"salescopilot/pkg/commerce"
	"salescopilot/pkg/payload"
	"salescopilot/pkg/recommend"
	"salescopilot/pkg/shopify"
	"salescopilot/pkg/widget"
)

const (
	orderIconURL = "https://img.icons8.com/ios-glyphs/60/000000/box.png"
	replyIconURL = "https://img.icons8.com/ios-glyphs/60/000000/chat.png"
)

// AssembleView builds the ordered widget sections for one request context.
//
// The five downstream reads run concurrently and each one degrades to a
// neutral value on failure, so a single slow or broken dependency never
// blanks the whole widget. Any panic inside section construction is converted
// into a minimal error view; this function never propagates a failure to the
// transport layer.
func (c *Copilot) AssembleView(ctx context.Context, reqCtx payload.Context) (sections []widget.Section) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("View assembly failed", "chat_id", reqCtx.ChatID, "panic", r)
			sections = c.errorView(fmt.Sprintf("%v", r))
		}
	}()

	var (
		profile         commerce.Profile
		orders          []shopify.Order
		sentiment       = ai.Sentiment{Label: "Neutral"}
		replies         []string
		recommendations []recommend.Recommendation
	)

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, err := c.fetchProfile(groupCtx, reqCtx.Email)
		if err != nil {
			c.log.Warn("Profile fetch degraded", "email", reqCtx.Email, "error", err)
			return nil
		}
		profile = result
		return nil
	})
	g.Go(func() error {
		result, err := c.fetchOrders(groupCtx, reqCtx.Email)
		if err != nil {
			c.log.Warn("Order fetch degraded", "email", reqCtx.Email, "error", err)
			return nil
		}
		orders = result
		return nil
	})
	g.Go(func() error {
		result, err := c.fetchSentiment(groupCtx, reqCtx.Message)
		if err != nil {
			c.log.Warn("Sentiment fetch degraded", "error", err)
			return nil
		}
		sentiment = result
		return nil
	})
	g.Go(func() error {
		result, err := c.fetchReplies(groupCtx, reqCtx.Message, reqCtx.Email)
		if err != nil {
			c.log.Warn("Smart reply fetch degraded", "error", err)
			return nil
		}
		replies = result
		return nil
	})
	g.Go(func() error {
		result, err := c.fetchRecommendations(groupCtx, reqCtx.Email)
		if err != nil {
			c.log.Warn("Recommendation fetch degraded", "email", reqCtx.Email, "error", err)
			return nil
		}
		recommendations = result
		return nil
	})
	_ = g.Wait()

	totalSpend := commerce.OrderTotal(orders)

	sections = []widget.Section{
		widget.MetricSection("metrics", "CUSTOMER VITALS", []widget.Metric{
			{Label: "Sentiment", Value: sentiment.Label},
			{Label: "LTV", Value: fmt.Sprintf("$%.2f", totalSpend)},
			{Label: "Total Orders", Value: fmt.Sprintf("%d", len(orders))},
		}),
		c.orderHistorySection(orders, profile),
		repliesSection(replies),
		recommendationsSection(filterOwnedProducts(recommendations, orders)),
		c.actionsSection(reqCtx),
	}

	return sections
}

// fetch helpers wrap each collaborator call in its own deadline so one stuck
// dependency cannot hold the whole join past the budget.

func (c *Copilot) fetchProfile(ctx context.Context, email string) (commerce.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()
	return c.profiles.CustomerProfile(ctx, email)
}

func (c *Copilot) fetchOrders(ctx context.Context, email string) ([]shopify.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()
	return c.orders.RecentOrders(ctx, email)
}

func (c *Copilot) fetchSentiment(ctx context.Context, message string) (ai.Sentiment, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()
	return c.sentiment.AnalyzeSentiment(ctx, message)
}

func (c *Copilot) fetchReplies(ctx context.Context, message, email string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()
	return c.replies.SmartReplies(ctx, message, ai.ReplyContext{Email: email})
}

func (c *Copilot) fetchRecommendations(ctx context.Context, email string) ([]recommend.Recommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()
	return c.recommender.ForVisitor(ctx, email)
}

func (c *Copilot) orderHistorySection(orders []shopify.Order, profile commerce.Profile) widget.Section {
	if len(orders) == 0 {
		text := "No purchase history for this visitor yet."
		if profile.Platform != "" {
			text = fmt.Sprintf("No %s purchase history for this visitor yet.", profile.Platform)
		}
		return widget.ListingSection("order_history", "RECENT ORDER HISTORY", []widget.ListingItem{
			{Title: "No orders found", Text: text, Image: orderIconURL},
		})
	}

	items := make([]widget.ListingItem, 0, c.maxOrders)
	for _, order := range orders {
		items = append(items, widget.ListingItem{
			Title:         "Order " + order.Name,
			Text:          fmt.Sprintf("%s | %s", orderDate(order.Date), strings.ToUpper(order.Status)),
			Subtext:       order.Items,
			Image:         orderIconURL,
			ActionPayload: map[string]any{"text": "Order ID: " + order.Name},
		})
		if len(items) == c.maxOrders {
			break
		}
	}

	return widget.ListingSection("order_history", "RECENT ORDER HISTORY", items)
}

func repliesSection(replies []string) widget.Section {
	items := make([]widget.ListingItem, 0, len(replies))
	for _, reply := range replies {
		items = append(items, widget.ListingItem{
			Title:         "AI Suggestion",
			Text:          reply,
			Image:         replyIconURL,
			ActionPayload: map[string]any{"text": reply},
		})
	}

	return widget.ListingSection("ai_replies", "AI SMART REPLIES", items)
}

func recommendationsSection(recommendations []recommend.Recommendation) widget.Section {
	items := make([]widget.ListingItem, 0, len(recommendations))
	for _, rec := range recommendations {
		reason := rec.Reason
		if reason == "" {
			reason = "Recommended"
		}
		items = append(items, widget.ListingItem{
			Title:         rec.Title,
			Text:          reason,
			Subtext:       "Price: " + rec.Price,
			Image:         rec.Image,
			ActionPayload: map[string]any{"text": "Check " + rec.Title},
		})
	}

	return widget.ListingSection("recommendations", "UPSELL OPPORTUNITIES", items)
}

func (c *Copilot) actionsSection(reqCtx payload.Context) widget.Section {
	return widget.ButtonsSection("global_actions", []widget.Button{
		widget.InvokeButton("Refresh Analysis", payload.NameRefreshWidget, map[string]any{}),
		widget.LinkButton("Open Full Dashboard", c.dashboardURL(reqCtx.ChatID, reqCtx.Email)),
	})
}

// filterOwnedProducts drops recommendations the customer already bought; a
// product whose title shows up in any order's line items is not an upsell.
func filterOwnedProducts(recommendations []recommend.Recommendation, orders []shopify.Order) []recommend.Recommendation {
	if len(recommendations) == 0 || len(orders) == 0 {
		return recommendations
	}

	kept := make([]recommend.Recommendation, 0, len(recommendations))
	for _, rec := range recommendations {
		title := strings.ToLower(strings.TrimSpace(rec.Title))
		owned := false
		for _, order := range orders {
			if title != "" && strings.Contains(strings.ToLower(order.Items), title) {
				owned = true
				break
			}
		}
		if !owned {
			kept = append(kept, rec)
		}
	}

	return kept
}

// errorView is the minimal renderable body for a failed assembly.
func (c *Copilot) errorView(message string) []widget.Section {
	if message == "" {
		message = "Unknown error"
	}

	return []widget.Section{
		widget.MetricSection("error", "System Error", []widget.Metric{
			{Label: "Status", Value: "Error"},
		}),
		widget.FieldsetSection("error_details", "Debug Info", []widget.Field{
			{Label: "Message", Value: message},
		}),
	}
}

// orderDate trims an ISO timestamp down to its date part for display.
func orderDate(value string) string {
	if len(value) >= 10 {
		return value[:10]
	}

	return value
}
