// Package recommend derives upsell suggestions for a chat visitor from their
// most recent purchase: last ordered item -> search keyword -> real catalog
// products, each annotated with a reason the operator can read out.
package recommend

import (
	"context"
	"log/slog"
	"strings"

	"salescopilot/pkg/shopify"
)

const defaultMaxRecommendations = 2

// Recommendation is one suggested product with the reason it was picked.
type Recommendation struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Image     string `json:"image"`
	Reason    string `json:"reason"`
}

// OrderSource supplies recent orders for a visitor email.
type OrderSource interface {
	OrdersByEmail(ctx context.Context, email string) ([]shopify.Order, error)
}

// ProductSearcher finds catalog products matching a keyword.
type ProductSearcher interface {
	SearchProducts(ctx context.Context, query string) ([]shopify.Product, error)
}

// Service computes recommendations for visitors.
type Service struct {
	orders   OrderSource
	products ProductSearcher
	max      int
	log      *slog.Logger
}

// NewService builds a recommendation service. A max below one applies the
// default of two, which keeps the widget section compact.
func NewService(orders OrderSource, products ProductSearcher, max int, log *slog.Logger) *Service {
	if max < 1 {
		max = defaultMaxRecommendations
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		orders:   orders,
		products: products,
		max:      max,
		log:      log.With("component", "recommend.service"),
	}
}

// ForVisitor returns up to max recommendations for the visitor. Failures
// degrade to an empty list, never an error the widget has to handle.
func (s *Service) ForVisitor(ctx context.Context, email string) ([]Recommendation, error) {
	keyword, lastItem := s.searchContext(ctx, email)

	products, err := s.products.SearchProducts(ctx, keyword)
	if err != nil {
		s.log.Warn("Product search failed", "keyword", keyword, "error", err)
		return []Recommendation{}, nil
	}

	reason := "Popular right now"
	if lastItem != "" {
		reason = "Matches your " + lastItem
	}

	recommendations := make([]Recommendation, 0, s.max)
	for _, product := range products {
		recommendations = append(recommendations, Recommendation{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Image:     product.Image,
			Reason:    reason,
		})
		if len(recommendations) == s.max {
			break
		}
	}

	return recommendations, nil
}

// searchContext picks the catalog keyword from the visitor's last order.
// The first word of the most recent line item is a crude but effective proxy
// for "more like what they bought"; visitors without orders get the featured
// shelf.
func (s *Service) searchContext(ctx context.Context, email string) (keyword, lastItem string) {
	keyword = "featured"

	orders, err := s.orders.OrdersByEmail(ctx, email)
	if err != nil {
		s.log.Warn("Order lookup for recommendations failed", "email", email, "error", err)
		return keyword, ""
	}
	if len(orders) == 0 || strings.TrimSpace(orders[0].Items) == "" {
		return keyword, ""
	}

	lastItem = strings.TrimSpace(strings.Split(orders[0].Items, ",")[0])
	if lastItem == "" {
		return keyword, ""
	}

	if first := strings.TrimSpace(strings.Split(lastItem, " ")[0]); first != "" {
		keyword = first
	}

	return keyword, lastItem
}
