package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Visitor is the cached e-commerce profile for one chat visitor, refreshed
// whenever a new chat pulls fresh order data.
type Visitor struct {
	Email       string
	Name        string
	Platform    string
	TotalSpend  float64
	Currency    string
	OrderCount  int
	LastOrderAt time.Time
	UpdatedAt   time.Time
}

// VisitorByEmail returns the cached profile for email, or nil when the
// visitor has not been seen before.
func (s *Store) VisitorByEmail(ctx context.Context, email string) (*Visitor, error) {
	var v Visitor
	var lastOrderAt sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT email, name, platform, total_spend, currency, order_count, last_order_at, updated_at
		FROM visitors WHERE email = ?`, email,
	).Scan(&v.Email, &v.Name, &v.Platform, &v.TotalSpend, &v.Currency, &v.OrderCount, &lastOrderAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query visitor: %w", err)
	}
	if lastOrderAt.Valid {
		v.LastOrderAt = lastOrderAt.Time
	}

	return &v, nil
}

// UpsertVisitor inserts or refreshes a cached visitor profile.
func (s *Store) UpsertVisitor(ctx context.Context, v Visitor) error {
	if v.Email == "" {
		return errors.New("visitor email is required")
	}
	if v.Name == "" {
		v.Name = "Guest"
	}
	if v.Platform == "" {
		v.Platform = "shopify"
	}
	if v.Currency == "" {
		v.Currency = "USD"
	}

	var lastOrderAt any
	if !v.LastOrderAt.IsZero() {
		lastOrderAt = v.LastOrderAt
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (email, name, platform, total_spend, currency, order_count, last_order_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(email) DO UPDATE SET
			name = excluded.name,
			platform = excluded.platform,
			total_spend = excluded.total_spend,
			currency = excluded.currency,
			order_count = excluded.order_count,
			last_order_at = excluded.last_order_at,
			updated_at = CURRENT_TIMESTAMP`,
		v.Email, v.Name, v.Platform, v.TotalSpend, v.Currency, v.OrderCount, lastOrderAt,
	)
	if err != nil {
		return fmt.Errorf("upsert visitor: %w", err)
	}

	return nil
}
