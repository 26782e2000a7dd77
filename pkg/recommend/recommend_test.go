package recommend

import (
	"context"
	"errors"
	"testing"

	"salescopilot/pkg/shopify"
)

type fakeOrders struct {
	orders []shopify.Order
	err    error
}

func (f *fakeOrders) OrdersByEmail(_ context.Context, _ string) ([]shopify.Order, error) {
	return f.orders, f.err
}

type fakeProducts struct {
	lastQuery string
	products  []shopify.Product
	err       error
}

func (f *fakeProducts) SearchProducts(_ context.Context, query string) ([]shopify.Product, error) {
	f.lastQuery = query
	return f.products, f.err
}

func TestForVisitorUsesLastOrderKeyword(t *testing.T) {
	t.Parallel()

	orders := &fakeOrders{orders: []shopify.Order{{Items: "Red Denim Jacket, White Tee"}}}
	products := &fakeProducts{products: []shopify.Product{
		{ID: "p1", Title: "Red Scarf", Price: "20.00"},
		{ID: "p2", Title: "Red Beanie", Price: "15.00"},
		{ID: "p3", Title: "Red Gloves", Price: "18.00"},
	}}

	service := NewService(orders, products, 0, nil)
	got, err := service.ForVisitor(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("ForVisitor error: %v", err)
	}

	if products.lastQuery != "Red" {
		t.Fatalf("search keyword = %q, want first word of last item", products.lastQuery)
	}
	if len(got) != 2 {
		t.Fatalf("recommendations = %d, want default cap of 2", len(got))
	}
	if got[0].Reason != "Matches your Red Denim Jacket" {
		t.Fatalf("reason = %q", got[0].Reason)
	}
}

func TestForVisitorWithoutOrders(t *testing.T) {
	t.Parallel()

	products := &fakeProducts{products: []shopify.Product{{ID: "p1", Title: "Featured Pick"}}}
	service := NewService(&fakeOrders{}, products, 2, nil)

	got, err := service.ForVisitor(context.Background(), "new@b.com")
	if err != nil {
		t.Fatalf("ForVisitor error: %v", err)
	}

	if products.lastQuery != "featured" {
		t.Fatalf("search keyword = %q, want featured default", products.lastQuery)
	}
	if len(got) != 1 || got[0].Reason != "Popular right now" {
		t.Fatalf("recommendations = %+v", got)
	}
}

func TestForVisitorOrderLookupFailure(t *testing.T) {
	t.Parallel()

	products := &fakeProducts{products: []shopify.Product{{ID: "p1", Title: "Featured Pick"}}}
	service := NewService(&fakeOrders{err: errors.New("boom")}, products, 2, nil)

	got, err := service.ForVisitor(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("ForVisitor error: %v", err)
	}
	if products.lastQuery != "featured" {
		t.Fatalf("search keyword = %q, want featured fallback", products.lastQuery)
	}
	if len(got) != 1 {
		t.Fatalf("recommendations = %d, want 1", len(got))
	}
}

func TestForVisitorSearchFailureReturnsEmpty(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeOrders{}, &fakeProducts{err: errors.New("down")}, 2, nil)

	got, err := service.ForVisitor(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("ForVisitor error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("recommendations = %d, want 0 on search failure", len(got))
	}
}
