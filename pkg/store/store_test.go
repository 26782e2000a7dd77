package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "copilot.db"))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestAppendAndReadInteractions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entry := Interaction{
		ChatID:        "chat-1",
		OperatorEmail: "agent@desk.com",
		ActionType:    "refresh_widget",
		Details:       map[string]any{"input": map[string]any{"source": "widget"}},
	}
	if err := s.AppendInteraction(ctx, entry); err != nil {
		t.Fatalf("AppendInteraction error: %v", err)
	}

	got, err := s.RecentInteractions(ctx, "chat-1", 10)
	if err != nil {
		t.Fatalf("RecentInteractions error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("interactions = %d, want 1", len(got))
	}
	if got[0].ID == "" {
		t.Fatal("expected generated interaction id")
	}
	if got[0].ActionType != "refresh_widget" {
		t.Fatalf("action type = %q, want refresh_widget", got[0].ActionType)
	}
	if got[0].CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
	input, ok := got[0].Details["input"].(map[string]any)
	if !ok || input["source"] != "widget" {
		t.Fatalf("details = %v, want input.source preserved", got[0].Details)
	}
}

func TestRecentInteractionsFilterAndOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, chat := range []string{"chat-a", "chat-b", "chat-a"} {
		entry := Interaction{
			ChatID:        chat,
			OperatorEmail: "agent@desk.com",
			ActionType:    "open_dashboard",
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.AppendInteraction(ctx, entry); err != nil {
			t.Fatalf("AppendInteraction error: %v", err)
		}
	}

	all, err := s.RecentInteractions(ctx, "", 0)
	if err != nil {
		t.Fatalf("RecentInteractions error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all interactions = %d, want 3", len(all))
	}
	if all[0].CreatedAt.Before(all[1].CreatedAt) {
		t.Fatal("expected newest-first ordering")
	}

	chatA, err := s.RecentInteractions(ctx, "chat-a", 10)
	if err != nil {
		t.Fatalf("RecentInteractions error: %v", err)
	}
	if len(chatA) != 2 {
		t.Fatalf("chat-a interactions = %d, want 2", len(chatA))
	}
}

func TestVisitorUpsertAndLookup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	missing, err := s.VisitorByEmail(ctx, "new@shop.com")
	if err != nil {
		t.Fatalf("VisitorByEmail error: %v", err)
	}
	if missing != nil {
		t.Fatalf("unknown visitor = %+v, want nil", missing)
	}

	v := Visitor{
		Email:       "new@shop.com",
		TotalSpend:  125.5,
		OrderCount:  2,
		LastOrderAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.UpsertVisitor(ctx, v); err != nil {
		t.Fatalf("UpsertVisitor error: %v", err)
	}

	got, err := s.VisitorByEmail(ctx, "new@shop.com")
	if err != nil {
		t.Fatalf("VisitorByEmail error: %v", err)
	}
	if got == nil {
		t.Fatal("expected visitor after upsert")
	}
	if got.Name != "Guest" || got.Platform != "shopify" || got.Currency != "USD" {
		t.Fatalf("defaults not applied: %+v", got)
	}
	if got.TotalSpend != 125.5 || got.OrderCount != 2 {
		t.Fatalf("profile = %+v, want spend 125.5 / 2 orders", got)
	}

	v.TotalSpend = 200
	v.OrderCount = 3
	if err := s.UpsertVisitor(ctx, v); err != nil {
		t.Fatalf("UpsertVisitor update error: %v", err)
	}

	got, err = s.VisitorByEmail(ctx, "new@shop.com")
	if err != nil {
		t.Fatalf("VisitorByEmail error: %v", err)
	}
	if got.TotalSpend != 200 || got.OrderCount != 3 {
		t.Fatalf("updated profile = %+v, want spend 200 / 3 orders", got)
	}
}

func TestUpsertVisitorRequiresEmail(t *testing.T) {
	s := openTestStore(t)

	if err := s.UpsertVisitor(context.Background(), Visitor{}); err == nil {
		t.Fatal("expected error for empty email")
	}
}
