package cmd

import (
	"strings"
	"testing"
	"time"

	"salescopilot/pkg/store"
)

func TestFormatInteraction(t *testing.T) {
	t.Parallel()

	entry := store.Interaction{
		ChatID:        "c1",
		OperatorEmail: "op@shop.com",
		ActionType:    "open_dashboard",
		Details:       map[string]any{"input": map[string]any{}},
		CreatedAt:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}

	got := formatInteraction(entry)
	for _, want := range []string{"2026-08-30T12:00:00Z", "open_dashboard", "chat=c1", "operator=op@shop.com", `"input"`} {
		if !strings.Contains(got, want) {
			t.Fatalf("formatInteraction = %q, missing %q", got, want)
		}
	}
}

func TestFormatInteractionWithoutDetails(t *testing.T) {
	t.Parallel()

	entry := store.Interaction{ChatID: "c2", ActionType: "refresh_widget", CreatedAt: time.Unix(0, 0).UTC()}
	if got := formatInteraction(entry); strings.Contains(got, "{") {
		t.Fatalf("formatInteraction = %q, want no details blob", got)
	}
}
