package payload

import (
	"testing"
)

func TestExtractContextAllSentinels(t *testing.T) {
	t.Parallel()

	shapes := []Payload{
		{},
		{"visitor": map[string]any{}},
		{"context": map[string]any{"visitor": map[string]any{}}},
		{"data": map[string]any{"context": map[string]any{}}},
		{"context": map[string]any{"data": map[string]any{"phone": "123"}}},
		{"visitor": "scalar", "conversation": []any{"not", "a", "map"}},
	}

	for i, shape := range shapes {
		got := ExtractContext(shape)
		if got.Email != GuestEmail {
			t.Fatalf("shape %d: email = %q, want guest sentinel", i, got.Email)
		}
		if got.ChatID != UnknownChatID {
			t.Fatalf("shape %d: chat id = %q, want unknown sentinel", i, got.ChatID)
		}
		if got.Message != "" {
			t.Fatalf("shape %d: message = %q, want empty", i, got.Message)
		}
	}
}

func TestExtractContextFallbackDepth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		p     Payload
		email string
	}{
		{
			name:  "top level visitor",
			p:     Payload{"visitor": map[string]any{"email": "top@shop.com"}},
			email: "top@shop.com",
		},
		{
			name:  "context visitor",
			p:     Payload{"context": map[string]any{"visitor": map[string]any{"email": "ctx@shop.com"}}},
			email: "ctx@shop.com",
		},
		{
			name:  "data visitor only",
			p:     Payload{"data": map[string]any{"visitor": map[string]any{"email": "data@shop.com"}}},
			email: "data@shop.com",
		},
		{
			name:  "data context visitor",
			p:     Payload{"data": map[string]any{"context": map[string]any{"visitor": map[string]any{"email": "deep@shop.com"}}}},
			email: "deep@shop.com",
		},
		{
			name:  "context data email_id",
			p:     Payload{"context": map[string]any{"data": map[string]any{"email_id": "id@shop.com"}}},
			email: "id@shop.com",
		},
		{
			name:  "context data email",
			p:     Payload{"context": map[string]any{"data": map[string]any{"email": "plain@shop.com"}}},
			email: "plain@shop.com",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractContext(tc.p).Email; got != tc.email {
				t.Fatalf("email = %q, want %q", got, tc.email)
			}
		})
	}
}

func TestExtractContextPriorityOrder(t *testing.T) {
	t.Parallel()

	// Conflicting sources: the earlier chain entry must win.
	p := Payload{
		"visitor": map[string]any{"email": "primary@shop.com"},
		"context": map[string]any{
			"visitor":         map[string]any{"email": "secondary@shop.com"},
			"conversation_id": "chat-secondary",
		},
		"conversation":    map[string]any{"id": "chat-primary", "message": "where is my order"},
		"conversation_id": "chat-flat",
	}

	got := ExtractContext(p)
	if got.Email != "primary@shop.com" {
		t.Fatalf("email = %q, want primary source", got.Email)
	}
	if got.ChatID != "chat-primary" {
		t.Fatalf("chat id = %q, want conversation.id to win", got.ChatID)
	}
	if got.Message != "where is my order" {
		t.Fatalf("message = %q, want conversation.message", got.Message)
	}
}

func TestExtractContextChatIDChain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		p      Payload
		chatID string
	}{
		{"flat conversation_id", Payload{"conversation_id": "c-flat"}, "c-flat"},
		{"context conversation_id", Payload{"context": map[string]any{"conversation_id": "c-ctx"}}, "c-ctx"},
		{"data conversation id", Payload{"data": map[string]any{"conversation": map[string]any{"id": "c-data"}}}, "c-data"},
		{"data conversation_id", Payload{"data": map[string]any{"conversation_id": "c-data-flat"}}, "c-data-flat"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractContext(tc.p).ChatID; got != tc.chatID {
				t.Fatalf("chat id = %q, want %q", got, tc.chatID)
			}
		})
	}
}

func TestOperatorEmailSentinel(t *testing.T) {
	t.Parallel()

	if got := OperatorEmail(Payload{}); got != UnknownOperator {
		t.Fatalf("operator = %q, want unknown sentinel", got)
	}
	if got := OperatorEmail(Payload{"operator": map[string]any{"email": "agent@desk.com"}}); got != "agent@desk.com" {
		t.Fatalf("operator = %q, want agent@desk.com", got)
	}
}
