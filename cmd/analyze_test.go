package cmd

import (
	"reflect"
	"testing"

	"salescopilot/pkg/ai"
)

func TestIsExitCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "exit", want: true},
		{input: " quit ", want: true},
		{input: ":q", want: true},
		{input: "EXIT", want: true},
		{input: "hello", want: false},
		{input: "quit now", want: false},
	}

	for _, tt := range tests {
		if got := isExitCommand(tt.input); got != tt.want {
			t.Fatalf("isExitCommand(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestResolveMessage(t *testing.T) {
	original := messageText
	t.Cleanup(func() {
		messageText = original
	})

	messageText = " from-flag "
	if got := resolveMessage([]string{"from", "args"}); got != "from-flag" {
		t.Fatalf("resolveMessage with flag = %q, want %q", got, "from-flag")
	}

	messageText = ""
	if got := resolveMessage([]string{"where", "is", "my", "order"}); got != "where is my order" {
		t.Fatalf("resolveMessage with args = %q", got)
	}

	if got := resolveMessage(nil); got != "" {
		t.Fatalf("resolveMessage without input = %q, want empty", got)
	}
}

func TestAnalysisLines(t *testing.T) {
	got := analysisLines(ai.Sentiment{Score: -0.8, Label: "Negative"}, []string{"Sorry about that.", "Let me check."})
	want := []string{
		"Sentiment: Negative (-0.80)",
		"Reply 1: Sorry about that.",
		"Reply 2: Let me check.",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("analysisLines = %#v, want %#v", got, want)
	}
}
