package payload

import (
	"math/rand"
	"testing"
)

func TestClassifyExplicitHandler(t *testing.T) {
	t.Parallel()

	if got := Classify(Payload{"handler": "action"}); got != KindAction {
		t.Fatalf("handler=action classified %v, want action", got)
	}
	if got := Classify(Payload{"handler": "detail"}); got != KindView {
		t.Fatalf("handler=detail classified %v, want view", got)
	}
}

func TestClassifyByActionName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    Payload
		want Kind
	}{
		{"nested action name", Payload{"action": map[string]any{"name": "refresh_widget"}}, KindAction},
		{"nested action id", Payload{"action": map[string]any{"id": "open_dashboard"}}, KindAction},
		{"flat name", Payload{"name": "refresh_widget"}, KindAction},
		{"flat id", Payload{"id": "handle_copy_text"}, KindAction},
		{"empty payload", Payload{}, KindView},
		{"view detail", Payload{"conversation": map[string]any{"id": "c1"}}, KindView},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.p); got != tc.want {
				t.Fatalf("classified %v, want %v", got, tc.want)
			}
		})
	}
}

// Classification must be total: any random subset of known field shapes, with
// arbitrary junk mixed in, yields exactly action or view without panicking.
func TestClassifyTotalOverFuzzedShapes(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	fragments := []func(Payload){
		func(p Payload) { p["handler"] = "action" },
		func(p Payload) { p["handler"] = 42 },
		func(p Payload) { p["action"] = map[string]any{"name": "refresh_widget"} },
		func(p Payload) { p["action"] = "scalar" },
		func(p Payload) { p["action"] = map[string]any{"data": []any{1, 2}} },
		func(p Payload) { p["name"] = "open_dashboard" },
		func(p Payload) { p["id"] = map[string]any{"nested": true} },
		func(p Payload) { p["visitor"] = map[string]any{"email": "x@y.com"} },
		func(p Payload) { p["conversation"] = map[string]any{"id": "c9"} },
		func(p Payload) { p["data"] = nil },
	}

	for i := 0; i < 100; i++ {
		p := Payload{}
		for _, fragment := range fragments {
			if rng.Intn(2) == 1 {
				fragment(p)
			}
		}

		got := Classify(p)
		if got != KindAction && got != KindView {
			t.Fatalf("iteration %d: classified %v, want action or view", i, got)
		}
	}
}

func TestParseActionVocabulary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind ActionKind
	}{
		{NameOpenDashboard, ActionOpenExternal},
		{NameCopyText, ActionInjectText},
		{NameRefreshWidget, ActionRefresh},
		{"escalate_to_manager", ActionUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			action := ParseAction(Payload{"action": map[string]any{"name": tc.name}})
			if action.Kind != tc.kind {
				t.Fatalf("kind = %v, want %v", action.Kind, tc.kind)
			}
			if action.Name != tc.name {
				t.Fatalf("name = %q, want literal wire id kept", action.Name)
			}
			if action.Data == nil {
				t.Fatal("data must never be nil")
			}
		})
	}
}

func TestParseActionKeepsData(t *testing.T) {
	t.Parallel()

	p := Payload{"action": map[string]any{
		"id":   NameCopyText,
		"data": map[string]any{"payload": map[string]any{"text": "On it, one moment."}},
	}}

	action := ParseAction(p)
	if action.Kind != ActionInjectText {
		t.Fatalf("kind = %v, want inject", action.Kind)
	}
	if got := action.Data.String("payload", "text"); got != "On it, one moment." {
		t.Fatalf("data payload text = %q", got)
	}
}
