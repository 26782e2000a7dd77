package copilot

import (
	"context"
	"fmt"

	"salescopilot/pkg/payload"
	"salescopilot/pkg/store"
)

// DirectiveKind selects the response branch for one dispatched action.
type DirectiveKind int

const (
	// DirectiveBanner acknowledges the click with a generic banner.
	DirectiveBanner DirectiveKind = iota
	// DirectiveAcknowledge answers with a bare navigation so the client-side
	// open proceeds without a competing banner.
	DirectiveAcknowledge
	// DirectiveInjectText copies suggested text into the compose box.
	DirectiveInjectText
	// DirectiveFallThrough asks the caller to rebuild the full view.
	DirectiveFallThrough
)

// Directive is the dispatcher's decision for one action.
type Directive struct {
	Kind   DirectiveKind
	URL    string
	Text   string
	Status string
}

// Dispatch routes one action delivery to its response directive.
//
// Every action is logged exactly once, before branching, with the raw action
// data preserved under details.input. The log write is best-effort: a failure
// is reported to the diagnostic log and the response proceeds regardless.
func (c *Copilot) Dispatch(ctx context.Context, p payload.Payload, reqCtx payload.Context) Directive {
	action := payload.ParseAction(p)
	c.log.Info("Dispatching action", "action", action.Name, "chat_id", reqCtx.ChatID)

	entry := store.Interaction{
		ChatID:        reqCtx.ChatID,
		OperatorEmail: payload.OperatorEmail(p),
		ActionType:    action.Name,
		Details:       map[string]any{"input": map[string]any(action.Data)},
	}
	if err := c.interactions.AppendInteraction(ctx, entry); err != nil {
		c.log.Warn("Interaction log write failed", "action", action.Name, "error", err)
	}

	switch action.Kind {
	case payload.ActionOpenExternal:
		url := action.Data.String("web")
		if url == "" {
			url = c.dashboardURL(reqCtx.ChatID, reqCtx.Email)
		}
		return Directive{Kind: DirectiveAcknowledge, URL: url}

	case payload.ActionInjectText:
		return Directive{Kind: DirectiveInjectText, Text: action.Data.String("payload", "text")}

	case payload.ActionRefresh:
		return Directive{Kind: DirectiveFallThrough}

	default:
		return Directive{
			Kind:   DirectiveBanner,
			Status: "success",
			Text:   fmt.Sprintf("Action %s handled.", action.Name),
		}
	}
}
