package payload

// Kind classifies one inbound delivery.
type Kind int

const (
	// KindView requests a full widget render. It is the default when a
	// delivery carries no action signal: rebuilding the UI is safer than
	// silently ignoring an ambiguous payload.
	KindView Kind = iota
	// KindAction is a discrete operator-triggered button event.
	KindAction
)

func (k Kind) String() string {
	if k == KindAction {
		return "action"
	}
	return "view"
}

// Button ids understood by the dispatcher. Anything else falls through to a
// generic acknowledgement banner. The exact ids mirror the widget contract,
// so they are adjustable per target platform without touching dispatch logic.
const (
	NameOpenDashboard = "open_dashboard"
	NameCopyText      = "handle_copy_text"
	NameRefreshWidget = "refresh_widget"
)

// ActionKind is the closed vocabulary the dispatcher matches exhaustively.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionOpenExternal
	ActionInjectText
	ActionRefresh
)

// Action is one classified button event. Name keeps the literal wire id even
// for unknown actions so the interaction log records what the operator
// actually clicked.
type Action struct {
	Kind ActionKind
	Name string
	Data Payload
}

// Classify decides whether a delivery is a button action or a view request.
// It is total over any payload shape.
func Classify(p Payload) Kind {
	if p.String("handler") == "action" {
		return KindAction
	}
	if actionName(p) != "" {
		return KindAction
	}

	return KindView
}

// ParseAction extracts the action name and data from a delivery already
// classified as KindAction and maps the name onto the closed action
// vocabulary.
func ParseAction(p Payload) Action {
	name := actionName(p)

	action := Action{Name: name, Data: p.Map("action", "data")}
	if action.Data == nil {
		action.Data = Payload{}
	}

	switch name {
	case NameOpenDashboard:
		action.Kind = ActionOpenExternal
	case NameCopyText:
		action.Kind = ActionInjectText
	case NameRefreshWidget:
		action.Kind = ActionRefresh
	default:
		action.Kind = ActionUnknown
	}

	return action
}

// actionName resolves the button identifier. The platform has shipped it both
// as action.name and action.id, and some surfaces flatten it to the top level.
func actionName(p Payload) string {
	return firstNonEmpty(
		p.String("action", "name"),
		p.String("action", "id"),
		p.String("name"),
		p.String("id"),
	)
}
