package payload

// Sentinel identities substituted when a delivery carries no usable value.
// Keeping them as named constants guarantees total extraction with no null
// propagation downstream.
const (
	GuestEmail      = "guest@example.com"
	UnknownChatID   = "unknown_chat"
	UnknownOperator = "unknown"
)

// Context is the canonical identity triple derived from one inbound payload.
// It is request-scoped and immutable after extraction.
type Context struct {
	Email   string
	ChatID  string
	Message string
}

// ExtractContext derives a fully-populated Context from an arbitrarily shaped
// payload. Each field is resolved through an ordered fallback chain; the
// first non-empty source wins and the order is part of the contract, since
// ambiguous deliveries can carry conflicting values under different nestings.
func ExtractContext(p Payload) Context {
	email := firstNonEmpty(
		p.String("visitor", "email"),
		p.String("context", "visitor", "email"),
		p.String("data", "visitor", "email"),
		p.String("data", "context", "visitor", "email"),
		p.String("context", "data", "email_id"),
		p.String("context", "data", "email"),
	)
	if email == "" {
		email = GuestEmail
	}

	chatID := firstNonEmpty(
		p.String("conversation", "id"),
		p.String("conversation_id"),
		p.String("context", "conversation_id"),
		p.String("data", "conversation", "id"),
		p.String("data", "conversation_id"),
	)
	if chatID == "" {
		chatID = UnknownChatID
	}

	return Context{
		Email:   email,
		ChatID:  chatID,
		Message: p.String("conversation", "message"),
	}
}

// OperatorEmail returns the operator identity attached to an action delivery,
// or the unknown sentinel when absent.
func OperatorEmail(p Payload) string {
	if email := p.String("operator", "email"); email != "" {
		return email
	}

	return UnknownOperator
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return ""
}
