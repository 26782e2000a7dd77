package payload

import (
	"encoding/json"
	"errors"
)

// Payload is an untrusted inbound webhook body. SalesIQ deliveries nest the
// same logical fields under several alternative conventions depending on the
// widget surface that fired them, so no field can be assumed present and
// every lookup is defensive.
type Payload map[string]any

// Decode parses a raw JSON body into a Payload. Only a top-level JSON object
// is accepted; anything else is a malformed delivery.
func Decode(raw []byte) (Payload, error) {
	if len(raw) == 0 {
		return Payload{}, nil
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, errors.New("payload is not a JSON object")
	}
	if p == nil {
		p = Payload{}
	}

	return p, nil
}

// Map walks the given key path and returns the nested object, or nil when
// any step is missing or not an object.
func (p Payload) Map(path ...string) Payload {
	current := map[string]any(p)
	for _, key := range path {
		value, ok := current[key]
		if !ok {
			return nil
		}
		next, ok := value.(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}

	return Payload(current)
}

// String walks the given key path and returns the string value at the leaf,
// or "" when any step is missing or mistyped.
func (p Payload) String(path ...string) string {
	if len(path) == 0 {
		return ""
	}

	parent := p
	if len(path) > 1 {
		parent = p.Map(path[:len(path)-1]...)
	}
	if parent == nil {
		return ""
	}

	value, ok := parent[path[len(path)-1]].(string)
	if !ok {
		return ""
	}

	return value
}
