// Package widget builds SalesIQ widget response payloads.
//
// The shapes here follow the platform's widget schema: button groups must use
// a section of type "buttons", open.url buttons carry the target under
// data.web, and invoke.function buttons carry the handler id under data.name.
// All builders are pure transforms with no I/O.
package widget

// Response is the top-level widget body returned for a view request.
type Response struct {
	Type     string    `json:"type"`
	Platform string    `json:"platform"`
	Sections []Section `json:"sections"`
}

// Section is one self-contained UI block: a metric strip, a fieldset, a
// listing, or a button group.
type Section struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Title   string   `json:"title,omitempty"`
	Layout  string   `json:"layout,omitempty"`
	Data    any      `json:"data,omitempty"`
	Buttons []Button `json:"buttons,omitempty"`
}

// Metric is one label/value pair in a metric section.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Field is one entry in a fieldset section.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// ListingItem is builder input for one row of a listing section. A non-nil
// ActionPayload makes the row actionable via the copy-text handler.
type ListingItem struct {
	Title         string
	Text          string
	Subtext       string
	Image         string
	ActionPayload map[string]any
}

// listingEntry is the wire shape of one listing row.
type listingEntry struct {
	Title   string   `json:"title"`
	Text    string   `json:"text"`
	Subtext string   `json:"subtext"`
	Image   string   `json:"image"`
	Actions []Button `json:"actions"`
}

// Button is one widget button.
type Button struct {
	Label string     `json:"label"`
	Type  string     `json:"type"`
	ID    string     `json:"id"`
	Data  ButtonData `json:"data"`
}

// ButtonData carries the per-type button arguments. invoke.function buttons
// use Name/Payload; open.url buttons use the per-platform URL fields.
type ButtonData struct {
	Name    string         `json:"name,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
	Web     string         `json:"web,omitempty"`
	Windows string         `json:"windows,omitempty"`
	IOS     string         `json:"iOS,omitempty"`
	Android string         `json:"android,omitempty"`
}

// copyTextHandler is the invoke id listing rows fire when clicked.
const copyTextHandler = "handle_copy_text"

// NewResponse wraps ordered sections into a widget_detail response.
func NewResponse(sections []Section) Response {
	return Response{
		Type:     "widget_detail",
		Platform: "web",
		Sections: sections,
	}
}

// MetricSection builds a metric-layout section.
func MetricSection(name, title string, metrics []Metric) Section {
	return Section{
		Name:   name,
		Type:   "section",
		Title:  title,
		Layout: "metric",
		Data:   metrics,
	}
}

// FieldsetSection builds a fieldset-layout section of text fields.
func FieldsetSection(name, title string, fields []Field) Section {
	for i := range fields {
		fields[i].Type = "text"
	}

	return Section{
		Name:   name,
		Type:   "section",
		Title:  title,
		Layout: "fieldset",
		Data:   fields,
	}
}

// ListingSection builds a listing-layout section. Rows with an ActionPayload
// get a single "Use" action wired to the copy-text handler.
func ListingSection(name, title string, items []ListingItem) Section {
	entries := make([]listingEntry, 0, len(items))
	for _, item := range items {
		text := item.Text
		if text == "" {
			text = item.Subtext
		}
		if text == "" {
			text = "View Details"
		}

		entry := listingEntry{
			Title:   item.Title,
			Text:    text,
			Subtext: item.Subtext,
			Image:   item.Image,
			Actions: []Button{},
		}
		if item.ActionPayload != nil {
			entry.Actions = append(entry.Actions, Button{
				Label: "Use",
				Type:  "invoke.function",
				ID:    copyTextHandler,
				Data: ButtonData{
					Name:    copyTextHandler,
					Payload: item.ActionPayload,
				},
			})
		}
		entries = append(entries, entry)
	}

	return Section{
		Name:   name,
		Type:   "section",
		Title:  title,
		Layout: "listing",
		Data:   entries,
	}
}

// ButtonsSection builds a button-group section.
func ButtonsSection(name string, buttons []Button) Section {
	return Section{
		Name:    name,
		Type:    "buttons",
		Buttons: buttons,
	}
}

// InvokeButton builds an invoke.function button. The function name doubles as
// the mandatory unique button id.
func InvokeButton(label, functionName string, payload map[string]any) Button {
	if payload == nil {
		payload = map[string]any{}
	}

	return Button{
		Label: label,
		Type:  "invoke.function",
		ID:    functionName,
		Data: ButtonData{
			Name:    functionName,
			Payload: payload,
		},
	}
}

// LinkButton builds an open.url button targeting the same URL on every
// platform surface.
func LinkButton(label, url string) Button {
	return Button{
		Label: label,
		Type:  "open.url",
		ID:    "open_dashboard",
		Data: ButtonData{
			Web:     url,
			Windows: url,
			IOS:     url,
			Android: url,
		},
	}
}
