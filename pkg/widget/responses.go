package widget

// OpenURLResponse tells the operator client to navigate without showing a
// competing banner.
type OpenURLResponse struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// PostMessageResponse injects suggested text into the operator compose box.
type PostMessageResponse struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// BannerResponse acknowledges a button click with a transient banner.
type BannerResponse struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Text   string `json:"text"`
}

// OpenURL builds an open_url acknowledgement.
func OpenURL(url string) OpenURLResponse {
	return OpenURLResponse{Type: "open_url", URL: url}
}

// PostMessage builds a post_message text injection.
func PostMessage(text string) PostMessageResponse {
	return PostMessageResponse{Type: "post_message", Text: text}
}

// Banner builds a banner acknowledgement.
func Banner(status, text string) BannerResponse {
	return BannerResponse{Type: "banner", Status: status, Text: text}
}
