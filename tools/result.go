package tools

import "strings"

// ContentTypeText is the only content type produced by the tools.
const ContentTypeText = "text"

// Content is a single item of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the envelope returned for every tool call.
type Result struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError"`
}

// NewTextResult returns a successful result with a single text item.
func NewTextResult(text string) *Result {
	return &Result{
		Content: []Content{{Type: ContentTypeText, Text: text}},
	}
}

// NewErrorResult returns a failed result with a single text item.
func NewErrorResult(text string) *Result {
	return &Result{
		Content: []Content{{Type: ContentTypeText, Text: text}},
		IsError: true,
	}
}

// Text returns the text of all content items joined by a new line.
func (r *Result) Text() string {
	if r == nil {
		return ""
	}
	if len(r.Content) == 1 {
		return r.Content[0].Text
	}
	parts := make([]string, 0, len(r.Content))
	for _, c := range r.Content {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n")
}
