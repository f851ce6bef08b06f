package webscraping

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

//go:generate mockgen -source=api.go -destination=../mocks/mockwebscraping/api_mock.gen.go -package mockwebscraping

// Upstream endpoints.
const (
	EndpointQuestion         = "/ai/question"
	EndpointFields           = "/ai/fields"
	EndpointHTML             = "/html"
	EndpointText             = "/text"
	EndpointSelected         = "/selected"
	EndpointSelectedMultiple = "/selected-multiple"
	EndpointAccount          = "/account"
)

// API is the WebScraping.AI surface.
// The convenience methods shape their arguments into query parameters
// and call Request; opts are forwarded as additional parameters.
type API interface {
	// Request calls the endpoint with the given query parameters.
	Request(ctx context.Context, endpoint string, params Params) (*Response, error)
	// Question asks the LLM a question about the page.
	Question(ctx context.Context, pageURL, question string, opts Params) (string, error)
	// Fields extracts structured fields from the page,
	// fields maps a field name to extraction instructions.
	Fields(ctx context.Context, pageURL string, fields map[string]string, opts Params) (json.RawMessage, error)
	// HTML returns the full HTML of the page.
	HTML(ctx context.Context, pageURL string, opts Params) (string, error)
	// Text returns the visible text of the page.
	Text(ctx context.Context, pageURL string, opts Params) (string, error)
	// Selected returns the HTML of the element matching selector.
	Selected(ctx context.Context, pageURL, selector string, opts Params) (string, error)
	// SelectedMultiple returns the HTML of the elements matching selectors.
	SelectedMultiple(ctx context.Context, pageURL string, selectors []string, opts Params) (json.RawMessage, error)
	// Account returns the account usage information.
	Account(ctx context.Context) (json.RawMessage, error)
}

// ensure Client implements API
var _ API = (*Client)(nil)

// Question calls /ai/question.
func (c *Client) Question(ctx context.Context, pageURL, question string, opts Params) (string, error) {
	resp, err := c.Request(ctx, EndpointQuestion, opts.Merge(Params{
		ParamURL:      pageURL,
		ParamQuestion: question,
	}))
	if err != nil {
		return "", err
	}
	return resp.String(), nil
}

// Fields calls /ai/fields, fields are sent as a single JSON-encoded parameter.
func (c *Client) Fields(ctx context.Context, pageURL string, fields map[string]string, opts Params) (json.RawMessage, error) {
	encoded, err := encodeFields(fields)
	if err != nil {
		return nil, err
	}
	resp, err := c.Request(ctx, EndpointFields, opts.Merge(Params{
		ParamURL:    pageURL,
		ParamFields: encoded,
	}))
	if err != nil {
		return nil, err
	}
	return resp.JSON(), nil
}

// HTML calls /html.
func (c *Client) HTML(ctx context.Context, pageURL string, opts Params) (string, error) {
	resp, err := c.Request(ctx, EndpointHTML, opts.Merge(Params{
		ParamURL: pageURL,
	}))
	if err != nil {
		return "", err
	}
	return resp.String(), nil
}

// Text calls /text.
func (c *Client) Text(ctx context.Context, pageURL string, opts Params) (string, error) {
	resp, err := c.Request(ctx, EndpointText, opts.Merge(Params{
		ParamURL: pageURL,
	}))
	if err != nil {
		return "", err
	}
	return resp.String(), nil
}

// Selected calls /selected.
func (c *Client) Selected(ctx context.Context, pageURL, selector string, opts Params) (string, error) {
	resp, err := c.Request(ctx, EndpointSelected, opts.Merge(Params{
		ParamURL:      pageURL,
		ParamSelector: selector,
	}))
	if err != nil {
		return "", err
	}
	return resp.String(), nil
}

// SelectedMultiple calls /selected-multiple.
func (c *Client) SelectedMultiple(ctx context.Context, pageURL string, selectors []string, opts Params) (json.RawMessage, error) {
	resp, err := c.Request(ctx, EndpointSelectedMultiple, opts.Merge(Params{
		ParamURL:       pageURL,
		ParamSelectors: selectors,
	}))
	if err != nil {
		return nil, err
	}
	return resp.JSON(), nil
}

// Account calls /account.
func (c *Client) Account(ctx context.Context) (json.RawMessage, error) {
	resp, err := c.Request(ctx, EndpointAccount, Params{})
	if err != nil {
		return nil, err
	}
	return resp.JSON(), nil
}

func encodeFields(fields map[string]string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fields); err != nil {
		return "", errors.Wrap(err, "failed to encode fields")
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
