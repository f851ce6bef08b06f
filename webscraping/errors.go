package webscraping

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
)

// MessageAPIError is the message of every normalized upstream failure.
const MessageAPIError = "API Error"

var (
	// ErrMissingAPIKey is returned by New when the configuration has no API key.
	ErrMissingAPIKey = errors.New("WebScraping.AI API key is required")
)

// APIError is the normalized shape of any failed upstream call:
// a transport failure, a timeout or a non-2xx HTTP response.
// StatusCode, StatusMessage and Body are empty when no HTTP response was received.
type APIError struct {
	Message       string `json:"message"`
	StatusCode    int    `json:"status_code,omitempty"`
	StatusMessage string `json:"status_message,omitempty"`
	Body          any    `json:"body,omitempty"`

	cause error
}

// Error returns the JSON serialization of the error.
func (e *APIError) Error() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return e.Message
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// Unwrap returns the transport error, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// HasResponse reports whether the upstream returned an HTTP response.
func (e *APIError) HasResponse() bool {
	return e.StatusCode != 0
}

// statusTag returns the status label used in metrics.
func (e *APIError) statusTag() string {
	if !e.HasResponse() {
		return "none"
	}
	return strconv.Itoa(e.StatusCode)
}

// ParseAPIError parses the text produced by APIError.Error.
func ParseAPIError(text string) (*APIError, error) {
	e := new(APIError)
	if err := json.Unmarshal([]byte(text), e); err != nil {
		return nil, errors.Wrap(err, "failed to parse API error")
	}
	if e.Message == "" {
		return nil, errors.New("failed to parse API error: missing message")
	}
	return e, nil
}

// newResponseError builds the error for a non-2xx response.
func newResponseError(r *Response) *APIError {
	return &APIError{
		Message:       MessageAPIError,
		StatusCode:    r.StatusCode,
		StatusMessage: r.Status,
		Body:          decodeBody(r.Body),
	}
}

// normalizeError converts any failure into an APIError.
// The request URL carries the API key, so url.Error is unwrapped
// before the cause is retained.
func normalizeError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = errors.WithMessage(urlErr.Err, urlErr.Op)
	}
	return &APIError{
		Message: MessageAPIError,
		cause:   err,
	}
}

// decodeBody returns the body as JSON when it is valid JSON,
// as a string otherwise, or nil when empty.
func decodeBody(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	return string(body)
}
