package tools

import (
	"context"
	"strings"

	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/webscraping-mcp/utils"
	"github.com/effective-security/webscraping-mcp/webscraping"
)

// ensure Tool implements the ITool interface
var _ ITool = (*Tool)(nil)

// Tool is a Router entry exposed as ITool.
type Tool struct {
	def    *Definition
	router *Router
}

func (t *Tool) Name() string {
	return t.def.Name
}

func (t *Tool) Description() string {
	return t.def.Description
}

// Parameters returns the JSON schema of the tool input.
func (t *Tool) Parameters() any {
	return t.def.Schema().Parameters
}

// Definition returns the table entry of the tool.
func (t *Tool) Definition() *Definition {
	return t.def
}

// Run invokes the tool through the Router.
func (t *Tool) Run(ctx context.Context, args map[string]any) *Result {
	return t.router.call(ctx, t, args)
}

// Call decodes the JSON input and invokes the tool.
// A Result with IsError is returned as an error with the envelope text,
// upstream failures as *webscraping.APIError.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	args := map[string]any{}
	if s := strings.TrimSpace(input); s != "" {
		if err := ljson.Unmarshal(utils.CleanJSON([]byte(s)), &args); err != nil {
			return "", errors.WithStack(ErrFailedUnmarshalInput)
		}
	}

	res := t.Run(ctx, args)
	if res.IsError {
		text := res.Text()
		if apiErr, err := webscraping.ParseAPIError(text); err == nil && apiErr.Message == webscraping.MessageAPIError {
			return "", apiErr
		}
		return "", errors.New(text)
	}
	return res.Text(), nil
}
