package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/webscraping-mcp/pkg/metricskey"
	"github.com/effective-security/webscraping-mcp/utils"
	"github.com/effective-security/webscraping-mcp/webscraping"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/webscraping-mcp", "tools")

// RouterOption configures the Router.
type RouterOption func(*Router)

// WithCallback sets the callback notified on every tool call.
func WithCallback(cb Callback) RouterOption {
	return func(r *Router) {
		r.callback = cb
	}
}

// Router dispatches tool calls to the WebScraping.AI API.
// It keeps no per-call state and is safe for concurrent use.
type Router struct {
	api      webscraping.API
	callback Callback
	list     []*Tool
	byName   map[string]*Tool
}

// NewRouter returns a Router over the given API.
func NewRouter(api webscraping.API, opts ...RouterOption) *Router {
	r := &Router{
		api:    api,
		byName: map[string]*Tool{},
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, def := range Definitions() {
		t := &Tool{def: def, router: r}
		r.list = append(r.list, t)
		r.byName[def.Name] = t
	}
	return r
}

// Tools returns the tools in registration order.
func (r *Router) Tools() []*Tool {
	return r.list
}

// ITools returns the tools as ITool.
func (r *Router) ITools() []ITool {
	list := make([]ITool, 0, len(r.list))
	for _, t := range r.list {
		list = append(list, t)
	}
	return list
}

// Tool returns the tool by name.
func (r *Router) Tool(name string) (*Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Call invokes the named tool with args.
// The outcome, including validation and upstream errors,
// is always returned as a Result.
func (r *Router) Call(ctx context.Context, name string, args map[string]any) *Result {
	t, ok := r.byName[name]
	if !ok {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, name)
		logger.ContextKV(ctx, xlog.WARNING, "reason", "tool_not_found", "tool", name)
		if r.callback != nil {
			r.callback.OnToolNotFound(ctx, name)
		}
		return NewErrorResult(unknownTool(name).Error())
	}
	return r.call(ctx, t, args)
}

func (r *Router) call(ctx context.Context, t *Tool, args map[string]any) *Result {
	name := t.Name()
	input := "{}"
	if len(args) > 0 {
		input = utils.JSONText(args)
	}

	if r.callback != nil {
		r.callback.OnToolStart(ctx, t, input)
	}

	started := time.Now()
	text, err := r.invoke(ctx, t.def, args)
	metricskey.PerfToolCall.MeasureSince(started, name)

	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, name)
		logger.ContextKV(ctx, xlog.WARNING,
			"tool", name,
			"err", err.Error(),
		)
		if r.callback != nil {
			r.callback.OnToolError(ctx, t, input, err)
		}
		return NewErrorResult(text)
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, name)
	logger.ContextKV(ctx, xlog.DEBUG,
		"tool", name,
		"size", len(text),
	)
	if r.callback != nil {
		r.callback.OnToolEnd(ctx, t, input, text)
	}
	return NewTextResult(text)
}

// invoke returns the result text or, on failure, the error and its envelope text.
func (r *Router) invoke(ctx context.Context, def *Definition, args map[string]any) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf("tool %s failed: %v", def.Name, rec)
			text = def.errorText(err)
		}
	}()

	inv, err := def.Parse(args)
	if err != nil {
		return err.Error(), err
	}

	text, err = def.handler(ctx, r.api, inv)
	if err != nil {
		return def.errorText(err), err
	}
	return text, nil
}

// String returns the names of the tools.
func (r *Router) String() string {
	names := make([]string, 0, len(r.list))
	for _, t := range r.list {
		names = append(names, t.Name())
	}
	return fmt.Sprintf("%v", names)
}
