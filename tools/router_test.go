package tools_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/webscraping-mcp/mocks/mocktools"
	"github.com/effective-security/webscraping-mcp/mocks/mockwebscraping"
	"github.com/effective-security/webscraping-mcp/tools"
	"github.com/effective-security/webscraping-mcp/webscraping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testURL = "https://example.com"

func notFoundError() *webscraping.APIError {
	return &webscraping.APIError{
		Message:       webscraping.MessageAPIError,
		StatusCode:    404,
		StatusMessage: "Not Found",
		Body:          "Not Found",
	}
}

const notFoundText = `{"message":"API Error","status_code":404,"status_message":"Not Found","body":"Not Found"}`

func Test_Router_Definitions(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := tools.NewRouter(mockwebscraping.NewMockAPI(ctrl))

	var names []string
	for _, tool := range r.Tools() {
		names = append(names, tool.Name())
		assert.NotEmpty(t, tool.Description())
		assert.NotNil(t, tool.Parameters())
	}
	assert.Equal(t, []string{
		tools.NameQuestion,
		tools.NameFields,
		tools.NameHTML,
		tools.NameText,
		tools.NameSelected,
		tools.NameSelectedMultiple,
		tools.NameAccount,
	}, names)
	assert.Len(t, r.ITools(), 7)

	tool, ok := r.Tool(tools.NameFields)
	require.True(t, ok)
	def := tool.Definition()
	assert.Equal(t, []string{"url", "fields"}, def.Schema().Parameters.Required)
	assert.True(t, def.AcceptsOptions)

	tool, ok = r.Tool(tools.NameAccount)
	require.True(t, ok)
	assert.False(t, tool.Definition().AcceptsOptions)
	assert.Empty(t, tool.Definition().Schema().Properties())

	_, ok = r.Tool("unknown")
	assert.False(t, ok)
}

func Test_Router_Question(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mockwebscraping.NewMockAPI(ctrl)
	r := tools.NewRouter(api)
	ctx := context.Background()

	api.EXPECT().
		Question(gomock.Any(), testURL, "What is on this page?", webscraping.Params{}).
		Return("This is the answer to your question.", nil)

	res := r.Call(ctx, tools.NameQuestion, map[string]any{
		"url":      testURL,
		"question": "What is on this page?",
	})
	assert.Equal(t, &tools.Result{
		Content: []tools.Content{{Type: "text", Text: "This is the answer to your question."}},
		IsError: false,
	}, res)

	js, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Equal(t, `{"content":[{"type":"text","text":"This is the answer to your question."}],"isError":false}`, string(js))
}

func Test_Router_OptionsForwarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mockwebscraping.NewMockAPI(ctrl)
	r := tools.NewRouter(api)

	api.EXPECT().
		Question(gomock.Any(), testURL, "q", webscraping.Params{
			"timeout": 10000,
			"js":      false,
			"proxy":   "datacenter",
		}).
		Return("answer", nil)

	res := r.Call(context.Background(), tools.NameQuestion, map[string]any{
		"url":      testURL,
		"question": "q",
		"timeout":  10000,
		"js":       false,
		"proxy":    "datacenter",
		"wait_for": nil,
	})
	assert.False(t, res.IsError)
	assert.Equal(t, "answer", res.Text())
}

func Test_Router_Fields(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mockwebscraping.NewMockAPI(ctrl)
	r := tools.NewRouter(api)
	ctx := context.Background()

	fields := map[string]string{
		"title": "Extract the title",
		"price": "Extract the price",
	}
	api.EXPECT().
		Fields(gomock.Any(), testURL, fields, webscraping.Params{}).
		Return(json.RawMessage(`{"field1":"value1","field2":"value2"}`), nil)

	res := r.Call(ctx, tools.NameFields, map[string]any{
		"url": testURL,
		"fields": map[string]any{
			"title": "Extract the title",
			"price": "Extract the price",
		},
	})
	assert.False(t, res.IsError)
	assert.Equal(t, "{\n  \"field1\": \"value1\",\n  \"field2\": \"value2\"\n}", res.Text())

	t.Run("invalid", func(t *testing.T) {
		res := r.Call(ctx, tools.NameFields, map[string]any{
			"url":    testURL,
			"fields": []any{"title"},
		})
		assert.True(t, res.IsError)
		assert.Equal(t, "invalid field: fields", res.Text())

		res = r.Call(ctx, tools.NameFields, map[string]any{
			"url":    testURL,
			"fields": map[string]any{"title": 1},
		})
		assert.True(t, res.IsError)
		assert.Equal(t, "invalid field: fields", res.Text())
	})
}

func Test_Router_UpstreamError(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mockwebscraping.NewMockAPI(ctrl)
	r := tools.NewRouter(api)
	ctx := context.Background()

	args := map[string]any{"url": "https://example.com/nonexistent"}

	api.EXPECT().HTML(gomock.Any(), "https://example.com/nonexistent", webscraping.Params{}).Return("", notFoundError())
	res := r.Call(ctx, tools.NameHTML, args)
	assert.True(t, res.IsError)
	assert.Equal(t, notFoundText, res.Text())

	api.EXPECT().Text(gomock.Any(), "https://example.com/nonexistent", webscraping.Params{}).Return("", notFoundError())
	res = r.Call(ctx, tools.NameText, args)
	assert.True(t, res.IsError)
	assert.Equal(t, notFoundText, res.Text())

	api.EXPECT().Question(gomock.Any(), "https://example.com/nonexistent", "q", webscraping.Params{}).Return("", notFoundError())
	res = r.Call(ctx, tools.NameQuestion, map[string]any{"url": "https://example.com/nonexistent", "question": "q"})
	assert.True(t, res.IsError)
	assert.Equal(t, notFoundText, res.Text())

	parsed, err := webscraping.ParseAPIError(res.Text())
	require.NoError(t, err)
	assert.Equal(t, 404, parsed.StatusCode)
	assert.Equal(t, "Not Found", parsed.StatusMessage)

	t.Run("not an API error", func(t *testing.T) {
		api.EXPECT().HTML(gomock.Any(), testURL, webscraping.Params{}).Return("", errors.New("boom"))
		res := r.Call(ctx, tools.NameHTML, map[string]any{"url": testURL})
		assert.True(t, res.IsError)
		assert.Equal(t, `{"message":"boom"}`, res.Text())

		api.EXPECT().Account(gomock.Any()).Return(nil, errors.New("boom"))
		res = r.Call(ctx, tools.NameAccount, nil)
		assert.True(t, res.IsError)
		assert.Equal(t, "boom", res.Text())
	})
}

func Test_Router_MissingRequired(t *testing.T) {
	ctrl := gomock.NewController(t)
	// no calls are expected on the API
	api := mockwebscraping.NewMockAPI(ctrl)
	r := tools.NewRouter(api)
	ctx := context.Background()

	tcases := []struct {
		tool string
		args map[string]any
		exp  string
	}{
		{tools.NameQuestion, map[string]any{"url": testURL}, "missing required field: question"},
		{tools.NameQuestion, map[string]any{"question": "q"}, "missing required field: url"},
		{tools.NameQuestion, map[string]any{"url": testURL, "question": nil}, "missing required field: question"},
		{tools.NameFields, map[string]any{"url": testURL}, "missing required field: fields"},
		{tools.NameHTML, nil, "missing required field: url"},
		{tools.NameText, map[string]any{"js": true}, "missing required field: url"},
		{tools.NameSelected, map[string]any{"url": testURL}, "missing required field: selector"},
		{tools.NameSelectedMultiple, map[string]any{"url": testURL}, "missing required field: selectors"},
		{tools.NameSelectedMultiple, map[string]any{"url": testURL, "selectors": "h1"}, "invalid field: selectors"},
		{tools.NameQuestion, map[string]any{"url": 42, "question": "q"}, "invalid field: url"},
	}
	for _, tc := range tcases {
		res := r.Call(ctx, tc.tool, tc.args)
		assert.True(t, res.IsError, tc.exp)
		assert.Equal(t, tc.exp, res.Text())
	}
}

func Test_Router_UnknownTool(t *testing.T) {
	ctrl := gomock.NewController(t)
	cb := mocktools.NewMockCallback(ctrl)
	r := tools.NewRouter(mockwebscraping.NewMockAPI(ctrl), tools.WithCallback(cb))

	cb.EXPECT().OnToolNotFound(gomock.Any(), "unknown_tool")

	res := r.Call(context.Background(), "unknown_tool", map[string]any{})
	assert.Equal(t, &tools.Result{
		Content: []tools.Content{{Type: "text", Text: "Unknown tool: unknown_tool"}},
		IsError: true,
	}, res)
}

func Test_Router_HTMLFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mockwebscraping.NewMockAPI(ctrl)
	r := tools.NewRouter(api)
	ctx := context.Background()

	html := "<html><body>Hello & welcome</body></html>"

	api.EXPECT().HTML(gomock.Any(), testURL, webscraping.Params{}).Return(html, nil)
	res := r.Call(ctx, tools.NameHTML, map[string]any{"url": testURL, "format": "json"})
	assert.False(t, res.IsError)
	assert.Equal(t, `{"html":"<html><body>Hello & welcome</body></html>"}`, res.Text())

	api.EXPECT().HTML(gomock.Any(), testURL, webscraping.Params{"return_script_result": true}).Return(html, nil)
	res = r.Call(ctx, tools.NameHTML, map[string]any{"url": testURL, "format": "text", "return_script_result": true})
	assert.Equal(t, html, res.Text())

	// script results that are JSON documents are nested
	api.EXPECT().HTML(gomock.Any(), testURL, webscraping.Params{"return_script_result": true}).
		Return("{\n  \"title\": \"Hello & welcome\",\n  \"links\": [1, 2]\n}", nil)
	res = r.Call(ctx, tools.NameHTML, map[string]any{"url": testURL, "format": "json", "return_script_result": true})
	assert.False(t, res.IsError)
	assert.Equal(t, `{"html":{"title":"Hello & welcome","links":[1,2]}}`, res.Text())

	api.EXPECT().Selected(gomock.Any(), testURL, "h1", webscraping.Params{}).Return("<h1>Title</h1>", nil)
	res = r.Call(ctx, tools.NameSelected, map[string]any{"url": testURL, "selector": "h1", "format": "json"})
	assert.Equal(t, `{"html":"<h1>Title</h1>"}`, res.Text())

	api.EXPECT().Selected(gomock.Any(), testURL, "h1", webscraping.Params{}).Return("<h1>Title</h1>", nil)
	res = r.Call(ctx, tools.NameSelected, map[string]any{"url": testURL, "selector": "h1"})
	assert.Equal(t, "<h1>Title</h1>", res.Text())
}

func Test_Router_Text(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mockwebscraping.NewMockAPI(ctrl)
	r := tools.NewRouter(api)
	ctx := context.Background()

	api.EXPECT().
		Text(gomock.Any(), testURL, webscraping.Params{"text_format": "json", "return_links": true}).
		Return("{\n  \"text\": \"Hello\",\n  \"links\": [\"https://example.com/a\"]\n}", nil)
	res := r.Call(ctx, tools.NameText, map[string]any{"url": testURL, "text_format": "json", "return_links": true})
	assert.False(t, res.IsError)
	assert.Equal(t, `{"text":"Hello","links":["https://example.com/a"]}`, res.Text())

	api.EXPECT().
		Text(gomock.Any(), testURL, webscraping.Params{"text_format": "plain"}).
		Return("Hello, world", nil)
	res = r.Call(ctx, tools.NameText, map[string]any{"url": testURL, "text_format": "plain"})
	assert.Equal(t, "Hello, world", res.Text())
}

func Test_Router_SelectedMultiple(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mockwebscraping.NewMockAPI(ctrl)
	r := tools.NewRouter(api)

	api.EXPECT().
		SelectedMultiple(gomock.Any(), testURL, []string{"h1", "p"}, webscraping.Params{"device": "mobile"}).
		Return(json.RawMessage(`["<h1>Title</h1>","<p>Text</p>"]`), nil)

	res := r.Call(context.Background(), tools.NameSelectedMultiple, map[string]any{
		"url":       testURL,
		"selectors": []any{"h1", "p"},
		"device":    "mobile",
	})
	assert.False(t, res.IsError)
	assert.Equal(t, "[\n  \"<h1>Title</h1>\",\n  \"<p>Text</p>\"\n]", res.Text())
}

func Test_Router_Account(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mockwebscraping.NewMockAPI(ctrl)
	r := tools.NewRouter(api)

	api.EXPECT().
		Account(gomock.Any()).
		Return(json.RawMessage(`{"remaining_api_calls":1000,"resets_at":1617073667,"remaining_concurrency":5}`), nil)

	// options are ignored
	res := r.Call(context.Background(), tools.NameAccount, map[string]any{"timeout": 1000})
	assert.False(t, res.IsError)
	assert.Equal(t, "{\n  \"remaining_api_calls\": 1000,\n  \"resets_at\": 1617073667,\n  \"remaining_concurrency\": 5\n}", res.Text())
}

func Test_Router_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mockwebscraping.NewMockAPI(ctrl)
	r := tools.NewRouter(api)
	ctx := context.Background()

	pageURL := gofakeit.URL()
	question := gofakeit.Question()
	args := map[string]any{"url": pageURL, "question": question, "js": true}

	api.EXPECT().
		Question(gomock.Any(), pageURL, question, webscraping.Params{"js": true}).
		Return("same", nil).
		Times(3)

	first := r.Call(ctx, tools.NameQuestion, args)
	for range 2 {
		assert.Equal(t, first, r.Call(ctx, tools.NameQuestion, args))
	}
	// the caller's arguments are not modified
	assert.Len(t, args, 3)
}

func Test_Router_Panic(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mockwebscraping.NewMockAPI(ctrl)
	r := tools.NewRouter(api)

	api.EXPECT().
		Question(gomock.Any(), testURL, "q", webscraping.Params{}).
		DoAndReturn(func(context.Context, string, string, webscraping.Params) (string, error) {
			panic("unexpected")
		})

	res := r.Call(context.Background(), tools.NameQuestion, map[string]any{"url": testURL, "question": "q"})
	assert.True(t, res.IsError)
	assert.Equal(t, "tool webscraping_ai_question failed: unexpected", res.Text())
}

func Test_Router_Callbacks(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mockwebscraping.NewMockAPI(ctrl)
	cb := mocktools.NewMockCallback(ctrl)
	r := tools.NewRouter(api, tools.WithCallback(cb))
	ctx := context.Background()

	input := `{"question":"q","url":"https://example.com"}`

	gomock.InOrder(
		cb.EXPECT().OnToolStart(gomock.Any(), gomock.Any(), input),
		api.EXPECT().Question(gomock.Any(), testURL, "q", webscraping.Params{}).Return("answer", nil),
		cb.EXPECT().OnToolEnd(gomock.Any(), gomock.Any(), input, "answer"),
	)
	res := r.Call(ctx, tools.NameQuestion, map[string]any{"url": testURL, "question": "q"})
	assert.False(t, res.IsError)

	gomock.InOrder(
		cb.EXPECT().OnToolStart(gomock.Any(), gomock.Any(), `{"url":"https://example.com"}`),
		cb.EXPECT().OnToolError(gomock.Any(), gomock.Any(), `{"url":"https://example.com"}`, gomock.Any()).
			Do(func(_ context.Context, tool tools.ITool, _ string, err error) {
				assert.Equal(t, tools.NameQuestion, tool.Name())
				assert.ErrorIs(t, err, tools.ErrMissingField)
			}),
	)
	res = r.Call(ctx, tools.NameQuestion, map[string]any{"url": testURL})
	assert.True(t, res.IsError)
}
