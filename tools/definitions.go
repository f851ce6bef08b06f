package tools

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/webscraping-mcp/pkg/schema"
	"github.com/effective-security/webscraping-mcp/utils"
	"github.com/effective-security/webscraping-mcp/webscraping"
)

// Tool names.
const (
	NameQuestion         = "webscraping_ai_question"
	NameFields           = "webscraping_ai_fields"
	NameHTML             = "webscraping_ai_html"
	NameText             = "webscraping_ai_text"
	NameSelected         = "webscraping_ai_selected"
	NameSelectedMultiple = "webscraping_ai_selected_multiple"
	NameAccount          = "webscraping_ai_account"
)

// Kind is the expected shape of a required argument.
type Kind int

const (
	// KindString is a string value.
	KindString Kind = iota
	// KindStringMap is an object with string values.
	KindStringMap
	// KindStringList is an array of strings.
	KindStringList
)

// Field is a required argument of a tool.
type Field struct {
	Name string
	Kind Kind
}

// Invocation is a validated tool call: the required arguments converted
// to their Go shapes and everything else as upstream options.
type Invocation struct {
	Tool     string
	Required map[string]any
	Options  webscraping.Params
}

// String returns the required string argument.
func (i *Invocation) String(name string) string {
	s, _ := i.Required[name].(string)
	return s
}

// PopOption removes the option from Options and returns its value.
func (i *Invocation) PopOption(name string) any {
	v := i.Options[name]
	delete(i.Options, name)
	return v
}

type handlerFunc func(ctx context.Context, api webscraping.API, inv *Invocation) (string, error)

// Definition describes a tool of the Router.
type Definition struct {
	Name        string
	Description string
	// Required arguments, in declaration order.
	Required []Field
	// AcceptsOptions is false for tools that ignore the option bag.
	AcceptsOptions bool
	// Defaults are tool specific option defaults,
	// applied by the transport before the call.
	Defaults webscraping.Params
	// PreParsedErrors is set for tools that re-serialize the error object
	// instead of forwarding the error text.
	PreParsedErrors bool

	args    any
	handler handlerFunc
}

// Schema returns the JSON schema of the tool arguments.
func (d *Definition) Schema() *schema.Schema {
	return schema.Must(reflect.TypeOf(d.args))
}

// NewArgs returns a pointer to a new value of the typed tool arguments.
func (d *Definition) NewArgs() any {
	return reflect.New(reflect.TypeOf(d.args)).Interface()
}

// Validate decodes args into the typed tool arguments and validates them.
func (d *Definition) Validate(args map[string]any) error {
	return DecodeArgs(args, d.NewArgs())
}

// Parse checks the required arguments and splits args into an Invocation.
// It never modifies args.
func (d *Definition) Parse(args map[string]any) (*Invocation, error) {
	inv := &Invocation{
		Tool:     d.Name,
		Required: make(map[string]any, len(d.Required)),
		Options:  webscraping.Params{},
	}

	for _, f := range d.Required {
		v, ok := args[f.Name]
		if !ok || v == nil {
			return nil, missingField(f.Name)
		}
		converted, ok := convert(v, f.Kind)
		if !ok {
			return nil, invalidField(f.Name)
		}
		inv.Required[f.Name] = converted
	}

	if d.AcceptsOptions {
		for k, v := range args {
			if _, required := inv.Required[k]; required || v == nil {
				continue
			}
			inv.Options[k] = v
		}
	}
	return inv, nil
}

func (d *Definition) errorText(err error) string {
	var apiErr *webscraping.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if d.PreParsedErrors {
		return utils.JSONText(map[string]string{"message": err.Error()})
	}
	return err.Error()
}

func convert(v any, kind Kind) (any, bool) {
	switch kind {
	case KindString:
		s, ok := v.(string)
		return s, ok
	case KindStringMap:
		switch t := v.(type) {
		case map[string]string:
			return t, true
		case map[string]any:
			res := make(map[string]string, len(t))
			for k, item := range t {
				s, ok := item.(string)
				if !ok {
					return nil, false
				}
				res[k] = s
			}
			return res, true
		}
	case KindStringList:
		switch t := v.(type) {
		case []string:
			return t, true
		case []any:
			res := make([]string, 0, len(t))
			for _, item := range t {
				s, ok := item.(string)
				if !ok {
					return nil, false
				}
				res = append(res, s)
			}
			return res, true
		}
	}
	return nil, false
}

// Definitions returns the tool table in registration order.
func Definitions() []*Definition {
	return []*Definition{
		{
			Name:           NameQuestion,
			Description:    "Ask a question about a web page and get an answer from the LLM model.",
			Required:       []Field{{Name: webscraping.ParamURL}, {Name: webscraping.ParamQuestion}},
			AcceptsOptions: true,
			args:           QuestionArgs{},
			handler: func(ctx context.Context, api webscraping.API, inv *Invocation) (string, error) {
				return api.Question(ctx, inv.String(webscraping.ParamURL), inv.String(webscraping.ParamQuestion), inv.Options)
			},
		},
		{
			Name:           NameFields,
			Description:    "Extract structured data fields from a web page using instructions for each field.",
			Required:       []Field{{Name: webscraping.ParamURL}, {Name: webscraping.ParamFields, Kind: KindStringMap}},
			AcceptsOptions: true,
			args:           FieldsArgs{},
			handler: func(ctx context.Context, api webscraping.API, inv *Invocation) (string, error) {
				fields, _ := inv.Required[webscraping.ParamFields].(map[string]string)
				res, err := api.Fields(ctx, inv.String(webscraping.ParamURL), fields, inv.Options)
				if err != nil {
					return "", err
				}
				return utils.PrettyJSON(res), nil
			},
		},
		{
			Name:            NameHTML,
			Description:     "Get the full HTML of a web page, with JavaScript rendered.",
			Required:        []Field{{Name: webscraping.ParamURL}},
			AcceptsOptions:  true,
			PreParsedErrors: true,
			args:            HTMLArgs{},
			handler: func(ctx context.Context, api webscraping.API, inv *Invocation) (string, error) {
				format := inv.PopOption(OptFormat)
				res, err := api.HTML(ctx, inv.String(webscraping.ParamURL), inv.Options)
				if err != nil {
					return "", err
				}
				return wrapHTML(res, format), nil
			},
		},
		{
			Name:            NameText,
			Description:     "Get the visible text of a web page.",
			Required:        []Field{{Name: webscraping.ParamURL}},
			AcceptsOptions:  true,
			Defaults:        webscraping.Params{OptTextFormat: FormatJSON},
			PreParsedErrors: true,
			args:            TextArgs{},
			handler: func(ctx context.Context, api webscraping.API, inv *Invocation) (string, error) {
				res, err := api.Text(ctx, inv.String(webscraping.ParamURL), inv.Options)
				if err != nil {
					return "", err
				}
				if utils.IsJSONDocument(res) {
					return utils.CompactJSON([]byte(res)), nil
				}
				return res, nil
			},
		},
		{
			Name:            NameSelected,
			Description:     "Get the HTML of the page element matching a CSS selector.",
			Required:        []Field{{Name: webscraping.ParamURL}, {Name: webscraping.ParamSelector}},
			AcceptsOptions:  true,
			Defaults:        webscraping.Params{OptFormat: FormatJSON},
			PreParsedErrors: true,
			args:            SelectedArgs{},
			handler: func(ctx context.Context, api webscraping.API, inv *Invocation) (string, error) {
				format := inv.PopOption(OptFormat)
				res, err := api.Selected(ctx, inv.String(webscraping.ParamURL), inv.String(webscraping.ParamSelector), inv.Options)
				if err != nil {
					return "", err
				}
				return wrapHTML(res, format), nil
			},
		},
		{
			Name:           NameSelectedMultiple,
			Description:    "Get the HTML of the page elements matching several CSS selectors.",
			Required:       []Field{{Name: webscraping.ParamURL}, {Name: webscraping.ParamSelectors, Kind: KindStringList}},
			AcceptsOptions: true,
			args:           SelectedMultipleArgs{},
			handler: func(ctx context.Context, api webscraping.API, inv *Invocation) (string, error) {
				selectors, _ := inv.Required[webscraping.ParamSelectors].([]string)
				res, err := api.SelectedMultiple(ctx, inv.String(webscraping.ParamURL), selectors, inv.Options)
				if err != nil {
					return "", err
				}
				return utils.PrettyJSON(res), nil
			},
		},
		{
			Name:        NameAccount,
			Description: "Get information about your WebScraping.AI account: remaining API credits and concurrency.",
			args:        AccountArgs{},
			handler: func(ctx context.Context, api webscraping.API, _ *Invocation) (string, error) {
				res, err := api.Account(ctx)
				if err != nil {
					return "", err
				}
				return utils.PrettyJSON(res), nil
			},
		},
	}
}

// wrapHTML returns {"html": ...} for the json format.
// JSON documents, such as script results, are nested as is.
func wrapHTML(html string, format any) string {
	if f, ok := format.(string); !ok || f != FormatJSON {
		return html
	}
	if utils.IsJSONDocument(html) {
		return utils.JSONText(map[string]json.RawMessage{"html": json.RawMessage(utils.CompactJSON([]byte(html)))})
	}
	return utils.JSONText(map[string]string{"html": html})
}
