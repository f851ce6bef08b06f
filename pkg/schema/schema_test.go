package schema_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/effective-security/webscraping-mcp/pkg/schema"
	"github.com/effective-security/webscraping-mcp/utils"
	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ProxyType string

const (
	Datacenter  ProxyType = "datacenter"
	Residential ProxyType = "residential"
)

// Scrape represents a scraping request with various parameters.
type Scrape struct {
	Question string    `json:"question,omitempty" jsonschema:"title=Question,description=Question about the page\\, with coma.,example=what is the price"`
	URL      string    `json:"url" jsonschema:"title=URL,description=URL of the target page,example=https://example.com"`
	Proxy    ProxyType `json:"proxy"  jsonschema:"title=Proxy,description=Type of proxy,default=residential,enum=datacenter,enum=residential"`
	Headers  []*Header `json:"headers,omitempty" jsonschema:"title=Headers,description=Headers to send"`
	Cookie   *Header   `json:"cookie,omitempty" jsonschema:"title=Cookie,description=Cookie to send"`
}

// Header represents a key-value pair.
type Header struct {
	Key   string `json:"key" jsonschema:"title=Key,description=Key of the header"`
	Value string `json:"value" jsonschema:"title=Value,description=Value of the header"`
}

type withOptional struct {
	RequiredField string  `json:"requiredField" jsonschema:"title=Required Field,description=A required string field"`
	OptionalField *string `json:"optionalField,omitempty" jsonschema:"title=Optional Field,description=An optional string field"`
	OptionalInt   *int    `json:"optionalInt,omitempty" jsonschema:"description=An optional integer"`
}

type Embedded struct {
	Timeout *int `json:"timeout,omitempty" jsonschema:"description=Timeout in ms"`
}

type withEmbedded struct {
	URL string `json:"url" jsonschema:"description=URL of the target page"`
	Embedded
}

type empty struct{}

func TestSchema(t *testing.T) {
	t.Parallel()

	t.Run("Scrape", func(t *testing.T) {
		t.Parallel()
		s, err := schema.New(reflect.TypeOf(Scrape{}))
		require.NoError(t, err)

		exp := `{
	"properties": {
		"question": {
			"type": "string",
			"title": "Question",
			"description": "Question about the page, with coma.",
			"examples": [
				"what is the price"
			]
		},
		"url": {
			"type": "string",
			"title": "URL",
			"description": "URL of the target page",
			"examples": [
				"https://example.com"
			]
		},
		"proxy": {
			"type": "string",
			"enum": [
				"datacenter",
				"residential"
			],
			"title": "Proxy",
			"description": "Type of proxy",
			"default": "residential"
		},
		"headers": {
			"items": {
				"properties": {
					"key": {
						"type": "string",
						"title": "Key",
						"description": "Key of the header"
					},
					"value": {
						"type": "string",
						"title": "Value",
						"description": "Value of the header"
					}
				},
				"type": "object",
				"required": [
					"key",
					"value"
				]
			},
			"type": "array",
			"title": "Headers",
			"description": "Headers to send"
		},
		"cookie": {
			"properties": {
				"key": {
					"type": "string",
					"title": "Key",
					"description": "Key of the header"
				},
				"value": {
					"type": "string",
					"title": "Value",
					"description": "Value of the header"
				}
			},
			"type": "object",
			"required": [
				"key",
				"value"
			],
			"title": "Cookie",
			"description": "Cookie to send"
		}
	},
	"type": "object",
	"required": [
		"url",
		"proxy"
	]
}`
		assert.Equal(t, exp, s.String())
		assert.Equal(t, exp, utils.ToJSONIndent(s.Parameters))
		assert.Equal(t, []string{"question", "url", "proxy", "headers", "cookie"}, s.Properties())

		// cached
		s2, err := schema.New(reflect.TypeOf(Scrape{}))
		require.NoError(t, err)
		assert.Same(t, s, s2)

		// pointer type resolves to the same schema
		s3, err := schema.New(reflect.TypeOf(&Scrape{}))
		require.NoError(t, err)
		assert.Equal(t, exp, s3.String())
	})

	t.Run("Optional", func(t *testing.T) {
		t.Parallel()
		s, err := schema.New(reflect.TypeOf(withOptional{}))
		require.NoError(t, err)

		assert.Equal(t, []string{"requiredField"}, s.Parameters.Required)
		assert.Equal(t, []string{"requiredField", "optionalField", "optionalInt"}, s.Properties())

		prop, ok := s.Parameters.Properties.Get("optionalField")
		require.True(t, ok)
		assert.Equal(t, "string", prop.Type)

		prop, ok = s.Parameters.Properties.Get("optionalInt")
		require.True(t, ok)
		assert.Equal(t, "integer", prop.Type)
	})

	t.Run("Embedded", func(t *testing.T) {
		t.Parallel()
		s, err := schema.New(reflect.TypeOf(withEmbedded{}))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"url", "timeout"}, s.Properties())
		assert.Equal(t, []string{"url"}, s.Parameters.Required)
	})

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()
		s, err := schema.New(reflect.TypeOf(empty{}))
		require.NoError(t, err)
		assert.Empty(t, s.Properties())

		var m map[string]any
		require.NoError(t, json.Unmarshal(s.Raw(), &m))
		assert.Equal(t, "object", m["type"])
	})

	t.Run("Weather", func(t *testing.T) {
		t.Parallel()

		type pageRequest struct {
			URL   string `json:"url" jsonschema:"description=URL of the target page"`
			Proxy string `json:"proxy" jsonschema:"description=Type of proxy,enum=datacenter,enum=residential"`
		}

		s, err := schema.New(reflect.TypeOf(pageRequest{}))
		require.NoError(t, err)
		exp := `{
	"properties": {
		"url": {
			"type": "string",
			"description": "URL of the target page"
		},
		"proxy": {
			"type": "string",
			"enum": [
				"datacenter",
				"residential"
			],
			"description": "Type of proxy"
		}
	},
	"type": "object",
	"required": [
		"url",
		"proxy"
	]
}`
		assert.Equal(t, exp, s.String())
		assert.JSONEq(t, exp, string(s.Raw()))

		// unmarshal
		var sc jsonschema.Schema
		err = json.Unmarshal([]byte(exp), &sc)
		require.NoError(t, err)
		assert.Equal(t, 2, sc.Properties.Len())
	})

	t.Run("Unsupported", func(t *testing.T) {
		t.Parallel()
		_, err := schema.New(reflect.TypeOf("string"))
		assert.EqualError(t, err, "schema: unsupported type string")
		_, err = schema.New(nil)
		assert.EqualError(t, err, "schema: type is nil")
		assert.Panics(t, func() {
			schema.Must(reflect.TypeOf(42))
		})
	})
}
