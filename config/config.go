// Package config loads the server configuration from an optional file
// and the WEBSCRAPING_AI_* environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/webscraping-mcp/webscraping"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
	"github.com/go-playground/validator/v10"
)

// Environment variables.
const (
	EnvAPIKey            = "WEBSCRAPING_AI_API_KEY"
	EnvAPIURL            = "WEBSCRAPING_AI_API_URL"
	EnvConcurrencyLimit  = "WEBSCRAPING_AI_CONCURRENCY_LIMIT"
	EnvRequestTimeout    = "WEBSCRAPING_AI_REQUEST_TIMEOUT"
	EnvDefaultProxyType  = "WEBSCRAPING_AI_DEFAULT_PROXY_TYPE"
	EnvDefaultJSRender   = "WEBSCRAPING_AI_DEFAULT_JS_RENDERING"
	EnvDefaultTimeout    = "WEBSCRAPING_AI_DEFAULT_TIMEOUT"
	EnvDefaultJSTimeout  = "WEBSCRAPING_AI_DEFAULT_JS_TIMEOUT"
	EnvHTTPListenAddress = "WEBSCRAPING_AI_HTTP_ADDR"
)

// Default values.
const (
	DefaultRequestTimeout = 15000
	DefaultProxyType      = "residential"
	DefaultPageTimeout    = 15000
	DefaultJSTimeout      = 2000
)

// Config of the server.
type Config struct {
	// APIKey of WebScraping.AI, required.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" validate:"required"`
	// BaseURL of the API.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	// Concurrency is the maximum number of upstream requests in flight.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty" validate:"min=1"`
	// RequestTimeout of a single upstream request, in milliseconds.
	RequestTimeout int `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty" validate:"min=1"`
	// MaxResponseSize of an upstream response body, in bytes.
	MaxResponseSize int64 `json:"max_response_size,omitempty" yaml:"max_response_size,omitempty" validate:"min=0"`
	// UserAgent header of the upstream requests.
	UserAgent string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	// HTTPAddr is the listen address of the streamable HTTP transport,
	// stdio is used when empty.
	HTTPAddr string `json:"http_addr,omitempty" yaml:"http_addr,omitempty" validate:"omitempty,hostname_port"`

	// Defaults are merged into the options of every scraping tool call.
	Defaults Defaults `json:"defaults" yaml:"defaults"`
}

// Defaults of the page retrieval options.
type Defaults struct {
	// ProxyType is datacenter or residential.
	ProxyType string `json:"proxy_type,omitempty" yaml:"proxy_type,omitempty" validate:"oneof=datacenter residential"`
	// JSRendering enables on-page JavaScript, true when not set.
	JSRendering *bool `json:"js_rendering,omitempty" yaml:"js_rendering,omitempty"`
	// Timeout of the page retrieval, in milliseconds.
	Timeout int `json:"timeout,omitempty" yaml:"timeout,omitempty" validate:"min=1,max=30000"`
	// JSTimeout of the JavaScript rendering, in milliseconds.
	JSTimeout int `json:"js_timeout,omitempty" yaml:"js_timeout,omitempty" validate:"min=1"`
}

// Params returns the defaults as upstream options.
func (d *Defaults) Params() webscraping.Params {
	return webscraping.Params{
		"timeout":    d.Timeout,
		"js":         d.JSRendering == nil || *d.JSRendering,
		"js_timeout": d.JSTimeout,
		"proxy":      d.ProxyType,
	}
}

// ClientConfig returns the configuration of the API client.
func (c *Config) ClientConfig() webscraping.Config {
	return webscraping.Config{
		APIKey:          c.APIKey,
		BaseURL:         c.BaseURL,
		Timeout:         time.Duration(c.RequestTimeout) * time.Millisecond,
		Concurrency:     c.Concurrency,
		MaxResponseSize: c.MaxResponseSize,
		UserAgent:       c.UserAgent,
	}
}

// Load returns the configuration from file, if provided,
// overlaid by the environment variables.
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		if err := configloader.UnmarshalAndExpand(file, cfg); err != nil {
			return nil, errors.WithMessagef(err, "failed to load config %q", file)
		}
	}

	if err := cfg.overlayEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is not usable.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.WithStack(webscraping.ErrMissingAPIKey)
	}
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

func (c *Config) setDefaults() {
	c.BaseURL = values.StringsCoalesce(c.BaseURL, webscraping.DefaultBaseURL)
	c.Concurrency = values.NumbersCoalesce(c.Concurrency, webscraping.DefaultConcurrency)
	c.RequestTimeout = values.NumbersCoalesce(c.RequestTimeout, DefaultRequestTimeout)
	c.MaxResponseSize = values.NumbersCoalesce(c.MaxResponseSize, webscraping.DefaultMaxResponseSize)
	c.Defaults.ProxyType = values.StringsCoalesce(c.Defaults.ProxyType, DefaultProxyType)
	c.Defaults.Timeout = values.NumbersCoalesce(c.Defaults.Timeout, DefaultPageTimeout)
	c.Defaults.JSTimeout = values.NumbersCoalesce(c.Defaults.JSTimeout, DefaultJSTimeout)
	if c.Defaults.JSRendering == nil {
		js := true
		c.Defaults.JSRendering = &js
	}
}

func (c *Config) overlayEnv() error {
	if v, ok := lookupEnv(EnvAPIKey); ok {
		c.APIKey = v
	}
	if v, ok := lookupEnv(EnvAPIURL); ok {
		c.BaseURL = v
	}
	if v, ok := lookupEnv(EnvDefaultProxyType); ok {
		c.Defaults.ProxyType = v
	}
	if v, ok := lookupEnv(EnvHTTPListenAddress); ok {
		c.HTTPAddr = v
	}
	if v, ok := lookupEnv(EnvDefaultJSRender); ok {
		js := v != "false"
		c.Defaults.JSRendering = &js
	}

	ints := []struct {
		env string
		val *int
	}{
		{EnvConcurrencyLimit, &c.Concurrency},
		{EnvRequestTimeout, &c.RequestTimeout},
		{EnvDefaultTimeout, &c.Defaults.Timeout},
		{EnvDefaultJSTimeout, &c.Defaults.JSTimeout},
	}
	for _, i := range ints {
		v, ok := lookupEnv(i.env)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Newf("invalid %s value: %q", i.env, v)
		}
		*i.val = n
	}
	return nil
}

// lookupEnv returns the trimmed value of a non-empty environment variable.
func lookupEnv(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	return v, v != ""
}
