package webscraping

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"strconv"
)

// Query parameters set by the client on every request.
const (
	ParamAPIKey        = "api_key"
	ParamFromMCPServer = "from_mcp_server"
)

// Business parameters used by the convenience methods.
const (
	ParamURL       = "url"
	ParamQuestion  = "question"
	ParamFields    = "fields"
	ParamSelector  = "selector"
	ParamSelectors = "selectors"
)

// Params holds query parameters of an upstream request.
// Values are scalars (string, bool, integer, float) or string slices.
// Nil values are skipped when encoding.
type Params map[string]any

// Clone returns a shallow copy of p, never nil.
func (p Params) Clone() Params {
	res := make(Params, len(p))
	maps.Copy(res, p)
	return res
}

// Merge returns a new Params with base values overlaid by p.
func (p Params) Merge(base Params) Params {
	res := base.Clone()
	maps.Copy(res, p)
	return res
}

// Values encodes p as URL query values.
// Slices are encoded as repeated `key[]` entries.
func (p Params) Values() url.Values {
	q := url.Values{}
	for k, v := range p {
		switch t := v.(type) {
		case nil:
		case []string:
			for _, s := range t {
				q.Add(k+"[]", s)
			}
		case []any:
			for _, s := range t {
				if s != nil {
					q.Add(k+"[]", formatScalar(s))
				}
			}
		default:
			q.Set(k, formatScalar(t))
		}
	}
	return q
}

func formatScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	case map[string]any, map[string]string:
		js, _ := json.Marshal(t)
		return string(js)
	default:
		return fmt.Sprint(t)
	}
}
