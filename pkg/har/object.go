package har

import (
	"encoding/json"
	"strconv"
)

// Object is a decoded JSON object. Numbers are held as json.Number so values
// passed through to a report keep the form they had in the capture.
type Object map[string]any

// Lookup walks path through nested objects and returns the value found.
// It returns false when a step is missing, an intermediate value is not an
// object, or the final value is JSON null.
func (o Object) Lookup(path ...string) (any, bool) {
	var cur any = o
	for _, key := range path {
		m, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// Object returns the nested object at path.
func (o Object) Object(path ...string) (Object, bool) {
	v, ok := o.Lookup(path...)
	if !ok {
		return nil, false
	}
	return asObject(v)
}

// Text returns the scalar at path rendered as text, or def when absent.
func (o Object) Text(def string, path ...string) string {
	v, ok := o.Lookup(path...)
	if !ok {
		return def
	}
	return FormatValue(v)
}

// Number returns the numeric value at path. Numeric strings are not coerced.
func (o Object) Number(path ...string) (float64, bool) {
	v, ok := o.Lookup(path...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Headers returns the header list stored as an array of {name, value}
// objects at path. Items without a string name are skipped.
func (o Object) Headers(path ...string) Headers {
	v, ok := o.Lookup(path...)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	headers := make(Headers, 0, len(items))
	for _, item := range items {
		m, ok := asObject(item)
		if !ok {
			continue
		}
		name, ok := m["name"].(string)
		if !ok {
			continue
		}
		headers = append(headers, Header{Name: name, Value: m.Text("", "value")})
	}
	return headers
}

// FormatValue renders a decoded JSON value the way it appears in a report cell.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float64:
		return FormatFloat(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// FormatFloat renders f with the fewest digits that represent it exactly.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func asObject(v any) (Object, bool) {
	switch m := v.(type) {
	case Object:
		return m, true
	case map[string]any:
		return Object(m), true
	default:
		return nil, false
	}
}
