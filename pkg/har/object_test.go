package har

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeObject(t *testing.T, s string) Object {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var o Object
	require.NoError(t, dec.Decode(&o))
	return o
}

func TestObjectLookup(t *testing.T) {
	o := decodeObject(t, `{
		"request": {"method": "GET", "headersSize": -1},
		"response": {"content": {"size": 100}, "_error": null},
		"time": 12.5,
		"scalar": "x"
	}`)

	v, ok := o.Lookup("request", "method")
	require.True(t, ok)
	assert.Equal(t, "GET", v)

	_, ok = o.Lookup("request", "missing")
	assert.False(t, ok)

	_, ok = o.Lookup("scalar", "nested")
	assert.False(t, ok, "walking through a scalar fails")

	_, ok = o.Lookup("response", "_error")
	assert.False(t, ok, "null counts as absent")

	_, ok = o.Lookup("nope", "deeper", "still")
	assert.False(t, ok)
}

func TestObjectText(t *testing.T) {
	o := decodeObject(t, `{
		"pageref": "page_1",
		"time": 12.50,
		"size": -1,
		"flag": true,
		"nested": {"a": [1, 2]},
		"nothing": null
	}`)

	tests := []struct {
		name string
		path []string
		def  string
		want string
	}{
		{"string", []string{"pageref"}, "", "page_1"},
		{"number keeps source form", []string{"time"}, "", "12.50"},
		{"negative passthrough", []string{"size"}, "", "-1"},
		{"bool", []string{"flag"}, "", "True"},
		{"composite as json", []string{"nested", "a"}, "", "[1,2]"},
		{"null uses default", []string{"nothing"}, "d", "d"},
		{"missing uses default", []string{"absent"}, "d", "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, o.Text(tt.def, tt.path...))
		})
	}
}

func TestObjectNumber(t *testing.T) {
	o := decodeObject(t, `{"a": 100, "b": 1.5, "c": "100", "d": null}`)

	n, ok := o.Number("a")
	require.True(t, ok)
	assert.Equal(t, 100.0, n)

	n, ok = o.Number("b")
	require.True(t, ok)
	assert.Equal(t, 1.5, n)

	_, ok = o.Number("c")
	assert.False(t, ok, "numeric strings are not coerced")

	_, ok = o.Number("d")
	assert.False(t, ok)

	_, ok = o.Number("missing")
	assert.False(t, ok)
}

func TestObjectNumber_GoValues(t *testing.T) {
	o := Object{"f": 2.5, "i": 3, "nested": map[string]any{"n": int64(7)}}

	n, ok := o.Number("f")
	require.True(t, ok)
	assert.Equal(t, 2.5, n)

	n, ok = o.Number("i")
	require.True(t, ok)
	assert.Equal(t, 3.0, n)

	n, ok = o.Number("nested", "n")
	require.True(t, ok)
	assert.Equal(t, 7.0, n)
}

func TestObjectHeaders(t *testing.T) {
	o := decodeObject(t, `{"response": {"headers": [
		{"name": "Content-Type", "value": "text/html"},
		"garbage",
		{"value": "no name"},
		{"name": "Content-Length", "value": 512}
	]}}`)

	headers := o.Headers("response", "headers")
	require.Len(t, headers, 2)
	assert.Equal(t, "text/html", headers.Get("content-type"))
	assert.Equal(t, "512", headers.Get("content-length"))

	assert.Nil(t, o.Headers("request", "headers"))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "150", FormatFloat(150))
	assert.Equal(t, "15.5", FormatFloat(15.5))
	assert.Equal(t, "0", FormatFloat(0))
}
