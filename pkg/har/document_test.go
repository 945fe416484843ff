package har

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "log": {
    "version": "1.2",
    "creator": {"name": "WebInspector", "version": "537.36"},
    "entries": [
      {"startedDateTime": "2024-01-01T00:00:01.000Z", "request": {"method": "GET"}},
      {"startedDateTime": "2024-01-01T00:00:00.000Z", "request": {"method": "POST"}}
    ]
  }
}`

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "1.2", doc.Version)
	assert.Equal(t, "WebInspector", doc.Creator.Name)
	assert.Equal(t, "537.36", doc.Creator.Version)
	require.Len(t, doc.Entries, 2)
	// file order is preserved
	assert.Equal(t, "GET", doc.Entries[0].Text("", "request", "method"))
	assert.Equal(t, "POST", doc.Entries[1].Text("", "request", "method"))
}

func TestDecode_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, sampleDoc...)
	doc, err := Decode(bytes.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, doc.Entries, 2)
}

func TestDecode_UTF16LE(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFE})
	for _, u := range utf16.Encode([]rune(sampleDoc)) {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, u))
	}

	doc, err := Decode(&buf)
	require.NoError(t, err)
	assert.Len(t, doc.Entries, 2)
}

func TestDecode_EmptyEntries(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"log": {"entries": []}}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Entries)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		missing bool
	}{
		{"not json", `{"log": `, false},
		{"empty input", ``, false},
		{"no log", `{"foo": 1}`, true},
		{"log null", `{"log": null}`, true},
		{"no entries", `{"log": {"version": "1.2"}}`, true},
		{"entries not array", `{"log": {"entries": {}}}`, true},
		{"trailing data", `{"log": {"entries": []}} {"garbage"`, false},
		{"second document", `{"log": {"entries": []}}{"log": {"entries": []}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.missing, err == ErrMissingEntries)
		})
	}
}

func TestDecode_TrailingWhitespace(t *testing.T) {
	doc, err := Decode(strings.NewReader("{\"log\": {\"entries\": []}}\n\n"))
	require.NoError(t, err)
	assert.Empty(t, doc.Entries)
}

func TestDecode_NonObjectEntry(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"log": {"entries": [42]}}`))
	require.NoError(t, err)
	require.Len(t, doc.Entries, 1)
	_, ok := doc.Entries[0].Object("request")
	assert.False(t, ok)
}
