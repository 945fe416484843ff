// Package har decodes HTTP Archive (HAR) captures into loosely typed entries
// with safe optional-field access.
package har

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrMissingEntries is returned when a document has no log.entries array.
var ErrMissingEntries = errors.New("log.entries is missing or not an array")

// Entry is one logged request/response transaction from log.entries.
type Entry = Object

// Creator describes the application that produced a capture.
type Creator struct {
	Name    string
	Version string
}

// Document is a decoded HAR capture.
type Document struct {
	Version string
	Creator Creator
	Entries []Entry
}

type rawDocument struct {
	Log *struct {
		Version any `json:"version"`
		Creator any `json:"creator"`
		Entries any `json:"entries"`
	} `json:"log"`
}

// Decode reads a HAR document from r. A UTF-8 byte order mark is skipped and
// UTF-16 input with a byte order mark is transcoded, so exports from tools
// that write either decode transparently.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	dec.UseNumber()

	var raw rawDocument
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid JSON: extra data after the top-level value")
	}
	if raw.Log == nil {
		return nil, ErrMissingEntries
	}

	items, ok := raw.Log.Entries.([]any)
	if !ok {
		return nil, ErrMissingEntries
	}

	creator, _ := asObject(raw.Log.Creator)
	doc := &Document{
		Version: FormatValue(raw.Log.Version),
		Creator: Creator{
			Name:    creator.Text("", "name"),
			Version: creator.Text("", "version"),
		},
		Entries: make([]Entry, 0, len(items)),
	}
	for _, item := range items {
		// Non-object items are kept as empty entries so the normalizer can
		// report them by index.
		m, _ := asObject(item)
		doc.Entries = append(doc.Entries, m)
	}
	return doc, nil
}
