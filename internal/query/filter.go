// Package query provides jq-based entry filtering.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/usestring/harcsv/internal/harerr"
	"github.com/usestring/harcsv/pkg/har"
)

// Filter selects HAR entries with a compiled jq expression.
type Filter struct {
	expression string
	code       *gojq.Code
}

// NewFilter compiles expression. An empty expression yields a nil Filter,
// which matches every entry.
func NewFilter(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, harerr.Filter(fmt.Sprintf("invalid jq expression at position %d", parseErr.Offset), err)
		}
		return nil, harerr.Filter("invalid jq expression", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, harerr.Filter("failed to compile jq expression", err)
	}

	return &Filter{expression: expression, code: code}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expression
}

// Match runs the expression against an entry. The entry matches when the
// expression produces at least one value other than false or null, so both
// `select(.response.status >= 400)` and `.request.method == "POST"` work.
// label identifies the entry in error messages.
func (f *Filter) Match(label string, e har.Entry) (bool, error) {
	if f == nil {
		return true, nil
	}

	input, err := toJQ(e)
	if err != nil {
		return false, harerr.Filter(label+": entry is not valid JSON", err)
	}

	iter := f.code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return false, nil
		}
		if err, isErr := v.(error); isErr {
			return false, harerr.Filter(formatJQError(label, err), nil)
		}
		if truthy(v) {
			return true, nil
		}
	}
}

// toJQ converts an entry into the plain value types gojq accepts.
func toJQ(e har.Entry) (any, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	default:
		return true
	}
}

// formatJQError creates a helpful error message for jq execution errors.
//
// Runtime jq errors are plain errors without typed wrappers in gojq, so string
// matching is used for user-facing hints only.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this entry)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}
