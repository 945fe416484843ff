// Package harerr defines the coded errors reported while converting HAR captures.
package harerr

import (
	"errors"
	"fmt"
)

// Error codes.
const (
	CodeMalformedInput    = "MALFORMED_INPUT"
	CodeMalformedEntry    = "MALFORMED_ENTRY"
	CodeNoHarFound        = "NO_HAR_FOUND"
	CodeNotADirectory     = "NOT_A_DIRECTORY"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeFilter            = "FILTER"
)

// CodedError is an error with an associated error code and the path of the
// source it concerns.
type CodedError struct {
	Code    string
	Message string
	Path    string
	Cause   error
}

func (e *CodedError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain is a CodedError with the given code.
func Is(err error, code string) bool {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}

// WithPath returns err with its path set when err is a CodedError without one.
// Other errors are returned unchanged.
func WithPath(err error, path string) error {
	var coded *CodedError
	if errors.As(err, &coded) && coded.Path == "" {
		c := *coded
		c.Path = path
		return &c
	}
	return err
}

// MalformedInput creates an error for a document that does not parse or lacks log.entries.
func MalformedInput(path, message string, cause error) error {
	return &CodedError{Code: CodeMalformedInput, Message: message, Path: path, Cause: cause}
}

// MalformedEntry creates an error for an entry missing a required sub-object.
func MalformedEntry(index int, missing string) error {
	return &CodedError{
		Code:    CodeMalformedEntry,
		Message: fmt.Sprintf("entry %d: missing or invalid %q object", index, missing),
	}
}

// NoHarFound creates an error for an archive without a .har member.
func NoHarFound() error {
	return &CodedError{
		Code:    CodeNoHarFound,
		Message: "No .har file found in the ZIP archive.",
	}
}

// NotADirectory creates an error for a directory-mode path that is not a directory.
func NotADirectory(path string) error {
	return &CodedError{
		Code:    CodeNotADirectory,
		Message: fmt.Sprintf("The provided path '%s' is not a directory.", path),
	}
}

// UnsupportedFormat creates an error for a source with neither .har nor .zip extension.
func UnsupportedFormat() error {
	return &CodedError{
		Code:    CodeUnsupportedFormat,
		Message: "Unsupported file format. Please provide a .har or .zip file containing a .har file.",
	}
}

// Filter creates an error for a jq filter that fails to compile or run.
func Filter(message string, cause error) error {
	return &CodedError{Code: CodeFilter, Message: message, Cause: cause}
}

// UserMessage returns the message suitable for printing to a user, without
// the code prefix. Non-coded errors fall back to err.Error().
func UserMessage(err error) string {
	var coded *CodedError
	if !errors.As(err, &coded) {
		return err.Error()
	}
	msg := coded.Message
	if coded.Path != "" {
		msg = fmt.Sprintf("%s: %s", coded.Path, msg)
	}
	if coded.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, coded.Cause)
	}
	return msg
}
