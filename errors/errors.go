// Package errors defines the typed error kinds surfaced by the event
// parser and schema dispatcher.
package errors

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a parsing or schema-binding failure.
type Kind string

const (
	// Source shape errors.
	KindUnexpectedEndOfInput Kind = "unexpected-end-of-input"
	KindUnterminatedToken     Kind = "unterminated-token"
	KindTokenTooLarge         Kind = "token-too-large"

	// Markup structure errors.
	KindInvalidMarkup                     Kind = "invalid-markup"
	KindExpectedClosingBracket             Kind = "expected-closing-bracket"
	KindExpectedEquals                     Kind = "expected-equals"
	KindExpectedQuote                      Kind = "expected-quote"
	KindUnterminatedAttributeValue         Kind = "unterminated-attribute-value"
	KindUnterminatedComment                Kind = "unterminated-comment"
	KindUnterminatedCDATA                  Kind = "unterminated-cdata"
	KindUnterminatedProcessingInstruction  Kind = "unterminated-processing-instruction"
	KindUnterminatedDoctype                Kind = "unterminated-doctype"
	KindInvalidXMLDeclaration               Kind = "invalid-xml-declaration"
	KindInvalidDoctype                      Kind = "invalid-doctype"
	KindInvalidElementName                  Kind = "invalid-element-name"

	// Structural errors.
	KindMismatchedTags        Kind = "mismatched-tags"
	KindUnmatchedClosingTag   Kind = "unmatched-closing-tag"
	KindTooManyNestedElements Kind = "too-many-nested-elements"
	KindTooManyAttributes     Kind = "too-many-attributes"
	KindEmptyText             Kind = "empty-text"

	// Schema-binding errors.
	KindMissingRequiredField                      Kind = "missing-required-field"
	KindUnexpectedElement                         Kind = "unexpected-element"
	KindLazyStructCanOnlyHavePrimitiveAttributes  Kind = "lazy-struct-primitive-attributes-only"
	KindNoRootElement                             Kind = "no-root-element"
	KindUnexpectedEndOfDocument                   Kind = "unexpected-end-of-document"

	// Conversion errors.
	KindInvalidInteger Kind = "invalid-integer"
	KindInvalidFloat   Kind = "invalid-float"
	KindInvalidBoolean Kind = "invalid-boolean"

	// Schema-definition errors, reported by the validator ahead of parsing.
	KindMultipleIteratorFields    Kind = "multiple-iterator-fields"
	KindLazyDescendantUnderEager  Kind = "lazy-descendant-under-eager"
	KindUnknownNameOverrideTarget Kind = "unknown-name-override-target"
	KindRootNotRecord             Kind = "root-not-record"
)

// ParseError reports a single parsing or schema-binding failure with
// positional context.
type ParseError struct {
	Kind    Kind
	Message string
	Path    string
	Line    int
	Column  int
	Err     error
}

// Error formats the error for display, including kind, message, and
// whatever positional context is available.
func (e *ParseError) Error() string {
	if e == nil {
		return "<nil parse error>"
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	s := fmt.Sprintf("[%s] %s", e.Kind, msg)
	if e.Path != "" {
		s += fmt.Sprintf(" at %s", e.Path)
	}
	if e.Line > 0 {
		s += fmt.Sprintf(" (line %d, column %d)", e.Line, e.Column)
	}
	if e.Err != nil {
		s += fmt.Sprintf(": %v", e.Err)
	}
	return s
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/As.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is a ParseError with the same Kind, so
// callers can use errors.Is(err, errors.New(KindMismatchedTags)) style
// sentinels built with New.
func (e *ParseError) Is(target error) bool {
	var other *ParseError
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind && other.Message == "" && other.Path == ""
}

// New builds a bare ParseError carrying only a kind, suitable as a
// sentinel for errors.Is comparisons.
func New(kind Kind) *ParseError {
	return &ParseError{Kind: kind}
}

// Newf builds a ParseError with a formatted message.
func Newf(kind Kind, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithPosition returns a copy of e annotated with line/column.
func WithPosition(e *ParseError, line, column int) *ParseError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Line = line
	clone.Column = column
	return &clone
}

// WithPath returns a copy of e annotated with a field/element path.
func WithPath(e *ParseError, path string) *ParseError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Path = path
	return &clone
}

// Wrap builds a ParseError of kind that wraps cause.
func Wrap(kind Kind, cause error) *ParseError {
	return &ParseError{Kind: kind, Err: cause}
}

// KindOf extracts the Kind from err, if err is (or wraps) a *ParseError.
func KindOf(err error) (Kind, bool) {
	var pe *ParseError
	if errors.As(err, &pe) && pe != nil {
		return pe.Kind, true
	}
	return "", false
}
