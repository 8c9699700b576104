package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		want string
		e    *ParseError
	}{
		{
			name: "message only",
			e:    &ParseError{Kind: KindMismatchedTags, Message: "got </b>, want </a>"},
			want: "[mismatched-tags] got </b>, want </a>",
		},
		{
			name: "with path",
			e:    &ParseError{Kind: KindMissingRequiredField, Message: "field missing", Path: "root.name"},
			want: "[missing-required-field] field missing at root.name",
		},
		{
			name: "with position",
			e:    &ParseError{Kind: KindInvalidMarkup, Message: "bad markup", Line: 3, Column: 5},
			want: "[invalid-markup] bad markup (line 3, column 5)",
		},
		{
			name: "with cause",
			e:    &ParseError{Kind: KindInvalidInteger, Message: "bad int", Err: fmt.Errorf("strconv: boom")},
			want: "[invalid-integer] bad int: strconv: boom",
		},
		{
			name: "bare kind",
			e:    &ParseError{Kind: KindTooManyAttributes},
			want: "[too-many-attributes] too-many-attributes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsSentinel(t *testing.T) {
	sentinel := New(KindMismatchedTags)
	wrapped := Newf(KindMismatchedTags, "closing tag %q does not match %q", "b", "a")

	if !errors.Is(wrapped, sentinel) {
		t.Fatalf("expected wrapped error to match sentinel kind")
	}
	if errors.Is(wrapped, New(KindTooManyAttributes)) {
		t.Fatalf("expected mismatched kinds not to match")
	}
}

func TestKindOf(t *testing.T) {
	err := Wrap(KindInvalidFloat, fmt.Errorf("parse float"))
	kind, ok := KindOf(err)
	if !ok || kind != KindInvalidFloat {
		t.Fatalf("KindOf() = %v, %v, want %v, true", kind, ok, KindInvalidFloat)
	}

	if _, ok := KindOf(fmt.Errorf("plain error")); ok {
		t.Fatalf("expected KindOf to fail on a plain error")
	}
}

func TestWithPositionAndPath(t *testing.T) {
	base := New(KindInvalidElementName)
	positioned := WithPosition(base, 10, 2)
	pathed := WithPath(positioned, "svg.path")

	if pathed.Line != 10 || pathed.Column != 2 || pathed.Path != "svg.path" {
		t.Fatalf("unexpected error context: %+v", pathed)
	}
	if base.Line != 0 || base.Path != "" {
		t.Fatalf("WithPosition/WithPath must not mutate the original error")
	}
}
