// Package source provides the input abstraction that the event parser
// reads from: a unifying lookahead/consume surface over a slice-backed
// (zero-copy) or stream-backed (bounded-lookahead) byte source.
package source

import (
	xerrors "github.com/ryanhair/zxml/errors"
)

// EOFByte is returned by PeekByte at end of input.
const EOFByte = -1

// Source is the contract the event parser reads through. Peek returns
// up to n bytes without consuming them; Take consumes and returns
// exactly the bytes it read (fewer than n only at EOF); Toss discards
// n bytes without returning them.
//
// Stable reports whether slices returned by Peek/Take remain valid
// indefinitely (slice-backed sources) or only until the next
// Peek/Take/Toss call (stream-backed sources). Callers that need a
// string to outlive the next read on a non-stable source must copy it
// into the arena.
type Source interface {
	Peek(n int) ([]byte, error)
	PeekByte() (int, error)
	Take(n int) ([]byte, error)
	Toss(n int) error
	Stable() bool
	// Offset reports the absolute byte offset of the next unread byte.
	Offset() int64
}

// ErrTokenTooLarge is returned when an unbounded scan (attribute
// value, comment, text run, ...) would exceed the configured
// per-token ceiling.
var ErrTokenTooLarge = xerrors.New(xerrors.KindTokenTooLarge)
