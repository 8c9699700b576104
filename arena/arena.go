// Package arena implements the stack-scoped string arena shared by the
// event parser: a growable byte buffer with an explicit top-of-stack
// position, from which callers borrow slices that remain valid until
// the arena is reset past the point they were produced.
package arena

import "github.com/ryanhair/zxml/entity"

// Mark is an opaque position in the arena, returned by Mark and
// consumed by ResetTo.
type Mark int

// Arena is a bump allocator with stack-scoped release. Zero value is
// ready to use.
type Arena struct {
	data []byte
	gen  uint32
}

// New returns an Arena with initialCapacity bytes of initial backing
// capacity.
func New(initialCapacity int) *Arena {
	return &Arena{data: make([]byte, 0, initialCapacity)}
}

// Mark records the current top-of-stack.
func (a *Arena) Mark() Mark {
	return Mark(len(a.data))
}

// ResetTo logically frees everything appended above m. It does not
// shrink the underlying buffer. Spans produced above m must not be
// used after this call.
func (a *Arena) ResetTo(m Mark) {
	if int(m) > len(a.data) {
		return
	}
	a.data = a.data[:m]
	a.gen++
}

// Len reports the current top-of-stack position, equivalent to
// Mark() but returned as a plain int for callers that don't need the
// opaque type.
func (a *Arena) Len() int {
	return len(a.data)
}

// Store appends a copy of b and returns the resulting Span. Callers
// whose input may contain '&' should use StoreWithEntities instead.
func (a *Arena) Store(b []byte) Span {
	start := len(a.data)
	a.data = append(a.data, b...)
	return Span{arena: a, start: start, end: len(a.data), gen: a.gen}
}

// StoreWithEntities copies b byte-by-byte, resolving built-in entities
// and numeric character references via table. Unknown named entities
// pass through literally, per the entity resolution policy.
func (a *Arena) StoreWithEntities(b []byte, table *entity.Table) (Span, error) {
	start := len(a.data)
	out, err := entity.AppendResolved(a.data, b, table)
	if err != nil {
		a.data = a.data[:start]
		return Span{}, err
	}
	a.data = out
	return Span{arena: a, start: start, end: len(a.data), gen: a.gen}, nil
}

// Span is a borrowed byte slice, either stack-scoped into an Arena
// (remains valid until the arena is reset past the point at which it
// was produced) or, when stable is true, a direct zero-copy slice
// into a caller-owned buffer (a slice-backed or memory-mapped source)
// that outlives the parser and is never invalidated by ResetTo.
type Span struct {
	arena  *Arena
	start  int
	end    int
	gen    uint32
	direct []byte
	stable bool
}

// Direct wraps b as a Span that borrows b directly rather than
// copying into an Arena. Callers must only use this for bytes backed
// by storage that outlives the parser, i.e. bytes returned by a
// source whose Stable() reports true.
func Direct(b []byte) Span {
	return Span{direct: b, stable: true}
}

// Bytes returns the bytes referenced by the span. It returns nil if
// the span has been invalidated by an intervening ResetTo.
func (s Span) Bytes() []byte {
	if s.stable {
		return s.direct
	}
	if s.arena == nil {
		return nil
	}
	if s.gen != s.arena.gen || s.end > len(s.arena.data) {
		return nil
	}
	return s.arena.data[s.start:s.end]
}

// String copies the span contents into a new string.
func (s Span) String() string {
	return string(s.Bytes())
}

// Len reports the number of bytes in the span.
func (s Span) Len() int {
	if s.stable {
		return len(s.direct)
	}
	return s.end - s.start
}

// Stable reports whether Bytes() is a direct slice into storage that
// outlives the parser, rather than into the arena's own buffer. A
// caller holding onto a Span (or bytes derived from it) past the
// point where the arena is reset must first check Stable and copy if
// false.
func (s Span) Stable() bool {
	return s.stable
}

// Valid reports whether the span can still be dereferenced safely.
func (s Span) Valid() bool {
	if s.stable {
		return true
	}
	return s.arena != nil && s.gen == s.arena.gen && s.end <= len(s.arena.data)
}
