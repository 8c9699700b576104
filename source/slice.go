package source

import "io"

// SliceSource is a Source over a contiguous in-memory byte range. All
// Peek/Take calls return subslices of the original input directly; no
// copying is ever required.
type SliceSource struct {
	data []byte
	pos  int
}

// NewSlice wraps data as a slice-backed Source.
func NewSlice(data []byte) *SliceSource {
	return &SliceSource{data: data}
}

// Peek returns up to n bytes ahead of the current position without
// consuming them. It returns fewer than n bytes (possibly zero) at
// EOF, paired with io.EOF only once no bytes at all are available.
func (s *SliceSource) Peek(n int) ([]byte, error) {
	end := s.pos + n
	if end > len(s.data) {
		end = len(s.data)
	}
	out := s.data[s.pos:end]
	if len(out) < n && end == len(s.data) {
		if len(out) == 0 {
			return out, io.EOF
		}
		return out, nil
	}
	return out, nil
}

// PeekByte returns the next byte, or EOFByte at end of input.
func (s *SliceSource) PeekByte() (int, error) {
	if s.pos >= len(s.data) {
		return EOFByte, io.EOF
	}
	return int(s.data[s.pos]), nil
}

// Take consumes and returns up to n bytes, fewer only at EOF.
func (s *SliceSource) Take(n int) ([]byte, error) {
	out, err := s.Peek(n)
	s.pos += len(out)
	return out, err
}

// Toss discards n bytes without returning them.
func (s *SliceSource) Toss(n int) error {
	end := s.pos + n
	if end > len(s.data) {
		end = len(s.data)
	}
	s.pos = end
	return nil
}

// Stable reports true: slices borrowed from a SliceSource remain
// valid for the lifetime of the underlying byte range.
func (s *SliceSource) Stable() bool { return true }

// Offset reports the absolute byte offset of the next unread byte.
func (s *SliceSource) Offset() int64 { return int64(s.pos) }

// Remaining returns the unread tail of the backing slice as a
// zero-copy view. It does not consume anything.
func (s *SliceSource) Remaining() []byte {
	return s.data[s.pos:]
}
