package source

import "io"

const defaultStreamChunk = 32 * 1024

// StreamSource is a Source over a pull reader with bounded lookahead.
// Bytes returned by Peek/Take are valid only until the next
// Peek/Take/Toss call; durable copies must go through the arena.
type StreamSource struct {
	r        io.Reader
	buf      []byte
	start    int
	end      int
	offset   int64
	eof      bool
	maxToken int
}

// NewStream wraps r as a stream-backed Source. maxToken bounds any
// single Peek/Take request; a request larger than maxToken fails with
// ErrTokenTooLarge. A maxToken of 0 disables the bound.
func NewStream(r io.Reader, maxToken int) *StreamSource {
	return &StreamSource{r: r, maxToken: maxToken}
}

func (s *StreamSource) buffered() int { return s.end - s.start }

// fill ensures at least n bytes are buffered, short of EOF.
func (s *StreamSource) fill(n int) error {
	if s.maxToken > 0 && n > s.maxToken {
		return ErrTokenTooLarge
	}
	for s.buffered() < n && !s.eof {
		if s.start > 0 {
			copy(s.buf, s.buf[s.start:s.end])
			s.end -= s.start
			s.start = 0
		}
		need := n - s.buffered()
		grow := need
		if grow < defaultStreamChunk {
			grow = defaultStreamChunk
		}
		if cap(s.buf)-s.end < grow {
			newBuf := make([]byte, s.end, s.end+grow)
			copy(newBuf, s.buf[:s.end])
			s.buf = newBuf
		}
		read, err := s.r.Read(s.buf[s.end:cap(s.buf)])
		s.end += read
		s.buf = s.buf[:s.end]
		if err != nil {
			if err == io.EOF {
				s.eof = true
				break
			}
			return err
		}
		if read == 0 {
			s.eof = true
			break
		}
	}
	return nil
}

// Peek returns up to n bytes ahead of the current position.
func (s *StreamSource) Peek(n int) ([]byte, error) {
	if err := s.fill(n); err != nil {
		return nil, err
	}
	avail := s.buffered()
	if avail > n {
		avail = n
	}
	out := s.buf[s.start : s.start+avail]
	if avail < n && s.eof {
		if avail == 0 {
			return out, io.EOF
		}
		return out, nil
	}
	return out, nil
}

// PeekByte returns the next byte, or EOFByte at end of input.
func (s *StreamSource) PeekByte() (int, error) {
	b, err := s.Peek(1)
	if len(b) == 0 {
		return EOFByte, err
	}
	return int(b[0]), nil
}

// Take consumes and returns up to n bytes, fewer only at EOF. The
// returned slice is volatile: it is invalidated by the next
// Peek/Take/Toss call.
func (s *StreamSource) Take(n int) ([]byte, error) {
	out, err := s.Peek(n)
	s.start += len(out)
	s.offset += int64(len(out))
	return out, err
}

// Toss discards n bytes without returning them.
func (s *StreamSource) Toss(n int) error {
	for n > 0 {
		chunk := n
		if chunk > defaultStreamChunk {
			chunk = defaultStreamChunk
		}
		if err := s.fill(chunk); err != nil {
			return err
		}
		avail := s.buffered()
		if avail > chunk {
			avail = chunk
		}
		s.start += avail
		s.offset += int64(avail)
		n -= avail
		if avail == 0 {
			break
		}
	}
	return nil
}

// Stable reports false: buffers are reused and slices go stale.
func (s *StreamSource) Stable() bool { return false }

// Offset reports the absolute byte offset of the next unread byte.
func (s *StreamSource) Offset() int64 { return s.offset }
