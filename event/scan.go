package event

import (
	"bytes"
	"io"

	"github.com/ryanhair/zxml/arena"
	"github.com/ryanhair/zxml/source"
)

const initialScanWindow = 64

// scanWhile grows a lookahead window until pred fails inside it or
// input is exhausted, then consumes and returns exactly the matching
// prefix. The returned slice is volatile on stream-backed sources:
// callers must copy it into the arena before any further Peek/Take/
// Toss call.
func (p *Parser) scanWhile(pred func(byte) bool) ([]byte, error) {
	size := initialScanWindow
	for {
		if p.opts.maxTokenSize > 0 && size > p.opts.maxTokenSize {
			return nil, source.ErrTokenTooLarge
		}
		window, err := p.src.Peek(size)
		if err != nil && err != io.EOF {
			return nil, err
		}
		n := 0
		for n < len(window) && pred(window[n]) {
			n++
		}
		if n < len(window) || len(window) < size {
			return p.src.Take(n)
		}
		size *= 2
	}
}

// scanUntilDelimiterSpan scans ahead for delim, storing everything
// before it via storeSpan (borrowed directly on a stable source,
// copied into the arena otherwise) and consuming delim itself. It reports
// whether delim was actually found before input was exhausted.
func (p *Parser) scanUntilDelimiterSpan(delim []byte) (arena.Span, bool, error) {
	size := initialScanWindow
	if size < len(delim)*2 {
		size = len(delim) * 2
	}
	for {
		if p.opts.maxTokenSize > 0 && size > p.opts.maxTokenSize {
			return arena.Span{}, false, source.ErrTokenTooLarge
		}
		window, err := p.src.Peek(size)
		if err != nil && err != io.EOF {
			return arena.Span{}, false, err
		}
		if idx := bytes.Index(window, delim); idx >= 0 {
			raw, takeErr := p.src.Take(idx)
			if takeErr != nil {
				return arena.Span{}, false, takeErr
			}
			span := p.storeSpan(raw)
			if tossErr := p.src.Toss(len(delim)); tossErr != nil {
				return arena.Span{}, false, tossErr
			}
			return span, true, nil
		}
		if len(window) < size {
			raw, _ := p.src.Take(len(window))
			span := p.storeSpan(raw)
			return span, false, nil
		}
		size *= 2
	}
}

func (p *Parser) skipWS() {
	for {
		b, err := p.src.PeekByte()
		if err != nil || !isXMLWhitespace(byte(b)) {
			return
		}
		_ = p.src.Toss(1)
	}
}
