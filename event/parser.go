package event

import (
	"io"

	"github.com/ryanhair/zxml/arena"
	"github.com/ryanhair/zxml/entity"
	xerrors "github.com/ryanhair/zxml/errors"
	"github.com/ryanhair/zxml/source"
)

type stackFrame struct {
	name      arena.Span
	mark      arena.Mark
	attrStart int
}

// Parser is the XML lexer/parser state machine. It is single-owner
// and not safe for concurrent use; the arena, element stack, and
// entity table it holds are mutated only in response to Next calls.
type Parser struct {
	src      source.Source
	arena    *arena.Arena
	entities entity.Table
	opts     resolvedOptions

	stack         []stackFrame
	attrWorkspace []Attribute

	started bool
	done    bool
	err     error

	pendingEnd bool

	pendingResetSet bool
	pendingReset    arena.Mark

	line   int
	column int
}

// New creates a Parser reading from src.
func New(src source.Source, opts ...Option) *Parser {
	resolved := buildOptions(opts...).resolve()
	return &Parser{
		src:    src,
		arena:  arena.New(resolved.arenaCapacity),
		opts:   resolved,
		line:   1,
		column: 1,
	}
}

// Next returns the next event, or io.EOF once the document has been
// fully consumed. Once Next returns a non-EOF error, the parser is in
// a permanent terminal state: further calls return the same error.
func (p *Parser) Next() (Event, error) {
	if p.err != nil {
		return Event{}, p.err
	}
	if p.done {
		return Event{}, io.EOF
	}
	if p.pendingResetSet {
		p.arena.ResetTo(p.pendingReset)
		p.pendingResetSet = false
	}
	if !p.started {
		p.started = true
		return Event{Kind: DocumentStart}, nil
	}

	var ev Event
	var err error
	if p.pendingEnd {
		frame := p.stack[len(p.stack)-1]
		ev, err = p.popFrame(frame)
		p.pendingEnd = false
	} else {
		ev, err = p.step()
	}
	if err != nil {
		p.err = err
		p.done = true
		return Event{}, err
	}
	if ev.Kind == DocumentEnd {
		p.done = true
	}
	return ev, nil
}

// StackDepth reports the current element nesting depth.
func (p *Parser) StackDepth() int { return len(p.stack) }

// step parses exactly one syntactic unit from the source.
func (p *Parser) step() (Event, error) {
	depth := len(p.stack)
	b, err := p.src.PeekByte()
	if err != nil {
		if depth > 0 {
			return Event{}, xerrors.New(xerrors.KindUnexpectedEndOfInput)
		}
		return Event{Kind: DocumentEnd}, nil
	}
	if b == '<' {
		return p.parseMarkup(depth)
	}
	return p.parseCharData(depth)
}

func (p *Parser) parseMarkup(depth int) (Event, error) {
	window, _ := p.src.Peek(9)
	switch {
	case len(window) >= 2 && window[1] == '/':
		return p.parseEndElement()
	case len(window) >= 4 && string(window[:4]) == "<!--":
		return p.parseComment()
	case len(window) >= 9 && string(window[:9]) == "<![CDATA[":
		return p.parseCDATA()
	case len(window) >= 2 && window[1] == '?':
		return p.parseXMLDeclOrPI()
	case len(window) >= 9 && string(window[:9]) == "<!DOCTYPE":
		return p.parseDoctype()
	case len(window) >= 2 && window[1] == '!':
		return Event{}, xerrors.Newf(xerrors.KindInvalidMarkup, "unsupported markup declaration")
	default:
		return p.parseStartElement(depth)
	}
}

func (p *Parser) parseStartElement(depth int) (Event, error) {
	if depth+1 > p.opts.maxDepth {
		return Event{}, xerrors.New(xerrors.KindTooManyNestedElements)
	}
	_ = p.src.Toss(1) // '<'
	mark := p.arena.Mark()
	nameSpan, err := p.scanName()
	if err != nil {
		return Event{}, err
	}
	attrStart := len(p.attrWorkspace)
	selfClosing := false
	for {
		p.skipWS()
		b, err := p.src.PeekByte()
		if err != nil {
			return Event{}, xerrors.New(xerrors.KindUnexpectedEndOfInput)
		}
		if b == '>' {
			_ = p.src.Toss(1)
			break
		}
		if b == '/' {
			_ = p.src.Toss(1)
			nb, err := p.src.PeekByte()
			if err != nil || nb != '>' {
				return Event{}, xerrors.New(xerrors.KindExpectedClosingBracket)
			}
			_ = p.src.Toss(1)
			selfClosing = true
			break
		}
		if len(p.attrWorkspace)-attrStart >= p.opts.maxAttrs {
			return Event{}, xerrors.New(xerrors.KindTooManyAttributes)
		}
		attr, err := p.scanAttribute()
		if err != nil {
			return Event{}, err
		}
		p.attrWorkspace = append(p.attrWorkspace, attr)
	}

	frame := stackFrame{name: nameSpan, mark: mark, attrStart: attrStart}
	p.stack = append(p.stack, frame)
	ev := Event{Kind: StartElement, Name: nameSpan, Attrs: p.attrWorkspace[attrStart:]}
	if selfClosing {
		p.pendingEnd = true
	}
	return ev, nil
}

func (p *Parser) parseEndElement() (Event, error) {
	if len(p.stack) == 0 {
		return Event{}, xerrors.New(xerrors.KindUnmatchedClosingTag)
	}
	_ = p.src.Toss(2) // "</"
	frame := p.stack[len(p.stack)-1]
	if err := p.expectLiteralName(frame.name.Bytes()); err != nil {
		return Event{}, err
	}
	p.skipWS()
	b, err := p.src.PeekByte()
	if err != nil || b != '>' {
		return Event{}, xerrors.New(xerrors.KindExpectedClosingBracket)
	}
	_ = p.src.Toss(1)
	return p.popFrame(frame)
}

func (p *Parser) popFrame(frame stackFrame) (Event, error) {
	p.stack = p.stack[:len(p.stack)-1]
	p.attrWorkspace = p.attrWorkspace[:frame.attrStart]
	p.pendingReset = frame.mark
	p.pendingResetSet = true
	return Event{Kind: EndElement, Name: frame.name}, nil
}

func (p *Parser) expectLiteralName(expected []byte) error {
	window, _ := p.src.Peek(len(expected) + 1)
	if len(window) < len(expected) || string(window[:len(expected)]) != string(expected) {
		return p.mismatchedTagsError(expected)
	}
	if len(window) > len(expected) && isNameByteFast(window[len(expected)]) {
		return p.mismatchedTagsError(expected)
	}
	_ = p.src.Toss(len(expected))
	return nil
}

func (p *Parser) mismatchedTagsError(expected []byte) error {
	actual, err := p.scanName()
	if err != nil {
		return xerrors.Newf(xerrors.KindMismatchedTags, "expected closing tag %q", expected)
	}
	return xerrors.Newf(xerrors.KindMismatchedTags, "closing tag %q does not match open tag %q", actual.Bytes(), expected)
}

func (p *Parser) parseCharData(depth int) (Event, error) {
	raw, err := p.scanWhile(func(b byte) bool { return b != '<' })
	if err != nil {
		return Event{}, err
	}
	if len(raw) == 0 {
		return p.step()
	}
	allWS := isAllWhitespace(raw)
	if allWS && !p.opts.preserveWhitespace {
		return p.step()
	}
	if !allWS && depth == 0 {
		return Event{}, xerrors.New(xerrors.KindInvalidMarkup)
	}
	span, err := p.storeCharData(raw)
	if err != nil {
		return Event{}, err
	}
	if allWS {
		return Event{Kind: Whitespace, CharData: span}, nil
	}
	return Event{Kind: Text, CharData: span}, nil
}

func (p *Parser) storeCharData(raw []byte) (arena.Span, error) {
	if p.opts.resolveEntities && entity.ContainsAmpersand(raw) {
		return p.arena.StoreWithEntities(raw, &p.entities)
	}
	return p.storeSpan(raw), nil
}

// storeSpan wraps raw as a Span, borrowing it directly when the
// source is stable (raw is then a subslice of storage that outlives
// the parser) and copying into the arena otherwise.
func (p *Parser) storeSpan(raw []byte) arena.Span {
	if p.src.Stable() {
		return arena.Direct(raw)
	}
	return p.arena.Store(raw)
}

func (p *Parser) parseComment() (Event, error) {
	_ = p.src.Toss(4) // "<!--"
	span, closed, err := p.scanUntilDelimiterSpan([]byte("-->"))
	if err != nil {
		return Event{}, err
	}
	if !closed {
		return Event{}, xerrors.New(xerrors.KindUnterminatedComment)
	}
	return Event{Kind: Comment, CharData: span}, nil
}

func (p *Parser) parseCDATA() (Event, error) {
	_ = p.src.Toss(9) // "<![CDATA["
	span, closed, err := p.scanUntilDelimiterSpan([]byte("]]>"))
	if err != nil {
		return Event{}, err
	}
	if !closed {
		return Event{}, xerrors.New(xerrors.KindUnterminatedCDATA)
	}
	return Event{Kind: CDATA, CharData: span}, nil
}
