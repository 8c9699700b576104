package event

import (
	"github.com/ryanhair/zxml/arena"
	"github.com/ryanhair/zxml/entity"
	xerrors "github.com/ryanhair/zxml/errors"
)

func (p *Parser) scanName() (arena.Span, error) {
	first, err := p.src.PeekByte()
	if err != nil {
		return arena.Span{}, xerrors.New(xerrors.KindInvalidElementName)
	}
	var raw []byte
	switch {
	case byte(first) >= 0x80:
		raw, err = p.scanWhile(isPermissiveNameByte)
	case isASCIINameStart(byte(first)):
		raw, err = p.scanWhile(isNameByteFast)
	default:
		return arena.Span{}, xerrors.New(xerrors.KindInvalidElementName)
	}
	if err != nil {
		return arena.Span{}, err
	}
	if len(raw) == 0 {
		return arena.Span{}, xerrors.New(xerrors.KindInvalidElementName)
	}
	return p.storeSpan(raw), nil
}

func (p *Parser) scanAttribute() (Attribute, error) {
	nameSpan, err := p.scanName()
	if err != nil {
		return Attribute{}, err
	}
	p.skipWS()
	b, err := p.src.PeekByte()
	if err != nil || b != '=' {
		return Attribute{}, xerrors.New(xerrors.KindExpectedEquals)
	}
	_ = p.src.Toss(1)
	p.skipWS()
	quote, err := p.src.PeekByte()
	if err != nil || (quote != '"' && quote != '\'') {
		return Attribute{}, xerrors.New(xerrors.KindExpectedQuote)
	}
	_ = p.src.Toss(1)

	raw, err := p.scanWhile(func(b byte) bool { return b != byte(quote) })
	if err != nil {
		return Attribute{}, err
	}
	valueSpan, err := p.resolveAttributeValue(raw)
	if err != nil {
		return Attribute{}, err
	}
	closeByte, err := p.src.PeekByte()
	if err != nil || closeByte != quote {
		return Attribute{}, xerrors.New(xerrors.KindUnterminatedAttributeValue)
	}
	_ = p.src.Toss(1)
	return Attribute{Name: nameSpan, Value: valueSpan}, nil
}

func (p *Parser) resolveAttributeValue(raw []byte) (arena.Span, error) {
	if p.opts.resolveEntities && entity.ContainsAmpersand(raw) {
		return p.arena.StoreWithEntities(raw, &p.entities)
	}
	return p.storeSpan(raw), nil
}

func (p *Parser) scanQuoted() (arena.Span, error) {
	q, err := p.src.PeekByte()
	if err != nil || (q != '"' && q != '\'') {
		return arena.Span{}, xerrors.New(xerrors.KindExpectedQuote)
	}
	_ = p.src.Toss(1)
	raw, err := p.scanWhile(func(b byte) bool { return b != byte(q) })
	if err != nil {
		return arena.Span{}, err
	}
	span := p.storeSpan(raw)
	closeB, err := p.src.PeekByte()
	if err != nil || closeB != q {
		return arena.Span{}, xerrors.New(xerrors.KindExpectedQuote)
	}
	_ = p.src.Toss(1)
	return span, nil
}
