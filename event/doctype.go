package event

import xerrors "github.com/ryanhair/zxml/errors"

func (p *Parser) parseDoctype() (Event, error) {
	_ = p.src.Toss(9) // "<!DOCTYPE"
	p.skipWS()
	nameSpan, err := p.scanName()
	if err != nil {
		return Event{}, xerrors.New(xerrors.KindInvalidDoctype)
	}
	ev := Event{Kind: DOCTYPE, DoctypeName: nameSpan}

	p.skipWS()
	window, _ := p.src.Peek(6)
	switch {
	case len(window) >= 6 && string(window[:6]) == "SYSTEM":
		_ = p.src.Toss(6)
		p.skipWS()
		sysSpan, err := p.scanQuoted()
		if err != nil {
			return Event{}, xerrors.New(xerrors.KindInvalidDoctype)
		}
		ev.SystemID, ev.HasSystemID = sysSpan, true
	case len(window) >= 6 && string(window[:6]) == "PUBLIC":
		_ = p.src.Toss(6)
		p.skipWS()
		pubSpan, err := p.scanQuoted()
		if err != nil {
			return Event{}, xerrors.New(xerrors.KindInvalidDoctype)
		}
		ev.PublicID, ev.HasPublicID = pubSpan, true
		p.skipWS()
		sysSpan, err := p.scanQuoted()
		if err != nil {
			return Event{}, xerrors.New(xerrors.KindInvalidDoctype)
		}
		ev.SystemID, ev.HasSystemID = sysSpan, true
	}

	p.skipWS()
	b, err := p.src.PeekByte()
	if err == nil && b == '[' {
		_ = p.src.Toss(1)
		if err := p.skipInternalSubset(); err != nil {
			return Event{}, err
		}
	}

	p.skipWS()
	b, err = p.src.PeekByte()
	if err != nil || b != '>' {
		return Event{}, xerrors.New(xerrors.KindUnterminatedDoctype)
	}
	_ = p.src.Toss(1)
	return ev, nil
}

// skipInternalSubset scans the "[ ... ]" internal DTD subset with
// bracket-depth tracking, recording <!ENTITY name "value"> declarations
// into the entity table and skipping every other declaration.
func (p *Parser) skipInternalSubset() error {
	depth := 1
	for depth > 0 {
		p.skipWS()
		b, err := p.src.PeekByte()
		if err != nil {
			return xerrors.New(xerrors.KindUnterminatedDoctype)
		}
		switch {
		case b == '[':
			_ = p.src.Toss(1)
			depth++
		case b == ']':
			_ = p.src.Toss(1)
			depth--
		case b == '<':
			if err := p.skipOrRecordDeclaration(); err != nil {
				return err
			}
		default:
			_ = p.src.Toss(1)
		}
	}
	return nil
}

func (p *Parser) skipOrRecordDeclaration() error {
	window, _ := p.src.Peek(9)
	switch {
	case len(window) >= 4 && string(window[:4]) == "<!--":
		_, closed, err := p.scanUntilDelimiterSpan([]byte("-->"))
		if err != nil {
			return err
		}
		if !closed {
			return xerrors.New(xerrors.KindUnterminatedComment)
		}
		return nil
	case len(window) >= 8 && string(window[:8]) == "<!ENTITY":
		return p.parseEntityDecl()
	default:
		return p.skipToMatchingAngle()
	}
}

func (p *Parser) parseEntityDecl() error {
	_ = p.src.Toss(8) // "<!ENTITY"
	p.skipWS()
	b, err := p.src.PeekByte()
	if err != nil {
		return xerrors.New(xerrors.KindUnterminatedDoctype)
	}
	if b == '%' {
		// Parameter entities are not recognized; documented limitation.
		return p.skipToMatchingAngle()
	}
	nameSpan, err := p.scanName()
	if err != nil {
		return xerrors.New(xerrors.KindInvalidDoctype)
	}
	p.skipWS()
	valueSpan, err := p.scanQuoted()
	if err != nil {
		// External or unparsed entity (SYSTEM/PUBLIC/NDATA): no inline
		// replacement text to record; skip to the closing '>'.
		return p.skipToMatchingAngle()
	}
	p.entities.Declare(nameSpan.String(), valueSpan.String())
	p.skipWS()
	b, err = p.src.PeekByte()
	if err != nil || b != '>' {
		return xerrors.New(xerrors.KindInvalidDoctype)
	}
	_ = p.src.Toss(1)
	return nil
}

func (p *Parser) skipToMatchingAngle() error {
	_ = p.src.Toss(1) // consume the current byte: the declaration's '<', or the byte after "<!ENTITY name"
	depth := 1
	for depth > 0 {
		b, err := p.src.PeekByte()
		if err != nil {
			return xerrors.New(xerrors.KindUnterminatedDoctype)
		}
		_ = p.src.Toss(1)
		switch b {
		case '<':
			depth++
		case '>':
			depth--
		}
	}
	return nil
}
