package event

import xerrors "github.com/ryanhair/zxml/errors"

func (p *Parser) parseXMLDeclOrPI() (Event, error) {
	_ = p.src.Toss(2) // "<?"
	targetRaw, err := p.scanWhile(isPITargetByte)
	if err != nil {
		return Event{}, err
	}
	if len(targetRaw) == 0 {
		return Event{}, xerrors.New(xerrors.KindInvalidMarkup)
	}
	isXML := string(targetRaw) == "xml"
	nb, _ := p.src.PeekByte()
	if isXML && (nb == -1 || isXMLWhitespace(byte(nb)) || nb == '?') {
		return p.parseXMLDeclBody()
	}

	targetSpan := p.storeSpan(targetRaw)
	p.skipWS()
	bodySpan, closed, err := p.scanUntilDelimiterSpan([]byte("?>"))
	if err != nil {
		return Event{}, err
	}
	if !closed {
		return Event{}, xerrors.New(xerrors.KindUnterminatedProcessingInstruction)
	}
	return Event{Kind: ProcessingInstruction, PITarget: targetSpan, PIBody: bodySpan}, nil
}

func (p *Parser) parseXMLDeclBody() (Event, error) {
	ev := Event{Kind: XMLDeclaration}
	haveVersion := false
	for {
		p.skipWS()
		b, err := p.src.PeekByte()
		if err != nil {
			return Event{}, xerrors.New(xerrors.KindInvalidXMLDeclaration)
		}
		if b == '?' {
			window, _ := p.src.Peek(2)
			if len(window) == 2 && window[1] == '>' {
				_ = p.src.Toss(2)
				break
			}
			return Event{}, xerrors.New(xerrors.KindInvalidXMLDeclaration)
		}
		attr, err := p.scanAttribute()
		if err != nil {
			return Event{}, xerrors.Wrap(xerrors.KindInvalidXMLDeclaration, err)
		}
		switch attr.Name.String() {
		case "version":
			ev.Version = attr.Value
			haveVersion = true
		case "encoding":
			ev.Encoding = attr.Value
			ev.HasEncoding = true
		case "standalone":
			ev.HasStandalone = true
			ev.Standalone = attr.Value.String() == "yes"
		default:
			return Event{}, xerrors.New(xerrors.KindInvalidXMLDeclaration)
		}
	}
	if !haveVersion {
		return Event{}, xerrors.New(xerrors.KindInvalidXMLDeclaration)
	}
	return ev, nil
}
