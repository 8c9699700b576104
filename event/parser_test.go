package event

import (
	"fmt"
	"io"
	"strings"
	"testing"

	xerrors "github.com/ryanhair/zxml/errors"
	"github.com/ryanhair/zxml/source"
)

func TestMinimalSelfClosing(t *testing.T) {
	p := New(source.NewSlice([]byte(`<root/>`)))
	evs := collectImmediate(t, p)
	want := []Kind{DocumentStart, StartElement, EndElement, DocumentEnd}
	if len(evs) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(evs), len(want), evs)
	}
	for i := range want {
		if evs[i].kind != want[i] {
			t.Fatalf("event %d: got %v, want %v", i, evs[i].kind, want[i])
		}
	}
}

// collectImmediate materializes Name/CharData into plain strings at
// the moment each event is produced, since the arena is reset lazily
// at the top of the next Next call.
type capturedEvent struct {
	kind     Kind
	name     string
	chardata string
	doctype  string
	attrs    []capturedAttr
}

type capturedAttr struct {
	name  string
	value string
}

func capture(ev Event) capturedEvent {
	c := capturedEvent{kind: ev.Kind, name: ev.Name.String(), chardata: ev.CharData.String(), doctype: ev.DoctypeName.String()}
	for _, a := range ev.Attrs {
		c.attrs = append(c.attrs, capturedAttr{name: a.Name.String(), value: a.Value.String()})
	}
	return c
}

func collectImmediate(t *testing.T, p *Parser) []capturedEvent {
	t.Helper()
	var out []capturedEvent
	for {
		ev, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, capture(ev))
		if ev.Kind == DocumentEnd {
			break
		}
	}
	return out
}

func TestSelfClosingEquivalentToOpenClose(t *testing.T) {
	a := collectImmediate(t, New(source.NewSlice([]byte(`<x/>`))))
	b := collectImmediate(t, New(source.NewSlice([]byte(`<x></x>`))))
	if len(a) != len(b) {
		t.Fatalf("mismatched event counts: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].kind != b[i].kind || a[i].name != b[i].name {
			t.Fatalf("event %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestNestedAttributesAndText(t *testing.T) {
	doc := `<root a="1" b="two"><child>hello</child></root>`
	evs := collectImmediate(t, New(source.NewSlice([]byte(doc))))
	if evs[0].kind != DocumentStart {
		t.Fatalf("expected DocumentStart first, got %v", evs[0].kind)
	}
	var root, child, text capturedEvent
	for _, e := range evs {
		switch {
		case e.kind == StartElement && e.name == "root":
			root = e
		case e.kind == StartElement && e.name == "child":
			child = e
		case e.kind == Text:
			text = e
		}
	}
	if len(root.attrs) != 2 || root.attrs[0].name != "a" || root.attrs[0].value != "1" || root.attrs[1].name != "b" || root.attrs[1].value != "two" {
		t.Fatalf("unexpected root attrs: %+v", root.attrs)
	}
	if child.name != "child" {
		t.Fatalf("expected child element, got %+v", child)
	}
	if text.chardata != "hello" {
		t.Fatalf("expected text 'hello', got %q", text.chardata)
	}
}

func TestEntityResolutionOnAndOff(t *testing.T) {
	doc := `<x>a &amp; b</x>`
	resolved := New(source.NewSlice([]byte(doc)), WithResolveEntities(true))
	evsResolved := collectImmediate(t, resolved)
	raw := New(source.NewSlice([]byte(doc)), WithResolveEntities(false))
	evsRaw := collectImmediate(t, raw)

	findText := func(evs []capturedEvent) string {
		for _, e := range evs {
			if e.kind == Text {
				return e.chardata
			}
		}
		return ""
	}
	if got := findText(evsResolved); got != "a & b" {
		t.Fatalf("resolved text = %q, want %q", got, "a & b")
	}
	if got := findText(evsRaw); got != "a &amp; b" {
		t.Fatalf("raw text = %q, want %q", got, "a &amp; b")
	}
}

func TestMismatchedTagsError(t *testing.T) {
	p := New(source.NewSlice([]byte(`<a><b></a></b>`)))
	var lastErr error
	for {
		_, err := p.Next()
		if err != nil {
			lastErr = err
			break
		}
	}
	if lastErr == nil || lastErr == io.EOF {
		t.Fatalf("expected mismatched tags error, got %v", lastErr)
	}
	kind, ok := xerrors.KindOf(lastErr)
	if !ok || kind != xerrors.KindMismatchedTags {
		t.Fatalf("expected KindMismatchedTags, got %v (ok=%v)", kind, ok)
	}
}

func TestUnmatchedClosingTag(t *testing.T) {
	p := New(source.NewSlice([]byte(`</a>`)))
	_, err := p.Next() // DocumentStart
	if err != nil {
		t.Fatalf("unexpected error on DocumentStart: %v", err)
	}
	_, err = p.Next()
	kind, ok := xerrors.KindOf(err)
	if !ok || kind != xerrors.KindUnmatchedClosingTag {
		t.Fatalf("expected KindUnmatchedClosingTag, got %v (ok=%v)", kind, ok)
	}
}

func TestMaxDepthExceeded(t *testing.T) {
	p := New(source.NewSlice([]byte(`<a><b><c></c></b></a>`)), WithMaxDepth(2))
	var lastErr error
	for {
		_, err := p.Next()
		if err != nil {
			lastErr = err
			break
		}
	}
	kind, ok := xerrors.KindOf(lastErr)
	if !ok || kind != xerrors.KindTooManyNestedElements {
		t.Fatalf("expected KindTooManyNestedElements, got %v (ok=%v)", kind, ok)
	}
}

func TestMaxAttrsExceeded(t *testing.T) {
	p := New(source.NewSlice([]byte(`<a x="1" y="2" z="3"/>`)), WithMaxAttrs(2))
	var lastErr error
	for {
		_, err := p.Next()
		if err != nil {
			lastErr = err
			break
		}
	}
	kind, ok := xerrors.KindOf(lastErr)
	if !ok || kind != xerrors.KindTooManyAttributes {
		t.Fatalf("expected KindTooManyAttributes, got %v (ok=%v)", kind, ok)
	}
}

// TestCumulativeAttributesAcrossDepth exercises a document of 60
// nested attribute-bearing elements whose cumulative live attribute
// count across open depth
// exceeds DefaultMaxAttrs, while no single element's own attribute
// count does. The per-element cap must be measured against each
// frame's own attribute-workspace slice, not the workspace's total
// length.
func TestCumulativeAttributesAcrossDepth(t *testing.T) {
	const depth = 60
	const attrsPerElement = 5 // depth * attrsPerElement = 300 > DefaultMaxAttrs
	var sb strings.Builder
	for i := 0; i < depth; i++ {
		sb.WriteString("<e")
		for a := 0; a < attrsPerElement; a++ {
			fmt.Fprintf(&sb, ` a%d="%d"`, a, i)
		}
		sb.WriteString(">")
	}
	for i := 0; i < depth; i++ {
		sb.WriteString("</e>")
	}

	p := New(source.NewSlice([]byte(sb.String())))
	var starts int
	for {
		ev, err := p.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		switch ev.Kind {
		case StartElement:
			starts++
			if len(ev.Attrs) != attrsPerElement {
				t.Fatalf("element %d: got %d attrs, want %d", starts, len(ev.Attrs), attrsPerElement)
			}
		case DocumentEnd:
			if starts != depth {
				t.Fatalf("got %d start elements, want %d", starts, depth)
			}
			return
		}
	}
}

func TestTokenTooLarge(t *testing.T) {
	big := make([]byte, 200)
	for i := range big {
		big[i] = 'a'
	}
	doc := "<x>" + string(big) + "</x>"
	p := New(source.NewSlice([]byte(doc)), WithMaxTokenSize(32))
	var lastErr error
	for {
		_, err := p.Next()
		if err != nil {
			lastErr = err
			break
		}
	}
	if lastErr != source.ErrTokenTooLarge {
		t.Fatalf("expected ErrTokenTooLarge, got %v", lastErr)
	}
}

func TestXMLDeclarationParsing(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><root/>`
	evs := collectImmediate(t, New(source.NewSlice([]byte(doc))))
	if len(evs) < 2 || evs[1].kind != XMLDeclaration {
		t.Fatalf("expected XMLDeclaration as second event, got %+v", evs)
	}
}

func TestProcessingInstructionNotConfusedWithXMLDecl(t *testing.T) {
	doc := `<?xml-stylesheet type="text/xsl" href="x.xsl"?><root/>`
	evs := collectImmediate(t, New(source.NewSlice([]byte(doc))))
	found := false
	for _, e := range evs {
		if e.kind == ProcessingInstruction {
			found = true
		}
		if e.kind == XMLDeclaration {
			t.Fatalf("xml-stylesheet PI misidentified as XMLDeclaration")
		}
	}
	if !found {
		t.Fatalf("expected a ProcessingInstruction event, got %+v", evs)
	}
}

func TestDoctypeWithInternalEntity(t *testing.T) {
	doc := `<!DOCTYPE root [<!ENTITY foo "bar">]><root>&foo;</root>`
	evs := collectImmediate(t, New(source.NewSlice([]byte(doc))))
	var doctypeSeen bool
	var text string
	for _, e := range evs {
		if e.kind == DOCTYPE {
			doctypeSeen = true
			if e.doctype != "root" {
				t.Fatalf("expected doctype name 'root', got %q", e.doctype)
			}
		}
		if e.kind == Text {
			text = e.chardata
		}
	}
	if !doctypeSeen {
		t.Fatalf("expected DOCTYPE event, events: %+v", evs)
	}
	if text != "bar" {
		t.Fatalf("expected entity-resolved text 'bar', got %q", text)
	}
}

func TestCommentAndCDATA(t *testing.T) {
	doc := `<root><!-- a comment --><![CDATA[<raw & stuff>]]></root>`
	evs := collectImmediate(t, New(source.NewSlice([]byte(doc))))
	var comment, cdata string
	for _, e := range evs {
		switch e.kind {
		case Comment:
			comment = e.chardata
		case CDATA:
			cdata = e.chardata
		}
	}
	if comment != " a comment " {
		t.Fatalf("comment = %q", comment)
	}
	if cdata != "<raw & stuff>" {
		t.Fatalf("cdata = %q", cdata)
	}
}

func TestUnknownEntityPassesThroughLiterally(t *testing.T) {
	doc := `<x>&unknown;</x>`
	evs := collectImmediate(t, New(source.NewSlice([]byte(doc))))
	for _, e := range evs {
		if e.kind == Text {
			if e.chardata != "&unknown;" {
				t.Fatalf("expected literal passthrough, got %q", e.chardata)
			}
			return
		}
	}
	t.Fatalf("no text event found")
}
