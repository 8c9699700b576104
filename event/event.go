// Package event implements the low-level pull parser: it decodes XML
// markup from a source.Source into a lazy sequence of typed events,
// borrowing string data from a stack-scoped arena whose lifetime
// tracks the open-element stack.
package event

import "github.com/ryanhair/zxml/arena"

// Kind identifies the syntactic alternative carried by an Event.
type Kind uint8

const (
	KindNone Kind = iota
	DocumentStart
	DocumentEnd
	StartElement
	EndElement
	Text
	Whitespace
	CDATA
	Comment
	ProcessingInstruction
	XMLDeclaration
	DOCTYPE
)

// String returns a stable debugging name for the kind.
func (k Kind) String() string {
	switch k {
	case DocumentStart:
		return "DocumentStart"
	case DocumentEnd:
		return "DocumentEnd"
	case StartElement:
		return "StartElement"
	case EndElement:
		return "EndElement"
	case Text:
		return "Text"
	case Whitespace:
		return "Whitespace"
	case CDATA:
		return "CDATA"
	case Comment:
		return "Comment"
	case ProcessingInstruction:
		return "ProcessingInstruction"
	case XMLDeclaration:
		return "XMLDeclaration"
	case DOCTYPE:
		return "DOCTYPE"
	default:
		return "None"
	}
}

// Attribute is a (name, value) pair appearing in a StartElement event.
// Order matches source order; names within one element are assumed
// unique by the producer and are not re-checked.
type Attribute struct {
	Name  arena.Span
	Value arena.Span
}

// Event is one unit in the lazy sequence produced by Parser.Next. All
// span fields are borrowed and remain valid only until the
// EndElement event for the element at or above the depth at which
// they were produced (see the arena reset discipline).
type Event struct {
	Kind Kind

	// StartElement / EndElement
	Name arena.Span
	// StartElement only
	Attrs []Attribute

	// Text / Whitespace / CDATA / Comment
	CharData arena.Span

	// ProcessingInstruction
	PITarget arena.Span
	PIBody   arena.Span

	// XMLDeclaration
	Version       arena.Span
	Encoding      arena.Span
	HasEncoding   bool
	Standalone    bool
	HasStandalone bool

	// DOCTYPE
	DoctypeName arena.Span
	PublicID    arena.Span
	HasPublicID bool
	SystemID    arena.Span
	HasSystemID bool

	Line   int
	Column int
}
