package schema

import (
	"reflect"
	"strings"

	xerrors "github.com/ryanhair/zxml/errors"
	"github.com/ryanhair/zxml/event"
)

// dispatcher owns the event parser shared by every record and
// iterator handle produced while binding one document.
type dispatcher struct {
	parser *event.Parser
}

// dispatchRecord binds start's attributes and, for an eager record,
// its children, into a newly allocated value of type t. For a lazy
// record it binds attributes and the iterator field only, returning a
// non-nil closer the caller must invoke before advancing past this
// record if the iterator was not driven to exhaustion.
func (d *dispatcher) dispatchRecord(t reflect.Type, start event.Event) (reflect.Value, func() error, error) {
	pl, err := getPlan(t)
	if err != nil {
		return reflect.Value{}, nil, err
	}
	ptr := reflect.New(t)
	elem := ptr.Elem()

	seenAttrs := make(map[int]bool, len(pl.attrs))
	for _, attr := range start.Attrs {
		pf := pl.findAttr(attr.Name.String())
		if pf == nil {
			continue
		}
		if err := assignPrimitiveSpan(fieldFor(elem, pf), attr.Value); err != nil {
			return reflect.Value{}, nil, err
		}
		seenAttrs[pf.index] = true
	}
	for i := range pl.attrs {
		pf := &pl.attrs[i]
		if seenAttrs[pf.index] {
			continue
		}
		if err := applyDefaultOrRequire(elem, pf); err != nil {
			return reflect.Value{}, nil, err
		}
	}

	if pl.iterator != nil {
		closer, err := d.bindIteratorField(elem, pl.iterator, start.Name.String())
		if err != nil {
			return reflect.Value{}, nil, err
		}
		return elem, closer, nil
	}

	seenChildren := make(map[int]bool, len(pl.children))
	for {
		ev, err := d.parser.Next()
		if err != nil {
			return reflect.Value{}, nil, err
		}
		switch ev.Kind {
		case event.EndElement:
			for i := range pl.children {
				pf := &pl.children[i]
				if seenChildren[pf.index] {
					continue
				}
				if err := applyDefaultOrRequire(elem, pf); err != nil {
					return reflect.Value{}, nil, err
				}
			}
			return elem, nil, nil
		case event.StartElement:
			pf := pl.findChild(ev.Name.String())
			if pf == nil {
				if err := d.skipSubtree(); err != nil {
					return reflect.Value{}, nil, err
				}
				continue
			}
			if pf.kind == kindNestedRecord {
				childVal, closer, err := d.dispatchRecord(pf.elemType, ev)
				if err != nil {
					return reflect.Value{}, nil, err
				}
				if closer != nil {
					// A nested eager-record field bound to a lazy
					// record: the schema validator should have
					// rejected this before any parsing began.
					return reflect.Value{}, nil, xerrors.New(xerrors.KindLazyDescendantUnderEager)
				}
				dst := fieldFor(elem, pf)
				if pf.isOptional {
					wrap := reflect.New(pf.elemType)
					wrap.Elem().Set(childVal)
					dst.Set(wrap)
				} else {
					dst.Set(childVal)
				}
			} else {
				text, err := d.readPrimitiveChildText()
				if err != nil {
					return reflect.Value{}, nil, err
				}
				if err := assignPrimitive(fieldFor(elem, pf), []byte(text), false); err != nil {
					return reflect.Value{}, nil, err
				}
			}
			seenChildren[pf.index] = true
		default:
			continue
		}
	}
}

func (d *dispatcher) bindIteratorField(elem reflect.Value, pf *planField, parentTag string) (func() error, error) {
	fv := fieldFor(elem, pf)
	binder, ok := fv.Addr().Interface().(iteratorBinder)
	if !ok {
		return nil, xerrors.Newf(xerrors.KindInvalidMarkup, "field at index %d is not an iterator", pf.index)
	}
	if err := binder.bindIterator(d, parentTag, pf.tag.name); err != nil {
		return nil, err
	}
	return binder.closeIfOpen, nil
}

// readPrimitiveChildText consumes events up to the matching
// end_element of a primitive child already opened by its
// start_element, concatenating text content and skipping unexpected
// nested markup defensively.
func (d *dispatcher) readPrimitiveChildText() (string, error) {
	var sb strings.Builder
	for {
		ev, err := d.parser.Next()
		if err != nil {
			return "", err
		}
		switch ev.Kind {
		case event.EndElement:
			return sb.String(), nil
		case event.Text, event.CDATA, event.Whitespace:
			sb.WriteString(ev.CharData.String())
		case event.StartElement:
			if err := d.skipSubtree(); err != nil {
				return "", err
			}
		default:
			continue
		}
	}
}

// skipSubtree discards events until the end_element matching the
// start_element most recently consumed by the caller.
func (d *dispatcher) skipSubtree() error {
	depth := 1
	for depth > 0 {
		ev, err := d.parser.Next()
		if err != nil {
			return err
		}
		switch ev.Kind {
		case event.StartElement:
			depth++
		case event.EndElement:
			depth--
		case event.DocumentEnd:
			return xerrors.New(xerrors.KindUnexpectedEndOfDocument)
		}
	}
	return nil
}

func applyDefaultOrRequire(elem reflect.Value, pf *planField) error {
	if pf.isOptional {
		return nil
	}
	if pf.kind == kindNestedRecord {
		return xerrors.Newf(xerrors.KindMissingRequiredField, "missing required field %q", pf.tag.name)
	}
	if pf.tag.hasDefault {
		return assignPrimitive(fieldFor(elem, pf), []byte(pf.tag.defaultVal), false)
	}
	return xerrors.Newf(xerrors.KindMissingRequiredField, "missing required field %q", pf.tag.name)
}
