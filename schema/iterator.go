package schema

import (
	"reflect"

	"github.com/ryanhair/zxml/event"
)

// Iterator is a lazy handle over a repeated child element. Next
// advances the underlying event stream, decoding each matching child
// into a T until the enclosing element's end_element is reached.
type Iterator[T any] struct {
	d        *dispatcher
	childTag string
	done     bool
	pending  func() error
	depth    int
}

func (it *Iterator[T]) bindIterator(d *dispatcher, _ string, childTag string) error {
	it.d = d
	it.childTag = childTag
	it.depth = d.parser.StackDepth()
	return nil
}

func (it *Iterator[T]) variantElemType() reflect.Type { return nil }

func (it *Iterator[T]) itemElemType() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

// closeIfOpen drains any remaining children, including a pending
// nested iterator left open by the most recently yielded item, so the
// event stream lands on the enclosing element's end_element. It
// follows the parser's element depth rather than this iterator's own
// state, because the caller drives a copy of the record holding it.
func (it *Iterator[T]) closeIfOpen() error {
	for it.d.parser.StackDepth() >= it.depth {
		if _, err := it.d.parser.Next(); err != nil {
			return err
		}
	}
	return nil
}

// Next returns the next matching child, or ok=false once the
// enclosing element's end_element has been observed.
func (it *Iterator[T]) Next() (T, bool, error) {
	var zero T
	if it.done {
		return zero, false, nil
	}
	if it.pending != nil {
		p := it.pending
		it.pending = nil
		if err := p(); err != nil {
			it.done = true
			return zero, false, err
		}
	}
	for {
		ev, err := it.d.parser.Next()
		if err != nil {
			it.done = true
			return zero, false, err
		}
		switch ev.Kind {
		case event.EndElement:
			it.done = true
			return zero, false, nil
		case event.StartElement:
			if ev.Name.String() != it.childTag {
				if err := it.d.skipSubtree(); err != nil {
					it.done = true
					return zero, false, err
				}
				continue
			}
			val, closer, err := it.d.dispatchRecord(reflect.TypeOf(zero), ev)
			if err != nil {
				it.done = true
				return zero, false, err
			}
			it.pending = closer
			return val.Interface().(T), true, nil
		default:
			continue
		}
	}
}

// MultiIterator is a lazy handle over a repeated child element whose
// tag selects among the alternatives declared by V's fields. Each
// alternative field of V must be a pointer to a record type, tagged
// with the XML name that selects it.
type MultiIterator[V any] struct {
	d       *dispatcher
	done    bool
	pending func() error
	plan    *variantPlan
	depth   int
}

func (m *MultiIterator[V]) bindIterator(d *dispatcher, _ string, _ string) error {
	var zero V
	vp, err := getVariantPlan(reflect.TypeOf(zero))
	if err != nil {
		return err
	}
	m.d = d
	m.plan = vp
	m.depth = d.parser.StackDepth()
	return nil
}

func (m *MultiIterator[V]) variantElemType() reflect.Type {
	var zero V
	return reflect.TypeOf(zero)
}

func (m *MultiIterator[V]) itemElemType() reflect.Type { return nil }

func (m *MultiIterator[V]) closeIfOpen() error {
	for m.d.parser.StackDepth() >= m.depth {
		if _, err := m.d.parser.Next(); err != nil {
			return err
		}
	}
	return nil
}

// Next returns the next matching child as a V with exactly one
// alternative field populated, or ok=false once the enclosing
// element's end_element has been observed.
func (m *MultiIterator[V]) Next() (V, bool, error) {
	var zero V
	if m.done {
		return zero, false, nil
	}
	if m.pending != nil {
		p := m.pending
		m.pending = nil
		if err := p(); err != nil {
			m.done = true
			return zero, false, err
		}
	}
	for {
		ev, err := m.d.parser.Next()
		if err != nil {
			m.done = true
			return zero, false, err
		}
		switch ev.Kind {
		case event.EndElement:
			m.done = true
			return zero, false, nil
		case event.StartElement:
			vf := m.plan.find(ev.Name.String())
			if vf == nil {
				if err := m.d.skipSubtree(); err != nil {
					m.done = true
					return zero, false, err
				}
				continue
			}
			childVal, closer, err := m.d.dispatchRecord(vf.elemType, ev)
			if err != nil {
				m.done = true
				return zero, false, err
			}
			var out V
			outVal := reflect.ValueOf(&out).Elem()
			ptr := reflect.New(vf.elemType)
			ptr.Elem().Set(childVal)
			outVal.Field(vf.index).Set(ptr)
			m.pending = closer
			return out, true, nil
		default:
			continue
		}
	}
}
