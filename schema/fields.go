package schema

import (
	"encoding"
	"reflect"
	"sync"

	xerrors "github.com/ryanhair/zxml/errors"
)

// lazyCloser is implemented by Iterator and MultiIterator. A record's
// iterator field is driven by the caller via Next; if the caller
// abandons it before exhaustion, closeIfOpen defensively drains the
// remaining children so the underlying event stream lands on the
// parent's end_element.
type lazyCloser interface {
	closeIfOpen() error
}

// iteratorBinder is implemented by Iterator and MultiIterator. It is
// satisfied by a pointer receiver, so detection during schema
// classification checks reflect.PointerTo(fieldType).
type iteratorBinder interface {
	lazyCloser
	bindIterator(d *dispatcher, parentTag, childTag string) error
	// variantElemType returns the tagged-variant struct type for a
	// MultiIterator field, or nil for a plain Iterator field. It is
	// callable on a zero value; it carries no state.
	variantElemType() reflect.Type
	// itemElemType returns the item record type T for a plain Iterator
	// field, or nil for a MultiIterator field (whose alternatives are
	// enumerated via variantElemType instead).
	itemElemType() reflect.Type
}

var (
	iteratorBinderType  = reflect.TypeOf((*iteratorBinder)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

type fieldKind int

const (
	kindAttr fieldKind = iota
	kindPrimitiveChild
	kindNestedRecord
	kindIterator
)

type planField struct {
	index       int
	tag         fieldTag
	kind        fieldKind
	isOptional  bool
	elemType    reflect.Type // nested record's struct type
	variantType reflect.Type // non-nil for a MultiIterator field
}

type plan struct {
	typ         reflect.Type
	attrs       []planField
	attrByName  map[string]int
	children    []planField
	childByName map[string]int
	iterator    *planField
}

func (p *plan) findAttr(name string) *planField {
	if i, ok := p.attrByName[name]; ok {
		return &p.attrs[i]
	}
	return nil
}

func (p *plan) findChild(name string) *planField {
	if i, ok := p.childByName[name]; ok {
		return &p.children[i]
	}
	return nil
}

var planCache sync.Map // reflect.Type -> *planCacheEntry

type planCacheEntry struct {
	plan *plan
	err  error
}

func getPlan(t reflect.Type) (*plan, error) {
	if v, ok := planCache.Load(t); ok {
		e := v.(*planCacheEntry)
		return e.plan, e.err
	}
	pl, err := buildPlan(t)
	planCache.Store(t, &planCacheEntry{plan: pl, err: err})
	return pl, err
}

func buildPlan(t reflect.Type) (*plan, error) {
	if t.Kind() != reflect.Struct {
		return nil, xerrors.Newf(xerrors.KindRootNotRecord, "%s is not a struct", t)
	}
	pl := &plan{
		typ:         t,
		attrByName:  make(map[string]int),
		childByName: make(map[string]int),
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		tag := parseFieldTag(f)
		if tag.skip {
			continue
		}

		if reflect.PointerTo(f.Type).Implements(iteratorBinderType) {
			if pl.iterator != nil {
				return nil, xerrors.New(xerrors.KindMultipleIteratorFields)
			}
			binder := reflect.New(f.Type).Interface().(iteratorBinder)
			pf := planField{index: i, tag: tag, kind: kindIterator, variantType: binder.variantElemType(), elemType: binder.itemElemType()}
			pl.iterator = &pf
			continue
		}

		base := f.Type
		optional := false
		if base.Kind() == reflect.Pointer {
			optional = true
			base = base.Elem()
		}

		switch {
		case isPrimitiveType(base):
			pf := planField{index: i, tag: tag, kind: kindPrimitiveChild, isOptional: optional}
			if tag.attr {
				pf.kind = kindAttr
				pl.attrByName[tag.name] = len(pl.attrs)
				pl.attrs = append(pl.attrs, pf)
			} else {
				pl.childByName[tag.name] = len(pl.children)
				pl.children = append(pl.children, pf)
			}
		case base.Kind() == reflect.Struct:
			if tag.attr {
				return nil, xerrors.Newf(xerrors.KindInvalidMarkup, "field %s: nested record cannot be an attribute", f.Name)
			}
			pf := planField{index: i, tag: tag, kind: kindNestedRecord, isOptional: optional, elemType: base}
			pl.childByName[tag.name] = len(pl.children)
			pl.children = append(pl.children, pf)
		default:
			return nil, xerrors.Newf(xerrors.KindInvalidMarkup, "field %s: unsupported field type %s", f.Name, f.Type)
		}
	}
	return pl, nil
}

func isPrimitiveType(t reflect.Type) bool {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.Uint8
	}
	return false
}

// variantField is one tagged alternative of a MultiIterator's variant
// struct: a pointer-to-struct field whose tag names the XML element
// that selects it.
type variantField struct {
	index    int
	elemType reflect.Type
}

type variantPlan struct {
	typ    reflect.Type
	byName map[string]int
	all    []variantField
}

func (vp *variantPlan) find(name string) *variantField {
	if i, ok := vp.byName[name]; ok {
		return &vp.all[i]
	}
	return nil
}

var variantPlanCache sync.Map

func getVariantPlan(t reflect.Type) (*variantPlan, error) {
	if v, ok := variantPlanCache.Load(t); ok {
		e := v.(*planCacheEntry2)
		return e.plan, e.err
	}
	vp, err := buildVariantPlan(t)
	variantPlanCache.Store(t, &planCacheEntry2{plan: vp, err: err})
	return vp, err
}

type planCacheEntry2 struct {
	plan *variantPlan
	err  error
}

func buildVariantPlan(t reflect.Type) (*variantPlan, error) {
	if t.Kind() != reflect.Struct {
		return nil, xerrors.Newf(xerrors.KindInvalidMarkup, "%s is not a tagged-variant struct", t)
	}
	vp := &variantPlan{typ: t, byName: make(map[string]int)}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		tag := parseFieldTag(f)
		if tag.skip {
			continue
		}
		if f.Type.Kind() != reflect.Pointer || f.Type.Elem().Kind() != reflect.Struct {
			return nil, xerrors.Newf(xerrors.KindUnknownNameOverrideTarget, "variant field %s must be a pointer to a record", f.Name)
		}
		if tag.name == "" {
			return nil, xerrors.New(xerrors.KindUnknownNameOverrideTarget)
		}
		if _, dup := vp.byName[tag.name]; dup {
			return nil, xerrors.Newf(xerrors.KindUnknownNameOverrideTarget, "duplicate variant tag %q", tag.name)
		}
		vp.byName[tag.name] = len(vp.all)
		vp.all = append(vp.all, variantField{index: i, elemType: f.Type.Elem()})
	}
	return vp, nil
}

func fieldFor(elem reflect.Value, pf *planField) reflect.Value {
	return elem.Field(pf.index)
}
