package schema

import (
	"testing"

	xerrors "github.com/ryanhair/zxml/errors"
)

func TestValidateAcceptsWellFormedSchema(t *testing.T) {
	if err := Validate[Person](); err != nil {
		t.Fatalf("Validate(Person) = %v, want nil", err)
	}
	if err := Validate[GroupDoc](); err != nil {
		t.Fatalf("Validate(GroupDoc) = %v, want nil", err)
	}
	if err := Validate[ShapeDoc](); err != nil {
		t.Fatalf("Validate(ShapeDoc) = %v, want nil", err)
	}
}

func TestValidateRootNotRecord(t *testing.T) {
	err := Validate[int]()
	kind, ok := xerrors.KindOf(err)
	if !ok || kind != xerrors.KindRootNotRecord {
		t.Fatalf("got %v (ok=%v), want KindRootNotRecord", kind, ok)
	}
}

type twoIteratorsRecord struct {
	A Iterator[Leaf]
	B Iterator[Leaf] `zxml:"b"`
}

func TestValidateMultipleIteratorFields(t *testing.T) {
	err := Validate[twoIteratorsRecord]()
	kind, ok := xerrors.KindOf(err)
	if !ok || kind != xerrors.KindMultipleIteratorFields {
		t.Fatalf("got %v (ok=%v), want KindMultipleIteratorFields", kind, ok)
	}
}

type lazyLeaf struct {
	Items Iterator[Leaf] `zxml:"item"`
}

type eagerWithLazyDescendant struct {
	Child lazyLeaf `zxml:"child"`
}

func TestValidateLazyDescendantUnderEager(t *testing.T) {
	err := Validate[eagerWithLazyDescendant]()
	kind, ok := xerrors.KindOf(err)
	if !ok || kind != xerrors.KindLazyDescendantUnderEager {
		t.Fatalf("got %v (ok=%v), want KindLazyDescendantUnderEager", kind, ok)
	}
}

type lazyWithNestedRecord struct {
	Nested  Address         `zxml:"nested"`
	Items   Iterator[Leaf] `zxml:"item"`
}

func TestValidateLazyStructCanOnlyHavePrimitiveAttributes(t *testing.T) {
	err := Validate[lazyWithNestedRecord]()
	kind, ok := xerrors.KindOf(err)
	if !ok || kind != xerrors.KindLazyStructCanOnlyHavePrimitiveAttributes {
		t.Fatalf("got %v (ok=%v), want KindLazyStructCanOnlyHavePrimitiveAttributes", kind, ok)
	}
}

type emptyVariant struct{}

type emptyVariantDoc struct {
	Items MultiIterator[emptyVariant]
}

func TestValidateEmptyVariantRejected(t *testing.T) {
	err := Validate[emptyVariantDoc]()
	kind, ok := xerrors.KindOf(err)
	if !ok || kind != xerrors.KindUnknownNameOverrideTarget {
		t.Fatalf("got %v (ok=%v), want KindUnknownNameOverrideTarget", kind, ok)
	}
}
