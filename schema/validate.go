package schema

import (
	"reflect"

	xerrors "github.com/ryanhair/zxml/errors"
)

// validateRecord checks t against the schema validator's rules,
// returning whether t is itself a lazy record so callers one level up
// can reject an eager ancestor with a lazy descendant.
func validateRecord(t reflect.Type, visiting map[reflect.Type]bool) (bool, error) {
	if visiting[t] {
		return false, nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	pl, err := buildPlan(t)
	if err != nil {
		return false, err
	}

	if pl.iterator == nil {
		for _, pf := range pl.children {
			if pf.kind != kindNestedRecord {
				continue
			}
			childLazy, err := validateRecord(pf.elemType, visiting)
			if err != nil {
				return false, err
			}
			if childLazy {
				return false, xerrors.New(xerrors.KindLazyDescendantUnderEager)
			}
		}
		return false, nil
	}

	// Lazy record: every other field must be a primitive (attribute or
	// primitive child); nested eager records are not permitted.
	for _, pf := range pl.children {
		if pf.kind == kindNestedRecord {
			return true, xerrors.New(xerrors.KindLazyStructCanOnlyHavePrimitiveAttributes)
		}
	}

	if pl.iterator.variantType != nil {
		vp, err := buildVariantPlan(pl.iterator.variantType)
		if err != nil {
			return true, err
		}
		if len(vp.all) == 0 {
			return true, xerrors.New(xerrors.KindUnknownNameOverrideTarget)
		}
		for _, vf := range vp.all {
			if _, err := validateRecord(vf.elemType, visiting); err != nil {
				return true, err
			}
		}
	} else if pl.iterator.elemType != nil {
		if _, err := validateRecord(pl.iterator.elemType, visiting); err != nil {
			return true, err
		}
	}

	return true, nil
}
