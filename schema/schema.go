// Package schema binds a user-declared Go struct schema onto the
// event stream produced by the event package. A record is eager if
// it has no iterator field, meaning it is fully materialized before
// control returns to the caller; a record with an Iterator or
// MultiIterator field is lazy, meaning the caller drives traversal of
// its children on demand by calling Next on that field.
package schema

import (
	"reflect"
	"sync"

	xerrors "github.com/ryanhair/zxml/errors"
	"github.com/ryanhair/zxml/event"
)

// Bind consumes events from p up to and including the document's root
// start_element, then dispatches T as either an eager or lazy record.
// For a lazy root, the returned value's iterator field is left open
// for the caller to drive. The schema is validated, per the terminal
// schema-definition-error contract of Validate, before any event is
// consumed from p.
func Bind[T any](p *event.Parser) (T, error) {
	var zero T
	if err := validateCached(reflect.TypeOf(zero)); err != nil {
		return zero, err
	}
	d := &dispatcher{parser: p}

	ev, err := p.Next()
	if err != nil {
		return zero, err
	}
	if ev.Kind != event.DocumentStart {
		return zero, xerrors.New(xerrors.KindInvalidMarkup)
	}

	for {
		ev, err = p.Next()
		if err != nil {
			return zero, err
		}
		switch ev.Kind {
		case event.StartElement:
			val, _, err := d.dispatchRecord(reflect.TypeOf(zero), ev)
			if err != nil {
				return zero, err
			}
			return val.Interface().(T), nil
		case event.DocumentEnd:
			return zero, xerrors.New(xerrors.KindNoRootElement)
		default:
			continue
		}
	}
}

// Validate runs the offline schema validator against T's shape,
// reporting a schema-definition error before any document is parsed.
func Validate[T any]() error {
	var zero T
	return validateCached(reflect.TypeOf(zero))
}

var validationCache sync.Map // reflect.Type -> *validationCacheEntry

type validationCacheEntry struct {
	err error
}

// validateCached runs the schema-definition checks against t, caching
// the result so that repeated Bind[T] calls for the same T (the usual
// case: one schema, many documents) pay the reflection-driven
// traversal once.
func validateCached(t reflect.Type) error {
	if v, ok := validationCache.Load(t); ok {
		return v.(*validationCacheEntry).err
	}
	err := validateRoot(t)
	validationCache.Store(t, &validationCacheEntry{err: err})
	return err
}

func validateRoot(t reflect.Type) error {
	if t == nil || t.Kind() != reflect.Struct {
		return xerrors.New(xerrors.KindRootNotRecord)
	}
	_, err := validateRecord(t, map[reflect.Type]bool{})
	return err
}
