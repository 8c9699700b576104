package schema

import (
	"encoding"
	"reflect"
	"strconv"

	"github.com/ryanhair/zxml/arena"
	xerrors "github.com/ryanhair/zxml/errors"
)

// assignPrimitiveSpan converts the bytes held by span into dst,
// skipping the defensive []byte copy when span is stable, i.e. its
// bytes are a direct slice into a source that outlives the schema
// bind call rather than the arena.
func assignPrimitiveSpan(dst reflect.Value, span arena.Span) error {
	return assignPrimitive(dst, span.Bytes(), span.Stable())
}

// assignPrimitive converts raw into dst, which may be a pointer
// (optional field, allocated on demand), a TextUnmarshaler, or one of
// the primitive kinds listed in the schema's data model. stable
// reports whether raw is backed by storage that outlives the bind
// call; when false (the default for any derived or arena-backed
// byte slice), a []byte destination field is given its own copy
// rather than aliasing raw.
func assignPrimitive(dst reflect.Value, raw []byte, stable bool) error {
	t := dst.Type()
	if t.Kind() == reflect.Pointer {
		ptr := reflect.New(t.Elem())
		if err := assignPrimitive(ptr.Elem(), raw, stable); err != nil {
			return err
		}
		dst.Set(ptr)
		return nil
	}
	if dst.CanAddr() {
		if tu, ok := dst.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return tu.UnmarshalText(raw)
		}
	}
	switch t.Kind() {
	case reflect.String:
		dst.SetString(string(raw))
	case reflect.Slice:
		if t.Elem().Kind() != reflect.Uint8 {
			return xerrors.Newf(xerrors.KindInvalidMarkup, "unsupported slice field type %s", t)
		}
		if stable {
			dst.SetBytes(raw)
			break
		}
		cp := make([]byte, len(raw))
		copy(cp, raw)
		dst.SetBytes(cp)
	case reflect.Bool:
		switch string(raw) {
		case "true":
			dst.SetBool(true)
		case "false":
			dst.SetBool(false)
		default:
			return xerrors.Newf(xerrors.KindInvalidBoolean, "invalid boolean %q", raw)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(string(raw), 10, t.Bits())
		if err != nil {
			return xerrors.Wrap(xerrors.KindInvalidInteger, err)
		}
		dst.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(string(raw), 10, t.Bits())
		if err != nil {
			return xerrors.Wrap(xerrors.KindInvalidInteger, err)
		}
		dst.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(string(raw), t.Bits())
		if err != nil {
			return xerrors.Wrap(xerrors.KindInvalidFloat, err)
		}
		dst.SetFloat(v)
	default:
		return xerrors.Newf(xerrors.KindInvalidMarkup, "unsupported primitive field type %s", t)
	}
	return nil
}
