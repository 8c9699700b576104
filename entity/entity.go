// Package entity implements the XML entity table: built-in entities,
// numeric character references, and custom entities declared in a
// document's internal DTD subset.
package entity

import (
	"bytes"
	"unicode/utf8"
)

// Table maps entity names to replacement text. The zero value resolves
// only the five built-in entities and numeric character references.
type Table struct {
	custom map[string]string
}

var builtin = map[string]string{
	"lt":   "<",
	"gt":   ">",
	"amp":  "&",
	"apos": "'",
	"quot": "\"",
}

// Declare records name as an internal-subset ENTITY declaration with
// the given replacement text. A later Declare of the same name
// overwrites the earlier one, matching how DTD processors apply the
// last declaration seen.
func (t *Table) Declare(name, value string) {
	if t.custom == nil {
		t.custom = make(map[string]string)
	}
	t.custom[name] = value
}

// Lookup resolves a named entity against DTD-declared entities first,
// then the five built-ins. It does not handle numeric references; see
// AppendResolved for the full resolution policy.
func (t *Table) Lookup(name string) (string, bool) {
	if t != nil && t.custom != nil {
		if v, ok := t.custom[name]; ok {
			return v, true
		}
	}
	v, ok := builtin[name]
	return v, ok
}

// AppendResolved copies src into dst, expanding entity references
// according to the resolution policy in order: DTD-declared entity,
// built-in entity, numeric character reference, else the literal
// "&name;" text is preserved unresolved.
func AppendResolved(dst, src []byte, t *Table) ([]byte, error) {
	for i := 0; i < len(src); i++ {
		if src[i] != '&' {
			dst = append(dst, src[i])
			continue
		}
		consumed, ok := appendEntityRef(&dst, src[i:], t)
		if !ok {
			// A "&" with no ';' anywhere after it is not a
			// resolvable reference; preserve it literally, one byte
			// at a time, so the scan can recover.
			dst = append(dst, src[i])
			continue
		}
		i += consumed - 1
	}
	return dst, nil
}

func appendEntityRef(dst *[]byte, rest []byte, t *Table) (int, bool) {
	semi := bytes.IndexByte(rest, ';')
	if semi < 0 {
		return 0, false
	}
	ref := rest[1:semi]
	if len(ref) == 0 {
		*dst = append(*dst, rest[:semi+1]...)
		return semi + 1, true
	}
	if ref[0] == '#' {
		r, ok := parseNumericRef(ref)
		if !ok {
			*dst = append(*dst, rest[:semi+1]...)
			return semi + 1, true
		}
		*dst = utf8.AppendRune(*dst, r)
		return semi + 1, true
	}
	name := string(ref)
	if v, ok := t.Lookup(name); ok {
		*dst = append(*dst, v...)
		return semi + 1, true
	}
	// Unknown named entity: pass through literally.
	*dst = append(*dst, rest[:semi+1]...)
	return semi + 1, true
}

func parseNumericRef(ref []byte) (rune, bool) {
	if len(ref) < 2 {
		return 0, false
	}
	base := 10
	start := 1
	if ref[1] == 'x' || ref[1] == 'X' {
		base = 16
		start = 2
	}
	if start >= len(ref) {
		return 0, false
	}
	var value uint64
	for i := start; i < len(ref); i++ {
		b := ref[i]
		var digit byte
		switch {
		case b >= '0' && b <= '9':
			digit = b - '0'
		case base == 16 && b >= 'a' && b <= 'f':
			digit = b - 'a' + 10
		case base == 16 && b >= 'A' && b <= 'F':
			digit = b - 'A' + 10
		default:
			return 0, false
		}
		value = value*uint64(base) + uint64(digit)
		if value > utf8.MaxRune {
			return 0, false
		}
	}
	r := rune(value)
	if r == 0 || r > utf8.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
		return 0, false
	}
	return r, true
}

// ContainsAmpersand reports whether b requires entity resolution.
func ContainsAmpersand(b []byte) bool {
	return bytes.IndexByte(b, '&') >= 0
}
