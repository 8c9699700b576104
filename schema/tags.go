package schema

import (
	"reflect"
	"strings"
)

// fieldTag is the per-field name-override and defaulting information
// parsed from a struct field's `zxml` tag, e.g. `zxml:"id,attr"` or
// `zxml:"count,default=0"`. A field with no tag matches by its Go
// field name, case-sensitively, against the XML name.
type fieldTag struct {
	name       string
	attr       bool
	skip       bool
	hasDefault bool
	defaultVal string
}

func parseFieldTag(f reflect.StructField) fieldTag {
	raw, ok := f.Tag.Lookup("zxml")
	if !ok {
		return fieldTag{name: f.Name}
	}
	if raw == "-" {
		return fieldTag{skip: true}
	}
	parts := strings.Split(raw, ",")
	ft := fieldTag{name: f.Name}
	if parts[0] != "" {
		ft.name = parts[0]
	}
	for _, opt := range parts[1:] {
		switch {
		case opt == "attr":
			ft.attr = true
		case strings.HasPrefix(opt, "default="):
			ft.hasDefault = true
			ft.defaultVal = strings.TrimPrefix(opt, "default=")
		}
	}
	return ft
}
