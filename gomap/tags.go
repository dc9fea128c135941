package gomap

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// fieldInfo holds the metadata of a struct field, from its yaml tag.
type fieldInfo struct {
	// name is the mapping key of the field.
	name string
	// index is the index sequence for reflect.Value.FieldByIndex,
	// through inlined structs.
	index     []int
	typ       reflect.Type
	omitEmpty bool
	variant   bool
	// optional fields may be missing from the input: nillable fields and
	// fields with the omitempty or default option.
	optional bool
}

type structInfo struct {
	fields []*fieldInfo
	byName map[string]*fieldInfo
	// inlineMap collects keys matching no field.
	inlineMap *fieldInfo
	strict    bool
	enum      bool
	newtype   *fieldInfo
}

var structCache sync.Map // reflect.Type -> *structInfo

type tagOpts struct {
	name      string
	skip      bool
	omitEmpty bool
	inline    bool
	variant   bool
	newtype   bool
	strict    bool
	dflt      bool
}

func parseTag(f reflect.StructField) (*tagOpts, error) {
	tag, ok := f.Tag.Lookup("yaml")
	if tag == "-" {
		return &tagOpts{skip: true}, nil
	}
	parts := strings.Split(tag, ",")
	res := &tagOpts{name: parts[0]}
	if !ok || res.name == "" {
		res.name = f.Name
	}
	for _, opt := range parts[1:] {
		switch opt {
		case "omitempty":
			res.omitEmpty = true
		case "inline":
			res.inline = true
		case "variant":
			res.variant = true
		case "newtype":
			res.newtype = true
		case "strict":
			res.strict = true
		case "default":
			res.dflt = true
		case "":
		default:
			return nil, fmt.Errorf("field %s: unknown yaml tag option %q", f.Name, opt)
		}
	}
	return res, nil
}

// getStructInfo returns the cached field metadata of struct type t.
func getStructInfo(t reflect.Type) (*structInfo, error) {
	if info, ok := structCache.Load(t); ok {
		return info.(*structInfo), nil
	}
	info := &structInfo{byName: map[string]*fieldInfo{}}
	if err := info.add(t, nil); err != nil {
		return nil, fmt.Errorf("struct %s: %w", t, err)
	}
	if err := info.check(); err != nil {
		return nil, fmt.Errorf("struct %s: %w", t, err)
	}
	actual, _ := structCache.LoadOrStore(t, info)
	return actual.(*structInfo), nil
}

func (info *structInfo) add(t reflect.Type, prefix []int) error {
	for i := range t.NumField() {
		f := t.Field(i)
		opts, err := parseTag(f)
		if err != nil {
			return err
		}
		if f.Name == "_" {
			info.strict = info.strict || opts.strict
			continue
		}
		if opts.skip {
			continue
		}
		index := append(append([]int(nil), prefix...), i)
		_, tagged := f.Tag.Lookup("yaml")
		if opts.inline || (f.Anonymous && !tagged) {
			switch {
			case f.Type.Kind() == reflect.Struct:
				if err := info.add(f.Type, index); err != nil {
					return err
				}
				continue
			case f.Type.Kind() == reflect.Map && f.Type.Key().Kind() == reflect.String && opts.inline:
				if info.inlineMap != nil {
					return fmt.Errorf("field %s: more than one inline map", f.Name)
				}
				info.inlineMap = &fieldInfo{name: f.Name, index: index, typ: f.Type}
				continue
			case opts.inline:
				return fmt.Errorf("field %s: inline needs a struct or a map with string keys", f.Name)
			}
		}
		if !f.IsExported() {
			continue
		}
		fi := &fieldInfo{
			name:      opts.name,
			index:     index,
			typ:       f.Type,
			omitEmpty: opts.omitEmpty,
			variant:   opts.variant,
			optional:  opts.omitEmpty || opts.dflt || nillable(f.Type),
		}
		if _, dup := info.byName[fi.name]; dup {
			return fmt.Errorf("duplicate field name %q", fi.name)
		}
		if opts.newtype {
			info.newtype = fi
		}
		info.fields = append(info.fields, fi)
		info.byName[fi.name] = fi
	}
	return nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return true
	}
	return false
}

func (info *structInfo) check() error {
	variants := 0
	for _, f := range info.fields {
		if f.variant {
			variants++
		}
	}
	switch {
	case variants != 0 && variants != len(info.fields):
		return fmt.Errorf("variant fields mixed with other fields")
	case variants != 0 && info.inlineMap != nil:
		return fmt.Errorf("enum with an inline map")
	case info.newtype != nil && (len(info.fields) != 1 || info.inlineMap != nil):
		return fmt.Errorf("newtype field %s is not the only field", info.newtype.name)
	}
	info.enum = variants != 0
	if info.enum {
		for _, f := range info.fields {
			if !nillable(f.typ) {
				return fmt.Errorf("variant %s must have a nillable type, not %s", f.name, f.typ)
			}
		}
	}
	return nil
}
