package typed

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/gvx/kyss"
	"github.com/gvx/kyss/schema"
)

var (
	valueType = reflect.TypeOf((*kyss.Value)(nil)).Elem()
	markerPkg = reflect.TypeOf((*ListOrSingle[any])(nil)).Elem().PkgPath()
)

func (r *Registry) translateLocked(t reflect.Type, placed *[]reflect.Type) (kyss.Schema, error) {
	if t == valueType {
		return schema.Accept(), nil
	}
	if t.PkgPath() == markerPkg {
		switch {
		case strings.HasPrefix(t.Name(), "ListOrSingle["):
			es, err := r.schemaLocked(t.Elem(), placed)
			if err != nil {
				return nil, err
			}
			return schema.SequenceOrSingle(es), nil
		case strings.HasPrefix(t.Name(), "CommaSeparated["):
			es, err := r.schemaLocked(t.Elem(), placed)
			if err != nil {
				return nil, err
			}
			return schema.CommaSeparated(es), nil
		}
	}
	switch t.Kind() {
	case reflect.String:
		return schema.Str(), nil
	case reflect.Bool:
		return schema.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rangedInt(t.Bits()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rangedUint(t.Bits()), nil
	case reflect.Float32, reflect.Float64:
		return schema.Float(), nil
	case reflect.Pointer:
		return r.schemaLocked(t.Elem(), placed)
	case reflect.Slice:
		es, err := r.schemaLocked(t.Elem(), placed)
		if err != nil {
			return nil, err
		}
		return schema.Sequence(es), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("typed: map type %s must have string keys", t)
		}
		es, err := r.schemaLocked(t.Elem(), placed)
		if err != nil {
			return nil, err
		}
		return schema.Map().Values(es).Build(), nil
	case reflect.Struct:
		return r.structSchemaLocked(t, placed)
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return schema.Accept(), nil
		}
		return nil, fmt.Errorf("typed: cannot derive a schema for interface %s", t)
	default:
		return nil, fmt.Errorf("typed: cannot derive a schema for %s", t)
	}
}

// rangedInt narrows the 64-bit integer schema to the width of the target
// kind, so out-of-range values fail with a path instead of a bind panic.
func rangedInt(bits int) kyss.Schema {
	if bits == 64 {
		return schema.Int()
	}
	lo := int64(-1) << (bits - 1)
	hi := int64(1)<<(bits-1) - 1
	return schema.Wrap(schema.Int(), func(v any) (any, error) {
		n := v.(int64)
		if n < lo || n > hi {
			return nil, fmt.Errorf("value %d out of range for int%d", n, bits)
		}
		return n, nil
	})
}

func rangedUint(bits int) kyss.Schema {
	var hi uint64 = math.MaxUint64
	if bits < 64 {
		hi = 1<<uint(bits) - 1
	}
	return schema.Wrap(schema.Int(), func(v any) (any, error) {
		n := v.(int64)
		if n < 0 || uint64(n) > hi {
			return nil, fmt.Errorf("value %d out of range for uint%d", n, bits)
		}
		return n, nil
	})
}

type fieldInfo struct {
	index    int
	name     string
	optional bool
	extra    bool
	typ      reflect.Type
}

// structFields lists the bindable fields of a struct type with their
// resolved keys. Unexported fields and `-` tags are skipped.
func structFields(t reflect.Type) ([]fieldInfo, error) {
	var fields []fieldInfo
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, opts := resolveKey(sf)
		if name == "-" {
			continue
		}
		fi := fieldInfo{index: i, name: name, typ: sf.Type}
		fi.optional = opts["omitempty"] || sf.Type.Kind() == reflect.Pointer
		fi.extra = opts["extra"]
		if fi.extra {
			if sf.Type.Kind() != reflect.Map || sf.Type.Key().Kind() != reflect.String {
				return nil, fmt.Errorf("typed: extra field %s.%s must be a map with string keys", t, sf.Name)
			}
		}
		fields = append(fields, fi)
	}
	return fields, nil
}

// ResolveStructKey returns the mapping key a struct field binds to: the
// `kyss` tag wins, then the `json` tag, then the field name. A result of
// "-" means the field does not bind at all.
func ResolveStructKey(sf reflect.StructField) string {
	name, _ := resolveKey(sf)
	return name
}

// resolveKey picks the mapping key for a struct field: the `kyss` tag wins,
// then the `json` tag, then the field name itself.
func resolveKey(sf reflect.StructField) (string, map[string]bool) {
	opts := map[string]bool{}
	tag, ok := sf.Tag.Lookup("kyss")
	if !ok {
		tag = sf.Tag.Get("json")
	}
	name := sf.Name
	if tag != "" {
		parts := strings.Split(tag, ",")
		if parts[0] != "" {
			name = parts[0]
		}
		for _, p := range parts[1:] {
			opts[strings.TrimSpace(p)] = true
		}
	}
	return name, opts
}

func (r *Registry) structSchemaLocked(t reflect.Type, placed *[]reflect.Type) (kyss.Schema, error) {
	fields, err := structFields(t)
	if err != nil {
		return nil, err
	}
	mb := schema.Map()
	var extra *fieldInfo
	for i := range fields {
		f := &fields[i]
		if f.extra {
			if extra != nil {
				return nil, fmt.Errorf("typed: %s declares more than one extra field", t)
			}
			extra = f
			continue
		}
		fs, err := r.schemaLocked(f.typ, placed)
		if err != nil {
			return nil, err
		}
		if f.optional {
			mb.Optional(f.name, fs)
		} else {
			mb.Field(f.name, fs)
		}
	}
	if extra != nil {
		es, err := r.schemaLocked(extra.typ.Elem(), placed)
		if err != nil {
			return nil, err
		}
		mb.Values(es)
	} else {
		mb.Closed()
	}
	return mb.Build(), nil
}
