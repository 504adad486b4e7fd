package typed

import (
	"fmt"
	"reflect"
)

// bind writes a matched value (the any-shaped output of a schema) into a
// settable reflect value of the target type.
func bind(dst reflect.Value, src any) error {
	if src == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	sv := reflect.ValueOf(src)
	if sv.Type() == dst.Type() {
		dst.Set(sv)
		return nil
	}
	switch dst.Kind() {
	case reflect.Pointer:
		p := reflect.New(dst.Type().Elem())
		if err := bind(p.Elem(), src); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	case reflect.Interface:
		if sv.Type().AssignableTo(dst.Type()) {
			dst.Set(sv)
			return nil
		}
		return fmt.Errorf("cannot assign %T to %s", src, dst.Type())
	case reflect.Bool:
		b, ok := src.(bool)
		if !ok {
			return bindMismatch(dst, src)
		}
		dst.SetBool(b)
		return nil
	case reflect.String:
		s, ok := src.(string)
		if !ok {
			return bindMismatch(dst, src)
		}
		dst.SetString(s)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := src.(int64)
		if !ok {
			return bindMismatch(dst, src)
		}
		if dst.OverflowInt(n) {
			return fmt.Errorf("value %d overflows %s", n, dst.Type())
		}
		dst.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := src.(int64)
		if !ok {
			return bindMismatch(dst, src)
		}
		if n < 0 || dst.OverflowUint(uint64(n)) {
			return fmt.Errorf("value %d overflows %s", n, dst.Type())
		}
		dst.SetUint(uint64(n))
		return nil
	case reflect.Float32, reflect.Float64:
		f, ok := src.(float64)
		if !ok {
			return bindMismatch(dst, src)
		}
		dst.SetFloat(f)
		return nil
	case reflect.Slice:
		items, ok := src.([]any)
		if !ok {
			return bindMismatch(dst, src)
		}
		out := reflect.MakeSlice(dst.Type(), len(items), len(items))
		for i, item := range items {
			if err := bind(out.Index(i), item); err != nil {
				return fmt.Errorf("%d: %w", i, err)
			}
		}
		dst.Set(out)
		return nil
	case reflect.Map:
		entries, ok := src.(map[string]any)
		if !ok {
			return bindMismatch(dst, src)
		}
		out := reflect.MakeMapWithSize(dst.Type(), len(entries))
		for k, item := range entries {
			ev := reflect.New(dst.Type().Elem()).Elem()
			if err := bind(ev, item); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			out.SetMapIndex(reflect.ValueOf(k), ev)
		}
		dst.Set(out)
		return nil
	case reflect.Struct:
		entries, ok := src.(map[string]any)
		if !ok {
			return bindMismatch(dst, src)
		}
		return bindStruct(dst, entries)
	default:
		return fmt.Errorf("cannot bind into %s", dst.Type())
	}
}

func bindMismatch(dst reflect.Value, src any) error {
	return fmt.Errorf("cannot bind %T into %s", src, dst.Type())
}

func bindStruct(dst reflect.Value, entries map[string]any) error {
	fields, err := structFields(dst.Type())
	if err != nil {
		return err
	}
	declared := map[string]bool{}
	var extra *fieldInfo
	for i := range fields {
		f := &fields[i]
		if f.extra {
			extra = f
			continue
		}
		declared[f.name] = true
		val, ok := entries[f.name]
		if !ok {
			// Optional and absent: the field keeps its zero value.
			continue
		}
		if err := bind(dst.Field(f.index), val); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	if extra != nil {
		fv := dst.Field(extra.index)
		out := reflect.MakeMap(fv.Type())
		for k, val := range entries {
			if declared[k] {
				continue
			}
			ev := reflect.New(fv.Type().Elem()).Elem()
			if err := bind(ev, val); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			out.SetMapIndex(reflect.ValueOf(k), ev)
		}
		fv.Set(out)
	}
	return nil
}
