// Package rules validates bound configuration values: cross-field
// requirements that per-key schemas cannot express, evaluated after
// matching and binding. Paths are JSON Pointers over the same keys the
// typed layer binds with.
package rules

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gvx/kyss"
	"github.com/gvx/kyss/typed"
)

// Rule checks a bound configuration value and reports issues.
type Rule[T any] func(v T) kyss.Issues

// Apply runs every rule against v and returns the collected issues as an
// error, or nil when all rules pass.
func Apply[T any](v T, rules ...Rule[T]) error {
	var out kyss.Issues
	for _, r := range rules {
		if r == nil {
			continue
		}
		out = append(out, r(v)...)
	}
	if len(out) > 0 {
		return out
	}
	return nil
}

// Op defines comparison operators for If(...).Then(...).
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional composes conditional execution of rules.
type Conditional[T any] struct {
	path string
	op   Op
	want any
	all  []Conditional[T] // composite AND
	any  []Conditional[T] // composite OR
}

// If builds a conditional that evaluates a path against a value using an
// operator.
func If[T any](path string, op Op, want any) Conditional[T] {
	return Conditional[T]{path: normalizePath(path), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll[T any](conds ...Conditional[T]) Conditional[T] { return Conditional[T]{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny[T any](conds ...Conditional[T]) Conditional[T] { return Conditional[T]{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional[T]) And(others ...Conditional[T]) Conditional[T] {
	conds := append([]Conditional[T]{c}, others...)
	return IfAll(conds...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional[T]) Or(others ...Conditional[T]) Conditional[T] {
	conds := append([]Conditional[T]{c}, others...)
	return IfAny(conds...)
}

// Then attaches rules to run when the condition is satisfied.
func (c Conditional[T]) Then(rules ...Rule[T]) Rule[T] {
	return func(v T) kyss.Issues {
		if !evalConditional(v, c) {
			return nil
		}
		var all kyss.Issues
		for _, r := range rules {
			if r == nil {
				continue
			}
			all = append(all, r(v)...)
		}
		return all
	}
}

// Required reports an issue when the value at path is absent or zero.
// Optional booleans should be pointers so that false stays expressible.
func Required[T any](path string) Rule[T] {
	p := normalizePath(path)
	return func(v T) kyss.Issues {
		if present(v, p) {
			return nil
		}
		return kyss.Issues{{Path: p, Code: kyss.CodeRequired, Message: "a value is required"}}
	}
}

// Forbidden reports an issue when the value at path is present and
// non-zero.
func Forbidden[T any](path string) Rule[T] {
	p := normalizePath(path)
	return func(v T) kyss.Issues {
		if !present(v, p) {
			return nil
		}
		return kyss.Issues{{Path: p, Code: kyss.CodeUnknownKey, Message: "this key is not allowed here"}}
	}
}

// AtLeastOne ensures the collection at collectionPath has at least one
// element.
func AtLeastOne[T any](collectionPath string) Rule[T] {
	p := normalizePath(collectionPath)
	return func(v T) kyss.Issues {
		val, ok := valueAtPath(v, p)
		if !ok {
			return nil
		}
		rv := reflect.ValueOf(indirect(val))
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if rv.Len() == 0 {
				return kyss.Issues{{
					Path:    p,
					Code:    kyss.CodeInvalidFormat,
					Message: "at least 1 item is required",
					Params:  map[string]any{"minItems": 1},
				}}
			}
		}
		return nil
	}
}

// UniqueBy ensures elements of the collection at collectionPath have
// unique values at keyPath. Prefer a stable comparable key type; mixed
// types may stringify to identical values.
func UniqueBy[T any](collectionPath, keyPath string) Rule[T] {
	cp := normalizePath(collectionPath)
	kp := strings.TrimPrefix(keyPath, "/")
	return func(v T) kyss.Issues {
		val, ok := valueAtPath(v, cp)
		if !ok {
			return nil
		}
		rv := reflect.ValueOf(indirect(val))
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil
		}
		seen := map[string]int{}
		var out kyss.Issues
		for i := 0; i < rv.Len(); i++ {
			kv, ok := valueAtPathWithin(rv.Index(i).Interface(), kp)
			if !ok {
				continue
			}
			key := fmt.Sprint(indirect(kv))
			if j, dup := seen[key]; dup {
				out = append(out, kyss.Issue{
					Path:    fmt.Sprintf("%s/%d/%s", cp, i, kp),
					Code:    kyss.CodeInvalidFormat,
					Message: fmt.Sprintf("duplicate value %q (first at index %d)", key, j),
					Params:  map[string]any{"first": j, "dup": i, "key": key},
				})
			} else {
				seen[key] = i
			}
		}
		return out
	}
}

// Custom adapts any predicate into a rule.
func Custom[T any](fn func(v T) kyss.Issues) Rule[T] { return Rule[T](fn) }

// And executes all rules and concatenates their issues.
func And[T any](rules ...Rule[T]) Rule[T] {
	return func(v T) kyss.Issues {
		var out kyss.Issues
		for _, r := range rules {
			if r == nil {
				continue
			}
			out = append(out, r(v)...)
		}
		return out
	}
}

// Or succeeds if any rule returns no issues; otherwise it returns the
// branch with the fewest issues.
func Or[T any](rules ...Rule[T]) Rule[T] {
	return func(v T) kyss.Issues {
		var best kyss.Issues
		bestSet := false
		for _, r := range rules {
			if r == nil {
				continue
			}
			iss := r(v)
			if len(iss) == 0 {
				return nil
			}
			if !bestSet || len(iss) < len(best) {
				best = iss
				bestSet = true
			}
		}
		if bestSet {
			return best
		}
		return nil
	}
}

// ---- helpers ----

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

// present treats a non-nil pointer as present even when it points at a
// zero value, so *bool fields can carry an explicit false.
func present[T any](v T, pointer string) bool {
	val, ok := valueAtPath(v, pointer)
	if !ok || val == nil {
		return false
	}
	rv := reflect.ValueOf(val)
	if !rv.IsValid() {
		return false
	}
	if rv.Kind() == reflect.Pointer {
		return !rv.IsNil()
	}
	return !rv.IsZero()
}

func evalConditional[T any](v T, c Conditional[T]) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !evalConditional(v, it) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if evalConditional(v, it) {
				return true
			}
		}
		return false
	}
	cur, ok := valueAtPath(v, c.path)
	if !ok {
		return false
	}
	return compare(indirect(cur), c.op, c.want)
}

// valueAtPath navigates v (struct, map or slice) by JSON Pointer using the
// same keys the typed layer binds with.
func valueAtPath[T any](v T, pointer string) (any, bool) {
	return valueAtPathWithin(v, strings.TrimPrefix(pointer, "/"))
}

func valueAtPathWithin(v any, rel string) (any, bool) {
	if rel == "" {
		return v, true
	}
	cur := reflect.ValueOf(v)
	for _, seg := range strings.Split(rel, "/") {
		if !cur.IsValid() {
			return nil, false
		}
		if cur.Kind() == reflect.Pointer {
			if cur.IsNil() {
				return nil, false
			}
			cur = cur.Elem()
		}
		if cur.Kind() == reflect.Interface {
			if cur.IsNil() {
				return nil, false
			}
			cur = cur.Elem()
		}
		switch cur.Kind() {
		case reflect.Struct:
			found := false
			rt := cur.Type()
			for i := 0; i < rt.NumField(); i++ {
				sf := rt.Field(i)
				if !sf.IsExported() {
					continue
				}
				if typed.ResolveStructKey(sf) == seg {
					cur = cur.Field(i)
					found = true
					break
				}
			}
			if !found {
				return nil, false
			}
		case reflect.Map:
			mv := cur.MapIndex(reflect.ValueOf(seg))
			if !mv.IsValid() {
				return nil, false
			}
			cur = mv
		case reflect.Slice, reflect.Array:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= cur.Len() {
				return nil, false
			}
			cur = cur.Index(idx)
		default:
			return nil, false
		}
	}
	return cur.Interface(), true
}

// indirect peels pointers so checks compare the pointed-at value.
func indirect(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return reflect.DeepEqual(cur, want)
	case Ne:
		return !reflect.DeepEqual(cur, want)
	case Lt, Le, Gt, Ge:
		return compareOrdered(cur, op, want)
	default:
		return false
	}
}

// compareOrdered supports integer and float comparisons; everything else
// evaluates to false.
func compareOrdered(cur any, op Op, want any) bool {
	c := reflect.ValueOf(cur)
	w := reflect.ValueOf(want)
	if isIntLike(c.Kind()) && isIntLike(w.Kind()) {
		a, b := toInt64(c), toInt64(w)
		switch op {
		case Lt:
			return a < b
		case Le:
			return a <= b
		case Gt:
			return a > b
		case Ge:
			return a >= b
		}
	}
	if isFloatLike(c.Kind()) && isFloatLike(w.Kind()) {
		a, b := toFloat64(c), toFloat64(w)
		switch op {
		case Lt:
			return a < b
		case Le:
			return a <= b
		case Gt:
			return a > b
		case Ge:
			return a >= b
		}
	}
	return false
}

func isIntLike(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func isFloatLike(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func toInt64(v reflect.Value) int64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	default:
		return 0
	}
}

func toFloat64(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float()
	default:
		return 0
	}
}
