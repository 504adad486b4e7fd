// Package typed derives schemas from Go types with reflection, so callers
// describe configuration as structs instead of hand-assembled combinators.
//
// The mapping is structural: strings, bools, integers and floats become the
// matching scalar schemas, slices become sequences, maps with string keys
// become open mappings, and structs become closed mappings keyed by `kyss`
// or `json` tags. Pointer or `,omitempty` fields are optional. A map field
// tagged `,extra` collects keys the struct does not declare. Named types
// registered via Register or RegisterFunc take precedence everywhere they
// appear, which is also how union-like values plug in:
//
//	typed.Register[Pet](schema.Or(catSchema, dogSchema))
//
// Derived schemas are memoized per registry, so self-referential types
// (trees, linked configs) terminate.
package typed

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gvx/kyss"
	"github.com/gvx/kyss/codec"
	"github.com/gvx/kyss/schema"
)

// ListOrSingle accepts either a sequence or a lone value of the element
// type, always binding as a slice.
type ListOrSingle[T any] []T

// CommaSeparated accepts a scalar holding a comma separated list of the
// element type, always binding as a slice.
type CommaSeparated[T any] []T

// Registry maps Go types to schemas and memoizes every derivation.
type Registry struct {
	mu   sync.Mutex
	memo map[reflect.Type]kyss.Schema
	lazy map[reflect.Type]func() kyss.Schema
}

// NewRegistry returns a registry preloaded with the library defaults:
// decimal.Decimal, time.Time (RFC3339) and time.Duration.
func NewRegistry() *Registry {
	r := &Registry{
		memo: map[reflect.Type]kyss.Schema{},
		lazy: map[reflect.Type]func() kyss.Schema{},
	}
	r.RegisterType(reflect.TypeOf((*decimal.Decimal)(nil)).Elem(), schema.Decimal())
	r.RegisterType(reflect.TypeOf((*time.Time)(nil)).Elem(), codec.Time())
	r.RegisterType(reflect.TypeOf((*time.Duration)(nil)).Elem(), codec.Duration())
	return r
}

// Default is the registry behind the package-level helpers.
var Default = NewRegistry()

// RegisterType associates t with a hand-built schema, replacing any earlier
// association.
func (r *Registry) RegisterType(t reflect.Type, s kyss.Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lazy, t)
	r.memo[t] = s
}

// RegisterTypeFunc associates t with a schema provider. The provider runs
// at most once, on first use, and its result is memoized.
func (r *Registry) RegisterTypeFunc(t reflect.Type, fn func() kyss.Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.memo, t)
	r.lazy[t] = fn
}

// Schema returns the schema registered or derived for t.
func (r *Registry) Schema(t reflect.Type) (kyss.Schema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var placed []reflect.Type
	s, err := r.schemaLocked(t, &placed)
	if err != nil {
		// Drop every placeholder this walk created; none of them resolved.
		for _, pt := range placed {
			delete(r.memo, pt)
		}
		return nil, err
	}
	return s, nil
}

func (r *Registry) schemaLocked(t reflect.Type, placed *[]reflect.Type) (kyss.Schema, error) {
	if s, ok := r.memo[t]; ok {
		return s, nil
	}
	if fn, ok := r.lazy[t]; ok {
		delete(r.lazy, t)
		s := fn()
		r.memo[t] = s
		return s, nil
	}
	// The placeholder takes the slot first so self-referential types
	// resolve to it instead of recursing forever.
	cell := &indirectSchema{}
	r.memo[t] = cell
	*placed = append(*placed, t)
	s, err := r.translateLocked(t, placed)
	if err != nil {
		return nil, err
	}
	cell.target = s
	r.memo[t] = s
	return s, nil
}

// indirectSchema forwards to the schema a placeholder stood in for during
// translation.
type indirectSchema struct{ target kyss.Schema }

func (c *indirectSchema) Match(ctx context.Context, v kyss.Value) (any, error) {
	if c.target == nil {
		return nil, kyss.AppendIssues(nil, kyss.Issue{
			Code:    kyss.CodeParseError,
			Message: "schema for a self-referential type is not resolved yet",
		})
	}
	return c.target.Match(ctx, v)
}

// ---- package-level helpers over Default ----

// For returns the schema derived for T.
func For[T any]() (kyss.Schema, error) { return Default.Schema(reflect.TypeOf((*T)(nil)).Elem()) }

// Register associates T with a hand-built schema.
func Register[T any](s kyss.Schema) { Default.RegisterType(reflect.TypeOf((*T)(nil)).Elem(), s) }

// RegisterFunc associates T with a schema provider, invoked at most once.
func RegisterFunc[T any](fn func() kyss.Schema) {
	Default.RegisterTypeFunc(reflect.TypeOf((*T)(nil)).Elem(), fn)
}

// Match derives T's schema, matches v against it and binds the result.
func Match[T any](ctx context.Context, v kyss.Value) (T, error) {
	var zero T
	s, err := For[T]()
	if err != nil {
		return zero, err
	}
	got, err := s.Match(ctx, v)
	if err != nil {
		return zero, err
	}
	out := reflect.New(reflect.TypeOf((*T)(nil)).Elem()).Elem()
	if err := bind(out, got); err != nil {
		return zero, kyss.AppendIssues(nil, kyss.Issue{
			Code:    kyss.CodeTransform,
			Message: err.Error(),
			Cause:   err,
		})
	}
	return out.Interface().(T), nil
}

// Parse parses a document and matches it as T.
func Parse[T any](ctx context.Context, data []byte) (T, error) {
	var zero T
	v, err := kyss.Parse(data)
	if err != nil {
		return zero, err
	}
	return Match[T](ctx, v)
}

// ParseString is Parse for string input.
func ParseString[T any](ctx context.Context, input string) (T, error) {
	return Parse[T](ctx, []byte(input))
}

// ParseFile reads, parses and matches the file at path as T.
func ParseFile[T any](ctx context.Context, path string) (T, error) {
	var zero T
	v, err := kyss.ParseFile(path)
	if err != nil {
		return zero, err
	}
	return Match[T](ctx, v)
}
