package schema

import (
	"context"

	"github.com/gvx/kyss"
	"github.com/gvx/kyss/i18n"
)

// Map starts a mapping schema. Declared keys are matched by their own
// schemas. Undeclared keys pass through as raw values by default, fail with
// unknown_key after Closed, or are matched by the Values schema.
func Map() *MapBuilder { return &MapBuilder{} }

// MapBuilder accumulates field declarations; Build finalizes them into a
// kyss.Schema whose match result is a map[string]any holding every accepted
// key.
type MapBuilder struct {
	fields []mapField
	values kyss.Schema
	closed bool
}

type mapField struct {
	name     string
	schema   kyss.Schema
	optional bool
}

// Field declares a required key.
func (b *MapBuilder) Field(name string, s kyss.Schema) *MapBuilder {
	b.fields = append(b.fields, mapField{name: name, schema: s})
	return b
}

// Optional declares a key that may be absent.
func (b *MapBuilder) Optional(name string, s kyss.Schema) *MapBuilder {
	b.fields = append(b.fields, mapField{name: name, schema: s, optional: true})
	return b
}

// Closed rejects undeclared keys.
func (b *MapBuilder) Closed() *MapBuilder {
	b.closed = true
	return b
}

// Values matches undeclared keys against s and includes them in the result.
func (b *MapBuilder) Values(s kyss.Schema) *MapBuilder {
	b.values = s
	return b
}

// Build finalizes the schema.
func (b *MapBuilder) Build() kyss.Schema {
	m := mapSchema{values: b.values, closed: b.closed}
	m.fields = append(m.fields, b.fields...)
	return m
}

type mapSchema struct {
	fields []mapField
	values kyss.Schema
	closed bool
}

func (m mapSchema) declaredNames() []string {
	names := make([]string, 0, len(m.fields))
	for _, f := range m.fields {
		names = append(names, f.name)
	}
	return names
}

func (m mapSchema) requiredNames() []string {
	var names []string
	for _, f := range m.fields {
		if !f.optional {
			names = append(names, f.name)
		}
	}
	return names
}

func (m mapSchema) Match(ctx context.Context, v kyss.Value) (any, error) {
	mv, ok := v.(kyss.Mapping)
	if !ok {
		return nil, mismatch(v, kyss.CodeInvalidType, "a mapping")
	}

	declared := make(map[string]mapField, len(m.fields))
	for _, f := range m.fields {
		declared[f.name] = f
	}

	out := make(map[string]any, len(mv.Entries))
	var iss kyss.Issues
	for _, e := range mv.Entries {
		f, known := declared[e.Key]
		var s kyss.Schema
		switch {
		case known:
			s = f.schema
		case m.closed:
			exp := "a mapping that only has the keys " + keyList(m.declaredNames())
			iss = append(iss, kyss.Issue{
				Path:    "/" + pointerEscaper.Replace(e.Key),
				Code:    kyss.CodeUnknownKey,
				Message: i18n.T(kyss.CodeUnknownKey, map[string]string{"expected": exp}),
				Line:    e.KeyLno,
				Params:  map[string]any{"expected": exp, "key": e.Key},
			})
			continue
		case m.values != nil:
			s = m.values
		default:
			out[e.Key] = e.Value
			continue
		}
		got, err := s.Match(ctx, e.Value)
		if err != nil {
			sub, ok := kyss.AsIssues(err)
			if !ok {
				return nil, err
			}
			iss = append(iss, prefixIssues(sub, e.Key)...)
			continue
		}
		out[e.Key] = got
	}

	required := m.requiredNames()
	for _, f := range m.fields {
		if f.optional {
			continue
		}
		if _, ok := mv.Get(f.name); ok {
			continue
		}
		exp := "a mapping that has the keys " + keyList(required)
		iss = append(iss, kyss.Issue{
			Path:    "/" + pointerEscaper.Replace(f.name),
			Code:    kyss.CodeRequired,
			Message: i18n.T(kyss.CodeRequired, map[string]string{"expected": exp}),
			Line:    mv.Lno,
			Params:  map[string]any{"expected": exp, "key": f.name},
		})
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}
