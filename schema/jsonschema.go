package schema

import (
	"sort"

	js "github.com/gvx/kyss/jsonschema"
)

// JSON Schema descriptions of the logical value each schema produces. The
// document itself carries only strings, so formats mark scalars with a
// stricter lexical shape.

func (strSchema) JSONSchema() (*js.Schema, error)  { return &js.Schema{Type: "string"}, nil }
func (boolSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil }
func (intSchema) JSONSchema() (*js.Schema, error)  { return &js.Schema{Type: "integer"}, nil }
func (floatSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "number"}, nil
}

func (decimalSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "decimal"}, nil
}

func (acceptSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{}, nil }

func (s seqSchema) JSONSchema() (*js.Schema, error) {
	item, err := js.Export(s.item)
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "array", Items: item}, nil
}

func (s seqOrSingleSchema) JSONSchema() (*js.Schema, error) {
	item, err := js.Export(s.item)
	if err != nil {
		return nil, err
	}
	return &js.Schema{OneOf: []*js.Schema{
		{Type: "array", Items: item},
		item,
	}}, nil
}

func (commaSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "comma-separated"}, nil
}

func (m mapSchema) JSONSchema() (*js.Schema, error) {
	props := make(map[string]*js.Schema, len(m.fields))
	for _, f := range m.fields {
		ps, err := js.Export(f.schema)
		if err != nil {
			return nil, err
		}
		props[f.name] = ps
	}
	// Required list, sorted for deterministic output.
	req := append([]string(nil), m.requiredNames()...)
	sort.Strings(req)
	var additional any
	switch {
	case m.closed:
		additional = false
	case m.values != nil:
		vs, err := js.Export(m.values)
		if err != nil {
			return nil, err
		}
		additional = vs
	default:
		additional = true
	}
	return &js.Schema{
		Type:                 "object",
		Properties:           props,
		Required:             req,
		AdditionalProperties: additional,
	}, nil
}

func (a altSchema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{OneOf: make([]*js.Schema, 0, len(a))}
	for _, s := range a {
		vs, err := js.Export(s)
		if err != nil {
			return nil, err
		}
		out.OneOf = append(out.OneOf, vs)
	}
	return out, nil
}

func (w wrapSchema) JSONSchema() (*js.Schema, error) { return js.Export(w.inner) }
