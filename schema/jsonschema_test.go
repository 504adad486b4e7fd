package schema_test

import (
	"context"
	"testing"

	"github.com/gvx/kyss"
	"github.com/gvx/kyss/jsonschema"
	"github.com/gvx/kyss/schema"
)

func exportJSON(t *testing.T, s kyss.Schema) string {
	t.Helper()
	doc, err := jsonschema.Export(s)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := jsonschema.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func TestExport_Primitives(t *testing.T) {
	cases := []struct {
		name string
		s    kyss.Schema
		want string
	}{
		{"string", schema.Str(), `{"type":"string"}`},
		{"bool", schema.Bool(), `{"type":"boolean"}`},
		{"int", schema.Int(), `{"type":"integer"}`},
		{"float", schema.Float(), `{"type":"number"}`},
		{"decimal", schema.Decimal(), `{"type":"string","format":"decimal"}`},
		{"accept", schema.Accept(), `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exportJSON(t, tc.s); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestExport_Composites(t *testing.T) {
	cases := []struct {
		name string
		s    kyss.Schema
		want string
	}{
		{
			"sequence",
			schema.Sequence(schema.Int()),
			`{"type":"array","items":{"type":"integer"}}`,
		},
		{
			"sequence_or_single",
			schema.SequenceOrSingle(schema.Str()),
			`{"oneOf":[{"type":"array","items":{"type":"string"}},{"type":"string"}]}`,
		},
		{
			"comma_separated",
			schema.CommaSeparated(schema.Str()),
			`{"type":"string","format":"comma-separated"}`,
		},
		{
			"alternatives",
			schema.Or(schema.Int(), schema.Bool()),
			`{"oneOf":[{"type":"integer"},{"type":"boolean"}]}`,
		},
		{
			"wrap_delegates",
			schema.Wrap(schema.Str(), func(v any) (any, error) { return v, nil }),
			`{"type":"string"}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exportJSON(t, tc.s); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestExport_Mapping(t *testing.T) {
	s := schema.Map().
		Field("name", schema.Str()).
		Optional("port", schema.Int()).
		Closed().
		Build()
	want := `{"type":"object","properties":{"name":{"type":"string"},"port":{"type":"integer"}},"required":["name"],"additionalProperties":false}`
	if got := exportJSON(t, s); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestExport_MappingModes(t *testing.T) {
	open := schema.Map().Field("a", schema.Str()).Build()
	if got := exportJSON(t, open); got != `{"type":"object","properties":{"a":{"type":"string"}},"required":["a"],"additionalProperties":true}` {
		t.Fatalf("open: %s", got)
	}
	values := schema.Map().Values(schema.Int()).Build()
	if got := exportJSON(t, values); got != `{"type":"object","additionalProperties":{"type":"integer"}}` {
		t.Fatalf("values: %s", got)
	}
}

type opaqueSchema struct{}

func (opaqueSchema) Match(ctx context.Context, v kyss.Value) (any, error) { return v, nil }

func TestExport_UnknownSchemaIsOpen(t *testing.T) {
	if got := exportJSON(t, opaqueSchema{}); got != `{}` {
		t.Fatalf("got %s", got)
	}
}
