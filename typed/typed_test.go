package typed_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc"

	"github.com/gvx/kyss"
	"github.com/gvx/kyss/jsonschema"
	"github.com/gvx/kyss/schema"
	"github.com/gvx/kyss/typed"
)

func issuesOf(t *testing.T, err error) kyss.Issues {
	t.Helper()
	iss, ok := kyss.AsIssues(err)
	if !ok {
		t.Fatalf("want issues, got %v", err)
	}
	return iss
}

type serverConfig struct {
	Host    string  `kyss:"host"`
	Port    int     `kyss:"port"`
	Debug   bool    `kyss:"debug,omitempty"`
	Comment *string `kyss:"comment"`
}

func TestParseString_Struct(t *testing.T) {
	cfg, err := typed.ParseString[serverConfig](context.Background(), "host: example.com\nport: 8080\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Host != "example.com" || cfg.Port != 8080 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Debug {
		t.Fatal("absent omitempty field should stay false")
	}
	if cfg.Comment != nil {
		t.Fatal("absent pointer field should stay nil")
	}
}

func TestParseString_PointerFieldPresent(t *testing.T) {
	cfg, err := typed.ParseString[serverConfig](context.Background(), "host: h\nport: 1\ncomment: hi\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Comment == nil || *cfg.Comment != "hi" {
		t.Fatalf("Comment = %v", cfg.Comment)
	}
}

func TestStruct_ClosedByDefault(t *testing.T) {
	_, err := typed.ParseString[serverConfig](context.Background(), "host: h\nport: 1\ncolour: red\n")
	iss := issuesOf(t, err)
	if len(iss) != 1 || iss[0].Code != kyss.CodeUnknownKey || iss[0].Path != "/colour" {
		t.Fatalf("issues = %v", iss)
	}
	want := `expected a mapping that only has the keys ["comment", "debug", "host", "port"]`
	if iss[0].Message != want {
		t.Fatalf("message = %q, want %q", iss[0].Message, want)
	}
}

func TestStruct_MissingRequiredKey(t *testing.T) {
	_, err := typed.ParseString[serverConfig](context.Background(), "host: h\n")
	iss := issuesOf(t, err)
	if len(iss) != 1 || iss[0].Code != kyss.CodeRequired || iss[0].Path != "/port" {
		t.Fatalf("issues = %v", iss)
	}
	want := `expected a mapping that has the keys ["host", "port"]`
	if iss[0].Message != want {
		t.Fatalf("message = %q, want %q", iss[0].Message, want)
	}
}

func TestStruct_JSONTagFallback(t *testing.T) {
	type jsonTagged struct {
		Name  string `json:"name"`
		Level int    `json:"level,omitempty"`
		Skip  string `json:"-"`
		Plain string
	}
	cfg, err := typed.ParseString[jsonTagged](context.Background(), "name: x\nPlain: y\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Name != "x" || cfg.Plain != "y" || cfg.Level != 0 || cfg.Skip != "" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestStruct_KyssTagBeatsJSON(t *testing.T) {
	type both struct {
		ID string `kyss:"id" json:"ident"`
	}
	cfg, err := typed.ParseString[both](context.Background(), "id: a7\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.ID != "a7" {
		t.Fatalf("ID = %q", cfg.ID)
	}
}

func TestStruct_ExtraFieldCollectsRest(t *testing.T) {
	type withExtra struct {
		Name string            `kyss:"name"`
		Rest map[string]string `kyss:",extra"`
	}
	cfg, err := typed.ParseString[withExtra](context.Background(), "name: n\nalpha: a\nbeta: b\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]string{"alpha": "a", "beta": "b"}
	if !reflect.DeepEqual(cfg.Rest, want) {
		t.Fatalf("Rest = %v, want %v", cfg.Rest, want)
	}

	cfg, err = typed.ParseString[withExtra](context.Background(), "name: only\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Rest == nil || len(cfg.Rest) != 0 {
		t.Fatalf("Rest should be empty but non-nil, got %v", cfg.Rest)
	}
}

func TestListOrSingleField(t *testing.T) {
	type hostList struct {
		Hosts typed.ListOrSingle[string] `kyss:"hosts"`
	}
	cfg, err := typed.ParseString[hostList](context.Background(), "hosts: one\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual([]string(cfg.Hosts), []string{"one"}) {
		t.Fatalf("Hosts = %v", cfg.Hosts)
	}

	cfg, err = typed.ParseString[hostList](context.Background(), "hosts:\n  - a\n  - b\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual([]string(cfg.Hosts), []string{"a", "b"}) {
		t.Fatalf("Hosts = %v", cfg.Hosts)
	}
}

func TestCommaSeparatedField(t *testing.T) {
	type tagged struct {
		Tags typed.CommaSeparated[string] `kyss:"tags"`
	}
	cfg, err := typed.ParseString[tagged](context.Background(), "tags: a, b ,c\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual([]string(cfg.Tags), []string{"a", "b", "c"}) {
		t.Fatalf("Tags = %v", cfg.Tags)
	}
}

func TestDefaultRegistrations(t *testing.T) {
	type timing struct {
		Start time.Time       `kyss:"start"`
		Wait  time.Duration   `kyss:"wait"`
		Price decimal.Decimal `kyss:"price"`
	}
	cfg, err := typed.ParseString[timing](context.Background(),
		"start: 2025-01-02T03:04:05Z\nwait: 1h30m\nprice: 19.99\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !cfg.Start.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("Start = %v", cfg.Start)
	}
	if cfg.Wait != 90*time.Minute {
		t.Fatalf("Wait = %v", cfg.Wait)
	}
	if !cfg.Price.Equal(decimal.RequireFromString("19.99")) {
		t.Fatalf("Price = %v", cfg.Price)
	}
}

type node struct {
	Name     string                   `kyss:"name"`
	Children typed.ListOrSingle[node] `kyss:"children,omitempty"`
}

func TestSelfReferentialType(t *testing.T) {
	doc := strings.Join([]string{
		"name: root",
		"children:",
		"  - name: left",
		"    children:",
		"      - name: leaf",
		"  - name: right",
	}, "\n")
	got, err := typed.ParseString[node](context.Background(), doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Name != "root" || len(got.Children) != 2 {
		t.Fatalf("unexpected tree: %+v", got)
	}
	if got.Children[0].Name != "left" || len(got.Children[0].Children) != 1 {
		t.Fatalf("left subtree: %+v", got.Children[0])
	}
	if got.Children[0].Children[0].Name != "leaf" {
		t.Fatalf("leaf: %+v", got.Children[0].Children[0])
	}
	if got.Children[1].Name != "right" || len(got.Children[1].Children) != 0 {
		t.Fatalf("right subtree: %+v", got.Children[1])
	}
}

type customScalar string

func TestRegisterTypeFunc_InvokedOnce(t *testing.T) {
	r := typed.NewRegistry()
	calls := 0
	r.RegisterTypeFunc(reflect.TypeOf((*customScalar)(nil)).Elem(), func() kyss.Schema {
		calls++
		return schema.Str()
	})
	for i := 0; i < 3; i++ {
		if _, err := r.Schema(reflect.TypeOf((*customScalar)(nil)).Elem()); err != nil {
			t.Fatalf("schema: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("provider ran %d times, want 1", calls)
	}
}

func TestRegistry_ConcurrentSchema(t *testing.T) {
	r := typed.NewRegistry()
	var wg conc.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Go(func() {
			if _, err := r.Schema(reflect.TypeOf((*serverConfig)(nil)).Elem()); err != nil {
				t.Errorf("schema: %v", err)
			}
		})
	}
	wg.Wait()
}

func TestUnsupportedType(t *testing.T) {
	type badFunc struct {
		Fn func() `kyss:"fn"`
	}
	r := typed.NewRegistry()
	_, err := r.Schema(reflect.TypeOf((*badFunc)(nil)).Elem())
	if err == nil || !strings.Contains(err.Error(), "cannot derive a schema") {
		t.Fatalf("err = %v", err)
	}
	// The failed walk must not leave an unresolved placeholder behind.
	_, err = r.Schema(reflect.TypeOf((*badFunc)(nil)).Elem())
	if err == nil {
		t.Fatal("second derivation should fail the same way")
	}
}

func TestIntRangeChecked(t *testing.T) {
	type tiny struct {
		N int8 `kyss:"n"`
	}
	_, err := typed.ParseString[tiny](context.Background(), "n: 300\n")
	iss := issuesOf(t, err)
	if len(iss) != 1 || iss[0].Code != kyss.CodeTransform || iss[0].Path != "/n" {
		t.Fatalf("issues = %v", iss)
	}
	if iss[0].Message != "value 300 out of range for int8" {
		t.Fatalf("message = %q", iss[0].Message)
	}
}

func TestUintRejectsNegative(t *testing.T) {
	type counter struct {
		N uint16 `kyss:"n"`
	}
	_, err := typed.ParseString[counter](context.Background(), "n: -4\n")
	iss := issuesOf(t, err)
	if len(iss) != 1 || iss[0].Code != kyss.CodeTransform {
		t.Fatalf("issues = %v", iss)
	}
	if iss[0].Message != "value -4 out of range for uint16" {
		t.Fatalf("message = %q", iss[0].Message)
	}
}

type mode any

func TestRegisteredUnion(t *testing.T) {
	typed.Register[mode](schema.Or(schema.Int(), schema.Str()))
	type job struct {
		Mode mode `kyss:"mode"`
	}
	cfg, err := typed.ParseString[job](context.Background(), "mode: 7\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Mode != int64(7) {
		t.Fatalf("Mode = %v (%T)", cfg.Mode, cfg.Mode)
	}

	cfg, err = typed.ParseString[job](context.Background(), "mode: fast\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Mode != "fast" {
		t.Fatalf("Mode = %v (%T)", cfg.Mode, cfg.Mode)
	}

	_, err = typed.ParseString[job](context.Background(), "mode:\n  - x\n")
	iss := issuesOf(t, err)
	if iss[0].Code != kyss.CodeNoAlternative {
		t.Fatalf("issues = %v", iss)
	}
}

func TestMapField(t *testing.T) {
	type limits struct {
		Quotas map[string]int64 `kyss:"quotas"`
	}
	cfg, err := typed.ParseString[limits](context.Background(), "quotas:\n  cpu: 4\n  mem: 8\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]int64{"cpu": 4, "mem": 8}
	if !reflect.DeepEqual(cfg.Quotas, want) {
		t.Fatalf("Quotas = %v", cfg.Quotas)
	}
}

func TestSliceOfStructs(t *testing.T) {
	type member struct {
		Name string `kyss:"name"`
	}
	type roster struct {
		Members []member `kyss:"members"`
	}
	cfg, err := typed.ParseString[roster](context.Background(), "members:\n  - name: a\n  - name: b\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(cfg.Members) != 2 || cfg.Members[0].Name != "a" || cfg.Members[1].Name != "b" {
		t.Fatalf("Members = %+v", cfg.Members)
	}
}

func TestAnyFieldKeepsRawValue(t *testing.T) {
	type loose struct {
		Meta any `kyss:"meta"`
	}
	cfg, err := typed.ParseString[loose](context.Background(), "meta:\n  x: 1\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, ok := cfg.Meta.(kyss.Value)
	if !ok {
		t.Fatalf("Meta = %T", cfg.Meta)
	}
	if kyss.Kind(v) != "mapping" {
		t.Fatalf("Kind = %q", kyss.Kind(v))
	}
}

func TestDerivedSchemaExports(t *testing.T) {
	s, err := typed.For[serverConfig]()
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	doc, err := jsonschema.Export(s)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if doc.Type != "object" {
		t.Fatalf("Type = %q", doc.Type)
	}
	if add, ok := doc.AdditionalProperties.(bool); !ok || add {
		t.Fatalf("AdditionalProperties = %v", doc.AdditionalProperties)
	}
	if !reflect.DeepEqual(doc.Required, []string{"host", "port"}) {
		t.Fatalf("Required = %v", doc.Required)
	}
	if doc.Properties["port"].Type != "integer" {
		t.Fatalf("port schema = %+v", doc.Properties["port"])
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.kyss")
	if err := os.WriteFile(path, []byte("host: h\nport: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := typed.ParseFile[serverConfig](context.Background(), path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Host != "h" || cfg.Port != 2 {
		t.Fatalf("config = %+v", cfg)
	}
}
