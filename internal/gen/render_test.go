package gen

import (
	"context"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/reoring/skemagen/internal/ir"
	"github.com/reoring/skemagen/internal/semantic"
)

func zoo() *ir.Namespace {
	return &ir.Namespace{
		Name:       "Zoo",
		Decorators: []ir.Decorator{ir.Doc("holds the zoo models.")},
		Decls: []ir.Decl{
			&ir.Union{Name: "Mood", Variants: []*ir.Variant{
				{Name: "calm", Type: &ir.Literal{Value: ir.StringValue("calm")}},
				{Name: "angry", Type: &ir.Literal{Value: ir.StringValue("angry")}},
			}},
			&ir.Model{Name: "Animal", Decorators: []ir.Decorator{ir.Discriminator("kind")}, Properties: []*ir.Property{
				{Name: "kind", Type: &ir.Ref{Name: "string"}},
				{Name: "name", Type: &ir.Ref{Name: "string"}, Decorators: []ir.Decorator{ir.Doc("is the display name.")}},
			}},
			&ir.Model{Name: "Lion", Base: &ir.Ref{Name: "Animal"}, Properties: []*ir.Property{
				{Name: "kind", Type: &ir.Literal{Value: ir.StringValue("lion")}},
				{Name: "mood", Type: &ir.Ref{Name: "Mood"}, Optional: true},
				{Name: "lastFed", Type: &ir.Union{Variants: []*ir.Variant{{Type: &ir.Ref{Name: "utcDateTime"}}, {Type: ir.Null}}},
					Decorators: []ir.Decorator{ir.EncodedName(ir.MediaJSON, "last_fed")}},
			}},
			&ir.Model{Name: "Zebra", Base: &ir.Ref{Name: "Animal"}, Properties: []*ir.Property{
				{Name: "kind", Type: &ir.Literal{Value: ir.StringValue("zebra")}},
				{Name: "stripes", Type: &ir.Ref{Name: "int32"}},
			}},
			&ir.Model{Name: "Enclosure", Properties: []*ir.Property{
				{Name: "resident", Type: &ir.Ref{Name: "Animal"}, Optional: true},
				{Name: "visitors", Type: &ir.TemplateRef{Name: "Array", Args: []ir.Type{&ir.Ref{Name: "Animal"}}}},
				{Name: "byKeeper", Type: &ir.TemplateRef{Name: "Record", Args: []ir.Type{&ir.Ref{Name: "Animal"}}}},
				{Name: "tags", Type: &ir.TemplateRef{Name: "Array", Args: []ir.Type{&ir.Ref{Name: "string"}}}},
			}},
		},
	}
}

func render(t *testing.T, ns *ir.Namespace, opts Options) string {
	t.Helper()
	res, err := semantic.Build(context.Background(), []*ir.Namespace{ns}, semantic.Options{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	f, err := RenderNamespace(context.Background(), res.Namespace(ns.Name), opts)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if _, err := parser.ParseFile(token.NewFileSet(), FileName, f.Source, parser.AllErrors); err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, f.Source)
	}
	return string(f.Source)
}

func mustContain(t *testing.T, src string, fragments ...string) {
	t.Helper()
	for _, f := range fragments {
		if !strings.Contains(src, f) {
			t.Fatalf("missing %q in:\n%s", f, src)
		}
	}
}

func TestRenderNamespace_Header(t *testing.T) {
	src := render(t, zoo(), Options{})
	if !strings.HasPrefix(src, Header+"\n") {
		t.Fatalf("missing header:\n%s", src)
	}
	mustContain(t, src,
		"// Package zoo holds the zoo models.\npackage zoo",
		`"encoding/json"`,
		`"fmt"`,
		`"time"`,
		`"github.com/reoring/skemagen/nullable"`,
	)
}

func TestRenderNamespace_ImportGroups(t *testing.T) {
	src := render(t, zoo(), Options{})
	mustContain(t, src, "import (\n\t\"encoding/json\"\n\t\"fmt\"\n\t\"time\"\n\n\t\"github.com/reoring/skemagen/nullable\"\n)\n")

	src = render(t, zoo(), Options{JSONPackage: "github.com/goccy/go-json"})
	mustContain(t, src, "\t\"time\"\n\n\tjson \"github.com/goccy/go-json\"\n\t\"github.com/reoring/skemagen/nullable\"\n)")
}

func TestIsStd(t *testing.T) {
	for path, want := range map[string]bool{
		`"fmt"`:                      true,
		`"encoding/json"`:            true,
		`"github.com/goccy/go-json"`: false,
		`"example.com/models/farm"`:  false,
	} {
		if got := isStd(path); got != want {
			t.Fatalf("isStd(%s) = %v, want %v", path, got, want)
		}
	}
}

func TestRenderNamespace_ValueUnion(t *testing.T) {
	src := render(t, zoo(), Options{})
	mustContain(t, src,
		"type Mood string",
		`MoodCalm  Mood = "calm"`,
		`MoodAngry Mood = "angry"`,
		"func ValuesMood() []Mood {",
		"func (f *Mood) UnmarshalJSON(data []byte) error {",
		"return json.Marshal(string(f))",
	)
}

func TestRenderNamespace_Models(t *testing.T) {
	src := render(t, zoo(), Options{})
	mustContain(t, src,
		"type Lion struct {",
		"\t// Name is the display name.\n\tName    string\n",
		"Mood    *Mood",
		"LastFed nullable.Nullable[time.Time]",
		"func (m Lion) Kind() string {\n\treturn \"lion\"\n}",
		`if v, ok := raw["last_fed"]; ok {`,
		"m.LastFed = nullable.Null[time.Time]()",
		"m.LastFed = nullable.Set(x)",
		`"kind": m.Kind(),`,
		"if m.LastFed.IsSet() {",
		"if m.Mood != nil {",
	)
	if strings.Contains(src, "\tKind string\n") {
		t.Fatalf("constant field must not be stored:\n%s", src)
	}
}

func TestRenderNamespace_TypeUnion(t *testing.T) {
	src := render(t, zoo(), Options{})
	mustContain(t, src,
		"type Animal interface {\n\tKind() string\n}",
		"func UnmarshalAnimal(data []byte) (Animal, error) {",
		"Kind string `json:\"kind\"`",
		"case \"lion\":\n\t\tvar v Lion",
		"case \"zebra\":\n\t\tvar v Zebra",
		`fmt.Errorf("unknown Animal discriminator %q", typeCheck.Kind)`,
	)
}

func TestRenderNamespace_Dispatch(t *testing.T) {
	src := render(t, zoo(), Options{})
	mustContain(t, src,
		"Resident Animal\n",
		"Visitors []Animal",
		"ByKeeper map[string]Animal",
		"Tags     []string",
		"x, err := UnmarshalAnimal(v)",
		"m.Resident = x",
		"x := make([]Animal, 0, len(items))",
		"x := make(map[string]Animal, len(items))",
		"if err := json.Unmarshal(v, &m.Tags); err != nil {",
	)
}

func TestRenderNamespace_JSONPackageAlias(t *testing.T) {
	src := render(t, zoo(), Options{JSONPackage: "github.com/goccy/go-json"})
	mustContain(t, src, `json "github.com/goccy/go-json"`)
	if strings.Contains(src, `"encoding/json"`) {
		t.Fatalf("default json package still imported:\n%s", src)
	}
}

func TestRenderNamespace_Empty(t *testing.T) {
	src := render(t, &ir.Namespace{Name: "Empty"}, Options{})
	if strings.Contains(src, "import") {
		t.Fatalf("empty namespace should not import anything:\n%s", src)
	}
}

func TestRenderNamespace_CrossNamespace(t *testing.T) {
	farm := &ir.Namespace{Name: "Farm", Decls: []ir.Decl{
		&ir.Model{Name: "Cow", Properties: []*ir.Property{{Name: "name", Type: &ir.Ref{Name: "string"}}}},
	}}
	barn := &ir.Namespace{Name: "Barn", Decls: []ir.Decl{
		&ir.Model{Name: "Stall", Properties: []*ir.Property{{Name: "cow", Type: &ir.Ref{Name: "Cow", Namespace: "Farm"}}}},
	}}
	res, err := semantic.Build(context.Background(), []*ir.Namespace{farm, barn}, semantic.Options{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if _, err := RenderNamespace(context.Background(), res.Namespace("Barn"), Options{}); err == nil {
		t.Fatalf("expected an error without a package resolver")
	}
	f, err := RenderNamespace(context.Background(), res.Namespace("Barn"), Options{
		Packages: func(ns string) (string, string, error) {
			return strings.ToLower(ns), "example.com/models/" + strings.ToLower(ns), nil
		},
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	mustContain(t, string(f.Source), `"example.com/models/farm"`, "Cow farm.Cow")
}
