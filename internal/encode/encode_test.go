package encode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/skemagen/internal/diag"
	"github.com/reoring/skemagen/internal/ir"
	"github.com/reoring/skemagen/internal/symbol"
)

const runtime = "github.com/reoring/skemagen/nullable"

func builtin(t *testing.T, name string) *symbol.Builtin {
	t.Helper()
	s, ok := symbol.NewTable().Find(name, "")
	require.True(t, ok)
	return s.(*symbol.Builtin)
}

func template(t *testing.T, name string) *symbol.Template {
	t.Helper()
	s, ok := symbol.NewTable().Find(name, "")
	require.True(t, ok)
	return s.(*symbol.Template)
}

func local() *Qualifier { return NewQualifier("Zoo", nil, runtime) }

func pet() *symbol.TypeUnion {
	return &symbol.TypeUnion{Header: symbol.Header{Name: "Pet", Namespace: "Zoo", GoName: "Pet"}}
}

func TestField_Shapes(t *testing.T) {
	str := &symbol.RefType{Symbol: builtin(t, "string")}
	cases := []struct {
		name  string
		field *symbol.Field
		shape Shape
		decl  string
		wrap  string
	}{
		{"required", &symbol.Field{GoName: "Name", Type: str}, Required, "string", "x"},
		{"optional", &symbol.Field{GoName: "Name", Type: str, Optional: true}, Optional, "*string", "&x"},
		{"nullable", &symbol.Field{GoName: "Name", Type: str, Nullable: true}, Nullable, "nullable.Nullable[string]", "nullable.Set(x)"},
		{"nullable wins over optional", &symbol.Field{GoName: "Name", Type: str, Nullable: true, Optional: true}, Nullable, "nullable.Nullable[string]", "nullable.Set(x)"},
		{"optional interface stays bare", &symbol.Field{GoName: "Pet", Type: &symbol.RefType{Symbol: pet()}, Optional: true}, Optional, "Pet", "x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fp, err := Field(tc.field, local())
			require.NoError(t, err)
			assert.Equal(t, tc.shape, fp.Shape)
			assert.Equal(t, tc.decl, fp.Decl)
			assert.Equal(t, tc.wrap, fp.Wrap("x"))
		})
	}
}

func TestField_NullableImportsRuntime(t *testing.T) {
	q := local()
	fp, err := Field(&symbol.Field{GoName: "Seen", Type: &symbol.RefType{Symbol: builtin(t, "utcDateTime")}, Nullable: true}, q)
	require.NoError(t, err)
	assert.Equal(t, "nullable.Null[time.Time]()", fp.Null())
	assert.Equal(t, []string{runtime, "time"}, q.Imports())
}

func TestField_Constants(t *testing.T) {
	fp, err := Field(&symbol.Field{GoName: "Kind", Type: &symbol.ConstType{Value: ir.StringValue("lion"), Type: builtin(t, "string")}}, local())
	require.NoError(t, err)
	assert.Equal(t, Constant, fp.Shape)
	assert.Equal(t, "string", fp.Type)
	assert.Equal(t, `"lion"`, fp.Value)

	kind := &symbol.ValueUnion{Header: symbol.Header{Name: "PetKind", Namespace: "Zoo", GoName: "PetKind"}}
	member := &symbol.ValueVariant{Name: "cat", GoName: "PetKindCat", Value: ir.StringValue("cat")}
	fp, err = Field(&symbol.Field{GoName: "Kind", Type: &symbol.ConstType{Value: member.Value, Type: kind, Member: member}}, local())
	require.NoError(t, err)
	assert.Equal(t, "PetKind", fp.Type)
	assert.Equal(t, "PetKindCat", fp.Value)
}

func TestField_Dispatch(t *testing.T) {
	u := pet()
	cases := []struct {
		name     string
		tpl      string
		dispatch Dispatch
		typ      string
	}{
		{"list", "Array", DispatchList, "[]Pet"},
		{"map", "Record", DispatchMap, "map[string]Pet"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pt := &symbol.TemplateType{Template: template(t, tc.tpl), Args: []symbol.TemplateArg{symbol.TypeArg{Type: &symbol.RefType{Symbol: u}}}}
			fp, err := Field(&symbol.Field{GoName: "Pets", Type: pt}, local())
			require.NoError(t, err)
			assert.Equal(t, tc.dispatch, fp.Dispatch)
			assert.Equal(t, tc.typ, fp.Type)
			assert.Equal(t, "UnmarshalPet", fp.Factory)
			assert.Equal(t, "Pet", fp.Elem)
			assert.False(t, fp.Interface)
		})
	}

	fp, err := Field(&symbol.Field{GoName: "Pet", Type: &symbol.RefType{Symbol: u}}, local())
	require.NoError(t, err)
	assert.Equal(t, DispatchDirect, fp.Dispatch)
	assert.True(t, fp.Interface)

	nested := &symbol.TemplateType{Template: template(t, "Array"), Args: []symbol.TemplateArg{symbol.TypeArg{
		Type: &symbol.TemplateType{Template: template(t, "Array"), Args: []symbol.TemplateArg{symbol.TypeArg{Type: &symbol.RefType{Symbol: u}}}},
	}}}
	_, err = Field(&symbol.Field{Name: "pens", GoName: "Pens", Type: nested}, local())
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.ErrUnsupportedTypeKind))
}

func TestQualifier_CrossNamespace(t *testing.T) {
	cow := &symbol.Model{Header: symbol.Header{Name: "Cow", Namespace: "Farm", GoName: "Cow"}}
	field := &symbol.Field{GoName: "Cow", Type: &symbol.RefType{Symbol: cow}, Optional: true}

	_, err := Field(field, local())
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.ErrUnsupportedTypeKind))

	q := NewQualifier("Zoo", func(ns string) (string, string, error) {
		return "farm", "example.com/gen/farm", nil
	}, runtime)
	fp, err := Field(field, q)
	require.NoError(t, err)
	assert.Equal(t, "*farm.Cow", fp.Decl)
	assert.Equal(t, []string{"example.com/gen/farm"}, q.Imports())
}

func TestModel_Plan(t *testing.T) {
	str := &symbol.RefType{Symbol: builtin(t, "string")}
	animal := &symbol.Model{Header: symbol.Header{Name: "Animal", Namespace: "Zoo", GoName: "Animal"}, Fields: []*symbol.Field{
		{Name: "name", GoName: "Name", WireName: "name", Type: str},
	}}
	lion := &symbol.Model{Header: symbol.Header{Name: "Lion", Namespace: "Zoo", GoName: "Lion"}, Parent: animal, Fields: []*symbol.Field{
		{Name: "kind", GoName: "Kind", WireName: "kind", Type: &symbol.ConstType{Value: ir.StringValue("lion"), Type: builtin(t, "string")}},
		{Name: "mane", GoName: "Mane", WireName: "mane", Type: str, Optional: true},
	}}
	p, err := Model(lion, local())
	require.NoError(t, err)
	assert.Equal(t, "Animal", p.Parent)
	require.Len(t, p.Stored, 1)
	assert.Equal(t, "Mane", p.Stored[0].GoName)
	require.Len(t, p.Constants, 1)
	require.Len(t, p.Codec, 3)
	assert.Equal(t, "Name", p.Codec[0].GoName)
}

func TestTypeUnion_Plan(t *testing.T) {
	str := builtin(t, "string")
	cat := &symbol.Model{Header: symbol.Header{Name: "Cat", Namespace: "Zoo", GoName: "Cat"}}
	kind := &symbol.Field{Name: "kind", GoName: "Kind", WireName: "kind", Type: &symbol.ConstType{Value: ir.StringValue("cat"), Type: str}}
	cat.Fields = []*symbol.Field{kind}
	u := pet()
	u.DiscriminatorName = "kind"
	u.Discriminator = &symbol.Discriminator{Name: "kind", GoName: "Kind", WireName: "kind", Type: str}
	u.Variants = []*symbol.TypeVariant{{Name: "Cat", GoName: "Cat", Model: cat, Field: kind}}

	p, err := TypeUnion(u, local())
	require.NoError(t, err)
	assert.Equal(t, "UnmarshalPet", p.Factory)
	assert.Equal(t, "Kind", p.Accessor)
	assert.Equal(t, "string", p.TagType)
	assert.Equal(t, []TypeVariantPlan{{Type: "Cat", Tag: `"cat"`}}, p.Variants)

	_, err = TypeUnion(pet(), local())
	assert.True(t, errors.Is(err, diag.ErrMissingDiscriminator))
}

func TestValueUnion_Plan(t *testing.T) {
	u := &symbol.ValueUnion{
		Header: symbol.Header{Name: "Shift", Namespace: "Zoo", GoName: "Shift"},
		Scalar: builtin(t, "duration"),
		Variants: []*symbol.ValueVariant{
			{Name: "short", GoName: "ShiftShort", Value: ir.IntegerValue("3600000000000")},
		},
	}
	q := local()
	p, err := ValueUnion(u, q)
	require.NoError(t, err)
	assert.Equal(t, "time.Duration", p.Scalar)
	assert.Equal(t, "3600000000000", p.Variants[0].Value)
	assert.Equal(t, []string{"time"}, q.Imports())
}
