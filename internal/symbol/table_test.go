package symbol

import (
	"errors"
	"testing"

	"github.com/reoring/skemagen/internal/diag"
	"github.com/reoring/skemagen/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_PushAndFind(t *testing.T) {
	tbl := NewTable()
	lion := &Model{Header: Header{Name: "Lion", Namespace: "Zoo", GoName: "Lion"}}
	require.NoError(t, tbl.Push(lion))

	got, ok := tbl.Find("Lion", "Zoo")
	require.True(t, ok)
	assert.Same(t, lion, got)

	_, ok = tbl.Find("Lion", "Farm")
	assert.False(t, ok)

	// built-ins resolve by bare name from any namespace
	s, ok := tbl.Find("int32", "Zoo")
	require.True(t, ok)
	assert.Equal(t, KindBuiltin, s.Kind())
	assert.Equal(t, "int32", Info(s).GoName)
}

func TestTable_DuplicateSymbol(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Push(&Model{Header: Header{Name: "Pet", Namespace: "Zoo"}}))
	err := tbl.Push(&ValueUnion{Header: Header{Name: "Pet", Namespace: "Zoo"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.ErrDuplicateSymbol))
	is, ok := diag.AsIssue(err)
	require.True(t, ok)
	assert.Equal(t, "Zoo", is.Namespace)
	assert.Equal(t, "Pet", is.Symbol)

	// same name in another namespace is fine
	require.NoError(t, tbl.Push(&Model{Header: Header{Name: "Pet", Namespace: "Farm"}}))
	// a user symbol may shadow a built-in inside its namespace
	require.NoError(t, tbl.Push(&Model{Header: Header{Name: "string", Namespace: "Zoo"}}))
	s, _ := tbl.Find("string", "Zoo")
	assert.Equal(t, KindModel, s.Kind())
}

func TestTable_DeferResolve(t *testing.T) {
	tbl := NewTable()
	ref := tbl.Defer("Keeper", "Zoo")

	_, err := tbl.Resolve(ref)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declaration pass incomplete")

	keeper := &Model{Header: Header{Name: "Keeper", Namespace: "Zoo"}}
	require.NoError(t, tbl.Push(keeper))
	tbl.Seal()
	assert.True(t, tbl.Sealed())

	s, err := tbl.Resolve(ref)
	require.NoError(t, err)
	assert.Same(t, keeper, s)

	_, err = tbl.Resolve(tbl.Defer("Ghost", "Zoo"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.ErrUnresolvedReference))
	assert.NotContains(t, err.Error(), "incomplete")
}

func TestTable_SymbolsInPushOrder(t *testing.T) {
	tbl := NewTable()
	a := &Model{Header: Header{Name: "A", Namespace: "Zoo"}}
	b := &ValueUnion{Header: Header{Name: "B", Namespace: "Zoo"}}
	c := &Model{Header: Header{Name: "C", Namespace: "Farm"}}
	for _, s := range []Symbol{a, b, c} {
		require.NoError(t, tbl.Push(s))
	}
	assert.Equal(t, []Symbol{a, b}, tbl.Symbols("Zoo"))
	assert.Equal(t, []string{"Zoo", "Farm"}, tbl.Namespaces())
	assert.Empty(t, tbl.Symbols("Nowhere"))
}

func TestModel_AllFieldsOverride(t *testing.T) {
	parent := &Model{Fields: []*Field{{Name: "kind"}, {Name: "name"}}}
	override := &Field{Name: "kind", Type: &ConstType{Value: ir.StringValue("cat")}}
	child := &Model{Parent: parent, Fields: []*Field{override, {Name: "lives"}}}

	all := child.AllFields()
	require.Len(t, all, 3)
	assert.Same(t, override, all[0])
	assert.Equal(t, "name", all[1].Name)
	assert.Equal(t, "lives", all[2].Name)
	assert.True(t, child.Field("kind").Constant())
	assert.Nil(t, child.Field("tail"))
	assert.Len(t, parent.AllFields(), 2)
}

func TestBuiltins(t *testing.T) {
	tbl := NewTable()
	cases := []struct {
		name, goName string
		class        Class
		imp          string
	}{
		{"integer", "int64", ClassInteger, ""},
		{"safeint", "int64", ClassInteger, ""},
		{"uint8", "uint8", ClassInteger, ""},
		{"numeric", "float64", ClassFloat, ""},
		{"float32", "float32", ClassFloat, ""},
		{"boolean", "bool", ClassBoolean, ""},
		{"bytes", "[]byte", ClassOther, ""},
		{"duration", "time.Duration", ClassOther, "time"},
		{"utcDateTime", "time.Time", ClassOther, "time"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, ok := tbl.Find(tc.name, "")
			require.True(t, ok)
			b, ok := s.(*Builtin)
			require.True(t, ok)
			assert.Equal(t, tc.goName, b.GoName)
			assert.Equal(t, tc.class, b.Class)
			assert.Equal(t, tc.imp, b.Import)
		})
	}

	arr, _ := tbl.Find("Array", "")
	rec, _ := tbl.Find("Record", "")
	assert.Equal(t, "[]Lion", arr.(*Template).Render("Lion"))
	assert.Equal(t, "map[string]int32", rec.(*Template).Render("int32"))
}

func TestBuiltin_Fits(t *testing.T) {
	i8, _ := NewTable().Find("int8", "")
	u16, _ := NewTable().Find("uint16", "")
	f32, _ := NewTable().Find("float32", "")
	assert.True(t, i8.(*Builtin).Fits(ir.IntegerValue("127")))
	assert.False(t, i8.(*Builtin).Fits(ir.IntegerValue("128")))
	assert.False(t, u16.(*Builtin).Fits(ir.IntegerValue("-1")))
	assert.True(t, u16.(*Builtin).Fits(ir.IntegerValue("65535")))
	assert.True(t, f32.(*Builtin).Fits(ir.IntegerValue("3")))
	assert.False(t, i8.(*Builtin).Fits(ir.StringValue("1")))
}
