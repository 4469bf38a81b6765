// Package symbol holds the resolved semantic model: the symbol kinds the
// builder produces and the table they live in.
package symbol

import "github.com/reoring/skemagen/internal/ir"

// Kind tags a Symbol.
type Kind int

const (
	KindModel Kind = iota
	KindValueUnion
	KindTypeUnion
	KindBuiltin
	KindTemplate
)

func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindValueUnion:
		return "value union"
	case KindTypeUnion:
		return "type union"
	case KindBuiltin:
		return "built-in scalar"
	case KindTemplate:
		return "built-in template"
	}
	return "unknown"
}

// Header carries the attributes common to every symbol.
type Header struct {
	Name      string // source name
	Namespace string // empty for the global scope
	GoName    string
	Doc       string
}

func (h *Header) header() *Header { return h }

// Symbol is implemented by *Model, *ValueUnion, *TypeUnion, *Builtin and
// *Template only.
type Symbol interface {
	Kind() Kind
	header() *Header
}

// Info returns the common attributes of s.
func Info(s Symbol) *Header { return s.header() }

// Model is a struct-like type with ordered fields and an optional parent.
type Model struct {
	Header
	Parent    *Model
	Fields    []*Field
	Anonymous bool
}

func (*Model) Kind() Kind { return KindModel }

// AllFields returns the parent's fields overridden or extended by the
// model's own fields, keyed by source name. An overriding field keeps the
// parent's position.
func (m *Model) AllFields() []*Field {
	if m.Parent == nil {
		return m.Fields
	}
	out := append([]*Field(nil), m.Parent.AllFields()...)
	idx := make(map[string]int, len(out))
	for i, f := range out {
		idx[f.Name] = i
	}
	for _, f := range m.Fields {
		if i, ok := idx[f.Name]; ok {
			out[i] = f
			continue
		}
		idx[f.Name] = len(out)
		out = append(out, f)
	}
	return out
}

// Field looks a field up by source name, including inherited fields.
func (m *Model) Field(name string) *Field {
	for _, f := range m.AllFields() {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Field is a model member.
type Field struct {
	Name     string
	GoName   string
	WireName string
	Doc      string
	Type     PropertyType
	Optional bool
	Nullable bool
}

// Constant reports whether the field holds a fixed literal.
func (f *Field) Constant() bool {
	_, ok := f.Type.(*ConstType)
	return ok
}

// PropertyType is implemented by *RefType, *ConstType and *TemplateType.
type PropertyType interface {
	propertyType()
}

// RefType refers to a model, union or scalar.
type RefType struct {
	Symbol Symbol
}

// ConstType is a literal. Type is the *Builtin scalar or, for enum members,
// the *ValueUnion the literal belongs to (then Member is set).
type ConstType struct {
	Value  ir.Value
	Type   Symbol
	Member *ValueVariant
}

// TemplateType instantiates a container template.
type TemplateType struct {
	Template *Template
	Args     []TemplateArg
}

func (*RefType) propertyType()      {}
func (*ConstType) propertyType()    {}
func (*TemplateType) propertyType() {}

// TemplateArg is implemented by TypeArg and ValueArg.
type TemplateArg interface {
	templateArg()
}

type TypeArg struct{ Type PropertyType }

type ValueArg struct{ Value ir.Value }

func (TypeArg) templateArg()  {}
func (ValueArg) templateArg() {}

// ValueUnion is an enumeration of literals over one scalar. Scalar stays nil
// until the union is resolved.
type ValueUnion struct {
	Header
	Scalar    *Builtin
	Variants  []*ValueVariant
	Anonymous bool
	Nullable  bool
}

func (*ValueUnion) Kind() Kind { return KindValueUnion }

// Variant looks a variant up by source name.
func (u *ValueUnion) Variant(name string) *ValueVariant {
	for _, v := range u.Variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}

type ValueVariant struct {
	Name   string
	GoName string
	Doc    string
	Value  ir.Value
}

// TypeUnion is a tagged union of models discriminated by a constant field.
type TypeUnion struct {
	Header
	DiscriminatorName string
	Discriminator     *Discriminator // set by finalization
	Variants          []*TypeVariant
	Anonymous         bool
	Nullable          bool
}

func (*TypeUnion) Kind() Kind { return KindTypeUnion }

// Discriminator describes the tag field shared by every variant.
type Discriminator struct {
	Name     string
	GoName   string
	WireName string
	Type     Symbol
}

type TypeVariant struct {
	Name   string
	GoName string
	Doc    string
	Model  *Model
	Field  *Field // the model's discriminator field, set by finalization
}

// Tag returns the variant's discriminator value.
func (v *TypeVariant) Tag() (ir.Value, bool) {
	if v.Field == nil {
		return ir.Value{}, false
	}
	c, ok := v.Field.Type.(*ConstType)
	if !ok {
		return ir.Value{}, false
	}
	return c.Value, true
}
