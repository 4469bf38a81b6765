// Package encode computes, per model field, the Go type expression and the
// serialization rules the emitter renders.
package encode

import (
	"github.com/reoring/skemagen/internal/diag"
	"github.com/reoring/skemagen/internal/symbol"
)

// Shape is how a field is stored and serialized.
type Shape int

const (
	Required Shape = iota
	Optional
	Nullable
	Constant
)

func (s Shape) String() string {
	switch s {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case Nullable:
		return "nullable"
	case Constant:
		return "constant"
	}
	return "unknown"
}

// Dispatch is how a field holding type-union values is decoded.
type Dispatch int

const (
	DispatchNone   Dispatch = iota
	DispatchDirect          // the field is the union
	DispatchList            // []Union
	DispatchMap             // map[string]Union
)

// FieldPlan is the rendering recipe for one field.
type FieldPlan struct {
	Field    *symbol.Field
	GoName   string
	WireName string
	Doc      string
	Shape    Shape

	// Type is the bare Go type; Decl wraps it per Shape.
	Type string
	Decl string

	// Constants only.
	Value string

	Dispatch Dispatch
	Factory  string // Unmarshal<Union>, possibly package-qualified
	Elem     string // union interface type for list/map dispatch

	Interface bool   // Type is an interface
	runtime   string // nullable runtime package name
}

// Wrap converts a decoded value expression of Type into the stored form.
func (f *FieldPlan) Wrap(x string) string {
	switch {
	case f.Shape == Nullable:
		return f.runtime + ".Set(" + x + ")"
	case f.Shape == Optional && !f.Interface:
		return "&" + x
	}
	return x
}

func (f *FieldPlan) IsRequired() bool { return f.Shape == Required }
func (f *FieldPlan) IsOptional() bool { return f.Shape == Optional }
func (f *FieldPlan) IsNullable() bool { return f.Shape == Nullable }
func (f *FieldPlan) IsConstant() bool { return f.Shape == Constant }

// Null is the stored form of an explicit JSON null for a nullable field.
func (f *FieldPlan) Null() string { return f.runtime + ".Null[" + f.Type + "]()" }

// ModelPlan is the rendering recipe for one model.
type ModelPlan struct {
	Model  *symbol.Model
	GoName string
	Doc    string
	Parent string // embedded parent type, if any

	Stored    []*FieldPlan // own non-constant fields, struct order
	Constants []*FieldPlan // own constant fields, one accessor each
	Codec     []*FieldPlan // every field including inherited ones
}

// Model plans m for emission through q.
func Model(m *symbol.Model, q *Qualifier) (*ModelPlan, error) {
	p := &ModelPlan{Model: m, GoName: m.GoName, Doc: m.Doc}
	if m.Parent != nil {
		name, err := q.Name(m.Parent, m.Parent.GoName)
		if err != nil {
			return nil, err
		}
		p.Parent = name
	}
	own := map[*symbol.Field]*FieldPlan{}
	for _, f := range m.Fields {
		fp, err := Field(f, q)
		if err != nil {
			return nil, withField(err, m, f)
		}
		own[f] = fp
		if fp.Shape == Constant {
			p.Constants = append(p.Constants, fp)
		} else {
			p.Stored = append(p.Stored, fp)
		}
	}
	for _, f := range m.AllFields() {
		fp := own[f]
		if fp == nil {
			var err error
			if fp, err = Field(f, q); err != nil {
				return nil, withField(err, m, f)
			}
		}
		p.Codec = append(p.Codec, fp)
	}
	return p, nil
}

// Field plans a single field.
func Field(f *symbol.Field, q *Qualifier) (*FieldPlan, error) {
	fp := &FieldPlan{Field: f, GoName: f.GoName, WireName: f.WireName, Doc: f.Doc}

	if c, ok := f.Type.(*symbol.ConstType); ok {
		t, err := symbolType(c.Type, q)
		if err != nil {
			return nil, err
		}
		fp.Shape, fp.Type, fp.Decl = Constant, t, t
		fp.Value = c.Value.GoLiteral()
		if c.Member != nil {
			if fp.Value, err = q.Name(c.Type, c.Member.GoName); err != nil {
				return nil, err
			}
		}
		return fp, nil
	}

	t, err := TypeExpr(f.Type, q)
	if err != nil {
		return nil, err
	}
	fp.Type = t
	if err := plan(fp, f.Type, q); err != nil {
		return nil, err
	}

	switch {
	case f.Nullable:
		fp.Shape = Nullable
		fp.runtime = q.Runtime()
		fp.Decl = fp.runtime + ".Nullable[" + t + "]"
	case f.Optional:
		fp.Shape = Optional
		fp.Decl = t
		if !fp.Interface {
			fp.Decl = "*" + t
		}
	default:
		fp.Shape = Required
		fp.Decl = t
	}
	return fp, nil
}

// plan fills the dispatch rules. A type union may appear as the field type
// or as the element of one list or map; deeper nesting is rejected.
func plan(fp *FieldPlan, pt symbol.PropertyType, q *Qualifier) error {
	switch t := pt.(type) {
	case *symbol.RefType:
		if u, ok := t.Symbol.(*symbol.TypeUnion); ok {
			factory, err := q.Name(u, "Unmarshal"+u.GoName)
			if err != nil {
				return err
			}
			fp.Dispatch, fp.Factory, fp.Interface = DispatchDirect, factory, true
		}
	case *symbol.TemplateType:
		arg, ok := t.Args[0].(symbol.TypeArg)
		if !ok {
			return nil
		}
		if ref, ok := arg.Type.(*symbol.RefType); ok {
			if u, ok := ref.Symbol.(*symbol.TypeUnion); ok {
				factory, err := q.Name(u, "Unmarshal"+u.GoName)
				if err != nil {
					return err
				}
				elem, err := q.Name(u, u.GoName)
				if err != nil {
					return err
				}
				fp.Factory, fp.Elem = factory, elem
				fp.Dispatch = DispatchList
				if t.Template.Name == "Record" {
					fp.Dispatch = DispatchMap
				}
				return nil
			}
		}
		if containsTypeUnion(arg.Type) {
			return diag.New(diag.CodeUnsupportedTypeKind, "", "", "type union nested deeper than one container")
		}
	}
	return nil
}

func containsTypeUnion(pt symbol.PropertyType) bool {
	switch t := pt.(type) {
	case *symbol.RefType:
		_, ok := t.Symbol.(*symbol.TypeUnion)
		return ok
	case *symbol.TemplateType:
		for _, a := range t.Args {
			if ta, ok := a.(symbol.TypeArg); ok && containsTypeUnion(ta.Type) {
				return true
			}
		}
	}
	return false
}

// TypeExpr renders a property type as Go source.
func TypeExpr(pt symbol.PropertyType, q *Qualifier) (string, error) {
	switch t := pt.(type) {
	case *symbol.RefType:
		return symbolType(t.Symbol, q)
	case *symbol.ConstType:
		return symbolType(t.Type, q)
	case *symbol.TemplateType:
		args := make([]string, 0, len(t.Args))
		for _, a := range t.Args {
			ta, ok := a.(symbol.TypeArg)
			if !ok {
				return "", diag.New(diag.CodeUnsupportedTypeKind, "", t.Template.Name, "value argument to a container template")
			}
			s, err := TypeExpr(ta.Type, q)
			if err != nil {
				return "", err
			}
			args = append(args, s)
		}
		return t.Template.Render(args...), nil
	}
	return "", diag.New(diag.CodeUnsupportedTypeKind, "", "", "unknown property type %T", pt)
}

func symbolType(sym symbol.Symbol, q *Qualifier) (string, error) {
	switch s := sym.(type) {
	case *symbol.Builtin:
		q.Use(s.Import)
		return s.GoName, nil
	case *symbol.Template:
		return "", diag.New(diag.CodeUnsupportedTypeKind, "", s.Name, "template used without arguments")
	}
	return q.Name(sym, symbol.Info(sym).GoName)
}

func withField(err error, m *symbol.Model, f *symbol.Field) error {
	if is, ok := diag.AsIssue(err); ok && is.Symbol == "" {
		is.Namespace, is.Symbol = m.Namespace, m.Name+"."+f.Name
	}
	return err
}
