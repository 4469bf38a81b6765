package encode

import (
	"github.com/reoring/skemagen/internal/diag"
	"github.com/reoring/skemagen/internal/symbol"
)

// ValueUnionPlan renders a named scalar type with one constant per variant.
type ValueUnionPlan struct {
	Union    *symbol.ValueUnion
	GoName   string
	Doc      string
	Scalar   string
	Variants []ValueVariantPlan
}

type ValueVariantPlan struct {
	GoName string
	Doc    string
	Value  string
}

func ValueUnion(u *symbol.ValueUnion, q *Qualifier) (*ValueUnionPlan, error) {
	if u.Scalar == nil {
		return nil, diag.New(diag.CodeIncompatibleUnionType, u.Namespace, u.Name, "union was never resolved")
	}
	p := &ValueUnionPlan{Union: u, GoName: u.GoName, Doc: u.Doc, Scalar: u.Scalar.GoName}
	q.Use(u.Scalar.Import)
	for _, v := range u.Variants {
		p.Variants = append(p.Variants, ValueVariantPlan{GoName: v.GoName, Doc: v.Doc, Value: v.Value.GoLiteral()})
	}
	return p, nil
}

// TypeUnionPlan renders an interface over the variant models and a
// dispatching decoder keyed by the discriminator.
type TypeUnionPlan struct {
	Union    *symbol.TypeUnion
	GoName   string
	Doc      string
	Factory  string
	Accessor string // discriminator accessor method
	TagType  string
	TagVerb  string // fmt verb for the tag in the unknown-tag error
	WireName string
	Variants []TypeVariantPlan
}

type TypeVariantPlan struct {
	Type string // variant model, possibly package-qualified
	Tag  string // Go expression matching the discriminator value
}

func TypeUnion(u *symbol.TypeUnion, q *Qualifier) (*TypeUnionPlan, error) {
	d := u.Discriminator
	if d == nil {
		return nil, diag.New(diag.CodeMissingDiscriminator, u.Namespace, u.Name, "union was never finalized")
	}
	tagType, err := symbolType(d.Type, q)
	if err != nil {
		return nil, err
	}
	p := &TypeUnionPlan{
		Union:    u,
		GoName:   u.GoName,
		Doc:      u.Doc,
		Factory:  "Unmarshal" + u.GoName,
		Accessor: d.GoName,
		TagType:  tagType,
		TagVerb:  "%v",
		WireName: d.WireName,
	}
	if stringTag(d.Type) {
		p.TagVerb = "%q"
	}
	for _, v := range u.Variants {
		typ, err := q.Name(v.Model, v.Model.GoName)
		if err != nil {
			return nil, err
		}
		c := v.Field.Type.(*symbol.ConstType)
		tag := c.Value.GoLiteral()
		if c.Member != nil {
			if tag, err = q.Name(c.Type, c.Member.GoName); err != nil {
				return nil, err
			}
		}
		p.Variants = append(p.Variants, TypeVariantPlan{Type: typ, Tag: tag})
	}
	return p, nil
}

func stringTag(s symbol.Symbol) bool {
	switch t := s.(type) {
	case *symbol.Builtin:
		return t.Class == symbol.ClassString
	case *symbol.ValueUnion:
		return t.Scalar != nil && t.Scalar.Class == symbol.ClassString
	}
	return false
}
