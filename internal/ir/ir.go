// Package ir defines the input type graph handed to the generator by the host
// (the schema loader or any other front end). This package is internal and
// not part of the public API.
package ir

import (
	"strconv"
)

// NodeKind identifies an IR type expression.
type NodeKind int

const (
	NodeRef NodeKind = iota
	NodeLiteral
	NodeMember
	NodeTemplate
	NodeModel
	NodeUnion
	NodeNull
)

func (k NodeKind) String() string {
	switch k {
	case NodeRef:
		return "reference"
	case NodeLiteral:
		return "literal"
	case NodeMember:
		return "member"
	case NodeTemplate:
		return "template"
	case NodeModel:
		return "model"
	case NodeUnion:
		return "union"
	case NodeNull:
		return "null"
	}
	return "unknown(" + strconv.Itoa(int(k)) + ")"
}

// Type is a type expression.
type Type interface {
	Kind() NodeKind
}

// Decorator is a host annotation attached to a node, e.g. @doc("...").
type Decorator struct {
	Name string
	Args []any
}

// Annotated is implemented by every node that can carry decorators.
type Annotated interface {
	Decorations() []Decorator
}

// Namespace groups declarations. Decls keeps source order.
type Namespace struct {
	Name       string
	Decorators []Decorator
	Decls      []Decl
}

func (n *Namespace) Decorations() []Decorator { return n.Decorators }

// Decl is a top-level declaration: *Model or *Union.
type Decl interface {
	Type
	Annotated
	DeclName() string
}

// Model is a named (or inline, Name == "") product type.
type Model struct {
	Name       string
	Namespace  string
	Decorators []Decorator
	Base       *Ref // parent model, nil when none
	Properties []*Property
}

func (m *Model) Kind() NodeKind           { return NodeModel }
func (m *Model) Decorations() []Decorator { return m.Decorators }
func (m *Model) DeclName() string         { return m.Name }

// Property returns the property named name, or nil.
func (m *Model) Property(name string) *Property {
	for _, p := range m.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Property is a model field.
type Property struct {
	Name       string
	Decorators []Decorator
	Type       Type
	Optional   bool
}

func (p *Property) Decorations() []Decorator { return p.Decorators }

// Union is a named (or inline, Name == "") union.
type Union struct {
	Name       string
	Namespace  string
	Decorators []Decorator
	Variants   []*Variant
}

func (u *Union) Kind() NodeKind           { return NodeUnion }
func (u *Union) Decorations() []Decorator { return u.Decorators }
func (u *Union) DeclName() string         { return u.Name }

// Variant is a union member. Name is empty for unnamed variants.
type Variant struct {
	Name       string
	Decorators []Decorator
	Type       Type
}

func (v *Variant) Decorations() []Decorator { return v.Decorators }

// Ref references a named scalar, model or union. An empty Namespace means
// "the enclosing namespace, then the global scope".
type Ref struct {
	Name      string
	Namespace string
}

func (r *Ref) Kind() NodeKind { return NodeRef }

func (r *Ref) String() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}

// Literal is a constant value. Scalar optionally names the literal's scalar
// type (e.g. int32); empty means inferred from the value.
type Literal struct {
	Value  Value
	Scalar string
}

func (l *Literal) Kind() NodeKind { return NodeLiteral }

// MemberRef references one variant of a named value union.
type MemberRef struct {
	Union  Ref
	Member string
}

func (m *MemberRef) Kind() NodeKind { return NodeMember }

// TemplateRef instantiates a container template. Value arguments are
// *Literal nodes.
type TemplateRef struct {
	Name      string
	Namespace string
	Args      []Type
}

func (t *TemplateRef) Kind() NodeKind { return NodeTemplate }

type nullType struct{}

func (nullType) Kind() NodeKind { return NodeNull }

// Null is the null type; a union containing it is nullable.
var Null Type = nullType{}

// ValueKind classifies literal values.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueInteger
	ValueFloat
	ValueBoolean
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueInteger:
		return "integer"
	case ValueFloat:
		return "float"
	case ValueBoolean:
		return "boolean"
	}
	return "unknown"
}

// Value is a literal. Text holds the string value or the numeric text as
// written in the source.
type Value struct {
	Kind ValueKind
	Text string
	Bool bool
}

func StringValue(s string) Value     { return Value{Kind: ValueString, Text: s} }
func IntegerValue(text string) Value { return Value{Kind: ValueInteger, Text: text} }
func FloatValue(text string) Value   { return Value{Kind: ValueFloat, Text: text} }
func BooleanValue(b bool) Value      { return Value{Kind: ValueBoolean, Bool: b, Text: strconv.FormatBool(b)} }

// GoLiteral renders the value as Go source.
func (v Value) GoLiteral() string {
	switch v.Kind {
	case ValueString:
		return strconv.Quote(v.Text)
	case ValueBoolean:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Text
	}
}

func (v Value) String() string { return v.GoLiteral() }
