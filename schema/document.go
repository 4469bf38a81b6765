// Package schema reads schema documents written in YAML or JSON into the
// input graph consumed by the generator.
package schema

import (
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"gitlab.com/tozd/go/errors"

	"github.com/reoring/skemagen/internal/ir"
)

// object tracks which keys of a mapping were consumed so that unknown keys
// can be reported.
type object struct {
	path string
	m    map[string]any
	used map[string]bool
}

func asObject(path string, v any) (*object, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.Errorf("%s: expected a mapping, got %s", path, describe(v))
	}
	return &object{path: path, m: m, used: map[string]bool{}}, nil
}

func (o *object) at(key string) string { return o.path + "." + key }

func (o *object) get(key string) (any, bool) {
	v, ok := o.m[key]
	if ok {
		o.used[key] = true
	}
	return v, ok
}

func (o *object) str(key string) (string, error) {
	v, ok := o.get(key)
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.Errorf("%s: expected a string, got %s", o.at(key), describe(v))
	}
	return s, nil
}

func (o *object) flag(key string) (bool, error) {
	v, ok := o.get(key)
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.Errorf("%s: expected a boolean, got %s", o.at(key), describe(v))
	}
	return b, nil
}

func (o *object) list(key string) ([]any, error) {
	v, ok := o.get(key)
	if !ok || v == nil {
		return nil, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, errors.Errorf("%s: expected a list, got %s", o.at(key), describe(v))
	}
	return l, nil
}

// decorators reads doc, encodedName and discriminator.
func (o *object) decorators() ([]ir.Decorator, error) {
	var out []ir.Decorator
	doc, err := o.str("doc")
	if err != nil {
		return nil, err
	}
	if doc != "" {
		out = append(out, ir.Doc(doc))
	}
	if v, ok := o.get("encodedName"); ok && v != nil {
		names, err := asObject(o.at("encodedName"), v)
		if err != nil {
			return nil, err
		}
		media := make([]string, 0, len(names.m))
		for k := range names.m {
			media = append(media, k)
		}
		sort.Strings(media)
		for _, mt := range media {
			name, err := names.str(mt)
			if err != nil {
				return nil, err
			}
			out = append(out, ir.EncodedName(mt, name))
		}
	}
	disc, err := o.str("discriminator")
	if err != nil {
		return nil, err
	}
	if disc != "" {
		out = append(out, ir.Discriminator(disc))
	}
	return out, nil
}

func (o *object) finish() error {
	var unknown []string
	for k := range o.m {
		if !o.used[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return errors.Errorf("%s: unknown keys %s", o.path, strings.Join(unknown, ", "))
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "a mapping"
	case []any:
		return "a list"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case json.Number:
		return "a number"
	}
	return fmt.Sprintf("%T", v)
}

// decodeDocument converts one document into a namespace.
func decodeDocument(path string, v any) (*ir.Namespace, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	ns := &ir.Namespace{}
	if ns.Name, err = o.str("namespace"); err != nil {
		return nil, err
	}
	if ns.Name == "" {
		return nil, errors.Errorf("%s: namespace is required", path)
	}
	if ns.Decorators, err = o.decorators(); err != nil {
		return nil, err
	}
	types, err := o.list("types")
	if err != nil {
		return nil, err
	}
	for i, t := range types {
		d, err := decodeDecl(fmt.Sprintf("%s.types[%d]", path, i), t)
		if err != nil {
			return nil, err
		}
		ns.Decls = append(ns.Decls, d)
	}
	return ns, o.finish()
}

func decodeDecl(path string, v any) (ir.Decl, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	_, isModel := o.m["model"]
	_, isUnion := o.m["union"]
	switch {
	case isModel && isUnion:
		return nil, errors.Errorf("%s: both model and union given", path)
	case isModel:
		name, err := o.str("model")
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, errors.Errorf("%s: model name is required", path)
		}
		return decodeModel(o, name)
	case isUnion:
		name, err := o.str("union")
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, errors.Errorf("%s: union name is required", path)
		}
		return decodeUnion(o, name)
	}
	return nil, errors.Errorf("%s: expected a model or union declaration", path)
}

func decodeModel(o *object, name string) (*ir.Model, error) {
	m := &ir.Model{Name: name}
	var err error
	if m.Decorators, err = o.decorators(); err != nil {
		return nil, err
	}
	base, err := o.str("extends")
	if err != nil {
		return nil, err
	}
	if base != "" {
		ns, local := splitQualified(base)
		m.Base = &ir.Ref{Name: local, Namespace: ns}
	}
	props, err := o.list("properties")
	if err != nil {
		return nil, err
	}
	for i, p := range props {
		prop, err := decodeProperty(fmt.Sprintf("%s.properties[%d]", o.path, i), p)
		if err != nil {
			return nil, err
		}
		m.Properties = append(m.Properties, prop)
	}
	return m, o.finish()
}

func decodeProperty(path string, v any) (*ir.Property, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	p := &ir.Property{}
	if p.Name, err = o.str("name"); err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, errors.Errorf("%s: property name is required", path)
	}
	if p.Decorators, err = o.decorators(); err != nil {
		return nil, err
	}
	if p.Optional, err = o.flag("optional"); err != nil {
		return nil, err
	}
	nullable, err := o.flag("nullable")
	if err != nil {
		return nil, err
	}
	t, ok := o.get("type")
	if !ok {
		return nil, errors.Errorf("%s: type is required", path)
	}
	if p.Type, err = decodeType(o.at("type"), t); err != nil {
		return nil, err
	}
	if nullable {
		p.Type = &ir.Union{Variants: []*ir.Variant{{Type: p.Type}, {Type: ir.Null}}}
	}
	return p, o.finish()
}

func decodeUnion(o *object, name string) (*ir.Union, error) {
	u := &ir.Union{Name: name}
	var err error
	if u.Decorators, err = o.decorators(); err != nil {
		return nil, err
	}
	vs, err := o.list("variants")
	if err != nil {
		return nil, err
	}
	for i, v := range vs {
		variant, err := decodeVariant(fmt.Sprintf("%s.variants[%d]", o.path, i), v)
		if err != nil {
			return nil, err
		}
		u.Variants = append(u.Variants, variant)
	}
	return u, o.finish()
}

func decodeVariant(path string, v any) (*ir.Variant, error) {
	o, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	vr := &ir.Variant{}
	if vr.Name, err = o.str("name"); err != nil {
		return nil, err
	}
	if vr.Decorators, err = o.decorators(); err != nil {
		return nil, err
	}
	t, ok := o.get("type")
	if !ok {
		return nil, errors.Errorf("%s: type is required", path)
	}
	if vr.Type, err = decodeType(o.at("type"), t); err != nil {
		return nil, err
	}
	return vr, o.finish()
}

// decodeType accepts the string shorthand or one of the mapping forms
// literal, member, union and model.
func decodeType(path string, v any) (ir.Type, error) {
	switch t := v.(type) {
	case string:
		typ, err := ParseType(t)
		if err != nil {
			return nil, errors.Errorf("%s: %w", path, err)
		}
		return typ, nil
	case nil:
		return ir.Null, nil
	case map[string]any:
	default:
		return nil, errors.Errorf("%s: expected a type, got %s", path, describe(v))
	}

	o, _ := asObject(path, v)
	if lit, ok := o.get("literal"); ok {
		val, err := literalValue(o.at("literal"), lit)
		if err != nil {
			return nil, err
		}
		l := &ir.Literal{Value: val}
		if l.Scalar, err = o.str("scalar"); err != nil {
			return nil, err
		}
		return l, o.finish()
	}
	if _, ok := o.m["member"]; ok {
		ref, err := o.str("member")
		if err != nil {
			return nil, err
		}
		union, member := splitQualified(ref)
		if union == "" || member == "" {
			return nil, errors.Errorf("%s: member must be Union.variant, got %q", o.at("member"), ref)
		}
		ns, name := splitQualified(union)
		return &ir.MemberRef{Union: ir.Ref{Name: name, Namespace: ns}, Member: member}, o.finish()
	}
	if inner, ok := o.get("union"); ok {
		uo, err := asObject(o.at("union"), inner)
		if err != nil {
			return nil, err
		}
		if err := o.finish(); err != nil {
			return nil, err
		}
		return decodeUnion(uo, "")
	}
	if inner, ok := o.get("model"); ok {
		mo, err := asObject(o.at("model"), inner)
		if err != nil {
			return nil, err
		}
		if err := o.finish(); err != nil {
			return nil, err
		}
		return decodeModel(mo, "")
	}
	return nil, errors.Errorf("%s: expected one of literal, member, union or model", path)
}

func literalValue(path string, v any) (ir.Value, error) {
	switch t := v.(type) {
	case string:
		return ir.StringValue(t), nil
	case bool:
		return ir.BooleanValue(t), nil
	case json.Number:
		s := string(t)
		lower := strings.ToLower(s)
		if strings.HasPrefix(strings.TrimLeft(lower, "+-"), "0x") || !strings.ContainsAny(lower, ".e") {
			return ir.IntegerValue(s), nil
		}
		return ir.FloatValue(s), nil
	}
	return ir.Value{}, errors.Errorf("%s: expected a string, number or boolean, got %s", path, describe(v))
}
