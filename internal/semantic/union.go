package semantic

import (
	"strconv"

	"github.com/reoring/skemagen/internal/diag"
	"github.com/reoring/skemagen/internal/ir"
	"github.com/reoring/skemagen/internal/symbol"
)

// resolveUnion fills in a declared union. Value unions may be resolved early
// when a member reference needs their variants, so the result is memoized.
func (b *builder) resolveUnion(d *unionDecl) error {
	switch d.state {
	case resolved:
		return d.err
	case resolving:
		return diag.New(diag.CodeUnsupportedTypeKind, d.ns, symbol.Info(d.sym).Name, "union refers to itself")
	}
	d.state = resolving
	switch u := d.sym.(type) {
	case *symbol.ValueUnion:
		d.err = b.resolveValueUnion(d, u)
	case *symbol.TypeUnion:
		d.err = b.resolveTypeUnion(d, u)
	}
	d.state = resolved
	return d.err
}

// candidate is one variant's contribution to value-union inference.
type candidate struct {
	scalar   *symbol.Builtin
	explicit bool // a bare scalar variant such as `string | "a"`
	value    ir.Value
	variant  *ir.Variant
}

func (b *builder) resolveValueUnion(d *unionDecl, u *symbol.ValueUnion) error {
	var cands []candidate
	for _, v := range d.node.Variants {
		c, skip, err := b.valueCandidate(d, v)
		if err != nil {
			return err
		}
		if !skip {
			cands = append(cands, c)
		}
	}

	sc, err := b.inferScalar(cands)
	if err != nil {
		return withSymbol(err, d.ns, u.Name)
	}
	u.Scalar = sc

	for i, c := range cands {
		if c.explicit {
			continue
		}
		if !sc.Fits(c.value) {
			return diag.New(diag.CodeIncompatibleUnionType, d.ns, u.Name,
				"value %s is out of range for %s", c.value, sc.Name)
		}
		name := c.variant.Name
		if name == "" {
			name = c.value.Text
		}
		suffix := pascal(name)
		if suffix == "" {
			suffix = "Variant" + strconv.Itoa(i+1)
		}
		u.Variants = append(u.Variants, &symbol.ValueVariant{
			Name:   name,
			GoName: u.GoName + suffix,
			Doc:    b.ann.Doc(c.variant),
			Value:  c.value,
		})
	}
	b.log.Debug("resolved value union", "namespace", d.ns, "name", u.Name, "scalar", sc.Name)
	return nil
}

// valueCandidate classifies one value-union variant. skip is true for the
// null variant.
func (b *builder) valueCandidate(d *unionDecl, v *ir.Variant) (c candidate, skip bool, err error) {
	c.variant = v
	switch n := v.Type.(type) {
	case *ir.Literal:
		sc, err := b.literalScalar(d.ns, n)
		if err != nil {
			return c, false, err
		}
		c.scalar, c.value = sc, n.Value
		if n.Scalar == "" {
			// untyped literals only hint the class
			c.scalar = nil
		}
		return c, false, nil

	case *ir.MemberRef:
		m, err := b.member(d.ns, n)
		if err != nil {
			return c, false, err
		}
		vu := m.Type.(*symbol.ValueUnion)
		c.scalar, c.value = vu.Scalar, m.Value
		return c, false, nil

	case *ir.Ref:
		sym, err := b.lookup(d.ns, n.Namespace, n.Name)
		if err != nil {
			return c, false, withSymbol(err, d.ns, symbol.Info(d.sym).Name)
		}
		switch s := sym.(type) {
		case *symbol.Builtin:
			c.scalar, c.explicit = s, true
			return c, false, nil
		case *symbol.Model:
			return c, false, diag.New(diag.CodeUnsupportedTypeKind, d.ns, symbol.Info(d.sym).Name,
				"model variant %s requires a discriminator", s.Name)
		}
		return c, false, diag.New(diag.CodeUnsupportedTypeKind, d.ns, symbol.Info(d.sym).Name,
			"%s variant %s in a value union", sym.Kind(), n.Name)

	case *ir.Model:
		return c, false, diag.New(diag.CodeUnsupportedTypeKind, d.ns, symbol.Info(d.sym).Name,
			"model variant requires a discriminator")
	}
	if v.Type.Kind() == ir.NodeNull {
		return c, true, nil
	}
	return c, false, diag.New(diag.CodeUnsupportedTypeKind, d.ns, symbol.Info(d.sym).Name,
		"%s variant in a value union", v.Type.Kind())
}

// inferScalar picks the underlying scalar of a value union. An explicit
// scalar variant pins the type. Otherwise the first typed literal decides
// the integer width, and any float literal widens integers to float.
func (b *builder) inferScalar(cands []candidate) (*symbol.Builtin, error) {
	var pinned *symbol.Builtin
	for _, c := range cands {
		if !c.explicit {
			continue
		}
		if pinned == nil {
			pinned = c.scalar
			continue
		}
		if pinned.Class != c.scalar.Class {
			return nil, diag.New(diag.CodeIncompatibleUnionType, "", "",
				"scalar variants %s and %s disagree", pinned.Name, c.scalar.Name)
		}
	}

	var (
		class    = symbol.ClassOther
		first    *symbol.Builtin // first typed literal of the winning class
		floatLit *symbol.Builtin // first typed float literal
		seen     bool
	)
	for _, c := range cands {
		if c.explicit {
			continue
		}
		k := valueClass(c.value.Kind)
		if c.scalar != nil {
			k = c.scalar.Class
		}
		switch {
		case !seen:
			class, seen = k, true
		case k == class:
		case numeric(k) && numeric(class):
			class = symbol.ClassFloat
		default:
			return nil, diag.New(diag.CodeIncompatibleUnionType, "", "",
				"%s variant %s conflicts with %s variants", k, c.value, class)
		}
		if c.scalar != nil {
			if first == nil && c.scalar.Class == symbol.ClassInteger {
				first = c.scalar
			}
			if floatLit == nil && c.scalar.Class == symbol.ClassFloat {
				floatLit = c.scalar
			}
		}
	}

	if pinned != nil {
		if seen && !assignable(class, pinned.Class) {
			return nil, diag.New(diag.CodeIncompatibleUnionType, "", "",
				"%s variants do not fit %s", class, pinned.Name)
		}
		return pinned, nil
	}
	if !seen {
		return nil, diag.New(diag.CodeIncompatibleUnionType, "", "", "union has no scalar variant")
	}
	switch class {
	case symbol.ClassInteger:
		if first != nil {
			return first, nil
		}
		return b.builtin("integer"), nil
	case symbol.ClassFloat:
		if floatLit != nil {
			return floatLit, nil
		}
		return b.builtin("numeric"), nil
	case symbol.ClassBoolean:
		return b.builtin("boolean"), nil
	}
	return b.builtin("string"), nil
}

func valueClass(k ir.ValueKind) symbol.Class {
	switch k {
	case ir.ValueInteger:
		return symbol.ClassInteger
	case ir.ValueFloat:
		return symbol.ClassFloat
	case ir.ValueBoolean:
		return symbol.ClassBoolean
	}
	return symbol.ClassString
}

func numeric(c symbol.Class) bool { return c == symbol.ClassInteger || c == symbol.ClassFloat }

// assignable reports whether literals of class lit can be constants of a
// scalar of class to.
func assignable(lit, to symbol.Class) bool {
	return lit == to || (lit == symbol.ClassInteger && to == symbol.ClassFloat)
}

// builtin returns a scalar from the global scope.
func (b *builder) builtin(name string) *symbol.Builtin {
	s, _ := b.tbl.Find(name, "")
	sc, _ := s.(*symbol.Builtin)
	return sc
}

func (b *builder) resolveTypeUnion(d *unionDecl, u *symbol.TypeUnion) error {
	for _, v := range d.node.Variants {
		var target ir.Type = v.Type
		if target.Kind() == ir.NodeNull {
			continue
		}
		var sym symbol.Symbol
		var err error
		switch n := target.(type) {
		case *ir.Ref:
			sym, err = b.lookup(d.ns, n.Namespace, n.Name)
		case *ir.Model:
			sym, err = b.lookup(d.ns, d.ns, b.anon[n])
		default:
			return diag.New(diag.CodeUnsupportedTypeKind, d.ns, u.Name,
				"%s variant in a discriminated union", target.Kind())
		}
		if err != nil {
			return withSymbol(err, d.ns, u.Name)
		}
		m, ok := sym.(*symbol.Model)
		if !ok {
			return diag.New(diag.CodeUnsupportedTypeKind, d.ns, u.Name,
				"variant %s is a %s, not a model", symbol.Info(sym).Name, sym.Kind())
		}
		name := v.Name
		if name == "" {
			name = m.Name
		}
		doc := b.ann.Doc(v)
		if doc == "" {
			doc = m.Doc
		}
		u.Variants = append(u.Variants, &symbol.TypeVariant{
			Name:   name,
			GoName: m.GoName,
			Doc:    doc,
			Model:  m,
		})
	}
	return nil
}

// finalize validates ns once every namespace has been resolved. Each type
// union variant must declare the discriminator as a constant field with
// agreeing descriptors and distinct tags. Afterwards the rendered names and
// struct layouts are checked.
func (b *builder) finalize(ns string) error {
	for _, d := range b.unions {
		u, ok := d.sym.(*symbol.TypeUnion)
		if !ok || d.ns != ns {
			continue
		}
		if err := b.finalizeTypeUnion(u); err != nil {
			return err
		}
	}
	if err := b.checkNames(ns); err != nil {
		return err
	}
	return b.checkRecursion(ns)
}

func (b *builder) finalizeTypeUnion(u *symbol.TypeUnion) error {
	if len(u.Variants) == 0 {
		return diag.New(diag.CodeMissingDiscriminator, u.Namespace, u.Name, "no variants carry %q", u.DiscriminatorName)
	}
	tags := map[string]string{}
	for _, v := range u.Variants {
		f := v.Model.Field(u.DiscriminatorName)
		if f == nil {
			return diag.New(diag.CodeMissingDiscriminator, u.Namespace, u.Name,
				"variant %s has no field %q", v.Model.Name, u.DiscriminatorName)
		}
		c, ok := f.Type.(*symbol.ConstType)
		if !ok {
			return diag.New(diag.CodeMissingDiscriminator, u.Namespace, u.Name,
				"variant %s field %q is not a constant", v.Model.Name, u.DiscriminatorName)
		}
		desc := &symbol.Discriminator{
			Name:     u.DiscriminatorName,
			GoName:   f.GoName,
			WireName: f.WireName,
			Type:     c.Type,
		}
		if u.Discriminator == nil {
			u.Discriminator = desc
		} else if !sameDiscriminator(u.Discriminator, desc) {
			return diag.New(diag.CodeInconsistentDiscriminator, u.Namespace, u.Name,
				"variant %s declares %s (%s %s), expected %s (%s %s)",
				v.Model.Name, desc.GoName, desc.WireName, typeName(desc.Type),
				u.Discriminator.GoName, u.Discriminator.WireName, typeName(u.Discriminator.Type))
		}
		tag := c.Value.GoLiteral()
		if prev, dup := tags[tag]; dup {
			return diag.New(diag.CodeInconsistentDiscriminator, u.Namespace, u.Name,
				"variants %s and %s share tag %s", prev, v.Model.Name, tag)
		}
		tags[tag] = v.Model.Name
		v.Field = f
	}
	b.log.Debug("finalized type union", "namespace", u.Namespace, "name", u.Name, "variants", len(u.Variants))
	return nil
}

func sameDiscriminator(a, b *symbol.Discriminator) bool {
	return a.GoName == b.GoName && a.WireName == b.WireName && typeName(a.Type) == typeName(b.Type)
}

// typeName identifies a discriminator type by its rendered Go type, so that
// "integer" and "int64" literals agree.
func typeName(s symbol.Symbol) string {
	h := symbol.Info(s)
	if _, ok := s.(*symbol.Builtin); ok {
		return h.GoName
	}
	return h.Namespace + "." + h.GoName
}

// withSymbol attaches namespace and symbol to an issue that lacks them.
func withSymbol(err error, ns, sym string) error {
	if is, ok := diag.AsIssue(err); ok && is.Symbol == "" && is.Namespace == "" {
		is.Namespace, is.Symbol = ns, sym
	}
	return err
}
