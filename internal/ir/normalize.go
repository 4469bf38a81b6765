package ir

// NormalizeInheritance returns a new namespace in which every base model
// carrying a discriminator is replaced by a union of the same name over its
// leaf descendants. Every descendant is flattened (inherited properties first,
// overridden by the child) and loses its parent link. ns is not modified.
//
// A discriminated base without descendants is left as a plain model. A
// discriminated model that descends from another discriminated base is
// flattened into the outer hierarchy and does not become a union itself.
func NormalizeInheritance(ns *Namespace, a Annotator) *Namespace {
	out := &Namespace{Name: ns.Name, Decorators: ns.Decorators}

	children := map[string][]*Model{}
	local := func(m *Model) bool {
		return m.Base != nil && (m.Base.Namespace == "" || m.Base.Namespace == ns.Name)
	}
	for _, d := range ns.Decls {
		if m, ok := d.(*Model); ok && local(m) {
			children[m.Base.Name] = append(children[m.Base.Name], m)
		}
	}

	unions := map[*Model]*Union{}
	flat := map[*Model]*Model{}
	for _, d := range ns.Decls {
		m, ok := d.(*Model)
		if !ok || a.Discriminator(m) == "" || len(children[m.Name]) == 0 {
			continue
		}
		if discriminatedAncestor(ns, m, a) {
			continue
		}
		u := &Union{Name: m.Name, Namespace: m.Namespace, Decorators: m.Decorators}
		var visit func(parent *Model, chain []*Model)
		visit = func(parent *Model, chain []*Model) {
			for _, c := range children[parent.Name] {
				cc := append(append([]*Model(nil), chain...), c)
				flat[c] = flatten(cc)
				if len(children[c.Name]) == 0 {
					u.Variants = append(u.Variants, &Variant{
						Name: c.Name,
						Type: &Ref{Name: c.Name, Namespace: ns.Name},
					})
					continue
				}
				visit(c, cc)
			}
		}
		visit(m, []*Model{m})
		unions[m] = u
	}

	if len(unions) == 0 {
		out.Decls = append([]Decl(nil), ns.Decls...)
		return out
	}
	for _, d := range ns.Decls {
		m, ok := d.(*Model)
		switch {
		case !ok:
			out.Decls = append(out.Decls, d)
		case unions[m] != nil:
			out.Decls = append(out.Decls, unions[m])
		case flat[m] != nil:
			out.Decls = append(out.Decls, flat[m])
		default:
			out.Decls = append(out.Decls, m)
		}
	}
	return out
}

func discriminatedAncestor(ns *Namespace, m *Model, a Annotator) bool {
	byName := map[string]*Model{}
	for _, d := range ns.Decls {
		if dm, ok := d.(*Model); ok {
			byName[dm.Name] = dm
		}
	}
	seen := map[*Model]bool{m: true}
	for m.Base != nil {
		p := byName[m.Base.Name]
		if p == nil || seen[p] {
			return false
		}
		if a.Discriminator(p) != "" {
			return true
		}
		seen[p] = true
		m = p
	}
	return false
}

// flatten merges the properties of chain (root first) into a copy of the
// last model. A child property replaces the inherited one at its position.
func flatten(chain []*Model) *Model {
	leaf := chain[len(chain)-1]
	m := &Model{Name: leaf.Name, Namespace: leaf.Namespace, Decorators: leaf.Decorators}
	idx := map[string]int{}
	for _, lvl := range chain {
		for _, p := range lvl.Properties {
			cp := cloneProperty(p)
			if i, ok := idx[p.Name]; ok {
				m.Properties[i] = cp
				continue
			}
			idx[p.Name] = len(m.Properties)
			m.Properties = append(m.Properties, cp)
		}
	}
	return m
}

// cloneProperty deep-copies inline models and unions so that each flattened
// model owns its anonymous types.
func cloneProperty(p *Property) *Property {
	cp := *p
	cp.Type = cloneType(p.Type)
	return &cp
}

func cloneType(t Type) Type {
	switch n := t.(type) {
	case *Model:
		cm := *n
		cm.Properties = make([]*Property, len(n.Properties))
		for i, p := range n.Properties {
			cm.Properties[i] = cloneProperty(p)
		}
		return &cm
	case *Union:
		cu := *n
		cu.Variants = make([]*Variant, len(n.Variants))
		for i, v := range n.Variants {
			cv := *v
			cv.Type = cloneType(v.Type)
			cu.Variants[i] = &cv
		}
		return &cu
	case *TemplateRef:
		ct := *n
		ct.Args = make([]Type, len(n.Args))
		for i, a := range n.Args {
			ct.Args[i] = cloneType(a)
		}
		return &ct
	}
	return t
}
