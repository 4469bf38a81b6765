package semantic

import (
	"strconv"

	"github.com/reoring/skemagen/internal/diag"
	"github.com/reoring/skemagen/internal/ir"
	"github.com/reoring/skemagen/internal/symbol"
)

type frameKind int

const (
	frameModel frameKind = iota
	frameProperty
	frameUnion
	frameVariant
	frameCollapsed
)

type frame struct {
	kind   frameKind
	name   string    // source name of the member, or Go name of the owner
	member int       // variant index
	union  *ir.Union // set on union and collapsed frames
}

// declarer is the declaration pass: it pushes one symbol per named or
// anonymous model and union, naming anonymous ones after their owner.
type declarer struct {
	ir.BaseVisitor
	b      *builder
	ns     string
	frames []frame
}

func (b *builder) declare(ns *ir.Namespace) error {
	d := &declarer{b: b, ns: ns.Name}
	return ir.Walk(ns, d)
}

func (d *declarer) push(f frame) { d.frames = append(d.frames, f) }

func (d *declarer) pop() error {
	d.frames = d.frames[:len(d.frames)-1]
	return nil
}

// anonymousName names an inline type after the enclosing owner and member,
// e.g. model Lion, property habitat -> LionHabitat.
func (d *declarer) anonymousName() string {
	member := -1
	for i := len(d.frames) - 1; i >= 0; i-- {
		if d.frames[i].kind == frameProperty || d.frames[i].kind == frameVariant {
			member = i
			break
		}
	}
	if member < 0 {
		return ""
	}
	m := d.frames[member]
	suffix := pascal(m.name)
	if m.kind == frameVariant && m.name == "" {
		suffix = "Variant" + strconv.Itoa(m.member+1)
	}
	for i := member - 1; i >= 0; i-- {
		if k := d.frames[i].kind; k == frameModel || k == frameUnion {
			return d.frames[i].name + suffix
		}
	}
	return suffix
}

func (d *declarer) Model(m *ir.Model) error {
	name, anonymous := m.Name, false
	if name == "" {
		name, anonymous = d.anonymousName(), true
		d.b.anon[m] = name
	}
	sym := &symbol.Model{
		Header: symbol.Header{
			Name:      name,
			Namespace: d.ns,
			GoName:    d.b.goName(m, name),
			Doc:       d.b.ann.Doc(m),
		},
		Anonymous: anonymous,
	}
	if m.Base != nil {
		parent, err := d.b.lookup(d.ns, m.Base.Namespace, m.Base.Name)
		if err != nil {
			return wrapIssue(err, d.ns, name)
		}
		pm, ok := parent.(*symbol.Model)
		if !ok {
			return diag.New(diag.CodeUnsupportedTypeKind, d.ns, name, "parent %s is a %s", m.Base, parent.Kind())
		}
		sym.Parent = pm
	}
	if err := d.b.tbl.Push(sym); err != nil {
		return err
	}
	d.b.models = append(d.b.models, &modelDecl{sym: sym, node: m, ns: d.ns})
	d.b.log.Debug("declared model", "namespace", d.ns, "name", name)
	d.push(frame{kind: frameModel, name: sym.GoName})
	return nil
}

func (d *declarer) ExitModel(*ir.Model) error { return d.pop() }

func (d *declarer) Property(p *ir.Property) error {
	d.push(frame{kind: frameProperty, name: p.Name})
	return nil
}

func (d *declarer) ExitProperty(*ir.Property) error { return d.pop() }

func (d *declarer) Union(u *ir.Union) error {
	name, anonymous := u.Name, false
	if name == "" {
		if inner, ok := collapsible(u); ok {
			d.b.collapsed[u] = inner
			d.push(frame{kind: frameCollapsed, union: u})
			return nil
		}
		name, anonymous = d.anonymousName(), true
		d.b.anon[u] = name
	}
	h := symbol.Header{
		Name:      name,
		Namespace: d.ns,
		GoName:    d.b.goName(u, name),
		Doc:       d.b.ann.Doc(u),
	}
	nullable := hasNull(u)

	var sym symbol.Symbol
	if disc := d.b.ann.Discriminator(u); disc != "" {
		sym = &symbol.TypeUnion{Header: h, DiscriminatorName: disc, Anonymous: anonymous, Nullable: nullable}
	} else {
		sym = &symbol.ValueUnion{Header: h, Anonymous: anonymous, Nullable: nullable}
	}
	if err := d.b.tbl.Push(sym); err != nil {
		return err
	}
	ud := &unionDecl{sym: sym, node: u, ns: d.ns}
	d.b.unions = append(d.b.unions, ud)
	d.b.byUnion[sym] = ud
	d.b.log.Debug("declared union", "namespace", d.ns, "name", name, "kind", sym.Kind())
	d.push(frame{kind: frameUnion, name: h.GoName, union: u})
	return nil
}

func (d *declarer) ExitUnion(*ir.Union) error { return d.pop() }

func (d *declarer) Variant(v *ir.Variant) error {
	for i := len(d.frames) - 1; i >= 0; i-- {
		f := d.frames[i]
		if f.union == nil {
			continue
		}
		if f.kind == frameCollapsed {
			d.push(frame{kind: frameCollapsed})
			return nil
		}
		idx := 0
		for j, c := range f.union.Variants {
			if c == v {
				idx = j
			}
		}
		d.push(frame{kind: frameVariant, name: v.Name, member: idx})
		return nil
	}
	d.push(frame{kind: frameVariant, name: v.Name})
	return nil
}

func (d *declarer) ExitVariant(*ir.Variant) error { return d.pop() }

// collapsible reports whether an anonymous union is T | null with T not a
// literal; such unions become a nullable T instead of a symbol.
func collapsible(u *ir.Union) (ir.Type, bool) {
	var inner ir.Type
	n := 0
	for _, v := range u.Variants {
		if v.Type.Kind() == ir.NodeNull {
			continue
		}
		inner = v.Type
		n++
	}
	if n != 1 || !hasNull(u) {
		return nil, false
	}
	switch inner.Kind() {
	case ir.NodeLiteral, ir.NodeMember:
		return nil, false
	}
	return inner, true
}

func hasNull(u *ir.Union) bool {
	for _, v := range u.Variants {
		if v.Type.Kind() == ir.NodeNull {
			return true
		}
	}
	return false
}
