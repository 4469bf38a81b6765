package ir

// Visitor receives pre/post callbacks while walking a namespace. Inline models
// and unions found in property or variant types are visited between the
// enclosing Property/Variant pre and post callbacks.
type Visitor interface {
	Model(m *Model) error
	ExitModel(m *Model) error
	Property(p *Property) error
	ExitProperty(p *Property) error
	Union(u *Union) error
	ExitUnion(u *Union) error
	Variant(v *Variant) error
	ExitVariant(v *Variant) error
}

// BaseVisitor implements Visitor with no-ops; embed it to override a subset.
type BaseVisitor struct{}

func (BaseVisitor) Model(*Model) error           { return nil }
func (BaseVisitor) ExitModel(*Model) error       { return nil }
func (BaseVisitor) Property(*Property) error     { return nil }
func (BaseVisitor) ExitProperty(*Property) error { return nil }
func (BaseVisitor) Union(*Union) error           { return nil }
func (BaseVisitor) ExitUnion(*Union) error       { return nil }
func (BaseVisitor) Variant(*Variant) error       { return nil }
func (BaseVisitor) ExitVariant(*Variant) error   { return nil }

// Walk visits every declaration of ns in source order and stops at the first
// error returned by v.
func Walk(ns *Namespace, v Visitor) error {
	for _, d := range ns.Decls {
		if err := walkType(d, v); err != nil {
			return err
		}
	}
	return nil
}

func walkModel(m *Model, v Visitor) error {
	if err := v.Model(m); err != nil {
		return err
	}
	for _, p := range m.Properties {
		if err := v.Property(p); err != nil {
			return err
		}
		if err := walkType(p.Type, v); err != nil {
			return err
		}
		if err := v.ExitProperty(p); err != nil {
			return err
		}
	}
	return v.ExitModel(m)
}

func walkUnion(u *Union, v Visitor) error {
	if err := v.Union(u); err != nil {
		return err
	}
	for _, vr := range u.Variants {
		if err := v.Variant(vr); err != nil {
			return err
		}
		if err := walkType(vr.Type, v); err != nil {
			return err
		}
		if err := v.ExitVariant(vr); err != nil {
			return err
		}
	}
	return v.ExitUnion(u)
}

func walkType(t Type, v Visitor) error {
	switch n := t.(type) {
	case *Model:
		return walkModel(n, v)
	case *Union:
		return walkUnion(n, v)
	case *TemplateRef:
		for _, a := range n.Args {
			if err := walkType(a, v); err != nil {
				return err
			}
		}
	}
	return nil
}
