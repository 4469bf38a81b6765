// Package semantic turns the input graph into a resolved symbol table. It
// runs in phases over every namespace: inheritance normalization, the
// declaration pass, the resolution pass, and union finalization.
package semantic

import (
	"context"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	slogctx "github.com/veqryn/slog-context"

	"github.com/reoring/skemagen/internal/diag"
	"github.com/reoring/skemagen/internal/ir"
	"github.com/reoring/skemagen/internal/symbol"
)

// Options tune naming.
type Options struct {
	Annotator     ir.Annotator // defaults to ir.DecoratorAnnotator
	WireMediaType string       // defaults to ir.MediaJSON
	GoMediaType   string       // defaults to ir.MediaGo
}

func (o Options) withDefaults() Options {
	if o.Annotator == nil {
		o.Annotator = ir.DecoratorAnnotator{}
	}
	if o.WireMediaType == "" {
		o.WireMediaType = ir.MediaJSON
	}
	if o.GoMediaType == "" {
		o.GoMediaType = ir.MediaGo
	}
	return o
}

// Namespace is a successfully built namespace.
type Namespace struct {
	Name    string
	Package string
	Doc     string
	Symbols []symbol.Symbol // declaration order
}

// Result is the output of Build. Namespaces lists only namespaces that built
// without error, in input order.
type Result struct {
	Table      *symbol.Table
	Namespaces []*Namespace
}

// Namespace returns the built namespace named name, or nil.
func (r *Result) Namespace(name string) *Namespace {
	for _, ns := range r.Namespaces {
		if ns.Name == name {
			return ns
		}
	}
	return nil
}

type modelDecl struct {
	sym  *symbol.Model
	node *ir.Model
	ns   string
}

type unionDecl struct {
	sym   symbol.Symbol // *symbol.ValueUnion or *symbol.TypeUnion
	node  *ir.Union
	ns    string
	state resolveState
	err   error
}

type resolveState int

const (
	unresolved resolveState = iota
	resolving
	resolved
)

type builder struct {
	log  *slog.Logger
	opts Options
	ann  ir.Annotator
	tbl  *symbol.Table

	anon      map[ir.Type]string    // inline model/union -> synthesized name
	collapsed map[*ir.Union]ir.Type // anonymous T|null -> T
	models    []*modelDecl
	unions    []*unionDecl
	byUnion   map[symbol.Symbol]*unionDecl
	failed    map[string]error
}

// Build runs every phase over nss. A namespace that fails is left out of
// the result; the returned error aggregates one failure per namespace.
func Build(ctx context.Context, nss []*ir.Namespace, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	b := &builder{
		log:       slogctx.FromCtx(ctx),
		opts:      opts,
		ann:       opts.Annotator,
		tbl:       symbol.NewTable(),
		anon:      map[ir.Type]string{},
		collapsed: map[*ir.Union]ir.Type{},
		byUnion:   map[symbol.Symbol]*unionDecl{},
		failed:    map[string]error{},
	}

	normalized := make([]*ir.Namespace, len(nss))
	for i, ns := range nss {
		normalized[i] = ir.NormalizeInheritance(ns, b.ann)
	}

	for _, ns := range normalized {
		if err := b.declare(ns); err != nil {
			b.fail(ns.Name, err)
		}
	}
	b.tbl.Seal()

	for _, ns := range normalized {
		if b.failed[ns.Name] != nil {
			continue
		}
		if err := b.resolve(ns.Name); err != nil {
			b.fail(ns.Name, err)
		}
	}
	for _, ns := range normalized {
		if b.failed[ns.Name] != nil {
			continue
		}
		if err := b.finalize(ns.Name); err != nil {
			b.fail(ns.Name, err)
		}
	}

	res := &Result{Table: b.tbl}
	var errs *multierror.Error
	for _, ns := range normalized {
		if err := b.failed[ns.Name]; err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		res.Namespaces = append(res.Namespaces, &Namespace{
			Name:    ns.Name,
			Package: b.packageName(ns),
			Doc:     b.ann.Doc(ns),
			Symbols: b.tbl.Symbols(ns.Name),
		})
	}
	return res, errs.ErrorOrNil()
}

func (b *builder) fail(ns string, err error) {
	if b.failed[ns] == nil {
		b.failed[ns] = err
		b.log.Debug("namespace failed", "namespace", ns, "error", err)
	}
}

func (b *builder) resolve(ns string) error {
	for _, d := range b.unions {
		if d.ns != ns {
			continue
		}
		if err := b.resolveUnion(d); err != nil {
			return err
		}
	}
	for _, d := range b.models {
		if d.ns != ns {
			continue
		}
		if err := b.resolveModel(d); err != nil {
			return err
		}
	}
	b.log.Debug("namespace resolved", "namespace", ns)
	return nil
}

func (b *builder) resolveModel(d *modelDecl) error {
	m := d.sym
	for _, p := range d.node.Properties {
		pt, nullable, err := b.propertyType(d.ns, p.Type)
		if err != nil {
			return wrapIssue(err, d.ns, m.Name+"."+p.Name)
		}
		m.Fields = append(m.Fields, &symbol.Field{
			Name:     p.Name,
			GoName:   b.goName(p, p.Name),
			WireName: b.wireName(p, p.Name),
			Doc:      b.ann.Doc(p),
			Type:     pt,
			Optional: p.Optional,
			Nullable: nullable,
		})
	}
	return nil
}

// propertyType classifies a property type expression. nullable is true when
// the type admits null (a collapsed T|null or a nullable union).
func (b *builder) propertyType(ns string, t ir.Type) (symbol.PropertyType, bool, error) {
	switch n := t.(type) {
	case *ir.Ref:
		sym, err := b.lookup(ns, n.Namespace, n.Name)
		if err != nil {
			return nil, false, err
		}
		if _, ok := sym.(*symbol.Template); ok {
			return nil, false, diag.New(diag.CodeUnsupportedTypeKind, ns, n.Name, "template used without arguments")
		}
		return &symbol.RefType{Symbol: sym}, nullableSymbol(sym), nil

	case *ir.Literal:
		c, err := b.literal(ns, n)
		if err != nil {
			return nil, false, err
		}
		return c, false, nil

	case *ir.MemberRef:
		c, err := b.member(ns, n)
		if err != nil {
			return nil, false, err
		}
		return c, false, nil

	case *ir.TemplateRef:
		return b.template(ns, n)

	case *ir.Union:
		if inner, ok := b.collapsed[n]; ok {
			pt, _, err := b.propertyType(ns, inner)
			return pt, true, err
		}
		sym, err := b.lookup(ns, ns, b.anon[n])
		if err != nil {
			return nil, false, err
		}
		return &symbol.RefType{Symbol: sym}, nullableSymbol(sym), nil

	case *ir.Model:
		sym, err := b.lookup(ns, ns, b.anon[n])
		if err != nil {
			return nil, false, err
		}
		return &symbol.RefType{Symbol: sym}, false, nil
	}
	return nil, false, diag.New(diag.CodeUnsupportedTypeKind, ns, "", "%s used as a property type", t.Kind())
}

func (b *builder) template(ns string, n *ir.TemplateRef) (symbol.PropertyType, bool, error) {
	sym, err := b.lookup(ns, n.Namespace, n.Name)
	if err != nil {
		return nil, false, err
	}
	tpl, ok := sym.(*symbol.Template)
	if !ok {
		return nil, false, diag.New(diag.CodeUnsupportedTypeKind, ns, n.Name, "%s is not a template", sym.Kind())
	}
	if len(n.Args) != tpl.Arity {
		return nil, false, diag.New(diag.CodeUnsupportedTypeKind, ns, n.Name, "expects %d argument(s), got %d", tpl.Arity, len(n.Args))
	}
	out := &symbol.TemplateType{Template: tpl}
	for _, a := range n.Args {
		if lit, ok := a.(*ir.Literal); ok {
			out.Args = append(out.Args, symbol.ValueArg{Value: lit.Value})
			continue
		}
		pt, nullable, err := b.propertyType(ns, a)
		if err != nil {
			return nil, false, err
		}
		if nullable {
			return nil, false, diag.New(diag.CodeUnsupportedTypeKind, ns, n.Name, "nullable element types are not supported")
		}
		out.Args = append(out.Args, symbol.TypeArg{Type: pt})
	}
	return out, false, nil
}

// literal builds a constant from a literal, typed by its explicit scalar or
// the default scalar for its kind.
func (b *builder) literal(ns string, l *ir.Literal) (*symbol.ConstType, error) {
	sc, err := b.literalScalar(ns, l)
	if err != nil {
		return nil, err
	}
	if !sc.Fits(l.Value) {
		return nil, diag.New(diag.CodeUnsupportedTypeKind, ns, "", "literal %s does not fit %s", l.Value, sc.Name)
	}
	return &symbol.ConstType{Value: l.Value, Type: sc}, nil
}

func (b *builder) literalScalar(ns string, l *ir.Literal) (*symbol.Builtin, error) {
	name := l.Scalar
	if name == "" {
		name = defaultScalar(l.Value.Kind)
	}
	sym, err := b.lookup(ns, "", name)
	if err != nil {
		return nil, err
	}
	sc, ok := sym.(*symbol.Builtin)
	if !ok {
		return nil, diag.New(diag.CodeUnsupportedTypeKind, ns, name, "literal scalar must be a built-in, got %s", sym.Kind())
	}
	return sc, nil
}

func defaultScalar(k ir.ValueKind) string {
	switch k {
	case ir.ValueInteger:
		return "integer"
	case ir.ValueFloat:
		return "numeric"
	case ir.ValueBoolean:
		return "boolean"
	}
	return "string"
}

// member resolves an enum-member reference into a constant typed by the
// value union.
func (b *builder) member(ns string, n *ir.MemberRef) (*symbol.ConstType, error) {
	sym, err := b.lookup(ns, n.Union.Namespace, n.Union.Name)
	if err != nil {
		return nil, err
	}
	vu, ok := sym.(*symbol.ValueUnion)
	if !ok {
		return nil, diag.New(diag.CodeUnsupportedTypeKind, ns, n.Union.Name, "member reference into %s", sym.Kind())
	}
	if d := b.byUnion[vu]; d != nil {
		if err := b.resolveUnion(d); err != nil {
			return nil, err
		}
	}
	v := vu.Variant(n.Member)
	if v == nil {
		return nil, diag.New(diag.CodeUnresolvedReference, vu.Namespace, vu.Name+"."+n.Member, "no such variant")
	}
	return &symbol.ConstType{Value: v.Value, Type: vu, Member: v}, nil
}

// lookup resolves name in refNS (or ns when refNS is empty), falling back to
// the global scope.
func (b *builder) lookup(ns, refNS, name string) (symbol.Symbol, error) {
	if refNS == "" {
		refNS = ns
	}
	return b.tbl.Resolve(b.tbl.Defer(name, refNS))
}

func nullableSymbol(s symbol.Symbol) bool {
	switch u := s.(type) {
	case *symbol.ValueUnion:
		return u.Nullable
	case *symbol.TypeUnion:
		return u.Nullable
	}
	return false
}

// wrapIssue attaches the symbol being resolved to an issue that lacks one.
func wrapIssue(err error, ns, sym string) error {
	if is, ok := diag.AsIssue(err); ok && is.Symbol == "" {
		is.Namespace, is.Symbol = ns, sym
	}
	return err
}
