package symbol

import "github.com/reoring/skemagen/internal/diag"

// key identifies a symbol. ns is empty for the global scope; user
// namespaces are never empty.
type key struct {
	ns   string
	name string
}

// Table owns every symbol of one build. It is filled by the declaration
// pass, sealed, and read-only afterwards.
type Table struct {
	syms   map[key]Symbol
	order  map[string][]Symbol
	nss    []string
	sealed bool
}

// NewTable returns a table seeded with the built-in registry.
func NewTable() *Table {
	t := &Table{syms: map[key]Symbol{}, order: map[string][]Symbol{}}
	for _, b := range Builtins() {
		t.syms[key{name: Info(b).Name}] = b
	}
	return t
}

// Push registers sym under (namespace, name). A second symbol with the same
// key is rejected.
func (t *Table) Push(sym Symbol) error {
	h := Info(sym)
	k := key{ns: h.Namespace, name: h.Name}
	if prev, ok := t.syms[k]; ok {
		return diag.New(diag.CodeDuplicateSymbol, h.Namespace, h.Name,
			"already declared as %s", prev.Kind())
	}
	t.syms[k] = sym
	if _, ok := t.order[h.Namespace]; !ok {
		t.nss = append(t.nss, h.Namespace)
	}
	t.order[h.Namespace] = append(t.order[h.Namespace], sym)
	return nil
}

// Find looks name up in ns, then in the global scope.
func (t *Table) Find(name, ns string) (Symbol, bool) {
	if s, ok := t.syms[key{ns: ns, name: name}]; ok {
		return s, true
	}
	s, ok := t.syms[key{name: name}]
	return s, ok
}

// Ref is a deferred lookup created before the referenced symbol may exist.
type Ref struct {
	Name      string
	Namespace string
}

// Defer records a lookup to perform once declaration is complete.
func (t *Table) Defer(name, ns string) Ref { return Ref{Name: name, Namespace: ns} }

// Resolve performs a deferred lookup.
func (t *Table) Resolve(r Ref) (Symbol, error) {
	if s, ok := t.Find(r.Name, r.Namespace); ok {
		return s, nil
	}
	if !t.sealed {
		return nil, diag.New(diag.CodeUnresolvedReference, r.Namespace, r.Name, "declaration pass incomplete")
	}
	return nil, diag.New(diag.CodeUnresolvedReference, r.Namespace, r.Name, "not declared")
}

// Seal marks the end of the declaration pass.
func (t *Table) Seal() { t.sealed = true }

func (t *Table) Sealed() bool { return t.sealed }

// Symbols lists the symbols pushed for ns, in push order.
func (t *Table) Symbols(ns string) []Symbol { return t.order[ns] }

// Namespaces lists the namespaces that received symbols, in push order.
func (t *Table) Namespaces() []string { return t.nss }
