package semantic

import (
	"strings"

	"github.com/reoring/skemagen/internal/diag"
	"github.com/reoring/skemagen/internal/symbol"
)

// scope maps the Go identifiers declared in one scope to what declared them.
type scope struct {
	ns    string
	names map[string]string
}

func newScope(ns string) *scope { return &scope{ns: ns, names: map[string]string{}} }

// claim records goName for source, failing when another source already
// renders to the same identifier. sym is the offending symbol in the issue.
func (s *scope) claim(goName, sym, source string) error {
	if prev, ok := s.names[goName]; ok {
		return diag.New(diag.CodeDuplicateSymbol, s.ns, sym,
			"%s and %s both render as %s", prev, source, goName)
	}
	s.names[goName] = source
	return nil
}

// checkNames verifies that no two sources in ns render to the same Go
// identifier, at package level or within a model's fields and methods.
func (b *builder) checkNames(ns string) error {
	pkg := newScope(ns)
	for _, sym := range b.tbl.Symbols(ns) {
		h := symbol.Info(sym)
		if err := pkg.claim(h.GoName, h.Name, sym.Kind().String()+" "+h.Name); err != nil {
			return err
		}
		switch s := sym.(type) {
		case *symbol.ValueUnion:
			if err := pkg.claim("Values"+s.GoName, s.Name, "values list of "+s.Name); err != nil {
				return err
			}
			for _, v := range s.Variants {
				if err := pkg.claim(v.GoName, s.Name, "variant "+s.Name+"."+v.Name); err != nil {
					return err
				}
			}
		case *symbol.TypeUnion:
			if err := pkg.claim("Unmarshal"+s.GoName, s.Name, "decoder of "+s.Name); err != nil {
				return err
			}
		case *symbol.Model:
			if err := checkMembers(ns, s); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkMembers covers the selector names of one model: the embedded parent,
// stored fields, constant accessors and the JSON methods.
func checkMembers(ns string, m *symbol.Model) error {
	sc := newScope(ns)
	sc.names["MarshalJSON"] = "method MarshalJSON"
	sc.names["UnmarshalJSON"] = "method UnmarshalJSON"
	if m.Parent != nil {
		sc.names[m.Parent.GoName] = "embedded " + m.Parent.Name
	}
	for _, f := range m.Fields {
		what := "field "
		if f.Constant() {
			what = "accessor "
		}
		if err := sc.claim(f.GoName, m.Name, what+m.Name+"."+f.Name); err != nil {
			return err
		}
	}
	return nil
}

// checkRecursion rejects models of ns that contain themselves by value,
// directly or through other models, since Go cannot size such a struct.
func (b *builder) checkRecursion(ns string) error {
	state := map[*symbol.Model]int{} // 1 visiting, 2 done
	var path []string
	var visit func(m *symbol.Model) error
	visit = func(m *symbol.Model) error {
		switch state[m] {
		case 1:
			return diag.New(diag.CodeUnsupportedTypeKind, m.Namespace, m.Name,
				"model contains itself by value (%s); make a field optional or nullable",
				strings.Join(append(path, m.Name), " -> "))
		case 2:
			return nil
		}
		state[m] = 1
		path = append(path, m.Name)
		for _, next := range byValue(m) {
			if err := visit(next); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[m] = 2
		return nil
	}
	for _, d := range b.models {
		if d.ns != ns {
			continue
		}
		if err := visit(d.sym); err != nil {
			return err
		}
	}
	return nil
}

// byValue lists the models stored inline in m's struct.
func byValue(m *symbol.Model) []*symbol.Model {
	var out []*symbol.Model
	if m.Parent != nil {
		out = append(out, m.Parent)
	}
	for _, f := range m.Fields {
		if f.Optional || f.Nullable {
			continue
		}
		rt, ok := f.Type.(*symbol.RefType)
		if !ok {
			continue
		}
		if mm, ok := rt.Symbol.(*symbol.Model); ok {
			out = append(out, mm)
		}
	}
	return out
}
