package encode

import (
	"path"
	"sort"

	"github.com/reoring/skemagen/internal/diag"
	"github.com/reoring/skemagen/internal/symbol"
)

// PackageFunc maps a namespace to the Go package its symbols are emitted in.
type PackageFunc func(namespace string) (name, importPath string, err error)

// Qualifier renders symbol references from inside one namespace's package
// and records the imports the rendered code needs.
type Qualifier struct {
	namespace string
	packages  PackageFunc
	runtime   string
	imports   map[string]string // import path -> package name
}

// NewQualifier returns a qualifier for code emitted into namespace. runtime
// is the import path of the nullable runtime package.
func NewQualifier(namespace string, packages PackageFunc, runtime string) *Qualifier {
	return &Qualifier{namespace: namespace, packages: packages, runtime: runtime, imports: map[string]string{}}
}

// Name renders a reference to a user symbol, or a name declared alongside
// it (a variant constant, a dispatch function), as name or pkg.name.
func (q *Qualifier) Name(sym symbol.Symbol, name string) (string, error) {
	h := symbol.Info(sym)
	if h.Namespace == "" || h.Namespace == q.namespace {
		return name, nil
	}
	if q.packages == nil {
		return "", diag.New(diag.CodeUnsupportedTypeKind, q.namespace, h.Name,
			"reference into namespace %s needs an import base", h.Namespace)
	}
	pkg, importPath, err := q.packages(h.Namespace)
	if err != nil {
		return "", err
	}
	q.imports[importPath] = pkg
	return pkg + "." + name, nil
}

// Use records an import path; the package name is its last element.
func (q *Qualifier) Use(importPath string) string {
	if importPath == "" {
		return ""
	}
	name := path.Base(importPath)
	q.imports[importPath] = name
	return name
}

// Runtime records the runtime import and returns its package name.
func (q *Qualifier) Runtime() string { return q.Use(q.runtime) }

// Imports lists recorded import paths, sorted.
func (q *Qualifier) Imports() []string {
	out := make([]string, 0, len(q.imports))
	for p := range q.imports {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
