// Package gen renders resolved namespaces into Go source files.
package gen

import (
	"bytes"
	"context"
	"go/format"
	"path"
	"sort"
	"strconv"
	"strings"
	"text/template"

	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"

	"github.com/reoring/skemagen/internal/encode"
	"github.com/reoring/skemagen/internal/semantic"
	"github.com/reoring/skemagen/internal/symbol"
)

// Header is the first line of every generated file.
const Header = "// Code generated by skemagen. DO NOT EDIT."

// FileName is the name of the single file emitted per namespace.
const FileName = "models.go"

const (
	DefaultJSONPackage   = "encoding/json"
	DefaultRuntimeImport = "github.com/reoring/skemagen/nullable"
)

// Options control rendering.
type Options struct {
	JSONPackage   string             // JSON package used by generated code
	RuntimeImport string             // import path of the nullable runtime
	Packages      encode.PackageFunc // resolves other namespaces; nil forbids cross-namespace references
}

// File is the rendered source of one namespace.
type File struct {
	Namespace string
	Package   string
	Source    []byte
}

type block struct {
	Model *encode.ModelPlan
	Value *encode.ValueUnionPlan
	Type  *encode.TypeUnionPlan
}

type fileData struct {
	Header  string
	Package string
	Doc     string
	Imports [][]string // standard library first, then the rest
	Blocks  []block
}

// RenderNamespace renders every symbol of ns into one formatted file.
func RenderNamespace(ctx context.Context, ns *semantic.Namespace, opts Options) (*File, error) {
	if opts.JSONPackage == "" {
		opts.JSONPackage = DefaultJSONPackage
	}
	if opts.RuntimeImport == "" {
		opts.RuntimeImport = DefaultRuntimeImport
	}
	q := encode.NewQualifier(ns.Name, opts.Packages, opts.RuntimeImport)
	data := fileData{Header: Header, Package: ns.Package, Doc: ns.Doc}

	needFmt := false
	for _, sym := range ns.Symbols {
		var (
			b   block
			err error
		)
		switch s := sym.(type) {
		case *symbol.Model:
			b.Model, err = encode.Model(s, q)
		case *symbol.ValueUnion:
			b.Value, err = encode.ValueUnion(s, q)
		case *symbol.TypeUnion:
			b.Type, err = encode.TypeUnion(s, q)
			needFmt = true
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		data.Blocks = append(data.Blocks, b)
	}

	if len(data.Blocks) > 0 {
		data.Imports = importSpecs(opts.JSONPackage, needFmt, q.Imports())
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Errorf("render %s: %w", ns.Name, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Errorf("format %s: %w", ns.Name, err)
	}
	slogctx.FromCtx(ctx).Debug("rendered namespace", "namespace", ns.Name, "package", ns.Package, "symbols", len(data.Blocks), "bytes", len(src))
	return &File{Namespace: ns.Name, Package: ns.Package, Source: src}, nil
}

// importSpecs returns quoted import specs grouped into standard library and
// other packages, aliasing the JSON package to "json" when its last path
// element differs.
func importSpecs(jsonPkg string, needFmt bool, used []string) [][]string {
	seen := map[string]bool{}
	var out []string
	add := func(spec string) {
		if !seen[spec] {
			seen[spec] = true
			out = append(out, spec)
		}
	}
	if path.Base(jsonPkg) == "json" {
		add(strconv.Quote(jsonPkg))
	} else {
		add("json " + strconv.Quote(jsonPkg))
	}
	if needFmt {
		add(strconv.Quote("fmt"))
	}
	for _, p := range used {
		add(strconv.Quote(p))
	}
	sort.Slice(out, func(i, j int) bool { return importPath(out[i]) < importPath(out[j]) })

	var std, other []string
	for _, spec := range out {
		if isStd(importPath(spec)) {
			std = append(std, spec)
		} else {
			other = append(other, spec)
		}
	}
	var groups [][]string
	for _, g := range [][]string{std, other} {
		if len(g) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// isStd reports whether a quoted import path belongs to the standard
// library, whose first element never contains a dot.
func isStd(quoted string) bool {
	p, err := strconv.Unquote(quoted)
	if err != nil {
		return false
	}
	first, _, _ := strings.Cut(p, "/")
	return !strings.Contains(first, ".")
}

func importPath(spec string) string {
	if i := strings.IndexByte(spec, '"'); i > 0 {
		return spec[i:]
	}
	return spec
}

// comment renders doc as line comments starting with name.
func comment(indent, name, doc string) string {
	if doc == "" {
		return ""
	}
	var b strings.Builder
	for i, line := range strings.Split(strings.TrimSpace(doc), "\n") {
		b.WriteString(indent)
		b.WriteString("//")
		if i == 0 {
			line = name + " " + line
		}
		if line = strings.TrimRight(line, " \t"); line != "" {
			b.WriteString(" ")
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

var fileTemplate = template.Must(template.New("file").Funcs(template.FuncMap{
	"comment": comment,
	"quote":   strconv.Quote,
}).Parse(fileTmpl))

const fileTmpl = `{{.Header}}

{{comment "" (printf "Package %s" .Package) .Doc -}}
package {{.Package}}
{{if .Imports}}
import (
{{- range $i, $g := .Imports}}{{if $i}}
{{end}}
{{- range $g}}
	{{.}}
{{- end}}
{{- end}}
)
{{end}}
{{- range .Blocks}}
{{- if .Model}}{{template "model" .Model}}{{end}}
{{- if .Value}}{{template "value" .Value}}{{end}}
{{- if .Type}}{{template "union" .Type}}{{end}}
{{- end}}

{{- define "model"}}
{{comment "" .GoName .Doc -}}
type {{.GoName}} struct {
{{- if .Parent}}
	{{.Parent}}
{{- end}}
{{- range .Stored}}
{{comment "\t" .GoName .Doc -}}
	{{.GoName}} {{.Decl}}
{{- end}}
}
{{range .Constants}}
func (m {{$.GoName}}) {{.GoName}}() {{.Type}} {
	return {{.Value}}
}
{{end}}
func (m *{{.GoName}}) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
{{- range .Codec}}{{if not .IsConstant}}
	if v, ok := raw[{{quote .WireName}}]; ok {
{{- template "decode" .}}
	}
{{- end}}{{end}}
	return nil
}

func (m {{.GoName}}) MarshalJSON() ([]byte, error) {
	obj := map[string]any{
{{- range .Codec}}{{if .IsRequired}}
		{{quote .WireName}}: m.{{.GoName}},
{{- else if .IsConstant}}
		{{quote .WireName}}: m.{{.GoName}}(),
{{- end}}{{end}}
	}
{{- range .Codec}}{{if .IsOptional}}
	if m.{{.GoName}} != nil {
		obj[{{quote .WireName}}] = m.{{.GoName}}
	}
{{- else if .IsNullable}}
	if m.{{.GoName}}.IsSet() {
		obj[{{quote .WireName}}] = m.{{.GoName}}
	}
{{- end}}{{end}}
	return json.Marshal(obj)
}
{{end}}

{{- define "decode"}}
{{- if and (eq .Dispatch 0) (not .IsNullable)}}
		if err := json.Unmarshal(v, &m.{{.GoName}}); err != nil {
			return err
		}
{{- else}}
		if string(v) == "null" {
{{- if .IsNullable}}
			m.{{.GoName}} = {{.Null}}
{{- else}}
			m.{{.GoName}} = nil
{{- end}}
		} else {
{{- if eq .Dispatch 0}}
			var x {{.Type}}
			if err := json.Unmarshal(v, &x); err != nil {
				return err
			}
{{- else if eq .Dispatch 1}}
			x, err := {{.Factory}}(v)
			if err != nil {
				return err
			}
{{- else if eq .Dispatch 2}}
			var items []json.RawMessage
			if err := json.Unmarshal(v, &items); err != nil {
				return err
			}
			x := make({{.Type}}, 0, len(items))
			for _, item := range items {
				e, err := {{.Factory}}(item)
				if err != nil {
					return err
				}
				x = append(x, e)
			}
{{- else}}
			var items map[string]json.RawMessage
			if err := json.Unmarshal(v, &items); err != nil {
				return err
			}
			x := make({{.Type}}, len(items))
			for k, item := range items {
				e, err := {{.Factory}}(item)
				if err != nil {
					return err
				}
				x[k] = e
			}
{{- end}}
			m.{{.GoName}} = {{.Wrap "x"}}
		}
{{- end}}
{{- end}}

{{- define "value"}}
{{comment "" .GoName .Doc -}}
type {{.GoName}} {{.Scalar}}
{{if .Variants}}
const (
{{- range .Variants}}
{{comment "\t" .GoName .Doc -}}
	{{.GoName}} {{$.GoName}} = {{.Value}}
{{- end}}
)
{{end}}
// Values{{.GoName}} lists the declared {{.GoName}} values.
func Values{{.GoName}}() []{{.GoName}} {
	return []{{.GoName}}{
{{- range .Variants}}
		{{.GoName}},
{{- end}}
	}
}

func (f *{{.GoName}}) UnmarshalJSON(data []byte) error {
	var v {{.Scalar}}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = {{.GoName}}(v)
	return nil
}

func (f {{.GoName}}) MarshalJSON() ([]byte, error) {
	return json.Marshal({{.Scalar}}(f))
}
{{end}}

{{- define "union"}}
{{comment "" .GoName .Doc -}}
type {{.GoName}} interface {
	{{.Accessor}}() {{.TagType}}
}

// {{.Factory}} decodes the {{.GoName}} variant selected by the {{quote .WireName}} field.
func {{.Factory}}(data []byte) ({{.GoName}}, error) {
	var typeCheck struct {
		{{.Accessor}} {{.TagType}} ` + "`json:{{quote .WireName}}`" + `
	}
	if err := json.Unmarshal(data, &typeCheck); err != nil {
		return nil, err
	}
	switch typeCheck.{{.Accessor}} {
{{- range .Variants}}
	case {{.Tag}}:
		var v {{.Type}}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
{{- end}}
	}
	return nil, fmt.Errorf("unknown {{.GoName}} discriminator {{.TagVerb}}", typeCheck.{{.Accessor}})
}
{{end}}`
