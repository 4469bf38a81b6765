package semantic

import (
	"strings"
	"unicode"

	"github.com/stoewer/go-strcase"

	"github.com/reoring/skemagen/internal/ir"
)

// goName returns the text/x-go override for n, or name in PascalCase.
func (b *builder) goName(n ir.Annotated, name string) string {
	if s := b.ann.EncodedName(n, b.opts.GoMediaType); s != "" {
		return s
	}
	return pascal(name)
}

// wireName returns the JSON override for n, or the source name unchanged.
func (b *builder) wireName(n ir.Annotated, name string) string {
	if s := b.ann.EncodedName(n, b.opts.WireMediaType); s != "" {
		return s
	}
	return name
}

// packageName derives the Go package for a namespace: the text/x-go
// override, else the lowercased last segment of the namespace name.
func (b *builder) packageName(ns *ir.Namespace) string {
	if s := b.ann.EncodedName(ns, b.opts.GoMediaType); s != "" {
		return s
	}
	name := ns.Name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(identifier(name))
}

// pascal converts a source name to an exported identifier fragment. Literal
// texts like "-1" or "1.5" map to "Minus1" and "1_5".
func pascal(name string) string {
	if strings.HasPrefix(name, "-") {
		name = "minus_" + name[1:]
	}
	name = strings.ReplaceAll(name, ".", "#")
	s := strcase.UpperCamelCase(name)
	return strings.ReplaceAll(identifier(s), "#", "_")
}

// identifier drops runes that may not appear in a Go identifier. '#' is
// kept as a placeholder for pascal.
func identifier(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || r == '#' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
