package schema

import (
	"fmt"
	"strings"
	"unicode"

	"gitlab.com/tozd/go/errors"

	"github.com/reoring/skemagen/internal/ir"
)

// ParseType parses the string shorthand for a type expression:
//
//	Name | Ns.Name | Array<T> | Record<T> | T[] | null | A | B
func ParseType(s string) (ir.Type, error) {
	p := &typeParser{src: s}
	t, err := p.union()
	if err != nil {
		return nil, err
	}
	p.space()
	if !p.done() {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) errorf(format string, args ...any) error {
	return errors.Errorf("type %q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) done() bool { return p.pos >= len(p.src) }

func (p *typeParser) space() {
	for !p.done() && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) accept(tok string) bool {
	p.space()
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *typeParser) union() (ir.Type, error) {
	first, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if !p.accept("|") {
		return first, nil
	}
	u := &ir.Union{Variants: []*ir.Variant{{Type: first}}}
	for {
		t, err := p.postfix()
		if err != nil {
			return nil, err
		}
		u.Variants = append(u.Variants, &ir.Variant{Type: t})
		if !p.accept("|") {
			return u, nil
		}
	}
}

func (p *typeParser) postfix() (ir.Type, error) {
	t, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.accept("[]") {
		t = &ir.TemplateRef{Name: "Array", Args: []ir.Type{t}}
	}
	return t, nil
}

func (p *typeParser) primary() (ir.Type, error) {
	if p.accept("(") {
		t, err := p.union()
		if err != nil {
			return nil, err
		}
		if !p.accept(")") {
			return nil, p.errorf("missing )")
		}
		return t, nil
	}
	name := p.name()
	if name == "" {
		return nil, p.errorf("expected a type name")
	}
	if name == "null" {
		return ir.Null, nil
	}
	ns, local := splitQualified(name)
	if !p.accept("<") {
		return &ir.Ref{Name: local, Namespace: ns}, nil
	}
	tr := &ir.TemplateRef{Name: local, Namespace: ns}
	for {
		arg, err := p.union()
		if err != nil {
			return nil, err
		}
		tr.Args = append(tr.Args, arg)
		if p.accept(">") {
			return tr, nil
		}
		if !p.accept(",") {
			return nil, p.errorf("expected , or >")
		}
	}
}

func (p *typeParser) name() string {
	p.space()
	start := p.pos
	for !p.done() {
		c := rune(p.src[p.pos])
		if c != '_' && c != '.' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

// splitQualified splits "A.B.C" into namespace "A.B" and name "C".
func splitQualified(s string) (ns, name string) {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "", s
}
