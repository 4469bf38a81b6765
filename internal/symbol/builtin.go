package symbol

import (
	"fmt"
	"strconv"

	"github.com/reoring/skemagen/internal/ir"
)

// Class groups scalars for union inference.
type Class int

const (
	ClassString Class = iota
	ClassInteger
	ClassFloat
	ClassBoolean
	ClassOther
)

func (c Class) String() string {
	switch c {
	case ClassString:
		return "string"
	case ClassInteger:
		return "integer"
	case ClassFloat:
		return "float"
	case ClassBoolean:
		return "boolean"
	}
	return "other"
}

// Builtin is a predefined scalar.
type Builtin struct {
	Header
	Class    Class
	Bits     int // 0 for non-numeric scalars
	Unsigned bool
	Import   string // package the Go spelling needs, if any
}

func (*Builtin) Kind() Kind { return KindBuiltin }

// Fits reports whether the literal v can be represented by b.
func (b *Builtin) Fits(v ir.Value) bool {
	switch b.Class {
	case ClassString:
		return v.Kind == ir.ValueString
	case ClassBoolean:
		return v.Kind == ir.ValueBoolean
	case ClassFloat:
		if v.Kind != ir.ValueFloat && v.Kind != ir.ValueInteger {
			return false
		}
		_, err := strconv.ParseFloat(v.Text, b.Bits)
		return err == nil
	case ClassInteger:
		if v.Kind != ir.ValueInteger {
			return false
		}
		var err error
		if b.Unsigned {
			_, err = strconv.ParseUint(v.Text, 0, b.Bits)
		} else {
			_, err = strconv.ParseInt(v.Text, 0, b.Bits)
		}
		return err == nil
	}
	return false
}

// Template is a predefined container.
type Template struct {
	Header
	Arity  int
	format string
}

func (*Template) Kind() Kind { return KindTemplate }

// Render spells the instantiated Go type.
func (t *Template) Render(args ...string) string {
	a := make([]any, len(args))
	for i, s := range args {
		a[i] = s
	}
	return fmt.Sprintf(t.format, a...)
}

func scalar(name, goName string, class Class, bits int, unsigned bool) *Builtin {
	return &Builtin{Header: Header{Name: name, GoName: goName}, Class: class, Bits: bits, Unsigned: unsigned}
}

func imported(b *Builtin, pkg string) *Builtin {
	b.Import = pkg
	return b
}

// Builtins returns a fresh copy of the built-in registry.
func Builtins() []Symbol {
	return []Symbol{
		scalar("integer", "int64", ClassInteger, 64, false),
		scalar("int64", "int64", ClassInteger, 64, false),
		scalar("int32", "int32", ClassInteger, 32, false),
		scalar("int16", "int16", ClassInteger, 16, false),
		scalar("int8", "int8", ClassInteger, 8, false),
		scalar("safeint", "int64", ClassInteger, 64, false),
		scalar("uint64", "uint64", ClassInteger, 64, true),
		scalar("uint32", "uint32", ClassInteger, 32, true),
		scalar("uint16", "uint16", ClassInteger, 16, true),
		scalar("uint8", "uint8", ClassInteger, 8, true),
		scalar("numeric", "float64", ClassFloat, 64, false),
		scalar("float", "float64", ClassFloat, 64, false),
		scalar("float64", "float64", ClassFloat, 64, false),
		scalar("float32", "float32", ClassFloat, 32, false),
		scalar("string", "string", ClassString, 0, false),
		scalar("boolean", "bool", ClassBoolean, 0, false),
		imported(scalar("duration", "time.Duration", ClassOther, 0, false), "time"),
		scalar("bytes", "[]byte", ClassOther, 0, false),
		imported(scalar("utcDateTime", "time.Time", ClassOther, 0, false), "time"),
		&Template{Header: Header{Name: "Array", GoName: "[]"}, Arity: 1, format: "[]%s"},
		&Template{Header: Header{Name: "Record", GoName: "map"}, Arity: 1, format: "map[string]%s"},
	}
}
