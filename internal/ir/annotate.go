package ir

import "fmt"

// Media types used with @encodedName.
const (
	MediaJSON = "application/json"
	MediaGo   = "text/x-go"
)

// Annotator extracts documentation, wire-name overrides and discriminators
// from nodes. Hosts with their own annotation store can supply one.
type Annotator interface {
	Doc(n Annotated) string
	EncodedName(n Annotated, mediaType string) string
	Discriminator(n Annotated) string
}

// DecoratorAnnotator reads @doc, @encodedName and @discriminator decorators.
type DecoratorAnnotator struct{}

func (DecoratorAnnotator) Doc(n Annotated) string {
	args := decoratorArgs(n, "@doc", func(a []any) bool { return len(a) == 1 })
	if args == nil {
		return ""
	}
	return fmt.Sprint(args[0])
}

func (DecoratorAnnotator) EncodedName(n Annotated, mediaType string) string {
	args := decoratorArgs(n, "@encodedName", func(a []any) bool {
		return len(a) == 2 && a[0] == mediaType
	})
	if args == nil {
		return ""
	}
	s, _ := args[1].(string)
	return s
}

func (DecoratorAnnotator) Discriminator(n Annotated) string {
	args := decoratorArgs(n, "@discriminator", func(a []any) bool { return len(a) == 1 })
	if args == nil {
		return ""
	}
	return fmt.Sprint(args[0])
}

// decoratorArgs returns the args of the first decorator named name whose
// args satisfy pred.
func decoratorArgs(n Annotated, name string, pred func([]any) bool) []any {
	if n == nil {
		return nil
	}
	for _, d := range n.Decorations() {
		if d.Name == name && pred(d.Args) {
			return d.Args
		}
	}
	return nil
}

// Doc, EncodedName and Discriminator build the decorators read by
// DecoratorAnnotator.
func Doc(text string) Decorator { return Decorator{Name: "@doc", Args: []any{text}} }

func EncodedName(mediaType, name string) Decorator {
	return Decorator{Name: "@encodedName", Args: []any{mediaType, name}}
}

func Discriminator(field string) Decorator {
	return Decorator{Name: "@discriminator", Args: []any{field}}
}
