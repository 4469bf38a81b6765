package skemagen

import (
	"github.com/reoring/skemagen/internal/ir"
	"github.com/reoring/skemagen/internal/semantic"
)

// Input graph.
type (
	Namespace   = ir.Namespace
	Decl        = ir.Decl
	Model       = ir.Model
	Property    = ir.Property
	Union       = ir.Union
	Variant     = ir.Variant
	Type        = ir.Type
	Ref         = ir.Ref
	Literal     = ir.Literal
	MemberRef   = ir.MemberRef
	TemplateRef = ir.TemplateRef
	Decorator   = ir.Decorator
	Annotator   = ir.Annotator
	Value       = ir.Value
)

// Null is the null type, used as a union variant to make a type nullable.
var Null = ir.Null

var (
	StringValue  = ir.StringValue
	IntegerValue = ir.IntegerValue
	FloatValue   = ir.FloatValue
	BooleanValue = ir.BooleanValue
)

// Decorator builders understood by the default annotator.
var (
	Doc           = ir.Doc
	EncodedName   = ir.EncodedName
	Discriminator = ir.Discriminator
)

const (
	MediaJSON = ir.MediaJSON
	MediaGo   = ir.MediaGo
)

// Result is the resolved symbol table returned by Inspect.
type Result = semantic.Result

// Options configure a run. The zero value generates self-contained packages
// using encoding/json.
type Options struct {
	// JSONPackage is imported as json by generated code. Defaults to
	// encoding/json; any package with the same Marshal/Unmarshal/RawMessage
	// API works.
	JSONPackage string
	// RuntimeImport is the import path of the nullable runtime.
	RuntimeImport string
	// ImportBase is the import path of the output directory. Each namespace
	// lives at ImportBase/<package>. Without it, references across
	// namespaces are rejected.
	ImportBase string
	// WireMediaType selects the encodedName used for JSON keys.
	WireMediaType string
	// GoMediaType selects the encodedName used for Go identifiers.
	GoMediaType string
	// Annotator reads docs, encoded names and discriminators. Defaults to
	// the decorator-based annotator.
	Annotator Annotator
}

// File is the generated source of one namespace.
type File struct {
	Namespace string
	Package   string
	Path      string // slash-separated, relative to the output directory
	Content   []byte
}
