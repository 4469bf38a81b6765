package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/skemagen/i18n"
)

// Issue codes.
const (
	CodeDuplicateSymbol           = "duplicate_symbol"
	CodeUnresolvedReference       = "unresolved_reference"
	CodeIncompatibleUnionType     = "incompatible_union_type"
	CodeMissingDiscriminator      = "missing_discriminator"
	CodeInconsistentDiscriminator = "inconsistent_discriminator"
	CodeUnsupportedTypeKind       = "unsupported_type_kind"
)

// Sentinels matched by Issue.Is, so callers can use errors.Is(err, ErrX).
var (
	ErrDuplicateSymbol           = errors.New(CodeDuplicateSymbol)
	ErrUnresolvedReference       = errors.New(CodeUnresolvedReference)
	ErrIncompatibleUnionType     = errors.New(CodeIncompatibleUnionType)
	ErrMissingDiscriminator      = errors.New(CodeMissingDiscriminator)
	ErrInconsistentDiscriminator = errors.New(CodeInconsistentDiscriminator)
	ErrUnsupportedTypeKind       = errors.New(CodeUnsupportedTypeKind)
)

var sentinels = map[string]error{
	CodeDuplicateSymbol:           ErrDuplicateSymbol,
	CodeUnresolvedReference:       ErrUnresolvedReference,
	CodeIncompatibleUnionType:     ErrIncompatibleUnionType,
	CodeMissingDiscriminator:      ErrMissingDiscriminator,
	CodeInconsistentDiscriminator: ErrInconsistentDiscriminator,
	CodeUnsupportedTypeKind:       ErrUnsupportedTypeKind,
}

// Issue is a single resolution failure. It identifies the namespace and the
// offending symbol.
type Issue struct {
	Code      string
	Namespace string // empty for the global scope
	Symbol    string // source name of the offending symbol
	Detail    string // free-form detail appended to the translated message
	Cause     error
}

func (i *Issue) Error() string {
	b := &strings.Builder{}
	b.WriteString(i18n.T(i.Code, map[string]string{"symbol": i.qualified()}))
	if i.Detail != "" {
		b.WriteString(": ")
		b.WriteString(i.Detail)
	}
	if i.Cause != nil {
		fmt.Fprintf(b, ": %v", i.Cause)
	}
	return b.String()
}

func (i *Issue) qualified() string {
	switch {
	case i.Symbol == "":
		return i.Namespace
	case i.Namespace == "":
		return i.Symbol
	default:
		return i.Namespace + "." + i.Symbol
	}
}

func (i *Issue) Unwrap() error { return i.Cause }

// Is reports whether target is the sentinel for this issue's code.
func (i *Issue) Is(target error) bool {
	s, ok := sentinels[i.Code]
	return ok && s == target
}

// New builds an Issue with a formatted detail.
func New(code, namespace, symbol, format string, args ...any) *Issue {
	return &Issue{Code: code, Namespace: namespace, Symbol: symbol, Detail: fmt.Sprintf(format, args...)}
}

// Issues is a collection of issues that implements error.
type Issues []*Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].Error())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssue extracts the first Issue from an error chain.
func AsIssue(err error) (*Issue, bool) {
	var is *Issue
	if errors.As(err, &is) {
		return is, true
	}
	return nil, false
}
