package skemagen

import (
	"errors"

	"github.com/hashicorp/go-multierror"

	"github.com/reoring/skemagen/i18n"
	"github.com/reoring/skemagen/internal/diag"
)

// Issue codes.
const (
	CodeDuplicateSymbol           = diag.CodeDuplicateSymbol
	CodeUnresolvedReference       = diag.CodeUnresolvedReference
	CodeIncompatibleUnionType     = diag.CodeIncompatibleUnionType
	CodeMissingDiscriminator      = diag.CodeMissingDiscriminator
	CodeInconsistentDiscriminator = diag.CodeInconsistentDiscriminator
	CodeUnsupportedTypeKind       = diag.CodeUnsupportedTypeKind
)

// Sentinels for errors.Is.
var (
	ErrDuplicateSymbol           = diag.ErrDuplicateSymbol
	ErrUnresolvedReference       = diag.ErrUnresolvedReference
	ErrIncompatibleUnionType     = diag.ErrIncompatibleUnionType
	ErrMissingDiscriminator      = diag.ErrMissingDiscriminator
	ErrInconsistentDiscriminator = diag.ErrInconsistentDiscriminator
	ErrUnsupportedTypeKind       = diag.ErrUnsupportedTypeKind
)

// Issue is one failure, tied to a namespace and symbol.
type Issue = diag.Issue

// AsIssues flattens err into the issues it carries, one per failed
// namespace. Errors that are not issues are skipped.
func AsIssues(err error) []*Issue {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		var out []*Issue
		for _, e := range merr.Errors {
			out = append(out, AsIssues(e)...)
		}
		return out
	}
	if is, ok := diag.AsIssue(err); ok {
		return []*Issue{is}
	}
	return nil
}

// SetLanguage switches issue messages between "en" and "ja".
func SetLanguage(lang string) { i18n.SetLanguage(lang) }
