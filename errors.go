package lcpp

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind tags the taxonomy of failures a compile can raise. It is a
// taxonomy, not a Go type per kind: every failure surfaces as an *Error
// carrying one of these tags.
type Kind string

const (
	KindUnbalancedConditional Kind = "UnbalancedConditional"
	KindUnknownDirective      Kind = "UnknownDirective"
	KindExpressionParse       Kind = "ExpressionParseError"
	KindRedefinition          Kind = "RedefinitionError"
	KindUser                  Kind = "UserError"
	KindIncludeNotFound       Kind = "IncludeNotFound"
)

// Error is the structured failure shape every compile error takes:
// "lcpp ERR [NNNN] message", NNNN being the 4-digit zero-padded lineno at
// the point of failure. Cause, when present, is wrapped with
// github.com/pkg/errors so %+v on it prints the stack trace recorded
// where wrapError wrapped it.
type Error struct {
	Kind    Kind
	Lineno  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("lcpp ERR [%04d] %s", e.Lineno, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(kind Kind, lineno int, message string) *Error {
	return &Error{Kind: kind, Lineno: lineno, Message: message}
}

func wrapError(kind Kind, lineno int, message string, cause error) *Error {
	return &Error{Kind: kind, Lineno: lineno, Message: message, Cause: pkgerrors.WithStack(cause)}
}
