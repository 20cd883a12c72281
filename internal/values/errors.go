package values

import (
	"fmt"

	"github.com/forgelang/forge/internal/ast"
)

// RuntimeError is spec §4.1/§7's "Message" failure: an English
// language error, not catchable by try/catch, with an optional span
// and an optional context string.
type RuntimeError struct {
	Message string
	Span    ast.Span
	Context string
}

func (e *RuntimeError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Context)
	}
	return e.Message
}

// NewRuntimeError builds a span-less Message error, in the teacher's
// own newError(format, args...) idiom (internal/evaluator/helpers.go).
func NewRuntimeError(format string, args ...any) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) WithSpan(sp ast.Span) *RuntimeError {
	cp := *e
	cp.Span = sp
	return &cp
}

func (e *RuntimeError) WithContext(ctx string) *RuntimeError {
	cp := *e
	cp.Context = ctx
	return &cp
}

// Propagate is spec §4.1/§7's "Propagate" failure: carries a Value
// payload, produced by `?` on Err/None or by error.throw, recoverable
// by try/catch, and automatically reraised across function boundaries
// when the declared return tag is Option or Result.
type Propagate struct {
	Payload Value
	Span    ast.Span
}

func (e *Propagate) Error() string {
	return fmt.Sprintf("uncaught propagated error: %s", e.Payload.Inspect())
}

// Signal is the family of non-error control-transfer exceptions used
// internally by the Evaluator to unwind the Go call stack for
// return/break/continue (spec §4.1). They are not errors in the Go
// sense and must never reach a user-visible error path.
type Signal interface {
	error
	signalNode()
}

type ReturnSignal struct{ Value Value }

func (ReturnSignal) Error() string { return "return outside function" }
func (ReturnSignal) signalNode()   {}

type BreakSignal struct{}

func (BreakSignal) Error() string { return "break outside loop" }
func (BreakSignal) signalNode()   {}

type ContinueSignal struct{}

func (ContinueSignal) Error() string { return "continue outside loop" }
func (ContinueSignal) signalNode()   {}
