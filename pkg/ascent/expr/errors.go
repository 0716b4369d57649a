package expr

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per failure kind. Every *Error unwraps to exactly one
// of these so callers can branch with errors.Is.
var (
	// ErrLex indicates an unrecognized character or malformed number.
	ErrLex = errors.New("lex error")

	// ErrParse indicates an unexpected token, unmatched parenthesis, or
	// trailing input after a complete expression.
	ErrParse = errors.New("parse error")

	// ErrUnboundIdentifier indicates a name absent from every scope layer.
	ErrUnboundIdentifier = errors.New("unbound identifier")

	// ErrUnknownFunction indicates a call to a name missing from the registry.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrArityMismatch indicates a call with the wrong number of arguments.
	ErrArityMismatch = errors.New("arity mismatch")

	// ErrDivisionByZero indicates a zero divisor for '/', '%' or mod().
	ErrDivisionByZero = errors.New("division by zero")

	// ErrDomain indicates a function argument outside its mathematical domain.
	ErrDomain = errors.New("domain error")

	// ErrNestingTooDeep indicates the configured maximum depth was exceeded.
	ErrNestingTooDeep = errors.New("nesting too deep")
)

// Kind classifies an evaluation failure.
type Kind int

const (
	KindLex Kind = iota
	KindParse
	KindUnboundIdentifier
	KindUnknownFunction
	KindArityMismatch
	KindDivisionByZero
	KindDomain
	KindNestingTooDeep
)

// String returns the kind name used in logs and metric attributes.
func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex_error"
	case KindParse:
		return "parse_error"
	case KindUnboundIdentifier:
		return "unbound_identifier"
	case KindUnknownFunction:
		return "unknown_function"
	case KindArityMismatch:
		return "arity_mismatch"
	case KindDivisionByZero:
		return "division_by_zero"
	case KindDomain:
		return "domain_error"
	case KindNestingTooDeep:
		return "nesting_too_deep"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindLex:
		return ErrLex
	case KindParse:
		return ErrParse
	case KindUnboundIdentifier:
		return ErrUnboundIdentifier
	case KindUnknownFunction:
		return ErrUnknownFunction
	case KindArityMismatch:
		return ErrArityMismatch
	case KindDivisionByZero:
		return ErrDivisionByZero
	case KindDomain:
		return ErrDomain
	case KindNestingTooDeep:
		return ErrNestingTooDeep
	default:
		return nil
	}
}

// Stage names the pipeline step that failed.
type Stage int

const (
	StageLex Stage = iota
	StageParse
	StageEvaluate
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageLex:
		return "lex"
	case StageParse:
		return "parse"
	case StageEvaluate:
		return "evaluate"
	default:
		return "unknown"
	}
}

// NoPos marks an error without a source position.
const NoPos = -1

// Error is the single error type returned by every stage of the pipeline.
type Error struct {
	// Kind is the failure classification.
	Kind Kind
	// Stage is the pipeline step that failed.
	Stage Stage
	// Pos is the byte offset into the source, or NoPos.
	Pos int
	// Msg is a human readable description.
	Msg string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos == NoPos {
		return fmt.Sprintf("%s: %s", e.Kind.sentinel(), e.Msg)
	}
	return fmt.Sprintf("%s at position %d: %s", e.Kind.sentinel(), e.Pos, e.Msg)
}

// Unwrap returns the sentinel for the error kind for errors.Is support.
func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

func newError(kind Kind, stage Stage, pos int, format string, args ...any) *Error {
	return &Error{
		Kind:  kind,
		Stage: stage,
		Pos:   pos,
		Msg:   fmt.Sprintf(format, args...),
	}
}

// AsError extracts an *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
