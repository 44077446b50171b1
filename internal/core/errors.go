package core

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by how callers recover from it.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInputValidation is an out-of-range or non-numeric menu answer.
	KindInputValidation
	// KindDataUnavailable is a dataset that cannot be found or parsed.
	KindDataUnavailable
	// KindParseMismatch is captured output that matches no known pattern.
	KindParseMismatch
	// KindNormalizationGap is a category label no normalization rule covers.
	KindNormalizationGap
	// KindRunFailed is a scripted run that timed out or crashed.
	KindRunFailed
)

func (k Kind) String() string {
	switch k {
	case KindInputValidation:
		return "input validation"
	case KindDataUnavailable:
		return "data unavailable"
	case KindParseMismatch:
		return "parse mismatch"
	case KindNormalizationGap:
		return "normalization gap"
	case KindRunFailed:
		return "run failed"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per Kind, for use with errors.Is.
var (
	ErrInputValidation  = errors.New("invalid input")
	ErrDataUnavailable  = errors.New("dataset unavailable")
	ErrParseMismatch    = errors.New("parse mismatch")
	ErrNormalizationGap = errors.New("normalization gap")
	ErrRunFailed        = errors.New("run failed")
)

var kindSentinels = map[Kind]error{
	KindInputValidation:  ErrInputValidation,
	KindDataUnavailable:  ErrDataUnavailable,
	KindParseMismatch:    ErrParseMismatch,
	KindNormalizationGap: ErrNormalizationGap,
	KindRunFailed:        ErrRunFailed,
}

// Error is a classified failure of one operation.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "column choice"
	Err  error
}

// NewError wraps err with a kind and operation name.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a classified error from a format string.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel error of e's Kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// KindOf returns the Kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
