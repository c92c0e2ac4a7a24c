package atlas

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrOutOfRange is returned when a flat index or coordinate does not
	// address an Expression of the Tree. A correct Parser never produces one.
	ErrOutOfRange = errors.New("index out of range")
)

// SyntaxError is a malformed-input error detected while parsing.
type SyntaxError struct {
	Pos        int
	Msg        string
	Unbalanced bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d: %s", e.Pos, e.Msg)
}

func syntaxErrorf(pos int, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// EvalErrorKind classifies evaluation failures.
type EvalErrorKind int

const (
	UnknownFunction EvalErrorKind = iota
	InvalidArgument
	NotImplemented
)

func (k EvalErrorKind) String() string {
	switch k {
	case UnknownFunction:
		return "UnknownFunction"
	case InvalidArgument:
		return "InvalidArgument"
	case NotImplemented:
		return "NotImplemented"
	}
	return fmt.Sprintf("EvalErrorKind(%d)", int(k))
}

// EvalError reports a failed reduction along with the coordinate and keyword
// of the Expression that failed.
type EvalError struct {
	Kind    EvalErrorKind
	Coord   Coord
	Keyword string
	Msg     string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%v: %s at %v (%s)", e.Kind, e.Msg, e.Coord, e.Keyword)
}

func newEvalError(kind EvalErrorKind, e *Expression, format string, args ...interface{}) *EvalError {
	kw := ""
	if k := e.Keyword(); k != nil {
		kw = k.String()
	}
	return &EvalError{
		Kind:    kind,
		Coord:   e.Coord(),
		Keyword: kw,
		Msg:     fmt.Sprintf(format, args...),
	}
}

// DecodeError is returned by ReadFile when a source file is not valid UTF-8.
type DecodeError struct {
	Path   string
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid UTF-8 at byte %d", e.Path, e.Offset)
}

// IsSyntaxError reports whether err was caused by malformed input.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// IsEvalError reports whether err is an evaluation failure of the given kind.
func IsEvalError(err error, kind EvalErrorKind) bool {
	var ee *EvalError
	return errors.As(err, &ee) && ee.Kind == kind
}
