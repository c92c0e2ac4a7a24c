package atlas

import (
	"fmt"
	"strings"
)

// Builtin is one of the fixed operations a keyword can name.
type Builtin int

const (
	BuiltinPrint Builtin = iota
	BuiltinAdd
	BuiltinSubtract
	BuiltinMultiply
	BuiltinDivide
)

var builtinNames = map[string]Builtin{
	"print": BuiltinPrint,
	"+":     BuiltinAdd,
	"-":     BuiltinSubtract,
	"*":     BuiltinMultiply,
	"/":     BuiltinDivide,
}

func (b Builtin) String() string {
	switch b {
	case BuiltinPrint:
		return "print"
	case BuiltinAdd:
		return "+"
	case BuiltinSubtract:
		return "-"
	case BuiltinMultiply:
		return "*"
	case BuiltinDivide:
		return "/"
	}
	return fmt.Sprintf("Builtin(%d)", int(b))
}

// LookupBuiltin maps a name to its builtin, ignoring case and surrounding
// space.
func LookupBuiltin(name string) (Builtin, bool) {
	b, ok := builtinNames[strings.ToLower(strings.TrimSpace(name))]
	return b, ok
}

type Fn func(*Reducer, *Expression) (Token, error)

var ops map[Builtin]Fn

func init() {
	ops = map[Builtin]Fn{
		BuiltinPrint:    doPrint,
		BuiltinAdd:      doPlus,
		BuiltinSubtract: notImplemented,
		BuiltinMultiply: notImplemented,
		BuiltinDivide:   notImplemented,
	}
}

// builtinFor resolves the keyword of e. Only Keyword and Variable tokens can
// name a builtin.
func builtinFor(e *Expression) (Builtin, error) {
	kw := e.Keyword()
	if kw == nil {
		return 0, newEvalError(UnknownFunction, e, "missing keyword")
	}
	if kw.Type() != TokenKeyword && kw.Type() != TokenVariable {
		return 0, newEvalError(UnknownFunction, e, "%v is not a function name", kw.Type())
	}
	b, ok := LookupBuiltin(kw.Text())
	if !ok {
		return 0, newEvalError(UnknownFunction, e, "unknown function %q", kw.Text())
	}
	return b, nil
}

func doPlus(r *Reducer, e *Expression) (Token, error) {
	var sum float64
	for i, arg := range e.Args() {
		v := arg.Value()
		switch v.Type() {
		case TokenNumber:
			sum += v.Number()
		case TokenRef:
			return Token{}, newEvalError(InvalidArgument, e, "argument %d: unresolved expression %v", i, v.Coord())
		default:
			return Token{}, newEvalError(InvalidArgument, e, "argument %d: %v is not a number", i, v.Type())
		}
	}
	return NewNumber(sum), nil
}

func doPrint(r *Reducer, e *Expression) (Token, error) {
	parts := make([]string, 0, len(e.Args()))
	for i, arg := range e.Args() {
		v := arg.Value()
		switch v.Type() {
		case TokenRef:
			return Token{}, newEvalError(InvalidArgument, e, "argument %d: unresolved expression %v", i, v.Coord())
		case TokenLiteral:
			parts = append(parts, v.Text())
		default:
			parts = append(parts, v.String())
		}
	}
	s := strings.Join(parts, " ")
	if r.out != nil {
		fmt.Fprintln(r.out, s)
	}
	return NewLiteral(s), nil
}

func notImplemented(r *Reducer, e *Expression) (Token, error) {
	return Token{}, newEvalError(NotImplemented, e, "builtin not implemented")
}
