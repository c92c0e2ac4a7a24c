package atlas

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type TokenType int

const (
	TokenKeyword TokenType = iota
	TokenLiteral
	TokenNumber
	TokenVariable
	TokenRef
	TokenResult
)

func (t TokenType) String() string {
	switch t {
	case TokenKeyword:
		return "Keyword"
	case TokenLiteral:
		return "Literal"
	case TokenNumber:
		return "Number"
	case TokenVariable:
		return "Variable"
	case TokenRef:
		return "ExpressionRef"
	case TokenResult:
		return "Result"
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Coord addresses one Expression within its depth.
type Coord struct {
	Depth int
	Index int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Depth, c.Index)
}

// Token is a parsed atom, a reference to a nested Expression, or a resolved
// value. Only the fields belonging to t are meaningful.
type Token struct {
	t     TokenType
	s     string
	n     float64
	coord Coord
	res   *Token
}

func NewKeyword(s string) Token { return Token{t: TokenKeyword, s: s} }
func NewLiteral(s string) Token { return Token{t: TokenLiteral, s: s} }
func NewNumber(n float64) Token { return Token{t: TokenNumber, n: n} }
func NewVariable(s string) Token { return Token{t: TokenVariable, s: s} }

func NewRef(depth, index int) Token {
	return Token{t: TokenRef, coord: Coord{Depth: depth, Index: index}}
}

// NewResult wraps v, the value computed for the Expression at c. Results
// never nest: wrapping a Result rewraps its value.
func NewResult(c Coord, v Token) Token {
	if v.t == TokenResult {
		v = *v.res
	}
	return Token{t: TokenResult, coord: c, res: &v}
}

func (t Token) Type() TokenType { return t.t }

// Text returns the text of a Keyword, Literal or Variable.
func (t Token) Text() string { return t.s }

// Number returns the value of a Number token.
func (t Token) Number() float64 { return t.n }

// Coord returns the coordinate of a Ref, or the origin of a Result.
func (t Token) Coord() Coord { return t.coord }

// Value returns the concrete token behind a Result, or t itself.
func (t Token) Value() Token {
	if t.t == TokenResult {
		return *t.res
	}
	return t
}

// Equal compares tokens by tag and payload.
func (t Token) Equal(o Token) bool {
	if t.t != o.t {
		return false
	}
	switch t.t {
	case TokenNumber:
		return t.n == o.n
	case TokenRef:
		return t.coord == o.coord
	case TokenResult:
		return t.coord == o.coord && t.res.Equal(*o.res)
	}
	return t.s == o.s
}

func (t Token) String() string {
	switch t.t {
	case TokenLiteral:
		return quote(t.s)
	case TokenNumber:
		return strconv.FormatFloat(t.n, 'g', -1, 64)
	case TokenRef:
		return "$" + t.coord.String()
	case TokenResult:
		return t.res.String()
	}
	return t.s
}

// classify converts a flushed atom into a token. Quoted atoms are handled by
// the parser before this is reached.
func classify(s string) (Token, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err == nil {
		if math.IsInf(f, 0) || math.IsNaN(f) {
			// "inf", "nan" and friends are names, not numbers.
			return NewVariable(s), nil
		}
		return NewNumber(f), nil
	}
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return Token{}, fmt.Errorf("number out of range: %s", s)
	}
	return NewVariable(s), nil
}

func quote(s string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			buf.WriteByte('\\')
			buf.WriteRune(r)
		case '\n':
			buf.WriteString(`\n`)
		case '\t':
			buf.WriteString(`\t`)
		case '\r':
			buf.WriteString(`\r`)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}
