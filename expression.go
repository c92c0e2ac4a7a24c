package atlas

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

const noPos = -1

// Expression is one parenthesized form: a keyword followed by its arguments.
// Nested forms appear in args as Ref tokens.
type Expression struct {
	keyword *Token
	depth   int
	index   int
	args    []Token
	open    int
	close   int
}

func NewExpression(depth, index int) *Expression {
	return &Expression{
		depth: depth,
		index: index,
		open:  noPos,
		close: noPos,
	}
}

func (e *Expression) Depth() int { return e.depth }
func (e *Expression) Index() int { return e.index }
func (e *Expression) Coord() Coord { return Coord{Depth: e.depth, Index: e.index} }

// Keyword returns the leading atom, or nil if none has been read yet.
func (e *Expression) Keyword() *Token { return e.keyword }

func (e *Expression) Args() []Token { return e.args }

func (e *Expression) setKeyword(t Token) {
	e.keyword = &t
}

func (e *Expression) appendArg(t Token) {
	e.args = append(e.args, t)
}

// Opening returns the rune offset of the opening paren.
func (e *Expression) Opening() (int, bool) { return e.open, e.open != noPos }

// Closing returns the rune offset of the closing paren.
func (e *Expression) Closing() (int, bool) { return e.close, e.close != noPos }

func (e *Expression) IsUnclosed() bool {
	return e.open != noPos && e.close == noPos
}

func (e *Expression) IsClosed() bool {
	return e.open != noPos && e.close != noPos
}

// Open records the opening delimiter. An Expression is opened exactly once.
func (e *Expression) Open(pos int) error {
	if e.open != noPos {
		return errors.Errorf("expression %v already opened at %d", e.Coord(), e.open)
	}
	e.open = pos
	return nil
}

// Close records the closing delimiter of an unclosed Expression.
func (e *Expression) Close(pos int) error {
	if e.open == noPos {
		return errors.Errorf("expression %v closed before being opened", e.Coord())
	}
	if e.close != noPos {
		return errors.Errorf("expression %v already closed at %d", e.Coord(), e.close)
	}
	e.close = pos
	return nil
}

func (e *Expression) String() string {
	var buf bytes.Buffer
	fmt.Fprint(&buf, "(")
	if e.keyword != nil {
		fmt.Fprint(&buf, e.keyword)
	}
	for _, a := range e.args {
		fmt.Fprint(&buf, " ", a)
	}
	fmt.Fprint(&buf, ")")
	return buf.String()
}
