package atlas

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Parser scans source text once, left to right, and builds a flat Tree.
// Nesting is tracked with a stack of open Expressions instead of recursion.
type Parser struct {
	buf   *bufio.Reader
	pos   int
	tree  *Tree
	stack []*Expression

	atom   bytes.Buffer
	atomAt int
	quoted bool // atom is a string literal
	ended  bool // closing quote of the literal has been read
}

func NewParser(r io.Reader) *Parser {
	return &Parser{
		buf: bufio.NewReader(r),
	}
}

// ParseString parses src into a Tree.
func ParseString(src string) (*Tree, error) {
	return NewParser(strings.NewReader(src)).Parse()
}

// Pos returns the rune offset of the next rune to be read.
func (p *Parser) Pos() int {
	return p.pos
}

func (p *Parser) readRune() (rune, error) {
	r, n, err := p.buf.ReadRune()
	if err != nil {
		return r, err
	}
	if r == utf8.RuneError && n == 1 {
		return r, syntaxErrorf(p.pos, "invalid UTF-8 encoding")
	}
	p.pos++
	return r, nil
}

func (p *Parser) current() *Expression {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

// Parse consumes the whole input. On error no Tree is returned.
func (p *Parser) Parse() (*Tree, error) {
	p.tree = NewTree()
	p.stack = nil
	p.resetAtom()

	for {
		r, err := p.readRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			if IsSyntaxError(err) {
				return nil, err
			}
			return nil, errors.Wrap(err, "read source")
		}
		pos := p.pos - 1

		if p.quoted && !p.ended {
			if err := p.literalRune(r); err != nil {
				return nil, err
			}
			continue
		}

		switch {
		case r == '(':
			err = p.openParen(pos)
		case r == ')':
			err = p.closeParen(pos)
		case unicode.IsSpace(r):
			err = p.flush()
		case r == ';':
			if err = p.flush(); err == nil {
				err = p.skipComment()
			}
		case r == '"':
			err = p.startLiteral(pos)
		default:
			err = p.atomRune(r, pos)
		}
		if err != nil {
			return nil, err
		}
	}
	return p.finish()
}

func (p *Parser) finish() (*Tree, error) {
	if p.quoted && !p.ended {
		return nil, syntaxErrorf(p.atomAt, "unterminated string literal")
	}
	if err := p.flush(); err != nil {
		return nil, err
	}
	if len(p.stack) > 0 {
		e := p.stack[0]
		open, _ := e.Opening()
		return nil, &SyntaxError{Pos: open, Msg: "unbalanced parentheses: unclosed '('", Unbalanced: true}
	}
	if p.tree.Len() == 0 {
		return nil, syntaxErrorf(p.pos, "no expression")
	}
	return p.tree, nil
}

func (p *Parser) openParen(pos int) error {
	if p.atom.Len() > 0 || p.quoted {
		return syntaxErrorf(pos, "missing space before '('")
	}
	parent := p.current()
	if parent == nil {
		return p.push(NewExpression(0, p.tree.Count(0)), pos)
	}
	if parent.Keyword() == nil {
		return syntaxErrorf(pos, "expected keyword before nested expression")
	}
	depth := parent.Depth() + 1
	child := NewExpression(depth, p.tree.Count(depth))
	parent.appendArg(NewRef(child.Depth(), child.Index()))
	return p.push(child, pos)
}

func (p *Parser) push(e *Expression, pos int) error {
	if err := e.Open(pos); err != nil {
		return errors.Wrap(err, "open expression")
	}
	p.tree.Push(e)
	p.stack = append(p.stack, e)
	if glog.V(3) {
		glog.Infof("open %v at %d", e.Coord(), pos)
	}
	return nil
}

func (p *Parser) closeParen(pos int) error {
	e := p.current()
	if e == nil {
		return &SyntaxError{Pos: pos, Msg: "unbalanced parentheses: unmatched ')'", Unbalanced: true}
	}
	if err := p.flush(); err != nil {
		return err
	}
	if err := e.Close(pos); err != nil {
		return errors.Wrap(err, "close expression")
	}
	p.stack = p.stack[:len(p.stack)-1]
	if glog.V(3) {
		glog.Infof("close %v at %d", e.Coord(), pos)
	}
	return nil
}

func (p *Parser) startLiteral(pos int) error {
	if p.atom.Len() > 0 || p.quoted {
		return syntaxErrorf(pos, "malformed string literal")
	}
	if p.current() == nil {
		return syntaxErrorf(pos, "string literal outside of expression")
	}
	p.quoted = true
	p.atomAt = pos
	return nil
}

func (p *Parser) literalRune(r rune) error {
	switch r {
	case '"':
		p.ended = true
		return nil
	case '\\':
		esc, err := p.readRune()
		if err == io.EOF {
			return syntaxErrorf(p.atomAt, "unterminated string literal")
		}
		if err != nil {
			return err
		}
		switch esc {
		case 'n':
			r = '\n'
		case 't':
			r = '\t'
		case 'r':
			r = '\r'
		case '"', '\\':
			r = esc
		default:
			return syntaxErrorf(p.pos-1, "unknown escape sequence \\%c", esc)
		}
	}
	p.atom.WriteRune(r)
	return nil
}

func (p *Parser) atomRune(r rune, pos int) error {
	if p.ended {
		return syntaxErrorf(pos, "malformed string literal: unexpected %q after closing quote", r)
	}
	if p.current() == nil {
		return syntaxErrorf(pos, "unexpected %q outside of expression", r)
	}
	if p.atom.Len() == 0 {
		p.atomAt = pos
	}
	p.atom.WriteRune(r)
	return nil
}

func (p *Parser) skipComment() error {
	for {
		r, err := p.readRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if r == '\n' {
			return nil
		}
	}
}

// flush turns the pending atom into a token of the current Expression: the
// first one becomes its keyword, the rest are appended to its arguments.
func (p *Parser) flush() error {
	if !p.quoted && p.atom.Len() == 0 {
		return nil
	}
	defer p.resetAtom()

	var tok Token
	if p.quoted {
		tok = NewLiteral(p.atom.String())
	} else {
		var err error
		tok, err = classify(p.atom.String())
		if err != nil {
			return syntaxErrorf(p.atomAt, "%v", err)
		}
	}

	e := p.current()
	if e.Keyword() == nil {
		if tok.Type() == TokenVariable {
			tok = NewKeyword(tok.Text())
		}
		e.setKeyword(tok)
		return nil
	}
	e.appendArg(tok)
	return nil
}

func (p *Parser) resetAtom() {
	p.atom.Reset()
	p.quoted = false
	p.ended = false
}
