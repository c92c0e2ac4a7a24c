package atlas

import (
	"io"
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Reducer evaluates a Tree bottom-up. Output of print goes to out; a nil out
// discards it.
type Reducer struct {
	out io.Writer
}

func NewReducer(out io.Writer) *Reducer {
	return &Reducer{
		out: out,
	}
}

// Eval parses src and reduces it.
func (r *Reducer) Eval(src string) (Token, error) {
	tree, err := ParseString(src)
	if err != nil {
		return Token{}, err
	}
	return r.ReduceAll(tree)
}

// ReduceAll evaluates the top-level Expressions of tree in source order and
// returns the value of the last one. Each is reduced bottom-up, deepest
// first, with resolved children substituted into their parents' arguments in
// place.
func (r *Reducer) ReduceAll(tree *Tree) (Token, error) {
	if tree.Len() == 0 {
		return Token{}, errors.New("reduce: empty tree")
	}

	var v Token
	for i := 0; i < tree.Count(0); i++ {
		start, end, err := rootSpan(tree, i)
		if err != nil {
			return Token{}, err
		}
		v, err = r.reduceRoot(tree.Expressions()[start:end])
		if err != nil {
			return Token{}, err
		}
	}
	return v, nil
}

// rootSpan returns the flat range holding the i-th top-level Expression and
// all of its descendants. Expressions are stored in scan order, so the
// subtree ends where the next top-level Expression starts.
func rootSpan(tree *Tree, i int) (int, int, error) {
	start, err := tree.Offset(0, i)
	if err != nil {
		return 0, 0, err
	}
	end := tree.Len()
	if i+1 < tree.Count(0) {
		if end, err = tree.Offset(0, i+1); err != nil {
			return 0, 0, err
		}
	}
	return start, end, nil
}

// reduceRoot reduces one top-level Expression; span[0] is the root and the
// rest are its descendants.
func (r *Reducer) reduceRoot(span []*Expression) (Token, error) {
	exprs := make([]*Expression, len(span))
	copy(exprs, span)
	sort.SliceStable(exprs, func(i, j int) bool {
		if exprs[i].Depth() != exprs[j].Depth() {
			return exprs[i].Depth() > exprs[j].Depth()
		}
		return exprs[i].Index() < exprs[j].Index()
	})

	results := make(map[Coord]Token, len(exprs))
	for _, e := range exprs {
		for i, arg := range e.args {
			if arg.Type() != TokenRef {
				continue
			}
			if v, ok := results[arg.Coord()]; ok {
				e.args[i] = NewResult(arg.Coord(), v)
			}
		}

		b, err := builtinFor(e)
		if err != nil {
			return Token{}, err
		}
		v, err := ops[b](r, e)
		if err != nil {
			return Token{}, err
		}
		if glog.V(2) {
			glog.Infof("reduced %v %v => %v", e.Coord(), b, v)
		}
		results[e.Coord()] = v
	}

	root := span[0].Coord()
	v, ok := results[root]
	if !ok {
		return Token{}, errors.Wrapf(ErrOutOfRange, "no result for root %v", root)
	}
	return v, nil
}
