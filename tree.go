package atlas

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

// Tree is the flat, append-only store of every Expression created by a parse.
// Nesting is not held by pointers: parents refer to children by Coord, and
// levels maps each coordinate back to its flat offset.
type Tree struct {
	exprs  []*Expression
	levels [][]int
}

func NewTree() *Tree {
	return &Tree{}
}

// Push appends e. Its index must be the next unused ordinal at its depth.
func (t *Tree) Push(e *Expression) {
	for len(t.levels) <= e.depth {
		t.levels = append(t.levels, nil)
	}
	t.levels[e.depth] = append(t.levels[e.depth], len(t.exprs))
	t.exprs = append(t.exprs, e)
}

func (t *Tree) Len() int { return len(t.exprs) }

// Get returns the Expression at flat offset i.
func (t *Tree) Get(i int) (*Expression, error) {
	if i < 0 || i >= len(t.exprs) {
		return nil, errors.Wrapf(ErrOutOfRange, "flat index %d of %d", i, len(t.exprs))
	}
	return t.exprs[i], nil
}

// Count returns how many Expressions have been opened at depth.
func (t *Tree) Count(depth int) int {
	if depth < 0 || depth >= len(t.levels) {
		return 0
	}
	return len(t.levels[depth])
}

// MaxDepth returns the deepest nesting level, or -1 for an empty tree.
func (t *Tree) MaxDepth() int {
	return len(t.levels) - 1
}

// Offset translates a coordinate into a flat offset.
func (t *Tree) Offset(depth, index int) (int, error) {
	if depth < 0 || depth >= len(t.levels) || index < 0 || index >= len(t.levels[depth]) {
		return 0, errors.Wrapf(ErrOutOfRange, "coordinate (%d,%d)", depth, index)
	}
	return t.levels[depth][index], nil
}

// Lookup returns the Expression at coordinate (depth, index).
func (t *Tree) Lookup(depth, index int) (*Expression, error) {
	i, err := t.Offset(depth, index)
	if err != nil {
		return nil, err
	}
	return t.Get(i)
}

// Expressions returns the flat sequence in scan order. Callers may mutate the
// Expressions but not the slice.
func (t *Tree) Expressions() []*Expression {
	return t.exprs
}

func (t *Tree) String() string {
	var buf bytes.Buffer
	for i, e := range t.exprs {
		fmt.Fprintf(&buf, "%d %v %v\n", i, e.Coord(), e)
	}
	return buf.String()
}
