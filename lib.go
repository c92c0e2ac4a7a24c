package atlas

import (
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ReadFile reads a source file and decodes it as UTF-8 text.
func ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	for i := 0; i < len(b); {
		r, n := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && n == 1 {
			return "", &DecodeError{Path: path, Offset: i}
		}
		i += n
	}
	return string(b), nil
}

// ParseFile reads and parses the program in path.
func ParseFile(path string) (*Tree, error) {
	src, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	tree, err := ParseString(src)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return tree, nil
}

// EvalFile parses and reduces the program in path.
func (r *Reducer) EvalFile(path string) (Token, error) {
	tree, err := ParseFile(path)
	if err != nil {
		return Token{}, err
	}
	v, err := r.ReduceAll(tree)
	if err != nil {
		return Token{}, errors.Wrap(err, path)
	}
	return v, nil
}
