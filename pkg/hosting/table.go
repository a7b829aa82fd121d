package hosting

import (
	"fmt"
	"sort"

	"github.com/RaiVaibhav/IGitt/pkg/errors"
)

// Table translates an abstract enumeration to a provider's string encoding
// and back. Values missing from the table fail with ErrCodeUnmapped.
type Table[E comparable] struct {
	name    string
	encode  map[E]string
	decode  map[string]E
	reverse map[string]int // number of values sharing each code
}

// NewTable builds a one-to-one table. It panics if two values share a
// code, since tables are package-level constants and such a table is a
// programming error.
func NewTable[E comparable](name string, m map[E]string) *Table[E] {
	t := newTable(name, m)
	for code, n := range t.reverse {
		if n > 1 {
			panic(fmt.Sprintf("hosting: table %s maps %d values to %q", name, n, code))
		}
	}
	return t
}

// NewManyToOneTable builds a table in which several values may share a
// code. Encoding works for every value; decoding a shared code fails with
// ErrCodeUnmapped because the abstract value cannot be recovered from the
// code alone.
func NewManyToOneTable[E comparable](name string, m map[E]string) *Table[E] {
	return newTable(name, m)
}

func newTable[E comparable](name string, m map[E]string) *Table[E] {
	t := &Table[E]{
		name:    name,
		encode:  make(map[E]string, len(m)),
		decode:  make(map[string]E, len(m)),
		reverse: make(map[string]int, len(m)),
	}
	for v, code := range m {
		t.encode[v] = code
		t.decode[code] = v
		t.reverse[code]++
	}
	return t
}

// Name returns the table name used in error messages.
func (t *Table[E]) Name() string { return t.name }

// Encode returns the provider code for v.
func (t *Table[E]) Encode(v E) (string, error) {
	code, ok := t.encode[v]
	if !ok {
		return "", errors.New(errors.ErrCodeUnmapped, "%s: no encoding for %v", t.name, v)
	}
	return code, nil
}

// Decode returns the abstract value for a provider code.
func (t *Table[E]) Decode(code string) (E, error) {
	var zero E
	v, ok := t.decode[code]
	if !ok {
		return zero, errors.New(errors.ErrCodeUnmapped, "%s: unknown code %q", t.name, code)
	}
	if t.reverse[code] > 1 {
		return zero, errors.New(errors.ErrCodeUnmapped, "%s: code %q is shared by several values", t.name, code)
	}
	return v, nil
}

// EncodeAll encodes every value in vs, dropping duplicate codes while
// keeping the first occurrence order.
func (t *Table[E]) EncodeAll(vs []E) ([]string, error) {
	seen := make(map[string]bool, len(vs))
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		code, err := t.Encode(v)
		if err != nil {
			return nil, err
		}
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	return out, nil
}

// Codes returns every provider code in the table, sorted.
func (t *Table[E]) Codes() []string {
	out := make([]string, 0, len(t.reverse))
	for code := range t.reverse {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
