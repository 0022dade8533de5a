// Package elements provides the ordered atomic-number vocabulary that maps
// chemical elements to model row indices. Row order in species-indexed
// parameter tensors follows table order, so two models agree on element
// semantics exactly when their tables agree.
package elements

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotInTable is returned when an atomic number is absent from a table.
var ErrNotInTable = errors.New("atomic number not in table")

// Table is an ordered list of atomic numbers.
// The index of a number in the table is the row index used for that element
// in every species-indexed parameter tensor.
type Table struct {
	zs []int
}

// NewTable creates a table preserving the caller's order.
// Use FromNumbers for the canonical sorted, deduplicated form.
func NewTable(zs []int) *Table {
	return &Table{zs: append([]int(nil), zs...)}
}

// FromNumbers creates the canonical table for a set of atomic numbers:
// duplicates removed, sorted ascending.
func FromNumbers(zs ...int) *Table {
	seen := make(map[int]struct{}, len(zs))
	unique := make([]int, 0, len(zs))
	for _, z := range zs {
		if _, ok := seen[z]; ok {
			continue
		}
		seen[z] = struct{}{}
		unique = append(unique, z)
	}
	sort.Ints(unique)
	return &Table{zs: unique}
}

// Len returns the number of elements in the table.
func (t *Table) Len() int {
	return len(t.zs)
}

// Z returns the atomic number at the given index.
// Panics if the index is out of range.
func (t *Table) Z(index int) int {
	return t.zs[index]
}

// Zs returns a copy of the table's atomic numbers in order.
func (t *Table) Zs() []int {
	return append([]int(nil), t.zs...)
}

// Index returns the position of the given atomic number in the table.
func (t *Table) Index(z int) (int, error) {
	for i, zz := range t.zs {
		if zz == z {
			return i, nil
		}
	}
	return 0, fmt.Errorf("atomic number %d: %w", z, ErrNotInTable)
}

// Contains reports whether the atomic number is in the table.
func (t *Table) Contains(z int) bool {
	_, err := t.Index(z)
	return err == nil
}

// Equal reports whether two tables hold the same numbers in the same order.
func (t *Table) Equal(other *Table) bool {
	if t.Len() != other.Len() {
		return false
	}
	for i, z := range t.zs {
		if other.zs[i] != z {
			return false
		}
	}
	return true
}

// String renders the table, e.g. "Table(1, 6, 8)".
func (t *Table) String() string {
	parts := make([]string, len(t.zs))
	for i, z := range t.zs {
		parts[i] = fmt.Sprintf("%d", z)
	}
	return "Table(" + strings.Join(parts, ", ") + ")"
}

// IndicesFor maps each atomic number to its index in the table.
// Fails on the first number absent from the table.
func IndicesFor(zs []int, table *Table) ([]int, error) {
	indices := make([]int, len(zs))
	for i, z := range zs {
		idx, err := table.Index(z)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
	}
	return indices, nil
}
