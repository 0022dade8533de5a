// Package irreps implements the bookkeeping for irreducible-representation
// descriptors of O(3), the channel layout used by equivariant interatomic
// potentials. A descriptor such as "128x0e + 128x1o + 128x2e" lists channel
// groups: multiplicity, angular degree l, and parity under inversion.
//
// The package is pure shape algebra. It parses descriptors, computes
// dimensions, and counts the coupling paths that size tensor-product and
// symmetric-contraction weights. It never touches weight values.
package irreps

import (
	"fmt"
	"strconv"
	"strings"
)

// Parity is the behavior of an irrep under inversion.
type Parity int8

// Parity values follow the physics convention: even irreps keep their sign
// under inversion, odd irreps flip it.
const (
	Even Parity = 1
	Odd  Parity = -1
)

// String returns "e" or "o".
func (p Parity) String() string {
	if p == Odd {
		return "o"
	}
	return "e"
}

// Irrep is a single channel group: Mul copies of the degree-L irrep with
// parity P. Its representation dimension is Mul * (2L+1).
type Irrep struct {
	Mul int
	L   int
	P   Parity
}

// Dim returns the total dimension of the channel group.
func (ir Irrep) Dim() int {
	return ir.Mul * (2*ir.L + 1)
}

// String renders the irrep, e.g. "128x1o".
func (ir Irrep) String() string {
	return fmt.Sprintf("%dx%d%s", ir.Mul, ir.L, ir.P)
}

// Irreps is an ordered sequence of channel groups.
type Irreps []Irrep

// Parse parses a descriptor of the form "128x0e + 128x1o".
// Multiplicity may be omitted for single copies: "0e" means "1x0e".
func Parse(s string) (Irreps, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty irreps descriptor")
	}
	var out Irreps
	for _, term := range strings.Split(s, "+") {
		ir, err := parseIrrep(strings.TrimSpace(term))
		if err != nil {
			return nil, err
		}
		out = append(out, ir)
	}
	return out, nil
}

// MustParse is Parse for descriptors fixed at compile time.
// Panics on a malformed descriptor.
func MustParse(s string) Irreps {
	irs, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return irs
}

func parseIrrep(term string) (Irrep, error) {
	mul := 1
	rest := term
	if i := strings.IndexByte(term, 'x'); i >= 0 {
		m, err := strconv.Atoi(term[:i])
		if err != nil || m <= 0 {
			return Irrep{}, fmt.Errorf("invalid irrep %q: bad multiplicity", term)
		}
		mul = m
		rest = term[i+1:]
	}
	if len(rest) < 2 {
		return Irrep{}, fmt.Errorf("invalid irrep %q", term)
	}
	var p Parity
	switch rest[len(rest)-1] {
	case 'e':
		p = Even
	case 'o':
		p = Odd
	default:
		return Irrep{}, fmt.Errorf("invalid irrep %q: parity must be 'e' or 'o'", term)
	}
	l, err := strconv.Atoi(rest[:len(rest)-1])
	if err != nil || l < 0 {
		return Irrep{}, fmt.Errorf("invalid irrep %q: bad degree", term)
	}
	return Irrep{Mul: mul, L: l, P: p}, nil
}

// String renders the descriptor with " + " separators, inverse of Parse.
func (irs Irreps) String() string {
	parts := make([]string, len(irs))
	for i, ir := range irs {
		parts[i] = ir.String()
	}
	return strings.Join(parts, " + ")
}

// Dim returns the total representation dimension.
func (irs Irreps) Dim() int {
	d := 0
	for _, ir := range irs {
		d += ir.Dim()
	}
	return d
}

// Lmax returns the highest angular degree, or -1 for an empty sequence.
func (irs Irreps) Lmax() int {
	max := -1
	for _, ir := range irs {
		if ir.L > max {
			max = ir.L
		}
	}
	return max
}

// Channels returns the total multiplicity of even scalar (0e) groups.
// Equivariant models use this as the feature channel count.
func (irs Irreps) Channels() int {
	n := 0
	for _, ir := range irs {
		if ir.L == 0 && ir.P == Even {
			n += ir.Mul
		}
	}
	return n
}

// MulOfL returns the total multiplicity at the given degree.
func (irs Irreps) MulOfL(l int) int {
	n := 0
	for _, ir := range irs {
		if ir.L == l {
			n += ir.Mul
		}
	}
	return n
}

// Natural returns mul copies of every degree up to lmax with the natural
// parity (-1)^l, e.g. Natural(128, 2) = "128x0e + 128x1o + 128x2e".
// This is the hidden-feature layout of the models handled here.
func Natural(mul, lmax int) Irreps {
	out := make(Irreps, 0, lmax+1)
	for l := 0; l <= lmax; l++ {
		out = append(out, Irrep{Mul: mul, L: l, P: naturalParity(l)})
	}
	return out
}

// SphericalHarmonics returns the irreps of the spherical-harmonic expansion
// up to lmax: one copy of each degree with parity (-1)^l.
func SphericalHarmonics(lmax int) Irreps {
	out := make(Irreps, 0, lmax+1)
	for l := 0; l <= lmax; l++ {
		out = append(out, Irrep{Mul: 1, L: l, P: naturalParity(l)})
	}
	return out
}

func naturalParity(l int) Parity {
	if l%2 == 1 {
		return Odd
	}
	return Even
}
