package exact

import (
	"fmt"

	"github.com/solvetrace/solvetrace/pkg/solvetrace/internalerr"
)

const maxPolyDegree = 1024

// coefficients reads e as a polynomial in v and returns its
// coefficients from the highest degree down. e must already be in
// expanded form. Coefficients may contain other symbols; any
// non-polynomial appearance of v is an error.
func coefficients(e node, v string) ([]node, error) {
	terms := []node{e}
	if a, ok := e.(*add); ok {
		terms = a.terms
	}

	byDegree := make(map[int][]node)
	maxDeg := 0
	for _, t := range terms {
		deg, coeff, err := termDegree(t, v)
		if err != nil {
			return nil, err
		}
		byDegree[deg] = append(byDegree[deg], coeff)
		if deg > maxDeg {
			maxDeg = deg
		}
	}

	out := make([]node, maxDeg+1)
	for deg := maxDeg; deg >= 0; deg-- {
		parts := byDegree[deg]
		if len(parts) == 0 {
			out[maxDeg-deg] = newInt(0)
			continue
		}
		out[maxDeg-deg] = simplifyNode(sum(parts...))
	}
	return out, nil
}

// termDegree splits one expanded term into its degree in v and the
// remaining coefficient.
func termDegree(t node, v string) (int, node, error) {
	if !containsSym(t, v) {
		return 0, t, nil
	}
	switch n := t.(type) {
	case *sym:
		return 1, newInt(1), nil
	case *pow:
		deg, err := powDegree(n, v)
		if err != nil {
			return 0, nil, err
		}
		return deg, newInt(1), nil
	case *mul:
		deg := 0
		coeff := make([]node, 0, len(n.factors))
		for _, f := range n.factors {
			if !containsSym(f, v) {
				coeff = append(coeff, f)
				continue
			}
			switch inner := f.(type) {
			case *sym:
				deg++
			case *pow:
				d, err := powDegree(inner, v)
				if err != nil {
					return 0, nil, err
				}
				deg += d
			default:
				return 0, nil, fmt.Errorf("%w: %s", internalerr.ErrNotPolynomial, t)
			}
		}
		return deg, product(coeff...), nil
	}
	return 0, nil, fmt.Errorf("%w: %s", internalerr.ErrNotPolynomial, t)
}

// powDegree returns n for v^n with a positive integer exponent.
func powDegree(p *pow, v string) (int, error) {
	s, ok := p.base.(*sym)
	if !ok || s.name != v || containsSym(p.exp, v) {
		return 0, fmt.Errorf("%w: %s", internalerr.ErrNotPolynomial, p)
	}
	e, ok := isNum(p.exp)
	if !ok || !e.val.IsInt() || e.val.Sign() <= 0 {
		return 0, fmt.Errorf("%w: %s", internalerr.ErrNotPolynomial, p)
	}
	if !e.val.Num().IsInt64() || e.val.Num().Int64() > maxPolyDegree {
		return 0, fmt.Errorf("%w: degree of %s too large", internalerr.ErrNotPolynomial, p)
	}
	return int(e.val.Num().Int64()), nil
}
