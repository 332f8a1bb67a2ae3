package exact

import (
	"fmt"
	"math"
	"sort"

	"github.com/solvetrace/solvetrace/pkg/solvetrace/internalerr"
)

// solveEquation solves lhs = rhs for the first of vars that actually
// appears. Degrees one and two are solved exactly; higher degrees with
// numeric coefficients fall back to root finding. An empty result with
// a nil error means no enumerable solutions (the residual held no
// unknown).
func solveEquation(lhs, rhs node, vars []string) ([]node, error) {
	residual := expandNode(sub(lhs, rhs))

	var primary string
	for _, v := range vars {
		if containsSym(residual, v) {
			primary = v
			break
		}
	}
	if primary == "" {
		return []node{}, nil
	}

	cs, err := coefficients(residual, primary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", internalerr.ErrUnsolvable, residual)
	}
	return solvePoly(cs, primary)
}

// solvePoly solves the polynomial with the given highest-first
// coefficients.
func solvePoly(cs []node, primary string) ([]node, error) {
	switch len(cs) {
	case 0, 1:
		return []node{}, nil
	case 2:
		// a*x + b = 0
		root := simplifyNode(neg(div(cs[1], cs[0])))
		return []node{root}, nil
	case 3:
		r1, r2 := quadraticRoots(cs[0], cs[1], cs[2])
		return []node{r1, r2}, nil
	}
	return solveNumeric(cs)
}

// quadraticRoots returns the two roots of a*x^2 + b*x + c = 0 via the
// discriminant, plus root first.
func quadraticRoots(a, b, c node) (node, node) {
	sq := simplifyNode(sqrtOf(discriminant(a, b, c)))
	denom := product(newInt(2), a)
	r1 := simplifyNode(div(sum(neg(b), sq), denom))
	r2 := simplifyNode(div(sub(neg(b), sq), denom))
	return r1, r2
}

// discriminant computes b^2 - 4ac simplified.
func discriminant(a, b, c node) node {
	return simplifyNode(sub(product(b, b), product(newInt(4), a, c)))
}

// solveNumeric finds real roots of a degree >= 3 polynomial with
// numeric coefficients by Newton iteration and deflation.
func solveNumeric(cs []node) ([]node, error) {
	coeffs := make([]float64, len(cs))
	for i, c := range cs {
		f, ok := evalNode(c)
		if !ok {
			return nil, fmt.Errorf("%w: symbolic coefficient %s", internalerr.ErrUnsolvable, c)
		}
		coeffs[i] = f
	}
	roots := realRoots(coeffs)
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: no real roots found", internalerr.ErrUnsolvable)
	}
	out := make([]node, len(roots))
	for i, r := range roots {
		out[i] = numericRoot(r)
	}
	return out, nil
}

// numericRoot converts a float root to a node, snapping to the integer
// when the value is within tolerance so clean roots display exactly.
func numericRoot(r float64) node {
	rounded := math.Round(r)
	if math.Abs(r-rounded) < 1e-9 && math.Abs(rounded) < 1e15 {
		return newInt(int64(rounded))
	}
	return &approx{val: r}
}

// realRoots finds the real roots of the polynomial given by
// highest-first coefficients. Roots are polished against the original
// polynomial, deduplicated, and sorted ascending.
func realRoots(coeffs []float64) []float64 {
	work := append([]float64(nil), coeffs...)
	var found []float64

	for len(work) > 3 {
		r, ok := newtonRoot(work)
		if !ok {
			break
		}
		r = polish(coeffs, r)
		found = append(found, r)
		work = deflate(work, r)
	}

	switch len(work) {
	case 3:
		a, b, c := work[0], work[1], work[2]
		disc := b*b - 4*a*c
		if disc >= -1e-9 {
			if disc < 0 {
				disc = 0
			}
			s := math.Sqrt(disc)
			found = append(found,
				polish(coeffs, (-b+s)/(2*a)),
				polish(coeffs, (-b-s)/(2*a)))
		}
	case 2:
		found = append(found, polish(coeffs, -work[1]/work[0]))
	}

	sort.Float64s(found)
	out := found[:0]
	for _, r := range found {
		if len(out) == 0 || math.Abs(r-out[len(out)-1]) > 1e-8 {
			out = append(out, r)
		}
	}
	return out
}

var newtonStarts = []float64{0, 1, -1, 0.5, -0.5, 2, -2, 5, -5, 10, -10, 100, -100}

// newtonRoot runs Newton iteration from a spread of starting points.
func newtonRoot(coeffs []float64) (float64, bool) {
	for _, x0 := range newtonStarts {
		x := x0
		for i := 0; i < 200; i++ {
			y, dy := horner(coeffs, x)
			if math.Abs(y) < 1e-12 {
				return x, true
			}
			if dy == 0 || math.IsNaN(dy) || math.IsInf(dy, 0) {
				break
			}
			next := x - y/dy
			if math.IsNaN(next) || math.IsInf(next, 0) {
				break
			}
			if math.Abs(next-x) < 1e-14*(1+math.Abs(x)) {
				x = next
				break
			}
			x = next
		}
		if y, _ := horner(coeffs, x); math.Abs(y) < 1e-9 {
			return x, true
		}
	}
	return 0, false
}

// horner evaluates the polynomial and its derivative at x.
func horner(coeffs []float64, x float64) (y, dy float64) {
	for _, c := range coeffs {
		dy = dy*x + y
		y = y*x + c
	}
	return y, dy
}

// polish refines r with a few Newton steps against the original
// polynomial, undoing drift introduced by deflation.
func polish(coeffs []float64, r float64) float64 {
	for i := 0; i < 8; i++ {
		y, dy := horner(coeffs, r)
		if dy == 0 || math.Abs(y) < 1e-15 {
			break
		}
		r -= y / dy
	}
	return r
}

// deflate divides out the root r by synthetic division.
func deflate(coeffs []float64, r float64) []float64 {
	out := make([]float64, len(coeffs)-1)
	acc := 0.0
	for i := 0; i < len(coeffs)-1; i++ {
		acc = acc*r + coeffs[i]
		out[i] = acc
	}
	return out
}
