// Package exact is a symbolic algebra engine over exact rational
// arithmetic. Expressions are immutable trees kept in a canonical form:
// sums and products are flattened and ordered, numeric parts fold via
// big.Rat, and square roots of negative rationals factor through the
// imaginary unit. It backs the algebra.Engine interface with a parser,
// polynomial tooling, rule-based calculus, and an equation solver.
package exact

import (
	"fmt"

	"github.com/solvetrace/solvetrace/pkg/solvetrace/algebra"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/internalerr"
)

// Engine implements algebra.Engine. The zero value is ready to use and
// safe for concurrent callers; all state lives in the expression trees.
type Engine struct{}

// New returns a ready Engine.
func New() *Engine {
	return &Engine{}
}

func toNode(e algebra.Expr) (node, bool) {
	n, ok := e.(node)
	return n, ok
}

func (eng *Engine) node(e algebra.Expr) (node, error) {
	n, ok := toNode(e)
	if !ok {
		return nil, internalerr.ErrForeignExpression
	}
	return n, nil
}

// Parse builds an expression from infix text.
func (eng *Engine) Parse(text string) (algebra.Expr, error) {
	return parseText(text)
}

// Format renders an expression in the same notation Parse accepts.
func (eng *Engine) Format(e algebra.Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}

// Simplify returns the canonical form of e.
func (eng *Engine) Simplify(e algebra.Expr) algebra.Expr {
	n, ok := toNode(e)
	if !ok {
		return e
	}
	return simplifyNode(n)
}

// Expand distributes products and small integer powers over sums.
func (eng *Engine) Expand(e algebra.Expr) algebra.Expr {
	n, ok := toNode(e)
	if !ok {
		return e
	}
	return expandNode(n)
}

// Coefficients reads e as a univariate polynomial in the first of
// variables that appears in it, highest degree first. When none
// appears, e itself is the constant coefficient. A second listed
// variable appearing anywhere in e makes it not a polynomial over the
// set.
func (eng *Engine) Coefficients(e algebra.Expr, variables []string) ([]algebra.Expr, error) {
	n, err := eng.node(e)
	if err != nil {
		return nil, err
	}
	n = expandNode(n)
	for i, v := range variables {
		if !containsSym(n, v) {
			continue
		}
		for _, w := range variables[i+1:] {
			if w != v && containsSym(n, w) {
				return nil, fmt.Errorf("%w: %s contains both %s and %s", internalerr.ErrNotPolynomial, n, v, w)
			}
		}
		cs, err := coefficients(n, v)
		if err != nil {
			return nil, err
		}
		out := make([]algebra.Expr, len(cs))
		for i, c := range cs {
			out[i] = c
		}
		return out, nil
	}
	return []algebra.Expr{simplifyNode(n)}, nil
}

// Solve finds the values satisfying eq for the first of variables
// present in it. An empty slice with a nil error means the equation
// reduced to a constant and there is nothing to enumerate.
func (eng *Engine) Solve(eq algebra.Equation, variables []string) ([]algebra.Expr, error) {
	lhs, err := eng.node(eq.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := eng.node(eq.RHS)
	if err != nil {
		return nil, err
	}
	roots, err := solveEquation(lhs, rhs, variables)
	if err != nil {
		return nil, err
	}
	out := make([]algebra.Expr, len(roots))
	for i, r := range roots {
		out[i] = r
	}
	return out, nil
}

// Differentiate returns the derivative of e with respect to variable.
func (eng *Engine) Differentiate(e algebra.Expr, variable string) (algebra.Expr, error) {
	n, err := eng.node(e)
	if err != nil {
		return nil, err
	}
	return diffNode(n, variable)
}

// Integrate returns an antiderivative of e with respect to variable,
// without the integration constant.
func (eng *Engine) Integrate(e algebra.Expr, variable string) (algebra.Expr, error) {
	n, err := eng.node(e)
	if err != nil {
		return nil, err
	}
	return integrateNode(n, variable)
}

// Evaluate reduces e to a float64 when it contains no free symbols.
func (eng *Engine) Evaluate(e algebra.Expr) (float64, bool) {
	n, ok := toNode(e)
	if !ok {
		return 0, false
	}
	return evalNode(simplifyNode(n))
}

// Number builds an integer literal.
func (eng *Engine) Number(v int64) algebra.Expr {
	return newInt(v)
}

// Symbol builds a free symbol.
func (eng *Engine) Symbol(name string) algebra.Expr {
	return symbol(name)
}

// Add builds a sum.
func (eng *Engine) Add(terms ...algebra.Expr) algebra.Expr {
	ns, bad := toNodes(terms)
	if bad != nil {
		return bad
	}
	return sum(ns...)
}

// Sub builds a difference.
func (eng *Engine) Sub(a, b algebra.Expr) algebra.Expr {
	return eng.Add(a, eng.Mul(eng.Number(-1), b))
}

// Mul builds a product.
func (eng *Engine) Mul(factors ...algebra.Expr) algebra.Expr {
	ns, bad := toNodes(factors)
	if bad != nil {
		return bad
	}
	return product(ns...)
}

// Div builds a quotient.
func (eng *Engine) Div(a, b algebra.Expr) algebra.Expr {
	na, okA := toNode(a)
	nb, okB := toNode(b)
	if !okA {
		return a
	}
	if !okB {
		return b
	}
	return div(na, nb)
}

// Pow builds a power.
func (eng *Engine) Pow(base, exp algebra.Expr) algebra.Expr {
	nb, okB := toNode(base)
	ne, okE := toNode(exp)
	if !okB {
		return base
	}
	if !okE {
		return exp
	}
	return power(nb, ne)
}

// Sqrt builds a square root.
func (eng *Engine) Sqrt(e algebra.Expr) algebra.Expr {
	n, ok := toNode(e)
	if !ok {
		return e
	}
	return sqrtOf(n)
}

// toNodes converts a slice of expressions, returning the first foreign
// one so the caller can hand it back unchanged.
func toNodes(exprs []algebra.Expr) ([]node, algebra.Expr) {
	out := make([]node, len(exprs))
	for i, e := range exprs {
		n, ok := toNode(e)
		if !ok {
			return nil, e
		}
		out[i] = n
	}
	return out, nil
}
