// Package algebra defines the boundary to the symbolic algebra engine.
// The narration layer depends only on this interface; the engine behind it
// is a stateless collaborator that parses, transforms, and solves
// expressions.
package algebra

// Expr is an opaque symbolic expression produced and consumed by an
// Engine. Expressions are immutable values; callers never inspect their
// structure, only render them through Engine.Format.
type Expr interface {
	String() string
}

// Equation pairs the two sides of an equality to be solved.
type Equation struct {
	LHS Expr
	RHS Expr
}

// Engine provides symbolic computation over Expr values.
// This interface allows swapping implementations; every implementation
// must be stateless across calls, constructing symbols fresh from string
// names (no identity equality between calls).
type Engine interface {
	// Parse turns normalized expression text into an Expr.
	// The text uses ** for powers and explicit * for products.
	Parse(text string) (Expr, error)

	// Format renders an Expr as display text.
	Format(e Expr) string

	// Simplify applies the engine's general simplification.
	Simplify(e Expr) Expr

	// Expand distributes products and integer powers over sums.
	Expand(e Expr) Expr

	// Coefficients extracts polynomial coefficients of e with respect to
	// the given variable set, highest order first (a quadratic yields
	// [a, b, c]). It reports internalerr.ErrNotPolynomial when e is not a
	// polynomial in exactly one of the given variables.
	Coefficients(e Expr, variables []string) ([]Expr, error)

	// Solve finds the solution set of eq over the given variables.
	// An empty slice with a nil error means the solver resolved the
	// equation to no enumerable solutions (identities and contradictions
	// both land here).
	Solve(eq Equation, variables []string) ([]Expr, error)

	// Differentiate computes the derivative of e with respect to variable.
	Differentiate(e Expr, variable string) (Expr, error)

	// Integrate computes an antiderivative of e with respect to variable.
	// It reports internalerr.ErrNoClosedForm when no elementary
	// antiderivative is found; that is an expected outcome, not a fault.
	Integrate(e Expr, variable string) (Expr, error)

	// Evaluate reduces e to a float64 when it contains no free symbols.
	// The bool reports whether a numeric value was obtained.
	Evaluate(e Expr) (float64, bool)

	// Expression construction, used by callers to form derived quantities
	// such as discriminants and quadratic roots. Results are unsimplified;
	// pass them through Simplify for canonical form.

	// Number returns the integer n as an Expr.
	Number(n int64) Expr
	// Symbol returns a fresh symbol with the given name.
	Symbol(name string) Expr
	// Add returns the sum of terms.
	Add(terms ...Expr) Expr
	// Sub returns a minus b.
	Sub(a, b Expr) Expr
	// Mul returns the product of factors.
	Mul(factors ...Expr) Expr
	// Div returns a divided by b.
	Div(a, b Expr) Expr
	// Pow returns base raised to exponent.
	Pow(base, exponent Expr) Expr
	// Sqrt returns the square root of e.
	Sqrt(e Expr) Expr
}
