package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrMalformedEquation = errors.New("equation must contain exactly one '=' sign")
	ErrNotPolynomial     = errors.New("not a univariate polynomial")
	ErrNoClosedForm      = errors.New("no elementary antiderivative found")
	ErrUnsolvable        = errors.New("equation not solvable by this engine")
	ErrForeignExpression = errors.New("expression was not produced by this engine")
	ErrInvalidConfig     = errors.New("invalid configuration")
)
