// Package solvetrace answers plain-text math queries with step-by-step
// narration. A query is normalized, classified into one of five
// operations (solve, differentiate, integrate, simplify, evaluate) and
// handed to the matching narrator, which drives a symbolic algebra
// engine and records each stage of the work as a human-readable step.
//
// The package is stateless: every Answer call stands alone, outcomes
// are never cached, and a single Solver is safe for concurrent use.
package solvetrace

import (
	"github.com/solvetrace/solvetrace/pkg/solvetrace/algebra"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/algebra/exact"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/classify"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/normalize"
	"github.com/solvetrace/solvetrace/pkg/solvetrace/symbols"
)

// Options configures a Solver. The zero value selects the built-in
// exact engine and the default variable detector.
type Options struct {
	// Engine performs the symbolic work. Nil selects exact.New().
	Engine algebra.Engine

	// Detector extracts candidate variables from query text. Nil
	// selects a detector with the standard reserved function names.
	Detector *symbols.Detector
}

// Solver classifies and narrates math queries.
type Solver struct {
	eng algebra.Engine
	det *symbols.Detector
}

// New builds a Solver from opts.
func New(opts Options) *Solver {
	eng := opts.Engine
	if eng == nil {
		eng = exact.New()
	}
	det := opts.Detector
	if det == nil {
		det = symbols.NewDetector(nil)
	}
	return &Solver{eng: eng, det: det}
}

// Request is one query for Answer.
type Request struct {
	// Query is the raw input text.
	Query string

	// Mode forces an operation; classify.ModeAuto lets the classifier
	// decide.
	Mode classify.Mode

	// Variable overrides variable detection for differentiation and
	// integration. A variable named inside a diff(...)/integrate(...)
	// call form still wins over this.
	Variable string
}

// Answer normalizes, classifies, and narrates one query. It never
// panics on malformed input; failures come back as an Absent outcome
// whose steps explain what went wrong.
func (s *Solver) Answer(req Request) Outcome {
	text := normalize.Normalize(req.Query)
	switch classify.Classify(text, req.Mode) {
	case classify.KindSolve:
		return s.narrateSolve(text)
	case classify.KindDifferentiate:
		return s.narrateDerivative(text, req.Variable)
	case classify.KindIntegrate:
		return s.narrateIntegral(text, req.Variable)
	case classify.KindSimplify:
		return s.narrateSimplify(text)
	default:
		return s.narrateEvaluate(text)
	}
}
