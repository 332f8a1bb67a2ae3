// Package classify decides which math operation a normalized query asks
// for. An explicit mode always wins; otherwise an ordered rule table of
// textual cues is evaluated in strict priority, first match wins.
package classify

import "strings"

// Kind is the operation a query resolves to.
type Kind int

const (
	KindSolve Kind = iota
	KindDifferentiate
	KindIntegrate
	KindSimplify
	KindEvaluate
)

// String returns the kind name used in logs and journal records.
func (k Kind) String() string {
	switch k {
	case KindSolve:
		return "solve"
	case KindDifferentiate:
		return "differentiate"
	case KindIntegrate:
		return "integrate"
	case KindSimplify:
		return "simplify"
	case KindEvaluate:
		return "evaluate"
	default:
		return "unknown"
	}
}

// Mode is the caller-supplied operation override.
type Mode int

const (
	ModeAuto Mode = iota
	ModeSolve
	ModeDiff
	ModeIntegrate
	ModeSimplify
)

// ParseMode maps a mode string to a Mode. Unrecognized values, including
// the empty string, mean auto-detection.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "solve":
		return ModeSolve
	case "diff":
		return ModeDiff
	case "integrate":
		return ModeIntegrate
	case "simplify":
		return ModeSimplify
	default:
		return ModeAuto
	}
}

// String returns the wire form of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSolve:
		return "solve"
	case ModeDiff:
		return "diff"
	case ModeIntegrate:
		return "integrate"
	case ModeSimplify:
		return "simplify"
	default:
		return "auto"
	}
}

// rule pairs a textual predicate with the kind it selects.
type rule struct {
	match func(text, lower string) bool
	kind  Kind
}

// autoRules is the fixed-priority detection table. Order is behavior:
// rule 1 outranks rule 2, so "diff = 2" is a solve, and the slash cue in
// rule 4 routes any fraction-bearing expression to simplify even when the
// user may have meant plain evaluation. That routing is intentional
// compatibility behavior, not an oversight to fix here.
var autoRules = []rule{
	{
		kind: KindSolve,
		match: func(text, lower string) bool {
			return strings.Contains(text, "=")
		},
	},
	{
		kind: KindDifferentiate,
		match: func(text, lower string) bool {
			return strings.HasPrefix(lower, "diff") ||
				strings.HasPrefix(lower, "d/d") ||
				strings.Contains(lower, "d/d")
		},
	},
	{
		kind: KindIntegrate,
		match: func(text, lower string) bool {
			return strings.HasPrefix(lower, "integrate") ||
				strings.HasPrefix(lower, "int(") ||
				strings.Contains(lower, "integrate")
		},
	},
	{
		kind: KindSimplify,
		match: func(text, lower string) bool {
			return strings.HasPrefix(lower, "simplify") ||
				strings.Contains(lower, "simplify") ||
				strings.Contains(text, "/")
		},
	},
}

// Classify resolves the operation kind for a normalized query. A non-auto
// mode is honored verbatim with no validation against the text.
func Classify(text string, mode Mode) Kind {
	switch mode {
	case ModeSolve:
		return KindSolve
	case ModeDiff:
		return KindDifferentiate
	case ModeIntegrate:
		return KindIntegrate
	case ModeSimplify:
		return KindSimplify
	}

	lower := strings.ToLower(text)
	for _, r := range autoRules {
		if r.match(text, lower) {
			return r.kind
		}
	}
	return KindEvaluate
}
