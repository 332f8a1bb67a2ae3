package solvetrace

import "github.com/solvetrace/solvetrace/pkg/solvetrace/classify"

// Form describes the shape of an Outcome's result.
type Form int

const (
	// Absent means no result was produced; Steps explain why.
	Absent Form = iota
	// Single means one value.
	Single
	// Many means an ordered list of values, as equation solving yields.
	Many
)

func (f Form) String() string {
	switch f {
	case Absent:
		return "absent"
	case Single:
		return "single"
	case Many:
		return "many"
	}
	return "unknown"
}

// Outcome is the narrated answer to one query. Values are constructed
// fresh per call and never mutated afterwards; an Absent outcome still
// carries the steps that explain the failure.
type Outcome struct {
	Op     classify.Kind // operation that produced the outcome
	Form   Form
	Values []string // rendered values, nil when Form is Absent
	Steps  []string // narration lines, in order
}

// First returns the first value and whether one exists.
func (o Outcome) First() (string, bool) {
	if o.Form == Absent || len(o.Values) == 0 {
		return "", false
	}
	return o.Values[0], true
}

func absent(op classify.Kind, steps []string) Outcome {
	return Outcome{Op: op, Form: Absent, Steps: steps}
}

func single(op classify.Kind, value string, steps []string) Outcome {
	return Outcome{Op: op, Form: Single, Values: []string{value}, Steps: steps}
}

func many(op classify.Kind, values []string, steps []string) Outcome {
	return Outcome{Op: op, Form: Many, Values: values, Steps: steps}
}
