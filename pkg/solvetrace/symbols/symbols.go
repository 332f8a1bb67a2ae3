// Package symbols infers free-variable names from normalized math query
// text. Candidate names are maximal runs of ASCII letters; anything whose
// lowercase form names a known function (sin, diff, sqrt, ...) is dropped.
package symbols

import (
	"sort"
	"strings"
)

// DefaultVariable is returned when no candidate survives filtering.
const DefaultVariable = "x"

// DefaultReserved returns the built-in reserved function name list.
func DefaultReserved() []string {
	return []string{
		"sin", "cos", "tan", "log", "exp", "sqrt",
		"diff", "integrate", "solve", "simplify",
	}
}

// Detector extracts free-variable names from query text
type Detector struct {
	reserved map[string]struct{}
}

// NewDetector creates a detector with the given reserved function names.
// A nil or empty list means the built-in defaults.
func NewDetector(reserved []string) *Detector {
	if len(reserved) == 0 {
		reserved = DefaultReserved()
	}
	set := make(map[string]struct{}, len(reserved))
	for _, name := range reserved {
		set[strings.ToLower(name)] = struct{}{}
	}
	return &Detector{reserved: set}
}

// AddReserved marks an additional name as a function, never a variable.
func (d *Detector) AddReserved(name string) {
	d.reserved[strings.ToLower(name)] = struct{}{}
}

// Detect returns the lexicographically sorted set of free-variable names
// found in text. Extraction walks maximal ASCII letter runs, so a token
// like "sin" is considered whole and filtered whole; the "i" inside it is
// never produced. An empty result falls back to the single default
// variable.
func (d *Detector) Detect(text string) []string {
	seen := make(map[string]struct{})
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		token := current.String()
		current.Reset()
		if d.isReserved(token) {
			return
		}
		seen[token] = struct{}{}
	}

	for _, r := range text {
		if isASCIILetter(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	if len(seen) == 0 {
		return []string{DefaultVariable}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Primary returns "the" variable of text: the first element of the
// detected set.
func (d *Detector) Primary(text string) string {
	return d.Detect(text)[0]
}

func (d *Detector) isReserved(token string) bool {
	_, ok := d.reserved[strings.ToLower(token)]
	return ok
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
