// Package normalize canonicalizes raw math query text before it reaches
// the algebra engine's parser.
package normalize

import "strings"

// Normalize rewrites raw input into the canonical engine form:
// caret power notation becomes the engine's ** operator, the unicode
// division glyph becomes a slash, and surrounding whitespace is dropped.
// Applying it twice yields the same string as applying it once.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "^", "**")
	text = strings.ReplaceAll(text, "÷", "/")
	return strings.TrimSpace(text)
}
