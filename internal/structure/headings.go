package structure

import "regexp"

// maxHeadingLevel is the deepest heading level tracked (title = 0).
const maxHeadingLevel = 6

// headingState maps heading level to the heading text active at that level.
// It lives for exactly one extraction pass and is never shared.
type headingState map[int]string

// set records a heading at the given level, dropping every deeper level
// first: a new "5.2" closes "5.1.3" before replacing "5.1".
func (h headingState) set(level int, text string) {
	for l := range h {
		if l > level {
			delete(h, l)
		}
	}
	h[level] = text
}

// parents returns the heading texts at levels strictly below level,
// outermost first. Content elements pass maxHeadingLevel+1 to collect the
// whole stack.
func (h headingState) parents(level int) []string {
	var out []string
	for l := 0; l <= maxHeadingLevel && l < level; l++ {
		if text, ok := h[l]; ok {
			out = append(out, text)
		}
	}
	return out
}

var clauseRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)\s+`)

// ClauseNumber extracts a leading clause label like "5.2.1" from element
// text. The digits must be followed by whitespace ("5.2.1 Handover"
// matches, "5.2.1Handover" does not).
func ClauseNumber(text string) string {
	m := clauseRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
