package generate

import (
	"regexp"
	"strings"
)

// The model appends an improvement-suggestions block when the candidate's
// input is sparse. It is advice for the candidate, not CV content, so it is
// cut before the document is persisted or published. The optional "---" rule
// covers models that emit a horizontal rule before the heading.
var suggestionsSep = regexp.MustCompile(`(?i)\n+(?:---\s*\n+)?## To Strengthen This CV`)

// StripSuggestions removes the trailing suggestions block from a generated
// CV, if present, and trims surrounding whitespace.
func StripSuggestions(cv string) string {
	if loc := suggestionsSep.FindStringIndex(cv); loc != nil {
		cv = cv[:loc[0]]
	}
	return strings.TrimSpace(cv)
}
