// Package simplify implements the deterministic, rule-based text
// simplification used to generate explanations. It relies on no external
// services, clocks, or randomness: identical inputs always produce
// identical output.
package simplify

import (
	"strings"

	"github.com/explainlike5/explainlike5-backend/internal/domain"
)

// mainIdeaMaxWords caps the extracted main idea at the first 24
// whitespace-separated words, even when the content has no terminating
// period.
const mainIdeaMaxWords = 24

// levelParts holds the fixed decorations applied per level.
type levelParts struct {
	prefix string
	why    string
	tip    string // empty for EXPERT: experts get no tip clause
}

var partsByLevel = map[domain.Level]levelParts{
	domain.LevelELI5: {
		prefix: "Like you're five: ",
		why:    " It helps us understand the world.",
		tip:    " Think of it like a simple picture.",
	},
	domain.LevelELI15: {
		prefix: "Like you're fifteen: ",
		why:    " This matters because it affects how things work in practice.",
		tip:    " A quick way to see it is to compare causes and effects.",
	},
	domain.LevelExpert: {
		prefix: "For experts: ",
		why:    " Relevance: improves decisions and system outcomes.",
	},
}

// Text produces the simplified explanation for a topic at the given level.
// Pure and total: any string inputs and a valid level yield a result with
// no failure path.
func Text(title, content string, level domain.Level) string {
	titleN := normalize(title)
	contentN := normalize(content)

	parts := partsByLevel[level]

	var b strings.Builder
	b.WriteString(parts.prefix)
	b.WriteString(titleN)
	b.WriteString(". In short: ")
	b.WriteString(mainIdea(contentN))
	b.WriteString(".")
	b.WriteString(parts.why)
	b.WriteString(parts.tip)
	return b.String()
}

// normalize trims leading/trailing whitespace and collapses every internal
// run of whitespace to a single space.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// mainIdea extracts the first period-delimited segment of the normalized
// content (the whole content when that segment is empty) and truncates it
// to the first 24 words.
func mainIdea(contentN string) string {
	segments := strings.Split(contentN, ".")
	first := contentN
	if len(segments) > 0 && len(segments[0]) > 0 {
		first = segments[0]
	}

	words := strings.Fields(first)
	if len(words) > mainIdeaMaxWords {
		words = words[:mainIdeaMaxWords]
	}
	return strings.Join(words, " ")
}
