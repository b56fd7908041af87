package scheduler

import (
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/cadence/internal/domain"
)

const maxConcepts = 10

// stopWords are filler words long enough to survive the length filter.
var stopWords = map[string]bool{
	"about": true, "above": true, "after": true, "again": true, "also": true,
	"been": true, "before": true, "being": true, "below": true, "between": true,
	"both": true, "could": true, "does": true, "doing": true, "during": true,
	"each": true, "from": true, "further": true, "have": true, "having": true,
	"here": true, "into": true, "just": true, "like": true, "make": true,
	"more": true, "most": true, "much": true, "must": true, "only": true,
	"other": true, "over": true, "same": true, "should": true, "some": true,
	"such": true, "than": true, "that": true, "their": true, "them": true,
	"then": true, "there": true, "these": true, "they": true, "this": true,
	"those": true, "through": true, "under": true, "until": true, "very": true,
	"want": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "while": true, "will": true, "with": true, "would": true,
	"your": true, "using": true, "within": true, "without": true,
}

// ExtractConcepts returns up to ten lowercase keyword tokens from text in
// first-occurrence order. Tokens of three characters or fewer and stop words
// are dropped.
func ExtractConcepts(text string) []string {
	var concepts []string
	seen := make(map[string]bool)
	for _, tok := range strings.Fields(text) {
		tok = strings.ToLower(tok)
		if utf8.RuneCountInString(tok) <= 3 || stopWords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		concepts = append(concepts, tok)
		if len(concepts) == maxConcepts {
			break
		}
	}
	return concepts
}

// ProjectConcepts extracts concepts from a project's title, description and
// tags.
func ProjectConcepts(p *domain.Project) []string {
	parts := append([]string{p.Title, p.Description}, p.Tags...)
	return ExtractConcepts(strings.Join(parts, " "))
}
