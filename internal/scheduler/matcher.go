package scheduler

import "strings"

// TextMatcher decides whether a piece of text relates to any of a set of
// concepts. Scoring only depends on this interface, so the substring rule
// can be swapped for something smarter without touching the weights.
type TextMatcher interface {
	Matches(text string, concepts []string) bool
}

// SubstringMatcher matches when any concept is a case-insensitive substring
// of the text.
type SubstringMatcher struct{}

func (SubstringMatcher) Matches(text string, concepts []string) bool {
	lower := strings.ToLower(text)
	for _, c := range concepts {
		if c == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(c)) {
			return true
		}
	}
	return false
}
