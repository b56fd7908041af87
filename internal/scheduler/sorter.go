package scheduler

import (
	"sort"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
)

// RankCandidate is one analyzed project waiting to be ranked. Index is its
// position in the caller's input.
type RankCandidate struct {
	Project   domain.Project
	Analysis  app.AnalysisResult
	Index     int
	Suggested bool
}

// CanonicalSort orders candidates by the deterministic ranking rules:
// 1. Priority score: higher first
// 2. Due date: earliest first
// 3. Title: lexical ascending
// 4. Input index: ascending
func CanonicalSort(candidates []RankCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		if a.Analysis.PriorityScore != b.Analysis.PriorityScore {
			return a.Analysis.PriorityScore > b.Analysis.PriorityScore
		}
		if !a.Project.DueDate.Equal(b.Project.DueDate) {
			return a.Project.DueDate.Before(b.Project.DueDate)
		}
		if a.Project.Title != b.Project.Title {
			return a.Project.Title < b.Project.Title
		}
		return a.Index < b.Index
	})
}

// RankProjects sorts the candidates and assigns 1-based ranks. The input
// slice is left untouched.
func RankProjects(candidates []RankCandidate) []app.RankedProject {
	sorted := make([]RankCandidate, len(candidates))
	copy(sorted, candidates)
	CanonicalSort(sorted)

	ranked := make([]app.RankedProject, len(sorted))
	for i, c := range sorted {
		ranked[i] = app.RankedProject{
			Rank:      i + 1,
			Project:   c.Project,
			Analysis:  c.Analysis,
			Suggested: c.Suggested,
		}
	}
	return ranked
}

// TopK returns the first k ranked projects.
func TopK(ranked []app.RankedProject, k int) []app.RankedProject {
	if k <= 0 || k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}
