package search

import (
	"pyball/internal/domain"
	"strings"
)

// FilterCandidates returns the candidates whose name contains partial,
// ignoring case, in their original order. An empty partial matches all.
func FilterCandidates(candidates []domain.Candidate, partial string) []domain.Candidate {
	if partial == "" {
		return candidates
	}

	needle := strings.ToLower(partial)
	matches := make([]domain.Candidate, 0)
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c.FullName), needle) {
			matches = append(matches, c)
		}
	}
	return matches
}

// CandidateFilter holds the autocomplete list. The list is fixed at
// construction and never written afterwards, so Filter is safe to call from
// concurrent requests.
type CandidateFilter struct {
	candidates []domain.Candidate
}

func NewCandidateFilter(candidates []domain.Candidate) *CandidateFilter {
	owned := make([]domain.Candidate, len(candidates))
	copy(owned, candidates)
	return &CandidateFilter{candidates: owned}
}

func (f *CandidateFilter) Filter(partial string) []domain.Candidate {
	return FilterCandidates(f.candidates, partial)
}

func (f *CandidateFilter) Len() int {
	return len(f.candidates)
}
