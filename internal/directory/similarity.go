package directory

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Scorer rates how closely a candidate name matches a query, 0.0 to 1.0.
// Pluggable so callers can swap the matching algorithm.
type Scorer func(query, candidate string) float64

// LevenshteinScorer scores by normalized edit distance on lowercased input.
func LevenshteinScorer(query, candidate string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	c := strings.ToLower(strings.TrimSpace(candidate))
	if q == "" && c == "" {
		return 1.0
	}
	longest := len([]rune(q))
	if l := len([]rune(c)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(q, c)
	return 1.0 - float64(dist)/float64(longest)
}

// Match pairs a candidate name with its score.
type Match struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// RankBySimilarity orders candidates by descending score against the query.
// Ties keep input order.
func RankBySimilarity(scorer Scorer, query string, candidates []Match) []Match {
	if scorer == nil {
		scorer = LevenshteinScorer
	}
	ranked := make([]Match, len(candidates))
	copy(ranked, candidates)
	for i := range ranked {
		ranked[i].Score = scorer(query, ranked[i].Name)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func topN(matches []Match, n int) []Match {
	if n <= 0 {
		n = 3
	}
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}

// SimilarProviders returns the providers closest to the query, best first.
func (s *InMemoryStore) SimilarProviders(query string, n int) []Match {
	candidates := make([]Match, 0, len(s.providers))
	for _, p := range s.providers {
		candidates = append(candidates, Match{ID: p.ID, Name: p.Name})
	}
	return topN(RankBySimilarity(nil, query, candidates), n)
}

// SimilarSpecialties returns the specialties closest to the query, best first.
func (s *InMemoryStore) SimilarSpecialties(query string, n int) []Match {
	candidates := make([]Match, 0, len(s.specialties))
	for _, sp := range s.specialties {
		candidates = append(candidates, Match{ID: sp.ID, Name: sp.Name})
	}
	return topN(RankBySimilarity(nil, query, candidates), n)
}

// SimilarPractitioners returns the practitioners closest to the query, best first.
func (s *InMemoryStore) SimilarPractitioners(query string, n int) []Match {
	candidates := make([]Match, 0, len(s.practitioners))
	for _, d := range s.practitioners {
		candidates = append(candidates, Match{ID: d.ID, Name: d.Name})
	}
	return topN(RankBySimilarity(nil, query, candidates), n)
}
