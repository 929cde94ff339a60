package evidence

import (
	"sort"

	"github.com/specdex/specdex/internal/document"
)

// ScoreFromDistance converts a cosine distance in [0,2] to a relevance
// score in [0,1], where identical vectors score 1.
func ScoreFromDistance(distance float64) float64 {
	score := 1 - distance/2
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// PositionalScore assigns a rank-based score when no vector distance is
// available, decaying linearly from 1.0 at rank 0 to 0.5 at the end of
// the list.
func PositionalScore(rank, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 1 - float64(rank)/float64(total)*0.5
}

// Dedupe collapses results with identical content, keeping the highest
// score for each, then orders the survivors by descending score.
func Dedupe(results []document.Evidence) []document.Evidence {
	best := make(map[string]document.Evidence, len(results))
	var order []string
	for _, r := range results {
		prev, seen := best[r.Content]
		if !seen {
			order = append(order, r.Content)
			best[r.Content] = r
			continue
		}
		if r.RelevanceScore > prev.RelevanceScore {
			best[r.Content] = r
		}
	}

	out := make([]document.Evidence, 0, len(order))
	for _, content := range order {
		out = append(out, best[content])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	return out
}
