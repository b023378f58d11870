package scorer

import (
	"sort"

	"github.com/logsift/logsift/internal/lexical"
	"github.com/logsift/logsift/internal/vector"
)

// DefaultWeight favors the vector side; a tuned constant carried as a
// configuration default, not a correctness requirement.
const DefaultWeight = 0.6

// Ranked is one fused result. Score is the weighted combination of the
// min-max normalized side scores, in [0,1].
type Ranked struct {
	DocID int
	Score float64
}

// Fuse merges over-fetched lexical and vector result lists into one ranking:
//
//	combined = weight*vectorNorm + (1-weight)*lexicalNorm
//
// Each side is min-max normalized independently; a docID missing from one
// side contributes zero for that side's term. Output is ordered by combined
// score desc, ties by ascending docID, truncated to k.
//
// weight 0 and 1 return the pure side ranking directly. Normalization maps a
// side's sole minimum to 0, indistinguishable from absence, so only an exact
// reduction guarantees the pure ordering at the extremes.
func Fuse(vec []vector.Result, lex []lexical.Result, weight float64, k int) []Ranked {
	if weight < 0 {
		weight = 0
	}
	if weight > 1 {
		weight = 1
	}

	if weight == 0 {
		out := make([]Ranked, 0, len(lex))
		for _, r := range lex {
			out = append(out, Ranked{DocID: r.DocID, Score: r.Score})
		}
		return truncate(out, k)
	}
	if weight == 1 {
		out := make([]Ranked, 0, len(vec))
		for _, r := range vec {
			out = append(out, Ranked{DocID: r.DocID, Score: r.Score})
		}
		return truncate(out, k)
	}

	vecNorm := normalizeVector(vec)
	lexNorm := normalizeLexical(lex)

	combined := make(map[int]float64, len(vecNorm)+len(lexNorm))
	for docID, score := range vecNorm {
		combined[docID] += weight * score
	}
	for docID, score := range lexNorm {
		combined[docID] += (1 - weight) * score
	}

	out := make([]Ranked, 0, len(combined))
	for docID, score := range combined {
		out = append(out, Ranked{DocID: docID, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].DocID < out[j].DocID
	})

	return truncate(out, k)
}

// normalizeVector min-max normalizes vector scores into [0,1].
func normalizeVector(results []vector.Result) map[int]float64 {
	scores := make(map[int]float64, len(results))
	if len(results) == 0 {
		return scores
	}
	// Zero or one result: normalized score is 1.0 for every member, which
	// also avoids dividing by a zero range.
	if len(results) == 1 {
		scores[results[0].DocID] = 1.0
		return scores
	}

	minScore, maxScore := results[0].Score, results[0].Score
	for _, r := range results[1:] {
		if r.Score < minScore {
			minScore = r.Score
		}
		if r.Score > maxScore {
			maxScore = r.Score
		}
	}
	span := maxScore - minScore
	for _, r := range results {
		if span == 0 {
			scores[r.DocID] = 1.0
		} else {
			scores[r.DocID] = (r.Score - minScore) / span
		}
	}
	return scores
}

// normalizeLexical min-max normalizes lexical scores into [0,1].
func normalizeLexical(results []lexical.Result) map[int]float64 {
	scores := make(map[int]float64, len(results))
	if len(results) == 0 {
		return scores
	}
	if len(results) == 1 {
		scores[results[0].DocID] = 1.0
		return scores
	}

	minScore, maxScore := results[0].Score, results[0].Score
	for _, r := range results[1:] {
		if r.Score < minScore {
			minScore = r.Score
		}
		if r.Score > maxScore {
			maxScore = r.Score
		}
	}
	span := maxScore - minScore
	for _, r := range results {
		if span == 0 {
			scores[r.DocID] = 1.0
		} else {
			scores[r.DocID] = (r.Score - minScore) / span
		}
	}
	return scores
}

// truncate caps the list at k results. k <= 0 keeps everything.
func truncate(results []Ranked, k int) []Ranked {
	if k > 0 && len(results) > k {
		return results[:k]
	}
	return results
}

// OverFetch is the factor applied to k when fetching each side, so the fused
// top-k is not starved when candidate sets barely overlap.
const OverFetch = 2
