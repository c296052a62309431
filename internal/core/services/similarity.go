package services

import (
	"fmt"
	"math"
	"slices"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

// CosineSimilarity returns (a·b)/(‖a‖‖b‖).
// A zero-norm vector yields 0. Vectors of unequal length return
// domain.ErrDimensionMismatch.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", domain.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Rank scores every candidate against query, drops those below threshold,
// sorts by similarity descending and truncates to limit.
//
// Ties keep candidate order. Rank is exhaustive over what it is given;
// recall is bounded by how many candidates the vector store returned.
func Rank(query []float64, candidates []domain.Candidate, threshold float64, limit int) ([]domain.SimilarityResult, error) {
	results := make([]domain.SimilarityResult, 0, len(candidates))
	for _, c := range candidates {
		sim, err := CosineSimilarity(query, c.Vector)
		if err != nil {
			return nil, fmt.Errorf("candidate %s#%d: %w", c.DocumentID, c.ChunkIndex, err)
		}
		if sim < threshold {
			continue
		}
		results = append(results, domain.SimilarityResult{Candidate: c, Similarity: sim})
	}

	slices.SortStableFunc(results, func(x, y domain.SimilarityResult) int {
		switch {
		case x.Similarity > y.Similarity:
			return -1
		case x.Similarity < y.Similarity:
			return 1
		default:
			return 0
		}
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
