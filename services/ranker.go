package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/blavejr/plantcareAI/models"
)

// DefaultTopK is used when neither the caller nor the config sets one.
const DefaultTopK = 3

// similarityEpsilon keeps the denominator non-zero for zero vectors.
const similarityEpsilon = 1e-8

// CosineSimilarity returns dot(a, b) / (|a| * |b| + 1e-8).
// a and b must have the same length.
func CosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + similarityEpsilon)
}

// Score ranks docs against query, highest first. Equal scores keep input
// order. Returns ErrDimensionMismatch if any document embedding differs
// in length from query.
func Score(query []float32, docs []models.Document, topK int) ([]models.SearchResult, error) {
	if topK <= 0 || len(docs) == 0 {
		return nil, nil
	}

	results := make([]models.SearchResult, 0, len(docs))
	for _, doc := range docs {
		if len(doc.Embedding) != len(query) {
			return nil, fmt.Errorf("%w: query has %d dimensions, document %s has %d",
				ErrDimensionMismatch, len(query), doc.ID, len(doc.Embedding))
		}
		results = append(results, models.SearchResult{
			Document: doc,
			Score:    CosineSimilarity(query, doc.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Rank returns the text of the topK documents most similar to query.
func Rank(query []float32, docs []models.Document, topK int) ([]string, error) {
	results, err := Score(query, docs, topK)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(results))
	for i, result := range results {
		texts[i] = result.Document.Text
	}
	return texts, nil
}
