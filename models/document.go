package models

// Document is a retrievable unit of grounding text. Embedding is set once
// when the knowledge base is populated and never mutated afterwards.
type Document struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"-"`
}

type SearchResult struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}
