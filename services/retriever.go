package services

import (
	"context"
	"fmt"
	"time"

	"github.com/blavejr/plantcareAI/metrics"
	"github.com/blavejr/plantcareAI/models"
)

const defaultRetryBackoff = 200 * time.Millisecond

// Retriever finds the most relevant knowledge base documents for a query
// 1. Converting the query to an embedding (vector)
// 2. Scoring every published document by cosine similarity
// 3. Returning the top-K most similar documents
type Retriever struct {
	kb       *KnowledgeBase
	embedder TextEmbedder
	retries  int
	backoff  time.Duration
}

// NewRetriever creates a retriever. retries is the number of extra query
// embedding attempts after a failure; zero means a single attempt.
func NewRetriever(kb *KnowledgeBase, embedder TextEmbedder, retries int) *Retriever {
	if retries < 0 {
		retries = 0
	}
	return &Retriever{
		kb:       kb,
		embedder: embedder,
		retries:  retries,
		backoff:  defaultRetryBackoff,
	}
}

// Ready reports whether retrieval has anything to search.
func (r *Retriever) Ready() bool {
	return r.kb.Ready()
}

// Retrieve returns up to topK scored documents. An unpopulated knowledge
// base yields no results and no error.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]models.SearchResult, error) {
	docs := r.kb.Documents()
	if len(docs) == 0 || topK <= 0 {
		return nil, nil
	}

	start := time.Now()
	queryEmbedding, err := r.embedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	results, err := Score(queryEmbedding, docs, topK)
	if err != nil {
		metrics.Errors.WithLabelValues("rank").Inc()
		return nil, fmt.Errorf("ranking failed: %w", err)
	}

	metrics.StageDuration.WithLabelValues("retrieve").Observe(time.Since(start).Seconds())
	return results, nil
}

// RetrieveContext returns the joined text of the topK documents, or "".
func (r *Retriever) RetrieveContext(ctx context.Context, query string, topK int) (string, error) {
	results, err := r.Retrieve(ctx, query, topK)
	if err != nil {
		return "", err
	}

	texts := make([]string, len(results))
	for i, result := range results {
		texts[i] = result.Document.Text
	}
	return JoinContext(texts), nil
}

func (r *Retriever) embedQuery(ctx context.Context, query string) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			wait := r.backoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		embedding, err := r.embedder.Embed(ctx, query)
		if err == nil {
			return embedding, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
