package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/blavejr/plantcareAI/metrics"
	"github.com/blavejr/plantcareAI/models"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ContentSource loads the country dataset the knowledge base is built from.
type ContentSource interface {
	LoadCountries(ctx context.Context) ([]models.CountryRecord, error)
}

// TextEmbedder turns text into a vector.
type TextEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type snapshot struct {
	documents []models.Document
}

// KnowledgeBase holds the embedded documents used for grounding.
//
// Documents are published as an immutable snapshot: readers either see
// nothing (not ready) or a complete set. A failed population never leaves
// a partial set behind.
type KnowledgeBase struct {
	source   ContentSource
	embedder TextEmbedder
	limiter  *rate.Limiter
	logger   *zap.Logger

	current atomic.Pointer[snapshot]
}

type KnowledgeBaseOption func(*KnowledgeBase)

// WithEmbedRate paces population embedding calls to perSecond.
// Zero or negative leaves calls unpaced.
func WithEmbedRate(perSecond float64) KnowledgeBaseOption {
	return func(kb *KnowledgeBase) {
		if perSecond > 0 {
			kb.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func NewKnowledgeBase(source ContentSource, embedder TextEmbedder, logger *zap.Logger, opts ...KnowledgeBaseOption) *KnowledgeBase {
	if logger == nil {
		logger = zap.NewNop()
	}
	kb := &KnowledgeBase{
		source:   source,
		embedder: embedder,
		logger:   logger.Named("knowledge_base"),
	}
	for _, opt := range opts {
		opt(kb)
	}
	return kb
}

// Ready reports whether a populated snapshot has been published.
func (kb *KnowledgeBase) Ready() bool {
	return kb.current.Load() != nil
}

// Documents returns the published documents, or nil when not ready.
// Callers must not modify the returned slice.
func (kb *KnowledgeBase) Documents() []models.Document {
	snap := kb.current.Load()
	if snap == nil {
		return nil
	}
	return snap.documents
}

func (kb *KnowledgeBase) Size() int {
	return len(kb.Documents())
}

// Populate loads the dataset, embeds every document one at a time and
// publishes the result. Any failure clears the knowledge base and returns
// an error wrapping ErrPopulationFailed.
func (kb *KnowledgeBase) Populate(ctx context.Context) error {
	startTime := time.Now()

	docs, err := kb.build(ctx)
	if err == nil {
		err = kb.Publish(docs)
	}
	if err != nil {
		kb.reset()
		metrics.PopulationRuns.WithLabelValues("failed").Inc()
		kb.logger.Warn("knowledge base population failed, chat continues ungrounded", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPopulationFailed, err)
	}

	metrics.PopulationRuns.WithLabelValues("ok").Inc()
	kb.logger.Info("knowledge base ready",
		zap.Int("documents", len(docs)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return nil
}

func (kb *KnowledgeBase) build(ctx context.Context) ([]models.Document, error) {
	if kb.source == nil || kb.embedder == nil {
		return nil, fmt.Errorf("knowledge base has no content source or embedder")
	}

	records, err := kb.source.LoadCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}

	docs := BuildDocuments(records)
	if len(docs) == 0 {
		return nil, fmt.Errorf("content source returned no countries")
	}

	kb.logger.Info("embedding documents", zap.Int("documents", len(docs)))
	for i := range docs {
		if kb.limiter != nil {
			if err := kb.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("waiting to embed %s: %w", docs[i].ID, err)
			}
		}

		embedding, err := kb.embedder.Embed(ctx, docs[i].Text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed document %d/%d (%s): %w", i+1, len(docs), docs[i].ID, err)
		}
		docs[i].Embedding = embedding
		kb.logger.Debug("embedded document", zap.String("id", docs[i].ID), zap.Int("dimensions", len(embedding)))
	}

	return docs, nil
}

// Publish replaces the knowledge base with docs in one step. Every
// document must carry a non-empty embedding of the same dimension.
func (kb *KnowledgeBase) Publish(docs []models.Document) error {
	if len(docs) == 0 {
		return fmt.Errorf("no documents to publish")
	}

	dim := len(docs[0].Embedding)
	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			return fmt.Errorf("document %s has no embedding", doc.ID)
		}
		if len(doc.Embedding) != dim {
			return fmt.Errorf("%w: document %s has %d dimensions, expected %d",
				ErrDimensionMismatch, doc.ID, len(doc.Embedding), dim)
		}
	}

	published := make([]models.Document, len(docs))
	copy(published, docs)
	kb.current.Store(&snapshot{documents: published})
	metrics.KnowledgeBaseDocuments.Set(float64(len(published)))
	return nil
}

func (kb *KnowledgeBase) reset() {
	kb.current.Store(nil)
	metrics.KnowledgeBaseDocuments.Set(0)
}
