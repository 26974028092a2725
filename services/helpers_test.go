package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/blavejr/plantcareAI/models"
)

type fakeSource struct {
	records []models.CountryRecord
	err     error
}

func (f *fakeSource) LoadCountries(ctx context.Context) ([]models.CountryRecord, error) {
	return f.records, f.err
}

// fakeEmbedder returns vectors by exact text, else fallback. failOn is the
// 1-based call number that fails; failAll fails every call.
type fakeEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	failOn   int
	failAll  bool
	calls    int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if f.failAll || f.calls == f.failOn {
		return nil, fmt.Errorf("%w: simulated failure", ErrEmbeddingUnavailable)
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return f.fallback, nil
}

func (f *fakeEmbedder) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeGenerator) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

func countries(names ...string) []models.CountryRecord {
	records := make([]models.CountryRecord, len(names))
	for i, name := range names {
		records[i] = models.CountryRecord{Country: name, Climate: "Mild"}
	}
	return records
}
