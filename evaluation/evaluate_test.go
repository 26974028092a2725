package evaluation

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blavejr/plantcareAI/config"
	"github.com/blavejr/plantcareAI/models"
	"github.com/blavejr/plantcareAI/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCalculateFScore(t *testing.T) {
	tests := []struct {
		name      string
		predicted string
		truth     string
		keywords  []string
		want      float64
	}{
		{"perfect match", "Water weekly in bright light", "water weekly, bright light", []string{"water", "bright"}, 1.0},
		{"nothing found", "I am not sure", "water weekly", []string{"water", "weekly"}, 0.0},
		{"half recall", "water it", "water weekly", []string{"water", "weekly"}, 2.0 / 3.0},
		{"false positive lowers precision", "water in shade", "water", []string{"water", "shade"}, 2.0 / 3.0},
		{"no keywords", "anything", "anything", nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateFScore(tt.predicted, tt.truth, tt.keywords), 1e-9)
		})
	}
}

func TestCheckKeywords(t *testing.T) {
	results := []models.SearchResult{
		{Document: models.Document{ID: "country-Japan", Text: "Japanese Maple prefers partial shade"}},
		{Document: models.Document{ID: "country-Brazil", Text: "Orchids love humidity"}},
	}

	found := checkKeywords([]string{"shade", "HUMIDITY", "frost"}, results)
	assert.Equal(t, []string{"shade", "HUMIDITY"}, found)

	assert.Empty(t, checkKeywords([]string{"frost"}, nil))
	assert.True(t, countryRetrieved("Japan", results))
	assert.False(t, countryRetrieved("India", results))
	assert.False(t, countryRetrieved("", results))
}

func TestLoadDataset(t *testing.T) {
	questions, err := LoadDataset("dataset.json")
	require.NoError(t, err)
	require.NotEmpty(t, questions)

	for _, q := range questions {
		assert.NotEmpty(t, q.Question)
		assert.NotEmpty(t, q.ExpectedCountry)
		assert.NotEmpty(t, q.RelevantKeywords)
	}

	_, err = LoadDataset(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

type keywordEmbedder struct{}

// Embed maps text to a one-hot vector on the first country it names.
func (keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	switch {
	case strings.Contains(text, "Japan"):
		return []float32{1, 0}, nil
	default:
		return []float32{0, 1}, nil
	}
}

type echoGenerator struct {
	reply string
	err   error
}

func (g echoGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.reply, g.err
}

func newRetriever(t *testing.T) *services.Retriever {
	t.Helper()
	kb := services.NewKnowledgeBase(nil, nil, nil)
	require.NoError(t, kb.Publish([]models.Document{
		{ID: "country-Japan", Text: "Country: Japan. Japanese Maple prefers shade.", Embedding: []float32{1, 0}},
		{ID: "country-Brazil", Text: "Country: Brazil. Orchids love humidity.", Embedding: []float32{0, 1}},
	}))
	return services.NewRetriever(kb, keywordEmbedder{}, 0)
}

func TestEvaluator_Evaluate(t *testing.T) {
	cfg := &config.Config{TopK: 1, OllamaEmbedModel: "simple", OllamaLLMModel: "tinyllama"}
	evaluator := NewEvaluator(cfg, newRetriever(t), echoGenerator{reply: "Keep the maple in shade"}, zap.NewNop())

	questions := []Question{
		{ID: 1, Question: "Japan maple care?", GroundTruth: "maple likes shade", ExpectedCountry: "Japan", RelevantKeywords: []string{"maple", "shade"}},
		{ID: 2, Question: "Orchid watering?", GroundTruth: "orchids like humidity", ExpectedCountry: "Japan", RelevantKeywords: []string{"humidity"}},
	}

	report, err := evaluator.Evaluate(context.Background(), questions)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	first := report.Results[0]
	assert.Equal(t, []string{"country-Japan"}, first.RetrievedDocuments)
	assert.True(t, first.CountryHit)
	assert.True(t, first.Success)
	assert.InDelta(t, 1.0, first.FScore, 1e-9)

	second := report.Results[1]
	assert.Equal(t, []string{"country-Brazil"}, second.RetrievedDocuments)
	assert.False(t, second.CountryHit)
	assert.True(t, second.Success)

	assert.Equal(t, 2, report.Metrics.TotalQuestions)
	assert.Equal(t, 0, report.Metrics.FailedQuestions)
	assert.InDelta(t, 1.0, report.Metrics.RetrievalAccuracy, 1e-9)
	assert.InDelta(t, 0.5, report.Metrics.CountryHitRate, 1e-9)
	assert.Equal(t, "1", report.Metrics.Configuration["top_k"])

	path := filepath.Join(t.TempDir(), "results", "baseline.json")
	require.NoError(t, SaveReport(report, path))

	var out bytes.Buffer
	PrintSummary(&out, report)
	assert.Contains(t, out.String(), "EVALUATION SUMMARY")
	assert.Contains(t, out.String(), "llm_model: tinyllama")
}

func TestEvaluator_GenerationFailuresAreCounted(t *testing.T) {
	cfg := &config.Config{TopK: 1}
	evaluator := NewEvaluator(cfg, newRetriever(t), echoGenerator{err: errors.New("down")}, zap.NewNop())

	report, err := evaluator.Evaluate(context.Background(), []Question{{ID: 1, Question: "Japan?"}})
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Equal(t, 1, report.Metrics.TotalQuestions)
	assert.Equal(t, 1, report.Metrics.FailedQuestions)
}

func TestEvaluator_RequiresPopulatedKnowledgeBase(t *testing.T) {
	kb := services.NewKnowledgeBase(nil, nil, nil)
	evaluator := NewEvaluator(&config.Config{TopK: 1}, services.NewRetriever(kb, keywordEmbedder{}, 0), echoGenerator{}, zap.NewNop())

	_, err := evaluator.Evaluate(context.Background(), []Question{{ID: 1, Question: "q"}})
	assert.Error(t, err)
}
