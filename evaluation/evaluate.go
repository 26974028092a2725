// Package evaluation measures how well retrieval and generation answer a
// fixed set of plant-care questions.
package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/blavejr/plantcareAI/config"
	"github.com/blavejr/plantcareAI/models"
	"github.com/blavejr/plantcareAI/services"

	"go.uber.org/zap"
)

type Question struct {
	ID               int      `json:"id"`
	Question         string   `json:"question"`
	GroundTruth      string   `json:"ground_truth_answer"`
	ExpectedCountry  string   `json:"expected_country"`
	RelevantKeywords []string `json:"relevant_keywords"`
	Notes            string   `json:"notes,omitempty"`
}

type EvaluationResult struct {
	QuestionID         int      `json:"question_id"`
	Question           string   `json:"question"`
	Answer             string   `json:"answer"`
	RetrievedDocuments []string `json:"retrieved_documents"`
	CountryHit         bool     `json:"country_hit"`
	ResponseTimeMs     int64    `json:"response_time_ms"`
	KeywordsFound      []string `json:"keywords_found"`
	Success            bool     `json:"success"`
	FScore             float64  `json:"f_score"`
}

type Metrics struct {
	TotalQuestions    int               `json:"total_questions"`
	FailedQuestions   int               `json:"failed_questions"`
	SuccessfulQueries int               `json:"successful_queries"`
	RetrievalAccuracy float64           `json:"retrieval_accuracy"`
	CountryHitRate    float64           `json:"country_hit_rate"`
	AvgResponseTime   float64           `json:"avg_response_time_ms"`
	AvgFScore         float64           `json:"avg_f_score"`
	Timestamp         string            `json:"timestamp"`
	Configuration     map[string]string `json:"configuration"`
}

type EvaluationReport struct {
	Metrics Metrics            `json:"metrics"`
	Results []EvaluationResult `json:"results"`
}

// Evaluator runs every question through retrieval and generation against
// an already populated knowledge base.
type Evaluator struct {
	config    *config.Config
	retriever *services.Retriever
	generator services.TextGenerator
	logger    *zap.Logger
}

func NewEvaluator(cfg *config.Config, retriever *services.Retriever, generator services.TextGenerator, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		config:    cfg,
		retriever: retriever,
		generator: generator,
		logger:    logger.Named("evaluation"),
	}
}

func LoadDataset(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("dataset %s has no questions", path)
	}

	return questions, nil
}

// Evaluate answers each question. A question whose retrieval or generation
// fails is logged and counted in FailedQuestions, then skipped.
func (e *Evaluator) Evaluate(ctx context.Context, questions []Question) (*EvaluationReport, error) {
	if !e.retriever.Ready() {
		return nil, fmt.Errorf("knowledge base is not populated")
	}

	results := make([]EvaluationResult, 0, len(questions))
	failed := 0

	for i, q := range questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.logger.Info("evaluating question",
			zap.Int("n", i+1),
			zap.Int("total", len(questions)),
			zap.String("question", q.Question),
		)

		result, err := e.evaluateOne(ctx, q)
		if err != nil {
			failed++
			e.logger.Warn("question failed", zap.Int("question_id", q.ID), zap.Error(err))
			continue
		}
		results = append(results, result)
	}

	return &EvaluationReport{
		Metrics: e.summarize(results, failed),
		Results: results,
	}, nil
}

func (e *Evaluator) evaluateOne(ctx context.Context, q Question) (EvaluationResult, error) {
	startTime := time.Now()

	searchResults, err := e.retriever.Retrieve(ctx, q.Question, e.config.TopK)
	if err != nil {
		return EvaluationResult{}, fmt.Errorf("retrieval: %w", err)
	}

	texts := make([]string, len(searchResults))
	for i, result := range searchResults {
		texts[i] = result.Document.Text
	}
	prompt := services.AssemblePrompt(services.SystemInstruction, services.JoinContext(texts), q.Question)

	answer, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return EvaluationResult{}, fmt.Errorf("generation: %w", err)
	}

	keywordsFound := checkKeywords(q.RelevantKeywords, searchResults)
	fScore := CalculateFScore(answer, q.GroundTruth, q.RelevantKeywords)

	return EvaluationResult{
		QuestionID:         q.ID,
		Question:           q.Question,
		Answer:             answer,
		RetrievedDocuments: documentIDs(searchResults),
		CountryHit:         countryRetrieved(q.ExpectedCountry, searchResults),
		ResponseTimeMs:     time.Since(startTime).Milliseconds(),
		KeywordsFound:      keywordsFound,
		Success:            len(keywordsFound) > 0,
		FScore:             fScore,
	}, nil
}

func (e *Evaluator) summarize(results []EvaluationResult, failed int) Metrics {
	m := Metrics{
		TotalQuestions:  len(results) + failed,
		FailedQuestions: failed,
		Timestamp:       time.Now().Format(time.RFC3339),
		Configuration: map[string]string{
			"top_k":       fmt.Sprint(e.config.TopK),
			"embed_model": e.config.OllamaEmbedModel,
			"llm_model":   e.config.OllamaLLMModel,
			"source":      e.config.ContentSource,
		},
	}

	answered := len(results)
	if answered == 0 {
		return m
	}

	var totalTime int64
	var totalFScore float64
	hits := 0
	for _, r := range results {
		totalTime += r.ResponseTimeMs
		totalFScore += r.FScore
		if r.Success {
			m.SuccessfulQueries++
		}
		if r.CountryHit {
			hits++
		}
	}

	m.RetrievalAccuracy = float64(m.SuccessfulQueries) / float64(answered)
	m.CountryHitRate = float64(hits) / float64(answered)
	m.AvgResponseTime = float64(totalTime) / float64(answered)
	m.AvgFScore = totalFScore / float64(answered)
	return m
}

// checkKeywords returns the keywords that appear in at least one retrieved document.
func checkKeywords(keywords []string, results []models.SearchResult) []string {
	found := []string{}

	for _, keyword := range keywords {
		for _, result := range results {
			if containsKeyword(result.Document.Text, keyword) {
				found = append(found, keyword)
				break
			}
		}
	}

	return found
}

func containsKeyword(text, keyword string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
}

func countryRetrieved(country string, results []models.SearchResult) bool {
	if country == "" {
		return false
	}
	for _, result := range results {
		if strings.EqualFold(result.Document.ID, "country-"+country) {
			return true
		}
	}
	return false
}

func documentIDs(results []models.SearchResult) []string {
	ids := make([]string, len(results))
	for i, result := range results {
		ids[i] = result.Document.ID
	}
	return ids
}

// CalculateFScore is the keyword F1 of predictedAnswer against groundTruth:
// a keyword is a true positive when it appears in both, a false positive
// when only predicted, a false negative when only in the ground truth.
func CalculateFScore(predictedAnswer string, groundTruth string, keywords []string) float64 {
	truePositives := 0
	falsePositives := 0
	falseNegatives := 0

	for _, keyword := range keywords {
		inPredicted := containsKeyword(predictedAnswer, keyword)
		inGroundTruth := containsKeyword(groundTruth, keyword)

		switch {
		case inPredicted && inGroundTruth:
			truePositives++
		case inPredicted:
			falsePositives++
		case inGroundTruth:
			falseNegatives++
		}
	}

	precision := 0.0
	if truePositives+falsePositives > 0 {
		precision = float64(truePositives) / float64(truePositives+falsePositives)
	}

	recall := 0.0
	if truePositives+falseNegatives > 0 {
		recall = float64(truePositives) / float64(truePositives+falseNegatives)
	}

	if precision+recall == 0 {
		return 0
	}
	return 2 * (precision * recall) / (precision + recall)
}

// SaveReport writes report as indented JSON, creating parent directories.
func SaveReport(report *EvaluationReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

func PrintSummary(w io.Writer, report *EvaluationReport) {
	rule := strings.Repeat("=", 60)
	m := report.Metrics

	fmt.Fprintln(w, "\n"+rule)
	fmt.Fprintln(w, "EVALUATION SUMMARY")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total Questions:      %d\n", m.TotalQuestions)
	fmt.Fprintf(w, "Failed Questions:     %d\n", m.FailedQuestions)
	fmt.Fprintf(w, "Successful Queries:   %d\n", m.SuccessfulQueries)
	fmt.Fprintf(w, "Retrieval Accuracy:   %.2f%%\n", m.RetrievalAccuracy*100)
	fmt.Fprintf(w, "Country Hit Rate:     %.2f%%\n", m.CountryHitRate*100)
	fmt.Fprintf(w, "Avg F-Score:          %.3f\n", m.AvgFScore)
	fmt.Fprintf(w, "Avg Response Time:    %.0f ms\n", m.AvgResponseTime)
	fmt.Fprintln(w, rule)

	fmt.Fprintln(w, "\nConfiguration:")
	keys := make([]string, 0, len(m.Configuration))
	for key := range m.Configuration {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "  %s: %s\n", key, m.Configuration[key])
	}
	fmt.Fprintln(w, rule)
}
