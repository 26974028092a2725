package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/blavejr/plantcareAI/metrics"
)

// Generator handles LLM text generation via Ollama.
type Generator struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewGenerator(baseURL, model string, timeout time.Duration) *Generator {
	return &Generator{
		BaseURL: baseURL,
		Model:   model,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// request to Ollama generation API
type OllamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// response from Ollama generation API
type OllamaGenerateResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

// Generate sends a fully assembled prompt and returns the model's text.
// Every failure wraps ErrGenerationUnavailable.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := g.callOllama(ctx, prompt)
	if err != nil {
		metrics.Errors.WithLabelValues("generate").Inc()
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}
	metrics.StageDuration.WithLabelValues("generate").Observe(time.Since(start).Seconds())
	return text, nil
}

func (g *Generator) callOllama(ctx context.Context, prompt string) (string, error) {
	jsonData, err := json.Marshal(OllamaGenerateRequest{
		Model:  g.Model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/generate", g.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call Ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(body))
	}

	var genResp OllamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if genResp.Response == "" {
		return "", fmt.Errorf("received empty response from ollama")
	}

	return strings.TrimSpace(genResp.Response), nil
}

// TestConnection checks that the Ollama server answers.
func (g *Generator) TestConnection(ctx context.Context) error {
	return pingOllama(ctx, g.Client, g.BaseURL)
}
