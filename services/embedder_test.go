package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_Embed(t *testing.T) {
	var got OllamaEmbedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"embedding": [0.25, -0.5, 1]}`))
	}))
	defer server.Close()

	embedder := NewEmbedder(server.URL, "nomic-embed-text", time.Second)
	vec, err := embedder.Embed(context.Background(), "snake plant")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, -0.5, 1}, vec)
	assert.Equal(t, OllamaEmbedRequest{Model: "nomic-embed-text", Prompt: "snake plant"}, got)
}

func TestEmbedder_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			},
		},
		{
			name: "unparseable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
		{
			name: "empty embedding",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"embedding": []}`))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				w.Write([]byte(`{"embedding": [1]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			embedder := NewEmbedder(server.URL, "nomic-embed-text", 50*time.Millisecond)
			_, err := embedder.Embed(context.Background(), "hello")
			assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
		})
	}

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		_, err := NewEmbedder(url, "nomic-embed-text", time.Second).Embed(context.Background(), "hello")
		assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
	})
}

func TestEmbedder_SimpleModel(t *testing.T) {
	embedder := NewEmbedder("http://127.0.0.1:1", SimpleModel, time.Second)

	a, err := embedder.Embed(context.Background(), "Water the snake plant every 4-6 weeks")
	require.NoError(t, err)
	b, err := embedder.Embed(context.Background(), "water the SNAKE plant, every 4-6 weeks!")
	require.NoError(t, err)
	c, err := embedder.Embed(context.Background(), "monsoon humidity mould")
	require.NoError(t, err)

	assert.Len(t, a, simpleDimension)
	assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-6)
	assert.InDelta(t, 1.0, CosineSimilarity(a, b), 1e-6)
	assert.Less(t, CosineSimilarity(a, c), 0.5)
	assert.NoError(t, embedder.TestConnection(context.Background()))
}

func TestEmbedder_TestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models": []}`))
	}))
	defer server.Close()

	assert.NoError(t, NewEmbedder(server.URL, "nomic-embed-text", time.Second).TestConnection(context.Background()))
}
