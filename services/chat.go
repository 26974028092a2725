package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/blavejr/plantcareAI/metrics"

	"go.uber.org/zap"
)

// TextGenerator produces a completion for a fully assembled prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChatService answers user messages, grounding them in the knowledge base
// when it can. Grounding is best effort: retrieval failures only drop the
// context, they never fail the request.
type ChatService struct {
	retriever *Retriever
	generator TextGenerator
	topK      int
	logger    *zap.Logger
}

func NewChatService(retriever *Retriever, generator TextGenerator, topK int, logger *zap.Logger) *ChatService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		retriever: retriever,
		generator: generator,
		topK:      topK,
		logger:    logger.Named("chat"),
	}
}

// Prompt validates message and builds the prompt that would be sent to the
// model, retrieving context if the knowledge base is ready.
func (s *ChatService) Prompt(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrInvalidRequest
	}

	groundingContext := s.retrieveContext(ctx, message)
	metrics.GroundedReplies.WithLabelValues(strconv.FormatBool(groundingContext != "")).Inc()

	return AssemblePrompt(SystemInstruction, groundingContext, message), nil
}

// Reply returns the model's answer to message. Errors are ErrInvalidRequest
// or wrap ErrGenerationUnavailable.
func (s *ChatService) Reply(ctx context.Context, message string) (string, error) {
	prompt, err := s.Prompt(ctx, message)
	if err != nil {
		metrics.ChatRequests.WithLabelValues("invalid").Inc()
		return "", err
	}

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		metrics.ChatRequests.WithLabelValues("unavailable").Inc()
		if !errors.Is(err, ErrGenerationUnavailable) {
			err = fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
		}
		s.logger.Error("generation failed", zap.Error(err), zap.Int("prompt_chars", len(prompt)))
		return "", err
	}

	metrics.ChatRequests.WithLabelValues("ok").Inc()
	return reply, nil
}

func (s *ChatService) retrieveContext(ctx context.Context, message string) string {
	if s.retriever == nil || !s.retriever.Ready() {
		return ""
	}

	groundingContext, err := s.retriever.RetrieveContext(ctx, message, s.topK)
	if err != nil {
		s.logger.Warn("retrieval failed, answering without context", zap.Error(err))
		return ""
	}
	return groundingContext
}
