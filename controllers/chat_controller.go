package controllers

import (
	"errors"
	"net/http"

	"github.com/blavejr/plantcareAI/logging"
	"github.com/blavejr/plantcareAI/models"
	"github.com/blavejr/plantcareAI/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgMessageRequired = "Message is required"
	msgGenerationDown  = "Ollama not responding"
	msgInternalError   = "Internal server error"
	serviceName        = "plantcareAI"
)

type ChatController struct {
	chat   *services.ChatService
	kb     *services.KnowledgeBase
	logger *zap.Logger
}

func NewChatController(chat *services.ChatService, kb *services.KnowledgeBase, logger *zap.Logger) *ChatController {
	return &ChatController{
		chat:   chat,
		kb:     kb,
		logger: logger.Named("chat_controller"),
	}
}

// Chat answers POST /chat {"message": "..."} with {"reply": "..."}.
// Failures never reveal which upstream call broke.
func (cc *ChatController) Chat(c *gin.Context) {
	logger := logging.FromContext(c, cc.logger)

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Debug("invalid chat request body", zap.Error(err))
		req.Message = ""
	}

	reply, err := cc.chat.Reply(c.Request.Context(), req.Message)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.ChatResponse{Reply: reply})
	case errors.Is(err, services.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgMessageRequired})
	case errors.Is(err, services.ErrGenerationUnavailable):
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: msgGenerationDown})
	default:
		logger.Error("unexpected chat error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: msgInternalError})
	}
}

// Health reports liveness and whether answers are currently grounded.
func (cc *ChatController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:             "healthy",
		Service:            serviceName,
		KnowledgeBaseReady: cc.kb.Ready(),
		Documents:          cc.kb.Size(),
	})
}
