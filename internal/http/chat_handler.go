package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"connect-support/internal/domain"
	"connect-support/internal/llm"
	"connect-support/internal/service"
)

// ChatHandler expone el gateway de chat.
type ChatHandler struct {
	logger   *zap.Logger
	chatServ *service.ChatService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, chatServ *service.ChatService) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		chatServ: chatServ,
	}
}

type chatRequest struct {
	Message     string            `json:"message"`
	IsExpanded  *bool             `json:"is_expanded"`
	InputType   string            `json:"input_type"`
	ChatHistory []domain.ChatTurn `json:"chat_history"`
}

// PostChat maneja POST /chat. Toda respuesta, incluso de error, es un ChatMessage.
func (h *ChatHandler) PostChat(c *gin.Context) {
	uid := requestUserID(c)
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid chat request body", zap.Error(err), zap.String("uid", uid))
		c.JSON(http.StatusInternalServerError, domain.AssistantMessage(service.MsgInternalError))
		return
	}

	msg, err := h.chatServ.Respond(c.Request.Context(), service.ChatInput{
		Message:     req.Message,
		IsExpanded:  req.IsExpanded,
		InputType:   req.InputType,
		ChatHistory: req.ChatHistory,
	})
	if err != nil {
		status, content := chatErrorResponse(err)
		if status >= http.StatusInternalServerError || status == http.StatusRequestTimeout {
			h.logger.Error("chat request failed", zap.Error(err), zap.Int("status", status), zap.String("uid", uid))
		} else {
			h.logger.Warn("chat request rejected", zap.Error(err), zap.Int("status", status), zap.String("uid", uid))
		}
		c.JSON(status, domain.AssistantMessage(content))
		return
	}

	h.logger.Info("chat answered",
		zap.String("uid", uid),
		zap.Int("urls", len(msg.URLs)),
	)
	c.JSON(http.StatusOK, msg)
}

func chatErrorResponse(err error) (int, string) {
	var statusErr *llm.StatusError
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		return http.StatusBadRequest, service.MsgNoMessage
	case errors.Is(err, service.ErrChatTimeout):
		return http.StatusRequestTimeout, service.MsgTimeout
	case errors.As(err, &statusErr):
		return statusErr.StatusCode, service.MsgBackendError
	default:
		return http.StatusInternalServerError, service.MsgInternalError
	}
}
