package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"connect-support/internal/domain"
	"connect-support/internal/llm"
)

const (
	// DefaultChatTimeout queda por debajo del limite de 300s de la plataforma.
	DefaultChatTimeout = 290 * time.Second

	MsgNoMessage     = "No message provided"
	MsgNoResponse    = "No response received"
	MsgBackendError  = "Sorry, I encountered an error processing your request."
	MsgTimeout       = "Sorry, the request timed out. Please try again."
	MsgInternalError = "Sorry, something went wrong. Please try again."
)

var (
	ErrChatServiceNotConfigured = errors.New("chat service not configured")
	ErrEmptyMessage             = errors.New("message is empty")
	ErrChatTimeout              = errors.New("chat backend timed out")
)

// ChatInput es lo que envia la UI en POST /chat.
type ChatInput struct {
	Message     string
	IsExpanded  *bool
	InputType   string
	ChatHistory []domain.ChatTurn
}

// ChatService reenvia mensajes al backend con un deadline fijo y normaliza la respuesta.
type ChatService struct {
	backend llm.ChatBackend
	timeout time.Duration
	logger  *zap.Logger
}

func NewChatService(backend llm.ChatBackend, timeout time.Duration, logger *zap.Logger) *ChatService {
	if timeout <= 0 {
		timeout = DefaultChatTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{backend: backend, timeout: timeout, logger: logger}
}

// Respond hace una unica llamada al backend, sin reintentos.
func (s *ChatService) Respond(ctx context.Context, in ChatInput) (domain.ChatMessage, error) {
	if s == nil || s.backend == nil {
		return domain.ChatMessage{}, ErrChatServiceNotConfigured
	}
	if strings.TrimSpace(in.Message) == "" {
		return domain.ChatMessage{}, ErrEmptyMessage
	}

	expanded := in.IsExpanded != nil && *in.IsExpanded
	history := in.ChatHistory
	if history == nil {
		history = []domain.ChatTurn{}
	}
	req := llm.ChatRequest{
		Message:         in.Message,
		ChatHistory:     history,
		IsExpanded:      expanded,
		InstructionType: domain.InstructionFor(in.InputType),
	}

	s.logger.Info("sending chat request",
		zap.Bool("is_expanded", req.IsExpanded),
		zap.String("instruction_type", req.InstructionType),
		zap.Int("history_len", len(req.ChatHistory)),
	)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.backend.Chat(callCtx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return domain.ChatMessage{}, fmt.Errorf("%w after %s: %v", ErrChatTimeout, s.timeout, err)
		}
		return domain.ChatMessage{}, fmt.Errorf("chat backend: %w", err)
	}

	content := reply.Response
	if content == "" {
		content = reply.Message
	}
	if content == "" {
		content = MsgNoResponse
	}

	return domain.ChatMessage{
		Role:       domain.RoleAssistant,
		Content:    content,
		URLs:       reply.URLs,
		IsExpanded: &expanded,
	}, nil
}
