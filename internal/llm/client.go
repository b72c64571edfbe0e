package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"connect-support/internal/domain"
)

// ChatBackend define la interfaz del servicio externo que genera respuestas.
type ChatBackend interface {
	Chat(ctx context.Context, req ChatRequest) (ChatReply, error)
}

// ChatRequest es el cuerpo que espera el backend en POST /chat.
type ChatRequest struct {
	Message         string            `json:"message"`
	ChatHistory     []domain.ChatTurn `json:"chat_history"`
	IsExpanded      bool              `json:"is_expanded"`
	InstructionType string            `json:"instruction_type"`
}

// ChatReply admite las dos variantes de campo que devuelve el backend.
type ChatReply struct {
	Response string                `json:"response"`
	Message  string                `json:"message"`
	URLs     []domain.DocumentLink `json:"urls,omitempty"`
}

// StatusError indica que el backend respondio con un status no exitoso.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat backend http error: status=%d", e.StatusCode)
}

// HTTPClient implementa ChatBackend contra el servicio HTTP del LLM.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient construye un cliente apuntando a baseURL. El deadline lo fija el ctx de cada llamada.
func NewHTTPClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		logger:  logger,
	}
}

func (c *HTTPClient) Chat(ctx context.Context, chatReq ChatRequest) (ChatReply, error) {
	if chatReq.ChatHistory == nil {
		chatReq.ChatHistory = []domain.ChatTurn{}
	}
	bodyBytes, err := json.Marshal(chatReq)
	if err != nil {
		return ChatReply{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(bodyBytes))
	if err != nil {
		return ChatReply{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return ChatReply{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ChatReply{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("chat backend error status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(respBody), 512)),
		)
		return ChatReply{}, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var reply ChatReply
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return ChatReply{}, fmt.Errorf("unmarshal response: %w", err)
	}
	return reply, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
