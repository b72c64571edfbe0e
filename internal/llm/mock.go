package llm

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar al backend real.
type MockClient struct {
	mu       sync.Mutex
	Reply    ChatReply
	Err      error
	Requests []ChatRequest
}

func (m *MockClient) Chat(ctx context.Context, req ChatRequest) (ChatReply, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	m.mu.Unlock()
	if m.Err != nil {
		return ChatReply{}, m.Err
	}
	return m.Reply, nil
}

// Calls devuelve cuantas veces se invoco Chat.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
