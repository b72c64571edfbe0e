package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"connect-support/internal/domain"
	"connect-support/internal/llm"
)

type slowBackend struct {
	started chan struct{}
}

func (b *slowBackend) Chat(ctx context.Context, _ llm.ChatRequest) (llm.ChatReply, error) {
	if b.started != nil {
		close(b.started)
	}
	<-ctx.Done()
	return llm.ChatReply{}, ctx.Err()
}

func boolPtr(v bool) *bool { return &v }

func TestChatServiceRespond_EmptyMessageSkipsBackend(t *testing.T) {
	backend := &llm.MockClient{}
	svc := NewChatService(backend, time.Second, nil)

	for _, msg := range []string{"", "   "} {
		if _, err := svc.Respond(context.Background(), ChatInput{Message: msg}); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("expected ErrEmptyMessage for %q, got %v", msg, err)
		}
	}
	if backend.Calls() != 0 {
		t.Fatalf("expected no backend calls, got %d", backend.Calls())
	}
}

func TestChatServiceRespond_Defaults(t *testing.T) {
	backend := &llm.MockClient{Reply: llm.ChatReply{Response: "Hello"}}
	svc := NewChatService(backend, time.Second, nil)

	msg, err := svc.Respond(context.Background(), ChatInput{Message: "hi"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if msg.Role != domain.RoleAssistant || msg.Content != "Hello" {
		t.Fatalf("unexpected message %+v", msg)
	}
	if msg.IsExpanded == nil || *msg.IsExpanded {
		t.Fatalf("expected isExpanded=false")
	}
	if msg.URLs != nil {
		t.Fatalf("expected no urls, got %+v", msg.URLs)
	}

	req := backend.Requests[0]
	if req.ChatHistory == nil || len(req.ChatHistory) != 0 {
		t.Fatalf("expected empty non-nil history, got %#v", req.ChatHistory)
	}
	if req.IsExpanded || req.InstructionType != domain.InstructionDefault {
		t.Fatalf("unexpected defaults %+v", req)
	}
}

func TestChatServiceRespond_ContentFallbacks(t *testing.T) {
	cases := []struct {
		name  string
		reply llm.ChatReply
		want  string
	}{
		{"response wins", llm.ChatReply{Response: "a", Message: "b"}, "a"},
		{"message fallback", llm.ChatReply{Message: "b"}, "b"},
		{"placeholder", llm.ChatReply{}, MsgNoResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewChatService(&llm.MockClient{Reply: tc.reply}, time.Second, nil)
			msg, err := svc.Respond(context.Background(), ChatInput{Message: "hi"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if msg.Content != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, msg.Content)
			}
		})
	}
}

func TestChatServiceRespond_ForwardsOptions(t *testing.T) {
	links := []domain.DocumentLink{{URL: "https://connect-america-files.s3.amazonaws.com/a.pdf", Content: "A"}}
	backend := &llm.MockClient{Reply: llm.ChatReply{Response: "ok", URLs: links}}
	svc := NewChatService(backend, time.Second, nil)

	history := []domain.ChatTurn{{Role: domain.RoleUser, Content: "before"}}
	msg, err := svc.Respond(context.Background(), ChatInput{
		Message:     "hi",
		IsExpanded:  boolPtr(true),
		InputType:   "advice",
		ChatHistory: history,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if msg.IsExpanded == nil || !*msg.IsExpanded || len(msg.URLs) != 1 {
		t.Fatalf("unexpected message %+v", msg)
	}
	req := backend.Requests[0]
	if !req.IsExpanded || req.InstructionType != domain.InstructionAdvice || len(req.ChatHistory) != 1 {
		t.Fatalf("unexpected forwarded request %+v", req)
	}
}

func TestChatServiceRespond_UnknownInputTypeFallsBackToDefault(t *testing.T) {
	backend := &llm.MockClient{Reply: llm.ChatReply{Response: "ok"}}
	svc := NewChatService(backend, time.Second, nil)

	if _, err := svc.Respond(context.Background(), ChatInput{Message: "hi", InputType: "poetry"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if backend.Requests[0].InstructionType != domain.InstructionDefault {
		t.Fatalf("expected default instruction, got %q", backend.Requests[0].InstructionType)
	}
}

func TestChatServiceRespond_NoStateBetweenCalls(t *testing.T) {
	backend := &llm.MockClient{Reply: llm.ChatReply{Response: "ok"}}
	svc := NewChatService(backend, time.Second, nil)

	first, err := svc.Respond(context.Background(), ChatInput{Message: "same", IsExpanded: boolPtr(false)})
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.Respond(context.Background(), ChatInput{Message: "same", IsExpanded: boolPtr(true)})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if *first.IsExpanded || !*second.IsExpanded {
		t.Fatalf("expected first=false second=true, got %v %v", *first.IsExpanded, *second.IsExpanded)
	}
	if backend.Requests[0].IsExpanded || !backend.Requests[1].IsExpanded {
		t.Fatalf("unexpected forwarded flags %+v", backend.Requests)
	}
}

func TestChatServiceRespond_Timeout(t *testing.T) {
	svc := NewChatService(&slowBackend{}, 30*time.Millisecond, nil)

	start := time.Now()
	_, err := svc.Respond(context.Background(), ChatInput{Message: "hi"})
	if !errors.Is(err, ErrChatTimeout) {
		t.Fatalf("expected ErrChatTimeout, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("timeout took too long")
	}
}

func TestChatServiceRespond_StatusErrorPreserved(t *testing.T) {
	backend := &llm.MockClient{Err: &llm.StatusError{StatusCode: 502}}
	svc := NewChatService(backend, time.Second, nil)

	_, err := svc.Respond(context.Background(), ChatInput{Message: "hi"})
	var statusErr *llm.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 502 {
		t.Fatalf("expected wrapped StatusError 502, got %v", err)
	}
	if errors.Is(err, ErrChatTimeout) {
		t.Fatalf("status error must not be classified as timeout")
	}
}

func TestChatService_NotConfigured(t *testing.T) {
	var svc *ChatService
	if _, err := svc.Respond(context.Background(), ChatInput{Message: "hi"}); !errors.Is(err, ErrChatServiceNotConfigured) {
		t.Fatalf("expected ErrChatServiceNotConfigured, got %v", err)
	}
}
