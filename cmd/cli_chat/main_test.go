package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type recordedChat struct {
	Message     string           `json:"message"`
	IsExpanded  bool             `json:"is_expanded"`
	InputType   string           `json:"input_type"`
	ChatHistory []map[string]any `json:"chat_history"`
}

func newTestGateway(t *testing.T, calls *[]recordedChat) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		var req recordedChat
		_ = json.NewDecoder(r.Body).Decode(&req)
		*calls = append(*calls, req)
		content := "short answer"
		if req.IsExpanded {
			content = "long answer"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"role":       "assistant",
			"content":    content,
			"isExpanded": req.IsExpanded,
			"urls":       []map[string]string{{"url": "https://connect-america-files.s3.amazonaws.com/device-setup.pdf", "content": "Setup"}},
		})
	})
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", "attachment; filename=device-setup.pdf")
		_, _ = w.Write([]byte("%PDF"))
	})
	mux.HandleFunc("/questions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"question_text":"How do I set up a new device?"}]`))
	})
	return httptest.NewServer(mux)
}

func TestSessionSendAndExpand(t *testing.T) {
	var calls []recordedChat
	srv := newTestGateway(t, &calls)
	defer srv.Close()

	s := newSession(cliConfig{GatewayURL: srv.URL + "/", Timeout: time.Second})
	ctx := context.Background()

	if _, err := s.send(ctx, "first"); err != nil {
		t.Fatalf("send first: %v", err)
	}
	s.advice = true
	if _, err := s.send(ctx, "second"); err != nil {
		t.Fatalf("send second: %v", err)
	}
	if len(calls[1].ChatHistory) != 2 || calls[1].InputType != "advice" {
		t.Fatalf("expected history and advice on second call, got %+v", calls[1])
	}

	msg, err := s.expand(ctx)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if msg.Content != "long answer" || !calls[2].IsExpanded || calls[2].Message != "second" {
		t.Fatalf("unexpected expand call %+v / %+v", msg, calls[2])
	}
	if len(calls[2].ChatHistory) != 2 {
		t.Fatalf("expected history before the expanded question, got %d turns", len(calls[2].ChatHistory))
	}
	if len(s.messages) != 4 || s.messages[3].Content != "long answer" {
		t.Fatalf("expected last answer replaced, got %+v", s.messages)
	}

	s.reset()
	if _, err := s.expand(ctx); err == nil {
		t.Fatalf("expected error expanding empty session")
	}
}

func TestSessionDownloadAndQuestions(t *testing.T) {
	var calls []recordedChat
	srv := newTestGateway(t, &calls)
	defer srv.Close()

	s := newSession(cliConfig{GatewayURL: srv.URL, Timeout: time.Second})
	ctx := context.Background()

	qs, err := s.questions(ctx)
	if err != nil || len(qs) != 1 {
		t.Fatalf("unexpected questions %+v %v", qs, err)
	}

	if _, err := s.download(ctx, 1, t.TempDir()); err == nil {
		t.Fatalf("expected error before any answer")
	}
	if _, err := s.send(ctx, "manual?"); err != nil {
		t.Fatalf("send: %v", err)
	}
	dir := t.TempDir()
	path, err := s.download(ctx, 1, dir)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if path != filepath.Join(dir, "device-setup.pdf") {
		t.Fatalf("unexpected path %q", path)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "%PDF" {
		t.Fatalf("unexpected file content %q", data)
	}
}

func TestDocumentTitle(t *testing.T) {
	got := documentTitle("https://connect-america-files.s3.amazonaws.com/manuals/device-setup_guide.pdf")
	if got != "Device Setup Guide" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestSessionDownloadUnquotedFilename(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"role":"assistant","content":"see guide","urls":[{"url":"https://connect-america-files.s3.amazonaws.com/manuals/My%20Guide.pdf","content":"Guide"}]}`))
	})
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", "attachment; filename=My Guide.pdf")
		_, _ = w.Write([]byte("%PDF"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newSession(cliConfig{GatewayURL: srv.URL, Timeout: time.Second})
	ctx := context.Background()
	if _, err := s.send(ctx, "guide?"); err != nil {
		t.Fatalf("send: %v", err)
	}
	dir := t.TempDir()
	got, err := s.download(ctx, 1, dir)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if got != filepath.Join(dir, "My Guide.pdf") {
		t.Fatalf("expected file named after the attachment, got %q", got)
	}
}

func TestAttachmentName(t *testing.T) {
	link := "https://connect-america-files.s3.amazonaws.com/manuals/Setup%20Guide.pdf"
	cases := []struct {
		disposition string
		want        string
	}{
		{`attachment; filename="quoted name.pdf"`, "quoted name.pdf"},
		{"attachment; filename=plain.pdf", "plain.pdf"},
		{"attachment; filename=My Guide.pdf", "My Guide.pdf"},
		{"attachment; filename=../../etc/passwd", "passwd"},
		{"attachment", "Setup Guide.pdf"},
		{"", "Setup Guide.pdf"},
	}
	for _, tc := range cases {
		if got := attachmentName(tc.disposition, link); got != tc.want {
			t.Fatalf("attachmentName(%q) = %q, want %q", tc.disposition, got, tc.want)
		}
	}
	if got := attachmentName("", "::bad"); got != "document" {
		t.Fatalf("expected generic name without any source, got %q", got)
	}
}
