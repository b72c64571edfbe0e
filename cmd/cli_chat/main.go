package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"connect-support/internal/domain"
)

type cliConfig struct {
	GatewayURL string        `env:"GATEWAY_URL" envDefault:"http://localhost:8080"`
	Token      string        `env:"GATEWAY_TOKEN"`
	Timeout    time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"300s"`
}

// session es el estado local de la conversacion; el servidor no guarda nada.
type session struct {
	baseURL  string
	token    string
	client   *http.Client
	messages []domain.ChatMessage
	advice   bool
}

func newSession(cfg cliConfig) *session {
	return &session{
		baseURL: strings.TrimRight(cfg.GatewayURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func main() {
	_ = godotenv.Load()

	var cfg cliConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatal(err)
	}

	s := newSession(cfg)
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("===== Support Chat =====")
	fmt.Println("Comandos: /questions /expand /advice /download <n> /reset /quit")
	printQuestions(ctx, s)

	for {
		mode := "default"
		if s.advice {
			mode = "advice"
		}
		fmt.Printf("\n[%s] > ", mode)
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case line == "/quit":
			return
		case line == "/reset":
			s.reset()
			fmt.Println("Historial borrado.")
		case line == "/advice":
			s.advice = !s.advice
		case line == "/questions":
			printQuestions(ctx, s)
		case line == "/expand":
			msg, err := s.expand(ctx)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			printAnswer(msg)
		case strings.HasPrefix(line, "/download"):
			idx, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "/download")))
			if err != nil {
				fmt.Println("uso: /download <n>")
				continue
			}
			path, err := s.download(ctx, idx, ".")
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Printf("Guardado en %s\n", path)
		default:
			msg, err := s.send(ctx, line)
			if err != nil {
				fmt.Printf("error: %v\n", err)
			}
			printAnswer(msg)
		}
	}
}

func (s *session) reset() {
	s.messages = nil
}

func (s *session) history() []domain.ChatTurn {
	turns := make([]domain.ChatTurn, 0, len(s.messages))
	for _, m := range s.messages {
		turns = append(turns, domain.ChatTurn{Role: m.Role, Content: m.Content})
	}
	return turns
}

// send agrega la pregunta y la respuesta al historial local.
func (s *session) send(ctx context.Context, text string) (domain.ChatMessage, error) {
	history := s.history()
	s.messages = append(s.messages, domain.ChatMessage{Role: domain.RoleUser, Content: text})
	reply, err := s.postChat(ctx, text, false, history)
	s.messages = append(s.messages, reply)
	return reply, err
}

// expand repite la ultima pregunta con is_expanded y reemplaza la ultima respuesta.
func (s *session) expand(ctx context.Context) (domain.ChatMessage, error) {
	question, answerIdx := -1, -1
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == domain.RoleAssistant && answerIdx < 0 {
			answerIdx = i
		}
		if s.messages[i].Role == domain.RoleUser {
			question = i
			break
		}
	}
	if question < 0 {
		return domain.ChatMessage{}, errors.New("no previous question to expand")
	}
	reply, err := s.postChat(ctx, s.messages[question].Content, true, s.historyBefore(question))
	if err != nil {
		return reply, err
	}
	if answerIdx > question {
		s.messages[answerIdx] = reply
	} else {
		s.messages = append(s.messages, reply)
	}
	return reply, nil
}

func (s *session) historyBefore(idx int) []domain.ChatTurn {
	turns := s.history()
	if idx < len(turns) {
		return turns[:idx]
	}
	return turns
}

func (s *session) postChat(ctx context.Context, text string, expanded bool, history []domain.ChatTurn) (domain.ChatMessage, error) {
	inputType := domain.InstructionDefault
	if s.advice {
		inputType = domain.InstructionAdvice
	}
	payload, err := json.Marshal(map[string]any{
		"message":      text,
		"is_expanded":  expanded,
		"input_type":   inputType,
		"chat_history": history,
	})
	if err != nil {
		return domain.ChatMessage{}, err
	}

	resp, err := s.do(ctx, http.MethodPost, "/chat", payload)
	if err != nil {
		return domain.AssistantMessage("Sorry, something went wrong. Please try again."), err
	}
	defer resp.Body.Close()

	var msg domain.ChatMessage
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return domain.AssistantMessage("Sorry, something went wrong. Please try again."), fmt.Errorf("decode chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return msg, fmt.Errorf("gateway status %d", resp.StatusCode)
	}
	return msg, nil
}

func (s *session) questions(ctx context.Context) ([]domain.FaqQuestion, error) {
	resp, err := s.do(ctx, http.MethodGet, "/questions", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway status %d", resp.StatusCode)
	}
	var out []domain.FaqQuestion
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return out, nil
}

// download baja la referencia n (desde 1) de la ultima respuesta a dir.
func (s *session) download(ctx context.Context, n int, dir string) (string, error) {
	var links []domain.DocumentLink
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == domain.RoleAssistant {
			links = s.messages[i].URLs
			break
		}
	}
	if n < 1 || n > len(links) {
		return "", fmt.Errorf("no document %d in last answer", n)
	}

	payload, _ := json.Marshal(map[string]string{"url": links[n-1].URL})
	resp, err := s.do(ctx, http.MethodPost, "/download", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gateway status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	target := filepath.Join(dir, attachmentName(resp.Header.Get("Content-Disposition"), links[n-1].URL))
	f, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", err
	}
	return target, nil
}

// attachmentName saca el nombre del archivo del Content-Disposition. El gateway
// lo manda sin comillas, asi que un nombre con espacios no pasa por mime y se
// lee a mano; si tampoco hay nombre se usa el ultimo segmento de la URL.
func attachmentName(disposition, linkURL string) string {
	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name := localName(params["filename"]); name != "" {
			return name
		}
	}
	if _, raw, ok := strings.Cut(disposition, "filename="); ok {
		if name := localName(strings.Trim(strings.TrimSpace(raw), `"`)); name != "" {
			return name
		}
	}
	if u, err := url.Parse(linkURL); err == nil {
		if name := localName(path.Base(u.Path)); name != "" {
			return name
		}
	}
	return "document"
}

// localName reduce un nombre remoto a un archivo dentro del directorio destino.
func localName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	switch name {
	case "", ".", "..", "/":
		return ""
	}
	return name
}

func (s *session) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	return s.client.Do(req)
}

func printQuestions(ctx context.Context, s *session) {
	qs, err := s.questions(ctx)
	if err != nil {
		fmt.Printf("No se pudieron cargar las preguntas sugeridas: %v\n", err)
		return
	}
	fmt.Println("Preguntas sugeridas:")
	for _, q := range qs {
		fmt.Printf("  - %s\n", q.QuestionText)
	}
}

func printAnswer(msg domain.ChatMessage) {
	if msg.Content == "" {
		return
	}
	fmt.Printf("\n%s\n", msg.Content)
	for i, link := range msg.URLs {
		fmt.Printf("  [%d] %s\n", i+1, documentTitle(link.URL))
	}
}

// documentTitle convierte "device-setup_guide.pdf" en "Device Setup Guide".
func documentTitle(rawURL string) string {
	name := rawURL
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	words := strings.Split(name, " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
