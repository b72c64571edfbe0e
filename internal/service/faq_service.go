package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"connect-support/internal/domain"
	"connect-support/internal/repository"
)

var ErrFAQFetch = errors.New("failed to fetch questions")

// defaultQuestions se sirve cuando no hay base de datos o la tabla esta vacia.
var defaultQuestions = []domain.FaqQuestion{
	{QuestionText: "What are the common troubleshooting steps?"},
	{QuestionText: "How do I set up a new device?"},
	{QuestionText: "What are the system requirements?"},
}

// FAQService entrega las preguntas sugeridas de la UI.
type FAQService struct {
	repo       repository.QuestionRepository
	sampleSize int
	logger     *zap.Logger
}

// NewFAQService acepta repo nil: en ese caso solo se usa la lista fija.
func NewFAQService(repo repository.QuestionRepository, sampleSize int, logger *zap.Logger) *FAQService {
	if sampleSize <= 0 {
		sampleSize = len(defaultQuestions)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FAQService{repo: repo, sampleSize: sampleSize, logger: logger}
}

func (s *FAQService) List(ctx context.Context) ([]domain.FaqQuestion, error) {
	if s == nil || s.repo == nil {
		return DefaultQuestions(), nil
	}
	questions, err := s.repo.RandomSample(ctx, s.sampleSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFAQFetch, err)
	}
	if len(questions) == 0 {
		s.logger.Warn("faq table empty, serving default questions")
		return DefaultQuestions(), nil
	}
	return questions, nil
}

// DefaultQuestions devuelve una copia de la lista fija.
func DefaultQuestions() []domain.FaqQuestion {
	out := make([]domain.FaqQuestion, len(defaultQuestions))
	copy(out, defaultQuestions)
	return out
}
