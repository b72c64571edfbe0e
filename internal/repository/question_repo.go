package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"connect-support/internal/domain"
)

type QuestionRepository interface {
	RandomSample(ctx context.Context, limit int) ([]domain.FaqQuestion, error)
}

type PgQuestionRepository struct {
	pool *pgxpool.Pool
}

func NewPgQuestionRepository(pool *pgxpool.Pool) *PgQuestionRepository {
	return &PgQuestionRepository{pool: pool}
}

func (r *PgQuestionRepository) RandomSample(ctx context.Context, limit int) ([]domain.FaqQuestion, error) {
	const query = `
		SELECT question_text
		FROM faq_questions
		ORDER BY random()
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]domain.FaqQuestion, 0, limit)
	for rows.Next() {
		var q domain.FaqQuestion
		if err := rows.Scan(&q.QuestionText); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return questions, nil
}
