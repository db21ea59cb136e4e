package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Answerflow/internal/domain"
)

// AnswerRepo — репозиторий для работы с answers.
type AnswerRepo struct {
	pool *pgxpool.Pool
}

// NewAnswerRepo создаёт новый AnswerRepo.
func NewAnswerRepo(pool *pgxpool.Pool) *AnswerRepo {
	return &AnswerRepo{pool: pool}
}

// Create создаёт ответ.
func (r *AnswerRepo) Create(ctx context.Context, answer *domain.Answer) error {
	query := `
		INSERT INTO answers (id, question_id, agent_id, flow_id, content, is_ai, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		answer.ID,
		answer.QuestionID,
		answer.AgentID,
		answer.FlowID,
		answer.Content,
		answer.IsAI,
		answer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	return nil
}

// ListByQuestion возвращает ответы на вопрос, старые первыми.
func (r *AnswerRepo) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]domain.Answer, error) {
	query := `
		SELECT id, question_id, agent_id, flow_id, content, is_ai, created_at
		FROM answers
		WHERE question_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var answers []domain.Answer
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(
			&a.ID,
			&a.QuestionID,
			&a.AgentID,
			&a.FlowID,
			&a.Content,
			&a.IsAI,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
