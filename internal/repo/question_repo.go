package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Answerflow/internal/domain"
)

// QuestionRepo — репозиторий для работы с questions.
type QuestionRepo struct {
	pool *pgxpool.Pool
}

// NewQuestionRepo создаёт новый QuestionRepo.
func NewQuestionRepo(pool *pgxpool.Pool) *QuestionRepo {
	return &QuestionRepo{pool: pool}
}

// Create создаёт новый вопрос.
func (r *QuestionRepo) Create(ctx context.Context, q *domain.Question) error {
	query := `
		INSERT INTO questions (id, user_id, title, content, category, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		q.ID,
		q.UserID,
		q.Title,
		q.Content,
		nullString(q.Category),
		q.Status,
		q.CreatedAt,
		q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

// GetByID возвращает вопрос по ID.
func (r *QuestionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	query := `
		SELECT id, user_id, title, content, category, status, created_at, updated_at
		FROM questions
		WHERE id = $1
	`
	return scanQuestion(r.pool.QueryRow(ctx, query, id))
}

// List возвращает вопросы, новые первыми.
func (r *QuestionRepo) List(ctx context.Context, category string, limit int) ([]domain.Question, error) {
	query := `
		SELECT id, user_id, title, content, category, status, created_at, updated_at
		FROM questions
		WHERE ($1::text IS NULL OR category = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, nullString(category), limit)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		q, err := scanQuestionRow(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// ListOpenSince возвращает открытые вопросы, созданные не раньше since.
// Используется sweeper'ом для повторной диспетчеризации.
func (r *QuestionRepo) ListOpenSince(ctx context.Context, since time.Time, limit int) ([]domain.Question, error) {
	query := `
		SELECT id, user_id, title, content, category, status, created_at, updated_at
		FROM questions
		WHERE status = 'open' AND created_at >= $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("list open questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		q, err := scanQuestionRow(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// MarkAnswered переводит вопрос в статус answered.
func (r *QuestionRepo) MarkAnswered(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE questions
		SET status = 'answered', updated_at = $2
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("mark question answered: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanQuestion сканирует одну строку в Question.
func scanQuestion(row pgx.Row) (*domain.Question, error) {
	var q domain.Question
	var category *string

	err := row.Scan(
		&q.ID,
		&q.UserID,
		&q.Title,
		&q.Content,
		&category,
		&q.Status,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan question: %w", err)
	}

	q.Category = fromNull(category)
	return &q, nil
}

// scanQuestionRow сканирует строку из rows в Question.
func scanQuestionRow(rows pgx.Rows) (*domain.Question, error) {
	var q domain.Question
	var category *string

	err := rows.Scan(
		&q.ID,
		&q.UserID,
		&q.Title,
		&q.Content,
		&category,
		&q.Status,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan question: %w", err)
	}

	q.Category = fromNull(category)
	return &q, nil
}
