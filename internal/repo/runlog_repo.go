package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Answerflow/internal/domain"
)

// RunLogRepo — репозиторий для работы с agent_run_logs.
//
// Лог append-only: движок только вставляет строки,
// операторы читают их через API для отладки.
type RunLogRepo struct {
	pool *pgxpool.Pool
}

// NewRunLogRepo создаёт новый RunLogRepo.
func NewRunLogRepo(pool *pgxpool.Pool) *RunLogRepo {
	return &RunLogRepo{pool: pool}
}

// Create добавляет запись аудита.
func (r *RunLogRepo) Create(ctx context.Context, log *domain.AgentRunLog) error {
	query := `
		INSERT INTO agent_run_logs (
			id, flow_run_id, question_id, flow_id, agent_id, node_id,
			status, model, system_prompt, user_content,
			response_content, error_message, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		log.ID,
		log.FlowRunID,
		log.QuestionID,
		log.FlowID,
		log.AgentID,
		log.NodeID,
		log.Status,
		log.Model,
		log.SystemPrompt,
		log.UserContent,
		nullString(log.ResponseContent),
		nullString(log.ErrorMessage),
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert agent run log: %w", err)
	}
	return nil
}

// LogFilter — параметры фильтрации записей аудита.
type LogFilter struct {
	QuestionID *uuid.UUID
	AgentID    *uuid.UUID
	Limit      int
}

// List возвращает записи аудита, новые первыми.
func (r *RunLogRepo) List(ctx context.Context, filter LogFilter) ([]domain.AgentRunLog, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, flow_run_id, question_id, flow_id, agent_id, node_id,
		       status, model, system_prompt, user_content,
		       response_content, error_message, created_at
		FROM agent_run_logs
		WHERE ($1::uuid IS NULL OR question_id = $1)
		  AND ($2::uuid IS NULL OR agent_id = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query,
		nullUUID(filter.QuestionID),
		nullUUID(filter.AgentID),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list agent run logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.AgentRunLog
	for rows.Next() {
		var log domain.AgentRunLog
		var responseContent, errorMessage *string

		if err := rows.Scan(
			&log.ID,
			&log.FlowRunID,
			&log.QuestionID,
			&log.FlowID,
			&log.AgentID,
			&log.NodeID,
			&log.Status,
			&log.Model,
			&log.SystemPrompt,
			&log.UserContent,
			&responseContent,
			&errorMessage,
			&log.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan agent run log: %w", err)
		}

		log.ResponseContent = fromNull(responseContent)
		log.ErrorMessage = fromNull(errorMessage)
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// nullUUID возвращает nil для пустого UUID.
func nullUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}
