package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Answerflow/internal/domain"
)

// ConfigRepo — репозиторий для работы с llm_configs.
type ConfigRepo struct {
	pool *pgxpool.Pool
}

// NewConfigRepo создаёт новый ConfigRepo.
func NewConfigRepo(pool *pgxpool.Pool) *ConfigRepo {
	return &ConfigRepo{pool: pool}
}

// Create создаёт новую LLM-конфигурацию.
func (r *ConfigRepo) Create(ctx context.Context, cfg *domain.LLMConfig) error {
	query := `
		INSERT INTO llm_configs (id, user_id, name, api_base_url, api_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		cfg.ID,
		cfg.UserID,
		cfg.Name,
		cfg.APIBaseURL,
		nullString(cfg.APIKey),
		cfg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert llm config: %w", err)
	}
	return nil
}

// GetByIDForUser возвращает конфигурацию по ID, принадлежащую пользователю.
// Ownership-scoped: чужая конфигурация даёт ErrNotFound.
func (r *ConfigRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*domain.LLMConfig, error) {
	query := `
		SELECT id, user_id, name, api_base_url, api_key, created_at
		FROM llm_configs
		WHERE id = $1 AND user_id = $2
	`
	return scanConfig(r.pool.QueryRow(ctx, query, id, userID))
}

// FirstForUser возвращает первую (самую старую) конфигурацию пользователя.
// Используется как fallback, когда agent-узел не задал llm_config_id.
func (r *ConfigRepo) FirstForUser(ctx context.Context, userID uuid.UUID) (*domain.LLMConfig, error) {
	query := `
		SELECT id, user_id, name, api_base_url, api_key, created_at
		FROM llm_configs
		WHERE user_id = $1
		ORDER BY created_at ASC
		LIMIT 1
	`
	return scanConfig(r.pool.QueryRow(ctx, query, userID))
}

// ListForUser возвращает конфигурации пользователя.
func (r *ConfigRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.LLMConfig, error) {
	query := `
		SELECT id, user_id, name, api_base_url, api_key, created_at
		FROM llm_configs
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list llm configs: %w", err)
	}
	defer rows.Close()

	var configs []domain.LLMConfig
	for rows.Next() {
		var cfg domain.LLMConfig
		var apiKey *string
		if err := rows.Scan(
			&cfg.ID,
			&cfg.UserID,
			&cfg.Name,
			&cfg.APIBaseURL,
			&apiKey,
			&cfg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan llm config: %w", err)
		}
		cfg.APIKey = fromNull(apiKey)
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// scanConfig сканирует одну строку в LLMConfig.
func scanConfig(row pgx.Row) (*domain.LLMConfig, error) {
	var cfg domain.LLMConfig
	var apiKey *string

	err := row.Scan(
		&cfg.ID,
		&cfg.UserID,
		&cfg.Name,
		&cfg.APIBaseURL,
		&apiKey,
		&cfg.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan llm config: %w", err)
	}

	cfg.APIKey = fromNull(apiKey)
	return &cfg, nil
}
