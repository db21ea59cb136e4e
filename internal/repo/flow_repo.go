package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Answerflow/internal/domain"
)

// FlowRepo — репозиторий для работы с flows.
//
// Граф хранится в JSONB-колонках nodes и edges в том виде,
// в каком его сохранил визуальный редактор.
type FlowRepo struct {
	pool *pgxpool.Pool
}

// NewFlowRepo создаёт новый FlowRepo.
func NewFlowRepo(pool *pgxpool.Pool) *FlowRepo {
	return &FlowRepo{pool: pool}
}

// Create создаёт новый flow.
func (r *FlowRepo) Create(ctx context.Context, flow *domain.Flow) error {
	nodesJSON, edgesJSON, err := marshalGraph(&flow.Graph)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO flows (id, agent_id, name, trigger_type, is_active, nodes, edges, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.pool.Exec(ctx, query,
		flow.ID,
		flow.AgentID,
		flow.Name,
		flow.TriggerType,
		flow.IsActive,
		nodesJSON,
		edgesJSON,
		flow.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert flow: %w", err)
	}
	return nil
}

// GetByID возвращает flow по ID.
func (r *FlowRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flow, error) {
	query := `
		SELECT id, agent_id, name, trigger_type, is_active, nodes, edges, created_at
		FROM flows
		WHERE id = $1
	`
	return scanFlow(r.pool.QueryRow(ctx, query, id))
}

// List возвращает все flows.
func (r *FlowRepo) List(ctx context.Context) ([]domain.Flow, error) {
	query := `
		SELECT id, agent_id, name, trigger_type, is_active, nodes, edges, created_at
		FROM flows
		ORDER BY created_at DESC
	`
	return r.queryFlows(ctx, query)
}

// ListByAgent возвращает flows агента.
func (r *FlowRepo) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Flow, error) {
	query := `
		SELECT id, agent_id, name, trigger_type, is_active, nodes, edges, created_at
		FROM flows
		WHERE agent_id = $1
		ORDER BY created_at DESC
	`
	return r.queryFlows(ctx, query, agentID)
}

// ListActiveByTrigger возвращает активные flows с данным типом триггера.
// Порядок стабилен в пределах одного вызова (created_at, id).
func (r *FlowRepo) ListActiveByTrigger(ctx context.Context, triggerType string) ([]domain.Flow, error) {
	query := `
		SELECT id, agent_id, name, trigger_type, is_active, nodes, edges, created_at
		FROM flows
		WHERE trigger_type = $1 AND is_active = TRUE
		ORDER BY created_at ASC, id ASC
	`
	return r.queryFlows(ctx, query, triggerType)
}

// Update обновляет flow.
func (r *FlowRepo) Update(ctx context.Context, flow *domain.Flow) error {
	nodesJSON, edgesJSON, err := marshalGraph(&flow.Graph)
	if err != nil {
		return err
	}

	query := `
		UPDATE flows
		SET name = $2, trigger_type = $3, is_active = $4, nodes = $5, edges = $6
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		flow.ID,
		flow.Name,
		flow.TriggerType,
		flow.IsActive,
		nodesJSON,
		edgesJSON,
	)
	if err != nil {
		return fmt.Errorf("update flow: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет flow (каскадно удалит claims и run logs).
func (r *FlowRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM flows WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete flow: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimRun пытается захватить прогон пары (question, flow).
//
// Возвращает true, если захват удался — то есть этот flow ещё не
// запускался для этого вопроса. Конкурирующий прогон или повторная
// диспетчеризация того же вопроса получают false и молча пропускают
// flow. Это единственная защита от двойных ответов.
func (r *FlowRepo) ClaimRun(ctx context.Context, questionID, flowID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO flow_run_claims (question_id, flow_id, claimed_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (question_id, flow_id) DO NOTHING
	`
	result, err := r.pool.Exec(ctx, query, questionID, flowID)
	if err != nil {
		return false, fmt.Errorf("claim flow run: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// --- Helpers ---

// marshalGraph сериализует узлы и рёбра в JSON для JSONB-колонок.
func marshalGraph(g *domain.FlowGraph) ([]byte, []byte, error) {
	nodes := g.Nodes
	if nodes == nil {
		nodes = []domain.Node{}
	}
	edges := g.Edges
	if edges == nil {
		edges = []domain.Edge{}
	}

	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal edges: %w", err)
	}
	return nodesJSON, edgesJSON, nil
}

func (r *FlowRepo) queryFlows(ctx context.Context, query string, args ...any) ([]domain.Flow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query flows: %w", err)
	}
	defer rows.Close()

	var flows []domain.Flow
	for rows.Next() {
		flow, err := scanFlowRow(rows)
		if err != nil {
			return nil, err
		}
		flows = append(flows, *flow)
	}
	return flows, rows.Err()
}

// scanFlow сканирует одну строку в Flow.
func scanFlow(row pgx.Row) (*domain.Flow, error) {
	var flow domain.Flow
	var nodesJSON, edgesJSON []byte

	err := row.Scan(
		&flow.ID,
		&flow.AgentID,
		&flow.Name,
		&flow.TriggerType,
		&flow.IsActive,
		&nodesJSON,
		&edgesJSON,
		&flow.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan flow: %w", err)
	}

	if err := unmarshalGraph(&flow, nodesJSON, edgesJSON); err != nil {
		return nil, err
	}
	return &flow, nil
}

// scanFlowRow сканирует строку из rows в Flow.
func scanFlowRow(rows pgx.Rows) (*domain.Flow, error) {
	var flow domain.Flow
	var nodesJSON, edgesJSON []byte

	err := rows.Scan(
		&flow.ID,
		&flow.AgentID,
		&flow.Name,
		&flow.TriggerType,
		&flow.IsActive,
		&nodesJSON,
		&edgesJSON,
		&flow.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan flow: %w", err)
	}

	if err := unmarshalGraph(&flow, nodesJSON, edgesJSON); err != nil {
		return nil, err
	}
	return &flow, nil
}

func unmarshalGraph(flow *domain.Flow, nodesJSON, edgesJSON []byte) error {
	if nodesJSON != nil {
		if err := json.Unmarshal(nodesJSON, &flow.Graph.Nodes); err != nil {
			return fmt.Errorf("unmarshal nodes: %w", err)
		}
	}
	if edgesJSON != nil {
		if err := json.Unmarshal(edgesJSON, &flow.Graph.Edges); err != nil {
			return fmt.Errorf("unmarshal edges: %w", err)
		}
	}
	return nil
}
