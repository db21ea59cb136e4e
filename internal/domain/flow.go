package domain

import (
	"time"

	"github.com/google/uuid"
)

// TriggerQuestionCreated — единственный поддерживаемый тип триггера:
// flow запускается при создании нового вопроса.
const TriggerQuestionCreated = "question_created"

// NodeType — тип узла в графе flow.
type NodeType string

const (
	// NodeTypeTrigger — точка входа графа, сама по себе ничего не делает.
	NodeTypeTrigger NodeType = "trigger"

	// NodeTypeAgent — вызов LLM с отрендеренным промптом.
	NodeTypeAgent NodeType = "agent"

	// NodeTypeResponse — терминальный узел, публикует накопленный вывод как ответ.
	NodeTypeResponse NodeType = "response"
)

// Flow — автоматизация, привязанная к агенту.
//
// Flow — это граф из trigger/agent/response узлов, который редактор
// сохраняет как есть; движок читает его и никогда не изменяет.
type Flow struct {
	// ID — уникальный идентификатор flow.
	ID uuid.UUID `json:"id"`

	// AgentID — агент-владелец. Ответы публикуются от его имени.
	AgentID uuid.UUID `json:"agent_id"`

	// Name — имя flow для отображения в редакторе.
	Name string `json:"name"`

	// TriggerType — событие, запускающее flow.
	// Движок обрабатывает только "question_created".
	TriggerType string `json:"trigger_type"`

	// IsActive — неактивные flows не запускаются.
	IsActive bool `json:"is_active"`

	// Graph — узлы и рёбра.
	Graph FlowGraph `json:"graph"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`
}

// FlowGraph — сериализованный граф из редактора.
//
// Граф может быть несвязным и содержать узлы, недостижимые из
// триггеров — такие узлы просто никогда не выполняются.
type FlowGraph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node — типизированный узел графа.
type Node struct {
	// ID — идентификатор узла в пределах графа.
	ID string `json:"id"`

	// Type — тип узла: trigger, agent или response.
	Type NodeType `json:"type"`

	// Data — произвольный payload из редактора.
	// Для agent-узлов интерпретируется через AgentData().
	Data map[string]any `json:"data,omitempty"`
}

// Edge — направленное ребро графа.
type Edge struct {
	ID string `json:"id"`

	// Source — ID узла-источника.
	Source string `json:"source"`

	// Target — ID узла-приёмника.
	Target string `json:"target"`
}

// Значения по умолчанию для agent-узлов.
const (
	// DefaultModel — модель, если agent-узел её не задал.
	DefaultModel = "gpt-4o-mini"

	// DefaultSystemPrompt — системный промпт по умолчанию.
	DefaultSystemPrompt = "You are a helpful assistant."
)

// AgentNodeData — интерпретированный payload agent-узла.
type AgentNodeData struct {
	// LLMConfigID — явная ссылка на LLM-конфигурацию (nil = не задана).
	LLMConfigID *uuid.UUID

	// Model — идентификатор модели.
	Model string

	// SystemPrompt — шаблон системного промпта.
	SystemPrompt string
}

// AgentData извлекает настройки agent-узла из Data,
// подставляя значения по умолчанию для отсутствующих полей.
// Некорректные значения (не строки, невалидный UUID) игнорируются.
func (n *Node) AgentData() AgentNodeData {
	data := AgentNodeData{
		Model:        DefaultModel,
		SystemPrompt: DefaultSystemPrompt,
	}

	if n.Data == nil {
		return data
	}

	if s, ok := n.Data["llm_config_id"].(string); ok && s != "" {
		if id, err := uuid.Parse(s); err == nil {
			data.LLMConfigID = &id
		}
	}
	if s, ok := n.Data["model"].(string); ok && s != "" {
		data.Model = s
	}
	if s, ok := n.Data["systemPrompt"].(string); ok && s != "" {
		data.SystemPrompt = s
	}

	return data
}
