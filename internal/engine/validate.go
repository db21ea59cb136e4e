package engine

import (
	"fmt"

	"github.com/shaiso/Answerflow/internal/domain"
)

// Допустимые типы узлов.
var validNodeTypes = map[domain.NodeType]bool{
	domain.NodeTypeTrigger:  true,
	domain.NodeTypeAgent:    true,
	domain.NodeTypeResponse: true,
}

// ValidateGraph выполняет валидацию графа при сохранении flow.
//
// Проверяет:
//   - наличие узлов и хотя бы одного trigger-узла
//   - уникальность и непустоту ID узлов
//   - корректность типов узлов
//   - что рёбра ссылаются на существующие узлы
//   - отсутствие циклов
//
// Сам движок выполнения эту валидацию не вызывает: на этапе прогона
// граф обходится "как есть", циклы разрываются правилом
// "посетить один раз" (см. ExecutionOrder). Валидация нужна только
// чтобы редактор не мог сохранить заведомо сломанный граф.
func ValidateGraph(g *domain.FlowGraph) error {
	if g == nil || len(g.Nodes) == 0 {
		return ErrEmptyGraph
	}

	nodeIDs := make(map[string]bool, len(g.Nodes))
	hasTrigger := false

	for i := range g.Nodes {
		node := &g.Nodes[i]

		if node.ID == "" {
			return NewValidationError("", "node has empty ID", ErrEmptyNodeID)
		}
		if nodeIDs[node.ID] {
			return NewValidationError(node.ID,
				fmt.Sprintf("duplicate node ID: %s", node.ID), ErrDuplicateNodeID)
		}
		nodeIDs[node.ID] = true

		if !validNodeTypes[node.Type] {
			return NewValidationError(node.ID,
				fmt.Sprintf("unknown node type: %s", node.Type), ErrUnknownNodeType)
		}
		if node.Type == domain.NodeTypeTrigger {
			hasTrigger = true
		}
	}

	if !hasTrigger {
		return ErrNoTrigger
	}

	for _, e := range g.Edges {
		if !nodeIDs[e.Source] {
			return NewValidationError(e.Source,
				fmt.Sprintf("edge %s references unknown source: %s", e.ID, e.Source), ErrDanglingEdge)
		}
		if !nodeIDs[e.Target] {
			return NewValidationError(e.Target,
				fmt.Sprintf("edge %s references unknown target: %s", e.ID, e.Target), ErrDanglingEdge)
		}
	}

	return detectCycle(g)
}

// detectCycle проверяет граф на циклы (алгоритм Кана).
// Если после удаления всех узлов с нулевой входящей степенью
// остались необработанные узлы — среди них есть цикл.
func detectCycle(g *domain.FlowGraph) error {
	inDegree := make(map[string]int, len(g.Nodes))
	out := make(map[string][]string, len(g.Nodes))

	for _, n := range g.Nodes {
		inDegree[n.ID] = 0
	}
	for _, e := range g.Edges {
		out[e.Source] = append(out[e.Source], e.Target)
		inDegree[e.Target]++
	}

	var queue []string
	for _, n := range g.Nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	processed := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		processed++

		for _, target := range out[id] {
			inDegree[target]--
			if inDegree[target] == 0 {
				queue = append(queue, target)
			}
		}
	}

	if processed != len(g.Nodes) {
		return ErrCyclicGraph
	}
	return nil
}
