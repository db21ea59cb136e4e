package engine

import "github.com/shaiso/Answerflow/internal/domain"

// ExecutionOrder строит линейный порядок выполнения узлов графа.
//
// Алгоритм — BFS от всех trigger-узлов (в порядке их следования в nodes):
// узел извлекается из очереди, помечается посещённым, добавляется в
// результат, и все его непосещённые соседи по исходящим рёбрам
// добавляются в хвост очереди.
//
// Свойства:
//   - каждый узел попадает в результат не более одного раза,
//     сколько бы входящих рёбер он ни имел;
//   - узлы, недостижимые из триггеров, в результат не попадают;
//   - циклы молча разрываются правилом "посетить один раз" — из узлов
//     цикла первым выполняется тот, что раньше попал в очередь
//     (то есть ближайший к триггеру в порядке рёбер);
//   - рёбра на несуществующие узлы допустимы: обход через них
//     просто не продолжается;
//   - граф без триггеров (или с триггерами без исходящих рёбер,
//     не считая самих триггеров) даёт пустой или тривиальный
//     результат — это "нечего выполнять", а не ошибка.
func ExecutionOrder(nodes []domain.Node, edges []domain.Edge) []string {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}

	// Исходящие рёбра: source → targets в порядке следования edges.
	out := make(map[string][]string, len(nodes))
	for _, e := range edges {
		out[e.Source] = append(out[e.Source], e.Target)
	}

	var queue []string
	for _, n := range nodes {
		if n.Type == domain.NodeTypeTrigger {
			queue = append(queue, n.ID)
		}
	}

	order := make([]string, 0, len(nodes))
	visited := make(map[string]bool, len(nodes))

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if visited[id] {
			continue
		}
		visited[id] = true
		order = append(order, id)

		for _, target := range out[id] {
			if !visited[target] && known[target] {
				queue = append(queue, target)
			}
		}
	}

	return order
}
