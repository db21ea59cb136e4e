// Package runner — исполнитель flow-прогонов.
//
// Runner получает событие о создании вопроса (из очереди, от HTTP-слоя
// напрямую или от sweeper), находит активные flows с подходящим
// триггером и прогоняет каждый из них по графу: trigger-узлы
// пропускаются, agent-узлы вызывают LLM, response-узел публикует
// накопленный вывод как ответ и завершает прогон.
//
// Прогоны изолированы друг от друга: паника или ошибка в одном flow
// не мешает остальным. Повторная доставка события та же пара
// (question, flow) второй раз не выполняет — идемпотентность
// обеспечивается claim-записью в БД.
package runner
