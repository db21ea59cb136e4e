// Package engine содержит алгоритмическое ядро движка flow.
//
// Включает:
//   - order.go    — порядок выполнения узлов (BFS от trigger-узлов)
//   - prompt.go   — подстановка плейсхолдеров в шаблон промпта
//   - validate.go — валидация графа при сохранении flow
//
// Engine не знает про хранилище и LLM: он работает только
// с узлами, рёбрами и строками.
package engine
