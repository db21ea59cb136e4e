// Package api — HTTP-слой системы.
//
// Ресурсы: questions, answers, agents, flows, llm-configs, run-logs,
// плюс webhook для внешних событий о создании вопросов.
//
// Создание вопроса (через API или webhook) — это fire-and-forget
// граница: обработчик публикует событие question.created и сразу
// отвечает, не дожидаясь прогона flows.
package api
