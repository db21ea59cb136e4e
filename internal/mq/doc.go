// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений
//   - consumer.go   — потребление сообщений
//
// Типы сообщений:
//   - question.created — создан новый вопрос, нужно прогнать flows
//
// Exchanges:
//   - answerflow.questions — события вопросов
//   - answerflow.dlq       — dead letter queue
//
// Очередь — это и есть "fire-and-forget" граница системы: HTTP-слой
// публикует событие и сразу отвечает, движок потребляет отдельно.
package mq
