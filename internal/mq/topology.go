package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Имена exchanges.
const (
	ExchangeQuestions = "answerflow.questions"
	ExchangeDLQ       = "answerflow.dlq"
)

// Имена очередей.
const (
	QueueQuestionCreated = "questions.created"
	QueueDLQ             = "dlq.questions"
)

// Routing keys.
const (
	RoutingKeyQuestionCreated = "created"
	RoutingKeyDLQ             = "questions"
)

// SetupTopology объявляет все exchanges, queues и bindings.
// Идемпотентно: повторный вызов безопасен.
func SetupTopology(ch *amqp.Channel) error {
	// DLQ exchange и очередь — первыми, на них ссылаются аргументы
	// основной очереди.
	if err := ch.ExchangeDeclare(
		ExchangeDLQ,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange %s: %w", ExchangeDLQ, err)
	}

	if _, err := ch.QueueDeclare(
		QueueDLQ,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare queue %s: %w", QueueDLQ, err)
	}

	if err := ch.QueueBind(QueueDLQ, RoutingKeyDLQ, ExchangeDLQ, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", QueueDLQ, err)
	}

	if err := ch.ExchangeDeclare(
		ExchangeQuestions,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange %s: %w", ExchangeQuestions, err)
	}

	if _, err := ch.QueueDeclare(
		QueueQuestionCreated,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    ExchangeDLQ,
			"x-dead-letter-routing-key": RoutingKeyDLQ,
		},
	); err != nil {
		return fmt.Errorf("declare queue %s: %w", QueueQuestionCreated, err)
	}

	if err := ch.QueueBind(QueueQuestionCreated, RoutingKeyQuestionCreated, ExchangeQuestions, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", QueueQuestionCreated, err)
	}

	return nil
}
