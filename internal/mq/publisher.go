package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Типы сообщений.
const (
	MessageTypeQuestionCreated = "question.created"
)

// Message — конверт для всех сообщений в очереди.
type Message struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// QuestionCreatedPayload — payload события question.created.
type QuestionCreatedPayload struct {
	QuestionID uuid.UUID `json:"question_id"`
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// PublishQuestionCreated публикует событие о создании вопроса.
func (p *Publisher) PublishQuestionCreated(ctx context.Context, questionID uuid.UUID) error {
	payload := QuestionCreatedPayload{QuestionID: questionID}
	return p.publish(ctx, ExchangeQuestions, RoutingKeyQuestionCreated, MessageTypeQuestionCreated, payload)
}

// publish сериализует и публикует сообщение.
func (p *Publisher) publish(ctx context.Context, exchange, routingKey, msgType string, payload any) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	msg := Message{
		ID:        uuid.New(),
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		return ch.PublishWithContext(ctx,
			exchange,
			routingKey,
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID.String(),
				Type:         msgType,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", msgType, err)
	}

	p.logger.Debug("message published",
		"message_id", msg.ID,
		"type", msgType,
		"routing_key", routingKey,
	)

	return nil
}
