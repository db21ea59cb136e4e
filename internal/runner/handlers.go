package runner

import (
	"context"
	"fmt"

	"github.com/shaiso/Answerflow/internal/mq"
)

// HandleQuestionCreated возвращает обработчик сообщений question.created.
// Ошибка возвращается только для сбоев, которые имеет смысл
// ретраить (redelivery через nack).
func HandleQuestionCreated(r *Runner) mq.Handler {
	return func(ctx context.Context, msg *mq.Message) error {
		payload, err := mq.ParsePayload[mq.QuestionCreatedPayload](msg)
		if err != nil {
			// Битый payload ретраить бессмысленно: логируем и глотаем.
			r.logger.Error("malformed question.created payload", "message_id", msg.ID, "error", err)
			return nil
		}

		if err := r.RunQuestion(ctx, payload.QuestionID); err != nil {
			return fmt.Errorf("run question %s: %w", payload.QuestionID, err)
		}

		return nil
	}
}
