// Package sweeper периодически переигрывает события по открытым
// вопросам. Если событие question.created потерялось (брокер был
// недоступен, движок упал до обработки), sweep найдёт вопрос без
// ответа и опубликует событие заново. Благодаря claim-записям
// повторная публикация для уже обработанных пар безопасна.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shaiso/Answerflow/internal/domain"
)

// Значения по умолчанию.
const (
	// DefaultSchedule — каждые две минуты.
	DefaultSchedule = "*/2 * * * *"

	// DefaultLookback — окно, в котором открытые вопросы считаются
	// кандидатами на повторный прогон.
	DefaultLookback = 60 * time.Minute

	// sweepBatchLimit — максимум вопросов за один проход.
	sweepBatchLimit = 100
)

// QuestionLister — выборка открытых вопросов за окно.
type QuestionLister interface {
	ListOpenSince(ctx context.Context, since time.Time, limit int) ([]domain.Question, error)
}

// Publisher — повторная публикация события question.created.
type Publisher interface {
	PublishQuestionCreated(ctx context.Context, questionID uuid.UUID) error
}

// Config — зависимости и настройки Sweeper.
type Config struct {
	Questions QuestionLister
	Publisher Publisher

	// Schedule — cron-выражение (стандартные 5 полей).
	// Пусто — DefaultSchedule.
	Schedule string

	// Lookback — окно выборки. Ноль — DefaultLookback.
	Lookback time.Duration

	Logger *slog.Logger
}

// Sweeper запускает периодический проход по открытым вопросам.
type Sweeper struct {
	questions QuestionLister
	publisher Publisher
	lookback  time.Duration
	logger    *slog.Logger

	cron *cron.Cron
}

// New создаёт Sweeper и регистрирует задачу в cron.
func New(cfg Config) (*Sweeper, error) {
	schedule := cfg.Schedule
	if schedule == "" {
		schedule = DefaultSchedule
	}
	lookback := cfg.Lookback
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Sweeper{
		questions: cfg.Questions,
		publisher: cfg.Publisher,
		lookback:  lookback,
		logger:    logger,
		cron:      cron.New(),
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Sweep(ctx); err != nil {
			s.logger.Error("sweep failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Start запускает планировщик в фоне.
func (s *Sweeper) Start() {
	s.cron.Start()
	s.logger.Info("sweeper started", "lookback", s.lookback)
}

// Stop останавливает планировщик и ждёт завершения текущего прохода.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("sweeper stopped")
}

// Sweep делает один проход: находит открытые вопросы в окне
// и переигрывает для них событие question.created.
func (s *Sweeper) Sweep(ctx context.Context) error {
	since := time.Now().UTC().Add(-s.lookback)

	questions, err := s.questions.ListOpenSince(ctx, since, sweepBatchLimit)
	if err != nil {
		return fmt.Errorf("list open questions: %w", err)
	}

	if len(questions) == 0 {
		s.logger.Debug("sweep found nothing")
		return nil
	}

	s.logger.Info("sweep republishing", "count", len(questions))

	var failed int
	for _, q := range questions {
		if err := s.publisher.PublishQuestionCreated(ctx, q.ID); err != nil {
			s.logger.Warn("republish failed", "question_id", q.ID, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("republish failed for %d of %d questions", failed, len(questions))
	}
	return nil
}

// ScheduleFromEnv читает cron-выражение из SWEEP_CRON.
func ScheduleFromEnv() string {
	if v := os.Getenv("SWEEP_CRON"); v != "" {
		return v
	}
	return DefaultSchedule
}

// LookbackFromEnv читает окно в минутах из SWEEP_LOOKBACK_MIN.
func LookbackFromEnv() time.Duration {
	if v := os.Getenv("SWEEP_LOOKBACK_MIN"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return DefaultLookback
}
