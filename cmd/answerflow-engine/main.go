// Answerflow Engine — исполнитель flows.
//
// Engine:
//   - Потребляет события question.created из RabbitMQ
//   - Прогоняет активные flows по графу (agent-узлы вызывают LLM)
//   - Публикует ответы и пишет аудит прогонов
//   - Периодически переигрывает потерянные события (sweeper)
//
// Экземпляры масштабируются горизонтально: повторные прогоны
// отсекаются claim-записями в БД.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Answerflow/internal/llm"
	"github.com/shaiso/Answerflow/internal/mq"
	"github.com/shaiso/Answerflow/internal/repo"
	"github.com/shaiso/Answerflow/internal/runner"
	"github.com/shaiso/Answerflow/internal/sweeper"
	"github.com/shaiso/Answerflow/internal/telemetry"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting answerflow-engine")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	questionRepo := repo.NewQuestionRepo(pool)

	// RabbitMQ
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	mqConn, err := mq.NewConnection(mqURL, logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer mqConn.Close()
	logger.Info("RabbitMQ connected")

	if err := mq.SetupTopology(mqConn.Channel()); err != nil {
		logger.Error("failed to setup topology", "error", err)
		os.Exit(1)
	}

	publisher := mq.NewPublisher(mqConn, logger)

	// Runner со всеми зависимостями
	r := runner.New(runner.Config{
		Questions: questionRepo,
		Flows:     repo.NewFlowRepo(pool),
		Agents:    repo.NewAgentRepo(pool),
		Configs:   repo.NewConfigRepo(pool),
		Logs:      repo.NewRunLogRepo(pool),
		Answers:   repo.NewAnswerRepo(pool),
		Invoker:   llm.NewClient(),
		Logger:    logger,
	})

	// Consumer событий question.created
	consumer := mq.NewConsumer(mqConn, mq.QueueQuestionCreated, runner.HandleQuestionCreated(r), logger)
	go func() {
		if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("consumer stopped", "error", err)
			cancel()
		}
	}()

	// Sweeper переигрывает потерянные события
	sw, err := sweeper.New(sweeper.Config{
		Questions: questionRepo,
		Publisher: publisher,
		Schedule:  sweeper.ScheduleFromEnv(),
		Lookback:  sweeper.LookbackFromEnv(),
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to create sweeper", "error", err)
		os.Exit(1)
	}
	sw.Start()

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8081"
	if v := os.Getenv("ENGINE_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	sw.Stop()
	logger.Info("answerflow-engine stopped")
}
