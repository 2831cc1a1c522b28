package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"surveybar/internal/domain"
	"surveybar/internal/infra/config"
	applog "surveybar/internal/infra/log"
	"surveybar/internal/infra/metrics"
	"surveybar/internal/infra/queue"
	"surveybar/internal/infra/wiring"
)

// collector читает события из Redis-очереди и пишет их в журнал и метрики.
func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("collector: остановлен с ошибкой")
	}
}

func run(cfg config.AppConfig, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Events.Driver != wiring.DriverRedis {
		return fmt.Errorf("чтение событий поддерживается только для EVENTS_DRIVER=redis, задано %q", cfg.Events.Driver)
	}

	resources := wiring.New(cfg, logger)
	defer func() {
		if err := resources.Close(); err != nil {
			logger.Error().Err(err).Msg("collector: ошибка закрытия подключений")
		}
	}()

	client, err := resources.Redis(ctx)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		metrics.StartServer(ctx, applog.Component(logger, "metrics"), cfg.MetricsAddr)
	}

	worker := &eventWorker{
		log:   applog.Component(logger, "collector"),
		queue: queue.NewRedisEventQueue(client, cfg.Events.QueueKey),
	}
	logger.Info().Str("queue", cfg.Events.QueueKey).Msg("collector: запуск обработки очереди")
	worker.Run(ctx)
	logger.Info().Msg("collector: остановлен")
	return nil
}

type eventSource interface {
	Pop(ctx context.Context) (domain.Event, error)
}

type eventWorker struct {
	log   zerolog.Logger
	queue eventSource
}

func (w *eventWorker) Run(ctx context.Context) {
	for {
		event, err := w.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			w.log.Error().Err(err).Msg("collector: ошибка чтения очереди")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		w.handle(event)
	}
}

func (w *eventWorker) handle(event domain.Event) {
	metrics.EventsConsumedTotal.WithLabelValues(string(event.Type)).Inc()
	entry := w.log.Info().
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Str("user", event.UserID).
		Time("occurred_at", event.OccurredAt)
	if event.SurveyID != "" {
		entry = entry.Str("survey", event.SurveyID)
	}
	if event.PointsDelta != 0 {
		entry = entry.Int("points_delta", event.PointsDelta)
	}
	if len(event.Metadata) > 0 {
		entry = entry.Interface("metadata", event.Metadata)
	}
	entry.Msg("collector: событие")
}
