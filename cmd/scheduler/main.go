package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"surveybar/internal/infra/config"
	applog "surveybar/internal/infra/log"
	"surveybar/internal/infra/metrics"
	"surveybar/internal/infra/wiring"
	"surveybar/internal/usecase/notify"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("scheduler: остановлен с ошибкой")
	}
}

func run(cfg config.AppConfig, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("часовой пояс %q: %w", cfg.TZ, err)
	}

	resources := wiring.New(cfg, logger)
	defer func() {
		if err := resources.Close(); err != nil {
			logger.Error().Err(err).Msg("scheduler: ошибка закрытия подключений")
		}
	}()

	store, err := resources.Store(ctx)
	if err != nil {
		return fmt.Errorf("хранилище %s: %w", cfg.Store.Driver, err)
	}
	events, err := resources.Events(ctx)
	if err != nil {
		return fmt.Errorf("очередь событий %s: %w", cfg.Events.Driver, err)
	}
	dedup, err := resources.Cache(ctx)
	if err != nil {
		return fmt.Errorf("кеш: %w", err)
	}

	notifier := notify.NewService(store, dedup, events, applog.Component(logger, "notify"), loc, cfg.Scheduler.AttentionTTL, cfg.Economy.MaxExtensions)

	if cfg.MetricsAddr != "" {
		metrics.StartServer(ctx, applog.Component(logger, "metrics"), cfg.MetricsAddr)
	}

	scheduler := cron.New(cron.WithLocation(loc))
	schedule := "@every " + cfg.Scheduler.Interval.String()
	if _, err := scheduler.AddFunc(schedule, func() {
		sent, err := notifier.Scan(ctx)
		if err != nil {
			logger.Error().Err(err).Int("sent", sent).Msg("scheduler: сканирование завершилось с ошибками")
			return
		}
		if sent > 0 {
			logger.Info().Int("sent", sent).Msg("scheduler: отправлены напоминания")
		}
	}); err != nil {
		return fmt.Errorf("расписание %q: %w", schedule, err)
	}

	logger.Info().Str("schedule", schedule).Msg("scheduler: старт")
	scheduler.Start()
	<-ctx.Done()
	logger.Info().Msg("scheduler: остановка")
	<-scheduler.Stop().Done()
	return nil
}
