package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"surveybar/internal/adapters/httpapi"
	"surveybar/internal/infra/config"
	httpinfra "surveybar/internal/infra/http"
	applog "surveybar/internal/infra/log"
	"surveybar/internal/infra/metrics"
	"surveybar/internal/infra/wiring"
	"surveybar/internal/usecase/surveys"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("api: остановлен с ошибкой")
	}
}

// run держит все подключения процесса, поэтому они закрываются до выхода при любой ошибке.
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
			logger.Error().Err(err).Msg("api: ошибка закрытия подключений")
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

	service := surveys.NewService(store, cfg.Rules(),
		surveys.WithEvents(events),
		surveys.WithLogger(applog.Component(logger, "surveys")),
		surveys.WithLocation(loc),
	)

	limiter := httpinfra.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, applog.Component(logger, "ratelimit"))
	api := httpapi.NewServer(service,
		httpapi.WithLogger(applog.Component(logger, "httpapi")),
		httpapi.WithRateLimit(limiter.Handler),
	)

	srv := httpinfra.NewServer(applog.Component(logger, "http"))
	srv.Router.Mount("/", api.Router())

	if cfg.MetricsAddr != "" {
		metrics.StartServer(ctx, applog.Component(logger, "metrics"), cfg.MetricsAddr)
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("store", cfg.Store.Driver).Str("events", cfg.Events.Driver).Msg("api: старт")
		serveErr <- srv.Start(":" + strconv.Itoa(cfg.Port))
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: ошибка остановки сервера")
	}
	return nil
}
