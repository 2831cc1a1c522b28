package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	registerOnce sync.Once

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})

	EngineOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_operations_total",
		Help: "Операции движка опросов по результату",
	}, []string{"operation", "result"})

	PointsSpentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "points_spent_total",
		Help: "Списанные баллы по причине",
	}, []string{"reason"})

	PointsEarnedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "points_earned_total",
		Help: "Начисленные баллы по источнику",
	}, []string{"source"})

	EventsPublishErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "events_publish_errors_total",
		Help: "Ошибки публикации событий",
	}, []string{"type"})

	EventsConsumedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "events_consumed_total",
		Help: "События, прочитанные из очереди",
	}, []string{"type"})

	AttentionSurveys = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "attention_surveys",
		Help: "Опросы владельца, требующие внимания, на момент последнего сканирования",
	})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerOnce.Do(func() {
		registerer.MustRegister(
			NetworkRequestDuration,
			NetworkRequestTotal,
			EngineOperationsTotal,
			PointsSpentTotal,
			PointsEarnedTotal,
			EventsPublishErrors,
			EventsConsumedTotal,
			AttentionSurveys,
		)
	})
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-ctx.Done():
		case <-shutdownCtx.Done():
		}
		shutdownTimeout, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
		cancel()
	}()
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveOperation учитывает результат операции движка. Для отказов правил
// в метку попадает вид ошибки.
func ObserveOperation(operation string, result string) {
	if result == "" {
		result = "success"
	}
	EngineOperationsTotal.WithLabelValues(operation, result).Inc()
}

// AddPointsSpent учитывает списание баллов.
func AddPointsSpent(reason string, amount int) {
	if amount <= 0 {
		return
	}
	PointsSpentTotal.WithLabelValues(reason).Add(float64(amount))
}

// AddPointsEarned учитывает начисление баллов.
func AddPointsEarned(source string, amount int) {
	if amount <= 0 {
		return
	}
	PointsEarnedTotal.WithLabelValues(source).Add(float64(amount))
}
