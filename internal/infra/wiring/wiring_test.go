package wiring

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"surveybar/internal/adapters/repo"
	"surveybar/internal/infra/cache"
	"surveybar/internal/infra/config"
	"surveybar/internal/infra/queue"
)

func TestDefaultsOpenInProcessResources(t *testing.T) {
	var cfg config.AppConfig
	cfg.Store.Driver = DriverMemory
	cfg.Events.Driver = DriverNone
	r := New(cfg, zerolog.Nop())
	defer r.Close()

	ctx := context.Background()
	store, err := r.Store(ctx)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if _, ok := store.(*repo.Memory); !ok {
		t.Fatalf("ожидали хранилище в памяти, получили %T", store)
	}
	surveys, err := store.GetSurveys(ctx)
	if err != nil || len(surveys) == 0 {
		t.Fatalf("ожидали начальные опросы после Init, получили %d (%v)", len(surveys), err)
	}

	events, err := r.Events(ctx)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if _, ok := events.(queue.LogPublisher); !ok {
		t.Fatalf("ожидали LogPublisher, получили %T", events)
	}

	dedup, err := r.Cache(ctx)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if _, ok := dedup.(*cache.MemoryCache); !ok {
		t.Fatalf("ожидали кеш в памяти, получили %T", dedup)
	}
}

func TestUnknownDrivers(t *testing.T) {
	var cfg config.AppConfig
	cfg.Store.Driver = "sqlite"
	cfg.Events.Driver = "kafka"
	r := New(cfg, zerolog.Nop())

	if _, err := r.Store(context.Background()); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("ожидали ErrUnknownDriver для хранилища, получили %v", err)
	}
	if _, err := r.Events(context.Background()); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("ожидали ErrUnknownDriver для событий, получили %v", err)
	}
}

func TestMissingAddresses(t *testing.T) {
	var cfg config.AppConfig
	cfg.Store.Driver = DriverRedis
	cfg.Events.Driver = DriverAMQP
	r := New(cfg, zerolog.Nop())

	if _, err := r.Store(context.Background()); err == nil {
		t.Fatal("ожидали ошибку без REDIS_ADDR")
	}
	if _, err := r.Events(context.Background()); err == nil {
		t.Fatal("ожидали ошибку без AMQP_URL")
	}
}

func TestCloseRunsClosersInReverseOrder(t *testing.T) {
	r := New(config.AppConfig{}, zerolog.Nop())
	var order []string
	boom := errors.New("boom")
	r.closers = append(r.closers,
		func() error { order = append(order, "redis"); return nil },
		func() error { order = append(order, "amqp"); return boom },
	)

	if err := r.Close(); !errors.Is(err, boom) {
		t.Fatalf("ожидали ошибку закрытия, получили %v", err)
	}
	if len(order) != 2 || order[0] != "amqp" || order[1] != "redis" {
		t.Fatalf("неожиданный порядок закрытия: %v", order)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("повторное закрытие не должно ничего делать: %v", err)
	}
}
