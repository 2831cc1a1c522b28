// Package wiring собирает хранилище, очередь событий и кеш по конфигу.
package wiring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"surveybar/internal/adapters/repo"
	"surveybar/internal/domain"
	"surveybar/internal/infra/cache"
	"surveybar/internal/infra/config"
	"surveybar/internal/infra/db"
	"surveybar/internal/infra/queue"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverAMQP     = "amqp"
	DriverNone     = "none"
)

// ErrUnknownDriver возвращается для неподдерживаемого значения *_DRIVER.
var ErrUnknownDriver = errors.New("unknown driver")

// Resources держит открытые подключения процесса.
type Resources struct {
	cfg     config.AppConfig
	log     zerolog.Logger
	redis   redis.UniversalClient
	closers []func() error
}

// New создаёт набор ресурсов. Подключения открываются лениво.
func New(cfg config.AppConfig, logger zerolog.Logger) *Resources {
	return &Resources{cfg: cfg, log: logger}
}

// Redis возвращает общий клиент Redis, проверив соединение при первом вызове.
func (r *Resources) Redis(ctx context.Context) (redis.UniversalClient, error) {
	if r.redis != nil {
		return r.redis, nil
	}
	if r.cfg.RedisAddr == "" {
		return nil, errors.New("не указан адрес Redis (REDIS_ADDR)")
	}
	client := redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("подключение к Redis: %w", err)
	}
	r.redis = client
	r.closers = append(r.closers, client.Close)
	return client, nil
}

// Store открывает хранилище по STORE_DRIVER и записывает начальные данные.
func (r *Resources) Store(ctx context.Context) (domain.Store, error) {
	keys := repo.Keys{User: r.cfg.Store.UserKey, Surveys: r.cfg.Store.SurveysKey}

	var store domain.Store
	switch driver := strings.ToLower(r.cfg.Store.Driver); driver {
	case "", DriverMemory:
		r.log.Warn().Msg("wiring: используется хранилище в памяти, данные не переживут рестарт")
		store = repo.NewMemory(keys, nil)
	case DriverPostgres:
		if err := db.Migrate(r.cfg.PGDSN); err != nil {
			return nil, err
		}
		pool, err := db.Connect(ctx, r.cfg.PGDSN)
		if err != nil {
			return nil, err
		}
		r.closers = append(r.closers, func() error { pool.Close(); return nil })
		store = repo.NewPostgres(pool, keys)
	case DriverRedis:
		client, err := r.Redis(ctx)
		if err != nil {
			return nil, err
		}
		store = repo.NewRedis(client, keys)
	default:
		return nil, fmt.Errorf("%w: STORE_DRIVER=%s", ErrUnknownDriver, driver)
	}

	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("инициализация хранилища: %w", err)
	}
	return store, nil
}

// Events открывает публикатор событий по EVENTS_DRIVER.
func (r *Resources) Events(ctx context.Context) (domain.EventPublisher, error) {
	switch driver := strings.ToLower(r.cfg.Events.Driver); driver {
	case "", DriverNone:
		return queue.NewLogPublisher(r.log), nil
	case DriverRedis:
		client, err := r.Redis(ctx)
		if err != nil {
			return nil, err
		}
		return queue.NewRedisEventQueue(client, r.cfg.Events.QueueKey), nil
	case DriverAMQP:
		if r.cfg.Events.AMQPURL == "" {
			return nil, errors.New("не указан адрес брокера (AMQP_URL)")
		}
		publisher, err := queue.NewAMQPPublisher(r.cfg.Events.AMQPURL, r.cfg.Events.Exchange)
		if err != nil {
			return nil, err
		}
		r.closers = append(r.closers, publisher.Close)
		return publisher, nil
	default:
		return nil, fmt.Errorf("%w: EVENTS_DRIVER=%s", ErrUnknownDriver, driver)
	}
}

// Cache возвращает Redis-кеш, если задан REDIS_ADDR, иначе кеш в памяти.
func (r *Resources) Cache(ctx context.Context) (domain.Cache, error) {
	if r.cfg.RedisAddr == "" {
		return cache.NewMemory(nil), nil
	}
	client, err := r.Redis(ctx)
	if err != nil {
		return nil, err
	}
	return cache.NewRedis(client, "surveybar:"), nil
}

// Close закрывает подключения в обратном порядке.
func (r *Resources) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
