package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"surveybar/internal/domain"
	"surveybar/internal/infra/metrics"
)

// Redis хранит записи как строковые ключи Redis.
type Redis struct {
	client redis.UniversalClient
	keys   Keys
	now    func() time.Time
}

var _ domain.Store = (*Redis)(nil)

// NewRedis создаёт хранилище поверх клиента Redis.
func NewRedis(client redis.UniversalClient, keys Keys) *Redis {
	return &Redis{client: client, keys: keys.orDefault(), now: time.Now}
}

// Init реализует domain.Store через SETNX, поэтому существующие записи не трогаются.
func (r *Redis) Init(ctx context.Context) error {
	user, surveys, err := seed(r.now())
	if err != nil {
		return err
	}
	start := time.Now()
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, r.keys.User, user, 0)
		pipe.SetNX(ctx, r.keys.Surveys, surveys, 0)
		return nil
	})
	metrics.ObserveNetworkRequest("redis", "init", "records", start, err)
	if err != nil {
		return fmt.Errorf("начальные записи: %w", err)
	}
	return nil
}

func (r *Redis) load(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ObserveNetworkRequest("redis", "get", "records", start, nil)
		return nil, false, nil
	}
	metrics.ObserveNetworkRequest("redis", "get", "records", start, err)
	if err != nil {
		return nil, false, fmt.Errorf("чтение записи %s: %w", key, err)
	}
	return data, true, nil
}

// GetUser реализует domain.Store.
func (r *Redis) GetUser(ctx context.Context) (domain.User, error) {
	data, _, err := r.load(ctx, r.keys.User)
	if err != nil {
		return domain.User{}, err
	}
	return DecodeUser(data, domain.DefaultUser(r.now()))
}

// GetSurveys реализует domain.Store.
func (r *Redis) GetSurveys(ctx context.Context) ([]domain.Survey, error) {
	data, ok, err := r.load(ctx, r.keys.Surveys)
	if err != nil {
		return nil, err
	}
	if !ok {
		return domain.SeedSurveys(r.now()), nil
	}
	return DecodeSurveys(data)
}

// SaveUser реализует domain.Store.
func (r *Redis) SaveUser(ctx context.Context, user domain.User) error {
	data, err := EncodeUser(user)
	if err != nil {
		return err
	}
	start := time.Now()
	err = r.client.Set(ctx, r.keys.User, data, 0).Err()
	metrics.ObserveNetworkRequest("redis", "set", "records", start, err)
	if err != nil {
		return fmt.Errorf("запись профиля: %w", err)
	}
	return nil
}

// SaveSurveys реализует domain.Store.
func (r *Redis) SaveSurveys(ctx context.Context, surveys []domain.Survey) error {
	data, err := EncodeSurveys(surveys)
	if err != nil {
		return err
	}
	start := time.Now()
	err = r.client.Set(ctx, r.keys.Surveys, data, 0).Err()
	metrics.ObserveNetworkRequest("redis", "set", "records", start, err)
	if err != nil {
		return fmt.Errorf("запись опросов: %w", err)
	}
	return nil
}

// Save реализует domain.Store: обе записи уходят одним MULTI/EXEC.
func (r *Redis) Save(ctx context.Context, user domain.User, surveys []domain.Survey) error {
	userData, err := EncodeUser(user)
	if err != nil {
		return err
	}
	surveysData, err := EncodeSurveys(surveys)
	if err != nil {
		return err
	}
	start := time.Now()
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.keys.User, userData, 0)
		pipe.Set(ctx, r.keys.Surveys, surveysData, 0)
		return nil
	})
	metrics.ObserveNetworkRequest("redis", "save", "records", start, err)
	if err != nil {
		return fmt.Errorf("запись профиля и опросов: %w", err)
	}
	return nil
}
