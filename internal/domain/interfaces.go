package domain

import (
	"context"
	"time"
)

// Store — долговременное хранилище двух записей: профиля и коллекции опросов.
type Store interface {
	// Init записывает начальные данные для отсутствующих записей. Идемпотентен.
	Init(ctx context.Context) error
	// GetUser возвращает профиль, наложенный на значения по умолчанию.
	GetUser(ctx context.Context) (User, error)
	GetSurveys(ctx context.Context) ([]Survey, error)
	SaveUser(ctx context.Context, user User) error
	SaveSurveys(ctx context.Context, surveys []Survey) error
	// Save записывает обе записи по принципу «всё или ничего».
	Save(ctx context.Context, user User, surveys []Survey) error
}

// EventPublisher доставляет события жизненного цикла подписчикам.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Cache используется для простых TTL-хранилищ.
type Cache interface {
	Once(ctx context.Context, key string, ttl time.Duration, fn func() error) error
}
