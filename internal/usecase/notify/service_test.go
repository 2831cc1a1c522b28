package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"surveybar/internal/domain"
)

type stubStore struct {
	user    domain.User
	surveys []domain.Survey
}

func (s *stubStore) Init(context.Context) error                               { return nil }
func (s *stubStore) GetUser(context.Context) (domain.User, error)             { return s.user, nil }
func (s *stubStore) GetSurveys(context.Context) ([]domain.Survey, error)      { return s.surveys, nil }
func (s *stubStore) SaveUser(context.Context, domain.User) error              { return nil }
func (s *stubStore) SaveSurveys(context.Context, []domain.Survey) error       { return nil }
func (s *stubStore) Save(context.Context, domain.User, []domain.Survey) error { return nil }

type mapCache struct {
	keys map[string]bool
}

func (c *mapCache) Once(_ context.Context, key string, _ time.Duration, fn func() error) error {
	if c.keys[key] {
		return nil
	}
	c.keys[key] = true
	if err := fn(); err != nil {
		delete(c.keys, key)
		return err
	}
	return nil
}

type stubEvents struct {
	events []domain.Event
	err    error
}

func (e *stubEvents) Publish(_ context.Context, event domain.Event) error {
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

func newTestService(now time.Time) (*Service, *stubEvents, *mapCache) {
	store := &stubStore{user: domain.DefaultUser(now), surveys: domain.SeedSurveys(now)}
	events := &stubEvents{}
	cache := &mapCache{keys: map[string]bool{}}
	svc := NewService(store, cache, events, zerolog.Nop(), time.UTC, 24*time.Hour, 1)
	svc.now = func() time.Time { return now }
	return svc, events, cache
}

func TestScanPublishesOncePerDay(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, events, _ := newTestService(now)

	sent, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if sent != 3 || len(events.events) != 3 {
		t.Fatalf("ожидали 3 напоминания (s6, s11, s12), получили %d", sent)
	}
	for _, e := range events.events {
		if e.Type != domain.EventSurveyAttention || e.Metadata["reason"] != "expired" {
			t.Fatalf("неожиданное событие: %+v", e)
		}
		if e.SurveyID == "s12" && e.Metadata["can_extend"] != false {
			t.Fatal("s12 уже продлевался")
		}
	}

	sent, err = svc.Scan(context.Background())
	if err != nil || sent != 0 {
		t.Fatalf("повторное сканирование в тот же день ничего не шлёт: %d, %v", sent, err)
	}

	svc.now = func() time.Time { return now.Add(24 * time.Hour) }
	sent, _ = svc.Scan(context.Background())
	if sent != 3 {
		t.Fatalf("на следующий день напоминания повторяются, получили %d", sent)
	}
}

func TestScanRetriesAfterPublishError(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, events, _ := newTestService(now)
	events.err = errors.New("broker down")

	if _, err := svc.Scan(context.Background()); err == nil {
		t.Fatal("ожидали ошибку публикации")
	}
	events.err = nil
	sent, err := svc.Scan(context.Background())
	if err != nil || sent != 3 {
		t.Fatalf("после ошибки напоминания отправляются повторно: %d, %v", sent, err)
	}
}
