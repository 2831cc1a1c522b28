package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"surveybar/internal/domain"
	"surveybar/internal/infra/config"
	"surveybar/internal/infra/wiring"
)

type scriptedQueue struct {
	events []domain.Event
	errs   []error
	cancel context.CancelFunc
	calls  int
}

func (q *scriptedQueue) Pop(ctx context.Context) (domain.Event, error) {
	q.calls++
	if len(q.errs) > 0 {
		err := q.errs[0]
		q.errs = q.errs[1:]
		return domain.Event{}, err
	}
	if len(q.events) == 0 {
		q.cancel()
		return domain.Event{}, ctx.Err()
	}
	event := q.events[0]
	q.events = q.events[1:]
	return event, nil
}

func TestEventWorkerDrainsQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q := &scriptedQueue{
		events: []domain.Event{
			{ID: "e1", Type: domain.EventSurveyPosted, UserID: "u", SurveyID: "s1", PointsDelta: -20, OccurredAt: time.Now()},
			{ID: "e2", Type: domain.EventSurveyAttention, UserID: "u", Metadata: map[string]any{"reason": "expired"}},
		},
		cancel: cancel,
	}
	w := &eventWorker{log: zerolog.Nop(), queue: q}

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("воркер не остановился после отмены контекста")
	}
	if q.calls != 3 {
		t.Fatalf("ожидали 3 чтения, получили %d", q.calls)
	}
}

func TestEventWorkerStopsDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := &scriptedQueue{errs: []error{errors.New("connection refused")}, cancel: cancel}
	w := &eventWorker{log: zerolog.Nop(), queue: q}

	cancel()
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("воркер не остановился во время паузы")
	}
}

func TestRunRequiresRedisEvents(t *testing.T) {
	var cfg config.AppConfig
	cfg.Events.Driver = wiring.DriverNone
	if err := run(cfg, zerolog.Nop()); err == nil {
		t.Fatal("ожидали ошибку для EVENTS_DRIVER=none")
	}
}
