package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"surveybar/internal/domain"
	"surveybar/internal/infra/metrics"
)

// Service напоминает владельцу об опросах, которые нужно продлить или закрыть.
type Service struct {
	store         domain.Store
	cache         domain.Cache
	events        domain.EventPublisher
	log           zerolog.Logger
	now           func() time.Time
	loc           *time.Location
	ttl           time.Duration
	maxExtensions int
}

// NewService создаёт сервис напоминаний. Повторное напоминание об одном опросе
// возможно не раньше следующего календарного дня и истечения ttl.
func NewService(store domain.Store, cache domain.Cache, events domain.EventPublisher, logger zerolog.Logger, loc *time.Location, ttl time.Duration, maxExtensions int) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, cache: cache, events: events, log: logger, now: time.Now, loc: loc, ttl: ttl, maxExtensions: maxExtensions}
}

// Scan находит опросы, требующие внимания, и публикует по одному событию
// на опрос в день. Возвращает число опубликованных событий.
func (s *Service) Scan(ctx context.Context) (int, error) {
	user, err := s.store.GetUser(ctx)
	if err != nil {
		return 0, fmt.Errorf("получение пользователя: %w", err)
	}
	surveys, err := s.store.GetSurveys(ctx)
	if err != nil {
		return 0, fmt.Errorf("получение опросов: %w", err)
	}

	now := s.now()
	today := now.In(s.loc).Format("2006-01-02")
	pending := 0
	sent := 0
	var errs []error
	for _, survey := range surveys {
		if !user.Owns(survey.ID) || !survey.NeedsAttention(now) {
			continue
		}
		pending++
		event := s.attentionEvent(user, survey, now)
		key := fmt.Sprintf("attention:%s:%s", survey.ID, today)
		err := s.cache.Once(ctx, key, s.ttl, func() error {
			if err := s.events.Publish(ctx, event); err != nil {
				return err
			}
			sent++
			return nil
		})
		if err != nil {
			metrics.EventsPublishErrors.WithLabelValues(string(domain.EventSurveyAttention)).Inc()
			errs = append(errs, fmt.Errorf("напоминание %s: %w", survey.ID, err))
		}
	}
	metrics.AttentionSurveys.Set(float64(pending))
	s.log.Info().Int("pending", pending).Int("sent", sent).Msg("notify: сканирование завершено")
	return sent, errors.Join(errs...)
}

func (s *Service) attentionEvent(user domain.User, survey domain.Survey, now time.Time) domain.Event {
	reason := "goal_reached"
	if survey.IsExpired(now) {
		reason = "expired"
	}
	return domain.Event{
		ID:       uuid.NewString(),
		Type:     domain.EventSurveyAttention,
		UserID:   user.ID,
		SurveyID: survey.ID,
		Metadata: map[string]any{
			"reason":            reason,
			"title":             survey.Title,
			"closing_date":      survey.ClosingDate,
			"current_responses": survey.CurrentResponses,
			"target_responses":  survey.TargetResponses,
			"can_extend":        survey.ExtensionCount < s.maxExtensions,
		},
		OccurredAt: now.UTC(),
	}
}
