package queue

import (
	"context"

	"github.com/rs/zerolog"

	"surveybar/internal/domain"
)

// LogPublisher только пишет события в лог. Используется, когда брокер не настроен.
type LogPublisher struct {
	log zerolog.Logger
}

var _ domain.EventPublisher = LogPublisher{}

// NewLogPublisher создаёт публикатор в лог.
func NewLogPublisher(logger zerolog.Logger) LogPublisher {
	return LogPublisher{log: logger}
}

// Publish реализует domain.EventPublisher.
func (p LogPublisher) Publish(_ context.Context, event domain.Event) error {
	p.log.Debug().
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Str("survey", event.SurveyID).
		Int("points_delta", event.PointsDelta).
		Msg("событие")
	return nil
}
