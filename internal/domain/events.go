package domain

import "time"

// EventType описывает событие жизненного цикла опроса.
type EventType string

const (
	// EventSurveyPosted фиксирует размещение опроса.
	EventSurveyPosted EventType = "survey_posted"
	// EventSurveyUpdated фиксирует редактирование или продление.
	EventSurveyUpdated EventType = "survey_updated"
	// EventSurveyClosed фиксирует ручное закрытие.
	EventSurveyClosed EventType = "survey_closed"
	// EventSurveyDeleted фиксирует удаление.
	EventSurveyDeleted EventType = "survey_deleted"
	// EventSurveyPromoted фиксирует продвижение.
	EventSurveyPromoted EventType = "survey_promoted"
	// EventSurveyCompleted фиксирует прохождение опроса респондентом.
	EventSurveyCompleted EventType = "survey_completed"
	// EventPointsPurchased фиксирует покупку баллов.
	EventPointsPurchased EventType = "points_purchased"
	// EventSurveyAttention фиксирует, что опросу требуется внимание владельца.
	EventSurveyAttention EventType = "survey_attention"
)

// Event описывает событие, публикуемое после успешной записи.
type Event struct {
	ID          string         `json:"event_id"`
	Type        EventType      `json:"type"`
	UserID      string         `json:"user_id"`
	SurveyID    string         `json:"survey_id,omitempty"`
	PointsDelta int            `json:"points_delta,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}
