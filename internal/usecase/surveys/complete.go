package surveys

import (
	"context"
	"fmt"

	"surveybar/internal/domain"
	"surveybar/internal/infra/metrics"
)

// Complete засчитывает прохождение опроса и начисляет награду.
// Код сравнивается без учёта регистра и пробелов по краям.
func (s *Service) Complete(ctx context.Context, surveyID, providedCode string) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, surveys, err := s.load(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	idx := indexOf(surveys, surveyID)
	if idx < 0 {
		return s.reject("complete", domain.NotFound())
	}
	if user.HasCompleted(surveyID) {
		return s.reject("complete", domain.AlreadyCompleted())
	}
	survey := surveys[idx]
	now := s.now()
	if survey.IsClosed || survey.IsExpired(now) {
		return s.reject("complete", domain.SurveyUnavailable())
	}
	if user.Owns(surveyID) {
		return s.reject("complete", domain.OwnSurvey())
	}
	if survey.RequiresCode() && domain.NormalizeCode(providedCode) != domain.NormalizeCode(survey.VerificationCode) {
		return s.reject("complete", domain.InvalidCode())
	}
	if err := s.guard.Check(&user, now, s.today()); err != nil {
		ruleErr, _ := domain.AsRuleError(err)
		return s.reject("complete", ruleErr)
	}

	user.Points += survey.PointsReward
	user.CompletedSurveyIDs = append(user.CompletedSurveyIDs, surveyID)
	s.guard.Record(&user, now)
	survey.CurrentResponses++
	surveys[idx] = survey

	if err := s.store.Save(ctx, user, surveys); err != nil {
		return domain.Result{}, fmt.Errorf("сохранение прохождения: %w", err)
	}

	metrics.ObserveOperation("complete", "")
	metrics.AddPointsEarned("completion", survey.PointsReward)
	s.log.Info().Str("survey", surveyID).Int("reward", survey.PointsReward).Int("daily_count", user.DailyCompletions.Count).Msg("surveys: опрос пройден")
	s.publish(ctx, domain.Event{
		Type:        domain.EventSurveyCompleted,
		UserID:      user.ID,
		SurveyID:    surveyID,
		PointsDelta: survey.PointsReward,
		Metadata:    map[string]any{"current_responses": survey.CurrentResponses, "goal_reached": survey.GoalReached()},
	})
	return domain.Succeeded(fmt.Sprintf("Survey verified! Earned %d points.", survey.PointsReward)), nil
}

// Allowance описывает текущие лимиты прохождений пользователя.
type Allowance struct {
	RemainingToday   int `json:"remainingToday"`
	CooldownSeconds  int `json:"cooldownSeconds"`
	DailySurveyLimit int `json:"dailySurveyLimit"`
}

// Allowance возвращает оставшиеся прохождения и остаток паузы.
func (s *Service) Allowance(ctx context.Context) (Allowance, error) {
	user, err := s.User(ctx)
	if err != nil {
		return Allowance{}, err
	}
	left := s.guard.CooldownLeft(user, s.now())
	seconds := 0
	if left > 0 {
		seconds = domain.CooldownActive(left).RemainingSeconds()
	}
	return Allowance{
		RemainingToday:   s.guard.Remaining(user, s.today()),
		CooldownSeconds:  seconds,
		DailySurveyLimit: s.rules.DailySurveyLimit,
	}, nil
}
