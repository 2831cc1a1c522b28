package surveys

import (
	"time"

	"surveybar/internal/domain"
	"surveybar/internal/usecase/economy"
)

// Guard ограничивает частоту прохождений: дневной лимит и паузу между ними.
// Состояние хранится в профиле пользователя, поэтому ограничения носят
// рекомендательный характер.
type Guard struct {
	dailyLimit int
	cooldown   time.Duration
}

// NewGuard создаёт ограничитель по правилам экономики.
func NewGuard(rules economy.Rules) Guard {
	return Guard{dailyLimit: rules.DailySurveyLimit, cooldown: rules.SurveyCooldown}
}

// Check сбрасывает дневной счётчик при смене даты и проверяет лимиты.
// Дневной лимит проверяется раньше паузы.
func (g Guard) Check(user *domain.User, now time.Time, today string) error {
	if user.DailyCompletions.Date != today {
		user.DailyCompletions = domain.DailyCompletions{Date: today, Count: 0}
	}
	if user.DailyCompletions.Count >= g.dailyLimit {
		return domain.DailyLimitReached()
	}
	elapsed := time.Duration(now.UnixMilli()-user.LastCompletionTimestamp) * time.Millisecond
	if elapsed < g.cooldown {
		return domain.CooldownActive(g.cooldown - elapsed)
	}
	return nil
}

// Record фиксирует успешное прохождение.
func (g Guard) Record(user *domain.User, now time.Time) {
	user.DailyCompletions.Count++
	user.LastCompletionTimestamp = now.UnixMilli()
}

// Remaining возвращает, сколько прохождений осталось на сегодня.
func (g Guard) Remaining(user domain.User, today string) int {
	used := user.DailyCompletions.Count
	if user.DailyCompletions.Date != today {
		used = 0
	}
	if left := g.dailyLimit - used; left > 0 {
		return left
	}
	return 0
}

// CooldownLeft возвращает остаток паузы на момент now.
func (g Guard) CooldownLeft(user domain.User, now time.Time) time.Duration {
	elapsed := time.Duration(now.UnixMilli()-user.LastCompletionTimestamp) * time.Millisecond
	if elapsed >= g.cooldown {
		return 0
	}
	return g.cooldown - elapsed
}
