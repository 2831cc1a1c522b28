package economy

import (
	"time"

	"surveybar/internal/domain"
)

// extensionThreshold — насколько нужно сдвинуть дату закрытия, чтобы правка считалась продлением.
const extensionThreshold = 24 * time.Hour

// Rules содержит настраиваемые константы экономики баллов.
type Rules struct {
	ListingFee       int
	PromotionCost    int
	ExtensionCost    int
	MaxExtensions    int
	DailySurveyLimit int
	SurveyCooldown   time.Duration
}

// DefaultRules возвращает значения по умолчанию.
func DefaultRules() Rules {
	return Rules{
		ListingFee:       10,
		PromotionCost:    20,
		ExtensionCost:    5,
		MaxExtensions:    1,
		DailySurveyLimit: 15,
		SurveyCooldown:   60 * time.Second,
	}
}

// PostingCost считает полную стоимость размещения: сбор, призовой фонд и платное продвижение.
// Бесплатное продвижение тратится только если оно запрошено в этом же размещении.
func (r Rules) PostingCost(targetResponses, pointsReward int, wantsPromotion, hasUsedFreeBoost bool) int {
	total := r.ListingFee + RewardPool(targetResponses, pointsReward)
	if wantsPromotion {
		total += r.PromotionCostFor(hasUsedFreeBoost)
	}
	return total
}

// ExtensionCostFor возвращает плату за продление или 0 для обычной правки.
func (r Rules) ExtensionCostFor(extending bool) int {
	if extending {
		return r.ExtensionCost
	}
	return 0
}

// PromotionCostFor возвращает 0, пока пользователь не потратил бесплатное продвижение.
func (r Rules) PromotionCostFor(hasUsedFreeBoost bool) int {
	if hasUsedFreeBoost {
		return r.PromotionCost
	}
	return 0
}

// RewardPool считает призовой фонд для заданной цели.
func RewardPool(targetResponses, pointsReward int) int {
	if targetResponses <= 0 {
		return 0
	}
	return targetResponses * pointsReward
}

// RewardPoolTopUp считает доплату в фонд при повышении цели. Понижение цели не возвращает баллы.
func RewardPoolTopUp(oldTarget, newTarget, rewardPerPerson int) int {
	if newTarget <= oldTarget {
		return 0
	}
	return (newTarget - oldTarget) * rewardPerPerson
}

// IsExtending сообщает, что новая дата закрытия позже старой более чем на сутки.
func IsExtending(oldClosing, newClosing time.Time) bool {
	return newClosing.After(oldClosing.Add(extensionThreshold))
}

// Affordable сообщает, хватает ли баланса на операцию.
func Affordable(points, cost int) bool {
	return points >= cost
}

// EditChanges — часть правки, влияющая на стоимость.
type EditChanges struct {
	TargetResponses int
	ClosingDate     time.Time
	Promote         bool
}

// Quote — разбивка стоимости правки.
type Quote struct {
	Extending   bool `json:"extending"`
	Extension   int  `json:"extension"`
	RewardTopUp int  `json:"rewardTopUp"`
	Promotion   int  `json:"promotion"`
	Total       int  `json:"total"`
}

// QuoteEdit считает стоимость правки существующего опроса. Тот же расчёт
// показывается пользователю перед подтверждением и передаётся в Update.
func (r Rules) QuoteEdit(existing domain.Survey, changes EditChanges, hasUsedFreeBoost bool) Quote {
	reward := existing.PointsReward
	if reward < 1 {
		reward = 1
	}
	q := Quote{Extending: IsExtending(existing.ClosingDate, changes.ClosingDate)}
	q.Extension = r.ExtensionCostFor(q.Extending)
	q.RewardTopUp = RewardPoolTopUp(existing.TargetResponses, changes.TargetResponses, reward)
	if changes.Promote && !existing.IsPromoted {
		q.Promotion = r.PromotionCostFor(hasUsedFreeBoost)
	}
	q.Total = q.Extension + q.RewardTopUp + q.Promotion
	return q
}
