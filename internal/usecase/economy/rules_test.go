package economy

import (
	"testing"
	"time"

	"surveybar/internal/domain"
)

func TestPostingCost(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		name      string
		target    int
		reward    int
		promote   bool
		usedBoost bool
		want      int
	}{
		{name: "plain post", target: 50, reward: 1, want: 60},
		{name: "higher reward", target: 50, reward: 2, want: 110},
		{name: "free boost", target: 50, reward: 1, promote: true, want: 60},
		{name: "paid boost", target: 50, reward: 1, promote: true, usedBoost: true, want: 80},
		{name: "boost flag ignored without promotion", target: 10, reward: 3, usedBoost: true, want: 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.PostingCost(tt.target, tt.reward, tt.promote, tt.usedBoost); got != tt.want {
				t.Fatalf("PostingCost(%d, %d, %v, %v) = %d, want %d", tt.target, tt.reward, tt.promote, tt.usedBoost, got, tt.want)
			}
		})
	}
}

func TestRewardPoolTopUp(t *testing.T) {
	if got := RewardPoolTopUp(50, 80, 2); got != 60 {
		t.Fatalf("ожидали доплату 60, получили %d", got)
	}
	if got := RewardPoolTopUp(80, 50, 2); got != 0 {
		t.Fatalf("понижение цели не должно ничего стоить, получили %d", got)
	}
	if got := RewardPoolTopUp(50, 50, 3); got != 0 {
		t.Fatalf("ожидали 0 без изменения цели, получили %d", got)
	}
}

func TestIsExtending(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if IsExtending(base, base.Add(24*time.Hour)) {
		t.Fatal("ровно сутки не считаются продлением")
	}
	if !IsExtending(base, base.Add(24*time.Hour+time.Millisecond)) {
		t.Fatal("больше суток должно считаться продлением")
	}
	if IsExtending(base, base.Add(-48*time.Hour)) {
		t.Fatal("перенос назад не продление")
	}
}

func TestPromotionAndExtensionCost(t *testing.T) {
	rules := DefaultRules()
	if rules.PromotionCostFor(false) != 0 {
		t.Fatal("первое продвижение должно быть бесплатным")
	}
	if rules.PromotionCostFor(true) != rules.PromotionCost {
		t.Fatal("после бесплатного продвижения взимается полная цена")
	}
	if rules.ExtensionCostFor(false) != 0 || rules.ExtensionCostFor(true) != rules.ExtensionCost {
		t.Fatal("неверная плата за продление")
	}
}

func TestQuoteEdit(t *testing.T) {
	rules := DefaultRules()
	closing := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	existing := domain.Survey{TargetResponses: 50, PointsReward: 2, ClosingDate: closing}

	q := rules.QuoteEdit(existing, EditChanges{TargetResponses: 80, ClosingDate: closing.Add(72 * time.Hour), Promote: true}, true)
	if !q.Extending || q.Extension != 5 || q.RewardTopUp != 60 || q.Promotion != 20 || q.Total != 85 {
		t.Fatalf("неожиданная смета: %+v", q)
	}

	q = rules.QuoteEdit(existing, EditChanges{TargetResponses: 40, ClosingDate: closing}, true)
	if q.Total != 0 {
		t.Fatalf("правка без продления и повышения цели бесплатна, получили %+v", q)
	}

	existing.IsPromoted = true
	q = rules.QuoteEdit(existing, EditChanges{TargetResponses: 50, ClosingDate: closing, Promote: true}, true)
	if q.Promotion != 0 {
		t.Fatalf("уже продвинутый опрос не оплачивается повторно: %+v", q)
	}
}
