package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TZ", "UTC")
	cfg := Load()
	rules := cfg.Rules()
	if rules.ListingFee != 10 || rules.PromotionCost != 20 || rules.ExtensionCost != 5 {
		t.Fatalf("неожиданные цены: %+v", rules)
	}
	if rules.MaxExtensions != 1 || rules.DailySurveyLimit != 15 || rules.SurveyCooldown != time.Minute {
		t.Fatalf("неожиданные лимиты: %+v", rules)
	}
	if cfg.Store.Driver != "memory" || cfg.Store.UserKey != "surveybar_user_v6" {
		t.Fatalf("неожиданные настройки хранилища: %+v", cfg.Store)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DAILY_SURVEY_LIMIT", "2")
	t.Setenv("SURVEY_COOLDOWN_MS", "1500")
	t.Setenv("STORE_DRIVER", "redis")
	cfg := Load()
	rules := cfg.Rules()
	if rules.DailySurveyLimit != 2 || rules.SurveyCooldown != 1500*time.Millisecond {
		t.Fatalf("переопределения не применились: %+v", rules)
	}
	if cfg.Store.Driver != "redis" {
		t.Fatalf("ожидали redis, получили %q", cfg.Store.Driver)
	}
}

func TestNormalizeTimezone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "Europe/Amsterdam", want: "Europe/Amsterdam"},
		{in: "america/new york", want: "America/New_York"},
		{in: "utc", want: "UTC"},
		{in: "", wantErr: true},
		{in: "Mars/Olympus", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizeTimezone(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("NormalizeTimezone(%q) ожидали ошибку", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("NormalizeTimezone(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
