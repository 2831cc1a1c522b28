package config

import (
	"errors"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"surveybar/internal/usecase/economy"
)

// ErrInvalidTimezone возвращается, если указан некорректный часовой пояс.
var ErrInvalidTimezone = errors.New("invalid timezone")

// AppConfig описывает конфигурацию сервисов.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	TZ     string `envconfig:"TZ" default:"UTC"`
	Port   int    `envconfig:"PORT" default:"8080"`

	Store struct {
		Driver     string `envconfig:"STORE_DRIVER" default:"memory"`
		UserKey    string `envconfig:"STORE_USER_KEY" default:"surveybar_user_v6"`
		SurveysKey string `envconfig:"STORE_SURVEYS_KEY" default:"surveybar_surveys_v6"`
	} `envconfig:""`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	Events struct {
		Driver   string `envconfig:"EVENTS_DRIVER" default:"none"`
		QueueKey string `envconfig:"EVENTS_QUEUE_KEY" default:"surveybar_events"`
		AMQPURL  string `envconfig:"AMQP_URL"`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"surveybar.events"`
	} `envconfig:""`

	Economy struct {
		ListingFee       int `envconfig:"LISTING_FEE" default:"10"`
		PromotionCost    int `envconfig:"PROMOTION_COST" default:"20"`
		ExtensionCost    int `envconfig:"EXTENSION_COST" default:"5"`
		MaxExtensions    int `envconfig:"MAX_EXTENSIONS" default:"1"`
		DailySurveyLimit int `envconfig:"DAILY_SURVEY_LIMIT" default:"15"`
		SurveyCooldownMS int `envconfig:"SURVEY_COOLDOWN_MS" default:"60000"`
	} `envconfig:""`

	RateLimit struct {
		RPS   float64 `envconfig:"API_RATE_RPS" default:"5"`
		Burst int     `envconfig:"API_RATE_BURST" default:"10"`
	} `envconfig:""`

	Scheduler struct {
		Interval     time.Duration `envconfig:"SCHEDULER_INTERVAL" default:"1m"`
		AttentionTTL time.Duration `envconfig:"ATTENTION_DEDUP_TTL" default:"24h"`
	} `envconfig:""`

	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`
}

// Load загружает конфиг из окружения. Файл .env, если он есть, дополняет
// окружение и не перекрывает уже заданные переменные.
func Load() AppConfig {
	_ = godotenv.Load()
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}

// Rules переводит настройки экономики в правила движка.
func (c AppConfig) Rules() economy.Rules {
	return economy.Rules{
		ListingFee:       c.Economy.ListingFee,
		PromotionCost:    c.Economy.PromotionCost,
		ExtensionCost:    c.Economy.ExtensionCost,
		MaxExtensions:    c.Economy.MaxExtensions,
		DailySurveyLimit: c.Economy.DailySurveyLimit,
		SurveyCooldown:   time.Duration(c.Economy.SurveyCooldownMS) * time.Millisecond,
	}
}

// Location возвращает часовой пояс, по которому считаются календарные дни.
func (c AppConfig) Location() (*time.Location, error) {
	name, err := NormalizeTimezone(c.TZ)
	if err != nil {
		return nil, err
	}
	return time.LoadLocation(name)
}

// NormalizeTimezone приводит имя часового пояса к виду, понятному time.LoadLocation.
// Допускает пробелы вместо подчёркиваний и произвольный регистр.
func NormalizeTimezone(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", ErrInvalidTimezone
	}
	candidate = strings.ReplaceAll(candidate, " ", "_")
	if _, err := time.LoadLocation(candidate); err == nil {
		return candidate, nil
	}
	if strings.EqualFold(candidate, "utc") {
		return "UTC", nil
	}

	parts := strings.Split(strings.ToLower(candidate), "/")
	for i, part := range parts {
		segments := strings.Split(part, "_")
		for j, segment := range segments {
			pieces := strings.Split(segment, "-")
			for k, piece := range pieces {
				if piece == "" {
					continue
				}
				pieces[k] = strings.ToUpper(piece[:1]) + piece[1:]
			}
			segments[j] = strings.Join(pieces, "-")
		}
		parts[i] = strings.Join(segments, "_")
	}
	normalized := strings.Join(parts, "/")
	if _, err := time.LoadLocation(normalized); err == nil {
		return normalized, nil
	}
	return "", ErrInvalidTimezone
}
