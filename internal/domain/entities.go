package domain

import (
	"strings"
	"time"
)

// DateLayout задаёт формат календарной даты для дневного счётчика прохождений.
const DateLayout = "Mon Jan 02 2006"

// SurveyTheme описывает категорию опроса.
type SurveyTheme string

const (
	ThemeEducation        SurveyTheme = "Education"
	ThemeProductLaunch    SurveyTheme = "Product Launch"
	ThemeAcademicResearch SurveyTheme = "Academic Research"
	ThemeMarketResearch   SurveyTheme = "Market Research"
	ThemeUserExperience   SurveyTheme = "User Experience"
	ThemeFunSocial        SurveyTheme = "Fun & Social"
	ThemeOther            SurveyTheme = "Other"
)

var themes = []SurveyTheme{
	ThemeEducation,
	ThemeProductLaunch,
	ThemeAcademicResearch,
	ThemeMarketResearch,
	ThemeUserExperience,
	ThemeFunSocial,
	ThemeOther,
}

// Themes возвращает все допустимые категории в порядке отображения.
func Themes() []SurveyTheme {
	return append([]SurveyTheme(nil), themes...)
}

// ParseTheme приводит ввод к одной из категорий без учёта регистра.
func ParseTheme(raw string) (SurveyTheme, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, theme := range themes {
		if strings.EqualFold(string(theme), trimmed) {
			return theme, true
		}
	}
	return "", false
}

// Valid сообщает, входит ли категория в перечисление.
func (t SurveyTheme) Valid() bool {
	for _, theme := range themes {
		if theme == t {
			return true
		}
	}
	return false
}

// DailyCompletions хранит счётчик прохождений за календарный день.
type DailyCompletions struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// User описывает единственный профиль пользователя.
type User struct {
	ID                      string           `json:"id"`
	Name                    string           `json:"name"`
	Points                  int              `json:"points"`
	CompletedSurveyIDs      []string         `json:"completedSurveyIds"`
	SurveysPostedIDs        []string         `json:"surveysPostedIds"`
	DailyCompletions        DailyCompletions `json:"dailyCompletions"`
	LastCompletionTimestamp int64            `json:"lastCompletionTimestamp"`
	HasUsedFreeBoost        bool             `json:"hasUsedFreeBoost"`
}

// HasCompleted сообщает, проходил ли пользователь опрос.
func (u User) HasCompleted(surveyID string) bool {
	return containsID(u.CompletedSurveyIDs, surveyID)
}

// Owns сообщает, размещал ли пользователь опрос.
func (u User) Owns(surveyID string) bool {
	return containsID(u.SurveysPostedIDs, surveyID)
}

// Clone возвращает копию без общих срезов.
func (u User) Clone() User {
	u.CompletedSurveyIDs = append([]string(nil), u.CompletedSurveyIDs...)
	u.SurveysPostedIDs = append([]string(nil), u.SurveysPostedIDs...)
	return u
}

// Survey представляет размещённый опрос.
type Survey struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Link             string      `json:"link"`
	CreatorName      string      `json:"creatorName"`
	Theme            SurveyTheme `json:"theme"`
	TargetResponses  int         `json:"targetResponses"`
	CurrentResponses int         `json:"currentResponses"`
	PointsReward     int         `json:"pointsReward"`
	ClosingDate      time.Time   `json:"closingDate"`
	CreatedAt        time.Time   `json:"createdAt"`
	EstimatedTime    int         `json:"estimatedTime,omitempty"`
	IsPromoted       bool        `json:"isPromoted,omitempty"`
	TargetCriteria   string      `json:"targetCriteria,omitempty"`
	TargetLocation   string      `json:"targetLocation,omitempty"`
	TargetAge        string      `json:"targetAge,omitempty"`
	TargetLanguage   string      `json:"targetLanguage,omitempty"`
	IsClosed         bool        `json:"isClosed,omitempty"`
	ExtensionCount   int         `json:"extensionCount"`
	VerificationCode string      `json:"verificationCode,omitempty"`
}

// SurveyStatus — производное состояние опроса для владельца.
type SurveyStatus string

const (
	StatusActive    SurveyStatus = "active"
	StatusAttention SurveyStatus = "attention"
	StatusClosed    SurveyStatus = "closed"
)

// IsExpired сообщает, что срок приёма ответов истёк.
func (s Survey) IsExpired(now time.Time) bool {
	return now.After(s.ClosingDate)
}

// GoalReached сообщает, что собрано целевое количество ответов.
func (s Survey) GoalReached() bool {
	return s.CurrentResponses >= s.TargetResponses
}

// NeedsAttention сообщает, что владельцу нужно продлить или закрыть опрос.
func (s Survey) NeedsAttention(now time.Time) bool {
	return !s.IsClosed && (s.IsExpired(now) || s.GoalReached())
}

// Status вычисляет состояние опроса на момент now.
func (s Survey) Status(now time.Time) SurveyStatus {
	switch {
	case s.IsClosed:
		return StatusClosed
	case s.NeedsAttention(now):
		return StatusAttention
	default:
		return StatusActive
	}
}

// RequiresCode сообщает, что для прохождения нужен проверочный код.
func (s Survey) RequiresCode() bool {
	return strings.TrimSpace(s.VerificationCode) != ""
}

// NormalizeCode приводит проверочный код к каноничному виду.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
