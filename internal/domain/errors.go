package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrorKind классифицирует отказ бизнес-правила.
type ErrorKind string

const (
	KindNotFound             ErrorKind = "not_found"
	KindInsufficientPoints   ErrorKind = "insufficient_points"
	KindMaxExtensionsReached ErrorKind = "max_extensions_reached"
	KindAlreadyCompleted     ErrorKind = "already_completed"
	KindInvalidCode          ErrorKind = "invalid_code"
	KindDailyLimitReached    ErrorKind = "daily_limit_reached"
	KindCooldownActive       ErrorKind = "cooldown_active"
	KindAlreadyPromoted      ErrorKind = "already_promoted"
	KindSurveyUnavailable    ErrorKind = "survey_unavailable"
	KindOwnSurvey            ErrorKind = "own_survey"
	KindInvalidInput         ErrorKind = "invalid_input"
	KindQuoteOutdated        ErrorKind = "quote_outdated"
)

var (
	// ErrNotFound возвращается, когда опрос отсутствует в коллекции.
	ErrNotFound = errors.New("survey not found")
	// ErrInsufficientPoints возвращается, когда стоимость превышает баланс.
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrMaxExtensionsReached возвращается при превышении лимита продлений.
	ErrMaxExtensionsReached = errors.New("max extensions reached")
	// ErrAlreadyCompleted возвращается при повторном прохождении.
	ErrAlreadyCompleted = errors.New("survey already completed")
	// ErrInvalidCode возвращается при неверном проверочном коде.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrDailyLimitReached возвращается при исчерпании дневного лимита.
	ErrDailyLimitReached = errors.New("daily completion limit reached")
	// ErrCooldownActive возвращается, пока не истекла пауза между прохождениями.
	ErrCooldownActive = errors.New("completion cooldown active")
	// ErrAlreadyPromoted возвращается при повторном продвижении.
	ErrAlreadyPromoted = errors.New("survey already promoted")
	// ErrSurveyUnavailable возвращается, когда опрос закрыт или истёк.
	ErrSurveyUnavailable = errors.New("survey is not accepting responses")
	// ErrOwnSurvey возвращается при попытке пройти собственный опрос.
	ErrOwnSurvey = errors.New("cannot complete own survey")
	// ErrInvalidInput возвращается при некорректных входных данных.
	ErrInvalidInput = errors.New("invalid input")
	// ErrQuoteOutdated возвращается, когда стоимость правки изменилась после расчёта.
	ErrQuoteOutdated = errors.New("edit quote is outdated")
)

var kinds = map[error]ErrorKind{
	ErrNotFound:             KindNotFound,
	ErrInsufficientPoints:   KindInsufficientPoints,
	ErrMaxExtensionsReached: KindMaxExtensionsReached,
	ErrAlreadyCompleted:     KindAlreadyCompleted,
	ErrInvalidCode:          KindInvalidCode,
	ErrDailyLimitReached:    KindDailyLimitReached,
	ErrCooldownActive:       KindCooldownActive,
	ErrAlreadyPromoted:      KindAlreadyPromoted,
	ErrSurveyUnavailable:    KindSurveyUnavailable,
	ErrOwnSurvey:            KindOwnSurvey,
	ErrInvalidInput:         KindInvalidInput,
	ErrQuoteOutdated:        KindQuoteOutdated,
}

// RuleError — отказ бизнес-правила с сообщением для пользователя.
type RuleError struct {
	Kind    ErrorKind
	Message string
	// Required заполняется для insufficient_points.
	Required int
	// Remaining заполняется для cooldown_active.
	Remaining time.Duration

	err error
}

func (e *RuleError) Error() string {
	return e.Message
}

func (e *RuleError) Unwrap() error {
	return e.err
}

// RemainingSeconds округляет остаток паузы вверх до секунд.
func (e *RuleError) RemainingSeconds() int {
	return int(math.Ceil(float64(e.Remaining.Milliseconds()) / 1000))
}

func newRuleError(sentinel error, message string) *RuleError {
	return &RuleError{Kind: kinds[sentinel], Message: message, err: sentinel}
}

// NotFound формирует ошибку отсутствующего опроса.
func NotFound() *RuleError {
	return newRuleError(ErrNotFound, "Survey not found.")
}

// InsufficientPoints формирует ошибку нехватки баллов с требуемой суммой.
func InsufficientPoints(required int) *RuleError {
	e := newRuleError(ErrInsufficientPoints, fmt.Sprintf("Insufficient points. You need %d points.", required))
	e.Required = required
	return e
}

// MaxExtensionsReached формирует ошибку лимита продлений.
func MaxExtensionsReached(limit int) *RuleError {
	noun := "times"
	if limit == 1 {
		noun = "time"
	}
	return newRuleError(ErrMaxExtensionsReached, fmt.Sprintf("Max extension limit reached (%d %s).", limit, noun))
}

// AlreadyCompleted формирует ошибку повторного прохождения.
func AlreadyCompleted() *RuleError {
	return newRuleError(ErrAlreadyCompleted, "Already completed.")
}

// InvalidCode формирует ошибку неверного кода.
func InvalidCode() *RuleError {
	return newRuleError(ErrInvalidCode, "Invalid verification code.")
}

// DailyLimitReached формирует ошибку дневного лимита.
func DailyLimitReached() *RuleError {
	return newRuleError(ErrDailyLimitReached, "Daily limit reached.")
}

// CooldownActive формирует ошибку паузы с остатком ожидания.
func CooldownActive(remaining time.Duration) *RuleError {
	e := newRuleError(ErrCooldownActive, "")
	e.Remaining = remaining
	e.Message = fmt.Sprintf("Please wait %ds before next survey.", e.RemainingSeconds())
	return e
}

// AlreadyPromoted формирует ошибку повторного продвижения.
func AlreadyPromoted() *RuleError {
	return newRuleError(ErrAlreadyPromoted, "Already promoted.")
}

// SurveyUnavailable формирует ошибку закрытого или истёкшего опроса.
func SurveyUnavailable() *RuleError {
	return newRuleError(ErrSurveyUnavailable, "This survey is no longer accepting responses.")
}

// OwnSurvey формирует ошибку прохождения собственного опроса.
func OwnSurvey() *RuleError {
	return newRuleError(ErrOwnSurvey, "You cannot complete your own survey.")
}

// InvalidInput формирует ошибку валидации ввода.
func InvalidInput(message string) *RuleError {
	return newRuleError(ErrInvalidInput, message)
}

// QuoteOutdated формирует ошибку устаревшей сметы с актуальной стоимостью.
func QuoteOutdated(total int) *RuleError {
	e := newRuleError(ErrQuoteOutdated, fmt.Sprintf("The cost of this edit has changed to %d points. Please review and try again.", total))
	e.Required = total
	return e
}

// AsRuleError извлекает RuleError из цепочки ошибок.
func AsRuleError(err error) (*RuleError, bool) {
	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		return ruleErr, true
	}
	return nil, false
}
