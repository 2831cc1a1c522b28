package surveys

import (
	"context"
	"sort"
	"strings"
	"time"

	"surveybar/internal/domain"
)

const (
	// FilterAll в фильтре категории снимает фильтр, а в возрасте опроса
	// означает любой возраст.
	FilterAll = "All"
	// FilterGlobal в регионе опроса означает любой регион.
	FilterGlobal = "Global"
)

// Filter задаёт параметры ленты доступных опросов.
type Filter struct {
	Search   string
	Theme    string
	Location string
	Language string
	Age      string
}

// Browse возвращает опросы, которые можно пройти прямо сейчас.
func Browse(surveys []domain.Survey, filter Filter, now time.Time) []domain.Survey {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.Survey, 0, len(surveys))
	for _, survey := range surveys {
		if survey.IsClosed || survey.IsExpired(now) || survey.GoalReached() {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(survey.Title), search) &&
			!strings.Contains(strings.ToLower(survey.Description), search) {
			continue
		}
		if !matchExact(string(survey.Theme), filter.Theme) {
			continue
		}
		if !matchTag(survey.TargetLocation, filter.Location, FilterGlobal) {
			continue
		}
		if !matchTag(survey.TargetLanguage, filter.Language, "") {
			continue
		}
		if !matchTag(survey.TargetAge, filter.Age, FilterAll) {
			continue
		}
		out = append(out, survey)
	}
	SortForDisplay(out)
	return out
}

// Mine возвращает опросы владельца с указанным состоянием.
func Mine(user domain.User, surveys []domain.Survey, status domain.SurveyStatus, now time.Time) []domain.Survey {
	out := make([]domain.Survey, 0)
	for _, survey := range surveys {
		if !user.Owns(survey.ID) || survey.Status(now) != status {
			continue
		}
		out = append(out, survey)
	}
	SortForDisplay(out)
	return out
}

// AttentionCount считает опросы владельца, которые нужно продлить или закрыть.
func AttentionCount(user domain.User, surveys []domain.Survey, now time.Time) int {
	count := 0
	for _, survey := range surveys {
		if user.Owns(survey.ID) && survey.NeedsAttention(now) {
			count++
		}
	}
	return count
}

// SortForDisplay ставит продвинутые опросы первыми, затем более новые.
func SortForDisplay(surveys []domain.Survey) {
	sort.SliceStable(surveys, func(i, j int) bool {
		if surveys[i].IsPromoted != surveys[j].IsPromoted {
			return surveys[i].IsPromoted
		}
		return surveys[i].CreatedAt.After(surveys[j].CreatedAt)
	})
}

// Browse возвращает ленту доступных опросов из хранилища.
func (s *Service) Browse(ctx context.Context, filter Filter) ([]domain.Survey, error) {
	surveys, err := s.Surveys(ctx)
	if err != nil {
		return nil, err
	}
	return Browse(surveys, filter, s.now()), nil
}

// Mine возвращает опросы пользователя в выбранной вкладке.
func (s *Service) Mine(ctx context.Context, status domain.SurveyStatus) ([]domain.Survey, error) {
	user, surveys, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return Mine(user, surveys, status, s.now()), nil
}

// AttentionCount возвращает число опросов пользователя, ждущих решения.
func (s *Service) AttentionCount(ctx context.Context) (int, error) {
	user, surveys, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return AttentionCount(user, surveys, s.now()), nil
}

// Attention возвращает опросы пользователя, ждущие решения.
func (s *Service) Attention(ctx context.Context) ([]domain.Survey, error) {
	return s.Mine(ctx, domain.StatusAttention)
}

func matchExact(value, want string) bool {
	want = strings.TrimSpace(want)
	return want == "" || want == FilterAll || value == want
}

// matchTag проверяет вхождение без учёта регистра. Опрос с тегом wildcard
// подходит под любой фильтр.
func matchTag(value, want, wildcard string) bool {
	want = strings.TrimSpace(want)
	if want == "" || (wildcard != "" && value == wildcard) {
		return true
	}
	return value != "" && strings.Contains(strings.ToLower(value), strings.ToLower(want))
}
