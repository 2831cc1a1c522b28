package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"surveybar/internal/domain"
	"surveybar/internal/usecase/surveys"
)

type surveyRequest struct {
	Title            string    `json:"title" validate:"required,max=200"`
	Description      string    `json:"description" validate:"max=4000"`
	Link             string    `json:"link" validate:"required,max=2048"`
	Theme            string    `json:"theme"`
	TargetCriteria   string    `json:"targetCriteria" validate:"max=200"`
	TargetLocation   string    `json:"targetLocation" validate:"max=200"`
	TargetAge        string    `json:"targetAge" validate:"max=100"`
	TargetLanguage   string    `json:"targetLanguage" validate:"max=200"`
	TargetResponses  int       `json:"targetResponses" validate:"min=1,max=100000"`
	ClosingDate      time.Time `json:"closingDate"`
	VerificationCode string    `json:"verificationCode" validate:"max=32"`
	EstimatedTime    int       `json:"estimatedTime" validate:"min=0,max=600"`
}

type createSurveyRequest struct {
	surveyRequest
	PointsReward int  `json:"pointsReward" validate:"min=0,max=100"`
	IsPromoted   bool `json:"isPromoted"`
}

type updateSurveyRequest struct {
	surveyRequest
	Promote bool `json:"promote"`
}

type completeRequest struct {
	Code string `json:"code"`
}

type purchaseRequest struct {
	Points int `json:"points"`
}

func (r surveyRequest) theme() (domain.SurveyTheme, error) {
	if strings.TrimSpace(r.Theme) == "" {
		return domain.ThemeOther, nil
	}
	theme, ok := domain.ParseTheme(r.Theme)
	if !ok {
		return "", domain.InvalidInput(fmt.Sprintf("Unknown theme %q.", r.Theme))
	}
	return theme, nil
}

func (r createSurveyRequest) draft() (domain.Survey, error) {
	theme, err := r.theme()
	if err != nil {
		return domain.Survey{}, err
	}
	return domain.Survey{
		Title:            strings.TrimSpace(r.Title),
		Description:      strings.TrimSpace(r.Description),
		Link:             surveys.NormalizeLink(r.Link),
		Theme:            theme,
		TargetCriteria:   surveys.JoinTags(surveys.SplitTags(r.TargetCriteria)),
		TargetLocation:   surveys.JoinTags(surveys.SplitTags(r.TargetLocation)),
		TargetAge:        surveys.JoinTags(surveys.SplitTags(r.TargetAge)),
		TargetLanguage:   surveys.JoinTags(surveys.SplitTags(r.TargetLanguage)),
		TargetResponses:  r.TargetResponses,
		PointsReward:     r.PointsReward,
		ClosingDate:      r.ClosingDate.UTC(),
		VerificationCode: strings.TrimSpace(r.VerificationCode),
		EstimatedTime:    r.EstimatedTime,
		IsPromoted:       r.IsPromoted,
	}, nil
}

func (r updateSurveyRequest) changes() (surveys.Changes, error) {
	theme, err := r.theme()
	if err != nil {
		return surveys.Changes{}, err
	}
	return surveys.Changes{
		Title:            strings.TrimSpace(r.Title),
		Description:      strings.TrimSpace(r.Description),
		Link:             surveys.NormalizeLink(r.Link),
		Theme:            theme,
		TargetCriteria:   surveys.JoinTags(surveys.SplitTags(r.TargetCriteria)),
		TargetLocation:   surveys.JoinTags(surveys.SplitTags(r.TargetLocation)),
		TargetAge:        surveys.JoinTags(surveys.SplitTags(r.TargetAge)),
		TargetLanguage:   surveys.JoinTags(surveys.SplitTags(r.TargetLanguage)),
		TargetResponses:  r.TargetResponses,
		ClosingDate:      r.ClosingDate.UTC(),
		VerificationCode: strings.TrimSpace(r.VerificationCode),
		EstimatedTime:    r.EstimatedTime,
		Promote:          r.Promote,
	}, nil
}

// check проверяет теги validate и дату закрытия.
func (s *Server) check(req any, closing time.Time, requireFuture bool) error {
	if err := s.validate.Struct(req); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			return domain.InvalidInput(fmt.Sprintf("Field %s is invalid.", lowerFirst(fieldErrs[0].Field())))
		}
		return domain.InvalidInput("Invalid request.")
	}
	if closing.IsZero() {
		return domain.InvalidInput("Field closingDate is required.")
	}
	if requireFuture && !closing.After(s.now()) {
		return domain.InvalidInput("Closing date must be in the future.")
	}
	return nil
}

func lowerFirst(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}
