package repo

import (
	"encoding/json"
	"fmt"
	"time"

	"surveybar/internal/domain"
)

// Keys задаёт имена двух записей хранилища.
type Keys struct {
	User    string
	Surveys string
}

// DefaultKeys возвращает имена записей, совместимые с уже сохранёнными данными.
func DefaultKeys() Keys {
	return Keys{User: "surveybar_user_v6", Surveys: "surveybar_surveys_v6"}
}

func (k Keys) orDefault() Keys {
	def := DefaultKeys()
	if k.User == "" {
		k.User = def.User
	}
	if k.Surveys == "" {
		k.Surveys = def.Surveys
	}
	return k
}

// DecodeUser накладывает сохранённый профиль на значения по умолчанию:
// отсутствующие в записи поля берутся из defaults.
func DecodeUser(data []byte, defaults domain.User) (domain.User, error) {
	user := defaults.Clone()
	if len(data) == 0 {
		return user, nil
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return domain.User{}, fmt.Errorf("разбор профиля: %w", err)
	}
	if user.CompletedSurveyIDs == nil {
		user.CompletedSurveyIDs = []string{}
	}
	if user.SurveysPostedIDs == nil {
		user.SurveysPostedIDs = []string{}
	}
	return user, nil
}

// EncodeUser сериализует профиль.
func EncodeUser(user domain.User) ([]byte, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("сериализация профиля: %w", err)
	}
	return data, nil
}

// DecodeSurveys разбирает коллекцию опросов.
func DecodeSurveys(data []byte) ([]domain.Survey, error) {
	surveys := []domain.Survey{}
	if err := json.Unmarshal(data, &surveys); err != nil {
		return nil, fmt.Errorf("разбор опросов: %w", err)
	}
	if surveys == nil {
		surveys = []domain.Survey{}
	}
	return surveys, nil
}

// EncodeSurveys сериализует коллекцию опросов.
func EncodeSurveys(surveys []domain.Survey) ([]byte, error) {
	if surveys == nil {
		surveys = []domain.Survey{}
	}
	data, err := json.Marshal(surveys)
	if err != nil {
		return nil, fmt.Errorf("сериализация опросов: %w", err)
	}
	return data, nil
}

// seed возвращает сериализованные начальные записи.
func seed(now time.Time) (user []byte, surveys []byte, err error) {
	user, err = EncodeUser(domain.DefaultUser(now))
	if err != nil {
		return nil, nil, err
	}
	surveys, err = EncodeSurveys(domain.SeedSurveys(now))
	if err != nil {
		return nil, nil, err
	}
	return user, surveys, nil
}
