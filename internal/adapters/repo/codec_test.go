package repo

import (
	"strings"
	"testing"

	"surveybar/internal/domain"
)

func TestDecodeSurveysAcceptsISODates(t *testing.T) {
	raw := `[{"id":"s9","title":"Legacy","description":"","link":"https://x","creatorName":"A","theme":"Other",
"targetResponses":10,"currentResponses":2,"pointsReward":3,"closingDate":"2026-03-05T10:00:00.000Z",
"createdAt":"2026-02-01T10:00:00.000Z","extensionCount":1,"verificationCode":"abc"}]`
	surveys, err := DecodeSurveys([]byte(raw))
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(surveys) != 1 {
		t.Fatalf("ожидали 1 опрос")
	}
	s := surveys[0]
	if s.ClosingDate.Day() != 5 || s.ExtensionCount != 1 || s.VerificationCode != "abc" {
		t.Fatalf("неожиданный опрос: %+v", s)
	}
}

func TestEncodeSurveysUsesCamelCase(t *testing.T) {
	data, err := EncodeSurveys([]domain.Survey{{ID: "s1", TargetResponses: 5}})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	for _, field := range []string{`"targetResponses":5`, `"extensionCount":0`, `"closingDate"`} {
		if !strings.Contains(string(data), field) {
			t.Fatalf("ожидали поле %s в %s", field, data)
		}
	}
	if strings.Contains(string(data), "verificationCode") {
		t.Fatalf("пустой код не должен сериализоваться: %s", data)
	}
}

func TestEncodeNilSurveys(t *testing.T) {
	data, err := EncodeSurveys(nil)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("ожидали пустой массив, получили %s", data)
	}
}
