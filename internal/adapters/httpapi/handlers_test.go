package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"surveybar/internal/adapters/repo"
	"surveybar/internal/domain"
	"surveybar/internal/usecase/economy"
	"surveybar/internal/usecase/surveys"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestAPI(t *testing.T) (http.Handler, *repo.Memory) {
	t.Helper()
	clock := func() time.Time { return testNow }
	store := repo.NewMemory(repo.Keys{}, clock)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	svc := surveys.NewService(store, economy.DefaultRules(),
		surveys.WithClock(clock),
		surveys.WithLocation(time.UTC),
		surveys.WithIDGenerator(func() string { return "s-api" }),
	)
	return NewServer(svc, WithClock(clock)).Router(), store
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("не ожидали ошибку: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestCreateSurveyEndpoint(t *testing.T) {
	h, store := newTestAPI(t)
	rec, out := do(t, h, http.MethodPost, "/api/v1/surveys", map[string]any{
		"title":           "Sleep habits",
		"link":            "forms.example/sleep",
		"theme":           "academic research",
		"targetResponses": 20,
		"pointsReward":    2,
		"targetLocation":  "US, us, UK",
		"closingDate":     testNow.Add(48 * time.Hour).Format(time.RFC3339),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("ожидали 201, получили %d: %s", rec.Code, rec.Body.String())
	}
	if out["message"] != "Survey posted successfully! 50 points deducted." {
		t.Fatalf("неожиданное сообщение: %v", out["message"])
	}
	survey := out["survey"].(map[string]any)
	if survey["link"] != "https://forms.example/sleep" || survey["theme"] != "Academic Research" || survey["targetLocation"] != "US, UK" {
		t.Fatalf("неожиданный опрос: %v", survey)
	}
	user, _ := store.GetUser(context.Background())
	if user.Points != 450 {
		t.Fatalf("ожидали 450 баллов, получили %d", user.Points)
	}
}

func TestCreateSurveyValidation(t *testing.T) {
	h, _ := newTestAPI(t)
	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing title", body: map[string]any{"link": "x", "targetResponses": 5, "closingDate": testNow.Add(time.Hour)}},
		{name: "zero target", body: map[string]any{"title": "t", "link": "x", "targetResponses": 0, "closingDate": testNow.Add(time.Hour)}},
		{name: "past closing date", body: map[string]any{"title": "t", "link": "x", "targetResponses": 5, "closingDate": testNow.Add(-time.Hour)}},
		{name: "unknown theme", body: map[string]any{"title": "t", "link": "x", "theme": "Gardening", "targetResponses": 5, "closingDate": testNow.Add(time.Hour)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := do(t, h, http.MethodPost, "/api/v1/surveys", tt.body)
			if rec.Code != http.StatusBadRequest || out["code"] != "invalid_input" {
				t.Fatalf("ожидали 400 invalid_input, получили %d %v", rec.Code, out)
			}
		})
	}
}

func TestInsufficientPointsIsPaymentRequired(t *testing.T) {
	h, _ := newTestAPI(t)
	rec, out := do(t, h, http.MethodPost, "/api/v1/surveys", map[string]any{
		"title":           "Huge",
		"link":            "https://x",
		"targetResponses": 1000,
		"closingDate":     testNow.Add(48 * time.Hour),
	})
	if rec.Code != http.StatusPaymentRequired || out["message"] != "Insufficient points. You need 1010 points." {
		t.Fatalf("ожидали 402, получили %d %v", rec.Code, out)
	}
}

func TestCompleteEndpoint(t *testing.T) {
	h, _ := newTestAPI(t)

	rec, out := do(t, h, http.MethodPost, "/api/v1/surveys/s1/complete", map[string]string{"code": "nope"})
	if rec.Code != http.StatusBadRequest || out["code"] != "invalid_code" {
		t.Fatalf("ожидали 400 invalid_code, получили %d %v", rec.Code, out)
	}

	rec, out = do(t, h, http.MethodPost, "/api/v1/surveys/s1/complete", map[string]string{"code": " eco25"})
	if rec.Code != http.StatusOK || out["success"] != true {
		t.Fatalf("ожидали успех, получили %d %v", rec.Code, out)
	}

	rec, out = do(t, h, http.MethodPost, "/api/v1/surveys/s2/complete", nil)
	if rec.Code != http.StatusTooManyRequests || out["code"] != "cooldown_active" {
		t.Fatalf("ожидали 429 cooldown, получили %d %v", rec.Code, out)
	}
	if rec.Header().Get("Retry-After") != "60" || out["retryAfter"] != float64(60) {
		t.Fatalf("ожидали Retry-After 60, получили %q %v", rec.Header().Get("Retry-After"), out["retryAfter"])
	}

	rec, _ = do(t, h, http.MethodPost, "/api/v1/surveys/missing/complete", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("ожидали 404, получили %d", rec.Code)
	}
}

func TestUpdateEndpointChargesQuote(t *testing.T) {
	h, store := newTestAPI(t)
	surveysList, _ := store.GetSurveys(context.Background())
	var s5 domain.Survey
	for _, s := range surveysList {
		if s.ID == "s5" {
			s5 = s
		}
	}
	body := map[string]any{
		"title":           s5.Title,
		"link":            s5.Link,
		"theme":           string(s5.Theme),
		"targetResponses": 60,
		"closingDate":     s5.ClosingDate.Add(5 * 24 * time.Hour),
	}

	rec, out := do(t, h, http.MethodPost, "/api/v1/surveys/s5/quote", body)
	if rec.Code != http.StatusOK || out["total"] != float64(15) || out["extending"] != true {
		t.Fatalf("ожидали смету 15, получили %d %v", rec.Code, out)
	}

	rec, out = do(t, h, http.MethodPut, "/api/v1/surveys/s5", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d %v", rec.Code, out)
	}
	user, _ := store.GetUser(context.Background())
	if user.Points != 485 {
		t.Fatalf("ожидали 485 баллов, получили %d", user.Points)
	}

	body["closingDate"] = s5.ClosingDate.Add(20 * 24 * time.Hour)
	rec, out = do(t, h, http.MethodPut, "/api/v1/surveys/s5", body)
	if rec.Code != http.StatusConflict || out["code"] != "max_extensions_reached" {
		t.Fatalf("ожидали 409, получили %d %v", rec.Code, out)
	}
}

func TestUpdateEndpointKeepsCollectedResponses(t *testing.T) {
	h, store := newTestAPI(t)
	rec, out := do(t, h, http.MethodPut, "/api/v1/surveys/s5", map[string]any{
		"title":           "Shorter",
		"link":            "https://x",
		"targetResponses": 5,
		"closingDate":     testNow.Add(14 * 24 * time.Hour),
	})
	if rec.Code != http.StatusBadRequest || out["code"] != "invalid_input" {
		t.Fatalf("ожидали 400 invalid_input, получили %d %v", rec.Code, out)
	}
	list, _ := store.GetSurveys(context.Background())
	for _, s := range list {
		if s.ID == "s5" && s.TargetResponses != 50 {
			t.Fatalf("цель не должна меняться, получили %d", s.TargetResponses)
		}
	}
}

func TestPurchaseEndpoint(t *testing.T) {
	h, store := newTestAPI(t)
	rec, _ := do(t, h, http.MethodPost, "/api/v1/wallet/purchase", map[string]int{"points": 77})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("произвольная сумма недопустима, получили %d", rec.Code)
	}
	rec, out := do(t, h, http.MethodPost, "/api/v1/wallet/purchase", map[string]int{"points": 120})
	if rec.Code != http.StatusOK || out["message"] != "Purchased 120 points!" {
		t.Fatalf("ожидали успех, получили %d %v", rec.Code, out)
	}
	user, _ := store.GetUser(context.Background())
	if user.Points != 620 {
		t.Fatalf("ожидали 620 баллов, получили %d", user.Points)
	}
}

func TestMineAndAttentionEndpoints(t *testing.T) {
	h, _ := newTestAPI(t)
	rec, out := do(t, h, http.MethodGet, "/api/v1/surveys/attention/count", nil)
	if rec.Code != http.StatusOK || out["count"] != float64(3) {
		t.Fatalf("ожидали 3, получили %d %v", rec.Code, out)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/surveys/mine?tab=attention", nil)
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	var list []domain.Survey
	if err := json.Unmarshal(res.Body.Bytes(), &list); err != nil || len(list) != 3 {
		t.Fatalf("ожидали 3 опроса, получили %d (%v)", len(list), err)
	}

	rec, _ = do(t, h, http.MethodGet, "/api/v1/surveys/mine?tab=unknown", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("ожидали 400, получили %d", rec.Code)
	}
}

func TestBrowseEndpoint(t *testing.T) {
	h, _ := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/surveys/browse?search=coffee", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var list []domain.Survey
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(list) != 1 || list[0].ID != "s1" {
		t.Fatalf("ожидали s1, получили %+v", list)
	}
}

type failingEngine struct {
	*surveys.Service
}

func (failingEngine) User(context.Context) (domain.User, error) {
	return domain.User{}, errors.New("connection reset")
}

func TestInfrastructureErrorIsInternal(t *testing.T) {
	h := NewServer(failingEngine{}).Router()
	rec, out := do(t, h, http.MethodGet, "/api/v1/user", nil)
	if rec.Code != http.StatusInternalServerError || out["message"] != "Something went wrong. Please try again." {
		t.Fatalf("ожидали 500 без деталей, получили %d %v", rec.Code, out)
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[domain.ErrorKind]int{
		domain.KindNotFound:             http.StatusNotFound,
		domain.KindInsufficientPoints:   http.StatusPaymentRequired,
		domain.KindInvalidCode:          http.StatusBadRequest,
		domain.KindDailyLimitReached:    http.StatusTooManyRequests,
		domain.KindAlreadyPromoted:      http.StatusConflict,
		domain.KindMaxExtensionsReached: http.StatusConflict,
		domain.KindQuoteOutdated:        http.StatusConflict,
	}
	for kind, want := range tests {
		if got := StatusFor(kind); got != want {
			t.Fatalf("StatusFor(%s) = %d, want %d", kind, got, want)
		}
	}
}
