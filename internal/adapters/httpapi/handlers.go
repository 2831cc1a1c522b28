package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"surveybar/internal/domain"
	"surveybar/internal/usecase/economy"
	"surveybar/internal/usecase/surveys"
)

type resultResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Code    string         `json:"code,omitempty"`
	Survey  *domain.Survey `json:"survey,omitempty"`
	Quote   *economy.Quote `json:"quote,omitempty"`
	// RetryAfter заполняется для cooldown_active.
	RetryAfter int `json:"retryAfter,omitempty"`
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.engine.User(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleGetAllowance(w http.ResponseWriter, r *http.Request) {
	allowance, err := s.engine.Allowance(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, allowance)
}

func (s *Server) handleGetRules(w http.ResponseWriter, r *http.Request) {
	rules := s.engine.Rules()
	writeJSON(w, http.StatusOK, map[string]any{
		"listingFee":       rules.ListingFee,
		"promotionCost":    rules.PromotionCost,
		"extensionCost":    rules.ExtensionCost,
		"maxExtensions":    rules.MaxExtensions,
		"dailySurveyLimit": rules.DailySurveyLimit,
		"surveyCooldownMs": rules.SurveyCooldown.Milliseconds(),
	})
}

func (s *Server) handleListThemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Themes())
}

func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.packages)
}

func (s *Server) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	list, err := s.engine.Surveys(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := s.engine.Browse(r.Context(), surveys.Filter{
		Search:   q.Get("search"),
		Theme:    q.Get("theme"),
		Location: q.Get("location"),
		Language: q.Get("language"),
		Age:      q.Get("age"),
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	tab := domain.SurveyStatus(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("tab"))))
	switch tab {
	case "":
		tab = domain.StatusActive
	case domain.StatusActive, domain.StatusAttention, domain.StatusClosed:
	default:
		s.writeFailure(w, domain.InvalidInput("Unknown tab."))
		return
	}
	list, err := s.engine.Mine(r.Context(), tab)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleAttentionCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.engine.AttentionCount(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleCreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req createSurveyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.check(req, req.ClosingDate, true); err != nil {
		s.writeFailure(w, err)
		return
	}
	draft, err := req.draft()
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	survey, res, err := s.engine.Create(r.Context(), draft)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resultResponse{Success: res.Success, Message: res.Message, Survey: &survey})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req updateSurveyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.check(req, req.ClosingDate, false); err != nil {
		s.writeFailure(w, err)
		return
	}
	changes, err := req.changes()
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	quote, err := s.engine.Quote(r.Context(), chi.URLParam(r, "id"), changes)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleUpdateSurvey(w http.ResponseWriter, r *http.Request) {
	var req updateSurveyRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.check(req, req.ClosingDate, false); err != nil {
		s.writeFailure(w, err)
		return
	}
	changes, err := req.changes()
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	survey, quote, res, err := s.engine.Edit(r.Context(), chi.URLParam(r, "id"), changes)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Success: res.Success, Message: res.Message, Survey: &survey, Quote: &quote})
}

func (s *Server) handleCloseSurvey(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.Close(r.Context(), chi.URLParam(r, "id"))
	s.writeResult(w, res, err)
}

func (s *Server) handleDeleteSurvey(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.Delete(r.Context(), chi.URLParam(r, "id"))
	s.writeResult(w, res, err)
}

func (s *Server) handlePromoteSurvey(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.Promote(r.Context(), chi.URLParam(r, "id"))
	s.writeResult(w, res, err)
}

func (s *Server) handleCompleteSurvey(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeFailure(w, domain.InvalidInput("Invalid request body."))
		return
	}
	res, err := s.engine.Complete(r.Context(), chi.URLParam(r, "id"), req.Code)
	s.writeResult(w, res, err)
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if !s.decode(w, r, &req) {
		return
	}
	if !s.knownPackage(req.Points) {
		s.writeFailure(w, domain.InvalidInput("Unknown points package."))
		return
	}
	res, err := s.engine.PurchasePoints(r.Context(), req.Points)
	s.writeResult(w, res, err)
}

func (s *Server) knownPackage(points int) bool {
	for _, p := range s.packages {
		if p == points {
			return true
		}
	}
	return false
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeFailure(w, domain.InvalidInput("Invalid request body."))
		return false
	}
	return true
}

func (s *Server) writeResult(w http.ResponseWriter, res domain.Result, err error) {
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Success: res.Success, Message: res.Message})
}

// writeFailure переводит отказ правила или ошибку инфраструктуры в HTTP-ответ.
func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	res := domain.ResultFromError(err)
	ruleErr, ok := domain.AsRuleError(err)
	if !ok {
		s.log.Error().Err(err).Msg("httpapi: внутренняя ошибка")
		writeJSON(w, http.StatusInternalServerError, resultResponse{Success: false, Message: res.Message, Code: "internal_error"})
		return
	}
	resp := resultResponse{Success: false, Message: res.Message, Code: string(ruleErr.Kind)}
	if ruleErr.Kind == domain.KindCooldownActive {
		resp.RetryAfter = ruleErr.RemainingSeconds()
		w.Header().Set("Retry-After", strconv.Itoa(resp.RetryAfter))
	}
	writeJSON(w, StatusFor(ruleErr.Kind), resp)
}

// StatusFor возвращает HTTP-статус для вида отказа.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInsufficientPoints:
		return http.StatusPaymentRequired
	case domain.KindInvalidCode, domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindDailyLimitReached, domain.KindCooldownActive:
		return http.StatusTooManyRequests
	default:
		return http.StatusConflict
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
