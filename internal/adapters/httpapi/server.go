package httpapi

import (
	"context"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"surveybar/internal/domain"
	"surveybar/internal/usecase/economy"
	"surveybar/internal/usecase/surveys"
)

// Engine — операции движка опросов, доступные через HTTP.
type Engine interface {
	User(ctx context.Context) (domain.User, error)
	Allowance(ctx context.Context) (surveys.Allowance, error)
	Surveys(ctx context.Context) ([]domain.Survey, error)
	Browse(ctx context.Context, filter surveys.Filter) ([]domain.Survey, error)
	Mine(ctx context.Context, status domain.SurveyStatus) ([]domain.Survey, error)
	AttentionCount(ctx context.Context) (int, error)
	Create(ctx context.Context, draft domain.Survey) (domain.Survey, domain.Result, error)
	Quote(ctx context.Context, surveyID string, changes surveys.Changes) (economy.Quote, error)
	Edit(ctx context.Context, surveyID string, changes surveys.Changes) (domain.Survey, economy.Quote, domain.Result, error)
	Close(ctx context.Context, surveyID string) (domain.Result, error)
	Delete(ctx context.Context, surveyID string) (domain.Result, error)
	Promote(ctx context.Context, surveyID string) (domain.Result, error)
	Complete(ctx context.Context, surveyID, code string) (domain.Result, error)
	PurchasePoints(ctx context.Context, amount int) (domain.Result, error)
	Rules() economy.Rules
}

var _ Engine = (*surveys.Service)(nil)

// DefaultPackages — пакеты баллов, доступные для покупки.
var DefaultPackages = []int{50, 120, 500}

// Server обслуживает REST API движка.
type Server struct {
	engine   Engine
	log      zerolog.Logger
	limit    func(http.Handler) http.Handler
	validate *validator.Validate
	packages []int
	now      func() time.Time
}

// Option настраивает Server.
type Option func(*Server)

// WithLogger задаёт логгер.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithRateLimit оборачивает изменяющие маршруты в middleware ограничения частоты.
func WithRateLimit(mw func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.limit = mw
	}
}

// WithPackages задаёт допустимые пакеты баллов.
func WithPackages(packages []int) Option {
	return func(s *Server) {
		s.packages = append([]int(nil), packages...)
	}
}

// WithClock подменяет источник текущего времени для валидации дат.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewServer создаёт HTTP API.
func NewServer(engine Engine, opts ...Option) *Server {
	srv := &Server{
		engine:   engine,
		log:      zerolog.Nop(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		packages: DefaultPackages,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// Router возвращает маршруты API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/user", s.handleGetUser)
		r.Get("/user/allowance", s.handleGetAllowance)
		r.Get("/rules", s.handleGetRules)
		r.Get("/themes", s.handleListThemes)
		r.Get("/wallet/packages", s.handleListPackages)

		r.Get("/surveys", s.handleListSurveys)
		r.Get("/surveys/browse", s.handleBrowse)
		r.Get("/surveys/mine", s.handleMine)
		r.Get("/surveys/attention/count", s.handleAttentionCount)

		r.Group(func(r chi.Router) {
			if s.limit != nil {
				r.Use(s.limit)
			}
			r.Post("/surveys", s.handleCreateSurvey)
			r.Post("/surveys/{id}/quote", s.handleQuote)
			r.Put("/surveys/{id}", s.handleUpdateSurvey)
			r.Post("/surveys/{id}/close", s.handleCloseSurvey)
			r.Delete("/surveys/{id}", s.handleDeleteSurvey)
			r.Post("/surveys/{id}/promote", s.handlePromoteSurvey)
			r.Post("/surveys/{id}/complete", s.handleCompleteSurvey)
			r.Post("/wallet/purchase", s.handlePurchase)
		})
	})

	return r
}
