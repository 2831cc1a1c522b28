package surveys

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"surveybar/internal/domain"
	"surveybar/internal/infra/metrics"
	"surveybar/internal/usecase/economy"
)

// Changes описывает правку опроса. Поля заменяют текущие значения целиком,
// как их присылает форма редактирования.
type Changes struct {
	Title            string
	Description      string
	Link             string
	Theme            domain.SurveyTheme
	TargetCriteria   string
	TargetLocation   string
	TargetAge        string
	TargetLanguage   string
	TargetResponses  int
	ClosingDate      time.Time
	VerificationCode string
	EstimatedTime    int
	// Promote включает продвижение для ещё не продвинутого опроса.
	Promote bool
}

// EditChanges возвращает часть правки, влияющую на стоимость.
func (c Changes) EditChanges() economy.EditChanges {
	return economy.EditChanges{TargetResponses: c.TargetResponses, ClosingDate: c.ClosingDate, Promote: c.Promote}
}

// Service управляет жизненным циклом опросов и экономикой баллов.
type Service struct {
	store  domain.Store
	rules  economy.Rules
	guard  Guard
	events domain.EventPublisher
	log    zerolog.Logger
	now    func() time.Time
	loc    *time.Location
	newID  func() string

	// mu сериализует цепочки чтение-изменение-запись одного профиля.
	mu sync.Mutex
}

// Option настраивает Service.
type Option func(*Service)

// WithEvents задаёт публикатор событий.
func WithEvents(events domain.EventPublisher) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithLogger задаёт логгер.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLocation задаёт часовой пояс, по которому считаются календарные дни.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithIDGenerator подменяет генератор идентификаторов опросов.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		s.newID = gen
	}
}

// NewService создаёт сервис опросов.
func NewService(store domain.Store, rules economy.Rules, opts ...Option) *Service {
	s := &Service{
		store: store,
		rules: rules,
		guard: NewGuard(rules),
		log:   zerolog.Nop(),
		now:   time.Now,
		loc:   time.Local,
		newID: func() string { return "s-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules возвращает действующие правила экономики.
func (s *Service) Rules() economy.Rules {
	return s.rules
}

// Create размещает новый опрос и списывает полную стоимость размещения.
func (s *Service) Create(ctx context.Context, draft domain.Survey) (domain.Survey, domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, surveys, err := s.load(ctx)
	if err != nil {
		return domain.Survey{}, domain.Result{}, err
	}
	if draft.Theme == "" {
		draft.Theme = domain.ThemeOther
	}
	if !draft.Theme.Valid() {
		return s.rejectSurvey("create", domain.InvalidInput(fmt.Sprintf("Unknown theme %q.", draft.Theme)))
	}
	if draft.PointsReward < 1 {
		draft.PointsReward = 1
	}

	usedFreeBoost := draft.IsPromoted && !user.HasUsedFreeBoost
	promotion := 0
	if draft.IsPromoted {
		promotion = s.rules.PromotionCostFor(user.HasUsedFreeBoost)
	}
	total := s.rules.PostingCost(draft.TargetResponses, draft.PointsReward, draft.IsPromoted, user.HasUsedFreeBoost)
	if !economy.Affordable(user.Points, total) {
		return s.rejectSurvey("create", domain.InsufficientPoints(total))
	}

	now := s.now()
	if draft.ID == "" {
		draft.ID = s.newID()
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now.UTC()
	}
	if draft.CreatorName == "" {
		draft.CreatorName = user.Name
	}
	draft.CurrentResponses = 0
	draft.ExtensionCount = 0
	draft.IsClosed = false

	next := make([]domain.Survey, 0, len(surveys)+1)
	next = append(next, draft)
	next = append(next, surveys...)

	user.Points -= total
	user.SurveysPostedIDs = append(user.SurveysPostedIDs, draft.ID)
	if usedFreeBoost {
		user.HasUsedFreeBoost = true
	}

	if err := s.store.Save(ctx, user, next); err != nil {
		return domain.Survey{}, domain.Result{}, fmt.Errorf("сохранение опроса: %w", err)
	}

	metrics.ObserveOperation("create", "")
	metrics.AddPointsSpent("listing", s.rules.ListingFee)
	metrics.AddPointsSpent("reward_pool", economy.RewardPool(draft.TargetResponses, draft.PointsReward))
	metrics.AddPointsSpent("promotion", promotion)
	s.log.Info().Str("survey", draft.ID).Int("cost", total).Bool("free_boost", usedFreeBoost).Msg("surveys: опрос размещён")
	s.publish(ctx, domain.Event{Type: domain.EventSurveyPosted, UserID: user.ID, SurveyID: draft.ID, PointsDelta: -total})

	boost := ""
	if draft.IsPromoted {
		boost = " and boosted"
		if usedFreeBoost {
			boost = " and boosted for FREE"
		}
	}
	return draft, domain.Succeeded(fmt.Sprintf("Survey posted%s successfully! %d points deducted.", boost, total)), nil
}

// Quote считает стоимость правки так же, как её спишет Update.
func (s *Service) Quote(ctx context.Context, surveyID string, changes Changes) (economy.Quote, error) {
	user, surveys, err := s.load(ctx)
	if err != nil {
		return economy.Quote{}, err
	}
	idx := indexOf(surveys, surveyID)
	if idx < 0 {
		return economy.Quote{}, domain.NotFound()
	}
	return s.rules.QuoteEdit(surveys[idx], changes.EditChanges(), user.HasUsedFreeBoost), nil
}

// Update применяет правку или продление по заранее показанной стоимости cost.
// Если к моменту записи стоимость изменилась, правка отклоняется с QuoteOutdated.
func (s *Service) Update(ctx context.Context, surveyID string, changes Changes, cost int) (domain.Survey, domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, _, res, err := s.update(ctx, surveyID, changes, &cost)
	return updated, res, err
}

// Edit рассчитывает стоимость правки и списывает её под одной блокировкой.
func (s *Service) Edit(ctx context.Context, surveyID string, changes Changes) (domain.Survey, economy.Quote, domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(ctx, surveyID, changes, nil)
}

func (s *Service) update(ctx context.Context, surveyID string, changes Changes, expected *int) (domain.Survey, economy.Quote, domain.Result, error) {
	user, surveys, err := s.load(ctx)
	if err != nil {
		return domain.Survey{}, economy.Quote{}, domain.Result{}, err
	}
	idx := indexOf(surveys, surveyID)
	if idx < 0 {
		return s.rejectEdit(domain.NotFound())
	}
	existing := surveys[idx]

	if changes.TargetResponses < 1 || changes.TargetResponses < existing.CurrentResponses {
		return s.rejectEdit(domain.InvalidInput(fmt.Sprintf("Target responses cannot be lower than %d collected.", existing.CurrentResponses)))
	}
	quote := s.rules.QuoteEdit(existing, changes.EditChanges(), user.HasUsedFreeBoost)
	extensions := existing.ExtensionCount
	if quote.Extending {
		if extensions >= s.rules.MaxExtensions {
			return s.rejectEdit(domain.MaxExtensionsReached(s.rules.MaxExtensions))
		}
		extensions++
	}
	if expected != nil && *expected != quote.Total {
		return s.rejectEdit(domain.QuoteOutdated(quote.Total))
	}
	cost := quote.Total
	if cost > 0 && !economy.Affordable(user.Points, cost) {
		return s.rejectEdit(domain.InsufficientPoints(cost))
	}
	theme := changes.Theme
	if theme == "" {
		theme = existing.Theme
	}
	if !theme.Valid() {
		return s.rejectEdit(domain.InvalidInput(fmt.Sprintf("Unknown theme %q.", theme)))
	}

	updated := existing
	updated.Title = changes.Title
	updated.Description = changes.Description
	updated.Link = changes.Link
	updated.Theme = theme
	updated.TargetCriteria = changes.TargetCriteria
	updated.TargetLocation = changes.TargetLocation
	updated.TargetAge = changes.TargetAge
	updated.TargetLanguage = changes.TargetLanguage
	updated.TargetResponses = changes.TargetResponses
	updated.ClosingDate = changes.ClosingDate
	updated.VerificationCode = changes.VerificationCode
	updated.EstimatedTime = changes.EstimatedTime
	updated.ExtensionCount = extensions

	userChanged := false
	if cost > 0 {
		user.Points -= cost
		userChanged = true
	}
	if changes.Promote && !existing.IsPromoted {
		updated.IsPromoted = true
		if !user.HasUsedFreeBoost {
			user.HasUsedFreeBoost = true
			userChanged = true
		}
	}

	now := s.now()
	reopened := false
	if updated.IsClosed && quote.Extending && updated.ClosingDate.After(now) {
		updated.IsClosed = false
		reopened = true
	}

	surveys[idx] = updated
	if userChanged {
		err = s.store.Save(ctx, user, surveys)
	} else {
		err = s.store.SaveSurveys(ctx, surveys)
	}
	if err != nil {
		return domain.Survey{}, economy.Quote{}, domain.Result{}, fmt.Errorf("сохранение правки: %w", err)
	}

	metrics.ObserveOperation("update", "")
	metrics.AddPointsSpent("edit", cost)
	s.log.Info().Str("survey", surveyID).Int("cost", cost).Bool("extending", quote.Extending).Bool("reopened", reopened).Msg("surveys: опрос обновлён")
	s.publish(ctx, domain.Event{
		Type:        domain.EventSurveyUpdated,
		UserID:      user.ID,
		SurveyID:    surveyID,
		PointsDelta: -cost,
		Metadata:    map[string]any{"extending": quote.Extending, "reopened": reopened, "extension_count": extensions},
	})
	return updated, quote, domain.Succeeded("Survey updated successfully!"), nil
}

// Close закрывает опрос. Баллы не возвращаются.
func (s *Service) Close(ctx context.Context, surveyID string) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, surveys, err := s.load(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	idx := indexOf(surveys, surveyID)
	if idx < 0 {
		return s.reject("close", domain.NotFound())
	}
	surveys[idx].IsClosed = true
	if err := s.store.SaveSurveys(ctx, surveys); err != nil {
		return domain.Result{}, fmt.Errorf("сохранение закрытия: %w", err)
	}

	metrics.ObserveOperation("close", "")
	s.log.Info().Str("survey", surveyID).Msg("surveys: опрос закрыт")
	s.publish(ctx, domain.Event{Type: domain.EventSurveyClosed, UserID: user.ID, SurveyID: surveyID})
	return domain.Succeeded("Survey closed."), nil
}

// Delete удаляет опрос безвозвратно и без возврата баллов.
func (s *Service) Delete(ctx context.Context, surveyID string) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, surveys, err := s.load(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	kept := make([]domain.Survey, 0, len(surveys))
	for _, survey := range surveys {
		if survey.ID != surveyID {
			kept = append(kept, survey)
		}
	}
	owned := make([]string, 0, len(user.SurveysPostedIDs))
	for _, id := range user.SurveysPostedIDs {
		if id != surveyID {
			owned = append(owned, id)
		}
	}
	user.SurveysPostedIDs = owned

	if err := s.store.Save(ctx, user, kept); err != nil {
		return domain.Result{}, fmt.Errorf("удаление опроса: %w", err)
	}

	metrics.ObserveOperation("delete", "")
	s.log.Info().Str("survey", surveyID).Msg("surveys: опрос удалён")
	s.publish(ctx, domain.Event{Type: domain.EventSurveyDeleted, UserID: user.ID, SurveyID: surveyID})
	return domain.Succeeded("Survey deleted."), nil
}

// Promote продвигает опрос. Первое продвижение бесплатно.
func (s *Service) Promote(ctx context.Context, surveyID string) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, surveys, err := s.load(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	idx := indexOf(surveys, surveyID)
	if idx < 0 {
		return s.reject("promote", domain.NotFound())
	}
	if surveys[idx].IsPromoted {
		return s.reject("promote", domain.AlreadyPromoted())
	}
	cost := s.rules.PromotionCostFor(user.HasUsedFreeBoost)
	if !economy.Affordable(user.Points, cost) {
		return s.reject("promote", domain.InsufficientPoints(cost))
	}

	free := !user.HasUsedFreeBoost
	user.Points -= cost
	user.HasUsedFreeBoost = true
	surveys[idx].IsPromoted = true
	if err := s.store.Save(ctx, user, surveys); err != nil {
		return domain.Result{}, fmt.Errorf("сохранение продвижения: %w", err)
	}

	metrics.ObserveOperation("promote", "")
	metrics.AddPointsSpent("promotion", cost)
	s.log.Info().Str("survey", surveyID).Int("cost", cost).Bool("free", free).Msg("surveys: опрос продвинут")
	s.publish(ctx, domain.Event{Type: domain.EventSurveyPromoted, UserID: user.ID, SurveyID: surveyID, PointsDelta: -cost})
	if free {
		return domain.Succeeded("Boosted for FREE!"), nil
	}
	return domain.Succeeded(fmt.Sprintf("Survey boosted! -%d pts", cost)), nil
}

// PurchasePoints зачисляет купленные баллы. Оплата не проводится.
func (s *Service) PurchasePoints(ctx context.Context, amount int) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.store.GetUser(ctx)
	if err != nil {
		return domain.Result{}, fmt.Errorf("получение пользователя: %w", err)
	}
	user.Points += amount
	if err := s.store.SaveUser(ctx, user); err != nil {
		return domain.Result{}, fmt.Errorf("зачисление баллов: %w", err)
	}

	metrics.ObserveOperation("purchase", "")
	metrics.AddPointsEarned("purchase", amount)
	s.log.Info().Int("amount", amount).Msg("surveys: баллы куплены")
	s.publish(ctx, domain.Event{Type: domain.EventPointsPurchased, UserID: user.ID, PointsDelta: amount})
	return domain.Succeeded(fmt.Sprintf("Purchased %d points!", amount)), nil
}

// User возвращает текущий профиль.
func (s *Service) User(ctx context.Context) (domain.User, error) {
	user, err := s.store.GetUser(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("получение пользователя: %w", err)
	}
	return user, nil
}

// Surveys возвращает коллекцию опросов в порядке хранения.
func (s *Service) Surveys(ctx context.Context) ([]domain.Survey, error) {
	surveys, err := s.store.GetSurveys(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение опросов: %w", err)
	}
	return surveys, nil
}

func (s *Service) load(ctx context.Context) (domain.User, []domain.Survey, error) {
	user, err := s.store.GetUser(ctx)
	if err != nil {
		return domain.User{}, nil, fmt.Errorf("получение пользователя: %w", err)
	}
	surveys, err := s.store.GetSurveys(ctx)
	if err != nil {
		return domain.User{}, nil, fmt.Errorf("получение опросов: %w", err)
	}
	return user.Clone(), surveys, nil
}

func (s *Service) today() string {
	return s.now().In(s.loc).Format(domain.DateLayout)
}

// reject учитывает отказ правила и возвращает его вызывающей стороне.
func (s *Service) reject(operation string, ruleErr *domain.RuleError) (domain.Result, error) {
	metrics.ObserveOperation(operation, string(ruleErr.Kind))
	s.log.Debug().Str("operation", operation).Str("kind", string(ruleErr.Kind)).Msg(ruleErr.Message)
	return domain.ResultFromError(ruleErr), ruleErr
}

func (s *Service) rejectEdit(ruleErr *domain.RuleError) (domain.Survey, economy.Quote, domain.Result, error) {
	res, err := s.reject("update", ruleErr)
	return domain.Survey{}, economy.Quote{}, res, err
}

func (s *Service) rejectSurvey(operation string, ruleErr *domain.RuleError) (domain.Survey, domain.Result, error) {
	res, err := s.reject(operation, ruleErr)
	return domain.Survey{}, res, err
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if s.events == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}
	if err := s.events.Publish(ctx, event); err != nil {
		metrics.EventsPublishErrors.WithLabelValues(string(event.Type)).Inc()
		s.log.Warn().Err(err).Str("type", string(event.Type)).Msg("surveys: не удалось опубликовать событие")
	}
}

func indexOf(surveys []domain.Survey, id string) int {
	id = strings.TrimSpace(id)
	for i, survey := range surveys {
		if survey.ID == id {
			return i
		}
	}
	return -1
}
