package repo

import (
	"context"
	"sync"
	"time"

	"surveybar/internal/domain"
)

// Memory хранит записи в памяти процесса в том же JSON-виде, что и внешние хранилища.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
	keys    Keys
	now     func() time.Time
}

var _ domain.Store = (*Memory)(nil)

// NewMemory создаёт пустое хранилище в памяти.
func NewMemory(keys Keys, now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{records: make(map[string][]byte), keys: keys.orDefault(), now: now}
}

// Init реализует domain.Store.
func (m *Memory) Init(ctx context.Context) error {
	user, surveys, err := seed(m.now())
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[m.keys.User]; !ok {
		m.records[m.keys.User] = user
	}
	if _, ok := m.records[m.keys.Surveys]; !ok {
		m.records[m.keys.Surveys] = surveys
	}
	return nil
}

// GetUser реализует domain.Store.
func (m *Memory) GetUser(ctx context.Context) (domain.User, error) {
	m.mu.RLock()
	data := m.records[m.keys.User]
	m.mu.RUnlock()
	return DecodeUser(data, domain.DefaultUser(m.now()))
}

// GetSurveys реализует domain.Store.
func (m *Memory) GetSurveys(ctx context.Context) ([]domain.Survey, error) {
	m.mu.RLock()
	data, ok := m.records[m.keys.Surveys]
	m.mu.RUnlock()
	if !ok {
		return domain.SeedSurveys(m.now()), nil
	}
	return DecodeSurveys(data)
}

// SaveUser реализует domain.Store.
func (m *Memory) SaveUser(ctx context.Context, user domain.User) error {
	data, err := EncodeUser(user)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.records[m.keys.User] = data
	m.mu.Unlock()
	return nil
}

// SaveSurveys реализует domain.Store.
func (m *Memory) SaveSurveys(ctx context.Context, surveys []domain.Survey) error {
	data, err := EncodeSurveys(surveys)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.records[m.keys.Surveys] = data
	m.mu.Unlock()
	return nil
}

// Save реализует domain.Store. Обе записи сериализуются до изменения карты.
func (m *Memory) Save(ctx context.Context, user domain.User, surveys []domain.Survey) error {
	userData, err := EncodeUser(user)
	if err != nil {
		return err
	}
	surveysData, err := EncodeSurveys(surveys)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.records[m.keys.User] = userData
	m.records[m.keys.Surveys] = surveysData
	m.mu.Unlock()
	return nil
}

// Raw возвращает сохранённую запись как есть.
func (m *Memory) Raw(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.records[key]
	return append([]byte(nil), data...), ok
}

// Put записывает запись как есть, например данные прежней версии.
func (m *Memory) Put(key string, data []byte) {
	m.mu.Lock()
	m.records[key] = append([]byte(nil), data...)
	m.mu.Unlock()
}
