package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"surveybar/internal/domain"
	"surveybar/internal/infra/metrics"
)

// Postgres хранит записи в таблице kv_records на основе pgxpool.
// Схема создаётся миграциями из пакета db.
type Postgres struct {
	pool *pgxpool.Pool
	keys Keys
	now  func() time.Time
}

var _ domain.Store = (*Postgres)(nil)

// NewPostgres создаёт адаптер БД.
func NewPostgres(pool *pgxpool.Pool, keys Keys) *Postgres {
	return &Postgres{pool: pool, keys: keys.orDefault(), now: time.Now}
}

func (p *Postgres) connCtxWithParent(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), 5*time.Second)
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// Init реализует domain.Store.
func (p *Postgres) Init(ctx context.Context) error {
	user, surveys, err := seed(p.now())
	if err != nil {
		return err
	}
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	batch := &pgx.Batch{}
	for key, value := range map[string][]byte{p.keys.User: user, p.keys.Surveys: surveys} {
		batch.Queue(`INSERT INTO kv_records (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`, key, value)
	}
	err = p.pool.SendBatch(ctx, batch).Close()
	metrics.ObserveNetworkRequest("postgres", "init", "kv_records", start, err)
	if err != nil {
		return fmt.Errorf("начальные записи: %w", err)
	}
	return nil
}

func (p *Postgres) load(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	var data []byte
	start := time.Now()
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv_records WHERE key=$1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.ObserveNetworkRequest("postgres", "select_record", "kv_records", start, nil)
		return nil, false, nil
	}
	metrics.ObserveNetworkRequest("postgres", "select_record", "kv_records", start, err)
	if err != nil {
		return nil, false, fmt.Errorf("чтение записи %s: %w", key, err)
	}
	return data, true, nil
}

// GetUser реализует domain.Store.
func (p *Postgres) GetUser(ctx context.Context) (domain.User, error) {
	data, _, err := p.load(ctx, p.keys.User)
	if err != nil {
		return domain.User{}, err
	}
	return DecodeUser(data, domain.DefaultUser(p.now()))
}

// GetSurveys реализует domain.Store.
func (p *Postgres) GetSurveys(ctx context.Context) ([]domain.Survey, error) {
	data, ok, err := p.load(ctx, p.keys.Surveys)
	if err != nil {
		return nil, err
	}
	if !ok {
		return domain.SeedSurveys(p.now()), nil
	}
	return DecodeSurveys(data)
}

const upsertRecordSQL = `
INSERT INTO kv_records (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=now()`

// SaveUser реализует domain.Store.
func (p *Postgres) SaveUser(ctx context.Context, user domain.User) error {
	data, err := EncodeUser(user)
	if err != nil {
		return err
	}
	return p.save(ctx, "save_user", map[string][]byte{p.keys.User: data})
}

// SaveSurveys реализует domain.Store.
func (p *Postgres) SaveSurveys(ctx context.Context, surveys []domain.Survey) error {
	data, err := EncodeSurveys(surveys)
	if err != nil {
		return err
	}
	return p.save(ctx, "save_surveys", map[string][]byte{p.keys.Surveys: data})
}

// Save реализует domain.Store: обе записи пишутся в одной транзакции.
func (p *Postgres) Save(ctx context.Context, user domain.User, surveys []domain.Survey) error {
	userData, err := EncodeUser(user)
	if err != nil {
		return err
	}
	surveysData, err := EncodeSurveys(surveys)
	if err != nil {
		return err
	}
	return p.save(ctx, "save", map[string][]byte{p.keys.User: userData, p.keys.Surveys: surveysData})
}

func (p *Postgres) save(ctx context.Context, operation string, records map[string][]byte) (err error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	start := time.Now()
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	metrics.ObserveNetworkRequest("postgres", "begin_tx", "kv_records", start, err)
	if err != nil {
		return fmt.Errorf("начало транзакции: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for key, value := range records {
		execStart := time.Now()
		_, err = tx.Exec(ctx, upsertRecordSQL, key, value)
		metrics.ObserveNetworkRequest("postgres", operation, "kv_records", execStart, err)
		if err != nil {
			return fmt.Errorf("запись %s: %w", key, err)
		}
	}

	commitStart := time.Now()
	err = tx.Commit(ctx)
	metrics.ObserveNetworkRequest("postgres", "commit", "kv_records", commitStart, err)
	if err != nil {
		return fmt.Errorf("фиксация транзакции: %w", err)
	}
	return nil
}
