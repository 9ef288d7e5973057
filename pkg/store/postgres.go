package store

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/finsum/pkg/models"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
	id             TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL,
	date           DATE NOT NULL,
	description    TEXT NOT NULL,
	amount         NUMERIC NOT NULL,
	category       TEXT NOT NULL DEFAULT '',
	type           TEXT NOT NULL,
	bucket_of_life TEXT NOT NULL DEFAULT ''
)`,
	`CREATE INDEX IF NOT EXISTS transactions_user_id_idx ON transactions (user_id)`,
}

const upsertTransaction = `
INSERT INTO transactions (id, user_id, date, description, amount, category, type, bucket_of_life)
VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
	user_id = EXCLUDED.user_id,
	date = EXCLUDED.date,
	description = EXCLUDED.description,
	amount = EXCLUDED.amount,
	category = EXCLUDED.category,
	type = EXCLUDED.type,
	bucket_of_life = EXCLUDED.bucket_of_life`

// Postgres stores transactions in a single transactions table.
type Postgres struct {
	Pool     *pgxpool.Pool
	logger   *log.Logger
	location *time.Location
}

// NewPostgres connects to dsn. Loaded dates are placed in loc.
func NewPostgres(ctx context.Context, logger *log.Logger, dsn string, loc *time.Location) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Postgres{Pool: pool, logger: logger, location: loc}, nil
}

func (p *Postgres) Close() {
	p.Pool.Close()
}

// Migrate creates the transactions table when it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

func (p *Postgres) Save(ctx context.Context, userID string, txs []models.Transaction) error {
	userID = userOrDefault(userID)

	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range txs {
		_, err := tx.Exec(ctx, upsertTransaction,
			t.ID,
			userID,
			t.Date.Format("2006-01-02"),
			t.Description,
			decimal.NewFromFloat(t.Amount),
			t.Category,
			string(t.Type),
			t.Bucket,
		)
		if err != nil {
			return fmt.Errorf("failed to save transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	p.logger.Debug("saved transactions", "user", userID, "count", len(txs))
	return nil
}

func (p *Postgres) Load(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := p.Pool.Query(ctx,
		`SELECT id, date, description, amount, category, type, bucket_of_life
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY date, id`,
		userOrDefault(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()

	out := make([]models.Transaction, 0)
	for rows.Next() {
		var (
			t         models.Transaction
			date      time.Time
			amount    decimal.Decimal
			direction string
		)
		if err := rows.Scan(&t.ID, &date, &t.Description, &amount, &t.Category, &direction, &t.Bucket); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, p.location)
		t.Amount = amount.InexactFloat64()
		t.Type = models.Direction(direction)
		out = append(out, t)
	}
	return out, rows.Err()
}
