package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scanline-labs/receipt-scanner/internal/entity"
)

// PoolConfig carries the pgx pool knobs.
type PoolConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS receipts (
	id          UUID PRIMARY KEY,
	user_id     TEXT NOT NULL,
	store_name  TEXT NOT NULL,
	tx_date     TEXT,
	tax         TEXT,
	total       TEXT,
	items       JSONB NOT NULL,
	uploaded_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_receipts_user_uploaded ON receipts (user_id, uploaded_at DESC);
`

// PostgresRepository stores receipts in Postgres over a pgx pool.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres creates the pool, pings it, and applies the schema.
func OpenPostgres(ctx context.Context, cfg PoolConfig, logger *slog.Logger) (*PostgresRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "receipt-scanner"

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply postgres schema: %w", err)
	}
	logger.Info("postgres store ready")
	return &PostgresRepository{pool: pool, logger: logger}, nil
}

func (r *PostgresRepository) Save(ctx context.Context, rec *entity.Receipt) error {
	items, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO receipts (id, user_id, store_name, tx_date, tax, total, items, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.UserID, rec.StoreName, rec.Date, rec.Tax, rec.Total, items, rec.UploadedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("failed to save receipt", "id", rec.ID, "error", err)
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, store_name, tx_date, tax, total, items, uploaded_at
		 FROM receipts WHERE id = $1`, id)
	rec, err := scanPostgresReceipt(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Receipt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, store_name, tx_date, tax, total, items, uploaded_at
		 FROM receipts WHERE user_id = $1 ORDER BY uploaded_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var recs []*entity.Receipt
	for rows.Next() {
		rec, err := scanPostgresReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

func scanPostgresReceipt(row pgx.Row) (*entity.Receipt, error) {
	var (
		rec   entity.Receipt
		items []byte
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.StoreName, &rec.Date, &rec.Tax, &rec.Total, &items, &rec.UploadedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &rec.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if rec.Items == nil {
		rec.Items = []entity.Item{}
	}
	return &rec, nil
}
