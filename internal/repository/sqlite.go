package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/scanline-labs/receipt-scanner/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS receipts (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	store_name  TEXT NOT NULL,
	tx_date     TEXT,
	tax         TEXT,
	total       TEXT,
	items       TEXT NOT NULL,
	uploaded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_receipts_user_uploaded ON receipts (user_id, uploaded_at);
`

// SQLiteRepository is the embedded default store. Items are kept as a JSON
// column; the engine's output is a document, not a relational graph.
type SQLiteRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for an ephemeral store.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	logger.Info("sqlite store ready", "path", path)
	return &SQLiteRepository{db: db, logger: logger}, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, rec *entity.Receipt) error {
	items, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO receipts (id, user_id, store_name, tx_date, tax, total, items, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.UserID, rec.StoreName,
		nullable(rec.Date), nullable(rec.Tax), nullable(rec.Total),
		string(items), rec.UploadedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		r.logger.Error("failed to save receipt", "id", rec.ID, "error", err)
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, store_name, tx_date, tax, total, items, uploaded_at
		 FROM receipts WHERE id = ?`, id.String())
	rec, err := scanSQLiteReceipt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get receipt: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Receipt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, store_name, tx_date, tax, total, items, uploaded_at
		 FROM receipts WHERE user_id = ? ORDER BY uploaded_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var recs []*entity.Receipt
	for rows.Next() {
		rec, err := scanSQLiteReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteReceipt(row rowScanner) (*entity.Receipt, error) {
	var (
		rec        entity.Receipt
		idStr      string
		date       sql.NullString
		tax        sql.NullString
		total      sql.NullString
		items      string
		uploadedAt string
	)
	if err := row.Scan(&idStr, &rec.UserID, &rec.StoreName, &date, &tax, &total, &items, &uploadedAt); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse receipt id: %w", err)
	}
	rec.ID = id
	rec.Date = fromNullable(date)
	rec.Tax = fromNullable(tax)
	rec.Total = fromNullable(total)
	if err := json.Unmarshal([]byte(items), &rec.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if rec.Items == nil {
		rec.Items = []entity.Item{}
	}
	ts, err := time.Parse(time.RFC3339Nano, uploadedAt)
	if err != nil {
		return nil, fmt.Errorf("parse uploaded_at: %w", err)
	}
	rec.UploadedAt = ts
	return &rec, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func fromNullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
