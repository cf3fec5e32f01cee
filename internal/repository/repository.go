// Package repository persists parsed receipts. Two backends implement the
// same contract: an embedded SQLite store (the default) and Postgres for
// shared deployments.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/scanline-labs/receipt-scanner/internal/entity"
)

// ErrNotFound is returned when no receipt exists for the requested ID.
var ErrNotFound = errors.New("receipt not found")

// ReceiptRepository stores and retrieves receipts. Listings are ordered by
// upload time descending, newest first.
type ReceiptRepository interface {
	Save(ctx context.Context, rec *entity.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Receipt, error)
}
