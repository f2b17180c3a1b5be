package repository

import (
	"context"

	"newsdesk/internal/domain"
)

// EntryRepository exposes persistence operations for news entries. Entries
// are immutable once inserted; there is no update or delete.
type EntryRepository interface {
	Init(ctx context.Context) error
	// InsertBatch stores all entries inside a single transaction and returns
	// the assigned ids in input order.
	InsertBatch(ctx context.Context, entries []domain.Entry) ([]int64, error)
	ListAll(ctx context.Context) ([]domain.Entry, error)
	ListByUploader(ctx context.Context, uploadedBy string) ([]domain.Entry, error)
}
