// Package storage defines the creation ledger interface. The ledger is
// an audit trail of minted tokens; endpoint behavior never depends on
// it beyond the read-only listing routes.
package storage

import (
	"context"

	"solana-token-forge/internal/domain"
)

// CreationRecordStore persists one record per successfully minted token.
// Append-only: records are never updated or deleted.
type CreationRecordStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if the mint
	// already exists.
	Insert(ctx context.Context, record *domain.CreationRecord) error

	// GetByMint retrieves a record by mint address.
	// Returns ErrNotFound if it does not exist.
	GetByMint(ctx context.Context, mint string) (*domain.CreationRecord, error)

	// List returns up to limit records, newest first.
	// limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*domain.CreationRecord, error)
}
