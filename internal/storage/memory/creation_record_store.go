package memory

import (
	"context"
	"sync"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

// CreationRecordStore is an in-memory implementation of
// storage.CreationRecordStore.
type CreationRecordStore struct {
	mu     sync.RWMutex
	byMint map[string]*domain.CreationRecord
	order  []string // mints in insertion order
}

// NewCreationRecordStore creates a new in-memory creation ledger.
func NewCreationRecordStore() *CreationRecordStore {
	return &CreationRecordStore{
		byMint: make(map[string]*domain.CreationRecord),
	}
}

// Compile-time interface check.
var _ storage.CreationRecordStore = (*CreationRecordStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if the mint exists.
func (s *CreationRecordStore) Insert(_ context.Context, record *domain.CreationRecord) error {
	if record == nil || record.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byMint[record.Mint]; exists {
		return storage.ErrDuplicateKey
	}

	recordCopy := *record
	s.byMint[record.Mint] = &recordCopy
	s.order = append(s.order, record.Mint)
	return nil
}

// GetByMint retrieves a record by mint. Returns ErrNotFound if not exists.
func (s *CreationRecordStore) GetByMint(_ context.Context, mint string) (*domain.CreationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.byMint[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recordCopy := *record
	return &recordCopy, nil
}

// List returns up to limit records, newest first.
func (s *CreationRecordStore) List(_ context.Context, limit int) ([]*domain.CreationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.order)
	if limit > 0 && limit < n {
		n = limit
	}

	records := make([]*domain.CreationRecord, 0, n)
	for i := len(s.order) - 1; i >= 0 && len(records) < n; i-- {
		recordCopy := *s.byMint[s.order[i]]
		records = append(records, &recordCopy)
	}
	return records, nil
}
