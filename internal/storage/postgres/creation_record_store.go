package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

// CreationRecordStore implements storage.CreationRecordStore using PostgreSQL.
type CreationRecordStore struct {
	pool *Pool
}

// NewCreationRecordStore creates a new CreationRecordStore.
func NewCreationRecordStore(pool *Pool) *CreationRecordStore {
	return &CreationRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CreationRecordStore = (*CreationRecordStore)(nil)

// Insert adds a new record. Returns ErrDuplicateKey if the mint exists.
func (s *CreationRecordStore) Insert(ctx context.Context, record *domain.CreationRecord) error {
	if record == nil || record.Mint == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO creation_records (
			mint, name, symbol, metadata_url, signature, explorer_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		record.Mint,
		record.Name,
		record.Symbol,
		record.MetadataURL,
		record.Signature,
		record.ExplorerURL,
		record.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert creation record: %w", err)
	}
	return nil
}

// GetByMint retrieves a record by mint. Returns ErrNotFound if not exists.
func (s *CreationRecordStore) GetByMint(ctx context.Context, mint string) (*domain.CreationRecord, error) {
	query := `
		SELECT mint, name, symbol, metadata_url, signature, explorer_url, created_at
		FROM creation_records
		WHERE mint = $1
	`

	row := s.pool.QueryRow(ctx, query, mint)
	record, err := scanCreationRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get creation record by mint: %w", err)
	}
	return record, nil
}

// List returns up to limit records, newest first.
func (s *CreationRecordStore) List(ctx context.Context, limit int) ([]*domain.CreationRecord, error) {
	query := `
		SELECT mint, name, symbol, metadata_url, signature, explorer_url, created_at
		FROM creation_records
		ORDER BY created_at DESC, mint
	`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list creation records: %w", err)
	}
	defer rows.Close()

	var records []*domain.CreationRecord
	for rows.Next() {
		record, err := scanCreationRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan creation record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate creation records: %w", err)
	}
	return records, nil
}

// scanCreationRecord scans a single row into CreationRecord.
func scanCreationRecord(row pgx.Row) (*domain.CreationRecord, error) {
	var record domain.CreationRecord

	err := row.Scan(
		&record.Mint,
		&record.Name,
		&record.Symbol,
		&record.MetadataURL,
		&record.Signature,
		&record.ExplorerURL,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &record, nil
}
