package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bacnet_device_sim/internal/models"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type UploadSQLite struct {
	db *sql.DB
}

func NewUploadSQLite(db *sql.DB) *UploadSQLite { return &UploadSQLite{db: db} }

// Store appends the reading and touches the device registry in one
// transaction. Either both rows change or neither does.
func (r *UploadSQLite) Store(ctx context.Context, rec models.ReadingRecord) (models.ReadingRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.ReadingRecord{}, fmt.Errorf("begin upload tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stored, err := insertReading(ctx, tx, rec)
	if err != nil {
		return models.ReadingRecord{}, fmt.Errorf("store reading: %w", err)
	}
	if err := touchDevice(ctx, tx, stored.DeviceReading, stored.ReceivedAt); err != nil {
		return models.ReadingRecord{}, fmt.Errorf("register device: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.ReadingRecord{}, fmt.Errorf("commit upload tx: %w", err)
	}
	return stored, nil
}
