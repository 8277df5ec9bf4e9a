package repository

import (
	"context"
	"database/sql"
	"time"

	"bacnet_device_sim/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// ReadingFilter narrows a history query. Zero fields do not filter.
type ReadingFilter struct {
	DeviceID int
	From     time.Time // inclusive
	To       time.Time // inclusive
	Limit    int
}

type ReadingRepo interface {
	Append(ctx context.Context, r models.ReadingRecord) (models.ReadingRecord, error)
	List(ctx context.Context, f ReadingFilter) ([]models.ReadingRecord, error)
	Latest(ctx context.Context, deviceID int) (models.ReadingRecord, error)
}

type DeviceRepo interface {
	Touch(ctx context.Context, r models.DeviceReading, seenAt time.Time) error
	Get(ctx context.Context, deviceID int) (models.Device, error)
	List(ctx context.Context) ([]models.Device, error)
}

// UploadRepo stores an upload and its registry update as one unit.
type UploadRepo interface {
	Store(ctx context.Context, rec models.ReadingRecord) (models.ReadingRecord, error)
}

type Repository struct {
	UploadRepo  UploadRepo
	ReadingRepo ReadingRepo
	DeviceRepo  DeviceRepo
	Auth        Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		UploadRepo:  NewUploadSQLite(db),
		ReadingRepo: NewReadingSQLite(db),
		DeviceRepo:  NewDeviceSQLite(db),
		Auth:        NewUserSQLite(db),
	}
}
