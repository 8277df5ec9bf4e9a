package service

import (
	"context"
	"time"

	"bacnet_device_sim/internal/models"
	"bacnet_device_sim/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Ingest accepts telemetry uploads from simulated devices.
type Ingest interface {
	Upload(ctx context.Context, r models.DeviceReading) (models.ReadingRecord, error)
}

// Monitoring exposes the device registry and the latest state of each device.
type Monitoring interface {
	ListDevices(ctx context.Context) ([]models.Device, error)
	GetDeviceState(ctx context.Context, deviceID int) (models.ReadingRecord, error)
}

// ReadingLog exposes the stored reading history with filtering.
type ReadingLog interface {
	List(ctx context.Context, f ReadingFilter) ([]models.ReadingRecord, error)
}

// ReadingFilter narrows the reading history.
type ReadingFilter struct {
	DeviceID int       // 0 means every device
	From     time.Time // inclusive; zero means no lower bound
	To       time.Time // inclusive; zero means no upper bound
	Limit    int
}

// AuthOptions configures token issuing for the read API.
type AuthOptions struct {
	SigningKey string
	TokenTTL   time.Duration
}

type Service struct {
	Ingest
	Monitoring
	ReadingLog
	Authorization
}

func NewService(repos *repository.Repository, auth AuthOptions) *Service {
	return &Service{
		Ingest:        NewIngestService(repos.UploadRepo),
		Monitoring:    NewMonitoringService(repos.DeviceRepo, repos.ReadingRepo),
		ReadingLog:    NewReadingLogService(repos.ReadingRepo),
		Authorization: NewAuthService(repos.Auth, auth.SigningKey, auth.TokenTTL),
	}
}
