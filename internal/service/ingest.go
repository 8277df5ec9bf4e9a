package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bacnet_device_sim/internal/metrics"
	"bacnet_device_sim/internal/models"
	"bacnet_device_sim/internal/repository"
)

// Operation mode and error message ranges accepted from devices.
const (
	minOperationMode = 1 // Standby
	maxOperationMode = 8 // Off
	minErrorMessage  = 1 // None
	maxErrorMessage  = 2 // Low Water Pressure
)

var ErrInvalidReading = errors.New("invalid reading")

type IngestService struct {
	uploadRepo repository.UploadRepo
	now        func() time.Time
}

func NewIngestService(uploadRepo repository.UploadRepo) *IngestService {
	return &IngestService{uploadRepo: uploadRepo, now: time.Now}
}

// validateReading rejects payloads no boiler could have produced.
func validateReading(r models.DeviceReading) error {
	if r.DeviceID < 1 {
		return fmt.Errorf("%w: device_id must be positive", ErrInvalidReading)
	}
	if r.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp is required", ErrInvalidReading)
	}
	// 0 is the unreported status a device sends before its first tick settles.
	if r.OperationMode != 0 && (r.OperationMode < minOperationMode || r.OperationMode > maxOperationMode) {
		return fmt.Errorf("%w: operation_mode %d out of range", ErrInvalidReading, r.OperationMode)
	}
	if r.ErrorMessage < minErrorMessage || r.ErrorMessage > maxErrorMessage {
		return fmt.Errorf("%w: error_message %d out of range", ErrInvalidReading, r.ErrorMessage)
	}
	return nil
}

// Upload stores the reading and refreshes the device registry atomically.
func (s *IngestService) Upload(ctx context.Context, r models.DeviceReading) (models.ReadingRecord, error) {
	if err := validateReading(r); err != nil {
		metrics.IncUpload(metrics.ResultFailure)
		return models.ReadingRecord{}, err
	}

	received := s.now().UTC()
	rec, err := s.uploadRepo.Store(ctx, models.ReadingRecord{ReceivedAt: received, DeviceReading: r})
	if err != nil {
		metrics.IncUpload(metrics.ResultFailure)
		return models.ReadingRecord{}, fmt.Errorf("upload from device %d: %w", r.DeviceID, err)
	}

	metrics.IncUpload(metrics.ResultSuccess)
	return rec, nil
}
