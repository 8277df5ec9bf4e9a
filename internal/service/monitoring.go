package service

import (
	"context"
	"errors"
	"time"

	"bacnet_device_sim/internal/models"
	"bacnet_device_sim/internal/repository"
)

var ErrDeviceNotFound = errors.New("device has not reported yet")

type MonitoringService struct {
	deviceRepo  repository.DeviceRepo
	readingRepo repository.ReadingRepo
}

func NewMonitoringService(deviceRepo repository.DeviceRepo, readingRepo repository.ReadingRepo) *MonitoringService {
	return &MonitoringService{deviceRepo: deviceRepo, readingRepo: readingRepo}
}

// ListDevices returns every device that uploaded at least once. Never nil.
func (s *MonitoringService) ListDevices(ctx context.Context) ([]models.Device, error) {
	devices, err := s.deviceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if devices == nil {
		devices = []models.Device{}
	}
	for i := range devices {
		devices[i].FirstSeen = toUTC(devices[i].FirstSeen)
		devices[i].LastSeen = toUTC(devices[i].LastSeen)
	}
	return devices, nil
}

// GetDeviceState returns the newest reading of a device, or ErrDeviceNotFound.
func (s *MonitoringService) GetDeviceState(ctx context.Context, deviceID int) (models.ReadingRecord, error) {
	rec, err := s.readingRepo.Latest(ctx, deviceID)
	if err != nil {
		return models.ReadingRecord{}, err
	}
	if rec.ID == "" {
		return models.ReadingRecord{}, ErrDeviceNotFound
	}
	rec.Timestamp = toUTC(rec.Timestamp)
	rec.ReceivedAt = toUTC(rec.ReceivedAt)
	return rec, nil
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
