package service

import (
	"context"
	"errors"
	"time"

	"bacnet_device_sim/internal/models"
	"bacnet_device_sim/internal/repository"
)

// maxListLimit caps one history page; roughly a day of readings at the default interval.
const maxListLimit = 10_000

type ReadingLogService struct {
	readingRepo repository.ReadingRepo
}

func NewReadingLogService(readingRepo repository.ReadingRepo) *ReadingLogService {
	return &ReadingLogService{readingRepo: readingRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	errInvalidDeviceID  = errors.New("invalid device id: must not be negative")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeLimit clamps the page size to (0, maxListLimit].
func normalizeLimit(n int) int {
	if n <= 0 || n > maxListLimit {
		return maxListLimit
	}
	return n
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f ReadingFilter) (repository.ReadingFilter, error) {
	if f.DeviceID < 0 {
		return repository.ReadingFilter{}, errInvalidDeviceID
	}
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return repository.ReadingFilter{}, errInvalidTimeRange
	}

	return repository.ReadingFilter{
		DeviceID: f.DeviceID,
		From:     from,
		To:       to,
		Limit:    normalizeLimit(f.Limit),
	}, nil
}

func (s *ReadingLogService) List(ctx context.Context, f ReadingFilter) ([]models.ReadingRecord, error) {
	rf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.readingRepo.List(ctx, rf)
}
