package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bacnet_device_sim/internal/models"
)

type DeviceSQLite struct {
	db *sql.DB
}

func NewDeviceSQLite(db *sql.DB) *DeviceSQLite {
	return &DeviceSQLite{db: db}
}

const (
	upsertDeviceSQL = `
		INSERT INTO devices (device_id, first_seen, last_seen, last_mode, last_error, upload_count)
		VALUES (?, ?, ?, ?, ?, 1)
		ON CONFLICT(device_id) DO UPDATE SET
			last_seen=excluded.last_seen,
			last_mode=excluded.last_mode,
			last_error=excluded.last_error,
			upload_count=devices.upload_count + 1
	`

	selectDevicesSQL = `SELECT device_id, first_seen, last_seen, last_mode, last_error, upload_count FROM devices`
)

// Touch registers an upload from r.DeviceID, creating the registry row on first contact.
func (r *DeviceSQLite) Touch(ctx context.Context, reading models.DeviceReading, seenAt time.Time) error {
	return touchDevice(ctx, r.db, reading, seenAt)
}

func touchDevice(ctx context.Context, ex execer, reading models.DeviceReading, seenAt time.Time) error {
	if seenAt.IsZero() {
		seenAt = time.Now().UTC()
	} else {
		seenAt = seenAt.UTC()
	}
	_, err := ex.ExecContext(ctx, upsertDeviceSQL,
		reading.DeviceID,
		seenAt,
		seenAt,
		reading.OperationMode,
		reading.ErrorMessage,
	)
	return err
}

// Get fetches one registry row. Returns a zero Device if the id never reported.
func (r *DeviceSQLite) Get(ctx context.Context, deviceID int) (models.Device, error) {
	row := r.db.QueryRowContext(ctx, selectDevicesSQL+" WHERE device_id = ?", deviceID)
	d, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Device{}, nil // never reported
		}
		return models.Device{}, err
	}
	return d, nil
}

// List returns every known device ordered by id.
func (r *DeviceSQLite) List(ctx context.Context) ([]models.Device, error) {
	rows, err := r.db.QueryContext(ctx, selectDevicesSQL+" ORDER BY device_id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDevice(s rowScanner) (models.Device, error) {
	var d models.Device
	if err := s.Scan(&d.DeviceID, &d.FirstSeen, &d.LastSeen, &d.LastMode, &d.LastError, &d.UploadCount); err != nil {
		return models.Device{}, err
	}
	d.FirstSeen = d.FirstSeen.UTC()
	d.LastSeen = d.LastSeen.UTC()
	return d, nil
}
