package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"bacnet_device_sim/internal/models"

	"github.com/google/uuid"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

const (
	insertReadingSQL = `
		INSERT INTO device_readings (id, device_id, recorded_at, received_at, operation_mode,
			supply_temp, return_temp, outlet_pressure, inlet_pressure, instant_power, pump_status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectReadingsSQL = `SELECT id, device_id, recorded_at, received_at, operation_mode, supply_temp, return_temp, outlet_pressure, inlet_pressure, instant_power, pump_status, error_message FROM device_readings`
)

// Append stores a reading. If ID or ReceivedAt are empty, they’re set; the stored record is returned.
func (r *ReadingSQLite) Append(ctx context.Context, rec models.ReadingRecord) (models.ReadingRecord, error) {
	return insertReading(ctx, r.db, rec)
}

func insertReading(ctx context.Context, ex execer, rec models.ReadingRecord) (models.ReadingRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now().UTC()
	} else {
		rec.ReceivedAt = rec.ReceivedAt.UTC()
	}
	rec.Timestamp = rec.Timestamp.UTC()

	_, err := ex.ExecContext(ctx, insertReadingSQL,
		rec.ID,
		rec.DeviceID,
		rec.Timestamp,
		rec.ReceivedAt,
		rec.OperationMode,
		rec.SupplyTemp,
		rec.ReturnTemp,
		rec.OutletPressure,
		rec.InletPressure,
		rec.InstantPower,
		rec.PumpStatus,
		rec.ErrorMessage,
	)
	if err != nil {
		return models.ReadingRecord{}, err
	}
	return rec, nil
}

// List returns readings filtered by device and [from, to] (inclusive), ordered by device time ASC.
func (r *ReadingSQLite) List(ctx context.Context, f ReadingFilter) ([]models.ReadingRecord, error) {
	var (
		conds []string
		args  []any
	)

	if f.DeviceID > 0 {
		conds = append(conds, "device_id = ?")
		args = append(args, f.DeviceID)
	}
	if !f.From.IsZero() {
		conds = append(conds, "recorded_at >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		conds = append(conds, "recorded_at <= ?")
		args = append(args, f.To.UTC())
	}

	q := selectReadingsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY recorded_at ASC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.ReadingRecord, 0, 64)
	for rows.Next() {
		rec, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Latest returns the newest reading of a device, or a zero record if it never reported.
func (r *ReadingSQLite) Latest(ctx context.Context, deviceID int) (models.ReadingRecord, error) {
	row := r.db.QueryRowContext(ctx, selectReadingsSQL+" WHERE device_id = ? ORDER BY recorded_at DESC LIMIT 1", deviceID)
	rec, err := scanReading(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ReadingRecord{}, nil
		}
		return models.ReadingRecord{}, err
	}
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(s rowScanner) (models.ReadingRecord, error) {
	var rec models.ReadingRecord
	if err := s.Scan(
		&rec.ID,
		&rec.DeviceID,
		&rec.Timestamp,
		&rec.ReceivedAt,
		&rec.OperationMode,
		&rec.SupplyTemp,
		&rec.ReturnTemp,
		&rec.OutletPressure,
		&rec.InletPressure,
		&rec.InstantPower,
		&rec.PumpStatus,
		&rec.ErrorMessage,
	); err != nil {
		return models.ReadingRecord{}, err
	}
	rec.Timestamp = rec.Timestamp.UTC()
	rec.ReceivedAt = rec.ReceivedAt.UTC()
	return rec, nil
}
