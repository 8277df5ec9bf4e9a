package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"bacnet_device_sim/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var readingColumns = []string{
	"id", "device_id", "recorded_at", "received_at", "operation_mode", "supply_temp",
	"return_temp", "outlet_pressure", "inlet_pressure", "instant_power", "pump_status", "error_message",
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestReadingAppend_SetsIDAndReceivedAt(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewReadingSQLite(db)
	recorded := time.Date(2025, 1, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))

	mock.ExpectExec(regexp.QuoteMeta(insertReadingSQL)).
		WithArgs(sqlmock.AnyArg(), 3, recorded.UTC(), sqlmock.AnyArg(),
			4, 61.5, 40.0, 2.1, 2.3, 210.0, true, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Append(ctx(t), models.ReadingRecord{
		DeviceReading: models.DeviceReading{
			DeviceID:       3,
			Timestamp:      recorded,
			OperationMode:  4,
			SupplyTemp:     61.5,
			ReturnTemp:     40,
			OutletPressure: 2.1,
			InletPressure:  2.3,
			InstantPower:   210,
			PumpStatus:     true,
			ErrorMessage:   1,
		},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if got.ID == "" || got.ReceivedAt.IsZero() || got.ReceivedAt.Location() != time.UTC {
		t.Fatalf("defaults not applied: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestReadingAppend_DBError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewReadingSQLite(db)
	mock.ExpectExec("INSERT INTO device_readings").WillReturnError(errors.New("down"))

	_, err = repo.Append(ctx(t), models.ReadingRecord{DeviceReading: models.DeviceReading{DeviceID: 1, Timestamp: time.Now()}})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestReadingList_NoFilters(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewReadingSQLite(db)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(readingColumns).
		AddRow("a", 1, now, now, 1, 20.0, 20.0, 2.1, 2.3, 0.05, true, 1).
		AddRow("b", 2, now.Add(time.Minute), now, 5, 20.0, 20.0, 1.1, 1.3, 0.05, false, 2)

	mock.ExpectQuery(regexp.QuoteMeta(selectReadingsSQL + " ORDER BY recorded_at ASC")).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), ReadingFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if got[1].ErrorMessage != 2 || got[1].PumpStatus {
		t.Fatalf("fields not scanned: %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestReadingList_WithFilters_OrderAndArgs(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewReadingSQLite(db)
	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	query := selectReadingsSQL + ` WHERE device_id = ? AND recorded_at >= ? AND recorded_at <= ? ORDER BY recorded_at ASC LIMIT ?`
	rows := sqlmock.NewRows(readingColumns).
		AddRow("c", 7, from, from, 4, 60.0, 30.0, 2.2, 2.4, 210.0, true, 1)

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(7, from, to, 100).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), ReadingFilter{DeviceID: 7, From: from, To: to, Limit: 100})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].DeviceID != 7 || got[0].InstantPower != 210 {
		t.Fatalf("unexpected results: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestReadingList_ScanError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewReadingSQLite(db)
	rows := sqlmock.NewRows(readingColumns).
		// recorded_at of the wrong type forces a scan error
		AddRow("x", 1, 123, 456, 1, 0.0, 0.0, 0.0, 0.0, 0.0, false, 1)

	mock.ExpectQuery("SELECT (.+) FROM device_readings").WillReturnRows(rows)

	if _, err := repo.List(ctx(t), ReadingFilter{}); err == nil {
		t.Fatalf("expected scan error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestReadingLatest(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	repo := NewReadingSQLite(db)
	now := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	query := regexp.QuoteMeta(selectReadingsSQL + " WHERE device_id = ? ORDER BY recorded_at DESC LIMIT 1")

	mock.ExpectQuery(query).WithArgs(3).
		WillReturnRows(sqlmock.NewRows(readingColumns).
			AddRow("z", 3, now, now, 1, 71.0, 45.0, 2.1, 2.3, 0.05, true, 1))
	mock.ExpectQuery(query).WithArgs(9).
		WillReturnRows(sqlmock.NewRows(readingColumns))

	got, err := repo.Latest(ctx(t), 3)
	if err != nil || got.ID != "z" || got.SupplyTemp != 71 {
		t.Fatalf("Latest(3): %+v, %v", got, err)
	}
	got, err = repo.Latest(ctx(t), 9)
	if err != nil || got.ID != "" {
		t.Fatalf("Latest(9) should be zero: %+v, %v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
