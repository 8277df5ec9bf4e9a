package models

import "time"

// DeviceReading is the telemetry payload a boiler uploads on every report interval.
type DeviceReading struct {
	DeviceID       int       `json:"device_id" binding:"required"`
	Timestamp      time.Time `json:"timestamp" binding:"required"` // RFC 3339
	OperationMode  int       `json:"operation_mode"`               // Operating Status point value
	SupplyTemp     float64   `json:"supply_temp"`                  // °C
	ReturnTemp     float64   `json:"return_temp"`                  // °C
	OutletPressure float64   `json:"outlet_pressure"`              // bar
	InletPressure  float64   `json:"inlet_pressure"`               // bar
	InstantPower   float64   `json:"instant_power"`                // kW
	PumpStatus     bool      `json:"pump_status"`
	ErrorMessage   int       `json:"error_message"` // 1 = none, 2 = low water pressure
}

// ReadingRecord is a reading as stored by the collector.
type ReadingRecord struct {
	ID         string    `json:"id"`
	ReceivedAt time.Time `json:"received_at"`
	DeviceReading
}
