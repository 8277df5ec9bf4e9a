package telemetry

import (
	"time"

	"bacnet_device_sim/internal/device"
	"bacnet_device_sim/internal/models"
)

// NewReading converts a point snapshot into the upload payload stamped with now.
func NewReading(snap device.Snapshot, now time.Time) models.DeviceReading {
	return models.DeviceReading{
		DeviceID:       snap.DeviceID,
		Timestamp:      now.UTC().Truncate(time.Millisecond),
		OperationMode:  int(snap.OperatingStatus),
		SupplyTemp:     snap.SupplyTemp,
		ReturnTemp:     snap.ReturnTemp,
		OutletPressure: snap.OutletPressure,
		InletPressure:  snap.InletPressure,
		InstantPower:   snap.InstantPower,
		PumpStatus:     snap.PumpOn,
		ErrorMessage:   int(snap.ErrorMessage),
	}
}
