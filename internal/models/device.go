package models

import "time"

// Device is the collector's registry entry for a reporting boiler.
type Device struct {
	DeviceID    int       `json:"device_id"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
	LastMode    int       `json:"last_operation_mode"`
	LastError   int       `json:"last_error_message"`
	UploadCount int       `json:"upload_count"`
}
