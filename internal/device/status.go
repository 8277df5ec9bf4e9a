package device

// OperatingStatus is the present value of the Operating Status multistate point.
// Values are 1-based like BACnet multistate objects; zero means the device has
// not reported a status yet.
type OperatingStatus int

const (
	StatusUnreported OperatingStatus = iota
	StatusStandby
	StatusPurging
	StatusIgniting
	StatusHeating
	StatusError
	StatusInitialize
	StatusRestart
	StatusOff
)

var operatingStatusText = []string{"Standby", "Purging", "Igniting", "Heating", "Error", "Initialize", "Restart", "Off"}

func (s OperatingStatus) String() string {
	return stateText(operatingStatusText, int(s))
}

// Valid reports whether s is one of the published states.
func (s OperatingStatus) Valid() bool {
	return s >= StatusStandby && s <= StatusOff
}

// ErrorCode is the present value of the Error Message point.
type ErrorCode int

const (
	ErrorNone ErrorCode = iota + 1
	ErrorLowPressure
)

var errorMessageText = []string{"None", "Low Water Pressure"}

func (e ErrorCode) String() string {
	return stateText(errorMessageText, int(e))
}

// ServiceModeValue is the present value of the Service Mode point.
type ServiceModeValue int

const (
	ServiceNormalOperation ServiceModeValue = iota + 1
	ServiceStandby
	ServiceRestart
)

var serviceModeText = []string{"Normal Operation", "Service Standby", "Restart"}

func (m ServiceModeValue) String() string {
	return stateText(serviceModeText, int(m))
}

func stateText(text []string, v int) string {
	if v < 1 || v > len(text) {
		return "Unknown"
	}
	return text[v-1]
}
