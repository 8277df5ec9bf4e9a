package device

// Kind is the value family of a point.
type Kind int

const (
	KindAnalog Kind = iota
	KindBinary
	KindMultistate
)

func (k Kind) String() string {
	switch k {
	case KindAnalog:
		return "analog"
	case KindBinary:
		return "binary"
	case KindMultistate:
		return "multistate"
	default:
		return "unknown"
	}
}

// ObjectType mirrors the BACnet object type a point is exposed as.
type ObjectType string

const (
	AnalogInput     ObjectType = "analogInput"
	AnalogOutput    ObjectType = "analogOutput"
	AnalogValue     ObjectType = "analogValue"
	BinaryValue     ObjectType = "binaryValue"
	MultistateValue ObjectType = "multiStateValue"
)

// Point names as published by the boiler device.
const (
	PointSupplySetpoint   = "Supply Setpoint"
	PointSupplyTemp       = "Supply Temp"
	PointReturnTemp       = "Return Temp"
	PointStackTemp        = "Stack Temp"
	PointAirTemp          = "Air Temp"
	PointInletPressure    = "Inlet Pressure"
	PointOutletPressure   = "Outlet Pressure"
	PointFlowRate         = "Flow Rate"
	PointFanSpeed         = "Fan Speed"
	PointInstantPower     = "Boiler Instant Power"
	PointRequiredPressure = "Required Pressure"
	PointPowerOnSeconds   = "Power On Seconds"
	PointBurnerOnSeconds  = "Burner On Seconds"
	PointIgnitionStarts   = "Ignition Starts"
	PointPump             = "Pump"
	PointBurner           = "Burner"
	PointBoilerEnable     = "Boiler Enable"
	PointBoilerOverTemp   = "Boiler Over Temp"
	PointOperatingStatus  = "Operating Status"
	PointErrorMessage     = "Error Message"
	PointServiceMode      = "Service Mode"
)

// Definition describes one point of the device.
type Definition struct {
	Name        string     `json:"name"`
	Object      ObjectType `json:"object_type"`
	Kind        Kind       `json:"-"`
	Description string     `json:"description"`
	Units       string     `json:"units,omitempty"`
	Writable    bool       `json:"writable"`
	States      []string   `json:"states,omitempty"`
	Default     any        `json:"-"`
}

func analogInput(name, desc, units string, def float64) Definition {
	return Definition{Name: name, Object: AnalogInput, Kind: KindAnalog, Description: desc, Units: units, Default: def}
}

// BoilerPoints returns the point table of the simulated boiler.
func BoilerPoints() []Definition {
	return []Definition{
		{Name: PointSupplySetpoint, Object: AnalogOutput, Kind: KindAnalog, Description: "Water temperature setpoint", Units: "degreesCelsius", Writable: true, Default: 70.0},

		analogInput(PointSupplyTemp, "Temperature of the water leaving the boiler", "degreesCelsius", 20),
		analogInput(PointReturnTemp, "Temperature of the water returning to the boiler", "degreesCelsius", 20),
		analogInput(PointStackTemp, "Temperature of the exhaust gases", "degreesCelsius", 25),
		analogInput(PointAirTemp, "Ambient air temperature", "degreesCelsius", 25),
		analogInput(PointInletPressure, "Water pressure entering the boiler", "bars", 2),
		analogInput(PointOutletPressure, "Water pressure leaving the boiler", "bars", 1.5),
		analogInput(PointFlowRate, "Water flow rate", "litersPerMinute", 0),
		analogInput(PointFanSpeed, "Fan rotational speed", "revolutionsPerMinute", 0),
		analogInput(PointInstantPower, "Boiler instantaneous power", "kilowatts", 0),

		{Name: PointRequiredPressure, Object: AnalogValue, Kind: KindAnalog, Description: "Target pressure requested by the system", Units: "bars", Writable: true, Default: 1.2},
		{Name: PointPowerOnSeconds, Object: AnalogValue, Kind: KindAnalog, Description: "Total seconds the boiler has been powered on", Units: "seconds", Default: 0.0},
		{Name: PointBurnerOnSeconds, Object: AnalogValue, Kind: KindAnalog, Description: "Total seconds the burner has been active", Units: "seconds", Default: 0.0},
		{Name: PointIgnitionStarts, Object: AnalogValue, Kind: KindAnalog, Description: "Total number of burner ignitions", Default: 0.0},

		{Name: PointPump, Object: BinaryValue, Kind: KindBinary, Description: "Pump status", States: []string{"Off", "On"}, Default: false},
		{Name: PointBurner, Object: BinaryValue, Kind: KindBinary, Description: "Burner status", States: []string{"Off", "On"}, Default: false},
		{Name: PointBoilerEnable, Object: BinaryValue, Kind: KindBinary, Description: "Boiler enable command", States: []string{"Disabled", "Enabled"}, Writable: true, Default: true},
		{Name: PointBoilerOverTemp, Object: BinaryValue, Kind: KindBinary, Description: "Boiler over-temperature alarm", States: []string{"No", "Yes"}, Default: false},

		{Name: PointOperatingStatus, Object: MultistateValue, Kind: KindMultistate, Description: "Operational status of the boiler", States: operatingStatusText, Default: int(StatusUnreported)},
		{Name: PointErrorMessage, Object: MultistateValue, Kind: KindMultistate, Description: "Boiler error message", States: errorMessageText, Default: int(ErrorNone)},
		{Name: PointServiceMode, Object: MultistateValue, Kind: KindMultistate, Description: "Boiler service mode", States: serviceModeText, Default: int(ServiceNormalOperation)},
	}
}
