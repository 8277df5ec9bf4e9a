package device

import "fmt"

var requiredPoints = map[string]Kind{
	PointSupplySetpoint:   KindAnalog,
	PointSupplyTemp:       KindAnalog,
	PointReturnTemp:       KindAnalog,
	PointStackTemp:        KindAnalog,
	PointAirTemp:          KindAnalog,
	PointInletPressure:    KindAnalog,
	PointOutletPressure:   KindAnalog,
	PointFlowRate:         KindAnalog,
	PointFanSpeed:         KindAnalog,
	PointInstantPower:     KindAnalog,
	PointRequiredPressure: KindAnalog,
	PointPowerOnSeconds:   KindAnalog,
	PointBurnerOnSeconds:  KindAnalog,
	PointIgnitionStarts:   KindAnalog,
	PointPump:             KindBinary,
	PointBurner:           KindBinary,
	PointBoilerEnable:     KindBinary,
	PointOperatingStatus:  KindMultistate,
	PointErrorMessage:     KindMultistate,
	PointServiceMode:      KindMultistate,
}

// Boiler is the typed view of a Store used by the simulation.
type Boiler struct {
	id    int
	store *Store
}

// NewBoiler checks that store publishes every point the simulation needs.
// A missing or mistyped point is a configuration mismatch and must stop startup.
func NewBoiler(id int, store *Store) (*Boiler, error) {
	for name, kind := range requiredPoints {
		if err := store.require(name, kind); err != nil {
			return nil, fmt.Errorf("boiler point table: %w", err)
		}
	}
	return &Boiler{id: id, store: store}, nil
}

// NewDefaultBoiler builds a boiler over a fresh store with the default point table.
func NewDefaultBoiler(id int) (*Boiler, error) {
	store, err := NewStore(BoilerPoints())
	if err != nil {
		return nil, err
	}
	return NewBoiler(id, store)
}

func (b *Boiler) ID() int { return b.id }
func (b *Boiler) Store() *Store { return b.store }

func (b *Boiler) Enabled() bool { return b.store.bool(PointBoilerEnable) }
func (b *Boiler) SetEnabled(on bool) { b.store.setBool(PointBoilerEnable, on) }
func (b *Boiler) PumpOn() bool { return b.store.bool(PointPump) }
func (b *Boiler) SetPump(on bool) { b.store.setBool(PointPump, on) }
func (b *Boiler) BurnerOn() bool { return b.store.bool(PointBurner) }
func (b *Boiler) SetBurner(on bool) { b.store.setBool(PointBurner, on) }

func (b *Boiler) OperatingStatus() OperatingStatus {
	return OperatingStatus(b.store.state(PointOperatingStatus))
}

// SetOperatingStatus ignores values outside the published state text.
func (b *Boiler) SetOperatingStatus(s OperatingStatus) {
	if s.Valid() {
		b.store.setState(PointOperatingStatus, int(s))
	}
}

func (b *Boiler) ErrorMessage() ErrorCode { return ErrorCode(b.store.state(PointErrorMessage)) }
func (b *Boiler) SetErrorMessage(e ErrorCode) { b.store.setState(PointErrorMessage, int(e)) }
func (b *Boiler) ServiceMode() ServiceModeValue { return ServiceModeValue(b.store.state(PointServiceMode)) }
func (b *Boiler) SetServiceMode(m ServiceModeValue) { b.store.setState(PointServiceMode, int(m)) }

func (b *Boiler) SupplySetpoint() float64 { return b.store.float(PointSupplySetpoint) }
func (b *Boiler) SetSupplySetpoint(v float64) { b.store.setFloat(PointSupplySetpoint, v) }
func (b *Boiler) SupplyTemperature() float64 { return b.store.float(PointSupplyTemp) }
func (b *Boiler) SetSupplyTemperature(v float64) { b.store.setFloat(PointSupplyTemp, v) }
func (b *Boiler) ReturnTemperature() float64 { return b.store.float(PointReturnTemp) }
func (b *Boiler) SetReturnTemperature(v float64) { b.store.setFloat(PointReturnTemp, v) }
func (b *Boiler) StackTemperature() float64 { return b.store.float(PointStackTemp) }
func (b *Boiler) SetStackTemperature(v float64) { b.store.setFloat(PointStackTemp, v) }
func (b *Boiler) AirTemperature() float64 { return b.store.float(PointAirTemp) }
func (b *Boiler) SetAirTemperature(v float64) { b.store.setFloat(PointAirTemp, v) }
func (b *Boiler) InletPressure() float64 { return b.store.float(PointInletPressure) }
func (b *Boiler) SetInletPressure(v float64) { b.store.setFloat(PointInletPressure, v) }
func (b *Boiler) OutletPressure() float64 { return b.store.float(PointOutletPressure) }
func (b *Boiler) SetOutletPressure(v float64) { b.store.setFloat(PointOutletPressure, v) }
func (b *Boiler) RequiredPressure() float64 { return b.store.float(PointRequiredPressure) }
func (b *Boiler) FlowRate() float64 { return b.store.float(PointFlowRate) }
func (b *Boiler) SetFlowRate(v float64) { b.store.setFloat(PointFlowRate, v) }
func (b *Boiler) FanSpeed() float64 { return b.store.float(PointFanSpeed) }
func (b *Boiler) SetFanSpeed(v float64) { b.store.setFloat(PointFanSpeed, v) }
func (b *Boiler) InstantPower() float64 { return b.store.float(PointInstantPower) }
func (b *Boiler) SetInstantPower(v float64) { b.store.setFloat(PointInstantPower, v) }

func (b *Boiler) IgnitionStarts() int { return int(b.store.float(PointIgnitionStarts)) }
func (b *Boiler) IncreaseIgnitionStarts() { b.store.addFloat(PointIgnitionStarts, 1) }
func (b *Boiler) PowerOnSeconds() float64 { return b.store.float(PointPowerOnSeconds) }
func (b *Boiler) IncreasePowerOnSeconds() { b.store.addFloat(PointPowerOnSeconds, 1) }
func (b *Boiler) BurnerOnSeconds() float64 { return b.store.float(PointBurnerOnSeconds) }
func (b *Boiler) IncreaseBurnerOnSeconds() { b.store.addFloat(PointBurnerOnSeconds, 1) }

// Snapshot is a consistent copy of the points reported upstream.
type Snapshot struct {
	DeviceID        int
	OperatingStatus OperatingStatus
	SupplyTemp      float64
	ReturnTemp      float64
	InletPressure   float64
	OutletPressure  float64
	InstantPower    float64
	PumpOn          bool
	ErrorMessage    ErrorCode
}

// Snapshot reads the reported points under one lock so a concurrent write
// cannot tear the copy.
func (b *Boiler) Snapshot() Snapshot {
	s := b.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := func(name string) float64 { v, _ := s.points[name].value.(float64); return v }
	st := func(name string) int { v, _ := s.points[name].value.(int); return v }
	pump, _ := s.points[PointPump].value.(bool)
	return Snapshot{
		DeviceID:        b.id,
		OperatingStatus: OperatingStatus(st(PointOperatingStatus)),
		SupplyTemp:      f(PointSupplyTemp),
		ReturnTemp:      f(PointReturnTemp),
		InletPressure:   f(PointInletPressure),
		OutletPressure:  f(PointOutletPressure),
		InstantPower:    f(PointInstantPower),
		PumpOn:          pump,
		ErrorMessage:    ErrorCode(st(PointErrorMessage)),
	}
}
