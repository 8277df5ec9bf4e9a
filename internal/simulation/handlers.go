package simulation

import (
	"bacnet_device_sim/internal/device"
	"bacnet_device_sim/internal/physics"
)

// ----------- Boiler model constants -----------
const (
	initializeDuration = 4 // simulated seconds before the boiler is ready

	startupPower   = 0.05   // kW drawn by controls while not firing
	startupWaterC  = 20.0   // °C supply/return after a restart
	nominalFlow    = 4.82   // l/min with the pump running
	nominalInletP  = 2.3    // bar
	nominalOutletP = 2.1    // bar
	faultInletP    = 1.3    // bar forced by the low-pressure scenario
	faultOutletP   = 1.1    // bar forced by the low-pressure scenario
	refillRate     = 0.0025 // bar per simulated second while the valve is open

	standbyStackCooling = 2.0 // °C per simulated second
	purgeStackCooling   = 5.0 // °C per tick
	burnThreshold       = 0.90

	purgeDuration  = 10
	purgeFanSpeed  = 3000.0 // rpm
	ignitionFanRPM = 1000.0 // rpm
	fanRampRate    = 1000.0 // rpm per simulated second

	burnerStartTime = 2
	maxStackC       = 120.0

	heatingPower    = 210.0 // kW
	rampCeiling     = 1.05
	returnRatio     = 0.60
	returnDelay     = 8
	heatingHoldTime = 20
)

// handle runs the active phase for one tick. Every phase except Off yields to
// the enable interlock before doing anything else.
func (s *Simulation) handle(step int) {
	if s.state.Phase != PhaseOff && !s.boiler.Enabled() {
		s.transition(PhaseOff)
		return
	}

	switch s.state.Phase {
	case PhaseOff:
		s.handleOff()
	case PhaseInitialize:
		s.handleInitialize(step)
	case PhaseStandby:
		s.handleStandby(step)
	case PhasePurging:
		s.handlePurging(step)
	case PhaseBurner:
		s.handleBurner(step)
	case PhaseHeating:
		s.handleHeating(step)
	case PhaseError:
		s.handleError(step)
	}
}

func (s *Simulation) handleOff() {
	b := s.boiler
	if b.OperatingStatus() != device.StatusOff {
		b.SetFanSpeed(0)
		b.SetPump(false)
		b.SetFlowRate(0)
		b.SetInstantPower(0)
		b.SetOperatingStatus(device.StatusOff)
		s.logInfo("boiler_off")
	}

	if b.Enabled() {
		s.transition(PhaseInitialize)
	}
}

func (s *Simulation) handleInitialize(step int) {
	b := s.boiler

	// The low-pressure scenario keeps the loop pressures down for as long as
	// the boiler is trying to start.
	if s.params.Mode == ModeLowPressureFault {
		b.SetInletPressure(faultInletP)
		b.SetOutletPressure(faultOutletP)
	}

	if b.OperatingStatus() != device.StatusInitialize {
		b.SetOperatingStatus(device.StatusInitialize)
		b.SetServiceMode(device.ServiceRestart)
		b.SetInstantPower(startupPower)
		b.SetSupplyTemperature(startupWaterC)
		b.SetReturnTemperature(startupWaterC)
		s.logInfo("boiler_starting", "mode", s.params.Mode)
	}

	required := b.RequiredPressure()
	if inlet, outlet := b.InletPressure(), b.OutletPressure(); inlet < required || outlet < required {
		s.logWarn("low_pressure_detected", "inlet", inlet, "outlet", outlet, "required", required)
		s.transition(PhaseError)
		return
	}

	s.state.elapsed += step
	if s.state.elapsed < initializeDuration {
		return
	}

	b.SetOperatingStatus(device.StatusRestart)
	b.SetAirTemperature(s.params.Ambient)
	b.SetSupplySetpoint(s.params.Setpoint)
	b.SetFlowRate(nominalFlow)
	b.SetInletPressure(nominalInletP)
	b.SetOutletPressure(nominalOutletP)
	b.SetPump(true)
	s.transition(PhaseStandby)
}

func (s *Simulation) handleStandby(step int) {
	b := s.boiler
	if b.OperatingStatus() != device.StatusStandby {
		b.SetOperatingStatus(device.StatusStandby)
		b.SetServiceMode(device.ServiceStandby)
		b.SetBurner(false)
		s.logInfo("boiler_ready")
	}

	setpoint := b.SupplySetpoint()
	supply := b.SupplyTemperature()
	ret := b.ReturnTemperature()
	stack := b.StackTemperature()
	air := b.AirTemperature()

	startBurn := supply < burnThreshold*setpoint

	supplyDelta := physics.TemperatureDecay(supply, air) * float64(step)
	returnDelta := physics.TemperatureDecay(ret, air) * float64(step)
	b.SetSupplyTemperature(supply + supplyDelta)
	b.SetReturnTemperature(ret + returnDelta)

	dp := physics.PressureDelta(supplyDelta)
	b.SetOutletPressure(b.OutletPressure() + dp)
	b.SetInletPressure(b.InletPressure() + dp)

	if stack > air {
		b.SetStackTemperature(stack - standbyStackCooling*float64(step))
	}

	s.state.elapsed += step
	if startBurn {
		s.transition(PhasePurging)
	}
}

func (s *Simulation) handlePurging(step int) {
	b := s.boiler

	if stack, air := b.StackTemperature(), b.AirTemperature(); stack > air {
		b.SetStackTemperature(stack - purgeStackCooling)
	}

	if b.OperatingStatus() != device.StatusPurging {
		b.SetOperatingStatus(device.StatusPurging)
		b.SetServiceMode(device.ServiceRestart)
		s.logInfo("purge_started")
	}

	fan := b.FanSpeed()
	ramp := fanRampRate * float64(step)
	switch {
	case !s.state.purgeComplete && fan < purgeFanSpeed:
		b.SetFanSpeed(min(fan+ramp, purgeFanSpeed))
	case s.state.purgeComplete && fan > ignitionFanRPM:
		b.SetFanSpeed(max(fan-ramp, ignitionFanRPM))
	}

	if !s.state.purgeComplete && s.state.elapsed >= purgeDuration {
		s.state.purgeComplete = true
	} else if s.state.purgeComplete && fan <= ignitionFanRPM {
		s.logInfo("purge_finished")
		s.transition(PhaseBurner)
		return
	}

	s.state.elapsed += step
}

func (s *Simulation) handleBurner(step int) {
	b := s.boiler
	if b.OperatingStatus() != device.StatusIgniting {
		b.SetOperatingStatus(device.StatusIgniting)
		s.logInfo("ignition_started")
	}

	if stack := b.StackTemperature(); stack <= maxStackC {
		b.SetStackTemperature(stack + maxStackC/burnerStartTime)
	}

	if s.state.elapsed > burnerStartTime {
		b.SetBurner(true)
		b.IncreaseIgnitionStarts()
		s.logInfo("burner_lit", "ignition_starts", b.IgnitionStarts())
		s.transition(PhaseHeating)
		return
	}
	s.state.elapsed += step
}

func (s *Simulation) handleHeating(step int) {
	b := s.boiler
	if b.OperatingStatus() != device.StatusHeating {
		b.SetOperatingStatus(device.StatusHeating)
		b.SetInstantPower(heatingPower)
		s.logInfo("heating_started")
	}

	setpoint := b.SupplySetpoint()
	air := b.AirTemperature()
	supply := b.SupplyTemperature()
	ret := b.ReturnTemperature()

	var inc float64
	rise, err := physics.TemperatureRise(setpoint, supply, air, s.params.Capacity, s.params.RatedPower)
	if err != nil {
		s.logDebug("heating_skipped", "err", err, "setpoint", setpoint, "air", air)
	} else {
		inc = rise * float64(step)
	}

	if supply < rampCeiling*setpoint {
		b.SetSupplyTemperature(supply + inc)
	} else if !s.state.rampComplete {
		s.state.rampComplete = true
		s.state.elapsed = 0
	}

	if (s.state.elapsed > returnDelay || s.state.rampComplete) && ret < returnRatio*supply {
		b.SetReturnTemperature(ret + inc)
	}

	if !s.state.rampComplete {
		dp := physics.PressureDelta(inc)
		b.SetOutletPressure(b.OutletPressure() + dp)
		b.SetInletPressure(b.InletPressure() + dp)
	}

	if s.state.rampComplete && s.state.elapsed >= heatingHoldTime {
		b.SetFanSpeed(0)
		s.transition(PhaseStandby)
		return
	}
	s.state.elapsed += step
}

func (s *Simulation) handleError(step int) {
	b := s.boiler
	if b.OperatingStatus() != device.StatusError {
		b.SetOperatingStatus(device.StatusError)
		b.SetBurner(false)
		b.SetPump(false)
		b.SetInstantPower(startupPower)
		b.SetErrorMessage(device.ErrorLowPressure)
		s.logWarn("low_pressure_error")
	}

	if !s.state.valveOpened {
		s.state.valveOpened = true
		s.state.targetPressure = b.InletPressure()
		s.logInfo("refill_valve_opened", "target", s.state.targetPressure)
	}

	target := s.state.targetPressure
	refill := refillRate * float64(step)
	if inlet := b.InletPressure(); inlet < target {
		b.SetInletPressure(inlet + refill)
	}
	if outlet := b.OutletPressure(); outlet < target {
		b.SetOutletPressure(outlet + refill)
	}

	if b.InletPressure() >= target && b.OutletPressure() >= target {
		b.SetErrorMessage(device.ErrorNone)
		s.logInfo("pressure_restored", "inlet", b.InletPressure(), "outlet", b.OutletPressure())
		s.transition(PhaseStandby)
	}
}
