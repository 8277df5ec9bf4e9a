package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"bacnet_device_sim/internal/device"
	"bacnet_device_sim/internal/logger"
	"bacnet_device_sim/internal/metrics"
)

// Mode selects the start-up scenario.
type Mode int

const (
	ModeNominal          Mode = 0
	ModeLowPressureFault Mode = 1
)

// ----------- Run defaults -----------
const (
	DefaultCapacity       = 300.0 // liters
	DefaultRatedPower     = 210.0 // kW
	DefaultAmbient        = 25.0  // °C
	DefaultSetpoint       = 70.0  // °C
	DefaultSpeedFactor    = 1
	DefaultReportInterval = 10 // simulated seconds between telemetry attempts
)

var (
	ErrInvalidMode        = errors.New("simulation mode must be 0 or 1")
	ErrInvalidSpeedFactor = errors.New("speed factor must be a positive integer")
)

// Parameters are the run settings of one simulated boiler.
type Parameters struct {
	Capacity       float64
	RatedPower     float64
	Ambient        float64
	Setpoint       float64
	Mode           Mode
	SpeedFactor    int
	ReportInterval int
}

func DefaultParameters() Parameters {
	return Parameters{
		Capacity:       DefaultCapacity,
		RatedPower:     DefaultRatedPower,
		Ambient:        DefaultAmbient,
		Setpoint:       DefaultSetpoint,
		Mode:           ModeNominal,
		SpeedFactor:    DefaultSpeedFactor,
		ReportInterval: DefaultReportInterval,
	}
}

// Validate rejects parameters the model cannot run with.
func (p Parameters) Validate() error {
	if p.Mode != ModeNominal && p.Mode != ModeLowPressureFault {
		return fmt.Errorf("%w: got %d", ErrInvalidMode, p.Mode)
	}
	if p.SpeedFactor <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSpeedFactor, p.SpeedFactor)
	}
	if p.Capacity <= 0 || p.RatedPower <= 0 {
		return fmt.Errorf("capacity and rated power must be positive: %v l, %v kW", p.Capacity, p.RatedPower)
	}
	if p.ReportInterval <= 0 {
		return fmt.Errorf("report interval must be positive: got %d", p.ReportInterval)
	}
	return nil
}

// Dispatcher ships device snapshots upstream without blocking the caller.
type Dispatcher interface {
	// Busy reports whether a send is still in flight.
	Busy() bool
	// Suppressed reports whether the consecutive-failure ceiling was reached.
	Suppressed() bool
	Failures() int
	// TryDispatch starts a send of snap unless one is already in flight.
	TryDispatch(ctx context.Context, snap device.Snapshot) bool
}

// Simulation owns the state machine of one boiler and the clock that drives it.
type Simulation struct {
	mu          sync.Mutex
	state       State
	boiler      *device.Boiler
	params      Parameters
	accumulator int
	ticks       uint64

	speed      atomic.Int64
	dispatcher Dispatcher
	log        *logger.Logger
}

// New builds a simulation that starts in Initialize. dispatcher and log may be nil.
func New(boiler *device.Boiler, params Parameters, dispatcher Dispatcher, log *logger.Logger) (*Simulation, error) {
	if boiler == nil {
		return nil, errors.New("simulation: nil boiler")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		state:      newState(PhaseInitialize),
		boiler:     boiler,
		params:     params,
		dispatcher: dispatcher,
		log:        log,
	}
	s.speed.Store(int64(params.SpeedFactor))
	return s, nil
}

// Run ticks once per tick of wall-clock time until ctx is canceled.
// A telemetry send still in flight at that point is abandoned.
func (s *Simulation) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	s.logInfo("simulation_started", "device_id", s.boiler.ID(), "tick", tick, "speed_factor", s.SpeedFactor())
	for {
		select {
		case <-ctx.Done():
			s.logInfo("simulation_stopped", "ticks", s.Ticks())
			return
		case <-t.C:
			s.Tick(ctx)
		}
	}
}

// Tick advances the model by one step of SpeedFactor simulated seconds.
func (s *Simulation) Tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	step := s.SpeedFactor()
	s.handle(step)
	s.ticks++
	metrics.IncTick()

	b := s.boiler
	if b.OperatingStatus() != device.StatusOff {
		b.IncreasePowerOnSeconds()
	}
	if b.BurnerOn() {
		b.IncreaseBurnerOnSeconds()
	}

	s.accumulator += step
	if s.accumulator < s.params.ReportInterval || s.dispatcher == nil {
		return
	}
	if s.dispatcher.Suppressed() {
		return
	}
	if !s.dispatcher.Busy() {
		s.dispatcher.TryDispatch(ctx, b.Snapshot())
	} else {
		metrics.IncDispatchSkipped(metrics.ResultSkipped)
		s.logDebug("telemetry_in_flight")
	}
	s.accumulator = 0
}

func (s *Simulation) transition(next Phase) {
	prev := s.state.Phase
	s.state = newState(next)
	s.logInfo("state_transition", "from", prev.String(), "to", next.String())
	metrics.ObserveTransition(prev.String(), next.String(), int(next))
}

// Phase returns the active phase.
func (s *Simulation) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Phase
}

// State returns a copy of the active state.
func (s *Simulation) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Simulation) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

func (s *Simulation) Boiler() *device.Boiler { return s.boiler }

func (s *Simulation) SpeedFactor() int { return int(s.speed.Load()) }

// SetSpeedFactor changes the simulated seconds per tick from the next tick on.
func (s *Simulation) SetSpeedFactor(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSpeedFactor, n)
	}
	if old := s.speed.Swap(int64(n)); old != int64(n) {
		s.logInfo("speed_factor_changed", "from", old, "to", n)
	}
	return nil
}

// Status is the read model exposed by the control API.
type Status struct {
	DeviceID        int     `json:"device_id"`
	Phase           string  `json:"phase"`
	PhaseElapsed    int     `json:"phase_elapsed"`
	OperatingStatus string  `json:"operating_status"`
	SpeedFactor     int     `json:"speed_factor"`
	Mode            Mode    `json:"simulation_mode"`
	Ticks           uint64  `json:"ticks"`
	Setpoint        float64 `json:"supply_setpoint"`
	Failures        int     `json:"telemetry_failures"`
	Suppressed      bool    `json:"telemetry_suppressed"`
	InFlight        bool    `json:"telemetry_in_flight"`
}

func (s *Simulation) Status() Status {
	s.mu.Lock()
	st := Status{
		DeviceID:     s.boiler.ID(),
		Phase:        s.state.Phase.String(),
		PhaseElapsed: s.state.elapsed,
		Mode:         s.params.Mode,
		Ticks:        s.ticks,
	}
	s.mu.Unlock()

	st.OperatingStatus = s.boiler.OperatingStatus().String()
	st.Setpoint = s.boiler.SupplySetpoint()
	st.SpeedFactor = s.SpeedFactor()
	if s.dispatcher != nil {
		st.Failures = s.dispatcher.Failures()
		st.Suppressed = s.dispatcher.Suppressed()
		st.InFlight = s.dispatcher.Busy()
	}
	return st
}

func (s *Simulation) logInfo(msg string, kv ...any) {
	if s.log != nil {
		s.log.Infow(msg, append([]any{"device_id", s.boiler.ID()}, kv...)...)
	}
}

func (s *Simulation) logWarn(msg string, kv ...any) {
	if s.log != nil {
		s.log.Warnw(msg, append([]any{"device_id", s.boiler.ID()}, kv...)...)
	}
}

func (s *Simulation) logDebug(msg string, kv ...any) {
	if s.log != nil {
		s.log.Debugw(msg, append([]any{"device_id", s.boiler.ID()}, kv...)...)
	}
}
