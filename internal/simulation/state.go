package simulation

// Phase tags the active state of the boiler state machine.
type Phase int

const (
	PhaseOff Phase = iota
	PhaseInitialize
	PhaseStandby
	PhasePurging
	PhaseBurner
	PhaseHeating
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseOff:
		return "off"
	case PhaseInitialize:
		return "initialize"
	case PhaseStandby:
		return "standby"
	case PhasePurging:
		return "purging"
	case PhaseBurner:
		return "burner"
	case PhaseHeating:
		return "heating"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the active phase together with the counters private to it.
// A transition replaces the whole value, so no phase inherits timers or flags
// from its predecessor.
type State struct {
	Phase Phase

	// elapsed is the simulated seconds spent in the phase (heating resets it
	// when the supply ramp completes).
	elapsed int

	purgeComplete bool // purging
	rampComplete  bool // heating

	valveOpened    bool // error
	targetPressure float64
}

func newState(p Phase) State {
	return State{Phase: p}
}

// Elapsed returns the phase timer in simulated seconds.
func (s State) Elapsed() int { return s.elapsed }
