// Package physics holds the closed-form approximations used by the boiler model.
// All functions are pure; callers scale the results by the simulation step.
package physics

import (
	"errors"
	"math"
)

const (
	// PressurePerDegree is the bar change per °C of water temperature change.
	PressurePerDegree = 0.011
	// DecayRate is the per-second cooling exponent toward ambient.
	DecayRate = 0.000625
	// OvershootFactor lets the supply ramp aim slightly above the setpoint.
	OvershootFactor = 1.20
	// WaterHeatCapacity is the specific heat of water in J/(kg·°C).
	WaterHeatCapacity = 4186.0
)

// ErrNoThermalGradient is returned when setpoint equals ambient and no
// time constant can be derived.
var ErrNoThermalGradient = errors.New("setpoint equals ambient temperature")

// PressureDelta converts a temperature change into a pressure change (bar).
func PressureDelta(tempDelta float64) float64 {
	return tempDelta * PressurePerDegree
}

// TemperatureDecay returns the one-second temperature increment of water at
// current cooling toward ambient. Negative when current > ambient.
func TemperatureDecay(current, ambient float64) float64 {
	return (current - ambient) * (math.Exp(-DecayRate) - 1)
}

// TemperatureRise returns the one-second supply temperature increment while the
// burner heats capacity liters of water with power kW toward setpoint.
func TemperatureRise(setpoint, current, ambient, capacity, power float64) (float64, error) {
	diff := setpoint - ambient
	if diff == 0 {
		return 0, ErrNoThermalGradient
	}
	k := (power * 1000) / (capacity * WaterHeatCapacity * diff)
	return (setpoint*OvershootFactor - current) * (1 - math.Exp(-k)), nil
}
