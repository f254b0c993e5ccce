// Package machine models fueled steam engines: running engines consume
// fuel on a fixed cadence, pressure tracks the fuel level, and exhausted
// engines shut down with a one-shot event.
package machine

import (
	"fmt"

	"github.com/google/uuid"
)

// SteamEngine is a fueled machine.
//
// Invariant: FuelAmount stays in [0, FuelCapacity]; a stopped engine holds
// zero pressure.
type SteamEngine struct {
	ID                  uuid.UUID
	Name                string
	Running             bool
	FuelAmount          int
	FuelCapacity        int
	FuelConsumptionRate int
	MaxPressure         int
	CurrentPressure     int
}

// NewSteamEngine creates a stopped engine with an empty tank.
//
// Precondition: capacity > 0; consumptionRate > 0; maxPressure > 0.
func NewSteamEngine(name string, capacity, consumptionRate, maxPressure int) *SteamEngine {
	return &SteamEngine{
		ID:                  uuid.New(),
		Name:                name,
		FuelCapacity:        capacity,
		FuelConsumptionRate: consumptionRate,
		MaxPressure:         maxPressure,
	}
}

// Refuel adds fuel, capping at capacity, and returns the amount accepted.
//
// Precondition: amount >= 0.
func (e *SteamEngine) Refuel(amount int) int {
	space := e.FuelCapacity - e.FuelAmount
	if amount > space {
		amount = space
	}
	e.FuelAmount += amount
	return amount
}

// Start fires up the engine. Fails as a result value when the tank is empty.
func (e *SteamEngine) Start() bool {
	if e.FuelAmount <= 0 {
		return false
	}
	e.Running = true
	e.updatePressure()
	return true
}

// Stop shuts the engine down and vents pressure.
func (e *SteamEngine) Stop() {
	e.Running = false
	e.CurrentPressure = 0
}

// ConsumeTick burns one tick of fuel. Returns the shutdown message when the
// engine exhausts its fuel on this tick, otherwise "". Stopped engines are
// inert, so the shutdown event cannot refire.
//
// Postcondition: FuelAmount >= 0; pressure tracks the fuel fraction.
func (e *SteamEngine) ConsumeTick() string {
	if !e.Running {
		return ""
	}

	if e.FuelAmount >= e.FuelConsumptionRate {
		e.FuelAmount -= e.FuelConsumptionRate
		e.updatePressure()
		return ""
	}

	e.Running = false
	e.FuelAmount = 0
	e.CurrentPressure = 0
	return fmt.Sprintf("%s sputters and dies as it runs out of fuel!", e.Name)
}

// updatePressure recomputes pressure from the fuel fraction.
func (e *SteamEngine) updatePressure() {
	if e.FuelCapacity <= 0 {
		e.CurrentPressure = 0
		return
	}
	e.CurrentPressure = e.MaxPressure * e.FuelAmount / e.FuelCapacity
}
