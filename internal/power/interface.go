package power

import (
	"context"
	"time"
)

// Source enumerates the power supplies currently known to the platform.
type Source interface {
	// Devices returns one handle per present battery. An empty result is
	// not an error; a failure to list devices or to read any one of them
	// is.
	Devices(ctx context.Context) ([]Device, error)
	Close() error
}

// Device is a read-only view of one battery at the moment it was listed.
// Accessors returning a bool report whether the platform knows the value.
type Device interface {
	ID() string
	Vendor() (string, bool)
	Model() (string, bool)
	Technology() Technology
	State() State

	// EnergyRate is the instantaneous charge or discharge rate in watts.
	EnergyRate() float64
	// StateOfCharge is the charge level as a ratio in [0, 1].
	StateOfCharge() float64
	// Energy, EnergyFull and EnergyFullDesign are in watt-hours.
	Energy() float64
	EnergyFull() float64
	EnergyFullDesign() float64
	Voltage() float64

	TimeToEmpty() (time.Duration, bool)
	TimeToFull() (time.Duration, bool)
	CycleCount() (uint32, bool)
	// Temperature is in degrees Celsius.
	Temperature() (float64, bool)
}

// State is the operating state of a battery.
type State uint8

const (
	StateUnknown State = iota
	StateCharging
	StateDischarging
	StateEmpty
	StateFull
)

func (s State) String() string {
	switch s {
	case StateCharging:
		return "Charging"
	case StateDischarging:
		return "Discharging"
	case StateEmpty:
		return "Empty"
	case StateFull:
		return "Full"
	default:
		return "Unknown"
	}
}

// Technology is the cell chemistry reported for a battery.
type Technology uint8

const (
	TechnologyUnknown Technology = iota
	TechnologyLithiumIon
	TechnologyLithiumPolymer
	TechnologyLithiumIronPhosphate
	TechnologyLeadAcid
	TechnologyNickelCadmium
	TechnologyNickelMetalHydride
)

func (t Technology) String() string {
	switch t {
	case TechnologyLithiumIon:
		return "LithiumIon"
	case TechnologyLithiumPolymer:
		return "LithiumPolymer"
	case TechnologyLithiumIronPhosphate:
		return "LithiumIronPhosphate"
	case TechnologyLeadAcid:
		return "LeadAcid"
	case TechnologyNickelCadmium:
		return "NickelCadmium"
	case TechnologyNickelMetalHydride:
		return "NickelMetalHydride"
	default:
		return "Unknown"
	}
}
