package telemetry

import (
	"fmt"
	"time"

	"codeberg.org/mutker/battmon/internal/power"
)

const unknown = "Unknown"

// Reading is one battery's telemetry at a sampling instant, in watts,
// watt-hours, volts and degrees Celsius. Optional fields are nil when the
// platform does not report them.
type Reading struct {
	ID               string
	Name             string
	Model            string
	Technology       string
	State            power.State
	EnergyRate       float64
	Percentage       float64
	Energy           float64
	EnergyFull       float64
	EnergyFullDesign float64
	Voltage          float64
	TimeToEmpty      *time.Duration
	TimeToFull       *time.Duration
	CycleCount       *uint32
	Temperature      *float64
}

// FromDevice normalizes a device handle into a Reading.
func FromDevice(d power.Device) Reading {
	vendor, ok := d.Vendor()
	if !ok {
		vendor = unknown
	}
	model, ok := d.Model()
	if !ok {
		model = unknown
	}

	return Reading{
		ID:               d.ID(),
		Name:             fmt.Sprintf("Battery %s", vendor),
		Model:            model,
		Technology:       d.Technology().String(),
		State:            d.State(),
		EnergyRate:       d.EnergyRate(),
		Percentage:       d.StateOfCharge() * 100,
		Energy:           d.Energy(),
		EnergyFull:       d.EnergyFull(),
		EnergyFullDesign: d.EnergyFullDesign(),
		Voltage:          d.Voltage(),
		TimeToEmpty:      optional(d.TimeToEmpty()),
		TimeToFull:       optional(d.TimeToFull()),
		CycleCount:       optional(d.CycleCount()),
		Temperature:      optional(d.Temperature()),
	}
}

func optional[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}

	return &v
}

// Health is the full charge capacity as a percentage of the design
// capacity. It is unknown when the design capacity is not reported.
func (r Reading) Health() (float64, bool) {
	if r.EnergyFullDesign <= 0 {
		return 0, false
	}

	return r.EnergyFull * 100 / r.EnergyFullDesign, true
}

// TimeRemaining is the time to empty while discharging and the time to
// full while charging.
func (r Reading) TimeRemaining() (time.Duration, bool) {
	var d *time.Duration
	switch r.State {
	case power.StateDischarging:
		d = r.TimeToEmpty
	case power.StateCharging:
		d = r.TimeToFull
	}
	if d == nil {
		return 0, false
	}

	return *d, true
}

func meanOf(readings []Reading, field func(Reading) float64) float64 {
	var sum float64
	for _, r := range readings {
		sum += field(r)
	}

	return sum / float64(len(readings))
}
