package power

import (
	"context"
	"time"
)

// StaticDevice is a Device with fixed values. Nil optional fields are
// reported as unknown.
type StaticDevice struct {
	DeviceID            string
	VendorName          string
	ModelName           string
	Tech                Technology
	Status              State
	Rate                float64
	Charge              float64
	EnergyNow           float64
	EnergyFullNow       float64
	EnergyFullDesignNow float64
	Volts               float64
	Empty               *time.Duration
	Full                *time.Duration
	Cycles              *uint32
	TemperatureC        *float64
}

func (d StaticDevice) ID() string                { return d.DeviceID }
func (d StaticDevice) Vendor() (string, bool)    { return d.VendorName, d.VendorName != "" }
func (d StaticDevice) Model() (string, bool)     { return d.ModelName, d.ModelName != "" }
func (d StaticDevice) Technology() Technology    { return d.Tech }
func (d StaticDevice) State() State              { return d.Status }
func (d StaticDevice) EnergyRate() float64       { return d.Rate }
func (d StaticDevice) StateOfCharge() float64    { return d.Charge }
func (d StaticDevice) Energy() float64           { return d.EnergyNow }
func (d StaticDevice) EnergyFull() float64       { return d.EnergyFullNow }
func (d StaticDevice) EnergyFullDesign() float64 { return d.EnergyFullDesignNow }
func (d StaticDevice) Voltage() float64          { return d.Volts }

func (d StaticDevice) TimeToEmpty() (time.Duration, bool) { return deref(d.Empty) }
func (d StaticDevice) TimeToFull() (time.Duration, bool)  { return deref(d.Full) }
func (d StaticDevice) CycleCount() (uint32, bool)         { return deref(d.Cycles) }
func (d StaticDevice) Temperature() (float64, bool)       { return deref(d.TemperatureC) }

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}

	return *p, true
}

// StaticSource replays a scripted sequence of polls. Each call to Devices
// consumes one step; the last step repeats once the script is exhausted.
type StaticSource struct {
	Steps  []StaticStep
	Calls  int
	Closed bool
}

// StaticStep is the outcome of one poll.
type StaticStep struct {
	Devices []StaticDevice
	Err     error
}

// NewStaticSource returns a source whose polls return each device set in turn.
func NewStaticSource(sets ...[]StaticDevice) *StaticSource {
	s := &StaticSource{}
	for _, set := range sets {
		s.Steps = append(s.Steps, StaticStep{Devices: set})
	}

	return s
}

func (s *StaticSource) Devices(_ context.Context) ([]Device, error) {
	s.Calls++
	if len(s.Steps) == 0 {
		return nil, nil
	}

	step := s.Steps[min(s.Calls, len(s.Steps))-1]
	if step.Err != nil {
		return nil, step.Err
	}

	devices := make([]Device, len(step.Devices))
	for i, d := range step.Devices {
		devices[i] = d
	}

	return devices, nil
}

func (s *StaticSource) Close() error {
	s.Closed = true
	return nil
}
