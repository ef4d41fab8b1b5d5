package telemetry

import (
	"testing"
	"time"

	"codeberg.org/mutker/battmon/internal/power"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestFromDevice(t *testing.T) {
	d := power.StaticDevice{
		DeviceID:            "BAT0",
		VendorName:          "SMP",
		ModelName:           "5B10W13930",
		Tech:                power.TechnologyLithiumPolymer,
		Status:              power.StateDischarging,
		Rate:                9.75,
		Charge:              0.815,
		EnergyNow:           40.75,
		EnergyFullNow:       50,
		EnergyFullDesignNow: 57,
		Volts:               12.45,
		Empty:               ptr(2*time.Hour + 15*time.Minute),
		Cycles:              ptr(uint32(212)),
		TemperatureC:        ptr(31.5),
	}

	r := FromDevice(d)

	assert.Equal(t, "BAT0", r.ID)
	assert.Equal(t, "Battery SMP", r.Name)
	assert.Equal(t, "5B10W13930", r.Model)
	assert.Equal(t, "LithiumPolymer", r.Technology)
	assert.Equal(t, power.StateDischarging, r.State)
	assert.Equal(t, 9.75, r.EnergyRate)
	assert.InDelta(t, 81.5, r.Percentage, 1e-9)
	assert.Equal(t, 40.75, r.Energy)
	assert.Equal(t, 50.0, r.EnergyFull)
	assert.Equal(t, 57.0, r.EnergyFullDesign)
	assert.Equal(t, 12.45, r.Voltage)

	require.NotNil(t, r.TimeToEmpty)
	assert.Equal(t, 2*time.Hour+15*time.Minute, *r.TimeToEmpty)
	assert.Nil(t, r.TimeToFull)
	require.NotNil(t, r.CycleCount)
	assert.Equal(t, uint32(212), *r.CycleCount)
	require.NotNil(t, r.Temperature)
	assert.Equal(t, 31.5, *r.Temperature)
}

func TestFromDeviceUnknowns(t *testing.T) {
	r := FromDevice(power.StaticDevice{})

	assert.Equal(t, "Battery Unknown", r.Name)
	assert.Equal(t, "Unknown", r.Model)
	assert.Equal(t, "Unknown", r.Technology)
	assert.Nil(t, r.TimeToEmpty)
	assert.Nil(t, r.TimeToFull)
	assert.Nil(t, r.CycleCount, "absent cycle count must not read as zero")
	assert.Nil(t, r.Temperature)
}

func TestFromDeviceKeepsReportedZero(t *testing.T) {
	r := FromDevice(power.StaticDevice{Cycles: ptr(uint32(0)), TemperatureC: ptr(0.0)})

	require.NotNil(t, r.CycleCount)
	assert.Equal(t, uint32(0), *r.CycleCount)
	require.NotNil(t, r.Temperature)
	assert.Equal(t, 0.0, *r.Temperature)
}

func TestHealth(t *testing.T) {
	h, ok := Reading{EnergyFull: 45, EnergyFullDesign: 60}.Health()
	require.True(t, ok)
	assert.Equal(t, 75.0, h)

	_, ok = Reading{EnergyFull: 45}.Health()
	assert.False(t, ok)
}

func TestTimeRemaining(t *testing.T) {
	empty := 40 * time.Minute
	full := 90 * time.Minute

	tests := []struct {
		name  string
		state power.State
		want  time.Duration
		ok    bool
	}{
		{"discharging uses time to empty", power.StateDischarging, empty, true},
		{"charging uses time to full", power.StateCharging, full, true},
		{"full has none", power.StateFull, 0, false},
		{"unknown has none", power.StateUnknown, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reading{State: tt.state, TimeToEmpty: &empty, TimeToFull: &full}
			got, ok := r.TimeRemaining()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Reading{State: power.StateCharging}.TimeRemaining()
	assert.False(t, ok, "charging without a reported estimate")
}

func TestMeanOf(t *testing.T) {
	readings := []Reading{{EnergyRate: 10}, {EnergyRate: 20}, {EnergyRate: 45}}
	assert.Equal(t, 25.0, meanOf(readings, func(r Reading) float64 { return r.EnergyRate }))
}
