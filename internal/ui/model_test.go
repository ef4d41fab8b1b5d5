package ui

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"codeberg.org/mutker/battmon/internal/errors"
	"codeberg.org/mutker/battmon/internal/power"
	"codeberg.org/mutker/battmon/internal/telemetry"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isQuitCmd executes a tea.Cmd and returns true if it produces a tea.QuitMsg.
func isQuitCmd(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	msg := cmd()
	_, ok := msg.(tea.QuitMsg)
	return ok
}

func battery(id string, rate float64) power.StaticDevice {
	return power.StaticDevice{
		DeviceID:   id,
		VendorName: "SMP",
		ModelName:  "5B10W13930",
		Status:     power.StateDischarging,
		Rate:       rate,
		Charge:     0.8,
		Volts:      12.4,
	}
}

func newTestModel(t *testing.T, src power.Source, mutate func(*telemetry.Config)) Model {
	t.Helper()

	cfg := telemetry.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := telemetry.NewSampler(src, cfg, epoch)
	require.NoError(t, err)

	return NewModel(context.Background(), s, 20*time.Millisecond)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()

	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok)

	return next, cmd
}

func TestModel_Init(t *testing.T) {
	m := newTestModel(t, power.NewStaticSource(), nil)
	assert.NotNil(t, m.Init(), "Init schedules the first tick")
}

func TestModel_Update_Quit(t *testing.T) {
	m := newTestModel(t, power.NewStaticSource(), nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.True(t, isQuitCmd(cmd), "expected 'q' key to produce tea.Quit command")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, isQuitCmd(cmd), "expected ctrl+c to produce tea.Quit command")
}

func TestModel_Update_Help(t *testing.T) {
	m := newTestModel(t, power.NewStaticSource(), nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.True(t, m.help.ShowAll)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.False(t, m.help.ShowAll)
}

func TestModel_Update_WindowSize(t *testing.T) {
	m := newTestModel(t, power.NewStaticSource(), nil)
	assert.Equal(t, "Initializing...", m.View())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.True(t, m.ready)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}

func TestModel_TickSamplesAndReschedules(t *testing.T) {
	src := power.NewStaticSource([]power.StaticDevice{battery("BAT0", 9)})
	m := newTestModel(t, src, nil)

	m, cmd := update(t, m, tickMsg(epoch.Add(500*time.Millisecond)))
	assert.NotNil(t, cmd)
	assert.Zero(t, src.Calls, "tick inside the interval is throttled")

	m, cmd = update(t, m, tickMsg(epoch.Add(1100*time.Millisecond)))
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, src.Calls)
	assert.Len(t, m.sampler.Readings(), 1)
	assert.NoError(t, m.Err())
}

func TestModel_TickErrorQuits(t *testing.T) {
	src := &power.StaticSource{Steps: []power.StaticStep{{Err: stderrors.New("bus gone")}}}
	m := newTestModel(t, src, nil)

	m, cmd := update(t, m, tickMsg(epoch.Add(2*time.Second)))
	assert.True(t, isQuitCmd(cmd))
	require.Error(t, m.Err())
	assert.True(t, errors.HasCode(m.Err(), telemetry.ErrSamplingPass))
}

func TestModel_ViewEmpty(t *testing.T) {
	m := newTestModel(t, power.NewStaticSource(), nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	out := m.View()
	assert.Contains(t, out, "Battery Monitor")
	assert.Contains(t, out, emptyMessage)
}

func TestModel_ViewReadings(t *testing.T) {
	src := power.NewStaticSource([]power.StaticDevice{battery("BAT0", 9), battery("BAT1", 11)})
	m := newTestModel(t, src, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(t, m, tickMsg(epoch.Add(2*time.Second)))

	out := m.View()
	for _, want := range []string{
		"Energy Rate (Watts)",
		"Voltage (Volts)",
		"1. Battery SMP",
		"2. Battery SMP",
		"Updated: 09:30:02",
	} {
		assert.Contains(t, out, want)
	}
	assert.False(t, m.sampler.Rate().Dirty(), "view marks rendered buffers clean")
}

func TestModel_ViewPerDeviceCharts(t *testing.T) {
	src := power.NewStaticSource([]power.StaticDevice{battery("BAT0", 9), battery("BAT1", 11)})
	m := newTestModel(t, src, func(c *telemetry.Config) { c.Series = telemetry.SeriesPerDevice })
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = update(t, m, tickMsg(epoch.Add(2*time.Second)))

	m.View()
	assert.Len(t, m.devices, 2)
	for _, series := range m.sampler.DeviceSeries() {
		assert.False(t, series.Buffer.Dirty())
	}
}
