package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codeberg.org/mutker/battmon/internal/logger"
	"codeberg.org/mutker/battmon/internal/telemetry"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	rateMargin    = 5
	voltageMargin = 1
	rateHeight    = 6
	deviceHeight  = 3
	voltageHeight = 4
)

// tickMsg carries the frame time of one tick.
type tickMsg time.Time

// Model is the top-level bubbletea model of the battery monitor. Samplings
// happen on the Update path, one per tick at most.
type Model struct {
	ctx          context.Context
	sampler      *telemetry.Sampler
	tickInterval time.Duration

	rate    *chartCache
	voltage *chartCache
	devices map[string]*chartCache

	help   help.Model
	width  int
	height int
	ready  bool
	err    error
}

// NewModel returns a model that drives sampler every tickInterval.
func NewModel(ctx context.Context, sampler *telemetry.Sampler, tickInterval time.Duration) Model {
	return Model{
		ctx:          ctx,
		sampler:      sampler,
		tickInterval: tickInterval,
		rate:         newChart("Energy Rate (Watts)", "W", rateMargin, rateHeight, colorPrimary, sampler.Rate()),
		voltage:      newChart("Voltage (Volts)", "V", voltageMargin, voltageHeight, colorSecondary, sampler.Voltage()),
		devices:      make(map[string]*chartCache),
		help:         help.New(),
	}
}

// Err returns the error that stopped the model, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model. It schedules the first tick.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model. Ticks drive the sampler; the next tick is
// only scheduled once the current one has been handled.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if _, _, err := m.sampler.MaybeSample(m.ctx, time.Time(msg)); err != nil {
			logger.Error().Err(err).Msg("Sampling failed, stopping")
			m.err = err
			return m, tea.Quit
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := styleTitle.Render("Battery Monitor")
	content := m.renderContent()
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m Model) renderContent() string {
	readings := m.sampler.Readings()
	if len(readings) == 0 {
		return styleContent.Render(styleMuted.Render(emptyMessage))
	}

	width := max(m.width-4, minPlotWidth+gutterWidth)
	sections := []string{m.rate.render(width)}
	for _, series := range m.sampler.DeviceSeries() {
		sections = append(sections, m.deviceChart(series).render(width))
	}
	sections = append(sections, m.voltage.render(width), renderPanels(readings))

	return styleContent.Render(strings.Join(sections, "\n\n"))
}

// deviceChart returns the cached chart of a per-device series, creating it
// on first use.
func (m Model) deviceChart(series *telemetry.Series) *chartCache {
	c, ok := m.devices[series.ID]
	if !ok {
		title := fmt.Sprintf("%s Energy Rate (Watts)", series.Name)
		c = newChart(title, "W", rateMargin, deviceHeight, colorPrimary, series.Buffer)
		m.devices[series.ID] = c
	}

	return c
}

func (m Model) renderFooter() string {
	var timestamp string
	if last := m.sampler.LastSample(); m.sampler.Initialized() {
		timestamp = fmt.Sprintf("  Updated: %s", last.Format("15:04:05"))
	}

	return styleFooter.Render(m.help.View(keys) + timestamp)
}
