package ui

import (
	"fmt"
	"strings"
	"time"

	"codeberg.org/mutker/battmon/internal/power"
	"codeberg.org/mutker/battmon/internal/telemetry"
	"github.com/charmbracelet/lipgloss"
)

const (
	unknownValue = "Unknown"
	emptyMessage = "No batteries detected or still initializing..."
	lowCharge    = 20
	columnWidth  = 36
)

// FormatDuration renders d as "Xh Ym", or "Ym" below one hour.
func FormatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	hours := minutes / 60
	minutes %= 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}

	return fmt.Sprintf("%dm", minutes)
}

// statusLine describes the charge state and the time left, which reads
// "Unknown" when the platform gives no estimate.
func statusLine(r telemetry.Reading) string {
	remaining := unknownValue
	if d, ok := r.TimeRemaining(); ok {
		remaining = FormatDuration(d)
	}

	switch r.State {
	case power.StateCharging:
		return fmt.Sprintf("Charging - %s until full", remaining)
	case power.StateDischarging:
		return fmt.Sprintf("Discharging - %s remaining", remaining)
	case power.StateFull:
		return "Fully Charged"
	default:
		return r.State.String()
	}
}

func statusColor(r telemetry.Reading) lipgloss.Color {
	switch {
	case r.State == power.StateCharging:
		return colorCharging
	case r.State == power.StateFull:
		return colorFull
	case r.Percentage < lowCharge:
		return colorLow
	default:
		return colorDraining
	}
}

type field struct {
	label string
	value string
}

// fields lists the reading's values in panel order.
func fields(r telemetry.Reading) []field {
	health := unknownValue
	if h, ok := r.Health(); ok {
		health = fmt.Sprintf("%.1f%%", h)
	}

	cycles := unknownValue
	if r.CycleCount != nil {
		cycles = fmt.Sprintf("%d", *r.CycleCount)
	}

	temperature := unknownValue
	if r.Temperature != nil {
		temperature = fmt.Sprintf("%.1f °C", *r.Temperature)
	}

	return []field{
		{"Health", health},
		{"Charge", fmt.Sprintf("%.1f%%", r.Percentage)},
		{"Voltage", fmt.Sprintf("%.2f V", r.Voltage)},
		{"Energy Rate", fmt.Sprintf("%.2f W", r.EnergyRate)},
		{"Energy", fmt.Sprintf("%.2f Wh / %.2f Wh", r.Energy, r.EnergyFull)},
		{"Energy Full (design)", fmt.Sprintf("%.2f Wh", r.EnergyFullDesign)},
		{"Technology", r.Technology},
		{"Model", r.Model},
		{"Cycle Count", cycles},
		{"Temperature", temperature},
	}
}

// renderPanel draws the status line and value columns of one reading.
func renderPanel(index int, r telemetry.Reading) string {
	title := styleSubtitle.Render(fmt.Sprintf("%d. %s", index+1, r.Name))
	status := lipgloss.NewStyle().Bold(true).Foreground(statusColor(r)).Render(statusLine(r))

	fs := fields(r)
	perColumn := (len(fs) + 2) / 3
	columns := make([]string, 0, 3)
	for start := 0; start < len(fs); start += perColumn {
		end := min(start+perColumn, len(fs))

		lines := make([]string, 0, end-start)
		for _, f := range fs[start:end] {
			lines = append(lines, styleLabel.Render(f.label+": ")+f.value)
		}
		columns = append(columns, lipgloss.NewStyle().Width(columnWidth).Render(strings.Join(lines, "\n")))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		status,
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
	)
}

// renderPanels draws every reading of the snapshot.
func renderPanels(readings []telemetry.Reading) string {
	if len(readings) == 0 {
		return styleMuted.Render(emptyMessage)
	}

	panels := make([]string, 0, len(readings))
	for i, r := range readings {
		panels = append(panels, renderPanel(i, r))
	}

	return strings.Join(panels, "\n\n")
}
