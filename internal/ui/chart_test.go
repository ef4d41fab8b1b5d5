package ui

import (
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/battmon/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 11, 2, 9, 30, 0, 0, time.UTC)

func TestAxisRange(t *testing.T) {
	tests := []struct {
		name           string
		lo, hi, margin float64
		wantMin        float64
		wantMax        float64
	}{
		{"rate margin", 12.3, 18.7, rateMargin, 7, 24},
		{"floor clamped at zero", 2, 3, rateMargin, 0, 8},
		{"voltage margin", 11.4, 12.6, voltageMargin, 10, 14},
		{"flat series widened", 10, 10, 0, 10, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yMin, yMax := axisRange(tt.lo, tt.hi, tt.margin)
			assert.Equal(t, tt.wantMin, yMin)
			assert.Equal(t, tt.wantMax, yMax)
		})
	}
}

func TestPlotRows(t *testing.T) {
	rows := plotRows([]float64{0, 5, 10}, 0, 10, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, " ▄█", rows[0])

	rows = plotRows([]float64{0, 5, 10, 20}, 0, 10, 2)
	require.Len(t, rows, 2)
	assert.Equal(t, "  ██", rows[0], "top row")
	assert.Equal(t, " ███", rows[1], "bottom row")
}

func TestTimeAxis(t *testing.T) {
	assert.Equal(t, "09:30:00    09:31:00", timeAxis("09:30:00", "09:31:00", 20))
	assert.Equal(t, "09:30:00 09:31:00", timeAxis("09:30:00", "09:31:00", 4))
}

func TestChartWaitsForSamples(t *testing.T) {
	c := newChart("Energy Rate (Watts)", "W", rateMargin, rateHeight, colorPrimary, window.New[float64](time.Minute))

	out := c.render(60)
	assert.Contains(t, out, "Energy Rate (Watts)")
	assert.Contains(t, out, "Waiting for samples...")
}

func TestChartRendersAxis(t *testing.T) {
	buf := window.New[float64](time.Minute)
	buf.Insert(epoch, 12)
	buf.Insert(epoch.Add(30*time.Second), 18)

	out := newChart("Energy Rate (Watts)", "W", rateMargin, rateHeight, colorPrimary, buf).render(60)

	assert.Contains(t, out, "09:30:00")
	assert.Contains(t, out, "09:30:30")
	assert.Contains(t, out, "now 18.00 W")
	assert.Contains(t, out, "23")
	assert.Contains(t, out, "7")
}

func TestChartScalesToPlottedPoints(t *testing.T) {
	buf := window.New[float64](2 * time.Minute)
	for i := 0; i < 120; i++ {
		v := 100.0
		if i >= 60 {
			v = 1
		}
		buf.Insert(epoch.Add(time.Duration(i)*time.Second), v)
	}

	// 40 columns leave 33 for the plot
	out := newChart("Energy Rate (Watts)", "W", rateMargin, rateHeight, colorPrimary, buf).render(40)

	assert.Contains(t, out, "09:31:27", "axis starts at the first plotted point")
	assert.Contains(t, out, "09:31:59")
	assert.NotContains(t, out, "09:30:00")
	assert.NotContains(t, out, "105", "off-screen values do not widen the scale")
	assert.Contains(t, out, "  6 ┤")
	assert.Contains(t, out, strings.Repeat("█", 33))
}

func TestChartCache(t *testing.T) {
	buf := window.New[float64](time.Minute)
	buf.Insert(epoch, 10)

	c := newChart("Voltage (Volts)", "V", voltageMargin, voltageHeight, colorSecondary, buf)
	first := c.render(40)
	assert.False(t, buf.Dirty(), "render marks the buffer clean")

	c.cached = "sentinel"
	assert.Equal(t, "sentinel", c.render(40), "clean buffer and same width reuse the cache")

	assert.NotEqual(t, "sentinel", c.render(50), "width change redraws")

	buf.Insert(epoch.Add(time.Second), 12)
	assert.True(t, buf.Dirty())
	redrawn := c.render(40)
	assert.NotEqual(t, first, redrawn, "insert invalidates the cache")
	assert.False(t, buf.Dirty())
}
