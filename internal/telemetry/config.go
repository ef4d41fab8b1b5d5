package telemetry

import (
	"fmt"
	"time"

	"codeberg.org/mutker/battmon/internal/errors"
)

const (
	defaultInterval      = time.Second
	defaultRateWindow    = 2 * time.Minute
	defaultVoltageWindow = 10 * time.Minute
)

// SeriesMode selects how energy rate readings are charted.
type SeriesMode string

const (
	// SeriesShared charts all batteries as one series. The first non-empty
	// poll seeds it with each battery's rate; later polls add the mean.
	SeriesShared SeriesMode = "shared"
	// SeriesPerDevice keeps one series per battery alongside the mean.
	SeriesPerDevice SeriesMode = "per-device"
)

func (m SeriesMode) IsValid() bool {
	switch m {
	case SeriesShared, SeriesPerDevice:
		return true
	default:
		return false
	}
}

type Config struct {
	// Interval is the minimum time between two polls of the source.
	Interval time.Duration
	// RateWindow and VoltageWindow are the retention of each chart.
	RateWindow    time.Duration
	VoltageWindow time.Duration
	Series        SeriesMode
	// KeepStale keeps the last non-empty readings when a poll finds no
	// batteries instead of clearing them.
	KeepStale bool
}

func DefaultConfig() Config {
	return Config{
		Interval:      defaultInterval,
		RateWindow:    defaultRateWindow,
		VoltageWindow: defaultVoltageWindow,
		Series:        SeriesShared,
		KeepStale:     true,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, fmt.Sprintf("sample interval %s", c.Interval))
	}
	if c.RateWindow <= 0 {
		return errFactory.WithData(errors.ErrInvalidWindow, fmt.Sprintf("rate window %s", c.RateWindow))
	}
	if c.VoltageWindow <= 0 {
		return errFactory.WithData(errors.ErrInvalidWindow, fmt.Sprintf("voltage window %s", c.VoltageWindow))
	}
	if !c.Series.IsValid() {
		return errFactory.WithData(errors.ErrInvalidSeriesMode, string(c.Series))
	}

	return nil
}
