package telemetry

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/mutker/battmon/internal/errors"
	"codeberg.org/mutker/battmon/internal/logger"
	"codeberg.org/mutker/battmon/internal/power"
	"codeberg.org/mutker/battmon/internal/window"
)

// Sample is the outcome of one accepted sampling pass.
type Sample struct {
	Time     time.Time
	Readings []Reading
	// Aggregate is the mean energy rate pushed to the rate chart. It is
	// only set when Aggregated is true.
	Aggregate  float64
	Aggregated bool
}

// Series is the energy rate chart of a single battery.
type Series struct {
	ID     string
	Name   string
	Buffer *window.Buffer[float64]
}

// Sampler polls a power source at most once per interval and feeds the
// chart buffers. It is driven by a frame-paced tick and is not safe for
// concurrent use: every call must come from the same event loop.
type Sampler struct {
	src power.Source
	cfg Config

	lastSample  time.Time
	initialized bool
	readings    []Reading

	rate    *window.Buffer[float64]
	voltage *window.Buffer[float64]
	devices []*Series
	byID    map[string]*Series
}

// NewSampler returns a sampler whose first poll happens once the
// configured interval has elapsed after start.
func NewSampler(src power.Source, cfg Config, start time.Time) (*Sampler, error) {
	errFactory := errors.New()

	if src == nil {
		return nil, errFactory.WithMessage(errors.ErrInvalidArgument, "power source is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	return &Sampler{
		src:        src,
		cfg:        cfg,
		lastSample: start,
		rate:       window.New[float64](cfg.RateWindow),
		voltage:    window.New[float64](cfg.VoltageWindow),
		byID:       make(map[string]*Series),
	}, nil
}

// MaybeSample polls the source if more than the sampling interval has
// passed since the previous poll. It reports false when the call was
// throttled. A source error fails the whole pass and is not retried.
func (s *Sampler) MaybeSample(ctx context.Context, now time.Time) (Sample, bool, error) {
	if now.Sub(s.lastSample) <= s.cfg.Interval {
		return Sample{}, false, nil
	}

	// Any attempt resets the throttle, including empty polls
	s.lastSample = now

	devices, err := s.src.Devices(ctx)
	if err != nil {
		return Sample{}, false, errors.New().Wrap(ErrSamplingPass, err)
	}

	readings := make([]Reading, 0, len(devices))
	for _, d := range devices {
		readings = append(readings, FromDevice(d))
	}

	sample := Sample{Time: now, Readings: readings}

	if len(readings) == 0 {
		if !s.cfg.KeepStale {
			s.readings = readings
		}
		logger.Debug().Bool("keep_stale", s.cfg.KeepStale).Msg("No batteries reported")

		return sample, true, nil
	}

	switch s.cfg.Series {
	case SeriesPerDevice:
		s.pushPerDevice(now, readings, &sample)
	default:
		s.pushShared(now, readings, &sample)
	}
	s.initialized = true

	s.voltage.Insert(now, meanOf(readings, func(r Reading) float64 { return r.Voltage }))
	s.readings = readings

	logger.Debug().
		Int("devices", len(readings)).
		Bool("aggregated", sample.Aggregated).
		Float64("aggregate", sample.Aggregate).
		Int("rate_points", s.rate.Len()).
		Msg("Sampled power source")

	return sample, true, nil
}

// pushShared seeds the shared series with every battery on the first
// non-empty pass and pushes the mean rate on every later pass.
func (s *Sampler) pushShared(now time.Time, readings []Reading, sample *Sample) {
	if !s.initialized {
		for _, r := range readings {
			s.rate.Insert(now, r.EnergyRate)
		}
		return
	}

	s.pushMean(now, readings, sample)
}

func (s *Sampler) pushPerDevice(now time.Time, readings []Reading, sample *Sample) {
	for i, r := range readings {
		s.series(i, r).Buffer.Insert(now, r.EnergyRate)
	}

	s.pushMean(now, readings, sample)
}

func (s *Sampler) pushMean(now time.Time, readings []Reading, sample *Sample) {
	mean := meanOf(readings, func(r Reading) float64 { return r.EnergyRate })
	s.rate.Insert(now, mean)
	sample.Aggregate = mean
	sample.Aggregated = true
}

func (s *Sampler) series(index int, r Reading) *Series {
	id := r.ID
	if id == "" {
		id = fmt.Sprintf("%d:%s", index, r.Name)
	}

	if ser, ok := s.byID[id]; ok {
		return ser
	}

	ser := &Series{
		ID:     id,
		Name:   r.Name,
		Buffer: window.New[float64](s.cfg.RateWindow),
	}
	s.byID[id] = ser
	s.devices = append(s.devices, ser)

	return ser
}

// Readings returns the latest snapshot shown in the text panels.
func (s *Sampler) Readings() []Reading {
	return s.readings
}

// Initialized reports whether any poll has returned at least one battery.
func (s *Sampler) Initialized() bool {
	return s.initialized
}

// LastSample returns the time of the last poll attempt.
func (s *Sampler) LastSample() time.Time {
	return s.lastSample
}

func (s *Sampler) Config() Config {
	return s.cfg
}

// Rate returns the energy rate chart buffer.
func (s *Sampler) Rate() *window.Buffer[float64] {
	return s.rate
}

// Voltage returns the mean voltage chart buffer.
func (s *Sampler) Voltage() *window.Buffer[float64] {
	return s.voltage
}

// DeviceSeries returns the per-battery series in the order the batteries
// were first seen. It is empty unless the series mode is per-device.
func (s *Sampler) DeviceSeries() []*Series {
	return s.devices
}
