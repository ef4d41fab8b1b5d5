package main

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"codeberg.org/mutker/battmon/internal/errors"
	"codeberg.org/mutker/battmon/internal/power"
	"codeberg.org/mutker/battmon/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSampler(t *testing.T, src power.Source) *telemetry.Sampler {
	t.Helper()

	cfg := telemetry.DefaultConfig()
	cfg.Interval = 10 * time.Millisecond

	s, err := telemetry.NewSampler(src, cfg, time.Now())
	require.NoError(t, err)

	return s
}

func TestLoopSamplesUntilCancelled(t *testing.T) {
	src := power.NewStaticSource([]power.StaticDevice{{DeviceID: "BAT0", Rate: 8, Volts: 12}})
	s := testSampler(t, src)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	require.NoError(t, loop(ctx, s, 2*time.Millisecond))
	assert.Positive(t, src.Calls)
	assert.True(t, s.Initialized())
	assert.Len(t, s.Readings(), 1)
}

func TestLoopStopsOnSourceError(t *testing.T) {
	src := &power.StaticSource{Steps: []power.StaticStep{{Err: stderrors.New("bus gone")}}}
	s := testSampler(t, src)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := loop(ctx, s, 2*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrMainLoop))
	assert.True(t, errors.HasCode(err, telemetry.ErrSamplingPass))
	assert.Equal(t, 1, src.Calls, "a failed pass is not retried")
}
