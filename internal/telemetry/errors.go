package telemetry

import "codeberg.org/mutker/battmon/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig

	// Collection Errors
	ErrSamplingPass = errors.ErrorCode("telemetry_sampling_pass_failed")
)

func init() {
	errors.RegisterMessage(ErrSamplingPass, "Sampling pass failed")
}
