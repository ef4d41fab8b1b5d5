package power

import "codeberg.org/mutker/battmon/internal/errors"

const (
	// Initialization and Lifecycle Errors
	ErrSourceInit   = errors.ErrorCode("power_source_init_failed")
	ErrSourceClose  = errors.ErrorCode("power_source_close_failed")
	ErrNotConnected = errors.ErrorCode("power_source_not_connected")

	// Enumeration Errors
	ErrEnumerate    = errors.ErrorCode("power_enumerate_failed")
	ErrDeviceAccess = errors.ErrorCode("power_device_access_failed")
)

func init() {
	errors.RegisterMessage(ErrSourceInit, "Failed to initialize power source")
	errors.RegisterMessage(ErrSourceClose, "Failed to close power source")
	errors.RegisterMessage(ErrNotConnected, "Power source is not connected")
	errors.RegisterMessage(ErrEnumerate, "Failed to enumerate power devices")
	errors.RegisterMessage(ErrDeviceAccess, "Failed to read power device")
}
