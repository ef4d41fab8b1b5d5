package errors

// ErrorCode identifies a failure class. Packages declare their own codes
// next to the code that returns them and register a message in init.
type ErrorCode string

const (
	ErrInvalidArgument ErrorCode = "invalid_argument"

	// Configuration
	ErrInvalidConfig     ErrorCode = "invalid_configuration"
	ErrBindFlags         ErrorCode = "bind_flags_failed"
	ErrParseFlags        ErrorCode = "parse_flags_failed"
	ErrReadConfig        ErrorCode = "read_config_failed"
	ErrUnmarshalConfig   ErrorCode = "unmarshal_config_failed"
	ErrInvalidInterval   ErrorCode = "invalid_interval"
	ErrInvalidWindow     ErrorCode = "invalid_window"
	ErrInvalidSeriesMode ErrorCode = "invalid_series_mode"

	// Logging
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"
	ErrOpenLogFile     ErrorCode = "open_log_file_failed"

	// Application
	ErrMainLoop ErrorCode = "main_loop_failed"
	ErrRunUI    ErrorCode = "run_ui_failed"
)

var errorMessages = map[ErrorCode]string{
	ErrInvalidArgument:   "Invalid argument provided",
	ErrInvalidConfig:     "Invalid configuration",
	ErrBindFlags:         "Failed to bind flags",
	ErrParseFlags:        "Failed to parse command line flags",
	ErrReadConfig:        "Failed to read config file",
	ErrUnmarshalConfig:   "Failed to unmarshal configuration",
	ErrInvalidInterval:   "Invalid interval value",
	ErrInvalidWindow:     "Invalid chart window value",
	ErrInvalidSeriesMode: "Invalid series mode",
	ErrInvalidLogLevel:   "Invalid log level",
	ErrOpenLogFile:       "Failed to open log file",
	ErrMainLoop:          "Error in main loop",
	ErrRunUI:             "Terminal interface failed",
}

// RegisterMessage sets the default message of a package-local code.
// Call it from package init functions only.
func RegisterMessage(code ErrorCode, msg string) {
	errorMessages[code] = msg
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
