package errors

// Error is a coded error. Codes survive wrapping: errors.Is matches any
// Error in the chain carrying the same code as the target.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory builds coded errors. Callers keep one per function:
//
//	errFactory := errors.New()
//	return errFactory.Wrap(ErrEnumerate, err)
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
