package service

// ErrorCorruptedBackendResult is returned when a backend response can be decoded as JSON but not into what the
// endpoint is expected to send.
type ErrorCorruptedBackendResult struct {
	errMsg string
}

func (e *ErrorCorruptedBackendResult) Error() string {
	return e.errMsg
}
