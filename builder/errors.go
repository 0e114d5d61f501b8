package builder

import "errors"

var (
	ErrHardwareInit  = errors.New("failed to initialize GPIO host drivers")
	ErrTargetsFile   = errors.New("failed to load targets file")
	ErrSimImage      = errors.New("failed to access simulator image")
	ErrUnsupportedIO = errors.New("bus variant not supported")
)
