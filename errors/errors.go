package errors

import "fmt"

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrMalformedLine   = fmt.Errorf("malformed irc line")
	ErrLineTooLong     = fmt.Errorf("irc line exceeds protocol limit")
	ErrProviderTimeout = fmt.Errorf("provider timed out")
	ErrEmptyQuery      = fmt.Errorf("empty query")
)
