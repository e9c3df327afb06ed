package mirror

import "fmt"

// HTTPStatusError is a non-200 answer from a mirror.
type HTTPStatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("mirror http status=%d endpoint=%s", e.StatusCode, e.Endpoint)
}

// DecodeError is a 200 answer whose body did not parse.
type DecodeError struct {
	Schema Schema
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s body: %v", e.Schema, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
