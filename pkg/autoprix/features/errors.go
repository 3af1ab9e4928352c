package features

import (
	"errors"
	"fmt"
)

// ErrEmptySchema is returned when encoding against a schema without columns.
var ErrEmptySchema = errors.New("feature schema is empty")

// PreprocessingError reports a structural failure while encoding. It is the
// only error kind the encoder returns.
type PreprocessingError struct {
	Cause string
	Err   error
}

func (e *PreprocessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("preprocessing failed: %s: %v", e.Cause, e.Err)
	}
	return "preprocessing failed: " + e.Cause
}

func (e *PreprocessingError) Unwrap() error { return e.Err }

func preprocessingErrorf(err error, format string, args ...any) error {
	return &PreprocessingError{Cause: fmt.Sprintf(format, args...), Err: err}
}
