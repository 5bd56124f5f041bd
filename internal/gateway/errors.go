package gateway

import (
	"fmt"

	"github.com/pkg/errors"
)

// Operation names, used in errors and logs.
const (
	OpSendMessage    = "send-message"
	OpGenerateSlides = "generate-slides"
	OpFetchThemes    = "fetch-themes"
	OpFetchStatus    = "fetch-status"
	OpFetchDemo      = "fetch-demo-content"
)

// ValidationError reports a missing required field. It is returned before
// any network call is issued.
type ValidationError struct {
	Op    string
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s must not be empty", e.Op, e.Field)
}

// Error is the uniform failure of a gateway operation: a transport error,
// a non-2xx status or an undecodable body.
type Error struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsGateway reports whether err is (or wraps) a gateway Error.
func IsGateway(err error) bool {
	var ge *Error
	return errors.As(err, &ge)
}
