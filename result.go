package libmonado

import (
	"errors"
	"fmt"

	"github.com/technobaboo/libmonado-go/internal/ffi"
)

// Result is a libmonado result code. Negative values are errors, zero or
// positive values are success. Result implements error, so the error
// constants below can be matched with errors.Is.
type Result int32

const (
	// Success is returned by every call that worked.
	Success Result = Result(ffi.Success)
	// ErrorInvalidVersion: the library API version is not supported.
	ErrorInvalidVersion Result = Result(ffi.ErrorInvalidVersion)
	// ErrorInvalidValue: an argument or returned value was not valid.
	ErrorInvalidValue Result = Result(ffi.ErrorInvalidValue)
	// ErrorConnectingFailed: the library could not be loaded or could not
	// reach the runtime.
	ErrorConnectingFailed Result = Result(ffi.ErrorConnectingFailed)
	// ErrorOperationFailed: the runtime refused or failed the request.
	ErrorOperationFailed Result = Result(ffi.ErrorOperationFailed)
	// ErrorRecenteringNotSupported: the runtime cannot recenter local spaces.
	ErrorRecenteringNotSupported Result = Result(ffi.ErrorRecenteringNotSupported)
	// ErrorInvalidProperty: the device does not have the queried property.
	ErrorInvalidProperty Result = Result(ffi.ErrorInvalidProperty)
)

// String returns the string representation of the result.
func (r Result) String() string {
	switch r {
	case Success:
		return "Success"
	case ErrorInvalidVersion:
		return "ErrorInvalidVersion"
	case ErrorInvalidValue:
		return "ErrorInvalidValue"
	case ErrorConnectingFailed:
		return "ErrorConnectingFailed"
	case ErrorOperationFailed:
		return "ErrorOperationFailed"
	case ErrorRecenteringNotSupported:
		return "ErrorRecenteringNotSupported"
	case ErrorInvalidProperty:
		return "ErrorInvalidProperty"
	default:
		return fmt.Sprintf("Result(%d)", int32(r))
	}
}

// Error implements error.
func (r Result) Error() string {
	return "libmonado: " + r.String()
}

// IsSuccess reports whether r is zero or positive.
func (r Result) IsSuccess() bool {
	return r >= 0
}

// Err returns nil for success codes and r otherwise.
func (r Result) Err() error {
	if r.IsSuccess() {
		return nil
	}
	return r
}

// callError wraps a failed native call with the name of the entry point.
type callError struct {
	op     string
	result Result
}

func (e *callError) Error() string {
	return fmt.Sprintf("libmonado: %s: %s", e.op, e.result.String())
}

func (e *callError) Unwrap() error {
	return e.result
}

// check turns a raw code into an error naming op.
func check(op string, code int32) error {
	r := Result(code)
	if r.IsSuccess() {
		return nil
	}
	return &callError{op: op, result: r}
}

// ResultOf extracts the native result code from err. It returns Success for
// nil and ErrorOperationFailed for errors that carry no code.
func ResultOf(err error) Result {
	if err == nil {
		return Success
	}
	var r Result
	if errors.As(err, &r) {
		return r
	}
	return ErrorOperationFailed
}
