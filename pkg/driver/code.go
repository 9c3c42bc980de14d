package driver

import (
	"errors"
	"fmt"
)

// Code represents a native driver status code.
// Zero means success; every other value is one of the closed error set.
type Code int32

const (
	// CodeOK indicates the call completed successfully.
	CodeOK Code = 0

	// CodeInvalidIndex indicates an index is out of range (enumeration,
	// config attributes).
	CodeInvalidIndex Code = 1

	// CodeInvalidID indicates the camera ID does not refer to an
	// attached camera.
	CodeInvalidID Code = 2

	// CodeInvalidConfig indicates the config slot identifier is unknown.
	CodeInvalidConfig Code = 3

	// CodeInvalidArgument indicates a parameter value is invalid.
	CodeInvalidArgument Code = 4

	// CodeNotOpened indicates the camera has not been opened yet.
	CodeNotOpened Code = 5

	// CodeDeviceNotFound indicates the camera is no longer attached.
	CodeDeviceNotFound Code = 6

	// CodeOutOfLimit indicates a value is outside its permitted range.
	CodeOutOfLimit Code = 7

	// CodeExposureFailed indicates the exposure could not be performed.
	CodeExposureFailed Code = 8

	// CodeTimeout indicates a blocking call expired before completion.
	CodeTimeout Code = 9

	// CodeSizeLess indicates a supplied buffer is too small.
	CodeSizeLess Code = 10

	// CodeExposing indicates the camera is exposing and the operation
	// is not permitted in that state.
	CodeExposing Code = 11

	// CodeNullPointer indicates a NULL pointer was passed to the driver.
	CodeNullPointer Code = 12

	// CodeConfigNotWritable indicates a write to a read-only slot.
	CodeConfigNotWritable Code = 13

	// CodeConfigNotReadable indicates a read of a write-only slot.
	CodeConfigNotReadable Code = 14

	// CodeAccessDenied indicates the OS denied access to the device.
	CodeAccessDenied Code = 15

	// CodeOperationFailed indicates a generic driver failure.
	CodeOperationFailed Code = 16

	// CodeMemoryFailed indicates the driver failed to allocate memory.
	CodeMemoryFailed Code = 17
)

// Sentinel errors, one per non-success status code. Callers match them
// with errors.Is after unwrapping whatever context the safe layer added.
var (
	ErrInvalidIndex      = errors.New("invalid index")
	ErrInvalidID         = errors.New("invalid camera ID")
	ErrInvalidConfig     = errors.New("invalid config slot")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotOpened         = errors.New("camera not opened")
	ErrDeviceNotFound    = errors.New("camera not found")
	ErrOutOfBounds       = errors.New("value out of bounds")
	ErrExposureFailed    = errors.New("exposure failed")
	ErrTimeout           = errors.New("operation timed out")
	ErrBufferTooSmall    = errors.New("buffer too small")
	ErrExposing          = errors.New("camera is exposing")
	ErrNullPointer       = errors.New("null pointer")
	ErrConfigNotWritable = errors.New("config slot not writable")
	ErrConfigNotReadable = errors.New("config slot not readable")
	ErrAccessDenied      = errors.New("access denied")
	ErrOperationFailed   = errors.New("operation failed")
	ErrMemoryFailed      = errors.New("memory allocation failed")
)

var codeErrors = map[Code]error{
	CodeInvalidIndex:      ErrInvalidIndex,
	CodeInvalidID:         ErrInvalidID,
	CodeInvalidConfig:     ErrInvalidConfig,
	CodeInvalidArgument:   ErrInvalidArgument,
	CodeNotOpened:         ErrNotOpened,
	CodeDeviceNotFound:    ErrDeviceNotFound,
	CodeOutOfLimit:        ErrOutOfBounds,
	CodeExposureFailed:    ErrExposureFailed,
	CodeTimeout:           ErrTimeout,
	CodeSizeLess:          ErrBufferTooSmall,
	CodeExposing:          ErrExposing,
	CodeNullPointer:       ErrNullPointer,
	CodeConfigNotWritable: ErrConfigNotWritable,
	CodeConfigNotReadable: ErrConfigNotReadable,
	CodeAccessDenied:      ErrAccessDenied,
	CodeOperationFailed:   ErrOperationFailed,
	CodeMemoryFailed:      ErrMemoryFailed,
}

// IsOK returns true if the code indicates success.
func (c Code) IsOK() bool {
	return c == CodeOK
}

// Err maps a non-success code to its sentinel error. Unknown codes map
// to ErrOperationFailed with the raw code preserved in the message.
//
// Mapping the success code is a caller logic error and panics: a call
// site that reaches Err with CodeOK has lost track of whether the
// operation failed.
func (c Code) Err() error {
	if c == CodeOK {
		panic("driver: Err called on success code")
	}
	if err, ok := codeErrors[c]; ok {
		return err
	}
	return fmt.Errorf("%w: unknown status code %d", ErrOperationFailed, int32(c))
}

// String returns the status code name.
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeInvalidIndex:
		return "INVALID_INDEX"
	case CodeInvalidID:
		return "INVALID_ID"
	case CodeInvalidConfig:
		return "INVALID_CONFIG"
	case CodeInvalidArgument:
		return "INVALID_ARGUMENT"
	case CodeNotOpened:
		return "NOT_OPENED"
	case CodeDeviceNotFound:
		return "DEVICE_NOT_FOUND"
	case CodeOutOfLimit:
		return "OUT_OF_LIMIT"
	case CodeExposureFailed:
		return "EXPOSURE_FAILED"
	case CodeTimeout:
		return "TIMEOUT"
	case CodeSizeLess:
		return "SIZE_LESS"
	case CodeExposing:
		return "EXPOSING"
	case CodeNullPointer:
		return "NULL_POINTER"
	case CodeConfigNotWritable:
		return "CONFIG_NOT_WRITABLE"
	case CodeConfigNotReadable:
		return "CONFIG_NOT_READABLE"
	case CodeAccessDenied:
		return "ACCESS_DENIED"
	case CodeOperationFailed:
		return "OPERATION_FAILED"
	case CodeMemoryFailed:
		return "MEMORY_FAILED"
	default:
		return "UNKNOWN"
	}
}
