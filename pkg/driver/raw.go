package driver

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Fixed buffer and array sizes of the native structs.
const (
	// ModelNameLen is the camera model name buffer size.
	ModelNameLen = 256

	// CustomIDLen is the user custom ID buffer size.
	CustomIDLen = 16

	// SerialLen is the serial number buffer size.
	SerialLen = 64

	// SensorNameLen is the sensor model name buffer size.
	SensorNameLen = 32

	// LocalPathLen is the host bus path buffer size.
	LocalPathLen = 256

	// ConfNameLen is the config slot name buffer size.
	ConfNameLen = 64

	// ConfDescLen is the config slot description buffer size.
	ConfDescLen = 128

	// MaxBins is the capacity of the supported-bins array.
	MaxBins = 8

	// MaxImgFormats is the capacity of the supported-formats array.
	MaxImgFormats = 8
)

// BinEnd terminates the supported-bins array.
const BinEnd int32 = -1

// TimeoutInfinite is the GetImageData timeout meaning "block forever".
const TimeoutInfinite int32 = -1

// Bool is the vendor two-valued boolean.
type Bool int32

const (
	// False is the vendor false value.
	False Bool = 0

	// True is the vendor true value.
	True Bool = 1
)

// MakeBool converts a Go bool to the vendor representation.
func MakeBool(v bool) Bool {
	if v {
		return True
	}
	return False
}

// IsTrue converts the vendor representation back to a Go bool. Any
// non-zero value counts as true, so the conversion is total.
func (b Bool) IsTrue() bool {
	return b != False
}

// String returns the vendor boolean name.
func (b Bool) String() string {
	if b.IsTrue() {
		return "TRUE"
	}
	return "FALSE"
}

// RawValue is the 8-byte untyped value union of the native API. The
// same bits are a signed 64-bit integer, an IEEE 754 double, or a
// vendor Bool depending on the config slot's declared value type; the
// union itself carries no tag.
type RawValue uint64

// RawInt builds a RawValue holding an integer.
func RawInt(v int64) RawValue {
	return RawValue(v)
}

// RawFloat builds a RawValue holding a float.
func RawFloat(v float64) RawValue {
	return RawValue(math.Float64bits(v))
}

// RawBool builds a RawValue holding a vendor boolean.
func RawBool(v Bool) RawValue {
	return RawValue(uint64(uint32(v)))
}

// Int reads the union as a signed 64-bit integer.
func (v RawValue) Int() int64 {
	return int64(v)
}

// Float reads the union as an IEEE 754 double.
func (v RawValue) Float() float64 {
	return math.Float64frombits(uint64(v))
}

// Bool reads the union as a vendor boolean.
func (v RawValue) Bool() Bool {
	return Bool(uint32(v))
}

// ValueType is the declared type of a config slot's value union.
type ValueType int32

const (
	// ValInt marks an integer-typed slot.
	ValInt ValueType = 0

	// ValFloat marks a float-typed slot.
	ValFloat ValueType = 1

	// ValBool marks a boolean-typed slot.
	ValBool ValueType = 2
)

// String returns the value type name.
func (t ValueType) String() string {
	switch t {
	case ValInt:
		return "INT"
	case ValFloat:
		return "FLOAT"
	case ValBool:
		return "BOOL"
	default:
		return "UNKNOWN"
	}
}

// CameraState is the driver-reported lifecycle state of a camera.
type CameraState int32

const (
	// StateClosed means the camera is not open.
	StateClosed CameraState = 0

	// StateOpened means the camera is open and idle.
	StateOpened CameraState = 1

	// StateExposing means an exposure is in progress.
	StateExposing CameraState = 2
)

// String returns the state name.
func (s CameraState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpened:
		return "OPENED"
	case StateExposing:
		return "EXPOSING"
	default:
		return "UNKNOWN"
	}
}

// BayerID is the vendor Bayer pattern identifier.
type BayerID int32

const (
	// BayerMono marks a monochrome sensor.
	BayerMono BayerID = -1

	// BayerRG is the RGGB layout.
	BayerRG BayerID = 0

	// BayerBG is the BGGR layout.
	BayerBG BayerID = 1

	// BayerGR is the GRBG layout.
	BayerGR BayerID = 2

	// BayerGB is the GBRG layout.
	BayerGB BayerID = 3
)

// ImgFormatID is the vendor pixel format identifier.
type ImgFormatID int32

const (
	// ImgEnd terminates the supported-formats array.
	ImgEnd ImgFormatID = -1

	// ImgRaw8 is 8-bit raw data, 1 byte per pixel.
	ImgRaw8 ImgFormatID = 0

	// ImgRaw16 is 16-bit raw data, 2 bytes per pixel.
	ImgRaw16 ImgFormatID = 1

	// ImgRGB24 is RGB888 color data, 3 bytes per pixel.
	ImgRGB24 ImgFormatID = 2

	// ImgMono8 is 8-bit monochrome data, 1 byte per pixel.
	ImgMono8 ImgFormatID = 3
)

// RawProperties mirrors the native camera property struct filled by the
// per-index enumeration query.
type RawProperties struct {
	CameraModelName  [ModelNameLen]byte
	UserCustomID     [CustomIDLen]byte
	CameraID         int32
	MaxWidth         int32
	MaxHeight        int32
	BitDepth         int32
	IsColorCamera    Bool
	IsHasST4Port     Bool
	IsHasCooler      Bool
	IsUSB3Speed      Bool
	BayerPattern     BayerID
	PixelSize        float64
	SN               [SerialLen]byte
	SensorModelName  [SensorNameLen]byte
	LocalPath        [LocalPathLen]byte
	Bins             [MaxBins]int32
	ImgFormats       [MaxImgFormats]ImgFormatID
	IsSupportHardBin Bool
	PID              int32
}

// RawConfigAttributes mirrors the native config attribute struct filled
// by the per-index config query. Min/max/default share the slot's
// declared value type.
type RawConfigAttributes struct {
	ConfigID      ConfigID
	IsSupportAuto Bool
	IsWritable    Bool
	IsReadable    Bool
	MaxValue      RawValue
	MinValue      RawValue
	DefaultValue  RawValue
	ValueType     ValueType
	ConfName      [ConfNameLen]byte
	Description   [ConfDescLen]byte
}

// CString decodes a fixed-size NUL-terminated text buffer. Bytes past
// the first NUL are ignored; invalid UTF-8 is replaced, never fatal.
func CString(buf []byte) string {
	n := len(buf)
	for i, b := range buf {
		if b == 0 {
			n = i
			break
		}
	}
	s := string(buf[:n])
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	return s
}

// SetCString copies a string into a fixed-size buffer, truncating if
// needed and always leaving a terminating NUL. Used by test doubles and
// the simulator to build raw structs.
func SetCString(buf []byte, s string) {
	n := copy(buf, s)
	if n == len(buf) {
		n--
	}
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
}
