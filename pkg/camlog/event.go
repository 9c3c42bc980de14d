package camlog

import (
	"time"

	"github.com/google/uuid"

	"github.com/openastro/poago/pkg/driver"
)

// Event records one driver round trip.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the call returned (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the camera session (UUID, assigned at open).
	SessionID string `cbor:"2,keyasint"`

	// CameraID is the driver-assigned camera identifier.
	CameraID int32 `cbor:"3,keyasint"`

	// Op is the driver operation that was invoked.
	Op Op `cbor:"4,keyasint"`

	// Status is the driver status code the call returned.
	Status driver.Code `cbor:"5,keyasint"`

	// Duration is how long the call blocked.
	Duration time.Duration `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (at most one of these is set).
	Config   *ConfigEvent   `cbor:"7,keyasint,omitempty"`
	Frame    *FrameEvent    `cbor:"8,keyasint,omitempty"`
	Geometry *GeometryEvent `cbor:"9,keyasint,omitempty"`
}

// ConfigEvent carries the slot and raw value of a config access.
type ConfigEvent struct {
	// Slot is the native config slot identifier.
	Slot driver.ConfigID `cbor:"1,keyasint"`

	// Raw is the untyped value union as sent or received.
	Raw uint64 `cbor:"2,keyasint"`

	// Auto is the auto-adjust flag.
	Auto bool `cbor:"3,keyasint,omitempty"`
}

// FrameEvent carries the buffer size and timeout of a frame retrieval.
type FrameEvent struct {
	// Size is the destination buffer size in bytes.
	Size int `cbor:"1,keyasint"`

	// TimeoutMS is the retrieval timeout, -1 for unbounded.
	TimeoutMS int32 `cbor:"2,keyasint"`
}

// GeometryEvent carries the values of a geometry access.
type GeometryEvent struct {
	X      int32 `cbor:"1,keyasint,omitempty"`
	Y      int32 `cbor:"2,keyasint,omitempty"`
	Width  int32 `cbor:"3,keyasint,omitempty"`
	Height int32 `cbor:"4,keyasint,omitempty"`
	Bin    int32 `cbor:"5,keyasint,omitempty"`
	Format int32 `cbor:"6,keyasint,omitempty"`
}

// Op identifies a driver operation.
type Op uint8

const (
	// OpOpen is the open call.
	OpOpen Op = iota
	// OpInit is the initialize call.
	OpInit
	// OpClose is the close call.
	OpClose
	// OpState is the camera state query.
	OpState
	// OpConfigsCount is the config slot count query.
	OpConfigsCount
	// OpConfigAttributes is the per-index config attribute query.
	OpConfigAttributes
	// OpGetConfig is a config slot read.
	OpGetConfig
	// OpSetConfig is a config slot write.
	OpSetConfig
	// OpStartExposure starts an exposure.
	OpStartExposure
	// OpStopExposure stops an exposure.
	OpStopExposure
	// OpImageReady is the frame availability poll.
	OpImageReady
	// OpGetImage is the blocking frame retrieval.
	OpGetImage
	// OpGetSize is the image size query.
	OpGetSize
	// OpSetSize sets the image size.
	OpSetSize
	// OpGetStartPos is the ROI start position query.
	OpGetStartPos
	// OpSetStartPos sets the ROI start position.
	OpSetStartPos
	// OpGetBin is the binning factor query.
	OpGetBin
	// OpSetBin sets the binning factor.
	OpSetBin
	// OpGetFormat is the pixel format query.
	OpGetFormat
	// OpSetFormat sets the pixel format.
	OpSetFormat
)

// String returns the operation name.
func (o Op) String() string {
	names := []string{
		"OPEN", "INIT", "CLOSE", "STATE",
		"CONFIGS_COUNT", "CONFIG_ATTRIBUTES", "GET_CONFIG", "SET_CONFIG",
		"START_EXPOSURE", "STOP_EXPOSURE", "IMAGE_READY", "GET_IMAGE",
		"GET_SIZE", "SET_SIZE", "GET_START_POS", "SET_START_POS",
		"GET_BIN", "SET_BIN", "GET_FORMAT", "SET_FORMAT",
	}
	if int(o) < len(names) {
		return names[o]
	}
	return "UNKNOWN"
}

// NewSessionID returns a fresh session identifier for log events.
func NewSessionID() string {
	return uuid.NewString()
}
