package camera

import (
	"github.com/openastro/poago/pkg/driver"
)

// ImgFormat is a supported pixel format.
type ImgFormat uint8

const (
	// Raw8 is 8-bit raw data, value range [0, 255].
	Raw8 ImgFormat = iota

	// Raw16 is 16-bit raw data, value range [0, 65535].
	Raw16

	// RGB24 is RGB888 color data (color cameras only).
	RGB24

	// Mono8 is 8-bit monochrome data converted from the Bayer array
	// (color cameras only).
	Mono8
)

// BytesPerPixel returns the pixel stride used to size image buffers.
func (f ImgFormat) BytesPerPixel() int {
	switch f {
	case Raw8, Mono8:
		return 1
	case Raw16:
		return 2
	case RGB24:
		return 3
	default:
		return 0
	}
}

// String returns the format name.
func (f ImgFormat) String() string {
	switch f {
	case Raw8:
		return "RAW8"
	case Raw16:
		return "RAW16"
	case RGB24:
		return "RGB24"
	case Mono8:
		return "MONO8"
	default:
		return "UNKNOWN"
	}
}

func (f ImgFormat) id() driver.ImgFormatID {
	switch f {
	case Raw8:
		return driver.ImgRaw8
	case Raw16:
		return driver.ImgRaw16
	case RGB24:
		return driver.ImgRGB24
	case Mono8:
		return driver.ImgMono8
	default:
		return driver.ImgEnd
	}
}

func formatFromID(id driver.ImgFormatID) (ImgFormat, bool) {
	switch id {
	case driver.ImgRaw8:
		return Raw8, true
	case driver.ImgRaw16:
		return Raw16, true
	case driver.ImgRGB24:
		return RGB24, true
	case driver.ImgMono8:
		return Mono8, true
	default:
		return 0, false
	}
}

// BayerPattern is the color filter array layout of the sensor.
type BayerPattern uint8

const (
	// BayerMono marks a monochrome sensor without a filter array.
	BayerMono BayerPattern = iota

	// BayerRG is the RGGB layout.
	BayerRG

	// BayerBG is the BGGR layout.
	BayerBG

	// BayerGR is the GRBG layout.
	BayerGR

	// BayerGB is the GBRG layout.
	BayerGB
)

// String returns the pattern name.
func (p BayerPattern) String() string {
	switch p {
	case BayerMono:
		return "MONO"
	case BayerRG:
		return "RG"
	case BayerBG:
		return "BG"
	case BayerGR:
		return "GR"
	case BayerGB:
		return "GB"
	default:
		return "UNKNOWN"
	}
}

func bayerFromID(id driver.BayerID) BayerPattern {
	switch id {
	case driver.BayerRG:
		return BayerRG
	case driver.BayerBG:
		return BayerBG
	case driver.BayerGR:
		return BayerGR
	case driver.BayerGB:
		return BayerGB
	default:
		return BayerMono
	}
}

// Properties is the immutable snapshot of a camera's fixed properties
// as reported by enumeration.
type Properties struct {
	// ModelName is the camera model name.
	ModelName string

	// UserCustomID is the user-assigned label, empty by default.
	UserCustomID string

	// CameraID addresses the camera in all driver calls. It is stable
	// for the process lifetime while the camera stays attached.
	CameraID int32

	// MaxWidth and MaxHeight are the sensor extent at bin 1.
	MaxWidth  int32
	MaxHeight int32

	// BitDepth is the ADC depth of the sensor.
	BitDepth int32

	// IsColorCamera reports a color sensor.
	IsColorCamera bool

	// HasST4Port reports an ST4 guide port.
	HasST4Port bool

	// HasCooler reports a cooler assembly (cooler, heater, fan).
	HasCooler bool

	// IsUSB3Speed reports a USB 3.0 speed connection.
	IsUSB3Speed bool

	// BayerPattern is the sensor's color filter layout.
	BayerPattern BayerPattern

	// PixelSize is the physical pixel size in micrometers.
	PixelSize float64

	// SerialNumber is the unique camera serial number.
	SerialNumber string

	// SensorModelName names the sensor, e.g. "IMX462".
	SensorModelName string

	// LocalPath is the camera's bus path on the host.
	LocalPath string

	// Bins are the supported binning factors in reported order.
	Bins []int

	// ImgFormats are the supported pixel formats in reported order.
	ImgFormats []ImgFormat

	// SupportsHardwareBin reports sensor-level binning support.
	SupportsHardwareBin bool

	// ProductID is the USB product ID.
	ProductID int32
}

// propertiesFromRaw decodes the native property struct. Text buffers
// decode lossily, the bins and format arrays stop at their sentinels,
// and format identifiers outside the known set are dropped.
func propertiesFromRaw(raw driver.RawProperties) Properties {
	bins := make([]int, 0, len(raw.Bins))
	for _, b := range raw.Bins {
		if b == driver.BinEnd {
			break
		}
		bins = append(bins, int(b))
	}

	formats := make([]ImgFormat, 0, len(raw.ImgFormats))
	for _, id := range raw.ImgFormats {
		if id == driver.ImgEnd {
			break
		}
		if f, ok := formatFromID(id); ok {
			formats = append(formats, f)
		}
	}

	return Properties{
		ModelName:           driver.CString(raw.CameraModelName[:]),
		UserCustomID:        driver.CString(raw.UserCustomID[:]),
		CameraID:            raw.CameraID,
		MaxWidth:            raw.MaxWidth,
		MaxHeight:           raw.MaxHeight,
		BitDepth:            raw.BitDepth,
		IsColorCamera:       raw.IsColorCamera.IsTrue(),
		HasST4Port:          raw.IsHasST4Port.IsTrue(),
		HasCooler:           raw.IsHasCooler.IsTrue(),
		IsUSB3Speed:         raw.IsUSB3Speed.IsTrue(),
		BayerPattern:        bayerFromID(raw.BayerPattern),
		PixelSize:           raw.PixelSize,
		SerialNumber:        driver.CString(raw.SN[:]),
		SensorModelName:     driver.CString(raw.SensorModelName[:]),
		LocalPath:           driver.CString(raw.LocalPath[:]),
		Bins:                bins,
		ImgFormats:          formats,
		SupportsHardwareBin: raw.IsSupportHardBin.IsTrue(),
		ProductID:           raw.PID,
	}
}

// SupportsBin reports whether the factor is in the supported-bins set.
func (p *Properties) SupportsBin(bin int) bool {
	for _, b := range p.Bins {
		if b == bin {
			return true
		}
	}
	return false
}

// SupportsFormat reports whether the pixel format is supported.
func (p *Properties) SupportsFormat(f ImgFormat) bool {
	for _, have := range p.ImgFormats {
		if have == f {
			return true
		}
	}
	return false
}
