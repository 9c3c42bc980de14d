package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openastro/poago/pkg/driver"
)

func TestBytesPerPixel(t *testing.T) {
	assert.Equal(t, 1, Raw8.BytesPerPixel())
	assert.Equal(t, 2, Raw16.BytesPerPixel())
	assert.Equal(t, 3, RGB24.BytesPerPixel())
	assert.Equal(t, 1, Mono8.BytesPerPixel())
	assert.Equal(t, 0, ImgFormat(99).BytesPerPixel())
}

func TestPropertiesFromRaw(t *testing.T) {
	var raw driver.RawProperties
	driver.SetCString(raw.CameraModelName[:], "Poseidon-M Pro")
	driver.SetCString(raw.UserCustomID[:], "rig-1")
	driver.SetCString(raw.SN[:], "PM123456")
	driver.SetCString(raw.SensorModelName[:], "IMX571")
	driver.SetCString(raw.LocalPath[:], "usb:2:7")
	raw.CameraID = 4
	raw.MaxWidth = 6224
	raw.MaxHeight = 4168
	raw.BitDepth = 16
	raw.IsColorCamera = driver.False
	raw.IsHasST4Port = driver.True
	raw.IsHasCooler = driver.True
	raw.IsUSB3Speed = driver.True
	raw.BayerPattern = driver.BayerMono
	raw.PixelSize = 3.76
	raw.IsSupportHardBin = driver.True
	raw.PID = 0x571

	// Sentinel mid-array; entries past it are stale and must be ignored.
	raw.Bins = [driver.MaxBins]int32{1, 2, 4, driver.BinEnd, 8, 0, 0, 0}
	raw.ImgFormats = [driver.MaxImgFormats]driver.ImgFormatID{
		driver.ImgRaw8, driver.ImgRaw16, driver.ImgEnd,
		driver.ImgRGB24, 0, 0, 0, 0,
	}

	props := propertiesFromRaw(raw)
	assert.Equal(t, "Poseidon-M Pro", props.ModelName)
	assert.Equal(t, "rig-1", props.UserCustomID)
	assert.Equal(t, int32(4), props.CameraID)
	assert.Equal(t, int32(6224), props.MaxWidth)
	assert.Equal(t, int32(4168), props.MaxHeight)
	assert.Equal(t, int32(16), props.BitDepth)
	assert.False(t, props.IsColorCamera)
	assert.True(t, props.HasST4Port)
	assert.True(t, props.HasCooler)
	assert.True(t, props.IsUSB3Speed)
	assert.Equal(t, BayerMono, props.BayerPattern)
	assert.Equal(t, 3.76, props.PixelSize)
	assert.Equal(t, "PM123456", props.SerialNumber)
	assert.Equal(t, "IMX571", props.SensorModelName)
	assert.Equal(t, "usb:2:7", props.LocalPath)
	assert.True(t, props.SupportsHardwareBin)
	assert.Equal(t, int32(0x571), props.ProductID)

	assert.Equal(t, []int{1, 2, 4}, props.Bins)
	assert.Equal(t, []ImgFormat{Raw8, Raw16}, props.ImgFormats)
}

func TestPropertiesUnknownFormatDropped(t *testing.T) {
	var raw driver.RawProperties
	raw.ImgFormats = [driver.MaxImgFormats]driver.ImgFormatID{
		driver.ImgRaw8, driver.ImgFormatID(7), driver.ImgMono8, driver.ImgEnd,
	}
	for i := range raw.Bins {
		raw.Bins[i] = driver.BinEnd
	}

	props := propertiesFromRaw(raw)
	assert.Equal(t, []ImgFormat{Raw8, Mono8}, props.ImgFormats)
	assert.Empty(t, props.Bins)
}

func TestSupportsBinAndFormat(t *testing.T) {
	props := Properties{
		Bins:       []int{1, 2, 4},
		ImgFormats: []ImgFormat{Raw8, Raw16},
	}

	assert.True(t, props.SupportsBin(2))
	assert.False(t, props.SupportsBin(3))
	assert.False(t, props.SupportsBin(0))

	assert.True(t, props.SupportsFormat(Raw16))
	assert.False(t, props.SupportsFormat(RGB24))
}

func TestBayerPatternDecode(t *testing.T) {
	assert.Equal(t, BayerRG, bayerFromID(driver.BayerRG))
	assert.Equal(t, BayerBG, bayerFromID(driver.BayerBG))
	assert.Equal(t, BayerGR, bayerFromID(driver.BayerGR))
	assert.Equal(t, BayerGB, bayerFromID(driver.BayerGB))
	assert.Equal(t, BayerMono, bayerFromID(driver.BayerMono))
	assert.Equal(t, BayerMono, bayerFromID(driver.BayerID(42)))
}
