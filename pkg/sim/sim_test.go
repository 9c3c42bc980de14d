package sim

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openastro/poago/pkg/camera"
	"github.com/openastro/poago/pkg/driver"
)

func openSim(t *testing.T, cfgs ...CameraConfig) *camera.Camera {
	t.Helper()

	descs := camera.EnumerateCameras(NewDriver(cfgs...))
	require.NotEmpty(t, descs)

	cam, err := descs[0].Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cam.Close() })
	return cam
}

func TestEnumerate(t *testing.T) {
	drv := NewDriver(
		CameraConfig{Model: "SimCam-M", ID: 0},
		CameraConfig{Model: "SimCam-C Pro", ID: 1, Color: true, Cooled: true},
	)

	descs := camera.EnumerateCameras(drv)
	require.Len(t, descs, 2)
	assert.Equal(t, "SimCam-M", descs[0].Properties().ModelName)
	assert.False(t, descs[0].Properties().IsColorCamera)
	assert.Equal(t, "SimCam-C Pro", descs[1].Properties().ModelName)
	assert.True(t, descs[1].Properties().IsColorCamera)
	assert.True(t, descs[1].Properties().HasCooler)
	assert.Equal(t, camera.BayerRG, descs[1].Properties().BayerPattern)
}

func TestLifecycleSequencing(t *testing.T) {
	drv := NewDriver(CameraConfig{})

	// Per-camera calls require open + init.
	_, code := drv.ConfigsCount(0)
	assert.Equal(t, driver.CodeNotOpened, code)

	require.True(t, drv.OpenCamera(0).IsOK())
	_, code = drv.ConfigsCount(0)
	assert.Equal(t, driver.CodeNotOpened, code)

	require.True(t, drv.InitCamera(0).IsOK())
	_, code = drv.ConfigsCount(0)
	assert.True(t, code.IsOK())

	assert.Equal(t, driver.CodeInvalidID, drv.OpenCamera(42))
}

func TestConfigBoundsCoverage(t *testing.T) {
	full := openSim(t, CameraConfig{Color: true, Cooled: true})

	bounds, err := full.ConfigBounds()
	require.NoError(t, err)
	assert.NoError(t, bounds.Complete())
	assert.Equal(t, int64(10), bounds.Exposure.Min)
	assert.True(t, bounds.Exposure.SupportsAuto)
	assert.False(t, bounds.Temperature.Writable)

	mono := openSim(t, CameraConfig{})
	partial, err := mono.ConfigBounds()
	require.NoError(t, err)
	assert.Error(t, partial.Complete())
	assert.Nil(t, partial.WbR)
	assert.Nil(t, partial.Cooler)
	assert.NotNil(t, partial.Exposure)
}

func TestConfigRangeEnforced(t *testing.T) {
	cam := openSim(t, CameraConfig{})

	require.NoError(t, cam.SetGain(250, false))
	gain, _, err := cam.Gain()
	require.NoError(t, err)
	assert.Equal(t, int64(250), gain)

	err = cam.SetGain(5000, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrOutOfBounds))
}

func TestReadOnlySlotRejectsWrite(t *testing.T) {
	cam := openSim(t, CameraConfig{})

	err := cam.SetConfigValue(camera.KindTemperature, camera.FloatValue(0), false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrConfigNotWritable))
}

func TestAutoFlagValidated(t *testing.T) {
	cam := openSim(t, CameraConfig{})

	require.NoError(t, cam.SetExposure(20_000, true))
	_, auto, err := cam.Exposure()
	require.NoError(t, err)
	assert.True(t, auto)

	// Offset has no auto support.
	err = cam.SetConfigValue(camera.KindOffset, camera.IntValue(10), true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrInvalidArgument))
}

func TestEGainFollowsGain(t *testing.T) {
	cam := openSim(t, CameraConfig{})

	require.NoError(t, cam.SetGain(0, false))
	low, err := cam.EGain()
	require.NoError(t, err)

	require.NoError(t, cam.SetGain(300, false))
	high, err := cam.EGain()
	require.NoError(t, err)

	assert.Greater(t, low, high)
}

func TestCoolerTemperatureModel(t *testing.T) {
	cam := openSim(t, CameraConfig{Cooled: true, AmbientTemp: 20})

	temp, err := cam.Temperature()
	require.NoError(t, err)
	assert.Equal(t, 20.0, temp)

	require.NoError(t, cam.SetTargetTemp(-10))
	require.NoError(t, cam.SetCooler(true))

	time.Sleep(50 * time.Millisecond)
	temp, err = cam.Temperature()
	require.NoError(t, err)
	assert.Less(t, temp, 20.0)
	assert.GreaterOrEqual(t, temp, -10.0)

	power, err := cam.CoolerPower()
	require.NoError(t, err)
	assert.Positive(t, power)
}

func TestCaptureFrame(t *testing.T) {
	cam := openSim(t, CameraConfig{Width: 64, Height: 48})
	require.NoError(t, cam.SetExposure(1000, false))

	buf, err := cam.CreateImageBuffer()
	require.NoError(t, err)
	require.Len(t, buf, 64*48)

	require.NoError(t, cam.Capture(buf, time.Second))

	// The synthetic frame is a gradient, never all zero.
	nonZero := 0
	for _, b := range buf {
		if b != 0 {
			nonZero++
		}
	}
	assert.Positive(t, nonZero)

	state, err := cam.State()
	require.NoError(t, err)
	assert.Equal(t, driver.StateOpened, state)
}

func TestCaptureTimeout(t *testing.T) {
	cam := openSim(t, CameraConfig{Width: 64, Height: 48})
	require.NoError(t, cam.SetExposure(500_000, false))

	buf := make([]byte, 64*48)
	err := cam.Capture(buf, 20*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrTimeout))
}

func TestStreamFrames(t *testing.T) {
	cam := openSim(t, CameraConfig{Width: 64, Height: 48})
	require.NoError(t, cam.SetExposure(1000, false))

	frames := 0
	err := cam.Stream(time.Second, func(_ *camera.Camera, frame []byte) bool {
		assert.Len(t, frame, 64*48)
		frames++
		return frames < 3
	})
	require.NoError(t, err)
	assert.Equal(t, 3, frames)
}

func TestConsecutiveFramesDiffer(t *testing.T) {
	cam := openSim(t, CameraConfig{Width: 32, Height: 32})
	require.NoError(t, cam.SetExposure(500, false))

	var first, second []byte
	err := cam.Stream(time.Second, func(_ *camera.Camera, frame []byte) bool {
		if first == nil {
			first = append([]byte(nil), frame...)
			return true
		}
		second = append([]byte(nil), frame...)
		return false
	})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestGeometry(t *testing.T) {
	cam := openSim(t, CameraConfig{Width: 1920, Height: 1080, Bins: []int32{1, 2, 4}})

	require.NoError(t, cam.SetROI(camera.ROI{StartX: 100, StartY: 50, Width: 640, Height: 480}))
	roi, err := cam.ROI()
	require.NoError(t, err)
	assert.Equal(t, camera.ROI{StartX: 100, StartY: 50, Width: 640, Height: 480}, roi)

	// An anchor that pushes the window off the sensor is rejected.
	err = cam.SetImageStartPos(1500, 50)
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrOutOfBounds))

	require.NoError(t, cam.SetBin(2))
	roi, err = cam.ROI()
	require.NoError(t, err)
	assert.Equal(t, camera.ROI{StartX: 50, StartY: 25, Width: 320, Height: 240}, roi)
}

func TestFormatGating(t *testing.T) {
	mono := openSim(t, CameraConfig{})
	err := mono.SetImageFormat(camera.RGB24)
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrInvalidArgument))

	color := openSim(t, CameraConfig{Color: true})
	require.NoError(t, color.SetImageFormat(camera.RGB24))
	format, err := color.ImageFormat()
	require.NoError(t, err)
	assert.Equal(t, camera.RGB24, format)
}

func TestGeometryLockedWhileExposing(t *testing.T) {
	cam := openSim(t, CameraConfig{Width: 64, Height: 48})
	require.NoError(t, cam.SetExposure(100_000, false))
	require.NoError(t, cam.StartExposure(true))
	defer cam.StopExposure()

	err := cam.SetImageSize(32, 24)
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrExposing))
}
