package camera

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openastro/poago/pkg/driver"
)

func TestIntConfigRoundTrip(t *testing.T) {
	f := testFake()
	cam := openTestCamera(t, f)

	require.NoError(t, cam.SetExposure(5000, true))

	micros, auto, err := cam.Exposure()
	require.NoError(t, err)
	assert.Equal(t, int64(5000), micros)
	assert.True(t, auto)

	// The wire representation is the plain two's-complement integer.
	assert.Equal(t, int64(5000), f.Values[driver.CfgExposure].Int())
	assert.Equal(t, driver.True, f.Auto[driver.CfgExposure])
}

func TestFloatConfigDecode(t *testing.T) {
	f := testFake()
	cam := openTestCamera(t, f)
	f.Values[driver.CfgTemperature] = driver.RawFloat(-10.5)

	celsius, err := cam.Temperature()
	require.NoError(t, err)
	assert.Equal(t, -10.5, celsius)
}

func TestBoolConfigRoundTrip(t *testing.T) {
	f := testFake()
	cam := openTestCamera(t, f)

	require.NoError(t, cam.SetCooler(true))
	on, err := cam.Cooler()
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, cam.SetCooler(false))
	on, err = cam.Cooler()
	require.NoError(t, err)
	assert.False(t, on)
}

func TestBoolConfigNonCanonicalTrue(t *testing.T) {
	f := testFake()
	cam := openTestCamera(t, f)

	// Any non-zero vendor boolean decodes as true.
	f.Values[driver.CfgHardwareBin] = driver.RawValue(7)
	on, err := cam.HardwareBin()
	require.NoError(t, err)
	assert.True(t, on)
}

func TestNegativeIntConfig(t *testing.T) {
	f := testFake()
	cam := openTestCamera(t, f)

	require.NoError(t, cam.SetTargetTemp(-15))
	celsius, err := cam.TargetTemp()
	require.NoError(t, err)
	assert.Equal(t, int64(-15), celsius)
}

func TestConfigValueOf(t *testing.T) {
	f := testFake()
	cam := openTestCamera(t, f)
	f.Values[driver.CfgExposure] = driver.RawInt(250)
	f.Values[driver.CfgTemperature] = driver.RawFloat(3.25)
	f.Values[driver.CfgCooler] = driver.RawBool(driver.True)

	v, _, err := cam.ConfigValueOf(KindExposure)
	require.NoError(t, err)
	assert.Equal(t, TagInt, v.Tag())
	assert.Equal(t, int64(250), v.Int())

	v, _, err = cam.ConfigValueOf(KindTemperature)
	require.NoError(t, err)
	assert.Equal(t, TagFloat, v.Tag())
	assert.Equal(t, 3.25, v.Float())

	v, _, err = cam.ConfigValueOf(KindCooler)
	require.NoError(t, err)
	assert.Equal(t, TagBool, v.Tag())
	assert.True(t, v.Bool())
}

func TestSetConfigValue(t *testing.T) {
	f := testFake()
	cam := openTestCamera(t, f)

	require.NoError(t, cam.SetConfigValue(KindGain, IntValue(200), false))
	gain, _, err := cam.Gain()
	require.NoError(t, err)
	assert.Equal(t, int64(200), gain)
}

func TestSetConfigValueTagMismatchPanics(t *testing.T) {
	f := testFake()
	cam := openTestCamera(t, f)

	assert.Panics(t, func() {
		_ = cam.SetConfigValue(KindExposure, FloatValue(1.0), false)
	})
	assert.Panics(t, func() {
		_ = cam.SetConfigValue(KindCooler, IntValue(1), false)
	})
}

func TestGetConfigError(t *testing.T) {
	f := testFake()
	cam := openTestCamera(t, f)
	f.ForceCode["GetConfig"] = driver.CodeConfigNotReadable

	_, _, err := cam.Exposure()
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrConfigNotReadable))
	assert.Contains(t, err.Error(), "exposure")
}

func TestSetConfigError(t *testing.T) {
	f := testFake()
	cam := openTestCamera(t, f)
	f.ForceCode["SetConfig"] = driver.CodeConfigNotWritable

	err := cam.SetGain(100, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrConfigNotWritable))
	assert.Contains(t, err.Error(), "gain")
}
