package camera

import (
	"fmt"
	"time"

	"github.com/openastro/poago/pkg/camlog"
	"github.com/openastro/poago/pkg/driver"
)

// Scalar is the set of native value types a config slot can hold.
type Scalar interface {
	~int64 | ~float64 | ~bool
}

// getConfig reads a slot and decodes the untyped union as T. The type
// parameter must match the slot's declared type; the named accessors
// and the ConfigKind table guarantee that pairing.
func getConfig[T Scalar](c *Camera, kind ConfigKind) (T, bool, error) {
	var out T

	start := time.Now()
	raw, auto, code := c.drv.GetConfig(int(c.id), kind.ID())
	c.logger.Log(camlog.Event{
		Timestamp: time.Now(),
		SessionID: c.session,
		CameraID:  c.id,
		Op:        camlog.OpGetConfig,
		Status:    code,
		Duration:  time.Since(start),
		Config:    &camlog.ConfigEvent{Slot: kind.ID(), Raw: uint64(raw), Auto: auto.IsTrue()},
	})
	if !code.IsOK() {
		return out, false, fmt.Errorf("get %s: %w", kind, code.Err())
	}

	switch p := any(&out).(type) {
	case *int64:
		*p = raw.Int()
	case *float64:
		*p = raw.Float()
	case *bool:
		*p = raw.Bool().IsTrue()
	}
	return out, auto.IsTrue(), nil
}

// setConfig encodes T into the untyped union and writes the slot.
func setConfig[T Scalar](c *Camera, kind ConfigKind, value T, auto bool) error {
	var raw driver.RawValue
	switch v := any(value).(type) {
	case int64:
		raw = driver.RawInt(v)
	case float64:
		raw = driver.RawFloat(v)
	case bool:
		raw = driver.RawBool(driver.MakeBool(v))
	}

	payload := camlog.Event{
		Config: &camlog.ConfigEvent{Slot: kind.ID(), Raw: uint64(raw), Auto: auto},
	}
	code := c.invoke(camlog.OpSetConfig, payload, func() driver.Code {
		return c.drv.SetConfig(int(c.id), kind.ID(), raw, driver.MakeBool(auto))
	})
	if !code.IsOK() {
		return fmt.Errorf("set %s: %w", kind, code.Err())
	}
	return nil
}

// ConfigValueOf reads any slot by kind, decoded per the kind's fixed
// value type. The auto flag is returned alongside the value.
func (c *Camera) ConfigValueOf(kind ConfigKind) (ConfigValue, bool, error) {
	switch kind.ValueTag() {
	case TagInt:
		v, auto, err := getConfig[int64](c, kind)
		return IntValue(v), auto, err
	case TagFloat:
		v, auto, err := getConfig[float64](c, kind)
		return FloatValue(v), auto, err
	default:
		v, auto, err := getConfig[bool](c, kind)
		return BoolValue(v), auto, err
	}
}

// SetConfigValue writes any slot by kind. The value's tag must match
// the kind's fixed value type; a mismatch is a caller bug and panics.
func (c *Camera) SetConfigValue(kind ConfigKind, value ConfigValue, auto bool) error {
	if value.Tag() != kind.ValueTag() {
		panic(fmt.Sprintf("camera: %s value for %s slot %s", value.Tag(), kind.ValueTag(), kind))
	}
	switch kind.ValueTag() {
	case TagInt:
		return setConfig(c, kind, value.Int(), auto)
	case TagFloat:
		return setConfig(c, kind, value.Float(), auto)
	default:
		return setConfig(c, kind, value.Bool(), auto)
	}
}

// Exposure returns the exposure time in microseconds and whether it is
// auto-adjusted.
func (c *Camera) Exposure() (int64, bool, error) {
	return getConfig[int64](c, KindExposure)
}

// SetExposure sets the exposure time in microseconds.
func (c *Camera) SetExposure(micros int64, auto bool) error {
	return setConfig(c, KindExposure, micros, auto)
}

// Gain returns the analog gain and whether it is auto-adjusted.
func (c *Camera) Gain() (int64, bool, error) {
	return getConfig[int64](c, KindGain)
}

// SetGain sets the analog gain.
func (c *Camera) SetGain(gain int64, auto bool) error {
	return setConfig(c, KindGain, gain, auto)
}

// HardwareBin reports whether hardware binning is enabled.
func (c *Camera) HardwareBin() (bool, error) {
	v, _, err := getConfig[bool](c, KindHardwareBin)
	return v, err
}

// SetHardwareBin enables or disables hardware binning.
func (c *Camera) SetHardwareBin(on bool) error {
	return setConfig(c, KindHardwareBin, on, false)
}

// Temperature returns the sensor temperature in Celsius.
func (c *Camera) Temperature() (float64, error) {
	v, _, err := getConfig[float64](c, KindTemperature)
	return v, err
}

// WbR returns the red white-balance coefficient.
func (c *Camera) WbR() (int64, error) {
	v, _, err := getConfig[int64](c, KindWbR)
	return v, err
}

// SetWbR sets the red white-balance coefficient.
func (c *Camera) SetWbR(v int64) error {
	return setConfig(c, KindWbR, v, false)
}

// WbG returns the green white-balance coefficient.
func (c *Camera) WbG() (int64, error) {
	v, _, err := getConfig[int64](c, KindWbG)
	return v, err
}

// SetWbG sets the green white-balance coefficient.
func (c *Camera) SetWbG(v int64) error {
	return setConfig(c, KindWbG, v, false)
}

// WbB returns the blue white-balance coefficient.
func (c *Camera) WbB() (int64, error) {
	v, _, err := getConfig[int64](c, KindWbB)
	return v, err
}

// SetWbB sets the blue white-balance coefficient.
func (c *Camera) SetWbB(v int64) error {
	return setConfig(c, KindWbB, v, false)
}

// Offset returns the sensor offset.
func (c *Camera) Offset() (int64, error) {
	v, _, err := getConfig[int64](c, KindOffset)
	return v, err
}

// SetOffset sets the sensor offset.
func (c *Camera) SetOffset(v int64) error {
	return setConfig(c, KindOffset, v, false)
}

// AutoMaxGain returns the gain ceiling used during auto adjustment.
func (c *Camera) AutoMaxGain() (int64, error) {
	v, _, err := getConfig[int64](c, KindAutoMaxGain)
	return v, err
}

// SetAutoMaxGain sets the gain ceiling used during auto adjustment.
func (c *Camera) SetAutoMaxGain(v int64) error {
	return setConfig(c, KindAutoMaxGain, v, false)
}

// AutoMaxExposureMS returns the exposure ceiling used during auto
// adjustment, in milliseconds.
func (c *Camera) AutoMaxExposureMS() (int64, error) {
	v, _, err := getConfig[int64](c, KindAutoMaxExposure)
	return v, err
}

// SetAutoMaxExposureMS sets the exposure ceiling used during auto
// adjustment, in milliseconds.
func (c *Camera) SetAutoMaxExposureMS(v int64) error {
	return setConfig(c, KindAutoMaxExposure, v, false)
}

// AutoTargetBrightness returns the target brightness used during auto
// adjustment.
func (c *Camera) AutoTargetBrightness() (int64, error) {
	v, _, err := getConfig[int64](c, KindAutoBrightness)
	return v, err
}

// SetAutoTargetBrightness sets the target brightness used during auto
// adjustment.
func (c *Camera) SetAutoTargetBrightness(v int64) error {
	return setConfig(c, KindAutoBrightness, v, false)
}

// GuideNorth reports the ST4 DEC+ line state.
func (c *Camera) GuideNorth() (bool, error) {
	v, _, err := getConfig[bool](c, KindGuideNorth)
	return v, err
}

// SetGuideNorth drives the ST4 DEC+ line.
func (c *Camera) SetGuideNorth(on bool) error {
	return setConfig(c, KindGuideNorth, on, false)
}

// GuideSouth reports the ST4 DEC- line state.
func (c *Camera) GuideSouth() (bool, error) {
	v, _, err := getConfig[bool](c, KindGuideSouth)
	return v, err
}

// SetGuideSouth drives the ST4 DEC- line.
func (c *Camera) SetGuideSouth(on bool) error {
	return setConfig(c, KindGuideSouth, on, false)
}

// GuideEast reports the ST4 RA+ line state.
func (c *Camera) GuideEast() (bool, error) {
	v, _, err := getConfig[bool](c, KindGuideEast)
	return v, err
}

// SetGuideEast drives the ST4 RA+ line.
func (c *Camera) SetGuideEast(on bool) error {
	return setConfig(c, KindGuideEast, on, false)
}

// GuideWest reports the ST4 RA- line state.
func (c *Camera) GuideWest() (bool, error) {
	v, _, err := getConfig[bool](c, KindGuideWest)
	return v, err
}

// SetGuideWest drives the ST4 RA- line.
func (c *Camera) SetGuideWest(on bool) error {
	return setConfig(c, KindGuideWest, on, false)
}

// EGain returns the conversion gain in e/ADU. The value changes with
// gain.
func (c *Camera) EGain() (float64, error) {
	v, _, err := getConfig[float64](c, KindEGain)
	return v, err
}

// CoolerPower returns the cooler power percentage [0, 100] (cooled
// cameras only).
func (c *Camera) CoolerPower() (int64, error) {
	v, _, err := getConfig[int64](c, KindCoolerPower)
	return v, err
}

// TargetTemp returns the cooling target temperature in Celsius.
func (c *Camera) TargetTemp() (int64, error) {
	v, _, err := getConfig[int64](c, KindTargetTemp)
	return v, err
}

// SetTargetTemp sets the cooling target temperature in Celsius.
func (c *Camera) SetTargetTemp(celsius int64) error {
	return setConfig(c, KindTargetTemp, celsius, false)
}

// Cooler reports whether the cooler (and fan) is on.
func (c *Camera) Cooler() (bool, error) {
	v, _, err := getConfig[bool](c, KindCooler)
	return v, err
}

// SetCooler turns the cooler (and fan) on or off.
func (c *Camera) SetCooler(on bool) error {
	return setConfig(c, KindCooler, on, false)
}

// Heater reports the lens heater state.
//
// Deprecated: use HeaterPower; this slot remains readable on older
// firmware only.
func (c *Camera) Heater() (bool, error) {
	v, _, err := getConfig[bool](c, KindHeater)
	return v, err
}

// HeaterPower returns the lens heater power percentage [0, 100].
func (c *Camera) HeaterPower() (int64, error) {
	v, _, err := getConfig[int64](c, KindHeaterPower)
	return v, err
}

// SetHeaterPower sets the lens heater power percentage [0, 100].
func (c *Camera) SetHeaterPower(percent int64) error {
	return setConfig(c, KindHeaterPower, percent, false)
}

// FanPower returns the radiator fan power percentage [0, 100].
func (c *Camera) FanPower() (int64, error) {
	v, _, err := getConfig[int64](c, KindFanPower)
	return v, err
}

// SetFanPower sets the radiator fan power percentage [0, 100].
func (c *Camera) SetFanPower(percent int64) error {
	return setConfig(c, KindFanPower, percent, false)
}

// FrameLimit returns the frame rate cap in range [0, 2000]; 0 means no
// limit.
func (c *Camera) FrameLimit() (int64, error) {
	v, _, err := getConfig[int64](c, KindFrameLimit)
	return v, err
}

// SetFrameLimit sets the frame rate cap in range [0, 2000]; 0 means no
// limit.
func (c *Camera) SetFrameLimit(v int64) error {
	return setConfig(c, KindFrameLimit, v, false)
}

// HQI reports whether high quality image mode is on. The mode reduces
// waviness and striping on cameras without DDR at the cost of frame
// rate.
func (c *Camera) HQI() (bool, error) {
	v, _, err := getConfig[bool](c, KindHQI)
	return v, err
}

// SetHQI turns high quality image mode on or off. Has no effect on
// cameras with DDR.
func (c *Camera) SetHQI(on bool) error {
	return setConfig(c, KindHQI, on, false)
}

// USBBandwidthLimit returns the USB bandwidth cap in percent [0, 100].
func (c *Camera) USBBandwidthLimit() (int64, error) {
	v, _, err := getConfig[int64](c, KindUSBBandwidthLimit)
	return v, err
}

// SetUSBBandwidthLimit sets the USB bandwidth cap in percent [0, 100].
func (c *Camera) SetUSBBandwidthLimit(percent int64) error {
	return setConfig(c, KindUSBBandwidthLimit, percent, false)
}

// PixelBinSum reports whether binning sums pixels (true) or averages
// them (false, the default).
func (c *Camera) PixelBinSum() (bool, error) {
	v, _, err := getConfig[bool](c, KindPixelBinSum)
	return v, err
}

// SetPixelBinSum selects sum (true) or average (false) binning.
func (c *Camera) SetPixelBinSum(sum bool) error {
	return setConfig(c, KindPixelBinSum, sum, false)
}

// MonoBin reports whether color cameras bin neighbour pixels, losing
// the Bayer pattern.
func (c *Camera) MonoBin() (bool, error) {
	v, _, err := getConfig[bool](c, KindMonoBin)
	return v, err
}

// SetMonoBin enables neighbour-pixel binning on color cameras; the
// binned image loses its Bayer pattern.
func (c *Camera) SetMonoBin(on bool) error {
	return setConfig(c, KindMonoBin, on, false)
}
