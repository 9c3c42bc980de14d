package camera

import (
	"fmt"
	"strings"

	"github.com/openastro/poago/pkg/camlog"
	"github.com/openastro/poago/pkg/driver"
)

// ConfigBounds describes one config slot: its value range, default and
// capabilities as reported by the driver.
type ConfigBounds[T Scalar] struct {
	// Kind names the slot.
	Kind ConfigKind

	// Name and Description are the driver-reported texts.
	Name        string
	Description string

	// Min, Max and Default bound the slot's value.
	Min     T
	Max     T
	Default T

	// SupportsAuto reports driver-side auto adjustment support.
	SupportsAuto bool

	// Readable and Writable are the slot's capabilities.
	Readable bool
	Writable bool
}

// AllConfigBounds is the per-camera snapshot of every known config
// slot's bounds. Slots the hardware does not expose stay nil: cooler,
// heater and white-balance controls are legitimately absent on
// monochrome or non-cooled cameras. Call Complete to insist on a fully
// populated snapshot.
type AllConfigBounds struct {
	Exposure          *ConfigBounds[int64]
	Gain              *ConfigBounds[int64]
	HardwareBin       *ConfigBounds[bool]
	Temperature       *ConfigBounds[float64]
	WbR               *ConfigBounds[int64]
	WbG               *ConfigBounds[int64]
	WbB               *ConfigBounds[int64]
	Offset            *ConfigBounds[int64]
	AutoMaxGain       *ConfigBounds[int64]
	AutoMaxExposure   *ConfigBounds[int64]
	AutoBrightness    *ConfigBounds[int64]
	GuideNorth        *ConfigBounds[bool]
	GuideSouth        *ConfigBounds[bool]
	GuideEast         *ConfigBounds[bool]
	GuideWest         *ConfigBounds[bool]
	EGain             *ConfigBounds[float64]
	CoolerPower       *ConfigBounds[int64]
	TargetTemp        *ConfigBounds[int64]
	Cooler            *ConfigBounds[bool]
	Heater            *ConfigBounds[bool]
	HeaterPower       *ConfigBounds[int64]
	FanPower          *ConfigBounds[int64]
	FlipNone          *ConfigBounds[bool]
	FlipHori          *ConfigBounds[bool]
	FlipVert          *ConfigBounds[bool]
	FlipBoth          *ConfigBounds[bool]
	FrameLimit        *ConfigBounds[int64]
	HQI               *ConfigBounds[bool]
	USBBandwidthLimit *ConfigBounds[int64]
	PixelBinSum       *ConfigBounds[bool]
	MonoBin           *ConfigBounds[bool]
}

// ConfigBounds queries the bounds of every config slot the camera
// exposes. Slots outside the closed ConfigKind set are skipped; slots
// the hardware lacks stay nil in the snapshot.
//
// A slot whose driver-declared value type contradicts the ConfigKind
// table panics: that means the vendor driver contract changed and
// decoding would silently corrupt values.
func (c *Camera) ConfigBounds() (*AllConfigBounds, error) {
	var count int
	code := c.invoke(camlog.OpConfigsCount, camlog.Event{}, func() (cc driver.Code) {
		count, cc = c.drv.ConfigsCount(int(c.id))
		return cc
	})
	if !code.IsOK() {
		return nil, fmt.Errorf("configs count: %w", code.Err())
	}

	all := &AllConfigBounds{}
	for i := 0; i < count; i++ {
		var attr driver.RawConfigAttributes
		code := c.invoke(camlog.OpConfigAttributes, camlog.Event{}, func() (cc driver.Code) {
			attr, cc = c.drv.ConfigAttributes(int(c.id), i)
			return cc
		})
		if !code.IsOK() {
			return nil, fmt.Errorf("config attributes %d: %w", i, code.Err())
		}
		all.assign(attr)
	}

	return all, nil
}

// assign decodes one attribute struct into its typed slot.
func (b *AllConfigBounds) assign(attr driver.RawConfigAttributes) {
	kind, ok := kindFromID(attr.ConfigID)
	if !ok {
		// Slot outside the closed set; unreachable by name.
		return
	}

	switch kind {
	case KindExposure:
		b.Exposure = boundsOf[int64](kind, attr)
	case KindGain:
		b.Gain = boundsOf[int64](kind, attr)
	case KindHardwareBin:
		b.HardwareBin = boundsOf[bool](kind, attr)
	case KindTemperature:
		b.Temperature = boundsOf[float64](kind, attr)
	case KindWbR:
		b.WbR = boundsOf[int64](kind, attr)
	case KindWbG:
		b.WbG = boundsOf[int64](kind, attr)
	case KindWbB:
		b.WbB = boundsOf[int64](kind, attr)
	case KindOffset:
		b.Offset = boundsOf[int64](kind, attr)
	case KindAutoMaxGain:
		b.AutoMaxGain = boundsOf[int64](kind, attr)
	case KindAutoMaxExposure:
		b.AutoMaxExposure = boundsOf[int64](kind, attr)
	case KindAutoBrightness:
		b.AutoBrightness = boundsOf[int64](kind, attr)
	case KindGuideNorth:
		b.GuideNorth = boundsOf[bool](kind, attr)
	case KindGuideSouth:
		b.GuideSouth = boundsOf[bool](kind, attr)
	case KindGuideEast:
		b.GuideEast = boundsOf[bool](kind, attr)
	case KindGuideWest:
		b.GuideWest = boundsOf[bool](kind, attr)
	case KindEGain:
		b.EGain = boundsOf[float64](kind, attr)
	case KindCoolerPower:
		b.CoolerPower = boundsOf[int64](kind, attr)
	case KindTargetTemp:
		b.TargetTemp = boundsOf[int64](kind, attr)
	case KindCooler:
		b.Cooler = boundsOf[bool](kind, attr)
	case KindHeater:
		b.Heater = boundsOf[bool](kind, attr)
	case KindHeaterPower:
		b.HeaterPower = boundsOf[int64](kind, attr)
	case KindFanPower:
		b.FanPower = boundsOf[int64](kind, attr)
	case KindFlipNone:
		b.FlipNone = boundsOf[bool](kind, attr)
	case KindFlipHori:
		b.FlipHori = boundsOf[bool](kind, attr)
	case KindFlipVert:
		b.FlipVert = boundsOf[bool](kind, attr)
	case KindFlipBoth:
		b.FlipBoth = boundsOf[bool](kind, attr)
	case KindFrameLimit:
		b.FrameLimit = boundsOf[int64](kind, attr)
	case KindHQI:
		b.HQI = boundsOf[bool](kind, attr)
	case KindUSBBandwidthLimit:
		b.USBBandwidthLimit = boundsOf[int64](kind, attr)
	case KindPixelBinSum:
		b.PixelBinSum = boundsOf[bool](kind, attr)
	case KindMonoBin:
		b.MonoBin = boundsOf[bool](kind, attr)
	}
}

// boundsOf decodes one attribute struct as T, first checking the
// driver-declared value type against the kind's static type.
func boundsOf[T Scalar](kind ConfigKind, attr driver.RawConfigAttributes) *ConfigBounds[T] {
	name := driver.CString(attr.ConfName[:])

	want := kind.ValueTag()
	var declared ValueTag
	switch attr.ValueType {
	case driver.ValInt:
		declared = TagInt
	case driver.ValFloat:
		declared = TagFloat
	case driver.ValBool:
		declared = TagBool
	}
	if declared != want {
		panic(fmt.Sprintf("camera: slot %s declares value type %s, expected %s",
			name, attr.ValueType, want))
	}

	b := &ConfigBounds[T]{
		Kind:         kind,
		Name:         name,
		Description:  driver.CString(attr.Description[:]),
		SupportsAuto: attr.IsSupportAuto.IsTrue(),
		Readable:     attr.IsReadable.IsTrue(),
		Writable:     attr.IsWritable.IsTrue(),
	}

	decode := func(raw driver.RawValue) T {
		var out T
		switch p := any(&out).(type) {
		case *int64:
			*p = raw.Int()
		case *float64:
			*p = raw.Float()
		case *bool:
			*p = raw.Bool().IsTrue()
		}
		return out
	}
	b.Min = decode(attr.MinValue)
	b.Max = decode(attr.MaxValue)
	b.Default = decode(attr.DefaultValue)

	return b
}

// SlotBounds is the type-erased view of one slot's bounds, for callers
// that iterate the snapshot instead of addressing typed fields.
type SlotBounds struct {
	Kind         ConfigKind
	Name         string
	Description  string
	Min          ConfigValue
	Max          ConfigValue
	Default      ConfigValue
	SupportsAuto bool
	Readable     bool
	Writable     bool
}

// Slots returns the populated slots of the snapshot in kind order.
func (b *AllConfigBounds) Slots() []SlotBounds {
	var out []SlotBounds

	appendSlot(&out, b.Exposure)
	appendSlot(&out, b.Gain)
	appendSlot(&out, b.HardwareBin)
	appendSlot(&out, b.Temperature)
	appendSlot(&out, b.WbR)
	appendSlot(&out, b.WbG)
	appendSlot(&out, b.WbB)
	appendSlot(&out, b.Offset)
	appendSlot(&out, b.AutoMaxGain)
	appendSlot(&out, b.AutoMaxExposure)
	appendSlot(&out, b.AutoBrightness)
	appendSlot(&out, b.GuideNorth)
	appendSlot(&out, b.GuideSouth)
	appendSlot(&out, b.GuideEast)
	appendSlot(&out, b.GuideWest)
	appendSlot(&out, b.EGain)
	appendSlot(&out, b.CoolerPower)
	appendSlot(&out, b.TargetTemp)
	appendSlot(&out, b.Cooler)
	appendSlot(&out, b.Heater)
	appendSlot(&out, b.HeaterPower)
	appendSlot(&out, b.FanPower)
	appendSlot(&out, b.FlipNone)
	appendSlot(&out, b.FlipHori)
	appendSlot(&out, b.FlipVert)
	appendSlot(&out, b.FlipBoth)
	appendSlot(&out, b.FrameLimit)
	appendSlot(&out, b.HQI)
	appendSlot(&out, b.USBBandwidthLimit)
	appendSlot(&out, b.PixelBinSum)
	appendSlot(&out, b.MonoBin)

	return out
}

// appendSlot erases one typed slot into the uniform view, skipping nil.
func appendSlot[T Scalar](out *[]SlotBounds, b *ConfigBounds[T]) {
	if b == nil {
		return
	}

	wrap := func(v T) ConfigValue {
		switch x := any(v).(type) {
		case int64:
			return IntValue(x)
		case float64:
			return FloatValue(x)
		case bool:
			return BoolValue(x)
		default:
			panic("unreachable")
		}
	}

	*out = append(*out, SlotBounds{
		Kind:         b.Kind,
		Name:         b.Name,
		Description:  b.Description,
		Min:          wrap(b.Min),
		Max:          wrap(b.Max),
		Default:      wrap(b.Default),
		SupportsAuto: b.SupportsAuto,
		Readable:     b.Readable,
		Writable:     b.Writable,
	})
}

// Complete is the strict validation mode: it fails if any slot of the
// closed set is absent from the snapshot. Monochrome and non-cooled
// cameras legitimately lack several slots, so treat this as an opt-in
// check for hardware known to expose everything.
func (b *AllConfigBounds) Complete() error {
	checks := []struct {
		name    string
		present bool
	}{
		{"exposure", b.Exposure != nil},
		{"gain", b.Gain != nil},
		{"hardware_bin", b.HardwareBin != nil},
		{"temperature", b.Temperature != nil},
		{"wb_r", b.WbR != nil},
		{"wb_g", b.WbG != nil},
		{"wb_b", b.WbB != nil},
		{"offset", b.Offset != nil},
		{"auto_max_gain", b.AutoMaxGain != nil},
		{"auto_max_exposure", b.AutoMaxExposure != nil},
		{"auto_brightness", b.AutoBrightness != nil},
		{"guide_north", b.GuideNorth != nil},
		{"guide_south", b.GuideSouth != nil},
		{"guide_east", b.GuideEast != nil},
		{"guide_west", b.GuideWest != nil},
		{"egain", b.EGain != nil},
		{"cooler_power", b.CoolerPower != nil},
		{"target_temp", b.TargetTemp != nil},
		{"cooler", b.Cooler != nil},
		{"heater", b.Heater != nil},
		{"heater_power", b.HeaterPower != nil},
		{"fan_power", b.FanPower != nil},
		{"flip_none", b.FlipNone != nil},
		{"flip_hori", b.FlipHori != nil},
		{"flip_vert", b.FlipVert != nil},
		{"flip_both", b.FlipBoth != nil},
		{"frame_limit", b.FrameLimit != nil},
		{"hqi", b.HQI != nil},
		{"usb_bandwidth_limit", b.USBBandwidthLimit != nil},
		{"pixel_bin_sum", b.PixelBinSum != nil},
		{"mono_bin", b.MonoBin != nil},
	}

	var missing []string
	for _, ch := range checks {
		if !ch.present {
			missing = append(missing, ch.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("config slots absent: %s: %w",
			strings.Join(missing, ", "), driver.ErrInvalidConfig)
	}
	return nil
}
