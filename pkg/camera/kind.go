package camera

import (
	"fmt"

	"github.com/openastro/poago/pkg/driver"
)

// ConfigKind names one config slot of the camera. The set is closed:
// slots the driver reports that are not in this set cannot be addressed
// by name. Every kind carries a fixed value type and fixed read/write
// capabilities; the native API does not transmit the type per read, so
// this table is the single source of truth for decoding.
type ConfigKind uint8

const (
	// KindExposure is the exposure time in microseconds.
	KindExposure ConfigKind = iota

	// KindGain is the analog gain.
	KindGain

	// KindHardwareBin toggles hardware binning.
	KindHardwareBin

	// KindTemperature is the sensor temperature in Celsius (read-only).
	KindTemperature

	// KindWbR is the red white-balance coefficient.
	KindWbR

	// KindWbG is the green white-balance coefficient.
	KindWbG

	// KindWbB is the blue white-balance coefficient.
	KindWbB

	// KindOffset is the sensor offset.
	KindOffset

	// KindAutoMaxGain is the gain ceiling during auto adjustment.
	KindAutoMaxGain

	// KindAutoMaxExposure is the exposure ceiling during auto
	// adjustment, in milliseconds.
	KindAutoMaxExposure

	// KindAutoBrightness is the target brightness during auto
	// adjustment.
	KindAutoBrightness

	// KindGuideNorth drives the ST4 DEC+ line.
	KindGuideNorth

	// KindGuideSouth drives the ST4 DEC- line.
	KindGuideSouth

	// KindGuideEast drives the ST4 RA+ line.
	KindGuideEast

	// KindGuideWest drives the ST4 RA- line.
	KindGuideWest

	// KindEGain is the conversion gain in e/ADU (read-only).
	KindEGain

	// KindCoolerPower is the cooler power percentage (read-only).
	KindCoolerPower

	// KindTargetTemp is the cooling target temperature in Celsius.
	KindTargetTemp

	// KindCooler toggles the cooler and fan.
	KindCooler

	// KindHeater reports the lens heater state.
	//
	// Deprecated: the vendor replaced it with KindHeaterPower; it
	// remains readable on older firmware.
	KindHeater

	// KindHeaterPower is the lens heater power percentage.
	KindHeaterPower

	// KindFanPower is the radiator fan power percentage.
	KindFanPower

	// KindFlipNone disables image flipping.
	KindFlipNone

	// KindFlipHori flips the image horizontally.
	KindFlipHori

	// KindFlipVert flips the image vertically.
	KindFlipVert

	// KindFlipBoth flips the image both ways.
	KindFlipBoth

	// KindFrameLimit caps the frame rate; 0 means no limit.
	KindFrameLimit

	// KindHQI toggles high quality image mode on DDR-less cameras.
	KindHQI

	// KindUSBBandwidthLimit caps USB bandwidth usage in percent.
	KindUSBBandwidthLimit

	// KindPixelBinSum selects sum (true) or average (false) binning.
	KindPixelBinSum

	// KindMonoBin selects bayer-destroying neighbour binning on color
	// cameras.
	KindMonoBin

	numConfigKinds // must stay last
)

// kindInfo is the static per-kind table: native slot ID, value type and
// capabilities.
type kindInfo struct {
	id       driver.ConfigID
	tag      ValueTag
	name     string
	readable bool
	writable bool
	auto     bool
}

var kindTable = [numConfigKinds]kindInfo{
	KindExposure:          {driver.CfgExposure, TagInt, "exposure", true, true, true},
	KindGain:              {driver.CfgGain, TagInt, "gain", true, true, true},
	KindHardwareBin:       {driver.CfgHardwareBin, TagBool, "hardware_bin", true, true, false},
	KindTemperature:       {driver.CfgTemperature, TagFloat, "temperature", true, false, false},
	KindWbR:               {driver.CfgWbR, TagInt, "wb_r", true, true, true},
	KindWbG:               {driver.CfgWbG, TagInt, "wb_g", true, true, true},
	KindWbB:               {driver.CfgWbB, TagInt, "wb_b", true, true, true},
	KindOffset:            {driver.CfgOffset, TagInt, "offset", true, true, false},
	KindAutoMaxGain:       {driver.CfgAutoMaxGain, TagInt, "auto_max_gain", true, true, false},
	KindAutoMaxExposure:   {driver.CfgAutoMaxExposure, TagInt, "auto_max_exposure", true, true, false},
	KindAutoBrightness:    {driver.CfgAutoBrightness, TagInt, "auto_brightness", true, true, false},
	KindGuideNorth:        {driver.CfgGuideNorth, TagBool, "guide_north", true, true, false},
	KindGuideSouth:        {driver.CfgGuideSouth, TagBool, "guide_south", true, true, false},
	KindGuideEast:         {driver.CfgGuideEast, TagBool, "guide_east", true, true, false},
	KindGuideWest:         {driver.CfgGuideWest, TagBool, "guide_west", true, true, false},
	KindEGain:             {driver.CfgEGain, TagFloat, "egain", true, false, false},
	KindCoolerPower:       {driver.CfgCoolerPower, TagInt, "cooler_power", true, false, false},
	KindTargetTemp:        {driver.CfgTargetTemp, TagInt, "target_temp", true, true, false},
	KindCooler:            {driver.CfgCooler, TagBool, "cooler", true, true, false},
	KindHeater:            {driver.CfgHeater, TagBool, "heater", true, false, false},
	KindHeaterPower:       {driver.CfgHeaterPower, TagInt, "heater_power", true, true, false},
	KindFanPower:          {driver.CfgFanPower, TagInt, "fan_power", true, true, false},
	KindFlipNone:          {driver.CfgFlipNone, TagBool, "flip_none", true, true, false},
	KindFlipHori:          {driver.CfgFlipHori, TagBool, "flip_hori", true, true, false},
	KindFlipVert:          {driver.CfgFlipVert, TagBool, "flip_vert", true, true, false},
	KindFlipBoth:          {driver.CfgFlipBoth, TagBool, "flip_both", true, true, false},
	KindFrameLimit:        {driver.CfgFrameLimit, TagInt, "frame_limit", true, true, false},
	KindHQI:               {driver.CfgHQI, TagBool, "hqi", true, true, false},
	KindUSBBandwidthLimit: {driver.CfgUSBBandwidthLimit, TagInt, "usb_bandwidth_limit", true, true, false},
	KindPixelBinSum:       {driver.CfgPixelBinSum, TagBool, "pixel_bin_sum", true, true, false},
	KindMonoBin:           {driver.CfgMonoBin, TagBool, "mono_bin", true, true, false},
}

var kindByID = func() map[driver.ConfigID]ConfigKind {
	m := make(map[driver.ConfigID]ConfigKind, numConfigKinds)
	for k := ConfigKind(0); k < numConfigKinds; k++ {
		m[kindTable[k].id] = k
	}
	return m
}()

// Kinds returns all config kinds in declaration order.
func Kinds() []ConfigKind {
	out := make([]ConfigKind, numConfigKinds)
	for i := range out {
		out[i] = ConfigKind(i)
	}
	return out
}

// KindByName looks a kind up by its snake_case name.
func KindByName(name string) (ConfigKind, bool) {
	for k := ConfigKind(0); k < numConfigKinds; k++ {
		if kindTable[k].name == name {
			return k, true
		}
	}
	return 0, false
}

// kindFromID maps a native slot identifier to its kind. Slots outside
// the closed set report ok == false and are unreachable by name.
func kindFromID(id driver.ConfigID) (ConfigKind, bool) {
	k, ok := kindByID[id]
	return k, ok
}

func (k ConfigKind) info() kindInfo {
	if k >= numConfigKinds {
		panic(fmt.Sprintf("camera: invalid config kind %d", k))
	}
	return kindTable[k]
}

// ID returns the native slot identifier.
func (k ConfigKind) ID() driver.ConfigID {
	return k.info().id
}

// ValueTag returns the kind's fixed value type.
func (k ConfigKind) ValueTag() ValueTag {
	return k.info().tag
}

// Readable reports whether the slot can be read.
func (k ConfigKind) Readable() bool {
	return k.info().readable
}

// Writable reports whether the slot can be written.
func (k ConfigKind) Writable() bool {
	return k.info().writable
}

// SupportsAuto reports whether the slot supports auto adjustment.
func (k ConfigKind) SupportsAuto() bool {
	return k.info().auto
}

// String returns the kind's snake_case name.
func (k ConfigKind) String() string {
	if k >= numConfigKinds {
		return "unknown"
	}
	return kindTable[k].name
}
