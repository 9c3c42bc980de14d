package sim

import (
	"github.com/openastro/poago/pkg/driver"
)

// attrSpec is one row of the simulated config table.
type attrSpec struct {
	id   driver.ConfigID
	vt   driver.ValueType
	name string
	desc string

	min, max, def driver.RawValue

	auto     bool
	writable bool
	readable bool

	// Gate the slot on a camera capability.
	needsColor  bool
	needsCooler bool
}

func intAttr(id driver.ConfigID, name, desc string, min, max, def int64) attrSpec {
	return attrSpec{
		id: id, vt: driver.ValInt, name: name, desc: desc,
		min: driver.RawInt(min), max: driver.RawInt(max), def: driver.RawInt(def),
		writable: true, readable: true,
	}
}

func boolAttr(id driver.ConfigID, name, desc string, def bool) attrSpec {
	return attrSpec{
		id: id, vt: driver.ValBool, name: name, desc: desc,
		min: driver.RawBool(driver.False), max: driver.RawBool(driver.True),
		def:      driver.RawBool(driver.MakeBool(def)),
		writable: true, readable: true,
	}
}

func readOnly(s attrSpec) attrSpec {
	s.writable = false
	return s
}

func withAuto(s attrSpec) attrSpec {
	s.auto = true
	return s
}

func colorOnly(s attrSpec) attrSpec {
	s.needsColor = true
	return s
}

func cooledOnly(s attrSpec) attrSpec {
	s.needsCooler = true
	return s
}

// attrTable mirrors the config surface of a typical vendor camera. The
// ranges follow the published SDK documentation.
var attrTable = []attrSpec{
	withAuto(intAttr(driver.CfgExposure, "Exposure", "exposure time (microseconds)", 10, 2_000_000_000, 10_000)),
	withAuto(intAttr(driver.CfgGain, "Gain", "analog gain", 0, 400, 0)),
	boolAttr(driver.CfgHardwareBin, "HardwareBin", "sensor-level binning", false),
	readOnly(attrSpec{
		id: driver.CfgTemperature, vt: driver.ValFloat,
		name: "Temperature", desc: "sensor temperature (Celsius)",
		min: driver.RawFloat(-50), max: driver.RawFloat(100), def: driver.RawFloat(25),
		readable: true,
	}),
	colorOnly(withAuto(intAttr(driver.CfgWbR, "WB_R", "red white balance", -1200, 1200, 0))),
	colorOnly(withAuto(intAttr(driver.CfgWbG, "WB_G", "green white balance", -1200, 1200, 0))),
	colorOnly(withAuto(intAttr(driver.CfgWbB, "WB_B", "blue white balance", -1200, 1200, 0))),
	intAttr(driver.CfgOffset, "Offset", "sensor offset", 0, 200, 10),
	intAttr(driver.CfgAutoMaxGain, "AutoExpMaxGain", "gain ceiling during auto exposure", 0, 400, 300),
	intAttr(driver.CfgAutoMaxExposure, "AutoExpMaxExposure", "exposure ceiling during auto exposure (milliseconds)", 1, 500, 100),
	intAttr(driver.CfgAutoBrightness, "AutoExpBrightness", "target brightness during auto exposure", 50, 200, 100),
	boolAttr(driver.CfgGuideNorth, "GuideNorth", "ST4 DEC+ line", false),
	boolAttr(driver.CfgGuideSouth, "GuideSouth", "ST4 DEC- line", false),
	boolAttr(driver.CfgGuideEast, "GuideEast", "ST4 RA+ line", false),
	boolAttr(driver.CfgGuideWest, "GuideWest", "ST4 RA- line", false),
	readOnly(attrSpec{
		id: driver.CfgEGain, vt: driver.ValFloat,
		name: "EGain", desc: "conversion gain (e/ADU)",
		min: driver.RawFloat(0), max: driver.RawFloat(10), def: driver.RawFloat(4),
		readable: true,
	}),
	cooledOnly(readOnly(intAttr(driver.CfgCoolerPower, "CoolerPower", "cooler power (percent)", 0, 100, 0))),
	cooledOnly(intAttr(driver.CfgTargetTemp, "TargetTemp", "cooling target temperature (Celsius)", -50, 50, 0)),
	cooledOnly(boolAttr(driver.CfgCooler, "Cooler", "cooler and fan switch", false)),
	cooledOnly(readOnly(boolAttr(driver.CfgHeater, "Heater", "lens heater switch (legacy)", false))),
	cooledOnly(intAttr(driver.CfgHeaterPower, "HeaterPower", "lens heater power (percent)", 0, 100, 10)),
	cooledOnly(intAttr(driver.CfgFanPower, "FanPower", "radiator fan power (percent)", 0, 100, 70)),
	boolAttr(driver.CfgFlipNone, "FlipNone", "no image flip", true),
	boolAttr(driver.CfgFlipHori, "FlipHori", "horizontal image flip", false),
	boolAttr(driver.CfgFlipVert, "FlipVert", "vertical image flip", false),
	boolAttr(driver.CfgFlipBoth, "FlipBoth", "horizontal and vertical image flip", false),
	intAttr(driver.CfgFrameLimit, "FrameLimit", "frame rate cap, 0 means no limit", 0, 2000, 0),
	boolAttr(driver.CfgHQI, "HQI", "high quality image mode on DDR-less cameras", false),
	intAttr(driver.CfgUSBBandwidthLimit, "USBBandwidthLimit", "USB bandwidth cap (percent)", 35, 100, 100),
	boolAttr(driver.CfgPixelBinSum, "PixelBinSum", "sum instead of average when binning", false),
	colorOnly(boolAttr(driver.CfgMonoBin, "MonoBin", "bayer-destroying neighbour binning", false)),
}

// buildAttributes materializes the attribute structs the camera
// exposes, honoring its capability gates.
func buildAttributes(cfg CameraConfig) []driver.RawConfigAttributes {
	out := make([]driver.RawConfigAttributes, 0, len(attrTable))
	for _, spec := range attrTable {
		if spec.needsColor && !cfg.Color {
			continue
		}
		if spec.needsCooler && !cfg.Cooled {
			continue
		}

		attr := driver.RawConfigAttributes{
			ConfigID:      spec.id,
			IsSupportAuto: driver.MakeBool(spec.auto),
			IsWritable:    driver.MakeBool(spec.writable),
			IsReadable:    driver.MakeBool(spec.readable),
			MinValue:      spec.min,
			MaxValue:      spec.max,
			DefaultValue:  spec.def,
			ValueType:     spec.vt,
		}
		driver.SetCString(attr.ConfName[:], spec.name)
		driver.SetCString(attr.Description[:], spec.desc)
		out = append(out, attr)
	}
	return out
}
