package driver

// ConfigID is the vendor config slot identifier.
type ConfigID int32

const (
	// CfgExposure is the exposure time in microseconds.
	CfgExposure ConfigID = 0

	// CfgGain is the analog gain.
	CfgGain ConfigID = 1

	// CfgHardwareBin toggles hardware binning.
	CfgHardwareBin ConfigID = 2

	// CfgTemperature is the sensor temperature in Celsius (read-only).
	CfgTemperature ConfigID = 3

	// CfgWbR is the red white-balance coefficient.
	CfgWbR ConfigID = 4

	// CfgWbG is the green white-balance coefficient.
	CfgWbG ConfigID = 5

	// CfgWbB is the blue white-balance coefficient.
	CfgWbB ConfigID = 6

	// CfgOffset is the sensor offset.
	CfgOffset ConfigID = 7

	// CfgAutoMaxGain is the gain ceiling during auto adjustment.
	CfgAutoMaxGain ConfigID = 8

	// CfgAutoMaxExposure is the exposure ceiling during auto
	// adjustment, in milliseconds.
	CfgAutoMaxExposure ConfigID = 9

	// CfgAutoBrightness is the target brightness during auto
	// adjustment.
	CfgAutoBrightness ConfigID = 10

	// CfgGuideNorth drives the ST4 DEC+ line.
	CfgGuideNorth ConfigID = 11

	// CfgGuideSouth drives the ST4 DEC- line.
	CfgGuideSouth ConfigID = 12

	// CfgGuideEast drives the ST4 RA+ line.
	CfgGuideEast ConfigID = 13

	// CfgGuideWest drives the ST4 RA- line.
	CfgGuideWest ConfigID = 14

	// CfgEGain is the conversion gain in e/ADU (read-only).
	CfgEGain ConfigID = 15

	// CfgCoolerPower is the cooler power percentage (read-only).
	CfgCoolerPower ConfigID = 16

	// CfgTargetTemp is the cooling target temperature in Celsius.
	CfgTargetTemp ConfigID = 17

	// CfgCooler toggles the cooler (and fan).
	CfgCooler ConfigID = 18

	// CfgHeater reports the lens heater state (legacy, read-only).
	CfgHeater ConfigID = 19

	// CfgHeaterPower is the lens heater power percentage.
	CfgHeaterPower ConfigID = 20

	// CfgFanPower is the radiator fan power percentage.
	CfgFanPower ConfigID = 21

	// CfgFlipNone disables image flipping.
	CfgFlipNone ConfigID = 22

	// CfgFlipHori flips the image horizontally.
	CfgFlipHori ConfigID = 23

	// CfgFlipVert flips the image vertically.
	CfgFlipVert ConfigID = 24

	// CfgFlipBoth flips the image both ways.
	CfgFlipBoth ConfigID = 25

	// CfgFrameLimit caps the frame rate, 0 means no limit.
	CfgFrameLimit ConfigID = 26

	// CfgHQI toggles high quality image mode on DDR-less cameras.
	CfgHQI ConfigID = 27

	// CfgUSBBandwidthLimit caps USB bandwidth usage in percent.
	CfgUSBBandwidthLimit ConfigID = 28

	// CfgPixelBinSum selects sum (true) or average (false) binning.
	CfgPixelBinSum ConfigID = 29

	// CfgMonoBin selects bayer-destroying neighbour binning on color
	// cameras.
	CfgMonoBin ConfigID = 30
)

// String returns the vendor slot name.
func (c ConfigID) String() string {
	names := []string{
		"EXPOSURE", "GAIN", "HARDWARE_BIN", "TEMPERATURE",
		"WB_R", "WB_G", "WB_B", "OFFSET",
		"AUTOEXPO_MAX_GAIN", "AUTOEXPO_MAX_EXPOSURE", "AUTOEXPO_BRIGHTNESS",
		"GUIDE_NORTH", "GUIDE_SOUTH", "GUIDE_EAST", "GUIDE_WEST",
		"EGAIN", "COOLER_POWER", "TARGET_TEMP", "COOLER",
		"HEATER", "HEATER_POWER", "FAN_POWER",
		"FLIP_NONE", "FLIP_HORI", "FLIP_VERT", "FLIP_BOTH",
		"FRAME_LIMIT", "HQI", "USB_BANDWIDTH_LIMIT",
		"PIXEL_BIN_SUM", "MONO_BIN",
	}
	if c >= 0 && int(c) < len(names) {
		return names[c]
	}
	return "UNKNOWN"
}
