// Package profile persists reusable capture setups as YAML documents.
//
// A profile records geometry (binning, ROI, pixel format) and any
// number of config slots by their snake_case names. Profiles are
// hand-editable; Apply replays one onto an open camera in the order
// binning, ROI, format, configs, so geometry rescaling from a bin
// change cannot corrupt the ROI.
package profile

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/openastro/poago/pkg/camera"
)

// ROI is the profile's region of interest in binning-adjusted pixels.
type ROI struct {
	X      int32 `yaml:"x"`
	Y      int32 `yaml:"y"`
	Width  int32 `yaml:"width"`
	Height int32 `yaml:"height"`
}

// Profile is a reusable capture setup. Nil geometry fields are left
// untouched on Apply.
type Profile struct {
	// Name labels the profile; informational only.
	Name string `yaml:"name,omitempty"`

	// Bin is the binning factor to apply, if set.
	Bin *int `yaml:"bin,omitempty"`

	// ROI is the region of interest to apply, if set.
	ROI *ROI `yaml:"roi,omitempty"`

	// Format is the pixel format name (RAW8, RAW16, RGB24, MONO8).
	Format string `yaml:"format,omitempty"`

	// Configs maps snake_case config slot names to values. Value types
	// must match the slot: integer slots take integers, float slots
	// take numbers, boolean slots take booleans.
	Configs map[string]any `yaml:"configs,omitempty"`

	// Auto lists the config slots to put under auto adjustment.
	Auto []string `yaml:"auto,omitempty"`
}

// Parse decodes a YAML profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads a YAML profile from a file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Encode renders the profile as YAML.
func (p *Profile) Encode() ([]byte, error) {
	return yaml.Marshal(p)
}

// Save writes the profile to a file, overwriting it.
func (p *Profile) Save(path string) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// validate checks slot names, value types and the format name without
// touching a camera, so a bad profile fails before any hardware call.
func (p *Profile) validate() error {
	if p.Format != "" {
		if _, err := formatByName(p.Format); err != nil {
			return err
		}
	}
	for name, value := range p.Configs {
		kind, ok := camera.KindByName(name)
		if !ok {
			return fmt.Errorf("profile: unknown config slot %q", name)
		}
		if _, err := coerce(kind, value); err != nil {
			return err
		}
	}
	for _, name := range p.Auto {
		kind, ok := camera.KindByName(name)
		if !ok {
			return fmt.Errorf("profile: unknown config slot %q in auto list", name)
		}
		if !kind.SupportsAuto() {
			return fmt.Errorf("profile: slot %s does not support auto adjustment", kind)
		}
	}
	return nil
}

// Apply replays the profile onto an open camera.
func (p *Profile) Apply(cam *camera.Camera) error {
	if err := p.validate(); err != nil {
		return err
	}

	if p.Bin != nil {
		if err := cam.SetBin(*p.Bin); err != nil {
			return err
		}
	}
	if p.ROI != nil {
		roi := camera.ROI{
			StartX: p.ROI.X, StartY: p.ROI.Y,
			Width: p.ROI.Width, Height: p.ROI.Height,
		}
		if err := cam.SetROI(roi); err != nil {
			return err
		}
	}
	if p.Format != "" {
		format, err := formatByName(p.Format)
		if err != nil {
			return err
		}
		if err := cam.SetImageFormat(format); err != nil {
			return err
		}
	}

	auto := make(map[string]bool, len(p.Auto))
	for _, name := range p.Auto {
		auto[name] = true
	}

	// Deterministic application order.
	names := make([]string, 0, len(p.Configs))
	for name := range p.Configs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		kind, _ := camera.KindByName(name)
		value, err := coerce(kind, p.Configs[name])
		if err != nil {
			return err
		}
		if err := cam.SetConfigValue(kind, value, auto[name]); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}

// FromCamera snapshots the camera's current geometry and writable
// config slots into a profile. Slots the camera lacks are skipped.
func FromCamera(cam *camera.Camera, name string) (*Profile, error) {
	p := &Profile{
		Name:    name,
		Configs: make(map[string]any),
	}

	bin, err := cam.Bin()
	if err != nil {
		return nil, err
	}
	p.Bin = &bin

	roi, err := cam.ROI()
	if err != nil {
		return nil, err
	}
	p.ROI = &ROI{X: roi.StartX, Y: roi.StartY, Width: roi.Width, Height: roi.Height}

	format, err := cam.ImageFormat()
	if err != nil {
		return nil, err
	}
	p.Format = format.String()

	bounds, err := cam.ConfigBounds()
	if err != nil {
		return nil, err
	}
	for _, kind := range camera.Kinds() {
		if !kind.Writable() || !boundsHas(bounds, kind) {
			continue
		}
		value, auto, err := cam.ConfigValueOf(kind)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", kind, err)
		}
		switch value.Tag() {
		case camera.TagInt:
			p.Configs[kind.String()] = value.Int()
		case camera.TagFloat:
			p.Configs[kind.String()] = value.Float()
		case camera.TagBool:
			p.Configs[kind.String()] = value.Bool()
		}
		if auto {
			p.Auto = append(p.Auto, kind.String())
		}
	}
	sort.Strings(p.Auto)

	return p, nil
}

// coerce converts a YAML scalar to the slot's value type. YAML decodes
// integers as int, floats as float64 and booleans as bool; integer
// slots also accept the int64 a round-tripped profile carries.
func coerce(kind camera.ConfigKind, value any) (camera.ConfigValue, error) {
	switch kind.ValueTag() {
	case camera.TagInt:
		switch v := value.(type) {
		case int:
			return camera.IntValue(int64(v)), nil
		case int64:
			return camera.IntValue(v), nil
		}
	case camera.TagFloat:
		switch v := value.(type) {
		case float64:
			return camera.FloatValue(v), nil
		case int:
			return camera.FloatValue(float64(v)), nil
		case int64:
			return camera.FloatValue(float64(v)), nil
		}
	case camera.TagBool:
		if v, ok := value.(bool); ok {
			return camera.BoolValue(v), nil
		}
	}
	return camera.ConfigValue{}, fmt.Errorf("profile: slot %s wants a %s value, got %T",
		kind, kind.ValueTag(), value)
}

func formatByName(name string) (camera.ImgFormat, error) {
	for _, f := range []camera.ImgFormat{camera.Raw8, camera.Raw16, camera.RGB24, camera.Mono8} {
		if f.String() == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("profile: unknown pixel format %q", name)
}

// boundsHas reports whether the bounds snapshot carries the slot.
func boundsHas(b *camera.AllConfigBounds, kind camera.ConfigKind) bool {
	switch kind {
	case camera.KindExposure:
		return b.Exposure != nil
	case camera.KindGain:
		return b.Gain != nil
	case camera.KindHardwareBin:
		return b.HardwareBin != nil
	case camera.KindTemperature:
		return b.Temperature != nil
	case camera.KindWbR:
		return b.WbR != nil
	case camera.KindWbG:
		return b.WbG != nil
	case camera.KindWbB:
		return b.WbB != nil
	case camera.KindOffset:
		return b.Offset != nil
	case camera.KindAutoMaxGain:
		return b.AutoMaxGain != nil
	case camera.KindAutoMaxExposure:
		return b.AutoMaxExposure != nil
	case camera.KindAutoBrightness:
		return b.AutoBrightness != nil
	case camera.KindGuideNorth:
		return b.GuideNorth != nil
	case camera.KindGuideSouth:
		return b.GuideSouth != nil
	case camera.KindGuideEast:
		return b.GuideEast != nil
	case camera.KindGuideWest:
		return b.GuideWest != nil
	case camera.KindEGain:
		return b.EGain != nil
	case camera.KindCoolerPower:
		return b.CoolerPower != nil
	case camera.KindTargetTemp:
		return b.TargetTemp != nil
	case camera.KindCooler:
		return b.Cooler != nil
	case camera.KindHeater:
		return b.Heater != nil
	case camera.KindHeaterPower:
		return b.HeaterPower != nil
	case camera.KindFanPower:
		return b.FanPower != nil
	case camera.KindFlipNone:
		return b.FlipNone != nil
	case camera.KindFlipHori:
		return b.FlipHori != nil
	case camera.KindFlipVert:
		return b.FlipVert != nil
	case camera.KindFlipBoth:
		return b.FlipBoth != nil
	case camera.KindFrameLimit:
		return b.FrameLimit != nil
	case camera.KindHQI:
		return b.HQI != nil
	case camera.KindUSBBandwidthLimit:
		return b.USBBandwidthLimit != nil
	case camera.KindPixelBinSum:
		return b.PixelBinSum != nil
	case camera.KindMonoBin:
		return b.MonoBin != nil
	default:
		return false
	}
}
