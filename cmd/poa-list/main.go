// Command poa-list enumerates attached cameras and prints their fixed
// properties.
//
// Without hardware it runs against the simulator, which is also the
// default backend of the other poa-* tools.
//
// Usage:
//
//	poa-list [flags]
//
// Flags:
//
//	-yaml      Emit machine-readable YAML instead of text
//	-bounds    Also query and print every config slot's bounds
//	-cameras   Number of simulated cameras (default 1)
//	-color     Simulate color cameras
//	-cooled    Simulate cooled cameras
//
// Examples:
//
//	# List cameras in human-readable form
//	poa-list
//
//	# Dump a cooled color camera with all config bounds as YAML
//	poa-list -color -cooled -bounds -yaml
package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openastro/poago/pkg/camera"
	"github.com/openastro/poago/pkg/sim"
)

var (
	asYAML     = flag.Bool("yaml", false, "Emit machine-readable YAML instead of text")
	withBounds = flag.Bool("bounds", false, "Also query and print every config slot's bounds")
	numCameras = flag.Int("cameras", 1, "Number of simulated cameras")
	color      = flag.Bool("color", false, "Simulate color cameras")
	cooled     = flag.Bool("cooled", false, "Simulate cooled cameras")
)

// listedCamera is the YAML projection of one camera.
type listedCamera struct {
	Model     string       `yaml:"model"`
	CameraID  int32        `yaml:"camera_id"`
	Serial    string       `yaml:"serial"`
	Sensor    string       `yaml:"sensor"`
	Width     int32        `yaml:"width"`
	Height    int32        `yaml:"height"`
	BitDepth  int32        `yaml:"bit_depth"`
	PixelSize float64      `yaml:"pixel_size_um"`
	Color     bool         `yaml:"color"`
	Bayer     string       `yaml:"bayer,omitempty"`
	Cooled    bool         `yaml:"cooled"`
	ST4       bool         `yaml:"st4_port"`
	USB3      bool         `yaml:"usb3"`
	Bins      []int        `yaml:"bins"`
	Formats   []string     `yaml:"formats"`
	LocalPath string       `yaml:"local_path"`
	ConfSlots []listedSlot `yaml:"config_slots,omitempty"`
}

// listedSlot is the YAML projection of one config slot's bounds.
type listedSlot struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Min      string `yaml:"min"`
	Max      string `yaml:"max"`
	Default  string `yaml:"default"`
	Auto     bool   `yaml:"auto,omitempty"`
	ReadOnly bool   `yaml:"read_only,omitempty"`
}

func main() {
	flag.Parse()

	var configs []sim.CameraConfig
	for i := 0; i < *numCameras; i++ {
		configs = append(configs, sim.CameraConfig{
			ID:     int32(i),
			Color:  *color,
			Cooled: *cooled,
		})
	}
	drv := sim.NewDriver(configs...)

	descs := camera.EnumerateCameras(drv)
	if len(descs) == 0 {
		fmt.Fprintln(os.Stderr, "No cameras found")
		os.Exit(1)
	}

	var listed []listedCamera
	for _, desc := range descs {
		entry := project(desc.Properties())
		if *withBounds {
			slots, err := querySlots(desc)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Camera %d: %v\n", desc.CameraID(), err)
				os.Exit(1)
			}
			entry.ConfSlots = slots
		}
		listed = append(listed, entry)
	}

	if *asYAML {
		out, err := yaml.Marshal(listed)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	for _, c := range listed {
		printCamera(c)
	}
}

func project(p camera.Properties) listedCamera {
	formats := make([]string, len(p.ImgFormats))
	for i, f := range p.ImgFormats {
		formats[i] = f.String()
	}

	entry := listedCamera{
		Model:     p.ModelName,
		CameraID:  p.CameraID,
		Serial:    p.SerialNumber,
		Sensor:    p.SensorModelName,
		Width:     p.MaxWidth,
		Height:    p.MaxHeight,
		BitDepth:  p.BitDepth,
		PixelSize: p.PixelSize,
		Color:     p.IsColorCamera,
		Cooled:    p.HasCooler,
		ST4:       p.HasST4Port,
		USB3:      p.IsUSB3Speed,
		Bins:      p.Bins,
		Formats:   formats,
		LocalPath: p.LocalPath,
	}
	if p.IsColorCamera {
		entry.Bayer = p.BayerPattern.String()
	}
	return entry
}

// querySlots opens the camera briefly to read its config bounds.
func querySlots(desc camera.Descriptor) ([]listedSlot, error) {
	cam, err := desc.Open()
	if err != nil {
		return nil, err
	}
	defer cam.Close()

	bounds, err := cam.ConfigBounds()
	if err != nil {
		return nil, err
	}

	var slots []listedSlot
	for _, slot := range bounds.Slots() {
		slots = append(slots, listedSlot{
			Name:     slot.Kind.String(),
			Type:     slot.Kind.ValueTag().String(),
			Min:      slot.Min.String(),
			Max:      slot.Max.String(),
			Default:  slot.Default.String(),
			Auto:     slot.SupportsAuto,
			ReadOnly: !slot.Writable,
		})
	}
	return slots, nil
}

func printCamera(c listedCamera) {
	fmt.Printf("Camera %d: %s\n", c.CameraID, c.Model)
	fmt.Printf("  Serial:     %s\n", c.Serial)
	fmt.Printf("  Sensor:     %s (%dx%d, %d bit, %.2f um pixels)\n",
		c.Sensor, c.Width, c.Height, c.BitDepth, c.PixelSize)
	if c.Color {
		fmt.Printf("  Color:      yes (bayer %s)\n", c.Bayer)
	} else {
		fmt.Printf("  Color:      no\n")
	}
	fmt.Printf("  Cooled:     %v\n", c.Cooled)
	fmt.Printf("  ST4 port:   %v\n", c.ST4)
	fmt.Printf("  USB3:       %v\n", c.USB3)
	fmt.Printf("  Bins:       %v\n", c.Bins)
	fmt.Printf("  Formats:    %v\n", c.Formats)
	fmt.Printf("  Path:       %s\n", c.LocalPath)

	if len(c.ConfSlots) > 0 {
		fmt.Printf("  Config slots:\n")
		for _, s := range c.ConfSlots {
			ro := ""
			if s.ReadOnly {
				ro = " (read-only)"
			}
			auto := ""
			if s.Auto {
				auto = " (auto)"
			}
			fmt.Printf("    %-22s %-6s min=%-12v max=%-12v default=%v%s%s\n",
				s.Name, s.Type, s.Min, s.Max, s.Default, ro, auto)
		}
	}
	fmt.Println()
}
