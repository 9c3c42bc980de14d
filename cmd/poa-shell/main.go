// Command poa-shell is an interactive camera console.
//
// It enumerates cameras at startup and offers line-edited commands for
// the full control surface: lifecycle, config slots, geometry, frame
// capture and profile round trips. All driver traffic of the session
// can be recorded for later analysis with poa-log.
//
// Usage:
//
//	poa-shell [flags]
//
// Flags:
//
//	-log string   Record driver traffic to this CBOR log file
//	-color        Simulate a color camera
//	-cooled       Simulate a cooled camera
//	-cameras int  Number of simulated cameras (default 1)
//
// Commands:
//
//	list                      List cameras
//	open <id>                 Open a camera
//	close                     Close the current camera
//	props                     Show fixed properties
//	state                     Show lifecycle state
//	get <slot>                Read a config slot
//	set <slot> <value> [auto] Write a config slot
//	bounds                    Show all config slot bounds
//	roi [x y w h]             Show or set the region of interest
//	bin [n]                   Show or set the binning factor
//	format [name]             Show or set the pixel format
//	capture <file> [timeout]  Capture one frame to a file
//	save <file>               Save the current setup as a profile
//	load <file>               Apply a profile
//	help                      Show this help
//	exit                      Leave the shell
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/openastro/poago/pkg/camera"
	"github.com/openastro/poago/pkg/camlog"
	"github.com/openastro/poago/pkg/profile"
	"github.com/openastro/poago/pkg/sim"
)

var (
	logPath    = flag.String("log", "", "Record driver traffic to this CBOR log file")
	color      = flag.Bool("color", false, "Simulate a color camera")
	cooled     = flag.Bool("cooled", false, "Simulate a cooled camera")
	numCameras = flag.Int("cameras", 1, "Number of simulated cameras")
)

// shell holds the interactive session state.
type shell struct {
	rl     *readline.Instance
	descs  []camera.Descriptor
	cam    *camera.Camera
	logger camlog.Logger
}

func main() {
	flag.Parse()

	logger := camlog.Logger(camlog.NoopLogger{})
	if *logPath != "" {
		fl, err := camlog.NewFileLogger(*logPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		defer fl.Close()
		logger = fl
	}

	var configs []sim.CameraConfig
	for i := 0; i < *numCameras; i++ {
		configs = append(configs, sim.CameraConfig{
			ID: int32(i), Color: *color, Cooled: *cooled,
		})
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "poa> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer rl.Close()

	s := &shell{
		rl:     rl,
		descs:  camera.EnumerateCameras(sim.NewDriver(configs...)),
		logger: logger,
	}
	defer s.closeCamera()

	fmt.Fprintf(rl.Stdout(), "%d camera(s) found; 'open 0' to begin, 'help' for commands\n", len(s.descs))
	s.run()
}

func (s *shell) run() {
	for {
		line, err := s.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			return
		}

		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if cmd == "exit" || cmd == "quit" {
			return
		}
		if err := s.dispatch(cmd, args); err != nil {
			fmt.Fprintln(s.rl.Stdout(), "error:", err)
		}
	}
}

func (s *shell) dispatch(cmd string, args []string) error {
	switch cmd {
	case "help", "?":
		s.printHelp()
		return nil
	case "list", "ls":
		return s.cmdList()
	case "open":
		return s.cmdOpen(args)
	case "close":
		s.closeCamera()
		return nil
	}

	// Everything below needs an open camera.
	if s.cam == nil {
		return errors.New("no camera open; use 'open <id>'")
	}

	switch cmd {
	case "props":
		return s.cmdProps()
	case "state":
		return s.cmdState()
	case "get":
		return s.cmdGet(args)
	case "set":
		return s.cmdSet(args)
	case "bounds":
		return s.cmdBounds()
	case "roi":
		return s.cmdROI(args)
	case "bin":
		return s.cmdBin(args)
	case "format":
		return s.cmdFormat(args)
	case "capture":
		return s.cmdCapture(args)
	case "save":
		return s.cmdSave(args)
	case "load":
		return s.cmdLoad(args)
	default:
		return fmt.Errorf("unknown command %q; try 'help'", cmd)
	}
}

func (s *shell) out() io.Writer {
	return s.rl.Stdout()
}

func (s *shell) closeCamera() {
	if s.cam != nil {
		if err := s.cam.Close(); err != nil {
			fmt.Fprintln(s.out(), "error:", err)
		}
		s.cam = nil
	}
}

func (s *shell) cmdList() error {
	for _, d := range s.descs {
		p := d.Properties()
		fmt.Fprintf(s.out(), "  %d: %s (%dx%d, SN %s)\n",
			d.CameraID(), p.ModelName, p.MaxWidth, p.MaxHeight, p.SerialNumber)
	}
	return nil
}

func (s *shell) cmdOpen(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: open <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	for _, d := range s.descs {
		if int(d.CameraID()) != id {
			continue
		}
		s.closeCamera()
		cam, err := d.Open(camera.WithLogger(s.logger))
		if err != nil {
			return err
		}
		s.cam = cam
		fmt.Fprintf(s.out(), "opened camera %d (%s)\n", id, d.Properties().ModelName)
		return nil
	}
	return fmt.Errorf("no camera with id %d", id)
}

func (s *shell) cmdProps() error {
	p := s.cam.Properties()
	fmt.Fprintf(s.out(), "  model:   %s\n", p.ModelName)
	fmt.Fprintf(s.out(), "  serial:  %s\n", p.SerialNumber)
	fmt.Fprintf(s.out(), "  sensor:  %s %dx%d @ %d bit\n", p.SensorModelName, p.MaxWidth, p.MaxHeight, p.BitDepth)
	fmt.Fprintf(s.out(), "  color:   %v (bayer %s)\n", p.IsColorCamera, p.BayerPattern)
	fmt.Fprintf(s.out(), "  cooled:  %v\n", p.HasCooler)
	fmt.Fprintf(s.out(), "  bins:    %v\n", p.Bins)
	fmt.Fprintf(s.out(), "  formats: %v\n", p.ImgFormats)
	return nil
}

func (s *shell) cmdState() error {
	state, err := s.cam.State()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out(), state)
	return nil
}

func (s *shell) cmdGet(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: get <slot>")
	}
	kind, ok := camera.KindByName(args[0])
	if !ok {
		return fmt.Errorf("unknown slot %q", args[0])
	}
	value, auto, err := s.cam.ConfigValueOf(kind)
	if err != nil {
		return err
	}
	if auto {
		fmt.Fprintf(s.out(), "%s (auto)\n", value)
	} else {
		fmt.Fprintln(s.out(), value)
	}
	return nil
}

func (s *shell) cmdSet(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errors.New("usage: set <slot> <value> [auto]")
	}
	kind, ok := camera.KindByName(args[0])
	if !ok {
		return fmt.Errorf("unknown slot %q", args[0])
	}
	auto := len(args) == 3 && args[2] == "auto"

	value, err := parseValue(kind, args[1])
	if err != nil {
		return err
	}
	return s.cam.SetConfigValue(kind, value, auto)
}

func parseValue(kind camera.ConfigKind, text string) (camera.ConfigValue, error) {
	switch kind.ValueTag() {
	case camera.TagInt:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return camera.ConfigValue{}, fmt.Errorf("%s wants an integer: %w", kind, err)
		}
		return camera.IntValue(v), nil
	case camera.TagFloat:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return camera.ConfigValue{}, fmt.Errorf("%s wants a number: %w", kind, err)
		}
		return camera.FloatValue(v), nil
	default:
		v, err := strconv.ParseBool(text)
		if err != nil {
			return camera.ConfigValue{}, fmt.Errorf("%s wants true or false: %w", kind, err)
		}
		return camera.BoolValue(v), nil
	}
}

func (s *shell) cmdBounds() error {
	bounds, err := s.cam.ConfigBounds()
	if err != nil {
		return err
	}
	for _, slot := range bounds.Slots() {
		current := "-"
		if value, auto, err := s.cam.ConfigValueOf(slot.Kind); err == nil {
			current = value.String()
			if auto {
				current += " (auto)"
			}
		}
		ro := ""
		if !slot.Writable {
			ro = " read-only"
		}
		fmt.Fprintf(s.out(), "  %-22s %-6s %-14s [%v .. %v] default %v%s\n",
			slot.Kind, slot.Kind.ValueTag(), current,
			slot.Min, slot.Max, slot.Default, ro)
	}
	return nil
}

func (s *shell) cmdROI(args []string) error {
	if len(args) == 0 {
		roi, err := s.cam.ROI()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out(), "%dx%d+%d+%d\n", roi.Width, roi.Height, roi.StartX, roi.StartY)
		return nil
	}
	if len(args) != 4 {
		return errors.New("usage: roi [x y w h]")
	}
	vals := make([]int32, 4)
	for i, a := range args {
		v, err := strconv.ParseInt(a, 10, 32)
		if err != nil {
			return err
		}
		vals[i] = int32(v)
	}
	return s.cam.SetROI(camera.ROI{StartX: vals[0], StartY: vals[1], Width: vals[2], Height: vals[3]})
}

func (s *shell) cmdBin(args []string) error {
	if len(args) == 0 {
		bin, err := s.cam.Bin()
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out(), bin)
		return nil
	}
	bin, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	return s.cam.SetBin(bin)
}

func (s *shell) cmdFormat(args []string) error {
	if len(args) == 0 {
		format, err := s.cam.ImageFormat()
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out(), format)
		return nil
	}
	name := strings.ToUpper(args[0])
	for _, f := range []camera.ImgFormat{camera.Raw8, camera.Raw16, camera.RGB24, camera.Mono8} {
		if f.String() == name {
			return s.cam.SetImageFormat(f)
		}
	}
	return fmt.Errorf("unknown format %q", args[0])
}

func (s *shell) cmdCapture(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: capture <file> [timeout]")
	}
	timeout := 10 * time.Second
	if len(args) == 2 {
		var err error
		timeout, err = time.ParseDuration(args[1])
		if err != nil {
			return err
		}
	}

	buf, err := s.cam.CreateImageBuffer()
	if err != nil {
		return err
	}
	start := time.Now()
	if err := s.cam.Capture(buf, timeout); err != nil {
		return err
	}
	if err := os.WriteFile(args[0], buf, 0644); err != nil {
		return err
	}
	fmt.Fprintf(s.out(), "wrote %d bytes in %v\n", len(buf), time.Since(start).Round(time.Millisecond))
	return nil
}

func (s *shell) cmdSave(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: save <file>")
	}
	p, err := profile.FromCamera(s.cam, "")
	if err != nil {
		return err
	}
	if err := p.Save(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(s.out(), "saved profile to %s\n", args[0])
	return nil
}

func (s *shell) cmdLoad(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: load <file>")
	}
	p, err := profile.Load(args[0])
	if err != nil {
		return err
	}
	if err := p.Apply(s.cam); err != nil {
		return err
	}
	fmt.Fprintf(s.out(), "applied profile %s\n", args[0])
	return nil
}

func (s *shell) printHelp() {
	fmt.Fprint(s.out(), `Commands:
  list                      List cameras
  open <id>                 Open a camera
  close                     Close the current camera
  props                     Show fixed properties
  state                     Show lifecycle state
  get <slot>                Read a config slot
  set <slot> <value> [auto] Write a config slot
  bounds                    Show config slots with current values
  roi [x y w h]             Show or set the region of interest
  bin [n]                   Show or set the binning factor
  format [name]             Show or set the pixel format
  capture <file> [timeout]  Capture one frame to a file
  save <file>               Save the current setup as a profile
  load <file>               Apply a profile
  exit                      Leave the shell
`)
}
