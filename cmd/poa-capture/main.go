// Command poa-capture takes a single frame and writes the raw pixel
// data to a file.
//
// The camera setup comes from a YAML profile, individual flags, or
// both; flags win over the profile. Driver traffic can be recorded to
// a CBOR log for later analysis with poa-log.
//
// Usage:
//
//	poa-capture [flags]
//
// Flags:
//
//	-out string       Output file for raw pixel data (default "frame.raw")
//	-profile string   YAML capture profile to apply
//	-exposure int     Exposure time in microseconds
//	-gain int         Analog gain
//	-format string    Pixel format: RAW8, RAW16, RGB24, MONO8
//	-bin int          Binning factor
//	-timeout duration Frame timeout, 0 blocks forever (default 10s)
//	-log string       Record driver traffic to this CBOR log file
//	-verbose          Print driver traffic to the console
//	-color            Simulate a color camera
//	-cooled           Simulate a cooled camera
//
// Examples:
//
//	# 50ms exposure at gain 120, 16-bit output
//	poa-capture -exposure 50000 -gain 120 -format RAW16 -out m42.raw
//
//	# Apply a saved profile and record the driver traffic
//	poa-capture -profile planetary.yaml -log session.cborlog
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/openastro/poago/pkg/camera"
	"github.com/openastro/poago/pkg/camlog"
	"github.com/openastro/poago/pkg/profile"
	"github.com/openastro/poago/pkg/sim"
)

var (
	outPath     = flag.String("out", "frame.raw", "Output file for raw pixel data")
	profilePath = flag.String("profile", "", "YAML capture profile to apply")
	exposure    = flag.Int64("exposure", 0, "Exposure time in microseconds")
	gain        = flag.Int64("gain", -1, "Analog gain")
	format      = flag.String("format", "", "Pixel format: RAW8, RAW16, RGB24, MONO8")
	bin         = flag.Int("bin", 0, "Binning factor")
	timeout     = flag.Duration("timeout", 10*time.Second, "Frame timeout, 0 blocks forever")
	logPath     = flag.String("log", "", "Record driver traffic to this CBOR log file")
	verbose     = flag.Bool("verbose", false, "Print driver traffic to the console")
	color       = flag.Bool("color", false, "Simulate a color camera")
	cooled      = flag.Bool("cooled", false, "Simulate a cooled camera")
)

func main() {
	flag.Parse()

	logger, closeLog, err := buildLogger(*logPath, *verbose)
	if err != nil {
		fatal(err)
	}
	defer closeLog()

	drv := sim.NewDriver(sim.CameraConfig{Color: *color, Cooled: *cooled})
	descs := camera.EnumerateCameras(drv)
	if len(descs) == 0 {
		fatal(fmt.Errorf("no cameras found"))
	}

	cam, err := descs[0].Open(camera.WithLogger(logger))
	if err != nil {
		fatal(err)
	}
	defer cam.Close()

	if err := configure(cam); err != nil {
		fatal(err)
	}

	buf, err := cam.CreateImageBuffer()
	if err != nil {
		fatal(err)
	}

	start := time.Now()
	if err := cam.Capture(buf, *timeout); err != nil {
		fatal(fmt.Errorf("capture: %w", err))
	}
	elapsed := time.Since(start)

	if err := os.WriteFile(*outPath, buf, 0644); err != nil {
		fatal(err)
	}

	w, h, _ := cam.ImageSize()
	f, _ := cam.ImageFormat()
	fmt.Printf("Captured %dx%d %s frame (%d bytes) in %v -> %s\n",
		w, h, f, len(buf), elapsed.Round(time.Millisecond), *outPath)
}

// configure applies the profile first, then flag overrides.
func configure(cam *camera.Camera) error {
	if *profilePath != "" {
		p, err := profile.Load(*profilePath)
		if err != nil {
			return err
		}
		if err := p.Apply(cam); err != nil {
			return fmt.Errorf("apply profile %s: %w", *profilePath, err)
		}
	}

	if *bin > 0 {
		if err := cam.SetBin(*bin); err != nil {
			return err
		}
	}
	if *format != "" {
		f, ok := formatByName(*format)
		if !ok {
			return fmt.Errorf("unknown pixel format %q", *format)
		}
		if err := cam.SetImageFormat(f); err != nil {
			return err
		}
	}
	if *exposure > 0 {
		if err := cam.SetExposure(*exposure, false); err != nil {
			return err
		}
	}
	if *gain >= 0 {
		if err := cam.SetGain(*gain, false); err != nil {
			return err
		}
	}
	return nil
}

func buildLogger(path string, verbose bool) (camlog.Logger, func(), error) {
	var loggers []camlog.Logger
	closeLog := func() {}

	if path != "" {
		fl, err := camlog.NewFileLogger(path)
		if err != nil {
			return nil, nil, err
		}
		loggers = append(loggers, fl)
		closeLog = func() { _ = fl.Close() }
	}
	if verbose {
		loggers = append(loggers, camlog.NewSlogAdapter(slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	switch len(loggers) {
	case 0:
		return camlog.NoopLogger{}, closeLog, nil
	case 1:
		return loggers[0], closeLog, nil
	default:
		return camlog.NewMultiLogger(loggers...), closeLog, nil
	}
}

func formatByName(name string) (camera.ImgFormat, bool) {
	for _, f := range []camera.ImgFormat{camera.Raw8, camera.Raw16, camera.RGB24, camera.Mono8} {
		if f.String() == name {
			return f, true
		}
	}
	return 0, false
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
