// Command poa-stream runs a continuous exposure and reports frame
// statistics. Useful for judging achievable frame rates at a given
// geometry and for soak-testing the acquisition path.
//
// Usage:
//
//	poa-stream [flags]
//
// Flags:
//
//	-frames int       Stop after this many frames, 0 for unlimited
//	-duration duration Stop after this long, 0 for unlimited (default 10s)
//	-exposure int     Exposure time in microseconds (default 10000)
//	-gain int         Analog gain
//	-bin int          Binning factor
//	-width int        ROI width, 0 keeps full sensor
//	-height int       ROI height, 0 keeps full sensor
//	-timeout duration Per-frame timeout, 0 blocks forever (default 5s)
//	-log string       Record driver traffic to this CBOR log file
//
// Examples:
//
//	# Ten seconds of full-frame streaming
//	poa-stream
//
//	# 1000 frames of a small fast ROI
//	poa-stream -frames 1000 -duration 0 -width 320 -height 240 -exposure 2000
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/openastro/poago/pkg/camera"
	"github.com/openastro/poago/pkg/camlog"
	"github.com/openastro/poago/pkg/sim"
)

var (
	maxFrames = flag.Int("frames", 0, "Stop after this many frames, 0 for unlimited")
	duration  = flag.Duration("duration", 10*time.Second, "Stop after this long, 0 for unlimited")
	exposure  = flag.Int64("exposure", 10_000, "Exposure time in microseconds")
	gain      = flag.Int64("gain", 0, "Analog gain")
	bin       = flag.Int("bin", 0, "Binning factor")
	roiWidth  = flag.Int("width", 0, "ROI width, 0 keeps full sensor")
	roiHeight = flag.Int("height", 0, "ROI height, 0 keeps full sensor")
	timeout   = flag.Duration("timeout", 5*time.Second, "Per-frame timeout, 0 blocks forever")
	logPath   = flag.String("log", "", "Record driver traffic to this CBOR log file")
)

func main() {
	flag.Parse()

	logger := camlog.Logger(camlog.NoopLogger{})
	if *logPath != "" {
		fl, err := camlog.NewFileLogger(*logPath)
		if err != nil {
			fatal(err)
		}
		defer fl.Close()
		logger = fl
	}

	descs := camera.EnumerateCameras(sim.NewDriver())
	if len(descs) == 0 {
		fatal(fmt.Errorf("no cameras found"))
	}

	cam, err := descs[0].Open(camera.WithLogger(logger))
	if err != nil {
		fatal(err)
	}
	defer cam.Close()

	if err := cam.SetExposure(*exposure, false); err != nil {
		fatal(err)
	}
	if err := cam.SetGain(*gain, false); err != nil {
		fatal(err)
	}
	if *bin > 0 {
		if err := cam.SetBin(*bin); err != nil {
			fatal(err)
		}
	}
	if *roiWidth > 0 && *roiHeight > 0 {
		if err := cam.SetImageSize(int32(*roiWidth), int32(*roiHeight)); err != nil {
			fatal(err)
		}
	}

	// The consumer runs on the acquisition goroutine; stop requests
	// arrive from signals and the duration timer.
	var stop atomic.Bool

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		stop.Store(true)
	}()
	if *duration > 0 {
		time.AfterFunc(*duration, func() { stop.Store(true) })
	}

	w, h, _ := cam.ImageSize()
	format, _ := cam.ImageFormat()
	fmt.Printf("Streaming %dx%d %s at %dus exposure (Ctrl-C to stop)\n",
		w, h, format, *exposure)

	frames := 0
	bytes := 0
	start := time.Now()
	lastReport := start

	err = cam.Stream(*timeout, func(_ *camera.Camera, frame []byte) bool {
		frames++
		bytes += len(frame)

		if now := time.Now(); now.Sub(lastReport) >= time.Second {
			elapsed := now.Sub(start).Seconds()
			fmt.Printf("  %6d frames  %7.1f fps  %8.1f MB/s\n",
				frames, float64(frames)/elapsed,
				float64(bytes)/elapsed/1e6)
			lastReport = now
		}

		if *maxFrames > 0 && frames >= *maxFrames {
			return false
		}
		return !stop.Load()
	})
	if err != nil {
		fatal(fmt.Errorf("stream: %w", err))
	}

	elapsed := time.Since(start)
	fmt.Printf("Done: %d frames in %v (%.1f fps, %.1f MB/s)\n",
		frames, elapsed.Round(time.Millisecond),
		float64(frames)/elapsed.Seconds(),
		float64(bytes)/elapsed.Seconds()/1e6)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
