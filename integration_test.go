package poago_test

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/openastro/poago/pkg/camera"
	"github.com/openastro/poago/pkg/camlog"
	"github.com/openastro/poago/pkg/profile"
	"github.com/openastro/poago/pkg/sim"
)

// TestE2E_CaptureSession runs a full single-frame session against the
// simulator and verifies the driver log it leaves behind.
func TestE2E_CaptureSession(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "session.cborlog")

	logger, err := camlog.NewFileLogger(logPath)
	if err != nil {
		t.Fatalf("Failed to create file logger: %v", err)
	}

	drv := sim.NewDriver(sim.CameraConfig{
		Model:  "SimCam-M 183",
		Width:  640,
		Height: 480,
	})

	descs := camera.EnumerateCameras(drv)
	if len(descs) != 1 {
		t.Fatalf("Expected 1 camera, got %d", len(descs))
	}

	cam, err := descs[0].Open(camera.WithLogger(logger))
	if err != nil {
		t.Fatalf("Failed to open camera: %v", err)
	}

	if err := cam.SetExposure(5_000, false); err != nil {
		t.Fatalf("Failed to set exposure: %v", err)
	}
	if err := cam.SetGain(120, false); err != nil {
		t.Fatalf("Failed to set gain: %v", err)
	}
	if err := cam.SetROI(camera.ROI{StartX: 100, StartY: 80, Width: 320, Height: 240}); err != nil {
		t.Fatalf("Failed to set ROI: %v", err)
	}
	if err := cam.SetImageFormat(camera.Raw16); err != nil {
		t.Fatalf("Failed to set format: %v", err)
	}

	buf, err := cam.CreateImageBuffer()
	if err != nil {
		t.Fatalf("Failed to create buffer: %v", err)
	}
	if len(buf) != 320*240*2 {
		t.Errorf("Buffer size mismatch: expected %d, got %d", 320*240*2, len(buf))
	}

	if err := cam.Capture(buf, 2*time.Second); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if bytes.Equal(buf, make([]byte, len(buf))) {
		t.Error("Captured frame is all zero")
	}

	if err := cam.Close(); err != nil {
		t.Fatalf("Failed to close camera: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	// Replay the log and check it tells the session's story.
	events := readAllEvents(t, logPath, camlog.Filter{})
	if len(events) == 0 {
		t.Fatal("Log file is empty")
	}

	if events[0].Op != camlog.OpOpen {
		t.Errorf("First event should be OPEN, got %s", events[0].Op)
	}
	if last := events[len(events)-1]; last.Op != camlog.OpClose {
		t.Errorf("Last event should be CLOSE, got %s", last.Op)
	}

	session := events[0].SessionID
	if session == "" {
		t.Fatal("Missing session ID")
	}

	seen := make(map[camlog.Op]int)
	for i, e := range events {
		if e.SessionID != session {
			t.Errorf("Event %d has session %q, expected %q", i, e.SessionID, session)
		}
		if !e.Status.IsOK() {
			t.Errorf("Event %d (%s) failed with %s", i, e.Op, e.Status)
		}
		if i > 0 && e.Timestamp.Before(events[i-1].Timestamp) {
			t.Errorf("Event %d timestamp out of order", i)
		}
		seen[e.Op]++
	}

	for _, op := range []camlog.Op{camlog.OpInit, camlog.OpSetConfig, camlog.OpSetSize, camlog.OpSetFormat, camlog.OpGetImage} {
		if seen[op] == 0 {
			t.Errorf("Expected at least one %s event in log", op)
		}
	}

	t.Logf("Capture session logged %d events in session %s", len(events), session)
}

// TestE2E_StreamDelivery verifies that a continuous exposure delivers
// distinct consecutive frames.
func TestE2E_StreamDelivery(t *testing.T) {
	drv := sim.NewDriver(sim.CameraConfig{Width: 64, Height: 48})

	cam, err := camera.EnumerateCameras(drv)[0].Open()
	if err != nil {
		t.Fatalf("Failed to open camera: %v", err)
	}
	defer cam.Close()

	if err := cam.SetExposure(1_000, false); err != nil {
		t.Fatalf("Failed to set exposure: %v", err)
	}

	var frames [][]byte
	err = cam.Stream(time.Second, func(_ *camera.Camera, frame []byte) bool {
		frames = append(frames, bytes.Clone(frame))
		return len(frames) < 3
	})
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	if len(frames) != 3 {
		t.Fatalf("Expected 3 frames, got %d", len(frames))
	}
	for i := 1; i < len(frames); i++ {
		if bytes.Equal(frames[i-1], frames[i]) {
			t.Errorf("Frames %d and %d are identical", i-1, i)
		}
	}
}

// TestE2E_ProfileRoundTrip captures a camera's settings into a profile
// file and replays it onto a second camera.
func TestE2E_ProfileRoundTrip(t *testing.T) {
	cooled := sim.CameraConfig{Model: "SimCam-C Pro", Color: true, Cooled: true, Bins: []int32{1, 2, 4}}

	cam, err := camera.EnumerateCameras(sim.NewDriver(cooled))[0].Open()
	if err != nil {
		t.Fatalf("Failed to open source camera: %v", err)
	}
	defer cam.Close()

	// Dial in a session worth keeping.
	if err := cam.SetExposure(20_000, false); err != nil {
		t.Fatalf("Failed to set exposure: %v", err)
	}
	if err := cam.SetGain(150, true); err != nil {
		t.Fatalf("Failed to set gain: %v", err)
	}
	if err := cam.SetCooler(true); err != nil {
		t.Fatalf("Failed to enable cooler: %v", err)
	}
	if err := cam.SetTargetTemp(-5); err != nil {
		t.Fatalf("Failed to set target temp: %v", err)
	}
	if err := cam.SetBin(2); err != nil {
		t.Fatalf("Failed to set bin: %v", err)
	}

	prof, err := profile.FromCamera(cam, "deepsky")
	if err != nil {
		t.Fatalf("Failed to build profile: %v", err)
	}

	path := filepath.Join(t.TempDir(), "deepsky.yaml")
	if err := prof.Save(path); err != nil {
		t.Fatalf("Failed to save profile: %v", err)
	}

	loaded, err := profile.Load(path)
	if err != nil {
		t.Fatalf("Failed to load profile: %v", err)
	}

	other, err := camera.EnumerateCameras(sim.NewDriver(cooled))[0].Open()
	if err != nil {
		t.Fatalf("Failed to open target camera: %v", err)
	}
	defer other.Close()

	if err := loaded.Apply(other); err != nil {
		t.Fatalf("Failed to apply profile: %v", err)
	}

	if exp, _, err := other.Exposure(); err != nil || exp != 20_000 {
		t.Errorf("Exposure not replayed: got %d, err %v", exp, err)
	}
	if gain, auto, err := other.Gain(); err != nil || gain != 150 || !auto {
		t.Errorf("Gain not replayed: got %d auto=%v, err %v", gain, auto, err)
	}
	if on, err := other.Cooler(); err != nil || !on {
		t.Errorf("Cooler not replayed: got %v, err %v", on, err)
	}
	if target, err := other.TargetTemp(); err != nil || target != -5 {
		t.Errorf("Target temp not replayed: got %d, err %v", target, err)
	}
	if bin, err := other.Bin(); err != nil || bin != 2 {
		t.Errorf("Bin not replayed: got %d, err %v", bin, err)
	}
}

// TestE2E_LogFilter verifies that failed driver calls land in the log
// and can be isolated with a filtered reader.
func TestE2E_LogFilter(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "mixed.cborlog")

	logger, err := camlog.NewFileLogger(logPath)
	if err != nil {
		t.Fatalf("Failed to create file logger: %v", err)
	}

	cam, err := camera.EnumerateCameras(sim.NewDriver())[0].Open(camera.WithLogger(logger))
	if err != nil {
		t.Fatalf("Failed to open camera: %v", err)
	}

	if err := cam.SetGain(100, false); err != nil {
		t.Fatalf("Failed to set gain: %v", err)
	}
	// Out of range on purpose, the rejection must still be logged.
	if err := cam.SetGain(1_000_000, false); err == nil {
		t.Fatal("Expected out-of-range gain to fail")
	}

	cam.Close()
	logger.Close()

	failed := readAllEvents(t, logPath, camlog.Filter{FailedOnly: true})
	if len(failed) != 1 {
		t.Fatalf("Expected 1 failed event, got %d", len(failed))
	}
	if failed[0].Op != camlog.OpSetConfig {
		t.Errorf("Failed event should be SET_CONFIG, got %s", failed[0].Op)
	}
	if failed[0].Config == nil {
		t.Error("Failed SET_CONFIG event is missing its config payload")
	}

	op := camlog.OpSetConfig
	writes := readAllEvents(t, logPath, camlog.Filter{Op: &op})
	if len(writes) != 2 {
		t.Errorf("Expected 2 SET_CONFIG events, got %d", len(writes))
	}
}

func readAllEvents(t *testing.T, path string, filter camlog.Filter) []camlog.Event {
	t.Helper()

	r, err := camlog.NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("Failed to open log %s: %v", path, err)
	}
	defer r.Close()

	var events []camlog.Event
	for {
		event, err := r.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("Failed to read log %s: %v", path, err)
		}
		events = append(events, event)
	}
}
