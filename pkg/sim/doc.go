// Package sim provides a simulated camera driver for development and
// testing without hardware.
//
// The simulator implements the full driver boundary:
//   - Enumeration with per-camera fixed properties
//   - The open/initialize/close lifecycle with native sequencing rules
//   - The complete config slot set with realistic bounds and defaults
//   - Exposure timing, frame pacing and synthetic frame generation
//   - ROI, binning and pixel format geometry with driver-side rescaling
//
// Build one with NewDriver and hand it to camera.EnumerateCameras; the
// safe layer cannot tell it apart from the native driver. The command
// line tools fall back to the simulator when no hardware is attached.
package sim
