// Package camera is the safe, typed API over the native Player One
// camera driver.
//
// # Lifecycle
//
// Cameras are found by enumeration and opened from their descriptor:
//
//	cams := camera.EnumerateCameras(drv)
//	cam, err := cams[0].Open()
//	if err != nil { ... }
//	defer cam.Close()
//
// A Camera moves through Closed -> Open -> Exposing and back. Open is
// open+initialize; if initialization fails the camera is closed again
// before the error is returned. Close is idempotent. A Camera that is
// garbage collected without Close releases the device best-effort; the
// error of that implicit release is unobservable, so callers that care
// must call Close themselves.
//
// # Configuration
//
// Each config slot has a fixed value type (int, float or bool) that the
// native API does not transmit per read; the ConfigKind table pairs
// every slot with its type. The named accessors (Exposure, Gain,
// Temperature, ...) are typed accordingly. ConfigValue is the tagged
// union used by the name-based ConfigValue/SetConfigValue access;
// extracting it with the wrong tag is a programming error and panics.
//
// # Acquisition
//
// Capture takes a single frame into a caller buffer. Stream drives a
// continuous exposure and invokes a consumer with a single reusable
// buffer per frame; consumers must copy out any data they keep. A
// Camera must be driven by one goroutine at a time; hand frames across
// goroutines by copying inside the consumer, never by sharing the
// Camera.
package camera
