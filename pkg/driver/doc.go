// Package driver defines the boundary to the native Player One camera
// driver.
//
// The native library is a C-style procedural API: every call takes a
// camera ID, returns an integer status code, and fills caller-provided
// structs whose text fields are fixed-size NUL-terminated buffers and
// whose list fields are fixed-capacity sentinel-terminated arrays. This
// package mirrors that contract exactly and nothing more:
//
//   - Driver is the procedural surface (enumeration, lifecycle,
//     configuration, acquisition, geometry).
//   - Code is the closed status-code set and its mapping onto sentinel
//     errors. Zero is success and must never be mapped to an error.
//   - RawValue is the 8-byte untyped value union. The union carries no
//     type tag; the caller must know the slot's declared value type.
//   - Bool is the vendor two-valued boolean.
//
// The safe, typed API on top of this lives in package camera. Test
// doubles of Driver live in internal/camtest (scriptable fake) and
// pkg/driver/mocks (generated testify mock).
//
// # Concurrency
//
// The native library is not documented as reentrant per device. Driver
// implementations are expected to be callable from one goroutine per
// camera ID at a time; the safe layer preserves that assumption and
// adds no locking of its own.
package driver
