// Package camlog provides structured driver-call logging for poago.
//
// Every round trip to the native driver can be captured as an Event:
// which camera, which operation, the status code it returned and how
// long it took. The trace is machine-readable and complete enough to
// replay a session when debugging timing or sequencing problems
// against real hardware.
//
// # Basic Usage
//
// Logging is disabled by default. Pass a Logger when opening a camera:
//
//	// For development: log to console via slog
//	cam, err := desc.Open(camera.WithLogger(camlog.NewSlogAdapter(slog.Default())))
//
//	// For analysis: write to a binary file
//	fl, _ := camlog.NewFileLogger("session.plog")
//	cam, err := desc.Open(camera.WithLogger(fl))
//
//	// Both: use MultiLogger
//	camera.WithLogger(camlog.NewMultiLogger(adapter, fl))
//
// # File Format
//
// Log files use CBOR encoding with integer map keys, .plog extension
// by convention. The poa-log CLI tool provides viewing and filtering.
package camlog
