package camera

import (
	"fmt"
	"runtime"
	"time"

	"github.com/openastro/poago/pkg/camlog"
	"github.com/openastro/poago/pkg/driver"
)

// Camera is an open camera handle. It owns the device until Close and
// must be driven by one goroutine at a time; the native driver is not
// reentrant per device.
type Camera struct {
	drv     driver.Driver
	id      int32
	props   Properties
	closed  bool
	logger  camlog.Logger
	session string
	cleanup runtime.Cleanup
}

// OpenOption configures a Camera during Open.
type OpenOption func(*Camera)

// WithLogger attaches a driver call logger to the camera session.
func WithLogger(l camlog.Logger) OpenOption {
	return func(c *Camera) {
		if l != nil {
			c.logger = l
		}
	}
}

// Open opens and initializes the camera. If initialization fails after
// a successful open, the camera is closed again before the error is
// returned, so a failed Open never leaks the device.
func (d Descriptor) Open(opts ...OpenOption) (*Camera, error) {
	c := &Camera{
		drv:     d.drv,
		id:      d.props.CameraID,
		props:   d.props,
		logger:  camlog.NoopLogger{},
		session: camlog.NewSessionID(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if code := c.invoke(camlog.OpOpen, camlog.Event{}, func() driver.Code {
		return c.drv.OpenCamera(int(c.id))
	}); !code.IsOK() {
		return nil, fmt.Errorf("open camera %d: %w", c.id, code.Err())
	}

	if code := c.invoke(camlog.OpInit, camlog.Event{}, func() driver.Code {
		return c.drv.InitCamera(int(c.id))
	}); !code.IsOK() {
		// Undo the open; its own error is unreportable here.
		c.invoke(camlog.OpClose, camlog.Event{}, func() driver.Code {
			return c.drv.CloseCamera(int(c.id))
		})
		return nil, fmt.Errorf("init camera %d: %w", c.id, code.Err())
	}

	// Best-effort release if the handle is discarded without Close.
	// Errors on this path cannot be surfaced; callers that need them
	// must Close explicitly.
	c.cleanup = runtime.AddCleanup(c, func(r releaseArgs) {
		r.drv.CloseCamera(r.id)
	}, releaseArgs{drv: d.drv, id: int(c.id)})

	return c, nil
}

type releaseArgs struct {
	drv driver.Driver
	id  int
}

// ID returns the driver-assigned camera identifier.
func (c *Camera) ID() int32 {
	return c.id
}

// Properties returns the fixed properties captured at enumeration.
func (c *Camera) Properties() Properties {
	return c.props
}

// Close closes the camera. Closing an already-closed camera is a no-op
// success.
func (c *Camera) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.cleanup.Stop()

	if code := c.invoke(camlog.OpClose, camlog.Event{}, func() driver.Code {
		return c.drv.CloseCamera(int(c.id))
	}); !code.IsOK() {
		return fmt.Errorf("close camera %d: %w", c.id, code.Err())
	}
	return nil
}

// State reports the driver's view of the camera lifecycle. The driver
// is authoritative; the handle keeps no exposing flag of its own.
func (c *Camera) State() (driver.CameraState, error) {
	var state driver.CameraState
	code := c.invoke(camlog.OpState, camlog.Event{}, func() (cc driver.Code) {
		state, cc = c.drv.CameraState(int(c.id))
		return cc
	})
	if !code.IsOK() {
		return driver.StateClosed, fmt.Errorf("camera state: %w", code.Err())
	}
	return state, nil
}

// StartExposure begins exposing. With continuous true the camera keeps
// producing frames until StopExposure; with false it stops itself
// after one frame. Prefer Stream or Capture for ordinary use.
func (c *Camera) StartExposure(continuous bool) error {
	code := c.invoke(camlog.OpStartExposure, camlog.Event{}, func() driver.Code {
		return c.drv.StartExposure(int(c.id), driver.MakeBool(continuous))
	})
	if !code.IsOK() {
		return fmt.Errorf("start exposure: %w", code.Err())
	}
	return nil
}

// StopExposure stops an in-progress exposure.
func (c *Camera) StopExposure() error {
	code := c.invoke(camlog.OpStopExposure, camlog.Event{}, func() driver.Code {
		return c.drv.StopExposure(int(c.id))
	})
	if !code.IsOK() {
		return fmt.Errorf("stop exposure: %w", code.Err())
	}
	return nil
}

// ImageReady reports whether a frame is available for GetImageData.
func (c *Camera) ImageReady() (bool, error) {
	var ready driver.Bool
	code := c.invoke(camlog.OpImageReady, camlog.Event{}, func() (cc driver.Code) {
		ready, cc = c.drv.ImageReady(int(c.id))
		return cc
	})
	if !code.IsOK() {
		return false, fmt.Errorf("image ready: %w", code.Err())
	}
	return ready.IsTrue(), nil
}

// GetImageData blocks until a frame is copied into buf or the timeout
// expires. A zero or negative timeout blocks forever. The buffer must
// be at least width * height * BytesPerPixel(format) bytes; the driver
// is authoritative and reports too-small buffers itself.
func (c *Camera) GetImageData(buf []byte, timeout time.Duration) error {
	ms, err := timeoutMS(timeout)
	if err != nil {
		return err
	}
	return c.getImageData(buf, ms)
}

func (c *Camera) getImageData(buf []byte, timeoutMS int32) error {
	payload := camlog.Event{Frame: &camlog.FrameEvent{Size: len(buf), TimeoutMS: timeoutMS}}
	code := c.invoke(camlog.OpGetImage, payload, func() driver.Code {
		return c.drv.GetImageData(int(c.id), buf, timeoutMS)
	})
	if !code.IsOK() {
		return fmt.Errorf("get image data: %w", code.Err())
	}
	return nil
}

// timeoutMS converts a timeout to the driver's signed 32-bit
// millisecond parameter. Zero and negative mean block forever. A
// positive sub-millisecond timeout rounds up to 1ms rather than
// silently becoming unbounded.
func timeoutMS(timeout time.Duration) (int32, error) {
	if timeout <= 0 {
		return driver.TimeoutInfinite, nil
	}
	ms := timeout.Milliseconds()
	if ms > int64(maxInt32) {
		return 0, fmt.Errorf("timeout %v exceeds driver limit: %w", timeout, driver.ErrOutOfBounds)
	}
	if ms == 0 {
		ms = 1
	}
	return int32(ms), nil
}

const maxInt32 = 1<<31 - 1

// invoke runs one driver call, records it with the session logger and
// returns the status code unchanged.
func (c *Camera) invoke(op camlog.Op, payload camlog.Event, f func() driver.Code) driver.Code {
	start := time.Now()
	code := f()

	payload.Timestamp = time.Now()
	payload.SessionID = c.session
	payload.CameraID = c.id
	payload.Op = op
	payload.Status = code
	payload.Duration = time.Since(start)
	c.logger.Log(payload)

	return code
}
