package camera

import (
	"time"
)

// Capture takes a single frame into the caller-supplied buffer,
// blocking until the frame arrives or the timeout expires (zero or
// negative blocks forever). The exposure is stopped before returning
// even though a completed single-frame exposure stops on its own; the
// stop keeps the camera idle when retrieval fails part way.
func (c *Camera) Capture(buf []byte, timeout time.Duration) error {
	ms, err := timeoutMS(timeout)
	if err != nil {
		return err
	}

	if err := c.StartExposure(false); err != nil {
		return err
	}

	retrieveErr := c.getImageData(buf, ms)
	stopErr := c.StopExposure()
	if retrieveErr != nil {
		return retrieveErr
	}
	return stopErr
}

// Stream drives a continuous exposure and calls consumer with each
// frame. The consumer receives the camera and the frame buffer and
// returns true to continue or false to stop the stream.
//
// One buffer sized for the current geometry and pixel format is
// allocated up front and overwritten every iteration; a consumer that
// keeps frame data past its invocation must copy it out. Do not change
// geometry, binning or pixel format from inside the consumer without
// restarting the stream, the buffer will no longer fit.
//
// A nil return means the consumer stopped the stream. Any retrieval
// failure, including the timeout expiring, stops the exposure
// best-effort and is returned as an error, so callers can tell a
// consumer stop from a timeout.
func (c *Camera) Stream(timeout time.Duration, consumer func(*Camera, []byte) bool) error {
	ms, err := timeoutMS(timeout)
	if err != nil {
		return err
	}

	buf, err := c.CreateImageBuffer()
	if err != nil {
		return err
	}

	if err := c.StartExposure(true); err != nil {
		return err
	}
	for {
		if err := c.getImageData(buf, ms); err != nil {
			_ = c.StopExposure()
			return err
		}
		if !consumer(c, buf) {
			break
		}
	}

	return c.StopExposure()
}
