package camera

import (
	"fmt"

	"github.com/openastro/poago/pkg/camlog"
	"github.com/openastro/poago/pkg/driver"
)

// ROI is the rectangular sensor sub-window being read out. All fields
// are in current-binning-adjusted pixels.
type ROI struct {
	StartX int32
	StartY int32
	Width  int32
	Height int32
}

// SetROI applies a region of interest. If the camera is exposing, the
// exposure is stopped first; that stop is best-effort and its error is
// swallowed because the geometry change is the primary operation. Size
// and start position are two sequential driver calls, not atomic:
// either failure aborts with that call's error and may leave the other
// half applied.
func (c *Camera) SetROI(roi ROI) error {
	if state, err := c.State(); err == nil && state == driver.StateExposing {
		_ = c.StopExposure()
	}

	if err := c.setImageSize(roi.Width, roi.Height); err != nil {
		return err
	}
	return c.SetImageStartPos(roi.StartX, roi.StartY)
}

// ROI returns the current region of interest.
func (c *Camera) ROI() (ROI, error) {
	var roi ROI

	x, y, err := c.ImageStartPos()
	if err != nil {
		return roi, err
	}
	w, h, err := c.ImageSize()
	if err != nil {
		return roi, err
	}

	roi = ROI{StartX: x, StartY: y, Width: w, Height: h}
	return roi, nil
}

// SetImageSize sets the image extent. Width and height must not exceed
// the sensor maximum from the camera properties; violations fail with
// the out-of-bounds error before any driver call is made.
func (c *Camera) SetImageSize(width, height int32) error {
	if width > c.props.MaxWidth || height > c.props.MaxHeight {
		return fmt.Errorf("image size %dx%d exceeds sensor %dx%d: %w",
			width, height, c.props.MaxWidth, c.props.MaxHeight, driver.ErrOutOfBounds)
	}
	return c.setImageSize(width, height)
}

// setImageSize issues the driver call without the local bound check.
// SetROI skips the check deliberately: the driver validates ROI
// geometry itself and its verdict is authoritative there.
func (c *Camera) setImageSize(width, height int32) error {
	payload := camlog.Event{Geometry: &camlog.GeometryEvent{Width: width, Height: height}}
	code := c.invoke(camlog.OpSetSize, payload, func() driver.Code {
		return c.drv.SetImageSize(int(c.id), width, height)
	})
	if !code.IsOK() {
		return fmt.Errorf("set image size %dx%d: %w", width, height, code.Err())
	}
	return nil
}

// ImageSize returns the current image extent. The values change when
// the binning factor changes.
func (c *Camera) ImageSize() (width, height int32, err error) {
	code := c.invoke(camlog.OpGetSize, camlog.Event{}, func() (cc driver.Code) {
		width, height, cc = c.drv.GetImageSize(int(c.id))
		return cc
	})
	if !code.IsOK() {
		return 0, 0, fmt.Errorf("image size: %w", code.Err())
	}
	return width, height, nil
}

// SetImageStartPos sets the ROI anchor position.
func (c *Camera) SetImageStartPos(x, y int32) error {
	payload := camlog.Event{Geometry: &camlog.GeometryEvent{X: x, Y: y}}
	code := c.invoke(camlog.OpSetStartPos, payload, func() driver.Code {
		return c.drv.SetImageStartPos(int(c.id), x, y)
	})
	if !code.IsOK() {
		return fmt.Errorf("set image start pos (%d,%d): %w", x, y, code.Err())
	}
	return nil
}

// ImageStartPos returns the current ROI anchor position. The values
// change when the binning factor changes.
func (c *Camera) ImageStartPos() (x, y int32, err error) {
	code := c.invoke(camlog.OpGetStartPos, camlog.Event{}, func() (cc driver.Code) {
		x, y, cc = c.drv.GetImageStartPos(int(c.id))
		return cc
	})
	if !code.IsOK() {
		return 0, 0, fmt.Errorf("image start pos: %w", code.Err())
	}
	return x, y, nil
}

// SetBin sets the binning factor. The factor must be one of the
// supported bins from the camera properties; violations fail with the
// out-of-bounds error before any driver call is made. On success the
// driver rescales the image size and start position, so re-query them
// rather than assuming prior values still hold.
func (c *Camera) SetBin(bin int) error {
	if !c.props.SupportsBin(bin) {
		return fmt.Errorf("bin %d not in supported set %v: %w",
			bin, c.props.Bins, driver.ErrOutOfBounds)
	}

	payload := camlog.Event{Geometry: &camlog.GeometryEvent{Bin: int32(bin)}}
	code := c.invoke(camlog.OpSetBin, payload, func() driver.Code {
		return c.drv.SetImageBin(int(c.id), int32(bin))
	})
	if !code.IsOK() {
		return fmt.Errorf("set bin %d: %w", bin, code.Err())
	}
	return nil
}

// Bin returns the current binning factor.
func (c *Camera) Bin() (int, error) {
	var bin int32
	code := c.invoke(camlog.OpGetBin, camlog.Event{}, func() (cc driver.Code) {
		bin, cc = c.drv.GetImageBin(int(c.id))
		return cc
	})
	if !code.IsOK() {
		return 0, fmt.Errorf("bin: %w", code.Err())
	}
	return int(bin), nil
}

// SetImageFormat sets the pixel format.
func (c *Camera) SetImageFormat(format ImgFormat) error {
	payload := camlog.Event{Geometry: &camlog.GeometryEvent{Format: int32(format.id())}}
	code := c.invoke(camlog.OpSetFormat, payload, func() driver.Code {
		return c.drv.SetImageFormat(int(c.id), format.id())
	})
	if !code.IsOK() {
		return fmt.Errorf("set image format %s: %w", format, code.Err())
	}
	return nil
}

// ImageFormat returns the current pixel format.
func (c *Camera) ImageFormat() (ImgFormat, error) {
	var id driver.ImgFormatID
	code := c.invoke(camlog.OpGetFormat, camlog.Event{}, func() (cc driver.Code) {
		id, cc = c.drv.GetImageFormat(int(c.id))
		return cc
	})
	if !code.IsOK() {
		return 0, fmt.Errorf("image format: %w", code.Err())
	}
	format, ok := formatFromID(id)
	if !ok {
		return 0, fmt.Errorf("image format: driver reported unknown format %d: %w",
			id, driver.ErrOperationFailed)
	}
	return format, nil
}

// CreateImageBuffer allocates a buffer sized for one frame at the
// current geometry and pixel format.
func (c *Camera) CreateImageBuffer() ([]byte, error) {
	w, h, err := c.ImageSize()
	if err != nil {
		return nil, err
	}
	format, err := c.ImageFormat()
	if err != nil {
		return nil, err
	}
	return make([]byte, int(w)*int(h)*format.BytesPerPixel()), nil
}
