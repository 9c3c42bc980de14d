package driver

// Driver is the procedural surface of the native camera library. One
// implementation wraps the real shared library via cgo; test doubles
// live in internal/camtest and pkg/driver/mocks, and pkg/sim provides a
// software camera.
//
// Every method returns a Code; CodeOK means the out-parameters are
// valid. The driver owns all device state and is authoritative about
// it; callers must not assume a call will succeed because local
// bookkeeping says it should.
type Driver interface {
	// CameraCount returns the number of attached cameras.
	CameraCount() int

	// CameraProperties fills the property struct for the camera at the
	// given enumeration index (not camera ID).
	CameraProperties(index int) (RawProperties, Code)

	// OpenCamera opens the camera for use.
	OpenCamera(id int) Code

	// InitCamera initializes an opened camera. Must be called after
	// OpenCamera and before any per-camera operation.
	InitCamera(id int) Code

	// CloseCamera closes the camera and releases driver resources.
	CloseCamera(id int) Code

	// CameraState reports the driver's view of the camera lifecycle.
	CameraState(id int) (CameraState, Code)

	// ConfigsCount returns the number of config slots the camera
	// exposes.
	ConfigsCount(id int) (int, Code)

	// ConfigAttributes fills the attribute struct for the config slot
	// at the given index (not ConfigID).
	ConfigAttributes(id, index int) (RawConfigAttributes, Code)

	// GetConfig reads a config slot's untyped value and its
	// auto-adjust flag.
	GetConfig(id int, conf ConfigID) (RawValue, Bool, Code)

	// SetConfig writes a config slot's untyped value and auto-adjust
	// flag.
	SetConfig(id int, conf ConfigID, value RawValue, auto Bool) Code

	// StartExposure begins exposing. With continuous true the camera
	// keeps producing frames until StopExposure; with false it stops
	// after a single frame.
	StartExposure(id int, continuous Bool) Code

	// StopExposure stops an in-progress exposure.
	StopExposure(id int) Code

	// ImageReady reports whether a frame is available for retrieval.
	ImageReady(id int) (Bool, Code)

	// GetImageData blocks until a frame is copied into buf or the
	// timeout (milliseconds) expires. TimeoutInfinite blocks forever.
	GetImageData(id int, buf []byte, timeoutMS int32) Code

	// GetImageSize returns the current image extent in
	// binning-adjusted pixels.
	GetImageSize(id int) (width, height int32, code Code)

	// SetImageSize sets the image extent.
	SetImageSize(id int, width, height int32) Code

	// GetImageStartPos returns the current ROI start position.
	GetImageStartPos(id int) (x, y int32, code Code)

	// SetImageStartPos sets the ROI start position.
	SetImageStartPos(id int, x, y int32) Code

	// GetImageBin returns the current binning factor.
	GetImageBin(id int) (int32, Code)

	// SetImageBin sets the binning factor. On success the driver
	// rescales the image size and start position.
	SetImageBin(id int, bin int32) Code

	// GetImageFormat returns the current pixel format.
	GetImageFormat(id int) (ImgFormatID, Code)

	// SetImageFormat sets the pixel format.
	SetImageFormat(id int, format ImgFormatID) Code
}
