package camera

import (
	"github.com/openastro/poago/pkg/driver"
)

// Descriptor describes an attached camera found by enumeration. It is
// an immutable snapshot; open the camera through it to get a Camera.
type Descriptor struct {
	drv   driver.Driver
	props Properties
}

// CameraID returns the driver-assigned camera identifier.
func (d Descriptor) CameraID() int32 {
	return d.props.CameraID
}

// Properties returns the camera's fixed properties.
func (d Descriptor) Properties() Properties {
	return d.props
}

// EnumerateCameras lists all attached cameras. A camera whose property
// query fails is skipped rather than failing the whole enumeration;
// transient per-device probe failures are expected on multi-camera
// hosts. The result reflects the attach state at call time only;
// re-enumerate after plugging or unplugging hardware.
func EnumerateCameras(drv driver.Driver) []Descriptor {
	count := drv.CameraCount()
	cameras := make([]Descriptor, 0, count)

	for i := 0; i < count; i++ {
		raw, code := drv.CameraProperties(i)
		if !code.IsOK() {
			continue
		}
		cameras = append(cameras, Descriptor{
			drv:   drv,
			props: propertiesFromRaw(raw),
		})
	}

	return cameras
}
