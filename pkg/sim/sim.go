package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/openastro/poago/pkg/driver"
)

// CameraConfig describes one simulated camera. Zero fields take the
// defaults of a small color planetary camera.
type CameraConfig struct {
	// Model is the camera model name.
	Model string

	// ID is the driver-assigned camera identifier.
	ID int32

	// Width and Height are the sensor extent at bin 1.
	Width  int32
	Height int32

	// Color marks a color sensor with an RGGB Bayer array.
	Color bool

	// Cooled adds the cooler assembly and its config slots.
	Cooled bool

	// Bins are the supported binning factors; default 1, 2.
	Bins []int32

	// AmbientTemp is the sensor temperature with the cooler off, in
	// Celsius. Defaults to 25.
	AmbientTemp float64
}

func (c CameraConfig) withDefaults() CameraConfig {
	if c.Model == "" {
		c.Model = "SimCam-C"
	}
	if c.Width == 0 {
		c.Width = 1920
	}
	if c.Height == 0 {
		c.Height = 1080
	}
	if len(c.Bins) == 0 {
		c.Bins = []int32{1, 2}
	}
	if c.AmbientTemp == 0 {
		c.AmbientTemp = 25
	}
	return c
}

// Driver is a simulated camera driver. It is safe for concurrent use.
type Driver struct {
	mu   sync.Mutex
	cams []*simCamera
}

// NewDriver creates a simulator with one camera per config. With no
// configs a single default camera with ID 0 is created.
func NewDriver(configs ...CameraConfig) *Driver {
	if len(configs) == 0 {
		configs = []CameraConfig{{}}
	}
	d := &Driver{}
	for _, cfg := range configs {
		d.cams = append(d.cams, newSimCamera(cfg.withDefaults()))
	}
	return d
}

// simCamera holds the mutable state of one simulated camera.
type simCamera struct {
	cfg   CameraConfig
	props driver.RawProperties
	attrs []driver.RawConfigAttributes

	opened bool
	inited bool

	// Exposure state.
	exposing   bool
	continuous bool
	started    time.Time
	frameSeq   uint8

	// Geometry, in binning-adjusted pixels.
	width  int32
	height int32
	startX int32
	startY int32
	bin    int32
	format driver.ImgFormatID

	// Config slot values and auto flags.
	values map[driver.ConfigID]driver.RawValue
	auto   map[driver.ConfigID]driver.Bool

	coolerOn    bool
	coolerSince time.Time
}

func newSimCamera(cfg CameraConfig) *simCamera {
	c := &simCamera{
		cfg:    cfg,
		width:  cfg.Width,
		height: cfg.Height,
		bin:    1,
		format: driver.ImgRaw8,
		values: make(map[driver.ConfigID]driver.RawValue),
		auto:   make(map[driver.ConfigID]driver.Bool),
	}
	c.props = buildProperties(cfg)
	c.attrs = buildAttributes(cfg)
	for _, attr := range c.attrs {
		c.values[attr.ConfigID] = attr.DefaultValue
	}
	return c
}

func buildProperties(cfg CameraConfig) driver.RawProperties {
	var p driver.RawProperties
	driver.SetCString(p.CameraModelName[:], cfg.Model)
	driver.SetCString(p.SN[:], fmt.Sprintf("SIM%08d", cfg.ID))
	driver.SetCString(p.SensorModelName[:], "SIM290")
	driver.SetCString(p.LocalPath[:], fmt.Sprintf("sim:0:%d", cfg.ID))
	p.CameraID = cfg.ID
	p.MaxWidth = cfg.Width
	p.MaxHeight = cfg.Height
	p.BitDepth = 12
	p.IsColorCamera = driver.MakeBool(cfg.Color)
	p.IsHasST4Port = driver.True
	p.IsHasCooler = driver.MakeBool(cfg.Cooled)
	p.IsUSB3Speed = driver.True
	p.PixelSize = 2.9
	p.IsSupportHardBin = driver.True
	p.PID = 0x5349

	if cfg.Color {
		p.BayerPattern = driver.BayerRG
	} else {
		p.BayerPattern = driver.BayerMono
	}

	for i := range p.Bins {
		p.Bins[i] = driver.BinEnd
	}
	copy(p.Bins[:], cfg.Bins)

	for i := range p.ImgFormats {
		p.ImgFormats[i] = driver.ImgEnd
	}
	formats := []driver.ImgFormatID{driver.ImgRaw8, driver.ImgRaw16}
	if cfg.Color {
		formats = append(formats, driver.ImgRGB24, driver.ImgMono8)
	}
	copy(p.ImgFormats[:], formats)

	return p
}

func (d *Driver) camera(id int) (*simCamera, driver.Code) {
	for _, c := range d.cams {
		if int(c.props.CameraID) == id {
			return c, driver.CodeOK
		}
	}
	return nil, driver.CodeInvalidID
}

// open looks the camera up and checks the open+init sequencing rule.
func (d *Driver) open(id int) (*simCamera, driver.Code) {
	c, code := d.camera(id)
	if !code.IsOK() {
		return nil, code
	}
	if !c.opened || !c.inited {
		return nil, driver.CodeNotOpened
	}
	return c, driver.CodeOK
}

func (d *Driver) CameraCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cams)
}

func (d *Driver) CameraProperties(index int) (driver.RawProperties, driver.Code) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.cams) {
		return driver.RawProperties{}, driver.CodeInvalidIndex
	}
	return d.cams[index].props, driver.CodeOK
}

func (d *Driver) OpenCamera(id int) driver.Code {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.camera(id)
	if !code.IsOK() {
		return code
	}
	c.opened = true
	return driver.CodeOK
}

func (d *Driver) InitCamera(id int) driver.Code {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.camera(id)
	if !code.IsOK() {
		return code
	}
	if !c.opened {
		return driver.CodeNotOpened
	}
	c.inited = true
	return driver.CodeOK
}

func (d *Driver) CloseCamera(id int) driver.Code {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.camera(id)
	if !code.IsOK() {
		return code
	}
	c.opened = false
	c.inited = false
	c.exposing = false
	return driver.CodeOK
}

func (d *Driver) CameraState(id int) (driver.CameraState, driver.Code) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.camera(id)
	if !code.IsOK() {
		return driver.StateClosed, code
	}
	switch {
	case !c.opened:
		return driver.StateClosed, driver.CodeOK
	case c.exposing:
		return driver.StateExposing, driver.CodeOK
	default:
		return driver.StateOpened, driver.CodeOK
	}
}

func (d *Driver) ConfigsCount(id int) (int, driver.Code) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.open(id)
	if !code.IsOK() {
		return 0, code
	}
	return len(c.attrs), driver.CodeOK
}

func (d *Driver) ConfigAttributes(id, index int) (driver.RawConfigAttributes, driver.Code) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.open(id)
	if !code.IsOK() {
		return driver.RawConfigAttributes{}, code
	}
	if index < 0 || index >= len(c.attrs) {
		return driver.RawConfigAttributes{}, driver.CodeInvalidIndex
	}
	return c.attrs[index], driver.CodeOK
}

func (d *Driver) GetConfig(id int, conf driver.ConfigID) (driver.RawValue, driver.Bool, driver.Code) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.open(id)
	if !code.IsOK() {
		return 0, driver.False, code
	}
	attr, ok := c.attr(conf)
	if !ok {
		return 0, driver.False, driver.CodeInvalidConfig
	}
	if !attr.IsReadable.IsTrue() {
		return 0, driver.False, driver.CodeConfigNotReadable
	}

	switch conf {
	case driver.CfgTemperature:
		return driver.RawFloat(c.temperature()), driver.False, driver.CodeOK
	case driver.CfgEGain:
		return driver.RawFloat(c.egain()), driver.False, driver.CodeOK
	case driver.CfgCoolerPower:
		return driver.RawInt(c.coolerPower()), driver.False, driver.CodeOK
	}
	return c.values[conf], c.auto[conf], driver.CodeOK
}

func (d *Driver) SetConfig(id int, conf driver.ConfigID, value driver.RawValue, auto driver.Bool) driver.Code {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.open(id)
	if !code.IsOK() {
		return code
	}
	attr, ok := c.attr(conf)
	if !ok {
		return driver.CodeInvalidConfig
	}
	if !attr.IsWritable.IsTrue() {
		return driver.CodeConfigNotWritable
	}
	if auto.IsTrue() && !attr.IsSupportAuto.IsTrue() {
		return driver.CodeInvalidArgument
	}

	// Range check per the slot's declared type.
	switch attr.ValueType {
	case driver.ValInt:
		if value.Int() < attr.MinValue.Int() || value.Int() > attr.MaxValue.Int() {
			return driver.CodeOutOfLimit
		}
	case driver.ValFloat:
		if value.Float() < attr.MinValue.Float() || value.Float() > attr.MaxValue.Float() {
			return driver.CodeOutOfLimit
		}
	}

	c.values[conf] = value
	c.auto[conf] = auto
	if conf == driver.CfgCooler {
		on := value.Bool().IsTrue()
		if on && !c.coolerOn {
			c.coolerSince = time.Now()
		}
		c.coolerOn = on
	}
	return driver.CodeOK
}

func (d *Driver) StartExposure(id int, continuous driver.Bool) driver.Code {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.open(id)
	if !code.IsOK() {
		return code
	}
	if c.exposing {
		return driver.CodeExposing
	}
	c.exposing = true
	c.continuous = continuous.IsTrue()
	c.started = time.Now()
	return driver.CodeOK
}

func (d *Driver) StopExposure(id int) driver.Code {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.open(id)
	if !code.IsOK() {
		return code
	}
	c.exposing = false
	return driver.CodeOK
}

func (d *Driver) ImageReady(id int) (driver.Bool, driver.Code) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.open(id)
	if !code.IsOK() {
		return driver.False, code
	}
	ready := c.exposing && time.Since(c.started) >= c.exposure()
	return driver.MakeBool(ready), driver.CodeOK
}

func (d *Driver) GetImageData(id int, buf []byte, timeoutMS int32) driver.Code {
	d.mu.Lock()
	c, code := d.open(id)
	if !code.IsOK() {
		d.mu.Unlock()
		return code
	}
	if !c.exposing {
		d.mu.Unlock()
		return driver.CodeExposureFailed
	}

	need := int(c.width) * int(c.height) * formatStride(c.format)
	if len(buf) < need {
		d.mu.Unlock()
		return driver.CodeSizeLess
	}

	remaining := c.exposure() - time.Since(c.started)
	d.mu.Unlock()

	// Wait out the rest of the exposure without holding the lock, so
	// state queries and StopExposure stay responsive.
	if remaining > 0 {
		if timeoutMS != driver.TimeoutInfinite && time.Duration(timeoutMS)*time.Millisecond < remaining {
			time.Sleep(time.Duration(timeoutMS) * time.Millisecond)
			return driver.CodeTimeout
		}
		time.Sleep(remaining)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !c.exposing {
		// Stopped while we were waiting.
		return driver.CodeExposureFailed
	}

	c.frameSeq++
	c.renderFrame(buf[:need])

	if c.continuous {
		c.started = time.Now()
	} else {
		c.exposing = false
	}
	return driver.CodeOK
}

func (d *Driver) GetImageSize(id int) (int32, int32, driver.Code) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.open(id)
	if !code.IsOK() {
		return 0, 0, code
	}
	return c.width, c.height, driver.CodeOK
}

func (d *Driver) SetImageSize(id int, width, height int32) driver.Code {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.open(id)
	if !code.IsOK() {
		return code
	}
	if c.exposing {
		return driver.CodeExposing
	}
	maxW := c.cfg.Width / c.bin
	maxH := c.cfg.Height / c.bin
	if width <= 0 || height <= 0 || width > maxW || height > maxH {
		return driver.CodeOutOfLimit
	}
	c.width = width
	c.height = height
	c.clampStartPos()
	return driver.CodeOK
}

func (d *Driver) GetImageStartPos(id int) (int32, int32, driver.Code) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.open(id)
	if !code.IsOK() {
		return 0, 0, code
	}
	return c.startX, c.startY, driver.CodeOK
}

func (d *Driver) SetImageStartPos(id int, x, y int32) driver.Code {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.open(id)
	if !code.IsOK() {
		return code
	}
	if x < 0 || y < 0 || x+c.width > c.cfg.Width/c.bin || y+c.height > c.cfg.Height/c.bin {
		return driver.CodeOutOfLimit
	}
	c.startX = x
	c.startY = y
	return driver.CodeOK
}

func (d *Driver) GetImageBin(id int) (int32, driver.Code) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.open(id)
	if !code.IsOK() {
		return 0, code
	}
	return c.bin, driver.CodeOK
}

func (d *Driver) SetImageBin(id int, bin int32) driver.Code {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.open(id)
	if !code.IsOK() {
		return code
	}
	if c.exposing {
		return driver.CodeExposing
	}
	supported := false
	for _, b := range c.cfg.Bins {
		if b == bin {
			supported = true
			break
		}
	}
	if !supported {
		return driver.CodeOutOfLimit
	}

	// Geometry is kept in binning-adjusted pixels and rescales with the
	// factor, like the native driver.
	c.width = c.width * c.bin / bin
	c.height = c.height * c.bin / bin
	c.startX = c.startX * c.bin / bin
	c.startY = c.startY * c.bin / bin
	c.bin = bin
	c.clampGeometry()
	return driver.CodeOK
}

func (d *Driver) GetImageFormat(id int) (driver.ImgFormatID, driver.Code) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.open(id)
	if !code.IsOK() {
		return driver.ImgEnd, code
	}
	return c.format, driver.CodeOK
}

func (d *Driver) SetImageFormat(id int, format driver.ImgFormatID) driver.Code {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, code := d.open(id)
	if !code.IsOK() {
		return code
	}
	if c.exposing {
		return driver.CodeExposing
	}
	for _, f := range c.props.ImgFormats {
		if f == driver.ImgEnd {
			break
		}
		if f == format {
			c.format = format
			return driver.CodeOK
		}
	}
	return driver.CodeInvalidArgument
}

func (c *simCamera) attr(conf driver.ConfigID) (driver.RawConfigAttributes, bool) {
	for _, a := range c.attrs {
		if a.ConfigID == conf {
			return a, true
		}
	}
	return driver.RawConfigAttributes{}, false
}

// exposure returns the configured exposure time.
func (c *simCamera) exposure() time.Duration {
	return time.Duration(c.values[driver.CfgExposure].Int()) * time.Microsecond
}

// temperature models the sensor cooling toward the target at roughly
// one degree per second while the cooler runs.
func (c *simCamera) temperature() float64 {
	if !c.cfg.Cooled || !c.coolerOn {
		return c.cfg.AmbientTemp
	}
	target := float64(c.values[driver.CfgTargetTemp].Int())
	if target >= c.cfg.AmbientTemp {
		return target
	}
	cooled := time.Since(c.coolerSince).Seconds()
	temp := c.cfg.AmbientTemp - cooled
	if temp < target {
		return target
	}
	return temp
}

// egain falls with analog gain, mimicking a typical CMOS gain curve.
func (c *simCamera) egain() float64 {
	gain := float64(c.values[driver.CfgGain].Int())
	return 4.0 / (1.0 + gain/100.0)
}

func (c *simCamera) coolerPower() int64 {
	if !c.cfg.Cooled || !c.coolerOn {
		return 0
	}
	delta := c.temperature() - float64(c.values[driver.CfgTargetTemp].Int())
	power := int64(delta * 4)
	if power > 100 {
		power = 100
	}
	if power < 0 {
		power = 0
	}
	return power
}

func (c *simCamera) clampStartPos() {
	maxX := c.cfg.Width/c.bin - c.width
	maxY := c.cfg.Height/c.bin - c.height
	if c.startX > maxX {
		c.startX = maxX
	}
	if c.startY > maxY {
		c.startY = maxY
	}
}

func (c *simCamera) clampGeometry() {
	if c.width > c.cfg.Width/c.bin {
		c.width = c.cfg.Width / c.bin
	}
	if c.height > c.cfg.Height/c.bin {
		c.height = c.cfg.Height / c.bin
	}
	if c.width < 1 {
		c.width = 1
	}
	if c.height < 1 {
		c.height = 1
	}
	c.clampStartPos()
}

// renderFrame fills buf with a diagonal gradient offset by the frame
// sequence number, so consecutive frames are distinguishable.
func (c *simCamera) renderFrame(buf []byte) {
	stride := formatStride(c.format)
	w := int(c.width)
	for i := 0; i < len(buf); i += stride {
		px := i / stride
		v := byte((px%w + px/w + int(c.frameSeq)*16) & 0xff)
		for b := 0; b < stride; b++ {
			buf[i+b] = v
		}
	}
}

func formatStride(format driver.ImgFormatID) int {
	switch format {
	case driver.ImgRaw16:
		return 2
	case driver.ImgRGB24:
		return 3
	default:
		return 1
	}
}

// Compile-time interface satisfaction check.
var _ driver.Driver = (*Driver)(nil)
