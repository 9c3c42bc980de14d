// Package camtest provides a scriptable fake driver for testing the
// safe camera layer without hardware.
package camtest

import (
	"fmt"
	"sync"

	"github.com/openastro/poago/pkg/driver"
)

// FrameResult scripts one GetImageData call: the byte the fake fills
// the buffer with and the status code it returns.
type FrameResult struct {
	// Fill is written into every byte of the destination buffer.
	Fill byte

	// Code is the status the retrieval returns. The buffer is filled
	// only on success.
	Code driver.Code
}

// Fake implements driver.Driver with fully scriptable behavior. Every
// call is recorded in Calls; tests inject failures per operation via
// ForceCode and per retrieval via FrameScript.
//
// The fake tracks open/init/exposing state and enforces the native
// sequencing rules: per-camera operations on a camera that was never
// opened and initialized return NOT_OPENED.
type Fake struct {
	// Props holds one property struct per enumeration index.
	Props []driver.RawProperties

	// PropCodes overrides the status of CameraProperties per index.
	PropCodes map[int]driver.Code

	// Attrs holds the config attribute structs reported in order.
	Attrs []driver.RawConfigAttributes

	// ForceCode overrides the status of the named operation (method
	// name, e.g. "SetImageBin") on its next invocations.
	ForceCode map[string]driver.Code

	// FrameScript is consumed one entry per GetImageData call. When
	// exhausted, retrievals return TIMEOUT.
	FrameScript []FrameResult

	// Calls records every method invocation with its arguments.
	Calls []string

	// StopCount counts StopExposure calls.
	StopCount int

	// Mutable camera state.
	Opened    bool
	Inited    bool
	Exposing  bool
	Continous bool
	Width     int32
	Height    int32
	StartX    int32
	StartY    int32
	BinVal    int32
	Format    driver.ImgFormatID
	Values    map[driver.ConfigID]driver.RawValue
	Auto      map[driver.ConfigID]driver.Bool

	frameIdx int
	mu       sync.Mutex
}

// New creates a fake with a single attached camera described by raw.
// Geometry starts at the full sensor at bin 1 in RAW8.
func New(raw driver.RawProperties) *Fake {
	return &Fake{
		Props:     []driver.RawProperties{raw},
		PropCodes: make(map[int]driver.Code),
		ForceCode: make(map[string]driver.Code),
		Width:     raw.MaxWidth,
		Height:    raw.MaxHeight,
		BinVal:    1,
		Format:    driver.ImgRaw8,
		Values:    make(map[driver.ConfigID]driver.RawValue),
		Auto:      make(map[driver.ConfigID]driver.Bool),
	}
}

// RawProps builds a property struct for the fake. Bins and formats are
// terminated with their sentinels.
func RawProps(model string, id, maxW, maxH int32, bins []int32, formats []driver.ImgFormatID) driver.RawProperties {
	var raw driver.RawProperties
	driver.SetCString(raw.CameraModelName[:], model)
	driver.SetCString(raw.SN[:], fmt.Sprintf("SN%04d", id))
	driver.SetCString(raw.SensorModelName[:], "IMX-TEST")
	driver.SetCString(raw.LocalPath[:], fmt.Sprintf("usb:0:%d", id))
	raw.CameraID = id
	raw.MaxWidth = maxW
	raw.MaxHeight = maxH
	raw.BitDepth = 12
	raw.BayerPattern = driver.BayerMono
	raw.PixelSize = 2.9

	for i := range raw.Bins {
		raw.Bins[i] = driver.BinEnd
	}
	copy(raw.Bins[:], bins)
	for i := range raw.ImgFormats {
		raw.ImgFormats[i] = driver.ImgEnd
	}
	copy(raw.ImgFormats[:], formats)

	return raw
}

func (f *Fake) record(call string) {
	f.Calls = append(f.Calls, call)
}

// CallsNamed returns the recorded calls whose name matches.
func (f *Fake) CallsNamed(name string) []string {
	var out []string
	for _, c := range f.Calls {
		if len(c) >= len(name) && c[:len(name)] == name {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) forced(op string) (driver.Code, bool) {
	code, ok := f.ForceCode[op]
	return code, ok
}

// ready returns NOT_OPENED unless the camera was opened and
// initialized.
func (f *Fake) ready() driver.Code {
	if !f.Opened || !f.Inited {
		return driver.CodeNotOpened
	}
	return driver.CodeOK
}

func (f *Fake) CameraCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CameraCount()")
	return len(f.Props)
}

func (f *Fake) CameraProperties(index int) (driver.RawProperties, driver.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("CameraProperties(%d)", index))
	if code, ok := f.PropCodes[index]; ok && !code.IsOK() {
		return driver.RawProperties{}, code
	}
	if index < 0 || index >= len(f.Props) {
		return driver.RawProperties{}, driver.CodeInvalidIndex
	}
	return f.Props[index], driver.CodeOK
}

func (f *Fake) OpenCamera(id int) driver.Code {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("OpenCamera(%d)", id))
	if code, ok := f.forced("OpenCamera"); ok {
		return code
	}
	f.Opened = true
	return driver.CodeOK
}

func (f *Fake) InitCamera(id int) driver.Code {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("InitCamera(%d)", id))
	if code, ok := f.forced("InitCamera"); ok {
		return code
	}
	if !f.Opened {
		return driver.CodeNotOpened
	}
	f.Inited = true
	return driver.CodeOK
}

func (f *Fake) CloseCamera(id int) driver.Code {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("CloseCamera(%d)", id))
	if code, ok := f.forced("CloseCamera"); ok {
		return code
	}
	f.Opened = false
	f.Inited = false
	f.Exposing = false
	return driver.CodeOK
}

func (f *Fake) CameraState(id int) (driver.CameraState, driver.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("CameraState(%d)", id))
	switch {
	case !f.Opened:
		return driver.StateClosed, driver.CodeOK
	case f.Exposing:
		return driver.StateExposing, driver.CodeOK
	default:
		return driver.StateOpened, driver.CodeOK
	}
}

func (f *Fake) ConfigsCount(id int) (int, driver.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("ConfigsCount(%d)", id))
	if code := f.ready(); !code.IsOK() {
		return 0, code
	}
	return len(f.Attrs), driver.CodeOK
}

func (f *Fake) ConfigAttributes(id, index int) (driver.RawConfigAttributes, driver.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("ConfigAttributes(%d,%d)", id, index))
	if code := f.ready(); !code.IsOK() {
		return driver.RawConfigAttributes{}, code
	}
	if code, ok := f.forced("ConfigAttributes"); ok {
		return driver.RawConfigAttributes{}, code
	}
	if index < 0 || index >= len(f.Attrs) {
		return driver.RawConfigAttributes{}, driver.CodeInvalidIndex
	}
	return f.Attrs[index], driver.CodeOK
}

func (f *Fake) GetConfig(id int, conf driver.ConfigID) (driver.RawValue, driver.Bool, driver.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("GetConfig(%d,%s)", id, conf))
	if code := f.ready(); !code.IsOK() {
		return 0, driver.False, code
	}
	if code, ok := f.forced("GetConfig"); ok {
		return 0, driver.False, code
	}
	return f.Values[conf], f.Auto[conf], driver.CodeOK
}

func (f *Fake) SetConfig(id int, conf driver.ConfigID, value driver.RawValue, auto driver.Bool) driver.Code {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("SetConfig(%d,%s,%#x,%s)", id, conf, uint64(value), auto))
	if code := f.ready(); !code.IsOK() {
		return code
	}
	if code, ok := f.forced("SetConfig"); ok {
		return code
	}
	f.Values[conf] = value
	f.Auto[conf] = auto
	return driver.CodeOK
}

func (f *Fake) StartExposure(id int, continuous driver.Bool) driver.Code {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("StartExposure(%d,%s)", id, continuous))
	if code := f.ready(); !code.IsOK() {
		return code
	}
	if code, ok := f.forced("StartExposure"); ok {
		return code
	}
	if f.Exposing {
		return driver.CodeExposing
	}
	f.Exposing = true
	f.Continous = continuous.IsTrue()
	return driver.CodeOK
}

func (f *Fake) StopExposure(id int) driver.Code {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("StopExposure(%d)", id))
	f.StopCount++
	if code, ok := f.forced("StopExposure"); ok {
		return code
	}
	if code := f.ready(); !code.IsOK() {
		return code
	}
	f.Exposing = false
	return driver.CodeOK
}

func (f *Fake) ImageReady(id int) (driver.Bool, driver.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("ImageReady(%d)", id))
	if code := f.ready(); !code.IsOK() {
		return driver.False, code
	}
	return driver.MakeBool(f.frameIdx < len(f.FrameScript)), driver.CodeOK
}

func (f *Fake) GetImageData(id int, buf []byte, timeoutMS int32) driver.Code {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("GetImageData(%d,len=%d,timeout=%d)", id, len(buf), timeoutMS))
	if code := f.ready(); !code.IsOK() {
		return code
	}
	if !f.Exposing {
		return driver.CodeExposureFailed
	}
	minSize := int(f.Width) * int(f.Height) * bytesPerPixel(f.Format)
	if len(buf) < minSize {
		return driver.CodeSizeLess
	}
	if f.frameIdx >= len(f.FrameScript) {
		return driver.CodeTimeout
	}
	res := f.FrameScript[f.frameIdx]
	f.frameIdx++
	if !res.Code.IsOK() {
		return res.Code
	}
	for i := 0; i < minSize; i++ {
		buf[i] = res.Fill
	}
	if !f.Continous {
		// Single-frame exposure stops on its own after delivery.
		f.Exposing = false
	}
	return driver.CodeOK
}

func (f *Fake) GetImageSize(id int) (int32, int32, driver.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("GetImageSize(%d)", id))
	if code := f.ready(); !code.IsOK() {
		return 0, 0, code
	}
	return f.Width, f.Height, driver.CodeOK
}

func (f *Fake) SetImageSize(id int, width, height int32) driver.Code {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("SetImageSize(%d,%d,%d)", id, width, height))
	if code := f.ready(); !code.IsOK() {
		return code
	}
	if code, ok := f.forced("SetImageSize"); ok {
		return code
	}
	if f.Exposing {
		return driver.CodeExposing
	}
	f.Width = width
	f.Height = height
	return driver.CodeOK
}

func (f *Fake) GetImageStartPos(id int) (int32, int32, driver.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("GetImageStartPos(%d)", id))
	if code := f.ready(); !code.IsOK() {
		return 0, 0, code
	}
	return f.StartX, f.StartY, driver.CodeOK
}

func (f *Fake) SetImageStartPos(id int, x, y int32) driver.Code {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("SetImageStartPos(%d,%d,%d)", id, x, y))
	if code := f.ready(); !code.IsOK() {
		return code
	}
	if code, ok := f.forced("SetImageStartPos"); ok {
		return code
	}
	f.StartX = x
	f.StartY = y
	return driver.CodeOK
}

func (f *Fake) GetImageBin(id int) (int32, driver.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("GetImageBin(%d)", id))
	if code := f.ready(); !code.IsOK() {
		return 0, code
	}
	return f.BinVal, driver.CodeOK
}

func (f *Fake) SetImageBin(id int, bin int32) driver.Code {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("SetImageBin(%d,%d)", id, bin))
	if code := f.ready(); !code.IsOK() {
		return code
	}
	if code, ok := f.forced("SetImageBin"); ok {
		return code
	}
	if bin <= 0 {
		return driver.CodeInvalidArgument
	}
	// The native driver rescales geometry on a bin change.
	f.Width = f.Props[0].MaxWidth / bin
	f.Height = f.Props[0].MaxHeight / bin
	f.StartX /= bin
	f.StartY /= bin
	f.BinVal = bin
	return driver.CodeOK
}

func (f *Fake) GetImageFormat(id int) (driver.ImgFormatID, driver.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("GetImageFormat(%d)", id))
	if code := f.ready(); !code.IsOK() {
		return driver.ImgEnd, code
	}
	return f.Format, driver.CodeOK
}

func (f *Fake) SetImageFormat(id int, format driver.ImgFormatID) driver.Code {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("SetImageFormat(%d,%d)", id, format))
	if code := f.ready(); !code.IsOK() {
		return code
	}
	if code, ok := f.forced("SetImageFormat"); ok {
		return code
	}
	f.Format = format
	return driver.CodeOK
}

func bytesPerPixel(format driver.ImgFormatID) int {
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
var _ driver.Driver = (*Fake)(nil)
