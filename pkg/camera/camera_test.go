package camera

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openastro/poago/internal/camtest"
	"github.com/openastro/poago/pkg/camlog"
	"github.com/openastro/poago/pkg/driver"
)

func testFake() *camtest.Fake {
	raw := camtest.RawProps("Neptune-C II", 0, 1920, 1080,
		[]int32{1, 2, 4},
		[]driver.ImgFormatID{driver.ImgRaw8, driver.ImgRaw16, driver.ImgRGB24})
	return camtest.New(raw)
}

func openTestCamera(t *testing.T, f *camtest.Fake, opts ...OpenOption) *Camera {
	t.Helper()

	descs := EnumerateCameras(f)
	require.Len(t, descs, 1)

	cam, err := descs[0].Open(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cam.Close() })
	return cam
}

// memLogger captures events for assertions.
type memLogger struct {
	events []camlog.Event
}

func (l *memLogger) Log(e camlog.Event) {
	l.events = append(l.events, e)
}

func TestEnumerateSkipsFailedProbe(t *testing.T) {
	f := &camtest.Fake{
		Props: []driver.RawProperties{
			camtest.RawProps("Mars-C", 0, 1944, 1096, []int32{1, 2}, []driver.ImgFormatID{driver.ImgRaw8}),
			camtest.RawProps("Apollo-M", 1, 4144, 2822, []int32{1, 2}, []driver.ImgFormatID{driver.ImgRaw8}),
			camtest.RawProps("Saturn-C", 2, 1920, 1080, []int32{1, 2}, []driver.ImgFormatID{driver.ImgRaw8}),
		},
		PropCodes: map[int]driver.Code{1: driver.CodeDeviceNotFound},
	}

	descs := EnumerateCameras(f)
	require.Len(t, descs, 2)
	assert.Equal(t, int32(0), descs[0].CameraID())
	assert.Equal(t, int32(2), descs[1].CameraID())
	assert.Equal(t, "Mars-C", descs[0].Properties().ModelName)
	assert.Equal(t, "Saturn-C", descs[1].Properties().ModelName)
}

func TestOpenInitFailureRollsBack(t *testing.T) {
	f := testFake()
	f.ForceCode["InitCamera"] = driver.CodeOperationFailed

	descs := EnumerateCameras(f)
	require.Len(t, descs, 1)

	cam, err := descs[0].Open()
	require.Error(t, err)
	assert.Nil(t, cam)
	assert.True(t, errors.Is(err, driver.ErrOperationFailed))

	// The open must have been undone so the device is not leaked.
	assert.Len(t, f.CallsNamed("CloseCamera"), 1)
	assert.False(t, f.Opened)
}

func TestOpenFailure(t *testing.T) {
	f := testFake()
	f.ForceCode["OpenCamera"] = driver.CodeAccessDenied

	descs := EnumerateCameras(f)
	_, err := descs[0].Open()
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrAccessDenied))

	// Init must not be attempted when open failed.
	assert.Empty(t, f.CallsNamed("InitCamera"))
	assert.Empty(t, f.CallsNamed("CloseCamera"))
}

func TestCloseIdempotent(t *testing.T) {
	f := testFake()
	cam := openTestCamera(t, f)

	require.NoError(t, cam.Close())
	require.NoError(t, cam.Close())
	require.NoError(t, cam.Close())

	assert.Len(t, f.CallsNamed("CloseCamera"), 1)
}

func TestReopenAfterClose(t *testing.T) {
	f := testFake()

	descs := EnumerateCameras(f)
	cam, err := descs[0].Open()
	require.NoError(t, err)
	require.NoError(t, cam.Close())

	cam2, err := descs[0].Open()
	require.NoError(t, err)
	defer cam2.Close()

	state, err := cam2.State()
	require.NoError(t, err)
	assert.Equal(t, driver.StateOpened, state)
}

func TestOperationsAfterCloseFail(t *testing.T) {
	f := testFake()
	cam := openTestCamera(t, f)
	require.NoError(t, cam.Close())

	_, _, err := cam.Exposure()
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrNotOpened))

	err = cam.StartExposure(false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, driver.ErrNotOpened))
}

func TestStateTransitions(t *testing.T) {
	f := testFake()
	cam := openTestCamera(t, f)

	state, err := cam.State()
	require.NoError(t, err)
	assert.Equal(t, driver.StateOpened, state)

	require.NoError(t, cam.StartExposure(true))
	state, err = cam.State()
	require.NoError(t, err)
	assert.Equal(t, driver.StateExposing, state)

	require.NoError(t, cam.StopExposure())
	state, err = cam.State()
	require.NoError(t, err)
	assert.Equal(t, driver.StateOpened, state)
}

func TestImageReady(t *testing.T) {
	f := testFake()
	cam := openTestCamera(t, f)

	ready, err := cam.ImageReady()
	require.NoError(t, err)
	assert.False(t, ready)

	f.FrameScript = []camtest.FrameResult{{Fill: 1}}
	ready, err = cam.ImageReady()
	require.NoError(t, err)
	assert.True(t, ready)
}

func TestTimeoutMS(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    int32
		wantErr error
	}{
		{"zero blocks forever", 0, driver.TimeoutInfinite, nil},
		{"negative blocks forever", -time.Second, driver.TimeoutInfinite, nil},
		{"whole milliseconds", 500 * time.Millisecond, 500, nil},
		{"seconds", 2 * time.Second, 2000, nil},
		{"sub-millisecond rounds up", 100 * time.Microsecond, 1, nil},
		{"max representable", time.Duration(maxInt32) * time.Millisecond, maxInt32, nil},
		{"overflow", time.Duration(math.MaxInt64), 0, driver.ErrOutOfBounds},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := timeoutMS(tc.timeout)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoggerReceivesEvents(t *testing.T) {
	f := testFake()
	logger := &memLogger{}
	cam := openTestCamera(t, f, WithLogger(logger))

	require.NoError(t, cam.SetGain(120, false))

	require.GreaterOrEqual(t, len(logger.events), 3)
	assert.Equal(t, camlog.OpOpen, logger.events[0].Op)
	assert.Equal(t, camlog.OpInit, logger.events[1].Op)

	last := logger.events[len(logger.events)-1]
	assert.Equal(t, camlog.OpSetConfig, last.Op)
	assert.Equal(t, driver.CodeOK, last.Status)
	require.NotNil(t, last.Config)
	assert.Equal(t, driver.CfgGain, last.Config.Slot)

	// All events of one handle share one non-empty session ID.
	session := logger.events[0].SessionID
	assert.NotEmpty(t, session)
	for _, e := range logger.events {
		assert.Equal(t, session, e.SessionID)
		assert.Equal(t, int32(0), e.CameraID)
		assert.False(t, e.Timestamp.IsZero())
	}
}

func TestPropertiesSnapshot(t *testing.T) {
	f := testFake()
	cam := openTestCamera(t, f)

	props := cam.Properties()
	assert.Equal(t, "Neptune-C II", props.ModelName)
	assert.Equal(t, int32(1920), props.MaxWidth)
	assert.Equal(t, int32(1080), props.MaxHeight)
	assert.Equal(t, []int{1, 2, 4}, props.Bins)
	assert.Equal(t, []ImgFormat{Raw8, Raw16, RGB24}, props.ImgFormats)
}
