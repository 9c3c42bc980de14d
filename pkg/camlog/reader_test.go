package camlog

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openastro/poago/pkg/driver"
)

func writeTestLog(t *testing.T, events []Event) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "driver.cborlog")
	logger, err := NewFileLogger(path)
	require.NoError(t, err)
	for _, e := range events {
		logger.Log(e)
	}
	require.NoError(t, logger.Close())
	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()

	var out []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, e)
	}
}

func testEvents() []Event {
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	return []Event{
		{Timestamp: base, SessionID: "s1", CameraID: 0, Op: OpOpen, Status: driver.CodeOK},
		{Timestamp: base.Add(time.Second), SessionID: "s1", CameraID: 0, Op: OpSetConfig, Status: driver.CodeConfigNotWritable},
		{Timestamp: base.Add(2 * time.Second), SessionID: "s2", CameraID: 1, Op: OpOpen, Status: driver.CodeOK},
		{Timestamp: base.Add(3 * time.Second), SessionID: "s2", CameraID: 1, Op: OpGetImage, Status: driver.CodeTimeout},
		{Timestamp: base.Add(4 * time.Second), SessionID: "s1", CameraID: 0, Op: OpClose, Status: driver.CodeOK},
	}
}

func TestReaderAll(t *testing.T) {
	path := writeTestLog(t, testEvents())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	events := readAll(t, r)
	require.Len(t, events, 5)
	assert.Equal(t, OpOpen, events[0].Op)
	assert.Equal(t, OpClose, events[4].Op)
}

func TestReaderFilterSession(t *testing.T) {
	path := writeTestLog(t, testEvents())

	r, err := NewFilteredReader(path, Filter{SessionID: "s2"})
	require.NoError(t, err)
	defer r.Close()

	events := readAll(t, r)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, "s2", e.SessionID)
		assert.Equal(t, int32(1), e.CameraID)
	}
}

func TestReaderFilterFailedOnly(t *testing.T) {
	path := writeTestLog(t, testEvents())

	r, err := NewFilteredReader(path, Filter{FailedOnly: true})
	require.NoError(t, err)
	defer r.Close()

	events := readAll(t, r)
	require.Len(t, events, 2)
	assert.Equal(t, driver.CodeConfigNotWritable, events[0].Status)
	assert.Equal(t, driver.CodeTimeout, events[1].Status)
}

func TestReaderFilterOpAndCamera(t *testing.T) {
	path := writeTestLog(t, testEvents())

	op := OpOpen
	cam := int32(0)
	r, err := NewFilteredReader(path, Filter{Op: &op, CameraID: &cam})
	require.NoError(t, err)
	defer r.Close()

	events := readAll(t, r)
	require.Len(t, events, 1)
	assert.Equal(t, "s1", events[0].SessionID)
}

func TestReaderFilterTimeWindow(t *testing.T) {
	all := testEvents()
	path := writeTestLog(t, all)

	start := all[1].Timestamp
	end := all[3].Timestamp
	r, err := NewFilteredReader(path, Filter{TimeStart: &start, TimeEnd: &end})
	require.NoError(t, err)
	defer r.Close()

	events := readAll(t, r)
	require.Len(t, events, 2)
	assert.Equal(t, OpSetConfig, events[0].Op)
	assert.Equal(t, OpOpen, events[1].Op)
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driver.cborlog")

	first, err := NewFileLogger(path)
	require.NoError(t, err)
	first.Log(Event{SessionID: "a", Op: OpOpen, Status: driver.CodeOK})
	require.NoError(t, first.Close())

	second, err := NewFileLogger(path)
	require.NoError(t, err)
	second.Log(Event{SessionID: "b", Op: OpClose, Status: driver.CodeOK})
	require.NoError(t, second.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	events := readAll(t, r)
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].SessionID)
	assert.Equal(t, "b", events[1].SessionID)
}

func TestFileLoggerCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driver.cborlog")
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	// Logging after close is silently ignored.
	logger.Log(Event{Op: OpOpen})
}

func TestMultiLogger(t *testing.T) {
	var a, b captureLogger
	m := NewMultiLogger(&a, &b, NoopLogger{})

	m.Log(Event{Op: OpOpen})
	m.Log(Event{Op: OpClose})

	assert.Len(t, a.events, 2)
	assert.Len(t, b.events, 2)
}

type captureLogger struct {
	events []Event
}

func (l *captureLogger) Log(e Event) {
	l.events = append(l.events, e)
}
