package camlog

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openastro/poago/pkg/driver"
)

func TestSlogAdapterLevels(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	adapter.Log(Event{
		SessionID: "s1",
		Op:        OpOpen,
		Status:    driver.CodeOK,
	})
	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "op=OPEN")
	assert.Contains(t, out, "status=OK")

	buf.Reset()
	adapter.Log(Event{
		SessionID: "s1",
		Op:        OpGetImage,
		Status:    driver.CodeTimeout,
		Frame:     &FrameEvent{Size: 1024, TimeoutMS: 500},
	})
	out = buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status=TIMEOUT")
	assert.Contains(t, out, "buffer_size=1024")
}

func TestSlogAdapterConfigPayload(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	adapter.Log(Event{
		Op:     OpSetConfig,
		Status: driver.CodeOK,
		Config: &ConfigEvent{Slot: driver.CfgGain, Raw: 120, Auto: true},
	})
	out := buf.String()
	assert.Contains(t, out, "slot=GAIN")
	assert.Contains(t, out, "raw=120")
	assert.Contains(t, out, "auto=true")
}
