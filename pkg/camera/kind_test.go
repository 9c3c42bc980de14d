package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openastro/poago/pkg/driver"
)

func TestKindsClosedSet(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 31)

	// Native slot IDs must be unique across the set.
	seen := make(map[driver.ConfigID]ConfigKind)
	for _, k := range kinds {
		if prev, dup := seen[k.ID()]; dup {
			t.Fatalf("kinds %s and %s share slot ID %d", prev, k, k.ID())
		}
		seen[k.ID()] = k
	}
}

func TestKindByNameRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := KindByName(k.String())
		require.True(t, ok, "kind %s not found by name", k)
		assert.Equal(t, k, got)
	}

	_, ok := KindByName("no_such_slot")
	assert.False(t, ok)
}

func TestKindValueTags(t *testing.T) {
	// The native API never transmits the value type on reads; this
	// table is the decode contract and must not drift.
	assert.Equal(t, TagInt, KindExposure.ValueTag())
	assert.Equal(t, TagInt, KindGain.ValueTag())
	assert.Equal(t, TagFloat, KindTemperature.ValueTag())
	assert.Equal(t, TagFloat, KindEGain.ValueTag())
	assert.Equal(t, TagBool, KindHardwareBin.ValueTag())
	assert.Equal(t, TagBool, KindCooler.ValueTag())
	assert.Equal(t, TagBool, KindGuideNorth.ValueTag())
	assert.Equal(t, TagInt, KindCoolerPower.ValueTag())
	assert.Equal(t, TagInt, KindUSBBandwidthLimit.ValueTag())
	assert.Equal(t, TagBool, KindMonoBin.ValueTag())
}

func TestKindCapabilities(t *testing.T) {
	readOnly := []ConfigKind{KindTemperature, KindEGain, KindCoolerPower, KindHeater}
	for _, k := range readOnly {
		assert.True(t, k.Readable(), "%s must be readable", k)
		assert.False(t, k.Writable(), "%s must not be writable", k)
	}

	autoCapable := map[ConfigKind]bool{
		KindExposure: true, KindGain: true,
		KindWbR: true, KindWbG: true, KindWbB: true,
	}
	for _, k := range Kinds() {
		assert.Equal(t, autoCapable[k], k.SupportsAuto(), "auto support of %s", k)
	}
}

func TestKindSlotIDs(t *testing.T) {
	// Spot-check the native numbering at the edges of the range.
	assert.Equal(t, driver.ConfigID(0), KindExposure.ID())
	assert.Equal(t, driver.ConfigID(1), KindGain.ID())
	assert.Equal(t, driver.ConfigID(3), KindTemperature.ID())
	assert.Equal(t, driver.ConfigID(30), KindMonoBin.ID())
}

func TestKindFromID(t *testing.T) {
	k, ok := kindFromID(driver.CfgExposure)
	require.True(t, ok)
	assert.Equal(t, KindExposure, k)

	_, ok = kindFromID(driver.ConfigID(99))
	assert.False(t, ok)
}

func TestInvalidKindPanics(t *testing.T) {
	assert.Panics(t, func() { _ = ConfigKind(200).ID() })
	assert.Equal(t, "unknown", ConfigKind(200).String())
}
