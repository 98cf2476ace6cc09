package hwcontrol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/paypal/gatt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPowerSource(t *testing.T) (*BLEPowerSource, *recordingObserver) {
	t.Helper()

	c := NewController()
	o := &recordingObserver{}
	_, err := c.AddObserver(o)
	require.NoError(t, err)

	return CreateBLEPowerSource(c), o
}

func TestPowerStateOf(t *testing.T) {
	tests := []struct {
		state gatt.State
		want  PowerState
	}{
		{gatt.StatePoweredOn, PowerOn},
		{gatt.StatePoweredOff, PowerOff},
		{gatt.StateResetting, PowerOff},
		{gatt.StateUnsupported, PowerOff},
		{gatt.StateUnauthorized, PowerOff},
		{gatt.StateUnknown, PowerUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, powerStateOf(tt.state), "state %v", tt.state)
	}
}

func TestBLEPowerSource_BaselineDoesNotNotify(t *testing.T) {
	ps, o := newTestPowerSource(t)
	assert.Equal(t, PowerUnknown, ps.PowerState())

	ps.onStateChanged(gatt.StatePoweredOn)

	assert.Equal(t, PowerOn, ps.PowerState())
	assert.Empty(t, o.calls())
}

func TestBLEPowerSource_Transitions(t *testing.T) {
	ps, o := newTestPowerSource(t)

	ps.onStateChanged(gatt.StatePoweredOff)
	ps.onStateChanged(gatt.StatePoweredOn)
	assert.Equal(t, []Notification{PowerChanged}, o.calls())

	// Same state again is not a transition
	ps.onStateChanged(gatt.StatePoweredOn)
	assert.Len(t, o.calls(), 1)

	ps.onStateChanged(gatt.StatePoweredOff)
	assert.Equal(t, []Notification{PowerChanged, PowerChanged}, o.calls())
	assert.Equal(t, PowerOff, ps.PowerState())
}

func TestBLEPowerSource_UnknownKeepsLastState(t *testing.T) {
	ps, o := newTestPowerSource(t)

	ps.onStateChanged(gatt.StatePoweredOn)
	ps.onStateChanged(gatt.StateUnknown)
	assert.Equal(t, PowerOn, ps.PowerState())

	ps.onStateChanged(gatt.StatePoweredOn)
	assert.Empty(t, o.calls())

	// An unusable adapter counts as powered off
	ps.onStateChanged(gatt.StateUnauthorized)
	assert.Equal(t, []Notification{PowerChanged}, o.calls())
}

func TestBLEPowerSource_StartFailsWithoutDevice(t *testing.T) {
	ps, _ := newTestPowerSource(t)
	ps.openDevice = func() (gatt.Device, error) {
		return nil, errors.New("no adapter")
	}

	stopChan := make(chan struct{})
	defer close(stopChan)

	assert.EqualError(t, ps.Start(stopChan), "no adapter")
}

func TestPowerState_JSON(t *testing.T) {
	b, err := json.Marshal(PowerResponse{State: PowerOn})
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"on"}`, string(b))

	assert.Equal(t, "off", PowerOff.String())
	assert.Equal(t, "unknown", PowerUnknown.String())
}
