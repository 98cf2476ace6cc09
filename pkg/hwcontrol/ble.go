package hwcontrol

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/paypal/gatt"
	"github.com/paypal/gatt/examples/option"
)

// PowerState is the last known power state of the Bluetooth adapter.
type PowerState int

const (
	PowerUnknown PowerState = iota
	PowerOff
	PowerOn
)

func (s PowerState) String() string {
	switch s {
	case PowerOff:
		return "off"
	case PowerOn:
		return "on"
	default:
		return "unknown"
	}
}

func (s PowerState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// powerStateOf maps an adapter state to on, off or unknown. Adapters that
// are resetting, unsupported or unauthorized cannot be used and count as off.
func powerStateOf(s gatt.State) PowerState {
	switch s {
	case gatt.StatePoweredOn:
		return PowerOn
	case gatt.StatePoweredOff, gatt.StateResetting, gatt.StateUnsupported, gatt.StateUnauthorized:
		return PowerOff
	default:
		return PowerUnknown
	}
}

// BLEPowerSource watches the local adapter and tells the controller when its
// power state flips.
type BLEPowerSource struct {
	controller *Controller
	openDevice func() (gatt.Device, error)

	state      PowerState
	stateMutex *sync.Mutex
}

func (ps *BLEPowerSource) Start(stopChan chan struct{}) error {
	log.Println("BLE init called")

	d, err := ps.openDevice()
	if err != nil {
		return err
	}

	err = d.Init(func(d gatt.Device, s gatt.State) {
		ps.onStateChanged(s)
	})
	if err != nil {
		return err
	}

	<-stopChan

	log.Println("BLE power source stopped")
	return nil
}

// PowerState returns the last state reported by the adapter.
func (ps *BLEPowerSource) PowerState() PowerState {
	ps.stateMutex.Lock()
	defer ps.stateMutex.Unlock()

	return ps.state
}

func (ps *BLEPowerSource) String() string {
	return "<BLEPowerSource>"
}

func (ps *BLEPowerSource) onStateChanged(s gatt.State) {
	next := powerStateOf(s)

	ps.stateMutex.Lock()
	prev := ps.state
	if next == PowerUnknown {
		ps.stateMutex.Unlock()
		log.Printf("Adapter state %s, keeping %s\n", s, prev)
		return
	}
	ps.state = next
	ps.stateMutex.Unlock()

	log.Printf("Adapter state: %s (power %s)\n", s, next)

	// The first known state is the baseline, only real on/off flips notify.
	if prev == PowerUnknown || prev == next {
		return
	}

	ps.controller.Notify(PowerChanged)
}

func CreateBLEPowerSource(c *Controller) *BLEPowerSource {
	return &BLEPowerSource{
		controller: c,
		openDevice: func() (gatt.Device, error) {
			return gatt.NewDevice(option.DefaultClientOptions...)
		},
		state:      PowerUnknown,
		stateMutex: &sync.Mutex{},
	}
}
