package hwcontrol

import (
	"encoding/json"
	"fmt"
)

// Notification is a hardware event an Observer can be told about.
type Notification uint

const (
	// PowerChanged signals that the Bluetooth adapter went from on to off or back.
	// It carries no payload, query the current state through BLEPowerSource.
	PowerChanged Notification = iota
)

var notificationNames = map[Notification]string{
	PowerChanged: "PowerChanged",
}

// Notifications returns every declared notification kind in declaration order.
func Notifications() []Notification {
	return []Notification{PowerChanged}
}

func (n Notification) String() string {
	if name, ok := notificationNames[n]; ok {
		return name
	}

	return fmt.Sprintf("Notification(%d)", uint(n))
}

// ParseNotification returns the notification whose String form is s.
func ParseNotification(s string) (Notification, error) {
	for n, name := range notificationNames {
		if name == s {
			return n, nil
		}
	}

	return 0, fmt.Errorf("unknown notification %q", s)
}

func (n Notification) MarshalJSON() ([]byte, error) {
	if _, ok := notificationNames[n]; !ok {
		return nil, fmt.Errorf("cannot marshal %s", n)
	}

	return json.Marshal(n.String())
}

func (n *Notification) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	parsed, err := ParseNotification(s)
	if err != nil {
		return err
	}

	*n = parsed
	return nil
}
