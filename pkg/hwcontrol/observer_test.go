package hwcontrol

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingObserver remembers every notification it receives.
type recordingObserver struct {
	mu       sync.Mutex
	received []Notification
}

func (o *recordingObserver) ReceivedNotification(n Notification) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.received = append(o.received, n)
}

func (o *recordingObserver) calls() []Notification {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Notification(nil), o.received...)
}

var _ Observer = (*recordingObserver)(nil)
var _ Observer = ObserverFunc(nil)

func TestObserver_RecordsSingleCall(t *testing.T) {
	o := &recordingObserver{}

	var obs Observer = o
	obs.ReceivedNotification(PowerChanged)

	assert.Equal(t, []Notification{PowerChanged}, o.calls())
}

func TestObserverFunc(t *testing.T) {
	var got []Notification
	f := ObserverFunc(func(n Notification) {
		got = append(got, n)
	})

	f.ReceivedNotification(PowerChanged)

	assert.Equal(t, []Notification{PowerChanged}, got)
}
