package hwcontrol

import (
	"errors"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNilObserver      = errors.New("observer is nil")
	ErrObserverNotFound = errors.New("observer not found")
)

type registeredObserver struct {
	id       string
	observer Observer
}

// Controller keeps the set of observers and fans notifications out to them.
//
// Notify delivers on the calling goroutine, one observer at a time, in
// registration order. It returns once every observer has been invoked.
type Controller struct {
	observers []registeredObserver
	obsMutex  *sync.Mutex
}

func NewController() *Controller {
	return &Controller{
		observers: make([]registeredObserver, 0),
		obsMutex:  &sync.Mutex{},
	}
}

// AddObserver registers o and returns the id to remove it with.
func (c *Controller) AddObserver(o Observer) (string, error) {
	if o == nil {
		return "", ErrNilObserver
	}

	id := uuid.New().String()

	c.obsMutex.Lock()
	defer c.obsMutex.Unlock()

	c.observers = append(c.observers, registeredObserver{id: id, observer: o})
	log.Printf("Observer %s added\n", id)

	return id, nil
}

func (c *Controller) RemoveObserver(id string) error {
	c.obsMutex.Lock()
	defer c.obsMutex.Unlock()

	for i, ro := range c.observers {
		if ro.id == id {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			log.Printf("Observer %s removed\n", id)
			return nil
		}
	}

	return ErrObserverNotFound
}

// Observers returns the ids of the registered observers, sorted.
func (c *Controller) Observers() []string {
	c.obsMutex.Lock()
	defer c.obsMutex.Unlock()

	ids := make([]string, 0, len(c.observers))
	for _, ro := range c.observers {
		ids = append(ids, ro.id)
	}
	sort.Strings(ids)

	return ids
}

func (c *Controller) Notify(n Notification) {
	c.obsMutex.Lock()
	snapshot := make([]registeredObserver, len(c.observers))
	copy(snapshot, c.observers)
	c.obsMutex.Unlock()

	log.Printf("Notifying %d observers of %s\n", len(snapshot), n)

	for _, ro := range snapshot {
		deliver(ro, n)
	}
}

func deliver(ro registeredObserver, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Observer %s panicked on %s: %v\n", ro.id, n, r)
		}
	}()

	ro.observer.ReceivedNotification(n)
}
