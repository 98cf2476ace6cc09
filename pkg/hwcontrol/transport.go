package hwcontrol

import (
	"errors"
	"log"
	"sync"
)

var (
	ErrAlreadyRunning = errors.New("already running")
	ErrNotRunning     = errors.New("not running")
)

// Transport is a long running hardware watcher. Start blocks until stopChan is closed.
type Transport interface {
	Start(stopChan chan struct{}) error
}

type TransportRunner interface {
	Add(t Transport)
	Run() error
	Stop() error
}

type DefaultTransportRunner struct {
	transports []Transport
	isRunning  bool
	mu         sync.Mutex
	transWG    sync.WaitGroup
	stopChan   chan struct{}
}

func (r *DefaultTransportRunner) Add(t Transport) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transports = append(r.transports, t)
}

func (r *DefaultTransportRunner) runTransport(t Transport, stopChan chan struct{}) {
	defer r.transWG.Done()

	err := t.Start(stopChan)
	if err != nil {
		log.Printf("Failed starting Transport %v, err: %s\n", t, err)
	}
}

func (r *DefaultTransportRunner) Run() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return ErrAlreadyRunning
	}

	r.isRunning = true
	r.stopChan = make(chan struct{})
	r.transWG.Add(len(r.transports))

	for _, t := range r.transports {
		go r.runTransport(t, r.stopChan)
	}

	return nil
}

func (r *DefaultTransportRunner) Stop() error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return ErrNotRunning
	}
	r.isRunning = false
	close(r.stopChan)
	r.mu.Unlock()

	r.transWG.Wait()
	return nil
}

func NewDefaultTransportRunner() TransportRunner {
	return &DefaultTransportRunner{transports: make([]Transport, 0, 1)}
}
