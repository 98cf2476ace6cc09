package hwcontrol

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// PowerReporter answers what the adapter's power state is right now.
type PowerReporter interface {
	PowerState() PowerState
}

type Endpoint struct {
	Path    string
	Handler func(w http.ResponseWriter, r *http.Request)
	Methods []string
}

type ApiResponse struct {
	Message string `json:"message"`
}

type ObserverData struct {
	Url string `json:"url"`
}

type WebhookPayload struct {
	ObserverID   string       `json:"observer_id"`
	Notification Notification `json:"notification"`
}

type StreamMessage struct {
	Notification Notification `json:"notification"`
	State        PowerState   `json:"state"`
}

type PowerResponse struct {
	State PowerState `json:"state"`
}

const streamBufferSize = 16

// Server exposes the controller over HTTP.
type Server struct {
	controller *Controller
	power      PowerReporter
	client     *http.Client
	upgrader   websocket.Upgrader
}

func NewServer(c *Controller, p PowerReporter) *Server {
	return &Server{
		controller: c,
		power:      p,
		client:     http.DefaultClient,
	}
}

func (s *Server) endpoints() []Endpoint {
	return []Endpoint{
		{
			Path:    "/power",
			Methods: []string{http.MethodGet},
			Handler: s.handlePower,
		},
		{
			Path:    "/notifications",
			Methods: []string{http.MethodGet},
			Handler: s.handleNotifications,
		},
		{
			// Stream notifications over a websocket
			Path:    "/notifications/ws",
			Methods: []string{http.MethodGet},
			Handler: s.handleStream,
		},
		{
			Path:    "/observers",
			Methods: []string{http.MethodGet},
			Handler: s.handleListObservers,
		},
		{
			// Register a webhook observer
			Path:    "/observers",
			Methods: []string{http.MethodPost},
			Handler: s.handleAddObserver,
		},
		{
			Path:    "/observers/{observerId}",
			Methods: []string{http.MethodDelete},
			Handler: s.handleRemoveObserver,
		},
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	for _, endpoint := range s.endpoints() {
		r.HandleFunc(endpoint.Path, endpoint.Handler).
			Methods(endpoint.Methods...)
	}

	return r
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	log.Printf("Serving API on %s\n", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) handlePower(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PowerResponse{State: s.power.PowerState()})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Notifications())
}

func (s *Server) handleListObservers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Observers())
}

func (s *Server) handleAddObserver(w http.ResponseWriter, r *http.Request) {
	var data ObserverData
	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil || data.Url == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{Message: "invalid data"})
		return
	}

	wh := &webhookObserver{url: data.Url, client: s.client, controller: s.controller}
	id, err := s.controller.AddObserver(wh)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ApiResponse{Message: err.Error()})
		return
	}
	wh.setID(id)

	log.Printf("Webhook observer %s registered for %s\n", id, data.Url)
	writeJSON(w, http.StatusOK, ApiResponse{Message: id})
}

func (s *Server) handleRemoveObserver(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["observerId"]

	err := s.controller.RemoveObserver(id)
	if errors.Is(err, ErrObserverNotFound) {
		writeJSON(w, http.StatusNotFound, ApiResponse{Message: "observer not found"})
		return
	}

	writeJSON(w, http.StatusOK, ApiResponse{Message: "Done"})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %s\n", err)
		return
	}
	defer conn.Close()

	msgs := make(chan StreamMessage, streamBufferSize)
	id, err := s.controller.AddObserver(ObserverFunc(func(n Notification) {
		select {
		case msgs <- StreamMessage{Notification: n, State: s.power.PowerState()}:
		default:
			log.Printf("Stream observer is slow, dropping %s\n", n)
		}
	}))
	if err != nil {
		return
	}
	defer s.controller.RemoveObserver(id)

	// Reader goroutine, only used to notice the peer going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case m := <-msgs:
			if err := conn.WriteJSON(m); err != nil {
				log.Printf("Stream observer %s write failed: %s\n", id, err)
				return
			}
		case <-closed:
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Println(err)
	}
}

// webhookObserver POSTs every notification to a URL. A target answering
// anything but 200 is dropped.
type webhookObserver struct {
	mu         sync.Mutex
	id         string
	url        string
	client     *http.Client
	controller *Controller
}

func (wh *webhookObserver) setID(id string) {
	wh.mu.Lock()
	defer wh.mu.Unlock()

	wh.id = id
}

func (wh *webhookObserver) observerID() string {
	wh.mu.Lock()
	defer wh.mu.Unlock()

	return wh.id
}

func (wh *webhookObserver) ReceivedNotification(n Notification) {
	id := wh.observerID()

	body, err := json.Marshal(WebhookPayload{ObserverID: id, Notification: n})
	if err != nil {
		log.Printf("error encoding notification: %s", err)
		return
	}

	go func() {
		resp, err := wh.client.Post(wh.url, "application/json", bytes.NewBuffer(body))
		if err != nil {
			log.Printf("error calling webhook: %s", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("Webhook result unsuccessful: %d\n", resp.StatusCode)

			// Remove unsuccessful webhook
			_ = wh.controller.RemoveObserver(id)
			return
		}

		log.Printf("Webhook at %s called successfully", wh.url)
	}()
}
