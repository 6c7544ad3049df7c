// Package sse provides Server-Sent Events support for the admin dashboard.
package sse

import (
	"encoding/json"
	"net/http"
	"sync"

	"sakkanal_backend/platform/logger"

	ginsse "github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventType represents different types of SSE events
type EventType string

const (
	EventLeadCaptured      EventType = "lead_captured"
	EventLeadStatusChanged EventType = "lead_status_changed"
	EventContactRequested  EventType = "contact_requested"
	EventReportDownloaded  EventType = "report_downloaded"
)

const clientBuffer = 32

// Event is one message on the admin stream. ID is the domain event ID and is
// sent as the SSE id field.
type Event struct {
	ID      uuid.UUID   `json:"id"`
	Type    EventType   `json:"type"`
	LeadID  uuid.UUID   `json:"leadId,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type client struct {
	userID uuid.UUID
	events chan Event
}

// Service fans events out to every connected admin.
type Service struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     *logger.Logger
}

// New creates a new SSE service
func New(log *logger.Logger) *Service {
	return &Service{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
}

func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.events)
}

// Broadcast sends event to every connected admin. Slow clients whose buffer
// is full miss the event rather than blocking the publisher.
func (s *Service) Broadcast(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dropped := 0
	for c := range s.clients {
		select {
		case c.events <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 && s.log != nil {
		s.log.Warn("sse buffer full", "event", event.Type, "dropped", dropped)
	}
}

// ClientCount returns the number of open streams.
func (s *Service) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Handler returns a Gin handler for SSE connections
func (s *Service) Handler(getUserID func(*gin.Context) (uuid.UUID, bool)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{userID: userID, events: make(chan Event, clientBuffer)}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent("connected", gin.H{"userId": userID})
		c.Writer.Flush()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				return
			case event, ok := <-cl.events:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					s.log.Error("sse marshal failed", "type", event.Type, "error", err)
					continue
				}
				render := ginsse.Event{Event: string(event.Type), Data: string(data)}
				if event.ID != uuid.Nil {
					render.Id = event.ID.String()
				}
				c.Render(-1, render)
				c.Writer.Flush()
			}
		}
	}
}

// Close disconnects every client.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		close(c.events)
	}
	s.clients = make(map[*client]struct{})
}
