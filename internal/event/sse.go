package event

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	eventBufferSize = 256
	sendTimeout     = 2 * time.Second
)

type SSEServer struct {
	clients map[string]map[chan Event]bool
	events  chan Event
	mu      sync.Mutex
	closed  bool
}

func NewSSEServer() EventSender {
	return &SSEServer{
		clients: make(map[string]map[chan Event]bool),
		events:  make(chan Event, eventBufferSize),
	}
}

// Register subscribes a client to a topic.
func (s *SSEServer) Register(topic string, client chan Event) {
	s.mu.Lock()
	if _, ok := s.clients[topic]; !ok {
		s.clients[topic] = make(map[chan Event]bool)
	}
	s.clients[topic][client] = true
	total := len(s.clients[topic])
	s.mu.Unlock()
	log.Info().Str("topic", topic).Int("clients", total).Msg("client registered")
}

// Unregister removes a client from a topic and closes its channel.
func (s *SSEServer) Unregister(topic string, client chan Event) {
	s.mu.Lock()
	remaining := 0
	if clients, ok := s.clients[topic]; ok {
		if clients[client] {
			delete(clients, client)
			close(client)
		}
		remaining = len(clients)
		if remaining == 0 {
			delete(s.clients, topic)
		}
	}
	s.mu.Unlock()
	log.Info().Str("topic", topic).Int("clients", remaining).Msg("client unregistered")
}

// Broadcast queues an event for every client of its topic. Events are dropped
// when the queue is full or the server is closed.
func (s *SSEServer) Broadcast(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	select {
	case s.events <- event:
	default:
		log.Warn().Str("topic", event.Topic).Str("type", event.Type).Msg("event queue full, dropping event")
	}
}

// Run delivers queued events until Close is called.
func (s *SSEServer) Run() {
	for event := range s.events {
		s.mu.Lock()
		clients := make([]chan Event, 0, len(s.clients[event.Topic]))
		for client := range s.clients[event.Topic] {
			clients = append(clients, client)
		}
		s.mu.Unlock()

		var wg sync.WaitGroup
		for _, client := range clients {
			wg.Add(1)
			go func(c chan Event) {
				defer wg.Done()
				s.send(event, c)
			}(client)
		}
		wg.Wait()
	}
}

func (s *SSEServer) send(event Event, client chan Event) {
	defer func() {
		// the client may have been unregistered and closed in the meantime
		_ = recover()
	}()

	timer := time.NewTimer(sendTimeout)
	defer timer.Stop()

	select {
	case client <- event:
	case <-timer.C:
		log.Warn().Str("topic", event.Topic).Msg("client is too slow, event dropped")
	}
}

// Close stops Run after the queued events are delivered.
func (s *SSEServer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.events)
	}
}
