package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/moore/internal/logging"
	"github.com/aretw0/moore/pkg/domain"
)

// EventMessage is the JSON payload of one SSE data line.
type EventMessage struct {
	Type domain.EventType `json:"type"`
	Data domain.Event     `json:"data"`
}

type streamSub struct {
	ch    chan string
	watch map[domain.EventType]bool
}

// StreamManager fans bus events out to active SSE connections.
// It is a notify.Listener.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[*streamSub]struct{}
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[*streamSub]struct{}),
		logger:      logger,
	}
}

// Subscribe opens a channel of encoded messages. An empty watch list receives every event type.
func (sm *StreamManager) Subscribe(watch ...domain.EventType) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sub := &streamSub{ch: make(chan string, 16)}
	if len(watch) > 0 {
		sub.watch = make(map[domain.EventType]bool, len(watch))
		for _, t := range watch {
			sub.watch[t] = true
		}
	}
	sm.subscribers[sub] = struct{}{}

	return sub.ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[sub]; ok {
			delete(sm.subscribers, sub)
			close(sub.ch)
		}
	}
}

// Len returns the number of open streams.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// OnEvent encodes ev and broadcasts it.
func (sm *StreamManager) OnEvent(ctx context.Context, ev domain.Event) error {
	bytes, err := json.Marshal(EventMessage{Type: ev.Type(), Data: ev})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	sm.Broadcast(ev.Type(), string(bytes))
	return nil
}

// Broadcast sends msg to every stream watching t. Slow clients drop messages.
func (sm *StreamManager) Broadcast(t domain.EventType, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.logger.Debug("StreamManager: Broadcasting", logging.Event(t), slog.Int("payload_size", len(msg)))
	for sub := range sm.subscribers {
		if sub.watch != nil && !sub.watch[t] {
			continue
		}
		select {
		case sub.ch <- msg:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message", logging.Event(t))
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE).
// The optional watch query parameter is a comma separated list of event types.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	var watch []domain.EventType
	if raw := r.URL.Query().Get("watch"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			watch = append(watch, domain.EventType(strings.TrimSpace(field)))
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(watch...)
	defer cancel()

	s.logger.Info("SSE: client subscribed", slog.Int("watch", len(watch)))
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
