package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	sseChannelBuffer = 16
	sseHeartbeat     = 30 * time.Second
)

// Event is one message pushed to the players of a game.
type Event map[string]any

// client is a single SSE connection.
type client struct {
	ch     chan []byte
	gameID string
}

// send queues an event for this client only. It never blocks.
func (c *client) send(evt Event) bool {
	data, err := json.Marshal(evt)
	if err != nil {
		return false
	}
	select {
	case c.ch <- data:
		return true
	default:
		return false
	}
}

// Broadcaster fans game events out to SSE clients.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     *zap.Logger
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(log *zap.Logger) *Broadcaster {
	return &Broadcaster{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

// Register adds a client for a game session and returns it.
func (b *Broadcaster) Register(gameID string) *client {
	c := &client{
		ch:     make(chan []byte, sseChannelBuffer),
		gameID: gameID,
	}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	return c
}

// Unregister removes a client and closes its channel. Safe to call twice.
func (b *Broadcaster) Unregister(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.ch)
	}
	b.mu.Unlock()
}

// Broadcast sends an event to every client of a game. Slow clients whose
// buffer is full miss the event.
func (b *Broadcaster) Broadcast(gameID string, evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		b.log.Error("marshal event", zap.String("game", gameID), zap.Error(err))
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for c := range b.clients {
		if c.gameID != gameID {
			continue
		}
		select {
		case c.ch <- data:
		default:
			b.log.Debug("dropping event for slow client", zap.String("game", gameID))
		}
	}
}

// ClientCount returns the number of connected clients for a game.
func (b *Broadcaster) ClientCount(gameID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for c := range b.clients {
		if c.gameID == gameID {
			n++
		}
	}
	return n
}

// ServeSSE streams the events of a game until the request ends.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request, gameID string, onConnect func(c *client), onDisconnect func()) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c := b.Register(gameID)
	defer func() {
		b.Unregister(c)
		if onDisconnect != nil {
			onDisconnect()
		}
	}()

	if onConnect != nil {
		onConnect(c)
	}

	ticker := time.NewTicker(sseHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-c.ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}
