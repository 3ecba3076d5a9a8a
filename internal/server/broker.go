package server

import (
	"encoding/json"
	"sync"

	"github.com/iffykid/Valentines2026/internal/session"
)

// Broker is an in-process pub/sub for render commands, keyed by session ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded commands for the given session.
func (b *Broker) Subscribe(sessionID string) chan []byte {
	ch := make(chan []byte, 256)
	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan []byte]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel and reports how many subscribers remain.
func (b *Broker) Unsubscribe(sessionID string, ch chan []byte) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs[sessionID], ch)
	n := len(b.subs[sessionID])
	if n == 0 {
		delete(b.subs, sessionID)
	}
	return n
}

func (b *Broker) Subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[sessionID])
}

// Publish sends a command to all subscribers of the given session.
func (b *Broker) Publish(sessionID string, cmd session.Command) {
	data, _ := json.Marshal(cmd)
	// Frames may only fill half a buffer so state changes always fit.
	lossy := cmd.Op == session.OpFrame

	b.mu.RLock()
	for ch := range b.subs[sessionID] {
		if lossy && len(ch) >= cap(ch)/2 {
			continue
		}
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// Surface returns a session.Surface that publishes to sessionID.
func (b *Broker) Surface(sessionID string) session.Surface {
	return session.SurfaceFunc(func(cmd session.Command) {
		b.Publish(sessionID, cmd)
	})
}
