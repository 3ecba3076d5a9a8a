package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iffykid/Valentines2026/internal/quiz"
	"github.com/iffykid/Valentines2026/internal/session"
)

var ErrNotFound = errors.New("not found")

type entry struct {
	app      *session.App
	cancel   context.CancelFunc
	lastSeen time.Time
}

// Registry owns the live sessions. Each session runs its own loop until it
// is removed, swept for idleness, or the registry is closed.
type Registry struct {
	broker     *Broker
	logger     *slog.Logger
	opts       session.Options
	frameEvery time.Duration

	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

func NewRegistry(logger *slog.Logger, broker *Broker, opts session.Options, frameEvery time.Duration) *Registry {
	// Each session seeds its own generator; *rand.Rand is not safe to share.
	opts.Rand = nil
	if opts.Logger == nil {
		opts.Logger = logger
	}
	return &Registry{
		broker:     broker,
		logger:     logger,
		opts:       opts,
		frameEvery: frameEvery,
		sessions:   make(map[string]*entry),
		now:        time.Now,
	}
}

func (r *Registry) Broker() *Broker { return r.broker }

// Create starts a session for doc and returns it.
func (r *Registry) Create(doc *quiz.Document) *session.App {
	id := uuid.NewString()
	loop := session.NewLoop(r.frameEvery)
	app := session.New(id, doc, r.broker.Surface(id), loop, r.opts)

	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)

	r.mu.Lock()
	r.sessions[id] = &entry{app: app, cancel: cancel, lastSeen: r.now()}
	n := len(r.sessions)
	r.mu.Unlock()

	r.logger.Info("session created", "session_id", id, "sessions", n)
	return app
}

// Get returns the session and marks it as recently used.
func (r *Registry) Get(id string) (*session.App, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = r.now()
	return e.app, nil
}

func (r *Registry) Touch(id string) {
	r.mu.Lock()
	if e, ok := r.sessions[id]; ok {
		e.lastSeen = r.now()
	}
	r.mu.Unlock()
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		e.cancel()
		r.logger.Info("session ended", "session_id", id)
	}
}

// Sweep ends sessions that have no connected surface and have been idle for
// longer than idle. It returns how many were removed.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.RLock()
	var stale []string
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) && r.broker.Subscribers(id) == 0 {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range stale {
		r.Remove(id)
	}
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, e := range r.sessions {
		e.cancel()
		delete(r.sessions, id)
	}
	return nil
}
