package session

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs session work on a single logical thread.
type Scheduler interface {
	// Post queues fn to run on the loop.
	Post(fn func())
	// After runs fn on the loop once d has elapsed. There is no cancel;
	// callbacks must tolerate running after the state they targeted changed.
	After(d time.Duration, fn func())
	// Frame runs fn on the next frame tick. Callbacks that want to keep
	// animating reschedule themselves.
	Frame(fn func())
}

// Loop is the real Scheduler: one goroutine draining a task queue plus a
// frame ticker. Work posted after Run returns is dropped.
type Loop struct {
	tasks      chan func()
	frameEvery time.Duration
	done       chan struct{}

	mu     sync.Mutex
	frames []func()
}

func NewLoop(frameEvery time.Duration) *Loop {
	if frameEvery <= 0 {
		frameEvery = 16 * time.Millisecond
	}
	return &Loop{
		tasks:      make(chan func(), 64),
		frameEvery: frameEvery,
		done:       make(chan struct{}),
	}
}

// Run processes tasks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	ticker := time.NewTicker(l.frameEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.tasks:
			fn()
		case <-ticker.C:
			l.mu.Lock()
			frames := l.frames
			l.frames = nil
			l.mu.Unlock()
			for _, fn := range frames {
				fn()
			}
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} { return l.done }

func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

func (l *Loop) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { l.Post(fn) })
}

func (l *Loop) Frame(fn func()) {
	l.mu.Lock()
	l.frames = append(l.frames, fn)
	l.mu.Unlock()
}
