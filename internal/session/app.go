// Package session runs one visitor's love-meter quiz. An App owns the whole
// application context for a page lifetime and executes every handler, timer
// and animation frame on a single Scheduler, so its state needs no locks.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/iffykid/Valentines2026/internal/confetti"
	"github.com/iffykid/Valentines2026/internal/quiz"
)

// ErrStopped is returned when the session loop is no longer running.
var ErrStopped = errors.New("session stopped")

const tileCaption = "Click Here"

// Timings are the fixed delays of the page.
type Timings struct {
	AnswerDelay   time.Duration
	GateShake     time.Duration
	OptionShake   time.Duration
	RevealDelay   time.Duration
	ToastDuration time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		AnswerDelay:   500 * time.Millisecond,
		GateShake:     500 * time.Millisecond,
		OptionShake:   400 * time.Millisecond,
		RevealDelay:   time.Second,
		ToastDuration: 3 * time.Second,
	}
}

type Options struct {
	Timings          Timings
	MessagingBaseURL string
	ParticleCount    int
	// Rand seeds the confetti. Defaults to a time-seeded source.
	Rand   *rand.Rand
	Logger *slog.Logger
}

// App is the application context of one session.
type App struct {
	id      string
	surface Surface
	sched   Scheduler
	timings Timings
	logger  *slog.Logger
	rng     *rand.Rand

	doc        *quiz.Document
	gate       *quiz.Gate
	answered   *quiz.AnsweredSet
	flow       *quiz.Flow
	progress   *quiz.Progress
	dismissals *quiz.Dismissals
	dispatcher *quiz.Dispatcher

	particleCount int
	field         *confetti.Field
	width, height float64

	selected      int
	revealed      bool
	declineHidden bool
	toast         string
	toastGen      int
}

func New(id string, doc *quiz.Document, surface Surface, sched Scheduler, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.ParticleCount <= 0 {
		opts.ParticleCount = confetti.DefaultCount
	}
	if opts.Timings == (Timings{}) {
		opts.Timings = DefaultTimings()
	}

	answered := quiz.NewAnsweredSet()
	return &App{
		id:            id,
		surface:       surface,
		sched:         sched,
		timings:       opts.Timings,
		logger:        opts.Logger.With("session_id", id),
		rng:           opts.Rand,
		doc:           doc,
		gate:          quiz.NewGate(doc),
		answered:      answered,
		flow:          quiz.NewFlow(doc, answered),
		progress:      quiz.NewProgress(len(doc.Questions)),
		dismissals:    quiz.NewDismissals(doc.Messages),
		dispatcher:    quiz.NewDispatcher(opts.MessagingBaseURL, doc),
		particleCount: opts.ParticleCount,
		selected:      -1,
	}
}

func (a *App) ID() string { return a.id }

// Handle validates ev and queues it on the session loop.
func (a *App) Handle(ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	select {
	case <-a.done():
		return ErrStopped
	default:
	}
	a.sched.Post(func() { a.handle(ev) })
	return nil
}

// done is closed when the scheduler stops; nil for schedulers that never do.
func (a *App) done() <-chan struct{} {
	if s, ok := a.sched.(interface{ Done() <-chan struct{} }); ok {
		return s.Done()
	}
	return nil
}

// Sync queues a full re-render of the current state, used when a surface
// (re)connects.
func (a *App) Sync() {
	a.sched.Post(a.sync)
}

func (a *App) handle(ev Event) {
	if ev.Type == EventResize {
		a.resize(ev.Width, ev.Height)
		return
	}
	if !a.gate.Unlocked() {
		switch {
		case ev.Type == EventSubmitPassword:
			a.submitPassword(ev.Value)
		case ev.Type == EventKeypress && ev.Key == "Enter":
			a.submitPassword(ev.Value)
		default:
			a.logger.Debug("input ignored while locked", "event", ev.Type)
		}
		return
	}

	switch ev.Type {
	case EventClickTile:
		a.openQuestion(ev.ID)
	case EventSelectOption:
		a.selectOption(ev.Index)
	case EventCloseModal:
		a.closeModal()
	case EventAccept:
		a.dispatch(ev.Response)
	case EventDecline:
		a.showNextDismissal()
	}
}

func (a *App) sync() {
	tiles := make([]Tile, len(a.doc.Questions))
	for i, q := range a.doc.Questions {
		tiles[i] = Tile{
			ID:      q.ID,
			Image:   q.Image,
			Alt:     fmt.Sprintf("Memory %d", i+1),
			Caption: tileCaption,
			Done:    a.answered.Has(q.ID),
		}
	}
	a.surface.Send(Command{Op: OpRenderTiles, Tiles: tiles})

	if a.gate.Unlocked() {
		a.surface.Send(Command{Op: OpHideGate})
	}
	a.renderProgress()
	if q, ok := a.flow.Current(); ok {
		a.surface.Send(Command{Op: OpOpenModal, ID: q.ID, Question: q.Question, Options: q.Options})
		if a.selected >= 0 {
			a.surface.Send(Command{Op: OpSelectOption, ID: q.ID, Index: a.selected})
		}
	}
	if a.declineHidden {
		a.surface.Send(Command{Op: OpHideDecline})
	}
	if a.revealed {
		a.surface.Send(Command{Op: OpShowReveal})
		a.surface.Send(Command{Op: OpResizeCanvas, Width: a.width, Height: a.height})
	}
	if a.toast != "" {
		a.surface.Send(Command{Op: OpShowToast, Message: a.toast})
	}
}

func (a *App) submitPassword(candidate string) {
	switch a.gate.Submit(candidate) {
	case quiz.GateOpened:
		a.logger.Info("gate unlocked")
		a.surface.Send(Command{Op: OpHideGate})
	case quiz.GateRejected:
		a.logger.Info("gate rejected")
		a.surface.Send(Command{Op: OpGateError})
		a.surface.Send(Command{Op: OpGateShake, On: true})
		a.sched.After(a.timings.GateShake, func() {
			a.surface.Send(Command{Op: OpGateShake, On: false})
		})
	}
}

func (a *App) openQuestion(id string) {
	q, ok := a.flow.Open(id)
	if !ok {
		return
	}
	a.selected = -1
	a.surface.Send(Command{Op: OpOpenModal, ID: q.ID, Question: q.Question, Options: q.Options})
}

func (a *App) closeModal() {
	a.flow.Close()
	a.selected = -1
	a.surface.Send(Command{Op: OpCloseModal})
}

// selectOption marks the choice at once and judges it after AnswerDelay so
// the selection is visible before the modal reacts.
func (a *App) selectOption(idx int) {
	sel, ok := a.flow.Select(idx)
	if !ok {
		return
	}
	a.selected = idx
	a.surface.Send(Command{Op: OpSelectOption, ID: sel.QuestionID, Index: idx})

	a.sched.After(a.timings.AnswerDelay, func() { a.judge(sel) })
}

func (a *App) judge(sel quiz.Selection) {
	wasOpen := a.flow.IsOpen(sel.QuestionID)

	switch a.flow.Judge(sel) {
	case quiz.VerdictCorrect:
		a.logger.Info("question answered", "question_id", sel.QuestionID)
		if wasOpen {
			a.selected = -1
			a.surface.Send(Command{Op: OpCloseModal})
		}
		a.surface.Send(Command{Op: OpTileDone, ID: sel.QuestionID})
		a.recordCorrectAnswer()

	case quiz.VerdictIncorrect:
		if !wasOpen {
			return
		}
		a.surface.Send(Command{Op: OpOptionShake, ID: sel.QuestionID, Index: sel.Index, On: true})
		a.sched.After(a.timings.OptionShake, func() {
			a.surface.Send(Command{Op: OpOptionShake, ID: sel.QuestionID, Index: sel.Index, On: false})
		})
	}
}

func (a *App) recordCorrectAnswer() {
	reached := a.progress.Record()
	a.renderProgress()
	if reached {
		a.logger.Info("love meter full")
		a.sched.After(a.timings.RevealDelay, a.reveal)
	}
}

func (a *App) renderProgress() {
	a.surface.Send(Command{
		Op:      OpSetProgress,
		Value:   a.progress.Value(),
		Percent: a.progress.Percent(),
	})
}

// reveal shows the proposal and starts the confetti.
func (a *App) reveal() {
	if a.revealed {
		return
	}
	a.revealed = true
	a.surface.Send(Command{Op: OpShowReveal})
	a.surface.Send(Command{Op: OpResizeCanvas, Width: a.width, Height: a.height})

	a.field = confetti.NewField(a.particleCount, a.width, a.height, a.rng)
	a.sched.Frame(a.animate)
}

func (a *App) animate() {
	a.field.Step()
	fr := &confetti.Frame{Squares: make([]confetti.Square, 0, a.particleCount)}
	a.field.Draw(fr)
	a.surface.Send(Command{Op: OpFrame, Frame: fr})
	a.sched.Frame(a.animate)
}

func (a *App) resize(width, height float64) {
	a.width, a.height = width, height
	if a.field == nil {
		return
	}
	a.field.Resize(width, height)
	a.surface.Send(Command{Op: OpResizeCanvas, Width: width, Height: height})
}

func (a *App) dispatch(responseType string) {
	link, err := a.dispatcher.Link(responseType)
	if err != nil {
		a.logger.Error("dispatch failed", "response", responseType, "error", err)
		a.surface.Send(Command{Op: OpDiagnostic, Message: err.Error()})
		return
	}
	a.logger.Info("dispatching response", "response", responseType)
	a.surface.Send(Command{Op: OpNavigate, URL: link})
}

// showNextDismissal shows the next decline message. A newer toast restarts
// the visible message; hide timers of older toasts are ignored.
func (a *App) showNextDismissal() {
	msg, exhausted := a.dismissals.Next()
	if exhausted && !a.declineHidden {
		a.declineHidden = true
		a.surface.Send(Command{Op: OpHideDecline})
	}

	a.toastGen++
	gen := a.toastGen
	a.toast = msg
	a.surface.Send(Command{Op: OpShowToast, Message: msg})

	a.sched.After(a.timings.ToastDuration, func() {
		if gen != a.toastGen {
			return
		}
		a.toast = ""
		a.surface.Send(Command{Op: OpHideToast})
	})
}

// State is a point-in-time view of the session.
type State struct {
	ID            string   `json:"id"`
	Unlocked      bool     `json:"unlocked"`
	Answered      []string `json:"answered"`
	OpenQuestion  string   `json:"openQuestion,omitempty"`
	Progress      float64  `json:"progress"`
	Percent       int      `json:"percent"`
	Revealed      bool     `json:"revealed"`
	Dismissals    int      `json:"dismissals"`
	DeclineHidden bool     `json:"declineHidden"`
}

// Snapshot reads the state on the session loop.
func (a *App) Snapshot(ctx context.Context) (State, error) {
	ch := make(chan State, 1)
	a.sched.Post(func() { ch <- a.state() })

	select {
	case st := <-ch:
		return st, nil
	case <-a.done():
		return State{}, ErrStopped
	case <-ctx.Done():
		return State{}, fmt.Errorf("reading session state: %w", ctx.Err())
	}
}

func (a *App) state() State {
	st := State{
		ID:            a.id,
		Unlocked:      a.gate.Unlocked(),
		Answered:      []string{},
		Progress:      a.progress.Value(),
		Percent:       a.progress.Percent(),
		Revealed:      a.revealed,
		Dismissals:    a.dismissals.Count(),
		DeclineHidden: a.declineHidden,
	}
	for _, q := range a.doc.Questions {
		if a.answered.Has(q.ID) {
			st.Answered = append(st.Answered, q.ID)
		}
	}
	if q, ok := a.flow.Current(); ok {
		st.OpenQuestion = q.ID
	}
	return st
}
