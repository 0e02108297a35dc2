/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package session keeps every prompter in step with the controller: it
// owns the live script and presentation state, tracks which connections
// are prompters, and relays control events to them.
package session

import (
	"sync"

	"github.com/Seednode/teleprompter/paragraphs"
)

// Status is broadcast to every connection after each change.
type Status struct {
	PrompterCount int     `json:"prompter_count"`
	ScriptLen     int     `json:"script_len"`
	Scrolling     bool    `json:"scrolling"`
	Speed         float64 `json:"speed"`
}

// Snapshot is the polled view of the session.
type Snapshot struct {
	Script        []paragraphs.Paragraph `json:"script"`
	Position      float64                `json:"position"`
	FontSize      *float64               `json:"font_size"`
	Speed         float64                `json:"speed"`
	Scrolling     bool                   `json:"scrolling"`
	Font          string                 `json:"font"`
	Uppercase     bool                   `json:"uppercase"`
	PrompterCount int                    `json:"prompter_count"`
}

type loadMessage struct {
	Type       string                 `json:"type"`
	Paragraphs []paragraphs.Paragraph `json:"paragraphs"`
	Autoscale  *bool                  `json:"autoscale,omitempty"`
}

// Observer receives counts as the session changes.
type Observer interface {
	Event(kind string)
	Dropped()
	Uploaded(paragraphs int)
	ScriptLoaded(paragraphs int)
	Prompters(n int)
}

type nopObserver struct{}

func (nopObserver) Event(string)     {}
func (nopObserver) Dropped()         {}
func (nopObserver) Uploaded(int)     {}
func (nopObserver) ScriptLoaded(int) {}
func (nopObserver) Prompters(int)    {}

type Option func(*Router)

// WithLogger sets the function verbose messages are written through.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(r *Router) {
		if logf != nil {
			r.logf = logf
		}
	}
}

func WithObserver(o Observer) Option {
	return func(r *Router) {
		if o != nil {
			r.observer = o
		}
	}
}

// Router applies control events and membership changes to the session.
// Each call runs to completion, state change and broadcast together,
// before the next one starts; broadcasts never block on a connection.
type Router struct {
	mu       sync.Mutex
	store    *Store
	members  *Registry
	out      Broadcaster
	logf     func(format string, args ...any)
	observer Observer
}

func NewRouter(store *Store, members *Registry, out Broadcaster, opts ...Option) *Router {
	r := &Router{
		store:    store,
		members:  members,
		out:      out,
		logf:     func(string, ...any) {},
		observer: nopObserver{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Connect subscribes a new connection. It receives status broadcasts but
// no control events until it joins.
func (r *Router) Connect(id ConnID, sub Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.out.Subscribe(id, sub)
}

// Upload replaces the script and sends it to every prompter.
func (r *Router) Upload(script []paragraphs.Paragraph, autoscale bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store.Load(script)
	state := r.store.Snapshot()

	r.out.PublishRole(RolePrompter, frameJSON(EventControl, loadMessage{
		Type:       TypeLoad,
		Paragraphs: state.Script,
		Autoscale:  &autoscale,
	}))
	r.publishStatusLocked(state)

	r.observer.Uploaded(len(state.Script))
	r.logf("UPLOAD: Loaded %d paragraphs (autoscale=%t)", len(state.Script), autoscale)
}

// ControlEvent applies payload and relays it, unchanged, to the
// prompters. Payloads without a type are dropped. Unrecognised types are
// relayed without touching the state.
func (r *Router) ControlEvent(id ConnID, payload []byte) bool {
	ev, ok := Decode(payload)
	if !ok {
		r.observer.Dropped()
		r.logf("EVENT: Dropped untyped event from %s", id)

		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.store.Apply(ev)

	r.out.PublishRole(RolePrompter, Frame(EventControl, payload))
	r.publishStatusLocked(state)

	if _, ok := ev.(Load); ok {
		r.observer.ScriptLoaded(len(state.Script))
	}
	r.observer.Event(ev.Kind())
	r.logf("EVENT: Relayed %q from %s", ev.Kind(), id)

	return true
}

// Join makes id a prompter and sends it the current script.
func (r *Router) Join(id ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.store.Snapshot()

	r.out.Assign(id, RolePrompter)
	r.out.PublishTo(id, frameJSON(EventControl, loadMessage{
		Type:       TypeLoad,
		Paragraphs: state.Script,
	}))

	if r.members.Add(id) {
		r.logf("JOIN: Prompter %s joined", id)
	}
	r.publishStatusLocked(state)

	r.observer.Prompters(r.members.Len())
}

// Disconnect forgets id. Only a prompter leaving changes the status.
func (r *Router) Disconnect(id ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.out.Unsubscribe(id)

	if !r.members.Remove(id) {
		return
	}

	r.publishStatusLocked(r.store.Snapshot())

	r.observer.Prompters(r.members.Len())
	r.logf("LEAVE: Prompter %s left", id)
}

func (r *Router) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.store.Snapshot()

	return Snapshot{
		Script:        state.Script,
		Position:      state.Position,
		FontSize:      state.FontSize,
		Speed:         state.Speed,
		Scrolling:     state.Scrolling,
		Font:          state.Font,
		Uppercase:     state.Uppercase,
		PrompterCount: r.members.Len(),
	}
}

func (r *Router) publishStatusLocked(state State) {
	r.out.Publish(frameJSON(EventStatus, Status{
		PrompterCount: r.members.Len(),
		ScriptLen:     len(state.Script),
		Scrolling:     state.Scrolling,
		Speed:         state.Speed,
	}))
}
