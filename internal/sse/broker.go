// Package sse streams library and selection events to HTTP clients as
// Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/starford/moodmusic/internal/mood"
)

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Event types emitted by the service.
const (
	TypeTrackAdded      = "track.added"
	TypeTrackRemoved    = "track.removed"
	TypeTrackResolved   = "track.resolved"
	TypeLibraryReloaded = "library.reloaded"
	TypeLibraryChanged  = "library.changed"
)

// DefaultHeartbeat is the interval of keep-alive comments on idle streams.
const DefaultHeartbeat = 25 * time.Second

// TrackChange is the payload of track.added and track.removed.
type TrackChange struct {
	Path string    `json:"path"`           // relative to the expanded root
	Mood mood.Mood `json:"mood,omitempty"` // empty outside a mood folder
}

// Option configures a Broker.
type Option func(*Broker)

// WithHeartbeat sets the keep-alive interval used by ServeHTTP.
func WithHeartbeat(d time.Duration) Option {
	return func(b *Broker) {
		if d > 0 {
			b.heartbeat = d
		}
	}
}

type subscription struct {
	ch    chan []byte
	types map[string]bool // nil means every type
}

// Broker fans events out to subscribers.
//
// A single loop goroutine owns the subscriber set, the event sequence and
// the change throttle; every public method talks to it over channels.
type Broker struct {
	changeMin time.Duration
	heartbeat time.Duration

	subscribeCh   chan subscription
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	changeCh      chan Event
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker and starts its loop. library.changed is
// emitted at most once per changeThrottle.
func NewBroker(changeThrottle time.Duration, opts ...Option) *Broker {
	if changeThrottle <= 0 {
		changeThrottle = 2 * time.Second
	}

	b := &Broker{
		changeMin:     changeThrottle,
		heartbeat:     DefaultHeartbeat,
		subscribeCh:   make(chan subscription),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		changeCh:      make(chan Event, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	go b.run()
	return b
}

// frame renders one SSE message.
func frame(id uint64, event Event) ([]byte, error) {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "id: %d\nevent: %s\ndata: %s\n\n", id, event.Type, payload), nil
}

func (b *Broker) run() {
	defer close(b.stopped)

	subs := make(map[chan []byte]map[string]bool)
	var (
		seq        uint64
		lastChange time.Time
	)

	broadcast := func(event Event) {
		seq++
		raw, err := frame(seq, event)
		if err != nil {
			return
		}
		for ch, types := range subs {
			if types != nil && !types[event.Type] {
				continue
			}
			select {
			case ch <- raw:
			default:
				// Slow client; drop rather than stall everyone else.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range subs {
				close(ch)
			}
			return

		case s := <-b.subscribeCh:
			subs[s.ch] = s.types

		case ch := <-b.unsubscribeCh:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			broadcast(event)

		case event := <-b.changeCh:
			broadcast(event)
			if now := time.Now(); now.Sub(lastChange) >= b.changeMin {
				lastChange = now
				broadcast(Event{Type: TypeLibraryChanged, Data: map[string]string{}})
			}

		case resp := <-b.countReqCh:
			resp <- len(subs)
		}
	}
}

// Close stops the loop and closes every subscriber channel.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a client for the given event types, or for all of
// them when none are given, and returns its message channel.
func (b *Broker) Subscribe(types ...string) chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	var filter map[string]bool
	if len(types) > 0 {
		filter = make(map[string]bool, len(types))
		for _, t := range types {
			filter[t] = true
		}
	}

	select {
	case b.subscribeCh <- subscription{ch: ch, types: filter}:
	case <-b.stopped:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to all matching subscribers.
func (b *Broker) Publish(event Event) {
	b.send(b.publishCh, event)
}

// PublishTrackEvent reports a file change in the expanded library. kind
// is "added" or "removed"; anything else is ignored. It is followed by a
// throttled library.changed event.
func (b *Broker) PublishTrackEvent(kind, path string) {
	var typ string
	switch kind {
	case "added":
		typ = TypeTrackAdded
	case "removed":
		typ = TypeTrackRemoved
	default:
		return
	}

	change := TrackChange{Path: path}
	if dir, _, ok := strings.Cut(path, "/"); ok {
		if m, err := mood.Parse(dir); err == nil {
			change.Mood = m
		}
	}
	b.send(b.changeCh, Event{Type: typ, Data: change})
}

func (b *Broker) send(ch chan Event, event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case ch <- event:
	case <-b.stopped:
	}
}

// ServeHTTP streams events to the client until it disconnects. The
// optional "types" query parameter is a comma-separated list of event
// types to receive.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	var types []string
	for _, t := range strings.Split(r.URL.Query().Get("types"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe(types...)
	defer b.Unsubscribe(ch)

	ping := time.NewTicker(b.heartbeat)
	defer ping.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
