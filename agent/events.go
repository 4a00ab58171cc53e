package agent

import (
	"sync"
	"time"
)

// EventKind identifies the type of loop event.
type EventKind string

const (
	EventTurnStart     EventKind = "turn_start"
	EventModelCall     EventKind = "model_call"
	EventTextDelta     EventKind = "text_delta"
	EventAssistantText EventKind = "assistant_text"
	EventToolCallStart EventKind = "tool_call_start"
	EventToolCallEnd   EventKind = "tool_call_end"
	EventTurnEnd       EventKind = "turn_end"
	EventWarning       EventKind = "warning"
	EventError         EventKind = "error"
)

// Event is a typed event emitted by the agent loop.
type Event struct {
	Kind      EventKind      `json:"kind"`
	Timestamp time.Time      `json:"timestamp"`
	ThreadID  string         `json:"thread_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// EventEmitter delivers typed events to the host application via a
// buffered channel. Emission never blocks the loop: when the channel is
// full the event is dropped.
type EventEmitter struct {
	threadID string
	ch       chan Event
	closed   bool
	mu       sync.Mutex
}

// NewEventEmitter creates an EventEmitter with the given buffer size.
func NewEventEmitter(threadID string, bufferSize int) *EventEmitter {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &EventEmitter{
		threadID: threadID,
		ch:       make(chan Event, bufferSize),
	}
}

// Emit sends an event. Dropped silently if the emitter is closed or full.
func (e *EventEmitter) Emit(kind EventKind, data map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	event := Event{
		Kind:      kind,
		Timestamp: time.Now(),
		ThreadID:  e.threadID,
		Data:      data,
	}
	select {
	case e.ch <- event:
	default:
	}
}

// Events returns the read-only event channel.
func (e *EventEmitter) Events() <-chan Event {
	return e.ch
}

// Close closes the event channel. Safe to call multiple times.
func (e *EventEmitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.ch)
	}
}
