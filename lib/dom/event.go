package dom

import "golang.org/x/net/html"

// Event is a dispatched DOM event.
type Event struct {
	Type string

	// Target is the node the event was triggered on.
	Target *html.Node
	// CurrentTarget is the node whose listeners are running.
	CurrentTarget *html.Node

	defaultPrevented   bool
	propagationStopped bool
	immediatelyStopped bool
}

// NewEvent constructs an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// PreventDefault marks the event's default behavior as prevented.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// IsDefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) IsDefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation stops the event from bubbling past the current node.
func (e *Event) StopPropagation() {
	e.propagationStopped = true
}

// IsPropagationStopped reports whether StopPropagation was called.
func (e *Event) IsPropagationStopped() bool {
	return e.propagationStopped
}

// StopImmediatePropagation also skips the remaining listeners on the
// current node.
func (e *Event) StopImmediatePropagation() {
	e.propagationStopped = true
	e.immediatelyStopped = true
}

// HandlerFunc handles a dispatched event and its payload.
type HandlerFunc func(ev *Event, data any)

// Listener is a registered event handler. GUID is the correlation tag used
// for removal; the document assigns one on first registration if it is zero.
type Listener struct {
	GUID   uint64
	Handle HandlerFunc
}

// NewListener wraps fn as a listener with no GUID yet.
func NewListener(fn HandlerFunc) *Listener {
	return &Listener{Handle: fn}
}
