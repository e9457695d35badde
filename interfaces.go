package flight

import "github.com/pthm/flight/lib/dom"

// Poster hands data to another execution context, structurally cloning it
// on the way. In debug mode every event payload is posted once to prove it
// could cross such a boundary. The default poster clones and discards;
// *dom.Document also implements it and keeps the clones.
type Poster interface {
	PostMessage(data any) error
}

// Method is an entry in a component's method table. c is the instance the
// method runs on.
//
// Methods are installed by mixins and may be wrapped with advice:
//
//	p.Method("save", func(c *flight.Component, args ...any) error {
//	    _, err := c.Trigger(flight.Emit{Type: "saved"})
//	    return err
//	})
type Method func(c *Component, args ...any) error

// Handler handles an event delivered to a component. c is the instance
// that bound the listener.
type Handler func(c *Component, ev *dom.Event, data any)
