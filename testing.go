package flight

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/pthm/flight/lib/dom"
)

// TestEvent is a trigger captured by a TestHarness.
type TestEvent struct {
	Component string
	Type      string
	Data      any
}

// TestHarness wraps a registry over a fresh document and records every
// event its components trigger.
//
// Use it to exercise component types without building a page by hand:
//
//	h, err := flight.NewTestHarness(`<div class="counter"><button class="inc"></button></div>`)
//	Counter := h.Registry.Define(withCounter)
//	Counter.AttachTo(".counter", map[string]any{"label": "clicks"})
//	h.Dispatch("button.inc", "click", nil)
//	if !h.HasEvent("incremented") {
//	    t.Fatal("expected incremented")
//	}
//	if leaked, _ := h.Close(); leaked != 0 {
//	    t.Fatalf("%d listeners leaked", leaked)
//	}
type TestHarness struct {
	Registry *Registry
	Doc      *dom.Document

	mu     sync.Mutex
	events []TestEvent
	stop   func()
}

// NewTestHarness parses markup and creates a registry over it.
func NewTestHarness(markup string, opts ...Option) (*TestHarness, error) {
	doc, err := dom.ParseString(markup)
	if err != nil {
		return nil, err
	}
	return newHarness(doc, opts...), nil
}

// NewTestHarnessFromTempl renders c and creates a registry over the result.
func NewTestHarnessFromTempl(ctx context.Context, c templ.Component, opts ...Option) (*TestHarness, error) {
	doc, err := dom.Render(ctx, c)
	if err != nil {
		return nil, err
	}
	return newHarness(doc, opts...), nil
}

func newHarness(doc *dom.Document, opts ...Option) *TestHarness {
	h := &TestHarness{
		Registry: NewRegistry(doc, opts...),
		Doc:      doc,
	}
	h.stop = h.Registry.Observe(func(c *Component, e Emit) {
		h.mu.Lock()
		h.events = append(h.events, TestEvent{Component: c.String(), Type: e.Type, Data: e.Data})
		h.mu.Unlock()
	})
	return h
}

// Dispatch fires an event of typ on the elements matching selector, the
// way a user action would, and returns the event so callers can inspect
// whether a listener prevented its default.
func (h *TestHarness) Dispatch(selector, typ string, data any) (*dom.Event, error) {
	sel, err := h.Doc.Select(selector)
	if err != nil {
		return nil, err
	}
	if sel.Len() == 0 {
		return nil, fmt.Errorf("flight: dispatch %q: no element matches %q", typ, selector)
	}
	ev := dom.NewEvent(typ)
	sel.Trigger(ev, data)
	return ev, nil
}

// Events returns the triggers recorded so far.
func (h *TestHarness) Events() []TestEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]TestEvent, len(h.events))
	copy(out, h.events)
	return out
}

// EventTypes returns the recorded event types in trigger order.
func (h *TestHarness) EventTypes() []string {
	events := h.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

// HasEvent checks if an event of typ was triggered.
func (h *TestHarness) HasEvent(typ string) bool {
	return h.CountEvent(typ) > 0
}

// CountEvent returns how many events of typ were triggered.
func (h *TestHarness) CountEvent(typ string) int {
	n := 0
	for _, e := range h.Events() {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// Reset clears the recorded events.
func (h *TestHarness) Reset() {
	h.mu.Lock()
	h.events = nil
	h.mu.Unlock()
}

// HTMLContains checks if the document's markup contains substr.
func (h *TestHarness) HTMLContains(substr string) bool {
	return strings.Contains(h.Doc.Wrap(h.Doc.Root()).OuterHTML(), substr)
}

// Close tears down every instance and stops recording. It returns the
// number of listeners still registered with the document afterwards; any
// non-zero count is a leak.
func (h *TestHarness) Close() (int, error) {
	err := h.Registry.TeardownAll()
	if h.stop != nil {
		h.stop()
		h.stop = nil
	}
	return h.Doc.TotalListeners(), err
}
