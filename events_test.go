package flight

import (
	"errors"
	"testing"

	"github.com/pthm/flight/lib/dom"
)

// counter returns a callback counting its invocations.
func counter(n *int) *Callback {
	return Func(func(*Component, *dom.Event, any) { *n++ })
}

func TestOnOffRoundTrip(t *testing.T) {
	reg := newTestRegistry(t)
	c := mustNew(t, reg.Define(), "#app", nil)

	calls := 0
	cb := counter(&calls)
	l, err := c.On(Listen{Type: "save", Callback: cb})
	if err != nil {
		t.Fatalf("On() error = %v", err)
	}
	if l.GUID == 0 || cb.GUID() != l.GUID {
		t.Errorf("callback GUID %d, listener GUID %d", cb.GUID(), l.GUID)
	}
	if n := len(reg.FindInstanceInfo(c).Events()); n != 1 {
		t.Fatalf("%d bindings recorded, want 1", n)
	}

	if _, err := c.Trigger(Emit{Type: "save"}); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	if removed := c.Off(Unlisten{Type: "save", Callback: cb}); removed != 1 {
		t.Errorf("Off() removed %d, want 1", removed)
	}
	c.Trigger(Emit{Type: "save"})
	if calls != 1 {
		t.Errorf("calls after Off = %d, want 1", calls)
	}
	if n := len(reg.FindInstanceInfo(c).Events()); n != 0 {
		t.Errorf("%d bindings left after Off", n)
	}
}

func TestOffLeavesOtherListeners(t *testing.T) {
	reg := newTestRegistry(t)
	c := mustNew(t, reg.Define(), "#app", nil)

	var a, b int
	cbA, cbB := counter(&a), counter(&b)
	c.On(Listen{Type: "save", Callback: cbA})
	c.On(Listen{Type: "save", Callback: cbB})

	c.Off(Unlisten{Type: "save", Callback: cbA})
	c.Trigger(Emit{Type: "save"})

	if a != 0 || b != 1 {
		t.Errorf("a = %d, b = %d; want 0, 1", a, b)
	}
	events := reg.FindInstanceInfo(c).Events()
	if len(events) != 1 || events[0].Callback != cbB {
		t.Errorf("bindings = %v, want only cbB", events)
	}
}

func TestOffWithoutCallback(t *testing.T) {
	reg := newTestRegistry(t)
	c := mustNew(t, reg.Define(), "#app", nil)

	var a, b, other int
	c.On(Listen{Type: "save", Callback: counter(&a)})
	c.On(Listen{Type: "save", Callback: counter(&b)})
	c.On(Listen{Type: "load", Callback: counter(&other)})

	if removed := c.Off(Unlisten{Type: "save"}); removed != 2 {
		t.Errorf("Off() removed %d, want 2", removed)
	}
	c.Trigger(Emit{Type: "save"})
	c.Trigger(Emit{Type: "load"})

	if a != 0 || b != 0 || other != 1 {
		t.Errorf("a = %d, b = %d, other = %d", a, b, other)
	}
	if n := len(reg.FindInstanceInfo(c).Events()); n != 1 {
		t.Errorf("%d bindings left, want 1", n)
	}
}

func TestOffWithoutCallbackOnSharedTarget(t *testing.T) {
	reg := newTestRegistry(t)
	typ := reg.Define()
	a := mustNew(t, typ, "#one", nil)
	b := mustNew(t, typ, "#two", nil)
	other := mustSelect(t, reg, "#other")

	calls := 0
	a.On(Listen{Target: other, Type: "ping", Callback: counter(&calls)})
	b.On(Listen{Target: other, Type: "ping", Callback: counter(&calls)})

	if removed := a.Off(Unlisten{Target: other, Type: "ping"}); removed != 2 {
		t.Errorf("Off() removed %d, want 2", removed)
	}
	a.Trigger(Emit{Target: other, Type: "ping"})
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
	if n := len(reg.FindInstanceInfo(a).Events()); n != 0 {
		t.Errorf("a has %d bindings, want 0", n)
	}
	if n := len(reg.FindInstanceInfo(b).Events()); n != 1 {
		t.Errorf("b has %d bindings, want its record kept", n)
	}

	if err := b.Teardown(); err != nil {
		t.Errorf("Teardown() error = %v", err)
	}
	if n := reg.Document().TotalListeners(); n != 0 {
		t.Errorf("%d listeners left", n)
	}
}

func TestOffUnboundCallback(t *testing.T) {
	reg := newTestRegistry(t)
	c := mustNew(t, reg.Define(), "#app", nil)

	calls := 0
	c.On(Listen{Type: "save", Callback: counter(&calls)})

	if removed := c.Off(Unlisten{Type: "save", Callback: counter(new(int))}); removed != 0 {
		t.Errorf("Off() removed %d, want 0", removed)
	}
	c.Trigger(Emit{Type: "save"})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestOnSharedCallback(t *testing.T) {
	reg := newTestRegistry(t)
	c := mustNew(t, reg.Define(), "#app", nil)

	calls := 0
	cb := counter(&calls)
	one := mustSelect(t, reg, "#one")
	two := mustSelect(t, reg, "#two")

	l1, _ := c.On(Listen{Target: one, Type: "ping", Callback: cb})
	l2, _ := c.On(Listen{Target: two, Type: "ping", Callback: cb})
	if l1 == l2 || l1.GUID != l2.GUID {
		t.Fatalf("wrappers %p/%p GUIDs %d/%d; want distinct wrappers sharing a GUID", l1, l2, l1.GUID, l2.GUID)
	}

	c.Off(Unlisten{Target: one, Type: "ping", Callback: cb})
	c.Trigger(Emit{Target: one, Type: "ping"})
	c.Trigger(Emit{Target: two, Type: "ping"})
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (only #two still bound)", calls)
	}
	events := reg.FindInstanceInfo(c).Events()
	if len(events) != 1 || !events[0].Element.Same(two) {
		t.Errorf("bindings = %v, want only #two", events)
	}
}

func TestOnHandlerReceivesInstance(t *testing.T) {
	reg := newTestRegistry(t)
	c := mustNew(t, reg.Define(), "#app", nil)

	var got *Component
	var gotData any
	c.On(Listen{Type: "save", Callback: Func(func(c *Component, ev *dom.Event, data any) {
		got = c
		gotData = data
	})})
	c.Trigger(Emit{Type: "save", Data: "payload"})

	if got != c {
		t.Error("handler did not receive the binding instance")
	}
	if gotData != "payload" {
		t.Errorf("data = %v, want payload", gotData)
	}
}

func TestOnInvalidCallback(t *testing.T) {
	reg := newTestRegistry(t)
	c := mustNew(t, reg.Define(), "#app", nil)

	tests := []struct {
		name string
		l    Listen
	}{
		{"nil callback", Listen{Type: "save"}},
		{"nil func", Listen{Type: "save", Callback: Func(nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.On(tt.l)
			if !errors.Is(err, ErrInvalidCallback) {
				t.Errorf("On() error = %v, want ErrInvalidCallback", err)
			}
		})
	}
	if n := reg.Document().TotalListeners(); n != 0 {
		t.Errorf("%d listeners bound", n)
	}
}

func TestOnAfterTeardown(t *testing.T) {
	reg := newTestRegistry(t)
	c := mustNew(t, reg.Define(), "#app", nil)
	c.Teardown()

	_, err := c.On(Listen{Type: "save", Callback: counter(new(int))})
	if !errors.Is(err, ErrNotRegistered) {
		t.Errorf("On() error = %v, want ErrNotRegistered", err)
	}
}

func TestTriggerDefaultBehavior(t *testing.T) {
	reg := newTestRegistry(t)

	fallbacks := 0
	m := NewMixin("withFallback", func(p *Proto) {
		p.Method("fallback", func(c *Component, args ...any) error {
			fallbacks++
			return nil
		})
	})
	c := mustNew(t, reg.Define(m), "#app", nil)

	if _, err := c.Trigger(Emit{Type: "close", Default: "fallback"}); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if fallbacks != 1 {
		t.Fatalf("fallbacks = %d, want 1", fallbacks)
	}

	c.On(Listen{Type: "close", Callback: Func(func(_ *Component, ev *dom.Event, _ any) {
		ev.PreventDefault()
	})})
	c.Trigger(Emit{Type: "close", Default: "fallback"})
	if fallbacks != 1 {
		t.Errorf("fallbacks = %d after preventDefault, want 1", fallbacks)
	}
}

func TestTriggerDefaultFunc(t *testing.T) {
	reg := newTestRegistry(t)
	c := mustNew(t, reg.Define(), "#app", nil)

	var got *Component
	c.Trigger(Emit{Type: "close", DefaultFunc: func(c *Component, args ...any) error {
		got = c
		return nil
	}})
	if got != c {
		t.Error("DefaultFunc did not run on the instance")
	}
}

func TestTriggerUnknownDefault(t *testing.T) {
	reg := newTestRegistry(t)
	c := mustNew(t, reg.Define(), "#app", nil)

	_, err := c.Trigger(Emit{Type: "close", Default: "missing"})
	if !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("Trigger() error = %v, want ErrUnknownMethod", err)
	}
}

func TestTriggerEventData(t *testing.T) {
	reg := newTestRegistry(t)
	m := NewMixin("withEventData", func(p *Proto) {
		p.DefaultAttrs(map[string]any{
			"eventData": map[string]any{"source": "list", "n": 1},
		})
	})
	c := mustNew(t, reg.Define(m), "#app", nil)

	var got map[string]any
	c.On(Listen{Type: "save", Callback: Func(func(_ *Component, _ *dom.Event, data any) {
		got, _ = data.(map[string]any)
	})})

	tests := []struct {
		name   string
		data   any
		source any
		n      any
	}{
		{"merged", map[string]any{"n": 2}, "list", 2},
		{"nil payload", nil, "list", 1},
		{"scalar payload", "ignored", "list", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			c.Trigger(Emit{Type: "save", Data: tt.data})
			if got["source"] != tt.source || got["n"] != tt.n {
				t.Errorf("data = %v", got)
			}
		})
	}

	defaults := c.Type().Proto().Defaults()["eventData"].(map[string]any)
	if defaults["n"] != 1 {
		t.Errorf("eventData default mutated: %v", defaults)
	}
}

func TestTriggerTarget(t *testing.T) {
	reg := newTestRegistry(t)
	c := mustNew(t, reg.Define(), "#app", nil)

	other := mustSelect(t, reg, "#other")
	var onApp, onOther int
	c.On(Listen{Type: "ping", Callback: counter(&onApp)})
	c.On(Listen{Target: other, Type: "ping", Callback: counter(&onOther)})

	target, err := c.Trigger(Emit{Target: other, Type: "ping"})
	if err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if !target.Same(other) {
		t.Error("Trigger() did not return the target")
	}
	if onApp != 0 || onOther != 1 {
		t.Errorf("onApp = %d, onOther = %d", onApp, onOther)
	}
}

func TestTriggerBubblesToAncestors(t *testing.T) {
	reg := newTestRegistry(t)
	list := mustNew(t, reg.Define(), "#app", nil)
	item := mustNew(t, reg.Define(), "#two", nil)

	calls := 0
	list.On(Listen{Type: "selected", Callback: counter(&calls)})
	item.Trigger(Emit{Type: "selected"})

	if calls != 1 {
		t.Errorf("ancestor listener called %d times, want 1", calls)
	}
}

func TestTriggerDebugSerialization(t *testing.T) {
	reg := newTestRegistry(t, WithDebug(true))
	c := mustNew(t, reg.Define(), "#app", nil)

	calls := 0
	c.On(Listen{Type: "save", Callback: counter(&calls)})

	_, err := c.Trigger(Emit{Type: "save", Data: map[string]any{"fn": func() {}}})
	if !IsSerializationError(err) {
		t.Fatalf("Trigger() error = %v, want serialization error", err)
	}
	var se *SerializationError
	if !errors.As(err, &se) || se.Type != "save" {
		t.Errorf("SerializationError = %+v", se)
	}
	if calls != 0 {
		t.Error("listener ran for unserializable payload")
	}

	if _, err := c.Trigger(Emit{Type: "save", Data: map[string]any{"id": 1}}); err != nil {
		t.Errorf("Trigger() error = %v for plain payload", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestTriggerDebugUsesPoster(t *testing.T) {
	doc, err := dom.ParseString(testPage)
	if err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(doc, WithDebug(true), WithPoster(doc))
	c := mustNew(t, reg.Define(), "#app", nil)

	c.Trigger(Emit{Type: "save", Data: map[string]any{"id": 7}})
	msgs := doc.Messages()
	if len(msgs) != 1 {
		t.Fatalf("posted %d messages, want 1", len(msgs))
	}
}

func TestTriggerWithoutDebugAllowsAnyPayload(t *testing.T) {
	reg := newTestRegistry(t)
	c := mustNew(t, reg.Define(), "#app", nil)

	if _, err := c.Trigger(Emit{Type: "save", Data: func() {}}); err != nil {
		t.Errorf("Trigger() error = %v", err)
	}
}

func TestSelect(t *testing.T) {
	reg := newTestRegistry(t)
	m := NewMixin("withItems", func(p *Proto) {
		p.DefaultAttrs(map[string]any{"itemSelector": ".item", "emptySelector": ""})
	})
	c := mustNew(t, reg.Define(m), "#app", nil)

	tests := []struct {
		key  string
		want int
	}{
		{"itemSelector", 3},
		{"emptySelector", 0},
		{"missingSelector", 0},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			sel, err := c.Select(tt.key)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if sel.Len() != tt.want {
				t.Errorf("Select(%q).Len() = %d, want %d", tt.key, sel.Len(), tt.want)
			}
		})
	}
}
