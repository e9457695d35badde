package flight

import (
	"fmt"

	"github.com/pthm/flight/lib/dom"
	"go.uber.org/zap"
)

// Emit describes a Trigger call. Target defaults to the instance's node.
//
// Default names a method to run after dispatch unless a listener prevented
// the event's default; DefaultFunc is used when Default is empty.
type Emit struct {
	Target      *dom.Selection
	Type        string
	Default     string
	DefaultFunc Method
	Data        any
}

func (e Emit) hasDefault() bool {
	return e.Default != "" || e.DefaultFunc != nil
}

// Listen describes an On call. Target defaults to the instance's node.
// Rules, when set, take precedence over Callback.
type Listen struct {
	Target   *dom.Selection
	Type     string
	Callback *Callback
	Rules    DelegateRules
}

// Unlisten describes an Off call. A nil Callback removes every listener of
// Type on the target, including listeners other instances bound there.
// Only the calling instance's binding records are dropped, so those other
// instances keep records for listeners that no longer exist until they
// are torn down. Pass a Callback to remove only listeners created from it.
type Unlisten struct {
	Target   *dom.Selection
	Type     string
	Callback *Callback
}

// targetOf resolves an optional explicit target to the instance's node.
func (c *Component) targetOf(sel *dom.Selection) *dom.Selection {
	if sel == nil {
		return c.sel
	}
	return sel
}

// Trigger dispatches an event on the target with e.Data as payload and
// returns the target.
//
// In debug mode the payload is first probed for serializability. A map
// held in the eventData attribute is merged underneath the payload. When a
// default behavior is set it runs after dispatch unless a listener called
// PreventDefault. Registry observers are notified last, even when the
// default behavior fails.
func (c *Component) Trigger(e Emit) (*dom.Selection, error) {
	target := c.targetOf(e.Target)
	data := e.Data

	if c.typ.reg.config.Debug {
		if err := c.checkSerializable(e.Type, data); err != nil {
			return target, err
		}
	}

	if defaults, ok := c.attrMap("eventData"); ok {
		data = mergeEventData(defaults, data)
	}

	ev := dom.NewEvent(e.Type)
	target.Trigger(ev, data)

	var err error
	if e.hasDefault() && !ev.IsDefaultPrevented() {
		err = c.runDefault(e)
	}

	c.typ.reg.Trigger(c, e)
	return target, err
}

func (c *Component) runDefault(e Emit) error {
	if e.Default != "" {
		if fn, ok := c.typ.proto.Lookup(e.Default); ok {
			return fn(c)
		}
		if e.DefaultFunc == nil {
			return fmt.Errorf("%w: default behavior %q for %q on component %q",
				ErrUnknownMethod, e.Default, e.Type, c.String())
		}
	}
	return e.DefaultFunc(c)
}

func (c *Component) attrMap(key string) (map[string]any, bool) {
	v, _ := c.attr.Get(key)
	m, ok := v.(map[string]any)
	return m, ok
}

func (c *Component) checkSerializable(typ string, data any) error {
	if err := c.typ.reg.poster.PostMessage(data); err != nil {
		c.typ.reg.logger.Warn("unserializable data for event",
			zap.String("type", typ),
			zap.Any("data", data),
			zap.Error(err))
		return &SerializationError{Component: c.String(), Type: typ, Err: err}
	}
	return nil
}

// On binds a listener for l.Type on the target and returns the wrapper
// registered with the document.
//
// A rule set is resolved against the instance's attributes and turned into
// one delegating callback. The wrapper shares the callback's GUID, so the
// binding can be removed later through the callback alone.
func (c *Component) On(l Listen) (*dom.Listener, error) {
	info := c.typ.reg.FindInstanceInfo(c)
	if info == nil {
		return nil, fmt.Errorf("%w: cannot bind %q on component %q", ErrNotRegistered, l.Type, c.String())
	}

	cb := l.Callback
	if l.Rules != nil {
		rules, err := c.ResolveDelegateRules(l.Rules)
		if err != nil {
			return nil, err
		}
		cb = delegate(rules)
	}
	if !cb.valid() {
		return nil, fmt.Errorf("%w: unable to bind to %q", ErrInvalidCallback, l.Type)
	}

	bound := &dom.Listener{
		GUID: cb.guid,
		Handle: func(ev *dom.Event, data any) {
			cb.fn(c, ev, data)
		},
	}

	target := c.targetOf(l.Target)
	target.On(l.Type, bound)
	cb.guid = bound.GUID

	info.addBind(&Binding{
		Element:  l.Target,
		Type:     l.Type,
		Listener: bound,
		Callback: cb,
	})
	return bound, nil
}

// Off removes listeners for u.Type from the target: those created from
// u.Callback, or all of them when u.Callback is nil. The matching bindings
// are dropped from the registry. It returns how many listeners the
// document removed.
func (c *Component) Off(u Unlisten) int {
	target := c.targetOf(u.Target)

	removed := 0
	switch {
	case u.Callback == nil:
		removed = target.Off(u.Type, 0)
	case u.Callback.guid != 0:
		removed = target.Off(u.Type, u.Callback.guid)
	}

	c.typ.reg.Off(c, u)
	return removed
}

// Select finds the elements inside the instance's node matching the
// selector held in the attribute key.
func (c *Component) Select(key string) (*dom.Selection, error) {
	selector := c.attr.String(key)
	if selector == "" {
		return c.typ.reg.doc.Wrap(), nil
	}
	return c.sel.Find(selector)
}
