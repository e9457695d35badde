package flight

import (
	"sort"

	"github.com/pthm/flight/lib/dom"
)

// DelegateRules maps attribute keys to callbacks. Each key names an
// attribute holding a selector; the callback runs for events originating
// inside an element matching it.
//
//	p.DefaultAttrs(map[string]any{"itemSelector": "li.item"})
//	...
//	c.On(flight.Listen{Type: "click", Rules: flight.DelegateRules{
//	    "itemSelector": flight.Func(onItemClick),
//	}})
//
// A matching rule stores the matched element under "el" in the payload. A
// map payload is written in place unless the instance's eventData
// attribute already forced a merged copy, so do not reuse one payload map
// across triggers that may reach delegating listeners.
type DelegateRules map[string]*Callback

// ResolveDelegateRules replaces each rule's attribute key with the selector
// the attribute holds. A key the instance has no attribute for is a
// configuration error.
func (c *Component) ResolveDelegateRules(rules DelegateRules) (map[string]*Callback, error) {
	resolved := make(map[string]*Callback, len(rules))
	for key, cb := range rules {
		v, ok := c.attr.Get(key)
		selector, isString := v.(string)
		if !ok || !isString || selector == "" {
			return nil, &ConfigError{Component: c.String(), Attr: key, Err: ErrUnknownDelegateAttr}
		}
		resolved[selector] = cb
	}
	return resolved, nil
}

// delegate builds one callback dispatching to rules by matching the event
// target, or its nearest ancestor, against each selector. Selectors are
// tried in sorted order; a handler that stops propagation ends the search.
// The matched element is passed to the handler under data["el"] when the
// payload is a map or nil; a map payload is modified in place.
func delegate(rules map[string]*Callback) *Callback {
	selectors := make([]string, 0, len(rules))
	for s := range rules {
		selectors = append(selectors, s)
	}
	sort.Strings(selectors)

	return Func(func(c *Component, ev *dom.Event, data any) {
		doc := c.typ.reg.doc
		for _, selector := range selectors {
			if ev.IsPropagationStopped() {
				return
			}
			cb := rules[selector]
			if !cb.valid() {
				continue
			}
			matched, err := doc.Closest(ev.Target, selector)
			if err != nil || matched == nil {
				continue
			}

			if data == nil {
				data = make(map[string]any)
			}
			if m, ok := data.(map[string]any); ok {
				m["el"] = matched
			}
			cb.fn(c, ev, data)
		}
	})
}
