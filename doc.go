// Package flight provides a component system for attaching behavior to DOM
// nodes: component types are composed from mixins, attached to nodes, wired
// to events and torn down again without leaking listeners.
//
// flight does not render. Markup comes from elsewhere (a parsed page, a
// templ component via dom.Render); flight attaches instances to its nodes
// and keeps track of everything they bind.
//
// # Core Concepts
//
// A Mixin is a named bundle of behavior. When a type is defined its mixins
// are applied, in order, to a shared Proto: they install methods, declare
// default attributes and advise existing methods.
//
//	var withCounter = flight.NewMixin("withCounter", func(p *flight.Proto) {
//	    p.DefaultAttrs(map[string]any{
//	        "buttonSelector": "button.inc",
//	        "label":          nil, // required
//	    })
//	    p.Method("increment", increment)
//	    p.After("initialize", func(c *flight.Component, args ...any) error {
//	        _, err := c.On(flight.Listen{Type: "click", Rules: flight.DelegateRules{
//	            "buttonSelector": flight.Func(onIncrementClick),
//	        }})
//	        return err
//	    })
//	})
//
// A Type is built from mixins with Registry.Define. Every type starts with
// two implicit mixins, withBaseComponent (the initialize and teardown
// methods) and withAdvice (Before, After and Around), followed by the
// caller's mixins; later mixins override earlier ones.
//
//	reg := flight.NewRegistry(doc, flight.WithLogger(logger))
//	Counter := reg.Define(withCounter)
//	err := Counter.AttachTo(".counter", map[string]any{"label": "clicks"})
//
// A Component is one instance of a type on one node. Its attributes are
// the options it was attached with, falling back to the type's defaults.
//
// # Events
//
// Components bind, unbind and trigger events with parameter objects:
//
//	onSave := flight.Func(handleSave)
//	c.On(flight.Listen{Type: "save", Callback: onSave})
//	c.Trigger(flight.Emit{Type: "save", Data: map[string]any{"id": 1}})
//	c.Off(flight.Unlisten{Type: "save", Callback: onSave})
//
// Target selects another element than the component's own node. An event
// may carry a default behavior, a method run after dispatch unless a
// listener calls PreventDefault:
//
//	c.Trigger(flight.Emit{Type: "close", Default: "hide"})
//
// Rules bind one delegating listener that dispatches on the selectors held
// in the named attributes.
//
// # Teardown
//
// Every binding made through On is recorded with the registry. Teardown
// unbinds them all and deregisters the instance; Type.TeardownAll does so
// for every instance of a type; Registry.TeardownAll for every instance of
// every type, after which the registry is empty.
//
// # Debug Mode
//
// With Config.Debug set, every event payload is cloned with msgpack before
// dispatch. Payloads that could not cross a context boundary (functions,
// channels, cyclic values) fail with a SerializationError.
//
// # Concurrency
//
// Components are meant to be driven from one goroutine, the way a page's
// event loop drives its scripts. Handlers may re-enter the engine: bind,
// unbind, trigger and tear down from inside a dispatch are all supported.
package flight
