package flight

import "sort"

// Mixin is a named bundle of behavior applied to a component prototype when
// a type is defined.
//
//	var withSaving = flight.NewMixin("withSaving", func(p *flight.Proto) {
//	    p.DefaultAttrs(map[string]any{"saveSelector": ".save"})
//	    p.Method("save", save)
//	    p.After("initialize", func(c *flight.Component, args ...any) error {
//	        _, err := c.On(flight.Listen{Type: "click", Rules: flight.DelegateRules{
//	            "saveSelector": flight.Func(onSaveClick),
//	        }})
//	        return err
//	    })
//	})
//
// Mixins are compared by pointer: applying the same *Mixin twice to one
// prototype is a no-op.
type Mixin struct {
	Name  string
	Apply func(p *Proto)
}

// NewMixin creates a mixin.
func NewMixin(name string, apply func(p *Proto)) *Mixin {
	return &Mixin{Name: name, Apply: apply}
}

const baseComponentName = "withBaseComponent"

// withBaseComponent is prepended to every type. It installs the lifecycle
// methods every instance can be advised on.
var withBaseComponent = &Mixin{
	Name: baseComponentName,
	Apply: func(p *Proto) {
		p.Method("initialize", func(c *Component, args ...any) error { return nil })
		p.Method("teardown", func(c *Component, args ...any) error {
			return c.teardown()
		})
	},
}

// withAdvice is prepended after withBaseComponent and enables Before, After
// and Around on the prototype.
var withAdvice = &Mixin{
	Name: "withAdvice",
	Apply: func(p *Proto) {
		p.advice = true
	},
}

// Proto is the shared behavior of every instance of a type: its method
// table and its default attributes.
type Proto struct {
	methods  map[string]Method
	defaults map[string]any
	mixedIn  []*Mixin
	advice   bool
}

func newProto() *Proto {
	return &Proto{methods: make(map[string]Method)}
}

// Method installs fn under name, replacing any earlier definition.
func (p *Proto) Method(name string, fn Method) {
	p.methods[name] = fn
}

// Lookup returns the method installed under name.
func (p *Proto) Lookup(name string) (Method, bool) {
	fn, ok := p.methods[name]
	return fn, ok
}

// Methods returns the installed method names, sorted.
func (p *Proto) Methods() []string {
	names := make([]string, 0, len(p.methods))
	for name := range p.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Mixin applies further mixins, typically mixins this one depends on.
func (p *Proto) Mixin(mixins ...*Mixin) {
	compose(p, mixins)
}

// MixedIn reports whether m has been applied.
func (p *Proto) MixedIn(m *Mixin) bool {
	for _, applied := range p.mixedIn {
		if applied == m {
			return true
		}
	}
	return false
}

// DefaultAttrs merges defaults into the type's default attributes. Nested
// maps merge key by key; any other value replaces the existing one. A nil
// value declares the attribute required.
func (p *Proto) DefaultAttrs(defaults map[string]any) {
	if p.defaults == nil {
		p.defaults = make(map[string]any, len(defaults))
	}
	pushMap(p.defaults, defaults)
}

// Defaults returns the live default attribute map. Changes made to it are
// visible to every instance that does not override the key.
func (p *Proto) Defaults() map[string]any {
	if p.defaults == nil {
		p.defaults = make(map[string]any)
	}
	return p.defaults
}
