package flight

import "strings"

// Type is a component type: an ordered list of mixins applied to a shared
// prototype. Types are built once with Registry.Define and then attached to
// nodes any number of times.
//
//	reg := flight.NewRegistry(doc)
//	Tweetbox := reg.Define(withTweetbox, withCharCount)
//	if err := Tweetbox.AttachTo("#tweetbox", map[string]any{"maxLength": 280}); err != nil {
//	    return err
//	}
//
// Every type starts with two implicit mixins: withBaseComponent (the
// initialize and teardown methods) and withAdvice (Before, After, Around).
type Type struct {
	reg    *Registry
	mixins []*Mixin
	proto  *Proto
}

// Define builds a new component type from mixins. Each call yields an
// independent type, even for identical mixin lists.
func (reg *Registry) Define(mixins ...*Mixin) *Type {
	all := make([]*Mixin, 0, len(mixins)+2)
	all = append(all, withBaseComponent, withAdvice)
	all = append(all, mixins...)

	t := &Type{
		reg:    reg,
		mixins: all,
		proto:  newProto(),
	}
	compose(t.proto, t.mixins)
	return t
}

// String returns the display name: the names of the type's mixins joined
// with ", ", skipping withBaseComponent and unnamed mixins. It is derived
// on every call.
func (t *Type) String() string {
	names := make([]string, 0, len(t.mixins))
	for _, m := range t.mixins {
		if m == nil || m.Name == "" || m.Name == baseComponentName {
			continue
		}
		names = append(names, m.Name)
	}
	return strings.Join(names, ", ")
}

// Mixins returns the type's mixins, implicit ones included.
func (t *Type) Mixins() []*Mixin {
	out := make([]*Mixin, len(t.mixins))
	copy(out, t.mixins)
	return out
}

// Proto returns the type's shared prototype.
func (t *Type) Proto() *Proto {
	return t.proto
}

// Registry returns the registry the type was defined on.
func (t *Type) Registry() *Registry {
	return t.reg
}
