package flight

import "errors"

// Teardown runs the instance's teardown method: every event the instance
// bound is unbound and the instance is removed from the registry. Mixins
// can advise "teardown" to release their own resources.
func (c *Component) Teardown() error {
	return c.Call("teardown")
}

// teardown is the base teardown behavior.
func (c *Component) teardown() error {
	reg := c.typ.reg
	info := reg.FindInstanceInfo(c)
	if info == nil {
		return nil
	}

	// By identity: sibling instances can share a callback's GUID.
	for _, b := range info.Events() {
		c.targetOf(b.Element).OffListener(b.Type, b.Listener)
	}
	info.removeBind(func(*Binding) bool { return true })

	reg.Teardown(c)
	return nil
}

// TeardownAll tears down every live instance of t.
func (t *Type) TeardownAll() error {
	ci := t.reg.FindComponentInfo(t)
	if ci == nil {
		return nil
	}
	var errs []error
	for _, info := range ci.Instances() {
		if err := info.Instance.Teardown(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TeardownAll tears down every instance of every type, then resets the
// registry.
func (reg *Registry) TeardownAll() error {
	var errs []error
	for _, ci := range reg.Components() {
		if err := ci.Component.TeardownAll(); err != nil {
			errs = append(errs, err)
		}
	}
	reg.Reset()
	return errors.Join(errs...)
}
