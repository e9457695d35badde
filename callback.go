package flight

// Callback is a caller-supplied event handler with a stable identity.
//
// Go functions cannot be compared, so a Callback is what a caller keeps to
// unbind later:
//
//	onClick := flight.Func(handleClick)
//	c.On(flight.Listen{Type: "click", Callback: onClick})
//	...
//	c.Off(flight.Unlisten{Type: "click", Callback: onClick})
//
// The first successful bind tags the callback with the listener GUID the
// document assigned; every later bind of the same callback reuses it, so
// one Off removes every wrapper created from it.
type Callback struct {
	fn   Handler
	guid uint64
}

// Func wraps fn as a Callback.
func Func(fn Handler) *Callback {
	return &Callback{fn: fn}
}

// GUID returns the correlation tag, zero until first bound.
func (cb *Callback) GUID() uint64 {
	return cb.guid
}

func (cb *Callback) valid() bool {
	return cb != nil && cb.fn != nil
}
