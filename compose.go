package flight

// compose applies mixins to p in order. Later mixins override methods and
// default attributes installed by earlier ones; a mixin already applied to
// p is skipped.
func compose(p *Proto, mixins []*Mixin) {
	for _, m := range mixins {
		if m == nil || p.MixedIn(m) {
			continue
		}
		// Record before applying so a mixin that pulls in its own
		// dependencies cannot recurse into itself.
		p.mixedIn = append(p.mixedIn, m)
		if m.Apply != nil {
			m.Apply(p)
		}
	}
}
