package flight

import "fmt"

// AroundFunc wraps a method. orig is the method being wrapped (a no-op if
// none was installed) and must be called explicitly to run it.
type AroundFunc func(orig Method, c *Component, args ...any) error

func noopMethod(c *Component, args ...any) error { return nil }

func (p *Proto) requireAdvice(kind, name string) {
	if !p.advice {
		panic(fmt.Sprintf("flight: %s(%q) on a prototype without withAdvice", kind, name))
	}
}

// Around replaces the method name with fn wrapped around the current one.
func (p *Proto) Around(name string, fn AroundFunc) {
	p.requireAdvice("Around", name)

	orig, ok := p.methods[name]
	if !ok {
		orig = noopMethod
	}
	p.methods[name] = func(c *Component, args ...any) error {
		return fn(orig, c, args...)
	}
}

// Before runs fn ahead of the method name. An error from fn skips the
// method.
func (p *Proto) Before(name string, fn Method) {
	p.requireAdvice("Before", name)

	p.Around(name, func(orig Method, c *Component, args ...any) error {
		if err := fn(c, args...); err != nil {
			return err
		}
		return orig(c, args...)
	})
}

// After runs fn once the method name has succeeded.
func (p *Proto) After(name string, fn Method) {
	p.requireAdvice("After", name)

	p.Around(name, func(orig Method, c *Component, args ...any) error {
		if err := orig(c, args...); err != nil {
			return err
		}
		return fn(c, args...)
	})
}
