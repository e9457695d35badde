package flight

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/pthm/flight/lib/dom"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Component is a live instance of a Type bound to one node.
type Component struct {
	typ  *Type
	node *html.Node
	sel  *dom.Selection
	attr *Attrs
}

// New constructs an instance of t on node with options.
//
// node may be a *html.Node, a *dom.Selection (its first node is used) or a
// selector string (its first match is used). Options take precedence over
// the type's default attributes; a default of nil marks the attribute
// required.
//
// The instance is registered before its initialize method runs. If
// initialize fails the instance is unbound and deregistered again and the
// error is returned.
func (t *Type) New(node any, options map[string]any) (*Component, error) {
	sel, err := t.resolveNode(node)
	if err != nil {
		return nil, err
	}

	c := &Component{
		typ:  t,
		node: sel.Get(0),
		sel:  sel.First(),
		attr: newAttrs(options, t.proto),
	}

	if err := c.checkRequired(); err != nil {
		return nil, err
	}

	t.reg.AddInstance(c)

	if err := c.Call("initialize", options); err != nil {
		t.reg.logger.Debug("initialize failed, rolling back",
			zap.String("component", t.String()),
			zap.Error(err))
		if terr := c.teardown(); terr != nil {
			return nil, fmt.Errorf("flight: initialize %s: %w (rollback: %v)", t, err, terr)
		}
		return nil, fmt.Errorf("flight: initialize %s: %w", t, err)
	}
	return c, nil
}

func (t *Type) resolveNode(node any) (*dom.Selection, error) {
	if isNil(node) {
		return nil, ErrMissingNode
	}
	if s, ok := node.(string); ok && s == "" {
		return nil, ErrMissingNode
	}
	sel, err := t.reg.doc.Resolve(node)
	if err != nil {
		return nil, fmt.Errorf("flight: resolve node: %w", err)
	}
	if sel.Len() == 0 {
		return nil, ErrMissingNode
	}
	return sel, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// checkRequired fails for the first (alphabetically) attribute whose
// declared default is nil and which still resolves to nil.
func (c *Component) checkRequired() error {
	defaults := c.typ.proto.defaults
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if defaults[k] != nil {
			continue
		}
		if v, _ := c.attr.Get(k); v == nil {
			return &ConfigError{Component: c.String(), Attr: k, Err: ErrRequiredAttr}
		}
	}
	return nil
}

// Node returns the node the instance is attached to.
func (c *Component) Node() *html.Node {
	return c.node
}

// Selection returns the instance's node as a queryable selection.
func (c *Component) Selection() *dom.Selection {
	return c.sel
}

// Attr returns the instance's attributes.
func (c *Component) Attr() *Attrs {
	return c.attr
}

// Type returns the component type.
func (c *Component) Type() *Type {
	return c.typ
}

// Registry returns the registry tracking the instance.
func (c *Component) Registry() *Registry {
	return c.typ.reg
}

// String returns the type's display name.
func (c *Component) String() string {
	return c.typ.String()
}

// Call runs the prototype method name on c.
func (c *Component) Call(name string, args ...any) error {
	fn, ok := c.typ.proto.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q on component %q", ErrUnknownMethod, name, c.String())
	}
	return fn(c, args...)
}
