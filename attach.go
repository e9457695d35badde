package flight

import (
	"fmt"

	"golang.org/x/net/html"
)

// AttachTo constructs one instance of t for every node target resolves to.
//
// target is a selector string, a *html.Node, a []*html.Node or a
// *dom.Selection. The option maps are merged left to right, later maps
// winning, and every instance receives the merged result.
//
//	err := List.AttachTo("#inbox .list", map[string]any{"pageSize": 20}, overrides)
//
// Construction stops at the first failure; instances built before it stay
// attached.
func (t *Type) AttachTo(target any, options ...map[string]any) error {
	if isNil(target) {
		return ErrMissingTarget
	}
	if s, ok := target.(string); ok && s == "" {
		return ErrMissingTarget
	}

	merged := MergeOptions(options...)

	sel, err := t.reg.doc.Resolve(target)
	if err != nil {
		return fmt.Errorf("flight: attach %s: %w", t, err)
	}

	var attachErr error
	sel.Each(func(_ int, n *html.Node) {
		if attachErr != nil {
			return
		}
		if _, err := t.New(n, merged); err != nil {
			attachErr = err
		}
	})
	return attachErr
}
