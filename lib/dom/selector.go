package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// matcher is a compiled selector.
type matcher interface {
	// matchAll returns the nodes below (and excluding) scope that match.
	matchAll(scope *html.Node) []*html.Node
	// match reports whether n matches.
	match(n *html.Node) bool
}

type cssMatcher struct {
	sel cascadia.Selector
}

func (m cssMatcher) matchAll(scope *html.Node) []*html.Node {
	var out []*html.Node
	for _, n := range m.sel.MatchAll(scope) {
		if n != scope {
			out = append(out, n)
		}
	}
	return out
}

func (m cssMatcher) match(n *html.Node) bool {
	return m.sel.Match(n)
}

type xpathMatcher struct {
	expr string
}

func (m xpathMatcher) matchAll(scope *html.Node) []*html.Node {
	nodes, err := htmlquery.QueryAll(scope, m.expr)
	if err != nil {
		return nil
	}
	out := nodes[:0]
	for _, n := range nodes {
		if n != scope {
			out = append(out, n)
		}
	}
	return out
}

func (m xpathMatcher) match(n *html.Node) bool {
	root := n
	for root.Parent != nil {
		root = root.Parent
	}
	nodes, err := htmlquery.QueryAll(root, m.expr)
	if err != nil {
		return false
	}
	for _, c := range nodes {
		if c == n {
			return true
		}
	}
	return false
}

func isXPath(selector string) bool {
	return strings.HasPrefix(selector, "/") ||
		strings.HasPrefix(selector, "./") ||
		strings.HasPrefix(selector, "(")
}

// compile parses selector as CSS or XPath.
func compile(selector string) (matcher, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, fmt.Errorf("%w: empty selector", ErrInvalidSelector)
	}
	if isXPath(selector) {
		if _, err := htmlquery.QueryAll(&html.Node{Type: html.DocumentNode}, selector); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, selector, err)
		}
		return xpathMatcher{expr: selector}, nil
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, selector, err)
	}
	return cssMatcher{sel: sel}, nil
}
