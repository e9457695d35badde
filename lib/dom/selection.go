package dom

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Selection is an ordered set of nodes from one document.
type Selection struct {
	doc   *Document
	nodes []*html.Node
}

// Document returns the owning document.
func (s *Selection) Document() *Document {
	return s.doc
}

// Len returns the number of nodes.
func (s *Selection) Len() int {
	return len(s.nodes)
}

// Nodes returns the selected nodes.
func (s *Selection) Nodes() []*html.Node {
	return s.nodes
}

// Get returns the i-th node, or nil when out of range.
func (s *Selection) Get(i int) *html.Node {
	if i < 0 || i >= len(s.nodes) {
		return nil
	}
	return s.nodes[i]
}

// First returns a selection over the first node only.
func (s *Selection) First() *Selection {
	return s.doc.Wrap(s.Get(0))
}

// Each calls fn for every node in order.
func (s *Selection) Each(fn func(i int, n *html.Node)) {
	for i, n := range s.nodes {
		fn(i, n)
	}
}

// Same reports whether both selections hold the same nodes in the same
// order. A nil selection equals only another nil selection.
func (s *Selection) Same(o *Selection) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.doc != o.doc || len(s.nodes) != len(o.nodes) {
		return false
	}
	for i := range s.nodes {
		if s.nodes[i] != o.nodes[i] {
			return false
		}
	}
	return true
}

// Find returns the descendants of the selection matching selector.
func (s *Selection) Find(selector string) (*Selection, error) {
	m, err := s.doc.compile(selector)
	if err != nil {
		return nil, err
	}
	seen := make(map[*html.Node]bool)
	out := s.doc.Wrap()
	for _, n := range s.nodes {
		for _, c := range m.matchAll(n) {
			if !seen[c] {
				seen[c] = true
				out.nodes = append(out.nodes, c)
			}
		}
	}
	return out, nil
}

// On registers l for typ on every node. All nodes share the listener and
// therefore its GUID.
func (s *Selection) On(typ string, l *Listener) *Selection {
	for _, n := range s.nodes {
		s.doc.addListener(n, typ, l)
	}
	return s
}

// Off removes listeners of typ carrying guid from every node, or every
// listener of typ when guid is zero. It returns the number removed.
func (s *Selection) Off(typ string, guid uint64) int {
	removed := 0
	for _, n := range s.nodes {
		removed += s.doc.removeListeners(n, typ, func(l *Listener) bool {
			return guid == 0 || l.GUID == guid
		})
	}
	return removed
}

// OffListener removes l itself from every node for typ, leaving other
// listeners that share its GUID in place. It returns the number removed.
func (s *Selection) OffListener(typ string, l *Listener) int {
	removed := 0
	for _, n := range s.nodes {
		removed += s.doc.removeListeners(n, typ, func(x *Listener) bool {
			return x == l
		})
	}
	return removed
}

// Trigger dispatches ev on every node with data as payload. The same event
// value is reused so a listener's PreventDefault on any node is visible to
// the caller afterwards.
func (s *Selection) Trigger(ev *Event, data any) *Selection {
	for _, n := range s.nodes {
		s.doc.dispatch(n, ev, data)
	}
	return s
}

// Attr returns the attribute value of the first node.
func (s *Selection) Attr(name string) (string, bool) {
	n := s.Get(0)
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// Text returns the combined text content of the selection.
func (s *Selection) Text() string {
	var sb strings.Builder
	for _, n := range s.nodes {
		sb.WriteString(htmlquery.InnerText(n))
	}
	return sb.String()
}

// OuterHTML renders the selection's nodes.
func (s *Selection) OuterHTML() string {
	var sb strings.Builder
	for _, n := range s.nodes {
		sb.WriteString(htmlquery.OutputHTML(n, true))
	}
	return sb.String()
}
