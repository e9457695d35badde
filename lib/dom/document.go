package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pthm/flight/lib/encoding"
	"golang.org/x/net/html"
)

var (
	ErrInvalidSelector   = errors.New("dom: invalid selector")
	ErrUnsupportedTarget = errors.New("dom: unsupported target")
	ErrForeignNode       = errors.New("dom: node belongs to another document")
)

// Document is a parsed node tree plus its event listener tables.
type Document struct {
	root *html.Node

	mu        sync.RWMutex
	listeners map[*html.Node]map[string][]*Listener
	nextGUID  uint64
	matchers  map[string]matcher

	codec  *encoding.Codec
	outbox []any
}

// NewDocument wraps an existing tree. root is usually an html.DocumentNode
// but any node works; it becomes the top of every query.
func NewDocument(root *html.Node) *Document {
	return &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]*Listener),
		matchers:  make(map[string]matcher),
		codec:     encoding.NewCodec(),
	}
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return NewDocument(root), nil
}

// ParseString parses markup held in a string.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// Root returns the top node of the document.
func (d *Document) Root() *html.Node {
	return d.root
}

// Wrap returns a selection over nodes, dropping nils.
func (d *Document) Wrap(nodes ...*html.Node) *Selection {
	s := &Selection{doc: d}
	for _, n := range nodes {
		if n != nil {
			s.nodes = append(s.nodes, n)
		}
	}
	return s
}

// Select finds every node in the document matching selector.
func (d *Document) Select(selector string) (*Selection, error) {
	m, err := d.compile(selector)
	if err != nil {
		return nil, err
	}
	return d.Wrap(m.matchAll(d.root)...), nil
}

// Resolve turns a selector string, a node, a node slice or a selection into
// a selection on this document.
func (d *Document) Resolve(target any) (*Selection, error) {
	switch t := target.(type) {
	case nil:
		return d.Wrap(), nil
	case string:
		return d.Select(t)
	case *html.Node:
		if !d.Contains(t) {
			return nil, ErrForeignNode
		}
		return d.Wrap(t), nil
	case []*html.Node:
		for _, n := range t {
			if n != nil && !d.Contains(n) {
				return nil, ErrForeignNode
			}
		}
		return d.Wrap(t...), nil
	case *Selection:
		if t == nil {
			return d.Wrap(), nil
		}
		if t.doc != d {
			return nil, ErrForeignNode
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
	}
}

// Contains reports whether n is attached under the document root.
func (d *Document) Contains(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == d.root {
			return true
		}
	}
	return false
}

// Matches reports whether n matches selector.
func (d *Document) Matches(n *html.Node, selector string) (bool, error) {
	m, err := d.compile(selector)
	if err != nil {
		return false, err
	}
	return n != nil && n.Type == html.ElementNode && m.match(n), nil
}

// Closest returns n or its nearest ancestor matching selector, or nil.
func (d *Document) Closest(n *html.Node, selector string) (*html.Node, error) {
	m, err := d.compile(selector)
	if err != nil {
		return nil, err
	}
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && m.match(n) {
			return n, nil
		}
	}
	return nil, nil
}

func (d *Document) compile(selector string) (matcher, error) {
	d.mu.RLock()
	m, ok := d.matchers[selector]
	d.mu.RUnlock()
	if ok {
		return m, nil
	}

	m, err := compile(selector)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.matchers[selector] = m
	d.mu.Unlock()
	return m, nil
}

// addListener registers l on n for typ, assigning a GUID if l has none.
func (d *Document) addListener(n *html.Node, typ string, l *Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if l.GUID == 0 {
		d.nextGUID++
		l.GUID = d.nextGUID
	}
	byType := d.listeners[n]
	if byType == nil {
		byType = make(map[string][]*Listener)
		d.listeners[n] = byType
	}
	byType[typ] = append(byType[typ], l)
}

// removeListeners drops listeners of typ on n for which drop reports true.
// It returns how many were removed.
func (d *Document) removeListeners(n *html.Node, typ string, drop func(*Listener) bool) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	byType := d.listeners[n]
	if byType == nil {
		return 0
	}
	current := byType[typ]
	kept := make([]*Listener, 0, len(current))
	for _, l := range current {
		if !drop(l) {
			kept = append(kept, l)
		}
	}
	removed := len(current) - len(kept)

	if len(kept) == 0 {
		delete(byType, typ)
	} else {
		byType[typ] = kept
	}
	if len(byType) == 0 {
		delete(d.listeners, n)
	}
	return removed
}

func (d *Document) snapshot(n *html.Node, typ string) []*Listener {
	d.mu.RLock()
	defer d.mu.RUnlock()

	current := d.listeners[n][typ]
	if len(current) == 0 {
		return nil
	}
	out := make([]*Listener, len(current))
	copy(out, current)
	return out
}

// ListenerCount returns the number of listeners of typ on n. An empty typ
// counts every type.
func (d *Document) ListenerCount(n *html.Node, typ string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if typ != "" {
		return len(d.listeners[n][typ])
	}
	total := 0
	for _, ls := range d.listeners[n] {
		total += len(ls)
	}
	return total
}

// TotalListeners returns the number of listeners registered anywhere in
// the document.
func (d *Document) TotalListeners() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	total := 0
	for _, byType := range d.listeners {
		for _, ls := range byType {
			total += len(ls)
		}
	}
	return total
}

// dispatch delivers ev to target and then to each ancestor until
// propagation is stopped. Listener tables are snapshotted per node so
// handlers may bind and unbind freely.
func (d *Document) dispatch(target *html.Node, ev *Event, data any) {
	ev.Target = target
	for n := target; n != nil; n = n.Parent {
		ev.CurrentTarget = n
		for _, l := range d.snapshot(n, ev.Type) {
			l.Handle(ev, data)
			if ev.immediatelyStopped {
				break
			}
		}
		if ev.propagationStopped {
			break
		}
	}
	ev.CurrentTarget = nil
}

// PostMessage hands data to another context. The payload is structurally
// cloned on the way out; values that cannot be cloned are rejected with
// encoding.ErrUnserializable.
func (d *Document) PostMessage(data any) error {
	cloned, err := d.codec.Clone(data)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.outbox = append(d.outbox, cloned)
	d.mu.Unlock()
	return nil
}

// Messages drains and returns the cloned payloads posted so far.
func (d *Document) Messages() []any {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := d.outbox
	d.outbox = nil
	return out
}
