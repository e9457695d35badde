package flight

import (
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/google/uuid"
	"github.com/pthm/flight/lib/dom"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Binding records one listener an instance attached through On.
type Binding struct {
	// Element is the explicitly targeted selection, nil when the listener
	// was bound on the instance's own node.
	Element *dom.Selection
	Type    string
	// Listener is the instance-bound wrapper registered with the document.
	Listener *dom.Listener
	// Callback is what the caller passed (or the delegating callback built
	// from its rules). It shares Listener's GUID.
	Callback *Callback
}

// InstanceInfo is the registry's record of a live instance.
type InstanceInfo struct {
	ID       string
	Instance *Component

	mu     sync.Mutex
	events []*Binding
}

// Events returns a snapshot of the instance's bindings in bind order.
func (i *InstanceInfo) Events() []*Binding {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]*Binding, len(i.events))
	copy(out, i.events)
	return out
}

func (i *InstanceInfo) addBind(b *Binding) {
	i.mu.Lock()
	i.events = append(i.events, b)
	i.mu.Unlock()
}

func (i *InstanceInfo) removeBind(match func(*Binding) bool) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	kept := i.events[:0]
	for _, b := range i.events {
		if !match(b) {
			kept = append(kept, b)
		}
	}
	removed := len(i.events) - len(kept)
	for j := len(kept); j < len(i.events); j++ {
		i.events[j] = nil
	}
	i.events = kept
	return removed
}

// ComponentInfo is the registry's record of a type with live instances.
type ComponentInfo struct {
	Component *Type

	instances *linkedhashmap.Map // *Component -> *InstanceInfo
}

// Instances returns a snapshot of the type's live instances in
// construction order.
func (ci *ComponentInfo) Instances() []*InstanceInfo {
	vals := ci.instances.Values()
	out := make([]*InstanceInfo, 0, len(vals))
	for _, v := range vals {
		out = append(out, v.(*InstanceInfo))
	}
	return out
}

// IsAttachedTo reports whether an instance of the type lives on n.
func (ci *ComponentInfo) IsAttachedTo(n *html.Node) bool {
	for _, info := range ci.Instances() {
		if info.Instance.node == n {
			return true
		}
	}
	return false
}

// TriggerObserver is notified of every Trigger call made by any instance,
// after dispatch.
type TriggerObserver func(c *Component, e Emit)

// Registry tracks live instances, the types they belong to and the events
// each has bound. It owns the document components attach to.
//
// A registry is explicit state: create one per document (or per test) and
// tear it down with TeardownAll.
type Registry struct {
	doc    *dom.Document
	logger *zap.Logger
	config Config
	poster Poster

	mu         sync.RWMutex
	instances  *linkedhashmap.Map // *Component -> *InstanceInfo
	components *linkedhashmap.Map // *Type -> *ComponentInfo
	observers  *treemap.Map       // int -> TriggerObserver
	nextObs    int
}

// NewRegistry creates a registry for doc.
func NewRegistry(doc *dom.Document, opts ...Option) *Registry {
	reg := &Registry{
		doc:        doc,
		logger:     zap.NewNop(),
		poster:     clonePoster{codec: NewCodec()},
		instances:  linkedhashmap.New(),
		components: linkedhashmap.New(),
		observers:  treemap.NewWithIntComparator(),
	}
	for _, opt := range opts {
		opt(reg)
	}
	reg.logger = reg.logger.Named("flight")
	return reg
}

// Document returns the document instances attach to.
func (reg *Registry) Document() *dom.Document {
	return reg.doc
}

// Logger returns the registry's logger.
func (reg *Registry) Logger() *zap.Logger {
	return reg.logger
}

// Config returns the active configuration.
func (reg *Registry) Config() Config {
	return reg.config
}

// AddInstance starts tracking c under its type.
func (reg *Registry) AddInstance(c *Component) *InstanceInfo {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if v, ok := reg.instances.Get(c); ok {
		return v.(*InstanceInfo)
	}

	info := &InstanceInfo{ID: uuid.NewString(), Instance: c}
	reg.instances.Put(c, info)

	var ci *ComponentInfo
	if v, ok := reg.components.Get(c.typ); ok {
		ci = v.(*ComponentInfo)
	} else {
		ci = &ComponentInfo{Component: c.typ, instances: linkedhashmap.New()}
		reg.components.Put(c.typ, ci)
	}
	ci.instances.Put(c, info)

	reg.logger.Debug("instance added",
		zap.String("component", c.typ.String()),
		zap.String("id", info.ID))
	return info
}

// FindInstanceInfo returns c's record, or nil once c is torn down.
func (reg *Registry) FindInstanceInfo(c *Component) *InstanceInfo {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	if v, ok := reg.instances.Get(c); ok {
		return v.(*InstanceInfo)
	}
	return nil
}

// FindInstanceInfoByNode returns every live instance attached to n.
func (reg *Registry) FindInstanceInfoByNode(n *html.Node) []*InstanceInfo {
	var out []*InstanceInfo
	for _, info := range reg.Instances() {
		if info.Instance.node == n {
			out = append(out, info)
		}
	}
	return out
}

// FindComponentInfo returns t's record, or nil when t has no live
// instances.
func (reg *Registry) FindComponentInfo(t *Type) *ComponentInfo {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	if v, ok := reg.components.Get(t); ok {
		return v.(*ComponentInfo)
	}
	return nil
}

// Components returns a snapshot of the types with live instances, in the
// order their first instance was registered.
func (reg *Registry) Components() []*ComponentInfo {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	vals := reg.components.Values()
	out := make([]*ComponentInfo, 0, len(vals))
	for _, v := range vals {
		out = append(out, v.(*ComponentInfo))
	}
	return out
}

// Instances returns a snapshot of every live instance.
func (reg *Registry) Instances() []*InstanceInfo {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	vals := reg.instances.Values()
	out := make([]*InstanceInfo, 0, len(vals))
	for _, v := range vals {
		out = append(out, v.(*InstanceInfo))
	}
	return out
}

// Observe registers fn for trigger notifications. The returned function
// removes it.
func (reg *Registry) Observe(fn TriggerObserver) func() {
	reg.mu.Lock()
	id := reg.nextObs
	reg.nextObs++
	reg.observers.Put(id, fn)
	reg.mu.Unlock()

	return func() {
		reg.mu.Lock()
		reg.observers.Remove(id)
		reg.mu.Unlock()
	}
}

// Trigger fans a completed trigger out to observers.
func (reg *Registry) Trigger(c *Component, e Emit) {
	if reg.config.LogEvents {
		reg.logger.Debug("event triggered",
			zap.String("component", c.String()),
			zap.String("type", e.Type),
			zap.Any("data", e.Data))
	}

	reg.mu.RLock()
	observers := reg.observers.Values()
	reg.mu.RUnlock()

	for _, fn := range observers {
		fn.(TriggerObserver)(c, e)
	}
}

// Off drops c's bindings matching u and returns how many were dropped.
func (reg *Registry) Off(c *Component, u Unlisten) int {
	info := reg.FindInstanceInfo(c)
	if info == nil {
		return 0
	}
	target := c.targetOf(u.Target)
	return info.removeBind(func(b *Binding) bool {
		if b.Type != u.Type || !c.targetOf(b.Element).Same(target) {
			return false
		}
		return u.Callback == nil || b.Listener.GUID == u.Callback.guid
	})
}

// Teardown stops tracking c. The type's record goes away with its last
// instance.
func (reg *Registry) Teardown(c *Component) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	v, ok := reg.instances.Get(c)
	if !ok {
		return
	}
	reg.instances.Remove(c)

	if cv, ok := reg.components.Get(c.typ); ok {
		ci := cv.(*ComponentInfo)
		ci.instances.Remove(c)
		if ci.instances.Empty() {
			reg.components.Remove(c.typ)
		}
	}

	reg.logger.Debug("instance removed",
		zap.String("component", c.typ.String()),
		zap.String("id", v.(*InstanceInfo).ID))
}

// Reset forgets every instance and type. Listeners still attached to the
// document are not touched; use TeardownAll to unbind them first.
func (reg *Registry) Reset() {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.instances.Clear()
	reg.components.Clear()
}
