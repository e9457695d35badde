// Package scenario replays scripted user events against a document with a
// tracing component attached, and reports what each instance received and
// whether teardown left listeners behind.
//
// A scenario is YAML:
//
//	attach: ".item"
//	attrs:
//	  linkSelector: ".link"
//	listen: [click, select]
//	delegate:
//	  click: linkSelector
//	steps:
//	  - target: "#one .link"
//	    event: click
//	  - target: "#two"
//	    event: select
//	    data: {id: 2}
package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/pthm/flight"
	"github.com/pthm/flight/lib/dom"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"
)

var ErrNoAttach = errors.New("scenario: attach selector is required")

// Scenario is a scripted run.
type Scenario struct {
	Attach string         `yaml:"attach"`
	Attrs  map[string]any `yaml:"attrs"`
	Listen []string       `yaml:"listen"`
	// Delegate maps an event type to the attribute holding the selector
	// its listener delegates to. Types listed here need not be in Listen.
	Delegate map[string]string `yaml:"delegate"`
	Debug    bool              `yaml:"debug"`
	Steps    []Step            `yaml:"steps"`
}

// Step dispatches one event on every element matching Target.
type Step struct {
	Target string `yaml:"target"`
	Event  string `yaml:"event"`
	Data   any    `yaml:"data"`
}

// Load decodes a scenario.
func Load(r io.Reader) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}
	if sc.Attach == "" {
		return nil, ErrNoAttach
	}
	for i, st := range sc.Steps {
		if st.Target == "" || st.Event == "" {
			return nil, fmt.Errorf("scenario: step %d needs a target and an event", i)
		}
		sc.Steps[i].Data = normalize(st.Data)
	}
	sc.Attrs, _ = normalize(sc.Attrs).(map[string]any)
	return &sc, nil
}

// LoadFile decodes the scenario at path.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// normalize turns yaml's map[any]any leftovers into map[string]any so
// payloads merge the way component code expects.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	}
	return v
}

// Delivery is one event received by a traced instance.
type Delivery struct {
	Step     int
	Instance string
	Event    string
	Target   string
	// Matched is the element a delegating listener matched, empty for
	// direct listeners.
	Matched string
}

// Report summarizes a run.
type Report struct {
	Instances  int
	Bound      int
	Deliveries []Delivery
	// Leaked counts listeners still registered after teardown.
	Leaked int
}

// Run attaches the tracing component described by sc to doc, replays the
// steps and tears everything down.
func Run(doc *dom.Document, sc *Scenario, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := flight.NewRegistry(doc,
		flight.WithLogger(logger),
		flight.WithConfig(flight.Config{Debug: sc.Debug, LogEvents: true}))

	t := &tracer{sc: sc, logger: logger.Named("trace"), step: -1}
	typ := reg.Define(t.mixin())

	if err := typ.AttachTo(sc.Attach, sc.Attrs); err != nil {
		return nil, fmt.Errorf("scenario: attach %q: %w", sc.Attach, err)
	}

	report := &Report{Bound: doc.TotalListeners()}
	if ci := reg.FindComponentInfo(typ); ci != nil {
		report.Instances = len(ci.Instances())
	}

	for i, st := range sc.Steps {
		sel, err := doc.Select(st.Target)
		if err != nil {
			return nil, fmt.Errorf("scenario: step %d: %w", i, err)
		}
		if sel.Len() == 0 {
			logger.Warn("step matched nothing",
				zap.Int("step", i),
				zap.String("target", st.Target))
			continue
		}
		t.setStep(i)
		sel.Trigger(dom.NewEvent(st.Event), st.Data)
	}

	if err := reg.TeardownAll(); err != nil {
		return nil, fmt.Errorf("scenario: teardown: %w", err)
	}
	report.Deliveries = t.deliveries()
	report.Leaked = doc.TotalListeners()
	return report, nil
}

// tracer builds the tracing mixin and collects what it sees.
type tracer struct {
	sc     *Scenario
	logger *zap.Logger

	mu   sync.Mutex
	step int
	seen []Delivery
}

func (t *tracer) setStep(i int) {
	t.mu.Lock()
	t.step = i
	t.mu.Unlock()
}

func (t *tracer) deliveries() []Delivery {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Delivery(nil), t.seen...)
}

func (t *tracer) mixin() *flight.Mixin {
	return flight.NewMixin("withTrace", func(p *flight.Proto) {
		p.After("initialize", func(c *flight.Component, args ...any) error {
			for _, typ := range t.sc.Listen {
				if _, ok := t.sc.Delegate[typ]; ok {
					continue
				}
				if _, err := c.On(flight.Listen{Type: typ, Callback: flight.Func(t.record)}); err != nil {
					return err
				}
			}
			types := make([]string, 0, len(t.sc.Delegate))
			for typ := range t.sc.Delegate {
				types = append(types, typ)
			}
			sort.Strings(types)
			for _, typ := range types {
				rules := flight.DelegateRules{t.sc.Delegate[typ]: flight.Func(t.record)}
				if _, err := c.On(flight.Listen{Type: typ, Rules: rules}); err != nil {
					return err
				}
			}
			return nil
		})
		p.Before("teardown", func(c *flight.Component, args ...any) error {
			if info := c.Registry().FindInstanceInfo(c); info != nil {
				t.logger.Debug("tearing down",
					zap.String("id", info.ID),
					zap.Int("bindings", len(info.Events())))
			}
			return nil
		})
	})
}

func (t *tracer) record(c *flight.Component, ev *dom.Event, data any) {
	d := Delivery{
		Event:  ev.Type,
		Target: describe(ev.Target),
	}
	if info := c.Registry().FindInstanceInfo(c); info != nil {
		d.Instance = info.ID
	}
	if m, ok := data.(map[string]any); ok {
		if el, ok := m["el"].(*html.Node); ok {
			d.Matched = describe(el)
		}
	}

	t.mu.Lock()
	d.Step = t.step
	t.seen = append(t.seen, d)
	t.mu.Unlock()

	t.logger.Info("event delivered",
		zap.Int("step", d.Step),
		zap.String("instance", d.Instance),
		zap.String("event", d.Event),
		zap.String("target", d.Target),
		zap.String("matched", d.Matched))
}

// describe renders n as tag#id.class for logs.
func describe(n *html.Node) string {
	if n == nil {
		return ""
	}
	var id, classes string
	for _, a := range n.Attr {
		switch a.Key {
		case "id":
			id = "#" + a.Val
		case "class":
			if fields := strings.Fields(a.Val); len(fields) > 0 {
				classes = "." + strings.Join(fields, ".")
			}
		}
	}
	return n.Data + id + classes
}
