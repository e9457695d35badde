package flight

import (
	"errors"
	"testing"

	"github.com/pthm/flight/lib/dom"
	"golang.org/x/net/html"
)

func TestNewMissingNode(t *testing.T) {
	reg := newTestRegistry(t)
	typ := reg.Define()

	tests := []struct {
		name string
		node any
	}{
		{"nil", nil},
		{"empty selector", ""},
		{"no match", "#nope"},
		{"nil node", (*html.Node)(nil)},
		{"empty selection", reg.Document().Wrap()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := typ.New(tt.node, nil)
			if !errors.Is(err, ErrMissingNode) {
				t.Errorf("New() error = %v, want ErrMissingNode", err)
			}
			if !IsUsageError(err) {
				t.Error("IsUsageError() = false")
			}
		})
	}
	if n := len(reg.Instances()); n != 0 {
		t.Errorf("%d instances registered after failures", n)
	}
}

func TestNewUsesFirstNode(t *testing.T) {
	reg := newTestRegistry(t)
	c := mustNew(t, reg.Define(), ".item", nil)

	if id, _ := c.Selection().Attr("id"); id != "one" {
		t.Errorf("attached to #%s, want #one", id)
	}
	if c.Node() != c.Selection().Get(0) {
		t.Error("Node() and Selection() disagree")
	}
}

func TestNewRequiredAttr(t *testing.T) {
	reg := newTestRegistry(t)
	m := NewMixin("withToken", func(p *Proto) {
		p.DefaultAttrs(map[string]any{"token": nil, "color": "blue"})
	})
	typ := reg.Define(m)

	_, err := typ.New("#app", nil)
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("New() error = %v, want ConfigError", err)
	}
	if ce.Attr != "token" || !errors.Is(err, ErrRequiredAttr) {
		t.Errorf("ConfigError = %+v", ce)
	}
	if ce.Component != "withAdvice, withToken" {
		t.Errorf("Component = %q", ce.Component)
	}
	if reg.FindComponentInfo(typ) != nil {
		t.Error("type registered after failed construction")
	}

	c := mustNew(t, typ, "#app", map[string]any{"token": "abc"})
	if got := c.Attr().String("token"); got != "abc" {
		t.Errorf("token = %q, want abc", got)
	}
}

func TestNewRegistersBeforeInitialize(t *testing.T) {
	reg := newTestRegistry(t)

	registered := false
	m := NewMixin("withCheck", func(p *Proto) {
		p.After("initialize", func(c *Component, args ...any) error {
			registered = c.Registry().FindInstanceInfo(c) != nil
			return nil
		})
	})
	mustNew(t, reg.Define(m), "#app", nil)

	if !registered {
		t.Error("instance not registered while initialize ran")
	}
}

func TestNewPassesOptionsToInitialize(t *testing.T) {
	reg := newTestRegistry(t)

	var got map[string]any
	m := NewMixin("withInit", func(p *Proto) {
		p.After("initialize", func(c *Component, args ...any) error {
			got, _ = args[0].(map[string]any)
			return nil
		})
	})
	mustNew(t, reg.Define(m), "#app", map[string]any{"n": 1})

	if got["n"] != 1 {
		t.Errorf("initialize options = %v", got)
	}
}

func TestNewRollsBackFailedInitialize(t *testing.T) {
	reg := newTestRegistry(t)

	errBoom := errors.New("boom")
	m := NewMixin("withBroken", func(p *Proto) {
		p.After("initialize", func(c *Component, args ...any) error {
			if _, err := c.On(Listen{Type: "save", Callback: Func(func(*Component, *dom.Event, any) {})}); err != nil {
				return err
			}
			return errBoom
		})
	})
	typ := reg.Define(m)

	_, err := typ.New("#app", nil)
	if !errors.Is(err, errBoom) {
		t.Fatalf("New() error = %v, want errBoom", err)
	}
	if n := reg.Document().TotalListeners(); n != 0 {
		t.Errorf("%d listeners left after rollback", n)
	}
	if n := len(reg.Instances()); n != 0 {
		t.Errorf("%d instances left after rollback", n)
	}
	if reg.FindComponentInfo(typ) != nil {
		t.Error("type still registered after rollback")
	}
}

func TestAttrsFallback(t *testing.T) {
	reg := newTestRegistry(t)
	m := NewMixin("withColors", func(p *Proto) {
		p.DefaultAttrs(map[string]any{"color": "blue", "size": 10})
	})
	typ := reg.Define(m)

	options := map[string]any{"size": nil}
	c := mustNew(t, typ, "#app", options)

	if got := c.Attr().String("color"); got != "blue" {
		t.Errorf("color = %q, want blue", got)
	}
	if v, ok := c.Attr().Get("size"); !ok || v != nil {
		t.Errorf("size = %v, %v; own nil should win", v, ok)
	}

	typ.Proto().Defaults()["color"] = "red"
	if got := c.Attr().String("color"); got != "red" {
		t.Errorf("color after default change = %q, want red", got)
	}

	options["color"] = "green"
	if got := c.Attr().String("color"); got != "red" {
		t.Errorf("instance saw a later change to the options map: %q", got)
	}

	c.Attr().Set("color", "black")
	if got := c.Attr().String("color"); got != "black" {
		t.Errorf("color after Set = %q, want black", got)
	}
	if typ.Proto().Defaults()["color"] != "red" {
		t.Error("Set wrote through to the defaults")
	}
}

func TestAttrsKeysAndMap(t *testing.T) {
	reg := newTestRegistry(t)
	m := NewMixin("withKeys", func(p *Proto) {
		p.DefaultAttrs(map[string]any{"b": 1, "c": 2})
	})
	c := mustNew(t, reg.Define(m), "#app", map[string]any{"a": 0, "c": 3})

	keys := c.Attr().Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("Keys() = %v", keys)
	}
	if got := c.Attr().Map()["c"]; got != 3 {
		t.Errorf("Map()[c] = %v, want 3", got)
	}
	if c.Attr().Has("d") {
		t.Error("Has(d) = true")
	}
}

func TestAttrsDecode(t *testing.T) {
	reg := newTestRegistry(t)
	m := NewMixin("withList", func(p *Proto) {
		p.DefaultAttrs(map[string]any{"itemSelector": ".item", "pageSize": "20"})
	})
	c := mustNew(t, reg.Define(m), "#app", map[string]any{"title": "Inbox"})

	var cfg struct {
		ItemSelector string `attr:"itemSelector"`
		PageSize     int    `attr:"pageSize"`
		Title        string
	}
	if err := c.Attr().Decode(&cfg); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if cfg.ItemSelector != ".item" || cfg.PageSize != 20 || cfg.Title != "Inbox" {
		t.Errorf("Decode() = %+v", cfg)
	}
}
