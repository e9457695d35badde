package flight

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// Attrs is an instance's attribute mapping: the options it was constructed
// with, falling back to the type's default attributes. Defaults are read
// live, so a default changed after construction is visible for every key
// the options do not own.
type Attrs struct {
	own   map[string]any
	proto *Proto
}

func newAttrs(options map[string]any, proto *Proto) *Attrs {
	own := make(map[string]any, len(options))
	for k, v := range options {
		own[k] = v
	}
	return &Attrs{own: own, proto: proto}
}

// Get resolves key: the instance's own value if it has one (even nil),
// otherwise the type default.
func (a *Attrs) Get(key string) (any, bool) {
	if v, ok := a.own[key]; ok {
		return v, true
	}
	if a.proto != nil {
		v, ok := a.proto.defaults[key]
		return v, ok
	}
	return nil, false
}

// Has reports whether key resolves at either level.
func (a *Attrs) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// String resolves key as a string, returning "" when it is unset or not a
// string.
func (a *Attrs) String(key string) string {
	v, _ := a.Get(key)
	s, _ := v.(string)
	return s
}

// Set gives the instance its own value for key, shadowing the default.
func (a *Attrs) Set(key string, v any) {
	a.own[key] = v
}

// Keys returns every resolvable key, sorted.
func (a *Attrs) Keys() []string {
	seen := make(map[string]bool, len(a.own))
	keys := make([]string, 0, len(a.own))
	for k := range a.own {
		seen[k] = true
		keys = append(keys, k)
	}
	if a.proto != nil {
		for k := range a.proto.defaults {
			if !seen[k] {
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// Map flattens the two levels into a new map.
func (a *Attrs) Map() map[string]any {
	out := make(map[string]any)
	for _, k := range a.Keys() {
		out[k], _ = a.Get(k)
	}
	return out
}

// Decode copies the resolved attributes into out, a pointer to a struct.
// Fields are matched by their `attr` tag, falling back to the field name.
//
//	var cfg struct {
//	    ItemSelector string `attr:"itemSelector"`
//	    PageSize     int    `attr:"pageSize"`
//	}
//	err := c.Attr().Decode(&cfg)
func (a *Attrs) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "attr",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("flight: decode attributes: %w", err)
	}
	if err := dec.Decode(a.Map()); err != nil {
		return fmt.Errorf("flight: decode attributes: %w", err)
	}
	return nil
}
