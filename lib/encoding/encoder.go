package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnserializable is returned when a value cannot survive a structured
// copy: functions, channels, unsafe pointers and cyclic graphs.
var ErrUnserializable = errors.New("encoding: value is not serializable")

// Codec serializes event payloads with msgpack.
//
// It stands in for the structured-clone algorithm a browser applies to
// messages crossing a context boundary: anything Codec can round-trip is
// safe to hand to another context, anything else is rejected.
type Codec struct {
	tag string
}

// NewCodec creates a codec. Struct fields are named by their json tag so
// payload structs shared with JSON transports keep the same keys.
func NewCodec() *Codec {
	return &Codec{tag: "json"}
}

// Marshal encodes v. Cyclic values are rejected up front; msgpack would
// recurse forever on them.
func (c *Codec) Marshal(v any) ([]byte, error) {
	if err := checkAcyclic(reflect.ValueOf(v), make(map[uintptr]bool)); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag(c.tag)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnserializable, err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data produced by Marshal into generic Go values
// (maps decode as map[string]any, arrays as []any). Integers decode as
// int64 at every depth, except positive values above 127 that were
// encoded unsigned, which decode as uint64.
func (c *Codec) Unmarshal(data []byte) (any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag(c.tag)
	dec.UseLooseInterfaceDecoding(true)
	v, err := dec.DecodeInterface()
	if err != nil {
		return nil, fmt.Errorf("encoding: decode: %w", err)
	}
	return v, nil
}

// Clone returns a deep, detached copy of v in generic form.
func (c *Codec) Clone(v any) (any, error) {
	data, err := c.Marshal(v)
	if err != nil {
		return nil, err
	}
	return c.Unmarshal(data)
}

// checkAcyclic walks maps, slices and pointers, failing on a value that
// contains itself.
func checkAcyclic(v reflect.Value, onPath map[uintptr]bool) error {
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return checkAcyclic(v.Elem(), onPath)
	case reflect.Ptr, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return nil
		}
		ptr := v.Pointer()
		if v.Kind() == reflect.Slice && v.Len() == 0 {
			return nil
		}
		if onPath[ptr] {
			return fmt.Errorf("%w: cyclic %s", ErrUnserializable, v.Type())
		}
		onPath[ptr] = true
		defer delete(onPath, ptr)

		switch v.Kind() {
		case reflect.Ptr:
			return checkAcyclic(v.Elem(), onPath)
		case reflect.Map:
			iter := v.MapRange()
			for iter.Next() {
				if err := checkAcyclic(iter.Value(), onPath); err != nil {
					return err
				}
			}
		case reflect.Slice:
			for i := 0; i < v.Len(); i++ {
				if err := checkAcyclic(v.Index(i), onPath); err != nil {
					return err
				}
			}
		}
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := checkAcyclic(v.Index(i), onPath); err != nil {
				return err
			}
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			if err := checkAcyclic(v.Field(i), onPath); err != nil {
				return err
			}
		}
	}
	return nil
}
