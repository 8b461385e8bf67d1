// Package parse decodes export JSON objects into domain entities.
//
// Every entity has one Decoder working on Fields, a view of the generic
// key/value mapping produced by encoding/json. Nested entities are decoded
// by delegating to their own Decoder. Decoders are pure: no filesystem or
// network access happens here.
package parse

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/stepsync/internal/dates"
	"github.com/pkordes/stepsync/internal/domain"
)

// Decoder builds a T from an entity's fields.
type Decoder[T any] func(Fields) (T, error)

// Fields is a JSON object tagged with the entity it describes, so lookup
// failures can name both the entity and the key.
type Fields struct {
	entity string
	m      map[string]any
}

// Object wraps m as the fields of entity.
func Object(m map[string]any, entity string) Fields {
	return Fields{entity: entity, m: m}
}

// Entity returns the entity name used in errors.
func (f Fields) Entity() string { return f.entity }

// Has reports whether key is present and not null.
func (f Fields) Has(key string) bool {
	v, ok := f.m[key]
	return ok && v != nil
}

func (f Fields) required(key string) (any, error) {
	v, ok := f.m[key]
	if !ok {
		return nil, &domain.MissingFieldError{Entity: f.entity, Key: key}
	}
	return v, nil
}

func (f Fields) typeError(key string, v any, want string) error {
	return fmt.Errorf("%w: %s.%s: expected %s, got %T", domain.ErrParse, f.entity, key, want, v)
}

// String returns a required text value. Numbers are rendered in plain
// decimal, never with an exponent, so numeric identifiers survive as
// strings; null yields "".
func (f Fields) String(key string) (string, error) {
	v, err := f.required(key)
	if err != nil {
		return "", err
	}
	return f.toString(key, v)
}

// OptionalString is String for keys that may be absent.
func (f Fields) OptionalString(key string) (string, error) {
	v, ok := f.m[key]
	if !ok {
		return "", nil
	}
	return f.toString(key, v)
}

func (f Fields) toString(key string, v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		if strings.ContainsAny(x.String(), "eE") {
			n, err := x.Float64()
			if err != nil {
				return "", f.typeError(key, v, "string")
			}
			return strconv.FormatFloat(n, 'f', -1, 64), nil
		}
		return x.String(), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	default:
		return "", f.typeError(key, v, "string")
	}
}

// Float returns a required numeric value.
func (f Fields) Float(key string) (float64, error) {
	v, err := f.required(key)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, f.typeError(key, v, "number")
		}
		return n, nil
	case float64:
		return x, nil
	default:
		return 0, f.typeError(key, v, "number")
	}
}

// Time returns a required timestamp.
func (f Fields) Time(key string) (time.Time, error) {
	v, err := f.required(key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := dates.Parse(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s.%s: %w", f.entity, key, err)
	}
	return t, nil
}

// OptionalTime returns nil when key is absent, null or empty.
func (f Fields) OptionalTime(key string) (*time.Time, error) {
	t, err := dates.ParseOptional(f.m[key])
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", f.entity, key, err)
	}
	return t, nil
}

// Object returns the required nested object at key as the fields of entity.
func (f Fields) Object(key, entity string) (Fields, error) {
	v, err := f.required(key)
	if err != nil {
		return Fields{}, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Fields{}, f.typeError(key, v, "object")
	}
	return Object(m, entity), nil
}

func (f Fields) list(key string, optional bool) ([]any, error) {
	v, ok := f.m[key]
	if !ok || v == nil {
		if optional {
			return nil, nil
		}
		if !ok {
			return nil, &domain.MissingFieldError{Entity: f.entity, Key: key}
		}
	}
	items, isList := v.([]any)
	if !isList {
		return nil, f.typeError(key, v, "array")
	}
	return items, nil
}

// Decode runs dec over m.
func Decode[T any](m map[string]any, entity string, dec Decoder[T]) (T, error) {
	return dec(Object(m, entity))
}

// List decodes the required array at key, element by element, preserving order.
// The result is never nil.
func List[T any](f Fields, key, entity string, dec Decoder[T]) ([]T, error) {
	items, err := f.list(key, false)
	if err != nil {
		return nil, err
	}
	return decodeItems(f, key, entity, items, dec)
}

// OptionalList is List for keys that may be absent or null.
func OptionalList[T any](f Fields, key, entity string, dec Decoder[T]) ([]T, error) {
	items, err := f.list(key, true)
	if err != nil {
		return nil, err
	}
	return decodeItems(f, key, entity, items, dec)
}

func decodeItems[T any](f Fields, key, entity string, items []any, dec Decoder[T]) ([]T, error) {
	out := make([]T, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s[%d]: expected object, got %T", domain.ErrParse, f.entity, key, i, item)
		}
		v, err := dec(Object(m, entity))
		if err != nil {
			return nil, fmt.Errorf("%s.%s[%d]: %w", f.entity, key, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
