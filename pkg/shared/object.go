package shared

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// Field is a single key/value entry of a Record.
type Field struct {
	Key   string
	Value any
}

// Record is a flat, insertion-ordered object used to shape query parameters
// and update payloads.
type Record []Field

// R builds a Record from alternating key/value arguments. A trailing key with
// no value is ignored.
func R(pairs ...any) Record {
	out := make(Record, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			key = fmt.Sprint(pairs[i])
		}
		out = out.Set(key, pairs[i+1])
	}
	return out
}

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	for _, field := range r {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

// Set replaces the value for key in place or appends a new entry.
func (r Record) Set(key string, value any) Record {
	for i := range r {
		if r[i].Key == key {
			r[i].Value = value
			return r
		}
	}
	return append(r, Field{Key: key, Value: value})
}

// Keys returns the record keys in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, field := range r {
		keys[i] = field.Key
	}
	return keys
}

// Map converts the record into an unordered map.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r))
	for _, field := range r {
		out[field.Key] = field.Value
	}
	return out
}

// Values encodes the record as URL query values after sanitising it.
func (r Record) Values() url.Values {
	values := url.Values{}
	for _, field := range SanitizeObject(r) {
		switch v := field.Value.(type) {
		case []string:
			for _, item := range v {
				values.Add(field.Key, item)
			}
		case time.Time:
			values.Set(field.Key, v.UTC().Format(time.RFC3339))
		case *time.Time:
			values.Set(field.Key, v.UTC().Format(time.RFC3339))
		case fmt.Stringer:
			values.Set(field.Key, v.String())
		default:
			values.Set(field.Key, fmt.Sprint(v))
		}
	}
	return values
}

// IsBlank reports whether value is nil, a typed nil (pointer, map, slice,
// interface, func or chan), or an empty string.
func IsBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case *string:
		return v == nil || *v == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// SanitizeObject drops entries whose value is nil or the empty string while
// preserving the order of everything else.
func SanitizeObject(r Record) Record {
	out := make(Record, 0, len(r))
	for _, field := range r {
		if IsBlank(field.Value) {
			continue
		}
		out = append(out, field)
	}
	return out
}

// SanitizeMap is the map form of SanitizeObject.
func SanitizeMap(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		if IsBlank(value) {
			continue
		}
		out[key] = value
	}
	return out
}

// Pick keeps only the listed keys, in record order.
func Pick(r Record, keys ...string) Record {
	allowed := keySet(keys)
	out := make(Record, 0, len(keys))
	for _, field := range r {
		if _, ok := allowed[field.Key]; ok {
			out = append(out, field)
		}
	}
	return out
}

// Omit removes the listed keys.
func Omit(r Record, keys ...string) Record {
	denied := keySet(keys)
	out := make(Record, 0, len(r))
	for _, field := range r {
		if _, ok := denied[field.Key]; ok {
			continue
		}
		out = append(out, field)
	}
	return out
}

// PickMap keeps only the listed keys of values.
func PickMap(values map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, key := range keys {
		if value, ok := values[key]; ok {
			out[key] = value
		}
	}
	return out
}

// OmitMap removes the listed keys from a copy of values.
func OmitMap(values map[string]any, keys ...string) map[string]any {
	denied := keySet(keys)
	out := make(map[string]any, len(values))
	for key, value := range values {
		if _, ok := denied[key]; ok {
			continue
		}
		out[key] = value
	}
	return out
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		set[strings.TrimSpace(key)] = struct{}{}
	}
	return set
}
