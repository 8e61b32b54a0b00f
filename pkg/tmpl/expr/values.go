package expr

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Ordered is a mapping that keeps its insertion order. Iteration, keys() and
// member access honour that order.
type Ordered interface {
	Keys() []string
	Field(key string) (any, bool)
}

// Member reads a named property. Mappings are looked up by key; `length`
// reports the size of strings, slices and mappings. Anything else yields nil.
func Member(target any, name string) (any, bool) {
	switch typed := target.(type) {
	case nil:
		return nil, false
	case Ordered:
		if v, ok := typed.Field(name); ok {
			return v, true
		}
		if name == "length" {
			return float64(len(typed.Keys())), true
		}
		return nil, false
	case map[string]any:
		v, ok := typed[name]
		if !ok && name == "length" {
			return float64(len(typed)), true
		}
		return v, ok
	case map[string]string:
		v, ok := typed[name]
		if !ok {
			if name == "length" {
				return float64(len(typed)), true
			}
			return nil, false
		}
		return v, true
	case string:
		if name == "length" {
			return float64(len([]rune(typed))), true
		}
		return nil, false
	}

	rv := reflect.ValueOf(target)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if name == "length" {
			return float64(rv.Len()), true
		}
		if idx, err := strconv.Atoi(name); err == nil {
			return Index(target, float64(idx))
		}
		return nil, false
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			if name == "length" {
				return float64(rv.Len()), true
			}
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct, reflect.Pointer:
		if m, ok := Normalize(target).(map[string]any); ok {
			return Member(m, name)
		}
	}
	return nil, false
}

// Index reads target[idx]. Numeric indexes address slices and strings; any
// other index is treated as a property name.
func Index(target any, idx any) (any, bool) {
	if target == nil {
		return nil, false
	}
	n, numeric := idx.(float64)
	if !numeric {
		if f, ok := coerceInteger(idx); ok {
			n, numeric = f, true
		}
	}
	if !numeric {
		return Member(target, Format(idx))
	}
	if n != math.Trunc(n) {
		return nil, false
	}
	i := int(n)

	if s, ok := target.(string); ok {
		runes := []rune(s)
		if i < 0 || i >= len(runes) {
			return nil, false
		}
		return string(runes[i]), true
	}
	rv := reflect.ValueOf(target)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	default:
		return Member(target, strconv.Itoa(i))
	}
}

// Each calls fn for every entry of a collection: ordered mappings in
// insertion order, plain mappings in sorted key order, slices by index. Nil
// and scalar values produce no iterations.
func Each(v any, fn func(key, value any) error) error {
	switch typed := v.(type) {
	case nil:
		return nil
	case Ordered:
		for _, key := range typed.Keys() {
			value, _ := typed.Field(key)
			if err := fn(key, value); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		for _, key := range sortedKeys(typed) {
			if err := fn(key, typed[key]); err != nil {
				return err
			}
		}
		return nil
	case string:
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := fn(float64(i), rv.Index(i).Interface()); err != nil {
				return err
			}
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("expr: cannot iterate map keyed by %s", rv.Type().Key())
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		for _, key := range keys {
			value := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
			if err := fn(key, value.Interface()); err != nil {
				return err
			}
		}
	case reflect.Struct, reflect.Pointer:
		if m, ok := Normalize(v).(map[string]any); ok {
			return Each(m, fn)
		}
	}
	return nil
}

// Normalize converts structs (and pointers to them) into their JSON mapping
// form so templates can address their fields. Other values are returned
// unchanged.
func Normalize(v any) any {
	if v == nil {
		return nil
	}
	if _, ok := v.(Ordered); ok {
		return v
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return v
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(payload, &out); err != nil {
		return v
	}
	return out
}

// Truthy reports whether v counts as true in a condition. Nil, false, zero,
// NaN, the empty string and empty collections are false.
func Truthy(v any) bool {
	switch typed := v.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case float64:
		return typed != 0 && !math.IsNaN(typed)
	case Ordered:
		return len(typed.Keys()) > 0
	}
	if f, ok := coerceInteger(v); ok {
		return f != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Float32:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// Format returns the string form of a value as it is written into template
// output: nil is empty, integral numbers have no decimal point, slices are
// joined with commas and mappings are rendered as JSON.
func Format(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []byte:
		return string(typed)
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return formatFloat(typed)
	case float32:
		return formatFloat(float64(typed))
	case json.Number:
		return typed.String()
	case Ordered:
		return toJSON(typed)
	case fmt.Stringer:
		return typed.String()
	}
	if f, ok := coerceInteger(v); ok {
		return formatFloat(f)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = Format(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	case reflect.Map, reflect.Struct:
		return toJSON(v)
	case reflect.Pointer:
		if rv.IsNil() {
			return ""
		}
		return Format(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func toJSON(v any) string {
	if o, ok := v.(Ordered); ok {
		v = orderedJSON{o}
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(payload)
}

// orderedJSON marshals an Ordered mapping keeping its key order.
type orderedJSON struct {
	Ordered
}

func (o orderedJSON) MarshalJSON() ([]byte, error) {
	if m, ok := o.Ordered.(json.Marshaler); ok {
		return m.MarshalJSON()
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, key := range o.Keys() {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		b.Write(k)
		b.WriteByte(':')
		value, _ := o.Field(key)
		if nested, ok := value.(Ordered); ok {
			value = orderedJSON{nested}
		}
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		b.Write(payload)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// LooseEqual compares with the coercions of `==`: numbers compare by value
// across numeric types and numeric strings, nil equals only nil.
func LooseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return as == bs
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return ab == bb
		}
	}
	if isScalar(a) && isScalar(b) {
		x, xok := coerceNumber(a)
		y, yok := coerceNumber(b)
		if xok && yok {
			return x == y
		}
		return Format(a) == Format(b)
	}
	return sameValue(a, b)
}

// StrictEqual compares without coercion between strings, numbers and bools.
func StrictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch as := a.(type) {
	case string:
		bs, ok := b.(string)
		return ok && as == bs
	case bool:
		bb, ok := b.(bool)
		return ok && as == bb
	}
	if x, ok := numberValue(a); ok {
		y, ok := numberValue(b)
		return ok && x == y
	}
	return sameValue(a, b)
}

func sameValue(a, b any) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Map, reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	case reflect.Pointer:
		return ra.Pointer() == rb.Pointer()
	}
	if ra.Type().Comparable() {
		return a == b
	}
	return false
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool:
		return true
	}
	_, ok := numberValue(v)
	return ok
}

func isStringLike(v any) bool {
	switch v.(type) {
	case string, []byte:
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		return true
	}
	_, ok := v.(Ordered)
	return ok
}

func numberValue(v any) (float64, bool) {
	switch typed := v.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case json.Number:
		f, err := typed.Float64()
		return f, err == nil
	}
	return coerceInteger(v)
}

func coerceInteger(v any) (float64, bool) {
	switch typed := v.(type) {
	case int:
		return float64(typed), true
	case int8:
		return float64(typed), true
	case int16:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint8:
		return float64(typed), true
	case uint16:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	default:
		return 0, false
	}
}

func coerceNumber(v any) (float64, bool) {
	if f, ok := numberValue(v); ok {
		return f, true
	}
	switch typed := v.(type) {
	case bool:
		if typed {
			return 1, true
		}
		return 0, true
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
