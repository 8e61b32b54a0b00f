package expr

import (
	"fmt"
	"html"
	"reflect"
	"strings"
	"unicode/utf8"
)

// Func is a helper callable from expressions.
type Func func(args ...any) (any, error)

// Builtins returns a fresh copy of the default helpers:
//
//	len(x)              length of a string, slice or mapping
//	upper(s), lower(s)  case conversion of the string form
//	escape(s)           HTML escaping of the string form
//	json(x)             JSON encoding, ordered mappings keep their order
//	keys(m)             keys of a mapping in iteration order
//	default(x, y)       x unless it is nil or empty, otherwise y
//	join(list, sep)     string forms joined by sep (default ",")
func Builtins() map[string]Func {
	return map[string]Func{
		"len":     lenFunc,
		"upper":   stringFunc(strings.ToUpper),
		"lower":   stringFunc(strings.ToLower),
		"escape":  stringFunc(html.EscapeString),
		"json":    jsonFunc,
		"keys":    keysFunc,
		"default": defaultFunc,
		"join":    joinFunc,
	}
}

func arity(args []any, min, max int) error {
	if len(args) < min || len(args) > max {
		if min == max {
			return fmt.Errorf("expects %d argument(s), got %d", min, len(args))
		}
		return fmt.Errorf("expects %d to %d arguments, got %d", min, max, len(args))
	}
	return nil
}

func stringFunc(fn func(string) string) Func {
	return func(args ...any) (any, error) {
		if err := arity(args, 1, 1); err != nil {
			return nil, err
		}
		return fn(Format(args[0])), nil
	}
}

func lenFunc(args ...any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	switch typed := args[0].(type) {
	case nil:
		return float64(0), nil
	case string:
		return float64(utf8.RuneCountInString(typed)), nil
	case Ordered:
		return float64(len(typed.Keys())), nil
	}
	rv := reflect.ValueOf(args[0])
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return float64(rv.Len()), nil
	}
	return nil, fmt.Errorf("cannot take length of %T", args[0])
}

func jsonFunc(args ...any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	return toJSON(Normalize(args[0])), nil
}

func keysFunc(args ...any) (any, error) {
	if err := arity(args, 1, 1); err != nil {
		return nil, err
	}
	out := []any{}
	err := Each(args[0], func(key, _ any) error {
		out = append(out, key)
		return nil
	})
	return out, err
}

func defaultFunc(args ...any) (any, error) {
	if err := arity(args, 2, 2); err != nil {
		return nil, err
	}
	if args[0] == nil {
		return args[1], nil
	}
	if s, ok := args[0].(string); ok && s == "" {
		return args[1], nil
	}
	return args[0], nil
}

func joinFunc(args ...any) (any, error) {
	if err := arity(args, 1, 2); err != nil {
		return nil, err
	}
	sep := ","
	if len(args) == 2 {
		sep = Format(args[1])
	}
	var parts []string
	err := Each(args[0], func(_, value any) error {
		parts = append(parts, Format(value))
		return nil
	})
	return strings.Join(parts, sep), err
}
