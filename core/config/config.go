package config

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Store is a nested key/value tree that sources write into.
type Store interface {
	Set(key []string, v any) error
}

// Source contributes values to a Store.
type Source interface {
	Apply(Store) error
}

// Manager holds the merged values of a set of sources.
type Manager struct {
	store Map
}

// Read applies srcs in order. Later sources override earlier ones.
func Read(srcs ...Source) (*Manager, error) {
	store := make(Map)
	for _, src := range srcs {
		if err := src.Apply(store); err != nil {
			return nil, err
		}
	}
	return &Manager{store: store}, nil
}

// Get returns the value at a dotted key such as "tcp.port".
func (m *Manager) Get(key string) (any, bool) {
	var cur any = map[string]any(m.store)
	for _, part := range strings.Split(key, ".") {
		sub, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = sub[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Unmarshal decodes the merged values into v using `config` struct tags.
// Fields without a value keep what v already holds, so v can be
// pre-populated with defaults. Strings are coerced to the field type where
// possible.
func (m *Manager) Unmarshal(v any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		Result:           v,
		WeaklyTypedInput: true,
		DecodeHook: composeDecodeHooks(
			timeDurationHookFunc(),
			textUnmarshalerHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(m.store))
}

// Map is an ordinary map[string]any that is both a Source and a Store.
// Nested maps become dotted key chains.
type Map map[string]any

// Apply implements Source.
func (m Map) Apply(store Store) error {
	return walkMap(m, store, nil)
}

// Set implements Store.
func (m Map) Set(key []string, v any) error {
	if len(key) == 0 {
		return EmptyKeyError{Value: v}
	}

	cur := map[string]any(m)
	for i, part := range key[:len(key)-1] {
		next, ok := cur[part]
		if !ok {
			sub := make(map[string]any)
			cur[part] = sub
			cur = sub
			continue
		}
		sub, ok := next.(map[string]any)
		if !ok {
			return UnexpectedKeyValueTypeError{Key: strings.Join(key[:i+1], ".")}
		}
		cur = sub
	}
	cur[key[len(key)-1]] = v
	return nil
}

func walkMap(m map[string]any, store Store, chain []string) error {
	for k, v := range m {
		key := append(chain[:len(chain):len(chain)], strings.Split(k, ".")...)
		switch x := v.(type) {
		case map[string]any:
			if err := walkMap(x, store, key); err != nil {
				return err
			}
		case Map:
			if err := walkMap(x, store, key); err != nil {
				return err
			}
		default:
			if err := store.Set(key, x); err != nil {
				return err
			}
		}
	}
	return nil
}

// EmptyKeyError occurs when a source sets a value without a key.
type EmptyKeyError struct {
	Value any
}

// Error implements the error interface.
func (e EmptyKeyError) Error() string {
	return fmt.Sprintf("config: attempted to set value to an empty key: %v", e.Value)
}

// UnexpectedKeyValueTypeError occurs when a key holding a plain value is
// used as the parent of another key.
type UnexpectedKeyValueTypeError struct {
	Key string
}

// Error implements the error interface.
func (e UnexpectedKeyValueTypeError) Error() string {
	return fmt.Sprintf("config: expected key value to be a map: %s", e.Key)
}

var errInvalidDecodeCondition = errors.New("invalid decode condition")

// TypeCoercionError occurs when a config value cannot be converted to the
// type of the struct field it is decoded into.
type TypeCoercionError struct {
	From  string
	To    string
	Cause error
}

// Error implements the error interface.
func (e TypeCoercionError) Error() string {
	return fmt.Sprintf("config: failed to coerce value from %s to %s: %s", e.From, e.To, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e TypeCoercionError) Unwrap() error {
	return e.Cause
}

func composeDecodeHooks(hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(f, t reflect.Value) (any, error) {
		for _, h := range hs {
			v, err := mapstructure.DecodeHookExec(h, f, t)
			if err == nil {
				return v, nil
			}
			if errors.Is(err, errInvalidDecodeCondition) {
				continue
			}
			return nil, TypeCoercionError{From: f.Type().String(), To: t.Type().String(), Cause: err}
		}
		return f.Interface(), nil
	}
}

func timeDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return nil, errInvalidDecodeCondition
		}

		switch f.Kind() {
		case reflect.String:
			return time.ParseDuration(data.(string))
		case reflect.Int:
			return time.Duration(int64(data.(int))), nil
		case reflect.Int64:
			return time.Duration(data.(int64)), nil
		default:
			return nil, errInvalidDecodeCondition
		}
	}
}

func textUnmarshalerHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		result := reflect.New(t).Interface()
		u, ok := result.(encoding.TextUnmarshaler)
		if !ok {
			return nil, errInvalidDecodeCondition
		}
		if err := u.UnmarshalText([]byte(data.(string))); err != nil {
			return nil, err
		}
		return result, nil
	}
}
