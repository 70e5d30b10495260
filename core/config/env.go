package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> reflect.Value (copy of the loaded struct)
)

// ErrNotStructPointer is returned by Load for anything but a non-nil
// pointer to a struct.
var ErrNotStructPointer = errors.New("config: target must be a non-nil pointer to a struct")

// Load fills v, a pointer to a struct with env tags, from the environment.
// A .env file in the working directory is read once, on first use, without
// overriding variables already set. Each struct type is parsed once; later
// calls copy the cached value.
func Load(v any, opts ...env.Options) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	typ := rv.Elem().Type()

	if cached, ok := cache.Load(typ); ok {
		rv.Elem().Set(cached.(reflect.Value))
		return nil
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	if err := parse(v, opts...); err != nil {
		return err
	}

	snapshot := reflect.New(typ).Elem()
	snapshot.Set(rv.Elem())
	cache.Store(typ, snapshot)
	return nil
}

// MustLoad is Load that panics on failure. Useful for startup.
func MustLoad(v any, opts ...env.Options) {
	if err := Load(v, opts...); err != nil {
		panic(err)
	}
}

// LoadEnvFile reads variables from the given dotenv files into the process
// environment without overriding variables already set.
func LoadEnvFile(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("config: load env file: %w", err)
	}
	return nil
}

// Parse fills v from the environment without caching. Fields already set in
// v keep their value unless a variable or envDefault overrides them.
func Parse(v any, opts ...env.Options) error {
	return parse(v, opts...)
}

func parse(v any, opts ...env.Options) error {
	var opt env.Options
	if len(opts) > 0 {
		opt = opts[0]
	}
	if err := env.ParseWithOptions(v, opt); err != nil {
		return fmt.Errorf("config: parse environment: %w", err)
	}
	return nil
}

// reset clears the per-type cache. Tests only.
func reset() {
	cache.Range(func(k, _ any) bool {
		cache.Delete(k)
		return true
	})
}
