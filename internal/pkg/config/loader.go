package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Result is a loaded setting. When FallbackApplied is set, Value is the
// default and Warning says why the configured value was rejected.
type Result[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// Load reads key, parses it and validates it. An unset key yields def
// without a warning; an unparseable or invalid value yields def with one.
func Load[T any](key string, def T, parse func(string) (T, error), validate func(T) error) Result[T] {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return Result[T]{Value: def}
	}

	v, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(v)
	}
	if err != nil {
		return Result[T]{
			Value:           def,
			Warning:         fmt.Sprintf("%s=%q rejected, using default %v: %v", key, raw, def, err),
			FallbackApplied: true,
		}
	}
	return Result[T]{Value: v}
}

// LoadString loads a string setting.
func LoadString(key, def string, validate func(string) error) Result[string] {
	return Load(key, def, func(s string) (string, error) { return s, nil }, validate)
}

// LoadDuration loads a time.ParseDuration setting.
func LoadDuration(key string, def time.Duration, validate func(time.Duration) error) Result[time.Duration] {
	return Load(key, def, time.ParseDuration, validate)
}

// LoadInt loads an integer setting.
func LoadInt(key string, def int, validate func(int) error) Result[int] {
	return Load(key, def, strconv.Atoi, validate)
}
