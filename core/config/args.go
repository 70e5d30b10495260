package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedParameter is returned for command-line arguments that are not
// in the form -key [value].
var ErrMalformedParameter = errors.New("malformed parameter")

// Args is a Source built from command-line arguments.
type Args []string

// FromArgs returns a Source for arguments of the form
// "-key value" or "-flag". Keys may be dotted ("-tcp.port 8081"). A flag
// followed by another flag, or by nothing, is set to true. Values are typed
// by ParseValue.
func FromArgs(args []string) Args {
	return Args(args)
}

// Apply implements Source.
func (a Args) Apply(store Store) error {
	var (
		current string
		pending bool
	)

	for _, arg := range a {
		if strings.HasPrefix(arg, "-") {
			if pending {
				if err := store.Set(splitKey(current), true); err != nil {
					return err
				}
			}
			current = strings.TrimPrefix(arg, "-")
			pending = true
			continue
		}
		if !pending {
			return fmt.Errorf("%w: %q, parameters should be provided in the format -parameter [value]", ErrMalformedParameter, arg)
		}
		if err := store.Set(splitKey(current), ParseValue(arg)); err != nil {
			return err
		}
		pending = false
	}

	if pending {
		return store.Set(splitKey(current), true)
	}
	return nil
}

func splitKey(key string) []string {
	return strings.Split(key, ".")
}

// ParseValue types a raw string: null spellings become nil, then int,
// float64 and bool are tried in that order, and anything else stays a
// string.
func ParseValue(s string) any {
	switch s {
	case "NULL", "Null", "null", "NIL", "Nil", "nil":
		return nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "TRUE", "True", "true", "YES", "Yes", "yes":
		return true
	case "FALSE", "False", "false", "NO", "No", "no":
		return false
	}
	return s
}
