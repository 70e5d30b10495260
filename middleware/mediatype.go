package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ErrUnsupportedContent is returned by an encoder that cannot represent a value.
var ErrUnsupportedContent = errors.New("content cannot be encoded in this media type")

// MediaType converts between a wire representation and Go values.
type MediaType struct {
	// Name is the media type without parameters, e.g. "application/json".
	Name string
	// Decode parses a request body.
	Decode func(data []byte) (any, error)
	// Encode serializes a response value.
	Encode func(v any) ([]byte, error)
}

// JSON is the application/json media type. Request bodies decode into
// map[string]any, []any or a scalar.
var JSON = MediaType{
	Name: "application/json",
	Decode: func(data []byte) (any, error) {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	},
	Encode: func(v any) ([]byte, error) {
		return json.Marshal(v)
	},
}

// URLEncodedForm is the application/x-www-form-urlencoded media type.
// Request bodies decode into url.Values. Responses encode url.Values,
// map[string]string and map[string]any.
var URLEncodedForm = MediaType{
	Name: "application/x-www-form-urlencoded",
	Decode: func(data []byte) (any, error) {
		return url.ParseQuery(string(data))
	},
	Encode: encodeForm,
}

func encodeForm(v any) ([]byte, error) {
	switch m := v.(type) {
	case url.Values:
		return []byte(m.Encode()), nil
	case map[string]string:
		values := make(url.Values, len(m))
		for k, s := range m {
			values.Set(k, s)
		}
		return []byte(values.Encode()), nil
	case map[string]any:
		values := make(url.Values, len(m))
		for k, x := range m {
			values.Set(k, fmt.Sprint(x))
		}
		return []byte(values.Encode()), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedContent, v)
	}
}

type acceptRange struct {
	name string
	q    float64
}

// parseAccept returns the media ranges of an Accept header ordered by
// descending quality. Ranges with q=0 are dropped.
func parseAccept(header string) []acceptRange {
	var ranges []acceptRange
	for part := range strings.SplitSeq(header, ",") {
		fields := strings.Split(part, ";")
		name := strings.ToLower(strings.TrimSpace(fields[0]))
		if name == "" {
			continue
		}
		q := 1.0
		for _, param := range fields[1:] {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || strings.TrimSpace(key) != "q" {
				continue
			}
			if _, err := fmt.Sscanf(strings.TrimSpace(value), "%g", &q); err != nil {
				q = 0
			}
		}
		if q <= 0 {
			continue
		}
		ranges = append(ranges, acceptRange{name: name, q: q})
	}
	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].q > ranges[j].q
	})
	return ranges
}

// negotiate picks the media type for an Accept header. A missing header or
// "*/*" selects the first registered type.
func negotiate(header string, types []MediaType) (MediaType, bool) {
	if strings.TrimSpace(header) == "" {
		return types[0], true
	}
	for _, r := range parseAccept(header) {
		for _, mt := range types {
			if matchRange(r.name, mt.Name) {
				return mt, true
			}
		}
	}
	return MediaType{}, false
}

func matchRange(pattern, name string) bool {
	if pattern == "*/*" || pattern == name {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return strings.HasPrefix(name, prefix+"/")
	}
	return false
}
