package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"

	"git.home.luguber.info/inful/mdbook-chapter-zero/internal/errors"
)

const (
	keyLevels = "levels"
	keyMarker = "marker"
)

// Sentinel causes carried by the classified errors Resolve returns.
var (
	ErrInvalidLevels = stderrors.New("invalid levels")
	ErrInvalidMarker = stderrors.New("invalid marker")
)

// Resolve validates the raw chapter-zero table. A nil table yields Default().
//
// Keys other than "levels" and "marker" are ignored; the host adds its own
// (command, before, after, renderers) to every preprocessor table.
func Resolve(raw map[string]any) (*Config, error) {
	cfg := Default()
	if raw == nil {
		return cfg, nil
	}

	if v, ok := raw[keyLevels]; ok {
		levels, err := resolveLevels(v)
		if err != nil {
			return nil, err
		}
		cfg.Levels = levels
	}

	if v, ok := raw[keyMarker]; ok {
		marker, ok := v.(string)
		if !ok {
			return nil, invalid(keyMarker, v, ErrInvalidMarker,
				fmt.Sprintf("marker %s is not a valid string", describe(v)))
		}
		cfg.Marker = marker
	}

	return cfg, nil
}

func resolveLevels(v any) (Levels, error) {
	elems, ok := asArray(v)
	if !ok {
		return nil, invalid(keyLevels, v, ErrInvalidLevels,
			fmt.Sprintf("levels %s is not a valid array", describe(v)))
	}

	levels := NewLevels()
	for _, elem := range elems {
		d, ok := asDepth(elem)
		if !ok {
			return nil, invalid(keyLevels, elem, ErrInvalidLevels,
				fmt.Sprintf("level %s is not a valid non-negative integer", describe(elem)))
		}
		levels[d] = struct{}{}
	}
	return levels, nil
}

func asArray(v any) ([]any, bool) {
	switch arr := v.(type) {
	case []any:
		return arr, true
	case []int:
		out := make([]any, len(arr))
		for i, x := range arr {
			out[i] = x
		}
		return out, true
	case []int64:
		out := make([]any, len(arr))
		for i, x := range arr {
			out[i] = x
		}
		return out, true
	default:
		return nil, false
	}
}

// asDepth accepts integer representations only. Floats are rejected even
// when integral, matching TOML where 1.0 is not an integer.
func asDepth(v any) (int, bool) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, false
		}
		n = int64(x)
	case uint8:
		n = int64(x)
	case uint16:
		n = int64(x)
	case uint32:
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		n = int64(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}
	if n < 0 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

func invalid(field string, value any, cause error, message string) error {
	return errors.ConfigError(message).
		WithContext("field", field).
		WithContext("value", value).
		WithCause(cause).
		Build()
}

func describe(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", x)
	}
}
