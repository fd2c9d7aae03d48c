package toolserver

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/orca-network/orca/engine/core"
)

const maxIntArg = math.MaxInt32

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", core.ValidationError("%s must be a string", key)
	}
	return s, nil
}

// intArg returns nil when the argument is absent. Integral floats and
// numeric strings are accepted since JSON clients differ on number encoding.
func intArg(args map[string]any, key string) (*int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	var n float64
	switch val := v.(type) {
	case float64:
		n = val
	case int:
		n = float64(val)
	case int64:
		n = float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, core.ValidationError("%s must be an integer", key)
		}
		n = f
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, core.ValidationError("%s must be an integer, got %q", key, val)
		}
		n = float64(i)
	default:
		return nil, core.ValidationError("%s must be an integer", key)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		return nil, core.ValidationError("%s must be an integer, got %v", key, v)
	}
	n = min(n, maxIntArg)
	i := int(max(n, -maxIntArg))
	return &i, nil
}

// mapArg accepts a JSON object or a string holding one.
func mapArg(args map[string]any, key string) (core.Map, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case map[string]any:
		m, err := core.MapFromAny(val)
		if err != nil {
			return nil, core.ValidationError("%s: %s", key, err)
		}
		return m, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		parsed, err := core.ParseJSON([]byte(val))
		if err != nil {
			return nil, core.ValidationError("%s must be a JSON object: %s", key, err)
		}
		m, ok := parsed.(core.Map)
		if !ok {
			return nil, core.ValidationError("%s must be a JSON object", key)
		}
		return m, nil
	default:
		return nil, core.ValidationError("%s must be an object", key)
	}
}
