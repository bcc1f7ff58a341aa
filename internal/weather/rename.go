package weather

import (
	"encoding/json"
	"fmt"
)

// Rename converts a raw reduceRegion dictionary into a Sample. Only bands
// present in raw appear in the result; unknown bands are dropped. A nil raw
// result is not a dictionary and is rejected.
func Rename(raw any) (Sample, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: no result", ErrInvalidValue)
	}

	values, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a dictionary, got %T", ErrInvalidValue, raw)
	}

	out := make(Sample, len(Variables))
	for _, v := range Variables {
		rawValue, present := values[v.Band]
		if !present {
			continue
		}
		if rawValue == nil {
			out[v.Key] = nil
			continue
		}

		f, err := toFloat(rawValue)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, v.Band, err)
		}
		scaled := f * v.Factor
		out[v.Key] = &scaled
	}

	return out, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}
