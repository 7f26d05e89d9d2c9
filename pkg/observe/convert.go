package observe

import "math"

// Int returns the value at key as an int. JSON and YAML decoders hand back
// float64 and int64, so both are accepted. Anything else yields 0.
func (o *Object) Int(key string) int {
	switch v := o.raw[key].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	case float32:
		return int(math.Round(float64(v)))
	case float64:
		return int(math.Round(v))
	}
	return 0
}

// Float returns the value at key as a float64, or 0.
func (o *Object) Float(key string) float64 {
	switch v := o.raw[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	}
	return 0
}

// String returns the value at key if it is a string, or "".
func (o *Object) String(key string) string {
	s, _ := o.raw[key].(string)
	return s
}

// Bool returns the value at key if it is a bool, or false.
func (o *Object) Bool(key string) bool {
	b, _ := o.raw[key].(bool)
	return b
}

func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = clone(e)
		}
		return out
	case *Object:
		return cloneMap(t.raw)
	}
	return v
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = clone(v)
	}
	return out
}

// CloneMap returns a deep copy of m. Nested maps and []any slices are
// copied; other values are shared.
func CloneMap(m map[string]any) map[string]any {
	return cloneMap(m)
}
