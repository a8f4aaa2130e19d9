package loader

import (
	"fmt"
	"time"
)

// confString reads an optional string setting from a component config.
func confString(conf map[string]any, key, fallback string) string {
	if v, ok := conf[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// confStringMap reads a map-of-strings setting, tolerating the map[string]any
// shape produced by the YAML and JSON decoders.
func confStringMap(conf map[string]any, key string) map[string]string {
	out := make(map[string]string)
	v, ok := conf[key]
	if !ok {
		return out
	}
	switch m := v.(type) {
	case map[string]string:
		for k, val := range m {
			out[k] = val
		}
	case map[string]any:
		for k, val := range m {
			if s, ok := val.(string); ok {
				out[k] = s
			}
		}
	}
	return out
}

// confAnyMap reads a nested config map setting.
func confAnyMap(conf map[string]any, key string) map[string]any {
	if v, ok := conf[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

// confDuration reads a timeout setting. Strings go through
// time.ParseDuration; bare numbers are taken as seconds, which is the shape
// older manifests used.
func confDuration(conf map[string]any, key string, fallback time.Duration) (time.Duration, error) {
	v, ok := conf[key]
	if !ok {
		return fallback, nil
	}
	switch t := v.(type) {
	case string:
		d, err := time.ParseDuration(t)
		if err != nil {
			return 0, fmt.Errorf("invalid %s duration %q: %w", key, t, err)
		}
		return d, nil
	case int:
		return time.Duration(t) * time.Second, nil
	case float64:
		return time.Duration(t * float64(time.Second)), nil
	default:
		return 0, fmt.Errorf("invalid %s value of type %T", key, v)
	}
}
