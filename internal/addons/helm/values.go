// Package helm renders Helm charts to plain manifests without a
// Tiller-style install, so the output can be applied or handed to the
// operator as files.
package helm

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Values represents helm chart values as a map.
type Values map[string]any

// Merge deep-merges multiple Values maps with later maps taking
// precedence. Nested maps merge key by key; scalars and lists replace.
func Merge(valueMaps ...Values) Values {
	result := make(Values)
	for _, m := range valueMaps {
		result = deepMerge(result, Values(m))
	}
	return result
}

// ToYAML converts values to YAML bytes.
func (v Values) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode values to YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// FromYAML parses YAML bytes into Values.
func FromYAML(data []byte) (Values, error) {
	var values Values
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse YAML values: %w", err)
	}
	return values, nil
}

// ToMap converts Values to a plain map recursively so the helm engine
// sees only map[string]any.
func (v Values) ToMap() map[string]any {
	out := make(map[string]any, len(v))
	for k, val := range v {
		switch typed := val.(type) {
		case Values:
			out[k] = typed.ToMap()
		case map[string]any:
			out[k] = Values(typed).ToMap()
		default:
			out[k] = val
		}
	}
	return out
}

func deepMerge(dst, src Values) Values {
	out := make(Values, len(dst))
	for k, v := range dst {
		out[k] = v
	}
	for k, srcVal := range src {
		dstMap, dstOK := asValues(out[k])
		srcMap, srcOK := asValues(srcVal)
		if dstOK && srcOK {
			out[k] = deepMerge(dstMap, srcMap)
			continue
		}
		out[k] = srcVal
	}
	return out
}

func asValues(v any) (Values, bool) {
	switch typed := v.(type) {
	case Values:
		return typed, true
	case map[string]any:
		return Values(typed), true
	default:
		return nil, false
	}
}
