package helm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_DeepMergesNestedMaps(t *testing.T) {
	t.Parallel()
	base := Values{
		"controller": Values{
			"replicaCount": 2,
			"service":      Values{"type": "LoadBalancer"},
		},
	}
	override := Values{
		"controller": Values{
			"replicaCount": 5,
		},
	}

	merged := Merge(base, override)

	controller := merged["controller"].(Values)
	assert.Equal(t, 5, controller["replicaCount"])
	service := controller["service"].(Values)
	assert.Equal(t, "LoadBalancer", service["type"], "sibling keys survive the override")
}

func TestMerge_ListsReplaceWholesale(t *testing.T) {
	t.Parallel()
	base := Values{"sources": []any{"ingress", "service"}}
	override := Values{"sources": []any{"ingress"}}

	merged := Merge(base, override)
	assert.Equal(t, []any{"ingress"}, merged["sources"])
}

func TestMerge_PlainMapsAreMergedToo(t *testing.T) {
	t.Parallel()
	base := Values{"a": map[string]any{"x": 1}}
	override := Values{"a": map[string]any{"y": 2}}

	merged := Merge(base, override)
	a := merged["a"].(Values)
	assert.Equal(t, 1, a["x"])
	assert.Equal(t, 2, a["y"])
}

func TestValues_YAMLRoundTrip(t *testing.T) {
	t.Parallel()
	original := Values{
		"provider": Values{"name": "cloudflare"},
		"policy":   "sync",
	}

	data, err := original.ToYAML()
	require.NoError(t, err)

	parsed, err := FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, "sync", parsed["policy"])
	provider := parsed["provider"].(map[string]any)
	assert.Equal(t, "cloudflare", provider["name"])
}

func TestValues_ToMapConvertsNestedValues(t *testing.T) {
	t.Parallel()
	v := Values{
		"outer": Values{
			"inner": Values{"leaf": true},
		},
	}

	plain := v.ToMap()
	outer, ok := plain["outer"].(map[string]any)
	require.True(t, ok)
	inner, ok := outer["inner"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, inner["leaf"])
}

func TestGetChartSpec(t *testing.T) {
	t.Parallel()
	spec := GetChartSpec("ingress-nginx", "")
	assert.Equal(t, "ingress-nginx", spec.Name)
	assert.NotEmpty(t, spec.Version)

	pinned := GetChartSpec("ingress-nginx", "4.12.0")
	assert.Equal(t, "4.12.0", pinned.Version)

	unknown := GetChartSpec("no-such-addon", "")
	assert.Empty(t, unknown.Name)
}
