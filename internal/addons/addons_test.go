package addons

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imamik/robotpool/internal/config"
	"github.com/imamik/robotpool/internal/fleet"
)

func addonConfig(nodes int) *config.Config {
	pool := config.DedicatedPool{Name: "metal", VSwitch: "vs-a"}
	for i := 0; i < nodes; i++ {
		pool.Nodes = append(pool.Nodes, fleet.RawNode{Hostname: fmt.Sprintf("metal-%d", i+1)})
	}
	return &config.Config{
		ClusterName:    "prod",
		DedicatedPools: []config.DedicatedPool{pool},
	}
}

func TestBuildIngressNginxValues(t *testing.T) {
	t.Parallel()
	values := buildIngressNginxValues(addonConfig(2)).ToMap()

	controller := values["controller"].(map[string]any)
	assert.Equal(t, 2, controller["replicaCount"])

	selector := controller["nodeSelector"].(map[string]any)
	assert.Equal(t, "true", selector["robotpool.io/dedicated-server"])

	webhooks := controller["admissionWebhooks"].(map[string]any)
	assert.Equal(t, false, webhooks["enabled"])
}

func TestBuildIngressNginxValues_ScalesReplicasWithFleet(t *testing.T) {
	t.Parallel()
	values := buildIngressNginxValues(addonConfig(4)).ToMap()
	controller := values["controller"].(map[string]any)
	assert.Equal(t, 3, controller["replicaCount"])
}

func TestBuildIngressNginxValues_ConfigOverridesWin(t *testing.T) {
	t.Parallel()
	cfg := addonConfig(2)
	cfg.Addons.IngressNginx.Values = map[string]any{
		"controller": map[string]any{
			"replicaCount": 5,
		},
	}

	values := buildIngressNginxValues(cfg).ToMap()
	controller := values["controller"].(map[string]any)
	assert.Equal(t, 5, controller["replicaCount"])
	// The deep merge keeps sibling keys from the defaults.
	assert.Contains(t, controller, "nodeSelector")
}

func TestBuildExternalDNSValues(t *testing.T) {
	t.Parallel()
	cfg := addonConfig(1)
	values := buildExternalDNSValues(cfg)

	assert.Equal(t, "prod", values["txtOwnerId"])
	assert.Equal(t, "sync", values["policy"])
	assert.Equal(t, []any{"ingress"}, values["sources"])
}

func TestRender_DisabledAddonsProduceNothing(t *testing.T) {
	t.Parallel()
	manifests, err := Render(addonConfig(1))
	assert.NoError(t, err)
	assert.Empty(t, manifests)
}
