package addons

import (
	"github.com/imamik/robotpool/internal/addons/helm"
	"github.com/imamik/robotpool/internal/config"
	"github.com/imamik/robotpool/internal/util/labels"
)

// renderIngressNginx renders the NGINX Ingress Controller pinned onto
// the dedicated servers. Dedicated machines have the bandwidth and
// stable addresses that make them the natural ingress tier.
//
// Admission webhooks are disabled: the kube-webhook-certgen hook jobs
// assume a helm install, not applied manifests.
func renderIngressNginx(cfg *config.Config) ([]byte, error) {
	values := buildIngressNginxValues(cfg)
	spec := helm.GetChartSpec("ingress-nginx", cfg.Addons.IngressNginx.Version)
	return helm.RenderFromSpec(spec, "ingress-nginx", "ingress-nginx", values)
}

func buildIngressNginxValues(cfg *config.Config) helm.Values {
	replicas := 2
	if n := len(cfg.FlattenNodes()); n >= 3 {
		replicas = 3
	}

	controller := helm.Values{
		"kind":         "Deployment",
		"replicaCount": replicas,
		"nodeSelector": helm.Values{
			labels.KeyDedicated: labels.DedicatedValue,
		},
		// Dedicated pools may carry NoSchedule taints; the ingress tier
		// must still land on them.
		"tolerations": []any{
			map[string]any{
				"operator": "Exists",
				"effect":   "NoSchedule",
			},
		},
		"service": helm.Values{
			"externalTrafficPolicy": "Local",
		},
		"admissionWebhooks": helm.Values{
			"enabled": false,
		},
		"watchIngressWithoutClass": true,
	}

	values := helm.Values{"controller": controller}
	if len(cfg.Addons.IngressNginx.Values) > 0 {
		values = helm.Merge(values, helm.Values(cfg.Addons.IngressNginx.Values))
	}
	return values
}
