package addons

import (
	"github.com/imamik/robotpool/internal/addons/helm"
	"github.com/imamik/robotpool/internal/config"
)

// renderExternalDNS renders external-dns watching Ingress resources, so
// services exposed on the dedicated ingress tier get DNS records
// automatically.
func renderExternalDNS(cfg *config.Config) ([]byte, error) {
	values := buildExternalDNSValues(cfg)
	spec := helm.GetChartSpec("external-dns", cfg.Addons.ExternalDNS.Version)
	return helm.RenderFromSpec(spec, "external-dns", "external-dns", values)
}

func buildExternalDNSValues(cfg *config.Config) helm.Values {
	values := helm.Values{
		"sources":    []any{"ingress"},
		"policy":     "sync",
		"txtOwnerId": cfg.ClusterName,
	}
	if len(cfg.Addons.ExternalDNS.Values) > 0 {
		values = helm.Merge(values, helm.Values(cfg.Addons.ExternalDNS.Values))
	}
	return values
}
