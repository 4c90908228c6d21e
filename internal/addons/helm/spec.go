package helm

// ChartSpec identifies one chart in a repository.
type ChartSpec struct {
	Repository string
	Name       string
	Version    string
}

// DefaultChartSpecs pins the chart repositories and versions for each
// addon. The version is overridable per addon in the config file.
var DefaultChartSpecs = map[string]ChartSpec{
	"ingress-nginx": {
		Repository: "https://kubernetes.github.io/ingress-nginx",
		Name:       "ingress-nginx",
		Version:    "4.11.3",
	},
	"external-dns": {
		Repository: "https://kubernetes-sigs.github.io/external-dns",
		Name:       "external-dns",
		Version:    "1.15.0",
	},
}

// GetChartSpec returns the pinned spec for name, with version overridden
// when the config sets one. An unknown addon yields a zero spec.
func GetChartSpec(name, versionOverride string) ChartSpec {
	spec, ok := DefaultChartSpecs[name]
	if !ok {
		return ChartSpec{}
	}
	if versionOverride != "" {
		spec.Version = versionOverride
	}
	return spec
}
