package helm

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/chartutil"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/engine"
	"helm.sh/helm/v3/pkg/getter"
	"helm.sh/helm/v3/pkg/repo"
)

// kubeVersion is the Kubernetes version templates render against, so
// charts pick current API versions.
const kubeVersion = "1.34"

// RenderFromSpec downloads the chart and renders it with the provided
// values merged over the chart defaults.
func RenderFromSpec(spec ChartSpec, releaseName, namespace string, values Values) ([]byte, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("empty chart spec")
	}

	loadedChart, err := downloadChart(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to download chart %s: %w", spec.Name, err)
	}
	return renderChart(loadedChart, releaseName, namespace, values)
}

// RenderFromPath renders a chart from a local directory, useful for
// vendored charts and tests.
func RenderFromPath(chartPath, releaseName, namespace string, values Values) ([]byte, error) {
	loadedChart, err := loader.Load(chartPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart from %s: %w", chartPath, err)
	}
	return renderChart(loadedChart, releaseName, namespace, values)
}

func downloadChart(spec ChartSpec) (*chart.Chart, error) {
	settings := cli.New()

	chartPath, err := repo.FindChartInRepoURL(
		spec.Repository,
		spec.Name,
		spec.Version,
		"", "", "",
		getter.All(settings),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find chart %s in repo %s: %w", spec.Name, spec.Repository, err)
	}
	defer func() {
		_ = os.Remove(chartPath)
	}()

	return loader.Load(chartPath)
}

func renderChart(ch *chart.Chart, releaseName, namespace string, values Values) ([]byte, error) {
	chartDefaults := make(Values)
	if len(ch.Values) > 0 {
		chartDefaults = Values(ch.Values)
	}
	merged := deepMerge(chartDefaults, values).ToMap()

	releaseOptions := chartutil.ReleaseOptions{
		Name:      releaseName,
		Namespace: namespace,
		IsInstall: true,
	}

	capabilities := chartutil.DefaultCapabilities.Copy()
	capabilities.KubeVersion.Version = "v" + kubeVersion + ".0"
	major, minor, _ := strings.Cut(kubeVersion, ".")
	capabilities.KubeVersion.Major = major
	capabilities.KubeVersion.Minor = minor

	valuesToRender, err := chartutil.ToRenderValues(ch, chartutil.Values(merged), releaseOptions, capabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare values: %w", err)
	}

	rendered, err := (engine.Engine{}).Render(ch, valuesToRender)
	if err != nil {
		return nil, fmt.Errorf("failed to render templates: %w", err)
	}

	var combined bytes.Buffer
	for name, content := range rendered {
		if filepath.Base(name) == "NOTES.txt" {
			continue
		}
		trimmed := strings.TrimSpace(content)
		if trimmed == "" {
			continue
		}
		if combined.Len() > 0 {
			combined.WriteString("\n---\n")
		}
		combined.WriteString(trimmed)
		combined.WriteString("\n")
	}
	return combined.Bytes(), nil
}
