package kustomize

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/j-be/renovate/pkg/dep"
	"github.com/j-be/renovate/pkg/manager"
	"github.com/sirupsen/logrus"
	"helm.sh/helm/v3/pkg/registry"
	"sigs.k8s.io/kustomize/api/types"
	"sigs.k8s.io/yaml"
)

var kindMarker = regexp.MustCompile(`(?m)^kind:\s*['"]?Kustomization['"]?\s*$`)

type Manager struct{}

func New() *Manager {
	return &Manager{}
}

func (m *Manager) Name() string {
	return "kustomize"
}

// Accepts matches the conventional file name, or an explicit
// kind: Kustomization for files named differently.
func (m *Manager) Accepts(packageFile string, content []byte) bool {
	base := filepath.Base(packageFile)
	if base == "kustomization.yaml" || base == "kustomization.yml" {
		return true
	}
	return kindMarker.Match(content)
}

func (m *Manager) Extract(content []byte, packageFile string, config *manager.ExtractConfig) *dep.ExtractResult {
	return Extract(content, packageFile, config)
}

// Extract pulls image overrides and helm chart inflations out of a
// kustomization file.
func Extract(content []byte, packageFile string, config *manager.ExtractConfig) *dep.ExtractResult {
	var kustomization types.Kustomization
	if err := yaml.Unmarshal(content, &kustomization); err != nil {
		logrus.Debugf("cannot parse %s: %s", packageFile, err)
		return nil
	}
	if kustomization.APIVersion != "" &&
		!strings.Contains(kustomization.APIVersion, "kustomize.config.k8s.io") {
		// kind Kustomization also exists in the Flux API group
		return nil
	}

	var deps []dep.PackageDependency
	for _, override := range kustomization.Images {
		if d, ok := imageDep(override); ok {
			deps = append(deps, d)
		}
	}
	for _, chart := range kustomization.HelmCharts {
		if d, ok := helmChartDep(chart, config); ok {
			deps = append(deps, d)
		}
	}

	if len(deps) == 0 {
		return nil
	}
	return &dep.ExtractResult{Deps: deps}
}

// imageDep converts an image override. Overrides pinning neither a tag
// nor a digest carry no version and are dropped.
func imageDep(override types.Image) (dep.PackageDependency, bool) {
	name := override.Name
	if override.NewName != "" {
		name = override.NewName
	}
	if name == "" || (override.NewTag == "" && override.Digest == "") {
		return dep.PackageDependency{}, false
	}
	return dep.PackageDependency{
		DepName:       name,
		CurrentValue:  override.NewTag,
		CurrentDigest: override.Digest,
		Datasource:    dep.DatasourceDocker,
	}, true
}

func helmChartDep(chart types.HelmChart, config *manager.ExtractConfig) (dep.PackageDependency, bool) {
	if chart.Name == "" {
		return dep.PackageDependency{}, false
	}

	repoURL := config.ResolveAlias(chart.Repo)
	if registry.IsOCI(repoURL) {
		host := strings.TrimPrefix(repoURL, fmt.Sprintf("%s://", registry.OCIScheme))
		host = strings.TrimSuffix(host, "/")
		return dep.PackageDependency{
			DepName:      fmt.Sprintf("%s/%s", host, chart.Name),
			CurrentValue: chart.Version,
			Datasource:   dep.DatasourceDocker,
		}, true
	}

	d := dep.PackageDependency{
		DepName:      chart.Name,
		CurrentValue: chart.Version,
		Datasource:   dep.DatasourceHelm,
	}
	if repoURL != "" {
		d.RegistryURLs = []string{repoURL}
	}
	return d, true
}
