package flux

import (
	"fmt"
	"regexp"
	"strings"

	helmv2 "github.com/fluxcd/helm-controller/api/v2"
	sourcev1 "github.com/fluxcd/source-controller/api/v1"
	sourcev1b2 "github.com/fluxcd/source-controller/api/v1beta2"
	"github.com/j-be/renovate/pkg/dep"
	"github.com/j-be/renovate/pkg/manager"
	"github.com/j-be/renovate/pkg/manifest"
	"github.com/sirupsen/logrus"
	"helm.sh/helm/v3/pkg/registry"
	"sigs.k8s.io/yaml"
)

var apiVersionMarker = regexp.MustCompile(`apiVersion:\s*['"]?[\w.]*toolkit\.fluxcd\.io/`)

type Manager struct{}

func New() *Manager {
	return &Manager{}
}

func (m *Manager) Name() string {
	return "flux"
}

func (m *Manager) Accepts(packageFile string, content []byte) bool {
	return apiVersionMarker.Match(content)
}

func (m *Manager) Extract(content []byte, packageFile string, config *manager.ExtractConfig) *dep.ExtractResult {
	return Extract(content, packageFile, config)
}

// Extract pulls the dependency references out of a Flux manifest:
// HelmReleases with the HelmRepositories they reference, GitRepositories
// pinned to a tag, and OCIRepositories. Unknown kinds and documents that
// fail to decode are skipped one by one.
func Extract(content []byte, packageFile string, config *manager.ExtractConfig) *dep.ExtractResult {
	if !apiVersionMarker.Match(content) {
		logrus.Debugf("skipping %s: no Flux apiVersion found", packageFile)
		return nil
	}

	docs, err := manifest.SplitDocuments(content)
	if err != nil {
		logrus.Debugf("cannot parse %s: %s", packageFile, err)
		return nil
	}

	// HelmReleases reference their repository by name, and the repository
	// document may come later in the file. Collect repositories first.
	repositories := map[string]sourcev1.HelmRepository{}
	for _, doc := range docs {
		if manifest.TypeMeta(doc).Kind != sourcev1.HelmRepositoryKind {
			continue
		}
		var repository sourcev1.HelmRepository
		if err := yaml.Unmarshal(doc, &repository); err != nil {
			continue
		}
		key := fmt.Sprintf("%s/%s", repository.Namespace, repository.Name)
		repositories[key] = repository
	}

	var deps []dep.PackageDependency
	for _, doc := range docs {
		switch manifest.TypeMeta(doc).Kind {
		case helmv2.HelmReleaseKind:
			var release helmv2.HelmRelease
			if err := yaml.Unmarshal(doc, &release); err != nil {
				continue
			}
			if d, ok := helmReleaseDep(release, repositories, config); ok {
				deps = append(deps, d)
			}
		case sourcev1.GitRepositoryKind:
			var repository sourcev1.GitRepository
			if err := yaml.Unmarshal(doc, &repository); err != nil {
				continue
			}
			if d, ok := gitRepositoryDep(repository); ok {
				deps = append(deps, d)
			}
		case sourcev1b2.OCIRepositoryKind:
			var repository sourcev1b2.OCIRepository
			if err := yaml.Unmarshal(doc, &repository); err != nil {
				continue
			}
			if d, ok := ociRepositoryDep(repository); ok {
				deps = append(deps, d)
			}
		}
	}

	if len(deps) == 0 {
		return nil
	}
	return &dep.ExtractResult{Deps: deps}
}

// helmReleaseDep resolves a HelmRelease chart template against the
// HelmRepositories found in the same file. A release with a chartRef
// emits nothing: the referenced OCIRepository document carries the
// version and is extracted on its own.
func helmReleaseDep(release helmv2.HelmRelease, repositories map[string]sourcev1.HelmRepository, config *manager.ExtractConfig) (dep.PackageDependency, bool) {
	if release.Spec.Chart == nil {
		return dep.PackageDependency{}, false
	}

	chart := release.Spec.Chart.Spec
	if chart.Chart == "" {
		return dep.PackageDependency{}, false
	}

	namespace := chart.SourceRef.Namespace
	if namespace == "" {
		namespace = release.Namespace
	}
	repository, found := repositories[fmt.Sprintf("%s/%s", namespace, chart.SourceRef.Name)]
	if !found || chart.SourceRef.Kind != sourcev1.HelmRepositoryKind {
		// The repository may live in another file, with registries
		// configured globally downstream.
		return dep.PackageDependency{
			DepName:      chart.Chart,
			CurrentValue: chart.Version,
			Datasource:   dep.DatasourceHelm,
		}, true
	}

	repoURL := config.ResolveAlias(repository.Spec.URL)
	if repository.Spec.Type == sourcev1.HelmRepositoryTypeOCI || registry.IsOCI(repoURL) {
		host := strings.TrimPrefix(repoURL, fmt.Sprintf("%s://", registry.OCIScheme))
		host = strings.TrimSuffix(host, "/")
		return dep.PackageDependency{
			DepName:      fmt.Sprintf("%s/%s", host, chart.Chart),
			CurrentValue: chart.Version,
			Datasource:   dep.DatasourceDocker,
		}, true
	}

	return dep.PackageDependency{
		DepName:      chart.Chart,
		CurrentValue: chart.Version,
		Datasource:   dep.DatasourceHelm,
		RegistryURLs: []string{repoURL},
	}, true
}

// gitRepositoryDep extracts a GitRepository pinned to a tag. Branch and
// commit references are not versions, those repositories are skipped.
func gitRepositoryDep(repository sourcev1.GitRepository) (dep.PackageDependency, bool) {
	if repository.Spec.Reference == nil || repository.Spec.Reference.Tag == "" {
		return dep.PackageDependency{}, false
	}
	return dep.PackageDependency{
		DepName:      repository.Spec.URL,
		CurrentValue: repository.Spec.Reference.Tag,
		Datasource:   dep.DatasourceGitTags,
	}, true
}

func ociRepositoryDep(repository sourcev1b2.OCIRepository) (dep.PackageDependency, bool) {
	ref := repository.Spec.Reference
	if ref == nil || (ref.Tag == "" && ref.Digest == "") {
		return dep.PackageDependency{}, false
	}
	host := strings.TrimPrefix(repository.Spec.URL, fmt.Sprintf("%s://", registry.OCIScheme))
	host = strings.TrimSuffix(host, "/")
	return dep.PackageDependency{
		DepName:       host,
		CurrentValue:  ref.Tag,
		CurrentDigest: ref.Digest,
		Datasource:    dep.DatasourceDocker,
	}, true
}
