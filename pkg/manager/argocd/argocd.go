package argocd

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/j-be/renovate/pkg/dep"
	"github.com/j-be/renovate/pkg/image"
	"github.com/j-be/renovate/pkg/manager"
	"github.com/j-be/renovate/pkg/manifest"
	"github.com/sirupsen/logrus"
	"helm.sh/helm/v3/pkg/registry"
	"sigs.k8s.io/yaml"
)

// apiVersionMarker is a cheap check for the ArgoCD API group, so a
// repository scan does not fully parse every YAML file it visits.
var apiVersionMarker = regexp.MustCompile(`apiVersion:\s*['"]?argoproj\.io/`)

// imageOverridePattern splits a kustomize name=image override into its
// two parts. Both groups are greedy, so with multiple '=' characters the
// split happens at the last one.
var imageOverridePattern = regexp.MustCompile(`(.+)=(.+)`)

type Manager struct{}

func New() *Manager {
	return &Manager{}
}

func (m *Manager) Name() string {
	return "argocd"
}

func (m *Manager) Accepts(packageFile string, content []byte) bool {
	return apiVersionMarker.Match(content)
}

func (m *Manager) Extract(content []byte, packageFile string, config *manager.ExtractConfig) *dep.ExtractResult {
	return Extract(content, packageFile, config)
}

// Extract pulls the dependency references out of an ArgoCD manifest.
// It returns nil when the content is not an ArgoCD manifest, cannot be
// parsed, or holds no dependencies.
func Extract(content []byte, packageFile string, config *manager.ExtractConfig) *dep.ExtractResult {
	if !apiVersionMarker.Match(content) {
		logrus.Debugf("skipping %s: no ArgoCD apiVersion found", packageFile)
		return nil
	}

	docs, err := manifest.SplitDocuments(content)
	if err != nil {
		logrus.Debugf("cannot parse %s: %s", packageFile, err)
		return nil
	}
	docs = manifest.FilterValid(docs, schemaLoader)

	var deps []dep.PackageDependency
	for _, doc := range docs {
		spec := applicationSpec(doc)
		if spec == nil {
			continue
		}

		if spec.Source != nil {
			deps = append(deps, resolveSource(*spec.Source, config)...)
		}
		for _, source := range spec.Sources {
			deps = append(deps, resolveSource(source, config)...)
		}
	}

	if len(deps) == 0 {
		return nil
	}
	return &dep.ExtractResult{Deps: deps}
}

// applicationSpec projects a document onto its effective application
// spec: kind Application holds it directly, ApplicationSet nests it
// under spec.template.spec. Absent shapes degrade to an empty spec.
func applicationSpec(doc []byte) *ApplicationSpec {
	switch manifest.TypeMeta(doc).Kind {
	case "Application":
		var app application
		if err := yaml.Unmarshal(doc, &app); err != nil {
			return nil
		}
		return &app.Spec
	case "ApplicationSet":
		var appSet applicationSet
		if err := yaml.Unmarshal(doc, &appSet); err != nil {
			return nil
		}
		return &appSet.Spec.Template.Spec
	}
	return nil
}

func resolveSource(source ApplicationSource, config *manager.ExtractConfig) []dep.PackageDependency {
	repoURL := config.ResolveAlias(source.RepoURL)

	if source.Chart != "" {
		// An explicit oci:// URL or a bare registry host both mean the
		// chart lives in an OCI registry and versions like a container
		// image. Anything else is a classic Helm repository index.
		if registry.IsOCI(repoURL) || !strings.Contains(repoURL, "://") {
			host := strings.TrimPrefix(repoURL, fmt.Sprintf("%s://", registry.OCIScheme))
			host = strings.TrimSuffix(host, "/")
			return []dep.PackageDependency{{
				DepName:      fmt.Sprintf("%s/%s", host, source.Chart),
				CurrentValue: source.TargetRevision,
				Datasource:   dep.DatasourceDocker,
			}}
		}
		return []dep.PackageDependency{{
			DepName:      source.Chart,
			CurrentValue: source.TargetRevision,
			Datasource:   dep.DatasourceHelm,
			RegistryURLs: []string{repoURL},
		}}
	}

	deps := []dep.PackageDependency{{
		DepName:      repoURL,
		CurrentValue: source.TargetRevision,
		Datasource:   dep.DatasourceGitTags,
	}}

	if source.Kustomize != nil {
		for _, override := range source.Kustomize.Images {
			if d, ok := imageOverrideDep(override); ok {
				deps = append(deps, d)
			}
		}
	}

	return deps
}

// imageOverrideDep parses a name=image[:tag] kustomize override.
// Malformed overrides are dropped without failing their siblings.
func imageOverrideDep(override string) (dep.PackageDependency, bool) {
	groups := imageOverridePattern.FindStringSubmatch(override)
	if len(groups) != 3 {
		return dep.PackageDependency{}, false
	}
	return image.Dep(groups[2]), true
}
