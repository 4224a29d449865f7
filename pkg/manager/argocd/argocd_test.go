package argocd

import (
	"testing"

	"github.com/j-be/renovate/pkg/dep"
	"github.com/j-be/renovate/pkg/manager"
	"github.com/stretchr/testify/assert"
)

const gitSourceApp = `
apiVersion: argoproj.io/v1alpha1
kind: Application
metadata:
  name: my-app
spec:
  source:
    repoURL: https://github.com/x/y
    targetRevision: v1.0.0
`

const ociChartApp = `
apiVersion: argoproj.io/v1alpha1
kind: Application
metadata:
  name: my-chart
spec:
  source:
    repoURL: oci://registry.example.com/charts/
    chart: mychart
    targetRevision: 1.2.0
`

const helmRepoApp = `
apiVersion: argoproj.io/v1alpha1
kind: Application
metadata:
  name: my-chart
spec:
  source:
    repoURL: https://charts.example.com
    chart: mychart
    targetRevision: 1.2.0
`

const kustomizeApp = `
apiVersion: argoproj.io/v1alpha1
kind: Application
metadata:
  name: my-app
spec:
  source:
    repoURL: https://github.com/x/y
    targetRevision: v1.0.0
    kustomize:
      images:
      - nginx=myrepo/nginx:1.2.3
`

func Test_Extract_notArgoCD(t *testing.T) {
	result := Extract([]byte(`
apiVersion: apps/v1
kind: Deployment
metadata:
  name: my-app
`), "deployment.yaml", nil)

	assert.Nil(t, result)
}

func Test_Extract_gitSource(t *testing.T) {
	result := Extract([]byte(gitSourceApp), "app.yaml", nil)

	assert.NotNil(t, result)
	assert.Equal(t, 1, len(result.Deps))
	assert.Equal(t, dep.PackageDependency{
		DepName:      "https://github.com/x/y",
		CurrentValue: "v1.0.0",
		Datasource:   dep.DatasourceGitTags,
	}, result.Deps[0])
}

func Test_Extract_gitSource_noTargetRevision(t *testing.T) {
	result := Extract([]byte(`
apiVersion: argoproj.io/v1alpha1
kind: Application
spec:
  source:
    repoURL: https://github.com/x/y
`), "app.yaml", nil)

	assert.NotNil(t, result)
	assert.Equal(t, 1, len(result.Deps))
	assert.Equal(t, "", result.Deps[0].CurrentValue)
}

func Test_Extract_ociChart(t *testing.T) {
	result := Extract([]byte(ociChartApp), "app.yaml", nil)

	assert.NotNil(t, result)
	assert.Equal(t, 1, len(result.Deps))
	assert.Equal(t, dep.PackageDependency{
		DepName:      "registry.example.com/charts/mychart",
		CurrentValue: "1.2.0",
		Datasource:   dep.DatasourceDocker,
	}, result.Deps[0])
}

func Test_Extract_bareHostChart(t *testing.T) {
	result := Extract([]byte(`
apiVersion: argoproj.io/v1alpha1
kind: Application
spec:
  source:
    repoURL: registry.example.com
    chart: mychart
    targetRevision: 1.2.0
`), "app.yaml", nil)

	assert.NotNil(t, result)
	assert.Equal(t, "registry.example.com/mychart", result.Deps[0].DepName)
	assert.Equal(t, dep.DatasourceDocker, result.Deps[0].Datasource)
}

func Test_Extract_helmRepoChart(t *testing.T) {
	result := Extract([]byte(helmRepoApp), "app.yaml", nil)

	assert.NotNil(t, result)
	assert.Equal(t, 1, len(result.Deps))
	assert.Equal(t, dep.PackageDependency{
		DepName:      "mychart",
		CurrentValue: "1.2.0",
		Datasource:   dep.DatasourceHelm,
		RegistryURLs: []string{"https://charts.example.com"},
	}, result.Deps[0])
}

func Test_Extract_kustomizeImages(t *testing.T) {
	result := Extract([]byte(kustomizeApp), "app.yaml", nil)

	assert.NotNil(t, result)
	assert.Equal(t, 2, len(result.Deps))
	assert.Equal(t, dep.DatasourceGitTags, result.Deps[0].Datasource)
	assert.Equal(t, dep.PackageDependency{
		DepName:      "myrepo/nginx",
		CurrentValue: "1.2.3",
		Datasource:   dep.DatasourceDocker,
	}, result.Deps[1])
}

func Test_Extract_kustomizeImages_malformedDropped(t *testing.T) {
	result := Extract([]byte(`
apiVersion: argoproj.io/v1alpha1
kind: Application
spec:
  source:
    repoURL: https://github.com/x/y
    kustomize:
      images:
      - no-equals-sign
      - nginx=myrepo/nginx:1.2.3
`), "app.yaml", nil)

	assert.NotNil(t, result)
	assert.Equal(t, 2, len(result.Deps))
	assert.Equal(t, "myrepo/nginx", result.Deps[1].DepName)
}

func Test_Extract_applicationSet(t *testing.T) {
	flat := Extract([]byte(gitSourceApp), "app.yaml", nil)
	templated := Extract([]byte(`
apiVersion: argoproj.io/v1alpha1
kind: ApplicationSet
metadata:
  name: my-apps
spec:
  template:
    spec:
      source:
        repoURL: https://github.com/x/y
        targetRevision: v1.0.0
`), "appset.yaml", nil)

	assert.NotNil(t, templated)
	assert.Equal(t, flat.Deps, templated.Deps)
}

func Test_Extract_multipleSources(t *testing.T) {
	result := Extract([]byte(`
apiVersion: argoproj.io/v1alpha1
kind: Application
spec:
  source:
    repoURL: https://github.com/first/repo
  sources:
  - repoURL: https://github.com/second/repo
  - repoURL: https://charts.example.com
    chart: mychart
`), "app.yaml", nil)

	assert.NotNil(t, result)
	assert.Equal(t, 3, len(result.Deps))
	// the singular source comes first, then the list in manifest order
	assert.Equal(t, "https://github.com/first/repo", result.Deps[0].DepName)
	assert.Equal(t, "https://github.com/second/repo", result.Deps[1].DepName)
	assert.Equal(t, "mychart", result.Deps[2].DepName)
}

func Test_Extract_malformedDocumentFiltered(t *testing.T) {
	result := Extract([]byte(`
apiVersion: argoproj.io/v1alpha1
kind: Application
spec:
  source:
    targetRevision: v2.0.0
---
apiVersion: argoproj.io/v1alpha1
kind: Application
spec:
  source:
    repoURL: https://github.com/x/y
    targetRevision: v1.0.0
`), "app.yaml", nil)

	// the first document misses repoURL and is dropped, the second survives
	assert.NotNil(t, result)
	assert.Equal(t, 1, len(result.Deps))
	assert.Equal(t, "https://github.com/x/y", result.Deps[0].DepName)
}

func Test_Extract_syntaxError(t *testing.T) {
	result := Extract([]byte("apiVersion: argoproj.io/v1alpha1\n  broken: [yaml"), "app.yaml", nil)

	assert.Nil(t, result)
}

func Test_Extract_noDeps(t *testing.T) {
	result := Extract([]byte(`
apiVersion: argoproj.io/v1alpha1
kind: Application
spec: {}
`), "app.yaml", nil)

	assert.Nil(t, result)
}

func Test_Extract_idempotent(t *testing.T) {
	first := Extract([]byte(kustomizeApp), "app.yaml", nil)
	second := Extract([]byte(kustomizeApp), "app.yaml", nil)

	assert.Equal(t, first, second)
}

func Test_Extract_registryAlias(t *testing.T) {
	config := &manager.ExtractConfig{
		RegistryAliases: map[string]string{
			"https://charts.example.com": "https://mirror.internal/charts",
		},
	}

	result := Extract([]byte(helmRepoApp), "app.yaml", config)

	assert.NotNil(t, result)
	assert.Equal(t, []string{"https://mirror.internal/charts"}, result.Deps[0].RegistryURLs)
}

func Test_imageOverrideDep(t *testing.T) {
	cases := []struct {
		override string
		depName  string
		ok       bool
	}{
		{"nginx=myrepo/nginx:1.2.3", "myrepo/nginx", true},
		{"no-equals-sign", "", false},
		{"", "", false},
		// both groups are greedy, the split happens at the last '='
		{"a=b=c", "c", true},
	}

	for _, c := range cases {
		d, ok := imageOverrideDep(c.override)
		assert.Equal(t, c.ok, ok, c.override)
		if ok {
			assert.Equal(t, c.depName, d.DepName, c.override)
		}
	}
}
