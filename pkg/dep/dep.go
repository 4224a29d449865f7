package dep

import (
	"strings"

	giturls "github.com/whilp/git-urls"
)

// Datasource tells the update system which registry to query
// for available versions of a dependency.
type Datasource string

const (
	DatasourceDocker  Datasource = "docker"
	DatasourceHelm    Datasource = "helm"
	DatasourceGitTags Datasource = "git-tags"
)

// PackageDependency is one dependency reference extracted from a manifest.
// CurrentValue may be empty: not every manifest pins a version.
type PackageDependency struct {
	DepName       string     `yaml:"depName" json:"depName"`
	CurrentValue  string     `yaml:"currentValue,omitempty" json:"currentValue,omitempty"`
	CurrentDigest string     `yaml:"currentDigest,omitempty" json:"currentDigest,omitempty"`
	Datasource    Datasource `yaml:"datasource" json:"datasource"`
	RegistryURLs  []string   `yaml:"registryUrls,omitempty" json:"registryUrls,omitempty"`
}

// ExtractResult holds the dependencies extracted from one manifest file,
// in manifest source order. A nil result means no dependencies were found,
// the file was not applicable, or it could not be parsed.
type ExtractResult struct {
	Deps []PackageDependency `yaml:"deps" json:"deps"`
}

// GitWebURL converts a git remote to a browsable HTTPS URL, best effort.
// Returns an empty string when no browsable form can be derived.
func GitWebURL(repoURL string) string {
	u, err := giturls.Parse(repoURL)
	if err != nil {
		return ""
	}

	switch u.Scheme {
	case "http", "https":
		return strings.TrimSuffix(u.String(), ".git")
	case "ssh", "git", "git+ssh":
		path := strings.TrimPrefix(u.Path, "/")
		path = strings.TrimSuffix(path, ".git")
		if u.Host == "" || path == "" {
			return ""
		}
		return "https://" + u.Host + "/" + path
	}

	return ""
}
