package manager

import (
	"github.com/j-be/renovate/pkg/dep"
)

// ExtractConfig carries per-call extraction settings. A nil config is valid.
type ExtractConfig struct {
	// RegistryAliases maps a repository URL as written in manifests to the
	// URL the update system should query instead, eg. a registry mirror.
	RegistryAliases map[string]string `yaml:"registryAliases,omitempty" json:"registryAliases,omitempty"`
}

// ResolveAlias maps a repository URL through the configured aliases.
func (c *ExtractConfig) ResolveAlias(repoURL string) string {
	if c == nil {
		return repoURL
	}
	if alias, ok := c.RegistryAliases[repoURL]; ok {
		return alias
	}
	return repoURL
}

// Manager extracts dependencies from one family of manifest files.
type Manager interface {
	Name() string
	// Accepts is a cheap check whether the file belongs to this manager,
	// so a repository scan does not fully parse every YAML file.
	Accepts(packageFile string, content []byte) bool
	Extract(content []byte, packageFile string, config *ExtractConfig) *dep.ExtractResult
}
