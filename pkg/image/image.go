package image

import (
	"strings"

	"github.com/j-be/renovate/pkg/dep"
)

// Ref is a container image reference decomposed into its parts.
type Ref struct {
	Repository string `yaml:"repository" json:"repository"`
	Tag        string `yaml:"tag,omitempty" json:"tag,omitempty"`
	Digest     string `yaml:"digest,omitempty" json:"digest,omitempty"`
}

// Split decomposes a repo[:tag][@digest] image string.
// A colon followed by a path segment belongs to the registry host port,
// not to a tag: registry.example.com:5000/app has no tag.
func Split(image string) Ref {
	var ref Ref
	if image == "" {
		return ref
	}

	if at := strings.Index(image, "@"); at != -1 {
		ref.Digest = image[at+1:]
		image = image[:at]
	}

	if colon := strings.LastIndex(image, ":"); colon != -1 &&
		!strings.Contains(image[colon+1:], "/") {
		ref.Tag = image[colon+1:]
		image = image[:colon]
	}

	ref.Repository = image
	return ref
}

// Dep builds a docker datasource dependency from an image string.
func Dep(image string) dep.PackageDependency {
	ref := Split(image)
	return dep.PackageDependency{
		DepName:       ref.Repository,
		CurrentValue:  ref.Tag,
		CurrentDigest: ref.Digest,
		Datasource:    dep.DatasourceDocker,
	}
}
