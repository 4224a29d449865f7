package argocd

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ApplicationSpec is the part of an ArgoCD Application spec this package
// cares about: where the deployed artifacts come from. An Application may
// declare a single source, a list of sources, or both.
type ApplicationSpec struct {
	Source  *ApplicationSource  `yaml:"source,omitempty" json:"source,omitempty"`
	Sources []ApplicationSource `yaml:"sources,omitempty" json:"sources,omitempty"`
}

// ApplicationSource is one deployment source. A set chart name marks the
// source as a Helm chart, otherwise it is a plain git repository.
type ApplicationSource struct {
	RepoURL        string           `yaml:"repoURL" json:"repoURL"`
	TargetRevision string           `yaml:"targetRevision,omitempty" json:"targetRevision,omitempty"`
	Chart          string           `yaml:"chart,omitempty" json:"chart,omitempty"`
	Kustomize      *KustomizeSource `yaml:"kustomize,omitempty" json:"kustomize,omitempty"`
}

// KustomizeSource holds the kustomize overrides of a git source.
type KustomizeSource struct {
	Images []string `yaml:"images,omitempty" json:"images,omitempty"`
}

// application is the flat manifest shape: kind Application holds its
// spec directly.
type application struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ApplicationSpec `yaml:"spec,omitempty" json:"spec,omitempty"`
}

// applicationSet is the templated manifest shape: the application spec
// is nested under spec.template.spec.
type applicationSet struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec struct {
		Template struct {
			Spec ApplicationSpec `yaml:"spec,omitempty" json:"spec,omitempty"`
		} `yaml:"template,omitempty" json:"template,omitempty"`
	} `yaml:"spec,omitempty" json:"spec,omitempty"`
}
