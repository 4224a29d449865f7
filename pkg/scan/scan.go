package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/j-be/renovate/pkg/dep"
	"github.com/j-be/renovate/pkg/manager"
	"github.com/j-be/renovate/pkg/manager/argocd"
	"github.com/j-be/renovate/pkg/manager/flux"
	"github.com/j-be/renovate/pkg/manager/kustomize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// FileResult holds the dependencies one manager extracted from one file.
type FileResult struct {
	File    string                  `yaml:"file" json:"file"`
	Manager string                  `yaml:"manager" json:"manager"`
	Deps    []dep.PackageDependency `yaml:"deps" json:"deps"`
}

// Report is the outcome of scanning a directory tree. Results follow the
// walk order, so scanning the same tree twice yields deep-equal reports.
type Report struct {
	Results []FileResult `yaml:"results" json:"results"`
	Files   int          `yaml:"files" json:"files"`
	Deps    int          `yaml:"deps" json:"deps"`
}

// Scanner runs every known manifest manager over a set of files.
type Scanner struct {
	managers []manager.Manager
	config   *manager.ExtractConfig
}

func New(config *manager.ExtractConfig) *Scanner {
	return &Scanner{
		managers: []manager.Manager{
			argocd.New(),
			flux.New(),
			kustomize.New(),
		},
		config: config,
	}
}

// ScanFile runs the managers over one file. The first manager that
// extracts dependencies claims the file; nil means no manager did.
func (s *Scanner) ScanFile(file string, content []byte) *FileResult {
	for _, m := range s.managers {
		if !m.Accepts(file, content) {
			continue
		}
		result := m.Extract(content, file, s.config)
		if result == nil {
			continue
		}
		return &FileResult{
			File:    file,
			Manager: m.Name(),
			Deps:    result.Deps,
		}
	}
	return nil
}

// ScanDir walks a directory tree and extracts dependencies from every
// YAML file in it. Dot directories are not descended into. Files that
// cannot be read are logged and skipped, the walk continues.
func (s *Scanner) ScanDir(root string) (*Report, error) {
	report := &Report{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if ext := filepath.Ext(path); ext != ".yaml" && ext != ".yml" {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			logrus.Warnf("cannot read %s: %s", path, err)
			return nil
		}
		report.Files++

		file, err := filepath.Rel(root, path)
		if err != nil {
			file = path
		}
		if result := s.ScanFile(file, content); result != nil {
			report.Results = append(report.Results, *result)
			report.Deps += len(result.Deps)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "cannot scan "+root)
	}

	return report, nil
}
