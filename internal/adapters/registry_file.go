package adapters

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"package-pruner/internal/ports"
	"package-pruner/internal/types"
)

// RegistryFileAdapter serves a repository listing from a YAML document.
// Deletions are written back to the same file.
type RegistryFileAdapter struct {
	Path string
}

type registryFileDocument struct {
	Owner    string                `yaml:"owner"`
	Name     string                `yaml:"name"`
	Private  bool                  `yaml:"private"`
	Packages []registryFilePackage `yaml:"packages"`
}

type registryFilePackage struct {
	Name       string                `yaml:"name"`
	TotalCount int                   `yaml:"total_count,omitempty"`
	Versions   []registryFileVersion `yaml:"versions"`
}

type registryFileVersion struct {
	ID      string `yaml:"id"`
	Version string `yaml:"version"`
}

func NewRegistryFileAdapter(path string) RegistryFileAdapter {
	return RegistryFileAdapter{Path: path}
}

func (a RegistryFileAdapter) ListPackages(ctx context.Context, repo types.RepositoryRef, packagesLimit int, versionsLimit int) (*types.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := a.load()
	if err != nil {
		return nil, err
	}
	if !sameRepository(doc, repo) {
		return nil, nil
	}
	out := &types.Repository{Ref: repo, IsPrivate: doc.Private}
	for i, pkg := range doc.Packages {
		if packagesLimit > 0 && i >= packagesLimit {
			break
		}
		total := pkg.TotalCount
		if total < len(pkg.Versions) {
			total = len(pkg.Versions)
		}
		entry := types.Package{Name: pkg.Name, TotalVersionCount: total}
		for j, version := range pkg.Versions {
			if versionsLimit > 0 && j >= versionsLimit {
				break
			}
			entry.Versions = append(entry.Versions, types.PackageVersion{ID: version.ID, Version: version.Version})
		}
		out.Packages = append(out.Packages, entry)
	}
	return out, nil
}

func (a RegistryFileAdapter) DeletePackageVersion(ctx context.Context, versionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(versionID) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package version id is empty")
	}
	doc, err := a.load()
	if err != nil {
		return err
	}
	found := false
	for i := range doc.Packages {
		pkg := &doc.Packages[i]
		for j, version := range pkg.Versions {
			if version.ID != versionID {
				continue
			}
			pkg.Versions = append(pkg.Versions[:j], pkg.Versions[j+1:]...)
			if pkg.TotalCount > 0 {
				pkg.TotalCount--
			}
			found = true
			break
		}
		if found {
			break
		}
	}
	if !found {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("package version %s not found", versionID))
	}
	return a.save(doc)
}

func (a RegistryFileAdapter) load() (registryFileDocument, error) {
	if strings.TrimSpace(a.Path) == "" {
		return registryFileDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("registry file path is empty")
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return registryFileDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read registry file").
			WithCause(err)
	}
	var doc registryFileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return registryFileDocument{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse registry file").
			WithCause(err)
	}
	return doc, nil
}

func (a RegistryFileAdapter) save(doc registryFileDocument) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode registry file").
			WithCause(err)
	}
	if err := os.WriteFile(a.Path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write registry file").
			WithCause(err)
	}
	return nil
}

func sameRepository(doc registryFileDocument, repo types.RepositoryRef) bool {
	return strings.EqualFold(strings.TrimSpace(doc.Owner), repo.Owner) &&
		strings.EqualFold(strings.TrimSpace(doc.Name), repo.Name)
}

var _ ports.RegistryPort = RegistryFileAdapter{}
