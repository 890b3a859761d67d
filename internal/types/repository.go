package types

import "strings"

type RepositoryRef struct {
	Owner string `json:"owner" yaml:"owner"`
	Name  string `json:"name" yaml:"name"`
}

func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

func (r RepositoryRef) IsZero() bool {
	return strings.TrimSpace(r.Owner) == "" || strings.TrimSpace(r.Name) == ""
}

// Repository is a single listing snapshot of a repository and the first page
// of its packages.
type Repository struct {
	Ref       RepositoryRef
	IsPrivate bool
	Packages  []Package
}

// Package carries at most one page of versions, newest first. TotalVersionCount
// is the registry's count and may be larger than len(Versions).
type Package struct {
	Name              string
	Versions          []PackageVersion
	TotalVersionCount int
}

type PackageVersion struct {
	ID      string
	Version string
}

// QualifiedName renders a version as package:version.
func QualifiedName(packageName string, version string) string {
	return packageName + ":" + version
}
