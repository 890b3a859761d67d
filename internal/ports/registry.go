package ports

import (
	"context"

	"package-pruner/internal/types"
)

// RegistryPort lists a repository's packages and deletes single versions.
// ListPackages returns a nil repository and no error when the registry has
// no such repository.
type RegistryPort interface {
	ListPackages(ctx context.Context, repo types.RepositoryRef, packagesLimit int, versionsLimit int) (*types.Repository, error)
	DeletePackageVersion(ctx context.Context, versionID string) error
}
