package app

import (
	"context"
	"errors"
	"fmt"

	"package-pruner/internal/types"
)

type listCall struct {
	Repo          types.RepositoryRef
	PackagesLimit int
	VersionsLimit int
}

type fakeRegistry struct {
	repo      *types.Repository
	listErr   error
	failOnID  string
	lists     []listCall
	deleteIDs []string
}

func (f *fakeRegistry) ListPackages(_ context.Context, repo types.RepositoryRef, packagesLimit int, versionsLimit int) (*types.Repository, error) {
	f.lists = append(f.lists, listCall{Repo: repo, PackagesLimit: packagesLimit, VersionsLimit: versionsLimit})
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.repo, nil
}

func (f *fakeRegistry) DeletePackageVersion(_ context.Context, versionID string) error {
	f.deleteIDs = append(f.deleteIDs, versionID)
	if f.failOnID != "" && versionID == f.failOnID {
		return errors.New("mutation rejected")
	}
	return nil
}

func newVersions(values ...string) []types.PackageVersion {
	out := make([]types.PackageVersion, 0, len(values))
	for _, value := range values {
		out = append(out, types.PackageVersion{ID: "id-" + value, Version: value})
	}
	return out
}

func numberedVersions(count int) []types.PackageVersion {
	out := make([]types.PackageVersion, 0, count)
	for i := count; i >= 1; i-- {
		value := fmt.Sprintf("build-%d", i)
		out = append(out, types.PackageVersion{ID: "id-" + value, Version: value})
	}
	return out
}

func testConfig(keep int) types.PruneConfig {
	return types.PruneConfig{
		Repository: types.RepositoryRef{Owner: "acme", Name: "widgets"},
		Retention:  types.RetentionPolicy{KeepCount: keep},
	}
}
