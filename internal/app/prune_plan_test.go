package app

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"package-pruner/internal/types"
)

func TestEffectiveVersionCount(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		fetched int
		want    int
	}{
		{name: "total below cap", total: 7, fetched: 7, want: 7},
		{name: "total above cap", total: 150, fetched: MaxVersionsPerPackage, want: MaxVersionsPerPackage},
		{name: "fewer nodes than total", total: 10, fetched: 4, want: 4},
		{name: "total below fetched", total: 2, fetched: 5, want: 2},
		{name: "empty", total: 0, fetched: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := types.Package{Name: "pkg", TotalVersionCount: tt.total, Versions: numberedVersions(tt.fetched)}
			assert.Equal(t, tt.want, effectiveVersionCount(pkg))
		})
	}
}

func TestBuildPrunePlanSkipsWithinKeep(t *testing.T) {
	repo := types.Repository{
		Ref: types.RepositoryRef{Owner: "acme", Name: "widgets"},
		Packages: []types.Package{
			{Name: "tiny", TotalVersionCount: 5, Versions: numberedVersions(5)},
			{Name: "big", TotalVersionCount: 6, Versions: numberedVersions(6)},
		},
	}
	plan := BuildPrunePlan(repo, testConfig(5))
	require.Len(t, plan.Packages, 2)

	assert.True(t, plan.Packages[0].Skipped)
	assert.Equal(t, skipReasonWithinKeep, plan.Packages[0].SkipReason)
	assert.Empty(t, plan.Packages[0].Delete)

	assert.False(t, plan.Packages[1].Skipped)
	if diff := cmp.Diff(numberedVersions(1), plan.Packages[1].Delete); diff != "" {
		t.Fatalf("unexpected delete list (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, plan.DeleteCount())
}

func TestBuildPrunePlanPackageFilter(t *testing.T) {
	repo := types.Repository{
		Packages: []types.Package{
			{Name: "Web", TotalVersionCount: 3, Versions: numberedVersions(3)},
			{Name: "api", TotalVersionCount: 3, Versions: numberedVersions(3)},
		},
	}
	cfg := testConfig(1)
	cfg.Packages = []string{"web"}

	plan := BuildPrunePlan(repo, cfg)
	require.Len(t, plan.Packages, 2)
	assert.False(t, plan.Packages[0].Skipped)
	assert.Len(t, plan.Packages[0].Delete, 2)
	assert.True(t, plan.Packages[1].Skipped)
	assert.Equal(t, skipReasonFiltered, plan.Packages[1].SkipReason)
}

func TestBuildPrunePlanPreservesListingOrder(t *testing.T) {
	repo := types.Repository{
		Packages: []types.Package{
			{Name: "zeta", TotalVersionCount: 2, Versions: newVersions("z2", "z1")},
			{Name: "alpha", TotalVersionCount: 2, Versions: newVersions("a2", "a1")},
		},
	}
	plan := BuildPrunePlan(repo, testConfig(0))
	var names []string
	for _, pkg := range plan.Packages {
		for _, version := range pkg.Delete {
			names = append(names, types.QualifiedName(pkg.Package, version.Version))
		}
	}
	if diff := cmp.Diff([]string{"zeta:z2", "zeta:z1", "alpha:a2", "alpha:a1"}, names); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}
