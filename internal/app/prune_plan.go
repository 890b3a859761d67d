package app

import (
	"strings"

	"package-pruner/internal/core"
	"package-pruner/internal/types"
)

const (
	skipReasonFiltered   = "not selected"
	skipReasonWithinKeep = "within keep count"
)

// BuildPrunePlan runs the retention selector over every listed package in
// listing order. It performs no I/O.
func BuildPrunePlan(repo types.Repository, cfg types.PruneConfig) types.PrunePlan {
	selected := normalizeSet(cfg.Packages)
	plan := types.PrunePlan{Repository: repo.Ref}
	for _, pkg := range repo.Packages {
		plan.Packages = append(plan.Packages, planPackage(pkg, cfg.Retention, selected))
	}
	return plan
}

func planPackage(pkg types.Package, policy types.RetentionPolicy, selected map[string]struct{}) types.PackagePlan {
	effective := effectiveVersionCount(pkg)
	entry := types.PackagePlan{
		Package:        pkg.Name,
		TotalCount:     pkg.TotalVersionCount,
		FetchedCount:   len(pkg.Versions),
		EffectiveCount: effective,
	}
	if len(selected) > 0 {
		if _, ok := selected[strings.ToLower(strings.TrimSpace(pkg.Name))]; !ok {
			entry.Skipped = true
			entry.SkipReason = skipReasonFiltered
			return entry
		}
	}
	if effective <= policy.KeepCount {
		entry.Skipped = true
		entry.SkipReason = skipReasonWithinKeep
		return entry
	}
	entry.Delete = core.SelectForDeletion(pkg.Versions[:effective], policy)
	return entry
}

// effectiveVersionCount is min(page cap, registry total), clamped to the
// versions actually returned.
func effectiveVersionCount(pkg types.Package) int {
	count := pkg.TotalVersionCount
	if count > MaxVersionsPerPackage {
		count = MaxVersionsPerPackage
	}
	if count > len(pkg.Versions) {
		count = len(pkg.Versions)
	}
	if count < 0 {
		count = 0
	}
	return count
}

func normalizeSet(values []string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, value := range values {
		key := strings.ToLower(strings.TrimSpace(value))
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return set
}
