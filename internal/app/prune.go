package app

import (
	"context"
	"fmt"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"package-pruner/internal/policies"
	"package-pruner/internal/ports"
	"package-pruner/internal/types"
)

// PrunePackages validates the request, selects the registry backend and runs
// a single prune pass.
func (s Service) PrunePackages(ctx context.Context, req PruneRequest) (types.RunResult, error) {
	cfg, err := req.pruneConfig()
	if err != nil {
		return types.RunResult{}, err
	}
	registry, err := s.registryFor(req)
	if err != nil {
		return types.RunResult{}, err
	}
	return s.Run(ctx, cfg, registry)
}

// Run fetches one page of packages, checks the repository is eligible and
// deletes the selected versions one at a time. The first failed deletion
// aborts the run and no partial result is returned.
func (s Service) Run(ctx context.Context, cfg types.PruneConfig, registry ports.RegistryPort) (types.RunResult, error) {
	assert.NotEmpty(ctx, cfg.Repository.Owner, "repository owner must be set")
	assert.NotEmpty(ctx, cfg.Repository.Name, "repository name must be set")

	repo, err := fetchRepository(ctx, cfg.Repository, registry)
	if err != nil {
		return types.RunResult{}, err
	}
	if err := policies.NewRepositoryPolicy(cfg.AllowPublic).CheckEligible(repo); err != nil {
		return types.RunResult{}, err
	}
	result := types.RunResult{Repository: cfg.Repository, DryRun: cfg.DryRun}
	if len(repo.Packages) == 0 {
		log.Info().Str("repository", cfg.Repository.String()).Msg("no packages found")
		return result, nil
	}

	plan := BuildPrunePlan(repo, cfg)
	for _, pkg := range plan.Packages {
		if pkg.Skipped {
			log.Info().
				Str("package", pkg.Package).
				Int("versions", pkg.EffectiveCount).
				Int("keep", cfg.Retention.KeepCount).
				Str("reason", pkg.SkipReason).
				Msg("skipping package")
			continue
		}
		for _, version := range pkg.Delete {
			name := types.QualifiedName(pkg.Package, version.Version)
			if cfg.DryRun {
				result.Removed = append(result.Removed, name)
				continue
			}
			if err := registry.DeletePackageVersion(ctx, version.ID); err != nil {
				log.Error().
					Str("repository", cfg.Repository.String()).
					Str("version", name).
					Int("deleted_before_failure", len(result.Removed)).
					Msg("prune aborted")
				return types.RunResult{}, errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg(fmt.Sprintf("failed to delete package version %s/%s", cfg.Repository, name)).
					WithCause(err)
			}
			log.Debug().Str("version", name).Msg("deleted package version")
			result.Removed = append(result.Removed, name)
		}
	}
	return result, nil
}

// Inspect fetches the listing and returns the plan a prune would execute.
func (s Service) Inspect(ctx context.Context, req PruneRequest) (types.PrunePlan, error) {
	cfg, err := req.pruneConfig()
	if err != nil {
		return types.PrunePlan{}, err
	}
	registry, err := s.registryFor(req)
	if err != nil {
		return types.PrunePlan{}, err
	}
	repo, err := fetchRepository(ctx, cfg.Repository, registry)
	if err != nil {
		return types.PrunePlan{}, err
	}
	return BuildPrunePlan(repo, cfg), nil
}

func fetchRepository(ctx context.Context, ref types.RepositoryRef, registry ports.RegistryPort) (types.Repository, error) {
	repo, err := registry.ListPackages(ctx, ref, MaxPackagesPerRun, MaxVersionsPerPackage)
	if err != nil {
		code := errbuilder.CodeOf(err)
		if code != errbuilder.CodeNotFound && code != errbuilder.CodePermissionDenied {
			code = errbuilder.CodeInternal
		}
		return types.Repository{}, errbuilder.New().
			WithCode(code).
			WithMsg(fmt.Sprintf("failed to fetch packages for %s", ref)).
			WithCause(err)
	}
	if repo == nil {
		return types.Repository{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to fetch packages for %s: repository not found", ref))
	}
	out := *repo
	out.Ref = ref
	return out, nil
}
