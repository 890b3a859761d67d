package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"package-pruner/internal/shared"
	"package-pruner/internal/types"
)

// Validate checks a prune request without contacting the registry.
func (s Service) Validate(ctx context.Context, req PruneRequest) (ValidateResult, error) {
	if err := ctx.Err(); err != nil {
		return ValidateResult{}, err
	}
	cfg, err := req.pruneConfig()
	if err != nil {
		return ValidateResult{}, err
	}
	if _, err := s.registryFor(req); err != nil {
		return ValidateResult{}, err
	}
	return ValidateResult{
		Repository: cfg.Repository.String(),
		Backend:    string(normalizeBackend(req.RegistryBackend)),
		KeepCount:  cfg.Retention.KeepCount,
	}, nil
}

// ParseRepositoryRef parses an owner/name reference.
func ParseRepositoryRef(value string) (types.RepositoryRef, error) {
	trimmed := strings.Trim(strings.TrimSpace(value), "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return types.RepositoryRef{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("repository must be owner/name, got %q", value))
	}
	return types.RepositoryRef{
		Owner: strings.TrimSpace(parts[0]),
		Name:  strings.TrimSpace(parts[1]),
	}, nil
}

func ParseReportFormat(value string) (types.ReportFormat, error) {
	format := types.ReportFormat(strings.ToLower(strings.TrimSpace(value)))
	switch format {
	case "":
		return types.ReportFormatText, nil
	case types.ReportFormatText, types.ReportFormatJSON, types.ReportFormatYAML, types.ReportFormatTable:
		return format, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported report format: %s", value))
	}
}

func (req PruneRequest) pruneConfig() (types.PruneConfig, error) {
	ref, err := ParseRepositoryRef(req.Repository)
	if err != nil {
		return types.PruneConfig{}, err
	}
	if req.KeepVersions < 0 {
		return types.PruneConfig{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("keep must not be negative, got %d", req.KeepVersions))
	}
	return types.PruneConfig{
		Repository: ref,
		Retention: types.RetentionPolicy{
			KeepCount:              req.KeepVersions,
			RemoveSemanticVersions: req.RemoveSemver,
		},
		AllowPublic: req.AllowPublic,
		DryRun:      req.DryRun,
		Packages:    shared.NormalizeNames(req.Packages),
	}, nil
}
