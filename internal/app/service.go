package app

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"package-pruner/internal/adapters"
	"package-pruner/internal/ports"
	"package-pruner/internal/types"
)

// MaxPackagesPerRun and MaxVersionsPerPackage are the page caps of the single
// listing query. Packages and versions beyond them are not seen by a run.
const (
	MaxPackagesPerRun     = 100
	MaxVersionsPerPackage = 100
)

type Service struct {
	// Registry overrides the backend selected by the request.
	Registry ports.RegistryPort
}

func NewService() Service {
	return Service{}
}

func (s Service) registryFor(req PruneRequest) (ports.RegistryPort, error) {
	if s.Registry != nil {
		return s.Registry, nil
	}
	return buildRegistryAdapter(req)
}

func buildRegistryAdapter(req PruneRequest) (ports.RegistryPort, error) {
	switch normalizeBackend(req.RegistryBackend) {
	case types.RegistryBackendGitHub:
		if strings.TrimSpace(req.Token) == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("github token is required for github backend")
		}
		return adapters.NewRegistryGitHubAdapter(
			strings.TrimSpace(req.GraphQLURL),
			strings.TrimSpace(req.Token),
			req.HTTPTimeoutSec,
			req.HTTPRetries,
			req.HTTPRetryDelayMs,
		), nil
	case types.RegistryBackendFile:
		path := strings.TrimSpace(req.RegistryFile)
		if path == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("registry file is required for file backend")
		}
		return adapters.NewRegistryFileAdapter(path), nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported registry backend")
	}
}

func normalizeBackend(value string) types.RegistryBackend {
	backend := strings.ToLower(strings.TrimSpace(value))
	if backend == "" {
		return types.RegistryBackendGitHub
	}
	return types.RegistryBackend(backend)
}
