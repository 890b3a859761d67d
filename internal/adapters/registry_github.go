package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"package-pruner/internal/ports"
	"package-pruner/internal/shared"
	"package-pruner/internal/types"
)

const DefaultGitHubGraphQLURL = "https://api.github.com/graphql"

const defaultGitHubRetries = 3
const defaultGitHubRetryDelay = 200 * time.Millisecond
const defaultGitHubTimeout = 60 * time.Second
const maxGitHubRetryDelay = 2 * time.Second

const (
	acceptPackagesPreview       = "application/vnd.github.packages-preview+json"
	acceptPackageDeletesPreview = "application/vnd.github.package-deletes-preview+json"
)

const listPackagesQuery = `query listPackages($owner: String!, $repo: String!, $packagesLimit: Int!, $versionsLimit: Int!) {
  repository(owner: $owner, name: $repo) {
    isPrivate
    packages(first: $packagesLimit) {
      nodes {
        name
        versions(first: $versionsLimit, orderBy: {field: CREATED_AT, direction: DESC}) {
          totalCount
          nodes {
            id
            version
          }
        }
      }
    }
  }
}`

const deletePackageVersionMutation = `mutation deletePackageVersion($packageVersionId: ID!) {
  deletePackageVersion(input: {packageVersionId: $packageVersionId}) {
    success
  }
}`

type RegistryGitHubAdapter struct {
	Endpoint   string
	Token      string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

func NewRegistryGitHubAdapter(endpoint string, token string, timeoutSec int, retries int, retryDelayMs int) RegistryGitHubAdapter {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultGitHubGraphQLURL
	}
	return RegistryGitHubAdapter{
		Endpoint:   endpoint,
		Token:      token,
		Timeout:    normalizeGitHubTimeout(timeoutSec),
		Retries:    normalizeGitHubRetries(retries),
		RetryDelay: normalizeGitHubRetryDelay(retryDelayMs),
	}
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type listPackagesData struct {
	Repository *struct {
		IsPrivate bool `json:"isPrivate"`
		Packages  struct {
			Nodes []struct {
				Name     string `json:"name"`
				Versions struct {
					TotalCount int `json:"totalCount"`
					Nodes      []struct {
						ID      string `json:"id"`
						Version string `json:"version"`
					} `json:"nodes"`
				} `json:"versions"`
			} `json:"nodes"`
		} `json:"packages"`
	} `json:"repository"`
}

type deletePackageVersionData struct {
	DeletePackageVersion *struct {
		Success bool `json:"success"`
	} `json:"deletePackageVersion"`
}

func (a RegistryGitHubAdapter) ListPackages(ctx context.Context, repo types.RepositoryRef, packagesLimit int, versionsLimit int) (*types.Repository, error) {
	if repo.IsZero() {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repository owner and name are required")
	}
	var data listPackagesData
	err := a.execute(ctx, a.queryClient(), acceptPackagesPreview, graphQLRequest{
		Query: listPackagesQuery,
		Variables: map[string]interface{}{
			"owner":         repo.Owner,
			"repo":          repo.Name,
			"packagesLimit": packagesLimit,
			"versionsLimit": versionsLimit,
		},
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.Repository == nil {
		return nil, nil
	}
	out := &types.Repository{
		Ref:       repo,
		IsPrivate: data.Repository.IsPrivate,
		Packages:  make([]types.Package, 0, len(data.Repository.Packages.Nodes)),
	}
	for _, node := range data.Repository.Packages.Nodes {
		pkg := types.Package{
			Name:              node.Name,
			TotalVersionCount: node.Versions.TotalCount,
			Versions:          make([]types.PackageVersion, 0, len(node.Versions.Nodes)),
		}
		for _, version := range node.Versions.Nodes {
			pkg.Versions = append(pkg.Versions, types.PackageVersion{ID: version.ID, Version: version.Version})
		}
		out.Packages = append(out.Packages, pkg)
	}
	return out, nil
}

func (a RegistryGitHubAdapter) DeletePackageVersion(ctx context.Context, versionID string) error {
	if strings.TrimSpace(versionID) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package version id is empty")
	}
	var data deletePackageVersionData
	err := a.execute(ctx, a.mutationClient(), acceptPackageDeletesPreview, graphQLRequest{
		Query:     deletePackageVersionMutation,
		Variables: map[string]interface{}{"packageVersionId": versionID},
	}, &data)
	if err != nil {
		return err
	}
	if data.DeletePackageVersion == nil || !data.DeletePackageVersion.Success {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("github delete package version was not successful").
			WithCause(fmt.Errorf("package version id=%s", versionID))
	}
	return nil
}

func (a RegistryGitHubAdapter) execute(ctx context.Context, client *retryablehttp.Client, accept string, payload graphQLRequest, out interface{}) error {
	if strings.TrimSpace(a.Endpoint) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("github graphql endpoint is empty")
	}
	if strings.TrimSpace(a.Token) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("github token is empty")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode graphql request").
			WithCause(err)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, a.Endpoint, bytes.NewReader(body))
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create github request").
			WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)
	req.Header.Set("Authorization", "bearer "+strings.TrimSpace(a.Token))
	resp, err := client.Do(req)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("github graphql request failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg("github rejected the token").
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, a.Endpoint, strings.TrimSpace(string(raw))))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("github graphql request failed").
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, a.Endpoint, strings.TrimSpace(string(raw))))
	}
	var envelope graphQLResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse github graphql response").
			WithCause(err)
	}
	if len(envelope.Errors) > 0 {
		return graphQLErrors(envelope.Errors)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("github graphql response has no data")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse github graphql data").
			WithCause(err)
	}
	return nil
}

func graphQLErrors(errs []graphQLError) error {
	messages := make([]string, 0, len(errs))
	code := errbuilder.CodeInternal
	for _, item := range errs {
		messages = append(messages, strings.TrimSpace(item.Message))
		switch item.Type {
		case "NOT_FOUND":
			code = errbuilder.CodeNotFound
		case "FORBIDDEN":
			code = errbuilder.CodePermissionDenied
		}
	}
	return errbuilder.New().
		WithCode(code).
		WithMsg("github graphql returned errors").
		WithCause(fmt.Errorf("%s", strings.Join(messages, "; ")))
}

// queryClient retries transient failures. Listing is read-only.
func (a RegistryGitHubAdapter) queryClient() *retryablehttp.Client {
	return a.newClient(a.Retries)
}

// mutationClient sends every deletion exactly once.
func (a RegistryGitHubAdapter) mutationClient() *retryablehttp.Client {
	return a.newClient(0)
}

func (a RegistryGitHubAdapter) newClient(retries int) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = a.Timeout
	client.RetryMax = retries
	client.RetryWaitMin = a.RetryDelay
	client.RetryWaitMax = maxGitHubRetryDelay
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = zerologRetryLogger{}
	return client
}

func normalizeGitHubTimeout(value int) time.Duration {
	timeout := time.Duration(value) * time.Second
	if timeout <= 0 {
		return defaultGitHubTimeout
	}
	return timeout
}

func normalizeGitHubRetries(value int) int {
	if value < 0 {
		return defaultGitHubRetries
	}
	return value
}

func normalizeGitHubRetryDelay(value int) time.Duration {
	delay := time.Duration(value) * time.Millisecond
	if delay <= 0 {
		return defaultGitHubRetryDelay
	}
	return delay
}

// zerologRetryLogger routes retryablehttp's leveled logging into zerolog.
type zerologRetryLogger struct{}

func (zerologRetryLogger) Error(msg string, keysAndValues ...interface{}) {
	log.Error().Fields(keysAndValues).Msg(msg)
}

func (zerologRetryLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (zerologRetryLogger) Debug(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (zerologRetryLogger) Warn(msg string, keysAndValues ...interface{}) {
	log.Warn().Fields(keysAndValues).Msg(msg)
}

var _ ports.RegistryPort = RegistryGitHubAdapter{}
var _ retryablehttp.LeveledLogger = zerologRetryLogger{}
