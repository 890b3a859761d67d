//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"package-pruner/internal/app"
)

type graphQLDeletion struct {
	ID   string `json:"id"`
	Auth string `json:"auth"`
}

func TestE2EPruneAgainstGraphQLMock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers e2e in short mode")
	}

	ctx := t.Context()
	endpoint, cleanup := startGraphQLMock(ctx, t)
	t.Cleanup(cleanup)

	service := app.NewService()
	result, err := service.PrunePackages(ctx, app.PruneRequest{
		Repository:       "acme/widgets",
		Token:            "test-token",
		KeepVersions:     5,
		RegistryBackend:  "github",
		GraphQLURL:       endpoint + "/graphql",
		HTTPTimeoutSec:   10,
		HTTPRetries:      1,
		HTTPRetryDelayMs: 100,
	})
	require.NoError(t, err)

	want := []string{
		"acme/widgets/web:sha-2",
		"acme/widgets/web:sha-1",
	}
	if diff := cmp.Diff(want, result.QualifiedRemoved()); diff != "" {
		t.Fatalf("unexpected removed versions (-want +got):\n%s", diff)
	}

	deletions := fetchDeletions(ctx, t, endpoint)
	wantDeletions := []graphQLDeletion{
		{ID: "PV_web_2", Auth: "bearer test-token"},
		{ID: "PV_web_1", Auth: "bearer test-token"},
	}
	if diff := cmp.Diff(wantDeletions, deletions); diff != "" {
		t.Fatalf("unexpected deletion mutations (-want +got):\n%s", diff)
	}
}

func TestE2EPruneRejectsPublicRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers e2e in short mode")
	}

	ctx := t.Context()
	endpoint, cleanup := startGraphQLMock(ctx, t)
	t.Cleanup(cleanup)

	_, err := app.NewService().PrunePackages(ctx, app.PruneRequest{
		Repository:      "acme/public-widgets",
		Token:           "test-token",
		KeepVersions:    5,
		RegistryBackend: "github",
		GraphQLURL:      endpoint + "/graphql",
	})
	require.Error(t, err)
	require.Equal(t, errbuilder.CodePermissionDenied, errbuilder.CodeOf(err))
	require.Empty(t, fetchDeletions(ctx, t, endpoint))
}

func startGraphQLMock(ctx context.Context, t *testing.T) (string, func()) {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "python:3.12-alpine",
		ExposedPorts: []string{"8080/tcp"},
		Cmd:          []string{"python", "-c", graphQLMockScript},
		WaitingFor:   wait.ForListeningPort("8080/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "8080/tcp")
	require.NoError(t, err)

	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())
	cleanup := func() {
		_ = container.Terminate(ctx)
	}
	return endpoint, cleanup
}

func fetchDeletions(ctx context.Context, t *testing.T, endpoint string) []graphQLDeletion {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/deletions", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deletions []graphQLDeletion
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&deletions))
	return deletions
}

const graphQLMockScript = `
import json
from http.server import BaseHTTPRequestHandler, ThreadingHTTPServer

deletions = []

def versions(prefix, count):
    return [{"id": "PV_%s_%d" % (prefix, i), "version": "sha-%d" % i} for i in range(count, 0, -1)]

repositories = {
    ("acme", "widgets"): {
        "isPrivate": True,
        "packages": {"nodes": [
            {"name": "web", "versions": {"totalCount": 7, "nodes": versions("web", 7)}},
            {"name": "api", "versions": {"totalCount": 3, "nodes": versions("api", 3)}},
        ]},
    },
    ("acme", "public-widgets"): {
        "isPrivate": False,
        "packages": {"nodes": [
            {"name": "web", "versions": {"totalCount": 9, "nodes": versions("pub", 9)}},
        ]},
    },
}

class Handler(BaseHTTPRequestHandler):
    def reply(self, status, payload):
        body = json.dumps(payload).encode("utf-8")
        self.send_response(status)
        self.send_header("Content-Type", "application/json")
        self.send_header("Content-Length", str(len(body)))
        self.end_headers()
        self.wfile.write(body)

    def do_POST(self):
        if self.path != "/graphql":
            self.reply(404, {"message": "not found"})
            return
        length = int(self.headers.get("Content-Length", "0"))
        request = json.loads(self.rfile.read(length) or b"{}")
        query = request.get("query", "")
        variables = request.get("variables", {})
        if "deletePackageVersion" in query:
            deletions.append({"id": variables.get("packageVersionId", ""), "auth": self.headers.get("Authorization", "")})
            self.reply(200, {"data": {"deletePackageVersion": {"success": True}}})
            return
        key = (variables.get("owner"), variables.get("repo"))
        self.reply(200, {"data": {"repository": repositories.get(key)}})

    def do_GET(self):
        if self.path == "/deletions":
            self.reply(200, deletions)
            return
        self.reply(404, {"message": "not found"})

    def log_message(self, format, *args):
        return

ThreadingHTTPServer(("0.0.0.0", 8080), Handler).serve_forever()
`
