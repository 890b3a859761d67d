package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"package-pruner/internal/adapters"
	"package-pruner/internal/app"
	"package-pruner/internal/types"
)

var newAppService = app.NewService

type registryOptions struct {
	Repository       string
	Token            string
	Keep             int
	RemoveSemver     bool
	AllowPublic      bool
	DryRun           bool
	Packages         []string
	RegistryBackend  string
	RegistryFile     string
	GraphQLURL       string
	HTTPTimeoutSec   int
	HTTPRetries      int
	HTTPRetryDelayMs int
	Format           string
	GitHubOutput     string
}

func newPruneCommand() *cobra.Command {
	opts := registryOptions{}
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete package versions outside the retention window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPrune(cmd.Context(), cmd, opts)
		},
	}
	bindRegistryFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Only report versions that would be removed")
	cmd.Flags().StringVar(&opts.GitHubOutput, "github-output", "", "Append removed=<list> to this file (defaults to $GITHUB_OUTPUT)")
	_ = viper.BindPFlag("dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("github_output", cmd.Flags().Lookup("github-output"))
	return cmd
}

func bindRegistryFlags(cmd *cobra.Command, opts *registryOptions) {
	cmd.Flags().StringVar(&opts.Repository, "repository", "", "Repository as owner/name (defaults to $GITHUB_REPOSITORY)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "Registry API token (defaults to $GITHUB_TOKEN)")
	cmd.Flags().IntVar(&opts.Keep, "keep", 5, "Number of most recent versions to keep per package")
	cmd.Flags().BoolVar(&opts.RemoveSemver, "remove-semver", false, "Also remove versions that are semantic versions")
	cmd.Flags().BoolVar(&opts.AllowPublic, "allow-public", false, "Allow pruning packages of public repositories")
	cmd.Flags().StringSliceVar(&opts.Packages, "package", nil, "Only prune these packages (default all)")
	cmd.Flags().StringVar(&opts.RegistryBackend, "registry-backend", "github", "Registry backend (github or file)")
	cmd.Flags().StringVar(&opts.RegistryFile, "registry-file", "", "Registry listing file for file backend")
	cmd.Flags().StringVar(&opts.GraphQLURL, "graphql-url", adapters.DefaultGitHubGraphQLURL, "GitHub GraphQL endpoint")
	cmd.Flags().IntVar(&opts.HTTPTimeoutSec, "http-timeout", 60, "HTTP timeout in seconds (0 = default)")
	cmd.Flags().IntVar(&opts.HTTPRetries, "http-retries", 3, "Retries for the package listing query")
	cmd.Flags().IntVar(&opts.HTTPRetryDelayMs, "http-retry-delay-ms", 200, "Retry base delay in ms (0 = default)")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "Report format (text, json, yaml, table)")

	_ = viper.BindPFlag("repository", cmd.Flags().Lookup("repository"))
	_ = viper.BindPFlag("token", cmd.Flags().Lookup("token"))
	_ = viper.BindPFlag("keep", cmd.Flags().Lookup("keep"))
	_ = viper.BindPFlag("remove_semver", cmd.Flags().Lookup("remove-semver"))
	_ = viper.BindPFlag("allow_public", cmd.Flags().Lookup("allow-public"))
	_ = viper.BindPFlag("packages", cmd.Flags().Lookup("package"))
	_ = viper.BindPFlag("registry_backend", cmd.Flags().Lookup("registry-backend"))
	_ = viper.BindPFlag("registry_file", cmd.Flags().Lookup("registry-file"))
	_ = viper.BindPFlag("graphql_url", cmd.Flags().Lookup("graphql-url"))
	_ = viper.BindPFlag("http_timeout_sec", cmd.Flags().Lookup("http-timeout"))
	_ = viper.BindPFlag("http_retries", cmd.Flags().Lookup("http-retries"))
	_ = viper.BindPFlag("http_retry_delay_ms", cmd.Flags().Lookup("http-retry-delay-ms"))
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
}

func buildPruneRequest(cmd *cobra.Command, opts registryOptions) app.PruneRequest {
	return app.PruneRequest{
		Repository:       resolveString(cmd, opts.Repository, "repository", "repository"),
		Token:            resolveString(cmd, opts.Token, "token", "token"),
		KeepVersions:     resolveInt(cmd, opts.Keep, "keep", "keep"),
		RemoveSemver:     resolveBool(cmd, opts.RemoveSemver, "remove_semver", "remove-semver"),
		AllowPublic:      resolveBool(cmd, opts.AllowPublic, "allow_public", "allow-public"),
		DryRun:           resolveBool(cmd, opts.DryRun, "dry_run", "dry-run"),
		Packages:         resolveStrings(cmd, opts.Packages, "packages", "package"),
		RegistryBackend:  resolveString(cmd, opts.RegistryBackend, "registry_backend", "registry-backend"),
		RegistryFile:     resolveString(cmd, opts.RegistryFile, "registry_file", "registry-file"),
		GraphQLURL:       resolveString(cmd, opts.GraphQLURL, "graphql_url", "graphql-url"),
		HTTPTimeoutSec:   resolveInt(cmd, opts.HTTPTimeoutSec, "http_timeout_sec", "http-timeout"),
		HTTPRetries:      resolveInt(cmd, opts.HTTPRetries, "http_retries", "http-retries"),
		HTTPRetryDelayMs: resolveInt(cmd, opts.HTTPRetryDelayMs, "http_retry_delay_ms", "http-retry-delay-ms"),
	}
}

func resolveReportFormat(cmd *cobra.Command, opts registryOptions) (types.ReportFormat, error) {
	return app.ParseReportFormat(resolveString(cmd, opts.Format, "format", "format"))
}

func runPrune(ctx context.Context, cmd *cobra.Command, opts registryOptions) error {
	format, err := resolveReportFormat(cmd, opts)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.PrunePackages(ctx, buildPruneRequest(cmd, opts))
	if err != nil {
		return err
	}
	reporter := adapters.NewReportWriterAdapter(
		os.Stdout,
		format,
		resolveString(cmd, opts.GitHubOutput, "github_output", "github-output"),
	)
	return reporter.WriteRunResult(result)
}
