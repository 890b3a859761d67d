package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"package-pruner/internal/adapters"
)

func newInspectCommand() *cobra.Command {
	opts := registryOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the prune plan per package without deleting anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd.Context(), cmd, opts)
		},
	}
	bindRegistryFlags(cmd, &opts)
	return cmd
}

func runInspect(ctx context.Context, cmd *cobra.Command, opts registryOptions) error {
	format, err := resolveReportFormat(cmd, opts)
	if err != nil {
		return err
	}
	service := newAppService()
	plan, err := service.Inspect(ctx, buildPruneRequest(cmd, opts))
	if err != nil {
		return err
	}
	return adapters.NewReportWriterAdapter(os.Stdout, format, "").WritePlan(plan)
}
