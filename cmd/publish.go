package cmd

import (
	"github.com/compozy/docspub/internal/orchestrator"
	"github.com/spf13/cobra"
)

// NewPublishCmd creates the publish command
func NewPublishCmd(orch *orchestrator.PublishOrchestrator) *cobra.Command {
	var (
		publishDryRun     bool
		publishCIOutput   bool
		publishSkipStatus bool
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish built documentation to the hosting branch",
		Long: `Publish pre-built documentation to the hosting branch.

This command runs the full publish sequence:
- Configures the committer identity
- Checks out the hosting branch
- Resets the staging directory
- Resolves the release tag for HEAD
- Promotes the build output to the site root (tagged commits only)
- Syncs the build output into the staging directory
- Commits and force-pushes using the injected credential token

The sequence is fail-fast: the first failing step aborts the run and
nothing that already happened is rolled back.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := orchestrator.PublishConfig{
				DryRun:     publishDryRun,
				CIOutput:   publishCIOutput,
				SkipStatus: publishSkipStatus,
			}
			return orch.Execute(cmd.Context(), cfg)
		},
	}

	cmd.Flags().BoolVar(&publishDryRun, "dry-run", false, "Prepare the working tree without remote rewrite, commit or push")
	cmd.Flags().BoolVar(&publishCIOutput, "ci-output", false, "Output in CI-friendly format")
	cmd.Flags().BoolVar(&publishSkipStatus, "skip-status", false, "Skip GitHub commit status reporting")
	return cmd
}
