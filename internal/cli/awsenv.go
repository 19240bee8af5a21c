package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vvka-141/transitload/internal/cloudenv"
)

func newAWSEnvCmd(flags *globalFlags) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "aws-env",
		Short: "Print the AWS and Redshift settings as shell exports",
		Long: `Prints export lines for AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY,
AWS_SESSION_TOKEN, AWS_REGION, REDSHIFT_DATABASE and REDSHIFT_WORKGROUP.
Credentials are taken from the environment and default to empty.

  eval "$(transitload aws-env)"

With --check, also resolves credentials through the AWS default chain and
reports which provider supplied them.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRun(cmd, flags)
			if err != nil {
				return err
			}
			settings := cloudenv.FromConfig(r.cfg.AWS)
			if err := settings.Apply(os.Setenv); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), settings.Exports())

			if !check {
				return nil
			}
			res, err := cloudenv.Check(cmd.Context(), settings, cloudenv.DefaultLoader, r.logger)
			if err != nil {
				return err
			}
			r.logger.Info("AWS credentials resolved from %s in %s", res.Source, res.Region)
			if res.Expires != "" {
				r.logger.Info("Credentials expire at %s", res.Expires)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Verify credentials resolve through the AWS default chain")
	return cmd
}
