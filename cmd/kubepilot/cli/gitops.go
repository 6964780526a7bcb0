package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/kubepilot/kubepilot/pkg/print"
)

func GitOpsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitops",
		Short: "Inspect the GitOps controller in a cluster",
		Long:  ``,
		PreRun: func(cmd *cobra.Command, args []string) {
			viper.BindPFlags(cmd.Flags())
		},
	}

	cmd.AddCommand(GitOpsStatusCmd())

	return cmd
}

func GitOpsStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether Argo CD is installed",
		Long:  ``,
		PreRun: func(cmd *cobra.Command, args []string) {
			viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			s, err := newServices(v)
			if err != nil {
				return err
			}

			status, err := s.detection.IsInstalled(cmd.Context(), v.GetString("context"), v.GetBool("refresh"))
			if err != nil {
				return humanizeError(v, errors.Wrap(err, "failed to detect gitops installation"))
			}

			print.InstallationStatus(status, v.GetString("output"))

			return nil
		},
	}

	cmd.Flags().Bool("refresh", false, "bypass the cached detection result")
	cmd.Flags().StringP("output", "o", "", "output format. supported values: json")

	return cmd
}
