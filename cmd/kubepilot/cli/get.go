package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/kubepilot/kubepilot/pkg/print"
)

func GetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Display one or many resources",
		Long:  ``,
		PreRun: func(cmd *cobra.Command, args []string) {
			viper.BindPFlags(cmd.Flags())
		},
	}

	cmd.AddCommand(GetAppsCmd())

	return cmd
}

func GetAppsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apps",
		Aliases: []string{"app"},
		Short:   "Get the Argo CD applications in a cluster",
		Long:    ``,
		PreRun: func(cmd *cobra.Command, args []string) {
			viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			s, err := newServices(v)
			if err != nil {
				return err
			}

			apps, err := s.query.ListApplications(cmd.Context(), v.GetString("context"), v.GetBool("refresh"))
			if err != nil {
				return humanizeError(v, errors.Wrap(err, "failed to list applications"))
			}

			print.Applications(apps, v.GetString("output"))

			return nil
		},
	}

	cmd.Flags().Bool("refresh", false, "bypass the cached application list")
	cmd.Flags().StringP("output", "o", "", "output format. supported values: json")

	return cmd
}
