package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/kubepilot/kubepilot/pkg/apiserver"
	"github.com/kubepilot/kubepilot/pkg/logger"
	"github.com/kubepilot/kubepilot/pkg/version"
)

func APICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Starts the API server",
		Long:  ``,
		PreRun: func(cmd *cobra.Command, args []string) {
			viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			if v.GetString("log-level") == "debug" {
				logger.SetDebug()
			}

			params := &apiserver.APIServerParams{
				Version:          version.Version(),
				BindAddr:         v.GetString("bind"),
				CLIBinary:        v.GetString("cli-binary"),
				ErrorPatternFile: v.GetString("error-patterns"),
				RefreshContexts:  v.GetStringSlice("refresh-contexts"),
				RefreshSchedule:  v.GetString("refresh-schedule"),
			}

			return apiserver.Start(params)
		},
	}

	cmd.Flags().String("bind", ":3000", "address to listen on")
	cmd.Flags().String("log-level", "info", "set the log level")
	cmd.Flags().StringSlice("refresh-contexts", nil, "cluster contexts to refresh in the background")
	cmd.Flags().String("refresh-schedule", "", "cron schedule for the background refresher")

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	return cmd
}
