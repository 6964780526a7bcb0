package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kubepilot",
		Short: "Cluster management backend and CLI",
		Long:  ``,
		PreRun: func(cmd *cobra.Command, args []string) {
			viper.BindPFlags(cmd.Flags())
		},
	}

	cobra.OnInitialize(initConfig)

	cmd.PersistentFlags().String("cli-binary", "kubectl", "cluster CLI binary to execute")
	cmd.PersistentFlags().String("context", "", "cluster context to target")
	cmd.PersistentFlags().String("error-patterns", "", "path to a YAML file overriding CLI error classification patterns")

	cmd.AddCommand(APICmd())
	cmd.AddCommand(GitOpsCmd())
	cmd.AddCommand(GetCmd())
	cmd.AddCommand(SyncCmd())
	cmd.AddCommand(RefreshCmd())
	cmd.AddCommand(VersionCmd())

	viper.BindPFlags(cmd.Flags())

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	return cmd
}

func InitAndExecute() {
	if err := RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("KUBEPILOT")
	viper.AutomaticEnv()
}
