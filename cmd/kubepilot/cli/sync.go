package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/kubepilot/kubepilot/pkg/gitops"
	"github.com/kubepilot/kubepilot/pkg/logger"
)

func SyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sync [appName]",
		Short:         "Trigger a sync of an Argo CD application and wait for it to finish",
		Long:          ``,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrigger(cmd, args[0], "Syncing", func(s *services, ctx context.Context, name string, namespace string, contextID string, timeout time.Duration) (*gitops.OperationResult, error) {
				return s.syncer.SyncApplication(ctx, name, namespace, contextID, timeout)
			})
		},
	}

	addTriggerFlags(cmd)

	return cmd
}

func RefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "refresh [appName]",
		Short:         "Hard refresh an Argo CD application and wait for it to finish",
		Long:          `Discards the controller's cached comparison state before reconciling.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrigger(cmd, args[0], "Refreshing", func(s *services, ctx context.Context, name string, namespace string, contextID string, timeout time.Duration) (*gitops.OperationResult, error) {
				return s.syncer.HardRefreshApplication(ctx, name, namespace, contextID, timeout)
			})
		},
	}

	addTriggerFlags(cmd)

	return cmd
}

func addTriggerFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("namespace", "n", "", "namespace of the application")
	cmd.Flags().Int("timeout", 300, "seconds to wait for the operation to complete")
}

type triggerFunc func(s *services, ctx context.Context, name string, namespace string, contextID string, timeout time.Duration) (*gitops.OperationResult, error)

func runTrigger(cmd *cobra.Command, appName string, action string, trigger triggerFunc) error {
	v := viper.GetViper()

	log := logger.NewCLILogger()
	log.Initialize()

	s, err := newServices(v)
	if err != nil {
		return err
	}

	log.ActionWithSpinner("%s application %s", action, appName)

	result, err := trigger(s, cmd.Context(), appName, v.GetString("namespace"), v.GetString("context"), time.Duration(v.GetInt("timeout"))*time.Second)
	if err != nil {
		log.FinishSpinnerWithError()
		return humanizeError(v, err)
	}

	if !result.Success {
		log.FinishSpinnerWithError()
		log.Errorf("Operation did not succeed: %s", result.Message)
		os.Exit(1)
	}

	log.FinishSpinner()
	log.Finish()

	return nil
}
