package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/kubepilot/kubepilot/pkg/cache"
	"github.com/kubepilot/kubepilot/pkg/cli"
	"github.com/kubepilot/kubepilot/pkg/gitops"
	"github.com/kubepilot/kubepilot/pkg/util"
)

type services struct {
	detection *gitops.DetectionService
	query     *gitops.ResourceQueryService
	syncer    *gitops.Syncer
}

func newServices(v *viper.Viper) (*services, error) {
	classifierConfig := cli.DefaultClassifierConfig()
	if path := v.GetString("error-patterns"); path != "" {
		loaded, err := cli.LoadClassifierConfig(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load error patterns")
		}
		classifierConfig = loaded
	}

	runner := cli.NewExecRunner(v.GetString("cli-binary"), cli.NewClassifier(classifierConfig))

	c := cache.NewCache()
	detection := gitops.NewDetectionService(runner, c)
	query := gitops.NewResourceQueryService(runner, c, detection)
	tracker := gitops.NewOperationTracker(query)
	syncer := gitops.NewSyncer(runner, c, tracker)

	return &services{
		detection: detection,
		query:     query,
		syncer:    syncer,
	}, nil
}

// humanizeError replaces failures the user can fix themselves with a short
// actionable message instead of the full wrapped chain.
func humanizeError(v *viper.Viper, err error) error {
	if err == nil {
		return nil
	}
	if cli.ClassificationOf(err) == cli.ClassificationBinaryNotFound {
		return util.ActionableError{
			Message: fmt.Sprintf("%s was not found in PATH. Install it or point --cli-binary at a compatible CLI.", v.GetString("cli-binary")),
		}
	}
	return err
}
