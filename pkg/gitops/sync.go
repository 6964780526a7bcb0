package gitops

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/kubepilot/kubepilot/pkg/cache"
	"github.com/kubepilot/kubepilot/pkg/cli"
)

const (
	refreshAnnotation = "argocd.argoproj.io/refresh"

	refreshTypeNormal = "normal"
	refreshTypeHard   = "hard"
)

// Syncer triggers sync and refresh operations on applications. The trigger is
// an annotation on the application resource; the outcome is only observable
// by polling, which is handed off to the OperationTracker.
type Syncer struct {
	runner  cli.Runner
	cache   *cache.Cache
	tracker *OperationTracker
}

func NewSyncer(runner cli.Runner, c *cache.Cache, tracker *OperationTracker) *Syncer {
	return &Syncer{
		runner:  runner,
		cache:   c,
		tracker: tracker,
	}
}

// SyncApplication asks Argo CD to reconcile the application against its
// source and waits for the resulting operation to finish.
func (s *Syncer) SyncApplication(ctx context.Context, name string, namespace string, contextID string, timeout time.Duration) (*OperationResult, error) {
	return s.trigger(ctx, name, namespace, contextID, refreshTypeNormal, timeout)
}

// HardRefreshApplication additionally discards Argo CD's cached comparison
// state before reconciling.
func (s *Syncer) HardRefreshApplication(ctx context.Context, name string, namespace string, contextID string, timeout time.Duration) (*OperationResult, error) {
	return s.trigger(ctx, name, namespace, contextID, refreshTypeHard, timeout)
}

func (s *Syncer) trigger(ctx context.Context, name string, namespace string, contextID string, refreshType string, timeout time.Duration) (*OperationResult, error) {
	args := []string{"annotate", applicationResource, name, refreshAnnotation + "=" + refreshType, "--overwrite"}
	if namespace != "" {
		args = append(args, "-n", namespace)
	}

	if _, err := s.runner.Run(ctx, cli.RunOptions{Context: contextID}, args...); err != nil {
		return nil, errors.Wrapf(err, "failed to annotate application %s", name)
	}

	// the cached list no longer reflects the cluster
	s.cache.Invalidate(applicationsCacheKey(contextID))

	result, err := s.tracker.TrackOperation(ctx, name, namespace, contextID, timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to track operation on application %s", name)
	}

	return result, nil
}
