package gitops

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/kubepilot/kubepilot/pkg/cli"
	"github.com/kubepilot/kubepilot/pkg/logger"
)

const (
	DefaultTrackTimeout = 300 * time.Second
	defaultPollInterval = 2 * time.Second
)

type applicationGetter interface {
	GetApplication(ctx context.Context, name string, namespace string, contextID string) (*Application, error)
}

// OperationTracker polls an application until its last operation reaches a
// terminal phase or the tracker's own timeout elapses. The timeout is owned
// by the tracker; a slow individual fetch cannot extend it because each fetch
// carries its own shorter per-call timeout inside the runner.
//
// Callers must not track the same application concurrently; serializing
// sync and refresh actions per application is their responsibility.
type OperationTracker struct {
	query        applicationGetter
	pollInterval time.Duration
	now          func() time.Time
	sleep        func(time.Duration)
}

func NewOperationTracker(query applicationGetter) *OperationTracker {
	return &OperationTracker{
		query:        query,
		pollInterval: defaultPollInterval,
		now:          time.Now,
		sleep:        time.Sleep,
	}
}

// TrackOperation blocks until the operation on the named application reaches
// a terminal phase. Success is true only for a Succeeded phase. A zero
// timeout means the 300 second default. Timing out is reported as a result,
// not an error, because it is the tracker's decision rather than a cluster
// reported state.
func (t *OperationTracker) TrackOperation(ctx context.Context, name string, namespace string, contextID string, timeout time.Duration) (*OperationResult, error) {
	if timeout == 0 {
		timeout = DefaultTrackTimeout
	}

	start := t.now()

	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "tracking canceled")
		}

		if t.now().Sub(start) > timeout {
			return &OperationResult{
				Success: false,
				Message: "timed out waiting for operation to complete",
			}, nil
		}

		app, err := t.query.GetApplication(ctx, name, namespace, contextID)
		if err != nil {
			if cli.IsTransient(err) {
				// a blip mid-poll is not an outcome, keep polling
				logger.Debugf("transient failure polling application %s: %v", name, err)
				t.sleep(t.pollInterval)
				continue
			}
			return nil, errors.Wrapf(err, "failed to poll application %s", name)
		}

		if app.LastOperation != nil && app.LastOperation.Phase.IsTerminal() {
			return resultForPhase(app.LastOperation), nil
		}

		t.sleep(t.pollInterval)
	}
}

func resultForPhase(op *OperationState) *OperationResult {
	if op.Phase == OperationPhaseSucceeded {
		return &OperationResult{
			Success: true,
		}
	}

	message := op.Message
	if message == "" {
		message = "operation failed"
	}
	return &OperationResult{
		Success: false,
		Message: message,
	}
}
