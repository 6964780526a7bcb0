package gitops

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/kubepilot/kubepilot/pkg/cli"
)

type fakeResponse struct {
	stdout string
	err    error
}

// fakeRunner scripts CLI responses keyed by the joined argument list and
// records every invocation.
type fakeRunner struct {
	responses map[string]fakeResponse
	calls     []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		responses: map[string]fakeResponse{},
	}
}

func (r *fakeRunner) respond(args string, stdout string) {
	r.responses[args] = fakeResponse{stdout: stdout}
}

func (r *fakeRunner) fail(args string, classification cli.Classification) {
	r.responses[args] = fakeResponse{
		err: &cli.RunError{
			Classification: classification,
			Stderr:         "scripted failure",
			Err:            errors.New("command failed"),
		},
	}
}

func (r *fakeRunner) Run(ctx context.Context, opts cli.RunOptions, args ...string) (*cli.RunResult, error) {
	key := strings.Join(args, " ")
	r.calls = append(r.calls, key)

	response, ok := r.responses[key]
	if !ok {
		return nil, &cli.RunError{
			Classification: cli.ClassificationUnknown,
			Err:            errors.Errorf("unexpected command: %s", key),
		}
	}
	if response.err != nil {
		return nil, response.err
	}
	return &cli.RunResult{
		Stdout: []byte(response.stdout),
	}, nil
}

func (r *fakeRunner) callCount(args string) int {
	count := 0
	for _, call := range r.calls {
		if call == args {
			count++
		}
	}
	return count
}

const (
	platformStatusArgs = "get platformstatuses.kubepilot.io cluster -o json"
	crdArgs            = "get crd applications.argoproj.io"
	deploymentsArgs    = "get deployments -A -l app.kubernetes.io/name=argocd-server -o json"
	listAppsArgs       = "get applications.argoproj.io -A -o json"
)
