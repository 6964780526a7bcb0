package cli

import (
	"context"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/kubepilot/kubepilot/pkg/logger"
)

const DefaultRunTimeout = 30 * time.Second

// RunOptions select the cluster a command targets and bound how long a single
// invocation may take. The timeout here is per call; long running workflows
// own their overall budget separately.
type RunOptions struct {
	Context string
	Timeout time.Duration
}

type RunResult struct {
	Stdout []byte
	Stderr []byte
}

// Runner executes the cluster CLI. Implementations must return a *RunError
// for any failure so callers can branch on the classification.
type Runner interface {
	Run(ctx context.Context, opts RunOptions, args ...string) (*RunResult, error)
}

// ExecRunner runs the cluster CLI binary as a subprocess.
type ExecRunner struct {
	binary     string
	classifier *Classifier
}

func NewExecRunner(binary string, classifier *Classifier) *ExecRunner {
	if binary == "" {
		binary = "kubectl"
	}
	if classifier == nil {
		classifier = NewClassifier(DefaultClassifierConfig())
	}
	return &ExecRunner{
		binary:     binary,
		classifier: classifier,
	}
}

func (r *ExecRunner) Run(ctx context.Context, opts RunOptions, args ...string) (*RunResult, error) {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultRunTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmdArgs := args
	if opts.Context != "" {
		cmdArgs = append([]string{"--context", opts.Context}, args...)
	}

	logger.Debugf("running %s %v", r.binary, cmdArgs)

	cmd := exec.CommandContext(runCtx, r.binary, cmdArgs...)

	stdout, stderr, err := run(cmd)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, &RunError{
				Classification: ClassificationBinaryNotFound,
				Stderr:         string(stderr),
				Err:            errors.Wrapf(err, "%s binary not found", r.binary),
			}
		}
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, &RunError{
				Classification: ClassificationTimeout,
				Stderr:         string(stderr),
				Err:            errors.Wrapf(runCtx.Err(), "command timed out after %s", timeout),
			}
		}
		return nil, &RunError{
			Classification: r.classifier.Classify(string(stderr)),
			Stderr:         string(stderr),
			Err:            errors.Wrap(err, "command failed"),
		}
	}

	return &RunResult{
		Stdout: stdout,
		Stderr: stderr,
	}, nil
}

func run(cmd *exec.Cmd) ([]byte, []byte, error) {
	stdoutReader, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create stdout reader")
	}
	defer stdoutReader.Close()

	stderrReader, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create stderr reader")
	}
	defer stderrReader.Close()

	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}

	var stdout, stderr []byte
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		stdout, _ = io.ReadAll(stdoutReader)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		stderr, _ = io.ReadAll(stderrReader)
	}()

	// cmd.Wait() must be called after all readers have completed
	wg.Wait()

	err = cmd.Wait()
	return stdout, stderr, err
}
