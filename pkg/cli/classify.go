package cli

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

type Classification string

const (
	ClassificationBinaryNotFound   Classification = "binary-not-found"
	ClassificationPermissionDenied Classification = "permission-denied"
	ClassificationNotFound         Classification = "not-found"
	ClassificationTimeout          Classification = "timeout"
	ClassificationConnectionFailed Classification = "connection-failed"
	ClassificationUnknown          Classification = "unknown"
)

// RunError is the only error type the runner returns. Stderr carries the raw
// diagnostic text for the UI; Classification is what callers branch on.
type RunError struct {
	Classification Classification
	Stderr         string
	Err            error
}

func (e *RunError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%v: %s", e.Err, strings.TrimSpace(e.Stderr))
	}
	return e.Err.Error()
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// ClassificationOf unwraps err to the runner's classification, or
// ClassificationUnknown when err did not come from the runner.
func ClassificationOf(err error) Classification {
	if err == nil {
		return ""
	}
	runErr := &RunError{}
	if errors.As(err, &runErr) {
		return runErr.Classification
	}
	return ClassificationUnknown
}

func IsNotFound(err error) bool {
	return ClassificationOf(err) == ClassificationNotFound
}

func IsPermissionDenied(err error) bool {
	return ClassificationOf(err) == ClassificationPermissionDenied
}

// IsTransient reports whether err looks like a passing infrastructure failure
// that a retry or a stale cache read can paper over.
func IsTransient(err error) bool {
	c := ClassificationOf(err)
	return c == ClassificationTimeout || c == ClassificationConnectionFailed
}

// ClassifierConfig holds the stderr substrings used to classify CLI failures.
// The matching is heuristic; the patterns are data so they can be extended
// when the CLI's error text changes between versions.
type ClassifierConfig struct {
	PermissionDenied []string `json:"permissionDenied"`
	NotFound         []string `json:"notFound"`
	ConnectionFailed []string `json:"connectionFailed"`
	Timeout          []string `json:"timeout"`
}

func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		PermissionDenied: []string{
			"forbidden",
			"unauthorized",
			"permission denied",
		},
		NotFound: []string{
			"notfound",
			"not found",
			"the server doesn't have a resource type",
			"no matches for kind",
		},
		ConnectionFailed: []string{
			"connection refused",
			"no such host",
			"unable to connect to the server",
			"i/o timeout",
		},
		Timeout: []string{
			"timed out",
			"deadline exceeded",
		},
	}
}

// LoadClassifierConfig merges pattern overrides from a YAML file on top of
// the defaults. Empty lists in the file leave the defaults in place.
func LoadClassifierConfig(path string) (ClassifierConfig, error) {
	config := DefaultClassifierConfig()

	b, err := ioutil.ReadFile(path)
	if err != nil {
		return config, errors.Wrap(err, "failed to read classifier config")
	}

	overrides := ClassifierConfig{}
	if err := yaml.Unmarshal(b, &overrides); err != nil {
		return config, errors.Wrap(err, "failed to unmarshal classifier config")
	}

	if len(overrides.PermissionDenied) > 0 {
		config.PermissionDenied = overrides.PermissionDenied
	}
	if len(overrides.NotFound) > 0 {
		config.NotFound = overrides.NotFound
	}
	if len(overrides.ConnectionFailed) > 0 {
		config.ConnectionFailed = overrides.ConnectionFailed
	}
	if len(overrides.Timeout) > 0 {
		config.Timeout = overrides.Timeout
	}

	return config, nil
}

type Classifier struct {
	config ClassifierConfig
}

func NewClassifier(config ClassifierConfig) *Classifier {
	return &Classifier{
		config: config,
	}
}

// Classify maps stderr text to a classification. Permission errors are
// checked first because some CLIs phrase them with "not found" wording for
// resources the user cannot see.
func (c *Classifier) Classify(stderr string) Classification {
	lowered := strings.ToLower(stderr)

	if matchesAny(lowered, c.config.PermissionDenied) {
		return ClassificationPermissionDenied
	}
	if matchesAny(lowered, c.config.NotFound) {
		return ClassificationNotFound
	}
	if matchesAny(lowered, c.config.ConnectionFailed) {
		return ClassificationConnectionFailed
	}
	if matchesAny(lowered, c.config.Timeout) {
		return ClassificationTimeout
	}

	return ClassificationUnknown
}

func matchesAny(lowered string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(lowered, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
