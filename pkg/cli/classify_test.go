package cli

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   Classification
	}{
		{
			name:   "forbidden",
			stderr: `Error from server (Forbidden): applications.argoproj.io is forbidden: User "system:serviceaccount:default:viewer" cannot list resource`,
			want:   ClassificationPermissionDenied,
		},
		{
			name:   "unauthorized",
			stderr: "error: You must be logged in to the server (Unauthorized)",
			want:   ClassificationPermissionDenied,
		},
		{
			name:   "resource type not registered",
			stderr: `error: the server doesn't have a resource type "applications"`,
			want:   ClassificationNotFound,
		},
		{
			name:   "named resource missing",
			stderr: `Error from server (NotFound): applications.argoproj.io "app1" not found`,
			want:   ClassificationNotFound,
		},
		{
			name:   "connection refused",
			stderr: "The connection to the server 10.0.0.1:6443 was refused - did you specify the right host or port?\ndial tcp 10.0.0.1:6443: connect: connection refused",
			want:   ClassificationConnectionFailed,
		},
		{
			name:   "dns failure",
			stderr: "dial tcp: lookup cluster.example.com: no such host",
			want:   ClassificationConnectionFailed,
		},
		{
			name:   "server side timeout",
			stderr: "Error from server (Timeout): the request timed out",
			want:   ClassificationTimeout,
		},
		{
			name:   "unrecognized",
			stderr: "something unexpected happened",
			want:   ClassificationUnknown,
		},
		{
			name:   "empty stderr",
			stderr: "",
			want:   ClassificationUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(DefaultClassifierConfig())
			assert.Equal(t, tt.want, c.Classify(tt.stderr))
		})
	}
}

func TestClassifier_CustomPatterns(t *testing.T) {
	config := DefaultClassifierConfig()
	config.ConnectionFailed = append(config.ConnectionFailed, "cluster unreachable")

	c := NewClassifier(config)
	assert.Equal(t, ClassificationConnectionFailed, c.Classify("Kubernetes cluster unreachable"))
}

func TestLoadClassifierConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.yaml")
	contents := `notFound:
- no such resource
`
	require.NoError(t, ioutil.WriteFile(path, []byte(contents), 0644))

	config, err := LoadClassifierConfig(path)
	require.NoError(t, err)

	// overridden section replaces the defaults
	assert.Equal(t, []string{"no such resource"}, config.NotFound)

	// untouched sections keep the defaults
	assert.Equal(t, DefaultClassifierConfig().PermissionDenied, config.PermissionDenied)
}

func TestLoadClassifierConfig_MissingFile(t *testing.T) {
	_, err := LoadClassifierConfig(filepath.Join(os.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestClassificationOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Classification
	}{
		{
			name: "nil",
			err:  nil,
			want: Classification(""),
		},
		{
			name: "run error",
			err:  &RunError{Classification: ClassificationNotFound, Err: errors.New("command failed")},
			want: ClassificationNotFound,
		},
		{
			name: "wrapped run error",
			err:  errors.Wrap(&RunError{Classification: ClassificationTimeout, Err: errors.New("command failed")}, "failed to list applications"),
			want: ClassificationTimeout,
		},
		{
			name: "unrelated error",
			err:  errors.New("boom"),
			want: ClassificationUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassificationOf(tt.err))
		})
	}
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&RunError{Classification: ClassificationTimeout, Err: errors.New("x")}))
	assert.True(t, IsTransient(&RunError{Classification: ClassificationConnectionFailed, Err: errors.New("x")}))
	assert.False(t, IsTransient(&RunError{Classification: ClassificationPermissionDenied, Err: errors.New("x")}))
	assert.False(t, IsTransient(errors.New("x")))
}
