package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/kubepilot/kubepilot/pkg/cache"
	"github.com/kubepilot/kubepilot/pkg/cli"
	"github.com/kubepilot/kubepilot/pkg/gitops"
)

type scriptedRunner struct {
	responses map[string]string
	failures  map[string]cli.Classification
}

func (r *scriptedRunner) Run(ctx context.Context, opts cli.RunOptions, args ...string) (*cli.RunResult, error) {
	key := strings.Join(args, " ")
	if classification, ok := r.failures[key]; ok {
		return nil, &cli.RunError{
			Classification: classification,
			Stderr:         "scripted failure",
			Err:            errors.New("command failed"),
		}
	}
	if stdout, ok := r.responses[key]; ok {
		return &cli.RunResult{Stdout: []byte(stdout)}, nil
	}
	return nil, &cli.RunError{
		Classification: cli.ClassificationUnknown,
		Err:            errors.Errorf("unexpected command: %s", key),
	}
}

func newTestRouter(runner cli.Runner) *mux.Router {
	c := cache.NewCache()
	detection := gitops.NewDetectionService(runner, c)
	query := gitops.NewResourceQueryService(runner, c, detection)
	tracker := gitops.NewOperationTracker(query)
	syncer := gitops.NewSyncer(runner, c, tracker)

	handler := NewHandler(detection, query, syncer)

	r := mux.NewRouter()
	RegisterRoutes(r, handler)
	return r
}

func TestGetGitOpsStatus(t *testing.T) {
	runner := &scriptedRunner{
		responses: map[string]string{
			"get platformstatuses.kubepilot.io cluster -o json": `{"status":{"components":{"gitops":{"detected":true,"namespace":"argocd","version":"v2.9.3"}}}}`,
		},
	}

	router := newTestRouter(runner)

	req := httptest.NewRequest("GET", "/api/v1/gitops/ctx1/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	response := GetGitOpsStatusResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Installation)
	assert.True(t, response.Installation.Installed)
	assert.Equal(t, "argocd", response.Installation.Namespace)
	assert.Equal(t, gitops.DetectionMethodOperator, response.Installation.DetectionMethod)
}

func TestListApplications(t *testing.T) {
	runner := &scriptedRunner{
		responses: map[string]string{
			"get platformstatuses.kubepilot.io cluster -o json": `{"status":{"components":{"gitops":{"detected":true}}}}`,
			"get applications.argoproj.io -A -o json":           `{"items":[{"metadata":{"name":"guestbook","namespace":"argocd"},"status":{"sync":{"status":"OutOfSync"},"health":{"status":"Healthy"}}}]}`,
		},
	}

	router := newTestRouter(runner)

	req := httptest.NewRequest("GET", "/api/v1/gitops/ctx1/apps", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	response := ListApplicationsResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Applications, 1)
	assert.Equal(t, "guestbook", response.Applications[0].Name)
	assert.Equal(t, gitops.StatusDescriptor{Icon: gitops.IconWarning, Color: gitops.ColorYellow}, response.Applications[0].Display)
}

func TestListApplications_PermissionDenied(t *testing.T) {
	runner := &scriptedRunner{
		responses: map[string]string{
			"get platformstatuses.kubepilot.io cluster -o json": `{"status":{"components":{"gitops":{"detected":true}}}}`,
		},
		failures: map[string]cli.Classification{
			"get applications.argoproj.io -A -o json": cli.ClassificationPermissionDenied,
		},
	}

	router := newTestRouter(runner)

	req := httptest.NewRequest("GET", "/api/v1/gitops/ctx1/apps", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)

	response := ErrorResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, string(cli.ClassificationPermissionDenied), response.Classification)
	assert.Equal(t, "scripted failure", response.Diagnostic)
}

func TestGetApplication_NotFound(t *testing.T) {
	runner := &scriptedRunner{
		failures: map[string]cli.Classification{
			"get applications.argoproj.io guestbook -o json -n argocd": cli.ClassificationNotFound,
		},
	}

	router := newTestRouter(runner)

	req := httptest.NewRequest("GET", "/api/v1/gitops/ctx1/apps/argocd/guestbook", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSyncApplication(t *testing.T) {
	runner := &scriptedRunner{
		responses: map[string]string{
			"annotate applications.argoproj.io guestbook argocd.argoproj.io/refresh=normal --overwrite -n argocd": "",
			"get applications.argoproj.io guestbook -o json -n argocd":                                           `{"metadata":{"name":"guestbook","namespace":"argocd"},"status":{"operationState":{"phase":"Succeeded","startedAt":"2024-04-01T10:00:00Z"}}}`,
		},
	}

	router := newTestRouter(runner)

	req := httptest.NewRequest("POST", "/api/v1/gitops/ctx1/apps/argocd/guestbook/sync", strings.NewReader(`{"timeoutSeconds":60}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	response := TriggerOperationResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Result)
	assert.True(t, response.Result.Success)
}
