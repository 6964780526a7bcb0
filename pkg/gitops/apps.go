package gitops

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/kubepilot/kubepilot/pkg/cache"
	"github.com/kubepilot/kubepilot/pkg/cli"
	"github.com/kubepilot/kubepilot/pkg/logger"
)

const (
	applicationsCacheTTL = 30 // seconds

	applicationResource = "applications.argoproj.io"
)

func applicationsCacheKey(contextID string) string {
	return fmt.Sprintf("applications:%s", contextID)
}

// ResourceQueryService lists and fetches the Argo CD applications in a
// cluster. List results are cached briefly; single application fetches always
// go to the cluster because they back detail views that the user just opened.
type ResourceQueryService struct {
	runner    cli.Runner
	cache     *cache.Cache
	detection *DetectionService
}

func NewResourceQueryService(runner cli.Runner, c *cache.Cache, detection *DetectionService) *ResourceQueryService {
	return &ResourceQueryService{
		runner:    runner,
		cache:     c,
		detection: detection,
	}
}

// ListApplications returns all applications for a context. When Argo CD is
// not installed it returns an empty list, not an error. On a transient
// failure it falls back to the last cached list even if that entry has
// expired.
func (s *ResourceQueryService) ListApplications(ctx context.Context, contextID string, bypassCache bool) ([]Application, error) {
	if !bypassCache {
		if cached, ok := s.cache.Get(applicationsCacheKey(contextID)); ok {
			if apps, ok := cached.([]Application); ok {
				return apps, nil
			}
		}
	}

	installation, err := s.detection.IsInstalled(ctx, contextID, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to detect argocd")
	}
	if !installation.Installed {
		return []Application{}, nil
	}

	result, err := s.runner.Run(ctx, cli.RunOptions{Context: contextID}, "get", applicationResource, "-A", "-o", "json")
	if err != nil {
		if cli.IsTransient(err) {
			if stale, ok, _ := s.cache.GetStale(applicationsCacheKey(contextID)); ok {
				if apps, ok := stale.([]Application); ok {
					logger.Infof("transient failure listing applications for context %s, serving stale cache: %v", contextID, err)
					return apps, nil
				}
			}
		}
		return nil, errors.Wrap(err, "failed to list applications")
	}

	apps := parseApplicationList(result.Stdout)

	s.cache.Set(applicationsCacheKey(contextID), apps, applicationsCacheTTL)

	return apps, nil
}

// GetApplication fetches a single application, bypassing the list cache. A
// deleted application surfaces as a NotFound classified error so callers can
// drop it from their views instead of showing a failure.
func (s *ResourceQueryService) GetApplication(ctx context.Context, name string, namespace string, contextID string) (*Application, error) {
	args := []string{"get", applicationResource, name, "-o", "json"}
	if namespace != "" {
		args = append(args, "-n", namespace)
	}

	result, err := s.runner.Run(ctx, cli.RunOptions{Context: contextID}, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get application %s", name)
	}

	raw := json.RawMessage(result.Stdout)
	app, err := parseApplication(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse application %s", name)
	}

	return app, nil
}

// InvalidateApplications drops the cached application list for a context.
func (s *ResourceQueryService) InvalidateApplications(contextID string) {
	s.cache.Invalidate(applicationsCacheKey(contextID))
}

type rawApplication struct {
	Metadata struct {
		Name      string `json:"name"`
		Namespace string `json:"namespace"`
	} `json:"metadata"`
	Spec struct {
		Project string `json:"project"`
		Source  struct {
			RepoURL        string `json:"repoURL"`
			Path           string `json:"path"`
			TargetRevision string `json:"targetRevision"`
		} `json:"source"`
	} `json:"spec"`
	Status struct {
		Sync struct {
			Status   string `json:"status"`
			Revision string `json:"revision"`
		} `json:"sync"`
		Health struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"health"`
		Resources []struct {
			Kind      string `json:"kind"`
			Name      string `json:"name"`
			Namespace string `json:"namespace"`
			Status    string `json:"status"`
			Health    *struct {
				Status  string `json:"status"`
				Message string `json:"message"`
			} `json:"health"`
		} `json:"resources"`
		OperationState *struct {
			Phase      string     `json:"phase"`
			Message    string     `json:"message"`
			StartedAt  time.Time  `json:"startedAt"`
			FinishedAt *time.Time `json:"finishedAt"`
		} `json:"operationState"`
	} `json:"status"`
}

// parseApplicationList decodes the CLI's list output. Records that cannot be
// decoded or that are missing their identity are skipped with a warning, they
// never fail the whole list.
func parseApplicationList(stdout []byte) []Application {
	list := struct {
		Items []json.RawMessage `json:"items"`
	}{}
	if err := json.Unmarshal(stdout, &list); err != nil {
		logger.Warnf("failed to unmarshal application list: %v", err)
		return []Application{}
	}

	apps := []Application{}
	for i, item := range list.Items {
		app, err := parseApplication(item)
		if err != nil {
			logger.Warnf("skipping malformed application record at index %d: %v", i, err)
			continue
		}
		apps = append(apps, *app)
	}

	return apps
}

// parseApplication maps one raw record into the typed model. Absent or
// mistyped optional fields become Unknown or empty values; only a missing
// name makes the record malformed.
func parseApplication(raw json.RawMessage) (*Application, error) {
	record := rawApplication{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal application record")
	}

	if record.Metadata.Name == "" {
		return nil, errors.New("application record has no name")
	}

	app := &Application{
		Name:      record.Metadata.Name,
		Namespace: record.Metadata.Namespace,
		Project:   record.Spec.Project,
		SyncStatus: SyncStatus{
			Status:   parseSyncStatusCode(record.Status.Sync.Status),
			Revision: record.Status.Sync.Revision,
			Target: SourceRef{
				RepoURL:        record.Spec.Source.RepoURL,
				Path:           record.Spec.Source.Path,
				TargetRevision: record.Spec.Source.TargetRevision,
			},
		},
		HealthStatus: HealthStatus{
			Status:  parseHealthStatusCode(record.Status.Health.Status),
			Message: record.Status.Health.Message,
		},
	}

	for _, resource := range record.Status.Resources {
		rs := ResourceStatus{
			Kind:       resource.Kind,
			Name:       resource.Name,
			Namespace:  resource.Namespace,
			SyncStatus: resource.Status,
		}
		if resource.Health != nil {
			rs.HealthStatus = parseHealthStatusCode(resource.Health.Status)
			rs.Message = resource.Health.Message
		}
		app.Resources = append(app.Resources, rs)
	}

	if record.Status.OperationState != nil {
		app.LastOperation = &OperationState{
			Phase:      parseOperationPhase(record.Status.OperationState.Phase),
			Message:    record.Status.OperationState.Message,
			StartedAt:  record.Status.OperationState.StartedAt,
			FinishedAt: record.Status.OperationState.FinishedAt,
		}
	}

	return app, nil
}

func parseSyncStatusCode(status string) SyncStatusCode {
	switch SyncStatusCode(status) {
	case SyncStatusSynced, SyncStatusOutOfSync:
		return SyncStatusCode(status)
	}
	return SyncStatusUnknown
}

func parseHealthStatusCode(status string) HealthStatusCode {
	switch HealthStatusCode(status) {
	case HealthStatusHealthy, HealthStatusDegraded, HealthStatusProgressing, HealthStatusSuspended, HealthStatusMissing:
		return HealthStatusCode(status)
	}
	return HealthStatusUnknown
}

func parseOperationPhase(phase string) OperationPhase {
	switch OperationPhase(phase) {
	case OperationPhaseTerminating, OperationPhaseSucceeded, OperationPhaseFailed, OperationPhaseError:
		return OperationPhase(phase)
	}
	return OperationPhaseRunning
}
