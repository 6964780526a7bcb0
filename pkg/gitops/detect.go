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
	detectionCacheTTL = 300 // seconds

	platformStatusResource = "platformstatuses.kubepilot.io"
	platformStatusName     = "cluster"
	applicationCRDName     = "applications.argoproj.io"
	argocdServerSelector   = "app.kubernetes.io/name=argocd-server"
)

func detectionCacheKey(contextID string) string {
	return fmt.Sprintf("detection:%s", contextID)
}

// DetectionService determines whether Argo CD is installed in a cluster. The
// kubepilot operator's PlatformStatus object is the primary source and is
// trusted completely when it reports a result; querying for the application
// CRD is the fallback.
type DetectionService struct {
	runner cli.Runner
	cache  *cache.Cache
	now    func() time.Time
}

func NewDetectionService(runner cli.Runner, c *cache.Cache) *DetectionService {
	return &DetectionService{
		runner: runner,
		cache:  c,
		now:    time.Now,
	}
}

type platformStatus struct {
	Status struct {
		Components struct {
			GitOps *struct {
				Detected  bool   `json:"detected"`
				Namespace string `json:"namespace"`
				Version   string `json:"version"`
			} `json:"gitops"`
		} `json:"components"`
	} `json:"status"`
}

type deploymentList struct {
	Items []struct {
		Metadata struct {
			Namespace string            `json:"namespace"`
			Labels    map[string]string `json:"labels"`
		} `json:"metadata"`
	} `json:"items"`
}

// IsInstalled returns the installation status of Argo CD for the given
// cluster context. Results are cached for five minutes; mutating commands and
// explicit refreshes bypass the cache.
func (s *DetectionService) IsInstalled(ctx context.Context, contextID string, bypassCache bool) (*InstallationStatus, error) {
	if !bypassCache {
		if cached, ok := s.cache.Get(detectionCacheKey(contextID)); ok {
			if status, ok := cached.(*InstallationStatus); ok {
				return status, nil
			}
		}
	}

	status, err := s.detectFromOperator(ctx, contextID)
	if err != nil {
		logger.Debugf("platform status unavailable for context %s, falling back to crd query: %v", contextID, err)

		status, err = s.detectFromCRD(ctx, contextID)
		if err != nil {
			// an ambiguous failure must not be cached as "not installed"
			return nil, err
		}
	}

	status.LastChecked = s.now()
	s.cache.Set(detectionCacheKey(contextID), status, detectionCacheTTL)

	return status, nil
}

// detectFromOperator reads the operator maintained PlatformStatus object. A
// missing object or a status without a gitops component entry is an error so
// the caller falls back; an entry with detected=false is a trusted negative.
func (s *DetectionService) detectFromOperator(ctx context.Context, contextID string) (*InstallationStatus, error) {
	result, err := s.runner.Run(ctx, cli.RunOptions{Context: contextID}, "get", platformStatusResource, platformStatusName, "-o", "json")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get platform status")
	}

	ps := platformStatus{}
	if err := json.Unmarshal(result.Stdout, &ps); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal platform status")
	}

	if ps.Status.Components.GitOps == nil {
		return nil, errors.New("platform status does not report a gitops component")
	}

	return &InstallationStatus{
		Installed:       ps.Status.Components.GitOps.Detected,
		Namespace:       ps.Status.Components.GitOps.Namespace,
		Version:         ps.Status.Components.GitOps.Version,
		DetectionMethod: DetectionMethodOperator,
	}, nil
}

// detectFromCRD checks for the Argo CD application CRD. A clean NotFound is a
// valid "not installed" answer; transport failures propagate so they are
// never conflated with absence. Namespace and version discovery is best
// effort, partial data beats total failure.
func (s *DetectionService) detectFromCRD(ctx context.Context, contextID string) (*InstallationStatus, error) {
	_, err := s.runner.Run(ctx, cli.RunOptions{Context: contextID}, "get", "crd", applicationCRDName)
	if err != nil {
		if cli.IsNotFound(err) {
			return &InstallationStatus{
				Installed:       false,
				DetectionMethod: DetectionMethodCRD,
			}, nil
		}
		return nil, errors.Wrap(err, "failed to check for application crd")
	}

	status := &InstallationStatus{
		Installed:       true,
		DetectionMethod: DetectionMethodCRD,
	}

	namespace, version, err := s.discoverServerDeployment(ctx, contextID)
	if err != nil {
		logger.Debugf("argocd server discovery failed for context %s: %v", contextID, err)
		return status, nil
	}
	status.Namespace = namespace
	status.Version = version

	return status, nil
}

func (s *DetectionService) discoverServerDeployment(ctx context.Context, contextID string) (string, string, error) {
	result, err := s.runner.Run(ctx, cli.RunOptions{Context: contextID}, "get", "deployments", "-A", "-l", argocdServerSelector, "-o", "json")
	if err != nil {
		return "", "", errors.Wrap(err, "failed to list argocd server deployments")
	}

	deployments := deploymentList{}
	if err := json.Unmarshal(result.Stdout, &deployments); err != nil {
		return "", "", errors.Wrap(err, "failed to unmarshal deployments")
	}

	if len(deployments.Items) == 0 {
		return "", "", errors.New("no argocd server deployment found")
	}

	item := deployments.Items[0]
	return item.Metadata.Namespace, item.Metadata.Labels["app.kubernetes.io/version"], nil
}

// InvalidateDetection drops the cached detection result for a context.
func (s *DetectionService) InvalidateDetection(contextID string) {
	s.cache.Invalidate(detectionCacheKey(contextID))
}
